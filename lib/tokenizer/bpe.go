// Copyright 2026 Dhanush Mallu
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package tokenizer

import (
	"fmt"

	"github.com/pkoukk/tiktoken-go"
	tiktoken_loader "github.com/pkoukk/tiktoken-go-loader"
)

func init() {
	// Set the offline loader for tiktoken to avoid network requests
	tiktoken.SetBpeLoader(tiktoken_loader.NewOfflineLoader())
}

// BPECounter counts tokens with a tiktoken BPE encoding. It is used for
// window-budget estimation when a model ships no WordPiece vocabulary, and by
// the CLI stats output.
type BPECounter struct {
	tiktoken *tiktoken.Tiktoken
}

// NewBPECounter creates a BPE counter using tiktoken-go with embedded
// dictionaries. An empty encoding defaults to cl100k_base.
func NewBPECounter(encoding string) (*BPECounter, error) {
	if encoding == "" {
		encoding = "cl100k_base"
	}

	tk, err := tiktoken.GetEncoding(encoding)
	if err != nil {
		return nil, fmt.Errorf("getting tiktoken encoding %q: %w", encoding, err)
	}
	return &BPECounter{tiktoken: tk}, nil
}

// CountTokens returns the number of BPE tokens in the text.
func (t *BPECounter) CountTokens(text string) int {
	if text == "" {
		return 0
	}
	return len(t.tiktoken.Encode(text, nil, nil))
}
