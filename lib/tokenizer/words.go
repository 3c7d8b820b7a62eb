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
	"regexp"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// wordPattern splits text into word tokens (keeping hyphen/underscore
// compounds together) or single non-space characters.
var wordPattern = regexp.MustCompile(`\w+(?:[-_]\w+)*|\S`)

// wordsVocabSize bounds the synthetic ID space of the Words tokenizer.
const wordsVocabSize = 1 << 20

// Words is a vocabulary-free tokenizer that splits on word boundaries and
// assigns stable synthetic IDs by hashing the token text. It backs the
// gazetteer runner and tests, where no WordPiece vocabulary is available.
type Words struct{}

// NewWords creates a Words tokenizer.
func NewWords() *Words {
	return &Words{}
}

// CountTokens returns the number of word tokens in the text.
func (t *Words) CountTokens(text string) int {
	if text == "" {
		return 0
	}
	return len(wordPattern.FindAllStringIndex(text, -1))
}

// Encode splits text into word tokens with byte offsets, truncated and
// padded to maxTokens.
func (t *Words) Encode(text string, maxTokens int) (Encoding, error) {
	indices := wordPattern.FindAllStringIndex(text, -1)

	n := len(indices)
	if n > maxTokens {
		n = maxTokens
	}

	out := Encoding{
		IDs:           make([]int, maxTokens),
		Tokens:        make([]string, maxTokens),
		AttentionMask: make([]int, maxTokens),
		Offsets:       make([][2]int, maxTokens),
	}
	for i := 0; i < n; i++ {
		token := text[indices[i][0]:indices[i][1]]
		out.Tokens[i] = token
		// ID 0 is reserved for padding.
		out.IDs[i] = int(xxhash.Sum64String(token)%uint64(wordsVocabSize-1)) + 1
		out.AttentionMask[i] = 1
		out.Offsets[i] = [2]int{indices[i][0], indices[i][1]}
	}
	return out, nil
}

// Detokenize joins word tokens with single spaces.
func (t *Words) Detokenize(tokens []string) string {
	kept := make([]string, 0, len(tokens))
	for _, token := range tokens {
		if token != "" {
			kept = append(kept, token)
		}
	}
	return strings.Join(kept, " ")
}
