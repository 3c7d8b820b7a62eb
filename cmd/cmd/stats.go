// Copyright 2026 Dhanush Mallu
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//	http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
package cmd

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/dhanushmallu/polymer-nlp-extractor/lib/sentence"
	"github.com/dhanushmallu/polymer-nlp-extractor/lib/tokenizer"
	"github.com/dhanushmallu/polymer-nlp-extractor/lib/window"
)

var statsCmd = &cobra.Command{
	Use:   "stats [file]",
	Short: "Show sentence and window statistics for a document",
	Long: `Split a document the way the extraction pipeline would and report
sentence, token, and window counts per tokenizer backend. Reads from the
file argument, or from stdin when no file is given.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)

	statsCmd.Flags().Int("max-tokens", window.DefaultMaxTokens, "per-window token budget")
}

func runStats(cmd *cobra.Command, args []string) error {
	var text []byte
	var err error
	if len(args) == 1 {
		text, err = os.ReadFile(args[0])
	} else {
		text, err = io.ReadAll(os.Stdin)
	}
	if err != nil {
		return fmt.Errorf("reading document: %w", err)
	}

	maxTokens, _ := cmd.Flags().GetInt("max-tokens")
	doc := string(text)

	counters := []struct {
		name    string
		counter tokenizer.Counter
	}{
		{"words", tokenizer.NewWords()},
	}
	if bpe, err := tokenizer.NewBPECounter(""); err == nil {
		counters = append(counters, struct {
			name    string
			counter tokenizer.Counter
		}{"bpe", bpe})
	} else {
		fmt.Fprintf(os.Stderr, "BPE counter unavailable: %v\n", err)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "COUNTER\tTOKENS\tSENTENCES\tWINDOWS")
	for _, c := range counters {
		splitter := sentence.NewSplitter(c.counter, nil, zap.NewNop())
		sentences := splitter.Split(doc, maxTokens)

		packer := window.NewPacker(window.WithMaxTokens(maxTokens))
		windows, err := packer.Pack("stats", sentences, tokenizer.NewWords())
		if err != nil {
			return fmt.Errorf("packing windows: %w", err)
		}

		fmt.Fprintf(w, "%s\t%d\t%d\t%d\n",
			c.name, c.counter.CountTokens(doc), len(sentences), len(windows))
	}
	fmt.Fprintf(w, "chars\t%d\t\t\n", len(doc))
	return w.Flush()
}
