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
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/bytedance/sonic/encoder"
	"github.com/spf13/cobra"

	extractor "github.com/dhanushmallu/polymer-nlp-extractor"
)

var extractCmd = &cobra.Command{
	Use:   "extract [file]",
	Short: "Extract entities from a document",
	Long: `Run the ensemble extraction pipeline over one document and print the
entities as JSON. Reads from the file argument, or from stdin when no file
is given.

Examples:
  # Extract from a file
  polyext extract paper.txt

  # Extract from stdin
  cat paper.txt | polyext extract

  # Extract with section headings for context detection
  polyext extract paper.txt --sections "Experimental,Results"`,
	Args: cobra.MaximumNArgs(1),
	RunE: runExtract,
}

func init() {
	rootCmd.AddCommand(extractCmd)

	extractCmd.Flags().StringSlice("sections", nil, "document section headings for context detection")
}

func runExtract(cmd *cobra.Command, args []string) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

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

	logger := newLogger()
	defer func() {
		_ = logger.Sync()
	}()

	engine, err := extractor.NewEngine(configFromViper(), logger)
	if err != nil {
		return fmt.Errorf("initializing engine: %w", err)
	}
	defer func() {
		_ = engine.Close()
	}()

	sections, _ := cmd.Flags().GetStringSlice("sections")
	result, err := engine.Extract(ctx, string(text), sections)
	if err != nil {
		return err
	}

	enc := encoder.NewStreamEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}
