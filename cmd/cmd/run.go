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
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	extractor "github.com/dhanushmallu/polymer-nlp-extractor"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the extraction server",
	Long: `Start the HTTP API server for ensemble entity extraction.

Model backends are configured as name=endpoint pairs, either in the config
file under "models" or via POLYEXT_MODELS. Without any backend, the server
runs with the built-in gazetteer only.`,
	RunE: runServer,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringToString("models", nil, "model backends as name=endpoint pairs")
	runCmd.Flags().Int("max-window-tokens", 0, "per-window token budget (default 512)")
	runCmd.Flags().String("model-timeout", "", "per-model document deadline (default 120s)")
	runCmd.Flags().String("keep-alive", "", "idle runner shutdown delay, 0 to keep forever")
	runCmd.Flags().StringSlice("preload", nil, "models to warm up at startup")
	runCmd.Flags().Bool("gazetteer", true, "enable the built-in dictionary voter")

	mustBindPFlag("models", runCmd.Flags().Lookup("models"))
	mustBindPFlag("max_window_tokens", runCmd.Flags().Lookup("max-window-tokens"))
	mustBindPFlag("model_timeout", runCmd.Flags().Lookup("model-timeout"))
	mustBindPFlag("keep_alive", runCmd.Flags().Lookup("keep-alive"))
	mustBindPFlag("preload", runCmd.Flags().Lookup("preload"))
	mustBindPFlag("gazetteer", runCmd.Flags().Lookup("gazetteer"))
}

func runServer(cmd *cobra.Command, args []string) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	logger := newLogger()
	defer func() {
		_ = logger.Sync()
	}()

	readyC := make(chan struct{})
	go func() {
		<-readyC
		logger.Info("Extraction service is ready")
	}()

	extractor.RunService(ctx, logger, configFromViper(), readyC)
	return nil
}
