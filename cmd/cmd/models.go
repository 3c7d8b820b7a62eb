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
	"net/http"
	"os"
	"text/tabwriter"
	"time"

	"github.com/bytedance/sonic/decoder"
	"github.com/spf13/cobra"

	extractor "github.com/dhanushmallu/polymer-nlp-extractor"
)

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "Show the model catalog",
	Long: `Show the tuned model catalog with ensemble weights.

By default, prints the built-in catalog. Use --server to query a running
extraction server for its registered and loaded models instead.

Examples:
  # Show the built-in catalog
  polyext models

  # Ask a running server which models it serves
  polyext models --server http://localhost:11500`,
	RunE: runModels,
}

func init() {
	rootCmd.AddCommand(modelsCmd)

	modelsCmd.Flags().String("server", "", "query a running server instead of the built-in catalog")
}

func runModels(cmd *cobra.Command, args []string) error {
	server, _ := cmd.Flags().GetString("server")
	if server != "" {
		return listServerModels(server)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tMODEL\tBASE WEIGHT\tRELIABILITY")
	for _, spec := range extractor.DefaultCatalog() {
		fmt.Fprintf(w, "%s\t%s\t%.2f\t%.2f\n",
			spec.Name, spec.ModelID, spec.Expertise.BaseWeight, spec.Expertise.Reliability)
	}
	return w.Flush()
}

func listServerModels(server string) error {
	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Get(server + "/api/models")
	if err != nil {
		return fmt.Errorf("querying %s: %w", server, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("querying %s: status %d", server, resp.StatusCode)
	}

	var models extractor.ModelsResponse
	if err := decoder.NewStreamDecoder(resp.Body).Decode(&models); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}

	loaded := make(map[string]bool, len(models.Loaded))
	for _, name := range models.Loaded {
		loaded[name] = true
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tLOADED")
	for _, name := range models.Models {
		fmt.Fprintf(w, "%s\t%v\n", name, loaded[name])
	}
	return w.Flush()
}
