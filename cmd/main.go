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

// Command polyext runs the polymer-science entity extraction service.
//
// Polyext splits scientific documents into sentence-aligned inference
// windows, fans them out to an ensemble of NER model backends, and
// aggregates the per-model votes into final entities with dynamic
// acceptance thresholds.
//
// Usage:
//
//	polyext run                    # Start the HTTP API server
//	polyext extract paper.txt      # Extract entities from a document
//	polyext models                 # Show the model catalog
package main

import (
	"github.com/dhanushmallu/polymer-nlp-extractor/cmd/cmd"
)

// https://goreleaser.com/cookbooks/using-main.version/
var version = "dev"

func main() {
	cmd.Version = version
	cmd.Execute()
}
