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

// Package e2e exercises a running extraction server over HTTP.
//
// By default the suite starts an in-process server with the built-in
// gazetteer. Set POLYEXT_E2E_URL to run the same suite against an already
// running deployment with real model backends instead.
package e2e

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"testing"
	"time"

	"go.uber.org/zap"

	extractor "github.com/dhanushmallu/polymer-nlp-extractor"
)

// serverURL is the base URL of the server under test.
var serverURL string

func TestMain(m *testing.M) {
	if url := os.Getenv("POLYEXT_E2E_URL"); url != "" {
		serverURL = url
		os.Exit(m.Run())
	}

	port, err := freePort()
	if err != nil {
		fmt.Fprintf(os.Stderr, "picking server port: %v\n", err)
		os.Exit(1)
	}
	serverURL = fmt.Sprintf("http://127.0.0.1:%d", port)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	readyC := make(chan struct{})
	go extractor.RunService(ctx, zap.NewNop(), extractor.Config{
		ApiUrl:           serverURL,
		Gazetteer:        true,
		MaxWindowTokens:  128,
		OverlapSentences: 1,
	}, readyC)

	select {
	case <-readyC:
	case <-time.After(30 * time.Second):
		fmt.Fprintln(os.Stderr, "server did not become ready in time")
		os.Exit(1)
	}
	if err := waitHealthy(serverURL, 30*time.Second); err != nil {
		fmt.Fprintf(os.Stderr, "server never became healthy: %v\n", err)
		os.Exit(1)
	}

	code := m.Run()
	cancel()
	os.Exit(code)
}

// freePort asks the kernel for an unused TCP port.
func freePort() (int, error) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return 0, err
	}
	defer l.Close()
	return l.Addr().(*net.TCPAddr).Port, nil
}

// waitHealthy polls /healthz until the server answers.
func waitHealthy(base string, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	client := &http.Client{Timeout: time.Second}
	for time.Now().Before(deadline) {
		resp, err := client.Get(base + "/healthz")
		if err == nil {
			resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return nil
			}
		}
		time.Sleep(100 * time.Millisecond)
	}
	return fmt.Errorf("no healthy response from %s within %s", base, timeout)
}

func httpClient(t *testing.T) *http.Client {
	t.Helper()
	return &http.Client{Timeout: 30 * time.Second}
}
