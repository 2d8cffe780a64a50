// Copyright (c) 2024 The Epollhttp Authors. All rights reserved.
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

package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"time"

	"github.com/epollhttp/epollhttp/pkg/loadgen"
	"github.com/epollhttp/epollhttp/pkg/logging"
)

func main() {
	var (
		addr     string
		clients  int
		requests int
		file     string
		timeout  time.Duration
	)

	// Example command: go run main.go -addr 127.0.0.1:8000 -clients 4 -requests 100 -file image.jpeg
	flag.StringVar(&addr, "addr", "127.0.0.1:8000", "--addr 127.0.0.1:8000")
	flag.IntVar(&clients, "clients", 4, "--clients 4")
	flag.IntVar(&requests, "requests", 100, "--requests 100")
	flag.StringVar(&file, "file", "", "--file image.jpeg, the request body")
	flag.DurationVar(&timeout, "timeout", 5*time.Second, "--timeout 5s")
	flag.Parse()

	defer logging.Cleanup()

	payload := []byte("file=hello")
	if file != "" {
		var err error
		if payload, err = os.ReadFile(file); err != nil {
			logging.Fatalf("reading request body: %v", err)
		}
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	report, err := loadgen.Run(ctx, loadgen.Config{
		Addr:     addr,
		Clients:  clients,
		Requests: requests,
		Payload:  payload,
		Timeout:  timeout,
	})
	if err != nil {
		logging.Errorf("load simulation interrupted: %v", err)
	}
	logging.Infof("%d succeeded, %d failed in %v, last error: %v",
		report.Succeeded, report.Failed, report.Elapsed, report.LastErr)
}
