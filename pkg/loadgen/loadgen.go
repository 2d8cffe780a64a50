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

// Package loadgen fires concurrent POST requests at a server and checks every answer.
package loadgen

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/epollhttp/epollhttp/pkg/logging"
	"github.com/epollhttp/epollhttp/pkg/pool/bytebuffer"
	"github.com/epollhttp/epollhttp/pkg/pool/goroutine"
)

var errUnexpectedStatus = errors.New("loadgen: unexpected status line")

// Config describes one run.
type Config struct {
	// Addr is the host:port of the server.
	Addr string
	// Clients is how many requests may be in flight at once.
	Clients int
	// Requests is how many requests every client sends.
	Requests int
	// Payload is the request body.
	Payload []byte
	// Timeout bounds every single request, zero means no limit.
	Timeout time.Duration
	// Logger receives one line per answer, the default logger when nil.
	Logger logging.Logger
}

// Report sums up a run.
type Report struct {
	Succeeded int64
	Failed    int64
	LastErr   error
	Elapsed   time.Duration
}

// Run sends Clients*Requests requests through a pool of Clients workers.
// It only fails when the pool cannot be set up or ctx is done.
func Run(ctx context.Context, cfg Config) (Report, error) {
	if cfg.Clients <= 0 {
		cfg.Clients = 1
	}
	if cfg.Requests <= 0 {
		cfg.Requests = 1
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.GetDefaultLogger()
	}

	pool, err := goroutine.New(cfg.Clients)
	if err != nil {
		return Report{}, err
	}
	defer pool.Release()

	request := buildRequest(cfg.Addr, cfg.Payload)

	var (
		wg        sync.WaitGroup
		succeeded atomic.Int64
		failed    atomic.Int64
		lastErr   atomic.Value
	)
	start := time.Now()
	total := cfg.Clients * cfg.Requests
	for i := 0; i < total; i++ {
		if ctx.Err() != nil {
			break
		}
		wg.Add(1)
		err = pool.Submit(func() {
			defer wg.Done()
			body, err := send(ctx, cfg.Addr, request, cfg.Timeout)
			if err != nil {
				failed.Add(1)
				lastErr.Store(err)
				cfg.Logger.Warnf("request to %s failed: %v", cfg.Addr, err)
				return
			}
			succeeded.Add(1)
			cfg.Logger.Debugf("receive response: %q from %s", body, cfg.Addr)
		})
		if err != nil {
			wg.Done()
			failed.Add(1)
			lastErr.Store(err)
		}
	}
	wg.Wait()

	report := Report{Succeeded: succeeded.Load(), Failed: failed.Load(), Elapsed: time.Since(start)}
	if v := lastErr.Load(); v != nil {
		report.LastErr = v.(error)
	}
	return report, ctx.Err()
}

func buildRequest(addr string, payload []byte) []byte {
	buf := bytebuffer.Get()
	defer bytebuffer.Put(buf)

	_, _ = buf.WriteString("POST / HTTP/1.1\r\n")
	_, _ = buf.WriteString("Host: " + addr + "\r\n")
	_, _ = buf.WriteString("Content-Type: application/octet-stream\r\n")
	_, _ = buf.WriteString("Content-Length: " + strconv.Itoa(len(payload)) + "\r\n\r\n")
	_, _ = buf.Write(payload)
	return append([]byte(nil), buf.B...)
}

// send writes request on a fresh connection and returns the response body,
// the server closes the connection once it has answered.
func send(ctx context.Context, addr string, request []byte, timeout time.Duration) ([]byte, error) {
	var d net.Dialer
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	c, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, err
	}
	defer c.Close() //nolint:errcheck

	if deadline, ok := ctx.Deadline(); ok {
		_ = c.SetDeadline(deadline)
	}
	if _, err = c.Write(request); err != nil {
		return nil, err
	}

	resp, err := io.ReadAll(bufio.NewReader(c))
	if err != nil && len(resp) == 0 {
		return nil, err
	}
	return parseResponse(resp)
}

func parseResponse(resp []byte) ([]byte, error) {
	statusLine, rest, ok := bytes.Cut(resp, []byte("\r\n"))
	if !ok || !bytes.HasPrefix(statusLine, []byte("HTTP/1.1 200")) {
		return nil, fmt.Errorf("%w: %q", errUnexpectedStatus, statusLine)
	}
	if _, body, ok := bytes.Cut(rest, []byte("\r\n\r\n")); ok {
		return body, nil
	}
	return nil, nil
}
