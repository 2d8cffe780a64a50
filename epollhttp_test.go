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

package epollhttp

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/epollhttp/epollhttp/pkg/logging"
)

func TestStaticResponse(t *testing.T) {
	resp := StaticResponse("text/html", []byte("Hello! I am an epoll server."))
	assert.Equal(t, "HTTP/1.1 200 OK\r\n"+
		"content-type: text/html\r\n"+
		"content-length: 28\r\n\r\n"+
		"Hello! I am an epoll server.", string(resp))

	empty := StaticResponse("text/plain", nil)
	assert.Equal(t, "HTTP/1.1 200 OK\r\ncontent-type: text/plain\r\ncontent-length: 0\r\n\r\n", string(empty))

	n, found, err := parseContentLength(resp)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, 28, n)
}

func TestParseProtoAddr(t *testing.T) {
	tests := []struct {
		in, network, address string
	}{
		{"tcp://127.0.0.1:8000", "tcp", "127.0.0.1:8000"},
		{"TCP6://[::1]:80", "tcp6", "[::1]:80"},
		{"127.0.0.1:8000", "tcp", "127.0.0.1:8000"},
		{"udp://:9000", "udp", ":9000"},
	}
	for _, tt := range tests {
		network, address := parseProtoAddr(tt.in)
		assert.Equal(t, tt.network, network, tt.in)
		assert.Equal(t, tt.address, address, tt.in)
	}
}

func TestLoadOptions(t *testing.T) {
	opts := loadOptions()
	assert.Equal(t, DefaultHeartbeat, opts.Heartbeat)
	assert.Equal(t, DefaultMaxEvents, opts.MaxEvents)
	assert.Equal(t, DefaultReadBufferCap, opts.ReadBufferCap)
	assert.False(t, opts.ReuseAddr)
	assert.False(t, opts.ReusePort)
	assert.False(t, opts.TCPNoDelay)
	assert.Equal(t, logging.GetDefaultLogger(), opts.Logger)

	opts = loadOptions(
		WithHeartbeat(50*time.Millisecond),
		WithMaxEvents(64),
		WithReadBufferCap(16),
		WithReuseAddr(true),
		WithReusePort(true),
		WithTCPNoDelay(true))
	assert.Equal(t, 50*time.Millisecond, opts.Heartbeat)
	assert.Equal(t, 64, opts.MaxEvents)
	assert.Equal(t, 16, opts.ReadBufferCap)
	assert.True(t, opts.ReuseAddr)
	assert.True(t, opts.ReusePort)
	assert.True(t, opts.TCPNoDelay)

	opts = loadOptions(WithOptions(Options{MaxEvents: 8}), WithHeartbeat(-time.Second))
	assert.Equal(t, 8, opts.MaxEvents)
	assert.Equal(t, DefaultHeartbeat, opts.Heartbeat, "non-positive values fall back to defaults")
}
