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
	"time"

	"github.com/epollhttp/epollhttp/pkg/logging"
)

const (
	// DefaultHeartbeat bounds how long the loop blocks before it reports idle state.
	DefaultHeartbeat = time.Second
	// DefaultMaxEvents is the largest batch of ready events handled per wake-up.
	DefaultMaxEvents = 1024
	// DefaultReadBufferCap is the size of the scratch buffer each read step fills.
	DefaultReadBufferCap = 4096
)

// Option is a function that will set up option.
type Option func(opts *Options)

func loadOptions(options ...Option) *Options {
	opts := new(Options)
	for _, option := range options {
		option(opts)
	}
	if opts.Heartbeat <= 0 {
		opts.Heartbeat = DefaultHeartbeat
	}
	if opts.MaxEvents <= 0 {
		opts.MaxEvents = DefaultMaxEvents
	}
	if opts.ReadBufferCap <= 0 {
		opts.ReadBufferCap = DefaultReadBufferCap
	}
	if opts.Logger == nil {
		opts.Logger = logging.GetDefaultLogger()
	}
	return opts
}

// Options are configurations for the server.
type Options struct {
	// Heartbeat is the timeout of every wait on the poller. It only paces the
	// in-flight report, it never expires a connection.
	Heartbeat time.Duration

	// MaxEvents caps how many ready events one wait may return.
	MaxEvents int

	// ReadBufferCap is the size of the scratch buffer used by every read step.
	ReadBufferCap int

	// ReuseAddr indicates whether to set up the SO_REUSEADDR socket option.
	ReuseAddr bool

	// ReusePort indicates whether to set up the SO_REUSEPORT socket option.
	ReusePort bool

	// TCPNoDelay sets TCP_NODELAY on every accepted connection.
	TCPNoDelay bool

	// Logger is the customized logger for logging info, if it is not set,
	// then the default logger of pkg/logging is used.
	Logger logging.Logger
}

// WithOptions sets up all options.
func WithOptions(options Options) Option {
	return func(opts *Options) {
		*opts = options
	}
}

// WithHeartbeat sets up the wait timeout of the event loop.
func WithHeartbeat(heartbeat time.Duration) Option {
	return func(opts *Options) {
		opts.Heartbeat = heartbeat
	}
}

// WithMaxEvents sets up the maximum batch of ready events.
func WithMaxEvents(n int) Option {
	return func(opts *Options) {
		opts.MaxEvents = n
	}
}

// WithReadBufferCap sets up the scratch buffer size of read steps.
func WithReadBufferCap(readBufferCap int) Option {
	return func(opts *Options) {
		opts.ReadBufferCap = readBufferCap
	}
}

// WithReuseAddr sets up SO_REUSEADDR socket option.
func WithReuseAddr(reuseAddr bool) Option {
	return func(opts *Options) {
		opts.ReuseAddr = reuseAddr
	}
}

// WithReusePort sets up SO_REUSEPORT socket option.
func WithReusePort(reusePort bool) Option {
	return func(opts *Options) {
		opts.ReusePort = reusePort
	}
}

// WithTCPNoDelay enables or disables the TCP_NODELAY socket option on accepted connections.
func WithTCPNoDelay(noDelay bool) Option {
	return func(opts *Options) {
		opts.TCPNoDelay = noDelay
	}
}

// WithLogger sets up a customized logger.
func WithLogger(logger logging.Logger) Option {
	return func(opts *Options) {
		opts.Logger = logger
	}
}
