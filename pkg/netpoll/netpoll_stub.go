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

//go:build !linux

package netpoll

import "github.com/epollhttp/epollhttp/pkg/errors"

// Linux values, kept so events can still be decoded.
const (
	oneShotMask = 0x40000000
	readInMask  = 0x1
	readMask    = 0x1 | 0x2
	writeMask   = 0x4
	errMask     = 0x8 | 0x10
)

// Poller is unavailable on this platform.
type Poller struct{}

// OpenPoller always fails on this platform.
func OpenPoller(int) (*Poller, error) {
	return nil, errors.ErrUnsupportedPlatform
}

func (*Poller) Close() error                 { return errors.ErrUnsupportedPlatform }
func (*Poller) Register(int, Interest) error { return errors.ErrUnsupportedPlatform }
func (*Poller) Modify(int, Interest) error   { return errors.ErrUnsupportedPlatform }
func (*Poller) Deregister(int) error         { return errors.ErrUnsupportedPlatform }
func (*Poller) CloseFD(int)                  {}
func (*Poller) Wait(int) ([]Event, error)    { return nil, errors.ErrUnsupportedPlatform }
