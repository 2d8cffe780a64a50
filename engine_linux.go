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

//go:build linux

package epollhttp

import (
	errorx "github.com/epollhttp/epollhttp/pkg/errors"
	"github.com/epollhttp/epollhttp/pkg/netpoll"
)

// Run binds protoAddr and serves response to every request until the event loop breaks.
func Run(protoAddr string, response []byte, opts ...Option) error {
	if len(response) == 0 {
		return errorx.ErrEmptyResponse
	}
	options := loadOptions(opts...)

	network, address := parseProtoAddr(protoAddr)
	ln, err := initListener(network, address, options)
	if err != nil {
		return err
	}

	el, err := activateEventLoop(ln, response, options)
	if err != nil {
		_ = ln.close()
		return err
	}

	options.Logger.Infof("listening on %s://%s with %d bytes of response, heartbeat %v",
		ln.network, ln.addr, len(response), options.Heartbeat)
	return el.run()
}

// activateEventLoop opens the poller and arms the listener on it.
func activateEventLoop(ln *listener, response []byte, options *Options) (*eventloop, error) {
	p, err := netpoll.OpenPoller(options.MaxEvents)
	if err != nil {
		return nil, errorx.Fatal("epoll_create1", err)
	}
	if err = p.Register(ln.fd, netpoll.ReadInterest(ListenerKey)); err != nil {
		_ = p.Close()
		return nil, errorx.Fatal("registering listener", err)
	}
	return newEventloop(ln, p, response, options), nil
}
