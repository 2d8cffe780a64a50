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
	"errors"
	"fmt"
	"os"
	"time"

	"golang.org/x/sys/unix"

	errorx "github.com/epollhttp/epollhttp/pkg/errors"
	"github.com/epollhttp/epollhttp/pkg/logging"
	"github.com/epollhttp/epollhttp/pkg/netpoll"
	"github.com/epollhttp/epollhttp/pkg/socket"
)

// driver is the readiness-notification facility the event loop runs on,
// *netpoll.Poller in production.
type driver interface {
	Register(fd int, in netpoll.Interest) error
	Modify(fd int, in netpoll.Interest) error
	Deregister(fd int) error
	CloseFD(fd int)
	Wait(msec int) ([]netpoll.Event, error)
}

var sysAccept = func(fd int) (int, unix.Sockaddr, error) {
	return unix.Accept4(fd, unix.SOCK_CLOEXEC)
}

type eventloop struct {
	ln        *listener      // listening socket, polled under ListenerKey
	poller    driver         // epoll
	conns     connRegistry   // live connections by key
	keys      keyGenerator   // next connection key
	buffer    []byte         // scratch buffer shared by every read step
	response  []byte         // payload written back to every request
	heartbeat int            // wait timeout in milliseconds
	noDelay   bool           // set TCP_NODELAY on accepted sockets
	logger    logging.Logger // logger
}

func newEventloop(ln *listener, p driver, response []byte, opts *Options) *eventloop {
	el := &eventloop{
		ln:        ln,
		poller:    p,
		keys:      newKeyGenerator(),
		buffer:    make([]byte, opts.ReadBufferCap),
		response:  response,
		heartbeat: int(opts.Heartbeat / time.Millisecond),
		noDelay:   opts.TCPNoDelay,
		logger:    opts.Logger,
	}
	el.conns.init()
	return el
}

// run polls until the poller itself breaks.
func (el *eventloop) run() error {
	for {
		if err := el.pollOnce(); err != nil {
			el.logger.Errorf("event-loop is exiting: %v", err)
			return err
		}
	}
}

// pollOnce waits for one batch of ready events and handles all of them.
// Only fatal errors are returned.
func (el *eventloop) pollOnce() error {
	events, err := el.poller.Wait(el.heartbeat)
	if err != nil {
		return errorx.Fatal("epoll_wait", err)
	}
	if len(events) == 0 {
		el.logger.Infof("requests in flight: %d", el.conns.len())
		return nil
	}

	for _, ev := range events {
		if err = el.handle(ev); err != nil {
			return err
		}
	}
	return nil
}

func (el *eventloop) handle(ev netpoll.Event) error {
	if ev.Key == ListenerKey {
		return el.accept()
	}

	c, ok := el.conns.get(ev.Key)
	if !ok {
		el.logger.Debugf("ignoring %s event for unknown request %d", ev.Kind(), ev.Key)
		return nil
	}

	switch ev.Kind() {
	case netpoll.Readable:
		if err := c.read(el.poller, el.buffer); err != nil {
			el.drop(c, err)
			return nil
		}
		if c.state == stateWriting {
			el.logger.Debugf("got all data of request %d: %d bytes", c.key, c.buffer.Len())
		}
	case netpoll.Writable:
		if c.state != stateWriting {
			el.drop(c, fmt.Errorf("writable event while %s", c.state))
			return nil
		}
		if err := c.write(el.poller, el.response); err != nil {
			el.logger.Warnf("could not answer to request %d: %v", c.key, err)
		} else {
			el.logger.Debugf("answered from request %d", c.key)
		}
		el.conns.remove(c.key)
	default:
		if ev.IsError() {
			el.drop(c, fmt.Errorf("error events %#x", ev.Mask))
			return nil
		}
		el.logger.Warnf("unexpected events %#x on request %d", ev.Mask, c.key)
	}
	return nil
}

// drop tears c down after a failure, leaving every other connection untouched.
func (el *eventloop) drop(c *conn, err error) {
	if errors.Is(err, errorx.ErrPeerClosed) {
		el.logger.Debugf("request %d from %v: %v", c.key, c.remote, err)
	} else {
		el.logger.Warnf("dropping request %d from %v: %v", c.key, c.remote, err)
	}
	if cerr := c.close(el.poller); cerr != nil {
		el.logger.Debugf("failed to deregister request %d: %v", c.key, cerr)
	}
	el.conns.remove(c.key)
}

// accept takes at most one pending connection, then always re-arms the listener.
func (el *eventloop) accept() error {
	el.acceptOne()
	if err := el.poller.Modify(el.ln.fd, netpoll.ReadInterest(ListenerKey)); err != nil {
		return errorx.Fatal("re-arming listener", err)
	}
	return nil
}

func (el *eventloop) acceptOne() {
	nfd, sa, err := sysAccept(el.ln.fd)
	if err != nil {
		if err == unix.EAGAIN {
			el.logger.Debugf("listener woke up with nothing to accept")
			return
		}
		el.logger.Errorf("couldn't accept: %v", os.NewSyscallError("accept", err))
		return
	}
	if err = os.NewSyscallError("fcntl nonblock", unix.SetNonblock(nfd, true)); err != nil {
		el.logger.Errorf("couldn't accept: %v", err)
		el.poller.CloseFD(nfd)
		return
	}

	if el.noDelay {
		if err = socket.SetNoDelay(nfd, 1); err != nil {
			el.logger.Warnf("couldn't disable Nagle's algorithm: %v", err)
		}
	}

	key := el.keys.next()
	if err = el.poller.Register(nfd, netpoll.ReadInterest(key)); err != nil {
		el.logger.Errorf("couldn't register request %d: %v", key, err)
		el.poller.CloseFD(nfd)
		return
	}
	c := newConn(nfd, key, socket.SockaddrToTCPAddr(sa))
	if !el.conns.insert(c) {
		el.logger.Errorf("request %d is already taken", key)
		_ = c.close(el.poller)
		return
	}
	el.logger.Debugf("new client %v as request %d", c.remote, key)
}
