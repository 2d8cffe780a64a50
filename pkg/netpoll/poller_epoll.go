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

package netpoll

import (
	"os"

	"golang.org/x/sys/unix"
)

// Poller represents the epoll instance in charge of monitoring file-descriptors.
type Poller struct {
	fd    int // epoll fd
	el    *eventList[unix.EpollEvent]
	ready []Event
}

// OpenPoller instantiates a close-on-exec epoll instance returning at most maxEvents per Wait.
func OpenPoller(maxEvents int) (poller *Poller, err error) {
	if maxEvents <= 0 {
		maxEvents = MaxPollEventsCap
	}
	poller = new(Poller)
	if poller.fd, err = unix.EpollCreate1(unix.EPOLL_CLOEXEC); err != nil {
		return nil, os.NewSyscallError("epoll_create1", err)
	}
	poller.el = newEventList[unix.EpollEvent](maxEvents)
	poller.ready = make([]Event, 0, poller.el.size)
	return
}

// Close releases the epoll instance itself.
func (p *Poller) Close() error {
	return os.NewSyscallError("close", unix.Close(p.fd))
}

// The key is stored across the Fd and Pad words of epoll_data, the kernel hands them back verbatim.
func newEpollEvent(in Interest) *unix.EpollEvent {
	return &unix.EpollEvent{Events: in.Events, Fd: int32(uint32(in.Key)), Pad: int32(uint32(in.Key >> 32))}
}

func keyOf(ev *unix.EpollEvent) Key {
	return Key(uint32(ev.Fd)) | Key(uint32(ev.Pad))<<32
}

// Register adds fd to the poller with the given one-shot interest.
func (p *Poller) Register(fd int, in Interest) error {
	return os.NewSyscallError("epoll_ctl add", unix.EpollCtl(p.fd, unix.EPOLL_CTL_ADD, fd, newEpollEvent(in)))
}

// Modify re-arms fd, it is required after every delivered event.
func (p *Poller) Modify(fd int, in Interest) error {
	return os.NewSyscallError("epoll_ctl mod", unix.EpollCtl(p.fd, unix.EPOLL_CTL_MOD, fd, newEpollEvent(in)))
}

// Deregister removes fd from the poller, a descriptor that is already gone is not an error.
func (p *Poller) Deregister(fd int) error {
	switch err := unix.EpollCtl(p.fd, unix.EPOLL_CTL_DEL, fd, nil); err {
	case nil, unix.ENOENT, unix.EBADF:
		return nil
	default:
		return os.NewSyscallError("epoll_ctl del", err)
	}
}

// CloseFD closes fd on a best-effort basis.
func (p *Poller) CloseFD(fd int) {
	_ = unix.Close(fd)
}

// Wait blocks for at most msec milliseconds (-1 for no limit) and returns the ready events.
// The returned slice is reused by the next call to Wait.
func (p *Poller) Wait(msec int) ([]Event, error) {
	n, err := unix.EpollWait(p.fd, p.el.events, msec)
	if err == unix.EINTR {
		return p.ready[:0], nil
	}
	if err != nil {
		return nil, os.NewSyscallError("epoll_wait", err)
	}

	ready := p.ready[:0]
	for i := 0; i < n; i++ {
		ev := &p.el.events[i]
		ready = append(ready, Event{Key: keyOf(ev), Mask: ev.Events})
	}
	p.ready = ready
	p.el.resize(n)
	return ready, nil
}
