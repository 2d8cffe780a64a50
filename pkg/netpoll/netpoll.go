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

/*
Package netpoll wraps the OS readiness-notification facility (epoll on Linux) behind a
small, one-shot oriented interface.

Every descriptor is registered with exactly one one-shot interest, read or write, tagged
with an opaque Key. Once an event fires the interest is disabled by the kernel and must be
re-armed with Modify, otherwise the descriptor is never reported again:

	poller, err := netpoll.OpenPoller(netpoll.MaxPollEventsCap)
	if err != nil {
		// nothing can run without a poller
	}

	_ = poller.Register(fd, netpoll.ReadInterest(key))

	events, err := poller.Wait(1000)
	for _, ev := range events {
		switch ev.Kind() {
		case netpoll.Readable:
			// read, then re-arm with ReadInterest or WriteInterest
		case netpoll.Writable:
			// write, then Deregister and CloseFD
		}
	}
*/
package netpoll

// Key correlates a readiness event with its owner, it is never interpreted by the kernel.
type Key uint64

// Kind is the decoded form of an event mask.
type Kind uint8

const (
	// Other covers masks carrying neither readable nor writable bits.
	Other Kind = iota
	// Readable means the descriptor can be read without blocking.
	Readable
	// Writable means the descriptor can be written without blocking.
	Writable
)

func (k Kind) String() string {
	switch k {
	case Readable:
		return "readable"
	case Writable:
		return "writable"
	default:
		return "other"
	}
}

const (
	// InitPollEventsCap represents the initial capacity of poller event-list.
	InitPollEventsCap = 128
	// MaxPollEventsCap is the default maximum of events returned by one Wait.
	MaxPollEventsCap = 1024
	// MinPollEventsCap is the minimum capacity the event-list shrinks to.
	MinPollEventsCap = 32
)

// Event is a ready descriptor reported by Wait.
type Event struct {
	Key  Key
	Mask uint32
}

// Kind decodes the mask once, readable bits take priority over writable ones.
func (ev Event) Kind() Kind {
	switch {
	case ev.Mask&readMask != 0:
		return Readable
	case ev.Mask&writeMask != 0:
		return Writable
	default:
		return Other
	}
}

// IsError reports whether the kernel flagged an error or a hang-up on the descriptor.
func (ev Event) IsError() bool {
	return ev.Mask&errMask != 0
}

// Interest is a one-shot registration for either readability or writability.
type Interest struct {
	Key    Key
	Events uint32
}

// ReadInterest builds a one-shot readable interest tagged with key.
func ReadInterest(key Key) Interest {
	return Interest{Key: key, Events: oneShotMask | readInMask}
}

// WriteInterest builds a one-shot writable interest tagged with key.
func WriteInterest(key Key) Interest {
	return Interest{Key: key, Events: oneShotMask | writeMask}
}

// IsRead reports whether the interest waits for readability.
func (in Interest) IsRead() bool {
	return in.Events&readInMask != 0
}

// IsWrite reports whether the interest waits for writability.
func (in Interest) IsWrite() bool {
	return in.Events&writeMask != 0
}

type eventList[T any] struct {
	size, max int
	events    []T
}

func newEventList[T any](max int) *eventList[T] {
	if max < MinPollEventsCap {
		max = MinPollEventsCap
	}
	size := InitPollEventsCap
	if size > max {
		size = max
	}
	return &eventList[T]{size: size, max: max, events: make([]T, size)}
}

func (el *eventList[T]) expand() {
	if newSize := el.size << 1; newSize <= el.max {
		el.size = newSize
		el.events = make([]T, newSize)
	}
}

func (el *eventList[T]) shrink() {
	if newSize := el.size >> 1; newSize >= MinPollEventsCap {
		el.size = newSize
		el.events = make([]T, newSize)
	}
}

// resize adapts the list to how many events the last Wait returned.
func (el *eventList[T]) resize(n int) {
	if n == el.size {
		el.expand()
	} else if n < el.size>>1 {
		el.shrink()
	}
}
