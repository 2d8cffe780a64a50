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
	"io"
	"net"
	"os"

	"golang.org/x/sys/unix"

	"github.com/epollhttp/epollhttp/pkg/errors"
	"github.com/epollhttp/epollhttp/pkg/netpoll"
	"github.com/epollhttp/epollhttp/pkg/pool/bytebuffer"
)

type connState uint8

const (
	stateReading connState = iota
	stateWriting
	stateClosed
)

func (s connState) String() string {
	switch s {
	case stateReading:
		return "reading"
	case stateWriting:
		return "writing"
	default:
		return "closed"
	}
}

// conn is the state of one accepted connection, from its first read to its teardown.
type conn struct {
	fd            int                    // file descriptor
	key           netpoll.Key            // key tagging every interest of fd
	remote        net.Addr               // remote peer address
	buffer        *bytebuffer.ByteBuffer // bytes received so far
	contentLength int                    // parsed content-length, 0 until known
	lengthKnown   bool                   // whether contentLength came from a header
	headerLen     int                    // length of the header section, 0 until its end arrives
	scanned       bool                   // no more header scanning needed
	state         connState
}

func newConn(fd int, key netpoll.Key, remote net.Addr) *conn {
	return &conn{fd: fd, key: key, remote: remote, buffer: bytebuffer.Get()}
}

// absorb appends p and updates what is known about the message boundary.
func (c *conn) absorb(p []byte) error {
	_, _ = c.buffer.Write(p)
	buf := c.buffer.B
	if c.headerLen == 0 {
		c.headerLen = headerSectionLen(buf)
	}
	if c.scanned {
		return nil
	}

	head := completeLines(buf)
	if c.headerLen > 0 {
		head = buf[:c.headerLen]
		c.scanned = true
	}

	n, found, err := parseContentLength(head)
	if err != nil {
		return err
	}
	if found {
		c.contentLength, c.lengthKnown, c.scanned = n, true, true
	}
	return nil
}

// complete reports whether the buffer holds at least the expected number of bytes.
// Without a content-length, a request line waits for the end of its header section.
func (c *conn) complete() bool {
	n := c.buffer.Len()
	switch {
	case n == 0:
		return false
	case c.lengthKnown, c.headerLen > 0:
		return n >= c.contentLength
	case maybeRequestLine(c.buffer.B):
		return false
	default:
		return n >= c.contentLength
	}
}

// read performs one non-blocking read, then re-arms fd for reading, or for writing
// once the request is complete.
func (c *conn) read(d driver, scratch []byte) error {
	if c.state != stateReading {
		return errors.ErrConnClosed
	}

	n, err := unix.Read(c.fd, scratch)
	switch {
	case err == unix.EAGAIN || err == unix.EINTR:
	case err != nil:
		return os.NewSyscallError("read", err)
	case n == 0:
		return errors.ErrPeerClosed
	default:
		if err = c.absorb(scratch[:n]); err != nil {
			return err
		}
	}

	if c.complete() {
		c.state = stateWriting
		return d.Modify(c.fd, netpoll.WriteInterest(c.key))
	}
	return d.Modify(c.fd, netpoll.ReadInterest(c.key))
}

// write sends response in a single attempt and tears the connection down whatever
// the outcome. A short write is reported, never retried.
func (c *conn) write(d driver, response []byte) error {
	if c.state != stateWriting {
		return errors.ErrConnClosed
	}

	n, err := unix.Write(c.fd, response)
	if err != nil {
		err = os.NewSyscallError("write", err)
	} else if n < len(response) {
		err = io.ErrShortWrite
	}

	_ = unix.Shutdown(c.fd, unix.SHUT_RDWR)
	if cerr := c.close(d); err == nil {
		err = cerr
	}
	return err
}

// close deregisters and closes fd, it is safe to call more than once.
func (c *conn) close(d driver) error {
	if c.state == stateClosed {
		return nil
	}
	c.state = stateClosed

	err := d.Deregister(c.fd)
	d.CloseFD(c.fd)
	bytebuffer.Put(c.buffer)
	c.buffer = nil
	return err
}
