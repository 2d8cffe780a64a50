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

// Package errors defines common errors for epollhttp.
package errors

import (
	"errors"
	"fmt"
)

var (
	// ErrUnsupportedProtocol occurs when trying to listen on a network other than tcp/tcp4/tcp6.
	ErrUnsupportedProtocol = errors.New("epollhttp: only tcp/tcp4/tcp6 are supported")
	// ErrUnsupportedPlatform occurs when running on a platform without epoll.
	ErrUnsupportedPlatform = errors.New("epollhttp: unsupported platform in current version")
	// ErrEmptyResponse occurs when the response payload handed to the server is empty.
	ErrEmptyResponse = errors.New("epollhttp: the response payload is empty")
	// ErrInvalidContentLength occurs when a content-length header carries something other than an unsigned integer.
	ErrInvalidContentLength = errors.New("epollhttp: invalid content-length")
	// ErrPeerClosed occurs when the peer closes its side before a complete request arrives.
	ErrPeerClosed = errors.New("epollhttp: connection closed by peer before the request completed")
	// ErrConnClosed occurs when stepping a connection that has already been torn down.
	ErrConnClosed = errors.New("epollhttp: connection is closed")
)

// FatalError marks a failure the event loop cannot recover from, it stops the loop
// instead of dropping a single connection.
type FatalError struct {
	Op  string
	Err error
}

func (e *FatalError) Error() string {
	return fmt.Sprintf("epollhttp: fatal error in %s: %v", e.Op, e.Err)
}

func (e *FatalError) Unwrap() error {
	return e.Err
}

// Fatal wraps err into a *FatalError, nil stays nil.
func Fatal(op string, err error) error {
	if err == nil {
		return nil
	}
	return &FatalError{Op: op, Err: err}
}

// IsFatal reports whether err, or any error it wraps, is a *FatalError.
func IsFatal(err error) bool {
	var fe *FatalError
	return errors.As(err, &fe)
}
