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

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errorx "github.com/epollhttp/epollhttp/pkg/errors"
)

func TestParseContentLengthCaseInsensitive(t *testing.T) {
	for _, field := range []string{"Content-Length", "content-length", "CONTENT-LENGTH", "cOnTeNt-LeNgTh"} {
		head := []byte("POST / HTTP/1.1\r\nHost: localhost\r\n" + field + ": 5\r\n\r\n")
		n, found, err := parseContentLength(head)
		require.NoError(t, err, field)
		assert.True(t, found, field)
		assert.Equal(t, 5, n, field)
	}
}

func TestParseContentLength(t *testing.T) {
	testCases := []struct {
		name  string
		head  string
		n     int
		found bool
		err   bool
	}{
		{name: "bare line feeds", head: "POST / HTTP/1.1\ncontent-length: 28\n\n", n: 28, found: true},
		{name: "no space", head: "POST / HTTP/1.1\r\nContent-Length:7\r\n\r\n", n: 7, found: true},
		{name: "padded", head: "POST / HTTP/1.1\r\nContent-Length: \t42  \r\n\r\n", n: 42, found: true},
		{name: "first one wins", head: "POST / HTTP/1.1\r\nContent-Length: 1\r\nContent-Length: 2\r\n\r\n", n: 1, found: true},
		{name: "absent", head: "GET / HTTP/1.1\r\nHost: x\r\n\r\n"},
		{name: "not http", head: "hello\r\ncontent-length: 5\r\n"},
		{name: "not text", head: "HTTP\xff\xfe\r\ncontent-length: 5\r\n"},
		{name: "field name only as prefix", head: "GET / HTTP/1.1\r\nX-Content-Length: 5\r\n\r\n"},
		{name: "letters", head: "GET / HTTP/1.1\r\nContent-Length: abc\r\n\r\n", found: true, err: true},
		{name: "negative", head: "GET / HTTP/1.1\r\nContent-Length: -1\r\n\r\n", found: true, err: true},
		{name: "empty", head: "GET / HTTP/1.1\r\nContent-Length:\r\n\r\n", found: true, err: true},
		{name: "overflow", head: "GET / HTTP/1.1\r\nContent-Length: 99999999999999999999999\r\n\r\n", found: true, err: true},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			n, found, err := parseContentLength([]byte(tc.head))
			assert.Equal(t, tc.found, found)
			if tc.err {
				assert.ErrorIs(t, err, errorx.ErrInvalidContentLength)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.n, n)
		})
	}
}

func TestHeaderSectionLen(t *testing.T) {
	assert.Equal(t, 0, headerSectionLen([]byte("GET / HTTP/1.1\r\nHost: x\r\n")))
	head := "GET / HTTP/1.1\r\nHost: x\r\n\r\n"
	assert.Equal(t, len(head), headerSectionLen([]byte(head+"body")))
}

func TestCompleteLines(t *testing.T) {
	assert.Nil(t, completeLines([]byte("GET / HTTP/1.1")))
	assert.Equal(t, "GET / HTTP/1.1\r\n", string(completeLines([]byte("GET / HTTP/1.1\r\nContent-Len"))))
}

func TestMaybeRequestLine(t *testing.T) {
	assert.True(t, maybeRequestLine([]byte("POST / HTTP/1.1\r\n")))
	assert.True(t, maybeRequestLine([]byte("POS")))
	assert.True(t, maybeRequestLine([]byte("GET ")))
	assert.False(t, maybeRequestLine([]byte(" GET")))
	assert.False(t, maybeRequestLine([]byte("ping")))
	assert.False(t, maybeRequestLine([]byte("\x00\x01")))
}
