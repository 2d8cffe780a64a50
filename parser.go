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
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/epollhttp/epollhttp/pkg/errors"
)

const contentLengthField = "content-length:"

var (
	headerTerminator = []byte("\r\n\r\n")
	httpMarker       = []byte("HTTP")
)

// headerSectionLen returns the length of the header section including the blank line
// that ends it, or 0 while that line has not arrived yet.
func headerSectionLen(buf []byte) int {
	if i := bytes.Index(buf, headerTerminator); i >= 0 {
		return i + len(headerTerminator)
	}
	return 0
}

// completeLines trims buf down to its last line feed.
func completeLines(buf []byte) []byte {
	if i := bytes.LastIndexByte(buf, '\n'); i >= 0 {
		return buf[:i+1]
	}
	return nil
}

// maybeRequestLine reports whether buf starts like an HTTP request line: an
// upper-case method followed by a space, or a prefix that may still become one.
func maybeRequestLine(buf []byte) bool {
	for i, b := range buf {
		switch {
		case 'A' <= b && b <= 'Z':
		case b == ' ':
			return i > 0
		default:
			return false
		}
	}
	return true
}

// parseContentLength looks for the first content-length line in head. Nothing is
// parsed unless head is valid UTF-8 mentioning HTTP.
func parseContentLength(head []byte) (n int, found bool, err error) {
	if !utf8.Valid(head) || !bytes.Contains(head, httpMarker) {
		return 0, false, nil
	}

	for _, line := range strings.Split(string(head), "\n") {
		line = strings.TrimSuffix(line, "\r")
		if len(line) < len(contentLengthField) || !strings.EqualFold(line[:len(contentLengthField)], contentLengthField) {
			continue
		}
		v := strings.TrimSpace(line[len(contentLengthField):])
		u, err := strconv.ParseUint(v, 10, strconv.IntSize-1)
		if err != nil {
			return 0, true, fmt.Errorf("%w: %q", errors.ErrInvalidContentLength, v)
		}
		return int(u), true, nil
	}
	return 0, false, nil
}
