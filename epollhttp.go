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
Package epollhttp implements a single-threaded, epoll-driven TCP server that answers
every request with one static HTTP response.

One event loop owns the epoll instance, the listening socket and every accepted
connection. Each descriptor carries exactly one one-shot interest at a time: a connection
is armed for reading until it has buffered at least as many bytes as its content-length
header announces, then armed once for writing, answered and closed.

	response := epollhttp.StaticResponse("text/html", []byte("Hello!"))
	if err := epollhttp.Run("tcp://127.0.0.1:8000", response); err != nil {
		logging.Fatalf("server stopped: %v", err)
	}

Run fails straight away on an empty response or when the listener cannot be set up.
Once serving, it only returns when the loop cannot go on, with an error for which
errors.IsFatal reports true. Failures of a single connection never leave the loop.
*/
package epollhttp

import (
	"strconv"
	"strings"

	"github.com/epollhttp/epollhttp/pkg/netpoll"
	"github.com/epollhttp/epollhttp/pkg/pool/bytebuffer"
)

// ListenerKey is the key reserved for the listening socket, connection keys start above it.
const ListenerKey netpoll.Key = 100

// StaticResponse builds a "200 OK" response carrying body with the given content type.
func StaticResponse(contentType string, body []byte) []byte {
	buf := bytebuffer.Get()
	defer bytebuffer.Put(buf)

	_, _ = buf.WriteString("HTTP/1.1 200 OK\r\n")
	_, _ = buf.WriteString("content-type: " + contentType + "\r\n")
	_, _ = buf.WriteString("content-length: " + strconv.Itoa(len(body)) + "\r\n\r\n")
	_, _ = buf.Write(body)
	return append([]byte(nil), buf.B...)
}

func parseProtoAddr(protoAddr string) (network, address string) {
	network = "tcp"
	address = strings.ToLower(protoAddr)
	if strings.Contains(address, "://") {
		pair := strings.SplitN(address, "://", 2)
		network = pair[0]
		address = pair[1]
	}
	return
}
