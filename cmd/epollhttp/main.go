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

package main

import (
	"github.com/epollhttp/epollhttp"
	"github.com/epollhttp/epollhttp/pkg/logging"
)

const addr = "tcp://127.0.0.1:8000"

var response = epollhttp.StaticResponse("text/html", []byte("Hello! I am an epoll server."))

func main() {
	err := epollhttp.Run(addr, response, epollhttp.WithReuseAddr(true))
	logging.Fatalf("epollhttp server stopped: %v", err)
}
