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

// Package bytebuffer pools the growable buffers that accumulate request bytes.
package bytebuffer

import "github.com/valyala/bytebufferpool"

// ByteBuffer is the alias of bytebufferpool.ByteBuffer.
type ByteBuffer = bytebufferpool.ByteBuffer

// Requests get their own pool so their sizes calibrate apart from everything else.
var requestPool bytebufferpool.Pool

// Get returns an empty byte buffer from the pool.
func Get() *ByteBuffer {
	return requestPool.Get()
}

// Put returns a byte buffer to the pool, nil is ignored.
func Put(b *ByteBuffer) {
	if b != nil {
		requestPool.Put(b)
	}
}
