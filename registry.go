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

import "github.com/epollhttp/epollhttp/pkg/netpoll"

// keyGenerator hands out connection keys, strictly increasing above ListenerKey.
type keyGenerator struct {
	last netpoll.Key
}

func newKeyGenerator() keyGenerator {
	return keyGenerator{last: ListenerKey}
}

func (g *keyGenerator) next() netpoll.Key {
	g.last++
	return g.last
}

// connRegistry owns every live connection, it is only touched by the event loop.
type connRegistry struct {
	conns map[netpoll.Key]*conn
}

func (r *connRegistry) init() {
	r.conns = make(map[netpoll.Key]*conn)
}

// insert adds c unless its key is already taken.
func (r *connRegistry) insert(c *conn) bool {
	if _, ok := r.conns[c.key]; ok {
		return false
	}
	r.conns[c.key] = c
	return true
}

func (r *connRegistry) get(key netpoll.Key) (*conn, bool) {
	c, ok := r.conns[key]
	return c, ok
}

func (r *connRegistry) remove(key netpoll.Key) {
	delete(r.conns, key)
}

func (r *connRegistry) len() int {
	return len(r.conns)
}
