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

// Package goroutine wraps the ants worker pool used by the load simulator.
package goroutine

import (
	"time"

	"github.com/panjf2000/ants/v2"
)

const (
	// ExpiryDuration is the interval time to clean up those expired workers.
	ExpiryDuration = 10 * time.Second

	// Nonblocking decides what to do when submitting a new task to a full worker pool,
	// false makes Submit wait for an available worker.
	Nonblocking = false
)

// Pool is the alias of ants.Pool.
type Pool = ants.Pool

// New instantiates a blocking *Pool with the given capacity.
func New(size int) (*Pool, error) {
	options := ants.Options{ExpiryDuration: ExpiryDuration, Nonblocking: Nonblocking}
	return ants.NewPool(size, ants.WithOptions(options))
}
