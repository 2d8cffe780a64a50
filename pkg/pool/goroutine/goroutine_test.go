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

package goroutine

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPoolBlocksWhenFull(t *testing.T) {
	p, err := New(2)
	require.NoError(t, err)
	defer p.Release()
	assert.Equal(t, 2, p.Cap())

	var (
		wg      sync.WaitGroup
		running atomic.Int32
		peak    atomic.Int32
		done    atomic.Int32
	)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		require.NoError(t, p.Submit(func() {
			defer wg.Done()
			n := running.Add(1)
			for {
				old := peak.Load()
				if n <= old || peak.CompareAndSwap(old, n) {
					break
				}
			}
			running.Add(-1)
			done.Add(1)
		}))
	}
	wg.Wait()
	assert.EqualValues(t, 20, done.Load())
	assert.LessOrEqual(t, peak.Load(), int32(2))
}
