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

package errors

import (
	"errors"
	"fmt"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFatal(t *testing.T) {
	assert.Nil(t, Fatal("epoll_wait", nil))

	err := Fatal("epoll_wait", io.ErrUnexpectedEOF)
	assert.True(t, IsFatal(err))
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
	assert.Contains(t, err.Error(), "epoll_wait")

	wrapped := fmt.Errorf("loop: %w", err)
	assert.True(t, IsFatal(wrapped))

	assert.False(t, IsFatal(ErrPeerClosed))
	assert.False(t, IsFatal(fmt.Errorf("%w: %q", ErrInvalidContentLength, "x")))
	assert.False(t, IsFatal(nil))

	var fe *FatalError
	assert.True(t, errors.As(wrapped, &fe))
	assert.Equal(t, "epoll_wait", fe.Op)
}
