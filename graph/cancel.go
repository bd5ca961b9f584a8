// {{{ Copyright (c) Paul R. Tagliamonte <paul@k3xec.com>, 2023
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE. }}}

package graph

import (
	"sync"
	"sync/atomic"
)

// CancellationToken is the graph-wide cooperative shutdown flag. One
// token is shared by a scheduler and every block it drives; setting it
// unblocks every stream wait on its next wakeup, and every work loop
// on its next iteration.
//
// Cancellation is not an error. A cancelled run still returns nil.
type CancellationToken struct {
	cancelled atomic.Bool
	once      sync.Once
	done      chan struct{}
}

// NewCancellationToken creates a fresh, uncancelled token.
func NewCancellationToken() *CancellationToken {
	return &CancellationToken{done: make(chan struct{})}
}

// Cancel trips the token. Safe to call from any goroutine, any number
// of times.
func (t *CancellationToken) Cancel() {
	t.once.Do(func() {
		t.cancelled.Store(true)
		close(t.done)
	})
}

// Cancelled reports whether the token has been tripped.
func (t *CancellationToken) Cancelled() bool {
	return t.cancelled.Load()
}

// Done returns a channel that is closed when the token trips. This is
// what gets threaded into stream waits.
func (t *CancellationToken) Done() <-chan struct{} {
	return t.done
}

// vim: foldmethod=marker
