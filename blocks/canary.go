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

package blocks

import (
	"sync"

	"hz.tools/flow"
)

// Canary passes its stream through untouched, and runs a function
// when the scheduler retires it — whatever the reason: EOF, error, or
// cancellation. It's an EOF detector.
//
// The usual trick is handing it the graph's cancel: put a canary on a
// stream the pipeline can't live without, and the whole graph winds
// down when that path dies, instead of the downstream half idling
// forever:
//
//	canary, out := blocks.NewCanary(in, g.CancelToken().Cancel)
type Canary[T flow.Sample] struct {
	*flow.SyncBlock[T, T]
	once sync.Once
	fn   func()
}

// NewCanary creates a pass-through block that runs fn when retired.
func NewCanary[T flow.Sample](in *flow.ReadStream[T], fn func()) (*Canary[T], *flow.ReadStream[T]) {
	sb, out := flow.NewSyncBlock("Canary", in, func(v T) T { return v })
	return &Canary[T]{SyncBlock: sb, fn: fn}, out
}

// Close implements flow.Closer, firing the canary after the output
// closes.
func (b *Canary[T]) Close() error {
	err := b.SyncBlock.Close()
	b.once.Do(b.fn)
	return err
}

// vim: foldmethod=marker
