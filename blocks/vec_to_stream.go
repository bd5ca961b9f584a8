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
	"hz.tools/flow"
)

// VecToStream flattens a non-copy stream of sample vectors into a
// plain sample stream. A vector only moves when the whole thing fits
// in the output window, so its tags keep their positions relative to
// the vector's first sample.
type VecToStream[T flow.Sample] struct {
	in  *flow.NCReadStream[[]T]
	out *flow.WriteStream[T]
}

// NewVecToStream creates a flattener for the provided non-copy
// stream.
func NewVecToStream[T flow.Sample](in *flow.NCReadStream[[]T]) (*VecToStream[T], *flow.ReadStream[T]) {
	w, r := flow.NewStream[T]()
	return &VecToStream[T]{in: in, out: w}, r
}

// Name implements flow.Block.
func (b *VecToStream[T]) Name() string { return "VecToStream" }

// EOF implements flow.Block.
func (b *VecToStream[T]) EOF() bool { return b.in.EOF() }

// Close implements flow.Closer.
func (b *VecToStream[T]) Close() error { return b.out.Close() }

// Work implements flow.Block.
func (b *VecToStream[T]) Work() (flow.BlockRet, error) {
	for {
		n, ok := flow.PeekLen(b.in)
		if !ok {
			return flow.WaitForStream(b.in, 1), nil
		}
		ww := b.out.WriteBuf()
		if ww.Len() < n {
			ww.Produce(0, nil)
			return flow.WaitForStream(b.out, n), nil
		}
		v, tags, _ := b.in.Pop()
		copy(ww.Slice(), v)
		if n == 0 {
			tags = nil
		}
		ww.Produce(n, tags)
	}
}

// vim: foldmethod=marker
