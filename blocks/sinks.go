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

// NullSink consumes and discards everything. Handy for benchmarks and
// for terminating a tee branch you don't care about.
type NullSink[T flow.Sample] struct {
	in *flow.ReadStream[T]
}

// NewNullSink creates a sink discarding the provided stream.
func NewNullSink[T flow.Sample](in *flow.ReadStream[T]) *NullSink[T] {
	return &NullSink[T]{in: in}
}

// Name implements flow.Block.
func (b *NullSink[T]) Name() string { return "NullSink" }

// EOF implements flow.Block.
func (b *NullSink[T]) EOF() bool { return b.in.EOF() }

// Work implements flow.Block.
func (b *NullSink[T]) Work() (flow.BlockRet, error) {
	rw, _ := b.in.ReadBuf()
	if rw.IsEmpty() {
		rw.Consume(0)
		if b.in.EOF() {
			return flow.EOF, nil
		}
		return flow.WaitForStream(b.in, 1), nil
	}
	rw.Consume(rw.Len())
	return flow.Again, nil
}

// ConstantSource emits the same value forever. It never reaches EOF
// on its own; cancel the graph to stop it.
type ConstantSource[T flow.Sample] struct {
	out *flow.WriteStream[T]
	val T
}

// NewConstantSource creates a source emitting val forever.
func NewConstantSource[T flow.Sample](val T) (*ConstantSource[T], *flow.ReadStream[T]) {
	w, r := flow.NewStream[T]()
	return &ConstantSource[T]{out: w, val: val}, r
}

// Name implements flow.Block.
func (b *ConstantSource[T]) Name() string { return "ConstantSource" }

// EOF implements flow.Block.
func (b *ConstantSource[T]) EOF() bool { return false }

// Close implements flow.Closer.
func (b *ConstantSource[T]) Close() error { return b.out.Close() }

// Work implements flow.Block.
func (b *ConstantSource[T]) Work() (flow.BlockRet, error) {
	ww := b.out.WriteBuf()
	if ww.IsEmpty() {
		ww.Produce(0, nil)
		return flow.WaitForStream(b.out, 1), nil
	}
	dst := ww.Slice()
	for i := range dst {
		dst[i] = b.val
	}
	ww.Produce(len(dst), nil)
	return flow.Again, nil
}

// vim: foldmethod=marker
