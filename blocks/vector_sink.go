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

// VectorSink collects everything its input delivers. Samples and tags
// can be read back at any time, including while the graph is still
// running; tag positions are rebased to be absolute indexes into the
// collected vector.
type VectorSink[T flow.Sample] struct {
	in      *flow.ReadStream[T]
	mu      sync.Mutex
	samples []T
	tags    []flow.Tag
}

// NewVectorSink creates a sink collecting from the provided stream.
func NewVectorSink[T flow.Sample](in *flow.ReadStream[T]) *VectorSink[T] {
	return &VectorSink[T]{in: in}
}

// Name implements flow.Block.
func (b *VectorSink[T]) Name() string { return "VectorSink" }

// EOF implements flow.Block.
func (b *VectorSink[T]) EOF() bool { return b.in.EOF() }

// Work implements flow.Block.
func (b *VectorSink[T]) Work() (flow.BlockRet, error) {
	for {
		rw, tags := b.in.ReadBuf()
		if rw.IsEmpty() {
			rw.Consume(0)
			if b.in.EOF() {
				return flow.EOF, nil
			}
			return flow.WaitForStream(b.in, 1), nil
		}
		b.mu.Lock()
		base := flow.TagPos(len(b.samples))
		b.samples = append(b.samples, rw.Slice()...)
		for _, t := range tags {
			t.Pos += base
			b.tags = append(b.tags, t)
		}
		b.mu.Unlock()
		rw.Consume(rw.Len())
	}
}

// Samples returns a copy of everything collected so far.
func (b *VectorSink[T]) Samples() []T {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]T, len(b.samples))
	copy(out, b.samples)
	return out
}

// Tags returns a copy of every tag collected so far, positions
// absolute into Samples.
func (b *VectorSink[T]) Tags() []flow.Tag {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]flow.Tag, len(b.tags))
	copy(out, b.tags)
	return out
}

// vim: foldmethod=marker
