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

// VectorSource emits a fixed vector of samples, optionally with tags,
// then closes its output. With Repeat set it starts over instead, and
// only ends when the graph is cancelled.
type VectorSource[T flow.Sample] struct {
	out    *flow.WriteStream[T]
	data   []T
	tags   []flow.Tag
	pos    int
	repeat bool
}

// NewVectorSource creates a source that emits data once.
func NewVectorSource[T flow.Sample](data []T) (*VectorSource[T], *flow.ReadStream[T]) {
	return NewVectorSourceTags(data, nil)
}

// NewVectorSourceTags creates a source that emits data once, with the
// provided tags. Tag positions are indexes into data.
func NewVectorSourceTags[T flow.Sample](data []T, tags []flow.Tag) (*VectorSource[T], *flow.ReadStream[T]) {
	w, r := flow.NewStream[T]()
	return &VectorSource[T]{out: w, data: data, tags: tags}, r
}

// SetRepeat makes the source loop over its vector forever, re-emitting
// tags on every pass. Set it before the graph runs.
func (b *VectorSource[T]) SetRepeat(repeat bool) {
	b.repeat = repeat
}

// Name implements flow.Block.
func (b *VectorSource[T]) Name() string { return "VectorSource" }

// EOF implements flow.Block.
func (b *VectorSource[T]) EOF() bool { return false }

// Close implements flow.Closer.
func (b *VectorSource[T]) Close() error { return b.out.Close() }

// Work implements flow.Block.
func (b *VectorSource[T]) Work() (flow.BlockRet, error) {
	for {
		if b.pos >= len(b.data) {
			if !b.repeat {
				b.out.Close()
				return flow.EOF, nil
			}
			b.pos = 0
		}
		ww := b.out.WriteBuf()
		if ww.IsEmpty() {
			ww.Produce(0, nil)
			return flow.WaitForStream(b.out, 1), nil
		}
		n := copy(ww.Slice(), b.data[b.pos:])
		var tags []flow.Tag
		for _, t := range b.tags {
			if int(t.Pos) >= b.pos && int(t.Pos) < b.pos+n {
				t.Pos -= flow.TagPos(b.pos)
				tags = append(tags, t)
			}
		}
		ww.Produce(n, tags)
		b.pos += n
	}
}

// vim: foldmethod=marker
