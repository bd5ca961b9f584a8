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

// StreamToPDU turns a tagged stream into PDUs.
//
// Bursts are marked in the stream by a boolean tag: true where the
// burst starts, false where it ends. The sample carrying the false
// tag is not included, unless tail is greater than zero, in which
// case that many extra samples ride along. Samples between bursts are
// discarded, and a burst that grows past maxSize is thrown away
// wholesale.
//
// Pair it with BurstTagger, which writes exactly these tags.
type StreamToPDU[T flow.Sample] struct {
	in      *flow.ReadStream[T]
	out     *flow.NCWriteStream[[]T]
	tag     string
	buf     []T
	endLeft int // samples of tail still owed; -1 when not counting
	maxSize int
	tail    int
	pending [][]T
}

// NewStreamToPDU creates a stream-to-PDU block watching for the
// provided tag name. maxSize bounds a burst; tail is the number of
// extra samples delivered after the end tag.
func NewStreamToPDU[T flow.Sample](in *flow.ReadStream[T], tag string, maxSize, tail int) (*StreamToPDU[T], *flow.NCReadStream[[]T]) {
	w, r := flow.NewNCStream[[]T]()
	return &StreamToPDU[T]{
		in:      in,
		out:     w,
		tag:     tag,
		endLeft: -1,
		maxSize: maxSize,
		tail:    tail,
	}, r
}

// Name implements flow.Block.
func (b *StreamToPDU[T]) Name() string { return "StreamToPdu" }

// EOF implements flow.Block. The block hangs on until every finished
// burst has made it out.
func (b *StreamToPDU[T]) EOF() bool { return b.in.EOF() && len(b.pending) == 0 }

// Close implements flow.Closer.
func (b *StreamToPDU[T]) Close() error { return b.out.Close() }

// done files the completed burst. Bursts that can't be pushed right
// now queue up and go out first thing next Work.
func (b *StreamToPDU[T]) done() {
	pdu := b.buf
	if pdu == nil {
		pdu = []T{}
	}
	b.buf = nil
	b.endLeft = -1
	if len(b.pending) > 0 || !b.out.Push(pdu) {
		b.pending = append(b.pending, pdu)
	}
}

// Work implements flow.Block.
func (b *StreamToPDU[T]) Work() (flow.BlockRet, error) {
	for len(b.pending) > 0 {
		if !b.out.Push(b.pending[0]) {
			return flow.WaitForStream(b.out, 1), nil
		}
		b.pending = b.pending[1:]
	}

	rw, tags := b.in.ReadBuf()
	if rw.IsEmpty() {
		rw.Consume(0)
		return flow.WaitForStream(b.in, 1), nil
	}

	// Only this block's tag matters; index the window's markers by
	// position.
	marks := map[flow.TagPos]bool{}
	for _, t := range tags {
		if t.Key != b.tag {
			continue
		}
		if v, ok := t.Val.(flow.TagBool); ok {
			marks[t.Pos] = bool(v)
		}
	}

	for i, s := range rw.Slice() {
		if b.endLeft >= 0 {
			b.buf = append(b.buf, s)
			b.endLeft--
			if b.endLeft == 0 {
				b.done()
			}
		} else if v, ok := marks[flow.TagPos(i)]; ok {
			if !v {
				// End of burst.
				if b.tail > 0 {
					b.buf = append(b.buf, s)
				}
				if b.tail <= 1 {
					b.done()
				} else {
					b.endLeft = b.tail - 1
				}
			} else {
				// Start of burst; keep the first sample.
				b.buf = append(b.buf, s)
			}
		} else if len(b.buf) > 0 {
			// Burst continuation.
			b.buf = append(b.buf, s)
		}
		if len(b.buf) > b.maxSize {
			// Too long; discard and stop saving.
			b.buf = nil
			b.endLeft = -1
		}
	}
	rw.Consume(rw.Len())
	return flow.Again, nil
}

// vim: foldmethod=marker
