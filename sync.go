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

package flow

// This file is the runtime's stand-in for derive-style code
// generation: a "sync" block — one whose output is a pure element-wise
// function of its inputs — shouldn't have to hand-write the standard
// Work loop, the EOF predicate, or the name plumbing. The adapters
// here take the per-sample function and generate the rest, for the
// handful of input/output arities flowgraphs actually use. A block
// that doesn't fit these shapes simply implements Block by hand.
//
// The generated loop is always the same dance: borrow a read window
// per input and a write window per output; report WaitForStream
// against the first empty input or full output; process
// min(windows...) samples; commit; repeat until blocked. Input tags
// pass through unchanged, attached to the same sample positions.

// tagsUpTo returns the prefix of the (sorted) window tags that falls
// inside the first n samples.
func tagsUpTo(tags []Tag, n int) []Tag {
	cut := len(tags)
	for i, t := range tags {
		if int(t.Pos) >= n {
			cut = i
			break
		}
	}
	return tags[:cut]
}

// sampleTags copies the window tags in [lo, hi) with positions rebased
// to the sample they sit on, which is to say zero. Tag-aware blocks
// see and emit sample-relative tags; the Work loop owns the window
// arithmetic.
func sampleTags(tags []Tag, lo, hi int) []Tag {
	if lo == hi {
		return nil
	}
	out := make([]Tag, hi-lo)
	for i, t := range tags[lo:hi] {
		t.Pos = 0
		out[i] = t
	}
	return out
}

// SyncBlock is a one-in one-out sync block: out[i] = fn(in[i]).
type SyncBlock[I, O Sample] struct {
	name string
	in   *ReadStream[I]
	out  *WriteStream[O]
	fn   func(I) O
}

// NewSyncBlock creates a one-in one-out sync block around the provided
// per-sample function, creating its output stream and returning the
// read half. The function may close over state (a filter history, a
// running phase); it is only ever called from one goroutine, in sample
// order.
func NewSyncBlock[I, O Sample](name string, in *ReadStream[I], fn func(I) O) (*SyncBlock[I, O], *ReadStream[O]) {
	w, r := NewStream[O]()
	return &SyncBlock[I, O]{name: name, in: in, out: w, fn: fn}, r
}

// Name implements Block.
func (b *SyncBlock[I, O]) Name() string { return b.name }

// EOF implements Block.
func (b *SyncBlock[I, O]) EOF() bool { return b.in.EOF() }

// Close implements Closer.
func (b *SyncBlock[I, O]) Close() error { return b.out.Close() }

// Work implements Block.
func (b *SyncBlock[I, O]) Work() (BlockRet, error) {
	for {
		rw, tags := b.in.ReadBuf()
		if rw.IsEmpty() {
			rw.Consume(0)
			return WaitForStream(b.in, 1), nil
		}
		ww := b.out.WriteBuf()
		if ww.IsEmpty() {
			ww.Produce(0, nil)
			rw.Consume(0)
			return WaitForStream(b.out, 1), nil
		}
		n := rw.Len()
		if ww.Len() < n {
			n = ww.Len()
		}
		src, dst := rw.Slice(), ww.Slice()
		for i := 0; i < n; i++ {
			dst[i] = b.fn(src[i])
		}
		ww.Produce(n, tagsUpTo(tags, n))
		rw.Consume(n)
	}
}

// SyncBlock2 is a two-in one-out sync block:
// out[i] = fn(a[i], b[i]). The first input's tags pass through.
type SyncBlock2[I1, I2, O Sample] struct {
	name string
	inA  *ReadStream[I1]
	inB  *ReadStream[I2]
	out  *WriteStream[O]
	fn   func(I1, I2) O
}

// NewSyncBlock2 creates a two-in one-out sync block around the
// provided per-sample function.
func NewSyncBlock2[I1, I2, O Sample](name string, inA *ReadStream[I1], inB *ReadStream[I2], fn func(I1, I2) O) (*SyncBlock2[I1, I2, O], *ReadStream[O]) {
	w, r := NewStream[O]()
	return &SyncBlock2[I1, I2, O]{name: name, inA: inA, inB: inB, out: w, fn: fn}, r
}

// Name implements Block.
func (b *SyncBlock2[I1, I2, O]) Name() string { return b.name }

// EOF implements Block.
func (b *SyncBlock2[I1, I2, O]) EOF() bool { return b.inA.EOF() && b.inB.EOF() }

// Close implements Closer.
func (b *SyncBlock2[I1, I2, O]) Close() error { return b.out.Close() }

// Work implements Block.
func (b *SyncBlock2[I1, I2, O]) Work() (BlockRet, error) {
	for {
		rwA, tags := b.inA.ReadBuf()
		if rwA.IsEmpty() {
			rwA.Consume(0)
			return WaitForStream(b.inA, 1), nil
		}
		rwB, _ := b.inB.ReadBuf()
		if rwB.IsEmpty() {
			rwB.Consume(0)
			rwA.Consume(0)
			return WaitForStream(b.inB, 1), nil
		}
		ww := b.out.WriteBuf()
		if ww.IsEmpty() {
			ww.Produce(0, nil)
			rwB.Consume(0)
			rwA.Consume(0)
			return WaitForStream(b.out, 1), nil
		}
		n := rwA.Len()
		if rwB.Len() < n {
			n = rwB.Len()
		}
		if ww.Len() < n {
			n = ww.Len()
		}
		srcA, srcB, dst := rwA.Slice(), rwB.Slice(), ww.Slice()
		for i := 0; i < n; i++ {
			dst[i] = b.fn(srcA[i], srcB[i])
		}
		ww.Produce(n, tagsUpTo(tags, n))
		rwB.Consume(n)
		rwA.Consume(n)
	}
}

// SyncBlock12 is a one-in two-out sync block:
// (a[i], b[i]) = fn(in[i]). Input tags are written to both outputs.
type SyncBlock12[I, O1, O2 Sample] struct {
	name string
	in   *ReadStream[I]
	outA *WriteStream[O1]
	outB *WriteStream[O2]
	fn   func(I) (O1, O2)
}

// NewSyncBlock12 creates a one-in two-out sync block around the
// provided per-sample function.
func NewSyncBlock12[I, O1, O2 Sample](name string, in *ReadStream[I], fn func(I) (O1, O2)) (*SyncBlock12[I, O1, O2], *ReadStream[O1], *ReadStream[O2]) {
	wA, rA := NewStream[O1]()
	wB, rB := NewStream[O2]()
	return &SyncBlock12[I, O1, O2]{name: name, in: in, outA: wA, outB: wB, fn: fn}, rA, rB
}

// Name implements Block.
func (b *SyncBlock12[I, O1, O2]) Name() string { return b.name }

// EOF implements Block.
func (b *SyncBlock12[I, O1, O2]) EOF() bool { return b.in.EOF() }

// Close implements Closer.
func (b *SyncBlock12[I, O1, O2]) Close() error {
	b.outA.Close()
	b.outB.Close()
	return nil
}

// Work implements Block.
func (b *SyncBlock12[I, O1, O2]) Work() (BlockRet, error) {
	for {
		rw, tags := b.in.ReadBuf()
		if rw.IsEmpty() {
			rw.Consume(0)
			return WaitForStream(b.in, 1), nil
		}
		wwA := b.outA.WriteBuf()
		if wwA.IsEmpty() {
			wwA.Produce(0, nil)
			rw.Consume(0)
			return WaitForStream(b.outA, 1), nil
		}
		wwB := b.outB.WriteBuf()
		if wwB.IsEmpty() {
			wwB.Produce(0, nil)
			wwA.Produce(0, nil)
			rw.Consume(0)
			return WaitForStream(b.outB, 1), nil
		}
		n := rw.Len()
		if wwA.Len() < n {
			n = wwA.Len()
		}
		if wwB.Len() < n {
			n = wwB.Len()
		}
		src, dstA, dstB := rw.Slice(), wwA.Slice(), wwB.Slice()
		for i := 0; i < n; i++ {
			dstA[i], dstB[i] = b.fn(src[i])
		}
		pass := tagsUpTo(tags, n)
		wwB.Produce(n, pass)
		wwA.Produce(n, pass)
		rw.Consume(n)
	}
}

// SyncTagBlock is a one-in one-out sync block whose per-sample
// function also sees and emits tags. Emitted tag positions are
// relative to the sample (almost always zero) and get rebased onto
// the output stream.
type SyncTagBlock[I, O Sample] struct {
	name string
	in   *ReadStream[I]
	out  *WriteStream[O]
	fn   func(I, []Tag) (O, []Tag)
}

// NewSyncTagBlock creates a tag-aware one-in one-out sync block.
func NewSyncTagBlock[I, O Sample](name string, in *ReadStream[I], fn func(I, []Tag) (O, []Tag)) (*SyncTagBlock[I, O], *ReadStream[O]) {
	w, r := NewStream[O]()
	return &SyncTagBlock[I, O]{name: name, in: in, out: w, fn: fn}, r
}

// Name implements Block.
func (b *SyncTagBlock[I, O]) Name() string { return b.name }

// EOF implements Block.
func (b *SyncTagBlock[I, O]) EOF() bool { return b.in.EOF() }

// Close implements Closer.
func (b *SyncTagBlock[I, O]) Close() error { return b.out.Close() }

// Work implements Block.
func (b *SyncTagBlock[I, O]) Work() (BlockRet, error) {
	for {
		rw, tags := b.in.ReadBuf()
		if rw.IsEmpty() {
			rw.Consume(0)
			return WaitForStream(b.in, 1), nil
		}
		ww := b.out.WriteBuf()
		if ww.IsEmpty() {
			ww.Produce(0, nil)
			rw.Consume(0)
			return WaitForStream(b.out, 1), nil
		}
		n := rw.Len()
		if ww.Len() < n {
			n = ww.Len()
		}
		src, dst := rw.Slice(), ww.Slice()
		var outTags []Tag
		ti := 0
		for i := 0; i < n; i++ {
			lo := ti
			for ti < len(tags) && int(tags[ti].Pos) == i {
				ti++
			}
			var emitted []Tag
			dst[i], emitted = b.fn(src[i], sampleTags(tags, lo, ti))
			for _, t := range emitted {
				t.Pos += TagPos(i)
				outTags = append(outTags, t)
			}
		}
		ww.Produce(n, outTags)
		rw.Consume(n)
	}
}

// SyncTagBlock2 is a two-in one-out tag-aware sync block; the
// per-sample function sees both inputs' tags.
type SyncTagBlock2[I1, I2, O Sample] struct {
	name string
	inA  *ReadStream[I1]
	inB  *ReadStream[I2]
	out  *WriteStream[O]
	fn   func(I1, []Tag, I2, []Tag) (O, []Tag)
}

// NewSyncTagBlock2 creates a tag-aware two-in one-out sync block.
func NewSyncTagBlock2[I1, I2, O Sample](name string, inA *ReadStream[I1], inB *ReadStream[I2], fn func(I1, []Tag, I2, []Tag) (O, []Tag)) (*SyncTagBlock2[I1, I2, O], *ReadStream[O]) {
	w, r := NewStream[O]()
	return &SyncTagBlock2[I1, I2, O]{name: name, inA: inA, inB: inB, out: w, fn: fn}, r
}

// Name implements Block.
func (b *SyncTagBlock2[I1, I2, O]) Name() string { return b.name }

// EOF implements Block.
func (b *SyncTagBlock2[I1, I2, O]) EOF() bool { return b.inA.EOF() && b.inB.EOF() }

// Close implements Closer.
func (b *SyncTagBlock2[I1, I2, O]) Close() error { return b.out.Close() }

// Work implements Block.
func (b *SyncTagBlock2[I1, I2, O]) Work() (BlockRet, error) {
	for {
		rwA, tagsA := b.inA.ReadBuf()
		if rwA.IsEmpty() {
			rwA.Consume(0)
			return WaitForStream(b.inA, 1), nil
		}
		rwB, tagsB := b.inB.ReadBuf()
		if rwB.IsEmpty() {
			rwB.Consume(0)
			rwA.Consume(0)
			return WaitForStream(b.inB, 1), nil
		}
		ww := b.out.WriteBuf()
		if ww.IsEmpty() {
			ww.Produce(0, nil)
			rwB.Consume(0)
			rwA.Consume(0)
			return WaitForStream(b.out, 1), nil
		}
		n := rwA.Len()
		if rwB.Len() < n {
			n = rwB.Len()
		}
		if ww.Len() < n {
			n = ww.Len()
		}
		srcA, srcB, dst := rwA.Slice(), rwB.Slice(), ww.Slice()
		var outTags []Tag
		ta, tb := 0, 0
		for i := 0; i < n; i++ {
			loA := ta
			for ta < len(tagsA) && int(tagsA[ta].Pos) == i {
				ta++
			}
			loB := tb
			for tb < len(tagsB) && int(tagsB[tb].Pos) == i {
				tb++
			}
			var emitted []Tag
			dst[i], emitted = b.fn(srcA[i], sampleTags(tagsA, loA, ta), srcB[i], sampleTags(tagsB, loB, tb))
			for _, t := range emitted {
				t.Pos += TagPos(i)
				outTags = append(outTags, t)
			}
		}
		ww.Produce(n, outTags)
		rwB.Consume(n)
		rwA.Consume(n)
	}
}

// NCSyncBlock is the non-copy flavor: one whole message in, one whole
// message out, tags riding along. The loop moves a message at a time,
// and only pops the input once the output has room.
type NCSyncBlock[I, O any] struct {
	name string
	in   *NCReadStream[I]
	out  *NCWriteStream[O]
	fn   func(I, []Tag) (O, []Tag)
}

// NewNCSyncBlock creates a message-at-a-time sync block around the
// provided per-message function, creating its output stream and
// returning the read half.
func NewNCSyncBlock[I, O any](name string, in *NCReadStream[I], fn func(I, []Tag) (O, []Tag)) (*NCSyncBlock[I, O], *NCReadStream[O]) {
	w, r := NewNCStream[O]()
	return &NCSyncBlock[I, O]{name: name, in: in, out: w, fn: fn}, r
}

// Name implements Block.
func (b *NCSyncBlock[I, O]) Name() string { return b.name }

// EOF implements Block.
func (b *NCSyncBlock[I, O]) EOF() bool { return b.in.EOF() }

// Close implements Closer.
func (b *NCSyncBlock[I, O]) Close() error { return b.out.Close() }

// Work implements Block.
func (b *NCSyncBlock[I, O]) Work() (BlockRet, error) {
	for {
		if b.out.Free() == 0 {
			return WaitForStream(b.out, 1), nil
		}
		v, tags, ok := b.in.Pop()
		if !ok {
			return WaitForStream(b.in, 1), nil
		}
		out, outTags := b.fn(v, tags)
		b.out.Push(out, outTags...)
	}
}

// vim: foldmethod=marker
