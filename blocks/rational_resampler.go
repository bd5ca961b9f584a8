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

func gcd(a, b int) int {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

// RationalResampler resamples by a fractional amount, interp/deci,
// using nearest-neighbor repetition: no filtering, unlike the
// GNURadio block of the same name. The stride is deterministic — per
// input sample the counter gains interp, and an output sample costs
// deci.
//
// A common pattern to convert between arbitrary sample rates X and Y
// is to decimate by X and interpolate by Y.
type RationalResampler[T flow.Sample] struct {
	in      *flow.ReadStream[T]
	out     *flow.WriteStream[T]
	interp  int64
	deci    int64
	counter int64
}

// NewRationalResampler creates a resampler. The ratio is reduced by
// its gcd first; a zero interpolation or decimation is a
// configuration error.
func NewRationalResampler[T flow.Sample](in *flow.ReadStream[T], interp, deci int) (*RationalResampler[T], *flow.ReadStream[T], error) {
	if interp <= 0 || deci <= 0 {
		return nil, nil, flow.BadConfigf("rational resampler needs positive interp/deci, got %d/%d", interp, deci)
	}
	g := gcd(interp, deci)
	interp /= g
	deci /= g
	w, r := flow.NewStream[T]()
	return &RationalResampler[T]{
		in:      in,
		out:     w,
		interp:  int64(interp),
		deci:    int64(deci),
		counter: -int64(deci),
	}, r, nil
}

// Name implements flow.Block.
func (b *RationalResampler[T]) Name() string { return "RationalResampler" }

// EOF implements flow.Block.
func (b *RationalResampler[T]) EOF() bool { return b.in.EOF() }

// Close implements flow.Closer.
func (b *RationalResampler[T]) Close() error { return b.out.Close() }

// Work implements flow.Block.
func (b *RationalResampler[T]) Work() (flow.BlockRet, error) {
	// The most samples one input sample can emit.
	perSample := int(b.interp/b.deci) + 1

	for {
		rw, _ := b.in.ReadBuf()
		if rw.IsEmpty() {
			rw.Consume(0)
			return flow.WaitForStream(b.in, 1), nil
		}
		ww := b.out.WriteBuf()
		if ww.Len() < perSample {
			ww.Produce(0, nil)
			rw.Consume(0)
			return flow.WaitForStream(b.out, perSample), nil
		}
		src, dst := rw.Slice(), ww.Slice()
		i, o := 0, 0
		for i < len(src) && o+perSample <= len(dst) {
			b.counter += b.interp
			for b.counter >= 0 {
				dst[o] = src[i]
				o++
				b.counter -= b.deci
			}
			i++
		}
		ww.Produce(o, nil)
		rw.Consume(i)
	}
}

// vim: foldmethod=marker
