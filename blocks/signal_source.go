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
	"math"

	"hz.tools/rf"

	"hz.tools/flow"
)

// SignalSource generates a complex carrier wave at a specific
// frequency. It runs forever; cancel the graph (or put a head-style
// block behind it) to stop it.
//
// Phase is continuous across windows, so the output is a clean tone
// no matter how the scheduler slices it up.
type SignalSource struct {
	out  *flow.WriteStream[flow.Complex]
	freq rf.Hz
	rate int
	amp  flow.Float
	n    uint64
}

// NewSignalSource creates a tone source at the provided frequency and
// sample rate.
func NewSignalSource(freq rf.Hz, sampleRate int, amplitude flow.Float) (*SignalSource, *flow.ReadStream[flow.Complex], error) {
	if sampleRate <= 0 {
		return nil, nil, flow.BadConfigf("signal source needs a positive sample rate, got %d", sampleRate)
	}
	w, r := flow.NewStream[flow.Complex]()
	return &SignalSource{
		out:  w,
		freq: freq,
		rate: sampleRate,
		amp:  amplitude,
	}, r, nil
}

// Name implements flow.Block.
func (b *SignalSource) Name() string { return "SignalSource" }

// EOF implements flow.Block.
func (b *SignalSource) EOF() bool { return false }

// Close implements flow.Closer.
func (b *SignalSource) Close() error { return b.out.Close() }

// Work implements flow.Block.
func (b *SignalSource) Work() (flow.BlockRet, error) {
	ww := b.out.WriteBuf()
	if ww.IsEmpty() {
		ww.Produce(0, nil)
		return flow.WaitForStream(b.out, 1), nil
	}

	var (
		carrierFreq = float64(b.freq)
		tau         = math.Pi * 2
		dst         = ww.Slice()
	)
	for i := range dst {
		now := float64(b.n+uint64(i)) / float64(b.rate)
		dst[i] = flow.Complex(complex(
			float64(b.amp)*math.Cos(tau*carrierFreq*now),
			float64(b.amp)*math.Sin(tau*carrierFreq*now),
		))
	}
	b.n += uint64(len(dst))
	ww.Produce(len(dst), nil)
	return flow.Again, nil
}

// vim: foldmethod=marker
