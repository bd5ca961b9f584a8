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

const hdlcSyncCount = 10

// hdlcSync is the HDLC flag, 0x7e, as bits on the wire.
var hdlcSync = []byte{0, 1, 1, 1, 1, 1, 1, 0}

// hdlcEncode frames one packet: sync flags, then the payload LSB
// first with a zero stuffed after every five consecutive ones, then
// sync flags again.
func hdlcEncode(data []byte) []byte {
	out := make([]byte, 0, len(data)*8+2*hdlcSyncCount*len(hdlcSync)+len(data))
	for i := 0; i < hdlcSyncCount; i++ {
		out = append(out, hdlcSync...)
	}
	ones := 0
	for _, b := range data {
		for bit := 0; bit < 8; bit++ {
			if b&1 == 1 {
				ones++
				out = append(out, 1)
				if ones == 5 {
					ones = 0
					out = append(out, 0)
				}
			} else {
				ones = 0
				out = append(out, 0)
			}
			b >>= 1
		}
	}
	for i := 0; i < hdlcSyncCount; i++ {
		out = append(out, hdlcSync...)
	}
	return out
}

// HdlcFramer takes packets of bytes and emits packets of bits.
//
// The output has to stay bits, because bit stuffing means a frame is
// not necessarily byte aligned. HDLC shows up all over the place,
// notably under AX.25 and therefore APRS.
type HdlcFramer struct {
	in  *flow.NCReadStream[[]byte]
	out *flow.NCWriteStream[[]byte]
}

// NewHdlcFramer creates an HDLC framer.
func NewHdlcFramer(in *flow.NCReadStream[[]byte]) (*HdlcFramer, *flow.NCReadStream[[]byte]) {
	w, r := flow.NewNCStream[[]byte]()
	return &HdlcFramer{in: in, out: w}, r
}

// Name implements flow.Block.
func (b *HdlcFramer) Name() string { return "HdlcFramer" }

// EOF implements flow.Block.
func (b *HdlcFramer) EOF() bool { return b.in.EOF() }

// Close implements flow.Closer.
func (b *HdlcFramer) Close() error { return b.out.Close() }

// Work implements flow.Block.
func (b *HdlcFramer) Work() (flow.BlockRet, error) {
	for {
		if b.out.Free() == 0 {
			return flow.WaitForStream(b.out, 1), nil
		}
		v, tags, ok := b.in.Pop()
		if !ok {
			return flow.WaitForStream(b.in, 1), nil
		}
		b.out.Push(hdlcEncode(v), tags...)
	}
}

// vim: foldmethod=marker
