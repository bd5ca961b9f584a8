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

// "NRZI" is ambiguous about which symbol toggles. These blocks do
// NRZI-S: a zero toggles the line, a one holds it, because that is
// what AX.25 does, both 1200bps Bell 202 and 9600 G3RUH. Bits ride as
// bytes holding 0 or 1.

// NewNrziEncode creates an NRZI-S encoder.
func NewNrziEncode(in *flow.ReadStream[byte]) (*flow.SyncBlock[byte, byte], *flow.ReadStream[byte]) {
	var out byte
	return flow.NewSyncBlock("NrziEncode", in, func(v byte) byte {
		if v == 0 {
			out ^= 1
		}
		return out
	})
}

// NewNrziDecode creates an NRZI-S decoder.
func NewNrziDecode(in *flow.ReadStream[byte]) (*flow.SyncBlock[byte, byte], *flow.ReadStream[byte]) {
	var last byte
	return flow.NewSyncBlock("NrziDecode", in, func(v byte) byte {
		tmp := last
		last = v
		return 1 ^ v ^ tmp
	})
}

// vim: foldmethod=marker
