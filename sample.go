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

import (
	"unsafe"
)

// Float is the runtime's float type: 32-bit IEEE-754, same as IQ data
// off most hardware.
type Float = float32

// Complex is the runtime's complex type, two Floats.
type Complex = complex64

// Sample is the constraint satisfied by every type that can ride a
// copy stream: fixed-size POD numerics. Anything that isn't plain old
// data (slices, structs with pointers, PDUs) belongs on a non-copy
// stream instead.
type Sample interface {
	~uint8 | ~int8 | ~uint16 | ~int16 | ~uint32 | ~int32 |
		~uint64 | ~int64 | ~float32 | ~complex64
}

// SampleSize returns the size in bytes of one sample of type T.
func SampleSize[T Sample]() int {
	var t T
	return int(unsafe.Sizeof(t))
}

// laneSize returns the width in bytes of the byte-order lane of T.
// Every Sample type is one machine lane, except Complex, which is two
// four-byte lanes.
func laneSize[T Sample]() int {
	var t T
	if _, ok := any(t).(complex64); ok {
		return 4
	}
	return int(unsafe.Sizeof(t))
}

// hostLittleEndian reports whether this machine stores multi-byte
// values little-endian.
func hostLittleEndian() bool {
	x := uint16(1)
	return *(*byte)(unsafe.Pointer(&x)) == 1
}

// unsafeBytes returns the raw bytes backing a sample slice, in host
// byte order, without copying.
func unsafeBytes[T Sample](s []T) []byte {
	if len(s) == 0 {
		return nil
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(&s[0])), len(s)*SampleSize[T]())
}

// SamplesToLE serializes samples into dst as little-endian bytes, and
// returns the number of bytes written. dst must hold at least
// len(src)*SampleSize[T]() bytes.
func SamplesToLE[T Sample](dst []byte, src []T) int {
	n := copy(dst, unsafeBytes(src))
	if !hostLittleEndian() {
		swapLanes(dst[:n], laneSize[T]())
	}
	return n
}

// SamplesFromLE deserializes little-endian bytes into dst, and returns
// the number of samples read. len(src) must be a multiple of
// SampleSize[T]().
func SamplesFromLE[T Sample](dst []T, src []byte) int {
	size := SampleSize[T]()
	n := len(src) / size
	if n > len(dst) {
		n = len(dst)
	}
	copy(unsafeBytes(dst[:n]), src[:n*size])
	if !hostLittleEndian() {
		swapLanes(unsafeBytes(dst[:n]), laneSize[T]())
	}
	return n
}

// swapLanes byte-reverses each lane-sized group in place.
func swapLanes(b []byte, lane int) {
	if lane <= 1 {
		return
	}
	for off := 0; off+lane <= len(b); off += lane {
		for i, j := off, off+lane-1; i < j; i, j = i+1, j-1 {
			b[i], b[j] = b[j], b[i]
		}
	}
}

// vim: foldmethod=marker
