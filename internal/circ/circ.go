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

// Package circ contains a double-mapped circular byte buffer.
//
// The same physical pages are mapped twice, back to back, so that any
// window of up to the buffer's length is a single contiguous slice, no
// matter where it starts. This is what lets stream windows hand out one
// flat slice to DSP inner loops without copying around the wrap point.
//
// On platforms where the double mapping can't be set up, New falls back
// to a plain allocation, and MaxContig reports shorter windows near the
// wrap so that callers never see a split window.
package circ

import (
	"os"
)

// Circ is a circular byte buffer of Len() bytes. When Mapped() reports
// true, the underlying bytes are mapped twice back-to-back, and any
// Slice(start, n) with n <= Len() is contiguous. When false, windows
// are bounded by MaxContig so they never straddle the physical end of
// the allocation.
type Circ struct {
	buf    []byte
	n      int
	mapped bool
	unmap  func() error
}

// New will create a new circular buffer of at least size bytes, rounded
// up to the system page size. The double mapping is used where the OS
// supports it, otherwise a bounded-window fallback is returned.
func New(size int) (*Circ, error) {
	n := pageRound(size)
	if c, err := newMapped(n); err == nil {
		return c, nil
	}
	return NewUnmapped(size)
}

// NewUnmapped will create a circular buffer that does not use the
// double-mapping trick, even where the OS supports it. Windows are
// bounded so they never straddle the physical wrap. This exists so the
// fallback path can be exercised everywhere.
func NewUnmapped(size int) (*Circ, error) {
	n := pageRound(size)
	return &Circ{
		buf:    make([]byte, n),
		n:      n,
		mapped: false,
	}, nil
}

// pageRound will round the provided size up to the next multiple of the
// system page size.
func pageRound(size int) int {
	pg := os.Getpagesize()
	if size <= 0 {
		size = pg
	}
	return ((size + pg - 1) / pg) * pg
}

// Len returns the usable length of the buffer, in bytes.
func (c *Circ) Len() int {
	return c.n
}

// Mapped returns true if the buffer is double-mapped, meaning any
// window of up to Len() bytes is contiguous.
func (c *Circ) Mapped() bool {
	return c.mapped
}

// MaxContig returns the longest contiguous window that may start at the
// provided offset. For a mapped buffer this is always Len(); for the
// fallback it is the distance to the physical end of the allocation.
func (c *Circ) MaxContig(start int) int {
	if c.mapped {
		return c.n
	}
	return c.n - start
}

// Slice returns the contiguous window of n bytes starting at the
// provided offset. The caller must keep n within MaxContig(start).
func (c *Circ) Slice(start, n int) []byte {
	return c.buf[start : start+n]
}

// Bytes returns the raw backing slice. For a mapped buffer this is the
// full 2·Len() view; for the fallback it is Len() bytes.
func (c *Circ) Bytes() []byte {
	return c.buf
}

// Close will release the mapping, if any. The buffer must not be used
// after Close.
func (c *Circ) Close() error {
	if c.unmap != nil {
		err := c.unmap()
		c.unmap = nil
		c.buf = nil
		return err
	}
	c.buf = nil
	return nil
}

// vim: foldmethod=marker
