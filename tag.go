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
	"fmt"
)

// TagPos is a sample position a Tag is attached to.
//
// When a Tag is handed to Produce, Pos is relative to the start of the
// write window. When a Tag comes back out of ReadBuf, Pos is relative
// to the start of the read window. The stream does the bookkeeping in
// between, wrap included.
type TagPos uint64

// Tag is a piece of out-of-band metadata attached to a single sample
// position in a stream. Tags travel with their sample: a tag produced
// at some position is read exactly once, on the read window that
// contains that sample.
type Tag struct {
	// Pos is the sample position, relative to the current window.
	Pos TagPos

	// Key names the tag, usually something like "burst" or
	// "SignalSource::start".
	Key string

	// Val carries the tag's value.
	Val TagValue
}

// String implements fmt.Stringer.
func (t Tag) String() string {
	return fmt.Sprintf("Tag(%d, %q, %v)", t.Pos, t.Key, t.Val)
}

// TagValue is the value carried by a Tag. It is one of TagBool, TagI64,
// TagU64, TagFloat or TagString.
type TagValue interface {
	isTagValue()
}

// TagBool is a boolean tag value.
type TagBool bool

// TagI64 is a signed integer tag value.
type TagI64 int64

// TagU64 is an unsigned integer tag value.
type TagU64 uint64

// TagFloat is a float tag value.
type TagFloat Float

// TagString is a string tag value.
type TagString string

func (TagBool) isTagValue()   {}
func (TagI64) isTagValue()    {}
func (TagU64) isTagValue()    {}
func (TagFloat) isTagValue()  {}
func (TagString) isTagValue() {}

// vim: foldmethod=marker
