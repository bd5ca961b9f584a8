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

// Integer is the constraint for blocks that only make sense on
// integer samples (the bitwise ones).
type Integer interface {
	~uint8 | ~int8 | ~uint16 | ~int16 | ~uint32 | ~int32 | ~uint64 | ~int64
}

// NewAddConst creates a sync block adding val to every sample. Tags
// pass through untouched.
func NewAddConst[T flow.Sample](in *flow.ReadStream[T], val T) (*flow.SyncBlock[T, T], *flow.ReadStream[T]) {
	return flow.NewSyncBlock("AddConst", in, func(v T) T {
		return v + val
	})
}

// NewMultiplyConst creates a sync block multiplying every sample by
// val.
func NewMultiplyConst[T flow.Sample](in *flow.ReadStream[T], val T) (*flow.SyncBlock[T, T], *flow.ReadStream[T]) {
	return flow.NewSyncBlock("MultiplyConst", in, func(v T) T {
		return v * val
	})
}

// NewAdd creates a sync block adding two streams sample-wise.
func NewAdd[T flow.Sample](a, b *flow.ReadStream[T]) (*flow.SyncBlock2[T, T, T], *flow.ReadStream[T]) {
	return flow.NewSyncBlock2("Add", a, b, func(x, y T) T {
		return x + y
	})
}

// NewXor creates a sync block xoring two integer streams sample-wise.
func NewXor[T Integer](a, b *flow.ReadStream[T]) (*flow.SyncBlock2[T, T, T], *flow.ReadStream[T]) {
	return flow.NewSyncBlock2("Xor", a, b, func(x, y T) T {
		return x ^ y
	})
}

// NewXorConst creates a sync block xoring every sample with val.
func NewXorConst[T Integer](in *flow.ReadStream[T], val T) (*flow.SyncBlock[T, T], *flow.ReadStream[T]) {
	return flow.NewSyncBlock("XorConst", in, func(v T) T {
		return v ^ val
	})
}

// NewTee creates a sync block duplicating its input into two output
// streams. Samples and tags land in both.
func NewTee[T flow.Sample](in *flow.ReadStream[T]) (*flow.SyncBlock12[T, T, T], *flow.ReadStream[T], *flow.ReadStream[T]) {
	return flow.NewSyncBlock12("Tee", in, func(v T) (T, T) {
		return v, v
	})
}

// NewDelay creates a sync block delaying its stream by n samples:
// the output starts with n zero values, and everything after is the
// input, shifted.
func NewDelay[T flow.Sample](in *flow.ReadStream[T], n int) (*flow.SyncBlock[T, T], *flow.ReadStream[T]) {
	if n <= 0 {
		return flow.NewSyncBlock("Delay", in, func(v T) T { return v })
	}
	hist := make([]T, n)
	idx := 0
	return flow.NewSyncBlock("Delay", in, func(v T) T {
		out := hist[idx]
		hist[idx] = v
		idx = (idx + 1) % n
		return out
	})
}

// vim: foldmethod=marker
