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

package flow_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hz.tools/flow"
)

func TestNCStreamBasics(t *testing.T) {
	w, r := flow.NewNCStream[[]byte]()

	_, _, ok := r.Pop()
	assert.False(t, ok)

	assert.True(t, w.Push([]byte{1, 2, 3}, flow.Tag{Pos: 0, Key: "pdu", Val: flow.TagU64(1)}))
	assert.True(t, w.Push([]byte{4}))
	assert.Equal(t, 2, r.Available())

	// Peek doesn't pop.
	n, ok := flow.PeekLen(r)
	require.True(t, ok)
	assert.Equal(t, 3, n)
	assert.Equal(t, 2, r.Available())

	v, tags, ok := r.Pop()
	require.True(t, ok)
	assert.Equal(t, []byte{1, 2, 3}, v)
	require.Len(t, tags, 1)
	assert.Equal(t, "pdu", tags[0].Key)

	v, tags, ok = r.Pop()
	require.True(t, ok)
	assert.Equal(t, []byte{4}, v)
	assert.Empty(t, tags)

	_, _, ok = r.Pop()
	assert.False(t, ok)
}

func TestNCStreamBounded(t *testing.T) {
	w, r := flow.NewNCStreamCapacity[int](2)

	assert.True(t, w.Push(1))
	assert.True(t, w.Push(2))
	assert.Equal(t, 0, w.Free())
	assert.False(t, w.Push(3))

	v, _, ok := r.Pop()
	require.True(t, ok)
	assert.Equal(t, 1, v)
	assert.Equal(t, 1, w.Free())
	assert.True(t, w.Push(3))
}

func TestNCStreamEOF(t *testing.T) {
	w, r := flow.NewNCStream[int]()
	require.True(t, w.Push(1))
	require.NoError(t, w.Close())

	assert.False(t, r.EOF())
	_, _, ok := r.Pop()
	require.True(t, ok)
	assert.True(t, r.EOF())
}

func TestNCStreamWait(t *testing.T) {
	w, r := flow.NewNCStream[int]()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		assert.False(t, r.Wait(1, nil))
		v, _, ok := r.Pop()
		assert.True(t, ok)
		assert.Equal(t, 42, v)
		assert.True(t, r.Wait(1, nil))
	}()

	w.Push(42)
	w.Close()
	wg.Wait()
}

// vim: foldmethod=marker
