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

package blocks_test

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hz.tools/flow/blocks"
	"hz.tools/flow/graph"
)

func TestNrziDecode(t *testing.T) {
	src, prev := blocks.NewVectorSource([]byte{0, 0, 0, 0, 1, 1, 1, 1})
	dec, prev := blocks.NewNrziDecode(prev)
	sink := blocks.NewVectorSink(prev)

	g := graph.New()
	g.Add(src)
	g.Add(dec)
	g.Add(sink)
	require.NoError(t, g.Run())

	assert.Equal(t, []byte{1, 1, 1, 1, 0, 1, 1, 1}, sink.Samples())
}

func TestNrziEncode(t *testing.T) {
	src, prev := blocks.NewVectorSource([]byte{1, 1, 1, 1, 0, 1, 1, 1})
	enc, prev := blocks.NewNrziEncode(prev)
	sink := blocks.NewVectorSink(prev)

	g := graph.New()
	g.Add(src)
	g.Add(enc)
	g.Add(sink)
	require.NoError(t, g.Run())

	assert.Equal(t, []byte{0, 0, 0, 0, 1, 1, 1, 1}, sink.Samples())
}

func TestNrziRoundtrip(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	data := make([]byte, 1000)
	for i := range data {
		data[i] = byte(rng.Intn(2))
	}

	src, prev := blocks.NewVectorSource(data)
	enc, prev := blocks.NewNrziEncode(prev)
	dec, prev := blocks.NewNrziDecode(prev)
	sink := blocks.NewVectorSink(prev)

	g := graph.New()
	g.Add(src)
	g.Add(enc)
	g.Add(dec)
	g.Add(sink)
	require.NoError(t, g.Run())

	assert.Equal(t, data, sink.Samples())
}

// vim: foldmethod=marker
