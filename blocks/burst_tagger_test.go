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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hz.tools/flow"
	"hz.tools/flow/blocks"
	"hz.tools/flow/graph"
)

// burstFixture is the burst from the classic wpcr-style pipeline:
// u32 data 0..99, with the trigger above threshold for 80..89.
func burstFixture() (data []uint32, trigger []flow.Float) {
	data = make([]uint32, 100)
	trigger = make([]flow.Float, 100)
	for i := range data {
		data[i] = uint32(i)
		switch {
		case i < 80:
			trigger[i] = 0.1
		case i < 90:
			trigger[i] = 0.3
		default:
			trigger[i] = 0.2
		}
	}
	return data, trigger
}

func TestBurstTagger(t *testing.T) {
	data, trigger := burstFixture()

	src, srcOut := blocks.NewVectorSource(data)
	trig, trigOut := blocks.NewVectorSource(trigger)
	bt, btOut := blocks.NewBurstTagger(srcOut, trigOut, 0.25, "burst")
	sink := blocks.NewVectorSink(btOut)

	g := graph.New()
	g.Add(src)
	g.Add(trig)
	g.Add(bt)
	g.Add(sink)
	require.NoError(t, g.Run())

	assert.Equal(t, data, sink.Samples())
	tags := sink.Tags()
	require.Len(t, tags, 2)
	assert.Equal(t, flow.Tag{Pos: 80, Key: "burst", Val: flow.TagBool(true)}, tags[0])
	assert.Equal(t, flow.Tag{Pos: 90, Key: "burst", Val: flow.TagBool(false)}, tags[1])
}

func TestBurstToPDU(t *testing.T) {
	data, trigger := burstFixture()

	src, srcOut := blocks.NewVectorSource(data)
	trig, trigOut := blocks.NewVectorSource(trigger)
	bt, btOut := blocks.NewBurstTagger(srcOut, trigOut, 0.25, "burst")
	pdu, pduOut := blocks.NewStreamToPDU(btOut, "burst", 10000, 0)

	g := graph.New()
	g.Add(src)
	g.Add(trig)
	g.Add(bt)
	g.Add(pdu)
	require.NoError(t, g.Run())

	burst, tags, ok := pduOut.Pop()
	require.True(t, ok)
	assert.Empty(t, tags)
	require.Len(t, burst, 10)
	for i, v := range burst {
		assert.Equal(t, uint32(80+i), v)
	}

	_, _, ok = pduOut.Pop()
	assert.False(t, ok)
}

// vim: foldmethod=marker
