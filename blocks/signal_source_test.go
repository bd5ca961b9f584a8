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
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hz.tools/rf"

	"hz.tools/flow"
	"hz.tools/flow/blocks"
)

func TestSignalSourceDC(t *testing.T) {
	src, out, err := blocks.NewSignalSource(rf.Hz(0), 48000, 1.0)
	require.NoError(t, err)

	ret, err := src.Work()
	require.NoError(t, err)
	assert.Equal(t, flow.RetAgain, ret.Kind())

	rw, _ := out.ReadBuf()
	require.NotZero(t, rw.Len())
	for _, s := range rw.Slice()[:16] {
		assert.InDelta(t, 1.0, real(s), 1e-6)
		assert.InDelta(t, 0.0, imag(s), 1e-6)
	}
	rw.Consume(rw.Len())
}

func TestSignalSourceTone(t *testing.T) {
	// A tone at rate/4 walks the unit circle in quarter turns.
	const rate = 1024
	src, out, err := blocks.NewSignalSource(rf.Hz(rate/4), rate, 1.0)
	require.NoError(t, err)

	_, err = src.Work()
	require.NoError(t, err)

	rw, _ := out.ReadBuf()
	require.GreaterOrEqual(t, rw.Len(), 4)
	s := rw.Slice()
	assert.InDelta(t, 1.0, real(s[0]), 1e-4)
	assert.InDelta(t, 0.0, imag(s[0]), 1e-4)
	assert.InDelta(t, 0.0, real(s[1]), 1e-4)
	assert.InDelta(t, 1.0, imag(s[1]), 1e-4)
	assert.InDelta(t, -1.0, real(s[2]), 1e-4)
	assert.InDelta(t, 1.0, cmplxAbs(s[3]), 1e-4)
	rw.Consume(rw.Len())
}

func cmplxAbs(c flow.Complex) float64 {
	return math.Hypot(float64(real(c)), float64(imag(c)))
}

func TestSignalSourceBadConfig(t *testing.T) {
	_, _, err := blocks.NewSignalSource(rf.Hz(100), 0, 1.0)
	require.Error(t, err)
	assert.True(t, flow.IsKind(err, flow.KindBadConfig))
}

// vim: foldmethod=marker
