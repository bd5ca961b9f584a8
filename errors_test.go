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
	"fmt"
	"io"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"

	"hz.tools/flow"
)

func TestErrorKinds(t *testing.T) {
	err := flow.Errorf("something %s", "odd")
	assert.True(t, flow.IsKind(err, flow.KindMsg))
	assert.Contains(t, err.Error(), "something odd")

	ferr := flow.FileError("/dev/null", io.ErrUnexpectedEOF)
	assert.True(t, flow.IsKind(ferr, flow.KindFileIO))
	assert.Equal(t, "/dev/null", ferr.Path())
	assert.ErrorIs(t, ferr, io.ErrUnexpectedEOF)

	derr := flow.DeviceError("rtlsdr0", "usb fell off")
	assert.True(t, flow.IsKind(derr, flow.KindDevice))
	assert.Equal(t, "rtlsdr0", derr.Device())
	assert.Contains(t, derr.Error(), "usb fell off")

	assert.True(t, flow.IsKind(flow.BadConfigf("alpha out of range"), flow.KindBadConfig))
	assert.True(t, flow.IsKind(flow.Overflowf("too big"), flow.KindOverflow))
	assert.True(t, flow.IsKind(flow.ShortWritef("only %d", 3), flow.KindShortWrite))
	assert.True(t, flow.IsKind(flow.UnexpectedEOFf("mid-frame"), flow.KindUnexpectedEOF))
}

func TestErrorWrapping(t *testing.T) {
	// Kinds survive another layer of wrapping.
	err := fmt.Errorf("while filtering: %w", flow.BadConfigf("alpha outside (0,1)"))
	assert.True(t, flow.IsKind(err, flow.KindBadConfig))
	assert.False(t, flow.IsKind(err, flow.KindDevice))

	wrapped := errors.Wrap(flow.Errorf("inner"), "outer")
	assert.True(t, flow.IsKind(wrapped, flow.KindMsg))

	assert.False(t, flow.IsKind(io.EOF, flow.KindMsg))
}

// vim: foldmethod=marker
