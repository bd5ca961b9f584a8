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

// NewBurstTagger creates a burst tagger.
//
// It takes two inputs: a data stream, passed through untouched, and a
// trigger stream of Floats. When the trigger crosses above threshold,
// the data sample at that position gets a tag named tag with the
// value true; when it drops back below, the same tag with false.
//
// The trigger input should usually be power, filtered with something
// like a single-pole IIR, so the tags bracket a burst rather than
// flickering on every sample. Feed the tagged stream into StreamToPDU
// to pull the bursts out as messages.
func NewBurstTagger[T flow.Sample](src *flow.ReadStream[T], trigger *flow.ReadStream[flow.Float], threshold flow.Float, tag string) (*flow.SyncTagBlock2[T, flow.Float, T], *flow.ReadStream[T]) {
	last := false
	return flow.NewSyncTagBlock2("BurstTagger", src, trigger,
		func(s T, stags []flow.Tag, tv flow.Float, _ []flow.Tag) (T, []flow.Tag) {
			cur := tv > threshold
			if cur != last {
				stags = append(stags, flow.Tag{Key: tag, Val: flow.TagBool(cur)})
			}
			last = cur
			return s, stags
		})
}

// vim: foldmethod=marker
