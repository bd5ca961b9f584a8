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

// Package flow contains the core of a block-based streaming dataflow
// runtime for software defined radio pipelines.
//
// The mental model here is the usual SDR flowgraph one: producer,
// processor and consumer "blocks" are connected by typed, bounded,
// single-producer single-consumer sample streams, and a scheduler (see
// hz.tools/flow/graph) drives every block's Work function until the
// pipeline runs dry.
//
// Samples move through mapped ring buffers, so a read or write window
// is always one contiguous slice, no matter where the ring happens to
// have wrapped. Out-of-band metadata rides along as position-keyed
// Tags, which stay attached to their sample as it moves from window to
// window.
//
// Since moving millions of samples a second leaves no room for
// surprises, backpressure is never signalled by blocking or by errors:
// a block's Work returns a BlockRet verdict, and "would block" is a
// first-class value (WaitForStream) that tells the scheduler exactly
// which stream to wait on, and for how many elements.
package flow

// vim: foldmethod=marker
