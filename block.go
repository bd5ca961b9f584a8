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

// Block is one processing unit in a flowgraph: zero or more input
// stream read halves, zero or more output stream write halves, and a
// Work function the scheduler calls whenever progress may be possible.
//
// Work must never block, and it must never busy-spin: anything that
// would block is reported as a verdict (WaitForStream, WaitForFunc,
// Pending) so the scheduler can park the block. Work may be called
// speculatively when nothing is ready at all; it must return a wait
// verdict without side effects in that case.
//
// A non-nil error from Work is fatal to the block, but not to the
// graph: the scheduler logs it and retires the block, and the rest of
// the pipeline keeps running. Recoverable conditions (empty input,
// full output) are verdicts, never errors.
type Block interface {
	// Name returns the block's name, for logs and stats.
	Name() string

	// Work performs one step, and returns a verdict telling the
	// scheduler what to do next.
	Work() (BlockRet, error)

	// EOF reports whether this block is done because its upstreams
	// have closed and drained. Blocks with no inputs return false
	// here and signal completion by returning EOF from Work.
	EOF() bool
}

// Closer is implemented by blocks that own output streams. Schedulers
// call Close when they retire a block, whatever the reason (EOF, error,
// cancellation), so that downstream blocks observe EOF and can drain.
type Closer interface {
	// Close closes the block's output streams.
	Close() error
}

// Waiter is the part of a stream half a scheduler can block on. Both
// read halves (wait for elements) and write halves (wait for free
// space) implement it, as do the non-copy variants.
type Waiter interface {
	// Wait blocks until at least need elements are ready (readable
	// for a read half, writable for a write half), EOF is observed,
	// or done is closed. It returns true if it gave up because of
	// EOF.
	Wait(need int, done <-chan struct{}) bool
}

// RetKind discriminates a BlockRet verdict.
type RetKind int

const (
	// RetAgain means the block made progress and wants to be called
	// again right away.
	RetAgain RetKind = iota

	// RetPending means no progress, and no specific stream to blame;
	// the scheduler backs off and retries. Timer-driven blocks live
	// here.
	RetPending

	// RetEOF means the block is done for good.
	RetEOF

	// RetWaitForStream means the block is blocked on one stream, and
	// knows how many elements it needs before a retry is useful.
	RetWaitForStream

	// RetWaitForFunc means the block is blocked until an arbitrary
	// predicate says progress is possible.
	RetWaitForFunc
)

// BlockRet is the verdict a block's Work returns. Use the package
// values Again, Pending and EOF, or the constructors WaitForStream and
// WaitForFunc.
type BlockRet struct {
	kind   RetKind
	waiter Waiter
	need   int
	fn     func()
}

var (
	// Again reports progress; call Work again immediately.
	Again = BlockRet{kind: RetAgain}

	// Pending reports no progress with nothing specific to wait on.
	Pending = BlockRet{kind: RetPending}

	// EOF reports that the block is done.
	EOF = BlockRet{kind: RetEOF}
)

// WaitForStream reports that the block is blocked on the provided
// stream half until at least need elements are ready.
func WaitForStream(w Waiter, need int) BlockRet {
	return BlockRet{kind: RetWaitForStream, waiter: w, need: need}
}

// WaitForFunc reports that the block is blocked until the provided
// function returns. The function is expected to block internally until
// progress is possible.
func WaitForFunc(fn func()) BlockRet {
	return BlockRet{kind: RetWaitForFunc, fn: fn}
}

// Kind returns the verdict's discriminator.
func (r BlockRet) Kind() RetKind {
	return r.kind
}

// Stream returns the stream half and element count of a
// RetWaitForStream verdict.
func (r BlockRet) Stream() (Waiter, int) {
	return r.waiter, r.need
}

// Func returns the predicate of a RetWaitForFunc verdict.
func (r BlockRet) Func() func() {
	return r.fn
}

// vim: foldmethod=marker
