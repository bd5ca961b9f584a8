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
	"sort"
	"sync"
	"unsafe"

	"hz.tools/flow/internal/circ"
)

// DefaultStreamSize is the default stream size, in bytes. The sample
// capacity of a stream created without options is this many bytes
// divided by the sample size, which works out to a few hundred
// thousand samples for the usual types.
const DefaultStreamSize = 1 << 20

// StreamOptions contains configurable options for a stream.
type StreamOptions struct {
	// Capacity is the stream capacity in samples. Zero means "use
	// DefaultStreamSize bytes worth". The real capacity may come out
	// slightly larger, since the backing ring is page-rounded.
	Capacity int
}

// streamState is the shared state behind a stream's two halves. The
// mutex guards positions, tags and borrow flags; the data region
// itself is not guarded, since the read and write windows reference
// disjoint ranges of the ring.
type streamState[T Sample] struct {
	mu     sync.Mutex
	circ   *circ.Circ
	view   []T
	cap    int
	rpos   int
	wpos   int
	used   int
	eof    bool
	rdBorr bool
	wrBorr bool
	tags   map[TagPos][]Tag
	notify chan struct{}
}

// NewStream creates a stream of T with the default capacity, and
// splits it into its write and read halves. Each half is owned by
// exactly one block; the halves synchronize internally, and are not
// themselves shareable.
func NewStream[T Sample]() (*WriteStream[T], *ReadStream[T]) {
	return NewStreamOptions[T](StreamOptions{})
}

// NewStreamOptions creates a stream of T with the provided options,
// split into its write and read halves.
func NewStreamOptions[T Sample](opts StreamOptions) (*WriteStream[T], *ReadStream[T]) {
	size := SampleSize[T]()
	bytes := DefaultStreamSize
	if opts.Capacity > 0 {
		bytes = opts.Capacity * size
	}
	c, err := circ.New(bytes)
	if err != nil {
		// circ.New falls back to a plain allocation; it can not
		// actually fail.
		panic(err)
	}
	raw := c.Bytes()
	s := &streamState[T]{
		circ:   c,
		view:   unsafe.Slice((*T)(unsafe.Pointer(&raw[0])), len(raw)/size),
		cap:    c.Len() / size,
		tags:   map[TagPos][]Tag{},
		notify: make(chan struct{}),
	}
	return &WriteStream[T]{s: s}, &ReadStream[T]{s: s}
}

// broadcast wakes every waiter. Callers must hold the mutex.
func (s *streamState[T]) broadcast() {
	close(s.notify)
	s.notify = make(chan struct{})
}

// maxContig returns the longest window, in samples, that may start at
// the provided sample offset. Callers must hold the mutex.
func (s *streamState[T]) maxContig(start int) int {
	return s.circ.MaxContig(start*SampleSize[T]()) / SampleSize[T]()
}

// tagsInWindow collects the tags inside the first n samples of the
// read window, translated to window-relative positions and sorted.
// Callers must hold the mutex.
func (s *streamState[T]) tagsInWindow(n int) []Tag {
	if len(s.tags) == 0 {
		return nil
	}
	type entry struct {
		rel  int
		tags []Tag
	}
	var found []entry
	for pos, ts := range s.tags {
		rel := (int(pos) + s.cap - s.rpos) % s.cap
		if rel < n {
			found = append(found, entry{rel, ts})
		}
	}
	sort.Slice(found, func(i, j int) bool { return found[i].rel < found[j].rel })
	var out []Tag
	for _, e := range found {
		for _, t := range e.tags {
			t.Pos = TagPos(e.rel)
			out = append(out, t)
		}
	}
	return out
}

// ReadStream is the read half of a stream. It is owned by the one
// consuming block.
type ReadStream[T Sample] struct {
	s *streamState[T]
}

// Capacity returns the stream's capacity in samples.
func (r *ReadStream[T]) Capacity() int {
	return r.s.cap
}

// ReadBuf borrows the stream's read window: one contiguous slice of
// everything readable, plus the tags inside it, positions relative to
// the window start and sorted.
//
// Exactly one read window may be outstanding at a time; borrowing a
// second is a programming error and panics. The window is returned by
// calling Consume (possibly with zero).
func (r *ReadStream[T]) ReadBuf() (*ReadWindow[T], []Tag) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.rdBorr {
		panic("flow: stream read window already borrowed")
	}
	s.rdBorr = true
	n := s.used
	if max := s.maxContig(s.rpos); n > max {
		n = max
	}
	return &ReadWindow[T]{s: s, slice: s.view[s.rpos : s.rpos+n]}, s.tagsInWindow(n)
}

// EOF reports whether the producer has closed the stream and every
// sample has been drained.
func (r *ReadStream[T]) EOF() bool {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.eof && s.used == 0
}

// Wait implements Waiter: it blocks until at least need samples are
// readable, EOF is set, or done is closed. It returns true if it gave
// up because of EOF.
func (r *ReadStream[T]) Wait(need int, done <-chan struct{}) bool {
	s := r.s
	for {
		s.mu.Lock()
		if s.used >= need {
			s.mu.Unlock()
			return false
		}
		if s.eof {
			s.mu.Unlock()
			return true
		}
		ch := s.notify
		s.mu.Unlock()
		select {
		case <-ch:
		case <-done:
			return false
		}
	}
}

// ReadWindow is a borrowed contiguous read window into a stream.
type ReadWindow[T Sample] struct {
	s     *streamState[T]
	slice []T
	done  bool
}

// Slice returns the readable samples.
func (w *ReadWindow[T]) Slice() []T {
	return w.slice
}

// Len returns the window length, in samples.
func (w *ReadWindow[T]) Len() int {
	return len(w.slice)
}

// IsEmpty reports whether the window holds no samples.
func (w *ReadWindow[T]) IsEmpty() bool {
	return len(w.slice) == 0
}

// Consume commits n samples as read, drops their tags, and returns the
// borrow. n may be zero to return the window without consuming.
// Consuming more than the window holds, or consuming twice, is a
// programming error and panics.
func (w *ReadWindow[T]) Consume(n int) {
	s := w.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if w.done {
		panic("flow: read window consumed twice")
	}
	w.done = true
	if n > len(w.slice) {
		panic("flow: consuming more than the read window holds")
	}
	if n > 0 {
		for pos := range s.tags {
			rel := (int(pos) + s.cap - s.rpos) % s.cap
			if rel < n {
				delete(s.tags, pos)
			}
		}
		s.rpos = (s.rpos + n) % s.cap
		s.used -= n
	}
	s.rdBorr = false
	s.broadcast()
}

// WriteStream is the write half of a stream. It is owned by the one
// producing block.
type WriteStream[T Sample] struct {
	s *streamState[T]
}

// Capacity returns the stream's capacity in samples.
func (w *WriteStream[T]) Capacity() int {
	return w.s.cap
}

// WriteBuf borrows the stream's write window: one contiguous slice of
// all the free space. Exactly one write window may be outstanding at a
// time; borrowing a second panics. The window is returned by calling
// Produce (possibly with zero).
func (w *WriteStream[T]) WriteBuf() *WriteWindow[T] {
	s := w.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.wrBorr {
		panic("flow: stream write window already borrowed")
	}
	s.wrBorr = true
	n := s.cap - s.used
	if max := s.maxContig(s.wpos); n > max {
		n = max
	}
	return &WriteWindow[T]{s: s, slice: s.view[s.wpos : s.wpos+n]}
}

// Close sets EOF. Readers observe it once the stream has drained.
// Close is idempotent.
func (w *WriteStream[T]) Close() error {
	s := w.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.eof {
		s.eof = true
		s.broadcast()
	}
	return nil
}

// Wait implements Waiter: it blocks until at least need samples of
// free space exist, the stream is closed, or done is closed. It
// returns true if it gave up because the stream is closed.
func (w *WriteStream[T]) Wait(need int, done <-chan struct{}) bool {
	s := w.s
	for {
		s.mu.Lock()
		if s.cap-s.used >= need {
			s.mu.Unlock()
			return false
		}
		if s.eof {
			s.mu.Unlock()
			return true
		}
		ch := s.notify
		s.mu.Unlock()
		select {
		case <-ch:
		case <-done:
			return false
		}
	}
}

// WriteWindow is a borrowed contiguous write window into a stream.
type WriteWindow[T Sample] struct {
	s     *streamState[T]
	slice []T
	done  bool
}

// Slice returns the writable samples.
func (w *WriteWindow[T]) Slice() []T {
	return w.slice
}

// Len returns the window length, in samples.
func (w *WriteWindow[T]) Len() int {
	return len(w.slice)
}

// IsEmpty reports whether the window has no free space.
func (w *WriteWindow[T]) IsEmpty() bool {
	return len(w.slice) == 0
}

// Produce commits n written samples along with their tags, and
// returns the borrow. Tag positions are relative to the window start,
// and must fall inside the produced range; a tag past n is a
// programming error and panics. n may be zero to return the window
// without producing.
func (w *WriteWindow[T]) Produce(n int, tags []Tag) {
	s := w.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if w.done {
		panic("flow: write window produced twice")
	}
	w.done = true
	if n > len(w.slice) {
		panic("flow: producing more than the write window holds")
	}
	for _, t := range tags {
		if int(t.Pos) >= n {
			panic("flow: tag position past the produced samples")
		}
		abs := TagPos((int(t.Pos) + s.wpos) % s.cap)
		t.Pos = abs
		s.tags[abs] = append(s.tags[abs], t)
	}
	if n > 0 {
		s.wpos = (s.wpos + n) % s.cap
		s.used += n
	}
	s.wrBorr = false
	s.broadcast()
}

// vim: foldmethod=marker
