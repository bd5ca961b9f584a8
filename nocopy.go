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
	"sync"
)

// DefaultNCCapacity is the default capacity of a non-copy stream, in
// whole messages.
const DefaultNCCapacity = 64

// ncState is the shared state behind a non-copy stream's two halves.
type ncState[T any] struct {
	mu     sync.Mutex
	items  []ncItem[T]
	cap    int
	eof    bool
	notify chan struct{}
}

type ncItem[T any] struct {
	val  T
	tags []Tag
}

func (s *ncState[T]) broadcast() {
	close(s.notify)
	s.notify = make(chan struct{})
}

// NewNCStream creates a non-copy stream of T with the default
// capacity, split into its write and read halves.
//
// Non-copy streams carry whole values — PDUs, sample vectors — where
// flattening into a sample stream would be wrong. One value moves per
// push and pop; nothing is ever copied element-wise.
func NewNCStream[T any]() (*NCWriteStream[T], *NCReadStream[T]) {
	return NewNCStreamCapacity[T](DefaultNCCapacity)
}

// NewNCStreamCapacity creates a non-copy stream of T that holds at
// most capacity messages.
func NewNCStreamCapacity[T any](capacity int) (*NCWriteStream[T], *NCReadStream[T]) {
	if capacity < 1 {
		capacity = 1
	}
	s := &ncState[T]{
		cap:    capacity,
		notify: make(chan struct{}),
	}
	return &NCWriteStream[T]{s: s}, &NCReadStream[T]{s: s}
}

// NCWriteStream is the write half of a non-copy stream.
type NCWriteStream[T any] struct {
	s *ncState[T]
}

// Push enqueues one value with its tags. It returns false when the
// stream is full; the caller then reports WaitForStream against this
// half.
func (w *NCWriteStream[T]) Push(val T, tags ...Tag) bool {
	s := w.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.items) >= s.cap {
		return false
	}
	s.items = append(s.items, ncItem[T]{val: val, tags: tags})
	s.broadcast()
	return true
}

// Free returns the number of messages that can be pushed before the
// stream is full.
func (w *NCWriteStream[T]) Free() int {
	s := w.s
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cap - len(s.items)
}

// Close sets EOF. Readers observe it once the queue has drained.
func (w *NCWriteStream[T]) Close() error {
	s := w.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.eof {
		s.eof = true
		s.broadcast()
	}
	return nil
}

// Wait implements Waiter: it blocks until at least need messages of
// free space exist, the stream is closed, or done is closed. It
// returns true if it gave up because the stream is closed.
func (w *NCWriteStream[T]) Wait(need int, done <-chan struct{}) bool {
	s := w.s
	for {
		s.mu.Lock()
		if s.cap-len(s.items) >= need {
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

// NCReadStream is the read half of a non-copy stream.
type NCReadStream[T any] struct {
	s *ncState[T]
}

// Pop dequeues the head value and its tags. ok is false when the
// stream is empty; the caller then reports WaitForStream against this
// half (or EOF, if EOF says so).
func (r *NCReadStream[T]) Pop() (val T, tags []Tag, ok bool) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.items) == 0 {
		return val, nil, false
	}
	head := s.items[0]
	s.items = s.items[1:]
	s.broadcast()
	return head.val, head.tags, true
}

// Peek returns the head value and its tags without dequeuing.
func (r *NCReadStream[T]) Peek() (val T, tags []Tag, ok bool) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.items) == 0 {
		return val, nil, false
	}
	return s.items[0].val, s.items[0].tags, true
}

// Available returns the number of queued messages.
func (r *NCReadStream[T]) Available() int {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// EOF reports whether the producer closed the stream and the queue
// has drained.
func (r *NCReadStream[T]) EOF() bool {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.eof && len(s.items) == 0
}

// Wait implements Waiter: it blocks until at least need messages are
// queued, EOF is set, or done is closed. It returns true if it gave
// up because of EOF.
func (r *NCReadStream[T]) Wait(need int, done <-chan struct{}) bool {
	s := r.s
	for {
		s.mu.Lock()
		if len(s.items) >= need {
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

// PeekLen returns the length of the head element of a non-copy stream
// of slices, without dequeuing it. Flatteners use this to make sure a
// whole message fits in the output window before committing to it.
func PeekLen[E any](r *NCReadStream[[]E]) (int, bool) {
	v, _, ok := r.Peek()
	if !ok {
		return 0, false
	}
	return len(v), true
}

// vim: foldmethod=marker
