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

//go:build linux

package circ

import (
	"unsafe"

	"github.com/pkg/errors"
	"golang.org/x/sys/unix"
)

// newMapped will set up the double mapping: an anonymous memfd of n
// bytes, mapped twice at adjacent virtual addresses inside a reserved
// 2·n region.
func newMapped(n int) (*Circ, error) {
	fd, err := unix.MemfdCreate("flow-circ", unix.MFD_CLOEXEC)
	if err != nil {
		return nil, errors.Wrap(err, "circ: memfd_create")
	}
	defer unix.Close(fd)

	if err := unix.Ftruncate(fd, int64(n)); err != nil {
		return nil, errors.Wrap(err, "circ: ftruncate")
	}

	// Reserve 2·n of address space, then overlay both halves with
	// MAP_FIXED mappings of the same fd.
	reserve, err := unix.Mmap(
		-1, 0, 2*n,
		unix.PROT_NONE,
		unix.MAP_PRIVATE|unix.MAP_ANONYMOUS,
	)
	if err != nil {
		return nil, errors.Wrap(err, "circ: mmap reserve")
	}
	base := uintptr(unsafe.Pointer(&reserve[0]))

	for i := 0; i < 2; i++ {
		addr, _, errno := unix.Syscall6(
			unix.SYS_MMAP,
			base+uintptr(i*n),
			uintptr(n),
			uintptr(unix.PROT_READ|unix.PROT_WRITE),
			uintptr(unix.MAP_SHARED|unix.MAP_FIXED),
			uintptr(fd),
			0,
		)
		if errno != 0 {
			unix.Munmap(reserve)
			return nil, errors.Wrap(errno, "circ: mmap fixed")
		}
		if addr != base+uintptr(i*n) {
			unix.Munmap(reserve)
			return nil, errors.New("circ: mmap fixed moved")
		}
	}

	return &Circ{
		buf:    unsafe.Slice((*byte)(unsafe.Pointer(base)), 2*n),
		n:      n,
		mapped: true,
		unmap: func() error {
			return unix.Munmap(reserve)
		},
	}, nil
}

// vim: foldmethod=marker
