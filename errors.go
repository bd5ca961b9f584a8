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
	"fmt"

	"github.com/pkg/errors"
)

// ErrorKind sorts an Error into one of a small number of buckets, so
// callers can make policy decisions without string matching.
type ErrorKind int

const (
	// KindMsg is a generic error with a free-form description.
	KindMsg ErrorKind = iota

	// KindFileIO is an I/O failure attributed to a file path.
	KindFileIO

	// KindDevice is a hardware or driver failure attributed to a
	// device name.
	KindDevice

	// KindBadConfig means a block was constructed with invalid
	// parameters.
	KindBadConfig

	// KindOverflow means a value or buffer exceeded its bounds at a
	// block boundary.
	KindOverflow

	// KindShortWrite means fewer elements were written than promised.
	KindShortWrite

	// KindUnexpectedEOF means a stream ended mid-element.
	KindUnexpectedEOF
)

// String implements fmt.Stringer.
func (k ErrorKind) String() string {
	switch k {
	case KindMsg:
		return "message"
	case KindFileIO:
		return "file i/o"
	case KindDevice:
		return "device"
	case KindBadConfig:
		return "bad config"
	case KindOverflow:
		return "overflow"
	case KindShortWrite:
		return "short write"
	case KindUnexpectedEOF:
		return "unexpected eof"
	default:
		return "unknown"
	}
}

// Error is the structured error type used throughout the runtime. Next
// to the usual message it carries a Kind, and, where it applies, the
// file path or device name the failure should be attributed to.
type Error struct {
	kind   ErrorKind
	msg    string
	path   string
	device string
	cause  error
}

// Error implements the error interface.
func (e *Error) Error() string {
	switch {
	case e.path != "":
		return fmt.Sprintf("flow: %s: %s: %v", e.kind, e.path, e.cause)
	case e.device != "":
		return fmt.Sprintf("flow: %s: %s: %s", e.kind, e.device, e.msg)
	case e.cause != nil:
		return fmt.Sprintf("flow: %s: %v", e.kind, e.cause)
	default:
		return fmt.Sprintf("flow: %s: %s", e.kind, e.msg)
	}
}

// Unwrap returns the wrapped cause, if any.
func (e *Error) Unwrap() error {
	return e.cause
}

// Kind returns the error's bucket.
func (e *Error) Kind() ErrorKind {
	return e.kind
}

// Path returns the file path this error is attributed to, if any.
func (e *Error) Path() string {
	return e.path
}

// Device returns the device name this error is attributed to, if any.
func (e *Error) Device() string {
	return e.device
}

// Errorf creates a generic (KindMsg) Error.
func Errorf(format string, args ...interface{}) *Error {
	return &Error{kind: KindMsg, msg: fmt.Sprintf(format, args...)}
}

// FileError creates a KindFileIO Error attributed to the provided path.
func FileError(path string, err error) *Error {
	return &Error{kind: KindFileIO, path: path, cause: errors.WithStack(err)}
}

// DeviceError creates a KindDevice Error attributed to the provided
// device name.
func DeviceError(name, details string) *Error {
	return &Error{kind: KindDevice, device: name, msg: details}
}

// BadConfigf creates a KindBadConfig Error. Blocks return this from
// their constructors when handed parameters that can't work.
func BadConfigf(format string, args ...interface{}) *Error {
	return &Error{kind: KindBadConfig, msg: fmt.Sprintf(format, args...)}
}

// Overflowf creates a KindOverflow Error.
func Overflowf(format string, args ...interface{}) *Error {
	return &Error{kind: KindOverflow, msg: fmt.Sprintf(format, args...)}
}

// ShortWritef creates a KindShortWrite Error.
func ShortWritef(format string, args ...interface{}) *Error {
	return &Error{kind: KindShortWrite, msg: fmt.Sprintf(format, args...)}
}

// UnexpectedEOFf creates a KindUnexpectedEOF Error.
func UnexpectedEOFf(format string, args ...interface{}) *Error {
	return &Error{kind: KindUnexpectedEOF, msg: fmt.Sprintf(format, args...)}
}

// IsKind reports whether err is (or wraps) a flow.Error of the provided
// kind.
func IsKind(err error, kind ErrorKind) bool {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.kind == kind
	}
	return false
}

// vim: foldmethod=marker
