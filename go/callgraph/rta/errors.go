// Copyright 2026 The liboo-go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package rta

import "fmt"

// ErrorKind distinguishes the fatal failure modes Analyze can raise.
// MissingGraph and UnknownCalleeShape are deliberately absent: they are
// benign and are never surfaced as errors.
type ErrorKind int

const (
	// PreconditionViolated: an empty entry-point list or an entry
	// point without a graph. A nil Config.DetectCall is not an error.
	PreconditionViolated ErrorKind = iota
	// InvariantViolated: the devirtualizer reached a dynamic call
	// site with no dyncall-targets entry.
	InvariantViolated
	// AmbiguousImplementation: two equally-ranked inherited
	// implementations of an abstract method reach the same
	// merge point during the hierarchy ascend.
	AmbiguousImplementation
)

func (k ErrorKind) String() string {
	switch k {
	case PreconditionViolated:
		return "precondition violated"
	case InvariantViolated:
		return "invariant violated"
	case AmbiguousImplementation:
		return "ambiguous implementation"
	default:
		return "unknown rta error"
	}
}

// FatalError is the panic value Analyze raises for error kinds
// classified as fatal assertions. The package never
// recovers from one internally: "the caller sees no error channel;
// failures are programmer errors raised at the point of detection."
// A caller that wants Analyze to return an error instead of panicking
// can recover one with a deferred recover() and a type assertion to
// *FatalError.
type FatalError struct {
	Kind ErrorKind
	Msg  string
}

func (e *FatalError) Error() string {
	return fmt.Sprintf("rta: %s: %s", e.Kind, e.Msg)
}

func fatalf(kind ErrorKind, format string, args ...any) {
	panic(&FatalError{Kind: kind, Msg: fmt.Sprintf(format, args...)})
}
