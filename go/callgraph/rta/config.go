// Copyright 2026 The liboo-go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package rta

import "github.com/sknoth/liboo-go/ooir"

// Config controls an Analyze run. The zero Config is valid and
// matches rta.c's defaults: DetectCall finds nothing, AssumeAllLive
// is off, stats are not collected.
type Config struct {
	// DetectCall is invoked on every static call site whose callee
	// has no graph, to surface calls hidden in frontend-specific
	// constructs (rta.c's "hack to detect calls ... like class
	// initialization"). The second return value reports whether a
	// hidden callee was found. A nil DetectCall is treated as
	// "never finds one", matching rta.c's default_detect_call.
	DetectCall func(call ooir.CallNode) (ooir.Method, bool)

	// AssumeAllLive disables the liveness gate in the hierarchy
	// resolver (rta.c's global override JUST_CHA, turned into a
	// runtime flag here): every class that could resolve a call is
	// treated as in use immediately, regardless of whether a
	// VptrIsSet for it has been seen yet. The cha package sets this
	// to implement Class Hierarchy Analysis on top of the same
	// resolver.
	AssumeAllLive bool

	// CollectStats turns on the call-site counters rta.c gates behind
	// its RTA_STATS build switch, made a runtime flag here. When
	// false, Result.Stats is nil.
	CollectStats bool

	// Logf, if non-nil, receives one line per interesting event:
	// a class becoming live, a bodyless method redirected by link
	// name, a call site being devirtualized. It is
	// never used for control flow and never receives benign-error
	// diagnostics louder than a single line.
	Logf func(format string, args ...any)
}

func (c *Config) logf(format string, args ...any) {
	if c != nil && c.Logf != nil {
		c.Logf(format, args...)
	}
}

func (c *Config) detectCall(call ooir.CallNode) (ooir.Method, bool) {
	if c == nil || c.DetectCall == nil {
		return nil, false
	}
	return c.DetectCall(call)
}

func (c *Config) assumeAllLive() bool {
	return c != nil && c.AssumeAllLive
}

// Stats holds the call-site counters, split the way rta.c splits them
// (interface calls counted separately from other dynamic calls, based
// on whether the call site's owner class is flagged Interface).
type Stats struct {
	StaticCalls     int64
	DynamicCalls    int64
	InterfaceCalls  int64
	DevirtDynamic   int64 // devirtualizations of dynamic (non-interface) calls
	DevirtInterface int64 // devirtualizations of interface calls
	OtherCalls      int64
}
