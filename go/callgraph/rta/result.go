// Copyright 2026 The liboo-go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package rta

import (
	"github.com/sknoth/liboo-go/go/callgraph"
	"github.com/sknoth/liboo-go/ooir"
)

// Result is the output of Analyze: the live classes and methods
// discovered, the resolved target set for every dynamic call site
// encountered, the call graph built from those edges, and, if
// Config.CollectStats was set, the call-site counters.
//
// All three sets/maps are safe to read concurrently once Analyze has
// returned; nothing in this package mutates them afterwards — the
// devirtualizer only rewrites IR nodes, never Result's maps, treating
// DyncallTargets as read-only once the fixed point is reached.
type Result struct {
	LiveClasses map[ooir.Class]bool
	LiveMethods map[ooir.Method]bool

	// DyncallTargets maps a call-site Method (the entity named by a
	// MethodSel) to the set of concrete callee Methods it can reach.
	DyncallTargets map[ooir.Method]map[ooir.Method]bool

	CallGraph *callgraph.Graph

	// Stats is nil unless the run was configured with
	// Config.CollectStats.
	Stats *Stats
}

// workqueue is a plain FIFO of pending methods, matching rta.c's use
// of a pdeq as nothing more than a double-ended queue pushed only on
// the right and popped only on the left.
type workqueue struct {
	items []ooir.Method
}

func (q *workqueue) push(m ooir.Method) { q.items = append(q.items, m) }

func (q *workqueue) empty() bool { return len(q.items) == 0 }

func (q *workqueue) pop() ooir.Method {
	m := q.items[0]
	q.items = q.items[1:]
	return m
}
