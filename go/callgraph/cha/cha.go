// Copyright 2026 The liboo-go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package cha computes a Class Hierarchy Analysis call graph: the
// weaker, liveness-insensitive relative of rta.Analyze that includes
// every concrete subclass's implementation of a dynamically dispatched
// call, whether or not any instance of that subclass is ever
// constructed on a reachable path.
//
// It reuses the same hierarchy resolver rta.Analyze uses, with the
// liveness gate switched off — exactly rta.c's own JUST_CHA
// compile-time override, turned into a runtime Config flag.
package cha

import (
	"github.com/sknoth/liboo-go/go/callgraph"
	"github.com/sknoth/liboo-go/go/callgraph/rta"
	"github.com/sknoth/liboo-go/ooir"
)

// CallGraph computes the CHA call graph reachable from entryPoints.
// allClasses is passed through to rta.Analyze as the initial live-class
// set, so that the hierarchy resolver's AssumeAllLive short-circuit
// never needs to fall back on an empty live set for a class that is
// never otherwise observed as constructed.
func CallGraph(program ooir.Program, entryPoints []ooir.Method, allClasses []ooir.Class) *callgraph.Graph {
	cfg := &rta.Config{AssumeAllLive: true}
	res := rta.Analyze(cfg, program, entryPoints, allClasses)
	return res.CallGraph
}
