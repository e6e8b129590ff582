// Copyright 2014 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package static computes the call graph of a program following only
// static call edges: Calls whose callee is an Address, or a
// dynamically-dispatched Call the frontend has already flagged
// statically bound. It ignores every dynamic dispatch that is not
// statically bound, whatever its target set, making it a cheap,
// non-fixed-point lower bound on RTA's graph and a useful baseline to
// diff RTA's reduced graph against.
package static

import (
	"github.com/sknoth/liboo-go/go/callgraph"
	"github.com/sknoth/liboo-go/ooir"
)

// CallGraph computes the static call graph reachable from
// entryPoints. Unlike rta.Analyze, it never resolves a MethodSel
// whose call site is not already statically bound — such sites are
// simply absent from the graph, not present with every candidate
// target.
func CallGraph(entryPoints []ooir.Method) *callgraph.Graph {
	cg := callgraph.New(nil)

	// Recursively follow all static calls.
	seen := make(map[ooir.Method]bool)
	var visit func(fn ooir.Method)
	visit = func(fn ooir.Method) {
		if seen[fn] {
			return
		}
		seen[fn] = true

		graph, ok := fn.Graph()
		if !ok {
			return
		}
		fnode := cg.CreateNode(fn)
		graph.Walk(func(n ooir.Node) {
			call, ok := n.(ooir.CallNode)
			if !ok {
				return
			}
			callee, ok := staticCallee(call)
			if !ok {
				return
			}
			gnode := cg.CreateNode(callee)
			callgraph.AddEdge(fnode, callgraph.StaticCall, gnode)
			visit(callee)
		})
	}

	for _, e := range entryPoints {
		visit(e)
	}

	return cg
}

// staticCallee returns call's target if its callee is an Address, or
// a MethodSel the frontend has already proven fixed.
func staticCallee(call ooir.CallNode) (ooir.Method, bool) {
	switch callee := call.Callee().(type) {
	case ooir.AddressNode:
		return callee.Entity(), true
	case ooir.ProjNode:
		sel, ok := callee.Pred().(ooir.MethodSelNode)
		if ok && call.StaticallyBound() {
			return sel.Entity(), true
		}
	}
	return nil, false
}
