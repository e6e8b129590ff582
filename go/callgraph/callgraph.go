// Copyright 2026 The liboo-go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package callgraph defines a minimal, analysis-agnostic call graph
// type shared by rta, cha and static: a set of Nodes, each wrapping
// one ooir.Method, connected by directed, site-labeled Edges.
//
// It holds no analysis logic of its own; rta, cha and static each
// populate a Graph as a side effect of the edges they discover.
package callgraph

import "github.com/sknoth/liboo-go/ooir"

// Node is one method in the call graph.
type Node struct {
	Func ooir.Method
	ID   int

	in  []*Edge // unused by callers today, kept for symmetry with out
	out []*Edge
}

// Out returns the edges leaving n, in insertion order.
func (n *Node) Out() []*Edge { return n.out }

// Edge is a directed call-graph edge from Caller to Callee, labeled
// with the site's Kind for diagnostics (mirrors rta.Stats' counter
// categories).
type Edge struct {
	Caller *Node
	Callee *Node
	Kind   EdgeKind
}

// EdgeKind classifies why an edge was added.
type EdgeKind int

const (
	StaticCall EdgeKind = iota
	DynamicCall
	InterfaceCall
	AddressTaken
)

func (k EdgeKind) String() string {
	switch k {
	case StaticCall:
		return "static"
	case DynamicCall:
		return "dynamic"
	case InterfaceCall:
		return "interface"
	case AddressTaken:
		return "address-taken"
	default:
		return "other"
	}
}

// Description returns a short human-readable label for the edge,
// used by callers building diagnostics.
func (e *Edge) Description() string { return e.Kind.String() }

// Graph is a mutable call graph, built incrementally by CreateNode and
// AddEdge.
type Graph struct {
	Root  *Node // nil unless the analysis designates one
	Nodes map[ooir.Method]*Node
}

// New returns an empty graph. If root is non-nil it becomes the
// graph's designated entry node.
func New(root ooir.Method) *Graph {
	g := &Graph{Nodes: make(map[ooir.Method]*Node)}
	if root != nil {
		g.Root = g.CreateNode(root)
	}
	return g
}

// CreateNode returns the Node for fn, creating it (with the next
// unused ID) if this is the first time fn has been seen.
func (g *Graph) CreateNode(fn ooir.Method) *Node {
	if n, ok := g.Nodes[fn]; ok {
		return n
	}
	n := &Node{Func: fn, ID: len(g.Nodes)}
	g.Nodes[fn] = n
	return n
}

// AddEdge adds an edge of the given kind from caller to callee.
func AddEdge(caller *Node, kind EdgeKind, callee *Node) *Edge {
	e := &Edge{Caller: caller, Callee: callee, Kind: kind}
	caller.out = append(caller.out, e)
	callee.in = append(callee.in, e)
	return e
}

// VisitEdges visits every edge reachable from every node in the
// graph exactly once, calling visit for each; it stops and returns
// the first non-nil error visit produces.
func VisitEdges(g *Graph, visit func(*Edge) error) error {
	seen := make(map[*Edge]bool)
	for _, n := range g.Nodes {
		for _, e := range n.out {
			if seen[e] {
				continue
			}
			seen[e] = true
			if err := visit(e); err != nil {
				return err
			}
		}
	}
	return nil
}
