// Copyright 2026 The liboo-go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ooirtest

import "github.com/sknoth/liboo-go/ooir"

// Graph is ooirtest's ooir.Graph: a flat, unordered bag of nodes. The
// analyses in go/callgraph are not flow sensitive, so no block or
// edge structure is modeled.
type Graph struct {
	nodes []ooir.Node
}

func (g *Graph) Walk(visit func(ooir.Node)) {
	for _, n := range g.nodes {
		visit(n)
	}
}

// Builder appends nodes to a Graph and wires up Call/Proj/MethodSel
// chains so fixtures read close to the shape a real compiler IR would
// produce for the same call sites.
type Builder struct {
	graph *Graph
}

func (b *Builder) add(n ooir.Node) {
	b.graph.nodes = append(b.graph.nodes, n)
}

// Address emits an Address node referencing entity and returns it.
// Used both as the callee of a static Call and, standalone, to model
// an address-taken function.
func (b *Builder) Address(entity *Method) *addressNode {
	n := &addressNode{entity: entity}
	b.add(n)
	return n
}

// StaticCall emits a Call whose callee is an Address of callee.
func (b *Builder) StaticCall(callee *Method) *callNode {
	addr := &addressNode{entity: callee}
	n := &callNode{callee: addr}
	b.add(n)
	return n
}

// DynamicCall emits a MethodSel(selector) feeding a Proj feeding a
// Call, modeling a dynamically dispatched call site. staticallyBound
// lets a fixture model a Call with a MethodSel callee that the
// frontend has already proven fixed.
func (b *Builder) DynamicCall(selector *Method, staticallyBound bool) *callNode {
	sel := &methodSelNode{entity: selector}
	proj := &projNode{pred: sel}
	n := &callNode{callee: proj, staticallyBound: staticallyBound}
	b.add(n)
	return n
}

// IndirectCall emits a Call whose callee is some other node shape
// (neither an Address nor a Proj of a MethodSel), modeling a call
// through a function pointer or other opaque mechanism.
func (b *Builder) IndirectCall() *callNode {
	n := &callNode{callee: opaqueNode{}}
	b.add(n)
	return n
}

// Instantiate emits a VptrIsSet node for klass, modeling the point a
// new object of that class is constructed.
func (b *Builder) Instantiate(klass *Class) {
	b.add(&vptrIsSetNode{class: klass})
}

type opaqueNode struct{}

func (opaqueNode) Op() ooir.Opcode { return ooir.OpOther }

type addressNode struct {
	entity *Method
}

func (n *addressNode) Op() ooir.Opcode     { return ooir.OpAddress }
func (n *addressNode) Entity() ooir.Method { return n.entity }

type callNode struct {
	callee          ooir.Node
	staticallyBound bool
}

func (n *callNode) Op() ooir.Opcode       { return ooir.OpCall }
func (n *callNode) Callee() ooir.Node     { return n.callee }
func (n *callNode) StaticallyBound() bool { return n.staticallyBound }

type projNode struct {
	pred ooir.Node
}

func (n *projNode) Op() ooir.Opcode { return ooir.OpProj }

// Pred returns the node's current predecessor: the original
// MethodSel, or the Address it was rewritten to by the devirtualizer.
func (n *projNode) Pred() ooir.Node {
	if sel, ok := n.pred.(*methodSelNode); ok && sel.rewritten != nil {
		return sel.rewritten
	}
	return n.pred
}

type methodSelNode struct {
	entity    *Method
	rewritten *addressNode
}

func (n *methodSelNode) Op() ooir.Opcode     { return ooir.OpMethodSel }
func (n *methodSelNode) Entity() ooir.Method { return n.entity }

// RewriteToStatic implements ooir.Rewriter: the devirtualizer turns a
// dynamic call site into a static one by mutating the MethodSel node
// in place to redirect to target, which any ProjNode reading it will
// now see as an Address-shaped predecessor — mirroring rta.c's
// turn_into_tuple(methodsel, ...) followed by the Proj now reading an
// Address.
func (n *methodSelNode) RewriteToStatic(target ooir.Method) {
	n.rewritten = &addressNode{entity: target.(*Method)}
}

type vptrIsSetNode struct {
	class *Class
}

func (n *vptrIsSetNode) Op() ooir.Opcode  { return ooir.OpVptrIsSet }
func (n *vptrIsSetNode) Type() ooir.Class { return n.class }
