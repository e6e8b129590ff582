// Copyright 2026 The liboo-go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package ooir defines the contract a host intermediate-representation
// library must satisfy for the analyses in go/callgraph/rta, cha and
// static to run over it.
//
// The shapes here mirror a class-based OO IR in the tradition of
// liboo/libfirm: classes form a supertype/subtype DAG, methods belong
// to exactly one owning class and may or may not have a body (a
// Graph), and a handful of node kinds expose enough structure for a
// whole-program analysis to classify every call site. Nothing in this
// package implements an IR — it is assumed to be provided by whatever
// compiler embeds these analyses, the same way golang.org/x/tools'
// call-graph packages are handed a *ssa.Program built elsewhere.
package ooir

// ClassFlags describes the fixed, frontend-assigned properties of a
// Class that the analyses need to make liveness and devirtualization
// decisions.
type ClassFlags struct {
	Extern    bool // defined outside this compilation; never becomes live, always treated as in-use
	Abstract  bool // cannot be instantiated; never becomes live
	Interface bool // ranks below a class when merging inherited implementations; interface call sites are counted separately
	Final     bool // has no subtypes; enables devirtualization through an extern owner
}

// MethodFlags describes the fixed, frontend-assigned properties of a
// Method.
type MethodFlags struct {
	Abstract bool // has no implementation; never a devirtualization target
	Final    bool // cannot be overridden; enables devirtualization through an extern owner
}

// Class is an opaque handle to a class or interface type in the class
// hierarchy.
type Class interface {
	// Name returns the class's source name, for diagnostics only.
	Name() string

	Flags() ClassFlags

	// Member looks up a member by name within this class only (no
	// inheritance search). Returns false if the class declares no
	// member with that name.
	Member(name string) (Method, bool)

	// Members returns every method this class declares directly, in
	// a stable, frontend-assigned order. Used by the extern-super-
	// check to enumerate a superclass's methods.
	Members() []Method

	// Supertypes and Subtypes return the class's direct neighbors in
	// the (externally owned, immutable) hierarchy DAG, in a stable,
	// frontend-assigned order.
	Supertypes() []Class
	Subtypes() []Class
}

// Method is an opaque handle to a method entity: a name bound to a
// class, optionally backed by a Graph.
type Method interface {
	Owner() Class

	// Name is the identifier used for override resolution; the
	// analyses compare names for equality and assume the full
	// signature is already mangled into it.
	Name() string

	// LinkName is the symbol name used to detect ld-name redirects
	// for bodyless methods (see the rta analyzer's handleNoGraph).
	LinkName() string

	Flags() MethodFlags

	// Graph returns the method's body and whether it has one. A
	// method with no graph is either genuinely external or an
	// ld-name redirect to another method with a graph.
	Graph() (Graph, bool)
}

// Program gives the analyses one whole-program capability beyond the
// class/method/graph/node accessors: enumerating every graph in the
// program, each of which maps to the method entity that owns it. It
// is used only to resolve ld-name redirects for bodyless methods,
// which in the original C source is answered by scanning every
// ir_graph in the compilation unit (get_irp_n_irgs).
type Program interface {
	// Graphs returns every method in the program that has a body,
	// in a stable, frontend-assigned order.
	Graphs() []Method
}

// Graph is a walkable method body.
type Graph interface {
	// Walk invokes visit once for every Node in the graph, in an
	// order that need not be flow-sensitive (the analyses here are
	// not flow sensitive either).
	Walk(visit func(Node))
}

// Opcode identifies the kind of a Node. Kinds not listed here are
// never inspected by the analyses and may be walked over freely.
type Opcode int

const (
	OpOther Opcode = iota
	OpAddress
	OpCall
	OpProj
	OpMethodSel
	OpVptrIsSet
)

// Node is the supertype of every IR node a Graph walk produces. Code
// that needs kind-specific data type-asserts Node to one of the
// sub-interfaces below, matching the Op() it observed.
type Node interface {
	Op() Opcode
}

// AddressNode is a Node with Op() == OpAddress: the address of an
// entity, typically (but not always) the callee of a static Call.
type AddressNode interface {
	Node
	Entity() Method
}

// CallNode is a Node with Op() == OpCall.
type CallNode interface {
	Node

	// Callee returns the node feeding the call's callee input: an
	// AddressNode for a static call, a ProjNode projecting a
	// MethodSelNode for a dynamic call, or anything else for an
	// indirect/unknown call.
	Callee() Node

	// StaticallyBound reports whether the frontend has already
	// proven this call's target fixed even though the callee is a
	// MethodSel (e.g. a super-call). Such calls are treated exactly
	// like an Address-callee static call.
	StaticallyBound() bool
}

// ProjNode is a Node with Op() == OpProj: a projection of one result
// out of a multi-result node (here, always the method-address result
// of a MethodSel, before or after devirtualization rewrites it into a
// tuple over an Address).
type ProjNode interface {
	Node
	Pred() Node
}

// MethodSelNode is a Node with Op() == OpMethodSel: "select the
// method to call by the receiver's runtime type".
type MethodSelNode interface {
	Node
	Entity() Method
}

// VptrIsSetNode is a Node with Op() == OpVptrIsSet: the point at
// which an object's vtable pointer is installed, used as the
// "instantiated" signal for liveness.
type VptrIsSetNode interface {
	Node
	Type() Class
}

// Rewriter is implemented by a MethodSelNode whose host IR supports
// the devirtualization rewrite: replacing the node with a tuple of
// (memory, Address(target)) so the enclosing Call becomes statically
// bound.
type Rewriter interface {
	RewriteToStatic(target Method)
}
