// Copyright 2026 The liboo-go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package rta

import "github.com/sknoth/liboo-go/ooir"

// calleeShape classifies a Call node's callee input into the shapes
// both the analyzer and the devirtualizer dispatch on.
type calleeShape int

const (
	shapeStatic calleeShape = iota
	shapeDynamic
	shapeIndirect
)

// classifyCallee inspects call's callee, returning the dispatch shape
// and, for the two call-target shapes, the entity involved. A dynamic
// callee is reported as static once its Call is flagged statically
// bound (the frontend already proved the dispatch fixed), or once its
// MethodSel has already been rewritten by the devirtualizer.
func classifyCallee(call ooir.CallNode) (calleeShape, ooir.Method) {
	callee := call.Callee()

	if addr, ok := callee.(ooir.AddressNode); ok {
		return shapeStatic, addr.Entity()
	}

	proj, ok := callee.(ooir.ProjNode)
	if !ok {
		return shapeIndirect, nil
	}

	// AddressNode and MethodSelNode have the same method set, so the
	// predecessor's kind is decided by Op(), not by type assertion.
	pred := proj.Pred()
	if pred.Op() == ooir.OpAddress {
		// Rewritten by a prior devirtualization pass.
		return shapeStatic, pred.(ooir.AddressNode).Entity()
	}

	if pred.Op() != ooir.OpMethodSel {
		return shapeIndirect, nil
	}
	sel := pred.(ooir.MethodSelNode)

	if call.StaticallyBound() {
		return shapeStatic, sel.Entity()
	}
	return shapeDynamic, sel.Entity()
}

// visit dispatches one IR node during the analysis pass.
func (a *analyzer) visit(n ooir.Node) {
	switch n.Op() {
	case ooir.OpAddress:
		addr := n.(ooir.AddressNode)
		entity := addr.Entity()
		if entity == nil {
			return
		}
		// Address-taken: indistinguishable from a normal static
		// call's callee, so conservatively treat it as reachable.
		a.liveMethods[entity] = true
		a.addToWorkqueue(entity)

	case ooir.OpCall:
		call := n.(ooir.CallNode)
		shape, entity := classifyCallee(call)
		switch shape {
		case shapeStatic:
			a.analyzerHandleStaticCall(call, entity)
		case shapeDynamic:
			a.analyzerHandleDynamicCall(entity)
		case shapeIndirect:
			// Counted only in the devirtualizer's walk, matching
			// rta.c: the analyzer pass never touches RTA_STATS.
		}

	case ooir.OpVptrIsSet:
		vptr := n.(ooir.VptrIsSetNode)
		a.addNewLiveClass(vptr.Type())
	}
}

// analyzerHandleStaticCall handles a static-callee call site,
// including the detect_call hack for callees with no graph (rta.c's
// "hidden" class-initializer calls).
func (a *analyzer) analyzerHandleStaticCall(call ooir.CallNode, entity ooir.Method) {
	a.liveMethods[entity] = true
	a.addToWorkqueue(entity)

	if _, hasGraph := entity.Graph(); !hasGraph {
		if hidden, ok := a.cfg.detectCall(call); ok {
			a.liveMethods[hidden] = true
			a.addToWorkqueue(hidden)
		}
	}
}

// analyzerHandleDynamicCall handles a dynamically dispatched call
// site: the first time a call-site entity is seen, the resolver
// computes its full target set from the current (and future) live
// set.
func (a *analyzer) analyzerHandleDynamicCall(entity ooir.Method) {
	if _, ok := a.dyncallTargets[entity]; ok {
		return
	}
	result := make(map[ooir.Method]bool)
	a.dyncallTargets[entity] = result
	a.collectMethods(entity, result)
}
