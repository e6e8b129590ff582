// Copyright 2026 The liboo-go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package rta

import (
	"github.com/sknoth/liboo-go/go/callgraph"
	"github.com/sknoth/liboo-go/ooir"
)

// devirtualizer is a second, independent pass over the reachable
// methods: it rewrites any dynamic call site whose resolved target set
// is a singleton into a static call, subject to the extern/final rule.
// It also builds Result.CallGraph, since by now every dyncall site's
// target set has reached its final, fixed-point value — building the
// graph any earlier would miss edges added by retroactive activation
// (a class instantiated after its dyncall sites were first resolved).
type devirtualizer struct {
	cfg            *Config
	dyncallTargets map[ooir.Method]map[ooir.Method]bool
	ldNameIndex    map[string]ooir.Method

	doneSet map[ooir.Method]bool
	queue   workqueue

	cg    *callgraph.Graph
	stats *Stats
}

func (a *analyzer) newDevirtualizer() *devirtualizer {
	return &devirtualizer{
		cfg:            a.cfg,
		dyncallTargets: a.dyncallTargets,
		ldNameIndex:    a.ldNameIndex,
		doneSet:        make(map[ooir.Method]bool),
		cg:             callgraph.New(nil),
		stats:          a.stats,
	}
}

func (d *devirtualizer) addToWorkqueue(m ooir.Method) {
	if d.doneSet[m] {
		return
	}
	d.queue.push(m)
}

// run devirtualizes every dynamic call site reachable from
// entryPoints, returning the call graph it builds in the process.
func (d *devirtualizer) run(entryPoints []ooir.Method) *callgraph.Graph {
	for _, e := range entryPoints {
		d.addToWorkqueue(e)
	}

	for !d.queue.empty() {
		entity := d.queue.pop()
		if d.doneSet[entity] {
			continue
		}
		d.doneSet[entity] = true
		d.cg.CreateNode(entity)

		graph, ok := entity.Graph()
		if !ok {
			d.handleNoGraph(entity)
			continue
		}
		graph.Walk(func(n ooir.Node) { d.visit(entity, n) })
	}

	return d.cg
}

func (d *devirtualizer) handleNoGraph(entity ooir.Method) {
	if entity.Name() == entity.LinkName() {
		return
	}
	if target, ok := d.ldNameIndex[entity.LinkName()]; ok {
		d.addToWorkqueue(target)
	}
}

func (d *devirtualizer) visit(caller ooir.Method, n ooir.Node) {
	switch n.Op() {
	case ooir.OpAddress:
		addr := n.(ooir.AddressNode)
		entity := addr.Entity()
		if entity == nil {
			return
		}
		d.addEdge(caller, entity, callgraph.AddressTaken)
		d.addToWorkqueue(entity)

	case ooir.OpCall:
		call := n.(ooir.CallNode)
		shape, entity := classifyCallee(call)
		switch shape {
		case shapeStatic:
			d.handleStaticCall(caller, call, entity)
		case shapeDynamic:
			d.handleDynamicCall(caller, call, entity)
		case shapeIndirect:
			if d.stats != nil {
				d.stats.OtherCalls++
			}
		}
	}
}

func (d *devirtualizer) handleStaticCall(caller ooir.Method, call ooir.CallNode, entity ooir.Method) {
	if d.stats != nil {
		d.stats.StaticCalls++
	}
	d.addEdge(caller, entity, callgraph.StaticCall)
	d.addToWorkqueue(entity)

	if _, hasGraph := entity.Graph(); !hasGraph {
		if hidden, ok := d.cfg.detectCall(call); ok {
			d.addToWorkqueue(hidden)
		}
	}
}

// handleDynamicCall looks up the (now final) target set for entity,
// rewrites the site to static if it has collapsed to a single,
// devirtualizable target, then enqueues every target regardless of
// whether a rewrite happened.
func (d *devirtualizer) handleDynamicCall(caller ooir.Method, call ooir.CallNode, entity ooir.Method) {
	owner := entity.Owner()
	isInterfaceCall := owner.Flags().Interface

	targets, ok := d.dyncallTargets[entity]
	if !ok {
		fatalf(InvariantViolated, "no dyncall_targets entry for call site %s.%s reached by devirtualizer", owner.Name(), entity.Name())
	}

	if d.stats != nil {
		if isInterfaceCall {
			d.stats.InterfaceCalls++
		} else {
			d.stats.DynamicCalls++
		}
	}

	if len(targets) == 1 && (!owner.Flags().Extern || owner.Flags().Final || entity.Flags().Final) {
		var target ooir.Method
		for t := range targets {
			target = t
		}
		d.rewriteToStatic(call, target)
		if d.stats != nil {
			if isInterfaceCall {
				d.stats.DevirtInterface++
			} else {
				d.stats.DevirtDynamic++
			}
		}
		d.cfg.logf("rta: devirtualized %s.%s -> %s.%s", owner.Name(), entity.Name(), target.Owner().Name(), target.Name())
	}

	kind := callgraph.DynamicCall
	if isInterfaceCall {
		kind = callgraph.InterfaceCall
	}
	for target := range targets {
		d.addEdge(caller, target, kind)
		d.addToWorkqueue(target)
	}
}

// rewriteToStatic turns the MethodSel feeding the call's Proj into a
// tuple over an Address(target), so a later pass reading the same
// Proj sees a static callee — round-tripping devirtualization is
// idempotent.
func (d *devirtualizer) rewriteToStatic(call ooir.CallNode, target ooir.Method) {
	proj, ok := call.Callee().(ooir.ProjNode)
	if !ok {
		return
	}
	sel, ok := proj.Pred().(ooir.MethodSelNode)
	if !ok {
		return
	}
	rewriter, ok := sel.(ooir.Rewriter)
	if !ok {
		return
	}
	rewriter.RewriteToStatic(target)
}

func (d *devirtualizer) addEdge(caller, callee ooir.Method, kind callgraph.EdgeKind) {
	cn := d.cg.CreateNode(caller)
	callgraph.AddEdge(cn, kind, d.cg.CreateNode(callee))
}
