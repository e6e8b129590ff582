// Copyright 2026 The liboo-go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package rta

import "github.com/sknoth/liboo-go/ooir"

// analyzer holds all state mutated during a single Analyze run's
// first pass. It owns live_classes, live_methods, dyncall_targets,
// unused_targets, done_set and workqueue for the duration of the run;
// nothing else touches them concurrently — the whole pass is
// single-threaded and strictly sequential.
type analyzer struct {
	cfg *Config

	liveClasses    map[ooir.Class]bool
	liveMethods    map[ooir.Method]bool
	dyncallTargets map[ooir.Method]map[ooir.Method]bool
	unusedTargets  map[ooir.Class]map[ooir.Method]*unusedTarget

	doneSet map[ooir.Method]bool
	queue   workqueue

	// ldNameIndex maps link name -> method, built once from
	// Program.Graphs(), for resolving ld-name redirects.
	ldNameIndex map[string]ooir.Method

	stats *Stats
}

func newAnalyzer(cfg *Config, program ooir.Program) *analyzer {
	a := &analyzer{
		cfg:            cfg,
		liveClasses:    make(map[ooir.Class]bool),
		liveMethods:    make(map[ooir.Method]bool),
		dyncallTargets: make(map[ooir.Method]map[ooir.Method]bool),
		unusedTargets:  make(map[ooir.Class]map[ooir.Method]*unusedTarget),
		doneSet:        make(map[ooir.Method]bool),
		ldNameIndex:    make(map[string]ooir.Method),
	}
	if cfg.CollectStats {
		a.stats = &Stats{}
	}
	if program != nil {
		for _, m := range program.Graphs() {
			a.ldNameIndex[m.LinkName()] = m
		}
	}
	return a
}

// addToWorkqueue enqueues entity unless it is already done: re-
// enqueueing a done entity is a no-op; entities already
// enqueued-but-not-done may be enqueued again, as in rta.c, which is
// harmless since the run loop re-checks doneSet on pop.
func (a *analyzer) addToWorkqueue(entity ooir.Method) {
	if a.doneSet[entity] {
		return
	}
	a.queue.push(entity)
}

// run drains the workqueue, visiting each not-yet-done method exactly
// once (rta.c's rta_run while loop).
func (a *analyzer) run() {
	for !a.queue.empty() {
		entity := a.queue.pop()
		if a.doneSet[entity] {
			continue
		}
		a.doneSet[entity] = true

		graph, ok := entity.Graph()
		if !ok {
			a.handleNoGraph(entity)
			continue
		}
		graph.Walk(func(n ooir.Node) { a.visit(n) })
	}
}

// handleNoGraph handles a method with no body: it is either an
// ld-name redirect to another method that does have one, or genuinely
// external.
func (a *analyzer) handleNoGraph(entity ooir.Method) {
	if target, ok := a.findLdNameRedirect(entity); ok {
		a.cfg.logf("rta: %s.%s redirects via link name to %s.%s", entity.Owner().Name(), entity.Name(), target.Owner().Name(), target.Name())
		a.liveMethods[target] = true
		a.addToWorkqueue(target)
		return
	}
	// Assume external; nothing more to do.
}

// findLdNameRedirect looks for another method with a graph whose link
// name equals entity's link name, when entity's own name differs from
// its link name (rta.c's get_ldname_redirect /
// find_entity_by_ldname): "external functions like C functions
// usually have identical name and ldname, so assumption is if a
// method entity without graph has differing name and ldname, and the
// ldname belongs to another method with graph, it's a redirection."
func (a *analyzer) findLdNameRedirect(entity ooir.Method) (ooir.Method, bool) {
	if entity.Name() == entity.LinkName() {
		return nil, false
	}
	target, ok := a.ldNameIndex[entity.LinkName()]
	return target, ok
}
