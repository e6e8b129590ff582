// Copyright 2026 The liboo-go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package rta

import "github.com/sknoth/liboo-go/ooir"

// unusedTarget is the payload memorized for a class that might become
// live later: the method that would be the call target once the class
// is live, and the set of call-site entities that would then gain it
// (rta.c's unused_targets: Map<Class, Map<Method, Set<CallEntity>>>).
type unusedTarget struct {
	method       ooir.Method
	callEntities map[ooir.Method]bool
}

// takeEntity records entity as live and reachable, adding it to
// result at most once (rta.c's take_entity).
func (a *analyzer) takeEntity(entity ooir.Method, result map[ooir.Method]bool) {
	if result[entity] {
		return
	}
	a.liveMethods[entity] = true
	result[entity] = true
	a.addToWorkqueue(entity)
}

// memorizeUnusedTarget records that if klass becomes live, entity
// must be added to dyncallTargets[callEntity] (rta.c's
// memorize_unused_target).
func (a *analyzer) memorizeUnusedTarget(klass ooir.Class, entity, callEntity ooir.Method) {
	byMethod := a.unusedTargets[klass]
	if byMethod == nil {
		byMethod = make(map[ooir.Method]*unusedTarget)
		a.unusedTargets[klass] = byMethod
	}
	ut := byMethod[entity]
	if ut == nil {
		ut = &unusedTarget{method: entity, callEntities: make(map[ooir.Method]bool)}
		byMethod[entity] = ut
	}
	ut.callEntities[callEntity] = true
}

// addToDyncalls adds method to the target set of every call entity in
// callEntities, marking method live and enqueuing it (rta.c's
// add_to_dyncalls).
func (a *analyzer) addToDyncalls(method ooir.Method, callEntities map[ooir.Method]bool) {
	for callEntity := range callEntities {
		targets := a.dyncallTargets[callEntity]
		if targets == nil {
			fatalf(InvariantViolated, "no dyncall_targets entry for call entity %s.%s while activating %s.%s",
				callEntity.Owner().Name(), callEntity.Name(), method.Owner().Name(), method.Name())
		}
		targets[method] = true
		a.liveMethods[method] = true
		a.addToWorkqueue(method)
	}
}

// addNewLiveClass marks klass live (a no-op if it already is, or if it
// is extern or abstract), drains its unused targets into
// dyncallTargets, and checks for extern superclasses whose vtable an
// external caller could use to reach an override.
//
// The inner structure for klass is snapshotted and the outer map entry
// removed before it is drained, so nothing reads unusedTargets[klass]
// mid-drain.
func (a *analyzer) addNewLiveClass(klass ooir.Class) {
	if a.liveClasses[klass] || klass.Flags().Extern || klass.Flags().Abstract {
		return
	}

	a.liveClasses[klass] = true
	a.cfg.logf("rta: class %s is now live", klass.Name())

	byMethod := a.unusedTargets[klass]
	delete(a.unusedTargets, klass)
	for _, ut := range byMethod {
		a.addToDyncalls(ut.method, ut.callEntities)
	}

	a.checkExternSuperclasses(klass)
}

// checkExternSuperclasses implements the extern-super-check: external
// code could downcall an override through an extern superclass's
// vtable, so every non-final method an extern ancestor declares that
// klass overrides must be treated as live even though no direct call
// site names it.
//
// Constructors are not special-cased here, matching rta.c's unresolved
// FIXME on the same check.
func (a *analyzer) checkExternSuperclasses(klass ooir.Class) {
	if klass.Flags().Extern {
		return
	}
	for _, super := range klass.Supertypes() {
		a.checkExternSuperclassesRecursive(klass, super)
	}
}

func (a *analyzer) checkExternSuperclassesRecursive(klass, superclass ooir.Class) {
	if superclass.Flags().Extern {
		for _, member := range superclass.Members() {
			if member.Flags().Final {
				continue
			}
			if overriding, ok := klass.Member(member.Name()); ok {
				a.liveMethods[overriding] = true
				a.addToWorkqueue(overriding)
			}
		}
	}

	for _, sc := range superclass.Supertypes() {
		a.checkExternSuperclassesRecursive(klass, sc)
	}
}
