// Copyright 2026 The liboo-go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package rta

import "github.com/sknoth/liboo-go/ooir"

// collectMethods implements the collect-down operation (rta.c's
// collect_methods / collect_methods_recursive): starting from
// callEntity's owner, it walks every subtype in pre-order, at each
// class resolving the override (if any) of the current entity, and
// records a take-or-memorize decision for every concrete candidate it
// finds. The discovered entities are added to result.
//
// current is threaded as an ordinary parameter rather than a shared
// mutable field: each recursive call receives its own copy, so an
// override discovered down one branch of the subtype tree can never
// leak into a sibling branch — the behavior a diamond hierarchy needs.
func (a *analyzer) collectMethods(callEntity ooir.Method, result map[ooir.Method]bool) {
	a.collectMethodsRecursive(callEntity, callEntity.Owner(), callEntity, result)
}

func (a *analyzer) collectMethodsRecursive(callEntity ooir.Method, klass ooir.Class, current ooir.Method, result map[ooir.Method]bool) {
	if overriding, ok := klass.Member(current.Name()); ok && overriding != current {
		current = overriding
	}
	// else: current is inherited unchanged from the superclass walk.

	// If the call is against an abstract method and klass is a
	// concrete, non-interface class whose resolved member is still
	// abstract, there is no entity copy for the inherited
	// implementation — go find it.
	if callEntity.Flags().Abstract && !klass.Flags().Abstract && !klass.Flags().Interface && current.Flags().Abstract {
		if inherited, ok := a.findInheritedImplementation(klass, callEntity); ok {
			current = inherited
		}
	}

	if !current.Flags().Abstract {
		if a.liveClasses[klass] || klass.Flags().Extern || a.cfg.assumeAllLive() {
			a.takeEntity(current, result)
		} else {
			a.memorizeUnusedTarget(klass, current, callEntity)
		}
	}

	for _, sub := range klass.Subtypes() {
		a.collectMethodsRecursive(callEntity, sub, current, result)
	}
}

// findInheritedImplementation implements the ascend operation
// (rta.c's find_inherited_implementation /
// fir_ascend_into_superclasses_and_merge): it DFSes upward over
// klass's supertypes looking for a non-abstract member with
// callEntity's name, merging candidates found along independent
// supertype paths with the rule "class beats interface; two of the
// same provenance is ambiguous".
func (a *analyzer) findInheritedImplementation(klass ooir.Class, callEntity ooir.Method) (ooir.Method, bool) {
	return a.ascendAndMerge(klass, callEntity, nil)
}

func (a *analyzer) ascendAndMerge(klass ooir.Class, callEntity ooir.Method, result ooir.Method) (ooir.Method, bool) {
	for _, super := range klass.Supertypes() {
		r, found := a.findImplementationRecursive(super, callEntity)
		if !found {
			continue
		}
		switch {
		case result == nil:
			result = r
		default:
			resultFromInterface := result.Owner().Flags().Interface
			rFromInterface := r.Owner().Flags().Interface
			switch {
			case resultFromInterface && !rFromInterface:
				result = r
			case resultFromInterface == rFromInterface:
				fatalf(AmbiguousImplementation,
					"two %s-provenance implementations of %s.%s reach the same merge point: %s.%s and %s.%s",
					provenance(resultFromInterface), callEntity.Owner().Name(), callEntity.Name(),
					result.Owner().Name(), result.Name(), r.Owner().Name(), r.Name())
			}
			// else: r is interface-provenance, result is class-provenance; result wins, nothing to do.
		}
	}
	return result, result != nil
}

func provenance(isInterface bool) string {
	if isInterface {
		return "interface"
	}
	return "class"
}

func (a *analyzer) findImplementationRecursive(klass ooir.Class, callEntity ooir.Method) (ooir.Method, bool) {
	if m, ok := klass.Member(callEntity.Name()); ok && !m.Flags().Abstract {
		return m, true
	}
	// No member, or only an abstract one: keep ascending.
	return a.ascendAndMerge(klass, callEntity, nil)
}
