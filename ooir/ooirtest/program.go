// Copyright 2026 The liboo-go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package ooirtest is a minimal, in-memory implementation of ooir,
// used to build test fixtures and to back cmd/oorta's scene-file
// loader. It plays the role a real compiler's IR library would play
// in production: nothing in go/callgraph depends on this package
// directly, only on the ooir interfaces it happens to satisfy.
package ooirtest

import "github.com/sknoth/liboo-go/ooir"

// Program owns every class and method created through it, and is the
// entry point for building a fixture.
type Program struct {
	classes []*Class
	methods []*Method
}

// NewProgram returns an empty program.
func NewProgram() *Program {
	return &Program{}
}

// Graphs implements ooir.Program: every method added through this
// Program that has had a body attached via Method.Body.
func (p *Program) Graphs() []ooir.Method {
	var out []ooir.Method
	for _, m := range p.methods {
		if m.graph != nil {
			out = append(out, m)
		}
	}
	return out
}

// NewClass adds a class with the given name and flags to the
// program. Supertypes must already exist; this call links both
// directions of the hierarchy DAG.
func (p *Program) NewClass(name string, flags ooir.ClassFlags, supertypes ...*Class) *Class {
	c := &Class{name: name, flags: flags}
	for _, s := range supertypes {
		c.supertypes = append(c.supertypes, s)
		s.subtypes = append(s.subtypes, c)
	}
	p.classes = append(p.classes, c)
	return c
}

// NewMethod adds a method named name to owner. The method has no
// graph until Body is called on it.
func (p *Program) NewMethod(owner *Class, name string, flags ooir.MethodFlags) *Method {
	m := &Method{owner: owner, name: name, linkName: name, flags: flags}
	owner.members = append(owner.members, m)
	p.methods = append(p.methods, m)
	return m
}

// Class is ooirtest's ooir.Class.
type Class struct {
	name       string
	flags      ooir.ClassFlags
	members    []*Method
	supertypes []*Class
	subtypes   []*Class
}

func (c *Class) Name() string           { return c.name }
func (c *Class) Flags() ooir.ClassFlags { return c.flags }

func (c *Class) Member(name string) (ooir.Method, bool) {
	for _, m := range c.members {
		if m.name == name {
			return m, true
		}
	}
	return nil, false
}

func (c *Class) Members() []ooir.Method {
	out := make([]ooir.Method, len(c.members))
	for i, m := range c.members {
		out[i] = m
	}
	return out
}

func (c *Class) Supertypes() []ooir.Class {
	out := make([]ooir.Class, len(c.supertypes))
	for i, s := range c.supertypes {
		out[i] = s
	}
	return out
}

func (c *Class) Subtypes() []ooir.Class {
	out := make([]ooir.Class, len(c.subtypes))
	for i, s := range c.subtypes {
		out[i] = s
	}
	return out
}

// Method is ooirtest's ooir.Method.
type Method struct {
	owner    *Class
	name     string
	linkName string
	flags    ooir.MethodFlags
	graph    *Graph
}

func (m *Method) Owner() ooir.Class       { return m.owner }
func (m *Method) Name() string            { return m.name }
func (m *Method) LinkName() string        { return m.linkName }
func (m *Method) Flags() ooir.MethodFlags { return m.flags }

func (m *Method) Graph() (ooir.Graph, bool) {
	if m.graph == nil {
		return nil, false
	}
	return m.graph, true
}

// SetLinkName overrides the method's link name, for building
// ld-name-redirect fixtures where a bodyless method's link name
// points at another method's body.
func (m *Method) SetLinkName(ldname string) *Method {
	m.linkName = ldname
	return m
}

// Body attaches an empty graph to m and returns a *Builder for
// populating it with nodes.
func (m *Method) Body() *Builder {
	g := &Graph{}
	m.graph = g
	return &Builder{graph: g}
}
