// Copyright 2026 The liboo-go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cmd

import (
	"fmt"
	"os"

	"github.com/sknoth/liboo-go/ooir"
	"github.com/sknoth/liboo-go/ooir/ooirtest"
	"gopkg.in/yaml.v3"
)

// scene is the YAML shape a scene file is unmarshaled into: a flat
// description of a class hierarchy, its methods and their call sites,
// standing in for a frontend's own IR.
type scene struct {
	Classes     []sceneClass  `yaml:"classes"`
	Methods     []sceneMethod `yaml:"methods"`
	EntryPoints []string      `yaml:"entryPoints"`

	// InitialLiveClasses seeds Analyze's initialLiveClasses argument,
	// for modeling classes a real frontend already knows are
	// instantiated (e.g. string or array literals) without an
	// explicit instantiate call site anywhere in the scene.
	InitialLiveClasses []string `yaml:"initialLiveClasses"`
}

// sceneClass describes one class. Supertypes must name classes
// already declared earlier in the Classes list.
type sceneClass struct {
	Name       string   `yaml:"name"`
	Supertypes []string `yaml:"supertypes"`
	Extern     bool     `yaml:"extern"`
	Abstract   bool     `yaml:"abstract"`
	Interface  bool     `yaml:"interface"`
	Final      bool     `yaml:"final"`
}

// sceneMethod describes one method declared on a class.
type sceneMethod struct {
	Class    string `yaml:"class"`
	Name     string `yaml:"name"`
	LinkName string `yaml:"linkName"`
	Abstract bool   `yaml:"abstract"`
	Final    bool   `yaml:"final"`

	// NoBody forces a method that would otherwise get a body (any
	// non-abstract method) to have none, for modeling an extern
	// declaration with a local, non-extern owner.
	NoBody bool `yaml:"noBody"`

	Calls []sceneCall `yaml:"calls"`
}

// sceneCall describes one node to emit into a method's body, in
// declared order. Exactly one field should be set.
type sceneCall struct {
	// Static names the "Class.Method" target of a static call.
	Static string `yaml:"static"`

	// Dynamic names the "Class.Method" selector of a dynamically
	// dispatched call.
	Dynamic string `yaml:"dynamic"`

	// StaticallyBound marks a Dynamic call as one the frontend has
	// already proven fixed, despite going through a dispatch node.
	StaticallyBound bool `yaml:"staticallyBound"`

	// Indirect, if true, emits a call through an opaque callee.
	Indirect bool `yaml:"indirect"`

	// Instantiate names the class a VptrIsSet node is emitted for.
	Instantiate string `yaml:"instantiate"`

	// AddressOf names the "Class.Method" whose address is taken,
	// without a surrounding call.
	AddressOf string `yaml:"addressOf"`
}

// loadedScene is the built program plus lookup tables keyed by the
// scene file's own "Class.Method" and class-name notation, used to
// resolve EntryPoints and InitialLiveClasses after the build.
type loadedScene struct {
	program *ooirtest.Program
	classes map[string]*ooirtest.Class
	methods map[string]*ooirtest.Method

	classOrder         []string
	entryPoints        []string
	initialLiveClasses []string
}

func (ls *loadedScene) entryPointNames() []string       { return ls.entryPoints }
func (ls *loadedScene) initialLiveClassNames() []string { return ls.initialLiveClasses }
func (ls *loadedScene) allClassNames() []string         { return ls.classOrder }

func loadSceneFile(path string) (*loadedScene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scene file: %w", err)
	}
	var s scene
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parsing scene file: %w", err)
	}
	return buildScene(&s)
}

func buildScene(s *scene) (*loadedScene, error) {
	p := ooirtest.NewProgram()
	classes := make(map[string]*ooirtest.Class, len(s.Classes))

	for _, sc := range s.Classes {
		if _, dup := classes[sc.Name]; dup {
			return nil, fmt.Errorf("class %q declared twice", sc.Name)
		}
		var supers []*ooirtest.Class
		for _, superName := range sc.Supertypes {
			super, ok := classes[superName]
			if !ok {
				return nil, fmt.Errorf("class %q names supertype %q, which must be declared earlier in the scene file", sc.Name, superName)
			}
			supers = append(supers, super)
		}
		classes[sc.Name] = p.NewClass(sc.Name, ooir.ClassFlags{
			Extern:    sc.Extern,
			Abstract:  sc.Abstract,
			Interface: sc.Interface,
			Final:     sc.Final,
		}, supers...)
	}

	methods := make(map[string]*ooirtest.Method, len(s.Methods))
	for _, sm := range s.Methods {
		owner, ok := classes[sm.Class]
		if !ok {
			return nil, fmt.Errorf("method %q names undeclared class %q", sm.Name, sm.Class)
		}
		key := sm.Class + "." + sm.Name
		if _, dup := methods[key]; dup {
			return nil, fmt.Errorf("method %q declared twice", key)
		}
		m := p.NewMethod(owner, sm.Name, ooir.MethodFlags{
			Abstract: sm.Abstract,
			Final:    sm.Final,
		})
		if sm.LinkName != "" {
			m.SetLinkName(sm.LinkName)
		}
		methods[key] = m
	}

	for _, sm := range s.Methods {
		if sm.Abstract || sm.NoBody {
			continue
		}
		m := methods[sm.Class+"."+sm.Name]
		b := m.Body()
		for _, call := range sm.Calls {
			if err := emitCall(b, classes, methods, call); err != nil {
				return nil, fmt.Errorf("method %q: %w", sm.Class+"."+sm.Name, err)
			}
		}
	}

	classOrder := make([]string, 0, len(s.Classes))
	for _, sc := range s.Classes {
		classOrder = append(classOrder, sc.Name)
	}

	return &loadedScene{
		program:            p,
		classes:            classes,
		methods:            methods,
		classOrder:         classOrder,
		entryPoints:        s.EntryPoints,
		initialLiveClasses: s.InitialLiveClasses,
	}, nil
}

func emitCall(b *ooirtest.Builder, classes map[string]*ooirtest.Class, methods map[string]*ooirtest.Method, call sceneCall) error {
	switch {
	case call.Static != "":
		target, ok := methods[call.Static]
		if !ok {
			return fmt.Errorf("static call names undeclared method %q", call.Static)
		}
		b.StaticCall(target)
	case call.Dynamic != "":
		selector, ok := methods[call.Dynamic]
		if !ok {
			return fmt.Errorf("dynamic call names undeclared method %q", call.Dynamic)
		}
		b.DynamicCall(selector, call.StaticallyBound)
	case call.Indirect:
		b.IndirectCall()
	case call.Instantiate != "":
		klass, ok := classes[call.Instantiate]
		if !ok {
			return fmt.Errorf("instantiate names undeclared class %q", call.Instantiate)
		}
		b.Instantiate(klass)
	case call.AddressOf != "":
		target, ok := methods[call.AddressOf]
		if !ok {
			return fmt.Errorf("addressOf names undeclared method %q", call.AddressOf)
		}
		b.Address(target)
	default:
		return fmt.Errorf("call entry has no recognized field set")
	}
	return nil
}

// resolveMethods looks up every "Class.Method" name in names, failing
// on the first one not found.
func (ls *loadedScene) resolveMethods(names []string) ([]ooir.Method, error) {
	out := make([]ooir.Method, 0, len(names))
	for _, name := range names {
		m, ok := ls.methods[name]
		if !ok {
			return nil, fmt.Errorf("%q is not a declared method", name)
		}
		out = append(out, m)
	}
	return out, nil
}

// resolveClasses looks up every class name in names, failing on the
// first one not found.
func (ls *loadedScene) resolveClasses(names []string) ([]ooir.Class, error) {
	out := make([]ooir.Class, 0, len(names))
	for _, name := range names {
		c, ok := ls.classes[name]
		if !ok {
			return nil, fmt.Errorf("%q is not a declared class", name)
		}
		out = append(out, c)
	}
	return out, nil
}
