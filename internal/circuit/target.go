package circuit

import (
	"fmt"
	"strings"
)

// Target is the stable structural identity of a circuit element, usable as an
// annotation target. Exactly three shapes exist:
//
//   - ModuleTarget: a whole module class
//   - ReferenceTarget: a named component local to a module class
//   - PathTarget: a component addressed through a concrete instance path
//
// Downstream passes key on the String form.
type Target interface {
	fmt.Stringer
	isTarget()
}

// ModuleTarget identifies a module class.
type ModuleTarget struct {
	Module string
}

func (ModuleTarget) isTarget() {}

func (t ModuleTarget) String() string {
	return t.Module
}

// ReferenceTarget identifies a named component within a module class.
type ReferenceTarget struct {
	Module string
	Ref    string
}

func (ReferenceTarget) isTarget() {}

func (t ReferenceTarget) String() string {
	return t.Module + ">" + t.Ref
}

// PathTarget identifies a component through a concrete instance path from the
// root. Instance-path identities are valid probe sources but are not
// reducible to a dedup class, so they are rejected as sink targets.
type PathTarget struct {
	Path []string // instance names, root first
	Ref  string
}

func (PathTarget) isTarget() {}

func (t PathTarget) String() string {
	return strings.Join(t.Path, "/") + ">" + t.Ref
}
