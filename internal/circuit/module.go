// Package circuit provides the in-memory hardware object model: module
// definitions, instance hierarchy, and the signals that annotations attach to.
//
// The model is deliberately small. It exists to give the boring facility
// concrete components with stable identity, optional display names, and
// owner-module resolution; it performs no simulation or netlist optimization
// itself.
package circuit

import (
	"fmt"

	"github.com/google/uuid"
)

// Module is one instance of a hardware module in the elaborated hierarchy.
// Two instances of the same definition share a Name (their dedup class) but
// carry distinct IDs.
type Module struct {
	id       uuid.UUID
	name     string // definition name, shared across instances
	instName string // instance name within the parent, "" for the root
	parent   *Module
	children []*Module
	signals  []*Signal
	nextTmp  int
}

// NewModule creates a root module instance with the given definition name.
func NewModule(name string) *Module {
	return &Module{
		id:   uuid.New(),
		name: name,
	}
}

// Name returns the module's definition name.
func (m *Module) Name() string {
	return m.name
}

// ID returns the instance's unique identity.
func (m *Module) ID() uuid.UUID {
	return m.id
}

// Parent returns the enclosing instance, or nil for the root.
func (m *Module) Parent() *Module {
	return m.parent
}

// InstanceName returns the name this instance carries within its parent.
// The root module has no instance name.
func (m *Module) InstanceName() string {
	return m.instName
}

// Instantiate creates a child instance of a module definition.
func (m *Module) Instantiate(defName, instName string) *Module {
	child := &Module{
		id:       uuid.New(),
		name:     defName,
		instName: instName,
		parent:   m,
	}
	m.children = append(m.children, child)
	return child
}

// Children returns the child instances in instantiation order.
func (m *Module) Children() []*Module {
	return m.children
}

// Child returns the child instance with the given instance name.
func (m *Module) Child(instName string) (*Module, bool) {
	for _, c := range m.children {
		if c.instName == instName {
			return c, true
		}
	}
	return nil, false
}

// Path returns the instance names from the root down to this instance.
// The root contributes nothing, so the root's path is empty.
func (m *Module) Path() []string {
	if m.parent == nil {
		return nil
	}
	return append(m.parent.Path(), m.instName)
}

// Signals returns the module's signals in declaration order.
func (m *Module) Signals() []*Signal {
	return m.signals
}

// Signal returns the named signal declared in this instance.
func (m *Module) Signal(name string) (*Signal, bool) {
	for _, s := range m.signals {
		if s.name == name && s.named {
			return s, true
		}
	}
	return nil, false
}

// Owner returns the module itself; a module is its own annotation owner.
func (m *Module) Owner() *Module {
	return m
}

// Target returns the module-class identity.
func (m *Module) Target() Target {
	return ModuleTarget{Module: m.name}
}

// DisplayName returns the module's definition name.
func (m *Module) DisplayName() (string, bool) {
	return m.name, true
}

func (m *Module) String() string {
	if m.parent == nil {
		return m.name
	}
	return fmt.Sprintf("%s(%s)", m.name, m.instName)
}
