package circuit

import "fmt"

// Component is the capability contract annotations attach to: a stable
// target identity, an optional human-readable display name, and the module
// instance that owns it.
//
// *Module, *Signal, and *Probe all satisfy it.
type Component interface {
	Owner() *Module
	Target() Target
	DisplayName() (string, bool)
}

// SignalKind distinguishes declared signals from synthesized ones.
type SignalKind int

const (
	KindWire SignalKind = iota
	KindPort
	KindNode // anonymous intermediate value
)

func (k SignalKind) String() string {
	switch k {
	case KindWire:
		return "wire"
	case KindPort:
		return "port"
	case KindNode:
		return "node"
	default:
		return "unknown"
	}
}

// Signal is a named or anonymous value declared inside a module instance.
type Signal struct {
	owner *Module
	name  string
	named bool
	kind  SignalKind
}

// Wire declares a named wire in the module.
func (m *Module) Wire(name string) *Signal {
	return m.addSignal(name, true, KindWire)
}

// Port declares a named port on the module.
func (m *Module) Port(name string) *Signal {
	return m.addSignal(name, true, KindPort)
}

// Node declares an anonymous intermediate value. Nodes receive a synthesized
// local reference for identity but expose no display name.
func (m *Module) Node() *Signal {
	name := fmt.Sprintf("_t_%d", m.nextTmp)
	m.nextTmp++
	return m.addSignal(name, false, KindNode)
}

func (m *Module) addSignal(name string, named bool, kind SignalKind) *Signal {
	s := &Signal{owner: m, name: name, named: named, kind: kind}
	m.signals = append(m.signals, s)
	return s
}

// Owner returns the module instance the signal is declared in.
func (s *Signal) Owner() *Module {
	return s.owner
}

// Kind returns the signal kind.
func (s *Signal) Kind() SignalKind {
	return s.kind
}

// Target returns the signal's identity within its owner's module class.
func (s *Signal) Target() Target {
	return ReferenceTarget{Module: s.owner.name, Ref: s.name}
}

// DisplayName returns the declared name. Anonymous nodes report absence; the
// synthesized local reference is identity only, not a name.
func (s *Signal) DisplayName() (string, bool) {
	if !s.named {
		return "", false
	}
	return s.name, true
}

func (s *Signal) String() string {
	return s.Target().String()
}

// Probe is a reference to a signal addressed through a concrete instance
// path, created with Module.Probe. Its identity is a PathTarget, which pins
// one instance rather than a module class.
type Probe struct {
	signal *Signal
	path   []string
}

// Probe resolves an instance path from this module to a signal deep in the
// hierarchy. Each leading element names a child instance; the final element
// names a signal in the terminal instance.
func (m *Module) Probe(path ...string) (*Probe, error) {
	if len(path) == 0 {
		return nil, fmt.Errorf("probe: empty path")
	}
	cur := m
	for _, inst := range path[:len(path)-1] {
		child, ok := cur.Child(inst)
		if !ok {
			return nil, fmt.Errorf("probe: %s has no instance %q", cur, inst)
		}
		cur = child
	}
	sigName := path[len(path)-1]
	sig, ok := cur.Signal(sigName)
	if !ok {
		return nil, fmt.Errorf("probe: %s has no signal %q", cur, sigName)
	}
	return &Probe{signal: sig, path: append(m.Path(), path[:len(path)-1]...)}, nil
}

// Owner returns the instance the probed signal lives in.
func (p *Probe) Owner() *Module {
	return p.signal.owner
}

// Target returns the instance-path identity of the probed signal.
func (p *Probe) Target() Target {
	return PathTarget{Path: p.path, Ref: p.signal.name}
}

// DisplayName returns the probed signal's display name.
func (p *Probe) DisplayName() (string, bool) {
	return p.signal.DisplayName()
}
