// Package annotation defines the intent vocabulary the boring facility emits
// and the ordered recorder that collects it for the downstream wire-threading
// transform.
package annotation

import "github.com/preveen-stack/chisel3/internal/circuit"

// Kind discriminates annotation records.
type Kind string

const (
	KindDontTouch Kind = "dont_touch"
	KindSource    Kind = "source"
	KindSink      Kind = "sink"
	KindNoDedup   Kind = "no_dedup"
)

// Annotation is one recorded wiring intent or directive.
type Annotation interface {
	Kind() Kind
	Target() circuit.Target
}

// DontTouch pins a component so structural optimization cannot remove it.
// Every declared source is pinned; an optimized-away source cannot be wired.
type DontTouch struct {
	T circuit.Target
}

func (DontTouch) Kind() Kind { return KindDontTouch }
func (a DontTouch) Target() circuit.Target { return a.T }

// Source declares that a component is externally nameable under Name.
type Source struct {
	T    circuit.Target
	Name string
}

func (Source) Kind() Kind { return KindSource }
func (a Source) Target() circuit.Target { return a.T }

// Sink declares that a component expects a value from the source sharing Name.
type Sink struct {
	T    circuit.Target
	Name string
}

func (Sink) Kind() Kind { return KindSink }
func (a Sink) Target() circuit.Target { return a.T }

// NoDedup exempts a module class from structural deduplication, keeping
// instances distinguishable for point-to-point wiring.
type NoDedup struct {
	Module circuit.ModuleTarget
}

func (NoDedup) Kind() Kind { return KindNoDedup }
func (a NoDedup) Target() circuit.Target { return a.Module }
