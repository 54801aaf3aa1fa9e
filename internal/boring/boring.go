// Package boring implements cross-module signal wiring intents. It lets a
// design connect a signal deep in one instance of the hierarchy to a signal
// deep in another without modifying intervening module interfaces: sources
// and sinks are declared under a shared identifier, and a downstream
// wire-threading transform consumes the recorded annotations to thread the
// actual wires.
//
// Two modes exist. Hierarchical boring (Bore) generates guaranteed-fresh
// identifiers through the context's namespace and is always safe.
// Non-hierarchical boring (RegisterSource/RegisterSink with caller-chosen
// names) supports stable cross-build naming but performs no collision
// checking unless the context enables strict names.
package boring

import (
	"errors"
	"fmt"

	"github.com/preveen-stack/chisel3/internal/annotation"
	"github.com/preveen-stack/chisel3/internal/circuit"
	"github.com/preveen-stack/chisel3/internal/elab"
	"github.com/preveen-stack/chisel3/internal/log"
)

// Boring errors.
var (
	// ErrNameNotFound reports a sink bound with RequireExists to a name the
	// namespace never issued.
	ErrNameNotFound = errors.New("name was never allocated")
	// ErrInvalidSinkTarget reports a sink whose identity does not reduce to a
	// module or a module-local component.
	ErrInvalidSinkTarget = errors.New("sink target must resolve to a module or module component")
	// ErrDuplicateSource reports a strict-mode collision between user-chosen
	// source names.
	ErrDuplicateSource = errors.New("source name already declared")
)

// fallbackLabel seeds generated identifiers when a bore source has no
// display name.
const fallbackLabel = "bore"

type options struct {
	uniqueName    bool
	noDedup       bool
	requireExists bool
}

// Option configures a registration.
type Option func(*options)

// UniqueName resolves the requested source name through the context's
// namespace instead of using it verbatim. RegisterSource only.
func UniqueName() Option {
	return func(o *options) { o.uniqueName = true }
}

// NoDedup additionally exempts the component's owning module from structural
// deduplication.
func NoDedup() Option {
	return func(o *options) { o.noDedup = true }
}

// RequireExists makes sink registration fail unless the name was previously
// issued by the context's namespace. RegisterSink only.
func RequireExists() Option {
	return func(o *options) { o.requireExists = true }
}

func applyOptions(opts []Option) options {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// RegisterSource declares c as externally nameable under name and returns the
// resolved identifier. With UniqueName the identifier is allocated fresh from
// the namespace; otherwise name is used verbatim with no collision check,
// which is what makes cross-build stable naming possible.
//
// The source is always pinned against optimization: a source that gets
// optimized away cannot be wired later.
//
// The only error path is a strict-names collision on a verbatim name; in
// permissive mode (the default) the error is always nil.
func RegisterSource(ctx *elab.Context, c circuit.Component, name string, opts ...Option) (string, error) {
	o := applyOptions(opts)

	resolved := name
	if o.uniqueName {
		resolved = ctx.Namespace().AllocateUnique(name)
	}

	first := ctx.DeclareSource(resolved)
	if !first && !o.uniqueName && ctx.StrictNames() {
		return "", fmt.Errorf("%w: %q", ErrDuplicateSource, resolved)
	}

	rec := ctx.Annotations()
	rec.Record(annotation.DontTouch{T: c.Target()})
	rec.Record(annotation.Source{T: c.Target(), Name: resolved})
	if o.noDedup {
		rec.Record(annotation.NoDedup{Module: moduleTarget(c.Owner())})
	}

	log.Debug(log.CatBoring, "source registered",
		"target", c.Target().String(), "name", resolved, "unique", o.uniqueName)
	return resolved, nil
}

// RegisterSink declares that c expects a value from the source sharing name.
// The component's identity must reduce to a whole module or a module-local
// component; instance-path identities are rejected with ErrInvalidSinkTarget.
//
// All checks precede emission: a failed registration records nothing.
func RegisterSink(ctx *elab.Context, c circuit.Component, name string, opts ...Option) error {
	o := applyOptions(opts)

	if o.requireExists && !ctx.Namespace().Exists(name) {
		return fmt.Errorf("%w: %q", ErrNameNotFound, name)
	}

	target := c.Target()
	switch target.(type) {
	case circuit.ModuleTarget, circuit.ReferenceTarget:
	default:
		return fmt.Errorf("%w: %s", ErrInvalidSinkTarget, target)
	}

	rec := ctx.Annotations()
	rec.Record(annotation.Sink{T: target, Name: name})
	if o.noDedup {
		rec.Record(annotation.NoDedup{Module: moduleTarget(c.Owner())})
	}

	log.Debug(log.CatBoring, "sink registered",
		"target", target.String(), "name", name)
	return nil
}

// Bore connects source to every sink through a generated identifier and
// returns it. The identifier is seeded from the source's display name, or
// "bore" when the source is anonymous; seeding is cosmetic, so absence of a
// name is never an error.
//
// Dedup is suppressed on source and sinks alike: hierarchical boring creates
// one-off point-to-point wires that must not be merged with structurally
// identical modules elsewhere. Sinks are registered in argument order with no
// existence check, since the source registration in the same call already
// guarantees the name. Repeated sinks yield repeated intents.
func Bore(ctx *elab.Context, source circuit.Component, sinks ...circuit.Component) (string, error) {
	label, ok := source.DisplayName()
	if !ok || label == "" {
		label = fallbackLabel
	}

	genName, err := RegisterSource(ctx, source, label, UniqueName(), NoDedup())
	if err != nil {
		// Unreachable with unique naming, but never silently drop it.
		return "", err
	}

	for _, sink := range sinks {
		if err := RegisterSink(ctx, sink, genName, NoDedup()); err != nil {
			return "", fmt.Errorf("bore %q: %w", genName, err)
		}
	}

	log.Debug(log.CatBoring, "bore complete", "name", genName, "sinks", len(sinks))
	return genName, nil
}

func moduleTarget(m *circuit.Module) circuit.ModuleTarget {
	return circuit.ModuleTarget{Module: m.Name()}
}
