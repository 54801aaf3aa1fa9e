package netlist

import (
	"fmt"
	"strings"

	"github.com/preveen-stack/chisel3/internal/boring"
	"github.com/preveen-stack/chisel3/internal/circuit"
	"github.com/preveen-stack/chisel3/internal/elab"
	"github.com/preveen-stack/chisel3/internal/log"
)

// Elaborate expands the netlist into an instance hierarchy and applies its
// wiring directives against ctx. The returned root module is fully built even
// when no wiring is present.
func Elaborate(ctx *elab.Context, n *Netlist) (*circuit.Module, error) {
	rootDef, _ := n.moduleDef(n.Circuit)
	root := circuit.NewModule(rootDef.Name)
	if err := n.populate(root, rootDef, []string{rootDef.Name}); err != nil {
		return nil, err
	}
	log.Debug(log.CatNetlist, "hierarchy built", "circuit", n.Circuit)

	for i, w := range n.Wiring {
		if err := n.applyWiring(ctx, root, w); err != nil {
			return nil, fmt.Errorf("wiring entry %d: %w", i, err)
		}
	}
	return root, nil
}

// populate declares signals and expands instances recursively. stack holds
// the definition names on the current expansion path for cycle detection.
func (n *Netlist) populate(m *circuit.Module, def ModuleDef, stack []string) error {
	for _, p := range def.Ports {
		m.Port(p)
	}
	for _, w := range def.Wires {
		m.Wire(w)
	}
	for _, inst := range def.Instances {
		childDef, ok := n.moduleDef(inst.Module)
		if !ok {
			return fmt.Errorf("instance %q: unknown module %q", inst.Name, inst.Module)
		}
		for _, name := range stack {
			if name == inst.Module {
				return fmt.Errorf("recursive instantiation of %q via %s",
					inst.Module, strings.Join(stack, "/"))
			}
		}
		child := m.Instantiate(inst.Module, inst.Name)
		if err := n.populate(child, childDef, append(stack, inst.Module)); err != nil {
			return err
		}
	}
	return nil
}

func (n *Netlist) applyWiring(ctx *elab.Context, root *circuit.Module, w WiringDef) error {
	switch {
	case w.Source != nil:
		c, err := resolve(root, w.Source.Signal)
		if err != nil {
			return err
		}
		var opts []boring.Option
		if w.Source.Unique {
			opts = append(opts, boring.UniqueName())
		}
		if w.Source.NoDedup {
			opts = append(opts, boring.NoDedup())
		}
		resolved, err := boring.RegisterSource(ctx, c, w.Source.Name, opts...)
		if err != nil {
			return err
		}
		log.Info(log.CatNetlist, "source declared", "signal", w.Source.Signal, "name", resolved)
		return nil

	case w.Sink != nil:
		c, err := resolve(root, w.Sink.Signal)
		if err != nil {
			return err
		}
		var opts []boring.Option
		if w.Sink.RequireExists {
			opts = append(opts, boring.RequireExists())
		}
		if w.Sink.NoDedup {
			opts = append(opts, boring.NoDedup())
		}
		if err := boring.RegisterSink(ctx, c, w.Sink.Name, opts...); err != nil {
			return err
		}
		log.Info(log.CatNetlist, "sink declared", "signal", w.Sink.Signal, "name", w.Sink.Name)
		return nil

	case w.Bore != nil:
		source, err := resolve(root, w.Bore.Source)
		if err != nil {
			return err
		}
		sinks := make([]circuit.Component, 0, len(w.Bore.Sinks))
		for _, ref := range w.Bore.Sinks {
			sink, err := resolve(root, ref)
			if err != nil {
				return err
			}
			sinks = append(sinks, sink)
		}
		name, err := boring.Bore(ctx, source, sinks...)
		if err != nil {
			return err
		}
		log.Info(log.CatNetlist, "bore complete", "source", w.Bore.Source, "name", name)
		return nil
	}
	return fmt.Errorf("empty wiring entry")
}

// resolve walks a dotted reference from the root: leading elements name child
// instances, the final element names a signal or, when it matches an
// instance, the instance module itself.
func resolve(root *circuit.Module, ref string) (circuit.Component, error) {
	if ref == "" {
		return nil, fmt.Errorf("empty signal reference")
	}
	parts := strings.Split(ref, ".")
	cur := root
	for _, inst := range parts[:len(parts)-1] {
		child, ok := cur.Child(inst)
		if !ok {
			return nil, fmt.Errorf("%s has no instance %q in reference %q", cur, inst, ref)
		}
		cur = child
	}

	last := parts[len(parts)-1]
	if sig, ok := cur.Signal(last); ok {
		return sig, nil
	}
	if child, ok := cur.Child(last); ok {
		return child, nil
	}
	return nil, fmt.Errorf("%s has no signal or instance %q in reference %q", cur, last, ref)
}
