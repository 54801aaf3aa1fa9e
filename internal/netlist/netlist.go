// Package netlist loads declarative circuit descriptions from YAML and
// elaborates them: module definitions expand into an instance hierarchy, and
// wiring directives apply boring operations against an elaboration context.
package netlist

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Netlist is the root structure of a netlist file.
type Netlist struct {
	Circuit string      `yaml:"circuit"` // definition name of the root module
	Modules []ModuleDef `yaml:"modules"`
	Wiring  []WiringDef `yaml:"wiring"`
}

// ModuleDef defines a module class.
type ModuleDef struct {
	Name      string        `yaml:"name"`
	Ports     []string      `yaml:"ports"`
	Wires     []string      `yaml:"wires"`
	Instances []InstanceDef `yaml:"instances"`
}

// InstanceDef instantiates a module definition under an instance name.
type InstanceDef struct {
	Name   string `yaml:"name"`
	Module string `yaml:"module"`
}

// WiringDef is one boring directive. Exactly one of Source, Sink, or Bore
// must be set.
type WiringDef struct {
	Source *SourceDef `yaml:"source"`
	Sink   *SinkDef   `yaml:"sink"`
	Bore   *BoreDef   `yaml:"bore"`
}

// SourceDef registers a signal as a named source.
type SourceDef struct {
	Signal  string `yaml:"signal"` // dotted instance path, e.g. "dut0.counter"
	Name    string `yaml:"name"`
	Unique  bool   `yaml:"unique"`
	NoDedup bool   `yaml:"no_dedup"`
}

// SinkDef registers a signal as a sink for a named source.
type SinkDef struct {
	Signal        string `yaml:"signal"`
	Name          string `yaml:"name"`
	RequireExists bool   `yaml:"require_exists"`
	NoDedup       bool   `yaml:"no_dedup"`
}

// BoreDef bores from a source signal to one or more sinks with a generated
// identifier.
type BoreDef struct {
	Source string   `yaml:"source"`
	Sinks  []string `yaml:"sinks"`
}

// Parse decodes a netlist from YAML and validates its structure.
func Parse(data []byte) (*Netlist, error) {
	var n Netlist
	if err := yaml.Unmarshal(data, &n); err != nil {
		return nil, fmt.Errorf("parse netlist: %w", err)
	}
	if err := n.validate(); err != nil {
		return nil, err
	}
	return &n, nil
}

// Load reads and parses a netlist file.
func Load(path string) (*Netlist, error) {
	data, err := os.ReadFile(path) //nolint:gosec // G304: path is the user-supplied netlist
	if err != nil {
		return nil, fmt.Errorf("read netlist: %w", err)
	}
	return Parse(data)
}

func (n *Netlist) validate() error {
	if n.Circuit == "" {
		return fmt.Errorf("netlist: missing circuit")
	}
	if len(n.Modules) == 0 {
		return fmt.Errorf("netlist: no module definitions")
	}

	seen := make(map[string]struct{}, len(n.Modules))
	for _, def := range n.Modules {
		if def.Name == "" {
			return fmt.Errorf("netlist: module definition with no name")
		}
		if _, dup := seen[def.Name]; dup {
			return fmt.Errorf("netlist: duplicate module definition %q", def.Name)
		}
		seen[def.Name] = struct{}{}
	}
	if _, ok := seen[n.Circuit]; !ok {
		return fmt.Errorf("netlist: circuit %q has no module definition", n.Circuit)
	}

	for i, w := range n.Wiring {
		count := 0
		if w.Source != nil {
			count++
		}
		if w.Sink != nil {
			count++
		}
		if w.Bore != nil {
			count++
		}
		if count != 1 {
			return fmt.Errorf("netlist: wiring entry %d must set exactly one of source, sink, bore", i)
		}
	}
	return nil
}

func (n *Netlist) moduleDef(name string) (ModuleDef, bool) {
	for _, def := range n.Modules {
		if def.Name == name {
			return def, true
		}
	}
	return ModuleDef{}, false
}
