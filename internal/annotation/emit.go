package annotation

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// record is the serialized form of one annotation. Kind discriminates;
// name is present only for source and sink records.
type record struct {
	Kind   string `yaml:"kind"`
	Target string `yaml:"target"`
	Name   string `yaml:"name,omitempty"`
}

func toRecord(a Annotation) record {
	rec := record{
		Kind:   string(a.Kind()),
		Target: a.Target().String(),
	}
	switch v := a.(type) {
	case Source:
		rec.Name = v.Name
	case Sink:
		rec.Name = v.Name
	}
	return rec
}

// Marshal serializes annotations to YAML in emission order.
func Marshal(anns []Annotation) ([]byte, error) {
	recs := make([]record, 0, len(anns))
	for _, a := range anns {
		recs = append(recs, toRecord(a))
	}
	data, err := yaml.Marshal(recs)
	if err != nil {
		return nil, fmt.Errorf("marshal annotations: %w", err)
	}
	return data, nil
}

// Write serializes annotations to w as YAML.
func Write(w io.Writer, anns []Annotation) error {
	data, err := Marshal(anns)
	if err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write annotations: %w", err)
	}
	return nil
}
