package registry

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// UnmarshalYAML accepts any spelling understood by ParseKind.
func (k *Kind) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}

	kind, err := ParseKind(s)
	if err != nil {
		return fmt.Errorf("line %d: %w", node.Line, err)
	}

	*k = kind

	return nil
}

// MarshalYAML writes the canonical spelling.
func (k Kind) MarshalYAML() (any, error) {
	return k.String(), nil
}

type throughWrapper struct {
	Model string `yaml:"model"`
	Table string `yaml:"table,omitempty"`
}

// UnmarshalYAML accepts either a plain name or a {model, table} wrapper.
func (t *ThroughRef) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		var name string
		if err := node.Decode(&name); err != nil {
			return err
		}

		*t = ThroughRef{Name: name}

		return nil

	case yaml.MappingNode:
		var w throughWrapper
		if err := node.Decode(&w); err != nil {
			return err
		}

		if w.Model == "" {
			return fmt.Errorf("line %d: through wrapper requires a model field", node.Line)
		}

		*t = ThroughRef{Model: w.Model, Table: w.Table}

		return nil

	default:
		return fmt.Errorf("line %d: expected through name or {model: ...}, got %v", node.Line, node.Kind)
	}
}

// MarshalYAML writes the plain form when possible, the wrapper otherwise.
func (t ThroughRef) MarshalYAML() (any, error) {
	if t.Model == "" && t.Table == "" {
		return t.Name, nil
	}

	model := t.Model
	if model == "" {
		model = t.Name
	}

	return throughWrapper{Model: model, Table: t.Table}, nil
}
