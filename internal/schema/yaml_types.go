package schema

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// --- LabelDef YAML methods ---

// UnmarshalYAML accepts:
//   - "A"
//   - {B: 300}
//   - {name: B, value: 300}
func (l *LabelDef) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		*l = LabelDef{Name: node.Value}

		return nil

	case yaml.MappingNode:
		if isExplicitLabel(node) {
			var raw struct {
				Name  string `yaml:"name"`
				Value *int64 `yaml:"value"`
			}

			if err := node.Decode(&raw); err != nil {
				return err
			}

			*l = LabelDef{Name: raw.Name, Value: raw.Value}

			return nil
		}

		if len(node.Content) != 2 {
			return fmt.Errorf("line %d: label mapping must have exactly one key", node.Line)
		}

		var value int64
		if err := node.Content[1].Decode(&value); err != nil {
			return fmt.Errorf("line %d: label %q: %w", node.Line, node.Content[0].Value, err)
		}

		*l = LabelDef{Name: node.Content[0].Value, Value: &value}

		return nil

	default:
		return fmt.Errorf("line %d: expected label or {label: value}", node.Line)
	}
}

// MarshalYAML writes the shortest form.
func (l LabelDef) MarshalYAML() (any, error) {
	if l.Value == nil {
		return l.Name, nil
	}

	return map[string]int64{l.Name: *l.Value}, nil
}

func isExplicitLabel(node *yaml.Node) bool {
	for i := 0; i+1 < len(node.Content); i += 2 {
		if node.Content[i].Value == "name" {
			return true
		}
	}

	return false
}

// --- VariantDef YAML methods ---

// UnmarshalYAML accepts a bare variant name or the full mapping form.
func (v *VariantDef) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		*v = VariantDef{Name: node.Value}

		return nil
	}

	type plain VariantDef

	var raw plain
	if err := node.Decode(&raw); err != nil {
		return err
	}

	*v = VariantDef(raw)

	return nil
}
