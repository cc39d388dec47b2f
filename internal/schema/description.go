package schema

// Description is the input schema description: what an external collaborator
// (a YAML file or the Rust collector) says the canonical schema looks like.
// Type expressions are still unparsed strings; Build resolves them.
type Description struct {
	// Version of the description format.
	Version string `yaml:"version" json:"version,omitempty"`
	// Package is the canonical runtime module converters call into.
	Package string `yaml:"package,omitempty" json:"package,omitempty"`
	// ModelsPackage is the Python package the mirrored models live in.
	ModelsPackage string `yaml:"models_package,omitempty" json:"models_package,omitempty"`
	// Types lists the named types in declaration order.
	Types []TypeDef `yaml:"types" json:"types"`
}

// DefKind names the variety of a TypeDef.
type DefKind string

const (
	DefStruct DefKind = "struct"
	DefEnum   DefKind = "enum"  // unit enum
	DefUnion  DefKind = "union" // tagged enum
)

// TypeDef describes one named type.
type TypeDef struct {
	Name string  `yaml:"name" json:"name"`
	Kind DefKind `yaml:"kind" json:"kind" jsonschema:"enum=struct,enum=enum,enum=union"`
	Doc  string  `yaml:"doc,omitempty" json:"doc,omitempty"`
	// Converter disables to_rs() synthesis when set to false (mirror only).
	Converter *bool `yaml:"converter,omitempty" json:"converter,omitempty"`

	Fields   []FieldDef   `yaml:"fields,omitempty" json:"fields,omitempty"`
	Labels   []LabelDef   `yaml:"labels,omitempty" json:"labels,omitempty"`
	Variants []VariantDef `yaml:"variants,omitempty" json:"variants,omitempty"`
}

// FieldDef describes a struct field.
type FieldDef struct {
	Name string `yaml:"name" json:"name"`
	Type string `yaml:"type" json:"type"`
	// Constraint overrides the constraint derived from Type.
	Constraint Constraint `yaml:"constraint,omitempty" json:"constraint,omitempty" jsonschema:"enum=non-negative,enum=none"`
	// Mirror pins the mirrored primitive representation.
	Mirror string `yaml:"mirror,omitempty" json:"mirror,omitempty"`
}

// LabelDef describes a unit enum label. In YAML it is written either as a
// bare label ("A") or as a single-key mapping with the canonical value
// ({B: 300}).
type LabelDef struct {
	Name  string `json:"name"`
	Value *int64 `json:"value,omitempty"`
}

// VariantDef describes a tagged enum variant. A bare scalar ("A") declares a
// variant without payload.
type VariantDef struct {
	Name string `yaml:"name" json:"name"`
	Type string `yaml:"type,omitempty" json:"type,omitempty"`
	// Field overrides the payload field name in mirrored form.
	Field  string `yaml:"field,omitempty" json:"field,omitempty"`
	Mirror string `yaml:"mirror,omitempty" json:"mirror,omitempty"`
}

// Constraint is a validation rule attached to a numeric field.
type Constraint string

const (
	// ConstraintDerived means "derive from the type": unsigned integers are
	// non-negative, everything else is unconstrained.
	ConstraintDerived     Constraint = ""
	ConstraintNonNegative Constraint = "non-negative"
	ConstraintNone        Constraint = "none"
)

// Valid reports whether c is a known constraint kind.
func (c Constraint) Valid() bool {
	switch c {
	case ConstraintDerived, ConstraintNonNegative, ConstraintNone:
		return true
	default:
		return false
	}
}
