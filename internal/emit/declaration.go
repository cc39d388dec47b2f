package emit

import "mirror-generator/internal/schema"

// Declaration is a mirrored declaration: *Record, *Enumeration or *Union.
type Declaration interface {
	// Name is the mirrored class name, equal to the canonical type name.
	Name() string
	// Source is the named type the declaration mirrors.
	Source() *schema.NamedType
	// Converter reports whether a converter is synthesized for it.
	Converter() bool
	// Imports lists what the declaration's annotations need.
	Imports() []Import

	declaration()
}

// FieldDecl is one annotated attribute of a mirrored class.
type FieldDecl struct {
	Name string
	// Annotation is the Python type annotation.
	Annotation string
	// Default is the right-hand side of the attribute, empty for required
	// attributes without validation arguments.
	Default string

	Type       *schema.TypeRef
	Constraint schema.Constraint
	// Canonical is the canonical scalar primitive, KindInvalid when the type
	// is not a primitive behind zero or more Options.
	Canonical schema.Kind
	// Mirrored is the primitive the mirror represents the value as: the
	// pinned kind when set, Canonical otherwise.
	Mirrored schema.Kind
	// Pinned is set when Mirrored comes from an explicit pin.
	Pinned bool
}

// Record mirrors a struct.
type Record struct {
	Type   *schema.NamedType
	Fields []FieldDecl

	imports []Import
}

func (r *Record) Name() string               { return r.Type.Name }
func (r *Record) Source() *schema.NamedType { return r.Type }
func (r *Record) Converter() bool           { return r.Type.Converter }
func (r *Record) Imports() []Import         { return r.imports }
func (r *Record) declaration()              {}

// EnumMember is one label of an Enumeration.
type EnumMember struct {
	Name  string
	Value int64
}

// Enumeration mirrors a unit enum. Members keep declaration order and carry
// the canonical discriminant values.
type Enumeration struct {
	Type    *schema.NamedType
	Members []EnumMember
}

func (e *Enumeration) Name() string               { return e.Type.Name }
func (e *Enumeration) Source() *schema.NamedType { return e.Type }
func (e *Enumeration) Converter() bool           { return e.Type.Converter }
func (e *Enumeration) Imports() []Import         { return []Import{{Module: "enum"}} }
func (e *Enumeration) declaration()              {}

// UnionVariant is the per-variant class of a Union.
type UnionVariant struct {
	// Name is the variant label, also the discriminator member name and its
	// string value.
	Name string
	// Class is the generated class name, <Union><Variant>.
	Class string
	// Payload is nil for variants without data.
	Payload *FieldDecl
}

// Union mirrors a tagged enum as a discriminated union:
//
//	class <Name>Discriminator(enum.Enum)      one member per variant
//	class <Name><Variant>(BaseModel)          frozen Literal tag + payload
//	<Name>Type = Union[...]
//	class <Name>(RootModel[<Name>Type])       keyed by the tag field
type Union struct {
	Type          *schema.NamedType
	Discriminator string
	Alias         string
	TagField      string
	Variants      []UnionVariant

	imports []Import
}

func (u *Union) Name() string               { return u.Type.Name }
func (u *Union) Source() *schema.NamedType { return u.Type }
func (u *Union) Converter() bool           { return u.Type.Converter }
func (u *Union) Imports() []Import         { return u.imports }
func (u *Union) declaration()              {}

// Variant returns the variant called name.
func (u *Union) Variant(name string) (*UnionVariant, bool) {
	for i := range u.Variants {
		if u.Variants[i].Name == name {
			return &u.Variants[i], true
		}
	}

	return nil, false
}
