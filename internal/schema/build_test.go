package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mirror-generator/internal/diagnostic"
)

func buildYAML(t *testing.T, src string) (*Model, *diagnostic.Diagnostics) {
	t.Helper()

	d, err := Parse([]byte(src))
	require.NoError(t, err)

	return Build(d, Options{Package: "pkg", ModelsPackage: "pkg.generated"})
}

func requireCode(t *testing.T, diags *diagnostic.Diagnostics, code string) diagnostic.Diagnostic {
	t.Helper()

	for _, d := range diags.Errors {
		if d.Code == code {
			return d
		}
	}

	require.Failf(t, "missing diagnostic", "no %s error in %v", code, diags.Error())

	return diagnostic.Diagnostic{}
}

func TestBuild_Fixture(t *testing.T) {
	d, err := LoadFile("testdata/rustantic_test.yaml")
	require.NoError(t, err)

	m, diags := Build(d, DefaultOptions())
	require.True(t, diags.IsValid(), diags.Error())
	require.NotNil(t, m)

	assert.Equal(t, "rustantic_test", m.Package)
	assert.Equal(t, "rustantic_test.generated", m.ModelsPackage)
	assert.Equal(t, "kind", m.Discriminator)
	assert.Equal(t, []string{"Nested", "Nested2", "MyEnum", "MyUnitEnum", "MyClass"}, m.Names())

	unit, ok := m.Lookup("MyUnitEnum")
	require.True(t, ok)
	assert.Equal(t, TypeUnitEnum, unit.Kind)
	assert.Equal(t, []Label{
		{Name: "A", Value: 0},
		{Name: "B", Value: 300, Explicit: true},
		{Name: "C", Value: 900, Explicit: true},
		{Name: "D", Value: 901},
	}, unit.Labels)

	class, _ := m.Lookup("MyClass")
	require.Len(t, class.Fields, 4)
	assert.Equal(t, "num2", class.Fields[1].Name)
	assert.Equal(t, ConstraintNonNegative, class.Fields[1].Constraint)
	assert.Equal(t, ConstraintNone, class.Fields[0].Constraint)
	assert.Equal(t, "Constructor surface of MyClass.", class.Doc)
	assert.True(t, class.Converter)

	assert.Equal(t, []string{"Nested", "MyUnitEnum"}, m.Dependencies("MyClass"))
	assert.Equal(t, []string{"Nested"}, m.Dependencies("MyEnum"))
	assert.Nil(t, m.Dependencies("Missing"))

	enum, _ := m.Lookup("MyEnum")
	require.Len(t, enum.Variants, 3)
	assert.Equal(t, "value", enum.Variants[2].Field)
	assert.Equal(t, Primitive(KindI16), enum.Variants[2].Payload)
}

func TestBuild_UnresolvedType(t *testing.T) {
	m, diags := buildYAML(t, `
types:
  - name: Nested
    kind: struct
    fields: [{name: n, type: u8}]
  - name: Outer
    kind: struct
    fields: [{name: inner, type: Option<Nestd>}]
`)
	assert.Nil(t, m)

	diag := requireCode(t, diags, diagnostic.CodeUnresolvedType)
	assert.Equal(t, "Outer", diag.Type)
	assert.Equal(t, "inner", diag.Field)
	assert.Contains(t, diag.Suggestions, "Nested")

	var unresolved *diagnostic.UnresolvedTypeError
	require.ErrorAs(t, diags.First(), &unresolved)
	assert.Equal(t, "Nestd", unresolved.Ref)
}

func TestBuild_DuplicateDiscriminant(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"union label", `
types:
  - name: E
    kind: union
    variants: [{name: A, type: u8}, {name: A, type: i16}]
`},
		{"enum label", `
types:
  - name: E
    kind: enum
    labels: [A, B, A]
`},
		{"enum value", `
types:
  - name: E
    kind: enum
    labels: [A, {B: 0}]
`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, diags := buildYAML(t, tt.src)

			var dup *diagnostic.DuplicateDiscriminantError
			require.ErrorAs(t, diags.First(), &dup)
			assert.Equal(t, "E", dup.Type)
		})
	}
}

func TestBuild_CollectsAllErrors(t *testing.T) {
	_, diags := buildYAML(t, `
types:
  - name: A
    kind: struct
    fields:
      - {name: x, type: u8}
      - {name: x, type: u8}
      - {name: class, type: u8}
      - {name: y, type: "Vec<u8"}
      - {name: z, type: f32, constraint: positive}
  - name: A
    kind: struct
  - name: B
    kind: record
  - name: C
    kind: enum
`)

	codes := map[string]bool{}
	for _, d := range diags.Errors {
		codes[d.Code] = true
	}

	assert.True(t, codes[diagnostic.CodeDuplicateField])
	assert.True(t, codes[diagnostic.CodeReservedName])
	assert.True(t, codes[diagnostic.CodeTypeSyntax])
	assert.True(t, codes[diagnostic.CodeDuplicateType])
	assert.True(t, codes["invalid_constraint"])
	assert.True(t, codes["invalid_kind"])
	assert.True(t, codes["empty_enum"])
}

func TestBuild_ReservedNames(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"discriminator as payload field", `
types:
  - name: E
    kind: union
    variants: [{name: A, type: u8, field: kind}]
`},
		{"discriminator as struct field", `
types:
  - name: S
    kind: struct
    fields: [{name: kind, type: u8}]
`},
		{"converter method", `
types:
  - name: S
    kind: struct
    fields: [{name: to_rs, type: u8}]
`},
		{"private field", `
types:
  - name: S
    kind: struct
    fields: [{name: _hidden, type: u8}]
`},
		{"keyword label", `
types:
  - name: E
    kind: enum
    labels: [None]
`},
		{"primitive type name", `
types:
  - name: String
    kind: struct
`},
		{"imported name", `
types:
  - name: Field
    kind: struct
`},
		{"generated variant class", `
types:
  - name: E
    kind: union
    variants: [{name: A, type: u8}]
  - name: EA
    kind: struct
`},
		{"generated discriminator", `
types:
  - name: E
    kind: union
    variants: [{name: A, type: u8}]
  - name: EDiscriminator
    kind: struct
`},
		{"variant class redefines the discriminator enum", `
types:
  - name: E
    kind: union
    variants: [{name: Discriminator, type: i32}, {name: B, type: i32}]
`},
		{"variant class redefines the union alias", `
types:
  - name: E
    kind: union
    variants: [{name: Type, type: i32}, B]
`},
		{"variant class shadows an imported name", `
types:
  - name: Base
    kind: union
    variants: [{name: Model, type: u8}, Other]
`},
		{"pydantic namespace field", `
types:
  - name: S
    kind: struct
    fields: [{name: model_config, type: u8}]
`},
		{"pydantic namespace payload field", `
types:
  - name: E
    kind: union
    variants: [{name: A, type: u8, field: model_dump}]
`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, diags := buildYAML(t, tt.src)

			var reserved *diagnostic.ReservedNameError
			require.ErrorAs(t, diags.First(), &reserved)
		})
	}
}

func TestBuild_Constraints(t *testing.T) {
	m, diags := buildYAML(t, `
types:
  - name: S
    kind: struct
    fields:
      - {name: a, type: u64}
      - {name: b, type: u64, constraint: none}
      - {name: c, type: i32, constraint: non-negative}
      - {name: d, type: Option<usize>}
      - {name: e, type: Vec<u8>}
`)
	require.True(t, diags.IsValid(), diags.Error())

	s, _ := m.Lookup("S")
	got := make([]Constraint, len(s.Fields))
	for i, f := range s.Fields {
		got[i] = f.Constraint
	}

	assert.Equal(t, []Constraint{
		ConstraintNonNegative, ConstraintNone, ConstraintNonNegative, ConstraintNonNegative, ConstraintNone,
	}, got)

	_, diags = buildYAML(t, `
types:
  - name: S
    kind: struct
    fields: [{name: a, type: String, constraint: non-negative}]
`)
	requireCode(t, diags, "invalid_constraint")
}

func TestBuild_MirrorPins(t *testing.T) {
	m, diags := buildYAML(t, `
types:
  - name: S
    kind: struct
    fields: [{name: a, type: u32, mirror: u32}]
`)
	require.True(t, diags.IsValid(), diags.Error())

	s, _ := m.Lookup("S")
	assert.Equal(t, KindU32, s.Fields[0].Mirror)

	_, diags = buildYAML(t, `
types:
  - name: S
    kind: struct
    fields: [{name: a, type: u32, mirror: integer}]
`)
	requireCode(t, diags, diagnostic.CodeTypeSyntax)
}

func TestBuild_MissingPackage(t *testing.T) {
	d, err := Parse([]byte("types: []\n"))
	require.NoError(t, err)

	m, diags := Build(d, Options{})
	assert.Nil(t, m)
	requireCode(t, diags, "missing_package")
	requireCode(t, diags, "missing_models_package")
	assert.Error(t, diags.First())
}

func TestBuild_ConverterOptOut(t *testing.T) {
	m, diags := buildYAML(t, `
types:
  - name: S
    kind: struct
    converter: false
    fields: [{name: a, type: u8}]
`)
	require.True(t, diags.IsValid(), diags.Error())

	s, _ := m.Lookup("S")
	assert.False(t, s.Converter)
}

func TestBuild_Hashable(t *testing.T) {
	const decls = `
  - name: Point
    kind: struct
    fields: [{name: x, type: i32}]
  - name: Color
    kind: enum
    labels: [Red, Green]
  - name: Shape
    kind: union
    variants: [{name: Dot, type: Point}]
`

	tests := []struct {
		name    string
		field   string
		wantErr bool
	}{
		{"struct in a set", "HashSet<Point>", true},
		{"tagged enum as map key", "BTreeMap<Shape, u8>", true},
		{"struct key behind Option", "HashMap<Option<Point>, u8>", true},
		{"nested set in a list", "Vec<HashSet<Point>>", true},
		{"unit enum in a set", "HashSet<Color>", false},
		{"unit enum as map key", "HashMap<Color, Point>", false},
		{"struct as map value", "HashMap<String, Vec<Point>>", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := "types:" + decls + `  - name: Holder
    kind: struct
    fields: [{name: f, type: "` + tt.field + `"}]
`
			m, diags := buildYAML(t, src)
			if !tt.wantErr {
				require.True(t, diags.IsValid(), diags.Error())
				return
			}

			assert.Nil(t, m)

			d := requireCode(t, diags, "unhashable_type")
			assert.Equal(t, "Holder", d.Type)
			assert.Equal(t, "f", d.Field)
		})
	}
}
