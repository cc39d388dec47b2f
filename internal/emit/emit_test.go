package emit

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mirror-generator/internal/diagnostic"
	"mirror-generator/internal/schema"
)

const fixture = `
package: rustantic_test
models_package: rustantic_test.generated
types:
  - name: Nested
    kind: struct
    fields: [{name: name, type: String}, {name: num, type: u32}]
  - name: Nested2
    kind: struct
    fields: [{name: name, type: String}, {name: num, type: u32}]
  - name: MyEnum
    kind: union
    variants: [{name: A, type: Nested}, {name: B, type: Nested}, {name: C, type: i16}]
  - name: MyUnitEnum
    kind: enum
    labels: [A, {B: 300}, {C: 900}, D]
  - name: MyClass
    kind: struct
    fields:
      - {name: name, type: String}
      - {name: num2, type: u32}
      - {name: nested, type: Nested}
      - {name: myenum, type: MyUnitEnum}
`

func mustModel(t *testing.T, src string) *schema.Model {
	t.Helper()

	d, err := schema.Parse([]byte(src))
	require.NoError(t, err)

	m, diags := schema.Build(d, schema.DefaultOptions())
	require.True(t, diags.IsValid(), diags.Error())

	return m
}

func names(decls []Declaration) []string {
	out := make([]string, len(decls))
	for i, d := range decls {
		out[i] = d.Name()
	}

	return out
}

func TestEmit_Fixture(t *testing.T) {
	reg, err := Emit(context.Background(), mustModel(t, fixture))
	require.NoError(t, err)

	assert.Equal(t, []string{"Nested", "Nested2", "MyEnum", "MyUnitEnum", "MyClass"}, names(reg.Ordered()))

	d, ok := reg.Lookup("MyClass")
	require.True(t, ok)

	rec, ok := d.(*Record)
	require.True(t, ok)
	require.Len(t, rec.Fields, 4)

	assert.Equal(t, "str", rec.Fields[0].Annotation)
	assert.Empty(t, rec.Fields[0].Default)
	assert.Equal(t, "int", rec.Fields[1].Annotation)
	assert.Equal(t, "Field(..., ge=0)", rec.Fields[1].Default)
	assert.Equal(t, schema.KindU32, rec.Fields[1].Mirrored)
	assert.Equal(t, "Nested", rec.Fields[2].Annotation)
	assert.Equal(t, "MyUnitEnum", rec.Fields[3].Annotation)

	assert.ElementsMatch(t, []Import{
		{Module: "pydantic", Name: "BaseModel"},
		{Module: "pydantic", Name: "Field"},
		{Module: "rustantic_test.generated.nested", Name: "Nested"},
		{Module: "rustantic_test.generated.my_unit_enum", Name: "MyUnitEnum"},
	}, rec.Imports())

	d, _ = reg.Lookup("MyUnitEnum")
	en := d.(*Enumeration)
	assert.Equal(t, []EnumMember{{"A", 0}, {"B", 300}, {"C", 900}, {"D", 901}}, en.Members)

	d, _ = reg.Lookup("MyEnum")
	u := d.(*Union)
	assert.Equal(t, "MyEnumDiscriminator", u.Discriminator)
	assert.Equal(t, "MyEnumType", u.Alias)
	assert.Equal(t, "kind", u.TagField)
	require.Len(t, u.Variants, 3)

	// Identical payload types stay distinct variants.
	assert.Equal(t, "MyEnumA", u.Variants[0].Class)
	assert.Equal(t, "MyEnumB", u.Variants[1].Class)
	assert.Equal(t, "Nested", u.Variants[0].Payload.Annotation)
	assert.Equal(t, "Nested", u.Variants[1].Payload.Annotation)
	assert.Equal(t, "value", u.Variants[2].Payload.Name)
	assert.Equal(t, schema.KindI16, u.Variants[2].Payload.Canonical)

	v, ok := u.Variant("C")
	require.True(t, ok)
	assert.Equal(t, "MyEnumC", v.Class)

	_, ok = u.Variant("Z")
	assert.False(t, ok)
}

func TestEmit_Annotations(t *testing.T) {
	reg, err := Emit(context.Background(), mustModel(t, `
package: p
models_package: p.models
types:
  - name: Nested
    kind: struct
  - name: Holder
    kind: struct
    fields:
      - {name: a, type: Option<u32>}
      - {name: b, type: Vec<u8>}
      - {name: c, type: "HashMap<String, Vec<Nested>>"}
      - {name: d, type: Option<Duration>}
      - {name: e, type: Uuid}
      - {name: f, type: i64}
      - {name: g, type: u64, constraint: none}
      - {name: h, type: BTreeSet<u16>}
      - {name: i, type: Option<Vec<u32>>}
      - {name: j, type: PathBuf}
      - {name: k, type: i8, constraint: non-negative}
`))
	require.NoError(t, err)

	d, _ := reg.Lookup("Holder")
	rec := d.(*Record)

	type pair struct{ Annotation, Default string }

	got := make([]pair, len(rec.Fields))
	for i, f := range rec.Fields {
		got[i] = pair{f.Annotation, f.Default}
	}

	assert.Equal(t, []pair{
		{"Optional[Annotated[int, Field(ge=0)]]", "None"},
		{"list[Annotated[int, Field(ge=0)]]", ""},
		{"dict[str, list[Nested]]", ""},
		{"Optional[datetime.timedelta]", "None"},
		{"UUID", ""},
		{"int", ""},
		{"int", ""},
		{"set[Annotated[int, Field(ge=0)]]", ""},
		{"Optional[list[Annotated[int, Field(ge=0)]]]", "None"},
		{"pathlib.Path", ""},
		{"int", "Field(..., ge=0)"},
	}, got)

	imports := rec.Imports()
	assert.Contains(t, imports, Import{Module: "typing", Name: "Optional"})
	assert.Contains(t, imports, Import{Module: "typing", Name: "Annotated"})
	assert.Contains(t, imports, Import{Module: "datetime"})
	assert.Contains(t, imports, Import{Module: "uuid", Name: "UUID"})
	assert.Contains(t, imports, Import{Module: "pathlib"})
	assert.Contains(t, imports, Import{Module: "p.models.nested", Name: "Nested"})
}

func TestEmit_ForwardReference(t *testing.T) {
	reg, err := Emit(context.Background(), mustModel(t, `
package: p
models_package: p.models
types:
  - name: Outer
    kind: struct
    fields: [{name: inner, type: Option<Inner>}, {name: leaf, type: Leaf}]
  - name: Inner
    kind: struct
    fields: [{name: leaf, type: Leaf}]
  - name: Leaf
    kind: enum
    labels: [X]
`))
	require.NoError(t, err)
	assert.Equal(t, []string{"Leaf", "Inner", "Outer"}, names(reg.Ordered()))
}

func TestEmit_Cycles(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want []string
	}{
		{"mutual", `
package: p
models_package: p.models
types:
  - name: Free
    kind: struct
  - name: A
    kind: struct
    fields: [{name: b, type: B}]
  - name: B
    kind: union
    variants: [{name: Back, type: Vec<A>}]
`, []string{"A", "B", "A"}},
		{"self", `
package: p
models_package: p.models
types:
  - name: Node
    kind: struct
    fields: [{name: children, type: Vec<Node>}]
`, []string{"Node", "Node"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Emit(context.Background(), mustModel(t, tt.src))

			var cyc *diagnostic.CyclicSchemaError
			require.ErrorAs(t, err, &cyc)
			assert.Equal(t, tt.want, cyc.Cycle)
		})
	}
}

func TestEmit_PinnedField(t *testing.T) {
	reg, err := Emit(context.Background(), mustModel(t, `
package: p
models_package: p.models
types:
  - name: S
    kind: struct
    fields: [{name: a, type: u32, mirror: i64}]
`))
	require.NoError(t, err)

	d, _ := reg.Lookup("S")
	f := d.(*Record).Fields[0]
	assert.Equal(t, schema.KindU32, f.Canonical)
	assert.Equal(t, schema.KindI64, f.Mirrored)
	assert.True(t, f.Pinned)
}

func TestEmit_ModuleClash(t *testing.T) {
	_, err := Emit(context.Background(), mustModel(t, `
package: p
models_package: p.models
types:
  - name: HttpServer
    kind: struct
  - name: HTTPServer
    kind: struct
`))

	var reserved *diagnostic.ReservedNameError
	require.ErrorAs(t, err, &reserved)
	assert.Equal(t, "HTTPServer", reserved.Type)
}

func TestRegistry(t *testing.T) {
	m := mustModel(t, fixture)
	reg := NewRegistry(m)

	nested, _ := m.Lookup("Nested")
	class, _ := m.Lookup("MyClass")

	err := reg.Register(&Record{Type: class})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "before its declaration was emitted")

	require.NoError(t, reg.Register(&Record{Type: nested}))

	var dup *diagnostic.DuplicateTypeError
	require.ErrorAs(t, reg.Register(&Record{Type: nested}), &dup)

	assert.Equal(t, 1, reg.Len())
	assert.Same(t, m, reg.Model())
}

func TestSortImports(t *testing.T) {
	imports := []Import{
		{Module: "typing", Name: "Union"},
		{Module: "enum"},
		{Module: "pydantic", Name: "Field"},
		{Module: "pydantic", Name: "BaseModel"},
	}
	SortImports(imports)

	assert.Equal(t, []Import{
		{Module: "enum"},
		{Module: "pydantic", Name: "BaseModel"},
		{Module: "pydantic", Name: "Field"},
		{Module: "typing", Name: "Union"},
	}, imports)
}
