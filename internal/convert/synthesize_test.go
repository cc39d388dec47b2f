package convert

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mirror-generator/internal/diagnostic"
	"mirror-generator/internal/emit"
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
    variants: [{name: A, type: Nested}, {name: B, type: Nested}, {name: C, type: i16}, Empty]
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
      - {name: history, type: "Vec<Option<Nested2>>"}
`

func mustRegistry(t *testing.T, src string) *emit.Registry {
	t.Helper()

	d, err := schema.Parse([]byte(src))
	require.NoError(t, err)

	// Fixtures that only name the canonical package get the default
	// <package>.generated models package, as the pipeline does.
	opts := schema.DefaultOptions()
	opts.ModelsPackage = d.Package + ".generated"

	m, diags := schema.Build(d, opts)
	require.True(t, diags.IsValid(), diags.Error())

	reg, err := emit.Emit(context.Background(), m)
	require.NoError(t, err)

	return reg
}

func TestSynthesize_Fixture(t *testing.T) {
	plan, err := Synthesize(context.Background(), mustRegistry(t, fixture), Options{})
	require.NoError(t, err)

	assert.Equal(t, "rustantic_test", plan.Package)
	assert.Equal(t, "to_rs", plan.Method)
	require.Len(t, plan.Converters(), 5)

	c, ok := plan.For("MyClass")
	require.True(t, ok)
	assert.Equal(t, "rustantic_test.MyClass", c.Target)
	assert.Equal(t, []string{"Nested", "MyUnitEnum", "Nested2"}, c.Calls)

	var args []string
	for _, a := range c.Args {
		args = append(args, a.Name+"="+a.Expr)
	}

	assert.Equal(t, []string{
		"name=self.name",
		"num2=self.num2",
		"nested=self.nested.to_rs()",
		"myenum=self.myenum.to_rs()",
		"history=[(v0.to_rs() if v0 is not None else None) for v0 in self.history]",
	}, args)
}

func TestSynthesize_UnitEnum(t *testing.T) {
	plan, err := Synthesize(context.Background(), mustRegistry(t, fixture), Options{})
	require.NoError(t, err)

	c, ok := plan.For("MyUnitEnum")
	require.True(t, ok)
	assert.Equal(t, "self", c.Subject)
	require.Len(t, c.Cases, 4)

	for i, label := range []string{"A", "B", "C", "D"} {
		assert.Equal(t, label, c.Cases[i].Label)
		assert.Equal(t, "MyUnitEnum."+label, c.Cases[i].Pattern)
		assert.Equal(t, "rustantic_test.MyUnitEnum."+label, c.Cases[i].Return)
	}
}

func TestSynthesize_TaggedEnum(t *testing.T) {
	plan, err := Synthesize(context.Background(), mustRegistry(t, fixture), Options{})
	require.NoError(t, err)

	c, ok := plan.For("MyEnum")
	require.True(t, ok)
	assert.Equal(t, "self.root.kind", c.Subject)
	assert.Equal(t, []string{"Nested"}, c.Calls)

	var returns []string
	for _, cs := range c.Cases {
		returns = append(returns, cs.Pattern+" => "+cs.Return)
	}

	assert.Equal(t, []string{
		"MyEnumDiscriminator.A => rustantic_test.MyEnum.A(self.root.value.to_rs())",
		"MyEnumDiscriminator.B => rustantic_test.MyEnum.B(self.root.value.to_rs())",
		"MyEnumDiscriminator.C => rustantic_test.MyEnum.C(self.root.value)",
		"MyEnumDiscriminator.Empty => rustantic_test.MyEnum.Empty()",
	}, returns)
}

func TestSynthesize_ResolutionOrder(t *testing.T) {
	plan, err := Synthesize(context.Background(), mustRegistry(t, fixture), Options{})
	require.NoError(t, err)

	pos := map[string]int{}
	for i, c := range plan.Converters() {
		pos[c.Decl.Name()] = i
	}

	for _, c := range plan.Converters() {
		for _, dep := range c.Calls {
			assert.Less(t, pos[dep], pos[c.Decl.Name()], "%s calls %s", c.Decl.Name(), dep)
		}
	}
}

func TestSynthesize_CustomMethod(t *testing.T) {
	plan, err := Synthesize(context.Background(), mustRegistry(t, fixture), Options{Method: "into_rust"})
	require.NoError(t, err)

	c, ok := plan.For("MyClass")
	require.True(t, ok)
	assert.Equal(t, "into_rust", c.Method)
	assert.Equal(t, "self.nested.into_rust()", c.Args[2].Expr)
}

func TestSynthesize_MissingConverter(t *testing.T) {
	src := `
package: pkg
types:
  - name: Inner
    kind: struct
    converter: false
    fields: [{name: a, type: u8}]
  - name: Outer
    kind: struct
    fields: [{name: inner, type: "Option<Inner>"}]
`
	_, err := Synthesize(context.Background(), mustRegistry(t, src), Options{})
	require.Error(t, err)

	var missing *diagnostic.MissingConverterError
	require.True(t, errors.As(err, &missing))
	assert.Equal(t, "Outer", missing.Type)
	assert.Equal(t, "inner", missing.Member)
	assert.Equal(t, "Inner", missing.Dependency)
}

func TestSynthesize_MirrorOnlyWithoutDependents(t *testing.T) {
	src := `
package: pkg
types:
  - name: Inner
    kind: struct
    converter: false
    fields: [{name: a, type: u8}]
  - name: Outer
    kind: struct
    converter: false
    fields: [{name: inner, type: Inner}]
`
	plan, err := Synthesize(context.Background(), mustRegistry(t, src), Options{})
	require.NoError(t, err)
	assert.Empty(t, plan.Converters())

	_, ok := plan.For("Outer")
	assert.False(t, ok)
}

func TestSynthesize_NonExhaustive(t *testing.T) {
	reg := mustRegistry(t, fixture)

	d, ok := reg.Lookup("MyEnum")
	require.True(t, ok)

	u := d.(*emit.Union)
	u.Variants = append(u.Variants[:1:1], emit.UnionVariant{Name: "Z", Class: "MyEnumZ"})

	_, err := Synthesize(context.Background(), reg, Options{})
	require.Error(t, err)

	var nonEx *diagnostic.NonExhaustiveMatchError
	require.True(t, errors.As(err, &nonEx))
	assert.Equal(t, "MyEnum", nonEx.Type)
	assert.Equal(t, []string{"B", "C", "Empty"}, nonEx.Unhandled)
	assert.Equal(t, []string{"Z"}, nonEx.Unknown)
}

func TestSynthesize_NonExhaustiveUnitEnum(t *testing.T) {
	reg := mustRegistry(t, fixture)

	d, ok := reg.Lookup("MyUnitEnum")
	require.True(t, ok)

	e := d.(*emit.Enumeration)
	e.Members = e.Members[:3]

	_, err := Synthesize(context.Background(), reg, Options{})

	var nonEx *diagnostic.NonExhaustiveMatchError
	require.True(t, errors.As(err, &nonEx))
	assert.Equal(t, []string{"D"}, nonEx.Unhandled)
	assert.Empty(t, nonEx.Unknown)
}

func TestSynthesize_TypeMismatch(t *testing.T) {
	tests := []struct {
		name    string
		field   string
		wantErr bool
	}{
		{"same kind", "{name: a, type: u32, mirror: u32}", false},
		{"width differs", "{name: a, type: u32, mirror: u64}", true},
		{"signedness differs", "{name: a, type: u32, mirror: i32}", true},
		{"float vs integer", "{name: a, type: f64, mirror: i64}", true},
		{"string vs integer", "{name: a, type: String, mirror: u8}", true},
		{"behind option", `{name: a, type: "Option<i16>", mirror: i16}`, false},
		{"non primitive", `{name: a, type: "Vec<u8>", mirror: u8}`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := "package: pkg\ntypes:\n  - name: T\n    kind: struct\n    fields: [" + tt.field + "]\n"

			_, err := Synthesize(context.Background(), mustRegistry(t, src), Options{})
			if !tt.wantErr {
				require.NoError(t, err)
				return
			}

			var mismatch *diagnostic.TypeMismatchError
			require.True(t, errors.As(err, &mismatch), "got %v", err)
			assert.Equal(t, "T", mismatch.Type)
			assert.Equal(t, "a", mismatch.Member)
		})
	}
}

func TestSynthesize_VariantTypeMismatch(t *testing.T) {
	src := `
package: pkg
types:
  - name: E
    kind: union
    variants: [{name: A, type: i16, mirror: u16}]
`
	_, err := Synthesize(context.Background(), mustRegistry(t, src), Options{})

	var mismatch *diagnostic.TypeMismatchError
	require.True(t, errors.As(err, &mismatch))
	assert.Equal(t, "A", mismatch.Member)
	assert.Equal(t, "i16 (16-bit signed)", mismatch.Canonical)
	assert.Equal(t, "u16 (16-bit unsigned)", mismatch.Mirrored)
}

func TestResolve_Cycle(t *testing.T) {
	reg := mustRegistry(t, fixture)

	s := &synthesizer{
		reg:    reg,
		method: "to_rs",
		states: map[string]EdgeState{"MyClass": EdgeResolving, "Nested": EdgeResolving},
		plan:   &Plan{converters: map[string]*Converter{}},
	}

	err := s.resolve("MyClass", []string{"MyClass", "Nested"})

	var cyc *diagnostic.CyclicSchemaError
	require.True(t, errors.As(err, &cyc))
	assert.Equal(t, []string{"MyClass", "Nested", "MyClass"}, cyc.Cycle)
}
