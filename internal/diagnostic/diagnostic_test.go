package diagnostic

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiagnostics_ReportTypedError(t *testing.T) {
	var d Diagnostics

	d.Report(&UnresolvedTypeError{Type: "MyClass", Member: "nested", Ref: "Nestd", Suggestions: []string{"Nested"}})

	require.Len(t, d.Errors, 1)
	diag := d.Errors[0]
	assert.Equal(t, CodeUnresolvedType, diag.Code)
	assert.Equal(t, "MyClass", diag.Type)
	assert.Equal(t, "nested", diag.Field)
	assert.Equal(t, []string{"Nested"}, diag.Suggestions)
	assert.Contains(t, diag.Message, `did you mean "Nested"?`)
	assert.Equal(t, `[MyClass] nested: [unresolved_type] MyClass.nested references unknown type "Nestd" (did you mean "Nested"?)`, diag.String())
}

func TestDiagnostics_FirstKeepsTypedCause(t *testing.T) {
	var d Diagnostics
	assert.NoError(t, d.First())

	d.Report(&DuplicateDiscriminantError{Type: "MyEnum", Label: "A"})
	d.Report(&DuplicateTypeError{Type: "Nested"})

	err := d.First()
	require.Error(t, err)

	var dde *DuplicateDiscriminantError
	require.True(t, errors.As(err, &dde))
	assert.Equal(t, "A", dde.Label)
}

func TestDiagnostics_ReportWrapped(t *testing.T) {
	var d Diagnostics
	d.Report(fmt.Errorf("building: %w", &CyclicSchemaError{Cycle: []string{"A", "B", "A"}}))

	require.Len(t, d.Errors, 1)
	assert.Equal(t, CodeCyclicSchema, d.Errors[0].Code)
	assert.Equal(t, "A", d.Errors[0].Type)
}

func TestDiagnostics_ErrorJoinsAll(t *testing.T) {
	var d Diagnostics
	assert.NoError(t, d.Error())

	d.AddError("custom", "first", "", "")
	d.AddError("custom", "second", "T", "f")
	d.AddWarning("w", "just a warning", "", "")

	assert.True(t, d.HasErrors())
	assert.EqualError(t, d.Error(), "[custom] first; [T] f: [custom] second")
	assert.EqualError(t, d.First(), "[custom] first")
}

func TestDiagnostics_Merge(t *testing.T) {
	var a, b Diagnostics
	a.AddInfo("i", "info", "", "")
	b.AddWarning("w", "warn", "", "")
	b.AddError("e", "err", "", "")

	a.Merge(b)

	assert.Len(t, a.Infos, 1)
	assert.Len(t, a.Warnings, 1)
	assert.Len(t, a.Errors, 1)
	assert.False(t, a.IsValid())
}

func TestSeverityString(t *testing.T) {
	assert.Equal(t, "info", DiagnosticInfo.String())
	assert.Equal(t, "warning", DiagnosticWarning.String())
	assert.Equal(t, "error", DiagnosticError.String())
	assert.Equal(t, "unknown", DiagnosticSeverity(42).String())
}

func TestErrorMessages(t *testing.T) {
	tests := []struct {
		err  Coded
		code string
		msg  string
	}{
		{
			err:  &NonExhaustiveMatchError{Type: "MyEnum", Unhandled: []string{"C"}},
			code: CodeNonExhaustiveMatch,
			msg:  "MyEnum converter is not exhaustive: no constructor for C",
		},
		{
			err:  &TypeMismatchError{Type: "Nested", Member: "num", Canonical: "u32", Mirrored: "i64"},
			code: CodeTypeMismatch,
			msg:  "Nested.num: mirrored i64 does not match canonical u32",
		},
		{
			err:  &MissingConverterError{Type: "MyClass", Member: "myenum", Dependency: "MyUnitEnum"},
			code: CodeMissingConverter,
			msg:  "MyClass.myenum needs MyUnitEnum to be converted, but MyUnitEnum is emitted without a converter",
		},
		{
			err:  &CyclicSchemaError{Cycle: []string{"A", "B", "A"}},
			code: CodeCyclicSchema,
			msg:  "reference cycle: A -> B -> A",
		},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.code, tt.err.Code())
			assert.Equal(t, tt.msg, tt.err.Error())
		})
	}
}
