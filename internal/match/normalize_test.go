package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeIdent(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"MyEnum", "myenum"},
		{"my_enum", "myenum"},
		{"my-enum", "myenum"},
		{"myEnum", "myenum"},
		{"MYENUM", "myenum"},
		{"XMLParser", "xmlparser"},
		{"", ""},
		{"A", "a"},
		{"my_unit-Enum", "myunitenum"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeIdent(tt.input))
		})
	}
}

func TestSnakeCase(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"MyClass", "my_class"},
		{"MyUnitEnum", "my_unit_enum"},
		{"Nested", "nested"},
		{"Nested2", "nested2"},
		{"HTTPRequest", "http_request"},
		{"parseURL", "parse_url"},
		{"already_snake", "already_snake"},
		{"ID", "id"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, SnakeCase(tt.input))
		})
	}
}

func TestTokenizeCamelCase(t *testing.T) {
	tests := []struct {
		input    string
		expected []string
	}{
		{"OrderID", []string{"Order", "ID"}},
		{"customerName", []string{"customer", "Name"}},
		{"XMLParser", []string{"XML", "Parser"}},
		{"getHTTPResponse", []string{"get", "HTTP", "Response"}},
		{"order_id", []string{"order", "id"}},
		{"ALLCAPS", []string{"ALLCAPS"}},
		{"lowercase", []string{"lowercase"}},
		{"", nil},
		{"a", []string{"a"}},
		{"AbC", []string{"Ab", "C"}},
		{"ABcD", []string{"A", "Bc", "D"}},
		{"Enum2Kind", []string{"Enum2", "Kind"}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, tokenizeCamelCase(tt.input))
		})
	}
}

func TestTokenizeIdent(t *testing.T) {
	assert.Equal(t, []string{"my", "unit", "enum"}, TokenizeIdent("MyUnitEnum"))
	assert.Equal(t, []string{"xml", "parser"}, TokenizeIdent("XMLParser"))
}
