package schema

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONSchema(t *testing.T) {
	data, err := json.Marshal(JSONSchema())
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(data, &doc))

	assert.Equal(t, "Schema description", doc["title"])

	props, ok := doc["properties"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, props, "package")
	assert.Contains(t, props, "models_package")
	assert.Contains(t, props, "types")

	// Labels accept "A", {B: 300} and {name: B, value: 300}.
	assert.Contains(t, string(data), `"Label taking the next discriminant value."`)
	assert.Contains(t, string(data), `"Variant without payload."`)
	assert.Contains(t, string(data), `"enum":["struct","enum","union"]`)
}
