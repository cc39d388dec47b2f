package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestModuleAlias(t *testing.T) {
	assert.Equal(t, "", ModuleAlias(""))
	assert.Equal(t, "rustantic_test", ModuleAlias("rustantic_test"))
	assert.Equal(t, "generated", ModuleAlias("rustantic_test.generated"))
}

func TestJoinModule(t *testing.T) {
	assert.Equal(t, "a.b.c", JoinModule("a", "b", "c"))
	assert.Equal(t, "a.c", JoinModule("a", "", "c"))
	assert.Equal(t, "", JoinModule())
}

func TestSliceHelpers(t *testing.T) {
	assert.True(t, IsEmpty([]string{}))
	assert.True(t, IsSingle([]int{1}))
	assert.True(t, IsMultiple([]int{1, 2}))

	v, ok := First([]string{"x", "y"})
	assert.True(t, ok)
	assert.Equal(t, "x", v)

	_, ok = First([]string(nil))
	assert.False(t, ok)
}
