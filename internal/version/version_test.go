package version

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSemver(t *testing.T) {
	orig := version
	t.Cleanup(func() { version = orig })

	for in, want := range map[string]string{
		"v0.3.0+unknown": "0.3.0",
		"v1.2.3":         "1.2.3",
		"2.0.0":          "2.0.0",
	} {
		version = in
		assert.Equal(t, want, Semver(), in)
	}
}

func TestFprintVersion(t *testing.T) {
	var buf bytes.Buffer
	FprintVersion(&buf)

	fields := strings.Fields(buf.String())
	assert.Len(t, fields, 3)
	assert.Equal(t, Package(), fields[1])
	assert.Equal(t, Version(), fields[2])
}
