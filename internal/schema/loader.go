package schema

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadFile loads and parses a YAML schema description from the given path.
func LoadFile(path string) (*Description, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read schema description %s: %w", path, err)
	}

	return Parse(data)
}

// Parse parses YAML data into a Description.
func Parse(data []byte) (*Description, error) {
	var d Description

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	if err := dec.Decode(&d); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("failed to parse schema description: empty document")
		}

		return nil, fmt.Errorf("failed to parse schema description: %w", err)
	}

	applyDefaults(&d)

	return &d, nil
}

// applyDefaults fills in default values for optional fields.
func applyDefaults(d *Description) {
	if d.Version == "" {
		d.Version = "1"
	}
}

// Marshal serializes a Description to YAML.
func Marshal(d *Description) ([]byte, error) {
	return yaml.Marshal(d)
}
