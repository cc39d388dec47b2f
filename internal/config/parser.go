package config

import (
	"fmt"
	"reflect"
	"strings"

	"gopkg.in/yaml.v3"
)

// Parser overwrites configuration fields from environment variables.
//
// v.Abc is replaced by the value of PREFIX_ABC, v.Abc.Xyz by PREFIX_ABC_XYZ,
// where ABC is the upper-cased yaml key of the field. Values are decoded as
// YAML, so MIRRORGEN_INIT_FILE=false sets a bool.
type Parser struct {
	prefix string
	env    map[string]string
}

// NewParser returns a *Parser reading overrides with the given prefix from
// environ.
func NewParser(prefix string, environ []string) *Parser {
	p := Parser{prefix: prefix, env: make(map[string]string)}

	for _, env := range environ {
		k, v, ok := strings.Cut(env, "=")
		if ok {
			p.env[k] = v
		}
	}

	return &p
}

// Overwrite applies the overrides to the struct v points to.
func (p *Parser) Overwrite(v any) error {
	return p.overwriteFields(reflect.ValueOf(v), p.prefix)
}

func (p *Parser) overwriteFields(v reflect.Value, prefix string) error {
	for v.Kind() == reflect.Ptr {
		v = reflect.Indirect(v)
	}

	if v.Kind() != reflect.Struct {
		return nil
	}

	for i := 0; i < v.NumField(); i++ {
		sf := v.Type().Field(i)
		if !sf.IsExported() {
			continue
		}

		fieldPrefix := strings.ToUpper(prefix + "_" + yamlKey(sf))

		if e, ok := p.env[fieldPrefix]; ok {
			fieldVal := reflect.New(sf.Type)
			if err := yaml.Unmarshal([]byte(e), fieldVal.Interface()); err != nil {
				return fmt.Errorf("parsing %s: %w", fieldPrefix, err)
			}

			v.Field(i).Set(reflect.Indirect(fieldVal))
		}

		if err := p.overwriteFields(v.Field(i), fieldPrefix); err != nil {
			return err
		}
	}

	return nil
}

// yamlKey returns the key a field is read from, falling back to its name.
func yamlKey(sf reflect.StructField) string {
	name, _, _ := strings.Cut(sf.Tag.Get("yaml"), ",")
	if name == "" || name == "-" {
		return sf.Name
	}

	return name
}
