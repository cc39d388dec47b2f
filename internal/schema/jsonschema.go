package schema

import (
	"reflect"

	"github.com/invopop/jsonschema"
)

// JSONSchema describes the schema description format, for editors and
// external validation of description files.
func JSONSchema() *jsonschema.Schema {
	r := &jsonschema.Reflector{
		DoNotReference: true,
		Mapper:         mapShortForms,
	}

	s := r.Reflect(&Description{})
	s.Title = "Schema description"
	s.Description = "Canonical schema mirrored into validated models with converters."

	return s
}

// mapShortForms adds the scalar spellings LabelDef and VariantDef accept
// next to their mapping forms.
func mapShortForms(t reflect.Type) *jsonschema.Schema {
	switch t {
	case reflect.TypeOf(LabelDef{}):
		return &jsonschema.Schema{OneOf: []*jsonschema.Schema{
			{Type: "string", Description: "Label taking the next discriminant value."},
			{
				Type:                 "object",
				Description:          "Single-key mapping from label to its discriminant value.",
				AdditionalProperties: &jsonschema.Schema{Type: "integer"},
			},
			objectForm(t),
		}}

	case reflect.TypeOf(VariantDef{}):
		return &jsonschema.Schema{OneOf: []*jsonschema.Schema{
			{Type: "string", Description: "Variant without payload."},
			objectForm(t),
		}}
	}

	return nil
}

// objectForm reflects t without the mapper.
func objectForm(t reflect.Type) *jsonschema.Schema {
	r := &jsonschema.Reflector{DoNotReference: true}

	s := r.ReflectFromType(t)
	s.Version = ""

	return s
}
