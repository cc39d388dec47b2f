package emit

import (
	"context"
	"fmt"

	"mirror-generator/internal/logging"
	"mirror-generator/internal/schema"
)

// Emit builds the mirrored declaration of every named type in m, in
// topological order.
func Emit(ctx context.Context, m *schema.Model) (*Registry, error) {
	ordered, err := Order(m)
	if err != nil {
		return nil, err
	}

	reg := NewRegistry(m)
	e := &emitter{models: m.ModelsPackage, tagField: m.Discriminator}

	for _, t := range ordered {
		var d Declaration

		switch t.Kind {
		case schema.TypeStruct:
			d = e.record(t)
		case schema.TypeUnitEnum:
			d = e.enumeration(t)
		case schema.TypeTaggedEnum:
			d = e.union(t)
		default:
			return nil, fmt.Errorf("%s: unknown type kind %v", t.Name, t.Kind)
		}

		if err := reg.Register(d); err != nil {
			return nil, err
		}
	}

	logging.GetLogger(ctx).Debugf("emitted %d declarations", reg.Len())

	return reg, nil
}

type emitter struct {
	models   string
	tagField string
}

func (e *emitter) record(t *schema.NamedType) *Record {
	r := &Record{Type: t}
	a := &annotator{models: e.models}
	a.use(modPydantic, "BaseModel")

	for _, f := range t.Fields {
		r.Fields = append(r.Fields, e.field(a, f.Name, f.Type, f.Constraint, f.Mirror))
	}

	r.imports = a.imports

	return r
}

func (e *emitter) enumeration(t *schema.NamedType) *Enumeration {
	en := &Enumeration{Type: t}
	for _, l := range t.Labels {
		en.Members = append(en.Members, EnumMember{Name: l.Name, Value: l.Value})
	}

	return en
}

func (e *emitter) union(t *schema.NamedType) *Union {
	u := &Union{
		Type:          t,
		Discriminator: t.Name + "Discriminator",
		Alias:         t.Name + "Type",
		TagField:      e.tagField,
	}

	a := &annotator{models: e.models}
	a.use("enum", "")
	a.use(modPydantic, "BaseModel")
	a.use(modPydantic, "Field")
	a.use(modPydantic, "RootModel")
	a.use(modTyping, "Literal")
	a.use(modTyping, "Union")

	for _, v := range t.Variants {
		uv := UnionVariant{Name: v.Name, Class: t.Name + v.Name}

		if v.HasPayload() {
			fd := e.field(a, v.Field, v.Payload, derivedConstraint(v.Payload), v.Mirror)
			uv.Payload = &fd
		}

		u.Variants = append(u.Variants, uv)
	}

	u.imports = a.imports

	return u
}

// field builds a FieldDecl. A constrained plain scalar carries its
// validation in the default, Field(..., ge=0); constraints behind Option go
// into an Annotated element so None stays valid.
func (e *emitter) field(a *annotator, name string, ref *schema.TypeRef, c schema.Constraint, pin schema.Kind) FieldDecl {
	fd := FieldDecl{Name: name, Type: ref, Constraint: c}
	constrained := c == schema.ConstraintNonNegative

	switch {
	case ref.Kind == schema.RefPrimitive && constrained:
		fd.Annotation = a.annotate(ref, false)
		fd.Default = "Field(..., " + nonNegative + ")"
		a.use(modPydantic, "Field")
	case ref.Kind == schema.RefOption:
		fd.Annotation = a.annotate(ref, constrained)
		fd.Default = "None"
	default:
		fd.Annotation = a.annotate(ref, constrained)
	}

	if s := schema.ScalarOf(ref); s != nil && s.Kind == schema.RefPrimitive {
		fd.Canonical = s.Primitive
	}

	fd.Mirrored = fd.Canonical
	if pin != schema.KindInvalid {
		fd.Mirrored = pin
		fd.Pinned = true
	}

	return fd
}

func derivedConstraint(ref *schema.TypeRef) schema.Constraint {
	if elemConstrained(ref) {
		return schema.ConstraintNonNegative
	}

	return schema.ConstraintNone
}
