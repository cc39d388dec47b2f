package schema

import (
	"fmt"
	"slices"
	"strings"

	"mirror-generator/internal/common"
	"mirror-generator/internal/diagnostic"
	"mirror-generator/internal/match"
)

// Options carries the generator-level settings Build validates names against.
type Options struct {
	// Package and ModelsPackage are used when the description leaves them
	// empty.
	Package       string
	ModelsPackage string
	// DiscriminatorField is the reserved tag field of mirrored tagged enums.
	DiscriminatorField string
	// PayloadField is the default payload field name of tagged enum variants.
	PayloadField string
	// ConverterMethod is the name of the synthesized conversion method.
	ConverterMethod string
}

// DefaultOptions returns the options matching the reference layout.
func DefaultOptions() Options {
	return Options{
		DiscriminatorField: "kind",
		PayloadField:       "value",
		ConverterMethod:    "to_rs",
	}
}

func (o Options) withDefaults() Options {
	def := DefaultOptions()
	if o.DiscriminatorField == "" {
		o.DiscriminatorField = def.DiscriminatorField
	}

	if o.PayloadField == "" {
		o.PayloadField = def.PayloadField
	}

	if o.ConverterMethod == "" {
		o.ConverterMethod = def.ConverterMethod
	}

	return o
}

// pydanticNamespace prefixes the attributes BaseModel reserves for itself,
// model_config and model_dump among them.
const pydanticNamespace = "model_"

// maxSuggestions bounds "did you mean" lists.
const maxSuggestions = 3

// pythonKeywords are hard keywords; they can never be identifiers.
var pythonKeywords = map[string]bool{
	"False": true, "None": true, "True": true, "and": true, "as": true,
	"assert": true, "async": true, "await": true, "break": true, "class": true,
	"continue": true, "def": true, "del": true, "elif": true, "else": true,
	"except": true, "finally": true, "for": true, "from": true, "global": true,
	"if": true, "import": true, "in": true, "is": true, "lambda": true,
	"nonlocal": true, "not": true, "or": true, "pass": true, "raise": true,
	"return": true, "try": true, "while": true, "with": true, "yield": true,
}

// generatedImports are module-level names every mirrored file may import.
var generatedImports = map[string]bool{
	"enum": true, "datetime": true, "pathlib": true, "UUID": true,
	"BaseModel": true, "Field": true, "RootModel": true,
	"Annotated": true, "Any": true, "Literal": true, "Optional": true, "Union": true,
}

// Build resolves and validates a description. It returns a nil Model when
// any error diagnostic was recorded; diagnostics are returned either way.
func Build(desc *Description, opts Options) (*Model, *diagnostic.Diagnostics) {
	opts = opts.withDefaults()
	b := &builder{
		opts:  opts,
		diags: &diagnostic.Diagnostics{},
		model: &Model{
			Package:       firstNonEmpty(desc.Package, opts.Package),
			ModelsPackage: firstNonEmpty(desc.ModelsPackage, opts.ModelsPackage),
			Discriminator: opts.DiscriminatorField,
			index:         map[string]*NamedType{},
		},
	}

	b.checkPackages()
	b.declare(desc.Types)
	b.checkGeneratedNames()

	for i := range desc.Types {
		t, ok := b.model.index[desc.Types[i].Name]
		if !ok || t.Index != i {
			continue
		}

		b.resolve(&desc.Types[i], t)
	}

	if b.diags.HasErrors() {
		return nil, b.diags
	}

	return b.model, b.diags
}

type builder struct {
	opts  Options
	diags *diagnostic.Diagnostics
	model *Model
}

func (b *builder) checkPackages() {
	if b.model.Package == "" {
		b.diags.AddError("missing_package", "canonical package is not set", "", "")
	}

	if b.model.ModelsPackage == "" {
		b.diags.AddError("missing_models_package", "models package is not set", "", "")
	}

	if b.opts.DiscriminatorField == b.opts.PayloadField {
		b.diags.Report(&diagnostic.ReservedNameError{
			Name:   b.opts.PayloadField,
			Reason: "payload field name equals the discriminator field",
		})
	}
}

// declare registers every type name so references can resolve forward.
func (b *builder) declare(defs []TypeDef) {
	for i := range defs {
		def := &defs[i]

		if !b.checkTypeName(def.Name) {
			continue
		}

		if _, dup := b.model.index[def.Name]; dup {
			b.diags.Report(&diagnostic.DuplicateTypeError{Type: def.Name})
			continue
		}

		t := &NamedType{
			Name:      def.Name,
			Doc:       strings.TrimSpace(def.Doc),
			Index:     i,
			Converter: def.Converter == nil || *def.Converter,
		}

		switch def.Kind {
		case DefStruct:
			t.Kind = TypeStruct
		case DefEnum:
			t.Kind = TypeUnitEnum
		case DefUnion:
			t.Kind = TypeTaggedEnum
		default:
			b.diags.AddError("invalid_kind",
				fmt.Sprintf("unknown kind %q (want struct, enum or union)", def.Kind), def.Name, "")

			continue
		}

		b.model.index[def.Name] = t
		b.model.types = append(b.model.types, t)
	}
}

func (b *builder) checkTypeName(name string) bool {
	reason := identProblem(name)
	if reason == "" {
		switch {
		case generatedImports[name]:
			reason = "shadows a name imported by generated modules"
		case isPrimitiveName(name):
			reason = "shadows a primitive type"
		}
	}

	if reason != "" {
		b.diags.Report(&diagnostic.ReservedNameError{Type: name, Name: name, Reason: reason})
		return false
	}

	return true
}

// checkGeneratedNames rejects declared types whose name equals a helper
// declaration generated for a tagged enum.
func (b *builder) checkGeneratedNames() {
	for _, t := range b.model.types {
		if t.Kind != TypeTaggedEnum {
			continue
		}

		for _, gen := range []string{t.Name + "Discriminator", t.Name + "Type"} {
			if _, clash := b.model.index[gen]; clash {
				b.diags.Report(&diagnostic.ReservedNameError{
					Type: gen, Name: gen,
					Reason: "collides with a declaration generated for " + t.Name,
				})
			}
		}
	}
}

func (b *builder) resolve(def *TypeDef, t *NamedType) {
	switch t.Kind {
	case TypeStruct:
		b.resolveStruct(def, t)
	case TypeUnitEnum:
		b.resolveUnitEnum(def, t)
	case TypeTaggedEnum:
		b.resolveTaggedEnum(def, t)
	}
}

func (b *builder) resolveStruct(def *TypeDef, t *NamedType) {
	if len(def.Labels) > 0 || len(def.Variants) > 0 {
		b.diags.AddError("invalid_member", "struct declares labels or variants", t.Name, "")
	}

	seen := map[string]bool{}

	for _, fd := range def.Fields {
		if !b.checkFieldName(t.Name, fd.Name, fd.Name) {
			continue
		}

		if seen[fd.Name] {
			b.diags.Report(&diagnostic.DuplicateFieldError{Type: t.Name, Field: fd.Name})
			continue
		}

		if fd.Name == b.opts.DiscriminatorField {
			b.diags.Report(&diagnostic.ReservedNameError{
				Type: t.Name, Member: fd.Name, Name: fd.Name,
				Reason: "collides with the reserved discriminator field",
			})

			continue
		}

		seen[fd.Name] = true

		ref, ok := b.parseRef(t.Name, fd.Name, fd.Type)
		if !ok {
			continue
		}

		mirror, ok := b.parseMirror(t.Name, fd.Name, fd.Mirror)
		if !ok {
			continue
		}

		constraint, ok := b.resolveConstraint(t.Name, fd.Name, fd.Constraint, ref)
		if !ok {
			continue
		}

		t.Fields = append(t.Fields, Field{
			Name:       fd.Name,
			Type:       ref,
			Constraint: constraint,
			Mirror:     mirror,
		})
	}
}

func (b *builder) resolveUnitEnum(def *TypeDef, t *NamedType) {
	if len(def.Fields) > 0 || len(def.Variants) > 0 {
		b.diags.AddError("invalid_member", "unit enum declares fields or variants", t.Name, "")
	}

	if common.IsEmpty(def.Labels) {
		b.diags.AddError("empty_enum", "unit enum declares no labels", t.Name, "")
		return
	}

	var (
		next   int64
		names  = map[string]bool{}
		values = map[int64]string{}
	)

	for _, ld := range def.Labels {
		if !b.checkMemberName(t.Name, ld.Name) {
			continue
		}

		if names[ld.Name] {
			b.diags.Report(&diagnostic.DuplicateDiscriminantError{Type: t.Name, Label: ld.Name})
			continue
		}

		names[ld.Name] = true

		label := Label{Name: ld.Name, Value: next}
		if ld.Value != nil {
			label.Value = *ld.Value
			label.Explicit = true
		}

		if prev, dup := values[label.Value]; dup {
			b.diags.Report(&diagnostic.DuplicateDiscriminantError{
				Type:  t.Name,
				Label: fmt.Sprintf("%s = %d (already used by %s)", ld.Name, label.Value, prev),
			})

			continue
		}

		values[label.Value] = ld.Name
		next = label.Value + 1
		t.Labels = append(t.Labels, label)
	}
}

func (b *builder) resolveTaggedEnum(def *TypeDef, t *NamedType) {
	if len(def.Fields) > 0 || len(def.Labels) > 0 {
		b.diags.AddError("invalid_member", "tagged enum declares fields or labels", t.Name, "")
	}

	if common.IsEmpty(def.Variants) {
		b.diags.AddError("empty_enum", "tagged enum declares no variants", t.Name, "")
		return
	}

	seen := map[string]bool{}

	for _, vd := range def.Variants {
		if !b.checkMemberName(t.Name, vd.Name) {
			continue
		}

		if seen[vd.Name] {
			b.diags.Report(&diagnostic.DuplicateDiscriminantError{Type: t.Name, Label: vd.Name})
			continue
		}

		seen[vd.Name] = true

		if !b.checkVariantClass(t.Name, vd.Name) {
			continue
		}

		v := Variant{Name: vd.Name, Field: firstNonEmpty(vd.Field, b.opts.PayloadField)}

		if vd.Type == "" {
			if vd.Mirror != "" {
				b.diags.AddError("invalid_member", "mirror pin on a variant without payload", t.Name, vd.Name)
				continue
			}

			t.Variants = append(t.Variants, v)

			continue
		}

		if !b.checkPayloadField(t.Name, vd.Name, v.Field) {
			continue
		}

		ref, ok := b.parseRef(t.Name, vd.Name, vd.Type)
		if !ok {
			continue
		}

		mirror, ok := b.parseMirror(t.Name, vd.Name, vd.Mirror)
		if !ok {
			continue
		}

		v.Payload = ref
		v.Mirror = mirror
		t.Variants = append(t.Variants, v)
	}
}

// checkVariantClass rejects a variant whose generated <Enum><Variant> class
// would clash with another name visible in the enum's module.
func (b *builder) checkVariantClass(typeName, variant string) bool {
	class := typeName + variant

	var reason string

	switch {
	case b.model.index[class] != nil:
		reason = "collides with a declared type"
	case class == typeName+"Discriminator" || class == typeName+"Type":
		reason = "collides with a declaration generated for " + typeName
	case generatedImports[class]:
		reason = "shadows a name imported by generated modules"
	}

	if reason != "" {
		b.diags.Report(&diagnostic.ReservedNameError{
			Type: typeName, Member: variant, Name: class, Reason: reason,
		})

		return false
	}

	return true
}

// checkFieldName validates the name of a model attribute: a struct field or
// a variant payload field.
func (b *builder) checkFieldName(typeName, member, name string) bool {
	if strings.HasPrefix(name, pydanticNamespace) {
		b.diags.Report(&diagnostic.ReservedNameError{
			Type: typeName, Member: member, Name: name,
			Reason: "is in the " + pydanticNamespace + " namespace reserved by pydantic",
		})

		return false
	}

	return b.checkMemberName(typeName, name)
}

// checkMemberName validates a field, label or variant name.
func (b *builder) checkMemberName(typeName, name string) bool {
	reason := identProblem(name)
	if reason == "" {
		switch {
		case strings.HasPrefix(name, "_"):
			reason = "is private in mirrored form"
		case name == b.opts.ConverterMethod:
			reason = "shadows the converter method"
		case generatedImports[name]:
			reason = "shadows a name imported by generated modules"
		}
	}

	if reason != "" {
		b.diags.Report(&diagnostic.ReservedNameError{Type: typeName, Member: name, Name: name, Reason: reason})
		return false
	}

	return true
}

func (b *builder) checkPayloadField(typeName, variant, field string) bool {
	if field == b.opts.DiscriminatorField {
		b.diags.Report(&diagnostic.ReservedNameError{
			Type: typeName, Member: variant, Name: field,
			Reason: "collides with the reserved discriminator field",
		})

		return false
	}

	return b.checkFieldName(typeName, variant, field)
}

// parseRef parses a type expression and resolves its named references.
func (b *builder) parseRef(typeName, member, expr string) (*TypeRef, bool) {
	ref, err := ParseTypeExpr(expr)
	if err != nil {
		b.diags.Report(&diagnostic.TypeSyntaxError{Type: typeName, Member: member, Expr: expr, Reason: err.Error()})
		return nil, false
	}

	ok := true

	for _, name := range ref.NamedRefs() {
		if _, found := b.model.index[name]; found {
			continue
		}

		known := append(b.model.Names(), PrimitiveNames()...)
		slices.Sort(known)

		b.diags.Report(&diagnostic.UnresolvedTypeError{
			Type:        typeName,
			Member:      member,
			Ref:         name,
			Suggestions: match.Suggest(name, known, maxSuggestions),
		})

		ok = false
	}

	if ok {
		ok = b.checkHashable(typeName, member, ref)
	}

	return ref, ok
}

// checkHashable rejects structs and tagged enums used as set elements or
// map keys: their mirrors are mutable models, which Python cannot hash.
// Unit enums are hashable.
func (b *builder) checkHashable(typeName, member string, ref *TypeRef) bool {
	var hashed []*TypeRef

	ref.Walk(func(r *TypeRef) {
		switch r.Kind {
		case RefSet:
			hashed = append(hashed, r.Elem)
		case RefMap:
			hashed = append(hashed, r.Key)
		}
	})

	ok := true

	for _, h := range hashed {
		for _, name := range h.NamedRefs() {
			if t := b.model.index[name]; t != nil && t.Kind != TypeUnitEnum {
				b.diags.AddError("unhashable_type",
					fmt.Sprintf("%s %s cannot be a set element or map key", t.Kind, name), typeName, member)

				ok = false
			}
		}
	}

	return ok
}

func (b *builder) parseMirror(typeName, member, pin string) (Kind, bool) {
	if pin == "" {
		return KindInvalid, true
	}

	k, ok := LookupKind(pin)
	if !ok {
		b.diags.Report(&diagnostic.TypeSyntaxError{
			Type: typeName, Member: member, Expr: pin,
			Reason: "mirror must name a primitive type",
		})

		return KindInvalid, false
	}

	return k, true
}

func (b *builder) resolveConstraint(typeName, field string, c Constraint, ref *TypeRef) (Constraint, bool) {
	if !c.Valid() {
		b.diags.AddError("invalid_constraint",
			fmt.Sprintf("unknown constraint %q (want non-negative or none)", c), typeName, field)

		return c, false
	}

	scalar := ScalarOf(ref)

	switch c {
	case ConstraintDerived:
		if scalar != nil && scalar.Kind == RefPrimitive && scalar.Primitive.IsUnsigned() {
			return ConstraintNonNegative, true
		}

		return ConstraintNone, true

	case ConstraintNonNegative:
		if scalar == nil || scalar.Kind != RefPrimitive || !scalar.Primitive.IsNumeric() {
			b.diags.AddError("invalid_constraint",
				fmt.Sprintf("non-negative applies to numeric fields, not %s", ref), typeName, field)

			return c, false
		}
	}

	return c, true
}

// ScalarOf unwraps Option layers; it returns nil for collections.
func ScalarOf(ref *TypeRef) *TypeRef {
	for ref != nil && ref.Kind == RefOption {
		ref = ref.Elem
	}

	if ref == nil || ref.Kind == RefList || ref.Kind == RefSet || ref.Kind == RefMap {
		return nil
	}

	return ref
}

// identProblem returns why name is not a usable Python identifier, or "".
func identProblem(name string) string {
	if name == "" {
		return "is empty"
	}

	if !isIdentStart(name[0]) {
		return "is not a valid identifier"
	}

	for i := 1; i < len(name); i++ {
		if !isIdentPart(name[i]) {
			return "is not a valid identifier"
		}
	}

	if pythonKeywords[name] {
		return "is a Python keyword"
	}

	return ""
}

func isPrimitiveName(name string) bool {
	if _, ok := LookupKind(name); ok {
		return true
	}

	_, container := containers[name]

	return container || transparent[name]
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}

	return ""
}
