package convert

import (
	"context"
	"fmt"
	"slices"

	"mirror-generator/internal/common"
	"mirror-generator/internal/diagnostic"
	"mirror-generator/internal/emit"
	"mirror-generator/internal/logging"
	"mirror-generator/internal/schema"
)

// EdgeState is the resolution state of a conversion edge.
type EdgeState int

const (
	EdgeUnresolved EdgeState = iota
	EdgeResolving
	EdgeResolved
)

// String returns a human-readable state name.
func (s EdgeState) String() string {
	switch s {
	case EdgeUnresolved:
		return "unresolved"
	case EdgeResolving:
		return "resolving"
	case EdgeResolved:
		return "resolved"
	default:
		return common.UnknownStr
	}
}

// Options configures synthesis.
type Options struct {
	// Method is the converter method name, "to_rs" by default.
	Method string
}

// Arg is one keyword argument of a canonical struct constructor call.
type Arg struct {
	Name       string
	Conversion *Conversion
	// Expr converts the mirrored attribute, e.g. "self.nested.to_rs()".
	Expr string
}

// Case is one arm of a converter's match statement.
type Case struct {
	// Label is the unit enum label or tagged enum variant it handles.
	Label string
	// Pattern is the matched value, e.g. "MyEnumDiscriminator.A".
	Pattern string
	// Return is the returned canonical value.
	Return string
}

// Converter is the synthesized to_rs() of one declaration.
type Converter struct {
	Decl emit.Declaration
	// Method is the converter method name.
	Method string
	// Target is the canonical constructor or enum, e.g. "pkg.MyClass".
	Target string
	// Subject is the value matched on by enum converters: "self" for unit
	// enums, "self.root.<tag>" for tagged enums.
	Subject string

	Args  []Arg  // Record
	Cases []Case // Enumeration and Union

	// Calls lists the declarations whose converters this one invokes.
	Calls []string
}

// Plan holds the converters of one generation run.
type Plan struct {
	// Package is the canonical runtime module converters call into.
	Package string
	Method  string

	converters map[string]*Converter
	order      []*Converter
}

// For returns the converter of the named declaration, if it has one.
func (p *Plan) For(name string) (*Converter, bool) {
	c, ok := p.converters[name]
	return c, ok
}

// Converters returns the converters in resolution order: every converter
// comes after the converters it calls.
func (p *Plan) Converters() []*Converter {
	return p.order
}

// Synthesize builds the converter of every declaration in reg that asks
// for one.
func Synthesize(ctx context.Context, reg *emit.Registry, opts Options) (*Plan, error) {
	if opts.Method == "" {
		opts.Method = "to_rs"
	}

	s := &synthesizer{
		reg:    reg,
		method: opts.Method,
		pkg:    reg.Model().Package,
		states: map[string]EdgeState{},
		plan: &Plan{
			Package:    reg.Model().Package,
			Method:     opts.Method,
			converters: map[string]*Converter{},
		},
	}

	for _, d := range reg.Ordered() {
		if !d.Converter() {
			continue
		}

		if err := s.resolve(d.Name(), nil); err != nil {
			return nil, err
		}
	}

	logging.GetLogger(ctx).Debugf("synthesized %d converters", len(s.plan.order))

	return s.plan, nil
}

type synthesizer struct {
	reg    *emit.Registry
	method string
	pkg    string
	states map[string]EdgeState
	plan   *Plan
}

// resolve walks the conversion edge of name: unresolved -> resolving ->
// resolved. Entering a resolving edge again means the converters call each
// other in a cycle.
func (s *synthesizer) resolve(name string, path []string) error {
	switch s.states[name] {
	case EdgeResolved:
		return nil
	case EdgeResolving:
		start := slices.Index(path, name)
		cycle := append(slices.Clone(path[start:]), name)

		return &diagnostic.CyclicSchemaError{Cycle: cycle}
	}

	d, ok := s.reg.Lookup(name)
	if !ok {
		return fmt.Errorf("no declaration registered for %s", name)
	}

	s.states[name] = EdgeResolving
	path = append(path, name)

	conv, err := s.build(d)
	if err != nil {
		return err
	}

	for _, dep := range conv.Calls {
		if err := s.resolve(dep, path); err != nil {
			return err
		}
	}

	s.states[name] = EdgeResolved
	s.plan.converters[name] = conv
	s.plan.order = append(s.plan.order, conv)

	return nil
}

func (s *synthesizer) build(d emit.Declaration) (*Converter, error) {
	conv := &Converter{
		Decl:   d,
		Method: s.method,
		Target: common.JoinModule(s.pkg, d.Name()),
	}

	switch decl := d.(type) {
	case *emit.Record:
		return conv, s.record(conv, decl)
	case *emit.Enumeration:
		return conv, s.enumeration(conv, decl)
	case *emit.Union:
		return conv, s.union(conv, decl)
	default:
		return nil, fmt.Errorf("%s: unsupported declaration %T", d.Name(), d)
	}
}

func (s *synthesizer) record(conv *Converter, r *emit.Record) error {
	if err := sameNames(r.Name(), fieldNames(r.Type.Fields), declFieldNames(r.Fields)); err != nil {
		return err
	}

	for i := range r.Fields {
		f := &r.Fields[i]

		if err := checkRepresentation(r.Name(), f.Name, f); err != nil {
			return err
		}

		c := Derive(f.Type)
		if err := s.requireConverters(conv, f.Name, c); err != nil {
			return err
		}

		conv.Args = append(conv.Args, Arg{
			Name:       f.Name,
			Conversion: c,
			Expr:       c.Expr("self."+f.Name, s.method),
		})
	}

	return nil
}

func (s *synthesizer) enumeration(conv *Converter, e *emit.Enumeration) error {
	declared := make([]string, len(e.Type.Labels))
	for i, l := range e.Type.Labels {
		declared[i] = l.Name
	}

	handled := make([]string, len(e.Members))
	for i, m := range e.Members {
		handled[i] = m.Name
	}

	if err := exhaustive(e.Name(), declared, handled); err != nil {
		return err
	}

	conv.Subject = "self"

	for _, m := range e.Members {
		conv.Cases = append(conv.Cases, Case{
			Label:   m.Name,
			Pattern: e.Name() + "." + m.Name,
			Return:  conv.Target + "." + m.Name,
		})
	}

	return nil
}

func (s *synthesizer) union(conv *Converter, u *emit.Union) error {
	declared := make([]string, len(u.Type.Variants))
	for i, v := range u.Type.Variants {
		declared[i] = v.Name
	}

	handled := make([]string, len(u.Variants))
	for i, v := range u.Variants {
		handled[i] = v.Name
	}

	if err := exhaustive(u.Name(), declared, handled); err != nil {
		return err
	}

	conv.Subject = "self.root." + u.TagField

	for _, v := range u.Variants {
		arg := ""

		if v.Payload != nil {
			if err := checkRepresentation(u.Name(), v.Name, v.Payload); err != nil {
				return err
			}

			c := Derive(v.Payload.Type)
			if err := s.requireConverters(conv, v.Name, c); err != nil {
				return err
			}

			arg = c.Expr("self.root."+v.Payload.Name, s.method)
		}

		conv.Cases = append(conv.Cases, Case{
			Label:   v.Name,
			Pattern: u.Discriminator + "." + v.Name,
			Return:  fmt.Sprintf("%s.%s(%s)", conv.Target, v.Name, arg),
		})
	}

	return nil
}

// requireConverters records the converters c calls and fails when one of
// them belongs to a mirror-only declaration.
func (s *synthesizer) requireConverters(conv *Converter, member string, c *Conversion) error {
	for _, dep := range c.Nested() {
		d, ok := s.reg.Lookup(dep)
		if !ok {
			return fmt.Errorf("%s.%s: no declaration registered for %s", conv.Decl.Name(), member, dep)
		}

		if !d.Converter() {
			return &diagnostic.MissingConverterError{Type: conv.Decl.Name(), Member: member, Dependency: dep}
		}

		if !slices.Contains(conv.Calls, dep) {
			conv.Calls = append(conv.Calls, dep)
		}
	}

	return nil
}

// checkRepresentation compares a pinned mirrored primitive with the
// canonical one: numeric kinds must agree in width, signedness and
// float-ness, other kinds must be identical.
func checkRepresentation(typeName, member string, f *emit.FieldDecl) error {
	if !f.Pinned {
		return nil
	}

	mismatch := &diagnostic.TypeMismatchError{
		Type:      typeName,
		Member:    member,
		Canonical: describe(f.Canonical, f.Type),
		Mirrored:  describe(f.Mirrored, nil),
	}

	if f.Canonical == schema.KindInvalid {
		return mismatch
	}

	cn, cnum := f.Canonical.Numeric()
	mn, mnum := f.Mirrored.Numeric()

	switch {
	case cnum != mnum:
		return mismatch
	case cnum && cn != mn:
		return mismatch
	case !cnum && f.Canonical != f.Mirrored:
		return mismatch
	}

	return nil
}

func describe(k schema.Kind, ref *schema.TypeRef) string {
	if k == schema.KindInvalid {
		return ref.String()
	}

	n, ok := k.Numeric()
	if !ok {
		return k.String()
	}

	switch {
	case n.Float:
		return fmt.Sprintf("%s (%d-bit float)", k, n.Bits)
	case n.Signed:
		return fmt.Sprintf("%s (%d-bit signed)", k, n.Bits)
	default:
		return fmt.Sprintf("%s (%d-bit unsigned)", k, n.Bits)
	}
}

// exhaustive checks that the handled labels are exactly the declared ones.
func exhaustive(typeName string, declared, handled []string) error {
	var unhandled, unknown []string

	for _, d := range declared {
		if !slices.Contains(handled, d) {
			unhandled = append(unhandled, d)
		}
	}

	for _, h := range handled {
		if !slices.Contains(declared, h) {
			unknown = append(unknown, h)
		}
	}

	if len(unhandled) > 0 || len(unknown) > 0 {
		return &diagnostic.NonExhaustiveMatchError{Type: typeName, Unhandled: unhandled, Unknown: unknown}
	}

	return nil
}

func sameNames(typeName string, want, got []string) error {
	if !slices.Equal(want, got) {
		return fmt.Errorf("%s: mirrored fields %v do not match canonical fields %v", typeName, got, want)
	}

	return nil
}

func fieldNames(fields []schema.Field) []string {
	out := make([]string, len(fields))
	for i, f := range fields {
		out[i] = f.Name
	}

	return out
}

func declFieldNames(fields []emit.FieldDecl) []string {
	out := make([]string, len(fields))
	for i, f := range fields {
		out[i] = f.Name
	}

	return out
}
