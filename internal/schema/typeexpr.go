package schema

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

// RefKind distinguishes the shapes a type reference can take.
type RefKind int

const (
	RefPrimitive RefKind = iota
	RefNamed             // reference to a named type in the same schema
	RefOption            // Option<T>
	RefList              // Vec<T>, VecDeque<T>
	RefSet               // HashSet<T>, BTreeSet<T>
	RefMap               // HashMap<K, V>, BTreeMap<K, V>, IndexMap<K, V>
)

// TypeRef is a parsed type expression.
type TypeRef struct {
	Kind      RefKind
	Primitive Kind     // RefPrimitive
	Name      string   // RefNamed
	Elem      *TypeRef // RefOption, RefList, RefSet element; RefMap value
	Key       *TypeRef // RefMap key
}

// Primitive returns a reference to a primitive kind.
func Primitive(k Kind) *TypeRef {
	return &TypeRef{Kind: RefPrimitive, Primitive: k}
}

// Named returns a reference to a named type.
func Named(name string) *TypeRef {
	return &TypeRef{Kind: RefNamed, Name: name}
}

// OptionOf wraps elem in Option.
func OptionOf(elem *TypeRef) *TypeRef {
	return &TypeRef{Kind: RefOption, Elem: elem}
}

// ListOf wraps elem in Vec.
func ListOf(elem *TypeRef) *TypeRef {
	return &TypeRef{Kind: RefList, Elem: elem}
}

// SetOf wraps elem in a set.
func SetOf(elem *TypeRef) *TypeRef {
	return &TypeRef{Kind: RefSet, Elem: elem}
}

// MapOf builds a map reference.
func MapOf(key, value *TypeRef) *TypeRef {
	return &TypeRef{Kind: RefMap, Key: key, Elem: value}
}

// String renders the reference in canonical spelling.
func (t *TypeRef) String() string {
	if t == nil {
		return "()"
	}

	switch t.Kind {
	case RefPrimitive:
		return t.Primitive.String()
	case RefNamed:
		return t.Name
	case RefOption:
		return "Option<" + t.Elem.String() + ">"
	case RefList:
		return "Vec<" + t.Elem.String() + ">"
	case RefSet:
		return "HashSet<" + t.Elem.String() + ">"
	case RefMap:
		return "HashMap<" + t.Key.String() + ", " + t.Elem.String() + ">"
	default:
		return "?"
	}
}

// Walk calls fn for t and every nested reference, depth first, keys before
// values.
func (t *TypeRef) Walk(fn func(*TypeRef)) {
	if t == nil {
		return
	}

	fn(t)
	t.Key.Walk(fn)
	t.Elem.Walk(fn)
}

// NamedRefs returns the named types referenced by t, in order of appearance.
func (t *TypeRef) NamedRefs() []string {
	var names []string

	t.Walk(func(r *TypeRef) {
		if r.Kind == RefNamed {
			names = append(names, r.Name)
		}
	})

	return names
}

// containers lists the generic wrappers and their arity.
var containers = map[string]struct {
	kind  RefKind
	arity int
}{
	"Option":     {RefOption, 1},
	"Vec":        {RefList, 1},
	"VecDeque":   {RefList, 1},
	"LinkedList": {RefList, 1},
	"HashSet":    {RefSet, 1},
	"BTreeSet":   {RefSet, 1},
	"IndexSet":   {RefSet, 1},
	"HashMap":    {RefMap, 2},
	"BTreeMap":   {RefMap, 2},
	"IndexMap":   {RefMap, 2},
}

// transparent wrappers are mirrored as their content.
var transparent = map[string]bool{
	"Box": true,
	"Rc":  true,
	"Arc": true,
}

// ParseTypeExpr parses a Rust-like type expression such as
// "Option<Vec<Nested>>", "std::collections::HashMap<String, u32>" or
// "&'a str". Path prefixes are dropped; the last segment names the type.
// Unknown names become RefNamed and are resolved later against the schema.
func ParseTypeExpr(expr string) (*TypeRef, error) {
	p := &typeParser{src: expr}
	p.next()

	ref, err := p.parseType()
	if err != nil {
		return nil, err
	}

	if p.tok != "" {
		return nil, fmt.Errorf("unexpected %q after type", p.tok)
	}

	return ref, nil
}

// typeParser is a small recursive-descent parser over one-token lookahead.
type typeParser struct {
	src string
	pos int
	tok string
}

// next advances to the next token. Tokens are identifiers, lifetimes, "::"
// or single punctuation characters. The empty token means end of input.
func (p *typeParser) next() {
	for p.pos < len(p.src) && unicode.IsSpace(rune(p.src[p.pos])) {
		p.pos++
	}

	if p.pos >= len(p.src) {
		p.tok = ""
		return
	}

	start := p.pos
	c := p.src[p.pos]

	switch {
	case c == ':' && strings.HasPrefix(p.src[p.pos:], "::"):
		p.pos += 2
	case c == '\'':
		p.pos++
		p.scanIdent()
	case c == 'r' && strings.HasPrefix(p.src[p.pos:], "r#"):
		p.pos += 2
		p.scanIdent()
		p.tok = p.src[start+2 : p.pos]

		return
	case isIdentStart(c):
		p.scanIdent()
	default:
		p.pos++
	}

	p.tok = p.src[start:p.pos]
}

func (p *typeParser) scanIdent() {
	for p.pos < len(p.src) && isIdentPart(p.src[p.pos]) {
		p.pos++
	}
}

func (p *typeParser) expect(tok string) error {
	if p.tok != tok {
		if p.tok == "" {
			return fmt.Errorf("expected %q, got end of input", tok)
		}

		return fmt.Errorf("expected %q, got %q", tok, p.tok)
	}

	p.next()

	return nil
}

func (p *typeParser) parseType() (*TypeRef, error) {
	switch {
	case p.tok == "":
		return nil, errors.New("empty type")
	case p.tok == "&":
		return p.parseReference()
	case p.tok == "::" || isIdentStart(p.tok[0]):
		return p.parsePath()
	default:
		return nil, fmt.Errorf("unsupported type syntax at %q", p.tok)
	}
}

// parseReference accepts &str and &'a str only; borrowed data other than
// strings has no mirrored form.
func (p *typeParser) parseReference() (*TypeRef, error) {
	p.next()

	if strings.HasPrefix(p.tok, "'") {
		p.next()
	}

	if p.tok == "mut" {
		p.next()
	}

	inner, err := p.parseType()
	if err != nil {
		return nil, err
	}

	if inner.Kind != RefPrimitive || inner.Primitive != KindString {
		return nil, fmt.Errorf("reference to %s is not supported", inner)
	}

	return inner, nil
}

func (p *typeParser) parsePath() (*TypeRef, error) {
	if p.tok == "::" {
		p.next()
	}

	var last string

	for {
		if p.tok == "" || !isIdentStart(p.tok[0]) {
			return nil, fmt.Errorf("expected identifier, got %q", p.tok)
		}

		last = p.tok
		p.next()

		if p.tok != "::" {
			break
		}

		p.next()
	}

	var args []*TypeRef

	if p.tok == "<" {
		p.next()

		for p.tok != ">" {
			arg, err := p.parseType()
			if err != nil {
				return nil, err
			}

			args = append(args, arg)

			if p.tok == "," {
				p.next()
				continue
			}

			if p.tok != ">" {
				return nil, p.expect(">")
			}
		}

		p.next()
	}

	return buildRef(last, args)
}

func buildRef(name string, args []*TypeRef) (*TypeRef, error) {
	if transparent[name] {
		if len(args) != 1 {
			return nil, fmt.Errorf("%s takes 1 type argument, got %d", name, len(args))
		}

		return args[0], nil
	}

	if c, ok := containers[name]; ok {
		if len(args) != c.arity {
			return nil, fmt.Errorf("%s takes %d type argument(s), got %d", name, c.arity, len(args))
		}

		ref := &TypeRef{Kind: c.kind, Elem: args[len(args)-1]}
		if c.kind == RefMap {
			ref.Key = args[0]
		}

		return ref, nil
	}

	if len(args) > 0 {
		return nil, fmt.Errorf("generic arguments on %s are not supported", name)
	}

	if k, ok := LookupKind(name); ok {
		return Primitive(k), nil
	}

	return Named(name), nil
}

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || (c >= '0' && c <= '9')
}
