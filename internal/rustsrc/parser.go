package rustsrc

import (
	"fmt"
	"strings"
)

// ItemKind classifies the items the parser keeps.
type ItemKind int

const (
	ItemStruct ItemKind = iota
	ItemEnum
	ItemImpl
	ItemMod
)

// Attr is an outer attribute such as #[pydantic] or #[pyo3(get, set)].
type Attr struct {
	Path string // full path, e.g. "rustantic_macros::pydantic"
	Name string // last path segment
	Args string // tokens after the path, joined
}

// Param is a named struct field or a typed function parameter. Name is
// empty when the parameter binds a pattern rather than an identifier.
type Param struct {
	Name string
	Type string
	Line int
}

// Variant is one enum variant.
type Variant struct {
	Name  string
	Line  int
	Tuple []string // tuple payload types
	// Named is set for struct-like variants, which have no mirrored form.
	Named bool
	// Discriminant is the explicit "= expr" text, empty when absent.
	Discriminant string
}

// Method is a function inside an impl block.
type Method struct {
	Name   string
	Line   int
	Attrs  []Attr
	Params []Param // receivers excluded
}

// Item is a parsed top-level or module-level item.
type Item struct {
	Kind  ItemKind
	Name  string
	Line  int
	Attrs []Attr
	Doc   []string

	Generic  bool      // struct or enum with type parameters
	Fields   []Param   // ItemStruct with named fields
	Tuple    bool      // ItemStruct declared as tuple or unit struct
	Variants []Variant // ItemEnum
	Trait    string    // ItemImpl: implemented trait, empty for inherent impls
	Methods  []Method  // ItemImpl
	Items    []Item    // ItemMod with an inline body
}

// HasAttr reports whether the item carries an attribute whose last path
// segment is name.
func (it *Item) HasAttr(name string) bool {
	return hasAttr(it.Attrs, name)
}

// HasAttr reports whether the method carries the named attribute.
func (m *Method) HasAttr(name string) bool {
	return hasAttr(m.Attrs, name)
}

func hasAttr(attrs []Attr, name string) bool {
	for _, a := range attrs {
		if a.Name == name {
			return true
		}
	}

	return false
}

// ParseFile parses the items of one Rust source file. Items other than
// structs, enums, impls and modules are skipped without being interpreted.
func ParseFile(src string) ([]Item, error) {
	toks, err := Lex(src)
	if err != nil {
		return nil, err
	}

	p := &parser{toks: toks}

	return p.items(false)
}

type parser struct {
	toks []Token
	pos  int
}

func (p *parser) peek() Token {
	return p.toks[p.pos]
}

func (p *parser) peekAt(off int) Token {
	if p.pos+off >= len(p.toks) {
		return p.toks[len(p.toks)-1]
	}

	return p.toks[p.pos+off]
}

func (p *parser) bump() Token {
	tok := p.toks[p.pos]
	if tok.Kind != TokEOF {
		p.pos++
	}

	return tok
}

func (p *parser) is(text string) bool {
	tok := p.peek()
	return (tok.Kind == TokPunct || tok.Kind == TokIdent) && tok.Text == text
}

func (p *parser) accept(text string) bool {
	if p.is(text) {
		p.bump()
		return true
	}

	return false
}

func (p *parser) expect(text string) error {
	if !p.accept(text) {
		tok := p.peek()
		return fmt.Errorf("line %d: expected %q, got %s", tok.Line, text, tok)
	}

	return nil
}

func (p *parser) expectIdent() (Token, error) {
	tok := p.peek()
	if tok.Kind != TokIdent {
		return tok, fmt.Errorf("line %d: expected identifier, got %s", tok.Line, tok)
	}

	return p.bump(), nil
}

// items parses items until end of input, or until the closing brace when
// inBlock is set.
func (p *parser) items(inBlock bool) ([]Item, error) {
	var items []Item

	for {
		docs, attrs, err := p.outerAttrs()
		if err != nil {
			return nil, err
		}

		tok := p.peek()

		switch {
		case tok.Kind == TokEOF:
			if inBlock {
				return nil, fmt.Errorf("line %d: unexpected end of file in module body", tok.Line)
			}

			return items, nil

		case inBlock && p.is("}"):
			p.bump()
			return items, nil

		case p.is(";"):
			p.bump()
			continue
		}

		p.skipVisibility()

		line := p.peek().Line

		var item *Item

		switch {
		case p.accept("struct"):
			item, err = p.structItem()
		case p.accept("enum"):
			item, err = p.enumItem()
		case p.is("impl") || (p.is("unsafe") && p.peekAt(1).Text == "impl"):
			p.accept("unsafe")
			p.bump()
			item, err = p.implItem()
		case p.accept("mod"):
			item, err = p.modItem()
		default:
			err = p.skipItem()
		}

		if err != nil {
			return nil, err
		}

		if item != nil {
			item.Line = line
			item.Attrs = attrs
			item.Doc = docs
			items = append(items, *item)
		}
	}
}

// outerAttrs collects doc comments and #[...] attributes. Inner attributes
// (#![...]) are consumed and dropped.
func (p *parser) outerAttrs() ([]string, []Attr, error) {
	var (
		docs  []string
		attrs []Attr
	)

	for {
		tok := p.peek()

		switch {
		case tok.Kind == TokDoc:
			docs = append(docs, p.bump().Text)

		case p.is("#"):
			p.bump()

			inner := p.accept("!")

			attr, err := p.attrBody()
			if err != nil {
				return nil, nil, err
			}

			if !inner {
				attrs = append(attrs, attr)
			}

		default:
			return docs, attrs, nil
		}
	}
}

func (p *parser) attrBody() (Attr, error) {
	if err := p.expect("["); err != nil {
		return Attr{}, err
	}

	var path []string

	for {
		tok := p.peek()
		if tok.Kind == TokIdent {
			path = append(path, p.bump().Text)
			continue
		}

		if p.is("::") {
			p.bump()
			continue
		}

		break
	}

	args, err := p.collectUntil("]")
	if err != nil {
		return Attr{}, err
	}

	p.bump()

	attr := Attr{Path: strings.Join(path, "::"), Args: joinTokens(args)}
	if len(path) > 0 {
		attr.Name = path[len(path)-1]
	}

	return attr, nil
}

func (p *parser) skipVisibility() {
	if !p.accept("pub") {
		return
	}

	if p.is("(") {
		_ = p.skipGroup()
	}
}

func (p *parser) structItem() (*Item, error) {
	name, err := p.expectIdent()
	if err != nil {
		return nil, err
	}

	item := &Item{Kind: ItemStruct, Name: name.Text}

	if p.is("<") {
		item.Generic = true

		if err := p.skipGroup(); err != nil {
			return nil, err
		}
	}

	switch {
	case p.is("("):
		item.Tuple = true

		if err := p.skipGroup(); err != nil {
			return nil, err
		}

		return item, p.skipItem()

	case p.accept(";"):
		item.Tuple = true
		return item, nil
	}

	if err := p.skipWhere(); err != nil {
		return nil, err
	}

	if err := p.expect("{"); err != nil {
		return nil, err
	}

	for {
		if _, _, err := p.outerAttrs(); err != nil {
			return nil, err
		}

		if p.accept("}") {
			break
		}

		p.skipVisibility()

		field, err := p.expectIdent()
		if err != nil {
			return nil, err
		}

		if err := p.expect(":"); err != nil {
			return nil, err
		}

		typ, err := p.collectUntil(",", "}")
		if err != nil {
			return nil, err
		}

		p.accept(",")

		item.Fields = append(item.Fields, Param{Name: field.Text, Type: joinTokens(typ), Line: field.Line})
	}

	return item, nil
}

func (p *parser) enumItem() (*Item, error) {
	name, err := p.expectIdent()
	if err != nil {
		return nil, err
	}

	item := &Item{Kind: ItemEnum, Name: name.Text}

	if p.is("<") {
		item.Generic = true

		if err := p.skipGroup(); err != nil {
			return nil, err
		}
	}

	if err := p.skipWhere(); err != nil {
		return nil, err
	}

	if err := p.expect("{"); err != nil {
		return nil, err
	}

	for {
		if _, _, err := p.outerAttrs(); err != nil {
			return nil, err
		}

		if p.accept("}") {
			break
		}

		vname, err := p.expectIdent()
		if err != nil {
			return nil, err
		}

		v := Variant{Name: vname.Text, Line: vname.Line}

		switch {
		case p.accept("("):
			for !p.accept(")") {
				typ, err := p.collectUntil(",", ")")
				if err != nil {
					return nil, err
				}

				p.accept(",")

				v.Tuple = append(v.Tuple, joinTokens(typ))
			}

		case p.is("{"):
			v.Named = true

			if err := p.skipGroup(); err != nil {
				return nil, err
			}
		}

		if p.accept("=") {
			expr, err := p.collectUntil(",", "}")
			if err != nil {
				return nil, err
			}

			v.Discriminant = joinTokens(expr)
		}

		p.accept(",")

		item.Variants = append(item.Variants, v)
	}

	return item, nil
}

// implItem parses "impl<..> [Trait for] Type [where ..] { .. }" after the
// impl keyword. Only methods are kept.
func (p *parser) implItem() (*Item, error) {
	if p.is("<") {
		if err := p.skipGroup(); err != nil {
			return nil, err
		}
	}

	first, err := p.collectUntil("for", "{", "where")
	if err != nil {
		return nil, err
	}

	item := &Item{Kind: ItemImpl}

	self := first
	if p.accept("for") {
		item.Trait = pathName(first)

		if self, err = p.collectUntil("{", "where"); err != nil {
			return nil, err
		}
	}

	item.Name = pathName(self)

	if err := p.skipWhere(); err != nil {
		return nil, err
	}

	if err := p.expect("{"); err != nil {
		return nil, err
	}

	for {
		_, attrs, err := p.outerAttrs()
		if err != nil {
			return nil, err
		}

		if p.accept("}") {
			return item, nil
		}

		if p.peek().Kind == TokEOF {
			return nil, fmt.Errorf("line %d: unexpected end of file in impl %s", p.peek().Line, item.Name)
		}

		p.skipVisibility()

		for p.is("const") || p.is("async") || p.is("unsafe") || p.is("default") || p.is("extern") {
			p.bump()

			if p.peek().Kind == TokLiteral {
				p.bump()
			}
		}

		if !p.is("fn") {
			if err := p.skipItem(); err != nil {
				return nil, err
			}

			continue
		}

		p.bump()

		m, err := p.method()
		if err != nil {
			return nil, err
		}

		m.Attrs = attrs
		item.Methods = append(item.Methods, *m)
	}
}

func (p *parser) method() (*Method, error) {
	name, err := p.expectIdent()
	if err != nil {
		return nil, err
	}

	m := &Method{Name: name.Text, Line: name.Line}

	if p.is("<") {
		if err := p.skipGroup(); err != nil {
			return nil, err
		}
	}

	if err := p.expect("("); err != nil {
		return nil, err
	}

	for !p.accept(")") {
		param, err := p.collectUntil(",", ")")
		if err != nil {
			return nil, err
		}

		p.accept(",")

		if prm, ok := parseParam(param); ok {
			m.Params = append(m.Params, prm)
		}
	}

	return m, p.skipItem()
}

func (p *parser) modItem() (*Item, error) {
	name, err := p.expectIdent()
	if err != nil {
		return nil, err
	}

	if p.accept(";") {
		return nil, nil
	}

	if err := p.expect("{"); err != nil {
		return nil, err
	}

	items, err := p.items(true)
	if err != nil {
		return nil, err
	}

	return &Item{Kind: ItemMod, Name: name.Text, Items: items}, nil
}

// parseParam splits "mut name: Type" into a Param. Receivers report false.
func parseParam(toks []Token) (Param, bool) {
	i := 0
	for i < len(toks) && (toks[i].Text == "&" || toks[i].Text == "mut" || toks[i].Kind == TokLifetime) {
		i++
	}

	if i >= len(toks) || toks[i].Text == "self" {
		return Param{}, false
	}

	line := toks[i].Line

	if i+1 < len(toks) && toks[i].Kind == TokIdent && toks[i+1].Text == ":" {
		return Param{Name: toks[i].Text, Type: joinTokens(toks[i+2:]), Line: line}, true
	}

	for j, tok := range toks {
		if tok.Text == ":" {
			return Param{Type: joinTokens(toks[j+1:]), Line: line}, true
		}
	}

	return Param{Line: line}, true
}

// collectUntil gathers tokens up to, but not including, the first stop token
// found outside any (), [], {} or <> nesting.
func (p *parser) collectUntil(stops ...string) ([]Token, error) {
	var (
		out   []Token
		depth int
	)

	start := p.peek().Line

	for {
		tok := p.peek()
		if tok.Kind == TokEOF {
			return nil, fmt.Errorf("line %d: unexpected end of file", start)
		}

		if depth == 0 && (tok.Kind == TokPunct || tok.Kind == TokIdent) && contains(stops, tok.Text) {
			return out, nil
		}

		if tok.Kind == TokPunct {
			switch tok.Text {
			case "(", "[", "{", "<":
				depth++
			case ")", "]", "}", ">":
				depth--
			}
		}

		out = append(out, p.bump())
	}
}

// skipGroup skips a balanced group starting at the current opening token.
func (p *parser) skipGroup() error {
	open := p.bump()

	closing := map[string]string{"(": ")", "[": "]", "{": "}", "<": ">"}[open.Text]
	if closing == "" {
		return fmt.Errorf("line %d: expected group, got %s", open.Line, open)
	}

	if _, err := p.collectUntil(closing); err != nil {
		return err
	}

	p.bump()

	return nil
}

func (p *parser) skipWhere() error {
	if !p.accept("where") {
		return nil
	}

	_, err := p.collectUntil("{", ";", "(")

	return err
}

// skipItem skips to the end of the current item: a ';' at nesting depth 0
// or the closing brace of its body.
func (p *parser) skipItem() error {
	depth := 0
	start := p.peek().Line

	for {
		tok := p.bump()

		switch {
		case tok.Kind == TokEOF:
			return fmt.Errorf("line %d: unexpected end of file", start)
		case tok.Kind != TokPunct:
			continue
		}

		switch tok.Text {
		case "(", "[", "{":
			depth++
		case ")", "]":
			depth--
		case "}":
			depth--
			if depth == 0 {
				return nil
			}
		case ";":
			if depth == 0 {
				return nil
			}
		}
	}
}

// pathName returns the last path segment of a type path, ignoring generic
// arguments: "crate::a::Foo<T>" yields "Foo".
func pathName(toks []Token) string {
	var (
		name  string
		depth int
	)

	for _, tok := range toks {
		switch {
		case tok.Text == "<":
			depth++
		case tok.Text == ">":
			depth--
		case depth == 0 && tok.Kind == TokIdent:
			name = tok.Text
		}
	}

	return name
}

// joinTokens renders tokens as source text, separating adjacent words.
func joinTokens(toks []Token) string {
	var sb strings.Builder

	for i, tok := range toks {
		if i > 0 && isWord(toks[i-1]) && isWord(tok) {
			sb.WriteByte(' ')
		}

		sb.WriteString(tok.Text)

		if tok.Text == "," {
			sb.WriteByte(' ')
		}
	}

	return strings.TrimSpace(sb.String())
}

func isWord(tok Token) bool {
	switch tok.Kind {
	case TokIdent, TokLifetime, TokInt, TokLiteral:
		return true
	default:
		return false
	}
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}

	return false
}
