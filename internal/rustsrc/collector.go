package rustsrc

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"

	"mirror-generator/internal/common"
	"mirror-generator/internal/diagnostic"
	"mirror-generator/internal/logging"
	"mirror-generator/internal/schema"
)

// Options controls which items the collector picks up.
type Options struct {
	// Attribute marks mirrored items, e.g. "pydantic" for #[pydantic].
	Attribute string
	// Constructor marks the constructor whose parameters define a struct's
	// fields, e.g. "new" for #[new].
	Constructor string
	// SkipParams lists parameter type heads injected by the runtime rather
	// than passed by callers.
	SkipParams []string
}

// DefaultOptions returns the pyo3 conventions.
func DefaultOptions() Options {
	return Options{
		Attribute:   "pydantic",
		Constructor: "new",
		SkipParams:  []string{"Python", "Bound"},
	}
}

// Crate is what the collector learned about a crate.
type Crate struct {
	// Name is the importable module name: [lib].name, else [package].name
	// with dashes replaced. Empty when there is no Cargo.toml.
	Name string
	// Files are the scanned sources, relative to the crate root.
	Files []string
}

// Collect scans the crate rooted at root and returns a schema description of
// every item marked with the configured attribute. Items that cannot be
// mirrored are reported in the diagnostics; I/O and syntax errors are
// returned as errors.
func Collect(ctx context.Context, root string, opts Options) (*schema.Description, *Crate, *diagnostic.Diagnostics, error) {
	opts = opts.withDefaults()
	log := logging.GetLoggerWithField(ctx, "crate", root)

	crate, err := readCrate(root)
	if err != nil {
		return nil, nil, nil, err
	}

	files, err := sourceFiles(root)
	if err != nil {
		return nil, nil, nil, err
	}

	c := &collector{opts: opts, diags: &diagnostic.Diagnostics{}, impls: map[string][]implMethod{}}

	for _, rel := range files {
		data, err := os.ReadFile(filepath.Join(root, rel))
		if err != nil {
			return nil, nil, nil, fmt.Errorf("failed to read %s: %w", rel, err)
		}

		items, err := ParseFile(string(data))
		if err != nil {
			return nil, nil, nil, fmt.Errorf("failed to parse %s: %w", rel, err)
		}

		c.visit(rel, items)
		log.Debugf("scanned %s: %d items", rel, len(items))
	}

	crate.Files = files

	desc := &schema.Description{Version: "1", Package: crate.Name}
	for _, m := range c.marked {
		if def, ok := c.define(m); ok {
			desc.Types = append(desc.Types, def)
		}
	}

	log.Debugf("collected %d types from %d files", len(desc.Types), len(files))

	return desc, crate, c.diags, nil
}

func (o Options) withDefaults() Options {
	def := DefaultOptions()
	if o.Attribute == "" {
		o.Attribute = def.Attribute
	}

	if o.Constructor == "" {
		o.Constructor = def.Constructor
	}

	if o.SkipParams == nil {
		o.SkipParams = def.SkipParams
	}

	return o
}

type markedItem struct {
	item Item
	pos  string
}

type implMethod struct {
	method Method
	pos    string
}

type collector struct {
	opts   Options
	diags  *diagnostic.Diagnostics
	marked []markedItem
	impls  map[string][]implMethod
}

func (c *collector) visit(file string, items []Item) {
	for _, it := range items {
		pos := fmt.Sprintf("%s:%d", file, it.Line)

		switch it.Kind {
		case ItemStruct, ItemEnum:
			if it.HasAttr(c.opts.Attribute) {
				c.marked = append(c.marked, markedItem{item: it, pos: pos})
			}
		case ItemImpl:
			for _, m := range it.Methods {
				if m.HasAttr(c.opts.Constructor) {
					c.impls[it.Name] = append(c.impls[it.Name], implMethod{
						method: m,
						pos:    fmt.Sprintf("%s:%d", file, m.Line),
					})
				}
			}
		case ItemMod:
			c.visit(file, it.Items)
		}
	}
}

func (c *collector) unsupported(m markedItem, format string, args ...any) {
	c.diags.Report(&diagnostic.UnsupportedItemError{
		Type:   m.item.Name,
		Pos:    m.pos,
		Reason: fmt.Sprintf(format, args...),
	})
}

func (c *collector) define(m markedItem) (schema.TypeDef, bool) {
	it := m.item
	def := schema.TypeDef{Name: it.Name, Doc: strings.Join(it.Doc, "\n")}

	if it.Generic {
		c.unsupported(m, "generic types cannot be mirrored")
		return def, false
	}

	if it.Kind == ItemEnum {
		return c.defineEnum(m, def)
	}

	def.Kind = schema.DefStruct

	ctors := c.impls[it.Name]
	if common.IsMultiple(ctors) {
		c.diags.AddWarning("multiple_constructors",
			fmt.Sprintf("%d #[%s] constructors, using the one at %s", len(ctors), c.opts.Constructor, ctors[0].pos),
			it.Name, "")
	}

	if common.IsEmpty(ctors) {
		if it.Tuple {
			c.unsupported(m, "tuple and unit structs need a #[%s] constructor", c.opts.Constructor)
			return def, false
		}

		c.diags.AddWarning("no_constructor",
			fmt.Sprintf("no #[%s] constructor, mirroring struct fields", c.opts.Constructor), it.Name, "")

		for _, f := range it.Fields {
			def.Fields = append(def.Fields, schema.FieldDef{Name: f.Name, Type: f.Type})
		}

		return def, true
	}

	for _, p := range ctors[0].method.Params {
		if slices.Contains(c.opts.SkipParams, typeHead(p.Type)) {
			continue
		}

		if p.Name == "" {
			c.unsupported(m, "constructor parameter at line %d binds a pattern", p.Line)
			return def, false
		}

		def.Fields = append(def.Fields, schema.FieldDef{Name: p.Name, Type: p.Type})
	}

	return def, true
}

// defineEnum classifies an enum: all unit variants make a unit enum, any
// single-value tuple variant makes a tagged enum.
func (c *collector) defineEnum(m markedItem, def schema.TypeDef) (schema.TypeDef, bool) {
	tagged := false

	for _, v := range m.item.Variants {
		switch {
		case v.Named:
			c.unsupported(m, "variant %s has named fields", v.Name)
			return def, false
		case len(v.Tuple) > 1:
			c.unsupported(m, "variant %s carries %d values, at most one is supported", v.Name, len(v.Tuple))
			return def, false
		case len(v.Tuple) == 1:
			tagged = true
		}
	}

	if !tagged {
		def.Kind = schema.DefEnum

		for _, v := range m.item.Variants {
			label := schema.LabelDef{Name: v.Name}

			if v.Discriminant != "" {
				value, err := parseDiscriminant(v.Discriminant)
				if err != nil {
					c.unsupported(m, "variant %s: %v", v.Name, err)
					return def, false
				}

				label.Value = &value
			}

			def.Labels = append(def.Labels, label)
		}

		return def, true
	}

	def.Kind = schema.DefUnion

	for _, v := range m.item.Variants {
		if v.Discriminant != "" {
			c.unsupported(m, "variant %s: explicit discriminants are not allowed on enums with payloads", v.Name)
			return def, false
		}

		vd := schema.VariantDef{Name: v.Name}
		if len(v.Tuple) == 1 {
			vd.Type = v.Tuple[0]
		}

		def.Variants = append(def.Variants, vd)
	}

	return def, true
}

// parseDiscriminant parses an integer literal with optional sign, base
// prefix, underscores and type suffix.
func parseDiscriminant(expr string) (int64, error) {
	s := strings.ReplaceAll(expr, " ", "")

	if !strings.HasPrefix(s, "0x") && !strings.HasPrefix(s, "-0x") {
		for _, suffix := range []string{"i128", "u128", "isize", "usize", "i64", "u64", "i32", "u32", "i16", "u16", "i8", "u8"} {
			if strings.HasSuffix(s, suffix) {
				s = strings.TrimSuffix(s, suffix)
				break
			}
		}
	}

	v, err := strconv.ParseInt(strings.TrimRight(s, "_"), 0, 64)
	if err != nil {
		return 0, fmt.Errorf("discriminant %q is not an integer literal", expr)
	}

	return v, nil
}

// typeHead returns the last path segment of a type before any generic
// arguments, ignoring references: "&Bound<'_, PyModule>" yields "Bound".
func typeHead(typ string) string {
	t := strings.TrimSpace(typ)
	t = strings.TrimLeft(t, "&")

	if strings.HasPrefix(t, "'") {
		if i := strings.IndexByte(t, ' '); i >= 0 {
			t = t[i+1:]
		}
	}

	t = strings.TrimPrefix(t, "mut ")

	if i := strings.IndexByte(t, '<'); i >= 0 {
		t = t[:i]
	}

	if i := strings.LastIndex(t, "::"); i >= 0 {
		t = t[i+2:]
	}

	return strings.TrimSpace(t)
}

// sourceFiles lists *.rs files under root/src (or root itself when there is
// no src directory), relative to root and sorted.
func sourceFiles(root string) ([]string, error) {
	dir := filepath.Join(root, "src")
	if st, err := os.Stat(dir); err != nil || !st.IsDir() {
		dir = root
	}

	var files []string

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() {
			if path != dir && (d.Name() == "target" || strings.HasPrefix(d.Name(), ".")) {
				return filepath.SkipDir
			}

			return nil
		}

		if filepath.Ext(path) != ".rs" {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}

		files = append(files, filepath.ToSlash(rel))

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", dir, err)
	}

	slices.Sort(files)

	return files, nil
}

type cargoManifest struct {
	Package struct {
		Name string `toml:"name"`
	} `toml:"package"`
	Lib struct {
		Name string `toml:"name"`
	} `toml:"lib"`
}

func readCrate(root string) (*Crate, error) {
	var manifest cargoManifest

	_, err := toml.DecodeFile(filepath.Join(root, "Cargo.toml"), &manifest)
	if errors.Is(err, fs.ErrNotExist) {
		return &Crate{}, nil
	}

	if err != nil {
		return nil, fmt.Errorf("failed to read Cargo.toml: %w", err)
	}

	name := manifest.Lib.Name
	if name == "" {
		name = strings.ReplaceAll(manifest.Package.Name, "-", "_")
	}

	return &Crate{Name: name}, nil
}
