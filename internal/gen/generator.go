package gen

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"mirror-generator/internal/convert"
	"mirror-generator/internal/emit"
	"mirror-generator/internal/logging"
	"mirror-generator/internal/version"
)

// InitFilename is the package marker re-exporting every mirror.
const InitFilename = "__init__.py"

// GeneratorConfig holds configuration for code generation.
type GeneratorConfig struct {
	// OutputDir is the directory where generated files are written.
	OutputDir string
	// Tool is the generator name recorded in file headers.
	Tool string
	// Version is the generator version recorded in file headers.
	Version string
	// InitFile enables generation of __init__.py.
	InitFile bool
}

// DefaultGeneratorConfig returns the default generator configuration.
func DefaultGeneratorConfig() GeneratorConfig {
	return GeneratorConfig{
		OutputDir: "./generated",
		Tool:      version.Tool(),
		Version:   version.Semver(),
		InitFile:  true,
	}
}

// Header returns the provenance comment opening every generated file.
func (c GeneratorConfig) Header() string {
	return fmt.Sprintf("# Generated by %s version: %s", c.Tool, c.Version)
}

// Generator renders mirrored declarations and their converters to Python.
type Generator struct {
	config GeneratorConfig
}

// NewGenerator creates a new Generator with the given configuration.
func NewGenerator(config GeneratorConfig) *Generator {
	def := DefaultGeneratorConfig()
	if config.Tool == "" {
		config.Tool = def.Tool
	}

	if config.Version == "" {
		config.Version = def.Version
	}

	return &Generator{config: config}
}

// GeneratedFile represents a generated Python source file.
type GeneratedFile struct {
	// Filename is the name of the file (e.g., "my_class.py").
	Filename string
	// Type is the mirrored type, empty for __init__.py.
	Type string
	// Content is the rendered Python source.
	Content []byte
}

// Generate renders one file per declaration in emission order, followed by
// __init__.py when enabled. plan supplies the converters; declarations
// without one are rendered as plain mirrors.
func (g *Generator) Generate(ctx context.Context, reg *emit.Registry, plan *convert.Plan) ([]GeneratedFile, error) {
	log := logging.GetLogger(ctx)

	var files []GeneratedFile

	for _, d := range reg.Ordered() {
		conv, _ := plan.For(d.Name())

		file, err := g.generateDeclaration(d, conv, plan.Package, reg.Model().ModelsPackage)
		if err != nil {
			return nil, fmt.Errorf("generating %s: %w", d.Name(), err)
		}

		log.WithField("type", d.Name()).Debugf("rendered %s", file.Filename)
		files = append(files, *file)
	}

	if g.config.InitFile {
		file, err := g.generateInit(reg)
		if err != nil {
			return nil, fmt.Errorf("generating %s: %w", InitFilename, err)
		}

		files = append(files, *file)
	}

	return files, nil
}

func (g *Generator) generateDeclaration(d emit.Declaration, conv *convert.Converter, pkg, models string) (*GeneratedFile, error) {
	imports := newImportSet(pkg, models)
	for _, imp := range d.Imports() {
		imports.add(imp)
	}

	if conv != nil {
		imports.add(emit.Import{Module: pkg})
	}

	file := fileData{Header: g.config.Header(), Imports: imports.groups()}

	var (
		name string
		data any
	)

	switch decl := d.(type) {
	case *emit.Record:
		name, data = "record", newRecordData(file, decl, conv)
	case *emit.Enumeration:
		name, data = "enumeration", newEnumerationData(file, decl, conv)
	case *emit.Union:
		name, data = "union", newUnionData(file, decl, conv)
	default:
		return nil, fmt.Errorf("unsupported declaration %T", d)
	}

	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, data); err != nil {
		return nil, fmt.Errorf("executing template: %w", err)
	}

	return &GeneratedFile{
		Filename: emit.FileStem(d.Name()) + ".py",
		Type:     d.Name(),
		Content:  buf.Bytes(),
	}, nil
}

func (g *Generator) generateInit(r *emit.Registry) (*GeneratedFile, error) {
	models := r.Model().ModelsPackage
	imports := newImportSet("", models)

	data := initData{}

	for _, d := range r.Ordered() {
		imports.add(emit.Import{Module: emit.Module(models, d.Name()), Name: d.Name()})
		data.Exports = append(data.Exports, d.Name())
	}

	data.File = fileData{Header: g.config.Header(), Imports: imports.groups()}

	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, "init", data); err != nil {
		return nil, fmt.Errorf("executing template: %w", err)
	}

	return &GeneratedFile{Filename: InitFilename, Content: buf.Bytes()}, nil
}

// docstring renders doc as a Python docstring at the given indentation.
func docstring(doc, indent string) string {
	doc = strings.TrimSpace(doc)
	if doc == "" {
		return ""
	}

	doc = strings.ReplaceAll(doc, `\`, `\\`)
	doc = strings.ReplaceAll(doc, `"""`, `\"\"\"`)

	if strings.HasSuffix(doc, `"`) && !strings.HasSuffix(doc, `\"`) {
		doc = doc[:len(doc)-1] + `\"`
	}

	lines := strings.Split(doc, "\n")
	if len(lines) == 1 {
		return `"""` + doc + `"""`
	}

	var b strings.Builder

	b.WriteString(`"""` + lines[0])

	for _, l := range lines[1:] {
		b.WriteString("\n")

		if l = strings.TrimRight(l, " \t"); l != "" {
			b.WriteString(indent + l)
		}
	}

	b.WriteString("\n" + indent + `"""`)

	return b.String()
}
