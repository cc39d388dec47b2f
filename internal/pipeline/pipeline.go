// Package pipeline runs schema inputs through load, build, emit, synthesize
// and render. Independent inputs run concurrently.
package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"

	"mirror-generator/internal/common"
	"mirror-generator/internal/config"
	"mirror-generator/internal/convert"
	"mirror-generator/internal/diagnostic"
	"mirror-generator/internal/emit"
	"mirror-generator/internal/gen"
	"mirror-generator/internal/logging"
	"mirror-generator/internal/rustsrc"
	"mirror-generator/internal/schema"
)

// Source is the kind of a schema input.
type Source int

const (
	// SourceDescription is a YAML schema description file.
	SourceDescription Source = iota
	// SourceCrate is a Rust crate scanned for marked items.
	SourceCrate
)

// String returns a human-readable source name.
func (s Source) String() string {
	switch s {
	case SourceDescription:
		return "description"
	case SourceCrate:
		return "crate"
	default:
		return common.UnknownStr
	}
}

// DetectSource classifies path: *.yaml and *.yml files are descriptions,
// directories holding src/ or Cargo.toml are crates.
func DetectSource(path string) (Source, error) {
	st, err := os.Stat(path)
	if err != nil {
		return 0, fmt.Errorf("inspecting input: %w", err)
	}

	if !st.IsDir() {
		switch strings.ToLower(filepath.Ext(path)) {
		case ".yaml", ".yml":
			return SourceDescription, nil
		}

		return 0, fmt.Errorf("%s: not a .yaml or .yml schema description", path)
	}

	for _, marker := range []string{"Cargo.toml", "src"} {
		if _, err := os.Stat(filepath.Join(path, marker)); err == nil {
			return SourceCrate, nil
		}
	}

	return 0, fmt.Errorf("%s: directory has neither Cargo.toml nor src/", path)
}

// Result is everything one input produced.
type Result struct {
	Input  string
	Source Source
	// OutputDir is where the input's files belong.
	OutputDir string

	Description *schema.Description
	Crate       *rustsrc.Crate // SourceCrate only
	Model       *schema.Model
	Registry    *emit.Registry
	Plan        *convert.Plan
	Files       []gen.GeneratedFile
	// Diagnostics gathers collector and build diagnostics, warnings included.
	Diagnostics *diagnostic.Diagnostics
}

// DiagnosticsError fails a run whose diagnostics hold errors. It unwraps to
// the first error's typed cause.
type DiagnosticsError struct {
	Input       string
	Diagnostics *diagnostic.Diagnostics
}

func (e *DiagnosticsError) Error() string {
	if common.IsSingle(e.Diagnostics.Errors) {
		return fmt.Sprintf("%s: %v", e.Input, e.Diagnostics.First())
	}

	return fmt.Sprintf("%s: %v (and %d more errors)", e.Input, e.Diagnostics.First(), len(e.Diagnostics.Errors)-1)
}

func (e *DiagnosticsError) Unwrap() error {
	return e.Diagnostics.First()
}

// Run processes every input concurrently and returns the results in input
// order. The first failure cancels the remaining inputs.
func Run(ctx context.Context, cfg *config.Configuration, inputs []string) ([]Result, error) {
	results := make([]Result, len(inputs))
	g, ctx := errgroup.WithContext(ctx)

	for i, input := range inputs {
		g.Go(func() error {
			r, err := RunOne(ctx, cfg, input, common.IsMultiple(inputs))
			if r != nil {
				results[i] = *r
			}

			return err
		})
	}

	if err := g.Wait(); err != nil {
		return results, err
	}

	if err := checkOutputDirs(results); err != nil {
		return results, err
	}

	return results, nil
}

// RunOne processes a single input. With nested set the output goes to a
// subdirectory of the configured output_dir named after the models package,
// so several inputs can share one output_dir.
func RunOne(ctx context.Context, cfg *config.Configuration, input string, nested bool) (*Result, error) {
	ctx = logging.WithLogger(ctx, logging.GetLoggerWithField(ctx, "schema", input))
	log := logging.GetLogger(ctx)

	source, err := DetectSource(input)
	if err != nil {
		return nil, err
	}

	r := &Result{Input: input, Source: source, Diagnostics: &diagnostic.Diagnostics{}}

	if err := r.load(ctx, cfg); err != nil {
		return r, err
	}

	if err := ctx.Err(); err != nil {
		return r, err
	}

	opts := cfg.SchemaOptions()
	if opts.ModelsPackage == "" && r.Description.ModelsPackage == "" {
		if pkg := firstNonEmpty(r.Description.Package, opts.Package); pkg != "" {
			opts.ModelsPackage = pkg + ".generated"
		}
	}

	model, diags := schema.Build(r.Description, opts)
	r.Diagnostics.Merge(*diags)

	for _, w := range r.Diagnostics.Warnings {
		log.WithField("type", w.Type).Warn(w.Message)
	}

	if r.Diagnostics.HasErrors() {
		return r, &DiagnosticsError{Input: input, Diagnostics: r.Diagnostics}
	}

	r.Model = model
	log.Debugf("built %d types", len(model.Types()))

	if r.Registry, err = emit.Emit(ctx, model); err != nil {
		return r, fmt.Errorf("%s: %w", input, err)
	}

	if r.Plan, err = convert.Synthesize(ctx, r.Registry, cfg.ConvertOptions()); err != nil {
		return r, fmt.Errorf("%s: %w", input, err)
	}

	gc := cfg.GeneratorConfig()
	r.OutputDir = gc.OutputDir

	if nested {
		r.OutputDir = filepath.Join(gc.OutputDir, filepath.FromSlash(strings.ReplaceAll(model.ModelsPackage, ".", "/")))
	}

	gc.OutputDir = r.OutputDir

	if r.Files, err = gen.NewGenerator(gc).Generate(ctx, r.Registry, r.Plan); err != nil {
		return r, fmt.Errorf("%s: %w", input, err)
	}

	log.Debugf("rendered %d files for %s", len(r.Files), model.ModelsPackage)

	return r, nil
}

func (r *Result) load(ctx context.Context, cfg *config.Configuration) error {
	switch r.Source {
	case SourceDescription:
		desc, err := schema.LoadFile(r.Input)
		if err != nil {
			return err
		}

		r.Description = desc

	case SourceCrate:
		desc, crate, diags, err := rustsrc.Collect(ctx, r.Input, cfg.CollectorOptions())
		if err != nil {
			return err
		}

		r.Description, r.Crate = desc, crate
		r.Diagnostics.Merge(*diags)

		if diags.HasErrors() {
			return &DiagnosticsError{Input: r.Input, Diagnostics: r.Diagnostics}
		}
	}

	return nil
}

func checkOutputDirs(results []Result) error {
	seen := map[string]string{}

	for _, r := range results {
		dir := filepath.Clean(r.OutputDir)
		if other, dup := seen[dir]; dup {
			return fmt.Errorf("%s and %s both generate into %s", other, r.Input, dir)
		}

		seen[dir] = r.Input
	}

	return nil
}

// Write writes the files of every result to its output directory.
func Write(results []Result) error {
	for _, r := range results {
		if err := gen.WriteFiles(r.Files, r.OutputDir); err != nil {
			return fmt.Errorf("%s: %w", r.Input, err)
		}
	}

	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}

	return ""
}
