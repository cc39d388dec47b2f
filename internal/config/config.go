// Package config loads mirror-generator settings from a YAML file, a .env
// file and MIRRORGEN_* environment variables, in increasing precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"mirror-generator/internal/convert"
	"mirror-generator/internal/gen"
	"mirror-generator/internal/rustsrc"
	"mirror-generator/internal/schema"
	"mirror-generator/internal/version"
)

// DefaultFilename is the configuration file looked up in the working
// directory when no path is given.
const DefaultFilename = "mirror-generator.yaml"

// EnvPrefix prefixes environment overrides: output_dir is overridden by
// MIRRORGEN_OUTPUT_DIR, log.level by MIRRORGEN_LOG_LEVEL.
const EnvPrefix = "MIRRORGEN"

// Configuration is the generator configuration.
type Configuration struct {
	// Package is the canonical runtime module; descriptions may override it.
	Package string `yaml:"package,omitempty"`
	// ModelsPackage is the Python package the mirrors are generated into.
	// Defaults to <package>.generated.
	ModelsPackage string `yaml:"models_package,omitempty"`
	OutputDir     string `yaml:"output_dir"`

	ConverterMethod    string `yaml:"converter_method"`
	DiscriminatorField string `yaml:"discriminator_field"`
	PayloadField       string `yaml:"payload_field"`

	// RustAttribute marks mirrored items in Rust sources.
	RustAttribute string `yaml:"rust_attribute"`
	// RustConstructor marks the constructor defining a struct's fields.
	RustConstructor string `yaml:"rust_constructor"`

	InitFile bool `yaml:"init_file"`
	// HeaderTool and HeaderVersion override the provenance header.
	HeaderTool    string `yaml:"header_tool,omitempty"`
	HeaderVersion string `yaml:"header_version,omitempty"`

	Log Log `yaml:"log"`
}

// Log configures the logging behavior.
type Log struct {
	// Level is the granularity at which operations are logged.
	Level string `yaml:"level"`
	// Formatter overrides the default formatter, text or json.
	Formatter string `yaml:"formatter"`
}

// Default returns the configuration used when nothing is set.
func Default() *Configuration {
	return &Configuration{
		OutputDir:          "./generated",
		ConverterMethod:    "to_rs",
		DiscriminatorField: "kind",
		PayloadField:       "value",
		RustAttribute:      "pydantic",
		RustConstructor:    "new",
		InitFile:           true,
		HeaderTool:         version.Tool(),
		HeaderVersion:      version.Semver(),
		Log: Log{
			Level:     "info",
			Formatter: "text",
		},
	}
}

// Parse reads YAML over the defaults and applies the environment overrides
// found in environ ("KEY=value" entries).
func Parse(in []byte, environ []string) (*Configuration, error) {
	c := Default()

	if err := yaml.Unmarshal(in, c); err != nil {
		return nil, fmt.Errorf("parsing configuration: %w", err)
	}

	if err := NewParser(EnvPrefix, environ).Overwrite(c); err != nil {
		return nil, err
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}

	return c, nil
}

// Load reads the configuration file at path. An empty path means
// DefaultFilename, which may be absent. Variables from a .env file in the
// working directory are loaded first and never replace set variables.
func Load(path string) (*Configuration, error) {
	_ = godotenv.Load()

	explicit := path != ""
	if !explicit {
		path = DefaultFilename
	}

	in, err := os.ReadFile(path)
	if err != nil && (explicit || !errors.Is(err, fs.ErrNotExist)) {
		return nil, fmt.Errorf("reading configuration: %w", err)
	}

	return Parse(in, os.Environ())
}

// Validate checks the values every run depends on.
func (c *Configuration) Validate() error {
	switch {
	case c.OutputDir == "":
		return errors.New("output_dir must not be empty")
	case c.ConverterMethod == "":
		return errors.New("converter_method must not be empty")
	case c.DiscriminatorField == "":
		return errors.New("discriminator_field must not be empty")
	case c.PayloadField == "":
		return errors.New("payload_field must not be empty")
	}

	switch c.Log.Formatter {
	case "", "text", "json":
	default:
		return fmt.Errorf("unsupported log formatter %q", c.Log.Formatter)
	}

	return nil
}

// SchemaOptions returns the options schema.Build validates against.
func (c *Configuration) SchemaOptions() schema.Options {
	return schema.Options{
		Package:            c.Package,
		ModelsPackage:      c.ModelsPackage,
		DiscriminatorField: c.DiscriminatorField,
		PayloadField:       c.PayloadField,
		ConverterMethod:    c.ConverterMethod,
	}
}

// CollectorOptions returns the Rust collector options.
func (c *Configuration) CollectorOptions() rustsrc.Options {
	return rustsrc.Options{
		Attribute:   c.RustAttribute,
		Constructor: c.RustConstructor,
	}
}

// ConvertOptions returns the converter synthesis options.
func (c *Configuration) ConvertOptions() convert.Options {
	return convert.Options{Method: c.ConverterMethod}
}

// GeneratorConfig returns the renderer configuration.
func (c *Configuration) GeneratorConfig() gen.GeneratorConfig {
	return gen.GeneratorConfig{
		OutputDir: c.OutputDir,
		Tool:      c.HeaderTool,
		Version:   c.HeaderVersion,
		InitFile:  c.InitFile,
	}
}
