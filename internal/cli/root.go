// Package cli implements the mirror-generator command line.
package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"mirror-generator/internal/config"
	"mirror-generator/internal/logging"
	"mirror-generator/internal/version"
)

type options struct {
	configPath  string
	logLevel    string
	outputDir   string
	showVersion bool

	cfg *config.Configuration
	ctx context.Context
}

// NewRootCmd returns the mirror-generator command tree.
func NewRootCmd() *cobra.Command {
	o := &options{}

	root := &cobra.Command{
		Use:   "mirror-generator",
		Short: "Generate validated Python mirrors of a canonical schema",
		Long: "mirror-generator reads a schema description (YAML) or a Rust crate and generates\n" +
			"one pydantic model per type, each with a to_rs() converter back to the canonical type.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if o.showVersion {
				version.FprintVersion(cmd.OutOrStdout())
				return nil
			}

			return cmd.Usage()
		},
	}

	root.PersistentFlags().StringVarP(&o.configPath, "config", "c", "", "configuration file (default "+config.DefaultFilename+" if present)")
	root.PersistentFlags().StringVar(&o.logLevel, "log-level", "", "override log.level")
	root.Flags().BoolVarP(&o.showVersion, "version", "v", false, "show the version and exit")

	root.AddCommand(
		newGenCmd(o),
		newCheckCmd(o),
		newInspectCmd(o),
		newJSONSchemaCmd(),
		newVersionCmd(),
	)

	return root
}

// setup loads the configuration and the logger every pipeline command needs.
func (o *options) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return err
	}

	if o.logLevel != "" {
		cfg.Log.Level = o.logLevel
	}

	if o.outputDir != "" {
		cfg.OutputDir = o.outputDir
	}

	if err := logging.Configure(cmd.ErrOrStderr(), cfg.Log.Level, cfg.Log.Formatter); err != nil {
		return fmt.Errorf("configuring logging: %w", err)
	}

	o.cfg = cfg
	o.ctx = logging.WithLogger(cmd.Context(), logging.GetLoggerWithField(cmd.Context(), "version", version.Version()))

	return nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			version.FprintVersion(cmd.OutOrStdout())
		},
	}
}
