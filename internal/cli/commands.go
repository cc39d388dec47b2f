package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"github.com/davecgh/go-spew/spew"
	"github.com/spf13/cobra"

	"mirror-generator/internal/diagnostic"
	"mirror-generator/internal/gen"
	"mirror-generator/internal/logging"
	"mirror-generator/internal/pipeline"
	"mirror-generator/internal/schema"
)

// ErrCheckFailed is returned by check when files on disk are out of date.
var ErrCheckFailed = errors.New("generated files are out of date")

func newGenCmd(o *options) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "gen <input>...",
		Short: "Generate mirrors for schema descriptions or Rust crates",
		Long: "gen renders every input (a .yaml description or a crate directory) and writes\n" +
			"the Python files to output_dir. Nothing is written if any input fails.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := o.setup(cmd); err != nil {
				return err
			}

			results, err := pipeline.Run(o.ctx, o.cfg, args)
			if err != nil {
				return err
			}

			if dryRun {
				for _, r := range results {
					for _, f := range r.Files {
						fmt.Fprintln(cmd.OutOrStdout(), filepath.Join(r.OutputDir, f.Filename))
					}
				}

				return nil
			}

			if err := pipeline.Write(results); err != nil {
				return err
			}

			for _, r := range results {
				logging.GetLogger(o.ctx).
					WithField("schema", r.Input).
					Infof("wrote %d files to %s", len(r.Files), r.OutputDir)
			}

			return nil
		},
	}

	cmd.Flags().StringVarP(&o.outputDir, "output", "o", "", "override output_dir")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "list the files that would be written")

	return cmd
}

func newCheckCmd(o *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check <input>...",
		Short: "Validate inputs and compare generated files with output_dir",
		Long: "check reports every schema error of every input, then lists generated files that\n" +
			"are missing, stale, written by another generator version, or orphaned.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := o.setup(cmd); err != nil {
				return err
			}

			out := cmd.OutOrStdout()

			results, err := pipeline.Run(o.ctx, o.cfg, args)
			if err != nil {
				var diagErr *pipeline.DiagnosticsError
				if errors.As(err, &diagErr) {
					printDiagnostics(out, diagErr.Input, diagErr.Diagnostics)
				}

				return err
			}

			clean := true

			for _, r := range results {
				printDiagnostics(out, r.Input, r.Diagnostics)

				report, err := gen.Check(r.Files, r.OutputDir)
				if err != nil {
					return err
				}

				if !report.Clean() {
					clean = false
				}

				printReport(out, r.OutputDir, report)
			}

			if !clean {
				return ErrCheckFailed
			}

			fmt.Fprintln(out, "ok")

			return nil
		},
	}

	cmd.Flags().StringVarP(&o.outputDir, "output", "o", "", "override output_dir")

	return cmd
}

func printDiagnostics(w io.Writer, input string, d *diagnostic.Diagnostics) {
	for _, group := range [][]diagnostic.Diagnostic{d.Errors, d.Warnings, d.Infos} {
		for _, diag := range group {
			fmt.Fprintf(w, "%s: %s: %s\n", input, diag.Severity, diag)

			if len(diag.Suggestions) > 0 {
				fmt.Fprintf(w, "\tdid you mean: %v\n", diag.Suggestions)
			}
		}
	}
}

func printReport(w io.Writer, dir string, r *gen.CheckReport) {
	sections := []struct {
		label string
		files []string
	}{
		{"missing", r.Missing},
		{"stale", r.Stale},
		{"version drift", r.Drifted},
		{"orphaned", r.Orphaned},
	}

	for _, s := range sections {
		for _, f := range s.files {
			fmt.Fprintf(w, "%s: %s\n", s.label, filepath.Join(dir, f))
		}
	}
}

func newInspectCmd(o *options) *cobra.Command {
	var what string

	cmd := &cobra.Command{
		Use:   "inspect <input>",
		Short: "Dump the resolved model, declarations or converters of an input",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := o.setup(cmd); err != nil {
				return err
			}

			r, err := pipeline.RunOne(o.ctx, o.cfg, args[0], false)
			if err != nil {
				return err
			}

			dump := spew.ConfigState{
				Indent:                  "  ",
				DisablePointerAddresses: true,
				DisableCapacities:       true,
				SortKeys:                true,
			}

			switch what {
			case "model":
				dump.Fdump(cmd.OutOrStdout(), r.Model.Types())
			case "declarations":
				dump.Fdump(cmd.OutOrStdout(), r.Registry.Ordered())
			case "converters":
				dump.Fdump(cmd.OutOrStdout(), r.Plan.Converters())
			case "description":
				dump.Fdump(cmd.OutOrStdout(), r.Description)
			default:
				return fmt.Errorf("unknown --what %q (want model, declarations, converters or description)", what)
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&what, "what", "model", "model, declarations, converters or description")

	return cmd
}

func newJSONSchemaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "jsonschema",
		Short: "Print the JSON Schema of the schema description format",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			data, err := json.MarshalIndent(schema.JSONSchema(), "", "  ")
			if err != nil {
				return fmt.Errorf("marshaling schema: %w", err)
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))

			return err
		},
	}
}
