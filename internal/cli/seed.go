package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/bistro/internal/seed"
)

// NewSeedCommand creates the seed command.
func NewSeedCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed <fixtures-dir>",
		Short: "Load CUE fixtures into the database",
		Long: `Evaluate the CUE package in a directory and insert its tables.

The package must define a top-level tables struct mapping table keys to
lists of rows. Rows are appended; existing rows are kept.

Example:
  bistro seed ./fixtures --db bistro.db`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSeed(rootOpts, args[0], cmd)
		},
	}
	return cmd
}

func runSeed(opts *RootOptions, dir string, cmd *cobra.Command) error {
	out := opts.formatter(cmd)

	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return NewExitError(ExitCommandError, fmt.Sprintf("fixtures directory not found: %s", dir))
	}

	fx, err := seed.Load(dir)
	if err != nil {
		var loadErr *seed.LoadError
		if errors.As(err, &loadErr) {
			_ = out.Error(loadErr.Code, loadErr.Message, nil)
		}
		return WrapExitError(ExitCommandError, "failed to load fixtures", err)
	}
	out.VerboseLog("loaded %d table(s) from %d file(s)", len(fx.Tables), fx.FileCount)

	s, err := opts.openSession(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	report, err := seed.Seed(cmd.Context(), s.client, fx, s.logger)
	if err != nil {
		_ = out.Error("E_SEED_FAILED", err.Error(), report.Inserted)
		return WrapExitError(ExitFailure, "seed failed", err)
	}

	if opts.Format == "json" {
		return out.Success(map[string]any{
			"inserted": report.Inserted,
			"total":    report.Total(),
		})
	}
	for _, name := range fx.Names() {
		if n, ok := report.Inserted[name]; ok {
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %d row(s)\n", name, n)
		}
	}
	return out.Success(fmt.Sprintf("✓ Seeded %d row(s)", report.Total()))
}

// NewTablesCommand creates the tables command.
func NewTablesCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "tables",
		Short:         "List stored table keys",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTables(rootOpts, cmd)
		},
	}
	return cmd
}

func runTables(opts *RootOptions, cmd *cobra.Command) error {
	out := opts.formatter(cmd)

	s, err := opts.openSession(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	names, err := s.tables.Tables(cmd.Context())
	if err != nil {
		return WrapExitError(ExitFailure, "failed to list tables", err)
	}

	if opts.Format == "json" {
		if names == nil {
			names = []string{}
		}
		return out.Success(names)
	}
	for _, name := range names {
		fmt.Fprintln(cmd.OutOrStdout(), name)
	}
	return nil
}
