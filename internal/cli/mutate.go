package cli

import (
	"github.com/spf13/cobra"
)

// NewInsertCommand creates the insert command.
func NewInsertCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "insert <table> <json>",
		Short: "Insert records into a table",
		Long: `Insert one JSON object or an array of objects into a table.

Records without an id get a generated one; created_at and updated_at are
set when absent. The stored records are printed.

Examples:
  bistro insert orders '{"table_id":1,"status":"open"}'
  bistro insert menu '[{"name":"soup","price":6},{"name":"tart","price":7.5}]'`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInsert(rootOpts, args[0], args[1], cmd)
		},
	}
	return cmd
}

func runInsert(opts *RootOptions, table, raw string, cmd *cobra.Command) error {
	out := opts.formatter(cmd)

	rows, err := parseRecords(raw)
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid records", err)
	}

	s, err := opts.openSession(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	env := s.client.From(table).Insert(cmd.Context(), rows...)
	if env.Err != nil {
		return out.EnvelopeError(env.Err)
	}
	return out.Records(env.Data)
}

// SelectorOptions holds the row selector shared by update and delete.
type SelectorOptions struct {
	*RootOptions
	Eq    string
	Match []string
}

func (o *SelectorOptions) addFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&o.Eq, "eq", "", "field=value selecting rows by one field")
	cmd.Flags().StringArrayVar(&o.Match, "match", nil, "field=value pairs that must all hold (repeatable)")
	cmd.MarkFlagsMutuallyExclusive("eq", "match")
	cmd.MarkFlagsOneRequired("eq", "match")
}

// filters returns the selector as a filter map; --eq is a one-entry map.
func (o *SelectorOptions) filters() (map[string]any, error) {
	if o.Eq != "" {
		return parseMatch("eq", []string{o.Eq})
	}
	return parseMatch("match", o.Match)
}

// NewUpdateCommand creates the update command.
func NewUpdateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SelectorOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "update <table> <json-patch>",
		Short: "Merge a patch into matching rows",
		Long: `Shallow-merge a JSON patch into every row selected by --eq or --match.

id and created_at in the patch are ignored; updated_at is refreshed on the
updated rows. Matching nothing is not an error.

Examples:
  bistro update orders '{"status":"paid"}' --eq id=lq2x8k1c4f9zk2m0a
  bistro update tables '{"status":"free"}' --match number=4 --match status=occupied`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUpdate(opts, args[0], args[1], cmd)
		},
	}
	opts.addFlags(cmd)
	return cmd
}

func runUpdate(opts *SelectorOptions, table, raw string, cmd *cobra.Command) error {
	out := opts.formatter(cmd)

	patch, err := parsePatch(raw)
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid patch", err)
	}
	filters, err := opts.filters()
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid selector", err)
	}

	s, err := opts.openSession(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	env := s.client.From(table).Update(patch).Match(filters).Exec(cmd.Context())
	if env.Err != nil {
		return out.EnvelopeError(env.Err)
	}
	out.VerboseLog("%d row(s) updated", len(env.Data))
	return out.Records(env.Data)
}

// NewDeleteCommand creates the delete command.
func NewDeleteCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SelectorOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "delete <table>",
		Short: "Delete matching rows",
		Long: `Delete every row selected by --eq or --match. Deleting nothing is not an
error.

Examples:
  bistro delete reservations --eq status=canceled
  bistro delete orders --match table_id=2 --match status=paid`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDelete(opts, args[0], cmd)
		},
	}
	opts.addFlags(cmd)
	return cmd
}

func runDelete(opts *SelectorOptions, table string, cmd *cobra.Command) error {
	out := opts.formatter(cmd)

	filters, err := opts.filters()
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid selector", err)
	}

	s, err := opts.openSession(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	env := s.client.From(table).Delete().Match(filters).Exec(cmd.Context())
	if env.Err != nil {
		return out.EnvelopeError(env.Err)
	}
	if opts.Format == "json" {
		return out.Success(map[string]any{"table": table})
	}
	return out.Success("deleted")
}
