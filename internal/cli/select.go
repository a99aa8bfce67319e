package cli

import (
	"github.com/spf13/cobra"
)

// SelectOptions holds flags for the select command.
type SelectOptions struct {
	*RootOptions
	Eq      []string
	Gte     []string
	Lte     []string
	In      []string
	Order   string
	Desc    bool
	Limit   int
	Range   string
	Single  bool
	Explain bool
}

// NewSelectCommand creates the select command.
func NewSelectCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SelectOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "select <table>",
		Short: "Query a table",
		Long: `Query a table with filters, ordering and pagination.

Filter values are parsed as JSON when possible (1, true, "1") and taken as
plain strings otherwise. All filters must hold for a row to match. A row
without the filtered field never matches.

When both --limit and --range are given, --range wins.

Examples:
  bistro select orders --eq table_id=1 --order created_at --desc --limit 1
  bistro select menu --gte price=5 --lte price=10 --order price
  bistro select menu --in category=starter,main --range 0:9
  bistro select orders --eq status=open --explain`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSelect(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringArrayVar(&opts.Eq, "eq", nil, "field=value equality filter (repeatable)")
	cmd.Flags().StringArrayVar(&opts.Gte, "gte", nil, "field=value lower bound, inclusive (repeatable)")
	cmd.Flags().StringArrayVar(&opts.Lte, "lte", nil, "field=value upper bound, inclusive (repeatable)")
	cmd.Flags().StringArrayVar(&opts.In, "in", nil, "field=v1,v2 membership filter (repeatable)")
	cmd.Flags().StringVar(&opts.Order, "order", "", "sort by field")
	cmd.Flags().BoolVar(&opts.Desc, "desc", false, "sort descending")
	cmd.Flags().IntVar(&opts.Limit, "limit", -1, "keep the first n rows")
	cmd.Flags().StringVar(&opts.Range, "range", "", "keep rows from:to, inclusive")
	cmd.Flags().BoolVar(&opts.Single, "single", false, "return the first row only")
	cmd.Flags().BoolVar(&opts.Explain, "explain", false, "print the query instead of running it")

	return cmd
}

func runSelect(opts *SelectOptions, table string, cmd *cobra.Command) error {
	out := opts.formatter(cmd)

	s, err := opts.openSession(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	q := s.client.From(table).Select()
	for _, pair := range opts.Eq {
		field, value, err := parsePair("eq", pair)
		if err != nil {
			return WrapExitError(ExitCommandError, "invalid filter", err)
		}
		q = q.Eq(field, value)
	}
	for _, pair := range opts.Gte {
		field, value, err := parsePair("gte", pair)
		if err != nil {
			return WrapExitError(ExitCommandError, "invalid filter", err)
		}
		q = q.Gte(field, value)
	}
	for _, pair := range opts.Lte {
		field, value, err := parsePair("lte", pair)
		if err != nil {
			return WrapExitError(ExitCommandError, "invalid filter", err)
		}
		q = q.Lte(field, value)
	}
	for _, pair := range opts.In {
		field, values, err := parseList("in", pair)
		if err != nil {
			return WrapExitError(ExitCommandError, "invalid filter", err)
		}
		q = q.In(field, values)
	}
	if opts.Order != "" {
		q = q.Order(opts.Order, !opts.Desc)
	}
	if opts.Limit >= 0 {
		q = q.Limit(opts.Limit)
	}
	if opts.Range != "" {
		from, to, err := parseRange(opts.Range)
		if err != nil {
			return WrapExitError(ExitCommandError, "invalid range", err)
		}
		q = q.Range(from, to)
	}

	if opts.Single {
		sq := q.Single()
		if opts.Explain {
			return out.Success(sq.Explain())
		}
		out.VerboseLog("query: %s", sq.Explain())
		env := sq.Exec(cmd.Context())
		if env.Err != nil {
			return out.EnvelopeError(env.Err)
		}
		return out.Records(env.Data)
	}

	if opts.Explain {
		return out.Success(q.Explain())
	}
	out.VerboseLog("query: %s", q.Explain())
	env := q.Exec(cmd.Context())
	if env.Err != nil {
		return out.EnvelopeError(env.Err)
	}
	out.VerboseLog("%d row(s)", len(env.Data))
	return out.Records(env.Data)
}
