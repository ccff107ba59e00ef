package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"leaguestore/internal/core"
	"leaguestore/internal/query"
	"leaguestore/pkg/domain"
)

// QueryOptions holds flags for the query command.
type QueryOptions struct {
	*RootOptions
	Filter map[string]string
	Fold   map[string]string
	Sort   string
	Page   int
	Limit  int
}

// NewQueryCommand creates the query command.
func NewQueryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &QueryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "query <entity>",
		Short: "Filter, sort and page through an entity",
		Long: `Filter, sort and page through an entity.

Example:
  leaguestore query players --filter TEAM_ID=1610612747 --sort SEASON:desc --limit 5
  leaguestore query teams --fold CITY="los angeles"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := opts.open(cmd.Context())
			if err != nil {
				return err
			}
			defer func() { _ = sess.Close() }()

			ops, err := lookupEntity(sess.svc, args[0])
			if err != nil {
				return err
			}
			p := query.Params{Filter: opts.Filter, Fold: opts.Fold, Sort: opts.Sort, Page: opts.Page}
			if opts.Limit >= 0 {
				p.Limit = query.IntPtr(opts.Limit)
			}
			records, err := ops.query(cmd.Context(), p)
			if err != nil {
				return err
			}
			return opts.printer(cmd.OutOrStdout()).records(ops, records)
		},
	}

	cmd.Flags().StringToStringVar(&opts.Filter, "filter", nil, "FIELD=value predicate, repeatable")
	cmd.Flags().StringToStringVar(&opts.Fold, "fold", nil, "FIELD=value case-insensitive equality, repeatable")
	cmd.Flags().StringVar(&opts.Sort, "sort", "", "field[:asc|desc]")
	cmd.Flags().IntVar(&opts.Page, "page", 1, "1-based page number")
	cmd.Flags().IntVar(&opts.Limit, "limit", -1, "page size (default from configuration)")

	return cmd
}

// NewGetCommand creates the get command.
func NewGetCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "get <entity> <id>",
		Short: "Print one record",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := opts.open(cmd.Context())
			if err != nil {
				return err
			}
			defer func() { _ = sess.Close() }()

			ops, err := lookupEntity(sess.svc, args[0])
			if err != nil {
				return err
			}
			rec, err := ops.get(cmd.Context(), args[1])
			if err != nil {
				return err
			}
			return opts.printer(cmd.OutOrStdout()).records(ops, rec)
		},
	}
}

// WriteOptions holds flags shared by the create, update and replace commands.
type WriteOptions struct {
	*RootOptions
	Set  map[string]string
	JSON string
}

func (o *WriteOptions) body() (domain.Fields, error) {
	body := domain.Fields{}
	if o.JSON != "" {
		if err := json.Unmarshal([]byte(o.JSON), &body); err != nil {
			return nil, fmt.Errorf("invalid --json object: %w", err)
		}
	}
	for k, v := range o.Set {
		body[k] = v
	}
	return body, nil
}

func newWriteCommand(rootOpts *RootOptions, op domain.Operation, use, short string) *cobra.Command {
	opts := &WriteOptions{RootOptions: rootOpts}
	nargs := 2
	if op == domain.OpCreate {
		nargs = 1
	}

	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(nargs),
		RunE: func(cmd *cobra.Command, args []string) error {
			body, err := opts.body()
			if err != nil {
				return err
			}
			return runMutation(cmd, rootOpts, args, core.MutateRequest{Operation: op, Body: body})
		},
	}

	cmd.Flags().StringToStringVar(&opts.Set, "set", nil, "FIELD=value, repeatable")
	cmd.Flags().StringVar(&opts.JSON, "json", "", "JSON object of string field values")

	return cmd
}

// NewCreateCommand creates the create command.
func NewCreateCommand(opts *RootOptions) *cobra.Command {
	return newWriteCommand(opts, domain.OpCreate, "create <entity>", "Add a record")
}

// NewUpdateCommand creates the update command.
func NewUpdateCommand(opts *RootOptions) *cobra.Command {
	return newWriteCommand(opts, domain.OpUpdate, "update <entity> <id>", "Merge fields into a record")
}

// NewReplaceCommand creates the replace command.
func NewReplaceCommand(opts *RootOptions) *cobra.Command {
	return newWriteCommand(opts, domain.OpReplace, "replace <entity> <id>", "Replace every field of a record")
}

// NewDeleteCommand creates the delete command.
func NewDeleteCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <entity> <id>",
		Short: "Remove a record and print it",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMutation(cmd, opts, args, core.MutateRequest{Operation: domain.OpDelete})
		},
	}
}

func runMutation(cmd *cobra.Command, opts *RootOptions, args []string, req core.MutateRequest) error {
	sess, err := opts.open(cmd.Context())
	if err != nil {
		return err
	}
	defer func() { _ = sess.Close() }()

	ops, err := lookupEntity(sess.svc, args[0])
	if err != nil {
		return err
	}
	if len(args) > 1 {
		req.ID = args[1]
	}
	rec, err := ops.mutate(cmd.Context(), req)
	if err != nil {
		return err
	}
	return opts.printer(cmd.OutOrStdout()).records(ops, rec)
}

// NewDetailsCommand creates the details command.
func NewDetailsCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "details <game-id>",
		Short: "Print a game with its home and visitor teams",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := opts.open(cmd.Context())
			if err != nil {
				return err
			}
			defer func() { _ = sess.Close() }()

			details, err := sess.svc.GameDetails(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return opts.printer(cmd.OutOrStdout()).json(details)
		},
	}
}
