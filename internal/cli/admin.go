package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// InitOptions holds flags for the init command.
type InitOptions struct {
	*RootOptions
	Reset bool
}

// NewInitCommand creates the init command.
func NewInitCommand(opts *InitOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create header-only files for missing entities",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := opts.open(cmd.Context())
			if err != nil {
				return err
			}
			defer func() { _ = sess.Close() }()

			initialize := sess.svc.Init
			if opts.Reset {
				initialize = sess.svc.Reset
			}
			created, err := initialize(cmd.Context())
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "created %d of 3 files\n", created)
			return err
		},
	}
	cmd.Flags().BoolVar(&opts.Reset, "reset", false, "delete existing entity files first")
	return cmd
}

// NewCheckCommand creates the check command.
func NewCheckCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Load every entity file and report its size or failure",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := opts.open(cmd.Context())
			if err != nil {
				return err
			}
			defer func() { _ = sess.Close() }()

			statuses, checkErr := sess.svc.Check(cmd.Context())
			if err := opts.printer(cmd.OutOrStdout()).statuses(statuses); err != nil {
				return err
			}
			if checkErr != nil {
				return fmt.Errorf("check failed: %w", checkErr)
			}
			return nil
		},
	}
}
