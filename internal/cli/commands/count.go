package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/leapdal/pkg/core"
)

// NewCountCommand creates the count command.
func NewCountCommand(rt *Runtime) *cobra.Command {
	var where string

	cmd := &cobra.Command{
		Use:   "count <table>",
		Short: "Count rows in a table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			conn, err := rt.Connect(ctx)
			if err != nil {
				return err
			}
			defer conn.Destroy()

			spec := core.SelectSpec{Table: args[0]}
			if where != "" {
				spec.Filter = core.Raw(where)
			}

			count, err := conn.SelectCount(ctx, spec)
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintln(cmd.OutOrStdout(), count)
			return nil
		},
	}

	cmd.Flags().StringVar(&where, "where", "", "Raw SQL filter expression")
	return cmd
}
