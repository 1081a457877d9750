package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewQueryCommand creates the query command: execute raw SQL and render
// every result set.
func NewQueryCommand(rt *Runtime) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "query <sql>",
		Short: "Execute a SQL command and print its result sets",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			conn, err := rt.Connect(ctx)
			if err != nil {
				return err
			}
			defer conn.Destroy()

			tables, err := conn.QueryBatch(ctx, args[0], false)
			if err != nil {
				return err
			}

			for i := range tables {
				if len(tables) > 1 {
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "-- result set %d --\n", i)
				}
				if err := renderResult(cmd.OutOrStdout(), &tables[i], format); err != nil {
					return err
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", "table", "Output format: table, json")
	return cmd
}
