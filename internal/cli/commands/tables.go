package commands

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

// NewTablesCommand creates the tables command: show column metadata for a
// table.
func NewTablesCommand(rt *Runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "tables <table>",
		Short: "Show column metadata for a table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			conn, err := rt.Connect(ctx)
			if err != nil {
				return err
			}
			defer conn.Destroy()

			columns, err := conn.TableColumns(ctx, args[0])
			if err != nil {
				return err
			}

			tw := table.NewWriter()
			tw.SetOutputMirror(cmd.OutOrStdout())
			tw.SetStyle(table.StyleLight)
			tw.AppendHeader(table.Row{"column", "type", "nullable"})
			for _, c := range columns {
				tw.AppendRow(table.Row{c.Name, c.Type, c.Nullable})
			}
			tw.Render()

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "(%d columns)\n", len(columns))
			return nil
		},
	}
}
