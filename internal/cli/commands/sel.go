package commands

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/leapdal/pkg/core"
)

// NewSelectCommand creates the select command: stream a table through the
// packet engine and render packets as they arrive.
func NewSelectCommand(rt *Runtime) *cobra.Command {
	var (
		columns    string
		where      string
		top        int
		packetSize int
		format     string
	)

	cmd := &cobra.Command{
		Use:   "select <table>",
		Short: "Select from a table, streaming results packet by packet",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			conn, err := rt.Connect(ctx)
			if err != nil {
				return err
			}
			defer conn.Destroy()

			spec := core.SelectSpec{Table: args[0], Top: top}
			if columns != "" {
				for _, col := range strings.Split(columns, ",") {
					spec.Columns = append(spec.Columns, strings.TrimSpace(col))
				}
			}
			if where != "" {
				spec.Filter = core.Raw(where)
			}

			return conn.QueryPackets(ctx, spec, false, packetSize, func(p core.Packet) error {
				t := core.Table{Name: p.Table, Meta: p.Meta, Rows: p.Rows}
				return renderResult(cmd.OutOrStdout(), &t, format)
			})
		},
	}

	cmd.Flags().StringVar(&columns, "columns", "", "Comma-separated columns (default all)")
	cmd.Flags().StringVar(&where, "where", "", "Raw SQL filter expression")
	cmd.Flags().IntVar(&top, "top", 0, "Cap the number of returned rows (0 = no cap)")
	cmd.Flags().IntVar(&packetSize, "packet-size", 0, "Rows per packet (0 = one packet per result set)")
	cmd.Flags().StringVar(&format, "format", "table", "Output format: table, json")
	return cmd
}
