package commands

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/leapdal/pkg/driver"
)

// NewVersionCommand creates the version command. Besides the version it
// reports the drivers compiled into this binary, since the available
// dialects depend on which driver packages the build imported.
func NewVersionCommand(version string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long:  `Display leapdal version, build, and bundled driver information.`,
		Run: func(cmd *cobra.Command, _ []string) {
			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(out, "leapdal v%s (%s, %s/%s)\n",
				version, runtime.Version(), runtime.GOOS, runtime.GOARCH)

			drivers := driver.List()
			if len(drivers) == 0 {
				_, _ = fmt.Fprintln(out, "drivers: none compiled in")
				return
			}
			_, _ = fmt.Fprintf(out, "drivers: %s\n", strings.Join(drivers, ", "))
		},
	}
}
