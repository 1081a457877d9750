// Package commands implements the leapdal CLI subcommands.
package commands

import (
	"context"
	"log/slog"

	"github.com/leapstack-labs/leapdal/internal/cli/config"
	"github.com/leapstack-labs/leapdal/pkg/access"
	"github.com/leapstack-labs/leapdal/pkg/driver"
)

// Runtime carries the loaded configuration and logger from the root command
// to the subcommands. The root command fills it in PersistentPreRunE, after
// flag parsing.
type Runtime struct {
	Config *config.Config
	Logger *slog.Logger
}

// Connect constructs the configured driver and opens a connection over it.
// The caller owns the returned connection and must Destroy it.
func (rt *Runtime) Connect(ctx context.Context) (*access.Connection, error) {
	drv, err := driver.New(rt.Config.Connection.DriverConfig(), rt.Logger)
	if err != nil {
		return nil, err
	}

	persisting := rt.Config.Connection.Persisting
	return access.New(ctx, access.Options{
		Driver:     drv,
		Persisting: &persisting,
		Logger:     rt.Logger,
	})
}
