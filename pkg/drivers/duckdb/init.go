// Package duckdb provides a DuckDB driver for leapdal.
//
// This file registers the DuckDB driver with the driver registry.
// Import this package with a blank identifier to register the driver:
//
//	import _ "github.com/leapstack-labs/leapdal/pkg/drivers/duckdb"
package duckdb

import (
	"log/slog"

	"github.com/leapstack-labs/leapdal/pkg/core"
	"github.com/leapstack-labs/leapdal/pkg/driver"
)

func init() {
	driver.Register("duckdb", func(cfg core.DriverConfig, logger *slog.Logger) driver.Driver {
		return New(cfg, logger)
	})
}
