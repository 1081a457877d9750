// Package security defines the contracts of the external security provider
// consumed by the access layer. The access layer never implements these
// interfaces; it only composes the predicates they return into read and
// write filters.
package security

import (
	"context"

	"github.com/leapstack-labs/leapdal/pkg/core"
	"github.com/leapstack-labs/leapdal/pkg/driver"
)

// Provider bootstraps a Security instance for one connection. The driver is
// handed over so providers can load permission data through the same
// connection; the formatter lets them render dialect-correct predicates.
type Provider interface {
	Connect(ctx context.Context, drv driver.Driver, f core.Formatter) (Security, error)
}

// Security resolves per-table access conditions.
type Security interface {
	// Condition returns the predicate restricting the given access mode on
	// the table for the caller's environment. A nil predicate means
	// unrestricted access.
	Condition(ctx context.Context, table string, mode core.AccessMode, env core.Environment) (core.Predicate, error)
}
