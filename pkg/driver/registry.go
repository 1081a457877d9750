package driver

import (
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/leapstack-labs/leapdal/pkg/core"
)

var (
	registryMu sync.RWMutex
	registry   = make(map[string]func(core.DriverConfig, *slog.Logger) Driver)
)

// Register adds a driver factory to the registry.
// Called by driver implementations in their init() functions.
func Register(name string, factory func(core.DriverConfig, *slog.Logger) Driver) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[name] = factory
}

// Get retrieves a driver factory by name.
func Get(name string) (func(core.DriverConfig, *slog.Logger) Driver, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	f, ok := registry[name]
	return f, ok
}

// New creates a driver instance based on config type.
// The logger is passed to the driver constructor (nil uses a discard logger).
func New(cfg core.DriverConfig, logger *slog.Logger) (Driver, error) {
	if cfg.Type == "" {
		return nil, fmt.Errorf("driver type not specified")
	}

	factory, ok := Get(cfg.Type)
	if !ok {
		return nil, &UnknownDriverError{
			Type:      cfg.Type,
			Available: List(),
		}
	}
	return factory(cfg, logger), nil
}

// List returns all registered driver names (sorted).
func List() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// IsRegistered checks if a driver type is registered.
func IsRegistered(name string) bool {
	registryMu.RLock()
	defer registryMu.RUnlock()
	_, ok := registry[name]
	return ok
}

// UnknownDriverError is returned when an unknown driver type is requested.
type UnknownDriverError struct {
	Type      string
	Available []string
}

func (e *UnknownDriverError) Error() string {
	return fmt.Sprintf("unknown driver type %q\nAvailable drivers: %v\nHint: check your connection.type in leapdal.yaml", e.Type, e.Available)
}
