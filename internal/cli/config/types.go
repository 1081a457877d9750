package config

import "github.com/leapstack-labs/leapdal/pkg/core"

// Config is the leapdal CLI configuration, layered from defaults, the
// leapdal.yaml config file, LEAPDAL_* environment variables, and flags.
type Config struct {
	// Connection configures the driver connection.
	Connection Connection `koanf:"connection"`

	// Verbose enables debug logging.
	Verbose bool `koanf:"verbose"`
}

// Connection is the driver connection section of the config file.
type Connection struct {
	Type       string            `koanf:"type"`
	Path       string            `koanf:"path"`
	Host       string            `koanf:"host"`
	Port       int               `koanf:"port"`
	Database   string            `koanf:"database"`
	Username   string            `koanf:"username"`
	Password   string            `koanf:"password"`
	Schema     string            `koanf:"schema"`
	Options    map[string]string `koanf:"options"`
	Persisting bool              `koanf:"persisting"`
}

// DriverConfig converts the connection section to a driver configuration.
func (c Connection) DriverConfig() core.DriverConfig {
	return core.DriverConfig{
		Type:     c.Type,
		Path:     c.Path,
		Host:     c.Host,
		Port:     c.Port,
		Database: c.Database,
		Username: c.Username,
		Password: c.Password,
		Schema:   c.Schema,
		Options:  c.Options,
	}
}
