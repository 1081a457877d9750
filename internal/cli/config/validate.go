package config

import "fmt"

// Validate checks the configuration for structural problems before any
// driver is constructed.
func (c *Config) Validate() error {
	if c.Connection.Type == "" {
		return fmt.Errorf("connection.type is required")
	}
	if c.Connection.Port < 0 || c.Connection.Port > 65535 {
		return fmt.Errorf("connection.port %d out of range", c.Connection.Port)
	}
	return nil
}
