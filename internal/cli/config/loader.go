package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// configFileUsed tracks the file the last Load resolved, for verbose output.
var configFileUsed string

// findConfigFile finds the config file to use.
// Priority: explicit path > leapdal.yaml > leapdal.yml
func findConfigFile(explicit string) string {
	if explicit != "" {
		return explicit
	}
	if _, err := os.Stat("leapdal.yaml"); err == nil {
		return "leapdal.yaml"
	}
	if _, err := os.Stat("leapdal.yml"); err == nil {
		return "leapdal.yml"
	}
	return ""
}

// Load builds the configuration by layering defaults, the config file,
// LEAPDAL_* environment variables, and command-line flags (highest
// priority). A missing config file is only an error when explicitly named.
func Load(explicitFile string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	// Defaults
	if err := k.Load(confmap.Provider(map[string]any{
		"connection.type":       "sqlite",
		"connection.path":       ":memory:",
		"connection.persisting": true,
	}, "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// Config file
	configFileUsed = ""
	if path := findConfigFile(explicitFile); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			if explicitFile != "" || !os.IsNotExist(err) {
				return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
			}
		} else {
			configFileUsed = path
		}
	} else if explicitFile != "" {
		return nil, fmt.Errorf("config file %s not found", explicitFile)
	}

	// Environment: LEAPDAL_CONNECTION_TYPE -> connection.type
	if err := k.Load(env.Provider("LEAPDAL_", ".", func(s string) string {
		return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, "LEAPDAL_")), "_", ".")
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment: %w", err)
	}

	// Flags
	if flags != nil {
		if err := k.Load(posflag.Provider(flags, ".", k), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// FileUsed returns the config file path the last Load resolved, if any.
func FileUsed() string {
	return configFileUsed
}
