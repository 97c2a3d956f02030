// Package config loads the service configuration: defaults, then an
// optional YAML file, then environment variables, then command-line flags,
// each layer overriding the previous one.
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

// EnvPrefix is the prefix for environment overrides, e.g.
// REVTRACK_SERVER_ADDR.
const EnvPrefix = "REVTRACK_"

type Config struct {
	Database DatabaseConfig `koanf:"database"`
	Server   ServerConfig   `koanf:"server"`
	Todo     TodoConfig     `koanf:"todo"`
}

type DatabaseConfig struct {
	// Path is the sqlite file backing the document store.
	Path string `koanf:"path"`
}

type ServerConfig struct {
	Addr string `koanf:"addr"`
}

type TodoConfig struct {
	// RetentionHours is how long a to-do task stays in the working set.
	RetentionHours int `koanf:"retention_hours"`
}

func defaults() map[string]interface{} {
	return map[string]interface{}{
		"database": map[string]interface{}{
			"path": "revtrack.db",
		},
		"server": map[string]interface{}{
			"addr": ":8080",
		},
		"todo": map[string]interface{}{
			"retention_hours": 24,
		},
	}
}

// Load builds the configuration. flags may be nil; when given, set flags
// override everything else (flag names with dashes map to dotted keys, e.g.
// --database-path sets database.path).
func Load(configPath string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
				return nil, fmt.Errorf("failed to load config file: %w", err)
			}
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "_", ".")
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, interface{}) {
			if !f.Changed {
				return "", nil
			}
			return strings.ReplaceAll(f.Name, "-", "."), posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return &cfg, nil
}

// Validate rejects configurations the service cannot start with. A missing
// database path means every load and save would fail, so it is fatal here
// rather than on first use.
func (c *Config) Validate() error {
	if c.Database.Path == "" {
		return fmt.Errorf("database path is required (set database.path or %sDATABASE_PATH)", EnvPrefix)
	}
	if c.Server.Addr == "" {
		return fmt.Errorf("server addr is required")
	}
	if c.Todo.RetentionHours <= 0 {
		return fmt.Errorf("todo retention_hours must be positive")
	}
	return nil
}
