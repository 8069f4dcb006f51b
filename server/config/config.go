// Package config holds the immutable runtime configuration for the server,
// resolved once at startup.
package config

import (
	"os"

	"github.com/pkg/errors"
)

const (
	defaultAddress = ":9000"
	defaultRoot    = "."
)

// ServerConfig defines configs related to the HTTP listener
type ServerConfig struct {
	Address string
	Root    string
}

// LoggingConfig defines configs related to logging
type LoggingConfig struct {
	Debug bool
	JSON  bool
}

// AssetserveConfig stores the application configuration. Values are filled
// in from defaults and optional command line flags before the server
// starts; nothing mutates them afterwards.
type AssetserveConfig struct {
	Server  ServerConfig
	Logging LoggingConfig
}

// DefaultConfig returns the configuration the server runs with when no
// flags are passed: port 9000 on all interfaces, serving the working
// directory, logfmt lines at info level.
func DefaultConfig() AssetserveConfig {
	return AssetserveConfig{
		Server: ServerConfig{
			Address: defaultAddress,
			Root:    defaultRoot,
		},
	}
}

// Validate checks that the served root exists and is a directory.
func (c *AssetserveConfig) Validate() error {
	info, err := os.Stat(c.Server.Root)
	if err != nil {
		return errors.Wrapf(err, "stat root %q", c.Server.Root)
	}
	if !info.IsDir() {
		return errors.Errorf("root %q is not a directory", c.Server.Root)
	}
	return nil
}

// TestConfig returns a barebones configuration suitable for use in tests.
func TestConfig() AssetserveConfig {
	return AssetserveConfig{
		Server: ServerConfig{
			Address: "127.0.0.1:0",
			Root:    ".",
		},
		Logging: LoggingConfig{
			Debug: true,
		},
	}
}
