// Package config holds environment-derived defaults for the iexcat CLI,
// following the envconfig struct-tag convention used throughout the
// retrieval pack's trading-platform repo.
package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

// CLI holds the environment-overridable defaults for cmd/iexcat. Every
// field can also be overridden by an explicit command-line flag; the flag
// wins when both are set.
type CLI struct {
	LogLevel   string `envconfig:"IEXCAT_LOG_LEVEL" default:"info"`
	Workers    int    `envconfig:"IEXCAT_WORKERS" default:"4"`
	OutputPath string `envconfig:"IEXCAT_OUTPUT" default:"quotes.csv"`
}

// Load reads a CLI configuration from the environment, applying defaults
// for anything unset.
func Load() (CLI, error) {
	var c CLI
	if err := envconfig.Process("", &c); err != nil {
		return CLI{}, fmt.Errorf("config: %w", err)
	}
	return c, nil
}
