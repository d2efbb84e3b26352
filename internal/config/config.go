package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config holds all application configuration
type Config struct {
	// Server settings
	Port int

	// Event log store; empty disables persistence
	DatabaseURL string

	// Registered collateral asset codes, in registration order
	Assets []string
}

// NewConfig creates a new configuration with default values
func NewConfig() *Config {
	return &Config{
		Port:   8000,
		Assets: []string{"WETH", "WBTC"},
	}
}

// LoadFromEnvironment loads configuration from environment variables
func (c *Config) LoadFromEnvironment() {
	if port := os.Getenv("LP_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			c.Port = p
		}
	}

	if url := os.Getenv("DATABASE_URL"); url != "" {
		c.DatabaseURL = url
	}

	if assets := os.Getenv("LP_ASSETS"); assets != "" {
		c.Assets = c.Assets[:0]
		for _, code := range strings.Split(assets, ",") {
			code = strings.TrimSpace(code)
			if code != "" {
				c.Assets = append(c.Assets, code)
			}
		}
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535, got: %d", c.Port)
	}

	if len(c.Assets) == 0 {
		return fmt.Errorf("at least one collateral asset must be configured")
	}

	seen := make(map[string]bool, len(c.Assets))
	for _, code := range c.Assets {
		if seen[code] {
			return fmt.Errorf("collateral asset %s configured twice", code)
		}
		seen[code] = true
	}

	return nil
}
