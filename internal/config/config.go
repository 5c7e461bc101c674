package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/lox/pokerequity/poker"
)

// Config represents the complete poker-odds configuration
type Config struct {
	Iterations           int             `hcl:"iterations,optional"`
	Variant              string          `hcl:"variant,optional"`
	ConcurrencyThreshold int             `hcl:"concurrency_threshold,optional"`
	Workers              int             `hcl:"workers,optional"`
	LogLevel             string          `hcl:"log_level,optional"`
	Server               *ServerSettings `hcl:"server,block"`
}

// ServerSettings configures the odds WebSocket service
type ServerSettings struct {
	Address       string `hcl:"address,optional"`
	Port          int    `hcl:"port,optional"`
	MaxIterations int    `hcl:"max_iterations,optional"`
}

// Default returns the default configuration
func Default() *Config {
	return &Config{
		Iterations:           10000,
		Variant:              "standard",
		ConcurrencyThreshold: 5000,
		LogLevel:             "info",
		Server: &ServerSettings{
			Address:       "localhost",
			Port:          8080,
			MaxIterations: 1000000,
		},
	}
}

// Load reads configuration from an HCL file. A missing file yields the
// defaults.
func Load(filename string) (*Config, error) {
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return Default(), nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var config Config
	diags = gohcl.DecodeBody(file.Body, nil, &config)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	config.applyDefaults()
	return &config, nil
}

func (c *Config) applyDefaults() {
	defaults := Default()
	if c.Iterations == 0 {
		c.Iterations = defaults.Iterations
	}
	if c.Variant == "" {
		c.Variant = defaults.Variant
	}
	if c.ConcurrencyThreshold == 0 {
		c.ConcurrencyThreshold = defaults.ConcurrencyThreshold
	}
	if c.LogLevel == "" {
		c.LogLevel = defaults.LogLevel
	}
	if c.Server == nil {
		c.Server = defaults.Server
		return
	}
	if c.Server.Address == "" {
		c.Server.Address = defaults.Server.Address
	}
	if c.Server.Port == 0 {
		c.Server.Port = defaults.Server.Port
	}
	if c.Server.MaxIterations == 0 {
		c.Server.MaxIterations = defaults.Server.MaxIterations
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Iterations < 1 {
		return fmt.Errorf("iterations must be positive, got %d", c.Iterations)
	}
	if c.ConcurrencyThreshold < 1 {
		return fmt.Errorf("concurrency_threshold must be positive, got %d", c.ConcurrencyThreshold)
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers cannot be negative, got %d", c.Workers)
	}
	if _, err := c.GameVariant(); err != nil {
		return err
	}

	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log_level: %s", c.LogLevel)
	}

	if c.Server != nil {
		if c.Server.Port < 1 || c.Server.Port > 65535 {
			return fmt.Errorf("invalid port: %d", c.Server.Port)
		}
		if c.Server.MaxIterations < 1 {
			return fmt.Errorf("max_iterations must be positive, got %d", c.Server.MaxIterations)
		}
		// requests without an iteration count run the default
		if c.Iterations > c.Server.MaxIterations {
			return fmt.Errorf("iterations %d exceeds server max_iterations %d", c.Iterations, c.Server.MaxIterations)
		}
	}

	return nil
}

// GameVariant returns the parsed variant
func (c *Config) GameVariant() (poker.Variant, error) {
	return poker.ParseVariant(c.Variant)
}

// ServerAddress returns the full server address
func (c *Config) ServerAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Address, c.Server.Port)
}
