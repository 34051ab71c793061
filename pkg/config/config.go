// Package config loads YAML configuration for the nullifier-store and
// off-chain prover services. The pure verifier core (pkg/verifier) takes
// no configuration: it is a stateless function of its three byte inputs
// (spec.md §5).
//
// Adapted from the teacher's pkg/config: the yaml.v3-tagged nested-struct
// shape, the ${VAR_NAME} environment-variable substitution pass, the
// custom Duration YAML type, and the applyDefaults convention all carry
// over from anchor_config.go, retargeted from anchor/consensus/gas/
// CometBFT settings (no analogue in this spec) to the store and prover
// settings this spec actually needs.
package config

import (
	"fmt"
	"os"
	"regexp"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the top-level configuration document.
type Config struct {
	Store  StoreConfig  `yaml:"store"`
	Prover ProverConfig `yaml:"prover"`
}

// StoreConfig configures the Postgres-backed nullifier store
// (pkg/nullifier).
type StoreConfig struct {
	DataSourceName string   `yaml:"data_source_name"`
	MaxOpenConns   int      `yaml:"max_open_conns"`
	MaxIdleConns   int      `yaml:"max_idle_conns"`
	ConnMaxIdle    Duration `yaml:"conn_max_idle"`
}

// ProverConfig configures the external-tool orchestrator (pkg/prover).
type ProverConfig struct {
	CircuitDir string   `yaml:"circuit_dir"`
	NargoBin   string   `yaml:"nargo_bin"`
	SunspotBin string   `yaml:"sunspot_bin"`
	Timeout    Duration `yaml:"timeout"`
}

// Duration wraps time.Duration for YAML unmarshalling from strings like
// "30s".
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

// Duration returns the time.Duration value.
func (d Duration) Duration() time.Duration { return time.Duration(d) }

// applyDefaults fills in zero-valued fields with conservative defaults.
func (c *Config) applyDefaults() {
	if c.Store.DataSourceName == "" {
		c.Store.DataSourceName = "postgres://localhost/shroud?sslmode=disable"
	}
	if c.Store.MaxOpenConns == 0 {
		c.Store.MaxOpenConns = 10
	}
	if c.Store.MaxIdleConns == 0 {
		c.Store.MaxIdleConns = 2
	}
	if c.Store.ConnMaxIdle == 0 {
		c.Store.ConnMaxIdle = Duration(5 * time.Minute)
	}
	if c.Prover.NargoBin == "" {
		c.Prover.NargoBin = "nargo"
	}
	if c.Prover.SunspotBin == "" {
		c.Prover.SunspotBin = "sunspot"
	}
	if c.Prover.Timeout == 0 {
		c.Prover.Timeout = Duration(2 * time.Minute)
	}
}

var envVarPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)(:-([^}]*))?\}`)

// substituteEnvVars replaces ${VAR_NAME} and ${VAR_NAME:-default}
// occurrences in content with the named environment variable's value (or
// the default, or empty).
func substituteEnvVars(content string) string {
	return envVarPattern.ReplaceAllStringFunc(content, func(match string) string {
		groups := envVarPattern.FindStringSubmatch(match)
		if len(groups) < 2 {
			return match
		}
		varName := groups[1]
		defaultValue := ""
		if len(groups) >= 4 {
			defaultValue = groups[3]
		}
		if value := os.Getenv(varName); value != "" {
			return value
		}
		return defaultValue
	})
}

// Load reads, environment-expands and parses a YAML configuration file at
// path, then fills unset fields with defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}

	expanded := substituteEnvVars(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("config: parsing %s: %w", path, err)
	}
	cfg.applyDefaults()
	return &cfg, nil
}

// Default returns a Config with every section at its default.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}
