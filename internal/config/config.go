// Package config provides configuration types and defaults for contractmeta.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/zjrosen/contractmeta/internal/domain/contract"
	"github.com/zjrosen/contractmeta/internal/log"
	"github.com/zjrosen/contractmeta/internal/presentation"
	"github.com/zjrosen/contractmeta/internal/tracing"
)

// Config holds all configuration options for contractmeta.
type Config struct {
	Contract ContractConfig `mapstructure:"contract"`
	Output   OutputConfig   `mapstructure:"output"`
	Tracing  tracing.Config `mapstructure:"tracing"`
}

// ContractConfig describes the contract to build.
type ContractConfig struct {
	Name      string            `mapstructure:"name"`
	Author    string            `mapstructure:"author"`
	Timestamp string            `mapstructure:"timestamp"` // YYYY-MM-DD; omitted uses the default, "" uses today's date
	Signer    string            `mapstructure:"signer"`
	Extra     map[string]string `mapstructure:"extra"` // additional keys written by the deploy hook; see ReadExtra
}

// OutputConfig controls how the finished metadata is printed.
type OutputConfig struct {
	Format string `mapstructure:"format"` // "text" (default), "yaml" or "json"
	Color  string `mapstructure:"color"`  // "auto" (default), "always" or "never"
	Header string `mapstructure:"header"` // header line for text output
}

// DefaultConfigPath is the project-local config file location.
const DefaultConfigPath = ".contractmeta/config.yaml"

// UserConfigDir returns ~/.config/contractmeta or empty string if the home
// directory is unavailable.
func UserConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "contractmeta")
}

// DefaultTracesFilePath returns the default path for trace file export.
// Returns ~/.config/contractmeta/traces/traces.jsonl or empty string if home dir unavailable.
func DefaultTracesFilePath() string {
	dir := UserConfigDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "traces", "traces.jsonl")
}

// Defaults returns the configuration used when no config file or flags are given.
func Defaults() Config {
	tr := tracing.DefaultConfig()
	tr.FilePath = DefaultTracesFilePath()

	return Config{
		Contract: ContractConfig{
			Name:      "TokenX",
			Author:    "azaM",
			Timestamp: "2025-06-28",
			Signer:    "0xDEADBEEF",
		},
		Output: OutputConfig{
			Format: presentation.FormatText,
			Color:  presentation.ColorAuto,
			Header: presentation.DefaultHeader,
		},
		Tracing: tr,
	}
}

// ValidateContract checks the contract section for errors.
func ValidateContract(c ContractConfig) error {
	if c.Name == "" {
		return fmt.Errorf("contract.name is required")
	}
	if c.Timestamp != "" {
		if _, err := time.Parse(contract.DateLayout, c.Timestamp); err != nil {
			return fmt.Errorf("contract.timestamp must be YYYY-MM-DD, got %q", c.Timestamp)
		}
	}
	for k := range c.Extra {
		if k == "" {
			return fmt.Errorf("contract.extra keys cannot be empty")
		}
	}
	return nil
}

// ValidateOutput checks the output section for errors.
// Empty values are valid and fall back to defaults.
func ValidateOutput(o OutputConfig) error {
	switch o.Format {
	case "", presentation.FormatText, presentation.FormatYAML, presentation.FormatJSON:
	default:
		return fmt.Errorf("output.format must be \"text\", \"yaml\", or \"json\", got %q", o.Format)
	}
	switch o.Color {
	case "", presentation.ColorAuto, presentation.ColorAlways, presentation.ColorNever:
	default:
		return fmt.Errorf("output.color must be \"auto\", \"always\", or \"never\", got %q", o.Color)
	}
	return nil
}

// Validate checks every section and returns the first error found.
func Validate(cfg Config) error {
	if err := ValidateContract(cfg.Contract); err != nil {
		return err
	}
	if err := ValidateOutput(cfg.Output); err != nil {
		return err
	}
	return cfg.Tracing.Validate()
}

// DefaultConfigTemplate returns the commented YAML written by WriteDefaultConfig.
func DefaultConfigTemplate() string {
	return `# contractmeta configuration

# Contract built on every run
contract:
  name: TokenX
  author: azaM
  timestamp: "2025-06-28"   # YYYY-MM-DD; set to "" to use today's date
  signer: "0xDEADBEEF"
  # Additional keys written by the deploy hook
  # extra:
  #   network: testnet

# Output settings
output:
  format: text              # "text", "yaml" or "json"
  color: auto               # "auto", "always" or "never"
  # header: "Contract Metadata:"

# Tracing (OpenTelemetry)
tracing:
  enabled: false
  exporter: file            # "none", "file", "stdout" or "otlp"
  # file_path: ~/.config/contractmeta/traces/traces.jsonl
  # otlp_endpoint: localhost:4317
  sample_rate: 1.0
`
}

// ReadExtra returns contract.extra from the YAML file at path with its keys
// exactly as written. Viper folds keys to lower case, which would rename
// user metadata keys. Returns nil when the file has no extra section.
func ReadExtra(path string) (map[string]string, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is the config file viper already read
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var doc struct {
		Contract struct {
			Extra map[string]string `yaml:"extra"`
		} `yaml:"contract"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing contract.extra: %w", err)
	}
	return doc.Contract.Extra, nil
}

// WriteDefaultConfig creates a config file at configPath with default settings.
// Parent directories are created as needed.
func WriteDefaultConfig(configPath string) error {
	log.Debug(log.CatConfig, "Writing default config", "path", configPath)

	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to create config directory", err, "dir", dir)
		return fmt.Errorf("creating config directory: %w", err)
	}

	if err := os.WriteFile(configPath, []byte(DefaultConfigTemplate()), 0o600); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to write config file", err, "path", configPath)
		return fmt.Errorf("writing config file: %w", err)
	}

	log.Info(log.CatConfig, "Created default config", "path", configPath)
	return nil
}
