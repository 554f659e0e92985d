package config

import (
	"fmt"
	"os"
	"strings"
)

// Output formats understood by the render tool.
const (
	FormatYAML      = "yaml"
	FormatCorosync  = "corosync"
	FormatSysconfig = "sysconfig"
)

const defaultFormat = FormatYAML

// Config aggregates runtime configuration resolved from multiple sources.
// Precedence: CLI flags > Environment variables > Defaults
type Config struct {
	// ProfilesFile is the profile document to load; empty selects the
	// document shipped with the module.
	ProfilesFile string
	// Environment is the identifier detected by the caller; empty resolves
	// the default profile.
	Environment string
	// Format selects what to render from the merged profile.
	Format string
	// ConfFile is an existing corosync.conf to merge corosync parameters
	// into; empty starts from the built-in template.
	ConfFile string
	// OutputFile receives the rendered result; empty writes to stdout.
	OutputFile string
	// Migrate upgrades ConfFile to the corosync 3 layout instead of
	// rendering a profile.
	Migrate bool
	// ListEnvironments prints the override profiles present in the
	// document instead of rendering.
	ListEnvironments bool
}

// CLIOverrides holds command-line flag overrides.
type CLIOverrides struct {
	ProfilesFile     *string
	Environment      *string
	Format           *string
	ConfFile         *string
	OutputFile       *string
	Migrate          *bool
	ListEnvironments *bool
}

// Load extracts configuration from multiple sources with precedence:
// CLI flags > Environment variables > Defaults
func Load(overrides *CLIOverrides) (Config, error) {
	cfg := defaultConfig()

	applyEnvConfig(&cfg)

	// Apply CLI overrides (highest precedence)
	if overrides != nil {
		applyCLIOverrides(&cfg, overrides)
	}

	// Validate final configuration
	if err := validateConfig(cfg); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// defaultConfig returns a Config with default values.
func defaultConfig() Config {
	return Config{
		Format: defaultFormat,
	}
}

// applyEnvConfig applies environment variable configuration.
func applyEnvConfig(cfg *Config) {
	if path := strings.TrimSpace(os.Getenv("HA_PROFILES_FILE")); path != "" {
		cfg.ProfilesFile = path
	}
	if env := strings.TrimSpace(os.Getenv("HA_ENVIRONMENT")); env != "" {
		cfg.Environment = env
	}
	if format := strings.TrimSpace(os.Getenv("HA_OUTPUT_FORMAT")); format != "" {
		cfg.Format = format
	}
}

// applyCLIOverrides applies command-line flag overrides.
func applyCLIOverrides(cfg *Config, overrides *CLIOverrides) {
	if overrides.ProfilesFile != nil && *overrides.ProfilesFile != "" {
		cfg.ProfilesFile = *overrides.ProfilesFile
	}
	if overrides.Environment != nil && *overrides.Environment != "" {
		cfg.Environment = *overrides.Environment
	}
	if overrides.Format != nil && *overrides.Format != "" {
		cfg.Format = *overrides.Format
	}
	if overrides.ConfFile != nil && *overrides.ConfFile != "" {
		cfg.ConfFile = *overrides.ConfFile
	}
	if overrides.OutputFile != nil && *overrides.OutputFile != "" {
		cfg.OutputFile = *overrides.OutputFile
	}
	if overrides.Migrate != nil {
		cfg.Migrate = *overrides.Migrate
	}
	if overrides.ListEnvironments != nil {
		cfg.ListEnvironments = *overrides.ListEnvironments
	}
}

// validateConfig validates the final configuration.
func validateConfig(cfg Config) error {
	switch cfg.Format {
	case FormatYAML, FormatCorosync, FormatSysconfig:
	default:
		return fmt.Errorf("unknown output format %q (valid: %s, %s, %s)",
			cfg.Format, FormatYAML, FormatCorosync, FormatSysconfig)
	}
	if cfg.Migrate && cfg.ConfFile == "" {
		return fmt.Errorf("--migrate requires an existing corosync.conf (--conf)")
	}
	return nil
}
