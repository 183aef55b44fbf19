// Package config provides Viper-based configuration loading for battlesim.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	Level string `mapstructure:"level"`
	// Format is the log output format: "json" or "console".
	Format string `mapstructure:"format"`
}

// BattleConfig holds the default battle parameters.
type BattleConfig struct {
	// Level is the creature level used in the damage formula.
	Level int `mapstructure:"level"`
	// MaxTurns caps a battle before it is declared a draw.
	MaxTurns int `mapstructure:"max_turns"`
	// Deterministic selects reproducible battles; false seeds from crypto/rand.
	Deterministic bool `mapstructure:"deterministic"`
}

// CatalogConfig locates creature content.
type CatalogConfig struct {
	// CreaturesDir is the directory of creature YAML files.
	CreaturesDir string `mapstructure:"creatures_dir"`
}

// Config is the top-level application configuration.
type Config struct {
	Logging LoggingConfig `mapstructure:"logging"`
	Battle  BattleConfig  `mapstructure:"battle"`
	Catalog CatalogConfig `mapstructure:"catalog"`
}

// Validate reports every violated constraint across all sections in a
// single error.
//
// Postcondition: Returns nil when every section is valid.
func (c Config) Validate() error {
	var problems []string
	problems = append(problems, c.Logging.problems()...)
	problems = append(problems, c.Battle.problems()...)
	problems = append(problems, c.Catalog.problems()...)
	if len(problems) == 0 {
		return nil
	}
	return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
}

func (l LoggingConfig) problems() []string {
	var out []string
	if !knownLevel(l.Level) {
		out = append(out, fmt.Sprintf("logging.level must be one of [debug, info, warn, error], got %q", l.Level))
	}
	switch l.Format {
	case "json", "console":
	default:
		out = append(out, fmt.Sprintf("logging.format must be json or console, got %q", l.Format))
	}
	return out
}

// knownLevel reports whether level is one of the zap levels battlesim exposes.
func knownLevel(level string) bool {
	switch level {
	case "debug", "info", "warn", "error":
		return true
	}
	return false
}

func (b BattleConfig) problems() []string {
	var out []string
	if b.Level < 1 {
		out = append(out, fmt.Sprintf("battle.level must be >= 1, got %d", b.Level))
	}
	if b.MaxTurns < 1 {
		out = append(out, fmt.Sprintf("battle.max_turns must be >= 1, got %d", b.MaxTurns))
	}
	return out
}

func (c CatalogConfig) problems() []string {
	if strings.TrimSpace(c.CreaturesDir) == "" {
		return []string{"catalog.creatures_dir must not be empty"}
	}
	return nil
}

// Load reads configuration from the given file path, applies environment variable
// overrides, and validates the result. An empty path uses defaults and the
// environment only.
//
// Postcondition: Returns a valid Config or a non-nil error.
func Load(path string) (Config, error) {
	v := viper.New()

	// Environment variable overrides with BATTLESIM_ prefix
	v.SetEnvPrefix("BATTLESIM")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("reading config file: %w", err)
		}
	}

	return LoadFromViper(v)
}

// LoadFromViper builds a Config from an already-configured Viper instance.
//
// Precondition: v must be non-nil and have configuration values set.
// Postcondition: Returns a valid Config or a non-nil error.
func LoadFromViper(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")

	v.SetDefault("battle.level", 50)
	v.SetDefault("battle.max_turns", 200)
	v.SetDefault("battle.deterministic", true)

	v.SetDefault("catalog.creatures_dir", "content/creatures")
}
