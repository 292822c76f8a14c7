// Package config provides Viper-based hierarchical configuration management
package config

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/Yolt-group/accounts-and-transactions-sub000/internal/attribute"
	"github.com/Yolt-group/accounts-and-transactions-sub000/internal/logging"
	"github.com/Yolt-group/accounts-and-transactions-sub000/internal/reconciler"
	"github.com/Yolt-group/accounts-and-transactions-sub000/internal/store"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. TXRECON_LOG_LEVEL.
const EnvPrefix = "TXRECON"

// Config represents the complete application configuration
type Config struct {
	Log            LogConfig                 `mapstructure:"log" yaml:"log"`
	CSV            CSVConfig                 `mapstructure:"csv" yaml:"csv"`
	Reconciliation ReconciliationConfig      `mapstructure:"reconciliation" yaml:"reconciliation"`
	Store          StoreConfig               `mapstructure:"store" yaml:"store"`
	Providers      map[string]ProviderConfig `mapstructure:"providers" yaml:"providers"`
}

// LogConfig selects level and output format.
type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// CSVConfig applies to every CSV file read or written.
type CSVConfig struct {
	Delimiter string `mapstructure:"delimiter" yaml:"delimiter"`
}

// ReconciliationConfig holds the settings shared by all strategies.
type ReconciliationConfig struct {
	BackfillThresholdDays int    `mapstructure:"backfill_threshold_days" yaml:"backfill_threshold_days"`
	DefaultAlgorithm      string `mapstructure:"default_algorithm" yaml:"default_algorithm"`
}

// StoreConfig selects where stored transactions live.
type StoreConfig struct {
	Driver string `mapstructure:"driver" yaml:"driver"`
	Path   string `mapstructure:"path" yaml:"path"`
}

// ProviderConfig describes how one provider is reconciled.
type ProviderConfig struct {
	Algorithm  string          `mapstructure:"algorithm" yaml:"algorithm"`
	Active     string          `mapstructure:"active" yaml:"active,omitempty"`
	Passive    string          `mapstructure:"passive" yaml:"passive,omitempty"`
	SyncWindow string          `mapstructure:"sync_window" yaml:"sync_window,omitempty"`
	Matchers   []MatcherConfig `mapstructure:"matchers" yaml:"matchers,omitempty"`
}

// MatcherConfig is one equality matcher of an attribute chain.
type MatcherConfig struct {
	Name       string            `mapstructure:"name" yaml:"name"`
	Attributes []AttributeConfig `mapstructure:"attributes" yaml:"attributes"`
}

// AttributeConfig names one attribute of a matcher key.
type AttributeConfig struct {
	Name     string `mapstructure:"name" yaml:"name"`
	Required bool   `mapstructure:"required" yaml:"required,omitempty"`
}

// InitializeConfig initializes Viper configuration with hierarchical loading
func InitializeConfig() (*Config, error) {
	return LoadConfig("")
}

// LoadConfig loads configuration from configFile, or from the default
// locations when configFile is empty. Environment variables win over the file.
func LoadConfig(configFile string) (*Config, error) {
	v := viper.New()

	// 1. Set defaults
	setDefaults(v)

	// 2. Config file locations
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("$HOME/.txrecon")
		v.AddConfigPath(".txrecon")
		v.AddConfigPath(".")
	}

	// 3. Environment variables
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// 4. Read config file (optional unless named explicitly)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// 5. Validate configuration
	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetDefault("csv.delimiter", ",")

	v.SetDefault("reconciliation.backfill_threshold_days", 7)
	v.SetDefault("reconciliation.default_algorithm", reconciler.AlgorithmExternalID)

	v.SetDefault("store.driver", store.DriverCSV)
	v.SetDefault("store.path", "transactions.csv")
}

var algorithms = map[string]bool{
	reconciler.AlgorithmExternalID:    true,
	reconciler.AlgorithmAttribute:     true,
	reconciler.AlgorithmDelta:         true,
	reconciler.AlgorithmActivePassive: true,
}

var syncWindows = map[string]bool{
	"":                             true,
	reconciler.SyncWindowAllen:     true,
	reconciler.SyncWindowUnbounded: true,
}

// validateConfig validates the configuration values
func validateConfig(config *Config) error {
	if _, err := logrus.ParseLevel(config.Log.Level); err != nil {
		return fmt.Errorf("invalid log level: %s", config.Log.Level)
	}

	if config.Log.Format != "text" && config.Log.Format != "json" {
		return fmt.Errorf("invalid log format: %s (must be 'text' or 'json')", config.Log.Format)
	}

	if utf8.RuneCountInString(config.CSV.Delimiter) != 1 {
		return fmt.Errorf("CSV delimiter must be a single character, got: %s", config.CSV.Delimiter)
	}

	if config.Reconciliation.BackfillThresholdDays < 0 {
		return fmt.Errorf("reconciliation.backfill_threshold_days must not be negative, got: %d", config.Reconciliation.BackfillThresholdDays)
	}
	if algo := config.Reconciliation.DefaultAlgorithm; algo == reconciler.AlgorithmActivePassive || (algo != "" && !algorithms[algo]) {
		return fmt.Errorf("invalid default algorithm: %s", algo)
	}

	switch config.Store.Driver {
	case store.DriverMemory:
	case store.DriverCSV, store.DriverSQLite:
		if config.Store.Path == "" {
			return fmt.Errorf("store.path is required for the %s driver", config.Store.Driver)
		}
	default:
		return fmt.Errorf("invalid store driver: %s (must be memory, csv or sqlite)", config.Store.Driver)
	}

	names := make([]string, 0, len(config.Providers))
	for name := range config.Providers {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if err := validateProvider(config.Providers[name]); err != nil {
			return fmt.Errorf("provider %s: %w", name, err)
		}
	}

	return nil
}

func validateProvider(p ProviderConfig) error {
	if !algorithms[p.Algorithm] {
		return fmt.Errorf("invalid algorithm: %q", p.Algorithm)
	}
	if p.Algorithm == reconciler.AlgorithmActivePassive {
		if p.Passive == "" {
			return errors.New("active-passive requires a passive algorithm")
		}
		for _, algo := range []string{p.Active, p.Passive} {
			if algo == reconciler.AlgorithmActivePassive || (algo != "" && !algorithms[algo]) {
				return fmt.Errorf("invalid active/passive algorithm: %q", algo)
			}
		}
	}
	if !syncWindows[p.SyncWindow] {
		return fmt.Errorf("invalid sync window: %q", p.SyncWindow)
	}
	for _, m := range p.Matchers {
		if m.Name == "" {
			return errors.New("matcher without a name")
		}
		if len(m.Attributes) == 0 {
			return fmt.Errorf("matcher %s has no attributes", m.Name)
		}
		for _, a := range m.Attributes {
			if _, ok := attribute.Lookup(a.Name); !ok {
				return fmt.Errorf("matcher %s: unknown attribute %q", m.Name, a.Name)
			}
		}
	}
	return nil
}

// ProviderSpecs converts the provider section for the strategy registry.
func (c *Config) ProviderSpecs() map[string]reconciler.ProviderSpec {
	specs := make(map[string]reconciler.ProviderSpec, len(c.Providers))
	for name, p := range c.Providers {
		spec := reconciler.ProviderSpec{
			Algorithm:  p.Algorithm,
			Active:     p.Active,
			Passive:    p.Passive,
			SyncWindow: p.SyncWindow,
		}
		for _, m := range p.Matchers {
			ms := reconciler.MatcherSpec{Name: m.Name}
			for _, a := range m.Attributes {
				ms.Attributes = append(ms.Attributes, reconciler.AttributeSpec{Name: a.Name, Required: a.Required})
			}
			spec.Matchers = append(spec.Matchers, ms)
		}
		specs[name] = spec
	}
	return specs
}

// DelimiterRune returns the configured CSV delimiter.
func (c *Config) DelimiterRune() rune {
	r, _ := utf8.DecodeRuneInString(c.CSV.Delimiter)
	return r
}

// ConfigureLoggingFromConfig configures logging based on the Config struct
func ConfigureLoggingFromConfig(config *Config) *logrus.Logger {
	return logging.NewLogrusLogger(config.Log.Level, config.Log.Format)
}
