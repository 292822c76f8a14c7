package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Yolt-group/accounts-and-transactions-sub000/internal/reconciler"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const providerConfig = `
log:
  level: "warn"
  format: "json"
csv:
  delimiter: ";"
reconciliation:
  backfill_threshold_days: 10
store:
  driver: sqlite
  path: /tmp/transactions.db
providers:
  BANK_A:
    algorithm: attribute
    sync_window: unbounded
    matchers:
      - name: by-reference
        attributes:
          - name: external_id
            required: true
          - name: amount
  BANK_B:
    algorithm: active-passive
    active: external-id
    passive: attribute
  BANK_C:
    algorithm: delta
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func chdir(t *testing.T, dir string) {
	t.Helper()
	originalDir, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(originalDir) })
}

func TestInitializeConfig_Defaults(t *testing.T) {
	chdir(t, t.TempDir())

	config, err := InitializeConfig()
	require.NoError(t, err)

	assert.Equal(t, "info", config.Log.Level)
	assert.Equal(t, "text", config.Log.Format)
	assert.Equal(t, ",", config.CSV.Delimiter)
	assert.Equal(t, ',', config.DelimiterRune())
	assert.Equal(t, 7, config.Reconciliation.BackfillThresholdDays)
	assert.Equal(t, reconciler.AlgorithmExternalID, config.Reconciliation.DefaultAlgorithm)
	assert.Equal(t, "csv", config.Store.Driver)
	assert.Equal(t, "transactions.csv", config.Store.Path)
	assert.Empty(t, config.Providers)
}

func TestInitializeConfig_EnvironmentVariables(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("TXRECON_LOG_LEVEL", "debug")
	t.Setenv("TXRECON_LOG_FORMAT", "json")
	t.Setenv("TXRECON_CSV_DELIMITER", "|")
	t.Setenv("TXRECON_RECONCILIATION_BACKFILL_THRESHOLD_DAYS", "3")
	t.Setenv("TXRECON_STORE_DRIVER", "memory")

	config, err := InitializeConfig()
	require.NoError(t, err)

	assert.Equal(t, "debug", config.Log.Level)
	assert.Equal(t, "json", config.Log.Format)
	assert.Equal(t, "|", config.CSV.Delimiter)
	assert.Equal(t, 3, config.Reconciliation.BackfillThresholdDays)
	assert.Equal(t, "memory", config.Store.Driver)
}

func TestLoadConfig_File(t *testing.T) {
	config, err := LoadConfig(writeConfig(t, providerConfig))
	require.NoError(t, err)

	assert.Equal(t, "warn", config.Log.Level)
	assert.Equal(t, ";", config.CSV.Delimiter)
	assert.Equal(t, 10, config.Reconciliation.BackfillThresholdDays)
	assert.Equal(t, "sqlite", config.Store.Driver)
	require.Len(t, config.Providers, 3)

	// viper lower-cases map keys
	bankA, ok := config.Providers["bank_a"]
	require.True(t, ok)
	assert.Equal(t, "attribute", bankA.Algorithm)
	assert.Equal(t, "unbounded", bankA.SyncWindow)
	require.Len(t, bankA.Matchers, 1)
	assert.Equal(t, []AttributeConfig{{Name: "external_id", Required: true}, {Name: "amount"}}, bankA.Matchers[0].Attributes)
}

func TestLoadConfig_DefaultLocation(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("log:\n  level: error\n"), 0600))
	chdir(t, dir)

	config, err := InitializeConfig()
	require.NoError(t, err)
	assert.Equal(t, "error", config.Log.Level)
}

func TestLoadConfig_EnvironmentWinsOverFile(t *testing.T) {
	t.Setenv("TXRECON_LOG_LEVEL", "error")

	config, err := LoadConfig(writeConfig(t, providerConfig))
	require.NoError(t, err)
	assert.Equal(t, "error", config.Log.Level)
	assert.Equal(t, ";", config.CSV.Delimiter)
}

func TestLoadConfig_MissingExplicitFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestLoadConfig_InvalidProvider(t *testing.T) {
	_, err := LoadConfig(writeConfig(t, `
providers:
  broken:
    algorithm: magic
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "provider broken")
}

func TestProviderSpecs(t *testing.T) {
	config, err := LoadConfig(writeConfig(t, providerConfig))
	require.NoError(t, err)

	specs := config.ProviderSpecs()
	require.Len(t, specs, 3)
	assert.Equal(t, reconciler.ProviderSpec{
		Algorithm: reconciler.AlgorithmActivePassive,
		Active:    reconciler.AlgorithmExternalID,
		Passive:   reconciler.AlgorithmAttribute,
	}, specs["bank_b"])
	assert.Equal(t, []reconciler.MatcherSpec{{
		Name: "by-reference",
		Attributes: []reconciler.AttributeSpec{
			{Name: "external_id", Required: true},
			{Name: "amount"},
		},
	}}, specs["bank_a"].Matchers)
}

func validConfig() *Config {
	return &Config{
		Log:            LogConfig{Level: "info", Format: "text"},
		CSV:            CSVConfig{Delimiter: ","},
		Reconciliation: ReconciliationConfig{BackfillThresholdDays: 7, DefaultAlgorithm: reconciler.AlgorithmExternalID},
		Store:          StoreConfig{Driver: "csv", Path: "transactions.csv"},
	}
}

func TestValidateConfig_Valid(t *testing.T) {
	assert.NoError(t, validateConfig(validConfig()))
}

func TestValidateConfig_InvalidValues(t *testing.T) {
	tests := []struct {
		name         string
		modifyConfig func(*Config)
		expectError  string
	}{
		{"invalid log level", func(c *Config) { c.Log.Level = "invalid" }, "invalid log level"},
		{"invalid log format", func(c *Config) { c.Log.Format = "xml" }, "invalid log format"},
		{"invalid CSV delimiter", func(c *Config) { c.CSV.Delimiter = "abc" }, "CSV delimiter must be a single character"},
		{"empty CSV delimiter", func(c *Config) { c.CSV.Delimiter = "" }, "CSV delimiter must be a single character"},
		{"negative threshold", func(c *Config) { c.Reconciliation.BackfillThresholdDays = -1 }, "must not be negative"},
		{"unknown default algorithm", func(c *Config) { c.Reconciliation.DefaultAlgorithm = "magic" }, "invalid default algorithm"},
		{"active-passive as default", func(c *Config) { c.Reconciliation.DefaultAlgorithm = "active-passive" }, "invalid default algorithm"},
		{"unknown store driver", func(c *Config) { c.Store.Driver = "postgres" }, "invalid store driver"},
		{"store without path", func(c *Config) { c.Store.Path = "" }, "store.path is required"},
		{"unknown provider algorithm", func(c *Config) {
			c.Providers = map[string]ProviderConfig{"p": {Algorithm: "magic"}}
		}, "invalid algorithm"},
		{"active-passive without passive", func(c *Config) {
			c.Providers = map[string]ProviderConfig{"p": {Algorithm: "active-passive", Active: "delta"}}
		}, "requires a passive algorithm"},
		{"nested active-passive", func(c *Config) {
			c.Providers = map[string]ProviderConfig{"p": {Algorithm: "active-passive", Passive: "active-passive"}}
		}, "invalid active/passive algorithm"},
		{"unknown sync window", func(c *Config) {
			c.Providers = map[string]ProviderConfig{"p": {Algorithm: "attribute", SyncWindow: "weekly"}}
		}, "invalid sync window"},
		{"unknown attribute", func(c *Config) {
			c.Providers = map[string]ProviderConfig{"p": {Algorithm: "attribute", Matchers: []MatcherConfig{
				{Name: "m", Attributes: []AttributeConfig{{Name: "colour"}}},
			}}}
		}, "unknown attribute"},
		{"matcher without attributes", func(c *Config) {
			c.Providers = map[string]ProviderConfig{"p": {Algorithm: "attribute", Matchers: []MatcherConfig{{Name: "m"}}}}
		}, "has no attributes"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := validConfig()
			tt.modifyConfig(config)
			err := validateConfig(config)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.expectError)
		})
	}
}

func TestValidateConfig_MemoryStoreNeedsNoPath(t *testing.T) {
	config := validConfig()
	config.Store = StoreConfig{Driver: "memory"}
	assert.NoError(t, validateConfig(config))
}

func TestConfigureLoggingFromConfig(t *testing.T) {
	config := validConfig()
	config.Log = LogConfig{Level: "debug", Format: "json"}

	logger := ConfigureLoggingFromConfig(config)
	assert.Equal(t, logrus.DebugLevel, logger.GetLevel())
	assert.IsType(t, &logrus.JSONFormatter{}, logger.Formatter)

	config.Log = LogConfig{Level: "bogus", Format: "text"}
	logger = ConfigureLoggingFromConfig(config)
	assert.Equal(t, logrus.InfoLevel, logger.GetLevel())
	assert.IsType(t, &logrus.TextFormatter{}, logger.Formatter)
}
