package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Yolt-group/accounts-and-transactions-sub000/internal/logging"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadEnv(t *testing.T) {
	const key = "TXRECON_TEST_FROM_DOTENV"
	require.NoError(t, os.Unsetenv(key))
	t.Cleanup(func() { _ = os.Unsetenv(key) })

	envFile := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(envFile, []byte(key+"=loaded\n"), 0600))

	logger := logging.NewMockLogger()
	loaded, err := LoadEnv(logger, filepath.Join(t.TempDir(), "missing.env"), envFile)
	require.NoError(t, err)
	assert.Equal(t, envFile, loaded)
	assert.Equal(t, "loaded", os.Getenv(key))
	assert.True(t, logger.HasEntry("DEBUG", "Loaded environment variables"))
}

func TestLoadEnv_KeepsExistingVariables(t *testing.T) {
	const key = "TXRECON_TEST_EXISTING"
	t.Setenv(key, "from-env")

	envFile := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(envFile, []byte(key+"=from-file\n"), 0600))

	_, err := LoadEnv(nil, envFile)
	require.NoError(t, err)
	assert.Equal(t, "from-env", os.Getenv(key))
}

func TestLoadEnv_NoFile(t *testing.T) {
	loaded, err := LoadEnv(logging.NewMockLogger(), filepath.Join(t.TempDir(), "none.env"))
	require.NoError(t, err)
	assert.Empty(t, loaded)
}

func TestGetEnv(t *testing.T) {
	t.Setenv("TXRECON_TEST_GETENV", "value")
	assert.Equal(t, "value", GetEnv("TXRECON_TEST_GETENV", "fallback"))
	assert.Equal(t, "fallback", GetEnv("TXRECON_TEST_GETENV_UNSET", "fallback"))
}
