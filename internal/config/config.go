package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/Yolt-group/accounts-and-transactions-sub000/internal/logging"

	"github.com/joho/godotenv"
)

// LoadEnv loads environment variables from the first .env file found among
// files, or in the current or parent directory when none are given. Variables
// already set in the environment are kept. It returns the loaded file, or ""
// when there was none.
func LoadEnv(logger logging.Logger, files ...string) (string, error) {
	if logger == nil {
		logger = logging.GetLogger()
	}
	if len(files) == 0 {
		files = []string{".env", filepath.Join("..", ".env")}
	}

	for _, envFile := range files {
		if _, err := os.Stat(envFile); errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(envFile); err != nil {
			return "", fmt.Errorf("error loading %s: %w", envFile, err)
		}
		logger.Debug("Loaded environment variables", logging.F(logging.FieldInputFile, envFile))
		return envFile, nil
	}

	logger.Debug("No .env file found, using environment variables")
	return "", nil
}

// GetEnv retrieves an environment variable with a fallback value if not set
func GetEnv(key, fallback string) string {
	value, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	return value
}
