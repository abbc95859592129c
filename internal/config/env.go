package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
)

// Environment variables that override file configuration.
const (
	EnvDB       = "TUIVOC_DB"
	EnvLogLevel = "TUIVOC_LOG_LEVEL"
)

// LoadEnv loads variables from the given .env files into the process
// environment. Missing files are skipped and variables that are already set
// keep their value.
func LoadEnv(paths ...string) error {
	existing := make([]string, 0, len(paths))
	for _, path := range paths {
		if _, err := os.Stat(path); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("failed to stat env file: %w", err)
		}
		existing = append(existing, path)
	}
	if len(existing) == 0 {
		return nil
	}
	if err := godotenv.Load(existing...); err != nil {
		return fmt.Errorf("failed to load env file: %w", err)
	}
	return nil
}

// LogLevel returns the log level from the environment, falling back to the
// file value and then to "info".
func LogLevel(file *string) string {
	if v := os.Getenv(EnvLogLevel); v != "" {
		return v
	}
	if file != nil && *file != "" {
		return *file
	}
	return "info"
}
