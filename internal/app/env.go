package app

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

const (
	EnvDB       = "MEALWISE_DB"
	EnvAddr     = "MEALWISE_ADDR"
	EnvLogLevel = "MEALWISE_LOG_LEVEL"
	EnvFoodsURL = "MEALWISE_OFF_URL"

	DefaultAddr = "127.0.0.1:8080"
)

// LoadEnv reads .env (or the given files) into the process environment.
// Variables already set win, and a missing file is not an error.
func LoadEnv(files ...string) error {
	if err := godotenv.Load(files...); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load env file: %w", err)
	}
	return nil
}

// ResolveDBPath picks the database path: flag, then MEALWISE_DB, then the
// per-user config directory.
func ResolveDBPath(flagValue string) (string, error) {
	if v := strings.TrimSpace(flagValue); v != "" {
		return v, nil
	}
	if v := strings.TrimSpace(os.Getenv(EnvDB)); v != "" {
		return v, nil
	}
	return DefaultDBPath()
}

func ResolveAddr(flagValue string) string {
	if v := strings.TrimSpace(flagValue); v != "" {
		return v
	}
	if v := strings.TrimSpace(os.Getenv(EnvAddr)); v != "" {
		return v
	}
	return DefaultAddr
}

// FoodsAPIURL is the Open Food Facts base URL override; empty means the
// public instance.
func FoodsAPIURL() string {
	return strings.TrimSpace(os.Getenv(EnvFoodsURL))
}
