// Package env wraps dotenv loading and required-variable lookups for the
// credentials the sinks and sources read from the environment.
package env

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// Load pulls a .env file into the environment when one exists; running
// without one (e.g. in a container with injected env vars) is fine.
func Load(log *logrus.Logger) {
	if err := godotenv.Load(); err != nil {
		log.Debug("no .env file found, assuming environment variables are set directly")
	}
}

// MustGet fails the process when a required variable is missing.
func MustGet(log *logrus.Logger, key string) string {
	val, ok := os.LookupEnv(key)
	if !ok {
		log.Fatalf("environment variable %s not set", key)
	}
	return val
}

// Get returns the variable's value or a fallback.
func Get(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return fallback
}
