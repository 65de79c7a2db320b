package config

import (
	"os"

	"go.uber.org/zap"
)

// NewLogger builds the application logger. Set LOG_LEVEL=debug for the
// human-readable development config.
func NewLogger() (*zap.Logger, error) {
	if os.Getenv("LOG_LEVEL") == "debug" {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
