package common

import (
	"fmt"

	"go.uber.org/zap"
)

// NewLogger builds the engine logger.
// An empty level defaults to "info". Development loggers write human readable console output, production loggers write JSON.
//
// Parameters:
//   - level: a zap level name (debug, info, warn, error)
//   - development: selects the development encoder and stack traces on warnings
//
// Returns:
//   - *zap.Logger: the configured logger
//   - error: error if the level cannot be parsed or the logger fails to build
func NewLogger(level string, development bool) (*zap.Logger, error) {
	lvl, err := zap.ParseAtomicLevel(Coalesce(level, "info"))
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}

	cfg := zap.NewProductionConfig()
	if development {
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.Level = lvl
	return cfg.Build()
}
