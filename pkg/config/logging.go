// pkg/config/logging.go
package config

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// BuildLogger constructs the process logger from the LogLevel and
// LogFormat settings. Unknown values fall back to info/json.
func (c *Config) BuildLogger() (*zap.Logger, error) {
	level := zapcore.InfoLevel
	if err := level.Set(c.LogLevel); err != nil {
		level = zapcore.InfoLevel
	}

	var zcfg zap.Config
	if c.LogFormat == "console" {
		zcfg = zap.NewDevelopmentConfig()
	} else {
		zcfg = zap.NewProductionConfig()
	}
	zcfg.Level = zap.NewAtomicLevelAt(level)

	return zcfg.Build()
}
