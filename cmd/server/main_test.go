package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zapcore"

	"github.com/erilshackle/vinti4-payment-service/internal/config"
)

func TestInitLogger_LevelFromConfig(t *testing.T) {
	logger := initLogger(config.LoggerConfig{Level: "warn"})

	assert.False(t, logger.Core().Enabled(zapcore.InfoLevel))
	assert.True(t, logger.Core().Enabled(zapcore.WarnLevel))
}

func TestInitLogger_UnknownLevelDefaultsToInfo(t *testing.T) {
	logger := initLogger(config.LoggerConfig{Level: "chatty"})

	assert.True(t, logger.Core().Enabled(zapcore.InfoLevel))
	assert.False(t, logger.Core().Enabled(zapcore.DebugLevel))
}

func TestInitLogger_DevelopmentMode(t *testing.T) {
	logger := initLogger(config.LoggerConfig{Level: "debug", Development: true})

	assert.True(t, logger.Core().Enabled(zapcore.DebugLevel))
}
