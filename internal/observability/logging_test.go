package observability

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/cory-johannsen/charsheet/internal/config"
)

func TestNewLogger_JSON(t *testing.T) {
	cfg := config.LoggingConfig{Level: "info", Format: "json"}
	logger, err := NewLogger(cfg)
	require.NoError(t, err)
	assert.NotNil(t, logger)
}

func TestNewLogger_Console(t *testing.T) {
	cfg := config.LoggingConfig{Level: "debug", Format: "console"}
	logger, err := NewLogger(cfg)
	require.NoError(t, err)
	assert.NotNil(t, logger)
}

func TestNewLogger_InvalidLevel(t *testing.T) {
	cfg := config.LoggingConfig{Level: "trace", Format: "json"}
	_, err := NewLogger(cfg)
	assert.Error(t, err)
}

func TestNewLogger_InvalidFormat(t *testing.T) {
	cfg := config.LoggingConfig{Level: "info", Format: "xml"}
	_, err := NewLogger(cfg)
	assert.Error(t, err)
}

func TestNewLogger_AllLevels(t *testing.T) {
	for _, level := range []string{"debug", "info", "warn", "error"} {
		cfg := config.LoggingConfig{Level: level, Format: "json"}
		logger, err := NewLogger(cfg)
		require.NoError(t, err, "level %q should be valid", level)
		assert.NotNil(t, logger)
	}
}

func TestNewLogger_LevelGatesCore(t *testing.T) {
	logger, err := NewLogger(config.LoggingConfig{Level: "warn", Format: "console"})
	require.NoError(t, err)
	assert.False(t, logger.Core().Enabled(zapcore.InfoLevel))
	assert.True(t, logger.Core().Enabled(zapcore.WarnLevel))
}

func TestBuildConfig_WritesToStderrWithService(t *testing.T) {
	for _, format := range []string{"json", "console"} {
		zapCfg, err := buildConfig(config.LoggingConfig{Level: "info", Format: format})
		require.NoError(t, err)
		assert.Equal(t, []string{"stderr"}, zapCfg.OutputPaths, format)
		assert.Equal(t, ServiceName, zapCfg.InitialFields["service"], format)
	}
}

func TestBuildConfig_ConsoleHasNoStacktraces(t *testing.T) {
	zapCfg, err := buildConfig(config.LoggingConfig{Level: "debug", Format: "console"})
	require.NoError(t, err)
	assert.True(t, zapCfg.DisableStacktrace)
}

func TestForSheet_AddsSheetField(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	ForSheet(zap.New(core), "tordek.yaml").Info("built")
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "tordek.yaml", logs.All()[0].ContextMap()["sheet"])
}
