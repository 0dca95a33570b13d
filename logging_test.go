package forest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestDefaultLogger_Levels(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	logger := NewLoggerWithCore(core, false)

	logger.Debugf("hidden %d", 1)
	logger.Infof("info %d", 2)
	logger.Warnf("warn")
	logger.Errorf("error")
	assert.False(t, logger.DebugEnabled())

	logger.SetDebug(true)
	assert.True(t, logger.DebugEnabled())
	logger.Debugf("shown %d", 3)

	entries := logs.AllUntimed()
	require.Len(t, entries, 4)
	assert.Equal(t, "info 2", entries[0].Message)
	assert.Equal(t, zapcore.WarnLevel, entries[1].Level)
	assert.Equal(t, zapcore.ErrorLevel, entries[2].Level)
	assert.Equal(t, "shown 3", entries[3].Message)
}

func TestNewDefaultLogger_Encodings(t *testing.T) {
	for _, enc := range []string{"", "console", "json"} {
		logger, err := NewDefaultLogger("test", true, enc)
		require.NoError(t, err, enc)
		assert.True(t, logger.DebugEnabled())
	}

	_, err := NewDefaultLogger("test", false, "xml")
	assert.Error(t, err)
}

func TestLoggingModule_InstallsAppLogger(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	logger := NewLoggerWithCore(core, true)

	app := NewAppBuilder().UseModule(LoggingModule{Logger: logger}).Build()
	assert.Same(t, logger, app.Logger())
	require.NotNil(t, Resource[LoggerResource](app))

	app.UseSystem(System(func(l *LoggerResource) { l.Infof("from system") }))
	app.Step()
	assert.Equal(t, 1, logs.FilterMessage("from system").Len())
}

func TestApp_LoggerDefaultsToNop(t *testing.T) {
	var nilApp *App
	assert.NotNil(t, nilApp.Logger())

	app := NewAppBuilder().Build()
	assert.NotPanics(t, func() { app.Logger().Errorf("dropped") })
	assert.False(t, app.Logger().DebugEnabled())
}
