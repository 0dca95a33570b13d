package forest

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Logger interface {
	DebugEnabled() bool
	SetDebug(enabled bool)
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}

// DefaultLogger wraps a zap sugared logger behind an adjustable level.
type DefaultLogger struct {
	level zap.AtomicLevel
	sugar *zap.SugaredLogger
}

// NewDefaultLogger builds a logger writing to stderr. encoding is "console" or "json".
func NewDefaultLogger(prefix string, debug bool, encoding string) (*DefaultLogger, error) {
	if encoding == "" {
		encoding = "console"
	}

	level := zap.NewAtomicLevelAt(toZapLevel(debug))
	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	if encoding == "console" {
		encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	}

	config := zap.Config{
		Level:            level,
		Development:      false,
		Encoding:         encoding,
		EncoderConfig:    encoderConfig,
		OutputPaths:      []string{"stderr"},
		ErrorOutputPaths: []string{"stderr"},
		DisableCaller:    true,
	}

	zapLogger, err := config.Build()
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	if prefix != "" {
		zapLogger = zapLogger.Named(prefix)
	}

	return &DefaultLogger{level: level, sugar: zapLogger.Sugar()}, nil
}

// NewLoggerWithCore wraps an existing core, e.g. zaptest/observer in tests.
// The core must accept at least debug entries; level gates them.
func NewLoggerWithCore(core zapcore.Core, debug bool) *DefaultLogger {
	level := zap.NewAtomicLevelAt(toZapLevel(debug))
	return &DefaultLogger{level: level, sugar: zap.New(core, zap.IncreaseLevel(level)).Sugar()}
}

func toZapLevel(debug bool) zapcore.Level {
	if debug {
		return zap.DebugLevel
	}
	return zap.InfoLevel
}

func (l *DefaultLogger) DebugEnabled() bool {
	return l.level.Enabled(zap.DebugLevel)
}

func (l *DefaultLogger) SetDebug(enabled bool) {
	l.level.SetLevel(toZapLevel(enabled))
}

func (l *DefaultLogger) Debugf(format string, args ...any) {
	l.sugar.Debugf(format, args...)
}

func (l *DefaultLogger) Infof(format string, args ...any) {
	l.sugar.Infof(format, args...)
}

func (l *DefaultLogger) Warnf(format string, args ...any) {
	l.sugar.Warnf(format, args...)
}

func (l *DefaultLogger) Errorf(format string, args ...any) {
	l.sugar.Errorf(format, args...)
}

// Sync flushes buffered entries.
func (l *DefaultLogger) Sync() error {
	return l.sugar.Sync()
}

// LoggingModule installs a logger as a resource and as the app logger.
// A nil Logger builds a DefaultLogger from the remaining fields.
type LoggingModule struct {
	Prefix   string
	Debug    bool
	Encoding string
	Logger   Logger
}

func (m LoggingModule) Install(app *App, cmd *Commands) {
	logger := m.Logger
	if logger == nil {
		l, err := NewDefaultLogger(m.Prefix, m.Debug, m.Encoding)
		if err != nil {
			panic(err)
		}
		logger = l
	}
	app.logger = logger
	app.addResources(&LoggerResource{Logger: logger})
}

// LoggerResource exposes the app logger to systems.
type LoggerResource struct {
	Logger
}

type nopLogger struct{}

func NewNopLogger() Logger                          { return nopLogger{} }
func (nopLogger) DebugEnabled() bool                { return false }
func (nopLogger) SetDebug(enabled bool)             {}
func (nopLogger) Debugf(format string, args ...any) {}
func (nopLogger) Infof(format string, args ...any)  {}
func (nopLogger) Warnf(format string, args ...any)  {}
func (nopLogger) Errorf(format string, args ...any) {}

// Logger returns the installed logger, or a no-op logger. Never nil.
func (app *App) Logger() Logger {
	if app == nil || app.logger == nil {
		return NewNopLogger()
	}
	return app.logger
}
