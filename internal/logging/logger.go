package logging

import (
	"fmt"
	"os"
	"strings"
	"sync/atomic"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// logger is read from lookup and apply goroutines, so every access goes
// through the atomic pointer.
var logger atomic.Pointer[zap.Logger]

func init() {
	logger.Store(zap.NewNop())
}

// LogLevelEnvVar is the environment variable that controls logging verbosity.
// When unset or empty, logging is silent (no zap output).
// Valid values: "debug", "info", "warn", "error"
const LogLevelEnvVar = "WEBNETESCTL_LOG_LEVEL"

// LogFileEnvVar names a file that receives log output instead of stderr.
// The panel owns the terminal, so interactive sessions should set it.
const LogFileEnvVar = "WEBNETESCTL_LOG_FILE"

// ParseLevel maps a level name to a zap level. Unknown names map to info.
func ParseLevel(level string) zapcore.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return zapcore.DebugLevel
	case "info":
		return zapcore.InfoLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// Initialize creates a new logger with the specified level.
// If level is empty, it checks WEBNETESCTL_LOG_LEVEL environment variable.
// If neither is set, logging is disabled (silent mode).
// Output goes to WEBNETESCTL_LOG_FILE when set, stderr otherwise.
func Initialize(level string) error {
	return InitializeFile(level, "")
}

// InitializeFile is Initialize for sessions that own the terminal: without
// WEBNETESCTL_LOG_FILE the output goes to defaultPath instead of stderr.
// An empty defaultPath keeps stderr.
func InitializeFile(level, defaultPath string) error {
	if level == "" {
		level = os.Getenv(LogLevelEnvVar)
	}

	if level == "" {
		logger.Store(zap.NewNop())
		return nil
	}

	output := "stderr"
	if path := os.Getenv(LogFileEnvVar); path != "" {
		output = path
	} else if defaultPath != "" {
		output = defaultPath
	}

	config := zap.Config{
		Level:            zap.NewAtomicLevelAt(ParseLevel(level)),
		Development:      false,
		Encoding:         "console",
		EncoderConfig:    zap.NewDevelopmentEncoderConfig(),
		OutputPaths:      []string{output},
		ErrorOutputPaths: []string{output},
	}

	config.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	if output == "stderr" {
		config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	config.EncoderConfig.EncodeCaller = zapcore.ShortCallerEncoder

	l, err := config.Build()
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	logger.Store(l)
	return nil
}

// InitializeFromEnv initializes the logger from the WEBNETESCTL_LOG_LEVEL
// environment variable.
func InitializeFromEnv() error {
	return Initialize("")
}

// SetLogger replaces the global logger. Tests use it with zaptest/observer.
// A nil logger silences logging.
func SetLogger(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	logger.Store(l)
}

// GetLogger returns the global logger instance
func GetLogger() *zap.Logger {
	return logger.Load()
}

// Info logs an info message
func Info(msg string, fields ...zap.Field) {
	GetLogger().Info(msg, fields...)
}

// Debug logs a debug message
func Debug(msg string, fields ...zap.Field) {
	GetLogger().Debug(msg, fields...)
}

// Warn logs a warning message
func Warn(msg string, fields ...zap.Field) {
	GetLogger().Warn(msg, fields...)
}

// Error logs an error message
func Error(msg string, fields ...zap.Field) {
	GetLogger().Error(msg, fields...)
}

// Fatal logs a fatal message and exits
func Fatal(msg string, fields ...zap.Field) {
	GetLogger().Fatal(msg, fields...)
}

// LogDraft logs an editing session event together with the document digest
func LogDraft(event string, digest string, fields ...zap.Field) {
	all := append([]zap.Field{
		zap.String("event", event),
		zap.String("digest", digest),
	}, fields...)
	Debug("Draft event", all...)
}

// LogLookup logs the outcome of a status lookup. Failures are warnings since
// the status card simply leaves the field empty.
func LogLookup(source string, outcome string, fields ...zap.Field) {
	all := append([]zap.Field{
		zap.String("source", source),
		zap.String("outcome", outcome),
	}, fields...)

	if outcome == "failed" {
		Warn("Lookup failed", all...)
		return
	}
	Debug("Lookup completed", all...)
}

// LogApply logs delivery of a configuration document to one target
func LogApply(target string, digest string, err error) {
	if err != nil {
		Error("Apply failed",
			zap.String("target", target),
			zap.String("digest", digest),
			zap.Error(err),
		)
		return
	}
	Info("Configuration applied",
		zap.String("target", target),
		zap.String("digest", digest),
	)
}

// Sync flushes any buffered log entries
func Sync() {
	_ = GetLogger().Sync()
}
