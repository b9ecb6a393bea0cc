// Package logging builds the zap loggers used for diagnostics. Diagnostics
// always go to stderr; stdout is reserved for the event log.
package logging

import (
	"errors"
	"fmt"
	"strings"
	"syscall"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Level enumerates supported logging granularities.
type Level string

const (
	LevelDebug Level = "debug"
	LevelInfo  Level = "info"
	LevelWarn  Level = "warn"
	LevelError Level = "error"
)

// Format enumerates supported logger encodings.
type Format string

const (
	FormatStructured Format = "structured"
	FormatConsole    Format = "console"
)

var levelMapping = map[Level]zapcore.Level{
	LevelDebug: zapcore.DebugLevel,
	LevelInfo:  zapcore.InfoLevel,
	LevelWarn:  zapcore.WarnLevel,
	LevelError: zapcore.ErrorLevel,
}

var formatEncodingMapping = map[Format]string{
	FormatStructured: "json",
	FormatConsole:    "console",
}

// Factory builds zap.Logger instances with consistent configuration.
type Factory struct {
	outputPaths []string
}

// NewFactory returns a factory writing to stderr.
func NewFactory() *Factory {
	return &Factory{outputPaths: []string{"stderr"}}
}

// NewFactoryWithOutputs returns a factory writing to the given zap sinks
// (file paths, "stdout" or "stderr").
func NewFactoryWithOutputs(outputPaths ...string) *Factory {
	return &Factory{outputPaths: outputPaths}
}

// ParseLevel normalizes a level name.
func ParseLevel(value string) (Level, error) {
	level := Level(strings.ToLower(strings.TrimSpace(value)))
	if _, ok := levelMapping[level]; !ok {
		return "", fmt.Errorf("unsupported log level: %s", value)
	}
	return level, nil
}

// ParseFormat normalizes a format name.
func ParseFormat(value string) (Format, error) {
	format := Format(strings.ToLower(strings.TrimSpace(value)))
	if _, ok := formatEncodingMapping[format]; !ok {
		return "", fmt.Errorf("unsupported log format: %s", value)
	}
	return format, nil
}

// Create produces a logger honoring the requested level and format.
func (f *Factory) Create(level Level, format Format) (*zap.Logger, error) {
	zapLevel, ok := levelMapping[level]
	if !ok {
		return nil, fmt.Errorf("unsupported log level: %s", level)
	}
	encoding, ok := formatEncodingMapping[format]
	if !ok {
		return nil, fmt.Errorf("unsupported log format: %s", format)
	}

	configuration := zap.NewProductionConfig()
	configuration.Level = zap.NewAtomicLevelAt(zapLevel)
	configuration.Encoding = encoding
	configuration.OutputPaths = f.outputPaths
	configuration.ErrorOutputPaths = []string{"stderr"}
	if format == FormatConsole {
		configuration.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		configuration.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	}

	logger, err := configuration.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}
	return logger, nil
}

// Sync flushes logger, ignoring the errors terminals report for stderr.
func Sync(logger *zap.Logger) error {
	if logger == nil {
		return nil
	}
	err := logger.Sync()
	switch {
	case err == nil:
		return nil
	case errors.Is(err, syscall.ENOTSUP), errors.Is(err, syscall.EINVAL), errors.Is(err, syscall.ENOTTY):
		return nil
	default:
		return err
	}
}
