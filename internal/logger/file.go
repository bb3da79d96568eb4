package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	// installLogMaxSizeMB caps a single install log file before rollover.
	installLogMaxSizeMB = 10

	// installLogMaxBackups is how many rolled-over log files are kept around.
	installLogMaxBackups = 3
)

// NewWithFile creates a sugared logger that writes colored console output
// and, in parallel, appends timestamped plain lines to the install log at path.
// The file is created on first write; writes are append-only.
func NewWithFile(level zapcore.LevelEnabler, path string, options ...zap.Option) *zap.SugaredLogger {
	if level == nil {
		level = defaultLevel
	}

	//nolint:exhaustruct // Default encoder configuration values are fine here.
	fileEncoder := zapcore.NewConsoleEncoder(zapcore.EncoderConfig{
		MessageKey:       "message",
		LevelKey:         "level",
		TimeKey:          "time",
		NameKey:          "name",
		LineEnding:       zapcore.DefaultLineEnding,
		EncodeLevel:      zapcore.CapitalLevelEncoder,
		EncodeTime:       zapcore.ISO8601TimeEncoder,
		EncodeDuration:   zapcore.StringDurationEncoder,
		ConsoleSeparator: " - ",
	})

	fileSink := zapcore.AddSync(&lumberjack.Logger{
		Filename:   path,
		MaxSize:    installLogMaxSizeMB,
		MaxBackups: installLogMaxBackups,
	})

	core := zapcore.NewTee(
		New(level).Desugar().Core(),
		zapcore.NewCore(fileEncoder, fileSink, level),
	)

	return zap.New(core, options...).Sugar()
}
