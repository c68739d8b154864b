/*
Copyright © 2025 Acronis International GmbH.

Released under MIT license.
*/

// Package log provides the structured logger used across the storefront packages.
// It's a thin layer over logf with JSON or text output to stdout, stderr or a rotated file.
package log

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/ssgreg/logf"
	"github.com/ssgreg/logftext"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Field is a single key-value pair of a log entry.
type Field = logf.Field

// CloseFunc flushes buffered entries and stops the writer.
type CloseFunc logf.ChannelWriterCloseFunc

// LogFunc logs a message at a bound level.
// nolint: revive
type LogFunc = logf.LogFunc

// Field constructors.
var (
	Error  = logf.Error
	String = logf.String
	Bytes  = logf.Bytes
	Int    = logf.Int
	Int64  = logf.Int64
)

// DurationIn returns the "duration" field with val expressed in whole units.
func DurationIn(val, unit time.Duration) Field {
	return Int64("duration", val.Nanoseconds()/unit.Nanoseconds())
}

// FieldLogger is the logger interface accepted by all packages of the module.
type FieldLogger interface {
	With(...Field) FieldLogger

	Debug(string, ...Field)
	Info(string, ...Field)
	Warn(string, ...Field)
	Error(string, ...Field)

	Debugf(string, ...interface{})
	Infof(string, ...interface{})
	Warnf(string, ...interface{})
	Errorf(string, ...interface{})

	AtLevel(Level, func(LogFunc))
	WithLevel(level Level) FieldLogger
}

// LogfAdapter implements FieldLogger on top of logf.Logger.
type LogfAdapter struct {
	Logger *logf.Logger
}

var _ FieldLogger = (*LogfAdapter)(nil)

// NewDisabledLogger returns a logger that drops everything.
func NewDisabledLogger() FieldLogger {
	return &LogfAdapter{logf.NewDisabledLogger()}
}

// NewLogger builds a logger from cfg. Every entry gets the "pid" field.
// The returned CloseFunc must be called before exit, otherwise buffered entries may be lost.
func NewLogger(cfg *Config) (FieldLogger, CloseFunc) {
	channel, closeFunc := logf.NewChannelWriter(logf.ChannelWriterConfig{
		Appender:          newAppender(cfg),
		EnableSyncOnError: true,
	})
	logger := logf.NewLogger(logfLevel(cfg.Level), channel).With(logf.Int("pid", os.Getpid()))
	if cfg.AddCaller {
		logger = logger.WithCaller().WithCallerSkip(1)
	}
	return &LogfAdapter{logger}, CloseFunc(closeFunc)
}

// With returns a logger that adds fs to every entry.
func (l *LogfAdapter) With(fs ...Field) FieldLogger {
	return &LogfAdapter{l.Logger.With(fs...)}
}

// Debug logs at "debug" level.
func (l *LogfAdapter) Debug(msg string, fs ...Field) { l.Logger.Debug(msg, fs...) }

// Info logs at "info" level.
func (l *LogfAdapter) Info(msg string, fs ...Field) { l.Logger.Info(msg, fs...) }

// Warn logs at "warn" level.
func (l *LogfAdapter) Warn(msg string, fs ...Field) { l.Logger.Warn(msg, fs...) }

// Error logs at "error" level.
func (l *LogfAdapter) Error(msg string, fs ...Field) { l.Logger.Error(msg, fs...) }

// Debugf logs a formatted message at "debug" level.
func (l *LogfAdapter) Debugf(format string, args ...interface{}) { l.logf(LevelDebug, format, args) }

// Infof logs a formatted message at "info" level.
func (l *LogfAdapter) Infof(format string, args ...interface{}) { l.logf(LevelInfo, format, args) }

// Warnf logs a formatted message at "warn" level.
func (l *LogfAdapter) Warnf(format string, args ...interface{}) { l.logf(LevelWarn, format, args) }

// Errorf logs a formatted message at "error" level.
func (l *LogfAdapter) Errorf(format string, args ...interface{}) { l.logf(LevelError, format, args) }

// The message is formatted only when the level is enabled.
func (l *LogfAdapter) logf(level Level, format string, args []interface{}) {
	l.AtLevel(level, func(write LogFunc) {
		write(fmt.Sprintf(format, args...))
	})
}

// AtLevel calls fn only if the level is enabled.
func (l *LogfAdapter) AtLevel(level Level, fn func(logFunc LogFunc)) {
	l.Logger.AtLevel(logfLevel(level), fn)
}

// WithLevel returns a logger that additionally drops messages below level.
func (l *LogfAdapter) WithLevel(level Level) FieldLogger {
	return &LogfAdapter{Logger: l.Logger.WithLevel(logfLevel(level))}
}

var logfLevelByLevel = map[Level]logf.Level{
	LevelError: logf.LevelError,
	LevelWarn:  logf.LevelWarn,
	LevelInfo:  logf.LevelInfo,
	LevelDebug: logf.LevelDebug,
}

// Unknown levels are treated as "info".
func logfLevel(level Level) logf.Level {
	if l, ok := logfLevelByLevel[level]; ok {
		return l
	}
	return logf.LevelInfo
}

func newAppender(cfg *Config) logf.Appender {
	var w io.Writer
	switch cfg.Output {
	case OutputFile:
		w = &lumberjack.Logger{
			Filename:   expandFilePath(cfg.File.Path, time.Now()),
			MaxSize:    int(cfg.File.Rotation.MaxSize / (1024 * 1024)),
			MaxBackups: cfg.File.Rotation.MaxBackups,
			MaxAge:     cfg.File.Rotation.MaxAgeDays,
			Compress:   cfg.File.Rotation.Compress,
			LocalTime:  cfg.File.Rotation.LocalTimeInNames,
		}
	case OutputStderr:
		w = os.Stderr
	default:
		w = os.Stdout
	}

	var errEncoder logf.ErrorEncoder
	if cfg.Error.NoVerbose || cfg.Error.VerboseSuffix != "" {
		errEncoder = logf.NewErrorEncoder(logf.ErrorEncoderConfig{
			NoVerboseField:     cfg.Error.NoVerbose,
			VerboseFieldSuffix: cfg.Error.VerboseSuffix,
		})
	}

	if cfg.Format == FormatText {
		noColor := cfg.NoColor
		return logftext.NewAppender(w, logftext.EncoderConfig{
			NoColor:     &noColor,
			EncodeTime:  logf.RFC3339NanoTimeEncoder,
			EncodeError: errEncoder,
		})
	}
	return logf.NewWriteAppender(w, logf.NewJSONEncoder(logf.JSONEncoderConfig{
		FieldKeyTime: "time",
		EncodeTime:   logf.RFC3339NanoTimeEncoder,
		EncodeError:  errEncoder,
	}))
}

// expandFilePath substitutes {{starttime}} and {{pid}} in the log file path.
func expandFilePath(path string, start time.Time) string {
	return strings.NewReplacer(
		"{{starttime}}", start.Format("200601021504"),
		"{{pid}}", strconv.Itoa(os.Getpid()),
	).Replace(path)
}
