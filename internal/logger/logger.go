// Package logger provides structured logging using zap.
//
// The package keeps one process-wide logger. Libraries never use it directly;
// commands pass Named children into the components they build.
package logger

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Log is the global logger instance. It discards everything until Init runs.
var Log = zap.NewNop()

// Sugar is the sugared logger for convenient logging.
var Sugar = Log.Sugar()

// level is shared by every core so SetLevel applies everywhere.
var level = zap.NewAtomicLevel()

// FileConfig holds file logging configuration.
type FileConfig struct {
	Path       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

// DefaultFileConfig returns default file logging settings.
func DefaultFileConfig(path string) FileConfig {
	return FileConfig{
		Path:       path,
		MaxSizeMB:  50,
		MaxBackups: 3,
		MaxAgeDays: 7,
		Compress:   true,
	}
}

// Init initializes the logger with the given level and optional file output.
func Init(lvl string, logFile string) error {
	if logFile != "" {
		return InitWithFileConfig(lvl, DefaultFileConfig(logFile), true)
	}
	return InitWithFileConfig(lvl, FileConfig{}, true)
}

// InitWithFileConfig initializes the logger with custom file configuration.
// Set consoleOutput to false to disable console logging (useful for tests).
func InitWithFileConfig(lvl string, fileCfg FileConfig, consoleOutput bool) error {
	level.SetLevel(parseLevel(lvl))

	var cores []zapcore.Core

	if consoleOutput {
		enc := encoderConfig(zapcore.TimeEncoderOfLayout("15:04:05"), zapcore.CapitalColorLevelEncoder)
		cores = append(cores, zapcore.NewCore(
			zapcore.NewConsoleEncoder(enc),
			zapcore.AddSync(os.Stdout),
			level,
		))
	}

	if fileCfg.Path != "" {
		fileWriter := &lumberjack.Logger{
			Filename:   fileCfg.Path,
			MaxSize:    fileCfg.MaxSizeMB,
			MaxBackups: fileCfg.MaxBackups,
			MaxAge:     fileCfg.MaxAgeDays,
			Compress:   fileCfg.Compress,
			LocalTime:  true, // Use local time in rotated filename
		}

		enc := encoderConfig(zapcore.ISO8601TimeEncoder, zapcore.CapitalLevelEncoder)
		cores = append(cores, zapcore.NewCore(
			zapcore.NewConsoleEncoder(enc),
			zapcore.AddSync(fileWriter),
			level,
		))
	}

	Log = zap.New(zapcore.NewTee(cores...), zap.AddCaller())
	Sugar = Log.Sugar()

	return nil
}

func encoderConfig(timeEnc zapcore.TimeEncoder, levelEnc zapcore.LevelEncoder) zapcore.EncoderConfig {
	return zapcore.EncoderConfig{
		TimeKey:          "time",
		LevelKey:         "level",
		NameKey:          "logger",
		MessageKey:       "msg",
		CallerKey:        "caller",
		EncodeTime:       timeEnc,
		EncodeLevel:      levelEnc,
		EncodeCaller:     zapcore.ShortCallerEncoder,
		EncodeDuration:   zapcore.StringDurationEncoder,
		EncodeName:       zapcore.FullNameEncoder,
		ConsoleSeparator: " ",
	}
}

// parseLevel converts a string level to zapcore.Level.
func parseLevel(lvl string) zapcore.Level {
	switch lvl {
	case "debug":
		return zapcore.DebugLevel
	case "warn":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// SetLevel changes the level of the running logger.
func SetLevel(lvl string) {
	level.SetLevel(parseLevel(lvl))
}

// Named returns a child of the global logger for one component.
func Named(component string) *zap.Logger {
	return Log.Named(component)
}

// Sync flushes any buffered log entries.
func Sync() {
	_ = Log.Sync()
}

// Debug logs a debug message.
func Debug(msg string, fields ...zap.Field) {
	Log.Debug(msg, fields...)
}

// Info logs an info message.
func Info(msg string, fields ...zap.Field) {
	Log.Info(msg, fields...)
}

// Warn logs a warning message.
func Warn(msg string, fields ...zap.Field) {
	Log.Warn(msg, fields...)
}

// Error logs an error message.
func Error(msg string, fields ...zap.Field) {
	Log.Error(msg, fields...)
}

// Fatal logs a fatal message and exits.
func Fatal(msg string, fields ...zap.Field) {
	Log.Fatal(msg, fields...)
}
