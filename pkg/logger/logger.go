package logger

import (
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/pretheevi/skillswap/pkg/config"
	"gopkg.in/natefinch/lumberjack.v2"
)

var logger *log.Logger

// Init initializes the logger
func Init(verbose bool) {
	level := parseLevel(config.GetString("log.level"))
	if verbose {
		level = log.DebugLevel
	}

	logger = log.NewWithOptions(fileWriter(config.GetString("log.file")), log.Options{
		ReportTimestamp: true,
		Level:           level,
		Prefix:          "skillswap",
	})
}

// InitWithWriter points the logger at w. Used by tests and by callers that
// want log lines on the terminal.
func InitWithWriter(w io.Writer, level string) {
	logger = log.NewWithOptions(w, log.Options{
		Level:  parseLevel(level),
		Prefix: "skillswap",
	})
}

// fileWriter returns a rotating writer for path, or stderr when the
// directory is not writable.
func fileWriter(path string) io.Writer {
	if path == "" {
		return os.Stderr
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0600)
	if err != nil {
		return os.Stderr
	}
	f.Close()

	return &lumberjack.Logger{
		Filename:   path,
		MaxSize:    10, // megabytes
		MaxBackups: 3,
		MaxAge:     14, // days
	}
}

func parseLevel(level string) log.Level {
	switch strings.ToLower(level) {
	case "debug":
		return log.DebugLevel
	case "warn", "warning":
		return log.WarnLevel
	case "error":
		return log.ErrorLevel
	default:
		return log.InfoLevel
	}
}

// Debug logs a debug message
func Debug(msg string, args ...interface{}) {
	if logger != nil {
		logger.Debug(msg, args...)
	}
}

// Info logs an info message
func Info(msg string, args ...interface{}) {
	if logger != nil {
		logger.Info(msg, args...)
	}
}

// Warn logs a warning message
func Warn(msg string, args ...interface{}) {
	if logger != nil {
		logger.Warn(msg, args...)
	}
}

// Error logs an error message
func Error(msg string, args ...interface{}) {
	if logger != nil {
		logger.Error(msg, args...)
	}
}

// Fatal logs a fatal message and exits
func Fatal(msg string, args ...interface{}) {
	if logger != nil {
		logger.Fatal(msg, args...)
	} else {
		os.Exit(1)
	}
}

// GetLogger returns the logger instance
func GetLogger() *log.Logger {
	return logger
}
