package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
)

var (
	// Logger is the global logger instance. It discards everything until Init.
	Logger = log.New(io.Discard)

	logFile *os.File
)

// Init opens the log file and replaces Logger. An empty path writes to a dated
// file under dir.
func Init(dir, path, level string) error {
	if path == "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create log directory: %w", err)
		}
		path = filepath.Join(dir, fmt.Sprintf("opdsreader-%s.log", time.Now().Format("2006-01-02")))
	} else if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}

	lvl, err := log.ParseLevel(level)
	if err != nil {
		lvl = log.InfoLevel
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	logFile = f

	Logger = log.NewWithOptions(logFile, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339,
		Level:           lvl,
	})

	Logger.Info("opdsreader started", "level", lvl.String())
	return nil
}

// Close flushes the final line and closes the log file.
func Close() {
	Logger.Info("opdsreader shutting down")
	if logFile != nil {
		logFile.Close()
		logFile = nil
	}
	Logger = log.New(io.Discard)
}

func Info(msg string, keyvals ...interface{}) {
	Logger.Info(msg, keyvals...)
}

func Debug(msg string, keyvals ...interface{}) {
	Logger.Debug(msg, keyvals...)
}

func Warn(msg string, keyvals ...interface{}) {
	Logger.Warn(msg, keyvals...)
}

func Error(msg string, keyvals ...interface{}) {
	Logger.Error(msg, keyvals...)
}

// WithPrefix returns a logger with a prefix
func WithPrefix(prefix string) *log.Logger {
	return Logger.WithPrefix(prefix)
}
