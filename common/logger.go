// Package common provides shared constants, types, and utilities
// used across the windscribe client.
package common

import (
	"compress/gzip"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"
	"time"
)

// LogLevel represents the severity level of a log message.
type LogLevel int

const (
	LevelDebug LogLevel = iota
	LevelInfo
	LevelWarn
	LevelError
)

// String returns the string representation of the log level.
func (l LogLevel) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// ParseLogLevel parses a log level name as accepted by --log-level.
func ParseLogLevel(s string) (LogLevel, error) {
	switch s {
	case "debug":
		return LevelDebug, nil
	case "info":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	default:
		return LevelInfo, fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", s)
	}
}

// AppLogger is a leveled logger for the application.
// Child loggers created with With share the parent's sink and level.
type AppLogger struct {
	sink   *logSink
	fields string
}

// logSink is the shared, lock-protected state behind a family of loggers.
type logSink struct {
	mu          sync.Mutex
	level       LogLevel
	logger      *log.Logger
	logFile     *os.File
	filePath    string
	maxFileSize int64
	maxBackups  int
}

// LogConfig holds configuration options for the logger.
type LogConfig struct {
	Level LogLevel
	// FilePath enables a file sink in addition to stderr. Empty disables it.
	FilePath    string
	MaxFileSize int64 // in bytes, default 5MB
	MaxBackups  int   // number of rotated files to keep, default 5
}

var (
	defaultLogger *AppLogger
	loggerOnce    sync.Once
)

const (
	defaultMaxFileSize = 5 * 1024 * 1024
	defaultMaxBackups  = 5
)

// NewLogger returns a logger writing to w at the given level.
func NewLogger(w io.Writer, level LogLevel) *AppLogger {
	return &AppLogger{
		sink: &logSink{
			level:       level,
			logger:      log.New(w, "", 0),
			maxFileSize: defaultMaxFileSize,
			maxBackups:  defaultMaxBackups,
		},
	}
}

// GetLogger returns the process-wide logger. It writes to stderr so command
// output on stdout stays machine-readable.
func GetLogger() *AppLogger {
	loggerOnce.Do(func() {
		defaultLogger = NewLogger(os.Stderr, LevelInfo)
	})
	return defaultLogger
}

// InitLogger configures the process-wide logger.
// Should be called early in application startup.
func InitLogger(config LogConfig) error {
	logger := GetLogger()
	logger.SetLevel(config.Level)

	s := logger.sink
	s.mu.Lock()
	if config.MaxFileSize > 0 {
		s.maxFileSize = config.MaxFileSize
	}
	if config.MaxBackups > 0 {
		s.maxBackups = config.MaxBackups
	}
	s.mu.Unlock()

	if config.FilePath != "" {
		return logger.EnableFileLogging(config.FilePath)
	}
	return nil
}

// With returns a child logger that prefixes every message with key=value.
func (l *AppLogger) With(key string, value interface{}) *AppLogger {
	field := fmt.Sprintf("%s=%v", key, value)
	if l.fields != "" {
		field = l.fields + " " + field
	}
	return &AppLogger{sink: l.sink, fields: field}
}

// SetLevel sets the minimum log level.
func (l *AppLogger) SetLevel(level LogLevel) {
	l.sink.mu.Lock()
	defer l.sink.mu.Unlock()
	l.sink.level = level
}

// Level returns the minimum log level.
func (l *AppLogger) Level() LogLevel {
	l.sink.mu.Lock()
	defer l.sink.mu.Unlock()
	return l.sink.level
}

// SetOutput sets the log output destination.
func (l *AppLogger) SetOutput(w io.Writer) {
	l.sink.mu.Lock()
	defer l.sink.mu.Unlock()
	l.sink.logger = log.New(w, "", 0)
}

// EnableFileLogging tees log output into path in addition to stderr.
// The file is rotated when it exceeds the configured size.
func (l *AppLogger) EnableFileLogging(path string) error {
	dir := filepath.Dir(path)
	if isSymlink(dir) {
		return fmt.Errorf("security error: log directory is a symlink")
	}
	if err := os.MkdirAll(dir, 0700); err != nil {
		return err
	}
	if isSymlink(path) {
		return fmt.Errorf("security error: log file is a symlink")
	}

	s := l.sink
	s.mu.Lock()
	defer s.mu.Unlock()

	s.rotateIfNeeded(path)

	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		return err
	}

	if s.logFile != nil {
		s.logFile.Close()
	}
	s.logFile = file
	s.filePath = path
	s.logger = log.New(io.MultiWriter(os.Stderr, file), "", 0)
	return nil
}

// isSymlink reports whether path is a symbolic link.
// Returns false if path doesn't exist.
func isSymlink(path string) bool {
	info, err := os.Lstat(path)
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeSymlink != 0
}

// rotateIfNeeded compresses path into a timestamped .gz when it has grown
// past maxFileSize. Caller holds s.mu.
func (s *logSink) rotateIfNeeded(path string) {
	info, err := os.Stat(path)
	if err != nil || info.Size() < s.maxFileSize {
		return
	}

	if s.logFile != nil {
		s.logFile.Close()
		s.logFile = nil
	}

	rotated := fmt.Sprintf("%s.%s.gz", path, time.Now().Format("20060102-150405"))
	if err := compressFile(path, rotated); err != nil {
		os.Rename(path, strings.TrimSuffix(rotated, ".gz"))
	} else {
		os.Remove(path)
	}

	s.cleanupOldBackups(path)
}

func compressFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	gz := gzip.NewWriter(out)
	if _, err := io.Copy(gz, in); err != nil {
		gz.Close()
		return err
	}
	return gz.Close()
}

// cleanupOldBackups keeps only the newest maxBackups rotated files.
func (s *logSink) cleanupOldBackups(path string) {
	matches, err := filepath.Glob(path + ".*")
	if err != nil || len(matches) <= s.maxBackups {
		return
	}

	sort.Slice(matches, func(i, j int) bool {
		infoI, _ := os.Stat(matches[i])
		infoJ, _ := os.Stat(matches[j])
		if infoI == nil || infoJ == nil {
			return false
		}
		return infoI.ModTime().Before(infoJ.ModTime())
	})

	for _, old := range matches[:len(matches)-s.maxBackups] {
		os.Remove(old)
	}
}

// DefaultLogPath returns the log file location under the config directory.
func DefaultLogPath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(homeDir, ".config", ConfigDirName, "logs", LogFileName)
}

func (l *AppLogger) log(level LogLevel, msg string, args ...interface{}) {
	s := l.sink
	s.mu.Lock()
	defer s.mu.Unlock()

	if level < s.level {
		return
	}

	_, file, line, ok := runtime.Caller(2)
	caller := "???"
	if ok {
		caller = fmt.Sprintf("%s:%d", filepath.Base(file), line)
	}

	if len(args) > 0 {
		msg = fmt.Sprintf(msg, args...)
	}
	if l.fields != "" {
		msg = l.fields + " " + msg
	}

	timestamp := time.Now().Format("2006/01/02 15:04:05")
	s.logger.Printf("%s [%s] %s: %s", timestamp, level.String(), caller, msg)
}

// Debug logs a debug message.
func (l *AppLogger) Debug(msg string, args ...interface{}) {
	l.log(LevelDebug, msg, args...)
}

// Info logs an informational message.
func (l *AppLogger) Info(msg string, args ...interface{}) {
	l.log(LevelInfo, msg, args...)
}

// Warn logs a warning message.
func (l *AppLogger) Warn(msg string, args ...interface{}) {
	l.log(LevelWarn, msg, args...)
}

// Error logs an error message.
func (l *AppLogger) Error(msg string, args ...interface{}) {
	l.log(LevelError, msg, args...)
}

// Shorthand functions for default logger.

// LogDebug logs a debug message to the default logger.
func LogDebug(msg string, args ...interface{}) {
	GetLogger().Debug(msg, args...)
}

// LogInfo logs an info message to the default logger.
func LogInfo(msg string, args ...interface{}) {
	GetLogger().Info(msg, args...)
}

// LogWarn logs a warning message to the default logger.
func LogWarn(msg string, args ...interface{}) {
	GetLogger().Warn(msg, args...)
}

// LogError logs an error message to the default logger.
func LogError(msg string, args ...interface{}) {
	GetLogger().Error(msg, args...)
}

// Close closes the log file, if any.
func (l *AppLogger) Close() error {
	s := l.sink
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.logFile == nil {
		return nil
	}
	err := s.logFile.Close()
	s.logFile = nil
	s.logger = log.New(os.Stderr, "", 0)
	return err
}

// CloseLogger closes the default logger.
func CloseLogger() error {
	return GetLogger().Close()
}
