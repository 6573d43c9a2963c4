// Package logging provides config-driven categorized file-based logging for vetrina.
// Logs are written to <state dir>/logs/ with separate files per category.
// Logging is controlled by logging.debug_mode - when false, no logs are written.
package logging

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/AlessioCavassi/Sito-mio-instagram/internal/config"
)

// Category represents a log category/system
type Category string

const (
	CategoryBoot    Category = "boot"    // Startup, config resolution
	CategoryUI      Category = "ui"      // Key handling, focus, remounts
	CategoryCart    Category = "cart"    // Cart add/remove
	CategoryMedia   Category = "media"   // Media resolution and load results
	CategoryBrowser Category = "browser" // Headless browser backend
	CategoryWatcher Category = "watcher" // Media root watcher
)

// StructuredLogEntry represents a JSON log entry
type StructuredLogEntry struct {
	Timestamp int64                  `json:"ts"`
	Category  string                 `json:"cat"`
	Level     string                 `json:"lvl"`
	Message   string                 `json:"msg"`
	Fields    map[string]interface{} `json:"fields,omitempty"`
}

// Logger wraps a standard logger with category and file output
type Logger struct {
	category Category
	logger   *log.Logger
	file     *os.File
}

var (
	loggers   = make(map[Category]*Logger)
	loggersMu sync.RWMutex
	logsDir   string
	settings  config.LoggingConfig
	configMu  sync.RWMutex
	logLevel  = LevelInfo
)

// Log levels
const (
	LevelDebug = 0
	LevelInfo  = 1
	LevelWarn  = 2
	LevelError = 3
)

// Initialize sets up the logging directory under stateDir.
// Should be called once at startup.
func Initialize(stateDir string, cfg config.LoggingConfig) error {
	if stateDir == "" {
		return fmt.Errorf("state directory required")
	}

	configMu.Lock()
	settings = cfg
	logLevel = parseLevel(cfg.Level)
	configMu.Unlock()

	if !cfg.DebugMode {
		return nil
	}

	dir := filepath.Join(stateDir, "logs")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create logs directory: %w", err)
	}

	loggersMu.Lock()
	logsDir = dir
	loggersMu.Unlock()

	boot := Get(CategoryBoot)
	boot.Info("=== vetrina logging initialized ===")
	boot.Info("Logs directory: %s", dir)
	boot.Info("Log level: %s", cfg.Level)
	return nil
}

func parseLevel(level string) int {
	switch level {
	case "debug":
		return LevelDebug
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

// IsDebugMode returns whether debug logging is enabled
func IsDebugMode() bool {
	configMu.RLock()
	defer configMu.RUnlock()
	return settings.DebugMode
}

// IsCategoryEnabled returns whether a specific category is enabled
func IsCategoryEnabled(category Category) bool {
	configMu.RLock()
	defer configMu.RUnlock()
	return settings.IsCategoryEnabled(string(category))
}

// Get returns (or creates) a logger for the given category.
// Returns a no-op logger if debug mode or the category is disabled.
func Get(category Category) *Logger {
	if !IsCategoryEnabled(category) {
		return &Logger{category: category}
	}

	loggersMu.RLock()
	dir := logsDir
	if l, ok := loggers[category]; ok {
		loggersMu.RUnlock()
		return l
	}
	loggersMu.RUnlock()

	if dir == "" {
		return &Logger{category: category}
	}

	loggersMu.Lock()
	defer loggersMu.Unlock()

	if l, ok := loggers[category]; ok {
		return l
	}

	date := time.Now().Format("2006-01-02")
	logPath := filepath.Join(dir, fmt.Sprintf("%s_%s.log", date, category))

	file, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return &Logger{category: category}
	}

	l := &Logger{
		category: category,
		file:     file,
		logger:   log.New(file, "", log.Ldate|log.Ltime|log.Lmicroseconds),
	}
	loggers[category] = l
	return l
}

func currentLevel() int {
	configMu.RLock()
	defer configMu.RUnlock()
	return logLevel
}

func jsonEnabled() bool {
	configMu.RLock()
	defer configMu.RUnlock()
	return settings.IsJSON()
}

func (l *Logger) write(level string, minLevel int, format string, args []interface{}) {
	if l.logger == nil || currentLevel() > minLevel {
		return
	}
	msg := fmt.Sprintf(format, args...)
	if jsonEnabled() {
		l.logJSON(level, msg, nil)
		return
	}
	l.logger.Printf("[%s] %s", levelTag(level), msg)
}

func levelTag(level string) string {
	switch level {
	case "debug":
		return "DEBUG"
	case "warn":
		return "WARN"
	case "error":
		return "ERROR"
	}
	return "INFO"
}

func (l *Logger) logJSON(level, msg string, fields map[string]interface{}) {
	entry := StructuredLogEntry{
		Timestamp: time.Now().UnixMilli(),
		Category:  string(l.category),
		Level:     level,
		Message:   msg,
		Fields:    fields,
	}
	data, err := json.Marshal(entry)
	if err != nil {
		l.logger.Printf("[%s] %s", levelTag(level), msg)
		return
	}
	l.logger.Printf("%s", data)
}

// Debug logs a debug message
func (l *Logger) Debug(format string, args ...interface{}) {
	l.write("debug", LevelDebug, format, args)
}

// Info logs an informational message
func (l *Logger) Info(format string, args ...interface{}) {
	l.write("info", LevelInfo, format, args)
}

// Warn logs a warning message
func (l *Logger) Warn(format string, args ...interface{}) {
	l.write("warn", LevelWarn, format, args)
}

// Error logs an error message (always logged if logger exists)
func (l *Logger) Error(format string, args ...interface{}) {
	l.write("error", LevelError, format, args)
}

// StructuredLog writes a log entry with custom fields.
func (l *Logger) StructuredLog(level string, msg string, fields map[string]interface{}) {
	if l.logger == nil || currentLevel() > parseLevel(level) {
		return
	}
	if jsonEnabled() {
		l.logJSON(level, msg, fields)
		return
	}
	l.logger.Printf("[%s] %s | fields=%v", levelTag(level), msg, fields)
}

// CloseAll closes all open log files (call at shutdown)
func CloseAll() {
	loggersMu.Lock()
	defer loggersMu.Unlock()

	for _, l := range loggers {
		if l.file != nil {
			l.file.Close()
		}
	}
	loggers = make(map[Category]*Logger)
	logsDir = ""
}

// Boot logs to the boot category
func Boot(format string, args ...interface{}) {
	Get(CategoryBoot).Info(format, args...)
}

// UI logs to the ui category
func UI(format string, args ...interface{}) {
	Get(CategoryUI).Info(format, args...)
}

// UIDebug logs debug to the ui category
func UIDebug(format string, args ...interface{}) {
	Get(CategoryUI).Debug(format, args...)
}

// Cart logs to the cart category
func Cart(format string, args ...interface{}) {
	Get(CategoryCart).Info(format, args...)
}

// Media logs to the media category
func Media(format string, args ...interface{}) {
	Get(CategoryMedia).Info(format, args...)
}

// MediaDebug logs debug to the media category
func MediaDebug(format string, args ...interface{}) {
	Get(CategoryMedia).Debug(format, args...)
}

// Browser logs to the browser category
func Browser(format string, args ...interface{}) {
	Get(CategoryBrowser).Info(format, args...)
}

// BrowserDebug logs debug to the browser category
func BrowserDebug(format string, args ...interface{}) {
	Get(CategoryBrowser).Debug(format, args...)
}

// Watcher logs to the watcher category
func Watcher(format string, args ...interface{}) {
	Get(CategoryWatcher).Info(format, args...)
}
