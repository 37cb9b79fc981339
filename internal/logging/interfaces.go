package logging

import (
	"context"
	"time"
)

// LogLevel represents the severity level of a log entry
type LogLevel int

const (
	DebugLevel LogLevel = iota
	InfoLevel
	WarnLevel
	ErrorLevel
	FatalLevel
)

// LogEntry represents a single log entry
type LogEntry struct {
	Level     LogLevel               `json:"level"`
	Message   string                 `json:"message"`
	Timestamp time.Time              `json:"timestamp"`
	Context   map[string]interface{} `json:"context,omitempty"`
	Channel   string                 `json:"channel,omitempty"`
}

// Logger interface defines the logging contract with context support
type Logger interface {
	// Context-aware logging methods
	DebugContext(ctx context.Context, message string, args ...map[string]interface{})
	InfoContext(ctx context.Context, message string, args ...map[string]interface{})
	WarnContext(ctx context.Context, message string, args ...map[string]interface{})
	ErrorContext(ctx context.Context, message string, args ...map[string]interface{})
	LogContext(ctx context.Context, level LogLevel, message string, args ...map[string]interface{})

	// Methods without a context
	Debug(message string, context ...map[string]interface{})
	Info(message string, context ...map[string]interface{})
	Warn(message string, context ...map[string]interface{})
	Error(message string, context ...map[string]interface{})
	Log(level LogLevel, message string, context ...map[string]interface{})

	// Logger modifiers
	WithContext(context map[string]interface{}) Logger
	WithChannel(channel string) Logger
}

// Driver interface for different logging backends
type Driver interface {
	Write(ctx context.Context, entry LogEntry) error
	Close() error
}

// Manager interface for managing logging channels and drivers
type Manager interface {
	// Channel management
	AddChannel(name string, driver Driver, level LogLevel)
	Channel(name string) Logger
	SetDefaultChannel(name string)
	Default() Logger

	// Lifecycle
	Close() error
}

// Config represents logging configuration
type Config struct {
	Level    LogLevel `json:"level"`
	Format   string   `json:"format"` // "text" or "json"
	Colorize bool     `json:"colorize"`
}
