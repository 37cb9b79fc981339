package logging

import (
	"io"
	"os"
	"strings"
)

// LogLevel string mapping
var logLevelNames = map[LogLevel]string{
	DebugLevel: "debug",
	InfoLevel:  "info",
	WarnLevel:  "warning",
	ErrorLevel: "error",
	FatalLevel: "fatal",
}

// GetLevelName returns the string name for a log level
func GetLevelName(level LogLevel) string {
	if name, exists := logLevelNames[level]; exists {
		return name
	}
	return "unknown"
}

// ParseLogLevel parses a string into a LogLevel
func ParseLogLevel(level string) LogLevel {
	switch strings.ToLower(level) {
	case "debug":
		return DebugLevel
	case "info":
		return InfoLevel
	case "warn", "warning":
		return WarnLevel
	case "error":
		return ErrorLevel
	case "fatal":
		return FatalLevel
	default:
		return InfoLevel
	}
}

// DefaultConfig returns a default logging configuration
func DefaultConfig() Config {
	return Config{
		Level:    InfoLevel,
		Format:   "text",
		Colorize: false,
	}
}

// NewManagerFromConfig builds a manager writing to stderr
func NewManagerFromConfig(config Config) Manager {
	return NewManagerWithWriter(config, os.Stderr)
}

// NewManagerWithWriter builds a manager with a single "default" channel
// using the console or JSON driver according to config.Format.
func NewManagerWithWriter(config Config, w io.Writer) Manager {
	var driver Driver
	switch config.Format {
	case "json":
		driver = NewJSONDriver(w)
	default:
		console := NewConsoleDriver(config.Colorize)
		console.SetWriter(w)
		driver = console
	}

	m := NewManager()
	m.AddChannel("default", driver, config.Level)
	m.SetDefaultChannel("default")
	return m
}
