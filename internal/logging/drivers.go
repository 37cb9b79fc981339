package logging

import (
	"context"
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// LogrusDriver writes entries through a logrus logger
type LogrusDriver struct {
	logger *logrus.Logger
}

// NewConsoleDriver creates a text driver writing to stdout
func NewConsoleDriver(colorize bool) *LogrusDriver {
	logger := logrus.New()
	logger.SetOutput(os.Stdout)
	logger.SetLevel(logrus.TraceLevel)
	logger.SetFormatter(&logrus.TextFormatter{
		DisableColors: !colorize,
		ForceColors:   colorize,
		FullTimestamp: true,
	})
	return &LogrusDriver{logger: logger}
}

// NewJSONDriver creates a driver writing one JSON object per entry
func NewJSONDriver(writer io.Writer) *LogrusDriver {
	logger := logrus.New()
	logger.SetOutput(writer)
	logger.SetLevel(logrus.TraceLevel)
	logger.SetFormatter(&logrus.JSONFormatter{})
	return &LogrusDriver{logger: logger}
}

// SetWriter sets the output writer
func (ld *LogrusDriver) SetWriter(writer io.Writer) {
	ld.logger.SetOutput(writer)
}

// Write writes a log entry
func (ld *LogrusDriver) Write(ctx context.Context, entry LogEntry) error {
	fields := make(logrus.Fields, len(entry.Context)+1)
	for k, v := range entry.Context {
		fields[k] = v
	}
	if entry.Channel != "" {
		fields["channel"] = entry.Channel
	}

	e := ld.logger.WithFields(fields).WithTime(entry.Timestamp)
	if ctx != nil {
		e = e.WithContext(ctx)
	}
	// Entry.Log never exits the process, even at fatal level
	e.Log(toLogrusLevel(entry.Level), entry.Message)
	return nil
}

// Close closes the driver (no-op)
func (ld *LogrusDriver) Close() error {
	return nil
}

func toLogrusLevel(level LogLevel) logrus.Level {
	switch level {
	case DebugLevel:
		return logrus.DebugLevel
	case InfoLevel:
		return logrus.InfoLevel
	case WarnLevel:
		return logrus.WarnLevel
	case ErrorLevel:
		return logrus.ErrorLevel
	case FatalLevel:
		return logrus.FatalLevel
	default:
		return logrus.InfoLevel
	}
}
