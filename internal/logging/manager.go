package logging

import (
	"context"
	"fmt"
	"sync"

	"github.com/hashicorp/go-multierror"
)

// manager implements the Manager interface
type manager struct {
	channels       map[string]*channel
	defaultChannel string
	mutex          sync.RWMutex
}

// NewManager creates a new log manager
func NewManager() Manager {
	return &manager{
		channels:       make(map[string]*channel),
		defaultChannel: "default",
	}
}

// AddChannel adds a new logging channel
func (m *manager) AddChannel(name string, driver Driver, level LogLevel) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.channels[name] = &channel{
		name:    name,
		driver:  driver,
		level:   level,
		context: make(map[string]interface{}),
	}
}

// Channel gets a specific logging channel
func (m *manager) Channel(name string) Logger {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	if ch, exists := m.channels[name]; exists {
		return ch
	}

	// Fall back to the default channel
	if defaultChannel, exists := m.channels[m.defaultChannel]; exists {
		return defaultChannel
	}

	return NewNullLogger()
}

// SetDefaultChannel sets the default logging channel
func (m *manager) SetDefaultChannel(name string) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.defaultChannel = name
}

// Default returns the default logging channel
func (m *manager) Default() Logger {
	m.mutex.RLock()
	name := m.defaultChannel
	m.mutex.RUnlock()
	return m.Channel(name)
}

// Close closes the driver of every channel and reports all failures
func (m *manager) Close() error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	var result *multierror.Error
	for name, ch := range m.channels {
		if err := ch.driver.Close(); err != nil {
			result = multierror.Append(result, fmt.Errorf("channel %s: %w", name, err))
		}
	}

	return result.ErrorOrNil()
}

// NewNullLogger returns a logger that discards everything
func NewNullLogger() Logger {
	return &nullLogger{}
}

// nullLogger discards all log entries (for testing/disabled logging)
type nullLogger struct{}

func (nl *nullLogger) DebugContext(ctx context.Context, message string, args ...map[string]interface{}) {}
func (nl *nullLogger) InfoContext(ctx context.Context, message string, args ...map[string]interface{})  {}
func (nl *nullLogger) WarnContext(ctx context.Context, message string, args ...map[string]interface{})  {}
func (nl *nullLogger) ErrorContext(ctx context.Context, message string, args ...map[string]interface{}) {}
func (nl *nullLogger) LogContext(ctx context.Context, level LogLevel, message string, args ...map[string]interface{}) {
}

func (nl *nullLogger) Debug(message string, context ...map[string]interface{})            {}
func (nl *nullLogger) Info(message string, context ...map[string]interface{})             {}
func (nl *nullLogger) Warn(message string, context ...map[string]interface{})             {}
func (nl *nullLogger) Error(message string, context ...map[string]interface{})            {}
func (nl *nullLogger) Log(level LogLevel, message string, context ...map[string]interface{}) {}
func (nl *nullLogger) WithContext(context map[string]interface{}) Logger                  { return nl }
func (nl *nullLogger) WithChannel(channel string) Logger                                  { return nl }
