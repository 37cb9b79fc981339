package logging

import (
	"context"
	"sync"
	"time"
)

// channel represents a logging channel with specific configuration
type channel struct {
	name    string
	driver  Driver
	level   LogLevel
	context map[string]interface{}
	mutex   sync.RWMutex
}

// Context-aware logging methods

func (c *channel) DebugContext(ctx context.Context, message string, args ...map[string]interface{}) {
	c.LogContext(ctx, DebugLevel, message, args...)
}

func (c *channel) InfoContext(ctx context.Context, message string, args ...map[string]interface{}) {
	c.LogContext(ctx, InfoLevel, message, args...)
}

func (c *channel) WarnContext(ctx context.Context, message string, args ...map[string]interface{}) {
	c.LogContext(ctx, WarnLevel, message, args...)
}

func (c *channel) ErrorContext(ctx context.Context, message string, args ...map[string]interface{}) {
	c.LogContext(ctx, ErrorLevel, message, args...)
}

func (c *channel) LogContext(ctx context.Context, level LogLevel, message string, args ...map[string]interface{}) {
	if level < c.level {
		return
	}

	entry := LogEntry{
		Level:     level,
		Message:   message,
		Timestamp: time.Now(),
		Channel:   c.name,
		Context:   c.mergeContext(args...),
	}

	// A failing driver must not break the caller
	_ = c.driver.Write(ctx, entry)
}

func (c *channel) Debug(message string, context ...map[string]interface{}) {
	c.Log(DebugLevel, message, context...)
}

func (c *channel) Info(message string, context ...map[string]interface{}) {
	c.Log(InfoLevel, message, context...)
}

func (c *channel) Warn(message string, context ...map[string]interface{}) {
	c.Log(WarnLevel, message, context...)
}

func (c *channel) Error(message string, context ...map[string]interface{}) {
	c.Log(ErrorLevel, message, context...)
}

func (c *channel) Log(level LogLevel, message string, contextMaps ...map[string]interface{}) {
	c.LogContext(context.Background(), level, message, contextMaps...)
}

// Logger modifiers

func (c *channel) WithContext(context map[string]interface{}) Logger {
	return &channel{
		name:    c.name,
		driver:  c.driver,
		level:   c.level,
		context: c.mergeContext(context),
	}
}

func (c *channel) WithChannel(channelName string) Logger {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	return &channel{
		name:    channelName,
		driver:  c.driver,
		level:   c.level,
		context: c.context,
	}
}

func (c *channel) mergeContext(contexts ...map[string]interface{}) map[string]interface{} {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	merged := make(map[string]interface{}, len(c.context))
	for k, v := range c.context {
		merged[k] = v
	}
	for _, ctx := range contexts {
		for k, v := range ctx {
			merged[k] = v
		}
	}

	return merged
}
