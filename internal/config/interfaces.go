package config

import "time"

// ConfigValidator function type for validating configuration values
type ConfigValidator func(key string, value interface{}) error

// Repository interface for configuration storage and retrieval
type Repository interface {
	Get(key string, defaultValue ...interface{}) interface{}
	GetString(key string, defaultValue ...string) string
	GetInt(key string, defaultValue ...int) int
	GetBool(key string, defaultValue ...bool) bool
	GetDuration(key string, defaultValue ...time.Duration) time.Duration
	GetStringSlice(key string, defaultValue ...[]string) []string
	UnmarshalKey(key string, out interface{}) error
	Set(key string, value interface{})
	Has(key string) bool
	All() map[string]interface{}
}
