package config

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/onyx-go/schema/internal/database"
	"github.com/onyx-go/schema/internal/logging"
)

// EnvPrefix prefixes every environment variable read, e.g. ONYX_DATABASE_DSN
const EnvPrefix = "ONYX"

// Config reads settings from a config file, the environment and explicit
// overrides, in increasing order of precedence.
type Config struct {
	v          *viper.Viper
	validators map[string]ConfigValidator
	mutex      sync.RWMutex
}

// NewConfig creates a configuration with defaults and environment lookup
func NewConfig() *Config {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	v.SetDefault("app.env", "production")
	v.SetDefault("database.driver", "sqlite3")
	v.SetDefault("database.dsn", ":memory:")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("log.colorize", false)
	v.SetDefault("audit.schedule", "@every 1h")

	return NewFromViper(v)
}

// NewFromViper wraps an existing viper instance, as bound by command flags
func NewFromViper(v *viper.Viper) *Config {
	c := &Config{
		v:          v,
		validators: make(map[string]ConfigValidator),
	}

	c.AddValidator("database.driver", OneOfValidator("mysql", "postgres", "postgresql", "sqlite3", "sqlite"))
	c.AddValidator("log.format", OneOfValidator("text", "json"))
	c.AddValidator("log.level", OneOfValidator("debug", "info", "warn", "warning", "error", "fatal"))
	c.AddValidator("database.dsn", RequiredValidator)
	c.AddValidator("database.max_open_conns", IntRangeValidator(0, 10000))
	c.AddValidator("database.max_idle_conns", IntRangeValidator(0, 10000))

	return c
}

// AddValidator adds a validator for a configuration key
func (c *Config) AddValidator(key string, validator ConfigValidator) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.validators[key] = validator
}

// Load reads the config file at path, if any, and validates the result
func (c *Config) Load(path string) error {
	if path != "" {
		c.v.SetConfigFile(path)
		if err := c.v.ReadInConfig(); err != nil {
			return fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	return c.Validate()
}

// Validate runs every validator against the current value of its key.
// Keys without a value are skipped.
func (c *Config) Validate() error {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	var result *multierror.Error
	for key, validator := range c.validators {
		if !c.v.IsSet(key) {
			continue
		}
		if err := validator(key, c.v.Get(key)); err != nil {
			result = multierror.Append(result, fmt.Errorf("validation failed for key %s: %w", key, err))
		}
	}

	return result.ErrorOrNil()
}

// Get retrieves a configuration value
func (c *Config) Get(key string, defaultValue ...interface{}) interface{} {
	if !c.v.IsSet(key) {
		if len(defaultValue) > 0 {
			return defaultValue[0]
		}
		return nil
	}
	return c.v.Get(key)
}

// GetString retrieves a string configuration value
func (c *Config) GetString(key string, defaultValue ...string) string {
	if !c.v.IsSet(key) && len(defaultValue) > 0 {
		return defaultValue[0]
	}
	return c.v.GetString(key)
}

// GetInt retrieves an integer configuration value
func (c *Config) GetInt(key string, defaultValue ...int) int {
	if !c.v.IsSet(key) && len(defaultValue) > 0 {
		return defaultValue[0]
	}
	return c.v.GetInt(key)
}

// GetBool retrieves a boolean configuration value
func (c *Config) GetBool(key string, defaultValue ...bool) bool {
	if !c.v.IsSet(key) && len(defaultValue) > 0 {
		return defaultValue[0]
	}
	return c.v.GetBool(key)
}

// GetDuration retrieves a duration configuration value
func (c *Config) GetDuration(key string, defaultValue ...time.Duration) time.Duration {
	if !c.v.IsSet(key) && len(defaultValue) > 0 {
		return defaultValue[0]
	}
	return c.v.GetDuration(key)
}

// GetStringSlice retrieves a string slice configuration value
func (c *Config) GetStringSlice(key string, defaultValue ...[]string) []string {
	if !c.v.IsSet(key) && len(defaultValue) > 0 {
		return defaultValue[0]
	}
	return c.v.GetStringSlice(key)
}

// BindFlag makes a command line flag override the value of key
func (c *Config) BindFlag(key string, flag *pflag.Flag) error {
	return c.v.BindPFlag(key, flag)
}

// UnmarshalKey decodes the subtree at key into out using mapstructure tags
func (c *Config) UnmarshalKey(key string, out interface{}) error {
	return c.v.UnmarshalKey(key, out)
}

// Set overrides a configuration value
func (c *Config) Set(key string, value interface{}) {
	c.v.Set(key, value)
}

// Has checks if a configuration key has a value
func (c *Config) Has(key string) bool {
	return c.v.IsSet(key)
}

// All returns every setting as a nested map
func (c *Config) All() map[string]interface{} {
	return c.v.AllSettings()
}

// Env returns the application environment
func (c *Config) Env() string {
	return c.GetString("app.env")
}

// Debug reports whether debug logging was requested
func (c *Config) Debug() bool {
	return c.GetString("log.level") == "debug"
}

// Database returns the connection settings: the preset of the configured
// driver, with any pool setting given explicitly taking precedence.
func (c *Config) Database() database.Config {
	dbConfig := database.ConfigForDriver(c.GetString("database.driver"), c.GetString("database.dsn"))

	if c.Has("database.max_open_conns") {
		dbConfig.MaxOpenConns = c.GetInt("database.max_open_conns")
	}
	if c.Has("database.max_idle_conns") {
		dbConfig.MaxIdleConns = c.GetInt("database.max_idle_conns")
	}
	if c.Has("database.conn_max_lifetime") {
		dbConfig.ConnMaxLifetime = c.GetDuration("database.conn_max_lifetime")
	}
	if c.Has("database.conn_max_idle_time") {
		dbConfig.ConnMaxIdleTime = c.GetDuration("database.conn_max_idle_time")
	}

	return dbConfig
}

// Logging returns the logging settings
func (c *Config) Logging() logging.Config {
	return logging.Config{
		Level:    logging.ParseLogLevel(c.GetString("log.level")),
		Format:   c.GetString("log.format"),
		Colorize: c.GetBool("log.colorize"),
	}
}

// Ensure Config implements Repository
var _ Repository = (*Config)(nil)
