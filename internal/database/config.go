package database

import "time"

// Config holds database connection configuration
type Config struct {
	Driver          string        `mapstructure:"driver"`
	DSN             string        `mapstructure:"dsn"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time"`
}

// DefaultConfig returns the pool settings used when nothing is configured
func DefaultConfig() Config {
	return Config{
		Driver:          "sqlite3",
		DSN:             ":memory:",
		MaxOpenConns:    25,
		MaxIdleConns:    10,
		ConnMaxLifetime: 30 * time.Minute,
		ConnMaxIdleTime: 15 * time.Minute,
	}
}

// MySQLConfig returns pool settings tuned for MySQL
func MySQLConfig(dsn string) Config {
	return Config{
		Driver:          "mysql",
		DSN:             dsn,
		MaxOpenConns:    50,
		MaxIdleConns:    20,
		ConnMaxLifetime: 60 * time.Minute,
		ConnMaxIdleTime: 30 * time.Minute,
	}
}

// PostgreSQLConfig returns pool settings tuned for PostgreSQL
func PostgreSQLConfig(dsn string) Config {
	return Config{
		Driver:          "postgres",
		DSN:             dsn,
		MaxOpenConns:    40,
		MaxIdleConns:    15,
		ConnMaxLifetime: 45 * time.Minute,
		ConnMaxIdleTime: 20 * time.Minute,
	}
}

// SQLiteConfig returns pool settings for SQLite. A single connection keeps
// every statement on the same handle, which in-memory databases need.
func SQLiteConfig(dsn string) Config {
	return Config{
		Driver:          "sqlite3",
		DSN:             dsn,
		MaxOpenConns:    1,
		MaxIdleConns:    1,
		ConnMaxLifetime: 24 * time.Hour,
		ConnMaxIdleTime: 2 * time.Hour,
	}
}

// ConfigForDriver returns the preset for driver with the given DSN
func ConfigForDriver(driver, dsn string) Config {
	switch driver {
	case "mysql":
		return MySQLConfig(dsn)
	case "postgres", "postgresql":
		config := PostgreSQLConfig(dsn)
		config.Driver = driver
		return config
	case "sqlite3", "sqlite":
		return SQLiteConfig(dsn)
	default:
		config := DefaultConfig()
		config.Driver = driver
		config.DSN = dsn
		return config
	}
}
