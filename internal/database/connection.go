package database

import (
	"context"
	"database/sql"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"

	"github.com/onyx-go/schema/internal/database/migrations"
)

// DB represents a database connection with driver information
type DB struct {
	*sqlx.DB
	driver string
}

// NewDB wraps an open connection
func NewDB(db *sqlx.DB, driver string) *DB {
	return &DB{
		DB:     db,
		driver: driver,
	}
}

// Open connects with the pool settings of config and verifies the
// connection with a ping.
func Open(ctx context.Context, config Config) (*DB, error) {
	sqlDB, err := sqlx.Open(config.Driver, config.DSN)
	if err != nil {
		return nil, err
	}

	configurePool(sqlDB, config)

	if err := sqlDB.PingContext(ctx); err != nil {
		sqlDB.Close()
		return nil, err
	}

	return NewDB(sqlDB, config.Driver), nil
}

func configurePool(db *sqlx.DB, config Config) {
	if config.MaxOpenConns > 0 {
		db.SetMaxOpenConns(config.MaxOpenConns)
	}
	if config.MaxIdleConns > 0 {
		db.SetMaxIdleConns(config.MaxIdleConns)
	}
	db.SetConnMaxLifetime(config.ConnMaxLifetime)
	db.SetConnMaxIdleTime(config.ConnMaxIdleTime)
}

// Driver returns the database driver name
func (db *DB) Driver() string {
	return db.driver
}

// Schema returns a schema builder running on this connection
func (db *DB) Schema(config *migrations.SchemaConfig) migrations.SchemaBuilder {
	return migrations.NewSchemaBuilder(db.DB, db.driver, config)
}

// PoolMetrics returns connection pool statistics
func (db *DB) PoolMetrics() PoolMetrics {
	stats := db.Stats()
	return PoolMetrics{
		MaxOpenConnections: stats.MaxOpenConnections,
		OpenConnections:    stats.OpenConnections,
		InUse:              stats.InUse,
		Idle:               stats.Idle,
		WaitCount:          stats.WaitCount,
		WaitDuration:       stats.WaitDuration,
	}
}

// IsHealthy pings the database and checks the pool for long waits
func (db *DB) IsHealthy(ctx context.Context) bool {
	if db.DB == nil {
		return false
	}

	if err := db.PingContext(ctx); err != nil {
		return false
	}

	stats := db.Stats()
	if stats.WaitCount > 0 && stats.WaitDuration > 5*time.Second {
		return false
	}

	return true
}

// Stats returns the raw database/sql pool statistics
func (db *DB) Stats() sql.DBStats {
	if db.DB == nil {
		return sql.DBStats{}
	}
	return db.DB.Stats()
}

// Ensure DB implements Database interface
var _ Database = (*DB)(nil)
