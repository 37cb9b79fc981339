package database

import (
	"context"
	"database/sql"
	"time"

	"github.com/onyx-go/schema/internal/database/migrations"
)

// Database represents a pooled connection that can manage index schema
type Database interface {
	// Connection management
	Close() error
	PingContext(ctx context.Context) error
	Driver() string

	// Index schema operations bound to this connection
	Schema(config *migrations.SchemaConfig) migrations.SchemaBuilder

	// Pool information
	Stats() sql.DBStats
	PoolMetrics() PoolMetrics
	IsHealthy(ctx context.Context) bool
}

// PoolMetrics is a snapshot of connection pool statistics
type PoolMetrics struct {
	MaxOpenConnections int           `json:"max_open_connections"`
	OpenConnections    int           `json:"open_connections"`
	InUse              int           `json:"in_use"`
	Idle               int           `json:"idle"`
	WaitCount          int64         `json:"wait_count"`
	WaitDuration       time.Duration `json:"wait_duration"`
}
