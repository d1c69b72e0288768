package store

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"signalengine/internal/logging"
)

// Config holds Postgres connection configuration.
type Config struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
	SSLMode  string `yaml:"ssl_mode"`
}

// DB wraps a pgx connection pool.
type DB struct {
	Pool *pgxpool.Pool
}

// NewDB builds the connection pool and pings it before returning, the same
// shape as the teacher's database.NewDB.
func NewDB(ctx context.Context, cfg *Config) (*DB, error) {
	dsn := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Database, cfg.SSLMode,
	)

	poolCfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse pool config: %w", err)
	}

	poolCfg.MaxConns = 25
	poolCfg.MinConns = 5
	poolCfg.MaxConnLifetime = time.Hour
	poolCfg.MaxConnIdleTime = 30 * time.Minute
	poolCfg.HealthCheckPeriod = time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	logging.DatabaseContext("connect", "").Info("connected to postgres", "host", cfg.Host, "database", cfg.Database)
	return &DB{Pool: pool}, nil
}

// Close releases the underlying pool.
func (d *DB) Close() {
	d.Pool.Close()
}

// HealthCheck pings the pool.
func (d *DB) HealthCheck(ctx context.Context) error {
	return d.Pool.Ping(ctx)
}

// RunMigrations executes the ordered, idempotent schema statements.
func (d *DB) RunMigrations(ctx context.Context) error {
	for i, stmt := range migrations {
		if _, err := d.Pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	logging.DatabaseContext("migrate", "").Info("migrations applied", "count", len(migrations))
	return nil
}
