package manager

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/sukryu/pSite/pkg/apis/site/v1alpha1"
	"github.com/sukryu/pSite/pkg/errors"
)

// Manager defines the interface for database operations
type Manager interface {
	// Initialize migrates the schema when AutoMigrate is set
	Initialize(ctx context.Context) error

	// Migrate creates or alters every table of the site
	Migrate(ctx context.Context) error

	// GetDB returns the database connection
	GetDB() *gorm.DB

	// SQLDB returns the underlying pool, for health checks and metrics
	SQLDB() *sql.DB

	// Close closes the database connection
	Close() error

	// GetStats returns database statistics
	GetStats() map[string]interface{}
}

// Config holds database configuration
type Config struct {
	Driver          string
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	AutoMigrate     bool
}

type manager struct {
	cfg   Config
	db    *gorm.DB
	sqlDB *sql.DB
}

// NewManager opens the database for cfg.Driver ("postgres" or "sqlite") and
// applies the pool limits.
func NewManager(cfg Config, logger *slog.Logger) (Manager, error) {
	var dialector gorm.Dialector
	switch cfg.Driver {
	case "postgres":
		dialector = postgres.Open(cfg.DSN)
	case "sqlite":
		dialector = sqlite.Open(cfg.DSN)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: newGormLogger(logger),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database handle: %w", err)
	}
	if cfg.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	return &manager{cfg: cfg, db: db, sqlDB: sqlDB}, nil
}

func newGormLogger(logger *slog.Logger) gormlogger.Interface {
	if logger == nil {
		return gormlogger.Default.LogMode(gormlogger.Silent)
	}
	return gormlogger.New(
		slog.NewLogLogger(logger.Handler(), slog.LevelWarn),
		gormlogger.Config{
			SlowThreshold:             500 * time.Millisecond,
			LogLevel:                  gormlogger.Warn,
			IgnoreRecordNotFoundError: true,
		},
	)
}

func (m *manager) Initialize(ctx context.Context) error {
	if err := m.sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("%w: %v", errors.ErrDatabaseConnection.WithReason(m.cfg.Driver), err)
	}
	if !m.cfg.AutoMigrate {
		return nil
	}
	return m.Migrate(ctx)
}

func (m *manager) Migrate(ctx context.Context) error {
	if err := m.db.WithContext(ctx).AutoMigrate(v1alpha1.AllModels()...); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	return nil
}

func (m *manager) GetDB() *gorm.DB {
	return m.db
}

func (m *manager) SQLDB() *sql.DB {
	return m.sqlDB
}

func (m *manager) Close() error {
	return m.sqlDB.Close()
}

func (m *manager) GetStats() map[string]interface{} {
	stats := m.sqlDB.Stats()
	return map[string]interface{}{
		"max_open_connections": stats.MaxOpenConnections,
		"open_connections":     stats.OpenConnections,
		"in_use":               stats.InUse,
		"idle":                 stats.Idle,
		"wait_count":           stats.WaitCount,
		"wait_duration":        stats.WaitDuration.String(),
	}
}
