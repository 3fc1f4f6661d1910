// Package gormdb is the relational store of the user and post services. It
// runs on SQLite for local use and tests and on MySQL in deployment.
package gormdb

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/postblog/platform/internal/core/domain"
)

const (
	DriverSQLite = "sqlite"
	DriverMySQL  = "mysql"

	slowQueryThreshold = 200 * time.Millisecond
)

// Config selects the SQL dialect and connection string.
type Config struct {
	Driver string
	DSN    string
	Debug  bool
}

// Open connects to the configured database with unique-key violations
// translated to gorm.ErrDuplicatedKey.
func Open(cfg Config, log zerolog.Logger) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.Driver {
	case DriverSQLite, "":
		dialector = sqlite.Open(cfg.DSN)
	case DriverMySQL:
		dialector = mysql.Open(cfg.DSN)
	default:
		return nil, fmt.Errorf("unsupported db driver %q", cfg.Driver)
	}

	level := gormlogger.Warn
	if cfg.Debug {
		level = gormlogger.Info
	}
	gl := log.With().Str("component", "gorm").Logger()

	db, err := gorm.Open(dialector, &gorm.Config{
		TranslateError: true,
		NowFunc:        nowUTC,
		Logger: gormlogger.New(&gl, gormlogger.Config{
			SlowThreshold:             slowQueryThreshold,
			LogLevel:                  level,
			IgnoreRecordNotFoundError: true,
		}),
	})
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", cfg.Driver, err)
	}

	if cfg.Driver == DriverSQLite || cfg.Driver == "" {
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		// SQLite serialises writers anyway; one connection also keeps
		// :memory: databases alive for the life of the pool.
		sqlDB.SetMaxOpenConns(1)
		if err := db.Exec("PRAGMA foreign_keys = ON").Error; err != nil {
			return nil, fmt.Errorf("enable foreign keys: %w", err)
		}
	}
	return db, nil
}

// MigrateUserSchema creates the credential store tables and seeds the USER
// and ADMIN roles.
func MigrateUserSchema(ctx context.Context, db *gorm.DB) error {
	if err := db.WithContext(ctx).AutoMigrate(&roleRecord{}, &userRecord{}); err != nil {
		return fmt.Errorf("migrate user schema: %w", err)
	}
	roles := NewRoleRepository(db)
	for _, name := range []string{domain.RoleUser, domain.RoleAdmin} {
		if _, err := roles.Ensure(ctx, name); err != nil {
			return err
		}
	}
	return nil
}

// MigratePostSchema creates the post, category and comment tables.
func MigratePostSchema(ctx context.Context, db *gorm.DB) error {
	if err := db.WithContext(ctx).AutoMigrate(&postRecord{}, &postCategoryRecord{}, &commentRecord{}); err != nil {
		return fmt.Errorf("migrate post schema: %w", err)
	}
	return nil
}

// Pinger adapts the pool to the readiness probe.
type Pinger struct {
	DB *gorm.DB
}

func (p Pinger) Name() string { return "database" }

func (p Pinger) Ping(ctx context.Context) error {
	sqlDB, err := p.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// nowUTC stamps every audit column, whether gorm or touched writes it.
func nowUTC() time.Time { return time.Now().UTC() }

// touched adds the last-modified audit columns to a column update.
func touched(ctx context.Context, cols map[string]any) map[string]any {
	cols["last_modified_at"] = nowUTC()
	cols["last_modified_by"] = domain.AuditorFromContext(ctx)
	return cols
}
