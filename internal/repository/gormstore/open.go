package gormstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/vytor/squadpick/internal/logger"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const slowQueryThreshold = 200 * time.Millisecond

// OpenPostgres connects to Postgres and migrates the schema.
func OpenPostgres(dsn string) (*gorm.DB, error) {
	return Open(postgres.Open(dsn))
}

// Open connects with the given dialector and migrates the schema.
func Open(dialector gorm.Dialector) (*gorm.DB, error) {
	log := logger.Default().WithPrefix("gorm")
	log.Info("opening %s database", dialector.Name())

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: NewLogger(gormlogger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", dialector.Name(), err)
	}
	if err := AutoMigrate(db); err != nil {
		return nil, fmt.Errorf("migrate %s: %w", dialector.Name(), err)
	}

	log.Info("database ready")
	return db, nil
}

// gormLogger routes GORM's log output through the request-scoped logger.
type gormLogger struct {
	level gormlogger.LogLevel
}

// NewLogger returns a gorm logger.Interface backed by this service's logger.
func NewLogger(level gormlogger.LogLevel) gormlogger.Interface {
	return &gormLogger{level: level}
}

func (l *gormLogger) LogMode(level gormlogger.LogLevel) gormlogger.Interface {
	return &gormLogger{level: level}
}

func (l *gormLogger) Info(ctx context.Context, msg string, args ...any) {
	if l.level >= gormlogger.Info {
		logger.FromContext(ctx).WithPrefix("gorm").Info(msg, args...)
	}
}

func (l *gormLogger) Warn(ctx context.Context, msg string, args ...any) {
	if l.level >= gormlogger.Warn {
		logger.FromContext(ctx).WithPrefix("gorm").Warn(msg, args...)
	}
}

func (l *gormLogger) Error(ctx context.Context, msg string, args ...any) {
	if l.level >= gormlogger.Error {
		logger.FromContext(ctx).WithPrefix("gorm").Error(msg, args...)
	}
}

func (l *gormLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if l.level <= gormlogger.Silent {
		return
	}

	log := logger.FromContext(ctx).WithPrefix("gorm")
	elapsed := time.Since(begin)
	switch {
	case err != nil && l.level >= gormlogger.Error && !errors.Is(err, gorm.ErrRecordNotFound):
		sql, rows := fc()
		log.Error("query failed after %v (rows=%d): %s: %v", elapsed, rows, sql, err)
	case elapsed > slowQueryThreshold && l.level >= gormlogger.Warn:
		sql, rows := fc()
		log.Warn("slow query %v (rows=%d): %s", elapsed, rows, sql)
	case l.level >= gormlogger.Info:
		sql, rows := fc()
		log.Debug("query %v (rows=%d): %s", elapsed, rows, sql)
	}
}
