// Package database owns the shared gorm connection.
package database

import (
	"context"
	"fmt"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/driver/sqlserver"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/shashiranjanraj/villageangel/config"
	"github.com/shashiranjanraj/villageangel/pkg/logger"
)

// DB is the shared handle, set by Connect.
var DB *gorm.DB

// slowQueryThreshold is where a query graduates from silent to a WARN
// log line.
const slowQueryThreshold = 200 * time.Millisecond

// Connect opens the configured database, sizes the pool and verifies
// the connection with a ping.
func Connect() error {
	dialector, err := dialectorFor(config.DatabaseDriver(), config.DatabaseDSN())
	if err != nil {
		return err
	}

	db, err := gorm.Open(dialector, &gorm.Config{Logger: slogBridge{}})
	if err != nil {
		return fmt.Errorf("database: open: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("database: sql handle: %w", err)
	}
	sqlDB.SetMaxOpenConns(config.Int("DB_MAX_OPEN", 25))
	sqlDB.SetMaxIdleConns(config.Int("DB_MAX_IDLE", 10))
	sqlDB.SetConnMaxLifetime(5 * time.Minute)
	sqlDB.SetConnMaxIdleTime(2 * time.Minute)

	if err := sqlDB.Ping(); err != nil {
		return fmt.Errorf("database: ping: %w", err)
	}

	DB = db
	return nil
}

func dialectorFor(driver, dsn string) (gorm.Dialector, error) {
	switch driver {
	case "sqlite":
		return sqlite.Open(dsn), nil
	case "postgres":
		return postgres.Open(dsn), nil
	case "mysql":
		return mysql.Open(dsn), nil
	case "sqlserver":
		return sqlserver.Open(dsn), nil
	default:
		return nil, fmt.Errorf("database: unsupported DB_DRIVER %q (sqlite, postgres, mysql, sqlserver)", driver)
	}
}

// slogBridge forwards gorm's logging to pkg/logger: errors always,
// slow queries as warnings, everything else dropped. gorm's own
// console logger would bypass the structured pipeline.
type slogBridge struct{}

func (slogBridge) LogMode(gormlogger.LogLevel) gormlogger.Interface { return slogBridge{} }

func (slogBridge) Info(_ context.Context, msg string, args ...interface{}) {
	logger.Debug(fmt.Sprintf("gorm: "+msg, args...))
}

func (slogBridge) Warn(_ context.Context, msg string, args ...interface{}) {
	logger.Warn(fmt.Sprintf("gorm: "+msg, args...))
}

func (slogBridge) Error(_ context.Context, msg string, args ...interface{}) {
	logger.Error(fmt.Sprintf("gorm: "+msg, args...))
}

func (slogBridge) Trace(_ context.Context, begin time.Time, fc func() (string, int64), err error) {
	elapsed := time.Since(begin)
	switch {
	case err != nil && err != gorm.ErrRecordNotFound:
		sql, rows := fc()
		logger.Error("gorm: query failed", "sql", sql, "rows", rows, "error", err)
	case elapsed > slowQueryThreshold:
		sql, rows := fc()
		logger.Warn("gorm: slow query", "sql", sql, "rows", rows, "duration", elapsed.String())
	}
}
