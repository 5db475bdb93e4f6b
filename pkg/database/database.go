package database

import (
	"database/sql"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	Postgres = "postgres"
	SQLite   = "sqlite"
)

type Options struct {
	Driver string
	// DSN is a postgres connection string, or a file path for sqlite
	// (":memory:" for an in-process database).
	DSN string
	// LogSQL logs every statement instead of only slow ones and errors.
	LogSQL bool
	// LogWriter receives gorm's log lines. Defaults to stdout.
	LogWriter io.Writer
}

func Connect(opts Options) (*gorm.DB, error) {
	out := opts.LogWriter
	if out == nil {
		out = os.Stdout
	}
	level := logger.Warn
	if opts.LogSQL {
		level = logger.Info
	}
	gormLogger := logger.New(
		log.New(out, "", 0),
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  level,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)
	cfg := &gorm.Config{
		Logger:      gormLogger,
		PrepareStmt: false, // Disables GORM-level prepared statements
	}

	switch opts.Driver {
	case Postgres:
		db, err := gorm.Open(postgres.New(postgres.Config{
			DSN:                  opts.DSN,
			PreferSimpleProtocol: true, // Disables implicit prepared statements for Supabase Transaction Mode
		}), cfg)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		// Connection Pooling Setup (Penting untuk Production)
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxIdleConns(10)
		sqlDB.SetMaxOpenConns(100)
		sqlDB.SetConnMaxLifetime(time.Hour)
		return db, nil

	case SQLite:
		db, err := gorm.Open(sqlite.Open(opts.DSN), cfg)
		if err != nil {
			return nil, fmt.Errorf("open sqlite %s: %w", opts.DSN, err)
		}
		// SQLite allows one writer; a single connection also keeps a
		// ":memory:" database alive and shared.
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)
		return db, nil
	}

	return nil, fmt.Errorf("unsupported database driver %q", opts.Driver)
}

// SnapshotOptions returns the options for a read-only transaction that sees a
// single consistent snapshot. SQLite transactions are serializable already.
func SnapshotOptions(db *gorm.DB) *sql.TxOptions {
	if db.Dialector.Name() == Postgres {
		return &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true}
	}
	return nil
}
