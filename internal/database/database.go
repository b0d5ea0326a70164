package database

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/mantonx/moviecatalog/internal/config"
	"github.com/mantonx/moviecatalog/internal/logger"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// MemoryPath opens a private in-memory sqlite database.
const MemoryPath = ":memory:"

var (
	DB   *gorm.DB
	dbMu sync.RWMutex
)

// Open connects to the database described by cfg. It does not migrate.
func Open(cfg config.DatabaseFullConfig) (*gorm.DB, error) {
	gormCfg := &gorm.Config{
		Logger:         newGormLogger(cfg.LogQueries),
		TranslateError: true,
		NowFunc:        func() time.Time { return Now().UTC() },
	}

	var (
		db  *gorm.DB
		err error
	)
	switch cfg.Type {
	case "postgres":
		db, err = gorm.Open(postgres.Open(dsnFor(cfg)), gormCfg)
	case "sqlite", "":
		db, err = openSQLite(cfg, gormCfg)
	default:
		return nil, fmt.Errorf("unsupported database type: %s", cfg.Type)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s database: %w", cfg.Type, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}
	if isMemory(cfg) {
		// every connection to :memory: is a separate database
		sqlDB.SetMaxOpenConns(1)
	} else {
		if cfg.MaxOpenConns > 0 {
			sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
		}
		if cfg.MaxIdleConns > 0 {
			sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
		}
		if cfg.ConnMaxLifetime > 0 {
			sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
		}
	}

	return db, nil
}

func dsnFor(cfg config.DatabaseFullConfig) string {
	if cfg.URL != "" {
		return cfg.URL
	}
	return config.PostgresDSN(cfg)
}

func isMemory(cfg config.DatabaseFullConfig) bool {
	return (cfg.Type == "sqlite" || cfg.Type == "") && cfg.DatabasePath == MemoryPath
}

func openSQLite(cfg config.DatabaseFullConfig, gormCfg *gorm.Config) (*gorm.DB, error) {
	path := cfg.DatabasePath
	if path == "" {
		path = filepath.Join(cfg.DataDir, "catalog.db")
	}
	// sqlite leaves foreign keys unenforced unless asked per connection
	if path == MemoryPath {
		return gorm.Open(sqlite.Open(path+"?_foreign_keys=on"), gormCfg)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	return gorm.Open(sqlite.Open(path+"?_busy_timeout=5000&_foreign_keys=on"), gormCfg)
}

func newGormLogger(logQueries bool) gormlogger.Interface {
	level := gormlogger.Warn
	if logQueries {
		level = gormlogger.Info
	}
	writer := logger.Named("gorm").StandardLogger(&hclog.StandardLoggerOptions{InferLevels: true})
	return gormlogger.New(writer, gormlogger.Config{
		SlowThreshold:             500 * time.Millisecond,
		LogLevel:                  level,
		IgnoreRecordNotFoundError: true,
		Colorful:                  false,
	})
}

// Migrate creates or updates every catalog table.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(AllModels()...); err != nil {
		return fmt.Errorf("failed to migrate catalog schema: %w", err)
	}
	return nil
}

// Initialize opens the configured database, migrates it and stores it as the
// process-wide handle returned by GetDB.
func Initialize(cfg config.DatabaseFullConfig) (*gorm.DB, error) {
	db, err := Open(cfg)
	if err != nil {
		return nil, err
	}
	if err := Migrate(db); err != nil {
		return nil, err
	}

	dbMu.Lock()
	DB = db
	dbMu.Unlock()

	logger.Info("Database initialized", []logger.Field{
		logger.String("type", cfg.Type),
		logger.Int("tables", len(AllModels())),
	})
	return db, nil
}

// GetDB returns the database instance
func GetDB() *gorm.DB {
	dbMu.RLock()
	defer dbMu.RUnlock()
	return DB
}

// Close releases the process-wide handle.
func Close() error {
	dbMu.Lock()
	defer dbMu.Unlock()
	if DB == nil {
		return nil
	}
	sqlDB, err := DB.DB()
	if err != nil {
		return err
	}
	DB = nil
	return sqlDB.Close()
}
