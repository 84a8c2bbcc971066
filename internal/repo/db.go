package repo

import (
	"Classifieds/internal/model"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	_ "modernc.org/sqlite"
)

const defaultSQLiteDSN = "file:classifieds.db?_pragma=foreign_keys(1)"

// zapWriter перенаправляет логгер gorm в zap.
type zapWriter struct {
	sugar *zap.SugaredLogger
}

func (w zapWriter) Printf(format string, args ...interface{}) {
	w.sugar.Warnf(format, args...)
}

// InitDB открывает БД по DSN и применяет миграции.
// DSN вида postgres://... или host=... открывается драйвером PostgreSQL, остальное через SQLite (modernc).
func InitDB(dsn string, sugar *zap.SugaredLogger) (*gorm.DB, error) {
	gormCfg := &gorm.Config{}
	if sugar != nil {
		gormCfg.Logger = logger.New(zapWriter{sugar: sugar}, logger.Config{
			SlowThreshold:             500 * time.Millisecond,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
		})
	} else {
		gormCfg.Logger = logger.Default.LogMode(logger.Silent)
	}

	db, err := gorm.Open(dialectorFor(dsn), gormCfg)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if err := Migrate(db); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return db, nil
}

func dialectorFor(dsn string) gorm.Dialector {
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") || strings.Contains(dsn, "host=") {
		return postgres.Open(dsn)
	}
	if dsn == "" {
		dsn = defaultSQLiteDSN
	}
	return gormsqlite.Dialector{DriverName: "sqlite", DSN: dsn}
}

// Migrate создаёт/обновляет схему для всех моделей.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.User{},
		&model.Profile{},
		&model.Section{},
		&model.Group{},
		&model.Item{},
		&model.Image{},
	)
}
