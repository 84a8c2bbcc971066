package admin

import (
	"Classifieds/internal/config"
	"context"
	"fmt"
)

type migrateCmd struct{}

func (migrateCmd) Name() string        { return "migrate" }
func (migrateCmd) Description() string { return "Create or update the database schema" }
func (migrateCmd) Usage() string       { return "migrate" }

// Run открывает базу; InitDB применяет миграции при открытии.
func (migrateCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 0 {
		return ErrUsage
	}
	db, err := openDB(cfg)
	if err != nil {
		return err
	}
	if sqlDB, err := db.DB(); err == nil {
		defer sqlDB.Close()
	}
	fmt.Fprintln(Out, "schema is up to date")
	return nil
}

func init() { RegisterCmd(migrateCmd{}) }
