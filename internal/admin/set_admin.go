package admin

import (
	"Classifieds/internal/config"
	"Classifieds/internal/repo"
	"Classifieds/internal/service"
	"context"
	"fmt"
	"strconv"
)

type setAdminCmd struct{}

func (setAdminCmd) Name() string        { return "set-admin" }
func (setAdminCmd) Description() string { return "Grant or revoke administrator rights" }
func (setAdminCmd) Usage() string       { return "set-admin <login> <true|false>" }

func (setAdminCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 2 {
		return ErrUsage
	}
	isAdmin, err := strconv.ParseBool(args[1])
	if err != nil {
		return ErrUsage
	}
	db, err := openDB(cfg)
	if err != nil {
		return err
	}
	if sqlDB, err := db.DB(); err == nil {
		defer sqlDB.Close()
	}

	if err := service.NewUserService(repo.NewUserRepository(db)).SetAdmin(ctx, args[0], isAdmin); err != nil {
		return fmt.Errorf("user %q: %w", args[0], err)
	}
	fmt.Fprintf(Out, "user %s: is_admin=%t\n", args[0], isAdmin)
	return nil
}

func init() { RegisterCmd(setAdminCmd{}) }
