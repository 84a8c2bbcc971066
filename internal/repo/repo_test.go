package repo

import (
	"Classifieds/internal/model"
	"context"
	"fmt"
	"strings"
	"testing"

	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	_ "modernc.org/sqlite"
)

// newTestDB инициализирует in-memory SQLite (modernc.org/sqlite) для тестов репозитория.
// У каждого теста своя база.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dial := gormsqlite.Dialector{DriverName: "sqlite", DSN: fmt.Sprintf("file:%s?mode=memory&cache=shared", name)}
	db, err := gorm.Open(dial, &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("failed to open sqlite (modernc): %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := Migrate(db); err != nil {
		t.Fatalf("failed to automigrate: %v", err)
	}
	return db
}

// seedTaxonomy создаёт раздел с группой и возвращает их.
func seedTaxonomy(t *testing.T, db *gorm.DB, section, group string) (*model.Section, *model.Group) {
	t.Helper()
	tr := NewTaxonomyRepository(db)
	s := &model.Section{Title: section}
	if err := tr.CreateSection(context.Background(), s); err != nil {
		t.Fatalf("create section: %v", err)
	}
	g := &model.Group{Title: group, SectionID: s.ID}
	if err := tr.CreateGroup(context.Background(), g); err != nil {
		t.Fatalf("create group: %v", err)
	}
	return s, g
}

// seedUser создаёт пользователя вместе с профилем.
func seedUser(t *testing.T, db *gorm.DB, login string) *model.User {
	t.Helper()
	u, err := NewUserRepository(db).CreateUser(context.Background(), &model.User{Login: login, Password: "hash"})
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	return u
}
