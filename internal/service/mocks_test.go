package service

import (
	"Classifieds/internal/metrics"
	"Classifieds/internal/model"
	"Classifieds/internal/repo"
	"Classifieds/internal/storage"
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/stretchr/testify/mock"
)

// Моки для репозиториев, хранилища и метрик
type mockItemRepo struct{ mock.Mock }

func (m *mockItemRepo) Create(ctx context.Context, it *model.Item, images []model.Image) error {
	args := m.Called(ctx, it, images)
	return args.Error(0)
}
func (m *mockItemRepo) GetByID(ctx context.Context, id int64) (*model.Item, error) {
	args := m.Called(ctx, id)
	if v, ok := args.Get(0).(*model.Item); ok {
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockItemRepo) GetActiveByID(ctx context.Context, id int64) (*model.Item, error) {
	args := m.Called(ctx, id)
	if v, ok := args.Get(0).(*model.Item); ok {
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockItemRepo) Update(ctx context.Context, it *model.Item, add []model.Image, removeIDs []int64) ([]model.Image, error) {
	args := m.Called(ctx, it, add, removeIDs)
	if v, ok := args.Get(0).([]model.Image); ok {
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockItemRepo) Delete(ctx context.Context, id int64) ([]model.Image, error) {
	args := m.Called(ctx, id)
	if v, ok := args.Get(0).([]model.Image); ok {
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockItemRepo) ListByOwner(ctx context.Context, userID int64) ([]model.Item, error) {
	args := m.Called(ctx, userID)
	if v, ok := args.Get(0).([]model.Item); ok {
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockItemRepo) ListActiveByGroup(ctx context.Context, groupID int64) ([]model.Item, error) {
	args := m.Called(ctx, groupID)
	if v, ok := args.Get(0).([]model.Item); ok {
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockItemRepo) CountByOwner(ctx context.Context, userID int64) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}
func (m *mockItemRepo) Related(ctx context.Context, it *model.Item, limit int) ([]model.Item, error) {
	args := m.Called(ctx, it, limit)
	if v, ok := args.Get(0).([]model.Item); ok {
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockItemRepo) Search(ctx context.Context, where sq.Sqlizer, page, size int) (repo.ItemPage, error) {
	args := m.Called(ctx, where, page, size)
	return args.Get(0).(repo.ItemPage), args.Error(1)
}

var _ repo.ItemRepository = (*mockItemRepo)(nil)

type mockTaxonomyRepo struct{ mock.Mock }

func (m *mockTaxonomyRepo) ListSections(ctx context.Context) ([]model.Section, error) {
	args := m.Called(ctx)
	if v, ok := args.Get(0).([]model.Section); ok {
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockTaxonomyRepo) ListGroups(ctx context.Context) ([]model.Group, error) {
	args := m.Called(ctx)
	if v, ok := args.Get(0).([]model.Group); ok {
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockTaxonomyRepo) GetGroup(ctx context.Context, id int64) (*model.Group, error) {
	args := m.Called(ctx, id)
	if v, ok := args.Get(0).(*model.Group); ok {
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockTaxonomyRepo) CreateSection(ctx context.Context, s *model.Section) error {
	return m.Called(ctx, s).Error(0)
}
func (m *mockTaxonomyRepo) CreateGroup(ctx context.Context, g *model.Group) error {
	return m.Called(ctx, g).Error(0)
}

var _ repo.TaxonomyRepository = (*mockTaxonomyRepo)(nil)

type mockUserRepo struct{ mock.Mock }

func (m *mockUserRepo) CreateUser(ctx context.Context, user *model.User) (*model.User, error) {
	args := m.Called(ctx, user)
	if u, ok := args.Get(0).(*model.User); ok {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockUserRepo) GetUserByLogin(ctx context.Context, login string) (*model.User, error) {
	args := m.Called(ctx, login)
	if u, ok := args.Get(0).(*model.User); ok {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockUserRepo) GetUserByID(ctx context.Context, id int64) (*model.User, error) {
	args := m.Called(ctx, id)
	if u, ok := args.Get(0).(*model.User); ok {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockUserRepo) UpdateProfile(ctx context.Context, profile *model.Profile, email *string) error {
	return m.Called(ctx, profile, email).Error(0)
}
func (m *mockUserRepo) SetAdmin(ctx context.Context, login string, isAdmin bool) error {
	return m.Called(ctx, login, isAdmin).Error(0)
}

var _ repo.UserRepository = (*mockUserRepo)(nil)

type mockStore struct{ mock.Mock }

func (m *mockStore) Save(ctx context.Context, ext string, data []byte) (string, error) {
	args := m.Called(ctx, ext, data)
	return args.String(0), args.Error(1)
}
func (m *mockStore) Delete(ctx context.Context, path string) error {
	return m.Called(ctx, path).Error(0)
}

var _ storage.Store = (*mockStore)(nil)

// countingMetrics считает вызовы без Prometheus.
type countingMetrics struct {
	created, deleted, quota, forbidden int
	statuses                           []int
}

func (c *countingMetrics) RecordItemCreated()     { c.created++ }
func (c *countingMetrics) RecordItemDeleted()     { c.deleted++ }
func (c *countingMetrics) RecordQuotaRejected()   { c.quota++ }
func (c *countingMetrics) RecordForbidden()       { c.forbidden++ }
func (c *countingMetrics) RecordHTTPStatus(s int) { c.statuses = append(c.statuses, s) }

var _ metrics.MetricsCollector = (*countingMetrics)(nil)

// хелперы
var (
	pngData = append([]byte("\x89PNG\r\n\x1a\n"), make([]byte, 32)...)
	gifData = append([]byte("GIF89a"), make([]byte, 32)...)
)

func ptrStr(s string) *string { return &s }
