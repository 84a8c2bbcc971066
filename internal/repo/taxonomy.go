package repo

import (
	"Classifieds/internal/model"
	"context"

	"gorm.io/gorm"
)

// TaxonomyRepository — разделы и группы (справочник, в основном чтение).
type TaxonomyRepository interface {
	ListSections(ctx context.Context) ([]model.Section, error)
	ListGroups(ctx context.Context) ([]model.Group, error)
	GetGroup(ctx context.Context, id int64) (*model.Group, error)
	CreateSection(ctx context.Context, s *model.Section) error
	CreateGroup(ctx context.Context, g *model.Group) error
}

type taxonomyRepo struct {
	db *gorm.DB
}

// NewTaxonomyRepository создаёт реализацию репозитория справочника.
func NewTaxonomyRepository(db *gorm.DB) TaxonomyRepository {
	return &taxonomyRepo{db: db}
}

type countRow struct {
	ID int64
	N  int64
}

// ListSections возвращает разделы по алфавиту с числом активных объявлений.
func (r *taxonomyRepo) ListSections(ctx context.Context) ([]model.Section, error) {
	var sections []model.Section
	if err := r.db.WithContext(ctx).Order("title").Find(&sections).Error; err != nil {
		return nil, err
	}

	var rows []countRow
	err := r.db.WithContext(ctx).Table("items").
		Select("listing_groups.section_id AS id, COUNT(*) AS n").
		Joins("JOIN listing_groups ON listing_groups.id = items.group_id").
		Where("items.is_active = ?", true).
		Group("listing_groups.section_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	counts := toMap(rows)
	for i := range sections {
		sections[i].ActiveItems = counts[sections[i].ID]
	}
	return sections, nil
}

// ListGroups возвращает группы, упорядоченные по разделу и названию.
func (r *taxonomyRepo) ListGroups(ctx context.Context) ([]model.Group, error) {
	var groups []model.Group
	err := r.db.WithContext(ctx).
		Preload("Section").
		Joins("JOIN sections ON sections.id = listing_groups.section_id").
		Order("sections.title, listing_groups.title").
		Find(&groups).Error
	if err != nil {
		return nil, err
	}

	counts, err := r.groupCounts(ctx, nil)
	if err != nil {
		return nil, err
	}
	for i := range groups {
		groups[i].ActiveItems = counts[groups[i].ID]
	}
	return groups, nil
}

func (r *taxonomyRepo) GetGroup(ctx context.Context, id int64) (*model.Group, error) {
	var g model.Group
	if err := r.db.WithContext(ctx).Preload("Section").First(&g, id).Error; err != nil {
		return nil, err
	}
	counts, err := r.groupCounts(ctx, &id)
	if err != nil {
		return nil, err
	}
	g.ActiveItems = counts[id]
	return &g, nil
}

func (r *taxonomyRepo) CreateSection(ctx context.Context, s *model.Section) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *taxonomyRepo) CreateGroup(ctx context.Context, g *model.Group) error {
	return r.db.WithContext(ctx).Omit("Section").Create(g).Error
}

func (r *taxonomyRepo) groupCounts(ctx context.Context, groupID *int64) (map[int64]int64, error) {
	q := r.db.WithContext(ctx).Table("items").
		Select("group_id AS id, COUNT(*) AS n").
		Where("is_active = ?", true)
	if groupID != nil {
		q = q.Where("group_id = ?", *groupID)
	}
	var rows []countRow
	if err := q.Group("group_id").Scan(&rows).Error; err != nil {
		return nil, err
	}
	return toMap(rows), nil
}

func toMap(rows []countRow) map[int64]int64 {
	m := make(map[int64]int64, len(rows))
	for _, r := range rows {
		m[r.ID] = r.N
	}
	return m
}
