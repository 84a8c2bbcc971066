package service

import (
	"Classifieds/internal/model"
	"Classifieds/internal/repo"
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"gorm.io/gorm"
)

// TaxonomyService — разделы и группы для главной страницы и админки.
type TaxonomyService struct {
	taxonomy repo.TaxonomyRepository
	items    repo.ItemRepository
}

func NewTaxonomyService(taxonomy repo.TaxonomyRepository, items repo.ItemRepository) *TaxonomyService {
	return &TaxonomyService{taxonomy: taxonomy, items: items}
}

// Index: содержимое главной страницы.
type Index struct {
	Sections []model.Section `json:"sections"`
	Groups   []model.Group   `json:"groups"`
}

// GroupDetail: группа с её активными объявлениями.
type GroupDetail struct {
	Group *model.Group `json:"group"`
	Items []model.Item `json:"items"`
}

func (s *TaxonomyService) Index(ctx context.Context) (*Index, error) {
	sections, err := s.taxonomy.ListSections(ctx)
	if err != nil {
		return nil, fmt.Errorf("list sections: %w", err)
	}
	groups, err := s.taxonomy.ListGroups(ctx)
	if err != nil {
		return nil, fmt.Errorf("list groups: %w", err)
	}
	return &Index{Sections: sections, Groups: groups}, nil
}

func (s *TaxonomyService) ListSections(ctx context.Context) ([]model.Section, error) {
	return s.taxonomy.ListSections(ctx)
}

func (s *TaxonomyService) ListGroups(ctx context.Context) ([]model.Group, error) {
	return s.taxonomy.ListGroups(ctx)
}

// Group возвращает группу со всеми активными объявлениями (без постраничного вывода).
func (s *TaxonomyService) Group(ctx context.Context, id int64) (*GroupDetail, error) {
	group, err := s.taxonomy.GetGroup(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get group: %w", err)
	}
	items, err := s.items.ListActiveByGroup(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("list group items: %w", err)
	}
	return &GroupDetail{Group: group, Items: items}, nil
}

func (s *TaxonomyService) CreateSection(ctx context.Context, title string) (*model.Section, error) {
	title, err := taxonomyTitle(title)
	if err != nil {
		return nil, err
	}
	section := &model.Section{Title: title}
	if err := s.taxonomy.CreateSection(ctx, section); err != nil {
		return nil, fmt.Errorf("create section: %w", err)
	}
	return section, nil
}

// CreateGroup создаёт группу в существующем разделе.
func (s *TaxonomyService) CreateGroup(ctx context.Context, sectionID int64, title string) (*model.Group, error) {
	title, err := taxonomyTitle(title)
	if err != nil {
		return nil, err
	}
	sections, err := s.taxonomy.ListSections(ctx)
	if err != nil {
		return nil, fmt.Errorf("list sections: %w", err)
	}
	found := false
	for _, sec := range sections {
		if sec.ID == sectionID {
			found = true
			break
		}
	}
	if !found {
		return nil, ErrNotFound
	}
	group := &model.Group{Title: title, SectionID: sectionID}
	if err := s.taxonomy.CreateGroup(ctx, group); err != nil {
		return nil, fmt.Errorf("create group: %w", err)
	}
	return group, nil
}

func taxonomyTitle(title string) (string, error) {
	title = strings.TrimSpace(title)
	verr := &ValidationError{}
	switch n := utf8.RuneCountInString(title); {
	case n == 0:
		verr.Add("title", "this field is required")
	case n > maxTitleLen:
		verr.Add("title", fmt.Sprintf("ensure this value has at most %d characters", maxTitleLen))
	}
	if !verr.empty() {
		return "", verr
	}
	return title, nil
}
