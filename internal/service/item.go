package service

import (
	"Classifieds/internal/config"
	"Classifieds/internal/metrics"
	"Classifieds/internal/model"
	"Classifieds/internal/repo"
	"Classifieds/internal/search"
	"Classifieds/internal/storage"
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Limits — ограничения жизненного цикла объявлений.
type Limits struct {
	ItemsPerUser  int64
	Related       int
	PageSize      int
	ImageSlots    int
	ImageMaxBytes int64
}

// LimitsFromConfig переносит лимиты из конфигурации.
func LimitsFromConfig(cfg *config.Config) Limits {
	return Limits{
		ItemsPerUser:  int64(cfg.ItemPerUserLimit),
		Related:       cfg.RelatedLimit,
		PageSize:      cfg.SearchPageSize,
		ImageSlots:    cfg.ImageSlots,
		ImageMaxBytes: int64(cfg.ImageMaxSizeMB) * 1024 * 1024,
	}
}

// ItemService управляет жизненным циклом объявлений: создание, правка, удаление, поиск.
type ItemService struct {
	items     repo.ItemRepository
	guard     *Guard
	validator *Validator
	store     storage.Store
	metrics   metrics.MetricsCollector
	logger    *zap.SugaredLogger
	limits    Limits
}

// NewItemService собирает сервис объявлений.
func NewItemService(
	items repo.ItemRepository,
	taxonomy repo.TaxonomyRepository,
	store storage.Store,
	collector metrics.MetricsCollector,
	logger *zap.SugaredLogger,
	limits Limits,
) *ItemService {
	return &ItemService{
		items:     items,
		guard:     NewGuard(items, limits.ItemsPerUser),
		validator: NewValidator(taxonomy, limits.ImageSlots, limits.ImageMaxBytes),
		store:     store,
		metrics:   collector,
		logger:    logger,
		limits:    limits,
	}
}

// ItemDetail: объявление для страницы просмотра.
type ItemDetail struct {
	Item     *model.Item  `json:"item"`
	Excerpt  string       `json:"excerpt"`
	Keywords string       `json:"keywords"`
	Related  []model.Item `json:"related"`
}

// ImageSlots возвращает число слотов изображений в форме.
func (s *ItemService) ImageSlots() int { return s.limits.ImageSlots }

// PrepareCreate проверяет, может ли пользователь открыть форму нового объявления.
func (s *ItemService) PrepareCreate(ctx context.Context, actor Actor) error {
	ok, err := s.guard.CanCreate(ctx, actor)
	if err != nil {
		return err
	}
	if !ok {
		s.metrics.RecordQuotaRejected()
		return ErrQuotaExceeded
	}
	return nil
}

// Create проверяет лимит, затем форму вместе с изображениями и только после этого
// сохраняет объявление и изображения одной транзакцией.
func (s *ItemService) Create(ctx context.Context, actor Actor, form ItemForm, uploads []ImageUpload) (*model.Item, error) {
	if err := s.PrepareCreate(ctx, actor); err != nil {
		return nil, err
	}

	fields, images, err := s.validator.Validate(ctx, form, uploads, 0, nil)
	if err != nil {
		return nil, err
	}

	item := fields
	item.UserID = actor.UserID

	stored, err := s.storeImages(ctx, images)
	if err != nil {
		return nil, err
	}
	if err := s.items.Create(ctx, &item, toImages(stored)); err != nil {
		s.removeFiles(ctx, stored)
		return nil, fmt.Errorf("create item: %w", err)
	}

	s.metrics.RecordItemCreated()
	s.logger.Infow("item created", "item_id", item.ID, "user_id", actor.UserID, "images", len(stored))
	return &item, nil
}

// PrepareEdit загружает объявление для формы правки с проверкой прав.
func (s *ItemService) PrepareEdit(ctx context.Context, actor Actor, id int64) (*model.Item, error) {
	item, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !CanEdit(item, actor) {
		s.metrics.RecordForbidden()
		return nil, ErrForbidden
	}
	return item, nil
}

// Update проверяет права до валидации, затем валидирует форму с изображениями
// и сохраняет изменения одной транзакцией. removeIDs: изображения, отмеченные на удаление.
func (s *ItemService) Update(ctx context.Context, actor Actor, id int64, form ItemForm, uploads []ImageUpload, removeIDs []int64) (*model.Item, error) {
	item, err := s.PrepareEdit(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	remaining := len(item.Images) - countOwned(item.Images, removeIDs)
	fields, images, err := s.validator.Validate(ctx, form, uploads, remaining, item)
	if err != nil {
		return nil, err
	}

	item.Title = fields.Title
	item.Description = fields.Description
	item.Price = fields.Price
	item.Phone = fields.Phone
	item.GroupID = fields.GroupID
	item.IsActive = fields.IsActive

	stored, err := s.storeImages(ctx, images)
	if err != nil {
		return nil, err
	}
	removed, err := s.items.Update(ctx, item, toImages(stored), removeIDs)
	if err != nil {
		s.removeFiles(ctx, stored)
		return nil, fmt.Errorf("update item: %w", err)
	}
	s.removeFiles(ctx, filesOf(removed))

	s.logger.Infow("item updated", "item_id", item.ID, "user_id", actor.UserID,
		"added_images", len(stored), "removed_images", len(removed))
	return s.load(ctx, id)
}

// Delete проверяет права, удаляет изображения и объявление.
// Возвращает уведомление для пользователя.
func (s *ItemService) Delete(ctx context.Context, actor Actor, id int64) (string, error) {
	item, err := s.PrepareEdit(ctx, actor, id)
	if err != nil {
		return "", err
	}
	images, err := s.items.Delete(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("delete item: %w", err)
	}
	s.removeFiles(ctx, filesOf(images))

	s.metrics.RecordItemDeleted()
	s.logger.Infow("item deleted", "item_id", id, "user_id", actor.UserID, "images", len(images))
	return fmt.Sprintf("Item %s was successfully deleted!", item.Title), nil
}

// Detail возвращает активное объявление с похожими.
func (s *ItemService) Detail(ctx context.Context, id int64) (*ItemDetail, error) {
	item, err := s.items.GetActiveByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get item: %w", err)
	}
	related, err := s.items.Related(ctx, item, s.limits.Related)
	if err != nil {
		return nil, fmt.Errorf("related items: %w", err)
	}
	return &ItemDetail{
		Item:     item,
		Excerpt:  item.Excerpt(model.DefaultExcerptLimit),
		Keywords: item.Keywords(),
		Related:  related,
	}, nil
}

// ListMine возвращает все объявления пользователя, включая неактивные.
func (s *ItemService) ListMine(ctx context.Context, actor Actor) ([]model.Item, error) {
	items, err := s.items.ListByOwner(ctx, actor.UserID)
	if err != nil {
		return nil, fmt.Errorf("list own items: %w", err)
	}
	return items, nil
}

// Search выполняет постраничный поиск по активным объявлениям.
func (s *ItemService) Search(ctx context.Context, f search.Filter) (repo.ItemPage, error) {
	page, err := s.items.Search(ctx, f.Where(), f.Page, s.limits.PageSize)
	if err != nil {
		return repo.ItemPage{}, fmt.Errorf("search items: %w", err)
	}
	return page, nil
}

func (s *ItemService) load(ctx context.Context, id int64) (*model.Item, error) {
	item, err := s.items.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get item: %w", err)
	}
	return item, nil
}

func (s *ItemService) storeImages(ctx context.Context, images []validImage) ([]string, error) {
	stored := make([]string, 0, len(images))
	for _, img := range images {
		path, err := s.store.Save(ctx, img.ext, img.data)
		if err != nil {
			s.removeFiles(ctx, stored)
			return nil, fmt.Errorf("store image: %w", err)
		}
		stored = append(stored, path)
	}
	return stored, nil
}

func (s *ItemService) removeFiles(ctx context.Context, paths []string) {
	for _, p := range paths {
		if err := s.store.Delete(ctx, p); err != nil {
			s.logger.Warnw("failed to remove image file", "path", p, "error", err)
		}
	}
}

func toImages(paths []string) []model.Image {
	images := make([]model.Image, 0, len(paths))
	for _, p := range paths {
		images = append(images, model.Image{File: p})
	}
	return images
}

func filesOf(images []model.Image) []string {
	paths := make([]string, 0, len(images))
	for _, img := range images {
		paths = append(paths, img.File)
	}
	return paths
}

// countOwned считает, сколько из ids принадлежат изображениям объявления.
func countOwned(images []model.Image, ids []int64) int {
	own := make(map[int64]struct{}, len(images))
	for _, img := range images {
		own[img.ID] = struct{}{}
	}
	n := 0
	seen := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		if _, ok := own[id]; ok {
			n++
		}
	}
	return n
}
