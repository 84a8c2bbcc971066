package repo

import (
	"Classifieds/internal/model"
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ItemPage — страница результатов поиска.
type ItemPage struct {
	Items    []model.Item `json:"items"`
	Page     int          `json:"page"`
	NumPages int          `json:"num_pages"`
	Total    int64        `json:"total"`
}

// ItemRepository определяет контракт доступа к объявлениям и их изображениям.
type ItemRepository interface {
	// Create сохраняет объявление, затем прикрепляет к нему изображения в одной транзакции.
	Create(ctx context.Context, it *model.Item, images []model.Image) error
	// GetByID возвращает объявление с изображениями независимо от активности.
	GetByID(ctx context.Context, id int64) (*model.Item, error)
	// GetActiveByID возвращает только активное объявление.
	GetActiveByID(ctx context.Context, id int64) (*model.Item, error)
	// Update меняет редактируемые поля (slug и posted не трогает), добавляет и удаляет изображения.
	// Возвращает удалённые изображения.
	Update(ctx context.Context, it *model.Item, add []model.Image, removeIDs []int64) ([]model.Image, error)
	// Delete удаляет изображения и само объявление. Возвращает удалённые изображения.
	Delete(ctx context.Context, id int64) ([]model.Image, error)
	ListByOwner(ctx context.Context, userID int64) ([]model.Item, error)
	ListActiveByGroup(ctx context.Context, groupID int64) ([]model.Item, error)
	CountByOwner(ctx context.Context, userID int64) (int64, error)
	// Related возвращает до limit других объявлений, без ранжирования.
	Related(ctx context.Context, it *model.Item, limit int) ([]model.Item, error)
	// Search возвращает страницу объявлений по предикату, свежие сверху.
	Search(ctx context.Context, where sq.Sqlizer, page, size int) (ItemPage, error)
}

type itemRepo struct {
	db *gorm.DB
}

// NewItemRepository создаёт реализацию репозитория для Item.
func NewItemRepository(db *gorm.DB) ItemRepository {
	return &itemRepo{db: db}
}

const defaultOrder = "updated DESC, id DESC"

func (r *itemRepo) Create(ctx context.Context, it *model.Item, images []model.Image) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(it).Error; err != nil {
			return err
		}
		if len(images) == 0 {
			it.Images = []model.Image{}
			return nil
		}
		for i := range images {
			images[i].ItemID = it.ID
		}
		if err := tx.Create(&images).Error; err != nil {
			return err
		}
		it.Images = images
		return nil
	})
}

func (r *itemRepo) GetByID(ctx context.Context, id int64) (*model.Item, error) {
	var it model.Item
	err := r.db.WithContext(ctx).
		Preload("Images", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
		Preload("Group").
		First(&it, id).Error
	if err != nil {
		return nil, err
	}
	return &it, nil
}

func (r *itemRepo) GetActiveByID(ctx context.Context, id int64) (*model.Item, error) {
	var it model.Item
	err := r.db.WithContext(ctx).
		Preload("Images", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
		Preload("Group").
		Where("is_active = ?", true).
		First(&it, id).Error
	if err != nil {
		return nil, err
	}
	return &it, nil
}

func (r *itemRepo) Update(ctx context.Context, it *model.Item, add []model.Image, removeIDs []int64) ([]model.Image, error) {
	var removed []model.Image
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.Item{}).Where("id = ?", it.ID).Updates(map[string]any{
			"title":       it.Title,
			"description": it.Description,
			"price":       it.Price,
			"phone":       it.Phone,
			"search_text": model.SearchText(it.Title, it.Description),
			"group_id":    it.GroupID,
			"is_active":   it.IsActive,
			"updated":     time.Now(),
		})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		if len(removeIDs) > 0 {
			if err := tx.Where("item_id = ? AND id IN ?", it.ID, removeIDs).Find(&removed).Error; err != nil {
				return err
			}
			if len(removed) > 0 {
				ids := make([]int64, 0, len(removed))
				for _, img := range removed {
					ids = append(ids, img.ID)
				}
				if err := tx.Delete(&model.Image{}, ids).Error; err != nil {
					return err
				}
			}
		}

		if len(add) > 0 {
			for i := range add {
				add[i].ItemID = it.ID
			}
			if err := tx.Create(&add).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return removed, nil
}

func (r *itemRepo) Delete(ctx context.Context, id int64) ([]model.Image, error) {
	var images []model.Image
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("item_id = ?", id).Find(&images).Error; err != nil {
			return err
		}
		if err := tx.Where("item_id = ?", id).Delete(&model.Image{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&model.Item{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return images, nil
}

func (r *itemRepo) ListByOwner(ctx context.Context, userID int64) ([]model.Item, error) {
	var items []model.Item
	err := r.db.WithContext(ctx).
		Preload("Images").
		Where("user_id = ?", userID).
		Order(defaultOrder).
		Find(&items).Error
	return items, err
}

func (r *itemRepo) ListActiveByGroup(ctx context.Context, groupID int64) ([]model.Item, error) {
	var items []model.Item
	err := r.db.WithContext(ctx).
		Where("group_id = ? AND is_active = ?", groupID, true).
		Order(defaultOrder).
		Find(&items).Error
	return items, err
}

func (r *itemRepo) CountByOwner(ctx context.Context, userID int64) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Item{}).Where("user_id = ?", userID).Count(&n).Error
	return n, err
}

func (r *itemRepo) Related(ctx context.Context, it *model.Item, limit int) ([]model.Item, error) {
	var items []model.Item
	if limit <= 0 {
		return items, nil
	}
	err := r.db.WithContext(ctx).
		Where("id <> ?", it.ID).
		Order(defaultOrder).
		Limit(limit).
		Find(&items).Error
	return items, err
}

func (r *itemRepo) Search(ctx context.Context, where sq.Sqlizer, page, size int) (ItemPage, error) {
	query, args, err := where.ToSql()
	if err != nil {
		return ItemPage{}, fmt.Errorf("build search predicate: %w", err)
	}
	if size <= 0 {
		size = 10
	}
	if page < 1 {
		page = 1
	}

	base := r.db.WithContext(ctx).Model(&model.Item{}).Where(query, args...)

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return ItemPage{}, err
	}
	numPages := int((total + int64(size) - 1) / int64(size))
	if numPages < 1 {
		numPages = 1
	}
	// страница за пределами диапазона даёт последнюю
	if page > numPages {
		page = numPages
	}

	items := make([]model.Item, 0, size)
	err = base.Session(&gorm.Session{}).
		Preload("Images").
		Order(defaultOrder).
		Offset((page - 1) * size).
		Limit(size).
		Find(&items).Error
	if err != nil {
		return ItemPage{}, err
	}
	return ItemPage{Items: items, Page: page, NumPages: numPages, Total: total}, nil
}
