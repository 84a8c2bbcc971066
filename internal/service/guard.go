package service

import (
	"Classifieds/internal/model"
	"Classifieds/internal/repo"
	"context"
	"fmt"
)

// Actor — аутентифицированный пользователь, от имени которого выполняется операция.
// Передаётся явно в каждую операцию.
type Actor struct {
	UserID  int64
	IsAdmin bool
}

// CanEdit: владелец или администратор.
func CanEdit(item *model.Item, actor Actor) bool {
	return actor.UserID == item.UserID || actor.IsAdmin
}

// Guard проверяет лимит объявлений на пользователя.
type Guard struct {
	items repo.ItemRepository
	limit int64
}

// NewGuard создаёт проверку лимита.
func NewGuard(items repo.ItemRepository, limit int64) *Guard {
	return &Guard{items: items, limit: limit}
}

// CanCreate разрешает создание, пока число объявлений пользователя не больше лимита.
// Граница включительная: при count == limit создание ещё разрешено.
// Проверка не атомарна с последующим созданием: параллельные запросы могут превысить лимит.
func (g *Guard) CanCreate(ctx context.Context, actor Actor) (bool, error) {
	n, err := g.items.CountByOwner(ctx, actor.UserID)
	if err != nil {
		return false, fmt.Errorf("count items: %w", err)
	}
	return n <= g.limit, nil
}
