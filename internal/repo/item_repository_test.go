package repo

import (
	"Classifieds/internal/model"
	"Classifieds/internal/search"
	"context"
	"fmt"
	"net/url"
	"testing"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// хелпер для создания базового item
func mkItem(userID, groupID int64, title string, active bool, upd time.Time) model.Item {
	return model.Item{
		UserID:      userID,
		GroupID:     groupID,
		Title:       title,
		Description: "description of " + title,
		Phone:       "123",
		Price:       model.ParseCurrency("10"),
		IsActive:    active,
		Updated:     upd.UTC(),
	}
}

func TestItemRepository_CreateWithImages_GetByID(t *testing.T) {
	db := newTestDB(t)
	r := NewItemRepository(db)
	ctx := context.Background()
	u := seedUser(t, db, "owner")
	_, g := seedTaxonomy(t, db, "Transport", "Cars")

	it := mkItem(u.ID, g.ID, "Test Item!", true, time.Now())
	images := []model.Image{{File: "images/a.jpg"}, {File: "images/b.jpg"}}
	require.NoError(t, r.Create(ctx, &it, images))
	assert.NotZero(t, it.ID)
	assert.Equal(t, "test-item", it.Slug)
	require.Len(t, it.Images, 2)
	assert.Equal(t, it.ID, it.Images[0].ItemID)

	got, err := r.GetByID(ctx, it.ID)
	require.NoError(t, err)
	assert.Equal(t, "Test Item!", got.Title)
	assert.Len(t, got.Images, 2)
	assert.Equal(t, "10.00", got.Price.String())
	assert.False(t, got.Posted.IsZero())

	_, err = r.GetByID(ctx, 9999)
	assert.Equal(t, gorm.ErrRecordNotFound, err)
}

func TestItemRepository_GetActiveByID_SkipsInactive(t *testing.T) {
	db := newTestDB(t)
	r := NewItemRepository(db)
	ctx := context.Background()
	u := seedUser(t, db, "owner")
	_, g := seedTaxonomy(t, db, "S", "G")

	it := mkItem(u.ID, g.ID, "hidden", false, time.Now())
	require.NoError(t, r.Create(ctx, &it, nil))

	_, err := r.GetActiveByID(ctx, it.ID)
	assert.Equal(t, gorm.ErrRecordNotFound, err)

	got, err := r.GetByID(ctx, it.ID)
	require.NoError(t, err)
	assert.False(t, got.IsActive)
}

func TestItemRepository_Update_KeepsSlugAndPosted(t *testing.T) {
	db := newTestDB(t)
	r := NewItemRepository(db)
	ctx := context.Background()
	u := seedUser(t, db, "owner")
	_, g := seedTaxonomy(t, db, "S", "G")

	it := mkItem(u.ID, g.ID, "Test Item!", true, time.Now().Add(-time.Hour))
	require.NoError(t, r.Create(ctx, &it, []model.Image{{File: "images/old.jpg"}}))
	before, err := r.GetByID(ctx, it.ID)
	require.NoError(t, err)

	changed := *before
	changed.Title = "Completely different"
	changed.Price = model.ParseCurrency("7.555")
	removed, err := r.Update(ctx, &changed, []model.Image{{File: "images/new.jpg"}}, []int64{before.Images[0].ID})
	require.NoError(t, err)
	require.Len(t, removed, 1)
	assert.Equal(t, "images/old.jpg", removed[0].File)

	after, err := r.GetByID(ctx, it.ID)
	require.NoError(t, err)
	assert.Equal(t, "Completely different", after.Title)
	assert.Equal(t, "test-item", after.Slug)
	assert.Equal(t, "7.56", after.Price.String())
	assert.WithinDuration(t, before.Posted, after.Posted, time.Second)
	assert.True(t, after.Updated.After(before.Updated))
	require.Len(t, after.Images, 1)
	assert.Equal(t, "images/new.jpg", after.Images[0].File)
}

func TestItemRepository_Update_IgnoresForeignImageIDs(t *testing.T) {
	db := newTestDB(t)
	r := NewItemRepository(db)
	ctx := context.Background()
	u := seedUser(t, db, "owner")
	_, g := seedTaxonomy(t, db, "S", "G")

	a := mkItem(u.ID, g.ID, "a", true, time.Now())
	b := mkItem(u.ID, g.ID, "b", true, time.Now())
	require.NoError(t, r.Create(ctx, &a, nil))
	require.NoError(t, r.Create(ctx, &b, []model.Image{{File: "images/b.jpg"}}))

	removed, err := r.Update(ctx, &a, nil, []int64{b.Images[0].ID})
	require.NoError(t, err)
	assert.Empty(t, removed)

	got, err := r.GetByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Len(t, got.Images, 1)
}

func TestItemRepository_Delete_CascadesImages(t *testing.T) {
	db := newTestDB(t)
	r := NewItemRepository(db)
	ctx := context.Background()
	u := seedUser(t, db, "owner")
	_, g := seedTaxonomy(t, db, "S", "G")

	it := mkItem(u.ID, g.ID, "x", true, time.Now())
	require.NoError(t, r.Create(ctx, &it, []model.Image{{File: "1"}, {File: "2"}, {File: "3"}}))

	images, err := r.Delete(ctx, it.ID)
	require.NoError(t, err)
	assert.Len(t, images, 3)

	var n int64
	require.NoError(t, db.Model(&model.Image{}).Where("item_id = ?", it.ID).Count(&n).Error)
	assert.Zero(t, n)

	_, err = r.Delete(ctx, it.ID)
	assert.Equal(t, gorm.ErrRecordNotFound, err)
}

func TestItemRepository_OwnerQueries(t *testing.T) {
	db := newTestDB(t)
	r := NewItemRepository(db)
	ctx := context.Background()
	u1 := seedUser(t, db, "u1")
	u2 := seedUser(t, db, "u2")
	_, g := seedTaxonomy(t, db, "S", "G")

	now := time.Now()
	for i, active := range []bool{true, false, true} {
		it := mkItem(u1.ID, g.ID, fmt.Sprintf("u1-%d", i), active, now.Add(time.Duration(i)*time.Minute))
		require.NoError(t, r.Create(ctx, &it, nil))
	}
	other := mkItem(u2.ID, g.ID, "u2", true, now)
	require.NoError(t, r.Create(ctx, &other, nil))

	n, err := r.CountByOwner(ctx, u1.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n) // неактивные тоже считаются

	mine, err := r.ListByOwner(ctx, u1.ID)
	require.NoError(t, err)
	if assert.Len(t, mine, 3) {
		assert.Equal(t, "u1-2", mine[0].Title) // свежие сверху
	}

	inGroup, err := r.ListActiveByGroup(ctx, g.ID)
	require.NoError(t, err)
	assert.Len(t, inGroup, 3)

	related, err := r.Related(ctx, &other, 2)
	require.NoError(t, err)
	assert.Len(t, related, 2)
	for _, it := range related {
		assert.NotEqual(t, other.ID, it.ID)
	}
}

func TestItemRepository_Search_PaginatesNewestFirst(t *testing.T) {
	db := newTestDB(t)
	r := NewItemRepository(db)
	ctx := context.Background()
	u := seedUser(t, db, "owner")
	_, g := seedTaxonomy(t, db, "S", "G")

	base := time.Now().Add(-time.Hour)
	for i := 0; i < 12; i++ {
		it := mkItem(u.ID, g.ID, fmt.Sprintf("item-%02d", i), true, base.Add(time.Duration(i)*time.Minute))
		require.NoError(t, r.Create(ctx, &it, nil))
	}
	hidden := mkItem(u.ID, g.ID, "hidden", false, time.Now())
	require.NoError(t, r.Create(ctx, &hidden, nil))

	active := sq.Eq{"is_active": true}

	p1, err := r.Search(ctx, active, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(12), p1.Total)
	assert.Equal(t, 2, p1.NumPages)
	require.Len(t, p1.Items, 10)
	assert.Equal(t, "item-11", p1.Items[0].Title)
	assert.Equal(t, "item-02", p1.Items[9].Title)

	// страница за пределами даёт последнюю
	p9, err := r.Search(ctx, active, 9, 10)
	require.NoError(t, err)
	assert.Equal(t, 2, p9.Page)
	assert.Len(t, p9.Items, 2)

	// пустой результат: одна пустая страница
	none, err := r.Search(ctx, sq.And{active, sq.Eq{"group_id": 777}}, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, 1, none.NumPages)
	assert.Empty(t, none.Items)
}

func TestItemRepository_Search_Filter(t *testing.T) {
	db := newTestDB(t)
	r := NewItemRepository(db)
	ctx := context.Background()
	u := seedUser(t, db, "owner")
	s1, g1 := seedTaxonomy(t, db, "Transport", "Bicycles")
	_, g2 := seedTaxonomy(t, db, "Clothes", "Shirts")

	now := time.Now()
	create := func(groupID int64, title, price string, active bool) *model.Item {
		it := mkItem(u.ID, groupID, title, active, now)
		it.Price = model.ParseCurrency(price)
		require.NoError(t, r.Create(ctx, &it, nil))
		return &it
	}
	create(g1.ID, "Велосипед Cheap", "5", true)
	mid := create(g1.ID, "Mid", "50.50", true)
	create(g1.ID, "Expensive", "500", true)
	create(g2.ID, "100% cotton_shirt", "200", true)
	create(g1.ID, "Велосипед старый", "1", false)

	titles := func(q url.Values) []string {
		page, err := r.Search(ctx, search.Parse(q).Where(), 1, 10)
		require.NoError(t, err)
		out := make([]string, 0, len(page.Items))
		for _, it := range page.Items {
			out = append(out, it.Title)
		}
		return out
	}

	assert.Equal(t, []string{"Велосипед Cheap"}, titles(url.Values{"q": {"велосипед"}}))
	assert.Equal(t, []string{"Велосипед Cheap"}, titles(url.Values{"q": {"ВЕЛОСИПЕД"}}))
	assert.Equal(t, []string{"Mid"}, titles(url.Values{"q": {"mID"}}))

	// спецсимволы LIKE ищутся буквально
	assert.Equal(t, []string{"100% cotton_shirt"}, titles(url.Values{"q": {"%"}}))
	assert.Equal(t, []string{"100% cotton_shirt"}, titles(url.Values{"q": {"_"}}))
	assert.Empty(t, titles(url.Values{"q": {`\`}}))

	assert.Equal(t, []string{"Mid"}, titles(url.Values{"price_min": {"10"}, "price_max": {"100"}}))
	assert.ElementsMatch(t, []string{"Велосипед Cheap", "Mid", "Expensive"},
		titles(url.Values{"section": {fmt.Sprint(s1.ID)}}))

	// правка обновляет строку поиска
	mid.Title = "Самокат"
	mid.Description = "двухколёсный"
	_, err := r.Update(ctx, mid, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"Самокат"}, titles(url.Values{"q": {"САМОКАТ"}}))
	assert.Empty(t, titles(url.Values{"q": {"mid"}}))
}
