// Package search превращает параметры запроса в предикат поиска по активным объявлениям.
package search

import (
	"Classifieds/internal/model"
	"net/url"
	"strconv"
	"strings"
	"unicode/utf8"

	sq "github.com/Masterminds/squirrel"
)

const maxQueryLen = 100

// Filter: проверенные критерии поиска. Некорректные критерии отбрасываются
// и попадают в Errors; ошибка наружу не возвращается никогда.
type Filter struct {
	Query     string
	GroupID   int64
	SectionID int64
	PriceMin  model.Currency
	PriceMax  model.Currency
	Page      int

	Errors map[string]string
}

// Parse разбирает параметры q, group, section, price_min, price_max и page.
func Parse(v url.Values) Filter {
	f := Filter{Page: 1, Errors: map[string]string{}}

	if q := strings.TrimSpace(v.Get("q")); q != "" {
		if utf8.RuneCountInString(q) > maxQueryLen {
			f.Errors["q"] = "query is too long"
		} else {
			f.Query = q
		}
	}

	f.GroupID = parseID(v, "group", f.Errors)
	f.SectionID = parseID(v, "section", f.Errors)
	f.PriceMin = parsePrice(v, "price_min", f.Errors)
	f.PriceMax = parsePrice(v, "price_max", f.Errors)

	if f.PriceMin.Valid && f.PriceMax.Valid && f.PriceMin.Decimal.GreaterThan(f.PriceMax.Decimal) {
		f.Errors["price_max"] = "price_max is less than price_min"
		f.PriceMin, f.PriceMax = model.Currency{}, model.Currency{}
	}

	if p, err := strconv.Atoi(v.Get("page")); err == nil && p > 0 {
		f.Page = p
	}
	return f
}

func parseID(v url.Values, key string, errs map[string]string) int64 {
	raw := strings.TrimSpace(v.Get(key))
	if raw == "" {
		return 0
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		errs[key] = "invalid " + key
		return 0
	}
	return id
}

func parsePrice(v url.Values, key string, errs map[string]string) model.Currency {
	raw := strings.TrimSpace(v.Get(key))
	if raw == "" {
		return model.Currency{}
	}
	c := model.ParseCurrency(raw)
	if !c.Valid || c.Decimal.IsNegative() || c.Decimal.GreaterThanOrEqual(model.MaxCurrency) {
		errs[key] = "invalid price"
		return model.Currency{}
	}
	return c
}

// Where строит предикат: is_active = true плюс каждый прошедший проверку критерий.
func (f Filter) Where() sq.Sqlizer {
	cond := sq.And{sq.Eq{"is_active": true}}

	if f.Query != "" {
		like := "%" + escapeLike(strings.ToLower(f.Query)) + "%"
		cond = append(cond, sq.Expr(`search_text LIKE ? ESCAPE '\'`, like))
	}
	if f.GroupID > 0 {
		cond = append(cond, sq.Eq{"group_id": f.GroupID})
	}
	if f.SectionID > 0 {
		cond = append(cond, sq.Expr("group_id IN (SELECT id FROM listing_groups WHERE section_id = ?)", f.SectionID))
	}
	if f.PriceMin.Valid {
		cond = append(cond, sq.GtOrEq{"price": f.PriceMin})
	}
	if f.PriceMax.Valid {
		cond = append(cond, sq.LtOrEq{"price": f.PriceMax})
	}
	return cond
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike экранирует спецсимволы LIKE, чтобы запрос искался буквально.
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

// Empty сообщает, что ни один критерий не применён.
func (f Filter) Empty() bool {
	return f.Query == "" && f.GroupID == 0 && f.SectionID == 0 && !f.PriceMin.Valid && !f.PriceMax.Valid
}
