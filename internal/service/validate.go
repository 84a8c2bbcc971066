package service

import (
	"Classifieds/internal/model"
	"Classifieds/internal/repo"
	"context"
	"errors"
	"fmt"
	"html"
	"net/http"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"
	"gorm.io/gorm"
)

const (
	maxTitleLen = 100
	maxPhoneLen = 30
)

// ItemForm — сырые значения формы объявления.
type ItemForm struct {
	Title       string
	Description string
	Price       string
	Phone       string
	Group       string
	IsActive    string // пусто: оставить текущее значение
}

// ImageUpload: один слот изображения. Слот без данных пропускается.
type ImageUpload struct {
	Filename string
	Data     []byte
}

type validImage struct {
	ext  string
	data []byte
}

var imageExt = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// Validator проверяет объявление и его изображения как единое целое.
type Validator struct {
	taxonomy repo.TaxonomyRepository
	policy   *bluemonday.Policy
	slots    int
	maxBytes int64
}

// NewValidator создаёт валидатор; slots задаёт максимум изображений на объявление.
func NewValidator(taxonomy repo.TaxonomyRepository, slots int, maxBytes int64) *Validator {
	return &Validator{
		taxonomy: taxonomy,
		policy:   bluemonday.StrictPolicy(),
		slots:    slots,
		maxBytes: maxBytes,
	}
}

// Validate проверяет поля формы и все изображения, собирая ошибки целиком.
// remaining: сколько изображений останется у объявления после удаления отмеченных,
// current: редактируемое объявление (nil при создании).
// Возвращает *ValidationError, если хоть что-то не прошло; ошибки БД возвращаются как есть.
func (v *Validator) Validate(ctx context.Context, form ItemForm, uploads []ImageUpload, remaining int, current *model.Item) (model.Item, []validImage, error) {
	verr := &ValidationError{}
	var out model.Item

	out.Title = v.clean(form.Title)
	switch n := utf8.RuneCountInString(out.Title); {
	case n == 0:
		verr.Add("title", "this field is required")
	case n > maxTitleLen:
		verr.Add("title", fmt.Sprintf("ensure this value has at most %d characters", maxTitleLen))
	}

	out.Description = v.clean(form.Description)
	if out.Description == "" {
		verr.Add("description", "this field is required")
	}

	out.Phone = strings.TrimSpace(form.Phone)
	switch n := utf8.RuneCountInString(out.Phone); {
	case n == 0:
		verr.Add("phone", "this field is required")
	case n > maxPhoneLen:
		verr.Add("phone", fmt.Sprintf("ensure this value has at most %d characters", maxPhoneLen))
	}

	// нераспознанная цена превращается в NULL, а не в ошибку
	out.Price = model.ParseCurrency(form.Price)
	if out.Price.Valid && (out.Price.Decimal.IsNegative() || out.Price.Decimal.GreaterThanOrEqual(model.MaxCurrency)) {
		verr.Add("price", "ensure the price is between 0 and 99999999.99")
	}

	groupID, err := strconv.ParseInt(strings.TrimSpace(form.Group), 10, 64)
	if err != nil || groupID <= 0 {
		verr.Add("group", "select a valid choice")
	} else if _, err := v.taxonomy.GetGroup(ctx, groupID); err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return model.Item{}, nil, fmt.Errorf("lookup group: %w", err)
		}
		verr.Add("group", "select a valid choice")
	} else {
		out.GroupID = groupID
	}

	out.IsActive = true
	if current != nil {
		out.IsActive = current.IsActive
	}
	if raw := strings.TrimSpace(form.IsActive); raw != "" {
		active, ok := parseCheckbox(raw)
		if !ok {
			verr.Add("is_active", "enter a valid boolean")
		} else {
			out.IsActive = active
		}
	}

	images := v.validateImages(uploads, remaining, verr)

	if !verr.empty() {
		return model.Item{}, nil, verr
	}
	return out, images, nil
}

func (v *Validator) validateImages(uploads []ImageUpload, remaining int, verr *ValidationError) []validImage {
	if len(uploads) > v.slots {
		verr.Add("images", fmt.Sprintf("submit at most %d images", v.slots))
		return nil
	}
	images := make([]validImage, 0, len(uploads))
	for i, up := range uploads {
		if len(up.Data) == 0 {
			continue
		}
		field := fmt.Sprintf("image_%d", i+1)
		if v.maxBytes > 0 && int64(len(up.Data)) > v.maxBytes {
			verr.Add(field, "file is too large")
			continue
		}
		ext, ok := imageExt[http.DetectContentType(up.Data)]
		if !ok {
			verr.Add(field, "upload a valid image")
			continue
		}
		images = append(images, validImage{ext: ext, data: up.Data})
	}
	if remaining+len(images) > v.slots {
		verr.Add("images", fmt.Sprintf("an item can have at most %d images", v.slots))
	}
	return images
}

// clean убирает HTML из пользовательского текста.
func (v *Validator) clean(s string) string {
	return strings.TrimSpace(html.UnescapeString(v.policy.Sanitize(s)))
}

func parseCheckbox(raw string) (bool, bool) {
	switch strings.ToLower(raw) {
	case "on", "yes":
		return true, true
	case "off", "no":
		return false, true
	}
	b, err := strconv.ParseBool(raw)
	return b, err == nil
}
