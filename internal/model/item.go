package model

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// DefaultExcerptLimit задаёт длину краткого описания объявления.
const DefaultExcerptLimit = 155

// Item — объявление пользователя.
type Item struct {
	ID     int64  `gorm:"primaryKey" json:"id"`
	Slug   string `gorm:"size:120" json:"slug"`
	UserID int64  `gorm:"not null;index" json:"user_id"` // ссылка на users.id

	// Связи
	User    *User  `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	GroupID int64  `gorm:"not null;index" json:"group_id"`
	Group   *Group `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"group,omitempty"`

	Title       string   `gorm:"size:100;not null" json:"title"`
	Description string   `gorm:"type:text;not null" json:"description"`
	Price       Currency `gorm:"type:numeric(10,2)" json:"price"`
	Phone       string   `gorm:"size:30;not null" json:"phone"`

	// заголовок и описание в нижнем регистре для поиска без учёта регистра
	SearchText string `gorm:"type:text;not null;default:''" json:"-"`

	// default:true не ставим: gorm пропускает нулевые значения при Create
	IsActive bool `gorm:"not null;index" json:"is_active"`

	Updated time.Time `gorm:"autoUpdateTime;index" json:"updated"`
	Posted  time.Time `gorm:"autoCreateTime" json:"posted"`

	Images []Image `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"images"`
}

// BeforeCreate назначает slug при первом сохранении (дальше он не меняется) и заполняет строку поиска.
func (i *Item) BeforeCreate(tx *gorm.DB) error {
	if i.Slug == "" {
		i.Slug = MakeSlug(i.Title)
	}
	i.SearchText = SearchText(i.Title, i.Description)
	return nil
}

// SearchText собирает строку для поиска. LOWER в SQLite понимает только ASCII,
// поэтому регистр приводится на стороне Go.
func SearchText(title, description string) string {
	return strings.ToLower(title + "\n" + description)
}

// Excerpt возвращает первые limit символов описания, без учёта границ слов.
func (i *Item) Excerpt(limit int) string {
	r := []rune(i.Description)
	if limit < 0 || len(r) <= limit {
		return i.Description
	}
	return string(r[:limit])
}

// Keywords возвращает уникальные слова описания через запятую.
func (i *Item) Keywords() string {
	seen := make(map[string]struct{})
	words := make([]string, 0)
	for _, w := range strings.Fields(i.Description) {
		if _, ok := seen[w]; ok {
			continue
		}
		seen[w] = struct{}{}
		words = append(words, w)
	}
	return strings.Join(words, ",")
}

// Image описывает изображение объявления. File хранит путь внутри хранилища.
type Image struct {
	ID     int64  `gorm:"primaryKey" json:"id"`
	ItemID int64  `gorm:"not null;index" json:"item_id"`
	File   string `gorm:"size:255;not null" json:"file"`
}
