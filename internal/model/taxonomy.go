package model

import (
	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

// Section описывает раздел каталога (справочные данные).
type Section struct {
	ID    int64  `gorm:"primaryKey" json:"id"`
	Title string `gorm:"size:100;not null" json:"title"`

	// ActiveItems вычисляется по запросу, в БД не хранится
	ActiveItems int64 `gorm:"-" json:"active_items"`
}

// Group — группа внутри раздела. Slug назначается один раз при первом сохранении.
type Group struct {
	ID        int64    `gorm:"primaryKey" json:"id"`
	Slug      string   `gorm:"size:120" json:"slug"`
	Title     string   `gorm:"size:100;not null" json:"title"`
	SectionID int64    `gorm:"not null;index" json:"section_id"`
	Section   *Section `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"section,omitempty"`

	ActiveItems int64 `gorm:"-" json:"active_items"`
}

// TableName: "groups" конфликтует с ключевым словом SQLite.
func (Group) TableName() string { return "listing_groups" }

// BeforeCreate назначает slug из заголовка, если он ещё не задан.
func (g *Group) BeforeCreate(tx *gorm.DB) error {
	if g.Slug == "" {
		g.Slug = MakeSlug(g.Title)
	}
	return nil
}

// MakeSlug транслитерирует заголовок и приводит его к виду "lower-case-hyphenated".
func MakeSlug(title string) string {
	return slug.Make(title)
}
