package model

// User — зарегистрированный пользователь.
type User struct {
	ID       int64  `gorm:"primaryKey" json:"id"`
	Login    string `gorm:"size:150;not null;uniqueIndex" json:"login"`
	Email    string `gorm:"size:254" json:"email"`
	Password string `gorm:"not null" json:"-"` // bcrypt hash
	IsAdmin  bool   `gorm:"not null" json:"is_admin"`

	Profile *Profile `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"profile,omitempty"`
}

// Profile создаётся ровно один раз вместе с пользователем.
type Profile struct {
	ID          int64   `gorm:"primaryKey" json:"id"`
	UserID      int64   `gorm:"not null;uniqueIndex" json:"user_id"`
	Phone       *string `gorm:"size:30" json:"phone"`
	ReceiveNews bool    `gorm:"not null;index" json:"receive_news"`
}
