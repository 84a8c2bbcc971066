package repo

import (
	"Classifieds/internal/model"
	"context"

	"gorm.io/gorm"
)

// UserRepository — доступ к пользователям и их профилям.
type UserRepository interface {
	// CreateUser создаёт пользователя и его профиль в одной транзакции.
	CreateUser(ctx context.Context, user *model.User) (*model.User, error)
	GetUserByLogin(ctx context.Context, login string) (*model.User, error)
	GetUserByID(ctx context.Context, id int64) (*model.User, error)
	// UpdateProfile сохраняет профиль и, если email != nil, новый email пользователя.
	UpdateProfile(ctx context.Context, profile *model.Profile, email *string) error
	SetAdmin(ctx context.Context, login string, isAdmin bool) error
}

type userRepo struct {
	db *gorm.DB
}

// NewUserRepository создаёт реализацию репозитория пользователей.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepo{db: db}
}

func (r *userRepo) CreateUser(ctx context.Context, user *model.User) (*model.User, error) {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Profile").Create(user).Error; err != nil {
			return err
		}
		// профиль создаётся явным шагом внутри той же транзакции
		profile := &model.Profile{UserID: user.ID, ReceiveNews: true}
		if err := tx.Create(profile).Error; err != nil {
			return err
		}
		user.Profile = profile
		return nil
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (r *userRepo) GetUserByLogin(ctx context.Context, login string) (*model.User, error) {
	var u model.User
	if err := r.db.WithContext(ctx).Where("login = ?", login).First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *userRepo) GetUserByID(ctx context.Context, id int64) (*model.User, error) {
	var u model.User
	if err := r.db.WithContext(ctx).Preload("Profile").First(&u, id).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *userRepo) UpdateProfile(ctx context.Context, profile *model.Profile, email *string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.Profile{}).
			Where("id = ?", profile.ID).
			Updates(map[string]any{"phone": profile.Phone, "receive_news": profile.ReceiveNews}).Error; err != nil {
			return err
		}
		if email == nil {
			return nil
		}
		return tx.Model(&model.User{}).Where("id = ?", profile.UserID).Update("email", *email).Error
	})
}

func (r *userRepo) SetAdmin(ctx context.Context, login string, isAdmin bool) error {
	res := r.db.WithContext(ctx).Model(&model.User{}).Where("login = ?", login).Update("is_admin", isAdmin)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
