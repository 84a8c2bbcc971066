package service

import (
	"Classifieds/internal/model"
	"Classifieds/internal/repo"
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	noticeProfileUpdated = "Your profile settings was updated!"
	noticeEmailChanged   = "Email was changed successfully!"
)

// UserService — регистрация, вход и профиль пользователя.
type UserService struct {
	repo repo.UserRepository
}

func NewUserService(r repo.UserRepository) *UserService {
	return &UserService{repo: r}
}

// Register создаёт пользователя с профилем. Логин должен быть свободен.
func (s *UserService) Register(ctx context.Context, login, password, email string) (*model.User, error) {
	login = strings.TrimSpace(login)
	email = strings.TrimSpace(email)

	verr := &ValidationError{}
	if login == "" {
		verr.Add("login", "this field is required")
	} else if utf8.RuneCountInString(login) > 150 {
		verr.Add("login", "ensure this value has at most 150 characters")
	}
	if password == "" {
		verr.Add("password", "this field is required")
	}
	if email != "" && !validEmail(email) {
		verr.Add("email", "enter a valid email address")
	}
	if !verr.empty() {
		return nil, verr
	}

	existing, err := s.repo.GetUserByLogin(ctx, login)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("lookup login: %w", err)
	}
	if existing != nil {
		return nil, ErrLoginTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	return s.repo.CreateUser(ctx, &model.User{Login: login, Email: email, Password: string(hash)})
}

// Login проверяет логин и пароль.
func (s *UserService) Login(ctx context.Context, login, password string) (*model.User, error) {
	user, err := s.repo.GetUserByLogin(ctx, strings.TrimSpace(login))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// Actor загружает пользователя и возвращает его как участника операций.
func (s *UserService) Actor(ctx context.Context, userID int64) (Actor, error) {
	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Actor{}, ErrNotFound
		}
		return Actor{}, fmt.Errorf("load user: %w", err)
	}
	return Actor{UserID: user.ID, IsAdmin: user.IsAdmin}, nil
}

// Profile возвращает пользователя вместе с профилем.
func (s *UserService) Profile(ctx context.Context, userID int64) (*model.User, error) {
	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("load profile: %w", err)
	}
	if user.Profile == nil {
		return nil, ErrNotFound
	}
	return user, nil
}

// ProfileForm содержит поля формы профиля.
type ProfileForm struct {
	Phone       string
	ReceiveNews bool
	Email       string
}

// UpdateProfile сохраняет профиль и email. Возвращает уведомления для пользователя.
func (s *UserService) UpdateProfile(ctx context.Context, userID int64, form ProfileForm) ([]string, error) {
	user, err := s.Profile(ctx, userID)
	if err != nil {
		return nil, err
	}

	phone := strings.TrimSpace(form.Phone)
	email := strings.TrimSpace(form.Email)

	verr := &ValidationError{}
	if utf8.RuneCountInString(phone) > maxPhoneLen {
		verr.Add("phone", fmt.Sprintf("ensure this value has at most %d characters", maxPhoneLen))
	}
	if email != "" && !validEmail(email) {
		verr.Add("email", "enter a valid email address")
	}
	if !verr.empty() {
		return nil, verr
	}

	profile := *user.Profile
	profile.ReceiveNews = form.ReceiveNews
	profile.Phone = nil
	if phone != "" {
		profile.Phone = &phone
	}

	var newEmail *string
	if email != user.Email {
		newEmail = &email
	}
	if err := s.repo.UpdateProfile(ctx, &profile, newEmail); err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}

	notices := []string{noticeProfileUpdated}
	if newEmail != nil {
		notices = append(notices, noticeEmailChanged)
	}
	return notices, nil
}

// SetAdmin меняет флаг администратора по логину.
func (s *UserService) SetAdmin(ctx context.Context, login string, isAdmin bool) error {
	if err := s.repo.SetAdmin(ctx, login, isAdmin); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

func validEmail(s string) bool {
	addr, err := mail.ParseAddress(s)
	return err == nil && addr.Address == s
}
