package service

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrForbidden — действие над чужим объявлением (не владелец и не администратор).
	ErrForbidden = errors.New("forbidden")
	// ErrQuotaExceeded — пользователь исчерпал лимит объявлений.
	ErrQuotaExceeded = errors.New("you have reached limit")
	// ErrNotFound — объект не найден или неактивен.
	ErrNotFound = errors.New("not found")
	// ErrLoginTaken — логин уже занят.
	ErrLoginTaken = errors.New("login already taken")
	// ErrInvalidCredentials — неверный логин или пароль.
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// FieldError — ошибка проверки одного поля формы.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError собирает все ошибки формы и вложенных записей.
type ValidationError struct {
	Fields []FieldError `json:"errors"`
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, fmt.Sprintf("%s: %s", f.Field, f.Message))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Add добавляет ошибку поля.
func (e *ValidationError) Add(field, message string) {
	e.Fields = append(e.Fields, FieldError{Field: field, Message: message})
}

// Has сообщает, есть ли ошибка для поля.
func (e *ValidationError) Has(field string) bool {
	for _, f := range e.Fields {
		if f.Field == field {
			return true
		}
	}
	return false
}

func (e *ValidationError) empty() bool { return len(e.Fields) == 0 }
