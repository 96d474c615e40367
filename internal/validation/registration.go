package validation

import (
	"errors"
	"fmt"
	"net/mail"
	"regexp"
	"strings"

	"github.com/iudanet/sportconnect/pkg/api"
)

// UsernamePattern определяет допустимый формат username:
// буквы, цифры и символы @ . + - _ (как у Django по умолчанию)
var UsernamePattern = regexp.MustCompile(`^[\p{L}\p{N}@.+\-_]+$`)

const (
	// MaxUsernameLen максимальная длина username
	MaxUsernameLen = 150
	// MinPasswordLen минимальная длина пароля, которую принимает API
	MinPasswordLen = 8
)

var (
	// ErrPasswordMismatch означает, что пароль и подтверждение не совпадают
	ErrPasswordMismatch = errors.New("passwords do not match")
	// ErrEmptyCredentials означает, что не указан логин или пароль
	ErrEmptyCredentials = errors.New("username and password are required")
)

// FieldError описывает ошибку одного поля формы
type FieldError struct {
	Err   error
	Field string
}

func (e *FieldError) Error() string {
	return e.Field + ": " + e.Err.Error()
}

func (e *FieldError) Unwrap() error {
	return e.Err
}

// ValidateUsername проверяет, что username соответствует требованиям API
func ValidateUsername(username string) error {
	if username == "" {
		return fmt.Errorf("username cannot be empty")
	}

	if len(username) > MaxUsernameLen {
		return fmt.Errorf("username must not exceed %d characters", MaxUsernameLen)
	}

	if !UsernamePattern.MatchString(username) {
		return fmt.Errorf("username can only contain letters, numbers and @/./+/-/_ characters")
	}

	return nil
}

// ValidatePassword проверяет минимальную длину пароля.
// Остальные правила сложности применяет сервер.
func ValidatePassword(password string) error {
	if password == "" {
		return fmt.Errorf("password cannot be empty")
	}

	if len(password) < MinPasswordLen {
		return fmt.Errorf("password must be at least %d characters long", MinPasswordLen)
	}

	return nil
}

// ValidateCredentials проверяет форму входа перед отправкой
func ValidateCredentials(username, password string) error {
	if strings.TrimSpace(username) == "" || password == "" {
		return ErrEmptyCredentials
	}
	return nil
}

// NormalizeRegistration обрезает пробелы в текстовых полях формы.
// Пароли не трогаются.
func NormalizeRegistration(req api.RegisterRequest) api.RegisterRequest {
	req.FirstName = strings.TrimSpace(req.FirstName)
	req.LastName = strings.TrimSpace(req.LastName)
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(req.Email)
	return req
}

// ValidateRegistration проверяет форму регистрации до запроса к API.
// Возвращает *FieldError для первого неверного поля.
func ValidateRegistration(req api.RegisterRequest) error {
	if req.Password != req.PasswordConfirm {
		return &FieldError{Field: "password_confirm", Err: ErrPasswordMismatch}
	}
	if err := ValidateUsername(req.Username); err != nil {
		return &FieldError{Field: "username", Err: err}
	}
	if req.Email != "" {
		if _, err := mail.ParseAddress(req.Email); err != nil {
			return &FieldError{Field: "email", Err: fmt.Errorf("enter a valid email address")}
		}
	}
	if err := ValidatePassword(req.Password); err != nil {
		return &FieldError{Field: "password", Err: err}
	}
	return nil
}
