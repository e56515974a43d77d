package services

import (
	"errors"
	"net/mail"
	"strings"
	"time"

	"github.com/owletdev/nocturna/internal/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type AuthUserRepository interface {
	ExistsByNormalizedEmail(email string) (bool, error)
	FindByNormalizedEmail(email string) (models.User, error)
	FindByID(userID uint) (models.User, error)
	Create(user *models.User) error
	Save(user *models.User) error
}

type AuthService struct {
	users AuthUserRepository
}

func NewAuthService(users AuthUserRepository) *AuthService {
	return &AuthService{users: users}
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (service *AuthService) Register(email string, password string, displayName string, now time.Time) (models.User, error) {
	normalizedEmail := NormalizeEmail(email)
	if _, err := mail.ParseAddress(normalizedEmail); err != nil {
		return models.User{}, newValidationError("invalid email address")
	}
	if len(password) < 8 {
		return models.User{}, newValidationError("password must be at least 8 characters")
	}
	displayName = strings.TrimSpace(displayName)
	if displayName == "" {
		return models.User{}, newValidationError("display name is required")
	}

	exists, err := service.users.ExistsByNormalizedEmail(normalizedEmail)
	if err != nil {
		return models.User{}, err
	}
	if exists {
		return models.User{}, newValidationError("email already registered")
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, err
	}

	user := models.User{
		Email:        normalizedEmail,
		PasswordHash: string(passwordHash),
		DisplayName:  displayName,
		CreatedAt:    now,
	}
	if err := service.users.Create(&user); err != nil {
		return models.User{}, err
	}
	return user, nil
}

func (service *AuthService) Authenticate(email string, password string) (models.User, error) {
	user, err := service.users.FindByNormalizedEmail(NormalizeEmail(email))
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.User{}, ErrNotFound
	}
	if err != nil {
		return models.User{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return models.User{}, ErrNotFound
	}
	return user, nil
}

func (service *AuthService) FindByID(userID uint) (models.User, error) {
	user, err := service.users.FindByID(userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.User{}, ErrNotFound
	}
	return user, err
}
