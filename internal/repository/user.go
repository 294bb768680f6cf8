package repository

import (
	"errors"
	"fmt"
	"strings"

	"github.com/mickychog/career-genius/internal/models"
	"github.com/mickychog/career-genius/internal/services"

	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(u *models.User) error {
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	if err := r.db.Create(u).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("email already registered: %w", services.ErrConflict)
		}
		return err
	}
	return nil
}

func (r *UserRepository) ByID(id string) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("user %q: %w", id, services.ErrNotFound)
		}
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) ByEmail(email string) (*models.User, error) {
	var user models.User
	err := r.db.Where("email = ?", strings.ToLower(strings.TrimSpace(email))).
		First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("user with email %q: %w", email, services.ErrNotFound)
		}
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) Save(u *models.User) error {
	return r.db.Save(u).Error
}
