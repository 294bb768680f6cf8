package repository

import (
	"errors"
	"fmt"

	"github.com/mickychog/career-genius/internal/models"
	"github.com/mickychog/career-genius/internal/services"

	"gorm.io/gorm"
)

type SessionRepository struct {
	db *gorm.DB
}

func NewSessionRepository(db *gorm.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

func (r *SessionRepository) Create(s *models.TestSession) error {
	if err := r.db.Create(s).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("user already has an active session: %w", services.ErrConflict)
		}
		return err
	}
	return nil
}

func (r *SessionRepository) ByID(id string) (*models.TestSession, error) {
	var session models.TestSession
	if err := r.db.First(&session, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("session %q: %w", id, services.ErrNotFound)
		}
		return nil, err
	}
	return &session, nil
}

func (r *SessionRepository) ActiveByUser(userID string) (*models.TestSession, error) {
	var session models.TestSession
	err := r.db.Where("user_id = ? AND is_completed = false", userID).
		First(&session).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("no active session for user: %w", services.ErrNotFound)
		}
		return nil, err
	}
	return &session, nil
}

func (r *SessionRepository) LatestCompletedByUser(userID string) (*models.TestSession, error) {
	var session models.TestSession
	err := r.db.Where("user_id = ? AND is_completed = true", userID).
		Order("completed_at DESC").
		First(&session).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("no completed session for user: %w", services.ErrNotFound)
		}
		return nil, err
	}
	return &session, nil
}

func (r *SessionRepository) CountCompletedByUser(userID string) (int64, error) {
	var count int64
	err := r.db.Model(&models.TestSession{}).
		Where("user_id = ? AND is_completed = true", userID).
		Count(&count).Error
	return count, err
}

func (r *SessionRepository) Save(s *models.TestSession) error {
	return r.db.Save(s).Error
}

func (r *SessionRepository) UpdateWithVersion(s *models.TestSession) error {
	current := s.Version
	s.Version = current + 1
	res := r.db.Model(&models.TestSession{}).
		Where("id = ? AND version = ?", s.ID, current).
		Select("*").
		Omit("id", "created_at").
		Updates(s)
	if res.Error != nil {
		s.Version = current
		return res.Error
	}
	if res.RowsAffected == 0 {
		s.Version = current
		return fmt.Errorf("session %q was modified concurrently: %w", s.ID, services.ErrConflict)
	}
	return nil
}
