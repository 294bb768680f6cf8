package repository

import (
	"errors"
	"fmt"

	"github.com/mickychog/career-genius/internal/models"
	"github.com/mickychog/career-genius/internal/services"

	"gorm.io/gorm"
)

type QuestionRepository struct {
	db *gorm.DB
}

func NewQuestionRepository(db *gorm.DB) *QuestionRepository {
	return &QuestionRepository{db: db}
}

func (r *QuestionRepository) Sample(phase models.Phase, areas []models.Area, count int) ([]models.Question, error) {
	if count <= 0 {
		return nil, nil
	}

	query := r.db.Where("phase = ?", phase)
	if len(areas) > 0 {
		query = query.Where("area IN ?", areas)
	}

	var questions []models.Question
	err := query.
		Order("RANDOM()").
		Limit(count).
		Preload("Options", func(db *gorm.DB) *gorm.DB {
			return db.Order("order_num ASC")
		}).
		Find(&questions).Error
	if err != nil {
		return nil, err
	}
	return questions, nil
}

func (r *QuestionRepository) ByIDs(ids []string) ([]models.Question, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var questions []models.Question
	err := r.db.Where("id IN ?", ids).
		Preload("Options", func(db *gorm.DB) *gorm.DB {
			return db.Order("order_num ASC")
		}).
		Find(&questions).Error
	if err != nil {
		return nil, err
	}
	return questions, nil
}

func (r *QuestionRepository) ExistsByText(text string) (bool, error) {
	var count int64
	err := r.db.Model(&models.Question{}).Where("text = ?", text).Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *QuestionRepository) Create(q *models.Question) error {
	if err := r.db.Create(q).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("question text already exists: %w", services.ErrConflict)
		}
		return err
	}
	return nil
}

func (r *QuestionRepository) CountByPhaseAndArea(phase models.Phase, area models.Area) (int64, error) {
	var count int64
	err := r.db.Model(&models.Question{}).
		Where("phase = ? AND area = ?", phase, area).
		Count(&count).Error
	return count, err
}
