package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Question is a bank entry. Text is unique so regenerated duplicates are
// rejected at the database level; questions are never mutated or deleted once
// a session may reference them.
type Question struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	Text      string    `gorm:"type:text;not null;uniqueIndex" json:"text"`
	Phase     Phase     `gorm:"size:20;not null;index:idx_question_pool" json:"phase"`
	Area      Area      `gorm:"size:30;not null;default:'NONE';index:idx_question_pool" json:"area"`
	Options   []Option  `gorm:"foreignKey:QuestionID;constraint:OnDelete:CASCADE" json:"options,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Option is one answer choice. PointsTo is normalized at creation time for
// every phase: GENERAL options carry their own area affinity, SPECIFIC
// options point to the question's area (escape option -> NONE), CONFIRMATION
// options always point to NONE. Scoring therefore never branches on phase.
type Option struct {
	ID         uint   `gorm:"primaryKey" json:"id"`
	QuestionID string `gorm:"type:uuid;not null;index" json:"question_id"`
	OrderNum   int    `gorm:"not null" json:"order_num"`
	Text       string `gorm:"size:500;not null" json:"text"`
	PointsTo   Area   `gorm:"size:30;not null;default:'NONE'" json:"points_to"`
}

func (q *Question) BeforeCreate(tx *gorm.DB) error {
	if q.ID == "" {
		q.ID = uuid.NewString()
	}
	for i := range q.Options {
		q.Options[i].QuestionID = q.ID
	}
	return nil
}

// OptionAt returns the option with the given original (stored) index.
func (q *Question) OptionAt(index int) (Option, bool) {
	for _, o := range q.Options {
		if o.OrderNum == index {
			return o, true
		}
	}
	return Option{}, false
}
