package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// UserAnswer is one recorded answer. At most one entry exists per question;
// resubmission overwrites in place.
type UserAnswer struct {
	QuestionID          string `json:"question_id"`
	SelectedOptionIndex int    `json:"selected_option_index"`
}

// Career is one entry of the compiled recommendation list.
type Career struct {
	Name     string `json:"name"`
	Duration string `json:"duration"`
	Reason   string `json:"reason"`
}

// TestSession is the funnel document. The embedded collections live in JSONB
// columns so every mutation is a single atomic row update, mirroring the
// document-per-session shape the funnel logic assumes.
type TestSession struct {
	ID     string `gorm:"type:uuid;primaryKey" json:"id"`
	UserID string `gorm:"type:uuid;not null;index" json:"user_id"`
	Phase  Phase  `gorm:"size:20;not null;default:'GENERAL'" json:"phase"`

	// QuestionIDs is append-only and grows at phase boundaries.
	QuestionIDs    datatypes.JSONSlice[string]     `gorm:"type:jsonb" json:"question_ids"`
	Answers        datatypes.JSONSlice[UserAnswer] `gorm:"type:jsonb" json:"answers"`
	Scores         ScoreMap                        `gorm:"type:jsonb" json:"scores"`
	ActiveBranches datatypes.JSONSlice[Area]       `gorm:"type:jsonb" json:"active_branches"`

	IsCompleted bool       `gorm:"not null;default:false" json:"is_completed"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`

	ResultProfile      string                      `gorm:"type:text" json:"result_profile,omitempty"`
	AnalysisReport     string                      `gorm:"type:text" json:"analysis_report,omitempty"`
	RecommendedCareers datatypes.JSONSlice[Career] `gorm:"type:jsonb" json:"recommended_careers,omitempty"`
	SelectedCareer     string                      `gorm:"size:255" json:"selected_career,omitempty"`

	// Opaque caches written by the university/skills recommendation
	// features; the funnel core never reads them.
	SavedUniversities datatypes.JSON `gorm:"type:jsonb" json:"saved_universities,omitempty"`
	SavedCourses      datatypes.JSON `gorm:"type:jsonb" json:"saved_courses,omitempty"`

	// Demographics captured before the first question.
	Age    int    `gorm:"default:0" json:"age,omitempty"`
	Gender string `gorm:"size:30" json:"gender,omitempty"`

	// Version backs the conditional update used by answer submission.
	Version   int       `gorm:"not null;default:0" json:"-"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (s *TestSession) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	if s.Scores == nil {
		s.Scores = ScoreMap{}
	}
	return nil
}

// HasQuestion reports whether the question was assigned to this session.
func (s *TestSession) HasQuestion(questionID string) bool {
	for _, id := range s.QuestionIDs {
		if id == questionID {
			return true
		}
	}
	return false
}

// AnswerFor returns the recorded answer for a question, if any.
func (s *TestSession) AnswerFor(questionID string) (UserAnswer, bool) {
	for _, a := range s.Answers {
		if a.QuestionID == questionID {
			return a, true
		}
	}
	return UserAnswer{}, false
}

// UpsertAnswer replaces the existing entry for the question or appends one.
func (s *TestSession) UpsertAnswer(answer UserAnswer) {
	for i, a := range s.Answers {
		if a.QuestionID == answer.QuestionID {
			s.Answers[i] = answer
			return
		}
	}
	s.Answers = append(s.Answers, answer)
}

// AllAnswered reports whether every currently assigned question has an answer.
func (s *TestSession) AllAnswered() bool {
	if len(s.QuestionIDs) == 0 {
		return false
	}
	for _, id := range s.QuestionIDs {
		if _, ok := s.AnswerFor(id); !ok {
			return false
		}
	}
	return true
}
