package services

import "github.com/mickychog/career-genius/internal/models"

// QuestionRepo is the narrow persistence contract of the question bank.
// Implementations must keep question text unique (Create returns ErrConflict
// on a duplicate) and never delete or mutate stored questions.
type QuestionRepo interface {
	// Sample returns up to count random questions matching phase and,
	// when areas is non-empty, any of the given areas. Returning fewer
	// than count is not an error.
	Sample(phase models.Phase, areas []models.Area, count int) ([]models.Question, error)
	ByIDs(ids []string) ([]models.Question, error)
	ExistsByText(text string) (bool, error)
	Create(q *models.Question) error
	CountByPhaseAndArea(phase models.Phase, area models.Area) (int64, error)
}

// SessionRepo persists test sessions. ActiveByUser returns ErrNotFound when
// the user has no incomplete session; Create returns ErrConflict when the
// partial unique index rejects a second incomplete session for the same user.
type SessionRepo interface {
	Create(s *models.TestSession) error
	ByID(id string) (*models.TestSession, error)
	ActiveByUser(userID string) (*models.TestSession, error)
	LatestCompletedByUser(userID string) (*models.TestSession, error)
	CountCompletedByUser(userID string) (int64, error)
	// Save writes the session unconditionally.
	Save(s *models.TestSession) error
	// UpdateWithVersion persists the session only if the stored version
	// still matches s.Version; on success the version is incremented.
	// Returns ErrConflict when another writer got there first.
	UpdateWithVersion(s *models.TestSession) error
}

// UserRepo persists user accounts.
type UserRepo interface {
	Create(u *models.User) error
	ByID(id string) (*models.User, error)
	ByEmail(email string) (*models.User, error)
	Save(u *models.User) error
}
