package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/mickychog/career-genius/internal/models"

	"github.com/google/uuid"
)

// fakeQuestionRepo is an in-memory QuestionRepo. Sample returns matching
// questions in insertion order, which keeps assertions deterministic.
type fakeQuestionRepo struct {
	mu        sync.Mutex
	questions []*models.Question
}

func (r *fakeQuestionRepo) add(qs ...*models.Question) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, q := range qs {
		if q.ID == "" {
			q.ID = uuid.NewString()
		}
		r.questions = append(r.questions, q)
	}
}

func (r *fakeQuestionRepo) Sample(phase models.Phase, areas []models.Area, count int) ([]models.Question, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Question
	for _, q := range r.questions {
		if q.Phase != phase {
			continue
		}
		if len(areas) > 0 && !containsArea(areas, q.Area) {
			continue
		}
		out = append(out, *q)
		if len(out) == count {
			break
		}
	}
	return out, nil
}

func (r *fakeQuestionRepo) ByIDs(ids []string) ([]models.Question, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Question
	for _, q := range r.questions {
		for _, id := range ids {
			if q.ID == id {
				out = append(out, *q)
				break
			}
		}
	}
	return out, nil
}

func (r *fakeQuestionRepo) ExistsByText(text string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, q := range r.questions {
		if q.Text == text {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeQuestionRepo) Create(q *models.Question) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.questions {
		if existing.Text == q.Text {
			return fmt.Errorf("question text already stored: %w", ErrConflict)
		}
	}
	if q.ID == "" {
		q.ID = uuid.NewString()
	}
	copied := *q
	r.questions = append(r.questions, &copied)
	return nil
}

func (r *fakeQuestionRepo) CountByPhaseAndArea(phase models.Phase, area models.Area) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for _, q := range r.questions {
		if q.Phase == phase && q.Area == area {
			count++
		}
	}
	return count, nil
}

// fakeSessionRepo is an in-memory SessionRepo enforcing the one-active-
// session-per-user constraint and version-conditional updates.
type fakeSessionRepo struct {
	mu       sync.Mutex
	sessions map[string]*models.TestSession
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{sessions: make(map[string]*models.TestSession)}
}

func (r *fakeSessionRepo) clone(s *models.TestSession) *models.TestSession {
	copied := *s
	copied.QuestionIDs = append(copied.QuestionIDs[:0:0], s.QuestionIDs...)
	copied.Answers = append(copied.Answers[:0:0], s.Answers...)
	copied.ActiveBranches = append(copied.ActiveBranches[:0:0], s.ActiveBranches...)
	copied.RecommendedCareers = append(copied.RecommendedCareers[:0:0], s.RecommendedCareers...)
	copied.Scores = s.Scores.Clone()
	return &copied
}

func (r *fakeSessionRepo) Create(s *models.TestSession) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.sessions {
		if existing.UserID == s.UserID && !existing.IsCompleted {
			return fmt.Errorf("user already has an active session: %w", ErrConflict)
		}
	}
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	if s.Scores == nil {
		s.Scores = models.ScoreMap{}
	}
	r.sessions[s.ID] = r.clone(s)
	return nil
}

func (r *fakeSessionRepo) ByID(id string) (*models.TestSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	if !ok {
		return nil, fmt.Errorf("session %q: %w", id, ErrNotFound)
	}
	return r.clone(s), nil
}

func (r *fakeSessionRepo) ActiveByUser(userID string) (*models.TestSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.sessions {
		if s.UserID == userID && !s.IsCompleted {
			return r.clone(s), nil
		}
	}
	return nil, fmt.Errorf("no active session: %w", ErrNotFound)
}

func (r *fakeSessionRepo) LatestCompletedByUser(userID string) (*models.TestSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var latest *models.TestSession
	for _, s := range r.sessions {
		if s.UserID != userID || !s.IsCompleted {
			continue
		}
		if latest == nil || (s.CompletedAt != nil && latest.CompletedAt != nil && s.CompletedAt.After(*latest.CompletedAt)) {
			latest = s
		}
	}
	if latest == nil {
		return nil, fmt.Errorf("no completed session: %w", ErrNotFound)
	}
	return r.clone(latest), nil
}

func (r *fakeSessionRepo) CountCompletedByUser(userID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for _, s := range r.sessions {
		if s.UserID == userID && s.IsCompleted {
			count++
		}
	}
	return count, nil
}

func (r *fakeSessionRepo) Save(s *models.TestSession) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sessions[s.ID]; !ok {
		return fmt.Errorf("session %q: %w", s.ID, ErrNotFound)
	}
	r.sessions[s.ID] = r.clone(s)
	return nil
}

func (r *fakeSessionRepo) UpdateWithVersion(s *models.TestSession) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.sessions[s.ID]
	if !ok {
		return fmt.Errorf("session %q: %w", s.ID, ErrNotFound)
	}
	if stored.Version != s.Version {
		return fmt.Errorf("session was modified concurrently: %w", ErrConflict)
	}
	s.Version++
	r.sessions[s.ID] = r.clone(s)
	return nil
}

// fakeUserRepo is an in-memory UserRepo.
type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]*models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*models.User)}
}

func (r *fakeUserRepo) Create(u *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if existing.Email == u.Email {
			return fmt.Errorf("email already registered: %w", ErrConflict)
		}
	}
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	copied := *u
	r.users[u.ID] = &copied
	return nil
}

func (r *fakeUserRepo) ByID(id string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, fmt.Errorf("user %q: %w", id, ErrNotFound)
	}
	copied := *u
	return &copied, nil
}

func (r *fakeUserRepo) ByEmail(email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, fmt.Errorf("user %q: %w", email, ErrNotFound)
}

func (r *fakeUserRepo) Save(u *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[u.ID]; !ok {
		return fmt.Errorf("user %q: %w", u.ID, ErrNotFound)
	}
	copied := *u
	r.users[u.ID] = &copied
	return nil
}

// fakeOracle scripts the AI collaborators.
type fakeOracle struct {
	mu sync.Mutex

	unavailable bool

	analysis    *AnalysisResult
	analysisErr error

	generated    [][]GeneratedQuestion
	generateErr  error
	generateCall int

	universities    []UniversityRecommendation
	universitiesErr error
	universityCalls int

	courses     []CourseRecommendation
	coursesErr  error
	courseCalls int
}

func (o *fakeOracle) Available() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return !o.unavailable
}

func (o *fakeOracle) AnalyzeAnswers(_ context.Context, _ []AnswerTranscript) (*AnalysisResult, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.analysisErr != nil {
		return nil, o.analysisErr
	}
	return o.analysis, nil
}

func (o *fakeOracle) GenerateQuestions(_ context.Context, count int, phase models.Phase, area models.Area) ([]GeneratedQuestion, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	call := o.generateCall
	o.generateCall++
	if o.generateErr != nil {
		return nil, o.generateErr
	}
	if call < len(o.generated) {
		return o.generated[call], nil
	}
	return nil, nil
}

func (o *fakeOracle) UniversityRecommendations(_ context.Context, _, _ string) ([]UniversityRecommendation, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.universityCalls++
	if o.universitiesErr != nil {
		return nil, o.universitiesErr
	}
	return o.universities, nil
}

func (o *fakeOracle) CourseRecommendations(_ context.Context, _ string) ([]CourseRecommendation, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.courseCalls++
	if o.coursesErr != nil {
		return nil, o.coursesErr
	}
	return o.courses, nil
}
