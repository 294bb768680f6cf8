package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mickychog/career-genius/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func seedCompletedSession(t *testing.T, sessions *fakeSessionRepo, userID, selected string) *models.TestSession {
	t.Helper()
	now := time.Now()
	session := &models.TestSession{
		UserID:      userID,
		Phase:       models.PhaseFinished,
		IsCompleted: true,
		CompletedAt: &now,
		RecommendedCareers: []models.Career{
			{Name: "Ingeniería de Sistemas", Duration: "5 años", Reason: "afinidad"},
		},
		SelectedCareer: selected,
	}
	require.NoError(t, sessions.Create(session))
	return session
}

func TestUniversityRecommendations(t *testing.T) {
	recs := []UniversityRecommendation{{Name: "UMSA", Type: "Pública", City: "La Paz"}}

	t.Run("queries the oracle for the selected career", func(t *testing.T) {
		sessions := newFakeSessionRepo()
		oracle := &fakeOracle{universities: recs}
		svc := NewUniversitySearchService(sessions, oracle, zap.NewNop())
		seedCompletedSession(t, sessions, "user-1", "Medicina")

		resp, err := svc.Recommendations(context.Background(), "user-1", "La Paz")
		require.NoError(t, err)

		assert.Equal(t, "Medicina", resp.Career)
		assert.Equal(t, "La Paz", resp.Region)
		assert.Equal(t, recs, resp.Universities)
		assert.Equal(t, 1, oracle.universityCalls)
	})

	t.Run("falls back to the top recommended career", func(t *testing.T) {
		sessions := newFakeSessionRepo()
		oracle := &fakeOracle{universities: recs}
		svc := NewUniversitySearchService(sessions, oracle, zap.NewNop())
		seedCompletedSession(t, sessions, "user-1", "")

		resp, err := svc.Recommendations(context.Background(), "user-1", "")
		require.NoError(t, err)
		assert.Equal(t, "Ingeniería de Sistemas", resp.Career)
	})

	t.Run("second call for the same region hits the cache", func(t *testing.T) {
		sessions := newFakeSessionRepo()
		oracle := &fakeOracle{universities: recs}
		svc := NewUniversitySearchService(sessions, oracle, zap.NewNop())
		seedCompletedSession(t, sessions, "user-1", "Medicina")

		_, err := svc.Recommendations(context.Background(), "user-1", "La Paz")
		require.NoError(t, err)
		resp, err := svc.Recommendations(context.Background(), "user-1", "La Paz")
		require.NoError(t, err)

		assert.Equal(t, recs, resp.Universities)
		assert.Equal(t, 1, oracle.universityCalls)
	})

	t.Run("changing region bypasses the cache", func(t *testing.T) {
		sessions := newFakeSessionRepo()
		oracle := &fakeOracle{universities: recs}
		svc := NewUniversitySearchService(sessions, oracle, zap.NewNop())
		seedCompletedSession(t, sessions, "user-1", "Medicina")

		_, err := svc.Recommendations(context.Background(), "user-1", "La Paz")
		require.NoError(t, err)
		_, err = svc.Recommendations(context.Background(), "user-1", "Cochabamba")
		require.NoError(t, err)

		assert.Equal(t, 2, oracle.universityCalls)
	})

	t.Run("no completed test is not found", func(t *testing.T) {
		sessions := newFakeSessionRepo()
		svc := NewUniversitySearchService(sessions, &fakeOracle{}, zap.NewNop())

		_, err := svc.Recommendations(context.Background(), "user-1", "")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("oracle failure surfaces", func(t *testing.T) {
		sessions := newFakeSessionRepo()
		oracle := &fakeOracle{universitiesErr: errors.New("upstream down")}
		svc := NewUniversitySearchService(sessions, oracle, zap.NewNop())
		seedCompletedSession(t, sessions, "user-1", "Medicina")

		_, err := svc.Recommendations(context.Background(), "user-1", "")
		assert.Error(t, err)
	})
}

func TestCourseRecommendations(t *testing.T) {
	recs := []CourseRecommendation{{Title: "Preuniversitario de Matemáticas", Platform: "YouTube", Type: "curso"}}

	t.Run("queries and caches on the session", func(t *testing.T) {
		sessions := newFakeSessionRepo()
		oracle := &fakeOracle{courses: recs}
		svc := NewSkillsDevelopmentService(sessions, oracle, zap.NewNop())
		seeded := seedCompletedSession(t, sessions, "user-1", "Medicina")

		resp, err := svc.Recommendations(context.Background(), "user-1")
		require.NoError(t, err)
		assert.Equal(t, "Medicina", resp.Career)
		assert.Equal(t, recs, resp.Courses)

		stored, err := sessions.ByID(seeded.ID)
		require.NoError(t, err)
		assert.NotEmpty(t, stored.SavedCourses)

		_, err = svc.Recommendations(context.Background(), "user-1")
		require.NoError(t, err)
		assert.Equal(t, 1, oracle.courseCalls)
	})

	t.Run("no completed test is not found", func(t *testing.T) {
		sessions := newFakeSessionRepo()
		svc := NewSkillsDevelopmentService(sessions, &fakeOracle{}, zap.NewNop())

		_, err := svc.Recommendations(context.Background(), "user-1")
		assert.ErrorIs(t, err, ErrNotFound)
	})
}
