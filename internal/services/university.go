package services

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mickychog/career-genius/internal/models"

	"go.uber.org/zap"
)

// UniversityOracle suggests institutions for a career.
type UniversityOracle interface {
	UniversityRecommendations(ctx context.Context, career, region string) ([]UniversityRecommendation, error)
}

// UniversitySearchService serves institution recommendations for the career
// chosen in the user's latest completed test, cached on the session so
// revisiting the page does not re-query the oracle.
type UniversitySearchService struct {
	sessions SessionRepo
	oracle   UniversityOracle
	log      *zap.Logger
}

func NewUniversitySearchService(sessions SessionRepo, oracle UniversityOracle, log *zap.Logger) *UniversitySearchService {
	return &UniversitySearchService{sessions: sessions, oracle: oracle, log: log}
}

type UniversityRecommendationsResponse struct {
	Career       string                     `json:"career"`
	Region       string                     `json:"region"`
	Universities []UniversityRecommendation `json:"universities"`
}

// savedUniversityCache is the JSONB blob persisted on the session.
type savedUniversityCache struct {
	Region       string                     `json:"region"`
	Universities []UniversityRecommendation `json:"universities"`
}

// Recommendations returns institutions for the user's chosen career,
// optionally narrowed to a department. An empty region means nationwide.
func (s *UniversitySearchService) Recommendations(ctx context.Context, userID, region string) (*UniversityRecommendationsResponse, error) {
	session, career, err := completedSessionCareer(s.sessions, userID)
	if err != nil {
		return nil, err
	}

	if len(session.SavedUniversities) > 0 {
		var cached savedUniversityCache
		if err := json.Unmarshal(session.SavedUniversities, &cached); err == nil && cached.Region == region && len(cached.Universities) > 0 {
			return &UniversityRecommendationsResponse{
				Career:       career,
				Region:       region,
				Universities: cached.Universities,
			}, nil
		}
	}

	universities, err := s.oracle.UniversityRecommendations(ctx, career, region)
	if err != nil {
		return nil, err
	}

	if blob, err := json.Marshal(savedUniversityCache{Region: region, Universities: universities}); err == nil {
		session.SavedUniversities = blob
		if err := s.sessions.Save(session); err != nil {
			// Recommendations are already in hand; a stale cache only
			// costs a future oracle call.
			s.log.Warn("could not cache university recommendations",
				zap.String("session_id", session.ID),
				zap.Error(err))
		}
	}

	return &UniversityRecommendationsResponse{
		Career:       career,
		Region:       region,
		Universities: universities,
	}, nil
}

// completedSessionCareer resolves the latest completed session and the career
// recommendations should target: the explicit pick when made, the top
// recommendation otherwise.
func completedSessionCareer(sessions SessionRepo, userID string) (*models.TestSession, string, error) {
	session, err := sessions.LatestCompletedByUser(userID)
	if err != nil {
		return nil, "", err
	}

	career := session.SelectedCareer
	if career == "" && len(session.RecommendedCareers) > 0 {
		career = session.RecommendedCareers[0].Name
	}
	if career == "" {
		return nil, "", fmt.Errorf("completed test has no career to recommend for: %w", ErrNotFound)
	}
	return session, career, nil
}
