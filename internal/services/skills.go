package services

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"
)

// CourseOracle suggests free preparation resources for a career.
type CourseOracle interface {
	CourseRecommendations(ctx context.Context, career string) ([]CourseRecommendation, error)
}

// SkillsDevelopmentService serves course recommendations for the career
// chosen in the user's latest completed test, cached on the session.
type SkillsDevelopmentService struct {
	sessions SessionRepo
	oracle   CourseOracle
	log      *zap.Logger
}

func NewSkillsDevelopmentService(sessions SessionRepo, oracle CourseOracle, log *zap.Logger) *SkillsDevelopmentService {
	return &SkillsDevelopmentService{sessions: sessions, oracle: oracle, log: log}
}

type CourseRecommendationsResponse struct {
	Career  string                 `json:"career"`
	Courses []CourseRecommendation `json:"courses"`
}

// Recommendations returns preparation resources for the user's chosen career.
func (s *SkillsDevelopmentService) Recommendations(ctx context.Context, userID string) (*CourseRecommendationsResponse, error) {
	session, career, err := completedSessionCareer(s.sessions, userID)
	if err != nil {
		return nil, err
	}

	if len(session.SavedCourses) > 0 {
		var cached []CourseRecommendation
		if err := json.Unmarshal(session.SavedCourses, &cached); err == nil && len(cached) > 0 {
			return &CourseRecommendationsResponse{Career: career, Courses: cached}, nil
		}
	}

	courses, err := s.oracle.CourseRecommendations(ctx, career)
	if err != nil {
		return nil, err
	}

	if blob, err := json.Marshal(courses); err == nil {
		session.SavedCourses = blob
		if err := s.sessions.Save(session); err != nil {
			s.log.Warn("could not cache course recommendations",
				zap.String("session_id", session.ID),
				zap.Error(err))
		}
	}

	return &CourseRecommendationsResponse{Career: career, Courses: courses}, nil
}
