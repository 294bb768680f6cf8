package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mickychog/career-genius/internal/models"

	"gorm.io/datatypes"
)

type UserService struct {
	users    UserRepo
	sessions SessionRepo
}

func NewUserService(users UserRepo, sessions SessionRepo) *UserService {
	return &UserService{users: users, sessions: sessions}
}

// UpdateProfileInput carries partial profile updates; nil fields are left
// untouched.
type UpdateProfileInput struct {
	Name              *string    `json:"name"`
	BirthDate         *time.Time `json:"birth_date"`
	Gender            *string    `json:"gender"`
	Headline          *string    `json:"headline"`
	Summary           *string    `json:"summary"`
	Phone             *string    `json:"phone"`
	Location          *string    `json:"location"`
	ProfilePictureURL *string    `json:"profile_picture_url"`
	Skills            *[]string  `json:"skills"`
}

// DashboardStats is the profile page summary.
type DashboardStats struct {
	CompletedTests  int64  `json:"completed_tests"`
	HasActiveTest   bool   `json:"has_active_test"`
	ActiveSessionID string `json:"active_session_id,omitempty"`
	VocationalFocus string `json:"vocational_focus,omitempty"`
	LastCompletedID string `json:"last_completed_id,omitempty"`
}

func (s *UserService) GetProfile(userID string) (*models.User, error) {
	return s.users.ByID(userID)
}

func (s *UserService) UpdateProfile(userID string, in UpdateProfileInput) (*models.User, error) {
	user, err := s.users.ByID(userID)
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, fmt.Errorf("name cannot be empty: %w", ErrInvalidInput)
		}
		user.Name = name
	}
	if in.Gender != nil {
		switch gender := models.UserGender(*in.Gender); gender {
		case models.GenderMale, models.GenderFemale, models.GenderOther, models.GenderPreferNotToSay:
			user.Gender = gender
		default:
			return nil, fmt.Errorf("unknown gender %q: %w", *in.Gender, ErrInvalidInput)
		}
	}
	if in.BirthDate != nil {
		user.BirthDate = in.BirthDate
	}
	if in.Headline != nil {
		user.Headline = *in.Headline
	}
	if in.Summary != nil {
		user.Summary = *in.Summary
	}
	if in.Phone != nil {
		user.Phone = *in.Phone
	}
	if in.Location != nil {
		user.Location = *in.Location
	}
	if in.ProfilePictureURL != nil {
		user.ProfilePictureURL = *in.ProfilePictureURL
	}
	if in.Skills != nil {
		user.Skills = datatypes.JSONSlice[string](*in.Skills)
	}

	if err := s.users.Save(user); err != nil {
		return nil, err
	}
	return user, nil
}

// GetDashboardStats aggregates the user's funnel history. The vocational
// focus is the career pick of the most recent completed session.
func (s *UserService) GetDashboardStats(userID string) (*DashboardStats, error) {
	stats := &DashboardStats{}

	completed, err := s.sessions.CountCompletedByUser(userID)
	if err != nil {
		return nil, err
	}
	stats.CompletedTests = completed

	if active, err := s.sessions.ActiveByUser(userID); err == nil {
		stats.HasActiveTest = true
		stats.ActiveSessionID = active.ID
	} else if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	if last, err := s.sessions.LatestCompletedByUser(userID); err == nil {
		stats.LastCompletedID = last.ID
		stats.VocationalFocus = last.SelectedCareer
		if stats.VocationalFocus == "" {
			stats.VocationalFocus = last.ResultProfile
		}
	} else if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	return stats, nil
}
