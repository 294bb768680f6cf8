package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type UserRole string

const (
	RoleStudent      UserRole = "student"
	RoleProfessional UserRole = "professional"
	RoleAdmin        UserRole = "admin"
)

type UserGender string

const (
	GenderMale           UserGender = "male"
	GenderFemale         UserGender = "female"
	GenderOther          UserGender = "other"
	GenderPreferNotToSay UserGender = "prefer_not_to_say"
)

type User struct {
	ID           string   `gorm:"type:uuid;primaryKey" json:"id"`
	Email        string   `gorm:"size:255;uniqueIndex;not null" json:"email"`
	PasswordHash string   `gorm:"size:255;not null" json:"-"`
	Name         string   `gorm:"size:255;not null" json:"name"`
	Role         UserRole `gorm:"size:20;not null;default:'student'" json:"role"`

	BirthDate         *time.Time                  `json:"birth_date,omitempty"`
	Gender            UserGender                  `gorm:"size:30" json:"gender,omitempty"`
	Headline          string                      `gorm:"size:100" json:"headline,omitempty"`
	Summary           string                      `gorm:"type:text" json:"summary,omitempty"`
	Phone             string                      `gorm:"size:20" json:"phone,omitempty"`
	Location          string                      `gorm:"size:100" json:"location,omitempty"`
	ProfilePictureURL string                      `gorm:"size:500" json:"profile_picture_url,omitempty"`
	Skills            datatypes.JSONSlice[string] `gorm:"type:jsonb" json:"skills,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}
