package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mickychog/career-genius/internal/config"
	"github.com/mickychog/career-genius/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

type AuthService struct {
	users     UserRepo
	jwtSecret []byte
	tokenTTL  time.Duration
}

func NewAuthService(users UserRepo, cfg config.JWTConfig) *AuthService {
	ttl := time.Duration(cfg.TTLHours) * time.Hour
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &AuthService{users: users, jwtSecret: []byte(cfg.Secret), tokenTTL: ttl}
}

type RegisterInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Name     string `json:"name" binding:"required"`
	Role     string `json:"role"`
}

func (s *AuthService) Register(in RegisterInput) (*models.User, string, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if _, err := s.users.ByEmail(email); err == nil {
		return nil, "", fmt.Errorf("email already registered: %w", ErrConflict)
	} else if !errors.Is(err, ErrNotFound) {
		return nil, "", err
	}

	role := models.UserRole(in.Role)
	switch role {
	case models.RoleStudent, models.RoleProfessional:
	case "":
		role = models.RoleStudent
	default:
		// Admin accounts are provisioned out of band.
		return nil, "", fmt.Errorf("unknown role %q: %w", in.Role, ErrInvalidInput)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", err
	}

	user := &models.User{
		Email:        email,
		PasswordHash: string(hash),
		Name:         strings.TrimSpace(in.Name),
		Role:         role,
	}
	if err := s.users.Create(user); err != nil {
		return nil, "", err
	}

	token, err := s.GenerateToken(user)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

func (s *AuthService) Login(email, password string) (*models.User, string, error) {
	user, err := s.users.ByEmail(strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, "", fmt.Errorf("invalid credentials: %w", ErrForbidden)
		}
		return nil, "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, "", fmt.Errorf("invalid credentials: %w", ErrForbidden)
	}

	token, err := s.GenerateToken(user)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

func (s *AuthService) GenerateToken(user *models.User) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":  user.ID,
		"role": string(user.Role),
		"exp":  now.Add(s.tokenTTL).Unix(),
		"iat":  now.Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtSecret)
}

// ValidateToken returns the user ID and role carried by a valid token.
func (s *AuthService) ValidateToken(tokenString string) (string, models.UserRole, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.jwtSecret, nil
	})
	if err != nil || !token.Valid {
		return "", "", fmt.Errorf("invalid token: %w", ErrForbidden)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", "", fmt.Errorf("invalid claims: %w", ErrForbidden)
	}

	userID, ok := claims["sub"].(string)
	if !ok || userID == "" {
		return "", "", fmt.Errorf("invalid subject in token: %w", ErrForbidden)
	}
	role, _ := claims["role"].(string)

	return userID, models.UserRole(role), nil
}
