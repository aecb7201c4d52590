package service

import (
	"context"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/forgo/raidledger/api/internal/database"
	"github.com/forgo/raidledger/api/internal/model"
	"github.com/forgo/raidledger/api/pkg/jwt"
)

const (
	// bcrypt cost factor (10-14 recommended for production)
	bcryptCost = 12

	// Password constraints
	minPasswordLength = 8
	maxPasswordLength = 128
)

// UserRepository defines the interface for user storage
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id string) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	GetByDiscordID(ctx context.Context, discordID string) (*model.User, error)
	UpdateProfile(ctx context.Context, userID string, updates map[string]interface{}) (*model.User, error)
	TouchLogin(ctx context.Context, userID string) error
}

// AuthService handles authentication operations
type AuthService struct {
	userRepo   UserRepository
	jwtService *jwt.Service
}

// AuthServiceConfig holds configuration for the auth service
type AuthServiceConfig struct {
	UserRepo   UserRepository
	JWTService *jwt.Service
}

// NewAuthService creates a new auth service
func NewAuthService(cfg AuthServiceConfig) *AuthService {
	return &AuthService{
		userRepo:   cfg.UserRepo,
		jwtService: cfg.JWTService,
	}
}

// AccessToken represents an issued bearer token
type AccessToken struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"` // seconds
}

// RegisterRequest represents a registration request
type RegisterRequest struct {
	Email    string
	Username string
	Password string
	Timezone string
}

// RegisterResult represents a successful registration
type RegisterResult struct {
	User  *model.User
	Token *AccessToken
}

// Register creates a new user account with email/password
func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*RegisterResult, error) {
	email := strings.TrimSpace(strings.ToLower(req.Email))
	if !isValidEmail(email) {
		return nil, ErrInvalidEmail
	}

	username := strings.TrimSpace(req.Username)
	if err := validateUsername(username); err != nil {
		return nil, err
	}

	if err := validatePassword(req.Password); err != nil {
		return nil, err
	}

	timezone := strings.TrimSpace(req.Timezone)
	if timezone == "" {
		timezone = "UTC"
	}
	if len(timezone) > model.MaxTimezoneLength {
		return nil, ErrTimezoneTooLong
	}

	existingUser, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existingUser != nil {
		return nil, ErrEmailAlreadyExists
	}

	hash, err := hashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Email:    email,
		Username: username,
		Hash:     &hash,
		Timezone: timezone,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		// Concurrent registration can slip past the pre-check
		if errors.Is(err, database.ErrDuplicate) {
			return nil, ErrEmailAlreadyExists
		}
		return nil, err
	}

	token, err := s.issueToken(user)
	if err != nil {
		return nil, err
	}

	return &RegisterResult{
		User:  user,
		Token: token,
	}, nil
}

// LoginRequest represents a login request
type LoginRequest struct {
	Email    string
	Password string
}

// LoginResult represents a successful login
type LoginResult struct {
	User  *model.User
	Token *AccessToken
}

// Login authenticates a user with email/password
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*LoginResult, error) {
	email := strings.TrimSpace(strings.ToLower(req.Email))

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}

	if user.Hash == nil || *user.Hash == "" {
		return nil, ErrInvalidCredentials
	}

	if !checkPassword(req.Password, *user.Hash) {
		return nil, ErrInvalidCredentials
	}

	if err := s.userRepo.TouchLogin(ctx, user.ID); err != nil {
		return nil, err
	}

	token, err := s.issueToken(user)
	if err != nil {
		return nil, err
	}

	return &LoginResult{
		User:  user,
		Token: token,
	}, nil
}

// ValidateAccessToken validates an access token and returns the claims
func (s *AuthService) ValidateAccessToken(token string) (*model.TokenClaims, error) {
	claims, err := s.jwtService.Validate(token)
	if err != nil {
		return nil, err
	}

	return &model.TokenClaims{
		UserID:   claims.UserID,
		Email:    claims.Email,
		Username: claims.Username,
	}, nil
}

func (s *AuthService) issueToken(user *model.User) (*AccessToken, error) {
	signed, err := s.jwtService.Sign(jwt.Claims{
		Subject:  user.ID,
		UserID:   user.ID,
		Email:    user.Email,
		Username: user.Username,
	})
	if err != nil {
		return nil, err
	}

	return &AccessToken{
		AccessToken: signed,
		TokenType:   "Bearer",
		ExpiresIn:   int(s.jwtService.GetExpiration().Seconds()),
	}, nil
}

// Helper functions

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func checkPassword(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

func validatePassword(password string) error {
	if password == "" {
		return ErrPasswordRequired
	}
	if len(password) < minPasswordLength {
		return ErrPasswordTooShort
	}
	if len(password) > maxPasswordLength {
		return ErrPasswordTooLong
	}
	return nil
}

func validateUsername(username string) error {
	if len(username) < model.MinUsernameLength {
		return ErrUsernameTooShort
	}
	if len(username) > model.MaxUsernameLength {
		return ErrUsernameTooLong
	}
	return nil
}

func isValidEmail(email string) bool {
	// Basic email validation
	if email == "" {
		return false
	}
	if len(email) > 254 {
		return false
	}
	atIndex := strings.Index(email, "@")
	if atIndex < 1 {
		return false
	}
	dotIndex := strings.LastIndex(email, ".")
	if dotIndex < atIndex+2 {
		return false
	}
	if dotIndex >= len(email)-1 {
		return false
	}
	return true
}
