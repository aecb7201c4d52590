package handler

import (
	"net/http"

	"github.com/forgo/raidledger/api/internal/model"
	"github.com/forgo/raidledger/api/internal/service"
)

// AuthHandler handles authentication endpoints
type AuthHandler struct {
	authService *service.AuthService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// RegisterRequest represents the register endpoint request body
type RegisterRequest struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
	Timezone string `json:"timezone,omitempty"`
}

// LoginRequest represents the login endpoint request body
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// TokenResponse represents an issued access token
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

// UserResponse represents a user in API responses
type UserResponse struct {
	ID        string  `json:"id"`
	Email     string  `json:"email"`
	Username  string  `json:"username"`
	Timezone  string  `json:"timezone"`
	DiscordID *string `json:"discord_id,omitempty"`
	CreatedOn string  `json:"created_on"`
	UpdatedOn string  `json:"updated_on"`
	LoginOn   *string `json:"login_on,omitempty"`
}

// Register handles POST /v1/auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		WriteError(w, model.NewMethodNotAllowedError("POST"))
		return
	}

	var req RegisterRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body"))
		return
	}

	result, err := h.authService.Register(r.Context(), service.RegisterRequest{
		Email:    req.Email,
		Username: req.Username,
		Password: req.Password,
		Timezone: req.Timezone,
	})

	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	response := struct {
		User  UserResponse  `json:"user"`
		Token TokenResponse `json:"token"`
	}{
		User:  toUserResponse(result.User),
		Token: toTokenResponse(result.Token),
	}

	WriteData(w, http.StatusCreated, response, map[string]string{
		"self": "/v1/users/me",
	})
}

// Login handles POST /v1/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		WriteError(w, model.NewMethodNotAllowedError("POST"))
		return
	}

	var req LoginRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body"))
		return
	}

	result, err := h.authService.Login(r.Context(), service.LoginRequest{
		Email:    req.Email,
		Password: req.Password,
	})

	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	response := struct {
		User  UserResponse  `json:"user"`
		Token TokenResponse `json:"token"`
	}{
		User:  toUserResponse(result.User),
		Token: toTokenResponse(result.Token),
	}

	WriteData(w, http.StatusOK, response, map[string]string{
		"self": "/v1/users/me",
	})
}

// toUserResponse converts a user model to its API shape
func toUserResponse(user *model.User) UserResponse {
	resp := UserResponse{
		ID:        user.ID,
		Email:     user.Email,
		Username:  user.Username,
		Timezone:  user.Timezone,
		DiscordID: user.DiscordID,
		CreatedOn: user.CreatedOn.Format("2006-01-02T15:04:05Z"),
		UpdatedOn: user.UpdatedOn.Format("2006-01-02T15:04:05Z"),
	}
	if user.LoginOn != nil {
		loginOn := user.LoginOn.Format("2006-01-02T15:04:05Z")
		resp.LoginOn = &loginOn
	}
	return resp
}

// toTokenResponse converts an access token to its API shape
func toTokenResponse(token *service.AccessToken) TokenResponse {
	return TokenResponse{
		AccessToken: token.AccessToken,
		TokenType:   token.TokenType,
		ExpiresIn:   token.ExpiresIn,
	}
}
