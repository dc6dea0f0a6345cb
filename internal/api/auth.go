package api

import (
	"context"
	"net/http"
)

// AuthResponse is returned by login and registration. It carries the
// authenticated email, not the full profile; the profile is fetched in a
// second step through the accounts service.
type AuthResponse struct {
	Email        string `json:"email"`
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// RefreshResponse is returned by the token refresh endpoint.
type RefreshResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken,omitempty"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// AuthService talks to the authentication endpoints.
type AuthService struct {
	client *Client
}

// Login exchanges credentials for a token pair.
func (s *AuthService) Login(ctx context.Context, email, password string) (AuthResponse, error) {
	var resp AuthResponse
	err := s.client.do(ctx, http.MethodPost, "/api/auth/login", nil, loginRequest{Email: email, Password: password}, &resp)
	return resp, err
}

// Register creates an account and returns a token pair for it.
func (s *AuthService) Register(ctx context.Context, name, email, password string) (AuthResponse, error) {
	var resp AuthResponse
	err := s.client.do(ctx, http.MethodPost, "/api/auth/register", nil, registerRequest{Name: name, Email: email, Password: password}, &resp)
	return resp, err
}

// Refresh exchanges a refresh token for a new access token.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (RefreshResponse, error) {
	var resp RefreshResponse
	err := s.client.do(ctx, http.MethodPost, "/api/auth/refresh", nil, refreshRequest{RefreshToken: refreshToken}, &resp)
	return resp, err
}
