package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
)

// AuthService covers the session lifecycle endpoints. Nothing here is ever
// cached, and login/register surface the four classified error kinds
// verbatim so callers can branch on them with errors.Is.
type AuthService struct {
	client *Client
}

// Register creates an account. The backend sets the session cookie on
// success, so a subsequent Status reports the new user.
func (s *AuthService) Register(ctx context.Context, reg Registration) (*User, error) {
	payload, err := s.client.do(ctx, "/auth/register", RequestOptions{
		Method:  http.MethodPost,
		Body:    reg,
		NoCache: true,
	})
	if err != nil {
		return nil, err
	}
	return decodeUser(payload)
}

// Login authenticates with email and password. A 401 rejects with one of
// ErrAccountNotFound, ErrInvalidPassword, or ErrAuthenticationFailed;
// exactly one network call is made for those.
func (s *AuthService) Login(ctx context.Context, email, password string) (*User, error) {
	payload, err := s.client.do(ctx, "/auth/login", RequestOptions{
		Method:  http.MethodPost,
		Body:    Credentials{Email: email, Password: password},
		NoCache: true,
	})
	if err != nil {
		return nil, err
	}
	return decodeUser(payload)
}

// Logout tears down the server-side session
func (s *AuthService) Logout(ctx context.Context) error {
	_, err := s.client.do(ctx, "/auth/logout", RequestOptions{
		Method:  http.MethodPost,
		NoCache: true,
	})
	return err
}

// Status checks the cookie-based session. Returns the current user, or
// (nil, nil) when the backend reports no active session without error.
func (s *AuthService) Status(ctx context.Context) (*User, error) {
	payload, err := s.client.do(ctx, "/auth/status", RequestOptions{NoCache: true})
	if err != nil {
		return nil, err
	}
	return decodeUser(payload)
}

// ForgotPassword starts the token-based reset flow
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	_, err := s.client.do(ctx, "/auth/forgot-password", RequestOptions{
		Method:  http.MethodPost,
		Body:    map[string]string{"email": email},
		NoCache: true,
	})
	return err
}

// ResetPassword completes the reset flow with the emailed token
func (s *AuthService) ResetPassword(ctx context.Context, token, newPassword string) error {
	_, err := s.client.do(ctx, "/auth/reset-password", RequestOptions{
		Method:  http.MethodPost,
		Body:    map[string]string{"token": token, "password": newPassword},
		NoCache: true,
	})
	return err
}

// CheckEmail reports whether an account already exists for the address
func (s *AuthService) CheckEmail(ctx context.Context, email string) (bool, error) {
	payload, err := s.client.do(ctx, "/auth/check-email?email="+url.QueryEscape(email), RequestOptions{NoCache: true})
	if err != nil {
		return false, err
	}
	var parsed struct {
		Exists bool `json:"exists"`
	}
	if len(payload) > 0 {
		if err := json.Unmarshal(payload, &parsed); err != nil {
			return false, err
		}
	}
	return parsed.Exists, nil
}

// ValidatePassword asks the backend whether a candidate password meets
// policy, returning the rejection reason when it does not.
func (s *AuthService) ValidatePassword(ctx context.Context, password string) (bool, string, error) {
	payload, err := s.client.do(ctx, "/auth/validate-password", RequestOptions{
		Method:  http.MethodPost,
		Body:    map[string]string{"password": password},
		NoCache: true,
	})
	if err != nil {
		return false, "", err
	}
	var parsed struct {
		Valid   bool   `json:"valid"`
		Message string `json:"message"`
	}
	if len(payload) > 0 {
		if err := json.Unmarshal(payload, &parsed); err != nil {
			return false, "", err
		}
	}
	return parsed.Valid, parsed.Message, nil
}
