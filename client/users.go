package client

import (
	"context"
	"net/http"
	"net/url"
)

// UserService covers profile reads and updates
type UserService struct {
	client *Client
}

// GetProfile fetches a user profile, nil on any failure
func (s *UserService) GetProfile(ctx context.Context, id string) *User {
	payload, err := s.client.do(ctx, "/users/"+url.PathEscape(id), RequestOptions{})
	if err != nil {
		s.client.logger.Debug("Profile read degraded to nil", map[string]interface{}{
			"operation": "users.GetProfile",
			"error":     err.Error(),
		})
		return nil
	}
	user, err := decodeUser(payload)
	if err != nil {
		return nil
	}
	return user
}

// UpdateProfile writes profile changes; errors propagate to the caller
func (s *UserService) UpdateProfile(ctx context.Context, id string, update User) (*User, error) {
	payload, err := s.client.do(ctx, "/users/"+url.PathEscape(id), RequestOptions{
		Method:  http.MethodPut,
		Body:    update,
		NoCache: true,
	})
	if err != nil {
		return nil, err
	}
	return decodeUser(payload)
}
