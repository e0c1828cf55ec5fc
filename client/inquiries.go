package client

import (
	"context"
	"encoding/json"
	"net/http"
)

// InquiryService covers contact-form submissions. These are write paths:
// errors propagate to the caller, which surfaces them to the user.
type InquiryService struct {
	client *Client
}

// Create posts a new inquiry
func (s *InquiryService) Create(ctx context.Context, inquiry Inquiry) error {
	_, err := s.client.do(ctx, "/inquiries", RequestOptions{
		Method:  http.MethodPost,
		Body:    inquiry,
		NoCache: true,
	})
	return err
}

// ListMine returns the logged-in user's own submissions
func (s *InquiryService) ListMine(ctx context.Context) ([]Inquiry, error) {
	payload, err := s.client.do(ctx, "/user/inquiries", RequestOptions{NoCache: true})
	if err != nil {
		return nil, err
	}
	if len(payload) == 0 {
		return []Inquiry{}, nil
	}
	var inquiries []Inquiry
	if err := json.Unmarshal(payload, &inquiries); err != nil {
		return nil, err
	}
	return inquiries, nil
}
