package identity

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"journal_server/internal/domain"
)

// ProfileClient resolves emails against an external identity provider over
// HTTP. A failed call surfaces domain.ErrCollaboratorUnavailable so callers
// can fall back without losing state.
type ProfileClient struct {
	client  *resty.Client
	baseURL string
}

type rawProfile struct {
	Email       string `json:"email"`
	Name        string `json:"name"`
	PhoneNumber string `json:"phoneNumber"`
}

func NewProfileClient(baseURL string, opts ...func(*resty.Client)) (*ProfileClient, error) {
	if strings.TrimSpace(baseURL) == "" {
		return nil, fmt.Errorf("baseURL is required")
	}

	client := resty.New().
		SetHeader("Accept", "application/json").
		SetTimeout(15 * time.Second)

	for _, opt := range opts {
		opt(client)
	}

	return &ProfileClient{
		client:  client,
		baseURL: baseURL,
	}, nil
}

func (c *ProfileClient) FetchProfile(ctx context.Context, email string) (domain.Profile, error) {
	var payload rawProfile

	resp, err := c.client.R().
		SetContext(ctx).
		SetQueryParam("email", email).
		SetResult(&payload).
		Get(c.baseURL)
	if err != nil {
		return domain.Profile{}, fmt.Errorf("%w: fetch profile: %v", domain.ErrCollaboratorUnavailable, err)
	}

	if resp.StatusCode() >= 400 {
		return domain.Profile{}, fmt.Errorf("%w: provider responded with status %d", domain.ErrCollaboratorUnavailable, resp.StatusCode())
	}

	profile := domain.Profile{
		Email:       strings.TrimSpace(payload.Email),
		Name:        strings.TrimSpace(payload.Name),
		PhoneNumber: strings.TrimSpace(payload.PhoneNumber),
	}
	if profile.Email == "" {
		profile.Email = email
	}

	return profile, nil
}
