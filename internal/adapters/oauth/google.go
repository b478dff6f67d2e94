package oauth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"learnstack-service/internal/config"

	"golang.org/x/oauth2"
)

// GoogleProfile is the subset of the userinfo payload the service uses.
type GoogleProfile struct {
	Sub     string `json:"sub"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Picture string `json:"picture"`
}

// TokenVerifier resolves a Google access token to a profile.
type TokenVerifier interface {
	Verify(ctx context.Context, accessToken string) (*GoogleProfile, error)
}

// GoogleVerifier validates access tokens against the userinfo endpoint: a
// token Google accepts there is a token Google issued.
type GoogleVerifier struct {
	userInfoURL string
	timeout     time.Duration
}

func NewGoogleVerifier(cfg *config.GoogleConfig) *GoogleVerifier {
	return &GoogleVerifier{
		userInfoURL: cfg.UserInfoURL,
		timeout:     10 * time.Second,
	}
}

func (g *GoogleVerifier) Verify(ctx context.Context, accessToken string) (*GoogleProfile, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	client := oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{
		AccessToken: accessToken,
		TokenType:   "Bearer",
	}))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.userInfoURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("userinfo request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("google rejected token: status %d", resp.StatusCode)
	}

	var profile GoogleProfile
	if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil {
		return nil, fmt.Errorf("failed to decode userinfo: %w", err)
	}
	return &profile, nil
}
