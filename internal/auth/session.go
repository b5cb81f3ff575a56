package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"

	inthttp "github.com/soundwave-io/sapi-client/internal/http"
)

// Static errors for wrapping with context.
var (
	ErrNoRefreshToken = errors.New("no refresh token available")
	ErrRefreshFailed  = errors.New("token refresh failed")
)

// Config configures a TokenSession.
type Config struct {
	// TokenURL is the full token endpoint.
	TokenURL string
	// ClientID identifies this client to the token endpoint.
	ClientID string
	// ClientSecret accompanies ClientID when the API requires one.
	ClientSecret string
	// RefreshToken is the initial refresh credential. Endpoints may
	// rotate it; the latest one always wins.
	RefreshToken string
}

// TokenSession exchanges a refresh token for access tokens using the
// refresh_token grant. It satisfies both the session contract
// (HasActiveSession/Refresh) and the transport's TokenProvider.
type TokenSession struct {
	config     *Config
	store      *TokenStore
	httpClient *inthttp.Client
	refreshMu  sync.Mutex
}

// NewTokenSession creates a session around the given credentials.
func NewTokenSession(config *Config, opts ...inthttp.Option) *TokenSession {
	return &TokenSession{
		config:     config,
		store:      NewTokenStore(),
		httpClient: inthttp.NewClient(nil, opts...),
	}
}

// HasActiveSession reports whether the session holds a credential it
// can refresh with.
func (s *TokenSession) HasActiveSession() bool {
	return s.refreshToken() != ""
}

// Token returns a valid access token, refreshing synchronously when the
// stored one is missing or about to expire.
func (s *TokenSession) Token(ctx context.Context) (string, error) {
	if token := s.store.Get(); token.Valid() {
		return token.AccessToken, nil
	}

	if err := s.refresh(ctx); err != nil {
		return "", err
	}

	return s.store.Get().AccessToken, nil
}

// Refresh exchanges the refresh token for a fresh access token and
// reports the outcome to completion. The exchange runs off the calling
// goroutine; completion is invoked exactly once.
func (s *TokenSession) Refresh(completion func(error)) {
	go func() {
		completion(s.refresh(context.Background()))
	}()
}

// SetToken manually seeds the session with a known-good token.
func (s *TokenSession) SetToken(accessToken, refreshToken string, expiresAt time.Time) {
	s.store.Set(&Token{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresAt:    expiresAt,
	})
}

func (s *TokenSession) refreshToken() string {
	if token := s.store.Get(); token != nil && token.RefreshToken != "" {
		return token.RefreshToken
	}

	return s.config.RefreshToken
}

type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
}

func (s *TokenSession) refresh(ctx context.Context) error {
	s.refreshMu.Lock()
	defer s.refreshMu.Unlock()

	refreshToken := s.refreshToken()
	if refreshToken == "" {
		return ErrNoRefreshToken
	}

	form := url.Values{
		"grant_type":    []string{"refresh_token"},
		"refresh_token": []string{refreshToken},
		"client_id":     []string{s.config.ClientID},
	}
	if s.config.ClientSecret != "" {
		form.Set("client_secret", s.config.ClientSecret)
	}

	resp, err := s.httpClient.Post(ctx, s.config.TokenURL, form)
	if err != nil {
		return fmt.Errorf("refreshing token: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: status %d", ErrRefreshFailed, resp.StatusCode)
	}

	var tr tokenResponse
	if err := json.Unmarshal(resp.Body, &tr); err != nil {
		return fmt.Errorf("parsing token response: %w", err)
	}

	if tr.AccessToken == "" {
		return fmt.Errorf("%w: response carries no access token", ErrRefreshFailed)
	}

	token := &Token{
		AccessToken:  tr.AccessToken,
		RefreshToken: tr.RefreshToken,
	}
	if token.RefreshToken == "" {
		token.RefreshToken = refreshToken
	}

	if tr.ExpiresIn > 0 {
		token.ExpiresAt = time.Now().Add(time.Duration(tr.ExpiresIn) * time.Second)
	}

	s.store.Set(token)

	return nil
}
