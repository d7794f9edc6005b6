package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/latestcomment/go-debate-board/internal/config"
	"github.com/latestcomment/go-debate-board/internal/db"
	"github.com/latestcomment/go-debate-board/internal/models"
	"go.uber.org/zap"
)

const providerTimeout = 10 * time.Second

// AuthService performs the OAuth2 authorization-code handshake against the
// external identity provider and materializes a local user from the result.
type AuthService struct {
	cfg    config.OAuth
	db     *db.Client
	client *http.Client
	log    *zap.Logger
}

func NewAuthService(cfg config.OAuth, database *db.Client, log *zap.Logger) *AuthService {
	return &AuthService{
		cfg:    cfg,
		db:     database,
		client: &http.Client{Timeout: providerTimeout},
		log:    log,
	}
}

// BuildAuthorizationURL composes the provider redirect for a login attempt.
// Values go through url.Values so reserved characters survive encoding.
func (s *AuthService) BuildAuthorizationURL(state string) string {
	params := url.Values{}
	params.Set("response_type", "code")
	params.Set("client_id", s.cfg.ClientID)
	params.Set("redirect_uri", s.cfg.RedirectURI)
	params.Set("state", state)
	params.Set("scope", s.cfg.Scope)
	return s.cfg.AuthURL + "?" + params.Encode()
}

// CallbackParams are the query parameters the provider sent back, plus the
// state value issued when the login started.
type CallbackParams struct {
	Code        string
	State       string
	ErrorParam  string
	IssuedState string
}

type tokenResponse struct {
	AccessToken      string `json:"access_token"`
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
}

type providerProfile struct {
	UserID      string `json:"userId"`
	DisplayName string `json:"displayName"`
	Email       string `json:"email"`
}

// HandleCallback runs the callback handshake: validate the returned
// parameters, exchange the code for an access token, fetch the profile, and
// insert-or-update the local user. Each step fails with its own sentinel
// error and nothing after a failed step runs.
func (s *AuthService) HandleCallback(ctx context.Context, p CallbackParams) (models.User, error) {
	if p.ErrorParam != "" {
		return models.User{}, fmt.Errorf("%w: %s", ErrProviderDenied, p.ErrorParam)
	}
	if p.Code == "" {
		return models.User{}, ErrMissingCode
	}
	if p.State != p.IssuedState {
		return models.User{}, ErrStateMismatch
	}

	token, err := s.exchangeToken(ctx, p.Code)
	if err != nil {
		s.log.Warn("token exchange failed", zap.Error(err))
		return models.User{}, err
	}

	profile, err := s.fetchProfile(ctx, token)
	if err != nil {
		s.log.Warn("profile fetch failed", zap.Error(err))
		return models.User{}, err
	}

	user, err := s.db.User.UpsertByProvider(profile.UserID, profile.DisplayName, profile.Email)
	if err != nil {
		return models.User{}, fmt.Errorf("saving user: %w", err)
	}
	s.log.Info("user logged in", zap.Uint("user_id", user.ID))
	return user, nil
}

func (s *AuthService) exchangeToken(ctx context.Context, code string) (string, error) {
	form := url.Values{}
	form.Set("grant_type", "authorization_code")
	form.Set("code", code)
	form.Set("redirect_uri", s.cfg.RedirectURI)
	form.Set("client_id", s.cfg.ClientID)
	form.Set("client_secret", s.cfg.ClientSecret)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.cfg.TokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrTokenExchange, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrTokenExchange, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: provider returned %d", ErrTokenExchange, resp.StatusCode)
	}

	var token tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&token); err != nil {
		return "", fmt.Errorf("%w: %v", ErrTokenExchange, err)
	}
	if token.Error != "" {
		return "", fmt.Errorf("%w: %s (%s)", ErrTokenExchange, token.Error, token.ErrorDescription)
	}
	if token.AccessToken == "" {
		return "", fmt.Errorf("%w: no access token in response", ErrTokenExchange)
	}
	return token.AccessToken, nil
}

func (s *AuthService) fetchProfile(ctx context.Context, accessToken string) (providerProfile, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.cfg.ProfileURL, nil)
	if err != nil {
		return providerProfile{}, fmt.Errorf("%w: %v", ErrProfileFetch, err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := s.client.Do(req)
	if err != nil {
		return providerProfile{}, fmt.Errorf("%w: %v", ErrProfileFetch, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return providerProfile{}, fmt.Errorf("%w: provider returned %d", ErrProfileFetch, resp.StatusCode)
	}

	var profile providerProfile
	if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil {
		return providerProfile{}, fmt.Errorf("%w: %v", ErrProfileFetch, err)
	}
	if profile.UserID == "" {
		return providerProfile{}, fmt.Errorf("%w: no user id in response", ErrProfileFetch)
	}
	return profile, nil
}
