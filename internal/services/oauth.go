package services

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/uniworld/cli/internal/models"
	"github.com/uniworld/cli/internal/shared"
	"golang.org/x/oauth2"
)

// Development mode stand-ins. When development_mode is set the connect
// flow skips the provider consent screen and links these accounts.
const (
	DevGmailEmail   = "test@gmail.com"
	DevGmailToken   = "dev-gmail-token-12345"
	DevOutlookEmail = "test@outlook.com"
	DevOutlookToken = "dev-outlook-token-67890"
)

var (
	gmailEndpoint = oauth2.Endpoint{
		AuthURL:  "https://accounts.google.com/o/oauth2/v2/auth",
		TokenURL: "https://oauth2.googleapis.com/token",
	}

	outlookEndpoint = oauth2.Endpoint{
		AuthURL:  "https://login.microsoftonline.com/common/oauth2/v2.0/authorize",
		TokenURL: "https://login.microsoftonline.com/common/oauth2/v2.0/token",
	}

	// openid/email are requested next to the send scope so the grant
	// carries an ID token naming the linked address.
	providerScopes = map[models.Provider][]string{
		models.ProviderGmail:   {"https://www.googleapis.com/auth/gmail.send", "openid", "email"},
		models.ProviderOutlook: {"https://graph.microsoft.com/Mail.Send", "openid", "email"},
	}
)

// NewOAuthConfig builds the oauth2 configuration for a mail provider.
func NewOAuthConfig(provider models.Provider, cfg shared.ProviderConfig) (*oauth2.Config, error) {
	var endpoint oauth2.Endpoint
	switch provider {
	case models.ProviderGmail:
		endpoint = gmailEndpoint
	case models.ProviderOutlook:
		endpoint = outlookEndpoint
	default:
		return nil, fmt.Errorf("%w: unknown provider %q", shared.ErrInvalidArgument, provider)
	}

	if cfg.ClientID == "" {
		return nil, fmt.Errorf("%w: %s client id is not configured", shared.ErrInvalidInput, provider)
	}

	return &oauth2.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		RedirectURL:  cfg.RedirectURI,
		Scopes:       providerScopes[provider],
		Endpoint:     endpoint,
	}, nil
}

// DevAccount returns the development mode account for a provider.
func DevAccount(provider models.Provider) (email, token string, err error) {
	switch provider {
	case models.ProviderGmail:
		return DevGmailEmail, DevGmailToken, nil
	case models.ProviderOutlook:
		return DevOutlookEmail, DevOutlookToken, nil
	default:
		return "", "", fmt.Errorf("%w: unknown provider %q", shared.ErrInvalidArgument, provider)
	}
}

// AuthState builds the state parameter for a consent redirect. It binds
// the flow to a user and a start time so a stale or foreign callback
// can be rejected.
func AuthState(userID int, now time.Time) (string, error) {
	nonce, err := shared.GenerateState()
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%d.%d.%s", userID, now.Unix(), nonce), nil
}

// ProviderTokenStatus reports the backend's view of one provider's
// stored tokens.
type ProviderTokenStatus struct {
	HasAccessToken  bool   `json:"has_access_token"`
	HasRefreshToken bool   `json:"has_refresh_token"`
	TokenExpiry     string `json:"token_expiry"`
	IsExpired       bool   `json:"is_expired"`
}

// Connected reports whether the provider holds a usable token.
func (p ProviderTokenStatus) Connected() bool {
	return p.HasAccessToken && !p.IsExpired
}

// TokenStatus is the per-provider token state from the backend.
type TokenStatus struct {
	Success bool                `json:"success"`
	Error   string              `json:"error"`
	Gmail   ProviderTokenStatus `json:"gmail"`
	Outlook ProviderTokenStatus `json:"outlook"`
}

// Provider returns the status for the named provider.
func (t *TokenStatus) Provider(provider models.Provider) (ProviderTokenStatus, bool) {
	switch provider {
	case models.ProviderGmail:
		return t.Gmail, true
	case models.ProviderOutlook:
		return t.Outlook, true
	default:
		return ProviderTokenStatus{}, false
	}
}

// OAuthTokenStatus asks the backend which provider tokens the current
// user holds. The callback redirect alone is not trusted as proof of a
// completed link.
func (s *UniWorldService) OAuthTokenStatus(ctx context.Context) (*TokenStatus, error) {
	resp, err := s.api.Get(ctx, "/oauth/tokens/")
	if err != nil {
		return nil, err
	}

	if resp.StatusCode == http.StatusUnauthorized {
		return nil, fmt.Errorf("%w: %s", shared.ErrNotAuthenticated, resp.ErrorMessage())
	}
	if resp.StatusCode != http.StatusOK {
		return nil, statusError(resp)
	}

	var status TokenStatus
	if err := resp.Decode(&status); err != nil {
		return nil, err
	}
	if !status.Success {
		return nil, fmt.Errorf("%w: %s", shared.ErrAPIRequest, status.Error)
	}
	return &status, nil
}

// RefreshOAuthToken asks the backend to refresh one provider's token.
func (s *UniWorldService) RefreshOAuthToken(ctx context.Context, provider models.Provider) error {
	if !provider.Valid() {
		return fmt.Errorf("%w: unknown provider %q", shared.ErrInvalidArgument, provider)
	}

	payload := map[string]string{"provider": string(provider)}

	resp, err := s.api.Post(ctx, "/oauth/refresh/", payload)
	if err != nil {
		return err
	}

	if resp.StatusCode != http.StatusOK {
		return statusError(resp)
	}
	return nil
}
