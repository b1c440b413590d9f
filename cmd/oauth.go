package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/uniworld/cli/internal/models"
	"github.com/uniworld/cli/internal/server"
	"github.com/uniworld/cli/internal/services"
	"github.com/uniworld/cli/internal/shared"
	"github.com/urfave/cli/v3"
	"golang.org/x/oauth2"
)

func parseProvider(cmd *cli.Command) (models.Provider, error) {
	provider := models.Provider(cmd.StringArg("provider"))
	if !provider.Valid() {
		return "", fmt.Errorf("%w: provider must be gmail or outlook", shared.ErrInvalidArgument)
	}
	return provider, nil
}

func (r *Runner) providerConfig(provider models.Provider) shared.ProviderConfig {
	if provider == models.ProviderOutlook {
		return r.config.Providers.Outlook
	}
	return r.config.Providers.Gmail
}

// OAuthConnect links a mail provider for sending.
//
// In development mode the link is simulated with fixed credentials and
// no browser round trip. Otherwise the full OAuth2 flow runs against a
// local callback server, and the backend token endpoint is consulted to
// confirm the link: the callback redirect alone is not trusted.
func (r *Runner) OAuthConnect(ctx context.Context, cmd *cli.Command) error {
	provider, err := parseProvider(cmd)
	if err != nil {
		return err
	}

	session, err := r.requireSession()
	if err != nil {
		return err
	}

	accounts, err := r.accounts()
	if err != nil {
		return err
	}

	if r.config.Providers.DevelopmentMode {
		email, token, err := services.DevAccount(provider)
		if err != nil {
			return err
		}

		account := models.EmailAccount{
			Provider:    provider,
			Connected:   true,
			Email:       email,
			AccessToken: token,
			UpdatedAt:   time.Now(),
		}
		if err := accounts.Upsert(account); err != nil {
			return fmt.Errorf("failed to save account: %w", err)
		}

		r.logger.Info("development mode link", "provider", provider, "email", email)
		return r.writePlain("✓ %s connected (development mode) as %s\n", provider, email)
	}

	token, err := r.doOAuth(ctx, provider, session.User.ID)
	if err != nil {
		return err
	}

	status, statusErr := r.service.OAuthTokenStatus(ctx)
	if statusErr != nil {
		r.logger.Warnf("could not confirm link with backend: %v", statusErr)
	} else if providerStatus, ok := status.Provider(provider); ok && !providerStatus.Connected() {
		return fmt.Errorf("%w: backend does not report %s as connected", shared.ErrAuthFailed, provider)
	}

	account := models.EmailAccount{
		Provider:    provider,
		Connected:   true,
		Email:       providerEmail(token),
		AccessToken: token.AccessToken,
		UpdatedAt:   time.Now(),
	}
	if err := accounts.Upsert(account); err != nil {
		return fmt.Errorf("failed to save account: %w", err)
	}

	r.writePlainln("✓ Authorization successful")
	if account.Email != "" {
		r.writePlain("✓ %s is connected for sending as %s\n", provider, account.Email)
	} else {
		r.writePlain("✓ %s is connected for sending\n", provider)
	}

	return nil
}

// providerEmail extracts the granted account's address from the ID
// token, when the provider returned one. The claim is read without
// signature verification; it is display metadata, not an authorization
// input. A token without an ID token yields an empty address.
func providerEmail(token *oauth2.Token) string {
	raw, _ := token.Extra("id_token").(string)
	if raw == "" {
		return ""
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(raw, claims); err != nil {
		return ""
	}

	if email, _ := claims["email"].(string); email != "" {
		return email
	}
	// Microsoft puts the address in preferred_username.
	email, _ := claims["preferred_username"].(string)
	return email
}

// doOAuth executes the OAuth2 authorization flow with a local HTTP server
func (r *Runner) doOAuth(ctx context.Context, provider models.Provider, userID int) (*oauth2.Token, error) {
	oauthConfig, err := services.NewOAuthConfig(provider, r.providerConfig(provider))
	if err != nil {
		return nil, err
	}

	state, err := services.AuthState(userID, time.Now())
	if err != nil {
		return nil, fmt.Errorf("failed to generate state token: %w", err)
	}

	authURL := oauthConfig.AuthCodeURL(state, oauth2.AccessTypeOffline)
	oauthHandler := server.NewOAuthHandler(oauthConfig, string(provider), state)
	router := server.NewBasicRouter()
	router.Handler(oauthHandler)

	serverAddr := fmt.Sprintf("%s:%d", r.config.Server.Host, r.config.Server.Port)
	httpServer := &http.Server{
		Addr:    serverAddr,
		Handler: router,
	}

	serverErrors := make(chan error, 1)
	go func() {
		r.logger.Infof("starting OAuth server for %s at %v", provider, serverAddr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrors <- err
		}
	}()

	time.Sleep(100 * time.Millisecond)

	r.writePlain("→ Opening browser for %s authorization...\n", provider)
	if err := shared.OpenBrowser(authURL); err != nil {
		r.logger.Warnf("failed to open browser automatically %v", err)
		r.writePlainln("⚠ Could not open browser automatically.")
		r.writePlain("Please open this URL in your browser:\n%s\n\n", authURL)
	}

	r.writePlain("→ Waiting for authorization (2 minute timeout)...\n")

	timeout := time.NewTimer(2 * time.Minute)
	defer timeout.Stop()

	var result server.OAuthResult

	select {
	case result = <-oauthHandler.Result():
		// Got result from callback
	case err := <-serverErrors:
		return nil, fmt.Errorf("server error: %w", err)
	case <-timeout.C:
		return nil, fmt.Errorf("%w: authorization timed out after 2 minutes", shared.ErrTimeout)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		r.logger.Warn("error shutting down server", "error", err)
	}

	if result.Error() != nil {
		return nil, fmt.Errorf("authorization failed: %w", result.Error())
	}

	if result.Token == nil {
		return nil, fmt.Errorf("no token received")
	}

	return result.Token, nil
}

// OAuthDisconnect unlinks a mail provider.
func (r *Runner) OAuthDisconnect(ctx context.Context, cmd *cli.Command) error {
	provider, err := parseProvider(cmd)
	if err != nil {
		return err
	}

	accounts, err := r.accounts()
	if err != nil {
		return err
	}

	if err := accounts.Disconnect(provider); err != nil {
		return fmt.Errorf("failed to disconnect %s: %w", provider, err)
	}

	return r.writePlain("✓ %s disconnected\n", provider)
}

// OAuthStatus reports the backend token state for both providers next
// to the locally linked accounts.
func (r *Runner) OAuthStatus(ctx context.Context, cmd *cli.Command) error {
	if _, err := r.requireSession(); err != nil {
		return err
	}

	status, err := r.service.OAuthTokenStatus(ctx)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(status, cmd.Bool("pretty"))
	}

	r.writePlainHeader("Provider Status")
	for _, provider := range models.SendOrder {
		providerStatus, _ := status.Provider(provider)
		if providerStatus.Connected() {
			r.writePlain("%s: connected\n", provider)
		} else if providerStatus.IsExpired {
			r.writePlain("%s: token expired\n", provider)
		} else {
			r.writePlain("%s: not connected\n", provider)
		}
	}

	accounts, err := r.accounts()
	if err != nil {
		return err
	}
	if active, ok, err := accounts.ActiveProvider(); err == nil && ok {
		if active.Email != "" {
			r.writePlain("\nActive for sending: %s (%s)\n", active.Provider, active.Email)
		} else {
			r.writePlain("\nActive for sending: %s\n", active.Provider)
		}
	}

	return nil
}

// OAuthRefresh asks the backend to refresh a provider token.
func (r *Runner) OAuthRefresh(ctx context.Context, cmd *cli.Command) error {
	provider, err := parseProvider(cmd)
	if err != nil {
		return err
	}

	if _, err := r.requireSession(); err != nil {
		return err
	}

	if err := r.service.RefreshOAuthToken(ctx, provider); err != nil {
		return err
	}

	return r.writePlain("✓ %s token refreshed\n", provider)
}
