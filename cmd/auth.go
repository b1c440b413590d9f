package main

import (
	"context"
	"fmt"

	"github.com/uniworld/cli/internal/models"
	"github.com/uniworld/cli/internal/services"
	"github.com/uniworld/cli/internal/shared"
	"github.com/urfave/cli/v3"
)

// AuthLogin authenticates with the backend and stores the session locally.
//
// The login response carries no token, so a locally generated session
// marker stands in for it. A repeat login by the same user keeps the
// stored subscription state; a different user starts from the free plan.
func (r *Runner) AuthLogin(ctx context.Context, cmd *cli.Command) error {
	username := cmd.String("username")
	password := cmd.String("password")

	sessions, err := r.sessions()
	if err != nil {
		return err
	}

	user, err := r.service.Login(ctx, username, password)
	if err != nil {
		return err
	}

	subscription := models.FreeSubscription()
	if previous, loadErr := sessions.Load(); loadErr == nil {
		if previous.User != nil && previous.User.ID == user.ID {
			subscription = previous.Subscription
		}
	}

	session := models.Session{
		User:         user,
		Token:        shared.GenerateID(),
		Subscription: subscription,
	}

	if err := sessions.Save(session); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}

	r.api.SetToken(session.Token)

	r.writePlain("✓ Logged in as %s\n", user.Username)
	r.writePlain("  Plan: %s\n", session.Subscription.Plan)
	return nil
}

// AuthRegister creates a new account and logs the user in.
func (r *Runner) AuthRegister(ctx context.Context, cmd *cli.Command) error {
	req := services.RegisterRequest{
		Username:  cmd.String("username"),
		Email:     cmd.String("email"),
		Password:  cmd.String("password"),
		FirstName: cmd.String("first-name"),
		LastName:  cmd.String("last-name"),
	}

	sessions, err := r.sessions()
	if err != nil {
		return err
	}

	user, err := r.service.Register(ctx, req)
	if err != nil {
		return err
	}

	session := models.Session{
		User:         user,
		Token:        shared.GenerateID(),
		Subscription: models.FreeSubscription(),
	}

	if err := sessions.Save(session); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}

	r.api.SetToken(session.Token)

	r.writePlain("✓ Account created for %s\n", user.Username)
	return nil
}

// AuthLogout clears the session. Favorites, linked provider accounts and
// email history are local data and survive logout.
func (r *Runner) AuthLogout(ctx context.Context, cmd *cli.Command) error {
	sessions, err := r.sessions()
	if err != nil {
		return err
	}

	if err := sessions.Clear(); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}

	r.api.SetToken("")
	r.logger.Info("session cleared")

	return r.writePlain("✓ Logged out\n")
}

// AuthChangePassword changes the account password.
func (r *Runner) AuthChangePassword(ctx context.Context, cmd *cli.Command) error {
	if _, err := r.requireSession(); err != nil {
		return err
	}

	req := services.ChangePasswordRequest{
		CurrentPassword: cmd.String("current"),
		NewPassword:     cmd.String("new"),
	}

	if err := r.service.ChangePassword(ctx, req); err != nil {
		return err
	}

	return r.writePlain("✓ Password changed\n")
}

// AuthProfile fetches and prints the current user profile.
func (r *Runner) AuthProfile(ctx context.Context, cmd *cli.Command) error {
	session, err := r.requireSession()
	if err != nil {
		return err
	}

	user, err := r.service.Profile(ctx)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(user, cmd.Bool("pretty"))
	}

	r.writePlainHeader("Profile")
	r.writePlain("Username: %s\n", user.Username)
	r.writePlain("Email: %s\n", user.Email)
	if !user.DateJoined.IsZero() {
		r.writePlain("Joined: %s\n", user.DateJoined.Format("2006-01-02"))
	}
	r.writePlain("Plan: %s\n", session.Subscription.Plan)

	return nil
}

// AuthUpdateProfile updates mutable profile fields and saves the
// returned user back into the session.
func (r *Runner) AuthUpdateProfile(ctx context.Context, cmd *cli.Command) error {
	session, err := r.requireSession()
	if err != nil {
		return err
	}

	req := services.ProfileUpdateRequest{
		Email:     cmd.String("email"),
		FirstName: cmd.String("first-name"),
		LastName:  cmd.String("last-name"),
	}

	if req.Email == "" && req.FirstName == "" && req.LastName == "" {
		return fmt.Errorf("%w: nothing to update", shared.ErrMissingArgument)
	}

	user, err := r.service.UpdateProfile(ctx, req)
	if err != nil {
		return err
	}

	sessions, err := r.sessions()
	if err != nil {
		return err
	}

	session.User = user
	if err := sessions.Save(session); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}

	return r.writePlain("✓ Profile updated\n")
}
