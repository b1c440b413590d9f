package main

import (
	"context"
	"fmt"
	"time"

	"github.com/uniworld/cli/internal/models"
	"github.com/uniworld/cli/internal/shared"
	"github.com/urfave/cli/v3"
)

// SubscriptionPlans lists the available tiers and their email quotas.
func (r *Runner) SubscriptionPlans(ctx context.Context, cmd *cli.Command) error {
	r.writePlainHeader("Plans")
	r.writePlain("free     no email access\n")
	r.writePlain("premium  %d emails per month\n", models.PremiumEmailLimit)
	r.writePlain("pro      %d emails per month\n", models.ProEmailLimit)
	return nil
}

// SubscriptionSelect activates a plan for the logged-in user.
func (r *Runner) SubscriptionSelect(ctx context.Context, cmd *cli.Command) error {
	plan := models.Plan(cmd.StringArg("plan"))
	if !plan.Valid() {
		return fmt.Errorf("%w: plan must be free, premium or pro", shared.ErrInvalidArgument)
	}

	if _, err := r.requireSession(); err != nil {
		return err
	}

	sessions, err := r.sessions()
	if err != nil {
		return err
	}

	subscription, err := models.ActivatePlan(plan, time.Now())
	if err != nil {
		return err
	}

	if err := sessions.UpdateSubscription(subscription); err != nil {
		return fmt.Errorf("failed to update subscription: %w", err)
	}

	r.logger.Info("plan activated", "plan", plan)

	r.writePlain("✓ Plan changed to %s\n", plan)
	if subscription.EmailsLimit > 0 {
		r.writePlain("  Emails per month: %d\n", subscription.EmailsLimit)
	}
	return nil
}

// SubscriptionStatus shows the current plan and remaining quota.
func (r *Runner) SubscriptionStatus(ctx context.Context, cmd *cli.Command) error {
	session, err := r.requireSession()
	if err != nil {
		return err
	}

	sub := session.Subscription

	r.writePlainHeader("Subscription")
	r.writePlain("Plan: %s\n", sub.Plan)
	r.writePlain("Status: %s\n", sub.Status)
	if sub.Plan == models.PlanFree {
		r.writePlain("Email access: none (upgrade to premium or pro)\n")
	} else {
		r.writePlain("Emails used: %d of %d\n", sub.EmailsUsed, sub.EmailsLimit)
		r.writePlain("Emails remaining: %d\n", sub.EmailsRemaining())
	}
	if sub.EndsAt != nil {
		r.writePlain("Renews: %s\n", sub.EndsAt.Format("2006-01-02"))
	}

	return nil
}
