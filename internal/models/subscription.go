package models

import (
	"fmt"
	"time"
)

// Plan enumerates subscription tiers.
type Plan string

const (
	PlanFree    Plan = "free"
	PlanPremium Plan = "premium"
	PlanPro     Plan = "pro"
)

// Monthly email quotas per plan. Free has no email access.
const (
	PremiumEmailLimit = 50
	ProEmailLimit     = 200
)

// Valid reports whether p is a known tier.
func (p Plan) Valid() bool {
	switch p {
	case PlanFree, PlanPremium, PlanPro:
		return true
	}
	return false
}

// EmailLimit returns the monthly email quota for the plan.
func (p Plan) EmailLimit() int {
	switch p {
	case PlanPremium:
		return PremiumEmailLimit
	case PlanPro:
		return ProEmailLimit
	default:
		return 0
	}
}

// Subscription holds the tier and usage counters gating premium features.
type Subscription struct {
	Plan          Plan       `json:"plan"`
	Status        string     `json:"status"`
	EmailsUsed    int        `json:"emails_used"`
	EmailsLimit   int        `json:"emails_limit"`
	SearchesUsed  int        `json:"searches_used"`
	SearchesLimit int        `json:"searches_limit"`
	StartedAt     *time.Time `json:"started_at,omitempty"`
	EndsAt        *time.Time `json:"ends_at,omitempty"`
}

// FreeSubscription returns the anonymous/free default subscription state.
func FreeSubscription() Subscription {
	return Subscription{
		Plan:   PlanFree,
		Status: "active",
	}
}

// ActivatePlan returns the subscription state after selecting a plan.
//
// The free plan resets counters locally with no server round trip. Paid plans
// are simulated activations with a 30-day window; real billing is a backend
// concern and deliberately out of scope here.
func ActivatePlan(plan Plan, now time.Time) (Subscription, error) {
	if !plan.Valid() {
		return Subscription{}, fmt.Errorf("unknown plan: %s", plan)
	}

	if plan == PlanFree {
		return FreeSubscription(), nil
	}

	ends := now.AddDate(0, 0, 30)
	return Subscription{
		Plan:        plan,
		Status:      "active",
		EmailsLimit: plan.EmailLimit(),
		StartedAt:   &now,
		EndsAt:      &ends,
	}, nil
}

// EmailsRemaining returns how many sends are left in the current window.
func (s Subscription) EmailsRemaining() int {
	remaining := s.EmailsLimit - s.EmailsUsed
	if remaining < 0 {
		return 0
	}
	return remaining
}
