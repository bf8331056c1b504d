package domain

import "time"

// SubscriptionPlan enumerates billing plans.
type SubscriptionPlan string

const (
	PlanFree SubscriptionPlan = "free"
	PlanPro  SubscriptionPlan = "pro"
)

// User represents an authenticated account within the platform. The credential
// hash never leaves the auth handlers.
type User struct {
	ID               string
	Email            string
	CredentialHash   string
	CreditsRemaining int
	Plan             SubscriptionPlan
	CreatedAt        time.Time
}

// HasCredits reports whether the account can afford the given cost.
func (u User) HasCredits(cost int) bool {
	return u.CreditsRemaining >= cost
}
