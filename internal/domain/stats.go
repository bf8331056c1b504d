package domain

import "time"

// StatsSummary aggregates platform-wide counters for the admin dashboard.
type StatsSummary struct {
	TotalUsers     int64
	TotalProjects  int64
	TotalCreatives int64
	CallsLast24h   int64
}

// UserOverview is one row of the admin user list.
type UserOverview struct {
	ID               string
	Email            string
	Plan             SubscriptionPlan
	CreditsRemaining int
	TotalProjects    int
	CreatedAt        time.Time
}
