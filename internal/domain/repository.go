package domain

import "context"

// UserRepository defines access methods for user accounts and their credit
// balance. DebitCredits must never let the persisted balance go negative;
// implementations return ErrInsufficientCredits instead.
type UserRepository interface {
	Create(ctx context.Context, user *User) (*User, error)
	GetByID(ctx context.Context, id string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	DebitCredits(ctx context.Context, userID string, amount int) (remaining int, err error)
	AddCredits(ctx context.Context, userID string, amount int) (remaining int, err error)
}

// ProjectRepository defines persistence for generation runs.
type ProjectRepository interface {
	Create(ctx context.Context, project *Project) (*Project, error)
	GetByID(ctx context.Context, id string) (*Project, error)
	ListByUser(ctx context.Context, userID string) ([]Project, error)
	UpdateStatus(ctx context.Context, id string, status ProjectStatus, totalCreatives int) error
	Delete(ctx context.Context, id string) error
}

// CreativeRepository handles persistence for generated creatives.
type CreativeRepository interface {
	SaveAll(ctx context.Context, creatives []Creative) error
	ListByProject(ctx context.Context, projectID string) ([]Creative, error)
}

// UsageRepository appends and reads the audit log.
type UsageRepository interface {
	Append(ctx context.Context, entry *UsageLogEntry) error
	ListRecent(ctx context.Context, limit int) ([]UsageLogEntry, error)
}

// StatsRepository serves the admin dashboard aggregates.
type StatsRepository interface {
	Summary(ctx context.Context) (*StatsSummary, error)
	ListUserOverviews(ctx context.Context, limit, offset int) ([]UserOverview, error)
}
