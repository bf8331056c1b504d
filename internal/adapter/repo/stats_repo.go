package repo

import (
	"context"

	"studio/internal/domain"
	"studio/internal/infra"
	"studio/internal/sqlinline"
)

// StatsRepositoryPG implements domain.StatsRepository using PostgreSQL.
type StatsRepositoryPG struct {
	db infra.SQLExecutor
}

// NewStatsRepository constructs the repository.
func NewStatsRepository(db infra.SQLExecutor) *StatsRepositoryPG {
	return &StatsRepositoryPG{db: db}
}

// Summary returns platform-wide aggregates for the admin dashboard.
func (r *StatsRepositoryPG) Summary(ctx context.Context) (*domain.StatsSummary, error) {
	var s domain.StatsSummary
	err := r.db.QueryRow(ctx, sqlinline.QStatsSummary).Scan(
		&s.TotalUsers, &s.TotalProjects, &s.TotalCreatives, &s.CallsLast24h)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// ListUserOverviews returns a paginated account listing with per-user counts.
func (r *StatsRepositoryPG) ListUserOverviews(ctx context.Context, limit, offset int) ([]domain.UserOverview, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	rows, err := r.db.Query(ctx, sqlinline.QListUserOverviews, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var overviews []domain.UserOverview
	for rows.Next() {
		var o domain.UserOverview
		var plan string
		if err := rows.Scan(&o.ID, &o.Email, &plan, &o.CreditsRemaining, &o.TotalProjects, &o.CreatedAt); err != nil {
			return nil, err
		}
		o.Plan = domain.SubscriptionPlan(plan)
		overviews = append(overviews, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return overviews, nil
}

var _ domain.StatsRepository = (*StatsRepositoryPG)(nil)
