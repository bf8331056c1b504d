package repo

import (
	"context"

	"studio/internal/domain"
	"studio/internal/infra"
	"studio/internal/sqlinline"
)

// UsageRepositoryPG implements domain.UsageRepository using PostgreSQL.
type UsageRepositoryPG struct {
	db infra.SQLExecutor
}

// NewUsageRepository constructs the repository.
func NewUsageRepository(db infra.SQLExecutor) *UsageRepositoryPG {
	return &UsageRepositoryPG{db: db}
}

// Append writes one audit entry.
func (r *UsageRepositoryPG) Append(ctx context.Context, entry *domain.UsageLogEntry) error {
	_, err := r.db.Exec(ctx, sqlinline.QInsertUsageEntry,
		entry.UserID, entry.ProjectID, entry.Action, entry.CreditsUsed, entry.SourceAddress, entry.Country)
	return err
}

// ListRecent returns the newest entries.
func (r *UsageRepositoryPG) ListRecent(ctx context.Context, limit int) ([]domain.UsageLogEntry, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.db.Query(ctx, sqlinline.QListRecentUsage, limit, 0)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []domain.UsageLogEntry
	for rows.Next() {
		var e domain.UsageLogEntry
		if err := rows.Scan(&e.ID, &e.UserID, &e.ProjectID, &e.Action, &e.CreditsUsed,
			&e.SourceAddress, &e.Country, &e.CreatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}

var _ domain.UsageRepository = (*UsageRepositoryPG)(nil)
