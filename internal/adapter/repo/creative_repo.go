package repo

import (
	"context"

	"studio/internal/domain"
	"studio/internal/infra"
	"studio/internal/sqlinline"
)

// CreativeRepositoryPG implements domain.CreativeRepository using PostgreSQL.
type CreativeRepositoryPG struct {
	db infra.SQLExecutor
}

// NewCreativeRepository constructs the repository.
func NewCreativeRepository(db infra.SQLExecutor) *CreativeRepositoryPG {
	return &CreativeRepositoryPG{db: db}
}

// SaveAll persists a completed batch.
func (r *CreativeRepositoryPG) SaveAll(ctx context.Context, creatives []domain.Creative) error {
	if len(creatives) == 0 {
		return nil
	}
	for _, creative := range creatives {
		c := creative
		if _, err := r.db.Exec(ctx, sqlinline.QInsertCreative,
			c.ID, c.ProjectID, c.VariationIndex, c.ImageRef, c.Caption, c.Prompt, c.Style, c.GeneratedAt); err != nil {
			return err
		}
	}
	return nil
}

// ListByProject returns the project's creatives ordered by variation index.
func (r *CreativeRepositoryPG) ListByProject(ctx context.Context, projectID string) ([]domain.Creative, error) {
	rows, err := r.db.Query(ctx, sqlinline.QListCreativesByProject, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var creatives []domain.Creative
	for rows.Next() {
		var c domain.Creative
		if err := rows.Scan(&c.ID, &c.ProjectID, &c.VariationIndex, &c.ImageRef, &c.Caption,
			&c.Prompt, &c.Style, &c.GeneratedAt); err != nil {
			return nil, err
		}
		creatives = append(creatives, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return creatives, nil
}

var _ domain.CreativeRepository = (*CreativeRepositoryPG)(nil)
