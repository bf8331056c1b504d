package repo

import (
	"context"

	"studio/internal/domain"
	"studio/internal/infra"
	"studio/internal/sqlinline"
)

// ProjectRepositoryPG implements domain.ProjectRepository using PostgreSQL.
type ProjectRepositoryPG struct {
	db infra.SQLExecutor
}

// NewProjectRepository constructs the repository.
func NewProjectRepository(db infra.SQLExecutor) *ProjectRepositoryPG {
	return &ProjectRepositoryPG{db: db}
}

// Create inserts a project record and returns it with server-assigned fields.
func (r *ProjectRepositoryPG) Create(ctx context.Context, project *domain.Project) (*domain.Project, error) {
	row := r.db.QueryRow(ctx, sqlinline.QInsertProject,
		project.UserID, project.Name, project.Style, string(project.Status))
	created := *project
	if err := row.Scan(&created.ID, &created.CreatedAt, &created.UpdatedAt); err != nil {
		return nil, err
	}
	return &created, nil
}

// GetByID returns the project or domain.ErrNotFound.
func (r *ProjectRepositoryPG) GetByID(ctx context.Context, id string) (*domain.Project, error) {
	var project domain.Project
	var status string
	err := r.db.QueryRow(ctx, sqlinline.QSelectProjectByID, id).Scan(
		&project.ID, &project.UserID, &project.Name, &project.Style, &status,
		&project.TotalCreatives, &project.CreatedAt, &project.UpdatedAt)
	if err != nil {
		if infra.IsNoRows(err) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	project.Status = domain.ProjectStatus(status)
	return &project, nil
}

// ListByUser returns the user's projects, newest first.
func (r *ProjectRepositoryPG) ListByUser(ctx context.Context, userID string) ([]domain.Project, error) {
	rows, err := r.db.Query(ctx, sqlinline.QListProjectsByUser, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var projects []domain.Project
	for rows.Next() {
		var project domain.Project
		var status string
		if err := rows.Scan(&project.ID, &project.UserID, &project.Name, &project.Style, &status,
			&project.TotalCreatives, &project.CreatedAt, &project.UpdatedAt); err != nil {
			return nil, err
		}
		project.Status = domain.ProjectStatus(status)
		projects = append(projects, project)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return projects, nil
}

// UpdateStatus moves the project through its lifecycle.
func (r *ProjectRepositoryPG) UpdateStatus(ctx context.Context, id string, status domain.ProjectStatus, totalCreatives int) error {
	_, err := r.db.Exec(ctx, sqlinline.QUpdateProjectStatus, id, string(status), totalCreatives)
	return err
}

// Delete removes the project. Ownership is checked by the caller; creatives
// cascade at the schema level.
func (r *ProjectRepositoryPG) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, sqlinline.QDeleteProject, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

var _ domain.ProjectRepository = (*ProjectRepositoryPG)(nil)
