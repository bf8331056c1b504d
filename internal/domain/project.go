package domain

import "time"

// ProjectStatus enumerates generation run states. Transitions are monotonic:
// pending -> processing -> completed (or failed), never backwards.
type ProjectStatus string

const (
	ProjectPending    ProjectStatus = "pending"
	ProjectProcessing ProjectStatus = "processing"
	ProjectCompleted  ProjectStatus = "completed"
	ProjectFailed     ProjectStatus = "failed"
)

// Project tracks one generation run and its lifecycle.
type Project struct {
	ID             string
	UserID         string
	Name           string
	Style          string
	Status         ProjectStatus
	TotalCreatives int
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
