package domain

import "time"

// Creative is one generated variation within a batch. Records are immutable
// once written; VariationIndex is 1-based and unique within a project.
type Creative struct {
	ID             string
	ProjectID      string
	VariationIndex int
	ImageRef       string // remote URL or inline data URL
	Caption        string
	Prompt         string
	Style          string
	GeneratedAt    time.Time
}
