package domain

import "time"

// UsageLogEntry is one append-only audit record per chargeable action.
type UsageLogEntry struct {
	ID            string
	UserID        string
	ProjectID     string // empty when the action has no project
	Action        string
	CreditsUsed   int
	SourceAddress string
	Country       string
	CreatedAt     time.Time
}

// Usage-log action tags.
const (
	ActionGenerateCreatives = "generate_creatives"
	ActionDownloadCreatives = "download_creatives"
	ActionAdminCreditGrant  = "admin_credit_grant"
)
