// Package caption adapts external text-generation APIs that write the short
// ad copy attached to each creative.
package caption

import (
	"context"

	"studio/internal/styles"
)

// Captioner produces one caption per variation. A failed call is always
// recoverable: the orchestrator substitutes the style's default caption.
type Captioner interface {
	Caption(ctx context.Context, style styles.Style, index int) (string, error)
}

// StaticCaptioner returns the catalog's fixed caption for the style. It never
// fails and performs no I/O, which makes it the terminal fallback.
type StaticCaptioner struct{}

func NewStaticCaptioner() *StaticCaptioner {
	return &StaticCaptioner{}
}

func (s *StaticCaptioner) Caption(ctx context.Context, style styles.Style, index int) (string, error) {
	return styles.DefaultCaption(style), nil
}

var _ Captioner = (*StaticCaptioner)(nil)
