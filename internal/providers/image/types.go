// Package image adapts external image-generation APIs behind a single
// Generator contract. Each call performs exactly one outbound request; retry
// and fallback policy belong to the orchestrator.
package image

import "context"

// Ref is the normalized result of a provider call: either a remote URL or an
// inline data URL carrying the encoded image.
type Ref struct {
	URL      string
	Provider string
}

// Generator is the contract implemented by all image providers.
//
// Error contract: a missing credential surfaces domain.ErrMissingCredential
// and must abort the whole batch; any transport error, non-2xx status, or
// malformed payload wraps domain.ErrProviderFailure and is recoverable per
// variation.
type Generator interface {
	Generate(ctx context.Context, prompt string) (Ref, error)
}
