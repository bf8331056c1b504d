// Package prompt builds the per-variation text prompts sent to image providers.
package prompt

import (
	"fmt"

	"studio/internal/styles"
)

// Build returns the prompt for one variation. Pure: the same (style, index,
// total) always yields the same string. The closing constraint keeps providers
// from rendering text into the artwork; captions are composed separately.
func Build(style styles.Style, index, total int) string {
	return fmt.Sprintf(
		"High quality marketing creative %d of %d in %s. Composition suitable for ads. No embedded text or logos, only visual background.",
		index, total, styles.Description(style),
	)
}

// BuildAll returns prompts for every variation of a batch in index order.
func BuildAll(style styles.Style, total int) []string {
	prompts := make([]string, total)
	for i := range prompts {
		prompts[i] = Build(style, i+1, total)
	}
	return prompts
}
