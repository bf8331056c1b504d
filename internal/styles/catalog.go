// Package styles holds the static catalog of creative styles used to build
// generation prompts and default captions.
package styles

import "strings"

// Style identifies one entry of the style catalog.
type Style string

const (
	Minimal      Style = "minimal"
	Bold         Style = "bold"
	Playful      Style = "playful"
	Professional Style = "professional"
	Modern       Style = "modern"
)

var descriptions = map[Style]string{
	Minimal:      "clean, minimalist layout with whitespace",
	Bold:         "bold vibrant color palette and striking shapes",
	Playful:      "fun, playful, colorful style",
	Professional: "corporate business professional tone",
	Modern:       "sleek modern aesthetic with soft gradients",
}

var defaultCaptions = map[Style]string{
	Minimal:      "Elegant simplicity. Premium quality.",
	Bold:         "Bold innovation. Unstoppable impact.",
	Playful:      "Creative excitement. Unlimited potential.",
	Professional: "Business excellence. Trusted results.",
	Modern:       "Innovation delivered. Future ready.",
}

// Normalize maps a raw style key onto a catalog entry. Unknown keys resolve to
// Modern rather than erroring; clients send free-form strings and the product
// treats a bad key as "use the default look".
func Normalize(raw string) Style {
	s := Style(strings.ToLower(strings.TrimSpace(raw)))
	if _, ok := descriptions[s]; ok {
		return s
	}
	return Modern
}

// Description returns the prompt description for the style. The style is
// normalized first, so any input yields a usable description.
func Description(s Style) string {
	if d, ok := descriptions[s]; ok {
		return d
	}
	return descriptions[Modern]
}

// DefaultCaption returns the fixed caption used when caption generation fails.
func DefaultCaption(s Style) string {
	if c, ok := defaultCaptions[s]; ok {
		return c
	}
	return "Premium creative variation."
}

// All lists the catalog entries in display order.
func All() []Style {
	return []Style{Minimal, Bold, Playful, Professional, Modern}
}
