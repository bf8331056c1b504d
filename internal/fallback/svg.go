// Package fallback synthesizes placeholder creatives locally so a batch can
// always complete at full quantity when an image provider fails.
package fallback

import (
	"fmt"
	"net/url"
	"strings"
)

const svgTemplate = `<svg xmlns='http://www.w3.org/2000/svg' width='1200' height='800'>` +
	`<defs><linearGradient id='g' x1='0' y1='0' x2='1' y2='1'>` +
	`<stop offset='0%%' stop-color='#ef4444'/><stop offset='100%%' stop-color='#f59e0b'/>` +
	`</linearGradient></defs>` +
	`<rect width='100%%' height='100%%' fill='url(#g)'/>` +
	`<text x='50%%' y='50%%' dominant-baseline='middle' text-anchor='middle' ` +
	`font-family='sans-serif' font-size='72' fill='white'>Variation %d</text></svg>`

// DataURL renders the placeholder for a variation index as an inline SVG data
// URL. Pure: no I/O, never fails, deterministic for a given index.
func DataURL(index int) string {
	svg := fmt.Sprintf(svgTemplate, index)
	return "data:image/svg+xml;utf8," + url.PathEscape(svg)
}

// IsFallback reports whether an image reference was produced by DataURL.
func IsFallback(imageRef string) bool {
	return strings.HasPrefix(imageRef, "data:image/svg+xml;utf8,")
}
