// Package export packages a project's creatives into a downloadable archive.
package export

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"studio/internal/domain"
	"studio/internal/infra"
	"studio/pkg/zip"
)

// Exporter builds ZIP archives from creative lists. Remote image references
// are fetched with a bounded timeout; anything unresolvable degrades to the
// creative's caption text so the entry count stays deterministic.
type Exporter struct {
	client *http.Client
	logger infra.Logger
}

type metadataDoc struct {
	Generated       string         `json:"generated"`
	TotalVariations int            `json:"totalVariations"`
	Creatives       []metadataItem `json:"creatives"`
}

type metadataItem struct {
	ID      int    `json:"id"`
	Caption string `json:"caption"`
	Prompt  string `json:"prompt"`
}

func New(logger infra.Logger) *Exporter {
	return &Exporter{
		client: &http.Client{Timeout: 30 * time.Second},
		logger: logger,
	}
}

// BuildArchive returns the archive bytes for the given creatives: one
// metadata.json entry plus one entry per creative, N+1 entries total, in
// input order.
func (e *Exporter) BuildArchive(ctx context.Context, creatives []domain.Creative) ([]byte, error) {
	if len(creatives) == 0 {
		return nil, fmt.Errorf("no creatives to export: %w", domain.ErrNotFound)
	}

	meta := metadataDoc{
		Generated:       time.Now().UTC().Format(time.RFC3339),
		TotalVariations: len(creatives),
		Creatives:       make([]metadataItem, 0, len(creatives)),
	}
	for _, c := range creatives {
		meta.Creatives = append(meta.Creatives, metadataItem{
			ID:      c.VariationIndex,
			Caption: c.Caption,
			Prompt:  c.Prompt,
		})
	}
	metaBytes, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal metadata: %w", err)
	}

	entries := make([]zip.Entry, 0, len(creatives)+1)
	entries = append(entries, zip.Entry{Name: "metadata.json", Data: metaBytes})
	for _, c := range creatives {
		entries = append(entries, e.creativeEntry(ctx, c))
	}

	return zip.Archive(entries)
}

// creativeEntry resolves one creative into an archive entry. Exactly one
// entry comes back per creative regardless of how resolution goes.
func (e *Exporter) creativeEntry(ctx context.Context, c domain.Creative) zip.Entry {
	if data, ext, ok := decodeDataURL(c.ImageRef); ok {
		return zip.Entry{Name: fmt.Sprintf("creative-%d%s", c.VariationIndex, ext), Data: data}
	}
	if strings.HasPrefix(c.ImageRef, "http://") || strings.HasPrefix(c.ImageRef, "https://") {
		if data, ext, err := e.fetchImage(ctx, c.ImageRef); err == nil {
			return zip.Entry{Name: fmt.Sprintf("creative-%d%s", c.VariationIndex, ext), Data: data}
		} else {
			e.logger.Warn().Err(err).Int("variation", c.VariationIndex).Msg("export: image fetch failed, writing caption entry")
		}
	}
	return zip.Entry{
		Name: fmt.Sprintf("creative-%d-caption.txt", c.VariationIndex),
		Data: []byte(c.Caption),
	}
}

func (e *Exporter) fetchImage(ctx context.Context, imageURL string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return nil, "", fmt.Errorf("build request: %w", err)
	}
	resp, err := e.client.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("fetch image: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, "", fmt.Errorf("fetch image: status %d", resp.StatusCode)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, 32<<20))
	if err != nil {
		return nil, "", fmt.Errorf("read image body: %w", err)
	}
	return data, extensionForMIME(resp.Header.Get("Content-Type")), nil
}

// decodeDataURL extracts the raw bytes from an inline data URL. Supports the
// two encodings the pipeline produces: base64 PNGs from providers and
// utf8-escaped SVG fallbacks.
func decodeDataURL(ref string) ([]byte, string, bool) {
	if !strings.HasPrefix(ref, "data:") {
		return nil, "", false
	}
	rest := strings.TrimPrefix(ref, "data:")
	sep := strings.Index(rest, ",")
	if sep < 0 {
		return nil, "", false
	}
	header, payload := rest[:sep], rest[sep+1:]

	mime := header
	if i := strings.Index(header, ";"); i >= 0 {
		mime = header[:i]
	}
	ext := extensionForMIME(mime)

	if strings.HasSuffix(header, ";base64") {
		data, err := base64.StdEncoding.DecodeString(payload)
		if err != nil {
			return nil, "", false
		}
		return data, ext, true
	}
	decoded, err := url.PathUnescape(payload)
	if err != nil {
		return nil, "", false
	}
	return []byte(decoded), ext, true
}

func extensionForMIME(mime string) string {
	switch strings.ToLower(strings.TrimSpace(strings.Split(mime, ";")[0])) {
	case "image/png":
		return ".png"
	case "image/jpeg", "image/jpg":
		return ".jpg"
	case "image/webp":
		return ".webp"
	case "image/svg+xml":
		return ".svg"
	default:
		return ".png"
	}
}
