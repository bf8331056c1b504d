// Package zip wraps archive/zip with the small entry-list API the exporter
// needs. Archives are built fully in memory; nothing touches disk.
package zip

import (
	"archive/zip"
	"bytes"
	"fmt"
)

// Entry is one file inside the archive.
type Entry struct {
	Name string
	Data []byte
}

// Archive writes the entries into a zip file and returns its bytes. Entry
// order is preserved, so output is deterministic for a given input list.
func Archive(entries []Entry) ([]byte, error) {
	buf := &bytes.Buffer{}
	zw := zip.NewWriter(buf)
	for _, entry := range entries {
		w, err := zw.Create(entry.Name)
		if err != nil {
			return nil, fmt.Errorf("zip: create entry %q: %w", entry.Name, err)
		}
		if _, err := w.Write(entry.Data); err != nil {
			return nil, fmt.Errorf("zip: write entry %q: %w", entry.Name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("zip: finalize archive: %w", err)
	}
	return buf.Bytes(), nil
}
