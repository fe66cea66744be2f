package zip

import (
	"archive/zip"
	"bytes"
	"fmt"
	"sort"
	"time"
)

// Entry is one file placed into an archive.
type Entry struct {
	Name    string
	Data    []byte
	ModTime time.Time
}

// Archive packs entries into an in-memory zip, sorted by name. PNG covers are
// already compressed, so entries are stored rather than deflated.
func Archive(entries []Entry) ([]byte, error) {
	sorted := make([]Entry, len(entries))
	copy(sorted, entries)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Name < sorted[j].Name })

	buf := &bytes.Buffer{}
	zw := zip.NewWriter(buf)
	for _, entry := range sorted {
		header := &zip.FileHeader{Name: entry.Name, Method: zip.Store, Modified: entry.ModTime}
		w, err := zw.CreateHeader(header)
		if err != nil {
			return nil, fmt.Errorf("zip: create %s: %w", entry.Name, err)
		}
		if _, err := w.Write(entry.Data); err != nil {
			return nil, fmt.Errorf("zip: write %s: %w", entry.Name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("zip: close: %w", err)
	}
	return buf.Bytes(), nil
}
