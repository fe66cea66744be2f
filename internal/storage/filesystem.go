package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"covergen/internal/domain"
)

const (
	CoversDir   = "covers"
	ResultsFile = "results.json"
	ViewerFile  = "portable_viewer.html"
)

// FileStore keeps pipeline outputs under one directory: rendered covers in
// covers/, the result records in results.json and the HTML viewer.
type FileStore struct {
	basePath string
}

// NewFileStore initializes a FileStore rooted at basePath.
func NewFileStore(basePath string) (*FileStore, error) {
	basePath = strings.TrimSpace(basePath)
	if basePath == "" {
		return nil, errors.New("storage: base path is required")
	}
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("storage: ensure base path: %w", err)
	}
	return &FileStore{basePath: basePath}, nil
}

// BasePath returns the configured root directory.
func (s *FileStore) BasePath() string {
	if s == nil {
		return ""
	}
	return s.basePath
}

// Path resolves a key to a filesystem path inside the store.
func (s *FileStore) Path(key string) (string, error) {
	cleanKey, err := sanitizeKey(key)
	if err != nil {
		return "", err
	}
	return filepath.Join(s.basePath, filepath.FromSlash(cleanKey)), nil
}

// Write persists data at the given relative key and returns the cleaned key.
func (s *FileStore) Write(ctx context.Context, key string, data []byte) (string, error) {
	if s == nil {
		return "", errors.New("storage: no store configured")
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	cleanKey, err := sanitizeKey(key)
	if err != nil {
		return "", err
	}
	fullPath := filepath.Join(s.basePath, filepath.FromSlash(cleanKey))
	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		return "", fmt.Errorf("storage: ensure directory: %w", err)
	}
	if err := os.WriteFile(fullPath, data, 0o644); err != nil {
		return "", fmt.Errorf("storage: write file: %w", err)
	}
	return cleanKey, nil
}

// Read returns the bytes stored at key.
func (s *FileStore) Read(key string) ([]byte, error) {
	fullPath, err := s.Path(key)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(fullPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", domain.ErrMissingResource, key)
		}
		return nil, fmt.Errorf("storage: read file: %w", err)
	}
	return data, nil
}

// ResetCovers empties the covers directory so a run starts from a clean slate.
func (s *FileStore) ResetCovers() error {
	dir := filepath.Join(s.basePath, CoversDir)
	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("storage: reset covers: %w", err)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("storage: ensure covers: %w", err)
	}
	return nil
}

// WriteCover stores a rendered cover as covers/{product_id}_cover.png.
func (s *FileStore) WriteCover(ctx context.Context, productID string, png []byte) (string, error) {
	if !domain.ValidProductID(productID) {
		return "", fmt.Errorf("storage: invalid product id %q", productID)
	}
	return s.Write(ctx, CoversDir+"/"+domain.CoverFilename(productID), png)
}

// CoverPath is the filesystem path of a product's cover.
func (s *FileStore) CoverPath(productID string) string {
	return filepath.Join(s.basePath, CoversDir, domain.CoverFilename(productID))
}

// CoverFile is a rendered cover on disk.
type CoverFile struct {
	Name    string
	Data    []byte
	ModTime time.Time
}

// ListCovers returns every PNG in the covers directory.
func (s *FileStore) ListCovers() ([]CoverFile, error) {
	dir := filepath.Join(s.basePath, CoversDir)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("storage: list covers: %w", err)
	}
	var covers []CoverFile
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".png") {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			return nil, fmt.Errorf("storage: stat %s: %w", entry.Name(), err)
		}
		data, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("storage: read %s: %w", entry.Name(), err)
		}
		covers = append(covers, CoverFile{Name: entry.Name(), Data: data, ModTime: info.ModTime()})
	}
	return covers, nil
}

// WriteResults writes results.json, indented and with non-ASCII kept as-is.
func (s *FileStore) WriteResults(ctx context.Context, records []domain.ResultRecord) error {
	if records == nil {
		records = []domain.ResultRecord{}
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("storage: encode results: %w", err)
	}
	_, err = s.Write(ctx, ResultsFile, append(data, '\n'))
	return err
}

// ReadResults loads results.json.
func (s *FileStore) ReadResults() ([]domain.ResultRecord, error) {
	data, err := s.Read(ResultsFile)
	if err != nil {
		return nil, err
	}
	var records []domain.ResultRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("storage: decode results: %w", err)
	}
	return records, nil
}

// sanitizeKey normalizes a key and prevents escaping the storage root.
func sanitizeKey(key string) (string, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return "", errors.New("storage: key is required")
	}
	key = strings.ReplaceAll(key, "\\", "/")
	key = strings.TrimPrefix(key, "./")
	key = strings.TrimLeft(key, "/")
	cleaned := filepath.Clean(key)
	cleaned = strings.ReplaceAll(cleaned, "\\", "/")
	if cleaned == "." || cleaned == ".." || strings.HasPrefix(cleaned, "../") {
		return "", errors.New("storage: invalid key")
	}
	return cleaned, nil
}
