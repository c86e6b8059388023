package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// UploadStore keeps the original uploaded quotation files on local
// disk so every catalog entry can point back at its source document.
type UploadStore struct {
	dir string
}

// NewUploadStore creates the upload directory if needed and returns a
// store rooted there.
func NewUploadStore(dir string) (*UploadStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload directory %s: %w", dir, err)
	}
	return &UploadStore{dir: dir}, nil
}

// Save writes data under a timestamp-qualified name derived from the
// original filename and returns the stored path. The file is saved
// before any parsing so a source reference exists even when zero rows
// validate.
func (s *UploadStore) Save(filename string, data []byte) (string, error) {
	name := fmt.Sprintf("%s_%s", time.Now().Format("20060102_150405"), filepath.Base(filename))
	path := filepath.Join(s.dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("save upload %s: %w", name, err)
	}
	return path, nil
}
