// Package fs provides file-based storage for captured documents.
package fs

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/cespare/xxhash/v2"

	"ficha"
)

// Ensure Store implements ficha.DocumentStore at compile time.
var _ ficha.DocumentStore = (*Store)(nil)

// Store writes captured documents to a directory, one PDF per label.
// Labels are sanitized upstream and not guaranteed unique: a later
// item whose label collides with an earlier one overwrites it. The
// collision is logged, never silently fixed.
type Store struct {
	dir    string
	logger *slog.Logger
}

// NewStore creates a Store rooted at dir, creating it if needed.
func NewStore(dir string, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, ficha.Errorf(ficha.EWRITE, "create output dir %s: %v", dir, err)
	}
	return &Store{dir: dir, logger: logger}, nil
}

// Save writes data to dir/label.pdf and returns the written path.
// The write goes through a temp file and rename so a crash never
// leaves a truncated document under the final name.
func (s *Store) Save(ctx context.Context, label string, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if len(data) == 0 {
		return "", ficha.Errorf(ficha.EWRITE, "refusing to save empty document %q", label)
	}

	path := filepath.Join(s.dir, label+".pdf")

	if prev, err := os.ReadFile(path); err == nil {
		if xxhash.Sum64(prev) != xxhash.Sum64(data) {
			s.logger.Warn("label collision, overwriting existing document",
				"path", path,
				"old_bytes", len(prev),
				"new_bytes", len(data),
			)
		}
	}

	tmp, err := os.CreateTemp(s.dir, label+".*.tmp")
	if err != nil {
		return "", ficha.Errorf(ficha.EWRITE, "create temp file: %v", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return "", ficha.Errorf(ficha.EWRITE, "write document: %v", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return "", ficha.Errorf(ficha.EWRITE, "close document: %v", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return "", ficha.Errorf(ficha.EWRITE, "rename document: %v", err)
	}
	return path, nil
}
