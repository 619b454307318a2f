package cache

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/aria-lang/isoflow-go/internal/metrics"
)

// FileStore keeps each document as {dir}/{accession}.rdf.
type FileStore struct {
	dir    string
	maxAge time.Duration
	now    func() time.Time
}

// NewFileStore creates a FileStore rooted at dir. A zero maxAge keeps
// documents fresh forever.
func NewFileStore(dir string, maxAge time.Duration) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	return &FileStore{dir: dir, maxAge: maxAge, now: time.Now}, nil
}

// Path returns the file holding accession.
func (s *FileStore) Path(accession string) string {
	return filepath.Join(s.dir, accession+".rdf")
}

// Get reads a cached document. The file modification time is the fetch time.
func (s *FileStore) Get(_ context.Context, accession string) (Document, error) {
	path := s.Path(accession)
	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		metrics.CacheLookups.WithLabelValues("file", "miss").Inc()
		return Document{}, ErrNotFound
	}
	if err != nil {
		return Document{}, fmt.Errorf("stat %s: %w", path, err)
	}

	body, err := os.ReadFile(path)
	if err != nil {
		return Document{}, fmt.Errorf("read %s: %w", path, err)
	}
	doc := Document{Accession: accession, Body: body, FetchedAt: info.ModTime()}
	if isStale(doc.FetchedAt, s.maxAge, s.now()) {
		metrics.CacheLookups.WithLabelValues("file", "stale").Inc()
		return doc, ErrStale
	}
	metrics.CacheLookups.WithLabelValues("file", "hit").Inc()
	return doc, nil
}

// Put writes the document through a temporary file so readers never see a
// partial document.
func (s *FileStore) Put(_ context.Context, doc Document) error {
	tmp, err := os.CreateTemp(s.dir, doc.Accession+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(doc.Body); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write %s: %w", tmp.Name(), err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", tmp.Name(), err)
	}
	if !doc.FetchedAt.IsZero() {
		if err := os.Chtimes(tmp.Name(), doc.FetchedAt, doc.FetchedAt); err != nil {
			return fmt.Errorf("set fetch time: %w", err)
		}
	}
	if err := os.Rename(tmp.Name(), s.Path(doc.Accession)); err != nil {
		return fmt.Errorf("store %s: %w", doc.Accession, err)
	}
	return nil
}
