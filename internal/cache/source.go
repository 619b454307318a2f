package cache

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/sync/singleflight"

	"github.com/aria-lang/isoflow-go/internal/isoform"
	"github.com/aria-lang/isoflow-go/internal/metrics"
	"github.com/aria-lang/isoflow-go/internal/uniprot"
)

// Fetcher downloads a raw document.
type Fetcher interface {
	Fetch(ctx context.Context, accession string) ([]byte, error)
}

// Source resolves accessions to parsed entries: memory first, then the
// store, then the fetcher. Concurrent loads of one accession share a single
// fetch.
type Source struct {
	store   Store
	fetcher Fetcher
	entries *expirable.LRU[string, *isoform.Entry]
	group   singleflight.Group
	logger  *slog.Logger
	now     func() time.Time
}

// SourceOption configures a Source.
type SourceOption func(*Source)

// WithLogger sets the logger for cache diagnostics.
func WithLogger(l *slog.Logger) SourceOption {
	return func(s *Source) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithMemory bounds the parsed-entry cache. Entries expire after ttl; a zero
// ttl never expires them.
func WithMemory(size int, ttl time.Duration) SourceOption {
	return func(s *Source) {
		s.entries = expirable.NewLRU[string, *isoform.Entry](size, nil, ttl)
	}
}

// NewSource combines a store with a fetcher. A nil fetcher serves only what
// the store already holds.
func NewSource(store Store, fetcher Fetcher, opts ...SourceOption) *Source {
	s := &Source{
		store:   store,
		fetcher: fetcher,
		logger:  slog.New(slog.DiscardHandler),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.entries == nil {
		s.entries = expirable.NewLRU[string, *isoform.Entry](256, nil, 0)
	}
	return s
}

// Entry returns the parsed entry for accession. The returned entry is shared
// and must not be modified.
func (s *Source) Entry(ctx context.Context, accession string) (*isoform.Entry, error) {
	if err := uniprot.ValidateAccession(accession); err != nil {
		return nil, err
	}
	if entry, ok := s.entries.Get(accession); ok {
		metrics.CacheLookups.WithLabelValues("memory", "hit").Inc()
		return entry, nil
	}
	metrics.CacheLookups.WithLabelValues("memory", "miss").Inc()

	v, err, _ := s.group.Do(accession, func() (any, error) {
		return s.load(ctx, accession)
	})
	if err != nil {
		return nil, err
	}
	return v.(*isoform.Entry), nil
}

// Isoforms returns the isoforms of accession, canonical first.
func (s *Source) Isoforms(ctx context.Context, accession string) ([]isoform.Isoform, error) {
	entry, err := s.Entry(ctx, accession)
	if err != nil {
		return nil, err
	}
	return entry.Isoforms, nil
}

// Forget drops the parsed entry from memory. Stored documents are kept.
func (s *Source) Forget(accession string) {
	s.entries.Remove(accession)
}

func (s *Source) load(ctx context.Context, accession string) (*isoform.Entry, error) {
	doc, err := s.store.Get(ctx, accession)
	switch {
	case err == nil:
		return s.parse(doc)
	case errors.Is(err, ErrStale):
		s.logger.Debug("cached document is stale", "accession", accession, "fetched_at", doc.FetchedAt)
	case errors.Is(err, ErrNotFound):
	default:
		s.logger.Warn("document store lookup failed", "accession", accession, "error", err)
		doc = Document{}
	}

	if s.fetcher == nil {
		if len(doc.Body) > 0 {
			return s.parse(doc)
		}
		return nil, fmt.Errorf("load %s: %w", accession, ErrNotFound)
	}

	body, fetchErr := s.fetcher.Fetch(ctx, accession)
	if fetchErr != nil {
		if len(doc.Body) > 0 {
			s.logger.Warn("serving stale document", "accession", accession, "error", fetchErr)
			return s.parse(doc)
		}
		return nil, fmt.Errorf("load %s: %w", accession, fetchErr)
	}

	fresh := Document{Accession: accession, Body: body, FetchedAt: s.now()}
	entry, err := s.parse(fresh)
	if err != nil {
		return nil, err
	}
	if err := s.store.Put(ctx, fresh); err != nil {
		s.logger.Warn("document not cached", "accession", accession, "error", err)
	}
	return entry, nil
}

func (s *Source) parse(doc Document) (*isoform.Entry, error) {
	entry, err := uniprot.Parse(bytes.NewReader(doc.Body))
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", doc.Accession, err)
	}
	if err := entry.Validate(); err != nil {
		return nil, fmt.Errorf("load %s: %w", doc.Accession, err)
	}
	s.entries.Add(doc.Accession, entry)
	s.logger.Debug("entry loaded",
		"accession", doc.Accession,
		"isoforms", len(entry.Isoforms),
		"edits", entry.EditCount(),
	)
	return entry, nil
}
