// Package cache keeps downloaded UniProt documents and the entries parsed
// from them.
package cache

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrNotFound indicates the store holds no document for an accession.
	ErrNotFound = errors.New("document not found")
	// ErrStale accompanies a document older than the store's maximum age.
	ErrStale = errors.New("document is stale")
)

// Document is one raw RDF document as downloaded from UniProt.
type Document struct {
	Accession string
	Body      []byte
	FetchedAt time.Time
}

// Store persists raw documents. Get returns the document together with
// ErrStale when it has outlived the store's maximum age.
type Store interface {
	Get(ctx context.Context, accession string) (Document, error)
	Put(ctx context.Context, doc Document) error
}

func isStale(fetchedAt time.Time, maxAge time.Duration, now time.Time) bool {
	return maxAge > 0 && now.Sub(fetchedAt) > maxAge
}
