package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/aria-lang/isoflow-go/internal/database"
	"github.com/aria-lang/isoflow-go/internal/metrics"
)

// DocumentModel is the database row for a cached document.
type DocumentModel struct {
	Accession string    `gorm:"primaryKey;column:accession;size:32"`
	Body      []byte    `gorm:"column:body"`
	FetchedAt time.Time `gorm:"column:fetched_at;index"`
}

// TableName returns the table name.
func (DocumentModel) TableName() string { return "documents" }

// DBStore keeps documents in a SQL database.
type DBStore struct {
	db     database.Database
	maxAge time.Duration
	now    func() time.Time
}

// NewDBStore migrates the documents table and returns a store over it.
func NewDBStore(ctx context.Context, db database.Database, maxAge time.Duration) (*DBStore, error) {
	if err := db.Migrate(ctx, &DocumentModel{}); err != nil {
		return nil, err
	}
	return &DBStore{db: db, maxAge: maxAge, now: time.Now}, nil
}

// Get loads a document by accession.
func (s *DBStore) Get(ctx context.Context, accession string) (Document, error) {
	var model DocumentModel
	err := s.db.Session(ctx).Where("accession = ?", accession).First(&model).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		metrics.CacheLookups.WithLabelValues("database", "miss").Inc()
		return Document{}, ErrNotFound
	}
	if err != nil {
		return Document{}, fmt.Errorf("find document %s: %w", accession, err)
	}

	doc := Document{Accession: model.Accession, Body: model.Body, FetchedAt: model.FetchedAt}
	if isStale(doc.FetchedAt, s.maxAge, s.now()) {
		metrics.CacheLookups.WithLabelValues("database", "stale").Inc()
		return doc, ErrStale
	}
	metrics.CacheLookups.WithLabelValues("database", "hit").Inc()
	return doc, nil
}

// Put inserts or replaces a document.
func (s *DBStore) Put(ctx context.Context, doc Document) error {
	if doc.FetchedAt.IsZero() {
		doc.FetchedAt = s.now()
	}
	model := DocumentModel{Accession: doc.Accession, Body: doc.Body, FetchedAt: doc.FetchedAt}
	err := s.db.Session(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "accession"}},
			DoUpdates: clause.AssignmentColumns([]string{"body", "fetched_at"}),
		}).
		Create(&model).Error
	if err != nil {
		return fmt.Errorf("save document %s: %w", doc.Accession, err)
	}
	return nil
}
