// Package isoflow provides a high-level API for aligning the isoforms of a
// UniProt entry.
//
// A Service resolves accessions through the document cache, replays every
// isoform's edits against every other isoform and renders the result.
//
// Example usage:
//
//	svc, err := isoflow.New(ctx, cfg, logger)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer svc.Close()
//
//	seqs, err := svc.Align(ctx, "P04637")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Print(isoflow.Format(seqs))
package isoflow

import (
	"context"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/aria-lang/isoflow-go/internal/alignment"
	"github.com/aria-lang/isoflow-go/internal/cache"
	"github.com/aria-lang/isoflow-go/internal/config"
	"github.com/aria-lang/isoflow-go/internal/database"
	"github.com/aria-lang/isoflow-go/internal/isoform"
	"github.com/aria-lang/isoflow-go/internal/log"
	"github.com/aria-lang/isoflow-go/internal/ranking"
	"github.com/aria-lang/isoflow-go/internal/render"
	"github.com/aria-lang/isoflow-go/internal/stats"
	"github.com/aria-lang/isoflow-go/internal/uniprot"
)

// Re-export types for convenience
type (
	Isoform         = isoform.Isoform
	Edit            = isoform.Edit
	Entry           = isoform.Entry
	AlignedSequence = alignment.AlignedSequence
	Feature         = alignment.Feature
	Candidate       = ranking.Candidate
	Ranking         = ranking.Result
	AlignmentStats  = stats.AlignmentStats
)

// Service answers isoform queries for accessions.
type Service struct {
	source *cache.Source
	ranker *ranking.Ranker
	logger *log.Logger
	closer io.Closer
}

// New wires the document store selected by cfg, the UniProt client and the
// parsed-entry cache into a Service.
func New(ctx context.Context, cfg config.AppConfig, logger *log.Logger) (*Service, error) {
	if logger == nil {
		logger = log.Default()
	}

	var (
		store  cache.Store
		closer io.Closer
	)
	if cfg.UsesDatabase() {
		db, err := database.NewDatabase(ctx, cfg.DBURL())
		if err != nil {
			return nil, err
		}
		dbStore, err := cache.NewDBStore(ctx, db, cfg.CacheMaxAge())
		if err != nil {
			_ = db.Close()
			return nil, err
		}
		store, closer = dbStore, db
	} else {
		fileStore, err := cache.NewFileStore(cfg.DataDir(), cfg.CacheMaxAge())
		if err != nil {
			return nil, err
		}
		store = fileStore
	}

	client := uniprot.NewClient(cfg.UniProt(), uniprot.WithLogger(logger.Component("uniprot").Slog()))
	source := cache.NewSource(store, client,
		cache.WithMemory(cfg.MemoryCacheSize(), cfg.CacheMaxAge()),
		cache.WithLogger(logger.Component("cache").Slog()),
	)

	svc := NewService(source, cfg.RankParallelism(), logger)
	svc.closer = closer
	return svc, nil
}

// NewService builds a Service over an existing source.
func NewService(source *cache.Source, parallelism int, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.Default()
	}
	return &Service{
		source: source,
		ranker: ranking.NewRanker(source, parallelism, logger.Component("ranking").Slog()),
		logger: logger,
	}
}

// Close releases the database connection, if any.
func (s *Service) Close() error {
	if s.closer == nil {
		return nil
	}
	return s.closer.Close()
}

// Entry returns the parsed UniProt entry for accession.
func (s *Service) Entry(ctx context.Context, accession string) (*Entry, error) {
	return s.source.Entry(ctx, accession)
}

// Isoforms returns the isoforms of accession, canonical first.
func (s *Service) Isoforms(ctx context.Context, accession string) ([]Isoform, error) {
	return s.source.Isoforms(ctx, accession)
}

// Align fetches accession and aligns its isoforms.
func (s *Service) Align(ctx context.Context, accession string) ([]AlignedSequence, error) {
	isoforms, err := s.source.Isoforms(ctx, accession)
	if err != nil {
		return nil, err
	}
	return s.align(ctx, isoforms), nil
}

// AlignIsoforms aligns caller-supplied isoforms after validating them.
func (s *Service) AlignIsoforms(ctx context.Context, isoforms []Isoform) ([]AlignedSequence, error) {
	entry := Entry{Isoforms: isoforms}
	if err := entry.Validate(); err != nil {
		return nil, err
	}
	return s.align(ctx, isoforms), nil
}

func (s *Service) align(ctx context.Context, isoforms []Isoform) []AlignedSequence {
	return alignment.Align(isoforms, alignment.WithLogger(s.logger.WithContext(ctx).Component("alignment").Slog()))
}

// Stats summarizes the alignment of accession.
func (s *Service) Stats(ctx context.Context, accession string) (*AlignmentStats, error) {
	seqs, err := s.Align(ctx, accession)
	if err != nil {
		return nil, err
	}
	return stats.FromAlignment(seqs)
}

// SVG draws the alignment of accession, optionally shading a motif of the
// canonical sequence.
func (s *Service) SVG(ctx context.Context, w io.Writer, accession, highlight string) error {
	seqs, err := s.Align(ctx, accession)
	if err != nil {
		return err
	}
	return render.SVG(w, seqs, render.SVGOptions{
		Highlight: highlight,
		Logger:    s.logger.WithContext(ctx).Component("render").Slog(),
	})
}

// FASTA writes the gapped alignment of accession.
func (s *Service) FASTA(ctx context.Context, w io.Writer, accession string) error {
	seqs, err := s.Align(ctx, accession)
	if err != nil {
		return err
	}
	return render.FASTA(w, seqs)
}

// Rank orders candidate accessions, best first.
func (s *Service) Rank(ctx context.Context, accessions []string) (Ranking, error) {
	return s.ranker.Rank(ctx, accessions)
}

// Best returns the top-ranked accession.
func (s *Service) Best(ctx context.Context, accessions []string) (Candidate, error) {
	return s.ranker.Best(ctx, accessions)
}

// DecodeIsoforms reads a list of isoforms as JSON or YAML.
func DecodeIsoforms(r io.Reader) ([]Isoform, error) {
	var isoforms []Isoform
	if err := yaml.NewDecoder(r).Decode(&isoforms); err != nil {
		return nil, fmt.Errorf("decode isoforms: %w", err)
	}
	return isoforms, nil
}

// Format renders an alignment as text blocks with a conservation line.
func Format(seqs []AlignedSequence) string {
	return alignment.Format(seqs, alignment.DefaultLineWidth)
}

// Version returns the isoflow version.
func Version() string {
	return "1.0.0"
}

// Info returns information about isoflow.
func Info() string {
	return fmt.Sprintf(`isoflow v%s - UniProt isoform alignment

Features:
  - UniProt RDF download with retries and file or database caching
  - Replay of alternative-sequence edits into a gapped isoform alignment
  - Gap, insertion, deletion and mismatch annotations
  - SVG and FASTA rendering
  - Ranking of candidate accessions
`, Version())
}
