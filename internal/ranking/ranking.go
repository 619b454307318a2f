// Package ranking picks the most useful entry among candidate accessions.
package ranking

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"golang.org/x/sync/errgroup"

	"github.com/aria-lang/isoflow-go/internal/alignment"
	"github.com/aria-lang/isoflow-go/internal/isoform"
)

// DefaultParallelism bounds concurrent candidate loads.
const DefaultParallelism = 4

// EntrySource resolves an accession to a parsed entry.
type EntrySource interface {
	Entry(ctx context.Context, accession string) (*isoform.Entry, error)
}

// Candidate is one successfully loaded accession.
type Candidate struct {
	Accession       string `json:"accession" yaml:"accession"`
	Mnemonic        string `json:"mnemonic,omitempty" yaml:"mnemonic,omitempty"`
	Reviewed        bool   `json:"reviewed" yaml:"reviewed"`
	Isoforms        int    `json:"isoforms" yaml:"isoforms"`
	Edits           int    `json:"edits" yaml:"edits"`
	CanonicalLength int    `json:"canonicalLength" yaml:"canonicalLength"`
	AlignmentWidth  int    `json:"alignmentWidth" yaml:"alignmentWidth"`
}

// Failure is an accession that could not be loaded.
type Failure struct {
	Accession string `json:"accession" yaml:"accession"`
	Error     string `json:"error" yaml:"error"`
}

// Result lists candidates best first, followed by failures in input order.
type Result struct {
	Candidates []Candidate `json:"candidates" yaml:"candidates"`
	Failures   []Failure   `json:"failures,omitempty" yaml:"failures,omitempty"`
}

// Best returns the top candidate.
func (r Result) Best() (Candidate, bool) {
	if len(r.Candidates) == 0 {
		return Candidate{}, false
	}
	return r.Candidates[0], true
}

// Ranker loads candidates concurrently and orders them.
type Ranker struct {
	source      EntrySource
	parallelism int
	logger      *slog.Logger
}

// NewRanker creates a Ranker. Non-positive parallelism uses the default.
func NewRanker(source EntrySource, parallelism int, logger *slog.Logger) *Ranker {
	if parallelism <= 0 {
		parallelism = DefaultParallelism
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Ranker{source: source, parallelism: parallelism, logger: logger}
}

// Rank loads every accession and orders the loaded ones: reviewed entries
// first, then more isoforms, then longer canonical sequences, then accession.
// Failed loads are reported in the result; Rank errors only when none load.
func (r *Ranker) Rank(ctx context.Context, accessions []string) (Result, error) {
	accessions = dedupe(accessions)
	if len(accessions) == 0 {
		return Result{}, errors.New("no accessions to rank")
	}

	candidates := make([]*Candidate, len(accessions))
	errs := make([]error, len(accessions))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.parallelism)
	for i, acc := range accessions {
		g.Go(func() error {
			c, err := r.evaluate(gctx, acc)
			if err != nil {
				r.logger.Warn("candidate failed", "accession", acc, "error", err)
				errs[i] = err
				return nil
			}
			candidates[i] = &c
			return nil
		})
	}
	_ = g.Wait()
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	var res Result
	for i, c := range candidates {
		if c != nil {
			res.Candidates = append(res.Candidates, *c)
			continue
		}
		res.Failures = append(res.Failures, Failure{Accession: accessions[i], Error: errs[i].Error()})
	}
	if len(res.Candidates) == 0 {
		return res, fmt.Errorf("no candidate could be loaded: %w", errors.Join(errs...))
	}

	slices.SortFunc(res.Candidates, compare)
	return res, nil
}

// Best ranks accessions and returns the top candidate.
func (r *Ranker) Best(ctx context.Context, accessions []string) (Candidate, error) {
	res, err := r.Rank(ctx, accessions)
	if err != nil {
		return Candidate{}, err
	}
	best, _ := res.Best()
	return best, nil
}

func (r *Ranker) evaluate(ctx context.Context, accession string) (Candidate, error) {
	entry, err := r.source.Entry(ctx, accession)
	if err != nil {
		return Candidate{}, err
	}
	canonical, _ := entry.Canonical()
	aligned := alignment.Align(entry.Isoforms, alignment.WithLogger(r.logger))

	return Candidate{
		Accession:       accession,
		Mnemonic:        entry.Mnemonic,
		Reviewed:        entry.Reviewed,
		Isoforms:        len(entry.Isoforms),
		Edits:           entry.EditCount(),
		CanonicalLength: canonical.Len(),
		AlignmentWidth:  alignment.Width(aligned),
	}, nil
}

func compare(a, b Candidate) int {
	if a.Reviewed != b.Reviewed {
		if a.Reviewed {
			return -1
		}
		return 1
	}
	if c := cmp.Compare(b.Isoforms, a.Isoforms); c != 0 {
		return c
	}
	if c := cmp.Compare(b.CanonicalLength, a.CanonicalLength); c != 0 {
		return c
	}
	return cmp.Compare(a.Accession, b.Accession)
}

func dedupe(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
