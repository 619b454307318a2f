package ranking

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aria-lang/isoflow-go/internal/isoform"
)

type stubSource struct {
	entries  map[string]*isoform.Entry
	inFlight atomic.Int32
	peak     atomic.Int32
}

func (s *stubSource) Entry(_ context.Context, accession string) (*isoform.Entry, error) {
	n := s.inFlight.Add(1)
	defer s.inFlight.Add(-1)
	for {
		p := s.peak.Load()
		if n <= p || s.peak.CompareAndSwap(p, n) {
			break
		}
	}
	time.Sleep(5 * time.Millisecond)

	e, ok := s.entries[accession]
	if !ok {
		return nil, fmt.Errorf("entry %s not found", accession)
	}
	return e, nil
}

func entry(acc string, reviewed bool, canonical string, variants int) *isoform.Entry {
	e := &isoform.Entry{Accession: acc, Reviewed: reviewed}
	e.Isoforms = append(e.Isoforms, isoform.Isoform{ID: acc + "-1", Sequence: canonical, Canonical: true})
	for i := range variants {
		e.Isoforms = append(e.Isoforms, isoform.Isoform{
			ID:       fmt.Sprintf("%s-%d", acc, i+2),
			Sequence: canonical[:1] + "W" + canonical[1:],
			Edits:    []isoform.Edit{{ID: fmt.Sprintf("VSP_%s%d", acc, i), Begin: 1, End: 1, Substitution: canonical[:1] + "W"}},
		})
	}
	return e
}

func TestRankOrdering(t *testing.T) {
	source := &stubSource{entries: map[string]*isoform.Entry{
		"UNREV":  entry("UNREV", false, "MKVLAAGG", 5),
		"FEW":    entry("FEW", true, "MKVLAAGGGG", 1),
		"MANY":   entry("MANY", true, "MKV", 3),
		"MANY2":  entry("MANY2", true, "MKVL", 3),
		"MANY2B": entry("MANY2B", true, "MKVW", 3),
	}}

	res, err := NewRanker(source, 2, nil).Rank(context.Background(),
		[]string{"UNREV", "FEW", "MANY", "MANY2B", "MANY2", "FEW"})
	require.NoError(t, err)

	var order []string
	for _, c := range res.Candidates {
		order = append(order, c.Accession)
	}
	assert.Equal(t, []string{"MANY2", "MANY2B", "MANY", "FEW", "UNREV"}, order)
	assert.Empty(t, res.Failures)

	best, ok := res.Best()
	require.True(t, ok)
	assert.Equal(t, 4, best.Isoforms)
	assert.Equal(t, 4, best.CanonicalLength)
	assert.Equal(t, 5, best.AlignmentWidth)
	assert.LessOrEqual(t, source.peak.Load(), int32(2))
}

func TestRankReportsFailures(t *testing.T) {
	source := &stubSource{entries: map[string]*isoform.Entry{
		"OK": entry("OK", false, "MKV", 0),
	}}

	res, err := NewRanker(source, 0, nil).Rank(context.Background(), []string{"GONE", "OK"})
	require.NoError(t, err)
	require.Len(t, res.Candidates, 1)
	assert.Equal(t, "OK", res.Candidates[0].Accession)
	require.Len(t, res.Failures, 1)
	assert.Equal(t, "GONE", res.Failures[0].Accession)
	assert.Contains(t, res.Failures[0].Error, "not found")
}

func TestRankAllFail(t *testing.T) {
	source := &stubSource{entries: map[string]*isoform.Entry{}}

	_, err := NewRanker(source, 1, nil).Best(context.Background(), []string{"A", "B"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "entry A not found")
	assert.Contains(t, err.Error(), "entry B not found")
}

func TestRankEmpty(t *testing.T) {
	_, err := NewRanker(&stubSource{}, 1, nil).Rank(context.Background(), []string{"", ""})
	require.Error(t, err)
}

func TestRankCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewRanker(&stubSource{entries: map[string]*isoform.Entry{}}, 1, nil).Rank(ctx, []string{"A"})
	assert.True(t, errors.Is(err, context.Canceled))
}
