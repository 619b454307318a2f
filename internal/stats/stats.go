// Package stats provides summaries of a reconciled isoform alignment.
package stats

import (
	"fmt"
	"sort"

	"github.com/aria-lang/isoflow-go/internal/alignment"
	"github.com/aria-lang/isoflow-go/internal/sequence"
)

// SequenceStats summarizes one aligned sequence against the reference row.
type SequenceStats struct {
	ID          string                        `json:"id" yaml:"id"`
	Length      int                           `json:"length" yaml:"length"`
	Residues    int                           `json:"residues" yaml:"residues"`
	Gaps        int                           `json:"gaps" yaml:"gaps"`
	GapOpenings int                           `json:"gapOpenings" yaml:"gapOpenings"`
	Identity    float64                       `json:"identity" yaml:"identity"`
	Features    map[alignment.FeatureType]int `json:"features" yaml:"features"`
}

// FromSequence calculates statistics for seq relative to reference. Both
// must come from the same alignment.
func FromSequence(seq, reference alignment.AlignedSequence) (*SequenceStats, error) {
	identity, err := PercentIdentity(seq.Sequence, reference.Sequence)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", seq.ID, err)
	}

	features := make(map[alignment.FeatureType]int)
	for _, f := range seq.Features {
		features[f.Type]++
	}

	gaps := sequence.GapCount(seq.Sequence)
	return &SequenceStats{
		ID:          seq.ID,
		Length:      len(seq.Sequence),
		Residues:    len(seq.Sequence) - gaps,
		Gaps:        gaps,
		GapOpenings: GapOpenings(seq.Sequence),
		Identity:    identity,
		Features:    features,
	}, nil
}

func (s *SequenceStats) String() string {
	return fmt.Sprintf(`SequenceStats {
  id: %s
  length: %d (%d residues, %d gaps in %d blocks)
  identity: %.1f%%
  mismatch features: %d
}`, s.ID, s.Length, s.Residues, s.Gaps, s.GapOpenings, s.Identity,
		s.Features[alignment.TypeMismatch])
}

// AlignmentStats aggregates statistics over every row of an alignment.
type AlignmentStats struct {
	Count            int              `json:"count" yaml:"count"`
	Width            int              `json:"width" yaml:"width"`
	ConservedColumns int              `json:"conservedColumns" yaml:"conservedColumns"`
	GappedColumns    int              `json:"gappedColumns" yaml:"gappedColumns"`
	MinResidues      int              `json:"minResidues" yaml:"minResidues"`
	MaxResidues      int              `json:"maxResidues" yaml:"maxResidues"`
	MedianResidues   int              `json:"medianResidues" yaml:"medianResidues"`
	MeanIdentity     float64          `json:"meanIdentity" yaml:"meanIdentity"`
	Sequences        []*SequenceStats `json:"sequences" yaml:"sequences"`
}

// FromAlignment calculates statistics for an alignment. The first row is the
// reference for identity.
func FromAlignment(seqs []alignment.AlignedSequence) (*AlignmentStats, error) {
	if len(seqs) == 0 {
		return nil, fmt.Errorf("alignment cannot be empty")
	}

	count := len(seqs)
	perSeq := make([]*SequenceStats, count)
	residues := make([]int, count)
	identitySum := 0.0

	for i, seq := range seqs {
		s, err := FromSequence(seq, seqs[0])
		if err != nil {
			return nil, err
		}
		perSeq[i] = s
		residues[i] = s.Residues
		identitySum += s.Identity
	}

	sorted := make([]int, count)
	copy(sorted, residues)
	sort.Ints(sorted)

	mid := count / 2
	var median int
	if count%2 == 0 {
		median = (sorted[mid-1] + sorted[mid]) / 2
	} else {
		median = sorted[mid]
	}

	conservation := alignment.Conservation(seqs)
	conserved, gapped := 0, 0
	for i := 0; i < len(conservation); i++ {
		switch conservation[i] {
		case '*':
			conserved++
		case ' ':
			gapped++
		}
	}

	return &AlignmentStats{
		Count:            count,
		Width:            alignment.Width(seqs),
		ConservedColumns: conserved,
		GappedColumns:    gapped,
		MinResidues:      sorted[0],
		MaxResidues:      sorted[count-1],
		MedianResidues:   median,
		MeanIdentity:     identitySum / float64(count),
		Sequences:        perSeq,
	}, nil
}

func (s *AlignmentStats) String() string {
	return fmt.Sprintf(`AlignmentStats {
  sequences: %d
  width: %d
  conserved columns: %d
  gapped columns: %d
  residue range: %d - %d (median %d)
  mean identity: %.1f%%
}`, s.Count, s.Width, s.ConservedColumns, s.GappedColumns,
		s.MinResidues, s.MaxResidues, s.MedianResidues, s.MeanIdentity)
}

// PercentIdentity calculates the share of columns where both aligned
// sequences carry the same residue.
func PercentIdentity(aligned1, aligned2 string) (float64, error) {
	if len(aligned1) != len(aligned2) {
		return 0, fmt.Errorf("aligned sequences must have equal length")
	}
	if len(aligned1) == 0 {
		return 0, fmt.Errorf("aligned sequences cannot be empty")
	}

	matches := 0
	for i := 0; i < len(aligned1); i++ {
		if aligned1[i] == aligned2[i] && aligned1[i] != sequence.Gap {
			matches++
		}
	}

	return float64(matches) / float64(len(aligned1)) * 100.0, nil
}

// GapOpenings counts the runs of gap characters.
func GapOpenings(aligned string) int {
	openings := 0
	inGap := false

	for i := 0; i < len(aligned); i++ {
		if aligned[i] == sequence.Gap && !inGap {
			openings++
			inGap = true
		} else if aligned[i] != sequence.Gap {
			inGap = false
		}
	}

	return openings
}
