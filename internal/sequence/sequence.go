// Package sequence provides protein sequence types with validation and the
// gap-aware helpers used when reading aligned sequences.
package sequence

import (
	"fmt"
	"strings"
	"unicode"
)

// Gap is the padding character inserted into aligned sequences.
const Gap = '-'

// Protein represents a validated amino acid sequence.
type Protein struct {
	Residues string
}

// Normalize upper-cases residues and strips whitespace, which UniProt
// documents use to wrap long sequences.
func Normalize(residues string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return unicode.ToUpper(r)
	}, residues)
}

// New creates a new protein sequence with validation.
func New(residues string) (*Protein, error) {
	normalized := Normalize(residues)

	if len(normalized) == 0 {
		return nil, &EmptySequenceError{}
	}

	if err := ValidateProtein(normalized); err != nil {
		return nil, err
	}

	return &Protein{Residues: normalized}, nil
}

// Len returns the length of the sequence.
func (p *Protein) Len() int {
	return len(p.Residues)
}

// FindMotifPositions finds all 1-based positions where a motif occurs.
func (p *Protein) FindMotifPositions(motif string) ([]int, error) {
	upper := Normalize(motif)
	if len(upper) == 0 {
		return nil, fmt.Errorf("motif cannot be empty")
	}

	positions := make([]int, 0)

	if len(upper) > len(p.Residues) {
		return positions, nil
	}

	for i := 0; i <= len(p.Residues)-len(upper); i++ {
		if p.Residues[i:i+len(upper)] == upper {
			positions = append(positions, i+1)
		}
	}

	return positions, nil
}

// Ungapped removes gap characters from an aligned sequence.
func Ungapped(aligned string) string {
	return strings.ReplaceAll(aligned, string(Gap), "")
}

// GapCount counts gap characters in an aligned sequence.
func GapCount(aligned string) int {
	return strings.Count(aligned, string(Gap))
}

// Column maps a 1-based residue position of the ungapped sequence to its
// 1-based column in the aligned sequence.
func Column(aligned string, pos int) (int, bool) {
	if pos < 1 {
		return 0, false
	}
	seen := 0
	for i := 0; i < len(aligned); i++ {
		if aligned[i] == Gap {
			continue
		}
		seen++
		if seen == pos {
			return i + 1, true
		}
	}
	return 0, false
}

// LocateMotif finds the first occurrence of motif in the ungapped form of an
// aligned sequence and returns the 1-based inclusive column range it covers,
// gaps inside the match included.
func LocateMotif(aligned, motif string) (int, int, error) {
	motif = Normalize(motif)
	if motif == "" {
		return 0, 0, fmt.Errorf("motif cannot be empty")
	}

	idx := strings.Index(Ungapped(aligned), motif)
	if idx < 0 {
		return 0, 0, &MotifNotFoundError{Motif: motif}
	}

	start, _ := Column(aligned, idx+1)
	end, _ := Column(aligned, idx+len(motif))
	return start, end, nil
}
