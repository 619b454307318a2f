// Package isoform holds the records produced from a UniProt entry: the
// canonical sequence, its alternative isoforms and the edits each isoform
// declares against the canonical numbering.
package isoform

import (
	"fmt"
	"strconv"
)

// Edit is one declared difference between an isoform and the canonical
// sequence. Begin and End are 1-based inclusive canonical positions.
type Edit struct {
	ID           string `json:"id" yaml:"id"`
	Begin        int    `json:"begin" yaml:"begin"`
	End          int    `json:"end" yaml:"end"`
	Substitution string `json:"substitution,omitempty" yaml:"substitution,omitempty"`
}

// Length is the number of canonical residues the edit replaces.
func (e Edit) Length() int {
	return e.End - e.Begin + 1
}

// Valid reports whether the coordinates describe a real range.
func (e Edit) Valid() bool {
	return e.Begin >= 1 && e.End >= e.Begin
}

// IsDeletion reports whether the edit removes more residues than it adds.
// Edits that are not deletions are insertion-dominant, including
// equal-length substitutions.
func (e Edit) IsDeletion() bool {
	return e.Length() > len(e.Substitution)
}

// Growth is the net number of residues the edit adds to the sequence.
// It is negative for deletions.
func (e Edit) Growth() int {
	return len(e.Substitution) - e.Length()
}

// RealEnd is the last position touched by either the replaced span or the
// replacement text.
func (e Edit) RealEnd() int {
	return max(e.Begin+len(e.Substitution), e.End)
}

// Key identifies an edit for duplicate detection. Edits without an ID are
// keyed by their coordinates and substitution.
func (e Edit) Key() string {
	if e.ID != "" {
		return e.ID
	}
	return strconv.Itoa(e.Begin) + ":" + strconv.Itoa(e.End) + ":" + e.Substitution
}

// SameAs reports whether two edits declare the same change, either by ID or
// by identical coordinates and substitution.
func (e Edit) SameAs(other Edit) bool {
	if e.ID != "" && e.ID == other.ID {
		return true
	}
	return e.Begin == other.Begin && e.End == other.End && e.Substitution == other.Substitution
}

// Overlaps reports whether the real extents of two edits share a position.
func (e Edit) Overlaps(other Edit) bool {
	return e.Begin <= other.RealEnd() && other.Begin <= e.RealEnd()
}

func (e Edit) String() string {
	sub := e.Substitution
	if sub == "" {
		sub = "missing"
	}
	return fmt.Sprintf("%s %d-%d -> %s", e.ID, e.Begin, e.End, sub)
}
