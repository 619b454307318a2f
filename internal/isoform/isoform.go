package isoform

import (
	"fmt"

	"github.com/aria-lang/isoflow-go/internal/sequence"
)

// Isoform is one sequence of a protein entry together with the edits that
// derive it from the canonical sequence. Isoforms are read-only once built.
type Isoform struct {
	ID        string   `json:"id" yaml:"id"`
	URL       string   `json:"url,omitempty" yaml:"url,omitempty"`
	Names     []string `json:"names,omitempty" yaml:"names,omitempty"`
	Sequence  string   `json:"sequence" yaml:"sequence"`
	BasedOn   string   `json:"basedOn,omitempty" yaml:"basedOn,omitempty"`
	Canonical bool     `json:"canonical" yaml:"canonical"`
	Edits     []Edit   `json:"modifications,omitempty" yaml:"modifications,omitempty"`
}

// Len returns the raw sequence length.
func (i Isoform) Len() int {
	return len(i.Sequence)
}

// Declares reports whether the isoform declares an edit equal to e.
func (i Isoform) Declares(e Edit) bool {
	for _, own := range i.Edits {
		if own.SameAs(e) {
			return true
		}
	}
	return false
}

// Validate checks the identifier and residues. Edits are not validated here;
// malformed edits are skipped during alignment.
func (i Isoform) Validate() error {
	if i.ID == "" {
		return fmt.Errorf("isoform id cannot be empty")
	}
	if i.Sequence == "" {
		return fmt.Errorf("isoform %s: %w", i.ID, &sequence.EmptySequenceError{})
	}
	if err := sequence.ValidateProtein(i.Sequence); err != nil {
		return fmt.Errorf("isoform %s: %w", i.ID, err)
	}
	return nil
}

// Entry is a parsed UniProt record: the canonical isoform first, followed by
// the modified isoforms in document order.
type Entry struct {
	Accession string    `json:"accession" yaml:"accession"`
	Mnemonic  string    `json:"mnemonic,omitempty" yaml:"mnemonic,omitempty"`
	Reviewed  bool      `json:"reviewed" yaml:"reviewed"`
	Isoforms  []Isoform `json:"isoforms" yaml:"isoforms"`
}

// Canonical returns the canonical isoform, if the entry has one.
func (e *Entry) Canonical() (Isoform, bool) {
	for _, iso := range e.Isoforms {
		if iso.Canonical {
			return iso, true
		}
	}
	if len(e.Isoforms) > 0 {
		return e.Isoforms[0], true
	}
	return Isoform{}, false
}

// EditCount sums the edits declared across all isoforms.
func (e *Entry) EditCount() int {
	n := 0
	for _, iso := range e.Isoforms {
		n += len(iso.Edits)
	}
	return n
}

// Validate checks every isoform and that identifiers are unique.
func (e *Entry) Validate() error {
	if len(e.Isoforms) == 0 {
		return fmt.Errorf("entry %s has no isoforms", e.Accession)
	}
	seen := make(map[string]bool, len(e.Isoforms))
	for _, iso := range e.Isoforms {
		if err := iso.Validate(); err != nil {
			return err
		}
		if seen[iso.ID] {
			return fmt.Errorf("duplicate isoform id %s", iso.ID)
		}
		seen[iso.ID] = true
	}
	return nil
}
