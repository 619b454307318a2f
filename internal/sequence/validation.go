package sequence

import "fmt"

// SequenceError is the base error type for sequence operations.
type SequenceError interface {
	error
	IsSequenceError()
}

// EmptySequenceError is returned when a sequence is empty.
type EmptySequenceError struct{}

func (e *EmptySequenceError) Error() string {
	return "sequence must have at least one residue"
}

func (e *EmptySequenceError) IsSequenceError() {}

// InvalidResidueError is returned when a character is not an amino acid code.
type InvalidResidueError struct {
	Position int
	Found    rune
}

func (e *InvalidResidueError) Error() string {
	return fmt.Sprintf("invalid residue '%c' at position %d", e.Found, e.Position)
}

func (e *InvalidResidueError) IsSequenceError() {}

// MotifNotFoundError is returned when a motif does not occur in a sequence.
type MotifNotFoundError struct {
	Motif string
}

func (e *MotifNotFoundError) Error() string {
	return fmt.Sprintf("motif %q not found", e.Motif)
}

func (e *MotifNotFoundError) IsSequenceError() {}

// ValidResidues holds the IUPAC one-letter amino acid codes, including the
// ambiguity codes B, Z, J and X and the non-standard U and O.
var ValidResidues = func() map[rune]bool {
	m := make(map[rune]bool, 26)
	for _, r := range "ACDEFGHIKLMNPQRSTVWYBZJXUO" {
		m[r] = true
	}
	return m
}()

// ValidateProtein validates that a string contains only amino acid codes.
// Positions in the returned error are 1-based.
func ValidateProtein(residues string) error {
	for i, r := range residues {
		if !ValidResidues[r] {
			return &InvalidResidueError{Position: i + 1, Found: r}
		}
	}
	return nil
}

// ValidateGapped is ValidateProtein but also accepts the gap character.
func ValidateGapped(residues string) error {
	for i, r := range residues {
		if r != Gap && !ValidResidues[r] {
			return &InvalidResidueError{Position: i + 1, Found: r}
		}
	}
	return nil
}

// IsValidResidue checks if a character is a valid amino acid code.
func IsValidResidue(c rune) bool {
	return ValidResidues[c]
}
