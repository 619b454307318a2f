// Package alignment reconciles the edits declared by every isoform of a
// protein into one gap-padded, equal-length alignment.
//
// No residue comparison is performed. Column correspondence is derived only
// from edit coordinates, which are replayed against one Buffer per isoform
// in a fixed isoform-major, edit-minor, buffer-minor order.
package alignment

import "fmt"

// FeatureType tags an annotated range of an aligned sequence.
type FeatureType string

const (
	TypeSequence     FeatureType = "sequence"
	TypeGap          FeatureType = "gap"
	TypeGapInsertion FeatureType = "gapInsertion"
	TypeGapDeletion  FeatureType = "gapDeletion"
	TypeMismatch     FeatureType = "mismatch"
)

// IsGap reports whether the feature covers spliced gap characters.
func (t FeatureType) IsGap() bool {
	return t == TypeGap || t == TypeGapInsertion || t == TypeGapDeletion
}

// isInsertionGap reports whether the gap pads for residues another isoform
// inserted.
func (t FeatureType) isInsertionGap() bool {
	return t == TypeGap || t == TypeGapInsertion
}

// Feature is an annotated 1-based inclusive range of a buffer. Positions are
// buffer columns at the time the feature was recorded; MovedStart is the
// shift that was in effect, so Start-MovedStart is the canonical position.
type Feature struct {
	Start      int         `json:"start" yaml:"start"`
	End        int         `json:"end" yaml:"end"`
	Type       FeatureType `json:"type" yaml:"type"`
	MovedStart int         `json:"movedStart" yaml:"movedStart"`
}

// Length is the number of columns covered.
func (f Feature) Length() int {
	return f.End - f.Start + 1
}

// Equal compares position, type and the shift in effect when the feature
// was recorded, which pins both features to the same canonical locus.
func (f Feature) Equal(other Feature) bool {
	return f.Start == other.Start && f.End == other.End && f.Type == other.Type &&
		f.MovedStart == other.MovedStart
}

// OriginStart maps Start back to canonical coordinates.
func (f Feature) OriginStart() int {
	return f.Start - f.MovedStart
}

// OriginEnd maps End back to canonical coordinates.
func (f Feature) OriginEnd() int {
	return f.End - f.MovedStart
}

// anchor is the canonical position an insertion gap follows.
func (f Feature) anchor() int {
	return f.OriginStart() - 1
}

// Tooltip is the label shown for the feature in rendered output: buffer
// columns followed by the canonical position they map back to.
func (f Feature) Tooltip() string {
	if f.Type.isInsertionGap() {
		return fmt.Sprintf("%s: %d - %d (after %d)", f.Type, f.Start, f.End, f.anchor())
	}
	return fmt.Sprintf("%s: %d - %d (canonical %d - %d)", f.Type, f.Start, f.End, f.OriginStart(), f.OriginEnd())
}

func (f Feature) String() string {
	return fmt.Sprintf("%s from %d to %d", f.Type, f.Start, f.End)
}
