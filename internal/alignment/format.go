package alignment

import (
	"fmt"
	"strings"
)

// DefaultLineWidth is the number of columns per block in Format.
const DefaultLineWidth = 60

// Conservation returns one marker per column: '*' where every sequence has
// the same residue, ' ' where any sequence has a gap and '.' otherwise.
func Conservation(seqs []AlignedSequence) string {
	width := Width(seqs)
	var line strings.Builder
	for col := 0; col < width; col++ {
		line.WriteByte(columnMarker(seqs, col))
	}
	return line.String()
}

func columnMarker(seqs []AlignedSequence, col int) byte {
	if len(seqs) == 0 {
		return ' '
	}
	var first byte
	same := true
	for i, s := range seqs {
		if col >= len(s.Sequence) || s.Sequence[col] == gapChar {
			return ' '
		}
		if i == 0 {
			first = s.Sequence[col]
		} else if s.Sequence[col] != first {
			same = false
		}
	}
	if same {
		return '*'
	}
	return '.'
}

// Format renders the alignment as blocks of lineWidth columns, one row per
// sequence followed by the conservation line.
func Format(seqs []AlignedSequence, lineWidth int) string {
	if lineWidth <= 0 {
		lineWidth = DefaultLineWidth
	}

	label := 0
	for _, s := range seqs {
		label = max(label, len(s.ID))
	}
	cons := Conservation(seqs)
	width := Width(seqs)

	var out strings.Builder
	for from := 0; from < width; from += lineWidth {
		to := min(from+lineWidth, width)
		for _, s := range seqs {
			row := ""
			if from < len(s.Sequence) {
				row = s.Sequence[from:min(to, len(s.Sequence))]
			}
			fmt.Fprintf(&out, "%-*s  %s\n", label, s.ID, row)
		}
		fmt.Fprintf(&out, "%-*s  %s\n", label, "", cons[from:to])
		if to < width {
			out.WriteByte('\n')
		}
	}
	return out.String()
}
