package render

import (
	"fmt"
	"io"

	"github.com/biogo/biogo/alphabet"
	"github.com/biogo/biogo/io/seqio/fasta"
	"github.com/biogo/biogo/seq/linear"

	"github.com/aria-lang/isoflow-go/internal/alignment"
)

// FASTALineWidth is the residue count per FASTA line.
const FASTALineWidth = 60

// FASTA writes the gapped sequences as an aligned FASTA file. The sequence
// type is recorded as the description.
func FASTA(w io.Writer, seqs []alignment.AlignedSequence) error {
	fw := fasta.NewWriter(w, FASTALineWidth)
	for _, s := range seqs {
		rec := linear.NewSeq(s.ID, alphabet.BytesToLetters([]byte(s.Sequence)), alphabet.Protein)
		rec.Desc = s.Type
		if _, err := fw.Write(rec); err != nil {
			return fmt.Errorf("write %s: %w", s.ID, err)
		}
	}
	return nil
}
