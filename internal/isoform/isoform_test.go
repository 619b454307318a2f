package isoform

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aria-lang/isoflow-go/internal/sequence"
)

func TestEditClassification(t *testing.T) {
	tests := []struct {
		name     string
		edit     Edit
		length   int
		deletion bool
		growth   int
		realEnd  int
	}{
		{"pure deletion", Edit{Begin: 6, End: 10}, 5, true, -5, 10},
		{"equal substitution", Edit{Begin: 5, End: 9, Substitution: "AAAAA"}, 5, false, 0, 10},
		{"shorter substitution", Edit{Begin: 5, End: 9, Substitution: "AAAA"}, 5, true, -1, 9},
		{"insertion", Edit{Begin: 7, End: 7, Substitution: "MKLV"}, 1, false, 3, 11},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.length, tt.edit.Length())
			assert.Equal(t, tt.deletion, tt.edit.IsDeletion())
			assert.Equal(t, tt.growth, tt.edit.Growth())
			assert.Equal(t, tt.realEnd, tt.edit.RealEnd())
		})
	}
}

func TestEditValid(t *testing.T) {
	assert.True(t, Edit{Begin: 1, End: 1}.Valid())
	assert.False(t, Edit{Begin: 0, End: 3}.Valid())
	assert.False(t, Edit{Begin: 5, End: 4}.Valid())
}

func TestEditKeyAndSameAs(t *testing.T) {
	a := Edit{ID: "VSP_1", Begin: 5, End: 9, Substitution: "KLM"}
	b := Edit{ID: "VSP_1", Begin: 6, End: 9}
	c := Edit{ID: "VSP_2", Begin: 5, End: 9, Substitution: "KLM"}
	d := Edit{Begin: 5, End: 9, Substitution: "KLM"}

	assert.True(t, a.SameAs(b))
	assert.True(t, a.SameAs(c))
	assert.False(t, b.SameAs(c))
	assert.Equal(t, "VSP_1", a.Key())
	assert.Equal(t, "5:9:KLM", d.Key())
}

func TestEditOverlaps(t *testing.T) {
	a := Edit{Begin: 10, End: 10, Substitution: "ABCD"}
	assert.True(t, a.Overlaps(Edit{Begin: 12, End: 15}))
	assert.False(t, a.Overlaps(Edit{Begin: 15, End: 16}))
	assert.True(t, a.Overlaps(Edit{Begin: 2, End: 10}))
}

func TestIsoformValidate(t *testing.T) {
	assert.NoError(t, Isoform{ID: "P1-1", Sequence: "MKT"}.Validate())
	assert.Error(t, Isoform{Sequence: "MKT"}.Validate())

	err := Isoform{ID: "P1-2", Sequence: ""}.Validate()
	var empty *sequence.EmptySequenceError
	assert.ErrorAs(t, err, &empty)

	err = Isoform{ID: "P1-3", Sequence: "MK1"}.Validate()
	var invalid *sequence.InvalidResidueError
	assert.ErrorAs(t, err, &invalid)
}

func TestEntry(t *testing.T) {
	entry := &Entry{
		Accession: "P1",
		Isoforms: []Isoform{
			{ID: "P1-1", Sequence: "MKTAY", Canonical: true},
			{ID: "P1-2", Sequence: "MKAY", Edits: []Edit{{ID: "VSP_1", Begin: 3, End: 3}}},
		},
	}

	require.NoError(t, entry.Validate())
	canonical, ok := entry.Canonical()
	require.True(t, ok)
	assert.Equal(t, "P1-1", canonical.ID)
	assert.Equal(t, 1, entry.EditCount())
	assert.True(t, entry.Isoforms[1].Declares(Edit{ID: "VSP_1"}))

	entry.Isoforms = append(entry.Isoforms, Isoform{ID: "P1-2", Sequence: "MK"})
	assert.Error(t, entry.Validate())

	assert.Error(t, (&Entry{Accession: "P2"}).Validate())
}
