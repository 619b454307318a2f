package sequence

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name     string
		residues string
		want     string
		wantErr  bool
		errType  interface{}
	}{
		{
			name:     "valid protein",
			residues: "MKTAYIAKQR",
			want:     "MKTAYIAKQR",
		},
		{
			name:     "lowercase is normalized",
			residues: "mktayiakqr",
			want:     "MKTAYIAKQR",
		},
		{
			name:     "wrapped lines are joined",
			residues: "MKTAY\n  IAKQR\n",
			want:     "MKTAYIAKQR",
		},
		{
			name:     "ambiguity codes",
			residues: "MKXBZJ",
			want:     "MKXBZJ",
		},
		{
			name:     "empty sequence",
			residues: "",
			wantErr:  true,
			errType:  &EmptySequenceError{},
		},
		{
			name:     "digit is invalid",
			residues: "MKT4AY",
			wantErr:  true,
			errType:  &InvalidResidueError{},
		},
		{
			name:     "gap is invalid in raw sequence",
			residues: "MK-AY",
			wantErr:  true,
			errType:  &InvalidResidueError{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := New(tt.residues)

			if tt.wantErr {
				require.Error(t, err)
				if tt.errType != nil {
					assert.IsType(t, tt.errType, err)
				}
				var seqErr SequenceError
				assert.ErrorAs(t, err, &seqErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, p.Residues)
		})
	}
}

func TestInvalidResiduePosition(t *testing.T) {
	err := ValidateProtein("MKT4")
	var resErr *InvalidResidueError
	require.ErrorAs(t, err, &resErr)
	assert.Equal(t, 4, resErr.Position)
	assert.Equal(t, '4', resErr.Found)
}

func TestValidateGapped(t *testing.T) {
	assert.NoError(t, ValidateGapped("MK--AY"))
	assert.Error(t, ValidateGapped("MK..AY"))
}

func TestFindMotifPositions(t *testing.T) {
	p, err := New("MKAMKAMK")
	require.NoError(t, err)

	positions, err := p.FindMotifPositions("mk")
	require.NoError(t, err)
	assert.Equal(t, []int{1, 4, 7}, positions)

	for _, motif := range []string{"", " \n"} {
		_, err = p.FindMotifPositions(motif)
		assert.Error(t, err, "motif %q", motif)
	}
}

func TestUngapped(t *testing.T) {
	assert.Equal(t, "ABCDEKLM", Ungapped("ABCDE-----KLM"))
	assert.Equal(t, 5, GapCount("ABCDE-----KLM"))
}

func TestColumn(t *testing.T) {
	tests := []struct {
		name    string
		aligned string
		pos     int
		want    int
		ok      bool
	}{
		{"no gaps", "ABCDE", 3, 3, true},
		{"after gap block", "AB---CDE", 3, 6, true},
		{"leading gaps", "--ABC", 1, 3, true},
		{"past end", "AB-C", 4, 0, false},
		{"zero", "ABC", 0, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Column(tt.aligned, tt.pos)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLocateMotif(t *testing.T) {
	start, end, err := LocateMotif("ABCDE-----KLMNOP", "DEKL")
	require.NoError(t, err)
	assert.Equal(t, 4, start)
	assert.Equal(t, 12, end)

	start, end, err = LocateMotif("--ABC", "abc")
	require.NoError(t, err)
	assert.Equal(t, 3, start)
	assert.Equal(t, 5, end)

	_, _, err = LocateMotif("ABCDE", "XYZ")
	var notFound *MotifNotFoundError
	assert.ErrorAs(t, err, &notFound)
}
