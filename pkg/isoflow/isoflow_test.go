package isoflow

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aria-lang/isoflow-go/internal/config"
	"github.com/aria-lang/isoflow-go/internal/log"
)

func newTestService(t *testing.T, dbURL string) (*Service, *atomic.Int32) {
	t.Helper()

	body, err := os.ReadFile("../../internal/uniprot/testdata/Q9TEST.rdf")
	require.NoError(t, err)

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		if r.URL.Path != "/Q9TEST.rdf" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write(body)
	}))
	t.Cleanup(srv.Close)

	cfg := config.NewAppConfig().
		WithDataDir(t.TempDir()).
		WithDBURL(dbURL).
		WithUniProt(config.NewUniProtConfig().WithBaseURL(srv.URL).WithRetries(0, 0))

	svc, err := New(context.Background(), cfg, log.Discard())
	require.NoError(t, err)
	t.Cleanup(func() { _ = svc.Close() })
	return svc, &calls
}

func TestServiceStores(t *testing.T) {
	tests := []struct {
		name  string
		dbURL func(t *testing.T) string
	}{
		{"file", func(t *testing.T) string { return "" }},
		{"sqlite", func(t *testing.T) string { return "sqlite:///" + filepath.Join(t.TempDir(), "isoflow.db") }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, calls := newTestService(t, tt.dbURL(t))
			ctx := context.Background()

			entry, err := svc.Entry(ctx, "Q9TEST")
			require.NoError(t, err)
			assert.Equal(t, "TEST_HUMAN", entry.Mnemonic)
			assert.Len(t, entry.Isoforms, 3)

			seqs, err := svc.Align(ctx, "Q9TEST")
			require.NoError(t, err)
			require.Len(t, seqs, 3)
			assert.Equal(t, int32(1), calls.Load())
		})
	}
}

func TestServiceRender(t *testing.T) {
	svc, _ := newTestService(t, "")
	ctx := context.Background()

	var svg bytes.Buffer
	require.NoError(t, svc.SVG(ctx, &svg, "Q9TEST", "EFG"))
	assert.Contains(t, svg.String(), `id="highlight"`)

	var fasta bytes.Buffer
	require.NoError(t, svc.FASTA(ctx, &fasta, "Q9TEST"))
	assert.Equal(t, 3, strings.Count(fasta.String(), ">"))

	s, err := svc.Stats(ctx, "Q9TEST")
	require.NoError(t, err)
	assert.Equal(t, 3, s.Count)
}

func TestServiceRank(t *testing.T) {
	svc, _ := newTestService(t, "")
	ctx := context.Background()

	best, err := svc.Best(ctx, []string{"MISSING", "Q9TEST"})
	require.NoError(t, err)
	assert.Equal(t, "Q9TEST", best.Accession)
	assert.Equal(t, 3, best.Isoforms)

	_, err = svc.Rank(ctx, []string{"MISSING"})
	assert.Error(t, err)
}

func TestAlignIsoforms(t *testing.T) {
	svc, calls := newTestService(t, "")

	tests := []struct {
		name     string
		isoforms []Isoform
		wantErr  string
		want     []string
	}{
		{
			name: "deletion",
			isoforms: []Isoform{
				{ID: "C", Sequence: "ABCDEFGHIJKLMNOPQRSTUVWXYZ", Canonical: true},
				{ID: "V", Sequence: "ABCDEKLMNOPQRSTUVWXYZ", Edits: []Edit{{ID: "VSP_1", Begin: 6, End: 10}}},
			},
			want: []string{"ABCDEFGHIJKLMNOPQRSTUVWXYZ", "ABCDE-----KLMNOPQRSTUVWXYZ"},
		},
		{name: "empty", wantErr: "no isoforms"},
		{
			name:     "invalid residue",
			isoforms: []Isoform{{ID: "C", Sequence: "MK1"}},
			wantErr:  "invalid residue",
		},
		{
			name: "duplicate id",
			isoforms: []Isoform{
				{ID: "C", Sequence: "MKV"},
				{ID: "C", Sequence: "MKV"},
			},
			wantErr: "duplicate isoform id",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seqs, err := svc.AlignIsoforms(context.Background(), tt.isoforms)
			if tt.wantErr != "" {
				assert.ErrorContains(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			got := make([]string, len(seqs))
			for i, s := range seqs {
				got[i] = s.Sequence
			}
			assert.Equal(t, tt.want, got)
		})
	}
	assert.Zero(t, calls.Load())
}

func TestDecodeIsoforms(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"json", `[{"id": "C", "sequence": "MKV", "canonical": true}, {"id": "V", "sequence": "MK", "modifications": [{"id": "VSP_1", "begin": 3, "end": 3}]}]`},
		{"yaml", "- id: C\n  sequence: MKV\n  canonical: true\n- id: V\n  sequence: MK\n  modifications:\n    - {id: VSP_1, begin: 3, end: 3}\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isoforms, err := DecodeIsoforms(strings.NewReader(tt.input))
			require.NoError(t, err)
			require.Len(t, isoforms, 2)
			assert.True(t, isoforms[0].Canonical)
			require.Len(t, isoforms[1].Edits, 1)
			assert.Equal(t, Edit{ID: "VSP_1", Begin: 3, End: 3}, isoforms[1].Edits[0])
		})
	}

	_, err := DecodeIsoforms(strings.NewReader("{not a list"))
	assert.Error(t, err)
}

func TestInfo(t *testing.T) {
	assert.Contains(t, Info(), "v"+Version())
}
