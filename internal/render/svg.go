// Package render draws aligned isoforms as SVG and writes them as FASTA.
package render

import (
	"fmt"
	"io"
	"log/slog"
	"math"

	svg "github.com/ajstarks/svgo"

	"github.com/aria-lang/isoflow-go/internal/alignment"
	"github.com/aria-lang/isoflow-go/internal/sequence"
)

// Layout constants in pixels.
const (
	DefaultWidth = 1000
	margin       = 5
	rowTop       = 10
	rowPitch     = 25
	rowHeight    = 20
	labelInset   = 60
	minHeight    = 200
)

const tooltipScript = `function init(evt) {
  if (window.svgDocument == null) {
    svgDocument = evt.target.ownerDocument;
  }
  tooltip = svgDocument.getElementById('tooltip');
}
function ShowTooltip(evt, text) {
  tooltip.setAttributeNS(null, "x", evt.clientX + 11);
  tooltip.setAttributeNS(null, "y", evt.clientY + 27);
  tooltip.firstChild.data = text;
  tooltip.setAttributeNS(null, "visibility", "visible");
}
function HideTooltip() {
  tooltip.setAttributeNS(null, "visibility", "hidden");
}`

var featureColors = map[alignment.FeatureType]string{
	alignment.TypeGap:          "#FFFFFF",
	alignment.TypeMismatch:     "#CCCCCC",
	alignment.TypeGapDeletion:  "#FF0000",
	alignment.TypeGapInsertion: "#00FF00",
}

// SVGOptions controls the drawing.
type SVGOptions struct {
	// Width of the drawing; zero uses DefaultWidth.
	Width int
	// Highlight is a residue motif of the canonical sequence to shade
	// across all rows. Empty draws no highlight.
	Highlight string
	Logger    *slog.Logger
}

// SVG draws one bar per aligned sequence with its gap and mismatch features.
func SVG(w io.Writer, seqs []alignment.AlignedSequence, opts SVGOptions) error {
	if len(seqs) == 0 {
		return fmt.Errorf("nothing to draw")
	}
	if opts.Width <= 0 {
		opts.Width = DefaultWidth
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}

	cw := &errWriter{w: w}
	canvas := svg.New(cw)
	scale := columnScale{px: float64(opts.Width) / float64(max(alignment.Width(seqs), 1))}
	height := max(minHeight, rowTop+rowPitch*len(seqs)+rowHeight)

	canvas.Start(opts.Width, height, `onload="init(evt)"`)
	canvas.Script("text/ecmascript", tooltipScript)

	if opts.Highlight != "" {
		drawHighlight(canvas, scale, seqs, opts)
	}

	y := rowTop
	for _, seq := range seqs {
		canvas.Gid("row-" + seq.ID)
		canvas.Rect(margin, y, scale.width(0, len(seq.Sequence)), rowHeight,
			`stroke="none"`, `fill="#FFBF00"`)
		for _, f := range seq.Features {
			color, ok := featureColors[f.Type]
			if !ok {
				continue
			}
			canvas.Rect(scale.x(f.Start-1), y+1, scale.width(f.Start-1, f.End), rowHeight-2,
				`stroke="none"`,
				`fill="`+color+`"`,
				`class="`+string(f.Type)+`"`,
				fmt.Sprintf(`onmousemove="ShowTooltip(evt, '%s')"`, f.Tooltip()),
				`onmouseout="HideTooltip()"`)
		}
		canvas.Text(opts.Width-labelInset, y+15, seq.ID,
			`font-family="Verdana"`, `font-size="10"`, `fill="blue"`)
		canvas.Gend()
		y += rowPitch
	}

	canvas.Text(0, 0, "Tooltip", `class="tooltip"`, `id="tooltip"`, `visibility="hidden"`)
	canvas.End()
	return cw.err
}

func drawHighlight(canvas *svg.SVG, scale columnScale, seqs []alignment.AlignedSequence, opts SVGOptions) {
	ref := seqs[0]
	for _, s := range seqs {
		if s.Type == alignment.KindCanonical {
			ref = s
			break
		}
	}

	start, end, err := sequence.LocateMotif(ref.Sequence, opts.Highlight)
	if err != nil {
		opts.Logger.Warn("highlight not drawn", "sequence", ref.ID, "motif", opts.Highlight, "error", err)
		return
	}
	if p, err := sequence.New(sequence.Ungapped(ref.Sequence)); err == nil {
		if positions, _ := p.FindMotifPositions(opts.Highlight); len(positions) > 1 {
			opts.Logger.Warn("highlight motif is ambiguous, shading the first occurrence",
				"sequence", ref.ID, "motif", opts.Highlight, "occurrences", len(positions))
		}
	}
	canvas.Rect(scale.x(start-1), rowTop-margin, scale.width(start-1, end), rowPitch*len(seqs)+margin,
		`id="highlight"`, `stroke="none"`, `fill="#AAAAAA"`)
}

// columnScale maps 0-based column boundaries to pixels.
type columnScale struct {
	px float64
}

func (s columnScale) x(col int) int {
	return margin + int(math.Round(float64(col)*s.px))
}

func (s columnScale) width(from, to int) int {
	return max(s.x(to)-s.x(from), 1)
}

// errWriter keeps the first write error; svgo drops them.
type errWriter struct {
	w   io.Writer
	err error
}

func (c *errWriter) Write(p []byte) (int, error) {
	if c.err != nil {
		return 0, c.err
	}
	n, err := c.w.Write(p)
	c.err = err
	return n, err
}
