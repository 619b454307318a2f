package alignment

import (
	"io"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/aria-lang/isoflow-go/internal/isoform"
	"github.com/aria-lang/isoflow-go/internal/metrics"
)

// Sequence types reported on aligned output.
const (
	KindCanonical = "canonical"
	KindModified  = "modified"
)

// AlignedSequence is the final state of one buffer.
type AlignedSequence struct {
	ID       string    `json:"id" yaml:"id"`
	Type     string    `json:"type" yaml:"type"`
	Sequence string    `json:"sequence" yaml:"sequence"`
	Features []Feature `json:"features" yaml:"features"`
}

// Step is one edit application in the replay order.
type Step struct {
	Owner  string
	Edit   isoform.Edit
	Buffer string
}

// Observer is called after every step with the buffer the step touched.
type Observer func(step Step, buf *Buffer)

// Option configures a Driver.
type Option func(*Driver)

// WithLogger sets the logger used for dropped-edit diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(d *Driver) {
		if logger != nil {
			d.logger = logger
		}
	}
}

// WithObserver registers a callback invoked after each replay step.
func WithObserver(o Observer) Option {
	return func(d *Driver) {
		d.observer = o
	}
}

// Driver owns one Buffer per isoform and replays every declared edit
// against every buffer.
type Driver struct {
	isoforms []isoform.Isoform
	index    map[string]int
	buffers  []*Buffer
	logger   *slog.Logger
	observer Observer
}

// NewDriver seeds one buffer per isoform, in input order. When ids repeat,
// the first isoform wins the lookup.
func NewDriver(isoforms []isoform.Isoform, opts ...Option) *Driver {
	d := &Driver{
		isoforms: isoforms,
		index:    make(map[string]int, len(isoforms)),
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(d)
	}

	for i, iso := range isoforms {
		if _, ok := d.index[iso.ID]; !ok {
			d.index[iso.ID] = i
		}
	}
	d.buffers = make([]*Buffer, len(isoforms))
	for i, iso := range isoforms {
		d.buffers[i] = NewBuffer(iso, d, d.logger)
	}
	return d
}

// Isoform implements Lookup over the driver's input.
func (d *Driver) Isoform(id string) (isoform.Isoform, bool) {
	i, ok := d.index[id]
	if !ok {
		return isoform.Isoform{}, false
	}
	return d.isoforms[i], true
}

// Canonical implements Lookup. It returns the first isoform flagged
// canonical, falling back to the first isoform.
func (d *Driver) Canonical() (isoform.Isoform, bool) {
	for _, iso := range d.isoforms {
		if iso.Canonical {
			return iso, true
		}
	}
	if len(d.isoforms) == 0 {
		return isoform.Isoform{}, false
	}
	return d.isoforms[0], true
}

// Buffers returns the buffers in input order.
func (d *Driver) Buffers() []*Buffer {
	return d.buffers
}

// Plan lists the replay order: isoforms in input order, each isoform's edits
// in declaration order, each edit applied to every buffer in input order.
// Output depends on this order.
func (d *Driver) Plan() []Step {
	var steps []Step
	for _, iso := range d.isoforms {
		for _, edit := range iso.Edits {
			for _, buf := range d.buffers {
				steps = append(steps, Step{Owner: iso.ID, Edit: edit, Buffer: buf.ID()})
			}
		}
	}
	return steps
}

// Run replays the plan and returns one aligned sequence per isoform.
func (d *Driver) Run() []AlignedSequence {
	timer := prometheus.NewTimer(metrics.AlignDuration)
	defer timer.ObserveDuration()

	for i, step := range d.Plan() {
		buf := d.buffers[i%len(d.buffers)]
		buf.Apply(step.Edit, step.Owner)
		if d.observer != nil {
			d.observer(step, buf)
		}
	}

	if !d.Aligned() {
		d.logger.Warn("alignment has unequal lengths", "lengths", d.lengths())
	}
	return d.Result()
}

// Result snapshots the current buffers.
func (d *Driver) Result() []AlignedSequence {
	out := make([]AlignedSequence, len(d.buffers))
	for i, buf := range d.buffers {
		kind := KindModified
		if d.isoforms[i].Canonical {
			kind = KindCanonical
		}
		out[i] = AlignedSequence{
			ID:       buf.ID(),
			Type:     kind,
			Sequence: buf.Sequence(),
			Features: buf.Features(),
		}
	}
	return out
}

// Aligned reports whether every buffer has the same length.
func (d *Driver) Aligned() bool {
	for _, buf := range d.buffers {
		if buf.Len() != d.buffers[0].Len() {
			return false
		}
	}
	return true
}

func (d *Driver) lengths() []int {
	out := make([]int, len(d.buffers))
	for i, buf := range d.buffers {
		out[i] = buf.Len()
	}
	return out
}

// Align runs a fresh driver over isoforms.
func Align(isoforms []isoform.Isoform, opts ...Option) []AlignedSequence {
	return NewDriver(isoforms, opts...).Run()
}

// Width returns the length of the longest aligned sequence.
func Width(seqs []AlignedSequence) int {
	w := 0
	for _, s := range seqs {
		w = max(w, len(s.Sequence))
	}
	return w
}
