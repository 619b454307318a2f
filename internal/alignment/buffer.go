package alignment

import (
	"bytes"
	"io"
	"log/slog"
	"slices"

	"github.com/aria-lang/isoflow-go/internal/interval"
	"github.com/aria-lang/isoflow-go/internal/isoform"
	"github.com/aria-lang/isoflow-go/internal/metrics"
)

const gapChar = '-'

// Lookup resolves an isoform id to its declared record and names the
// canonical isoform whose numbering every edit uses.
type Lookup interface {
	Isoform(id string) (isoform.Isoform, bool)
	Canonical() (isoform.Isoform, bool)
}

type singleLookup struct{ iso isoform.Isoform }

func (s singleLookup) Isoform(id string) (isoform.Isoform, bool) {
	if id == s.iso.ID {
		return s.iso, true
	}
	return isoform.Isoform{}, false
}

func (s singleLookup) Canonical() (isoform.Isoform, bool) {
	return s.iso, s.iso.Canonical
}

// Buffer is the mutable alignment state of one isoform: its sequence,
// which only ever grows by gap characters, and the features recorded on it.
// A Buffer is not safe for concurrent use.
type Buffer struct {
	id       string
	lookup   Lookup
	residues int
	seq      []byte
	features []Feature
	applied  map[string]struct{}
	logger   *slog.Logger
}

// NewBuffer seeds a buffer with the raw sequence of iso and a single
// sequence feature spanning it. The lookup resolves the buffer's own
// declared edits; when nil, only iso itself is resolvable.
func NewBuffer(iso isoform.Isoform, lookup Lookup, logger *slog.Logger) *Buffer {
	if lookup == nil {
		lookup = singleLookup{iso: iso}
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	b := &Buffer{
		id:       iso.ID,
		lookup:   lookup,
		residues: len(iso.Sequence),
		seq:      []byte(iso.Sequence),
		applied:  make(map[string]struct{}),
		logger:   logger.With("buffer", iso.ID),
	}
	b.features = append(b.features, Feature{Start: 1, End: len(iso.Sequence), Type: TypeSequence})
	return b
}

// ID returns the id of the isoform the buffer represents.
func (b *Buffer) ID() string { return b.id }

// Sequence returns the current gapped sequence.
func (b *Buffer) Sequence() string { return string(b.seq) }

// Len returns the current sequence length.
func (b *Buffer) Len() int { return len(b.seq) }

// Features returns a copy of the recorded features in append order.
func (b *Buffer) Features() []Feature { return slices.Clone(b.features) }

// GapLength sums the lengths of all gap features.
func (b *Buffer) GapLength() int {
	n := 0
	for _, f := range b.features {
		if f.Type.IsGap() {
			n += f.Length()
		}
	}
	return n
}

// Consistent reports whether the sequence length equals the raw residue
// count plus every recorded gap.
func (b *Buffer) Consistent() bool {
	return len(b.seq) == b.residues+b.GapLength() &&
		bytes.Count(b.seq, []byte{gapChar}) == b.GapLength()
}

// Apply replays one edit declared by the isoform ownerID against this
// buffer. Applying the same edit for the same owner again is a no-op.
// Edits that cannot be placed are logged and dropped.
func (b *Buffer) Apply(edit isoform.Edit, ownerID string) {
	if !edit.Valid() {
		b.drop(edit, ownerID, metrics.ReasonMalformed)
		return
	}
	if c, ok := b.lookup.Canonical(); ok && edit.End > len(c.Sequence) {
		b.drop(edit, ownerID, metrics.ReasonOutOfRange)
		return
	}

	key := ownerID + "/" + edit.Key()
	if _, done := b.applied[key]; done {
		return
	}
	b.applied[key] = struct{}{}

	if edit.IsDeletion() {
		b.applyDeletion(edit, ownerID)
		return
	}
	b.applyInsertion(edit, ownerID)
}

func (b *Buffer) applyDeletion(edit isoform.Edit, ownerID string) {
	// Other isoforms never had the removed residues.
	if ownerID != b.id {
		return
	}

	moved := b.shift(edit.Begin, false)
	sub := len(edit.Substitution)
	at := edit.Begin + moved + sub - 1
	if at < 0 || at > len(b.seq) {
		b.drop(edit, ownerID, metrics.ReasonOutOfRange)
		return
	}

	if sub > 0 {
		b.addFeature(Feature{
			Start:      edit.Begin + moved,
			End:        edit.Begin + moved + sub - 1,
			Type:       TypeMismatch,
			MovedStart: moved,
		})
	}
	if b.insertGap(at, edit.Length()-sub, TypeGapDeletion, moved) {
		metrics.EditsApplied.WithLabelValues("deletion").Inc()
	}
}

func (b *Buffer) applyInsertion(edit isoform.Edit, ownerID string) {
	growth := edit.Growth()
	covered := b.coveredAt(edit.Begin)
	if growth > 0 && covered >= growth {
		return
	}

	if ownerID == b.id {
		// The raw sequence already carries the inserted residues.
		if len(edit.Substitution) <= edit.Length() {
			moved := b.shift(edit.Begin, false)
			end := edit.Begin + moved + edit.Length() - 1
			if edit.Begin+moved < 1 || end > len(b.seq) {
				b.drop(edit, ownerID, metrics.ReasonOutOfRange)
				return
			}
			if b.addFeature(Feature{Start: edit.Begin + moved, End: end, Type: TypeMismatch, MovedStart: moved}) {
				metrics.EditsApplied.WithLabelValues("mismatch").Inc()
			}
		}
		return
	}

	if growth <= 0 {
		return
	}
	self, _ := b.lookup.Isoform(b.id)
	if self.Declares(edit) {
		return
	}
	b.reconcile(edit, ownerID, self, growth-covered)
}

// reconcile pads this buffer for the growth of edit that is not already
// represented, splitting it against the buffer isoform's own overlapping
// edits: a prefix before an own edit becomes a gap, a shared middle becomes a
// mismatch, and own growth at the same locus absorbs columns.
func (b *Buffer) reconcile(edit isoform.Edit, ownerID string, self isoform.Isoform, needed int) {
	var lefts []interval.Interval
	for _, own := range self.Edits {
		if !own.Valid() || own.IsDeletion() || !own.Overlaps(edit) {
			continue
		}
		o := interval.Reconcile(own, edit)
		if own.Begin == edit.Begin {
			needed -= own.Growth()
		}
		if o.Intersection.Valid() && o.Intersection.Length() > 0 {
			moved := b.shift(o.Intersection.Begin, false)
			start := o.Intersection.Begin + moved
			end := start + o.Intersection.Length() - 1
			if start >= 1 && end <= len(b.seq) {
				b.addFeature(Feature{Start: start, End: end, Type: TypeMismatch, MovedStart: moved})
			}
		}
		if o.Left.Valid() {
			lefts = append(lefts, o.Left)
		}
	}
	if needed <= 0 {
		return
	}

	moved := b.shift(edit.Begin, true) - b.hidden(edit.Begin)
	at := edit.Begin + moved
	if at < 0 || at > len(b.seq) {
		b.drop(edit, ownerID, metrics.ReasonOutOfRange)
		return
	}

	for _, left := range lefts {
		if needed <= 0 {
			break
		}
		n := min(left.Length(), needed)
		if b.insertGap(at, n, TypeGap, moved) {
			needed -= n
			at += n
			moved += n
		}
	}
	if needed > 0 && b.insertGap(at, needed, TypeGapInsertion, moved) {
		metrics.EditsApplied.WithLabelValues("insertion").Inc()
	}
}

// shift returns how many columns this buffer has gained, relative to the
// canonical numbering, before canonical position pos. Own edits ending
// before pos contribute their growth, deletion gaps contribute once the
// deleted span ends before pos, and insertion gaps contribute once anchored
// before pos. With through set, insertion gaps anchored at pos count too.
func (b *Buffer) shift(pos int, through bool) int {
	n := 0
	if self, ok := b.lookup.Isoform(b.id); ok {
		seen := make(map[string]bool, len(self.Edits))
		for _, own := range self.Edits {
			if !own.Valid() || own.End >= pos || seen[own.Key()] {
				continue
			}
			seen[own.Key()] = true
			n += own.Growth()
		}
	}
	for _, f := range b.features {
		switch {
		case f.Type == TypeGapDeletion:
			if f.OriginEnd() < pos {
				n += f.Length()
			}
		case f.Type.isInsertionGap():
			if a := f.anchor(); a < pos || (through && a == pos) {
				n += f.Length()
			}
		}
	}
	return n
}

// hidden counts the canonical positions up to and including pos that fall
// inside one of this buffer's own deletions. Gaps for another
// isoform's insertion inside a deleted span are placed where the span
// starts, so residues after the span keep their columns.
func (b *Buffer) hidden(pos int) int {
	self, ok := b.lookup.Isoform(b.id)
	if !ok {
		return 0
	}
	n := 0
	seen := make(map[string]bool, len(self.Edits))
	for _, own := range self.Edits {
		if !own.Valid() || !own.IsDeletion() || seen[own.Key()] {
			continue
		}
		seen[own.Key()] = true
		if first := own.Begin + len(own.Substitution); first <= pos && pos <= own.End {
			n += pos - first + 1
		}
	}
	return n
}

// coveredAt sums the insertion gap columns already anchored at pos.
func (b *Buffer) coveredAt(pos int) int {
	n := 0
	for _, f := range b.features {
		if f.Type.isInsertionGap() && f.anchor() == pos {
			n += f.Length()
		}
	}
	return n
}

// insertGap splices n gap characters after the first at bytes and records
// the feature. A structurally equal feature suppresses the whole splice.
func (b *Buffer) insertGap(at, n int, typ FeatureType, moved int) bool {
	if n <= 0 {
		return false
	}
	f := Feature{Start: at + 1, End: at + n, Type: typ, MovedStart: moved}
	if b.hasFeature(f) {
		return false
	}
	b.seq = slices.Insert(b.seq, at, bytes.Repeat([]byte{gapChar}, n)...)
	b.features = append(b.features, f)
	return true
}

func (b *Buffer) addFeature(f Feature) bool {
	if b.hasFeature(f) {
		return false
	}
	b.features = append(b.features, f)
	return true
}

func (b *Buffer) hasFeature(f Feature) bool {
	return slices.ContainsFunc(b.features, f.Equal)
}

func (b *Buffer) drop(edit isoform.Edit, ownerID, reason string) {
	metrics.EditsDropped.WithLabelValues(reason).Inc()
	b.logger.Warn("edit dropped",
		"reason", reason,
		"owner", ownerID,
		"edit", edit.ID,
		"begin", edit.Begin,
		"end", edit.End,
		"length", len(b.seq),
	)
}
