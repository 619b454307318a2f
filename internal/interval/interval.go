// Package interval provides range geometry used to reconcile an incoming
// edit against an edit already declared by the same isoform.
package interval

import (
	"fmt"

	"github.com/aria-lang/isoflow-go/internal/isoform"
)

// Interval is a [Begin, End] range. Both bounds are -1 when unset.
type Interval struct {
	Begin int `json:"begin"`
	End   int `json:"end"`
}

// Unset is the invalid interval.
var Unset = Interval{Begin: -1, End: -1}

// New returns the interval [begin, end].
func New(begin, end int) Interval {
	return Interval{Begin: begin, End: end}
}

// Valid reports whether both bounds are positive.
func (i Interval) Valid() bool {
	return i.Begin > 0 && i.End > 0
}

// Length is End - Begin.
func (i Interval) Length() int {
	return i.End - i.Begin
}

func (i Interval) String() string {
	if !i.Valid() {
		return "[unset]"
	}
	return fmt.Sprintf("[%d, %d]", i.Begin, i.End)
}

// LeftOverlap is the part of b that starts before a begins.
func LeftOverlap(a, b isoform.Edit) Interval {
	if b.Begin < a.Begin && b.End > b.Begin {
		return New(b.Begin, a.Begin)
	}
	return Unset
}

// Intersection is the range shared by the real extents of a and b.
func Intersection(a, b isoform.Edit) Interval {
	begin := max(a.Begin, b.Begin)
	end := min(a.RealEnd(), b.RealEnd())
	if end < begin {
		return Unset
	}
	return New(begin, end)
}

// RightOverlap is the part of b that extends past the end of a.
func RightOverlap(a, b isoform.Edit) Interval {
	if b.End > a.End && b.Begin < a.End {
		return New(a.End, b.End)
	}
	return Unset
}

// Overlap partitions b relative to a: prefix, shared middle and suffix.
type Overlap struct {
	Left         Interval
	Intersection Interval
	Right        Interval
}

// Reconcile computes all three parts of b relative to a.
func Reconcile(a, b isoform.Edit) Overlap {
	return Overlap{
		Left:         LeftOverlap(a, b),
		Intersection: Intersection(a, b),
		Right:        RightOverlap(a, b),
	}
}
