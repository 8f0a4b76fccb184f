// Package land defines the abstract range-set collaborator interface
// ("Land") shared by the Failover composite and its concrete primary and
// secondary collaborators: a half-open address range, the vocabulary for
// locating and mutating a set of disjoint ranges, and the error taxonomy
// operations return.
package land

import (
	"fmt"

	"github.com/bryanchance/mps/internal/errkind"
)

// Addr is a machine address within the range space a Land manages.
type Addr uintptr

// Range is a half-open interval [Base, Limit) of addresses. Empty iff
// Base == Limit.
type Range struct {
	Base  Addr
	Limit Addr
}

// NewRange constructs a Range, panicking if Base > Limit — an invalid
// range is always a caller bug, never a runtime condition to recover
// from.
func NewRange(base, limit Addr) Range {
	if base > limit {
		panic(errkind.InvalidRange(uintptr(base), uintptr(limit)))
	}

	return Range{Base: base, Limit: limit}
}

// Empty reports whether the range covers no addresses.
func (r Range) Empty() bool {
	return r.Base == r.Limit
}

// Size returns the number of bytes the range covers.
func (r Range) Size() uintptr {
	return uintptr(r.Limit - r.Base)
}

// Contains reports whether other is entirely within r.
func (r Range) Contains(other Range) bool {
	return other.Base >= r.Base && other.Limit <= r.Limit
}

// Overlaps reports whether r and other share any address.
func (r Range) Overlaps(other Range) bool {
	return r.Base < other.Limit && other.Base < r.Limit
}

// Adjacent reports whether r and other are disjoint but share a boundary,
// i.e. could coalesce into a single range.
func (r Range) Adjacent(other Range) bool {
	return r.Limit == other.Base || other.Limit == r.Base
}

// Union returns the smallest range covering both r and other. Callers
// must ensure the two ranges are adjacent or overlapping; Union of two
// disjoint, non-adjacent ranges silently spans the gap between them.
func (r Range) Union(other Range) Range {
	base := r.Base
	if other.Base < base {
		base = other.Base
	}

	limit := r.Limit
	if other.Limit > limit {
		limit = other.Limit
	}

	return Range{Base: base, Limit: limit}
}

func (r Range) String() string {
	return fmt.Sprintf("[%d, %d)", r.Base, r.Limit)
}
