// Package freelist implements the Failover composite's secondary
// collaborator: an unordered, allocation-free range set. Ranges are not
// coalesced on insert — that's the primary's job once the Failover's
// drain policy flushes this set into it — and unlike blockset this set's
// own Insert never reports AllocFailure: the secondary is constructed so
// it never needs fresh metadata allocation to admit a range that already
// represents free memory. Go slice growth is itself an allocation, so
// this is an approximation; this package closes the gap with a
// pre-reserved capacity hint rather than pretending it doesn't exist.
package freelist

import (
	"fmt"
	"io"

	"github.com/cockroachdb/errors"

	"github.com/bryanchance/mps/internal/errkind"
	"github.com/bryanchance/mps/land"
)

// List is an unordered, allocation-free range set.
type List struct {
	ranges []land.Range
}

// Option configures a List at construction.
type Option func(*List)

// WithCapacityHint pre-reserves capacity for n ranges, sized to the
// largest block set this List is expected to backstop.
func WithCapacityHint(n int) Option {
	return func(l *List) { l.ranges = make([]land.Range, 0, n) }
}

// New creates an empty List.
func New(opts ...Option) *List {
	l := &List{}
	for _, opt := range opts {
		opt(l)
	}

	return l
}

// Size returns the total bytes covered by the list.
func (l *List) Size() uintptr {
	var total uintptr
	for _, r := range l.ranges {
		total += r.Size()
	}

	return total
}

func (l *List) indexContaining(r land.Range) int {
	for i, existing := range l.ranges {
		if existing.Contains(r) {
			return i
		}
	}

	return -1
}

func (l *List) overlapsAny(r land.Range) bool {
	for _, existing := range l.ranges {
		if existing.Overlaps(r) {
			return true
		}
	}

	return false
}

func (l *List) removeAt(i int) land.Range {
	r := l.ranges[i]
	last := len(l.ranges) - 1
	l.ranges[i] = l.ranges[last]
	l.ranges = l.ranges[:last]

	return r
}

// Insert adds r. By contract this never returns AllocFailure: an overlap
// with an existing range is the only way to fail.
func (l *List) Insert(r land.Range) (land.Range, land.Result) {
	if r.Empty() {
		return r, land.Fail()
	}

	if l.overlapsAny(r) {
		return r, land.Fail()
	}

	l.ranges = append(l.ranges, r)

	return r, land.Ok()
}

// InsertSteal is equivalent to Insert here; the list has no internal
// representation worth stealing into.
func (l *List) InsertSteal(r *land.Range) land.Result {
	_, res := l.Insert(*r)

	return res
}

// Delete removes r, splitting its containing range into zero, one, or two
// fragments as needed. Never fails with AllocFailure.
func (l *List) Delete(r land.Range) (land.Range, land.Result) {
	idx := l.indexContaining(r)
	if idx < 0 {
		return land.Range{}, land.Fail()
	}

	old := l.removeAt(idx)
	left := land.Range{Base: old.Base, Limit: r.Base}
	right := land.Range{Base: r.Limit, Limit: old.Limit}

	if !left.Empty() {
		l.ranges = append(l.ranges, left)
	}

	if !right.Empty() {
		l.ranges = append(l.ranges, right)
	}

	return old, land.Ok()
}

// DeleteSteal deletes r's containing range entirely, with no
// fragment-recovery path.
func (l *List) DeleteSteal(r *land.Range) land.Result {
	idx := l.indexContaining(*r)
	if idx < 0 {
		return land.Fail()
	}

	l.removeAt(idx)

	return land.Ok()
}

// Iterate visits every range in unspecified order.
func (l *List) Iterate(v land.Visitor) bool {
	for _, r := range l.ranges {
		if !v(r) {
			return false
		}
	}

	return true
}

func (l *List) applyFindDelete(idx int, size uintptr, fd land.FindDelete) land.Range {
	e := l.ranges[idx]

	switch fd {
	case land.FindDeleteNone:
		return e
	case land.FindDeleteEntire:
		l.removeAt(idx)

		return e
	case land.FindDeleteLow:
		found := land.Range{Base: e.Base, Limit: e.Base + land.Addr(size)}
		remaining := land.Range{Base: found.Limit, Limit: e.Limit}

		if remaining.Empty() {
			l.removeAt(idx)
		} else {
			l.ranges[idx] = remaining
		}

		return found
	case land.FindDeleteHigh:
		found := land.Range{Base: e.Limit - land.Addr(size), Limit: e.Limit}
		remaining := land.Range{Base: e.Base, Limit: found.Base}

		if remaining.Empty() {
			l.removeAt(idx)
		} else {
			l.ranges[idx] = remaining
		}

		return found
	default:
		return e
	}
}

func (l *List) findBy(better func(candidate, current land.Range) bool, size uintptr, fd land.FindDelete) (land.Outcome, land.Result) {
	best := -1

	for i, r := range l.ranges {
		if r.Size() < size {
			continue
		}

		if best < 0 || better(r, l.ranges[best]) {
			best = i
		}
	}

	if best < 0 {
		return land.Outcome{}, land.Fail()
	}

	old := l.ranges[best]
	found := l.applyFindDelete(best, size, fd)

	return land.Outcome{Found: true, Range: found, Old: old}, land.Ok()
}

// FindFirst locates the lowest-base range of at least size bytes. The
// list is unordered, so this is a linear scan rather than a sorted
// lookup.
func (l *List) FindFirst(size uintptr, fd land.FindDelete) (land.Outcome, land.Result) {
	return l.findBy(func(c, cur land.Range) bool { return c.Base < cur.Base }, size, fd)
}

// FindLast locates the highest-base range of at least size bytes.
func (l *List) FindLast(size uintptr, fd land.FindDelete) (land.Outcome, land.Result) {
	return l.findBy(func(c, cur land.Range) bool { return c.Base > cur.Base }, size, fd)
}

// FindLargest locates the largest range of at least size bytes, breaking
// ties toward the lowest base address.
func (l *List) FindLargest(size uintptr, fd land.FindDelete) (land.Outcome, land.Result) {
	return l.findBy(func(c, cur land.Range) bool {
		if c.Size() != cur.Size() {
			return c.Size() > cur.Size()
		}

		return c.Base < cur.Base
	}, size, fd)
}

// FindInZones locates a range of at least size bytes whose base address's
// zone is a member of zones. Among the qualifying ranges it picks the one
// with the highest base address when high is set, and the lowest otherwise.
// Zones are always computed with a shift of 20. Unlike the other Find methods, a miss is OK with Outcome.Found false
// rather than FAIL.
func (l *List) FindInZones(size uintptr, zones land.ZoneSet, high bool) (land.Outcome, land.Result) {
	best := -1

	for i, r := range l.ranges {
		if r.Size() < size {
			continue
		}

		if !zones.Has(land.ZoneOf(r.Base, 20)) {
			continue
		}

		if best < 0 {
			best = i
			continue
		}

		if high {
			if r.Base > l.ranges[best].Base {
				best = i
			}
		} else if r.Base < l.ranges[best].Base {
			best = i
		}
	}

	if best < 0 {
		return land.Outcome{Found: false}, land.Ok()
	}

	old := l.ranges[best]
	found := l.applyFindDelete(best, size, land.FindDeleteNone)

	return land.Outcome{Found: true, Range: found, Old: old}, land.Ok()
}

// Flush migrates every range it can into target, leaving only the ranges
// target refused.
func (l *List) Flush(target land.Land) land.Result {
	remaining := l.ranges[:0]

	for _, r := range l.ranges {
		if _, res := target.Insert(r); !res.Success() {
			remaining = append(remaining, r)
		}
	}

	l.ranges = remaining

	return land.Ok()
}

// Describe writes a one-line diagnostic summary of the list.
func (l *List) Describe(w io.Writer, depth int) land.Result {
	if w == nil {
		return land.ParamErr(errors.Wrap(errkind.NilStream(), "freelist.Describe"))
	}

	indent := fmt.Sprintf("%*s", depth, "")
	_, err := fmt.Fprintf(w, "%sfreelist.List (%d entries, %d bytes)\n", indent, len(l.ranges), l.Size())

	if err != nil {
		return land.UnknownErr(err, "freelist.Describe")
	}

	return land.Ok()
}
