// Package blockset implements a small indexed, coalescing range set: the
// Failover composite's primary collaborator. It keeps ranges sorted by
// base address, merges newly-inserted ranges with touching neighbours,
// and — crucially for exercising the Failover — can run out of room to
// represent new structure via a bounded internal/nodealloc.Allocator even
// though the address space it manages is far from full.
//
// This is a deliberately minimal stand-in for a production coalescing
// block set (the real thing is treated as an external collaborator);
// it exists to drive the Failover's spill and recovery paths with real,
// observable exhaustion rather than a hand-wired mock.
package blockset

import (
	"fmt"
	"io"
	"sort"

	"github.com/cockroachdb/errors"

	"github.com/bryanchance/mps/internal/errkind"
	"github.com/bryanchance/mps/internal/nodealloc"
	"github.com/bryanchance/mps/land"
)

type entry struct {
	r   land.Range
	tok nodealloc.Token
}

// Set is a coalescing, base-address-sorted range set bounded by a node
// allocator.
type Set struct {
	alloc     *nodealloc.Allocator
	entries   []entry
	zoneShift uint
}

// Option configures a Set at construction.
type Option func(*Set)

// WithZoneShift sets the number of low address bits FindInZones ignores
// when computing a range's zone. Defaults to 20 (1MiB zones), matching
// the scale a typical arena's sizing uses.
func WithZoneShift(shift uint) Option {
	return func(s *Set) { s.zoneShift = shift }
}

// New creates a Set whose structural capacity is bounded by alloc. A nil
// alloc is treated as unbounded (nodealloc.New(nodealloc.Config{})).
func New(alloc *nodealloc.Allocator, opts ...Option) *Set {
	if alloc == nil {
		alloc = nodealloc.New(nodealloc.Config{})
	}

	s := &Set{alloc: alloc, zoneShift: 20}
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Size returns the total bytes covered by the set.
func (s *Set) Size() uintptr {
	var total uintptr
	for _, e := range s.entries {
		total += e.r.Size()
	}

	return total
}

// search returns the index of the first entry whose Base is >= base.
func (s *Set) search(base land.Addr) int {
	return sort.Search(len(s.entries), func(i int) bool {
		return s.entries[i].r.Base >= base
	})
}

// findContaining returns the index of the entry containing r, or -1.
func (s *Set) findContaining(r land.Range) int {
	i := s.search(r.Base)
	// r.Base may fall inside the entry immediately before the search
	// result if it's not itself an entry's base.
	if i < len(s.entries) && s.entries[i].r.Base == r.Base {
		if s.entries[i].r.Contains(r) {
			return i
		}
	}

	if i > 0 {
		if s.entries[i-1].r.Contains(r) {
			return i - 1
		}
	}

	return -1
}

// Insert adds r, coalescing with touching neighbours and consuming a
// metadata token only when a genuinely new entry is required.
func (s *Set) Insert(r land.Range) (land.Range, land.Result) {
	if r.Empty() {
		return r, land.Fail()
	}

	i := s.search(r.Base)

	// Overlap with the entry that would precede or follow r is a
	// semantic refusal, not a resource problem.
	if i < len(s.entries) && r.Overlaps(s.entries[i].r) {
		return r, land.Fail()
	}

	if i > 0 && r.Overlaps(s.entries[i-1].r) {
		return r, land.Fail()
	}

	leftAdj := i > 0 && s.entries[i-1].r.Adjacent(r)
	rightAdj := i < len(s.entries) && r.Adjacent(s.entries[i].r)

	switch {
	case leftAdj && rightAdj:
		merged := s.entries[i-1].r.Union(r).Union(s.entries[i].r)
		s.alloc.Free(s.entries[i].tok)
		s.entries[i-1].r = merged
		s.entries = append(s.entries[:i], s.entries[i+1:]...)

		return merged, land.Ok()
	case leftAdj:
		merged := s.entries[i-1].r.Union(r)
		s.entries[i-1].r = merged

		return merged, land.Ok()
	case rightAdj:
		merged := r.Union(s.entries[i].r)
		s.entries[i].r = merged

		return merged, land.Ok()
	default:
		tok := s.alloc.Alloc()
		if tok == 0 {
			return r, land.Alloc()
		}

		s.entries = append(s.entries, entry{})
		copy(s.entries[i+1:], s.entries[i:])
		s.entries[i] = entry{r: r, tok: tok}

		return r, land.Ok()
	}
}

// InsertSteal behaves like Insert but always resolves to OK or FAIL: a
// metadata shortfall here is reported as FAIL rather than AllocFailure
// because steal callers are expected to supply ranges that
// coalesce with existing structure rather than grow it.
func (s *Set) InsertSteal(r *land.Range) land.Result {
	_, res := s.Insert(*r)
	if res.Code == land.AllocFailure {
		return land.Fail()
	}

	return res
}

// Delete removes r, splitting the containing entry's range into zero,
// one, or two fragments. Splitting into two fragments requires a second
// metadata token; if none is available the set is left completely
// unchanged and AllocFailure is returned, matching the all-or-nothing
// shape the Failover's recovery logic depends on.
func (s *Set) Delete(r land.Range) (land.Range, land.Result) {
	idx := s.findContaining(r)
	if idx < 0 {
		return land.Range{}, land.Fail()
	}

	old := s.entries[idx].r
	left := land.Range{Base: old.Base, Limit: r.Base}
	right := land.Range{Base: r.Limit, Limit: old.Limit}

	switch {
	case left.Empty() && right.Empty():
		s.alloc.Free(s.entries[idx].tok)
		s.entries = append(s.entries[:idx], s.entries[idx+1:]...)
	case left.Empty():
		s.entries[idx].r = right
	case right.Empty():
		s.entries[idx].r = left
	default:
		tok := s.alloc.Alloc()
		if tok == 0 {
			return old, land.Alloc()
		}

		s.entries[idx].r = left
		s.entries = append(s.entries, entry{})
		copy(s.entries[idx+2:], s.entries[idx+1:])
		s.entries[idx+1] = entry{r: right, tok: tok}
	}

	return old, land.Ok()
}

// DeleteSteal deletes r as Delete does, with no fragment-recovery path: an
// AllocFailure from Delete (set left unchanged) is reported as FAIL.
func (s *Set) DeleteSteal(r *land.Range) land.Result {
	_, res := s.Delete(*r)
	if res.Code == land.AllocFailure {
		return land.Fail()
	}

	return res
}

// Iterate visits every range in base-address order.
func (s *Set) Iterate(v land.Visitor) bool {
	for _, e := range s.entries {
		if !v(e.r) {
			return false
		}
	}

	return true
}

// applyFindDelete mutates the entry at idx per fd and returns the range to
// report as found. Shrinking or fully removing an entry never needs a new
// token, so this never fails.
func (s *Set) applyFindDelete(idx int, size uintptr, fd land.FindDelete) land.Range {
	e := s.entries[idx].r

	switch fd {
	case land.FindDeleteNone:
		return e
	case land.FindDeleteEntire:
		s.alloc.Free(s.entries[idx].tok)
		s.entries = append(s.entries[:idx], s.entries[idx+1:]...)

		return e
	case land.FindDeleteLow:
		found := land.Range{Base: e.Base, Limit: e.Base + land.Addr(size)}
		remaining := land.Range{Base: found.Limit, Limit: e.Limit}

		if remaining.Empty() {
			s.alloc.Free(s.entries[idx].tok)
			s.entries = append(s.entries[:idx], s.entries[idx+1:]...)
		} else {
			s.entries[idx].r = remaining
		}

		return found
	case land.FindDeleteHigh:
		found := land.Range{Base: e.Limit - land.Addr(size), Limit: e.Limit}
		remaining := land.Range{Base: e.Base, Limit: found.Base}

		if remaining.Empty() {
			s.alloc.Free(s.entries[idx].tok)
			s.entries = append(s.entries[:idx], s.entries[idx+1:]...)
		} else {
			s.entries[idx].r = remaining
		}

		return found
	default:
		return e
	}
}

// FindFirst locates the lowest-base entry of at least size bytes.
func (s *Set) FindFirst(size uintptr, fd land.FindDelete) (land.Outcome, land.Result) {
	for i := range s.entries {
		if s.entries[i].r.Size() >= size {
			old := s.entries[i].r
			found := s.applyFindDelete(i, size, fd)

			return land.Outcome{Found: true, Range: found, Old: old}, land.Ok()
		}
	}

	return land.Outcome{}, land.Fail()
}

// FindLast locates the highest-base entry of at least size bytes.
func (s *Set) FindLast(size uintptr, fd land.FindDelete) (land.Outcome, land.Result) {
	for i := len(s.entries) - 1; i >= 0; i-- {
		if s.entries[i].r.Size() >= size {
			old := s.entries[i].r
			found := s.applyFindDelete(i, size, fd)

			return land.Outcome{Found: true, Range: found, Old: old}, land.Ok()
		}
	}

	return land.Outcome{}, land.Fail()
}

// FindLargest locates the largest entry of at least size bytes, breaking
// ties toward the lowest base address.
func (s *Set) FindLargest(size uintptr, fd land.FindDelete) (land.Outcome, land.Result) {
	best := -1

	for i := range s.entries {
		if s.entries[i].r.Size() < size {
			continue
		}

		if best < 0 || s.entries[i].r.Size() > s.entries[best].r.Size() {
			best = i
		}
	}

	if best < 0 {
		return land.Outcome{}, land.Fail()
	}

	old := s.entries[best].r
	found := s.applyFindDelete(best, size, fd)

	return land.Outcome{Found: true, Range: found, Old: old}, land.Ok()
}

// FindInZones locates an entry of at least size bytes whose base address
// zone is a member of zones, scanning from the high end of the address
// space when high is set. Unlike the other Find methods, a miss is OK
// with Outcome.Found false rather than FAIL: this method reports whether
// the set itself is broken, not whether a match exists.
func (s *Set) FindInZones(size uintptr, zones land.ZoneSet, high bool) (land.Outcome, land.Result) {
	scan := func(i int) (land.Outcome, bool) {
		e := s.entries[i].r
		if e.Size() < size {
			return land.Outcome{}, false
		}

		if !zones.Has(land.ZoneOf(e.Base, s.zoneShift)) {
			return land.Outcome{}, false
		}

		old := e
		found := s.applyFindDelete(i, size, land.FindDeleteNone)

		return land.Outcome{Found: true, Range: found, Old: old}, true
	}

	if high {
		for i := len(s.entries) - 1; i >= 0; i-- {
			if out, ok := scan(i); ok {
				return out, land.Ok()
			}
		}
	} else {
		for i := range s.entries {
			if out, ok := scan(i); ok {
				return out, land.Ok()
			}
		}
	}

	return land.Outcome{Found: false}, land.Ok()
}

// Flush migrates as many ranges from s into target as target will accept,
// removing from s exactly the ranges target admits.
func (s *Set) Flush(target land.Land) land.Result {
	remaining := s.entries[:0]

	for _, e := range s.entries {
		_, res := target.Insert(e.r)
		if res.Success() {
			s.alloc.Free(e.tok)
			continue
		}

		remaining = append(remaining, e)
	}

	s.entries = remaining

	return land.Ok()
}

// Describe writes a one-line diagnostic summary of the set.
func (s *Set) Describe(w io.Writer, depth int) land.Result {
	if w == nil {
		return land.ParamErr(errors.Wrap(errkind.NilStream(), "blockset.Describe"))
	}

	indent := fmt.Sprintf("%*s", depth, "")
	_, err := fmt.Fprintf(w, "%sblockset.Set (%d entries, %d bytes)\n", indent, len(s.entries), s.Size())

	if err != nil {
		return land.UnknownErr(err, "blockset.Describe")
	}

	return land.Ok()
}
