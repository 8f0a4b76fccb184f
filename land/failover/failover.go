// Package failover implements the Failover Land: a composite range-set
// collaborator presenting the union of a primary and secondary Land, with
// spill-on-insert and split-on-delete recovery when the primary cannot
// represent a mutation due to its own metadata exhaustion.
//
// The composition shape follows a size-classed pool falling back to a
// system allocator: this Failover falls back from its primary to its
// secondary the same way. The capacity-bounded, all-or-nothing mutation
// shape follows a bump allocator that returns nil rather than partially
// committing an allocation once its backing buffer is exhausted.
package failover

import (
	"fmt"
	"io"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/bryanchance/mps/internal/errkind"
	"github.com/bryanchance/mps/internal/metrics"
	"github.com/bryanchance/mps/land"
)

// Args names the Failover's two required collaborators.
type Args struct {
	Primary   land.Land
	Secondary land.Land
}

// Failover composes a primary and secondary land.Land into a single
// range-set interface whose semantics are their union.
type Failover struct {
	alignment uintptr
	primary   land.Land
	secondary land.Land

	metrics  *metrics.Recorder
	clock    func() int64
	lastOpAt int64
	finished bool
}

// New constructs a Failover over the given alignment and collaborators.
// Both Args.Primary and Args.Secondary are required.
func New(alignment uintptr, args Args, opts ...Option) (*Failover, error) {
	if args.Primary == nil {
		return nil, errkind.NilCollaborator("primary")
	}

	if args.Secondary == nil {
		return nil, errkind.NilCollaborator("secondary")
	}

	f := &Failover{
		alignment: alignment,
		primary:   args.Primary,
		secondary: args.Secondary,
		clock:     func() int64 { return 0 },
	}

	for _, opt := range opts {
		opt(f)
	}

	return f, nil
}

// Alignment returns the configured alignment, passed through to the base
// Land.
func (f *Failover) Alignment() uintptr { return f.alignment }

// LastOperationAt returns the clock reading captured at the start of the
// most recent mutating operation; it is 0 until the first such call.
func (f *Failover) LastOperationAt() int64 { return f.lastOpAt }

// Finish invalidates the Failover. Children are not touched — ownership
// reverts to whoever constructed them, unreleased by this call.
func (f *Failover) Finish() {
	f.checkAlive()
	f.finished = true
}

func (f *Failover) checkAlive() {
	if f.finished {
		panic(errors.AssertionFailedf("failover: operation on a finished Failover"))
	}
}

func (f *Failover) touch() { f.lastOpAt = f.clock() }

// drain flushes the secondary into the primary, maximizing coalescence
// before most reads and writes. A flush that cannot fully drain the
// secondary (because the primary's metadata is exhausted) is not an
// error — residue simply remains in the secondary.
func (f *Failover) drain() {
	f.secondary.Flush(f.primary) //nolint:errcheck // best-effort by design
}

func (f *Failover) syncGauges() {
	if f.metrics == nil {
		return
	}

	f.metrics.SetFreeBytes(f.primary.Size(), f.secondary.Size())
}

// Size returns primary.Size() + secondary.Size(). Overflow is a caller
// precondition violation (the two sets must be disjoint in address), not
// a condition this method guards against.
func (f *Failover) Size() uintptr {
	f.checkAlive()

	return f.primary.Size() + f.secondary.Size()
}

// Insert adds r, preferring the primary and spilling to the secondary
// only when the primary reports something other than OK or FAIL.
func (f *Failover) Insert(r land.Range) (land.Range, land.Result) {
	f.checkAlive()
	f.touch()
	f.drain()

	inserted, res := f.primary.Insert(r)
	if !res.Recoverable() {
		f.metrics.ObserveInsert(false, res.Code.String())
		f.syncGauges()

		return inserted, res
	}

	f.metrics.ObserveSpill()

	inserted, res = f.secondary.Insert(r)
	f.metrics.ObserveInsert(true, res.Code.String())
	f.syncGauges()

	return inserted, res
}

// InsertSteal consults only the primary; the caller guarantees r came
// from the primary's own vicinity. Always resolves to OK or FAIL.
func (f *Failover) InsertSteal(r *land.Range) land.Result {
	f.checkAlive()
	f.touch()
	f.drain()

	res := f.primary.InsertSteal(r)
	f.metrics.ObserveInsert(false, res.Code.String())
	f.syncGauges()

	return res
}

// Delete removes r. A plain miss (FAIL) on the primary is delegated to
// the secondary. A primary hit that cannot be represented after removal
// (AllocFailure) is recovered by deleting the whole containing range from
// the primary and re-inserting its non-empty fragments directly into a
// child, bypassing Failover.Insert to avoid re-entering either Land
// (re-entering a child mid-operation is a hazard this avoids).
func (f *Failover) Delete(r land.Range) (land.Range, land.Result) {
	f.checkAlive()
	f.touch()
	f.drain()

	old, res := f.primary.Delete(r)

	switch res.Code {
	case land.FAIL:
		old, res = f.secondary.Delete(r)
		f.metrics.ObserveDelete(true, res.Code.String())
		f.syncGauges()

		return old, res
	case land.OK:
		f.metrics.ObserveDelete(false, res.Code.String())
		f.syncGauges()

		return old, res
	case land.AllocFailure:
		out, outRes := f.recoverDelete(r, old)
		f.syncGauges()

		return out, outRes
	default:
		// Unexpected child kind: surfaced verbatim.
		f.metrics.ObserveDelete(false, res.Code.String())
		f.syncGauges()

		return old, res
	}
}

// recoverDelete handles the case where the primary found the containing
// range but could not represent the residual fragments after removing it.
func (f *Failover) recoverDelete(r, old land.Range) (land.Range, land.Result) {
	if !old.Contains(r) {
		panic(errors.AssertionFailedf("failover: primary reported containing range %s that does not contain deleted range %s", old, r))
	}

	if _, delRes := f.primary.Delete(old); !delRes.Success() {
		// This delete only releases metadata (no split is needed to
		// remove an entire existing range) and is expected to always
		// succeed; a failure here is the child's own invariant
		// violation, propagated rather than asserted.
		return old, delRes
	}

	left := land.Range{Base: old.Base, Limit: r.Base}
	right := land.Range{Base: r.Limit, Limit: old.Limit}

	for _, frag := range [...]land.Range{left, right} {
		if frag.Empty() {
			continue
		}

		if _, res := f.primary.Insert(frag); res.Success() {
			continue
		}

		if _, res := f.secondary.Insert(frag); !res.Success() {
			panic(errors.AssertionFailedf(
				"failover: secondary refused recovered fragment %s during delete recovery: %s", frag, res))
		}
	}

	f.metrics.ObserveRecover()
	f.metrics.ObserveDelete(false, land.OK.String())

	return old, land.Ok()
}

// DeleteSteal tries the primary then the secondary, with no
// fragment-recovery path: the caller tolerates "delete exactly what is
// there." Always resolves to OK or FAIL.
func (f *Failover) DeleteSteal(r *land.Range) land.Result {
	f.checkAlive()
	f.touch()
	f.drain()

	if res := f.primary.DeleteSteal(r); res.Success() {
		f.metrics.ObserveDelete(false, res.Code.String())
		f.syncGauges()

		return res
	}

	res := f.secondary.DeleteSteal(r)
	f.metrics.ObserveDelete(true, res.Code.String())
	f.syncGauges()

	return res
}

// Iterate visits every range in the primary, then every range in the
// secondary, regardless of whether the visitor asked to stop during the
// first pass; the return value is the conjunction of both passes'
// continuation flags. Visitors must tolerate the seam between the two
// children carrying no particular interleaving.
func (f *Failover) Iterate(v land.Visitor) bool {
	f.checkAlive()

	c1 := f.primary.Iterate(v)
	c2 := f.secondary.Iterate(v)

	return c1 && c2
}

// FindFirst flushes, then tries the primary before the secondary.
func (f *Failover) FindFirst(size uintptr, fd land.FindDelete) (land.Outcome, land.Result) {
	return f.find(size, fd, land.Land.FindFirst)
}

// FindLast flushes, then tries the primary before the secondary.
func (f *Failover) FindLast(size uintptr, fd land.FindDelete) (land.Outcome, land.Result) {
	return f.find(size, fd, land.Land.FindLast)
}

// FindLargest flushes, then tries the primary before the secondary.
func (f *Failover) FindLargest(size uintptr, fd land.FindDelete) (land.Outcome, land.Result) {
	return f.find(size, fd, land.Land.FindLargest)
}

type findMethod func(land.Land, uintptr, land.FindDelete) (land.Outcome, land.Result)

func (f *Failover) find(size uintptr, fd land.FindDelete, method findMethod) (land.Outcome, land.Result) {
	f.checkAlive()
	f.drain()

	out, res := method(f.primary, size, fd)
	if res.Success() {
		f.syncGauges()

		return out, res
	}

	out, res = method(f.secondary, size, fd)
	f.syncGauges()

	return out, res
}

// FindInZones flushes, then tries the primary before the secondary. Its
// found flag is always the servicing child's found flag, and its result
// code is OK unless that child itself reported a non-OK code — this
// differs from the other Find methods' FAIL-means-not-found convention,
// unlike the other Find methods, whose miss convention is FAIL.
func (f *Failover) FindInZones(size uintptr, zones land.ZoneSet, high bool) (land.Outcome, land.Result) {
	f.checkAlive()
	f.drain()

	out, res := f.primary.FindInZones(size, zones, high)
	if res.Code == land.OK && out.Found {
		f.syncGauges()

		return out, res
	}

	out, res = f.secondary.FindInZones(size, zones, high)
	f.syncGauges()

	if res.Code != land.OK {
		return land.Outcome{Found: out.Found}, res
	}

	return out, land.Ok()
}

// Flush migrates both children's contents into target, best-effort.
func (f *Failover) Flush(target land.Land) land.Result {
	f.checkAlive()

	if res := f.primary.Flush(target); !res.Success() {
		return res
	}

	return f.secondary.Flush(target)
}

// Describe writes a two-line diagnostic record naming each child.
func (f *Failover) Describe(w io.Writer, depth int) land.Result {
	f.checkAlive()

	if w == nil {
		return land.ParamErr(errors.Wrap(errkind.NilStream(), "failover.Describe"))
	}

	indent := strings.Repeat(" ", depth+2)

	if _, err := fmt.Fprintf(w, "%sprimary = %p (%T)\n", indent, f.primary, f.primary); err != nil {
		return land.UnknownErr(err, "failover.Describe")
	}

	if _, err := fmt.Fprintf(w, "%ssecondary = %p (%T)\n", indent, f.secondary, f.secondary); err != nil {
		return land.UnknownErr(err, "failover.Describe")
	}

	return land.Ok()
}
