package landmock

import (
	"io"

	"github.com/cockroachdb/errors"

	"github.com/bryanchance/mps/land"
)

// BusyGuard wraps a land.Land and panics if any of its methods is entered
// while another call into the same guard is already in flight. It exists
// to test the no-re-entry invariant: the Failover's own recovery path
// must write directly to a child rather than re-entering it through
// another in-flight operation.
type BusyGuard struct {
	land.Land

	busy bool
}

// NewBusyGuard wraps inner with re-entrancy detection.
func NewBusyGuard(inner land.Land) *BusyGuard {
	return &BusyGuard{Land: inner}
}

func (g *BusyGuard) enter() {
	if g.busy {
		panic(errors.AssertionFailedf("landmock: re-entrant call detected on a busy Land"))
	}

	g.busy = true
}

func (g *BusyGuard) leave() { g.busy = false }

// Busy reports whether a call is currently in flight, for assertions made
// from outside the guarded call itself.
func (g *BusyGuard) Busy() bool { return g.busy }

func (g *BusyGuard) Size() uintptr {
	g.enter()
	defer g.leave()

	return g.Land.Size()
}

func (g *BusyGuard) Insert(r land.Range) (land.Range, land.Result) {
	g.enter()
	defer g.leave()

	return g.Land.Insert(r)
}

func (g *BusyGuard) InsertSteal(r *land.Range) land.Result {
	g.enter()
	defer g.leave()

	return g.Land.InsertSteal(r)
}

func (g *BusyGuard) Delete(r land.Range) (land.Range, land.Result) {
	g.enter()
	defer g.leave()

	return g.Land.Delete(r)
}

func (g *BusyGuard) DeleteSteal(r *land.Range) land.Result {
	g.enter()
	defer g.leave()

	return g.Land.DeleteSteal(r)
}

func (g *BusyGuard) Iterate(v land.Visitor) bool {
	g.enter()
	defer g.leave()

	return g.Land.Iterate(v)
}

func (g *BusyGuard) FindFirst(size uintptr, fd land.FindDelete) (land.Outcome, land.Result) {
	g.enter()
	defer g.leave()

	return g.Land.FindFirst(size, fd)
}

func (g *BusyGuard) FindLast(size uintptr, fd land.FindDelete) (land.Outcome, land.Result) {
	g.enter()
	defer g.leave()

	return g.Land.FindLast(size, fd)
}

func (g *BusyGuard) FindLargest(size uintptr, fd land.FindDelete) (land.Outcome, land.Result) {
	g.enter()
	defer g.leave()

	return g.Land.FindLargest(size, fd)
}

func (g *BusyGuard) FindInZones(size uintptr, zones land.ZoneSet, high bool) (land.Outcome, land.Result) {
	g.enter()
	defer g.leave()

	return g.Land.FindInZones(size, zones, high)
}

func (g *BusyGuard) Flush(target land.Land) land.Result {
	g.enter()
	defer g.leave()

	return g.Land.Flush(target)
}

func (g *BusyGuard) Describe(w io.Writer, depth int) land.Result {
	g.enter()
	defer g.leave()

	return g.Land.Describe(w, depth)
}
