package failover_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/bryanchance/mps/internal/nodealloc"
	"github.com/bryanchance/mps/land"
	"github.com/bryanchance/mps/land/blockset"
	"github.com/bryanchance/mps/land/failover"
	"github.com/bryanchance/mps/land/freelist"
	"github.com/bryanchance/mps/land/landmock"
)

func rr(base, limit uint64) land.Range {
	return land.NewRange(land.Addr(base), land.Addr(limit))
}

var _ = Describe("spill on insert", func() {
	// S1: the primary's metadata is exhausted, so a non-coalescing insert
	// must be serviced by the secondary instead of failing outright.
	It("redirects an insert the primary cannot represent to the secondary", func() {
		alloc := nodealloc.New(nodealloc.Config{MaxNodes: 1})
		primary := blockset.New(alloc)
		secondary := freelist.New()

		f, err := failover.New(8, failover.Args{Primary: primary, Secondary: secondary})
		Expect(err).NotTo(HaveOccurred())

		_, res := f.Insert(rr(0, 10))
		Expect(res.Success()).To(BeTrue())

		_, res = f.Insert(rr(1000, 1010))
		Expect(res.Success()).To(BeTrue())

		Expect(primary.Size()).To(Equal(uintptr(10)))
		Expect(secondary.Size()).To(Equal(uintptr(10)))
	})
})

var _ = Describe("coalescence via flush", func() {
	// S2: a range stranded in the secondary is migrated into the primary
	// as soon as it can coalesce there, ahead of the next operation.
	It("merges a drained secondary range with an adjacent primary entry", func() {
		alloc := nodealloc.New(nodealloc.Config{MaxNodes: 1})
		primary := blockset.New(alloc)
		secondary := freelist.New()

		_, res := primary.Insert(rr(0, 10))
		Expect(res.Success()).To(BeTrue())
		_, res = secondary.Insert(rr(10, 20))
		Expect(res.Success()).To(BeTrue())

		f, err := failover.New(8, failover.Args{Primary: primary, Secondary: secondary})
		Expect(err).NotTo(HaveOccurred())

		// Finds and mutating operations drain first; FindFirst is
		// side-effect free on a match but still triggers the drain.
		out, res := f.FindFirst(1, land.FindDeleteNone)
		Expect(res.Success()).To(BeTrue())
		Expect(out.Range).To(Equal(rr(0, 20)))
		Expect(secondary.Size()).To(Equal(uintptr(0)))
	})
})

var _ = Describe("delete recovery across children", func() {
	// S3: deleting out of the middle of the primary's only range needs a
	// second metadata token it doesn't have; the fragments split across
	// both children.
	It("splits the residual fragments between primary and secondary", func() {
		alloc := nodealloc.New(nodealloc.Config{MaxNodes: 1})
		primary := blockset.New(alloc)
		secondary := freelist.New()

		_, res := primary.Insert(rr(0, 100))
		Expect(res.Success()).To(BeTrue())

		f, err := failover.New(8, failover.Args{Primary: primary, Secondary: secondary})
		Expect(err).NotTo(HaveOccurred())

		old, res := f.Delete(rr(40, 60))
		Expect(res.Success()).To(BeTrue())
		Expect(old).To(Equal(rr(0, 100)))

		Expect(primary.Size() + secondary.Size()).To(Equal(uintptr(80)))
		Expect(primary.Size()).To(BeNumerically(">", 0))
		Expect(secondary.Size()).To(BeNumerically(">", 0))
	})
})

var _ = Describe("not found", func() {
	// S4: neither child has the requested range; the composite reports a
	// plain FAIL, not an error.
	It("reports FAIL when deleting a range neither child has", func() {
		f, err := failover.New(8, failover.Args{Primary: blockset.New(nil), Secondary: freelist.New()})
		Expect(err).NotTo(HaveOccurred())

		_, res := f.Delete(rr(0, 10))
		Expect(res.Code).To(Equal(land.FAIL))
	})

	It("reports OK with Found false for find_in_zones when nothing qualifies", func() {
		f, err := failover.New(8, failover.Args{Primary: blockset.New(nil), Secondary: freelist.New()})
		Expect(err).NotTo(HaveOccurred())

		out, res := f.FindInZones(8, land.AllZones, false)
		Expect(res.Success()).To(BeTrue())
		Expect(out.Found).To(BeFalse())
	})
})

var _ = Describe("find largest across children", func() {
	// S5: the primary's best candidate is smaller than what the secondary
	// holds, so the search must continue into the secondary.
	It("falls through to the secondary when the primary has no large-enough range", func() {
		alloc := nodealloc.New(nodealloc.Config{MaxNodes: 1})
		primary := blockset.New(alloc)
		secondary := freelist.New()

		_, res := primary.Insert(rr(0, 10))
		Expect(res.Success()).To(BeTrue())
		_, res = secondary.Insert(rr(1000, 1100))
		Expect(res.Success()).To(BeTrue())

		f, err := failover.New(8, failover.Args{Primary: primary, Secondary: secondary})
		Expect(err).NotTo(HaveOccurred())

		out, res := f.FindLargest(50, land.FindDeleteNone)
		Expect(res.Success()).To(BeTrue())
		Expect(out.Range).To(Equal(rr(1000, 1100)))
	})
})

var _ = Describe("iterate seam", func() {
	// S6: iteration always visits both children, even when the visitor
	// signals it wants to stop during the first pass.
	It("visits the secondary even after the visitor stops during the primary pass", func() {
		primary := blockset.New(nil)
		secondary := freelist.New()

		_, res := primary.Insert(rr(0, 10))
		Expect(res.Success()).To(BeTrue())
		_, res = secondary.Insert(rr(1000, 1010))
		Expect(res.Success()).To(BeTrue())

		f, err := failover.New(8, failover.Args{Primary: primary, Secondary: secondary})
		Expect(err).NotTo(HaveOccurred())

		var seen []land.Range
		cont := f.Iterate(func(r land.Range) bool {
			seen = append(seen, r)
			return false
		})

		Expect(cont).To(BeFalse())
		Expect(seen).To(HaveLen(2))
	})
})

var _ = Describe("invariants", func() {
	It("keeps Size additive across children", func() {
		primary := blockset.New(nil)
		secondary := freelist.New()

		_, res := primary.Insert(rr(0, 10))
		Expect(res.Success()).To(BeTrue())
		_, res = secondary.Insert(rr(1000, 1010))
		Expect(res.Success()).To(BeTrue())

		f, err := failover.New(8, failover.Args{Primary: primary, Secondary: secondary})
		Expect(err).NotTo(HaveOccurred())

		Expect(f.Size()).To(Equal(primary.Size() + secondary.Size()))
	})

	It("leaves a fully-drained secondary idempotent under repeated flush", func() {
		primary := blockset.New(nil)
		secondary := freelist.New()

		_, res := secondary.Insert(rr(0, 10))
		Expect(res.Success()).To(BeTrue())

		f, err := failover.New(8, failover.Args{Primary: primary, Secondary: secondary})
		Expect(err).NotTo(HaveOccurred())

		_, res = f.Insert(rr(1000, 1010))
		Expect(res.Success()).To(BeTrue())
		Expect(secondary.Size()).To(Equal(uintptr(0)))

		// A second operation's drain against an already-empty secondary
		// must be a harmless no-op.
		_, res = f.Insert(rr(2000, 2010))
		Expect(res.Success()).To(BeTrue())
		Expect(secondary.Size()).To(Equal(uintptr(0)))
	})

	It("never re-enters a child Land while one of its operations is in flight", func() {
		alloc := nodealloc.New(nodealloc.Config{MaxNodes: 1})
		primary := landmock.NewBusyGuard(blockset.New(alloc))
		secondary := landmock.NewBusyGuard(freelist.New())

		_, res := primary.Insert(rr(0, 100))
		Expect(res.Success()).To(BeTrue())

		f, err := failover.New(8, failover.Args{Primary: primary, Secondary: secondary})
		Expect(err).NotTo(HaveOccurred())

		Expect(func() {
			f.Delete(rr(40, 60))
		}).NotTo(Panic())
	})
})
