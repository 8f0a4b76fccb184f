package blockset

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bryanchance/mps/internal/nodealloc"
	"github.com/bryanchance/mps/land"
)

func r(base, limit uint64) land.Range {
	return land.NewRange(land.Addr(base), land.Addr(limit))
}

func TestInsertCoalescence(t *testing.T) {
	s := New(nil)

	_, res := s.Insert(r(0, 10))
	require.True(t, res.Success())

	_, res = s.Insert(r(20, 30))
	require.True(t, res.Success())

	got, res := s.Insert(r(10, 20))
	require.True(t, res.Success())
	require.Equal(t, r(0, 30), got)
	require.Equal(t, uintptr(30), s.Size())

	var seen []land.Range
	s.Iterate(func(rng land.Range) bool {
		seen = append(seen, rng)
		return true
	})
	require.Equal(t, []land.Range{r(0, 30)}, seen)
}

func TestInsertOverlapFails(t *testing.T) {
	s := New(nil)
	_, res := s.Insert(r(0, 10))
	require.True(t, res.Success())

	_, res = s.Insert(r(5, 15))
	require.Equal(t, land.FAIL, res.Code)
}

func TestInsertExhaustion(t *testing.T) {
	s := New(nodealloc.New(nodealloc.Config{MaxNodes: 1}))

	_, res := s.Insert(r(0, 10))
	require.True(t, res.Success())

	// Disjoint, non-adjacent range requires a second node.
	_, res = s.Insert(r(100, 110))
	require.Equal(t, land.AllocFailure, res.Code)
	require.Equal(t, uintptr(10), s.Size(), "failed insert must not mutate state")
}

func TestDeleteSplit(t *testing.T) {
	s := New(nil)
	_, res := s.Insert(r(0, 100))
	require.True(t, res.Success())

	old, res := s.Delete(r(40, 60))
	require.True(t, res.Success())
	require.Equal(t, r(0, 100), old)

	var seen []land.Range
	s.Iterate(func(rng land.Range) bool {
		seen = append(seen, rng)
		return true
	})
	require.Equal(t, []land.Range{r(0, 40), r(60, 100)}, seen)
}

func TestDeleteSplitExhaustion(t *testing.T) {
	s := New(nodealloc.New(nodealloc.Config{MaxNodes: 1}))
	_, res := s.Insert(r(0, 100))
	require.True(t, res.Success())

	_, res = s.Delete(r(40, 60))
	require.Equal(t, land.AllocFailure, res.Code)

	var seen []land.Range
	s.Iterate(func(rng land.Range) bool {
		seen = append(seen, rng)
		return true
	})
	require.Equal(t, []land.Range{r(0, 100)}, seen, "failed split delete must not mutate state")
}

func TestDeleteEntireFreesToken(t *testing.T) {
	a := nodealloc.New(nodealloc.Config{MaxNodes: 1})
	s := New(a)

	_, res := s.Insert(r(0, 10))
	require.True(t, res.Success())
	require.Equal(t, 1, a.Live())

	_, res = s.Delete(r(0, 10))
	require.True(t, res.Success())
	require.Equal(t, 0, a.Live())
}

func TestDeleteNotFound(t *testing.T) {
	s := New(nil)
	_, res := s.Insert(r(0, 10))
	require.True(t, res.Success())

	_, res = s.Delete(r(50, 60))
	require.Equal(t, land.FAIL, res.Code)
}

func TestFindLargestTieBreaksLowestBase(t *testing.T) {
	s := New(nil)
	for _, rr := range []land.Range{r(0, 10), r(100, 115), r(200, 215)} {
		_, res := s.Insert(rr)
		require.True(t, res.Success())
	}

	out, res := s.FindLargest(15, land.FindDeleteNone)
	require.True(t, res.Success())
	require.Equal(t, r(100, 115), out.Range)
}

func TestFindFirstWithDeleteLow(t *testing.T) {
	s := New(nil)
	_, res := s.Insert(r(0, 100))
	require.True(t, res.Success())

	out, res := s.FindFirst(10, land.FindDeleteLow)
	require.True(t, res.Success())
	require.Equal(t, r(0, 10), out.Range)
	require.Equal(t, r(0, 100), out.Old)
	require.Equal(t, uintptr(90), s.Size())
}

func TestFindInZones(t *testing.T) {
	s := New(nil, WithZoneShift(4))
	_, res := s.Insert(r(0, 8))    // zone 0
	require.True(t, res.Success())
	_, res = s.Insert(r(32, 48)) // zone 2
	require.True(t, res.Success())

	out, res := s.FindInZones(8, land.ZoneSet(1<<2), false)
	require.True(t, res.Success())
	require.Equal(t, r(32, 48), out.Range)

	out, res = s.FindInZones(8, land.ZoneSet(1<<5), false)
	require.True(t, res.Success())
	require.False(t, out.Found)
}

func TestFlushMigratesWhatFits(t *testing.T) {
	src := New(nil)
	_, res := src.Insert(r(0, 10))
	require.True(t, res.Success())
	_, res = src.Insert(r(100, 110))
	require.True(t, res.Success())

	dst := New(nodealloc.New(nodealloc.Config{MaxNodes: 1}))
	res = src.Flush(dst)
	require.True(t, res.Success())

	require.Equal(t, uintptr(10), dst.Size())
	require.Equal(t, uintptr(10), src.Size(), "range that did not fit stays in source")
}

func TestDescribeNilStream(t *testing.T) {
	s := New(nil)
	res := s.Describe(nil, 0)
	require.Equal(t, land.Param, res.Code)
}

func TestDescribeWritesSummary(t *testing.T) {
	s := New(nil)
	_, res := s.Insert(r(0, 10))
	require.True(t, res.Success())

	var buf bytes.Buffer
	res = s.Describe(&buf, 2)
	require.True(t, res.Success())
	require.Contains(t, buf.String(), "blockset.Set")
}
