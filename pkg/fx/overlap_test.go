package fx

import (
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stacked(n int, pos, size float64) []OverlapItem {
	items := make([]OverlapItem, n)
	for i := range items {
		items[i] = OverlapItem{Pos: pos, PosRef: pos, Size: size, PMin: 0, PMax: 200, TraceIndex: i}
	}
	return items
}

// assertSpread checks that kept items stay inside their bounds and do not
// overlap each other.
func assertSpread(t *testing.T, items []OverlapItem, r Resolution) {
	t.Helper()
	type span struct{ lo, hi float64 }
	var kept []span
	for i, it := range items {
		if r.Deleted[i] {
			continue
		}
		c := it.Pos + r.Offsets[i]
		kept = append(kept, span{c - it.Size, c + it.Size})
		assert.GreaterOrEqual(t, c-it.Size, it.PMin-overlapTolerance, "item %d leaves the top edge", i)
		assert.LessOrEqual(t, c+it.Size, it.PMax+overlapTolerance, "item %d leaves the bottom edge", i)
	}
	sort.Slice(kept, func(i, j int) bool { return kept[i].lo < kept[j].lo })
	for i := 1; i < len(kept); i++ {
		assert.LessOrEqual(t, kept[i-1].hi, kept[i].lo+overlapTolerance, "items overlap")
	}
}

func TestAvoidOverlapsSeparatesNeighbours(t *testing.T) {
	items := []OverlapItem{
		{Pos: 50, PosRef: 50, Size: 10, PMax: 200, TraceIndex: 0},
		{Pos: 55, PosRef: 55, Size: 10, PMax: 200, TraceIndex: 1},
		{Pos: 150, PosRef: 150, Size: 10, PMax: 200, TraceIndex: 2},
	}

	r := AvoidOverlaps(items, 1)

	assert.Zero(t, r.DeletedCount())
	assert.InDelta(t, -7.5, r.Offsets[0], 1e-9)
	assert.InDelta(t, 7.5, r.Offsets[1], 1e-9)
	assert.Zero(t, r.Offsets[2])
	assert.Equal(t, [][]int{{0, 1}, {2}}, r.Groups)
	assertSpread(t, items, r)
}

func TestAvoidOverlapsNoOverlap(t *testing.T) {
	items := []OverlapItem{
		{Pos: 20, PosRef: 20, Size: 5, PMax: 200},
		{Pos: 100, PosRef: 100, Size: 5, PMax: 200, TraceIndex: 1},
	}

	r := AvoidOverlaps(items, 1)

	assert.Equal(t, []float64{0, 0}, r.Offsets)
	assert.Equal(t, 1, r.Passes)
}

func TestAvoidOverlapsPushesOffBottomEdge(t *testing.T) {
	items := []OverlapItem{{Pos: 195, PosRef: 195, Size: 10, PMax: 200}}

	r := AvoidOverlaps(items, 1)

	assert.InDelta(t, -5, r.Offsets[0], 1e-9)
	assert.False(t, r.Deleted[0])
}

func TestAvoidOverlapsPushesOffTopEdge(t *testing.T) {
	items := []OverlapItem{{Pos: 4, PosRef: 4, Size: 10, PMax: 200}}

	r := AvoidOverlaps(items, 1)

	assert.InDelta(t, 6, r.Offsets[0], 1e-9)
}

func TestAvoidOverlapsDeletesWhatCannotFit(t *testing.T) {
	items := stacked(10, 100, 15)

	r := AvoidOverlaps(items, 1)

	require.Equal(t, 4, r.DeletedCount())
	for i, del := range r.Deleted {
		assert.Equal(t, i < 4, del, "item %d", i)
	}
	assertSpread(t, items, r)
	assert.LessOrEqual(t, r.Passes, len(items)+1)
}

func TestAvoidOverlapsSeparateAxesNeverMerge(t *testing.T) {
	items := []OverlapItem{
		{Pos: 50, PosRef: 50, Size: 10, PMax: 100},
		{Pos: 52, PosRef: 52, Size: 10, PMin: 100, PMax: 200, TraceIndex: 1},
	}

	r := AvoidOverlaps(items, 1)

	assert.Len(t, r.Groups, 2)
	assert.Zero(t, r.Offsets[0])
}

func TestAvoidOverlapsTieOrder(t *testing.T) {
	items := stacked(2, 100, 10)

	down := AvoidOverlaps(items, 1)
	up := AvoidOverlaps(items, -1)

	// higher trace index first for axSign 1
	assert.Less(t, down.Offsets[1], down.Offsets[0])
	assert.Less(t, up.Offsets[0], up.Offsets[1])
}

func TestAvoidOverlapsEmpty(t *testing.T) {
	r := AvoidOverlaps(nil, 1)

	assert.Empty(t, r.Offsets)
	assert.Zero(t, r.DeletedCount())
}

func TestAvoidOverlapsKeptLabelsReturnInsideAfterDeletion(t *testing.T) {
	items := []OverlapItem{
		{Pos: 200, PosRef: 200, Size: 30, PMax: 200},
		{Pos: 110, PosRef: 110, Size: 60, PMax: 200, TraceIndex: 1},
		{Pos: 140, PosRef: 140, Size: 50, PMax: 200, TraceIndex: 2},
	}

	r := AvoidOverlaps(items, 1)

	// the far-edge label goes first, then the lowest one still hanging off
	assert.Equal(t, []bool{true, false, true}, r.Deleted)
	assert.InDelta(t, -50, r.Offsets[1], 1e-9)
	assertSpread(t, items, r)
}

func TestAvoidOverlapsDeletesLabelTallerThanAxis(t *testing.T) {
	items := []OverlapItem{{Pos: 50, PosRef: 50, Size: 80, PMax: 100}}

	r := AvoidOverlaps(items, 1)

	assert.True(t, r.Deleted[0])
}

func TestAvoidOverlapsRandomLayouts(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	deletions := 0
	for n := 0; n < 2000; n++ {
		items := make([]OverlapItem, 1+rng.Intn(12))
		for i := range items {
			pos := rng.Float64() * 200
			items[i] = OverlapItem{
				Pos:        pos,
				PosRef:     pos,
				Size:       3 + rng.Float64()*57,
				PMax:       200,
				TraceIndex: i,
			}
		}

		r := AvoidOverlaps(items, 1)

		deletions += r.DeletedCount()
		assertSpread(t, items, r)
		if t.Failed() {
			t.Fatalf("layout %d: %+v -> %+v", n, items, r)
		}
	}
	// the sweep must include layouts that only fit after deleting labels
	assert.Positive(t, deletions)
}
