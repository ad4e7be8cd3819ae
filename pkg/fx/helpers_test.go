package fx

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func distances(ds ...float64) DistanceFunc {
	return func(i int) float64 { return ds[i] }
}

func TestGetClosest(t *testing.T) {
	t.Run("later point wins ties", func(t *testing.T) {
		pd := &Point{Index: -1, Distance: 10}
		GetClosest(3, distances(5, 2, 2), pd)
		assert.Equal(t, 2, pd.Index)
		assert.Equal(t, 2.0, pd.Distance)
	})

	t.Run("nothing within distance", func(t *testing.T) {
		pd := &Point{Index: -1, Distance: 1}
		GetClosest(2, distances(5, 2), pd)
		assert.Equal(t, -1, pd.Index)
	})

	t.Run("preset index in range", func(t *testing.T) {
		pd := &Point{Index: 1, Distance: 10}
		GetClosest(3, distances(5, 2, 2), pd)
		assert.Equal(t, 1, pd.Index)
		assert.Zero(t, pd.Distance)
	})

	t.Run("preset index out of range", func(t *testing.T) {
		pd := &Point{Index: 5, Distance: 10}
		GetClosest(3, distances(5, 2, 2), pd)
		assert.Equal(t, -1, pd.Index)
	})
}

func TestGetDistanceFunction(t *testing.T) {
	dx, dy := distances(3), distances(4)

	assert.Equal(t, 5.0, GetDistanceFunction(ModeClosest, dx, dy, nil)(0))
	assert.Equal(t, 7.0, GetDistanceFunction(ModeClosest, dx, dy, distances(7))(0))
	assert.Equal(t, 3.0, GetDistanceFunction(ModeX, dx, dy, nil)(0))
	assert.Equal(t, 3.0, GetDistanceFunction(ModeXUnified, dx, dy, nil)(0))
	assert.Equal(t, 4.0, GetDistanceFunction(ModeY, dx, dy, nil)(0))
}

func TestInbox(t *testing.T) {
	assert.Equal(t, 7.0, Inbox(-1, 1, 7))
	assert.Equal(t, 7.0, Inbox(0, 3, 7))
	assert.True(t, math.IsInf(Inbox(1, 2, 7), 1))
	assert.True(t, math.IsInf(Inbox(-2, -1, 7), 1))
}

func TestAppendArrayPointValue(t *testing.T) {
	tr := &Trace{Text: []string{"a", "b"}, IDs: []string{"id0"}, CustomData: []any{1, 2}}

	var ep EventPoint
	AppendArrayPointValue(&ep, tr, 1)
	assert.Equal(t, "b", ep.Text)
	assert.Empty(t, ep.ID)
	assert.Equal(t, 2, ep.CustomData)

	ep = EventPoint{Text: "kept"}
	AppendArrayPointValue(&ep, tr, 0)
	assert.Equal(t, "kept", ep.Text)
	assert.Equal(t, "id0", ep.ID)

	ep = EventPoint{}
	AppendArrayPointValue(&ep, tr, -1)
	assert.Empty(t, ep.Text)
}

func TestMergeClosest(t *testing.T) {
	pt := func(d float64) *Point { return &Point{Distance: d} }

	hits, best := mergeClosest(nil, []*Point{pt(3), pt(1), pt(1)}, math.Inf(1))
	assert.Len(t, hits, 2)
	assert.Equal(t, 1.0, best)

	hits, best = mergeClosest(hits, []*Point{pt(1)}, best)
	assert.Len(t, hits, 3)

	hits, best = mergeClosest(hits, []*Point{pt(2)}, best)
	assert.Len(t, hits, 3)
	assert.Equal(t, 1.0, best)

	hits, best = mergeClosest(hits, []*Point{pt(0.5)}, best)
	assert.Len(t, hits, 1)
	assert.Equal(t, 0.5, best)

	hits, _ = mergeClosest(hits, nil, best)
	assert.Len(t, hits, 1)
}

func TestDistinct(t *testing.T) {
	assert.Equal(t, 1, distinct([]float64{2, 2}))
	assert.Equal(t, 2, distinct([]float64{2, 3, 2}))
	assert.Zero(t, distinct(nil))
}

func TestTruncateName(t *testing.T) {
	assert.Equal(t, "ab...", truncateName("abcdefghij", 5))
	assert.Equal(t, "abc", truncateName("abcdefghij", 3))
	assert.Equal(t, "abcdefghij", truncateName("abcdefghij", -1))
	assert.Equal(t, "short", truncateName("short", 15))
	assert.Equal(t, "äöü...", truncateName("äöüßäöü", 6))
}

func TestJSNumber(t *testing.T) {
	cases := map[float64]string{
		0:      "0",
		0.5:    "0.5",
		123:    "123",
		-2.25:  "-2.25",
		1e21:   "1e+21",
		1e-7:   "1e-7",
		1.5e22: "1.5e+22",
	}
	for v, want := range cases {
		assert.Equal(t, want, jsNumber(v), "jsNumber(%g)", v)
	}
}

func TestDashArray(t *testing.T) {
	assert.Empty(t, dashArray("solid", 2))
	assert.Equal(t, "3px,3px", dashArray("dot", 2))
	assert.Equal(t, "12px,12px", dashArray("dash", 4))
	assert.Equal(t, "9px,3px,3px,3px", dashArray("dashdot", 1))
	assert.Equal(t, "5px,10px", dashArray("5px,10px", 2))
}

func TestModeHelpers(t *testing.T) {
	assert.True(t, ModeXUnified.Valid())
	assert.False(t, ModeArray.Valid())
	assert.False(t, Mode("sideways").Valid())
	assert.Equal(t, "y", ModeYUnified.Letter())
	assert.Empty(t, ModeClosest.Letter())
	assert.True(t, ModeX.IsXY())
	assert.False(t, ModeXUnified.IsXY())
}
