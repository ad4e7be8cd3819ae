package fx

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/hoverfx/pkg/surface"
)

func labelPath(t *testing.T, g *surface.Group) *surface.Path {
	t.Helper()
	for _, n := range g.Children {
		if p, ok := n.(*surface.Path); ok {
			return p
		}
	}
	t.Fatal("label has no path")
	return nil
}

func TestLoneHoverStacksLabels(t *testing.T) {
	scene := surface.NewScene(560, 480, fixedMeasurer{})

	groups := LoneHover([]LoneItem{
		{X: 100, Y: 100, Text: "one"},
		{X: 100, Y: 100, Text: "two"},
	}, LoneOptions{Surface: scene})

	require.Len(t, groups, 2)
	assert.Len(t, scene.Nodes(surface.LayerHover), 2)

	first, second := labelPath(t, groups[0]).Box, labelPath(t, groups[1]).Box
	assert.Equal(t, -11.0, first.Y)
	assert.InDelta(t, tooltipSpacing, second.Y-first.Bottom(), 1e-9)
}

func TestLoneHoverAnchorIndex(t *testing.T) {
	scene := surface.NewScene(560, 480, fixedMeasurer{})

	groups := LoneHover([]LoneItem{
		{X: 100, Y: 100, Text: "one"},
		{X: 100, Y: 100, Text: "two"},
	}, LoneOptions{Surface: scene, AnchorIndex: 1, Layer: "tooltips"})

	require.Len(t, groups, 2)
	assert.Len(t, scene.Nodes("tooltips"), 2)
	assert.Equal(t, -11.0, labelPath(t, groups[1]).Box.Y)
	assert.Less(t, labelPath(t, groups[0]).Box.Y, -11.0)
}

func TestLoneHoverFlipsNearRightEdge(t *testing.T) {
	scene := surface.NewScene(200, 200, fixedMeasurer{})

	groups := LoneHover([]LoneItem{{X: 190, Y: 50, Text: "near the edge"}}, LoneOptions{Surface: scene})

	require.Len(t, groups, 1)
	assert.Less(t, labelPath(t, groups[0]).Box.X, 0.0)
}

func TestLoneHoverWithName(t *testing.T) {
	scene := surface.NewScene(560, 480, fixedMeasurer{})

	groups := LoneHover([]LoneItem{{X: 50, Y: 50, Text: "42", Name: "series", Color: "#ff0000"}}, LoneOptions{Surface: scene})

	require.Len(t, groups, 1)
	names := surface.Find(groups[0].Children, "name")
	require.Len(t, names, 1)
	assert.Equal(t, "series", names[0].(*surface.Text).Text)
}

func TestLoneHoverNeedsSurface(t *testing.T) {
	assert.Nil(t, LoneHover([]LoneItem{{X: 1, Y: 1, Text: "x"}}, LoneOptions{}))
	assert.Nil(t, LoneHover(nil, LoneOptions{Surface: surface.NewScene(10, 10, nil)}))
}
