// Package traces provides point search for the common cartesian trace
// types.
//
// # Overview
//
// The hover engine in [fx] does not know how any trace stores its data. It
// hands each trace's [fx.PointSearcher] a template point and the hover
// position in calc units, and the searcher returns the hits. This package
// implements searchers for three trace families:
//
//   - [Scatter]: markers and lines, with optional error bars
//   - [Bar]: vertical and horizontal bars, with optional bases
//   - [Heatmap]: a grid of cells carrying z values
//
// # Usage
//
// Attach a searcher to a trace when building a plot:
//
//	tr := &fx.Trace{
//	    Index:    0,
//	    Name:     "requests",
//	    Type:     traces.TypeScatter,
//	    Searcher: &traces.Scatter{X: xs, Y: ys, Markers: true},
//	}
//
// Searchers are stateless apart from their data and may be shared between
// plots.
//
// # Distances
//
// Each searcher ranks its points with the helpers exported by [fx]:
// scatter points use pixel distances softened inside the marker so small
// markers win over large ones, bars and heatmap cells use the area
// pseudo-distance of [fx.Inbox], so the pointer over a bar always picks it.
package traces
