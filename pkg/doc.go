// Package pkg provides the core libraries for hoverfx hover interaction.
//
// # Overview
//
// hoverfx finds the points under a pointer on a plot, lays out hover labels
// so they do not overlap and draws spike lines to the axes. The pkg
// directory is organized into these areas:
//
//  1. [fx] - The hover engine (search, labels, overlap, spikes, events)
//  2. [axis], [traces], [surface], [color], [legend] - What the engine
//     searches and draws on
//  3. [figure] - Declarative figure documents built into plots
//  4. [pipeline] - Orchestration (build → hover → render) with caching
//  5. [cache], [session], [storage] - Infrastructure backends
//  6. [throttle], [errors], [observability], [buildinfo] - Shared plumbing
//
// # Architecture
//
// The typical data flow through hoverfx:
//
//	Figure file (JSON / TOML / YAML)
//	         ↓
//	    [figure] package (decode, infer axes, position subplots)
//	         ↓
//	    [fx] package (hover cycle on the plot)
//	         ↓
//	    [surface] package (hover and spike layers)
//	         ↓
//	    SVG / JSON / terminal output
//
// # Quick Start
//
// Load a figure and hover it at a pixel position:
//
//	import (
//	    "github.com/matzehuels/hoverfx/pkg/figure"
//	    "github.com/matzehuels/hoverfx/pkg/fx"
//	    "github.com/matzehuels/hoverfx/pkg/surface"
//	)
//
//	doc, _ := figure.Load("latency.json")
//	plot, _ := figure.Build(doc)
//
//	x, y := 120.0, 80.0
//	res := plot.HoverSync(fx.Event{XPx: &x, YPx: &y})
//	for _, p := range res.Points {
//	    fmt.Println(p.TraceName, p.X, p.Y)
//	}
//
//	svg := surface.RenderSVG(plot.Surface.(*surface.Scene))
//
// For cached, repeatable hovers use [pipeline.Runner], which the CLI and
// the HTTP server share.
package pkg
