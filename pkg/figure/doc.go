// Package figure reads declarative figure documents and builds them into
// hoverable plots.
//
// # Overview
//
// A [Document] lists traces, the axes they are drawn on and the hover
// layout. Documents are stored as JSON, TOML or YAML; the format follows
// the file extension (.json, .toml, .yaml or .yml):
//
//	{
//	  "layout": {"width": 700, "height": 450, "hovermode": "x unified"},
//	  "axes": {
//	    "x":  {"spikes": {"show": true}},
//	    "y2": {"overlaying": "y", "side": "right"}
//	  },
//	  "traces": [
//	    {"type": "scatter", "name": "latency", "x": [1, 2, 3], "y": [12, 9, 15]},
//	    {"type": "bar", "name": "requests", "x": [1, 2, 3], "y": [40, 52, 47], "yaxis": "y2"}
//	  ]
//	}
//
// # Axes
//
// Axes are named like "x", "x2" or "y3". Every x/y pair used by a trace
// becomes a subplot ("xy", "x2y"). An axis that overlays another shares its
// domain, and its subplot is searched along with the owner's. Axes without
// a type are inferred from the data: date strings give a date axis, other
// non-numeric strings a category axis, anything else a linear axis. Axes
// without a range are fitted to the data with a small pad around points.
// Log axis ranges are given in data units.
//
// # Usage
//
// Use [Load] to read a document from a file, or [Read] for any io.Reader,
// then [Build] it:
//
//	doc, err := figure.Load("latency.json")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	plot, err := figure.Build(doc, fx.WithLogger(logger))
//
// Use [Write] or [Save] to encode a document again.
package figure
