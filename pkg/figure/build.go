package figure

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/matzehuels/hoverfx/pkg/axis"
	"github.com/matzehuels/hoverfx/pkg/errors"
	"github.com/matzehuels/hoverfx/pkg/fx"
	"github.com/matzehuels/hoverfx/pkg/surface"
	"github.com/matzehuels/hoverfx/pkg/traces"
)

// Figure size defaults, in pixels.
const (
	DefaultWidth  = 700
	DefaultHeight = 450

	defaultMarkerSize = 6
	defaultBarWidth   = 0.8
	rangePad          = 0.05
	msPerDay          = 24 * 60 * 60 * 1000
)

// DefaultMargin is the margin of documents that do not set one.
var DefaultMargin = Margin{L: 80, R: 80, T: 100, B: 80}

var axisTypes = map[axis.Type]bool{
	axis.Linear:   true,
	axis.Log:      true,
	axis.Date:     true,
	axis.Category: true,
}

func (td *TraceDoc) typ() string {
	if td.Type == "" {
		return traces.TypeScatter
	}
	return td.Type
}

func (td *TraceDoc) axisIDs() (string, string) {
	x, y := td.XAxis, td.YAxis
	if x == "" {
		x = "x"
	}
	if y == "" {
		y = "y"
	}
	return x, y
}

func (td *TraceDoc) values(letter string) []any {
	if letter == "x" {
		return td.X
	}
	return td.Y
}

func (td *TraceDoc) markers() bool {
	return td.Mode == "" || strings.Contains(td.Mode, "markers")
}

// Size returns the figure size with defaults applied.
func (d *Document) Size() (float64, float64) {
	w, h := d.Layout.Width, d.Layout.Height
	if w <= 0 {
		w = DefaultWidth
	}
	if h <= 0 {
		h = DefaultHeight
	}
	return w, h
}

func (d *Document) margin() Margin {
	if d.Layout.Margin != nil {
		return *d.Layout.Margin
	}
	return DefaultMargin
}

// HoverLayout returns the hover settings of d as an fx layout. Unset fields
// take the fx defaults.
func (d *Document) HoverLayout() fx.Layout {
	l := fx.DefaultLayout()
	dl := d.Layout
	if dl.HoverMode != "" {
		l.HoverMode = fx.Mode(dl.HoverMode)
	}
	if dl.HoverDistance != nil {
		l.HoverDistance = *dl.HoverDistance
	}
	if dl.SpikeDistance != nil {
		l.SpikeDistance = *dl.SpikeDistance
	}
	nameLength := l.HoverLabel.NameLength
	l.HoverLabel = dl.HoverLabel
	if l.HoverLabel.NameLength == nil {
		l.HoverLabel.NameLength = nameLength
	}
	l.PlotBgColor = dl.PlotBgColor
	l.PaperBgColor = dl.PaperBgColor
	return l
}

// Build positions the axes of doc, builds a point searcher per trace and
// returns the hoverable plot. The plot draws on a Scene of the figure size
// unless opts supply another surface.
func Build(doc *Document, opts ...fx.Option) (*fx.Plot, error) {
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	b := &builder{
		doc:     doc,
		axes:    make(map[string]*axis.Axis),
		counter: make(map[string]string),
		extents: make(map[string]*extent),
	}
	if err := b.buildAxes(); err != nil {
		return nil, err
	}
	trs := make([]*fx.Trace, len(doc.Traces))
	for i := range doc.Traces {
		trs[i] = b.trace(i, &doc.Traces[i])
	}
	if err := b.setRanges(); err != nil {
		return nil, err
	}
	b.position()
	subplots, err := b.subplots()
	if err != nil {
		return nil, err
	}

	w, h := doc.Size()
	all := []fx.Option{fx.WithSurface(surface.NewScene(w, h, nil))}
	if doc.ID != "" {
		all = append(all, fx.WithUID(doc.ID))
	}
	return fx.New(doc.HoverLayout(), subplots, trs, append(all, opts...)...), nil
}

type builder struct {
	doc     *Document
	axes    map[string]*axis.Axis
	order   []string
	counter map[string]string // axis ID -> counter axis of its first trace
	extents map[string]*extent
}

func (b *builder) addAxis(id string) {
	if _, ok := b.axes[id]; ok {
		return
	}
	b.axes[id] = nil
	b.order = append(b.order, id)
}

func (b *builder) buildAxes() error {
	for i := range b.doc.Traces {
		x, y := b.doc.Traces[i].axisIDs()
		b.addAxis(x)
		b.addAxis(y)
		if _, ok := b.counter[x]; !ok {
			b.counter[x] = y
		}
		if _, ok := b.counter[y]; !ok {
			b.counter[y] = x
		}
	}
	declared := make([]string, 0, len(b.doc.Axes))
	for id := range b.doc.Axes {
		declared = append(declared, id)
	}
	sort.Strings(declared)
	for _, id := range declared {
		b.addAxis(id)
		if over := b.doc.Axes[id].Overlaying; over != "" {
			b.addAxis(over)
		}
	}
	if len(b.order) == 0 {
		b.addAxis("x")
		b.addAxis("y")
	}

	for _, id := range b.order {
		ad := b.doc.Axes[id]
		typ := axis.Type(ad.Type)
		if typ == "" {
			typ = b.inferType(id)
		} else if !axisTypes[typ] {
			return errors.New(errors.ErrCodeInvalidFigure, "axis %s: unknown type %q", id, ad.Type)
		}
		a := &axis.Axis{
			ID:          id,
			Type:        typ,
			Side:        ad.Side,
			Categories:  ad.Categories,
			HoverFormat: ad.HoverFormat,
			Spikes:      ad.Spikes,
		}
		if a.Side == "" {
			a.Side = "bottom"
			if !a.IsX() {
				a.Side = "left"
			}
		}
		if typ == axis.Category && len(a.Categories) == 0 {
			a.Categories = b.categories(id)
		}
		b.axes[id] = a
	}
	return nil
}

// tracesOn calls fn for every trace drawn on axis id.
func (b *builder) tracesOn(id string, fn func(td *TraceDoc)) {
	for i := range b.doc.Traces {
		td := &b.doc.Traces[i]
		x, y := td.axisIDs()
		if x == id || y == id {
			fn(td)
		}
	}
}

// inferType picks date when non-numeric strings all parse as dates and
// category when any does not.
func (b *builder) inferType(id string) axis.Type {
	var date, category bool
	b.tracesOn(id, func(td *TraceDoc) {
		for _, v := range td.values(id[:1]) {
			switch x := v.(type) {
			case time.Time:
				date = true
			case string:
				if _, err := strconv.ParseFloat(strings.TrimSpace(x), 64); err == nil {
					continue
				}
				if _, err := axis.ParseDate(x); err == nil {
					date = true
				} else {
					category = true
				}
			}
		}
	})
	switch {
	case category:
		return axis.Category
	case date:
		return axis.Date
	}
	return axis.Linear
}

func (b *builder) categories(id string) []string {
	var cats []string
	seen := make(map[string]bool)
	b.tracesOn(id, func(td *TraceDoc) {
		for _, v := range td.values(id[:1]) {
			if v == nil {
				continue
			}
			s := fmt.Sprint(v)
			if !seen[s] {
				seen[s] = true
				cats = append(cats, s)
			}
		}
	})
	return cats
}

// calc converts data values to calc values on a, NaN where a value cannot
// be placed. Category axes match numbers by their printed form.
func calc(a *axis.Axis, vals []any) []float64 {
	out := make([]float64, len(vals))
	for i, v := range vals {
		if a.Type == axis.Category && v != nil {
			if _, ok := v.(string); !ok {
				v = fmt.Sprint(v)
			}
		}
		c, ok := a.D2C(v)
		if !ok {
			c = math.NaN()
		}
		out[i] = c
	}
	return out
}

// calcOrIndex is calc, or the point numbers 0..n-1 when vals is empty.
func calcOrIndex(a *axis.Axis, vals []any, n int) []float64 {
	if len(vals) > 0 {
		return calc(a, vals)
	}
	out := make([]float64, n)
	for i := range out {
		out[i] = float64(i)
	}
	return out
}

var numeric = &axis.Axis{Type: axis.Linear}

func zGrid(z [][]any) [][]float64 {
	out := make([][]float64, len(z))
	for r, row := range z {
		out[r] = calc(numeric, row)
	}
	return out
}

func errorBars(e *ErrorDoc) *traces.ErrorBars {
	if e == nil {
		return nil
	}
	return &traces.ErrorBars{Plus: e.Array, Minus: e.ArrayMinus}
}

// minGap returns the smallest distance between distinct finite positions,
// 1 when there are fewer than two.
func minGap(pos []float64) float64 {
	sorted := make([]float64, 0, len(pos))
	for _, p := range pos {
		if !math.IsNaN(p) && !math.IsInf(p, 0) {
			sorted = append(sorted, p)
		}
	}
	sort.Float64s(sorted)
	gap := math.Inf(1)
	for i := 1; i < len(sorted); i++ {
		if d := sorted[i] - sorted[i-1]; d > 0 && d < gap {
			gap = d
		}
	}
	if math.IsInf(gap, 1) {
		return 1
	}
	return gap
}

func (b *builder) trace(i int, td *TraceDoc) *fx.Trace {
	xid, yid := td.axisIDs()
	xa, ya := b.axes[xid], b.axes[yid]
	name := td.Name
	if name == "" {
		name = fmt.Sprintf("trace %d", i)
	}
	tr := &fx.Trace{
		Index:         i,
		Name:          name,
		Type:          td.typ(),
		Subplot:       xid + yid,
		Hidden:        td.Visible != nil && !*td.Visible,
		HoverInfo:     td.HoverInfo,
		HoverTemplate: td.HoverTemplate,
		HoverLabel:    td.HoverLabel,
		Orientation:   td.Orientation,
		Color:         td.Marker.Color,
		OmitZLabel:    td.ZColorOnly,
		Styles:        td.PointStyles,
		Text:          td.Text,
		IDs:           td.IDs,
		CustomData:    td.CustomData,
	}

	switch tr.Type {
	case traces.TypeScatter:
		y := calc(ya, td.Y)
		x := calcOrIndex(xa, td.X, len(y))
		s := &traces.Scatter{
			X:       x,
			Y:       y,
			Markers: td.markers(),
			Color:   td.Marker.Color,
			Colors:  td.Marker.Colors,
			ErrorX:  errorBars(td.ErrorX),
			ErrorY:  errorBars(td.ErrorY),
		}
		if s.Markers {
			s.MarkerSize = td.Marker.Size
			if len(s.MarkerSize) == 0 {
				s.MarkerSize = []float64{defaultMarkerSize}
			}
		}
		b.includeErrors(xid, x, s.ErrorX)
		b.includeErrors(yid, y, s.ErrorY)
		tr.Searcher = s

	case traces.TypeBar:
		bar := &traces.Bar{
			Base:        td.Base,
			Orientation: td.Orientation,
			Color:       td.Marker.Color,
			Colors:      td.Marker.Colors,
		}
		posID, sizeID := xid, yid
		if td.Orientation == "h" {
			posID, sizeID = yid, xid
			bar.Size = calc(xa, td.X)
			bar.Pos = calcOrIndex(ya, td.Y, len(bar.Size))
			bar.Error = errorBars(td.ErrorX)
		} else {
			bar.Size = calc(ya, td.Y)
			bar.Pos = calcOrIndex(xa, td.X, len(bar.Size))
			bar.Error = errorBars(td.ErrorY)
		}
		bar.Delta = minGap(bar.Pos)
		bar.Width = td.Width
		if bar.Width <= 0 {
			bar.Width = defaultBarWidth * bar.Delta
		}
		for j, p := range bar.Pos {
			b.include(posID, p-bar.Width/2, false)
			b.include(posID, p+bar.Width/2, false)
			if j < len(bar.Size) {
				base := 0.0
				if j < len(bar.Base) {
					base = bar.Base[j]
				}
				b.include(sizeID, base, false)
				b.include(sizeID, base+bar.Size[j], true)
			}
		}
		tr.Searcher = bar

	case traces.TypeHeatmap:
		z := zGrid(td.Z)
		cols := 0
		for _, row := range z {
			cols = max(cols, len(row))
		}
		h := &traces.Heatmap{
			X:     calcOrIndex(xa, td.X, cols),
			Y:     calcOrIndex(ya, td.Y, len(z)),
			Z:     z,
			Color: td.Marker.Color,
		}
		if n := len(h.X); n > 0 {
			b.include(xid, edge(h.X, 0, 0), false)
			b.include(xid, edge(h.X, n-1, 1), false)
		}
		if n := len(h.Y); n > 0 {
			b.include(yid, edge(h.Y, 0, 0), false)
			b.include(yid, edge(h.Y, n-1, 1), false)
		}
		tr.Searcher = h
	}
	return tr
}

// edge returns the lower (side 0) or upper (side 1) edge of heatmap cell i.
func edge(centers []float64, i, side int) float64 {
	if len(centers) == 1 {
		return centers[0] - 0.5 + float64(side)
	}
	if side == 0 {
		if i == 0 {
			return centers[0] - (centers[1]-centers[0])/2
		}
		return (centers[i-1] + centers[i]) / 2
	}
	if i == len(centers)-1 {
		return centers[i] + (centers[i]-centers[i-1])/2
	}
	return (centers[i] + centers[i+1]) / 2
}

func (b *builder) includeErrors(id string, vals []float64, e *traces.ErrorBars) {
	for i, v := range vals {
		b.include(id, v, true)
		if e == nil || i >= len(e.Plus) {
			continue
		}
		minus := e.Plus[i]
		if i < len(e.Minus) {
			minus = e.Minus[i]
		}
		b.include(id, v+e.Plus[i], true)
		b.include(id, v-minus, true)
	}
}

// extent is the calc span of the data on one axis. Ends reached by
// padded contributions grow by rangePad of the span.
type extent struct {
	lo, hi       float64
	padLo, padHi bool
	set          bool
}

func (b *builder) include(id string, v float64, pad bool) {
	a := b.axes[id]
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return
	}
	if a.Type == axis.Log {
		if v <= 0 {
			return
		}
		v = math.Log10(v)
	}
	e := b.extents[id]
	if e == nil {
		b.extents[id] = &extent{lo: v, hi: v, padLo: pad, padHi: pad, set: true}
		return
	}
	switch {
	case v < e.lo:
		e.lo, e.padLo = v, pad
	case v == e.lo:
		e.padLo = e.padLo || pad
	}
	switch {
	case v > e.hi:
		e.hi, e.padHi = v, pad
	case v == e.hi:
		e.padHi = e.padHi || pad
	}
}

func (b *builder) setRanges() error {
	for _, id := range b.order {
		a := b.axes[id]
		if r := b.doc.Axes[id].Range; len(r) == 2 {
			lo, hi := calc(a, r[:1])[0], calc(a, r[1:])[0]
			if math.IsNaN(lo) || math.IsNaN(hi) {
				return errors.New(errors.ErrCodeInvalidFigure, "axis %s: invalid range %v", id, r)
			}
			a.Range = [2]float64{lo, hi}
			continue
		}
		a.Range = autorange(a.Type, b.extents[id])
	}
	return nil
}

func autorange(typ axis.Type, e *extent) [2]float64 {
	if e == nil {
		switch typ {
		case axis.Log:
			return [2]float64{1, 100}
		case axis.Date:
			return [2]float64{946684800000, 978307200000}
		}
		return [2]float64{-1, 6}
	}
	lo, hi := e.lo, e.hi
	if lo == hi {
		d := 1.0
		if typ == axis.Date {
			d = msPerDay
		}
		lo, hi = lo-d, hi+d
	} else {
		pad := (hi - lo) * rangePad
		if e.padLo {
			lo -= pad
		}
		if e.padHi {
			hi += pad
		}
	}
	if typ == axis.Log {
		return [2]float64{math.Pow(10, lo), math.Pow(10, hi)}
	}
	return [2]float64{lo, hi}
}

// root follows overlaying links to the axis that owns the domain.
func (b *builder) root(id string) string {
	for range b.order {
		over := b.doc.Axes[id].Overlaying
		if over == "" {
			break
		}
		id = over
	}
	return id
}

func (b *builder) anchor(id string) *axis.Axis {
	if a, ok := b.axes[b.doc.Axes[id].Anchor]; ok {
		return a
	}
	if a, ok := b.axes[b.counter[id]]; ok {
		return a
	}
	if a, ok := b.axes[b.counter[b.root(id)]]; ok {
		return a
	}
	want := "y"
	if id[0] == 'y' {
		want = "x"
	}
	if a, ok := b.axes[want]; ok {
		return a
	}
	for _, other := range b.order {
		if other[:1] == want {
			return b.axes[other]
		}
	}
	return nil
}

func (b *builder) position() {
	w, h := b.doc.Size()
	m := b.doc.margin()
	plotW, plotH := w-m.L-m.R, h-m.T-m.B
	for _, id := range b.order {
		a := b.axes[id]
		d := b.doc.Axes[b.root(id)].Domain
		if len(d) != 2 {
			d = []float64{0, 1}
		}
		if a.IsX() {
			a.Offset = m.L + d[0]*plotW
			a.Length = (d[1] - d[0]) * plotW
		} else {
			a.Offset = m.T + (1-d[1])*plotH
			a.Length = (d[1] - d[0]) * plotH
		}
	}
	// anchors are positioned above, so edges can be read off them
	for _, id := range b.order {
		a, c := b.axes[id], b.anchor(id)
		if c == nil {
			continue
		}
		a.Counter = [2]float64{c.Offset, c.Offset + c.Length}
		far := a.Side == "top" || a.Side == "right"
		if a.IsX() {
			far = !far
		}
		a.Edge = c.Offset
		if far {
			a.Edge = c.Offset + c.Length
		}
	}
}

// subplots returns one subplot per x/y pair used by a trace. A subplot
// whose axes overlay another pair is listed as an overlay of it.
func (b *builder) subplots() ([]*fx.Subplot, error) {
	var out []*fx.Subplot
	byID := make(map[string]*fx.Subplot)
	add := func(x, y string) error {
		id := x + y
		if _, ok := byID[id]; ok {
			return nil
		}
		if err := errors.ValidateSubplotID(id); err != nil {
			return err
		}
		sp := &fx.Subplot{ID: id, XAxis: b.axes[x], YAxis: b.axes[y]}
		byID[id] = sp
		out = append(out, sp)
		return nil
	}
	for i := range b.doc.Traces {
		if err := add(b.doc.Traces[i].axisIDs()); err != nil {
			return nil, err
		}
	}
	if len(out) == 0 {
		if err := add("x", "y"); err != nil {
			return nil, err
		}
	}
	for _, sp := range out {
		base := b.root(sp.XAxis.ID) + b.root(sp.YAxis.ID)
		if owner, ok := byID[base]; ok && base != sp.ID {
			owner.Overlays = append(owner.Overlays, sp.ID)
		}
	}
	return out, nil
}
