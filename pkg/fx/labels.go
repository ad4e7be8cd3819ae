package fx

import (
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/matzehuels/hoverfx/pkg/axis"
	"github.com/matzehuels/hoverfx/pkg/color"
	"github.com/matzehuels/hoverfx/pkg/surface"
)

// Label is one floating hover label. Geometry is in the label's own
// coordinates; the group is translated to (X, Y) on the surface and, for
// rotated layouts, rotated by YAngle.
type Label struct {
	Point *Point `json:"-"`

	CurveNumber int    `json:"curveNumber"`
	PointNumber int    `json:"pointNumber"`
	Text        string `json:"text"`
	Name        string `json:"name,omitempty"`

	// Anchor is the side of the point the label sits on: start, end or
	// middle.
	Anchor     string `json:"anchor"`
	TextAnchor string `json:"textAnchor"`
	Align      string `json:"align,omitempty"`
	Rotated    bool   `json:"rotated,omitempty"`

	Bx       float64 `json:"bx"`
	By       float64 `json:"by"`
	TxWidth  float64 `json:"txwidth"`
	Tx2Width float64 `json:"tx2width"`
	Ty0      float64 `json:"ty0"`

	// Pos is the label position along the overlap axis, PosRef the data
	// position it was ordered by and Offset the shift applied to avoid
	// other labels.
	Pos    float64 `json:"pos"`
	PosRef float64 `json:"posref"`
	Offset float64 `json:"offset"`
	Del    bool    `json:"del,omitempty"`

	X float64 `json:"x"`
	Y float64 `json:"y"`

	TraceColor    string       `json:"traceColor"`
	ContrastColor string       `json:"contrastColor"`
	Font          surface.Font `json:"font"`
	NameFont      surface.Font `json:"nameFont"`

	Path  string       `json:"path"`
	Box   surface.Rect `json:"box"`
	TextX float64      `json:"textX"`
	TextY float64      `json:"textY"`

	NameX    float64      `json:"nameX,omitempty"`
	NameY    float64      `json:"nameY,omitempty"`
	NameRect surface.Rect `json:"nameRect"`
	NameBg   string       `json:"nameBg,omitempty"`

	Clip *surface.Rect `json:"clip,omitempty"`
}

// CommonLabel is the axis label shared by every point in x and y modes.
type CommonLabel struct {
	Text        string       `json:"text"`
	Axis        string       `json:"axis"` // x or y
	X           float64      `json:"x"`
	Y           float64      `json:"y"`
	TextX       float64      `json:"textX"`
	TextY       float64      `json:"textY"`
	TextAnchor  string       `json:"textAnchor"`
	Path        string       `json:"path"`
	Box         surface.Rect `json:"box"`
	BgColor     string       `json:"bgcolor"`
	BorderColor string       `json:"bordercolor"`
	Font        surface.Font `json:"font"`
}

// labelContext carries what label layout needs from the plot and cycle.
type labelContext struct {
	mode     Mode
	rotate   bool
	bgColor  string
	bounds   surface.Rect
	measurer surface.Measurer
	style    HoverLabel // layout hoverlabel with font defaults
	maxHover float64
}

// hoverText lays out the labels for hits. It returns the common label, if
// one is shown, and the hits that still get a label of their own.
func hoverText(hits []*Point, lc labelContext) (*CommonLabel, []*Label) {
	if len(hits) == 0 {
		return nil, nil
	}
	c0 := hits[0]
	letter := "x"
	if lc.mode.Letter() == "y" {
		letter = "y"
	}
	t0 := axisLabel(c0, letter)
	t00, _, _ := strings.Cut(t0, " ")

	showCommon := t0 != "" && c0.Distance <= lc.maxHover && lc.mode.IsXY()
	for _, d := range hits {
		if !hoverInfoHas(d.HoverInfo, letter) {
			showCommon = false
			break
		}
	}
	// every point shows its own z
	allHaveZ := !slices.ContainsFunc(hits, func(d *Point) bool { return d.ZLabelVal == nil })
	if allHaveZ {
		showCommon = false
	}

	var common *CommonLabel
	if showCommon {
		common = commonLabel(c0, letter, t0, lc)
		kept := hits[:0:0]
		for _, d := range hits {
			if lbl, _, _ := strings.Cut(axisLabel(d, letter), " "); d.ZLabelVal != nil || lbl == t00 {
				kept = append(kept, d)
			}
		}
		hits = kept
	}

	var labels []*Label
	for _, d := range hits {
		if l := buildLabel(d, lc, showCommon, t0); l != nil {
			labels = append(labels, l)
		}
	}
	return common, labels
}

func axisLabel(d *Point, letter string) string {
	if letter == "y" {
		return d.YLabel
	}
	return d.XLabel
}

func commonLabel(c0 *Point, letter, t0 string, lc labelContext) *CommonLabel {
	bg := lc.style.BgColor
	if bg == "" {
		bg = color.DefaultLine
	}
	border := lc.style.BorderColor
	if border == "" {
		border = color.Contrast(bg)
	}
	font := lc.style.Font
	if font.Color == "" {
		font.Color = color.Contrast(bg)
	}

	cl := &CommonLabel{Text: t0, Axis: letter, BgColor: bg, BorderColor: border, Font: font}
	tbb := lc.measurer.Measure(t0, font)
	w, h := tbb.W, tbb.H
	const a, pad = HoverArrowSize, HoverTextPad
	xa, ya := c0.XA, c0.YA

	if letter == "x" {
		top := xa.Side == "top"
		sign := ""
		cl.TextAnchor = "middle"
		cl.TextY = -tbb.Y + a + pad
		cl.Box = surface.Rect{X: -(pad + w/2), Y: a, W: w + 2*pad, H: h + 2*pad}
		if top {
			sign = "-"
			cl.TextY = -(tbb.Y + tbb.H) - a - pad
			cl.Box.Y = -(a + h + 2*pad)
		}
		cl.Path = fmt.Sprintf("M0,0L%s,%s%sH%sv%s%sH-%sV%s%sH-%sZ",
			ff(a), sign, ff(a), ff(pad+w/2), sign, ff(2*pad+h), ff(pad+w/2), sign, ff(a), ff(a))
		cl.X = xa.Offset + (c0.X0+c0.X1)/2
		cl.Y = ya.Offset
		if !top {
			cl.Y += ya.Length
		}
		return cl
	}

	right := ya.Side == "right"
	sign, dir := "-", -1.0
	cl.TextAnchor = "end"
	if right {
		sign, dir = "", 1
		cl.TextAnchor = "start"
	}
	cl.TextX = dir * (pad + a)
	cl.TextY = -tbb.Y - h/2
	cl.Box = surface.Rect{X: -(a + w + 2*pad), Y: -(pad + h/2), W: w + 2*pad, H: h + 2*pad}
	if right {
		cl.Box.X = a
	}
	cl.Path = fmt.Sprintf("M0,0L%s%s,%sV%sh%s%sV-%sH%s%sV-%sZ",
		sign, ff(a), ff(a), ff(pad+h/2), sign, ff(2*pad+w), ff(pad+h/2), sign, ff(a), ff(a))
	cl.X = xa.Offset
	if right {
		cl.X += xa.Length
	}
	cl.Y = ya.Offset + (c0.Y0+c0.Y1)/2
	return cl
}

// labelText composes the name and text of d's label. A point whose label
// on the compared axis matches the common label t0 only shows the other
// axis.
func labelText(d *Point, showCommon bool, mode Mode, t0 string, nameLength int) (name, text string) {
	name = d.Name
	if d.NameOverride != nil {
		name = *d.NameOverride
	}
	name = truncateName(surface.PlainText(name), nameLength)

	h0 := mode.Letter()
	h0Label := d.XLabel
	if h0 == "y" {
		h0Label = d.YLabel
	}

	switch {
	case d.ZLabel != "":
		if d.XLabel != "" {
			text += "x: " + d.XLabel + "<br>"
		}
		if d.YLabel != "" {
			text += "y: " + d.YLabel + "<br>"
		}
		if !d.Trace.OmitZLabel {
			if text != "" {
				text += "z: "
			}
			text += d.ZLabel
		}
	case showCommon && h0Label == t0:
		if h0 == "y" {
			text = d.XLabel
		} else {
			text = d.YLabel
		}
	case d.XLabel == "":
		text = d.YLabel
	case d.YLabel == "":
		text = d.XLabel
	default:
		text = "(" + d.XLabel + ", " + d.YLabel + ")"
	}

	if d.Text != "" {
		if text != "" {
			text += "<br>"
		}
		text += d.Text
	}
	if d.ExtraText != "" {
		if text != "" {
			text += "<br>"
		}
		text += d.ExtraText
	}
	return name, text
}

func pointNameLength(d *Point, lc labelContext) int {
	if d.NameLength != nil {
		return *d.NameLength
	}
	if lc.style.NameLength != nil {
		return *lc.style.NameLength
	}
	return DefaultNameLength
}

// buildLabel sizes and anchors the label of d, or returns nil when d has
// nothing to show.
func buildLabel(d *Point, lc labelContext, showCommon bool, t0 string) *Label {
	nameLength := pointNameLength(d, lc)
	name, text := labelText(d, showCommon, lc.mode, t0, nameLength)
	if d.HoverTemplate != "" {
		text, name = applyTemplate(d, lc.mode, t0, name, nameLength)
	} else if text == "" {
		if name == "" {
			return nil
		}
		text = name
	}

	base := d.Color
	if base == "" || color.Opacity(base) == 0 {
		base = color.DefaultLine
	}
	traceColor := color.Combine(base, lc.bgColor)
	contrast := d.BorderColor
	if contrast == "" {
		contrast = color.Contrast(traceColor)
	}

	font := surface.Font{Family: d.FontFamily, Size: d.FontSize, Color: d.FontColor}
	if font.Family == "" {
		font.Family = lc.style.Font.Family
	}
	if font.Size <= 0 {
		font.Size = lc.style.Font.Size
	}
	if font.Color == "" {
		font.Color = contrast
	}

	l := &Label{
		Point:         d,
		CurveNumber:   d.Trace.Index,
		PointNumber:   d.Index,
		Text:          text,
		TraceColor:    traceColor,
		ContrastColor: contrast,
		Font:          font,
		NameFont:      surface.Font{Family: font.Family, Size: font.Size, Color: traceColor},
		Align:         d.Align,
		Rotated:       lc.rotate,
		PosRef:        d.PosRef,
		NameBg:        color.AddOpacity(lc.bgColor, 0.8),
	}

	const a, pad = HoverArrowSize, HoverTextPad
	tbb := lc.measurer.Measure(text, font)
	if name != "" && name != text {
		l.Name = name
		nb := lc.measurer.Measure(name, l.NameFont)
		l.Tx2Width = nb.W + 2*pad
	}

	htx := d.XA.Offset + (d.X0+d.X1)/2
	hty := d.YA.Offset + (d.Y0+d.Y1)/2
	dx := math.Abs(d.X1 - d.X0)
	dy := math.Abs(d.Y1 - d.Y0)
	total := tbb.W + a + pad + l.Tx2Width

	l.Ty0 = -tbb.Y
	l.Bx = tbb.W + 2*pad
	l.By = tbb.H + 2*pad
	l.TxWidth = tbb.W
	l.Anchor = "start"

	b := lc.bounds
	if lc.rotate {
		l.Pos = htx
		startOK := hty+dy/2+total <= b.Bottom()
		endOK := hty-dy/2-total >= b.Y
		switch {
		case (d.IdealAlign == "top" || !startOK) && endOK:
			hty -= dy / 2
			l.Anchor = "end"
		case startOK:
			hty += dy / 2
		default:
			l.Anchor = "middle"
		}
	} else {
		l.Pos = hty
		startOK := htx+dx/2+total <= b.Right()
		endOK := htx-dx/2-total >= b.X
		switch {
		case (d.IdealAlign == "left" || !startOK) && endOK:
			htx -= dx / 2
			l.Anchor = "end"
		case startOK:
			htx += dx / 2
		default:
			l.Anchor = "middle"
			if l.Bx+l.Tx2Width <= b.W {
				half := (l.Bx + l.Tx2Width) / 2
				htx = clamp(htx, b.X+half, b.Right()-half)
			}
			l.Clip = &surface.Rect{X: b.X - htx, Y: b.Y - hty, W: b.W, H: b.H}
		}
	}
	l.X, l.Y = htx, hty
	return l
}

// overlapItems projects labels onto the axis they are spread along and
// returns the axis sign that orders equal positions.
func overlapItems(labels []*Label, rotate bool) ([]OverlapItem, float64) {
	items := make([]OverlapItem, len(labels))
	axSign := 1.0
	for i, l := range labels {
		ax := spreadAxis(l.Point, rotate)
		size := l.By / 2
		if ax.IsX() {
			size *= YFactor
		}
		items[i] = OverlapItem{
			Pos:        l.Pos,
			PosRef:     l.PosRef,
			Size:       size,
			PMin:       ax.Offset,
			PMax:       ax.Offset + ax.Length,
			TraceIndex: l.CurveNumber,
		}
		if i == 0 && ax.Reversed() != ax.IsX() {
			axSign = -1
		}
	}
	return items, axSign
}

func spreadAxis(d *Point, rotate bool) *axis.Axis {
	if rotate {
		return d.XA
	}
	return d.YA
}

// alignLabel computes the path and text positions of l once its offset is
// known.
func alignLabel(l *Label) {
	const a, pad = HoverArrowSize, HoverTextPad
	var shift, hs float64
	switch l.Anchor {
	case "start":
		shift, hs = 1, 1
	case "end":
		shift, hs = -1, -1
	default:
		hs = 1
	}
	txx := shift * (a + pad)
	tx2x := txx + shift*(l.TxWidth+pad)
	if l.Anchor == "middle" {
		txx -= l.Tx2Width / 2
		tx2x -= l.Tx2Width / 2
	}

	offY, offX := l.Offset, 0.0
	if l.Rotated {
		offY = l.Offset * -YShiftY
		offX = l.Offset * YShiftX
	}

	if l.Anchor == "middle" {
		x0 := -(l.Bx/2 + l.Tx2Width/2)
		l.Path = fmt.Sprintf("M%s,%sh%sv%sh%sZ", ff(x0), ff(offY-l.By/2), ff(l.Bx), ff(l.By), ff(-l.Bx))
		l.Box = surface.Rect{X: x0, Y: offY - l.By/2, W: l.Bx, H: l.By}
	} else {
		l.Path = fmt.Sprintf("M0,0L%s,%sv%sh%sv-%sH%sV%sZ",
			ff(hs*a+offX), ff(a+offY), ff(l.By/2-a), ff(hs*l.Bx), ff(l.By), ff(hs*a+offX), ff(offY-a))
		x0 := hs*a + offX
		if hs < 0 {
			x0 -= l.Bx
		}
		l.Box = surface.Rect{X: x0, Y: offY - l.By/2, W: l.Bx, H: l.By}
	}

	posX := txx
	l.TextAnchor = l.Anchor
	switch {
	case l.Align == "left" && l.Anchor != "start":
		l.TextAnchor = "start"
		if l.Anchor == "middle" {
			posX = -l.Bx/2 - l.Tx2Width/2 + pad
		} else {
			posX = -l.Bx - pad
		}
	case l.Align == "right" && l.Anchor != "end":
		l.TextAnchor = "end"
		if l.Anchor == "middle" {
			posX = l.Bx/2 - l.Tx2Width/2 - pad
		} else {
			posX = l.Bx + pad
		}
	}
	l.TextX = posX + offX
	l.TextY = offY + l.Ty0 - l.By/2 + pad

	if l.Tx2Width > 0 {
		l.NameX = tx2x + shift*pad + offX
		l.NameY = l.TextY
		l.NameRect = surface.Rect{
			X: tx2x + (shift-1)*l.Tx2Width/2 + offX,
			Y: offY - l.By/2 - 1,
			W: l.Tx2Width,
			H: l.By + 2,
		}
	}
}

// Node draws l.
func (l *Label) Node(clipID string) *surface.Group {
	g := &surface.Group{Class: "hovertext", X: l.X, Y: l.Y}
	if l.Rotated {
		g.Rotate = YAngle
	}
	if l.Clip != nil && clipID != "" {
		g.ClipID = clipID
		g.Append(&surface.ClipPath{ID: clipID, Rect: *l.Clip})
	}
	if l.Name != "" {
		g.Append(
			&surface.Box{Class: "bg", Rect: l.NameRect, Fill: l.NameBg},
			&surface.Text{Class: "name", X: l.NameX, Y: l.NameY, Text: l.Name, Font: l.NameFont, Anchor: l.Anchor},
		)
	}
	g.Append(
		&surface.Path{D: l.Path, Fill: l.TraceColor, Stroke: l.ContrastColor, StrokeWidth: 1, Box: l.Box},
		&surface.Text{Class: "nums", X: l.TextX, Y: l.TextY, Text: l.Text, Font: l.Font, Anchor: l.TextAnchor},
	)
	return g
}

// Node draws c.
func (c *CommonLabel) Node() *surface.Group {
	return (&surface.Group{Class: "axistext", X: c.X, Y: c.Y}).Append(
		&surface.Path{D: c.Path, Fill: c.BgColor, Stroke: c.BorderColor, StrokeWidth: 1, Box: c.Box},
		&surface.Text{X: c.TextX, Y: c.TextY, Text: c.Text, Font: c.Font, Anchor: c.TextAnchor},
	)
}

// ff formats a path coordinate.
func ff(v float64) string {
	return strconv.FormatFloat(math.Round(v*100)/100, 'f', -1, 64)
}
