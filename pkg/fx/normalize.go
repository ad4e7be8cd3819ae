package fx

import (
	"strconv"
	"strings"

	"github.com/matzehuels/hoverfx/pkg/axis"
)

// cleanPoint resolves a raw hit into a labelled candidate: it fills style
// from the point, trace or layout, records the sort position, clamps the box
// to the axes, formats labels and error ranges and applies the hoverinfo mask.
func cleanPoint(d *Point, mode Mode, lhl HoverLabel) *Point {
	tr := d.Trace
	var st PointStyle
	if d.Index >= 0 && d.Index < len(tr.Styles) {
		st = tr.Styles[d.Index]
	}
	hl := tr.HoverLabel

	fill(&d.HoverInfo, st.HoverInfo, tr.hoverInfo())
	fill(&d.Color, st.BgColor, hl.BgColor, lhl.BgColor)
	fill(&d.BorderColor, st.BorderColor, hl.BorderColor, lhl.BorderColor)
	fill(&d.FontFamily, st.FontFamily, hl.Font.Family, lhl.Font.Family)
	fill(&d.FontColor, st.FontColor, hl.Font.Color, lhl.Font.Color)
	fill(&d.Align, st.Align, hl.Align, lhl.Align)
	switch {
	case st.FontSize != nil:
		d.FontSize = *st.FontSize
	case hl.Font.Size > 0:
		d.FontSize = hl.Font.Size
	case lhl.Font.Size > 0:
		d.FontSize = lhl.Font.Size
	}
	switch {
	case st.NameLength != nil:
		d.NameLength = st.NameLength
	case hl.NameLength != nil:
		d.NameLength = hl.NameLength
	case lhl.NameLength != nil:
		d.NameLength = lhl.NameLength
	}
	if d.HoverTemplate == "" {
		d.HoverTemplate = tr.HoverTemplate
	}

	if mode == ModeY || (mode == ModeClosest && tr.Orientation == "h") {
		d.PosRef = d.XA.Offset + (d.X0+d.X1)/2
	} else {
		d.PosRef = d.YA.Offset + (d.Y0+d.Y1)/2
	}

	d.X0 = clamp(d.X0, 0, d.XA.Length)
	d.X1 = clamp(d.X1, 0, d.XA.Length)
	d.Y0 = clamp(d.Y0, 0, d.YA.Length)
	d.Y1 = clamp(d.Y1, 0, d.YA.Length)

	if d.XLabelVal != nil {
		d.XLabel = d.XA.HoverText(*d.XLabelVal)
		d.XVal = d.XA.C2D(*d.XLabelVal)
	}
	if d.YLabelVal != nil {
		d.YLabel = d.YA.HoverText(*d.YLabelVal)
		d.YVal = d.YA.C2D(*d.YLabelVal)
	}
	if d.ZLabelVal != nil {
		d.ZLabel = jsNumber(*d.ZLabelVal)
	}

	if suffix, ok := errorRange(d.XA, d.XErr, d.XErrNeg); ok {
		d.XLabel += suffix
		if mode == ModeX {
			d.Distance++
		}
	}
	if suffix, ok := errorRange(d.YA, d.YErr, d.YErrNeg); ok {
		d.YLabel += suffix
		if mode == ModeY {
			d.Distance++
		}
	}

	if info := d.HoverInfo; info != "all" {
		flags := strings.Split(info, "+")
		if !hasFlag(flags, "x") {
			d.XLabel = ""
		}
		if !hasFlag(flags, "y") {
			d.YLabel = ""
		}
		if !hasFlag(flags, "z") {
			d.ZLabel = ""
		}
		if !hasFlag(flags, "text") {
			d.Text = ""
		}
		if !hasFlag(flags, "name") {
			d.Name = ""
		}
	}
	return d
}

// fill sets *dst from the first non-empty override, keeping *dst otherwise.
func fill(dst *string, vals ...string) {
	for _, v := range vals {
		if v != "" {
			*dst = v
			return
		}
	}
}

// errorRange formats an error bar as " ± e" or " +e / -en". Log axes skip
// non-positive errors.
func errorRange(ax *axis.Axis, err, errNeg *float64) (string, bool) {
	if err == nil || !finite(*err) || (ax.Type == axis.Log && *err <= 0) {
		return "", false
	}
	text := ax.HoverText(*err)
	if errNeg != nil {
		return " +" + text + " / -" + ax.HoverText(*errNeg), true
	}
	return " ± " + text, true
}

func hasFlag(flags []string, f string) bool {
	for _, v := range flags {
		if v == f {
			return true
		}
	}
	return false
}

// hoverInfoHas reports whether a hoverinfo string shows flag.
func hoverInfoHas(info, flag string) bool {
	if info == "" || info == "all" {
		return true
	}
	flags := strings.Split(info, "+")
	return hasFlag(flags, "all") || hasFlag(flags, flag)
}

// jsNumber formats v the way a browser prints a number: shortest
// round-trip digits, exponent form outside [1e-6, 1e21).
func jsNumber(v float64) string {
	abs := v
	if abs < 0 {
		abs = -abs
	}
	if abs != 0 && (abs < 1e-6 || abs >= 1e21) {
		s := strconv.FormatFloat(v, 'e', -1, 64)
		mant, exp, _ := strings.Cut(s, "e")
		sign := exp[:1]
		exp = strings.TrimLeft(exp[1:], "0")
		return mant + "e" + sign + exp
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
