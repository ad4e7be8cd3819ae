package fx

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/matzehuels/hoverfx/pkg/axis"
	"github.com/matzehuels/hoverfx/pkg/surface"
)

var (
	templateRe = regexp.MustCompile(`%{([^\s%{}:|]*)([:|][^}]*)?}`)
	extraRe    = regexp.MustCompile(`(?s)<extra>(.*)</extra>`)
)

// templateVars collects what a hover template can reference for d: the
// formatted labels, the raw values and the event fields.
type templateVars struct {
	labels map[string]string
	values map[string]any
}

func newTemplateVars(d *Point, mode Mode, t0 string) templateVars {
	v := templateVars{
		labels: map[string]string{},
		values: map[string]any{
			"curveNumber":   d.Trace.Index,
			"pointNumber":   d.Index,
			"fullData.name": d.Trace.Name,
			"data.name":     d.Trace.Name,
		},
	}
	set := func(key, label string, val *float64) {
		if label != "" {
			v.labels[key+"Label"] = label
			v.values[key+"Label"] = label
		}
		if val != nil {
			v.values[key] = *val
		}
	}
	set("x", d.XLabel, d.XLabelVal)
	set("y", d.YLabel, d.YLabelVal)
	set("z", d.ZLabel, d.ZLabelVal)
	if d.Text != "" {
		v.values["text"] = d.Text
	}
	if d.Name != "" {
		v.values["name"] = d.Name
	}
	if d.Index >= 0 && d.Index < len(d.Trace.CustomData) {
		v.values["customdata"] = d.Trace.CustomData[d.Index]
	}

	// the compared value of a point that missed the common label
	if h0 := mode.Letter(); h0 != "" {
		label := d.XLabel
		val := d.XLabelVal
		if h0 == "y" {
			label, val = d.YLabel, d.YLabelVal
		}
		if label != t0 {
			set(h0+"other", label, val)
		}
	}
	return v
}

// renderTemplate substitutes %{key} and %{key:format} references. Unformatted
// axis values use their hover labels. Date formats follow "|". Unknown keys
// are left in place.
func renderTemplate(tmpl string, vars templateVars) string {
	return templateRe.ReplaceAllStringFunc(tmpl, func(match string) string {
		m := templateRe.FindStringSubmatch(match)
		key, format := m[1], m[2]
		val, ok := vars.values[key]
		if !ok {
			return match
		}
		if format == "" {
			if label, ok := vars.labels[key+"Label"]; ok {
				return label
			}
			return stringify(val)
		}
		num, isNum := toFloat(val)
		switch format[0] {
		case ':':
			if !isNum {
				return stringify(val)
			}
			s, err := axis.Format(format[1:], num)
			if err != nil {
				return stringify(val)
			}
			return s
		case '|':
			if !isNum {
				return stringify(val)
			}
			return axis.FormatDate(num, format[1:])
		}
		return stringify(val)
	})
}

// applyTemplate renders d's template and pulls the secondary name out of an
// <extra> marker. name is returned unchanged when there is no marker.
func applyTemplate(d *Point, mode Mode, t0, name string, nameLength int) (string, string) {
	text := renderTemplate(d.HoverTemplate, newTemplateVars(d, mode, t0))
	if m := extraRe.FindStringSubmatch(text); m != nil {
		name = truncateName(surface.PlainText(m[1]), nameLength)
		text = extraRe.ReplaceAllString(text, "")
	}
	return text, name
}

// truncateName shortens s to n runes, ending in "..." when n leaves room.
// Negative n disables truncation.
func truncateName(s string, n int) string {
	r := []rune(s)
	if n < 0 || len(r) <= n {
		return s
	}
	if n > 3 {
		return string(r[:n-3]) + "..."
	}
	return string(r[:n])
}

func toFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case int:
		return float64(x), true
	case string:
		f, err := strconv.ParseFloat(x, 64)
		return f, err == nil
	}
	return 0, false
}

func stringify(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case float64:
		return jsNumber(x)
	case nil:
		return ""
	}
	return fmt.Sprint(v)
}
