package axis

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var (
	formatRe = regexp.MustCompile(`^(\$)?(,)?(?:\.(\d+))?(~)?([efgdrs%])?$`)
	printer  = message.NewPrinter(language.English)
)

// siPrefixes covers 1e-24 through 1e24 in steps of 1e3.
var siPrefixes = []string{"y", "z", "a", "f", "p", "n", "µ", "m", "", "k", "M", "G", "T", "P", "E", "Z", "Y"}

// Format renders v using a d3-style format specifier restricted to
// [$][,][.precision][~][type] with type one of e f g d r s %.
//
//	Format(",.2f", 1234.5)  // "1,234.50"
//	Format(".1%", 0.256)    // "25.6%"
//	Format(".3s", 1520)     // "1.52k"
func Format(spec string, v float64) (string, error) {
	m := formatRe.FindStringSubmatch(spec)
	if m == nil {
		return "", fmt.Errorf("unsupported number format %q", spec)
	}
	currency, group, trim, typ := m[1] != "", m[2] != "", m[4] != "", m[5]
	precision := -1
	if m[3] != "" {
		precision, _ = strconv.Atoi(m[3])
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return strconv.FormatFloat(v, 'g', -1, 64), nil
	}

	sprintf := fmt.Sprintf
	if group {
		sprintf = func(format string, a ...any) string { return printer.Sprintf(format, a...) }
	}

	var out, suffix string
	switch typ {
	case "f":
		out = fixed(sprintf, precisionOr(precision, 6), v)
	case "e":
		out = strconv.FormatFloat(v, 'e', precisionOr(precision, 6), 64)
	case "g":
		out = strconv.FormatFloat(v, 'g', max(precisionOr(precision, 6), 1), 64)
	case "d":
		out = sprintf("%d", int64(math.Round(v)))
	case "%":
		out = fixed(sprintf, precisionOr(precision, 6), v*100)
		suffix = "%"
	case "r":
		r := roundSignificant(v, max(precisionOr(precision, 6), 1))
		out = fixed(sprintf, decimalsFor(r, max(precisionOr(precision, 6), 1)), r)
	case "s":
		out, suffix = siFormat(v, max(precisionOr(precision, 6), 1))
	default:
		if precision < 0 && !group {
			out = FormatNumber(v)
		} else {
			r := roundSignificant(v, max(precisionOr(precision, 12), 1))
			out = fixed(sprintf, decimalsFor(r, max(precisionOr(precision, 12), 1)), r)
			trim = true
		}
	}
	if trim {
		out = trimZeros(out)
	}
	if currency {
		if strings.HasPrefix(out, "-") {
			out = "-$" + out[1:]
		} else {
			out = "$" + out
		}
	}
	return out + suffix, nil
}

// FormatNumber renders v with up to six significant digits and no trailing
// zeros. Very large or very small magnitudes use exponent notation.
func FormatNumber(v float64) string {
	if v == 0 {
		return "0"
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return strconv.FormatFloat(v, 'g', -1, 64)
	}
	abs := math.Abs(v)
	if abs >= 1e15 || abs < 1e-6 {
		return strconv.FormatFloat(v, 'g', 6, 64)
	}
	r := roundSignificant(v, 6)
	return strconv.FormatFloat(r, 'f', -1, 64)
}

func fixed(sprintf func(string, ...any) string, decimals int, v float64) string {
	return sprintf("%."+strconv.Itoa(decimals)+"f", v)
}

func precisionOr(p, def int) int {
	if p < 0 {
		return def
	}
	return p
}

func roundSignificant(v float64, digits int) float64 {
	if v == 0 {
		return 0
	}
	mag := math.Floor(math.Log10(math.Abs(v)))
	scale := math.Pow(10, float64(digits-1)-mag)
	return math.Round(v*scale) / scale
}

func decimalsFor(v float64, digits int) int {
	if v == 0 {
		return max(digits-1, 0)
	}
	mag := int(math.Floor(math.Log10(math.Abs(v))))
	return max(digits-1-mag, 0)
}

func siFormat(v float64, digits int) (string, string) {
	if v == 0 {
		return strconv.FormatFloat(0, 'f', max(digits-1, 0), 64), ""
	}
	exp := int(math.Floor(math.Log10(math.Abs(v)) / 3))
	exp = min(max(exp, -8), 8)
	scaled := roundSignificant(v/math.Pow(1000, float64(exp)), digits)
	return strconv.FormatFloat(scaled, 'f', decimalsFor(scaled, digits), 64), siPrefixes[exp+8]
}

func trimZeros(s string) string {
	if strings.ContainsAny(s, "eE") || !strings.Contains(s, ".") {
		return s
	}
	s = strings.TrimRight(s, "0")
	return strings.TrimSuffix(s, ".")
}

// =============================================================================
// Dates
// =============================================================================

var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
	"2006-01",
	"2006",
}

// ParseDate parses the date strings accepted on date axes. Times without a
// zone are read as UTC.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}

// strftime directives mapped to Go reference-time layouts.
var strftime = map[byte]string{
	'Y': "2006", 'y': "06", 'm': "01", 'd': "02", 'e': "_2",
	'H': "15", 'I': "03", 'M': "04", 'S': "05", 'p': "PM",
	'b': "Jan", 'B': "January", 'a': "Mon", 'A': "Monday",
	'%': "%",
}

// FormatDate renders a millisecond timestamp. An empty format prints the
// date, followed by the time of day only when it is not midnight, so the
// leading space-separated token is always the calendar date.
func FormatDate(ms float64, format string) string {
	t := time.UnixMilli(int64(math.Round(ms))).UTC()
	if format != "" {
		return t.Format(strftimeLayout(format))
	}
	switch {
	case t.Nanosecond() != 0:
		return t.Format("2006-01-02 15:04:05.000")
	case t.Second() != 0:
		return t.Format("2006-01-02 15:04:05")
	case t.Hour() != 0 || t.Minute() != 0:
		return t.Format("2006-01-02 15:04")
	}
	return t.Format("2006-01-02")
}

func strftimeLayout(format string) string {
	var b strings.Builder
	for i := 0; i < len(format); i++ {
		if format[i] == '%' && i+1 < len(format) {
			if layout, ok := strftime[format[i+1]]; ok {
				b.WriteString(layout)
				i++
				continue
			}
		}
		b.WriteByte(format[i])
	}
	return b.String()
}
