package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/hoverfx/pkg/fx"
)

// =============================================================================
// Color Palette
// =============================================================================

var (
	colorCyan   = lipgloss.Color("36")  // Teal - primary actions
	colorGreen  = lipgloss.Color("35")  // Green - success
	colorYellow = lipgloss.Color("220") // Amber - warnings
	colorWhite  = lipgloss.Color("255") // Bright white - values
	colorGray   = lipgloss.Color("245") // Gray - secondary text
	colorDim    = lipgloss.Color("240") // Dim gray - muted text
)

// =============================================================================
// Styles
// =============================================================================

var (
	// StyleTitle for main headings.
	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)

	// StyleDim for secondary/muted text.
	StyleDim = lipgloss.NewStyle().Foreground(colorDim)

	// StyleValue for data values.
	StyleValue = lipgloss.NewStyle().Foreground(colorWhite)

	// StyleWarning for warning messages.
	StyleWarning = lipgloss.NewStyle().Foreground(colorYellow)

	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleIconWarning = lipgloss.NewStyle().Foreground(colorYellow)
	styleIconInfo    = lipgloss.NewStyle().Foreground(colorGray)
	styleHeader      = lipgloss.NewStyle().Foreground(colorGray).Bold(true)
)

const (
	iconSuccess = "✓"
	iconWarning = "!"
	iconInfo    = "›"
	iconArrow   = "→"
)

// =============================================================================
// Status Output
// =============================================================================

func printSuccess(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println(styleIconSuccess.Render(iconSuccess) + " " + msg)
}

func printWarning(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println(styleIconWarning.Render(iconWarning) + " " + StyleWarning.Render(msg))
}

func printInfo(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println(styleIconInfo.Render(iconInfo) + " " + msg)
}

// printDetail prints a detail line (indented).
func printDetail(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println("  " + StyleDim.Render(msg))
}

// printFile prints a file output line.
func printFile(path string) {
	fmt.Println("  " + StyleDim.Render(iconArrow) + " " + StyleValue.Render(path))
}

// printKeyValue prints a labeled value.
func printKeyValue(key, value string) {
	keyStyle := lipgloss.NewStyle().Foreground(colorGray).Width(12)
	fmt.Println(keyStyle.Render(key) + " " + StyleValue.Render(value))
}

// =============================================================================
// Hover Results
// =============================================================================

// renderResult formats a hover result as a table of hovered points followed
// by the label texts, the common label and the spike points.
func renderResult(res *fx.Result) string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Hover"))
	b.WriteString(StyleDim.Render(fmt.Sprintf("  mode %s", res.Mode)))
	b.WriteString("\n")

	if len(res.Points) == 0 {
		b.WriteString(StyleDim.Render("  no points in range"))
		b.WriteString("\n")
	} else {
		rows := make([][]string, 0, len(res.Points))
		for _, p := range res.Points {
			rows = append(rows, []string{
				strconv.Itoa(p.CurveNumber),
				strconv.Itoa(p.PointNumber),
				p.TraceName,
				fmtValue(p.X),
				fmtValue(p.Y),
				fmtValue(p.Z),
			})
		}
		t := table.New().
			Border(lipgloss.RoundedBorder()).
			BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
			Headers("Curve", "Point", "Trace", "X", "Y", "Z").
			Rows(rows...).
			StyleFunc(func(row, col int) lipgloss.Style {
				if row == -1 {
					return styleHeader
				}
				return lipgloss.NewStyle().Foreground(colorWhite)
			})
		b.WriteString(t.Render())
		b.WriteString("\n")
	}

	for _, l := range res.Labels {
		line := fmt.Sprintf("  %s %s", iconInfo, strings.ReplaceAll(l.Text, "\n", " | "))
		if l.Name != "" {
			line += StyleDim.Render("  " + l.Name)
		}
		if l.Del {
			line = StyleDim.Render(line + "  (hidden)")
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	if cl := res.CommonLabel; cl != nil {
		b.WriteString(fmt.Sprintf("  %s %s %s\n", StyleDim.Render(cl.Axis+":"), iconArrow, cl.Text))
	}
	if u := res.Unified; u != nil {
		b.WriteString("  " + StyleTitle.Render(u.Title) + "\n")
		for _, it := range u.Items {
			b.WriteString("    " + it.Label() + "\n")
		}
	}
	if res.Deleted > 0 {
		b.WriteString(StyleWarning.Render(fmt.Sprintf("  %d label(s) did not fit", res.Deleted)))
		b.WriteString("\n")
	}
	if sp := res.Spikes.V; sp != nil {
		b.WriteString(StyleDim.Render(fmt.Sprintf("  vertical spike   %s at x=%s", sp.XAxis, num(sp.X))))
		b.WriteString("\n")
	}
	if sp := res.Spikes.H; sp != nil {
		b.WriteString(StyleDim.Render(fmt.Sprintf("  horizontal spike %s at y=%s", sp.YAxis, num(sp.Y))))
		b.WriteString("\n")
	}
	return b.String()
}

func fmtValue(v any) string {
	switch v := v.(type) {
	case nil:
		return ""
	case float64:
		return num(v)
	case *float64:
		if v == nil {
			return ""
		}
		return num(*v)
	default:
		return fmt.Sprint(v)
	}
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
