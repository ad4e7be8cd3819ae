package traces

import (
	"math"

	"github.com/matzehuels/hoverfx/pkg/fx"
)

// Trace type names as used in figure documents.
const (
	TypeScatter = "scatter"
	TypeBar     = "bar"
	TypeHeatmap = "heatmap"
)

// ErrorBars are per-point error magnitudes. Minus may be nil for symmetric
// errors.
type ErrorBars struct {
	Plus  []float64 `json:"array" toml:"array" yaml:"array"`
	Minus []float64 `json:"arrayminus,omitempty" toml:"arrayminus" yaml:"arrayminus"`
}

// at returns the errors of point i.
func (e *ErrorBars) at(i int) (plus, minus *float64) {
	if e == nil || i >= len(e.Plus) || !finite(e.Plus[i]) {
		return nil, nil
	}
	plus = fx.Float(e.Plus[i])
	if i < len(e.Minus) && finite(e.Minus[i]) && e.Minus[i] != e.Plus[i] {
		minus = fx.Float(e.Minus[i])
	}
	return plus, minus
}

// colorAt returns the per-point color of i or the trace color.
func colorAt(colors []string, dflt string, i int) string {
	if i < len(colors) && colors[i] != "" {
		return colors[i]
	}
	return dflt
}

// fillText copies the trace text of the hit point.
func fillText(pd *fx.Point) {
	if tr := pd.Trace; tr != nil && pd.Index >= 0 && pd.Index < len(tr.Text) {
		pd.Text = tr.Text[pd.Index]
	}
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }

func at(vals []float64, i int) float64 {
	if i < len(vals) {
		return vals[i]
	}
	return math.NaN()
}
