package cli

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/NimbleMarkets/ntcharts/canvas"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/hoverfx/pkg/color"
	"github.com/matzehuels/hoverfx/pkg/figure"
	"github.com/matzehuels/hoverfx/pkg/fx"
	"github.com/matzehuels/hoverfx/pkg/surface"
	"github.com/matzehuels/hoverfx/pkg/traces"
)

// layerPlot holds the axes and trace marks drawn under the hover layers.
const layerPlot = "plotlayer"

// statusRows is the number of terminal rows below the canvas.
const statusRows = 2

// exploreCommand creates the explore command, an interactive terminal view
// of a figure that hovers under the mouse.
func (c *CLI) exploreCommand() *cobra.Command {
	var mode string

	cmd := &cobra.Command{
		Use:   "explore [figure]",
		Short: "Hover a figure interactively in the terminal",
		Long: `Draw a figure in the terminal and hover it with the mouse.

Keys: m cycles the hover mode, u unhovers, q quits.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := c.loadFigure(args[0])
			if err != nil {
				return err
			}
			if mode != "" {
				if !fx.Mode(mode).Valid() {
					return fmt.Errorf("unsupported hover mode %q", mode)
				}
				doc.Layout.HoverMode = mode
			}
			// the terminal belongs to the view; plot warnings would garble it
			m := newExploreModel(doc, log.New(io.Discard))
			_, err = tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseAllMotion()).Run()
			return err
		},
	}

	cmd.Flags().StringVar(&mode, "mode", "", "initial hover mode")
	return cmd
}

// =============================================================================
// exploreModel - Interactive hover view
// =============================================================================

type exploreModel struct {
	doc    *figure.Document
	logger *log.Logger

	plot  *fx.Plot
	scene *surface.Scene
	mode  fx.Mode

	cols, rows int
	cursor     *canvas.Point
	res        *fx.Result
	err        error
}

func newExploreModel(doc *figure.Document, logger *log.Logger) exploreModel {
	return exploreModel{doc: doc, logger: logger, mode: fx.Mode(doc.Layout.HoverMode)}
}

func (m exploreModel) Init() tea.Cmd {
	return nil
}

func (m exploreModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "m":
			m.mode = nextMode(m.mode)
			if m.plot != nil {
				m.plot.Layout.HoverMode = m.mode
				m.rehover()
			}
		case "u":
			if m.plot != nil {
				m.plot.Unhover(nil)
			}
			m.cursor, m.res = nil, nil
		}
	case tea.MouseMsg:
		if msg.Action == tea.MouseActionMotion && m.plot != nil {
			m.cursor = &canvas.Point{X: msg.X, Y: msg.Y}
			m.rehover()
		}
	case tea.WindowSizeMsg:
		m.err = m.resize(msg.Width, msg.Height)
		m.rehover()
	}
	return m, nil
}

func (m exploreModel) View() string {
	if m.err != nil {
		return StyleWarning.Render(m.err.Error()) + "\n"
	}
	if m.scene == nil {
		return StyleDim.Render("loading…")
	}
	cv := canvas.New(m.cols, m.canvasRows())
	surface.Rasterize(&cv, m.scene, layerPlot, surface.LayerSpikes, surface.LayerHover)

	var b strings.Builder
	b.WriteString(cv.View())
	b.WriteString("\n")
	b.WriteString(m.status())
	b.WriteString("\n")
	b.WriteString(StyleDim.Render("move the mouse to hover · m mode · u unhover · q quit"))
	return b.String()
}

func (m exploreModel) status() string {
	title := m.doc.Title
	if title == "" {
		title = m.doc.ID
	}
	line := StyleTitle.Render(title) + StyleDim.Render("  "+string(m.mode))
	if m.res == nil || len(m.res.Points) == 0 {
		return line
	}
	p := m.res.Points[0]
	line += "  " + StyleValue.Render(fmt.Sprintf("%s #%d  x=%s y=%s", p.TraceName, p.PointNumber, fmtValue(p.X), fmtValue(p.Y)))
	if n := len(m.res.Points); n > 1 {
		line += StyleDim.Render(fmt.Sprintf("  +%d more", n-1))
	}
	return line
}

func (m exploreModel) canvasRows() int {
	return max(m.rows-statusRows, 1)
}

// resize rebuilds the plot to fill a cols x rows terminal.
func (m *exploreModel) resize(cols, rows int) error {
	m.cols, m.rows = cols, rows
	w, h := surface.TermSize(cols, m.canvasRows())

	doc := *m.doc
	doc.Layout.Width, doc.Layout.Height = w, h
	doc.Layout.Margin = &figure.Margin{
		L: 8 * surface.CellWidth,
		R: 2 * surface.CellWidth,
		T: surface.CellHeight,
		B: 2 * surface.CellHeight,
	}
	doc.Layout.HoverMode = string(m.mode)

	plot, err := figure.Build(&doc, fx.WithLogger(m.logger))
	if err != nil {
		return err
	}
	scene, ok := plot.Surface.(*surface.Scene)
	if !ok {
		return fmt.Errorf("figure surface is %T, not a scene", plot.Surface)
	}
	drawPlot(scene, plot)
	m.plot, m.scene = plot, scene
	m.mode = plot.Layout.HoverMode
	return nil
}

// rehover hovers the cell under the cursor, or does nothing without one.
func (m *exploreModel) rehover() {
	if m.plot == nil || m.cursor == nil {
		return
	}
	subplots := m.plot.Subplots()
	if len(subplots) == 0 || subplots[0].XAxis == nil || subplots[0].YAxis == nil {
		return
	}
	xa, ya := subplots[0].XAxis, subplots[0].YAxis
	m.res = m.plot.HoverSync(fx.Event{Origin: &fx.Origin{
		ClientX: (float64(m.cursor.X) + 0.5) * surface.CellWidth,
		ClientY: (float64(m.cursor.Y) + 0.5) * surface.CellHeight,
		Target:  surface.Rect{X: xa.Offset, Y: ya.Offset, W: xa.Length, H: ya.Length},
	}})
}

func nextMode(mode fx.Mode) fx.Mode {
	for i, v := range fx.Modes {
		if v == mode {
			return fx.Modes[(i+1)%len(fx.Modes)]
		}
	}
	return fx.Modes[0]
}

// =============================================================================
// Plot Drawing
// =============================================================================

const (
	axisColor   = "#888"
	defaultMark = "#1f77b4"
)

// drawPlot fills the plot layer with axis lines and one mark per trace
// point.
func drawPlot(s *surface.Scene, p *fx.Plot) {
	s.Clear(layerPlot)
	for _, sp := range p.Subplots() {
		xa, ya := sp.XAxis, sp.YAxis
		if xa == nil || ya == nil {
			continue
		}
		s.Add(layerPlot, &surface.Line{X1: xa.Offset, Y1: xa.Edge, X2: xa.Offset + xa.Length, Y2: xa.Edge, Stroke: axisColor})
		s.Add(layerPlot, &surface.Line{X1: ya.Edge, Y1: ya.Offset, X2: ya.Edge, Y2: ya.Offset + ya.Length, Stroke: axisColor})
	}
	for _, tr := range p.Traces() {
		sp, ok := p.Subplot(tr.SubplotID())
		if !ok || tr.Hidden || sp.XAxis == nil || sp.YAxis == nil {
			continue
		}
		xp := func(c float64) float64 { return sp.XAxis.Offset + sp.XAxis.C2P(c) }
		yp := func(c float64) float64 { return sp.YAxis.Offset + sp.YAxis.C2P(c) }

		switch t := tr.Searcher.(type) {
		case *traces.Scatter:
			for i := range t.X {
				if i >= len(t.Y) || !finite(t.X[i]) || !finite(t.Y[i]) {
					continue
				}
				s.Add(layerPlot, &surface.Circle{CX: xp(t.X[i]), CY: yp(t.Y[i]), R: 2, Fill: markColor(t.Colors, i, t.Color, tr.Color)})
			}
		case *traces.Bar:
			for i, pos := range t.Pos {
				if i >= len(t.Size) || !finite(pos) || !finite(t.Size[i]) {
					continue
				}
				base := 0.0
				if i < len(t.Base) {
					base = t.Base[i]
				}
				p0, p1 := pos-t.Width/2, pos+t.Width/2
				s0, s1 := base, base+t.Size[i]
				var r surface.Rect
				if t.Orientation == "h" {
					r = span(xp(s0), xp(s1), yp(p0), yp(p1))
				} else {
					r = span(xp(p0), xp(p1), yp(s0), yp(s1))
				}
				s.Add(layerPlot, &surface.Box{Rect: r, Fill: markColor(t.Colors, i, t.Color, tr.Color)})
			}
		case *traces.Heatmap:
			drawHeatmap(s, t, xp, yp, markColor(nil, 0, t.Color, tr.Color))
		}
	}
}

func drawHeatmap(s *surface.Scene, h *traces.Heatmap, xp, yp func(float64) float64, c string) {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, row := range h.Z {
		for _, v := range row {
			if finite(v) {
				lo, hi = min(lo, v), max(hi, v)
			}
		}
	}
	for j, row := range h.Z {
		if j >= len(h.Y) {
			break
		}
		for i, v := range row {
			if i >= len(h.X) || !finite(v) {
				continue
			}
			alpha := 1.0
			if hi > lo {
				alpha = 0.15 + 0.85*(v-lo)/(hi-lo)
			}
			x0, x1 := cellEdges(h.X, i)
			y0, y1 := cellEdges(h.Y, j)
			s.Add(layerPlot, &surface.Box{Rect: span(xp(x0), xp(x1), yp(y0), yp(y1)), Fill: color.AddOpacity(c, alpha)})
		}
	}
}

// cellEdges returns the bounds of cell i halfway to its neighbours.
func cellEdges(centers []float64, i int) (float64, float64) {
	half := 0.5
	if len(centers) > 1 {
		if i+1 < len(centers) {
			half = (centers[i+1] - centers[i]) / 2
		} else {
			half = (centers[i] - centers[i-1]) / 2
		}
	}
	return centers[i] - half, centers[i] + half
}

func span(x0, x1, y0, y1 float64) surface.Rect {
	return surface.Rect{X: min(x0, x1), Y: min(y0, y1), W: math.Abs(x1 - x0), H: math.Abs(y1 - y0)}
}

func markColor(colors []string, i int, traceColor, fallback string) string {
	switch {
	case i < len(colors) && colors[i] != "":
		return colors[i]
	case traceColor != "":
		return traceColor
	case fallback != "":
		return fallback
	}
	return defaultMark
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }
