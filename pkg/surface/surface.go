// Package surface defines the drawing surface the hover engine paints on and
// ships a retained in-memory implementation with SVG and terminal outputs.
//
// The engine only appends nodes to named layers and clears them; it never
// reads pixels back. Text is measured through the surface so labels can be
// sized before they are placed.
package surface

import (
	"regexp"
	"strings"
)

// Layer names used by the hover engine.
const (
	LayerHover  = "hoverlayer"
	LayerSpikes = "spikelayer"
)

// Rect is an axis-aligned rectangle. For measured text, X/Y locate the top
// left corner relative to the first baseline.
type Rect struct {
	X, Y, W, H float64
}

// Right returns the right edge.
func (r Rect) Right() float64 { return r.X + r.W }

// Bottom returns the bottom edge.
func (r Rect) Bottom() float64 { return r.Y + r.H }

// Font describes a text style.
type Font struct {
	Family string  `json:"family,omitempty" toml:"family" yaml:"family"`
	Size   float64 `json:"size,omitempty" toml:"size" yaml:"size"`
	Color  string  `json:"color,omitempty" toml:"color" yaml:"color"`
}

// Node is anything a Surface can hold.
type Node interface {
	Kind() string
}

// Text is a run of text. Lines are separated by <br>. Y is the baseline of
// the first line.
type Text struct {
	Class  string
	X, Y   float64
	Text   string
	Font   Font
	Anchor string // start, middle or end
}

// Path is an SVG path. Box is its bounding box in the same coordinates,
// used by rasterizers that cannot interpret path data.
type Path struct {
	Class       string
	D           string
	Fill        string
	Stroke      string
	StrokeWidth float64
	Box         Rect
}

// Box is a filled rectangle.
type Box struct {
	Class       string
	Rect        Rect
	Fill        string
	Stroke      string
	StrokeWidth float64
}

// Line is a straight stroke.
type Line struct {
	Class          string
	X1, Y1, X2, Y2 float64
	Stroke         string
	Width          float64
	Dash           string
}

// Circle is a filled circle.
type Circle struct {
	Class  string
	CX, CY float64
	R      float64
	Fill   string
}

// ClipPath defines a rectangular clip region that groups reference by ID.
type ClipPath struct {
	ID   string
	Rect Rect
}

// Group translates, then rotates (degrees) its children.
type Group struct {
	Class    string
	X, Y     float64
	Rotate   float64
	ClipID   string
	Children []Node
}

func (*Text) Kind() string     { return "text" }
func (*Path) Kind() string     { return "path" }
func (*Box) Kind() string      { return "rect" }
func (*Line) Kind() string     { return "line" }
func (*Circle) Kind() string   { return "circle" }
func (*ClipPath) Kind() string { return "clipPath" }
func (*Group) Kind() string    { return "g" }

// Append adds children to g and returns g.
func (g *Group) Append(nodes ...Node) *Group {
	g.Children = append(g.Children, nodes...)
	return g
}

// Measurer sizes text.
type Measurer interface {
	Measure(text string, font Font) Rect
}

// Surface is the drawing capability the hover engine consumes.
type Surface interface {
	Measurer
	// Bounds is the outer container box in surface pixels.
	Bounds() Rect
	// Add appends n to layer.
	Add(layer string, n Node)
	// Clear removes every node in layer.
	Clear(layer string)
	// Nodes returns the nodes currently in layer.
	Nodes(layer string) []Node
}

var (
	brRe  = regexp.MustCompile(`(?i)<br\s*/?>`)
	tagRe = regexp.MustCompile(`<[^>]*>`)
)

// Lines splits pseudo-HTML text on <br> and strips any other tags.
func Lines(s string) []string {
	parts := brRe.Split(s, -1)
	for i, p := range parts {
		parts[i] = PlainText(p)
	}
	return parts
}

// PlainText strips pseudo-HTML tags, keeping line breaks as <br>-free text.
func PlainText(s string) string {
	s = brRe.ReplaceAllString(s, " ")
	return strings.TrimSpace(tagRe.ReplaceAllString(s, ""))
}
