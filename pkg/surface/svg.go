package surface

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"math"
	"strconv"
)

type SVGOption func(*svgWriter)

type svgWriter struct {
	background string
	layers     []string
}

// WithBackground paints a full-size rect behind every layer.
func WithBackground(color string) SVGOption { return func(w *svgWriter) { w.background = color } }

// WithLayers restricts output to the named layers, in that order.
func WithLayers(names ...string) SVGOption { return func(w *svgWriter) { w.layers = names } }

// RenderSVG serializes the scene as a standalone SVG document.
func RenderSVG(s *Scene, opts ...SVGOption) []byte {
	w := svgWriter{}
	for _, opt := range opts {
		opt(&w)
	}
	layers := w.layers
	if len(layers) == 0 {
		layers = s.Layers()
	}

	b := s.Bounds()
	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %s %s" width="%.0f" height="%.0f">`+"\n",
		num(b.W), num(b.H), b.W, b.H)
	if w.background != "" {
		fmt.Fprintf(&buf, `  <rect width="100%%" height="100%%" fill="%s"/>`+"\n", EscapeXML(w.background))
	}
	for _, name := range layers {
		fmt.Fprintf(&buf, `  <g class="%s">`+"\n", EscapeXML(name))
		writeNodes(&buf, s.Nodes(name), 2)
		buf.WriteString("  </g>\n")
	}
	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

// WriteSVG writes [RenderSVG] output to w.
func WriteSVG(w io.Writer, s *Scene, opts ...SVGOption) error {
	_, err := w.Write(RenderSVG(s, opts...))
	return err
}

func writeNodes(buf *bytes.Buffer, nodes []Node, depth int) {
	for _, n := range nodes {
		writeNode(buf, n, depth)
	}
}

func writeNode(buf *bytes.Buffer, n Node, depth int) {
	indent(buf, depth)
	switch v := n.(type) {
	case *Group:
		buf.WriteString("<g")
		classAttr(buf, v.Class)
		if v.X != 0 || v.Y != 0 || v.Rotate != 0 {
			fmt.Fprintf(buf, ` transform="translate(%s,%s)`, num(v.X), num(v.Y))
			if v.Rotate != 0 {
				fmt.Fprintf(buf, ` rotate(%s)`, num(v.Rotate))
			}
			buf.WriteString(`"`)
		}
		if v.ClipID != "" {
			fmt.Fprintf(buf, ` clip-path="url(#%s)"`, EscapeXML(v.ClipID))
		}
		buf.WriteString(">\n")
		writeNodes(buf, v.Children, depth+1)
		indent(buf, depth)
		buf.WriteString("</g>\n")
	case *Path:
		buf.WriteString("<path")
		classAttr(buf, v.Class)
		fmt.Fprintf(buf, ` d="%s"`, EscapeXML(v.D))
		paint(buf, v.Fill, v.Stroke, v.StrokeWidth)
		buf.WriteString("/>\n")
	case *Box:
		buf.WriteString("<rect")
		classAttr(buf, v.Class)
		fmt.Fprintf(buf, ` x="%s" y="%s" width="%s" height="%s"`, num(v.Rect.X), num(v.Rect.Y), num(v.Rect.W), num(v.Rect.H))
		paint(buf, v.Fill, v.Stroke, v.StrokeWidth)
		buf.WriteString("/>\n")
	case *Line:
		buf.WriteString("<line")
		classAttr(buf, v.Class)
		fmt.Fprintf(buf, ` x1="%s" y1="%s" x2="%s" y2="%s"`, num(v.X1), num(v.Y1), num(v.X2), num(v.Y2))
		paint(buf, "", v.Stroke, v.Width)
		if v.Dash != "" {
			fmt.Fprintf(buf, ` stroke-dasharray="%s"`, EscapeXML(v.Dash))
		}
		buf.WriteString("/>\n")
	case *Circle:
		buf.WriteString("<circle")
		classAttr(buf, v.Class)
		fmt.Fprintf(buf, ` cx="%s" cy="%s" r="%s"`, num(v.CX), num(v.CY), num(v.R))
		paint(buf, v.Fill, "", 0)
		buf.WriteString("/>\n")
	case *ClipPath:
		fmt.Fprintf(buf, `<clipPath id="%s"><rect x="%s" y="%s" width="%s" height="%s"/></clipPath>`+"\n",
			EscapeXML(v.ID), num(v.Rect.X), num(v.Rect.Y), num(v.Rect.W), num(v.Rect.H))
	case *Text:
		writeText(buf, v)
	}
}

func writeText(buf *bytes.Buffer, t *Text) {
	buf.WriteString("<text")
	classAttr(buf, t.Class)
	fmt.Fprintf(buf, ` x="%s" y="%s"`, num(t.X), num(t.Y))
	if t.Anchor != "" {
		fmt.Fprintf(buf, ` text-anchor="%s"`, t.Anchor)
	}
	if t.Font.Family != "" {
		fmt.Fprintf(buf, ` font-family="%s"`, EscapeXML(t.Font.Family))
	}
	if t.Font.Size > 0 {
		fmt.Fprintf(buf, ` font-size="%s"`, num(t.Font.Size))
	}
	if t.Font.Color != "" {
		fmt.Fprintf(buf, ` fill="%s"`, EscapeXML(t.Font.Color))
	}
	buf.WriteString(">")
	lines := Lines(t.Text)
	if len(lines) == 1 {
		buf.WriteString(EscapeXML(lines[0]))
	} else {
		for i, line := range lines {
			dy := "0"
			if i > 0 {
				dy = num(LineHeight(t.Font.Size))
			}
			fmt.Fprintf(buf, `<tspan x="%s" dy="%s">%s</tspan>`, num(t.X), dy, EscapeXML(line))
		}
	}
	buf.WriteString("</text>\n")
}

func paint(buf *bytes.Buffer, fill, stroke string, width float64) {
	if fill == "" {
		fill = "none"
	}
	fmt.Fprintf(buf, ` fill="%s"`, EscapeXML(fill))
	if stroke != "" {
		fmt.Fprintf(buf, ` stroke="%s"`, EscapeXML(stroke))
		if width > 0 {
			fmt.Fprintf(buf, ` stroke-width="%s"`, num(width))
		}
	}
}

func classAttr(buf *bytes.Buffer, class string) {
	if class != "" {
		fmt.Fprintf(buf, ` class="%s"`, EscapeXML(class))
	}
}

func indent(buf *bytes.Buffer, depth int) {
	for range depth {
		buf.WriteString("  ")
	}
}

func num(v float64) string { return strconv.FormatFloat(math.Round(v*100)/100, 'f', -1, 64) }

// EscapeXML escapes text for use in SVG content and attributes.
func EscapeXML(s string) string {
	var buf bytes.Buffer
	xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
