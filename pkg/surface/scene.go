package surface

import (
	"slices"
	"sync"
)

// Scene is a retained, in-memory Surface. Layers keep insertion order and
// render in the order they were first used.
type Scene struct {
	mu       sync.RWMutex
	bounds   Rect
	measurer Measurer
	layers   map[string][]Node
	order    []string
}

// NewScene returns an empty scene of the given size. A nil measurer uses
// [FaceMeasurer].
func NewScene(width, height float64, m Measurer) *Scene {
	if m == nil {
		m = FaceMeasurer{}
	}
	return &Scene{
		bounds:   Rect{W: width, H: height},
		measurer: m,
		layers:   make(map[string][]Node),
	}
}

func (s *Scene) Bounds() Rect { return s.bounds }

func (s *Scene) Measure(text string, font Font) Rect {
	return s.measurer.Measure(text, font)
}

func (s *Scene) Add(layer string, n Node) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.layers[layer]; !ok {
		s.order = append(s.order, layer)
	}
	s.layers[layer] = append(s.layers[layer], n)
}

func (s *Scene) Clear(layer string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.layers[layer]; ok {
		s.layers[layer] = nil
	}
}

func (s *Scene) Nodes(layer string) []Node {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.layers[layer])
}

// Layers returns layer names in render order.
func (s *Scene) Layers() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.order)
}

// Walk visits every node of layer depth-first, passing the accumulated
// translation of enclosing groups.
func Walk(nodes []Node, fn func(n Node, dx, dy float64)) {
	walk(nodes, 0, 0, fn)
}

func walk(nodes []Node, dx, dy float64, fn func(Node, float64, float64)) {
	for _, n := range nodes {
		fn(n, dx, dy)
		if g, ok := n.(*Group); ok {
			walk(g.Children, dx+g.X, dy+g.Y, fn)
		}
	}
}

// Find returns every node of layer whose class matches, including nested
// ones.
func Find(nodes []Node, class string) []Node {
	var out []Node
	Walk(nodes, func(n Node, _, _ float64) {
		if ClassOf(n) == class {
			out = append(out, n)
		}
	})
	return out
}

// ClassOf returns the class attribute of n, if it has one.
func ClassOf(n Node) string {
	switch v := n.(type) {
	case *Text:
		return v.Class
	case *Path:
		return v.Class
	case *Box:
		return v.Class
	case *Line:
		return v.Class
	case *Circle:
		return v.Class
	case *Group:
		return v.Class
	}
	return ""
}
