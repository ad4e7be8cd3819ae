package pipeline

import (
	"encoding/json"
	"fmt"

	"github.com/matzehuels/hoverfx/pkg/errors"
	"github.com/matzehuels/hoverfx/pkg/fx"
	"github.com/matzehuels/hoverfx/pkg/surface"
)

// Render serializes a hover result. SVG output contains the spike layer
// under the hover layer on a bg-filled canvas the size of the plot surface;
// it requires the plot to draw on a *surface.Scene. FormatText returns nil.
func Render(plot *fx.Plot, res *fx.Result, format, bg string) ([]byte, error) {
	switch format {
	case FormatSVG:
		scene, ok := plot.Surface.(*surface.Scene)
		if !ok {
			return nil, errors.New(errors.ErrCodeUnsupported, "svg output needs a scene surface, got %T", plot.Surface)
		}
		return surface.RenderSVG(scene,
			surface.WithBackground(bg),
			surface.WithLayers(surface.LayerSpikes, surface.LayerHover),
		), nil
	case FormatJSON:
		data, err := json.MarshalIndent(res, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("encode: %w", err)
		}
		return append(data, '\n'), nil
	case FormatText:
		return nil, nil
	}
	return nil, ValidateFormat(format)
}
