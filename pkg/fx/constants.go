package fx

import (
	"math"
	"time"
)

// =============================================================================
// Label Geometry
// =============================================================================

const (
	// HoverArrowSize is the length of the arrow joining a label to its point.
	HoverArrowSize = 6.0

	// HoverTextPad is the padding between label text and its box.
	HoverTextPad = 3.0

	// HoverFontSize is the default label font size in pixels.
	HoverFontSize = 13.0

	// HoverFont is the default label font family.
	HoverFont = "Arial, sans-serif"

	// YAngle is the rotation in degrees applied to labels in rotated layouts.
	YAngle = 60.0
)

var (
	yRadians = YAngle * math.Pi / 180

	// YFactor scales a rotated label's height into its extent along an x axis.
	YFactor = 1 / math.Sin(yRadians)

	// YShiftX and YShiftY project an overlap offset onto rotated label axes.
	YShiftX = math.Cos(yRadians)
	YShiftY = math.Sin(yRadians)
)

// =============================================================================
// Timing and Defaults
// =============================================================================

const (
	// HoverMinTime is the minimum interval between two hover cycles of the
	// same plot.
	HoverMinTime = 50 * time.Millisecond

	// HoverID is appended to a plot UID to form its throttle key.
	HoverID = "-hover"

	// DefaultHoverDistance is the pixel radius searched for hover points.
	DefaultHoverDistance = 20.0

	// DefaultSpikeDistance searches for spike points without limit.
	DefaultSpikeDistance = -1.0

	// DefaultNameLength is the longest trace name shown before truncation.
	DefaultNameLength = 15

	// overlapTolerance absorbs rounding so the overlap loop settles.
	overlapTolerance = 0.01

	// closestEpsilon is the distance at which closest-mode hits tie.
	closestEpsilon = 1e-9

	// tooltipSpacing separates tooltips stacked by LoneHover.
	tooltipSpacing = 5.0
)
