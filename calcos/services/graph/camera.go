package graph

import (
	"math"

	"github.com/President-of-China/calcium/calcos/proto"
)

const (
	// Grid density bounds in pixels. Below the minimum the gridlines
	// crowd together and the unit grows; above the maximum they spread
	// out and the unit shrinks.
	gridMinPx = 66
	gridMaxPx = 138

	minScale = 1e-4
	maxScale = 1e6
)

// Batch describes one contiguous resample range.
//
// For OperateAdd samples are issued Lo..Hi ascending; for OperateUnshift
// they are issued Hi..Lo descending, so that prepending at the receiving
// end keeps the point stream monotonic in the independent variable.
type Batch struct {
	Lo float64
	Hi float64
	Op proto.Operate
}

// Camera maps between pixel space and coordinate space and tracks the
// visible numeric interval.
//
// The origin of the coordinate system sits at pixel (CenterX, CenterY);
// Scale is pixels per coordinate unit; Spacing is the grid unit.
type Camera struct {
	CenterX float64
	CenterY float64
	Scale   float64
	Spacing float64

	width  int
	height int

	// Pinch state: the first pinch distance of a gesture pins
	// zoomingScale = distance/Scale; later frames derive the new scale
	// from it. prevDist decides the zoom direction frame to frame.
	pinching bool
	zoomBase float64
	prevDist float64
}

func NewCamera(width, height int) *Camera {
	return &Camera{
		CenterX: float64(width) / 2,
		CenterY: float64(height) / 2,
		Scale:   40,
		Spacing: 1,
		width:   width,
		height:  height,
	}
}

// VisibleRange returns the coordinate interval covered by the view:
// [-CenterX/Scale, (width-CenterX)/Scale].
func (c *Camera) VisibleRange() (begin, end float64) {
	return -c.CenterX / c.Scale, (float64(c.width) - c.CenterX) / c.Scale
}

// VisibleRangeY returns the vertical coordinate interval, top to bottom.
func (c *Camera) VisibleRangeY() (top, bottom float64) {
	return c.CenterY / c.Scale, (c.CenterY - float64(c.height)) / c.Scale
}

// Step is the sampling step: one sample per pixel column.
func (c *Camera) Step() float64 {
	return 1 / c.Scale
}

// ToPixel converts a coordinate-space point to pixel space.
func (c *Camera) ToPixel(x, y float64) (px, py float64) {
	return c.CenterX + x*c.Scale, c.CenterY - y*c.Scale
}

// ToCoord converts a pixel-space point to coordinate space.
func (c *Camera) ToCoord(px, py float64) (x, y float64) {
	return (px - c.CenterX) / c.Scale, (c.CenterY - py) / c.Scale
}

// Pan shifts the view by a pixel delta and returns the resample batch for
// the newly exposed horizontal slice, if any. Existing points stay valid;
// nothing is recomputed.
func (c *Camera) Pan(dxPix, dyPix float64) (Batch, bool) {
	oldBegin, oldEnd := c.VisibleRange()
	c.CenterX += dxPix
	c.CenterY += dyPix
	newBegin, newEnd := c.VisibleRange()

	switch {
	case newEnd > oldEnd:
		// Dragged left: new territory appears on the right, appended
		// in ascending order.
		return Batch{Lo: oldEnd + c.Step(), Hi: newEnd, Op: proto.OperateAdd}, true
	case newBegin < oldBegin:
		// Dragged right: new territory appears on the left, sampled
		// high-to-low so prepending preserves ascending stream order.
		return Batch{Lo: newBegin, Hi: oldBegin - c.Step(), Op: proto.OperateUnshift}, true
	default:
		return Batch{}, false
	}
}

// FullRange returns the batch covering the whole visible range.
func (c *Camera) FullRange() Batch {
	begin, end := c.VisibleRange()
	return Batch{Lo: begin, Hi: end, Op: proto.OperateAdd}
}

// setScale applies a new scale keeping the coordinate under the anchor
// pixel fixed, adapts the grid unit, and returns the resample plan:
// zooming in clears the stream and resamples the full range (density must
// increase); zooming out keeps the stream and samples only the two newly
// exposed edge slices.
func (c *Camera) setScale(newScale, anchorPx, anchorPy float64) (clear bool, batches []Batch) {
	if newScale < minScale {
		newScale = minScale
	}
	if newScale > maxScale {
		newScale = maxScale
	}
	if newScale == c.Scale {
		return false, nil
	}

	oldBegin, oldEnd := c.VisibleRange()

	ax, ay := c.ToCoord(anchorPx, anchorPy)
	c.Scale = newScale
	c.CenterX = anchorPx - ax*newScale
	c.CenterY = anchorPy + ay*newScale

	c.adaptSpacing()

	newBegin, newEnd := c.VisibleRange()
	if newEnd-newBegin < oldEnd-oldBegin {
		// Zoom in: denser sampling everywhere.
		return true, []Batch{{Lo: newBegin, Hi: newEnd, Op: proto.OperateAdd}}
	}

	step := c.Step()
	if newBegin < oldBegin {
		batches = append(batches, Batch{Lo: newBegin, Hi: oldBegin - step, Op: proto.OperateUnshift})
	}
	if newEnd > oldEnd {
		batches = append(batches, Batch{Lo: oldEnd + step, Hi: newEnd, Op: proto.OperateAdd})
	}
	return false, batches
}

// WheelZoom adjusts the scale by the wheel delta divided by the current
// grid unit, anchored at the cursor so the coordinate under it stays put.
func (c *Camera) WheelZoom(deltaY float64, cursorPx, cursorPy float64) (clear bool, batches []Batch) {
	const wheelStepPx = 12
	return c.setScale(c.Scale+deltaY*wheelStepPx/c.Spacing, cursorPx, cursorPy)
}

// PinchZoom feeds one frame of a two-finger gesture. The first distance of
// a gesture only establishes the baseline; later frames rescale. The
// in/out decision compares against the previous frame's distance, not the
// baseline, so direction can flip mid-gesture.
func (c *Camera) PinchZoom(distance float64) (clear bool, batches []Batch) {
	if distance <= 0 {
		return false, nil
	}
	if !c.pinching {
		c.pinching = true
		c.zoomBase = distance / c.Scale
		c.prevDist = distance
		return false, nil
	}
	if c.zoomBase == 0 || distance == c.prevDist {
		return false, nil
	}
	newScale := distance / c.zoomBase
	c.prevDist = distance
	return c.setScale(newScale, float64(c.width)/2, float64(c.height)/2)
}

// EndPinch closes the current pinch gesture.
func (c *Camera) EndPinch() {
	c.pinching = false
	c.zoomBase = 0
	c.prevDist = 0
}

// adaptSpacing keeps the on-screen grid unit in [gridMinPx, gridMaxPx]
// pixels, walking the 1-2-5 ladder. A step that would land past the
// opposite bound is skipped, so the adaptation cannot oscillate on
// repeated identical events, including products of exactly 66 or 138.
func (c *Camera) adaptSpacing() {
	for {
		prod := c.Scale * c.Spacing
		if prod <= gridMinPx {
			next := nextGridUnit(c.Spacing)
			if c.Scale*next >= gridMaxPx {
				return
			}
			c.Spacing = next
			continue
		}
		if prod >= gridMaxPx {
			prev := prevGridUnit(c.Spacing)
			if c.Scale*prev <= gridMinPx {
				return
			}
			c.Spacing = prev
			continue
		}
		return
	}
}

// nextGridUnit steps up the 1-2-5 ladder: doubled, or 2 -> 5.
func nextGridUnit(s float64) float64 {
	if mantissaIs(s, 2) {
		return s * 2.5
	}
	return s * 2
}

// prevGridUnit steps down the 1-2-5 ladder: halved, or 5 -> 2.
func prevGridUnit(s float64) float64 {
	if mantissaIs(s, 5) {
		return s * 0.4
	}
	return s / 2
}

func mantissaIs(s, want float64) bool {
	if s <= 0 {
		return false
	}
	m := s / math.Pow(10, math.Floor(math.Log10(s)))
	return math.Abs(m-want) < 1e-9
}
