package graph

import (
	"math"
	"testing"

	"github.com/President-of-China/calcium/calcos/proto"
)

func testCamera() *Camera {
	return NewCamera(640, 480)
}

func TestVisibleRangeFollowsCenter(t *testing.T) {
	c := testCamera()

	begin, end := c.VisibleRange()
	if begin != -c.CenterX/c.Scale {
		t.Fatalf("begin = %v, want %v", begin, -c.CenterX/c.Scale)
	}
	if end != (640-c.CenterX)/c.Scale {
		t.Fatalf("end = %v, want %v", end, (640-c.CenterX)/c.Scale)
	}

	c.CenterX = 100
	c.Scale = 25
	begin, end = c.VisibleRange()
	if begin != -4 {
		t.Fatalf("begin = %v, want -4", begin)
	}
	if end != (640-100)/25.0 {
		t.Fatalf("end = %v, want %v", end, (640-100)/25.0)
	}
}

func TestToPixelToCoordRoundTrip(t *testing.T) {
	c := testCamera()
	for _, pt := range [][2]float64{{0, 0}, {1, 1}, {-3.5, 2.25}, {100, -40}} {
		px, py := c.ToPixel(pt[0], pt[1])
		x, y := c.ToCoord(px, py)
		if math.Abs(x-pt[0]) > 1e-12 || math.Abs(y-pt[1]) > 1e-12 {
			t.Fatalf("round trip (%v,%v) -> (%v,%v)", pt[0], pt[1], x, y)
		}
	}
}

func TestPanExposesOnlyNewSlice(t *testing.T) {
	c := testCamera()
	oldBegin, oldEnd := c.VisibleRange()
	step := c.Step()

	// Drag right: content moves right, new territory on the left.
	b, ok := c.Pan(40, 0)
	if !ok {
		t.Fatalf("pan right produced no batch")
	}
	if b.Op != proto.OperateUnshift {
		t.Fatalf("pan right Op = %v, want unshift", b.Op)
	}
	newBegin, _ := c.VisibleRange()
	if b.Lo != newBegin {
		t.Fatalf("batch Lo = %v, want new begin %v", b.Lo, newBegin)
	}
	if b.Hi != oldBegin-step {
		t.Fatalf("batch Hi = %v, want %v (one step before the old begin)", b.Hi, oldBegin-step)
	}

	// Drag left: new territory on the right, appended after the old end.
	c = testCamera()
	b, ok = c.Pan(-40, 0)
	if !ok {
		t.Fatalf("pan left produced no batch")
	}
	if b.Op != proto.OperateAdd {
		t.Fatalf("pan left Op = %v, want add", b.Op)
	}
	_, newEnd := c.VisibleRange()
	if b.Lo != oldEnd+step {
		t.Fatalf("batch Lo = %v, want %v (one step after the old end)", b.Lo, oldEnd+step)
	}
	if b.Hi != newEnd {
		t.Fatalf("batch Hi = %v, want new end %v", b.Hi, newEnd)
	}
}

func TestPanRoundTripRestoresRange(t *testing.T) {
	c := testCamera()
	begin0, end0 := c.VisibleRange()

	c.Pan(37, 13)
	c.Pan(-37, -13)

	begin, end := c.VisibleRange()
	if begin != begin0 || end != end0 {
		t.Fatalf("range after round trip = [%v,%v], want [%v,%v]", begin, end, begin0, end0)
	}
	top0, bottom0 := testCamera().VisibleRangeY()
	top, bottom := c.VisibleRangeY()
	if top != top0 || bottom != bottom0 {
		t.Fatalf("Y range after round trip = [%v,%v], want [%v,%v]", top, bottom, top0, bottom0)
	}
}

func TestVerticalPanNeedsNoResample(t *testing.T) {
	c := testCamera()
	if _, ok := c.Pan(0, 25); ok {
		t.Fatalf("vertical pan should not produce a batch")
	}
}

func TestWheelZoomInClearsAndResamplesFullRange(t *testing.T) {
	c := testCamera()
	clear, batches := c.WheelZoom(5, 320, 240)
	if !clear {
		t.Fatalf("zoom in must request a stream clear")
	}
	if len(batches) != 1 {
		t.Fatalf("zoom in batches = %d, want 1", len(batches))
	}
	begin, end := c.VisibleRange()
	if batches[0].Lo != begin || batches[0].Hi != end || batches[0].Op != proto.OperateAdd {
		t.Fatalf("zoom in batch = %+v, want full range [%v,%v] add", batches[0], begin, end)
	}
	if c.Scale <= 40 {
		t.Fatalf("Scale = %v, want > 40 after zooming in", c.Scale)
	}
}

func TestWheelZoomOutSamplesEdgesOnly(t *testing.T) {
	c := testCamera()
	oldBegin, oldEnd := c.VisibleRange()

	clear, batches := c.WheelZoom(-1, 320, 240)
	if clear {
		t.Fatalf("zoom out must not clear the stream")
	}
	if len(batches) != 2 {
		t.Fatalf("zoom out batches = %d, want 2 (both edges)", len(batches))
	}
	begin, end := c.VisibleRange()
	step := c.Step()

	left := batches[0]
	if left.Op != proto.OperateUnshift || left.Lo != begin || left.Hi != oldBegin-step {
		t.Fatalf("left edge batch = %+v, want [%v,%v] unshift", left, begin, oldBegin-step)
	}
	right := batches[1]
	if right.Op != proto.OperateAdd || right.Lo != oldEnd+step || right.Hi != end {
		t.Fatalf("right edge batch = %+v, want [%v,%v] add", right, oldEnd+step, end)
	}
}

func TestWheelZoomAnchorsCursorCoordinate(t *testing.T) {
	c := testCamera()
	const px, py = 100, 350
	x0, y0 := c.ToCoord(px, py)

	c.WheelZoom(3, px, py)
	x1, y1 := c.ToCoord(px, py)
	if math.Abs(x1-x0) > 1e-9 || math.Abs(y1-y0) > 1e-9 {
		t.Fatalf("coordinate under cursor moved: (%v,%v) -> (%v,%v)", x0, y0, x1, y1)
	}
}

func TestWheelZoomRoundTripRestoresScale(t *testing.T) {
	c := testCamera()
	c.WheelZoom(5, 320, 240)
	c.WheelZoom(-5, 320, 240)
	if math.Abs(c.Scale-40) > 1e-9 {
		t.Fatalf("Scale after inverse zoom = %v, want 40", c.Scale)
	}
}

func TestScaleClamped(t *testing.T) {
	c := testCamera()
	c.Scale = minScale
	if clear, batches := c.setScale(minScale/10, 320, 240); clear || batches != nil {
		t.Fatalf("below-minimum zoom should be a no-op, got clear=%v batches=%v", clear, batches)
	}
	if c.Scale != minScale {
		t.Fatalf("Scale = %v, want clamp at %v", c.Scale, minScale)
	}

	c = testCamera()
	c.Scale = maxScale
	if clear, batches := c.setScale(maxScale*10, 320, 240); clear || batches != nil {
		t.Fatalf("above-maximum zoom should be a no-op, got clear=%v batches=%v", clear, batches)
	}
}

func TestPinchFirstFrameOnlySetsBaseline(t *testing.T) {
	c := testCamera()
	clear, batches := c.PinchZoom(100)
	if clear || batches != nil {
		t.Fatalf("first pinch frame must not resample")
	}
	if c.Scale != 40 {
		t.Fatalf("Scale changed on baseline frame: %v", c.Scale)
	}

	// Doubled distance doubles the scale relative to the gesture start.
	clear, _ = c.PinchZoom(200)
	if !clear {
		t.Fatalf("widening pinch must zoom in")
	}
	if math.Abs(c.Scale-80) > 1e-9 {
		t.Fatalf("Scale = %v, want 80", c.Scale)
	}

	c.EndPinch()
	if clear, batches := c.PinchZoom(80); clear || batches != nil {
		t.Fatalf("frame after EndPinch must only set a new baseline")
	}
}

func TestGridUnitLadder(t *testing.T) {
	ups := map[float64]float64{1: 2, 2: 5, 5: 10, 10: 20, 0.2: 0.5, 0.5: 1}
	for in, want := range ups {
		if got := nextGridUnit(in); math.Abs(got-want) > 1e-12 {
			t.Fatalf("nextGridUnit(%v) = %v, want %v", in, got, want)
		}
	}
	downs := map[float64]float64{10: 5, 5: 2, 2: 1, 1: 0.5, 0.5: 0.2}
	for in, want := range downs {
		if got := prevGridUnit(in); math.Abs(got-want) > 1e-12 {
			t.Fatalf("prevGridUnit(%v) = %v, want %v", in, got, want)
		}
	}
}

func TestSpacingAdaptsWithinBounds(t *testing.T) {
	c := testCamera()
	c.Scale = 66
	c.Spacing = 1
	c.adaptSpacing()
	if c.Spacing != 2 {
		t.Fatalf("Spacing = %v, want 2 (66px grid grew)", c.Spacing)
	}
	if prod := c.Scale * c.Spacing; prod <= gridMinPx || prod >= gridMaxPx {
		t.Fatalf("grid pixels = %v, want inside (%d,%d)", prod, gridMinPx, gridMaxPx)
	}

	c.Scale = 140
	c.Spacing = 1
	c.adaptSpacing()
	if c.Spacing != 0.5 {
		t.Fatalf("Spacing = %v, want 0.5 (140px grid shrank)", c.Spacing)
	}
}

func TestSpacingAdaptationIdempotentAtBoundary(t *testing.T) {
	// 33*2 = 66 hits the lower bound, but stepping 2 -> 5 would land at
	// 165 past the upper bound. The adaptation must hold rather than
	// bounce between the two units.
	c := testCamera()
	c.Scale = 33
	c.Spacing = 2
	for i := 0; i < 3; i++ {
		c.adaptSpacing()
		if c.Spacing != 2 {
			t.Fatalf("pass %d: Spacing = %v, want 2", i, c.Spacing)
		}
	}

	// Mirror case at the upper bound: 27.6*5 = 138, but 27.6*2 = 55.2
	// would undershoot the lower bound.
	c.Scale = 27.6
	c.Spacing = 5
	for i := 0; i < 3; i++ {
		c.adaptSpacing()
		if c.Spacing != 5 {
			t.Fatalf("pass %d: Spacing = %v, want 5", i, c.Spacing)
		}
	}
}
