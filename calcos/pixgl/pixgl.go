// Package pixgl provides minimal 2D software drawing primitives for the
// graph view: a pixel target abstraction, an RGB565 framebuffer target, and
// line/rect rasterization.
//
// The package has no notion of coordinate space; callers hand it pixel
// positions. It allocates nothing in the draw hot path.
package pixgl

// Color is an RGBA color in 8-bit channels.
type Color struct {
	R, G, B, A uint8
}

func RGB(r, g, b uint8) Color { return Color{R: r, G: g, B: b, A: 0xFF} }

// Target is a minimal pixel target for software rendering.
//
// Implementations should clip out-of-bounds coordinates.
type Target interface {
	Size() (w, h int)
	SetPixel(x, y int, c Color)
	Clear(c Color)
}

// DrawLine rasterizes a line segment with the Bresenham walk.
func DrawLine(t Target, x0, y0, x1, y1 int, c Color) {
	dx := absInt(x1 - x0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	dy := -absInt(y1 - y0)
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx + dy
	for {
		t.SetPixel(x0, y0, c)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

// DrawHLine draws a horizontal line (faster than the generic walk).
func DrawHLine(t Target, x0, x1, y int, c Color) {
	if x1 < x0 {
		x0, x1 = x1, x0
	}
	for x := x0; x <= x1; x++ {
		t.SetPixel(x, y, c)
	}
}

// DrawVLine draws a vertical line.
func DrawVLine(t Target, x, y0, y1 int, c Color) {
	if y1 < y0 {
		y0, y1 = y1, y0
	}
	for y := y0; y <= y1; y++ {
		t.SetPixel(x, y, c)
	}
}

// FillRect fills an axis-aligned rectangle.
func FillRect(t Target, x, y, w, h int, c Color) {
	for py := y; py < y+h; py++ {
		for px := x; px < x+w; px++ {
			t.SetPixel(px, py, c)
		}
	}
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
