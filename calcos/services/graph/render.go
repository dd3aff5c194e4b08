package graph

import (
	"fmt"
	"image/color"
	"math"

	"github.com/President-of-China/calcium/calcos/pixgl"
	"github.com/President-of-China/calcium/hal"

	"tinygo.org/x/drivers"
	"tinygo.org/x/tinyfont"
	"tinygo.org/x/tinyfont/proggy"
)

var (
	colorBG     = pixgl.RGB(0x10, 0x10, 0x14)
	colorGrid   = pixgl.RGB(0x2a, 0x2a, 0x32)
	colorAxis   = pixgl.RGB(0x60, 0x60, 0x70)
	colorCursor = color.RGBA{R: 0xff, G: 0xdd, B: 0x66, A: 0xff}
	colorText   = color.RGBA{R: 0xee, G: 0xee, B: 0xee, A: 0xff}
	colorErr    = color.RGBA{R: 0xff, G: 0x66, B: 0x66, A: 0xff}

	plotColors = []pixgl.Color{
		pixgl.RGB(0x4a, 0xdf, 0x6a),
		pixgl.RGB(0x5a, 0xa0, 0xff),
		pixgl.RGB(0xff, 0xa0, 0x40),
		pixgl.RGB(0xe0, 0x60, 0xe0),
	}
)

// fbDisplay adapts hal.Framebuffer to the displayer contract tinyfont
// draws through.
type fbDisplay struct {
	fb hal.Framebuffer
}

func newFBDisplay(fb hal.Framebuffer) *fbDisplay {
	return &fbDisplay{fb: fb}
}

func (d *fbDisplay) Size() (x, y int16) {
	if d.fb == nil {
		return 0, 0
	}
	return int16(d.fb.Width()), int16(d.fb.Height())
}

func (d *fbDisplay) SetPixel(x, y int16, c color.RGBA) {
	if d.fb == nil || d.fb.Format() != hal.PixelFormatRGB565 {
		return
	}
	buf := d.fb.Buffer()
	if buf == nil {
		return
	}

	w := d.fb.Width()
	h := d.fb.Height()
	ix := int(x)
	iy := int(y)
	if ix < 0 || ix >= w || iy < 0 || iy >= h {
		return
	}

	pixel := rgb565From888(c.R, c.G, c.B)
	off := iy*d.fb.StrideBytes() + ix*2
	if off < 0 || off+1 >= len(buf) {
		return
	}
	buf[off] = byte(pixel)
	buf[off+1] = byte(pixel >> 8)
}

func (d *fbDisplay) Display() error {
	if d.fb == nil {
		return nil
	}
	return d.fb.Present()
}

func (d *fbDisplay) SetRotation(rotation drivers.Rotation) error {
	_ = rotation
	return nil
}

func rgb565From888(r, g, b uint8) uint16 {
	return uint16((uint16(r>>3)&0x1F)<<11 | (uint16(g>>2)&0x3F)<<5 | (uint16(b>>3) & 0x1F))
}

func (s *Service) initRender() bool {
	if s.fb == nil || s.fb.Format() != hal.PixelFormatRGB565 {
		return false
	}
	s.d = newFBDisplay(s.fb)
	s.font = &proggy.TinySZ8pt7b
	s.target = &pixgl.RGB565Target{
		Buf:    s.fb.Buffer(),
		Stride: s.fb.StrideBytes(),
		W:      s.fb.Width(),
		H:      s.fb.Height(),
	}
	return true
}

// renderFrame redraws the whole view from the current camera and point
// streams, then presents the raster to the display surface.
func (s *Service) renderFrame() {
	t := s.target
	t.Clear(colorBG)

	s.drawGrid(t)
	for i, id := range s.slotOrder() {
		p := s.slots[id]
		s.drawPlot(t, p, plotColors[i%len(plotColors)])
	}
	s.drawOverlay()

	_ = s.d.Display()
	s.frames++
}

func (s *Service) drawGrid(t pixgl.Target) {
	w := s.fb.Width()
	h := s.fb.Height()

	begin, end := s.cam.VisibleRange()
	top, bottom := s.cam.VisibleRangeY()
	sp := s.cam.Spacing

	for gx := math.Ceil(begin/sp) * sp; gx <= end; gx += sp {
		px, _ := s.cam.ToPixel(gx, 0)
		pixgl.DrawVLine(t, int(math.Round(px)), 0, h-1, colorGrid)
	}
	for gy := math.Ceil(bottom/sp) * sp; gy <= top; gy += sp {
		_, py := s.cam.ToPixel(0, gy)
		pixgl.DrawHLine(t, 0, w-1, int(math.Round(py)), colorGrid)
	}

	// Axes on top of the grid.
	if begin <= 0 && end >= 0 {
		px, _ := s.cam.ToPixel(0, 0)
		pixgl.DrawVLine(t, int(math.Round(px)), 0, h-1, colorAxis)
	}
	if bottom <= 0 && top >= 0 {
		_, py := s.cam.ToPixel(0, 0)
		pixgl.DrawHLine(t, 0, w-1, int(math.Round(py)), colorAxis)
	}
}

// drawPlot connects consecutive stream points, breaking the path at
// undefined samples and at segments that leave the view by a wide margin
// (so near-vertical asymptotes do not rasterize kilometer-long lines).
func (s *Service) drawPlot(t pixgl.Target, p *plot, c pixgl.Color) {
	if p == nil || p.stream.Len() < 2 {
		return
	}
	w := s.fb.Width()
	h := s.fb.Height()

	havePrev := false
	var prevX, prevY int
	for i := 0; i < p.stream.Len(); i++ {
		pt := p.stream.At(i)
		if pt.Gap() {
			havePrev = false
			continue
		}
		fx, fy := s.cam.ToPixel(pt.X, pt.Y)
		if !onCanvas(fx, fy, w, h) {
			havePrev = false
			continue
		}
		px := int(math.Round(fx))
		py := int(math.Round(fy))
		if havePrev {
			pixgl.DrawLine(t, prevX, prevY, px, py, c)
		}
		prevX, prevY = px, py
		havePrev = true
	}
}

// onCanvas allows one screen of overshoot so segments crossing the edge
// still draw, while rejecting runaway values.
func onCanvas(px, py float64, w, h int) bool {
	return px > -float64(w) && px < 2*float64(w) &&
		py > -float64(h) && py < 2*float64(h)
}

func (s *Service) drawOverlay() {
	h := int16(s.fb.Height())

	cx, cy := s.cam.ToCoord(float64(s.cursorX), float64(s.cursorY))
	readout := fmt.Sprintf("x=%.3f y=%.3f", cx, cy)
	tinyfont.WriteLine(s.d, s.font, 4, h-6, readout, colorCursor)

	if s.panning {
		tinyfont.WriteLine(s.d, s.font, 4, h-18, "pan", colorText)
	}

	fps := fmt.Sprintf("%d fps", s.lastFPS)
	fpsW := textWidth(s.font, fps)
	tinyfont.WriteLine(s.d, s.font, int16(s.fb.Width())-fpsW-4, 12, fps, colorText)

	y := int16(12)
	for _, id := range s.slotOrder() {
		p := s.slots[id]
		line := fmt.Sprintf("f%d: %s", id, p.text)
		tinyfont.WriteLine(s.d, s.font, 4, y, line, colorText)
		y += 12
		if p.errMsg != "" {
			tinyfont.WriteLine(s.d, s.font, 10, y, p.errMsg, colorErr)
			y += 12
		}
	}
}

func textWidth(font tinyfont.Fonter, s string) int16 {
	_, outboxWidth := tinyfont.LineWidth(font, s)
	return int16(outboxWidth)
}
