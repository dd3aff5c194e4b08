package pixgl

import "testing"

func newTarget(w, h int) *RGB565Target {
	return &RGB565Target{Buf: make([]byte, w*2*h), Stride: w * 2, W: w, H: h}
}

func pixelAt(t *RGB565Target, x, y int) uint16 {
	off := y*t.Stride + x*2
	return uint16(t.Buf[off]) | uint16(t.Buf[off+1])<<8
}

func TestSetPixelClips(t *testing.T) {
	tg := newTarget(4, 4)
	// None of these may write (or panic).
	tg.SetPixel(-1, 0, RGB(255, 255, 255))
	tg.SetPixel(0, -1, RGB(255, 255, 255))
	tg.SetPixel(4, 0, RGB(255, 255, 255))
	tg.SetPixel(0, 4, RGB(255, 255, 255))
	for _, b := range tg.Buf {
		if b != 0 {
			t.Fatal("out-of-bounds SetPixel wrote to the buffer")
		}
	}
}

func TestDrawLineEndpoints(t *testing.T) {
	tg := newTarget(8, 8)
	white := RGB(255, 255, 255)
	DrawLine(tg, 1, 1, 6, 4, white)
	if pixelAt(tg, 1, 1) == 0 {
		t.Error("start pixel not set")
	}
	if pixelAt(tg, 6, 4) == 0 {
		t.Error("end pixel not set")
	}
}

func TestDrawLineSinglePixel(t *testing.T) {
	tg := newTarget(4, 4)
	DrawLine(tg, 2, 2, 2, 2, RGB(255, 0, 0))
	if pixelAt(tg, 2, 2) == 0 {
		t.Error("degenerate line did not set its pixel")
	}
}

func TestHVLinesSwapEndpoints(t *testing.T) {
	tg := newTarget(8, 8)
	c := RGB(0, 255, 0)
	DrawHLine(tg, 6, 2, 3, c)
	for x := 2; x <= 6; x++ {
		if pixelAt(tg, x, 3) == 0 {
			t.Fatalf("hline missing pixel at x=%d", x)
		}
	}
	DrawVLine(tg, 1, 5, 1, c)
	for y := 1; y <= 5; y++ {
		if pixelAt(tg, 1, y) == 0 {
			t.Fatalf("vline missing pixel at y=%d", y)
		}
	}
}

func TestClearFills(t *testing.T) {
	tg := newTarget(3, 3)
	tg.Clear(RGB(255, 255, 255))
	want := rgb565From888(255, 255, 255)
	for y := 0; y < 3; y++ {
		for x := 0; x < 3; x++ {
			if pixelAt(tg, x, y) != want {
				t.Fatalf("pixel (%d,%d) = %04x, want %04x", x, y, pixelAt(tg, x, y), want)
			}
		}
	}
}
