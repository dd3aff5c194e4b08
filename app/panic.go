package app

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/President-of-China/calcium/calcos/kernel"
	"github.com/President-of-China/calcium/hal"

	"tinygo.org/x/tinyfont"
	"tinygo.org/x/tinyfont/proggy"
)

// installPanicHandler routes task panics to the log and paints a panic
// screen on the framebuffer. The handler never returns: a context that
// panicked has lost state the others depend on.
func installPanicHandler(h hal.HAL) {
	kernel.SetPanicHandler(func(info kernel.PanicInfo) {
		if l := h.Logger(); l != nil {
			l.WriteLineString(fmt.Sprintf("panic: task=%d value=%v", info.TaskID, info.Value))
			for _, line := range strings.Split(string(info.Stack), "\n") {
				if line != "" {
					l.WriteLineString(line)
				}
			}
		}

		disp := h.Display()
		if disp == nil {
			select {}
		}
		fb := disp.Framebuffer()
		if fb == nil || fb.Format() != hal.PixelFormatRGB565 {
			select {}
		}

		fb.ClearRGB(0x70, 0x10, 0x10)

		font := &proggy.TinySZ8pt7b
		const lineHeight = 12
		fg := color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}

		lines := []string{
			fmt.Sprintf("task %d panicked: %v", info.TaskID, info.Value),
		}
		if len(info.Stack) > 0 {
			for _, line := range strings.Split(string(info.Stack), "\n") {
				if line != "" {
					lines = append(lines, line)
				}
			}
		} else {
			lines = append(lines, "stack unavailable")
		}

		d := panicDisplay{fb: fb}
		y := int16(lineHeight)
		for _, line := range lines {
			if int(y) > fb.Height() {
				break
			}
			tinyfont.WriteLine(d, font, 4, y, line, fg)
			y += lineHeight
		}

		_ = fb.Present()
		select {}
	})
}

type panicDisplay struct {
	fb hal.Framebuffer
}

func (d panicDisplay) Size() (x, y int16) {
	return int16(d.fb.Width()), int16(d.fb.Height())
}

func (d panicDisplay) SetPixel(x, y int16, c color.RGBA) {
	buf := d.fb.Buffer()
	if buf == nil {
		return
	}
	ix := int(x)
	iy := int(y)
	if ix < 0 || ix >= d.fb.Width() || iy < 0 || iy >= d.fb.Height() {
		return
	}
	pixel := uint16((uint16(c.R>>3)&0x1F)<<11 | (uint16(c.G>>2)&0x3F)<<5 | (uint16(c.B>>3) & 0x1F))
	off := iy*d.fb.StrideBytes() + ix*2
	if off < 0 || off+1 >= len(buf) {
		return
	}
	buf[off] = byte(pixel)
	buf[off+1] = byte(pixel >> 8)
}

func (d panicDisplay) Display() error { return nil }
