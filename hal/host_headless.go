package hal

import (
	"context"
	"fmt"
	"image"
	"image/png"
	"os"
	"time"
)

// HeadlessConfig controls the no-window host runner.
type HeadlessConfig struct {
	Enabled  bool
	Hz       int
	Ticks    uint64
	Snapshot string // write the framebuffer as PNG to this path on exit
}

// RunHeadless runs the system without opening a window: useful for smoke
// runs and capturing a plot without a display.
func RunHeadless(ctx context.Context, newApp func(HAL) (func() error, func()), cfg HeadlessConfig) error {
	if cfg.Hz <= 0 {
		cfg.Hz = 60
	}

	h := New().(*hostHAL)
	step, shutdown := newApp(h)
	if shutdown != nil {
		defer shutdown()
	}

	d := time.Second / time.Duration(cfg.Hz)
	if d <= 0 {
		return fmt.Errorf("invalid headless hz: %d", cfg.Hz)
	}
	t := time.NewTicker(d)
	defer t.Stop()

	var tick uint64
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
			h.t.step(1)
			if step != nil {
				if err := step(); err != nil {
					return err
				}
			}
			tick++
			if cfg.Ticks > 0 && tick >= cfg.Ticks {
				if cfg.Snapshot != "" {
					return writeSnapshot(h.fb, cfg.Snapshot)
				}
				return nil
			}
		}
	}
}

func writeSnapshot(fb *hostFramebuffer, path string) error {
	img := image.NewRGBA(image.Rect(0, 0, fb.width, fb.height))
	buf := make([]byte, len(fb.buf))
	fb.snapshotRGB565(buf)
	for i := 0; i+1 < len(buf); i += 2 {
		r, g, b := rgb888From565(uint16(buf[i]) | uint16(buf[i+1])<<8)
		j := (i / 2) * 4
		if j+3 >= len(img.Pix) {
			break
		}
		img.Pix[j+0] = r
		img.Pix[j+1] = g
		img.Pix[j+2] = b
		img.Pix[j+3] = 0xFF
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return png.Encode(f, img)
}
