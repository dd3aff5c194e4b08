// Package hal is the only contact point between the graphing system and the
// outside world: framebuffer output, pointer/keyboard input, a time base,
// and logging. The host backend presents the framebuffer in an ebiten
// window or runs headless.
package hal

import "errors"

// Logger writes newline-delimited log lines.
type Logger interface {
	WriteLineString(s string)
	WriteLineBytes(b []byte)
}

var ErrNotImplemented = errors.New("not implemented")

// PixelFormat defines the framebuffer pixel encoding.
type PixelFormat uint8

const (
	// PixelFormatRGB565 is 16bpp: rrrrrggggggbbbbb.
	PixelFormatRGB565 PixelFormat = iota + 1
)

// Framebuffer is a simple pixel buffer plus a "present" hook.
type Framebuffer interface {
	Width() int
	Height() int
	Format() PixelFormat
	StrideBytes() int
	Buffer() []byte
	ClearRGB(r, g, b uint8)
	Present() error
}

// KeyCode is a minimal key identifier.
type KeyCode uint16

const (
	KeyUnknown KeyCode = iota
	KeyUp
	KeyDown
	KeyEnter
	KeyEscape
	KeyBackspace
)

// KeyEvent is a keyboard event.
type KeyEvent struct {
	Code  KeyCode
	Press bool
	Rune  rune
}

// Keyboard provides key events (best-effort on each platform).
type Keyboard interface {
	Events() <-chan KeyEvent
}

// PointerKind classifies a pointer event.
type PointerKind uint8

const (
	PointerDown PointerKind = iota + 1
	PointerMove
	PointerUp
	PointerWheel
)

// TouchPoint is one active touch in device coordinates.
type TouchPoint struct {
	X int
	Y int
}

// PointerEvent is a mouse/touch/wheel event in device coordinates.
//
// For two-finger gestures TouchCount is 2 and Touches holds both contact
// points; X/Y mirror the first touch. WheelY is the vertical wheel delta
// for PointerWheel events.
type PointerEvent struct {
	Kind       PointerKind
	X          int
	Y          int
	WheelY     float32
	Touches    [2]TouchPoint
	TouchCount int
}

// Pointer provides pointer events (best-effort on each platform).
type Pointer interface {
	Events() <-chan PointerEvent
}

// Display provides access to the framebuffer (if available).
type Display interface {
	Framebuffer() Framebuffer
}

// Input provides access to input devices (if available).
type Input interface {
	Keyboard() Keyboard
	Pointer() Pointer
}

// Time provides a base tick stream.
//
// One tick is one millisecond; higher-level timers live in userland.
type Time interface {
	Ticks() <-chan uint64
}

// HAL provides the host services the application runs against.
type HAL interface {
	Logger() Logger
	Display() Display
	Input() Input
	Time() Time
}
