package hal

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

type hostPointer struct {
	ch chan PointerEvent

	lastX int
	lastY int

	touchActive bool
	touchIDs    []ebiten.TouchID
}

func newHostPointer() *hostPointer {
	return &hostPointer{ch: make(chan PointerEvent, 256)}
}

func (p *hostPointer) Events() <-chan PointerEvent { return p.ch }

func (p *hostPointer) emit(ev PointerEvent) {
	select {
	case p.ch <- ev:
	default:
		// Input is best-effort; drop instead of blocking the UI loop.
	}
}

func (p *hostPointer) poll() {
	p.touchIDs = ebiten.AppendTouchIDs(p.touchIDs[:0])
	if len(p.touchIDs) > 0 {
		p.pollTouch()
		return
	}
	if p.touchActive {
		p.touchActive = false
		p.emit(PointerEvent{Kind: PointerUp, X: p.lastX, Y: p.lastY})
	}

	x, y := ebiten.CursorPosition()
	switch {
	case inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft):
		p.emit(PointerEvent{Kind: PointerDown, X: x, Y: y})
	case inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft):
		p.emit(PointerEvent{Kind: PointerUp, X: x, Y: y})
	case x != p.lastX || y != p.lastY:
		p.emit(PointerEvent{Kind: PointerMove, X: x, Y: y})
	}
	p.lastX = x
	p.lastY = y

	if _, wy := ebiten.Wheel(); wy != 0 {
		p.emit(PointerEvent{Kind: PointerWheel, X: x, Y: y, WheelY: float32(wy)})
	}
}

func (p *hostPointer) pollTouch() {
	x, y := ebiten.TouchPosition(p.touchIDs[0])

	ev := PointerEvent{Kind: PointerMove, X: x, Y: y}
	ev.Touches[0] = TouchPoint{X: x, Y: y}
	ev.TouchCount = 1
	if len(p.touchIDs) > 1 {
		x2, y2 := ebiten.TouchPosition(p.touchIDs[1])
		ev.Touches[1] = TouchPoint{X: x2, Y: y2}
		ev.TouchCount = 2
	}

	if !p.touchActive {
		p.touchActive = true
		ev.Kind = PointerDown
	}
	p.emit(ev)
	p.lastX = x
	p.lastY = y
}
