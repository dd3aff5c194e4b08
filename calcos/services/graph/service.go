package graph

import (
	"fmt"
	"math"
	"sort"

	"github.com/President-of-China/calcium/calcos/expr"
	"github.com/President-of-China/calcium/calcos/kernel"
	"github.com/President-of-China/calcium/calcos/pixgl"
	"github.com/President-of-China/calcium/calcos/proto"
	"github.com/President-of-China/calcium/hal"

	"tinygo.org/x/tinyfont"
)

const (
	// renderEveryTicks throttles redraws to roughly 60 per second on the
	// millisecond time base.
	renderEveryTicks = 16
	fpsEveryTicks    = 1000

	sendRetryLimit = 50

	// maxBatchSamples bounds one resample burst so a degenerate camera
	// state cannot flood the calculation mailbox.
	maxBatchSamples = 8192
)

// plot is one function slot: the compiled handle received from the
// calculation context plus the sampled point stream.
//
// epoch is owned by the viewport, not the registry: it advances on every
// stream clear and rides in the generation field of the evaluate requests
// this service issues, so results from batches issued before a clear are
// rejected when they land.
type plot struct {
	id     uint32
	mode   expr.Mode
	epoch  uint32
	tree   []byte
	stream *Stream

	text     string
	errMsg   string
	compiled bool
}

// Service is the rendering context. It owns the camera and the point
// streams, consumes pointer input, asks the calculation context for
// samples, and rasterizes frames into the framebuffer.
type Service struct {
	ep     kernel.Capability
	calc   kernel.Capability
	logCap kernel.Capability

	disp hal.Display
	in   hal.Input
	time hal.Time

	fb     hal.Framebuffer
	d      *fbDisplay
	font   tinyfont.Fonter
	target *pixgl.RGB565Target

	cam   *Camera
	slots map[uint32]*plot

	cursorX int
	cursorY int
	panning bool
	lastPX  int
	lastPY  int
	pinch   bool

	ticks   uint64
	frames  int
	lastFPS int
}

// New creates the rendering service. ep is its receive endpoint, calcCap
// sends to the calculation context, logCap (optional) receives frame rate
// reports.
func New(disp hal.Display, in hal.Input, t hal.Time, ep, calcCap, logCap kernel.Capability) *Service {
	return &Service{
		ep:     ep,
		calc:   calcCap,
		logCap: logCap,
		disp:   disp,
		in:     in,
		time:   t,
		slots:  make(map[uint32]*plot),
	}
}

func (s *Service) Run(ctx *kernel.Context) {
	msgCh, ok := ctx.RecvChan(s.ep)
	if !ok {
		return
	}
	if s.disp == nil {
		return
	}
	s.fb = s.disp.Framebuffer()
	if s.fb == nil {
		return
	}
	if !s.initRender() {
		return
	}
	s.cam = NewCamera(s.fb.Width(), s.fb.Height())
	s.cursorX = s.fb.Width() / 2
	s.cursorY = s.fb.Height() / 2

	// Absent devices leave their channel nil, which never fires.
	var ptrCh <-chan hal.PointerEvent
	if s.in != nil {
		if p := s.in.Pointer(); p != nil {
			ptrCh = p.Events()
		}
	}
	var tickCh <-chan uint64
	if s.time != nil {
		tickCh = s.time.Ticks()
	}

	s.renderFrame()

	for {
		select {
		case msg, ok := <-msgCh:
			if !ok {
				return
			}
			if !s.handleMessage(ctx, msg) {
				return
			}

		case ev := <-ptrCh:
			s.handlePointer(ctx, ev)

		case <-tickCh:
			s.handleTick(ctx)
		}
	}
}

// handleMessage dispatches one mailbox message. It reports false on
// shutdown.
func (s *Service) handleMessage(ctx *kernel.Context, msg kernel.Message) bool {
	switch proto.Kind(msg.Kind) {
	case proto.MsgShutdown:
		return false

	case proto.MsgFnEdit:
		s.handleFnEdit(ctx, msg.Payload())

	case proto.MsgCompileOK, proto.MsgCompileAndSetOK:
		s.handleCompileOK(ctx, msg.Payload())

	case proto.MsgCompileErr:
		s.handleCompileErr(msg.Payload())

	case proto.MsgEvalResult:
		s.handleEvalResult(msg.Payload())
	}
	return true
}

// handleFnEdit forwards edited expression text to the calculation context.
// A slot that already holds a compiled function uses the replace form so
// the old handle stays in place until the new one arrives.
func (s *Service) handleFnEdit(ctx *kernel.Context, payload []byte) {
	slot, mode, text, ok := proto.DecodeFnEditPayload(payload)
	if !ok {
		return
	}
	// Empty text clears the slot and unregisters its function.
	if len(text) == 0 {
		if _, exists := s.slots[slot]; exists {
			delete(s.slots, slot)
			ctx.SendToRetry(s.calc, uint16(proto.MsgUnregister), proto.UnregisterPayload(slot), sendRetryLimit)
		}
		return
	}

	p := s.slot(slot)
	p.text = string(text)
	p.errMsg = ""

	kind := proto.MsgCompile
	if p.compiled {
		kind = proto.MsgCompileAndSet
	}
	ctx.SendToRetry(s.calc, uint16(kind), proto.CompilePayload(slot, mode, text), sendRetryLimit)
}

func (s *Service) handleCompileOK(ctx *kernel.Context, payload []byte) {
	id, mode, _, tree, ok := proto.DecodeCompileOKPayload(payload)
	if !ok {
		return
	}
	p := s.slot(id)
	p.mode = expr.Mode(mode)
	p.tree = append(p.tree[:0], tree...)
	p.compiled = true
	p.errMsg = ""
	s.clearStream(p)

	s.issueBatch(ctx, p, s.cam.FullRange())
}

// clearStream drops the plot's points and advances its epoch, invalidating
// every evaluate request still in flight for the old stream.
func (s *Service) clearStream(p *plot) {
	p.stream.Clear()
	p.epoch++
}

func (s *Service) handleCompileErr(payload []byte) {
	id, pos, msg, ok := proto.DecodeCompileErrPayload(payload)
	if !ok {
		return
	}
	p := s.slot(id)
	p.errMsg = fmt.Sprintf("%s (col %d)", msg, pos)
}

// handleEvalResult inserts one sample into its stream. The registry echoes
// the epoch each request carried; a result tagged with a superseded epoch
// belongs to a stream that has since been cleared and is dropped.
func (s *Service) handleEvalResult(payload []byte) {
	id, mode, op, gen, x, y, ok := proto.DecodeEvalResultPayload(payload)
	if !ok {
		return
	}
	p, exists := s.slots[id]
	if !exists || !p.compiled || gen != p.epoch || expr.Mode(mode) != p.mode {
		return
	}

	pt := Point{X: x, Y: y}
	if p.mode == expr.ModePolar {
		if math.IsNaN(y) {
			pt = Point{X: math.NaN(), Y: math.NaN()}
		} else {
			// x carries theta and y the radius; plot in Cartesian.
			pt = Point{X: y * math.Cos(x), Y: y * math.Sin(x)}
		}
	}

	switch op {
	case proto.OperateUnshift:
		p.stream.PushFront(pt)
	default:
		p.stream.PushBack(pt)
	}
}

func (s *Service) handlePointer(ctx *kernel.Context, ev hal.PointerEvent) {
	switch ev.Kind {
	case hal.PointerWheel:
		clear, batches := s.cam.WheelZoom(float64(ev.WheelY), float64(ev.X), float64(ev.Y))
		s.applyZoom(ctx, clear, batches)

	case hal.PointerDown:
		if ev.TouchCount == 2 {
			s.pinch = true
			clear, batches := s.cam.PinchZoom(touchDistance(ev))
			s.applyZoom(ctx, clear, batches)
			break
		}
		s.panning = true
		s.lastPX = ev.X
		s.lastPY = ev.Y

	case hal.PointerMove:
		s.cursorX = ev.X
		s.cursorY = ev.Y

		if ev.TouchCount == 2 {
			if !s.pinch {
				s.pinch = true
				s.panning = false
			}
			clear, batches := s.cam.PinchZoom(touchDistance(ev))
			s.applyZoom(ctx, clear, batches)
			break
		}
		if s.panning {
			dx := ev.X - s.lastPX
			dy := ev.Y - s.lastPY
			s.lastPX = ev.X
			s.lastPY = ev.Y
			if batch, moved := s.cam.Pan(float64(dx), float64(dy)); moved {
				for _, id := range s.slotOrder() {
					p := s.slots[id]
					if p.compiled {
						s.issueBatch(ctx, p, batch)
					}
				}
			}
		}

	case hal.PointerUp:
		s.panning = false
		if s.pinch {
			s.pinch = false
			s.cam.EndPinch()
		}
	}
}

func (s *Service) applyZoom(ctx *kernel.Context, clear bool, batches []Batch) {
	if clear {
		for _, p := range s.slots {
			s.clearStream(p)
		}
	}
	for _, id := range s.slotOrder() {
		p := s.slots[id]
		if !p.compiled {
			continue
		}
		for _, b := range batches {
			s.issueBatch(ctx, p, b)
		}
	}
}

// issueBatch requests one evaluation per sample position across the batch
// range. Prepend batches are walked high to low so the stream front keeps
// ascending order as results arrive.
func (s *Service) issueBatch(ctx *kernel.Context, p *plot, b Batch) {
	step := s.cam.Step()
	if step <= 0 || b.Hi < b.Lo {
		return
	}
	n := int((b.Hi-b.Lo)/step) + 1
	if n > maxBatchSamples {
		n = maxBatchSamples
	}

	for i := 0; i < n; i++ {
		x := b.Lo + float64(i)*step
		if b.Op == proto.OperateUnshift {
			x = b.Hi - float64(i)*step
		}
		payload := proto.EvalPayload(p.id, uint8(p.mode), b.Op, p.epoch, x, p.tree)
		ctx.SendToRetry(s.calc, uint16(proto.MsgEval), payload, sendRetryLimit)
	}
}

func (s *Service) handleTick(ctx *kernel.Context) {
	s.ticks++

	if s.ticks%renderEveryTicks == 0 {
		s.renderFrame()
	}

	if s.ticks%fpsEveryTicks == 0 {
		s.lastFPS = s.frames
		s.frames = 0
		if s.logCap.Valid() {
			ctx.SendTo(s.logCap, uint16(proto.MsgFrameRate), proto.FrameRatePayload(float32(s.lastFPS)))
		}
	}
}

func (s *Service) slot(id uint32) *plot {
	p, ok := s.slots[id]
	if !ok {
		p = &plot{id: id, stream: NewStream()}
		s.slots[id] = p
	}
	return p
}

func (s *Service) slotOrder() []uint32 {
	ids := make([]uint32, 0, len(s.slots))
	for id := range s.slots {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func touchDistance(ev hal.PointerEvent) float64 {
	dx := float64(ev.Touches[0].X - ev.Touches[1].X)
	dy := float64(ev.Touches[0].Y - ev.Touches[1].Y)
	return math.Hypot(dx, dy)
}
