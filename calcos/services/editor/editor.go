// Package editor is the interaction context: it turns keyboard input into
// expression edits for the rendering context.
package editor

import (
	"fmt"

	"github.com/President-of-China/calcium/calcos/expr"
	"github.com/President-of-China/calcium/calcos/kernel"
	"github.com/President-of-China/calcium/calcos/proto"
	"github.com/President-of-China/calcium/hal"
)

// slotCount is the number of function slots the editor cycles through.
const slotCount = 4

const sendRetryLimit = 50

// Service owns one line buffer per function slot. Typing edits the active
// slot; Enter submits it as a MsgFnEdit; Up and Down move between slots.
type Service struct {
	ep    kernel.Capability
	graph kernel.Capability
	in    hal.Input
	log   kernel.Capability

	lines  [slotCount][]rune
	active int
}

func New(in hal.Input, ep, graphCap, logCap kernel.Capability) *Service {
	return &Service{ep: ep, graph: graphCap, in: in, log: logCap}
}

func (s *Service) Run(ctx *kernel.Context) {
	msgCh, ok := ctx.RecvChan(s.ep)
	if !ok {
		return
	}
	var keyCh <-chan hal.KeyEvent
	if s.in != nil {
		if kbd := s.in.Keyboard(); kbd != nil {
			keyCh = kbd.Events()
		}
	}

	for {
		select {
		case msg, ok := <-msgCh:
			if !ok {
				return
			}
			if proto.Kind(msg.Kind) == proto.MsgShutdown {
				return
			}

		case ev := <-keyCh:
			if ev.Press {
				s.handleKey(ctx, ev)
			}
		}
	}
}

func (s *Service) handleKey(ctx *kernel.Context, ev hal.KeyEvent) {
	switch ev.Code {
	case hal.KeyUp:
		s.active--
		if s.active < 0 {
			s.active = slotCount - 1
		}
	case hal.KeyDown:
		s.active = (s.active + 1) % slotCount
	case hal.KeyBackspace:
		line := s.lines[s.active]
		if len(line) > 0 {
			s.lines[s.active] = line[:len(line)-1]
		}
	case hal.KeyEscape:
		s.lines[s.active] = s.lines[s.active][:0]
	case hal.KeyEnter:
		s.submit(ctx)
	default:
		if ev.Rune != 0 {
			s.lines[s.active] = append(s.lines[s.active], ev.Rune)
		}
	}
}

func (s *Service) submit(ctx *kernel.Context) {
	text := []byte(string(s.lines[s.active]))
	payload := proto.FnEditPayload(uint32(s.active), uint8(expr.ModeNormal), text)
	res := ctx.SendToRetry(s.graph, uint16(proto.MsgFnEdit), payload, sendRetryLimit)
	if res != kernel.SendOK && s.log.Valid() {
		line := fmt.Sprintf("editor: submit slot %d failed: %s", s.active, res)
		ctx.SendTo(s.log, uint16(proto.MsgLogLine), proto.LogLinePayload([]byte(line)))
	}
}
