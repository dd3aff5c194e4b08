// Package calc implements the calculation context: the function registry,
// the compiler, and the evaluator.
//
// The service owns every compiled token tree. Other contexts only ever see
// value copies: compile responses and evaluate requests carry trees in
// encoded form, so no memory is shared across the context boundary. The
// service never touches the framebuffer.
package calc

import (
	"math"

	"github.com/President-of-China/calcium/calcos/expr"
	"github.com/President-of-China/calcium/calcos/kernel"
	"github.com/President-of-China/calcium/calcos/proto"
)

type entry struct {
	mode       expr.Mode
	root       *expr.Node
	generation uint32
}

// Service is the function registry task.
type Service struct {
	ep    kernel.Capability // recv: compile/eval requests
	graph kernel.Capability // send: responses toward the rendering context

	funcs map[uint32]entry
}

func New(ep, graph kernel.Capability) *Service {
	return &Service{ep: ep, graph: graph, funcs: make(map[uint32]entry)}
}

func (s *Service) Run(ctx *kernel.Context) {
	ch, ok := ctx.RecvChan(s.ep)
	if !ok {
		return
	}
	for msg := range ch {
		switch proto.Kind(msg.Kind) {
		case proto.MsgCompile:
			s.handleCompile(ctx, msg.Payload(), proto.MsgCompileOK)
		case proto.MsgCompileAndSet:
			s.handleCompile(ctx, msg.Payload(), proto.MsgCompileAndSetOK)
		case proto.MsgEval:
			s.handleEval(ctx, msg.Payload())
		case proto.MsgUnregister:
			if id, ok := proto.DecodeUnregisterPayload(msg.Payload()); ok {
				delete(s.funcs, id)
			}
		case proto.MsgShutdown:
			return
		}
		// Unknown kinds are ignored.
	}
}

// handleCompile serves both MsgCompile (register new) and MsgCompileAndSet
// (replace in place, id preserved); the two differ only in the response
// kind the rendering context dispatches on.
func (s *Service) handleCompile(ctx *kernel.Context, payload []byte, okKind proto.Kind) {
	id, modeHint, text, ok := proto.DecodeCompilePayload(payload)
	if !ok {
		ctx.SendTo(s.graph, uint16(proto.MsgError),
			proto.ErrorPayload(proto.ErrBadMessage, proto.MsgCompile, nil))
		return
	}

	f, err := expr.Compile(string(text))
	if err != nil {
		pos := 0
		if ce, isCompile := err.(*expr.CompileError); isCompile {
			pos = ce.Pos
		}
		// Report the failure; the previous function at this id, if any,
		// stays registered untouched.
		ctx.SendTo(s.graph, uint16(proto.MsgCompileErr),
			proto.CompileErrPayload(id, uint16(pos), err.Error()))
		return
	}

	// A constant expression keeps the caller's mode hint; an expression
	// over the angle variable forces polar.
	mode := f.Mode
	if mode == expr.ModeNormal && expr.Mode(modeHint) == expr.ModePolar && !usesVariable(f.Root) {
		mode = expr.ModePolar
	}

	// Size-check the response before touching the registry: a tree too
	// large for one message is rejected like any other compile failure,
	// and the previous function at this id stays registered untouched.
	gen := s.funcs[id].generation + 1
	tree := expr.AppendNode(nil, f.Root)
	okPayload := proto.CompileOKPayload(id, uint8(mode), gen, tree)
	if len(okPayload) > kernel.MaxMessageBytes {
		ctx.SendTo(s.graph, uint16(proto.MsgCompileErr),
			proto.CompileErrPayload(id, 0, "expression too large"))
		return
	}

	s.funcs[id] = entry{mode: mode, root: f.Root, generation: gen}
	ctx.SendToRetry(s.graph, uint16(okKind), okPayload, 10)
}

func (s *Service) handleEval(ctx *kernel.Context, payload []byte) {
	id, mode, op, gen, x, treeBytes, ok := proto.DecodeEvalPayload(payload)
	if !ok {
		return
	}
	root, rest, ok := expr.DecodeNode(treeBytes)
	if !ok || len(rest) != 0 {
		ctx.SendTo(s.graph, uint16(proto.MsgError),
			proto.ErrorPayload(proto.ErrBadMessage, proto.MsgEval, nil))
		return
	}

	y := expr.Eval(root, x)
	if math.IsInf(y, 0) {
		y = math.NaN()
	}
	// NaN results are replied rather than suppressed so the stream
	// bookkeeping on the receiving side stays aligned with the request
	// order; the viewport skips plotting them.
	ctx.SendToRetry(s.graph, uint16(proto.MsgEvalResult),
		proto.EvalResultPayload(id, mode, op, gen, x, y), 10)
}

func usesVariable(n *expr.Node) bool {
	if n == nil {
		return false
	}
	if n.Kind == expr.NodeVar {
		return true
	}
	return usesVariable(n.X) || usesVariable(n.Y)
}
