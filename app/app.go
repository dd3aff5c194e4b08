// Package app wires the three execution contexts together on top of a HAL:
// the interaction context (editor), the rendering context (graph), and the
// calculation context (calc), plus a log drain. The contexts communicate
// only through kernel messages.
package app

import (
	"sync"

	"github.com/President-of-China/calcium/calcos/expr"
	"github.com/President-of-China/calcium/calcos/kernel"
	"github.com/President-of-China/calcium/calcos/proto"
	"github.com/President-of-China/calcium/calcos/services/calc"
	"github.com/President-of-China/calcium/calcos/services/editor"
	"github.com/President-of-China/calcium/calcos/services/graph"
	"github.com/President-of-China/calcium/calcos/services/logger"
	"github.com/President-of-China/calcium/hal"
)

// Config controls startup behavior.
type Config struct {
	// Expressions seed the function slots in order: Expressions[i] is
	// submitted for slot i before any user input is processed.
	Expressions []string
}

// System is a running instance: a kernel plus the four service tasks.
type System struct {
	k *kernel.Kernel

	editorCap kernel.Capability
	graphCap  kernel.Capability
	calcCap   kernel.Capability
	logCap    kernel.Capability

	shutdownOnce sync.Once
}

// New initializes and starts the system with default config. It returns a
// per-frame step function for the host loop and a shutdown function that
// stops the contexts and tears down the kernel.
func New(h hal.HAL) (func() error, func()) {
	return NewWithConfig(h, Config{})
}

func NewWithConfig(h hal.HAL, cfg Config) (func() error, func()) {
	s := NewSystem(h, cfg)
	return func() error { return nil }, s.Shutdown
}

// Run starts the system and blocks forever. Hosts that want a clean stop
// use New with their own loop instead.
func Run(h hal.HAL) {
	RunWithConfig(h, Config{})
}

func RunWithConfig(h hal.HAL, cfg Config) {
	_, _ = NewWithConfig(h, cfg)
	select {}
}

// NewSystem builds the kernel, allocates one endpoint per context, hands
// each service only the capabilities it needs, and seeds the configured
// expressions.
func NewSystem(h hal.HAL, cfg Config) *System {
	installPanicHandler(h)

	k := kernel.New()

	logEP := k.NewEndpoint(kernel.RightSend | kernel.RightRecv)
	calcEP := k.NewEndpoint(kernel.RightSend | kernel.RightRecv)
	graphEP := k.NewEndpoint(kernel.RightSend | kernel.RightRecv)
	editorEP := k.NewEndpoint(kernel.RightSend | kernel.RightRecv)

	k.AddTask(logger.New(h.Logger(), logEP.Restrict(kernel.RightRecv)))
	k.AddTask(calc.New(
		calcEP.Restrict(kernel.RightRecv),
		graphEP.Restrict(kernel.RightSend),
	))
	k.AddTask(graph.New(
		h.Display(), h.Input(), h.Time(),
		graphEP.Restrict(kernel.RightRecv),
		calcEP.Restrict(kernel.RightSend),
		logEP.Restrict(kernel.RightSend),
	))
	k.AddTask(editor.New(
		h.Input(),
		editorEP.Restrict(kernel.RightRecv),
		graphEP.Restrict(kernel.RightSend),
		logEP.Restrict(kernel.RightSend),
	))

	s := &System{
		k:         k,
		editorCap: editorEP.Restrict(kernel.RightSend),
		graphCap:  graphEP.Restrict(kernel.RightSend),
		calcCap:   calcEP.Restrict(kernel.RightSend),
		logCap:    logEP.Restrict(kernel.RightSend),
	}

	for i, text := range cfg.Expressions {
		k.Send(s.graphCap, uint16(proto.MsgFnEdit),
			proto.FnEditPayload(uint32(i), uint8(expr.ModeNormal), []byte(text)))
	}

	return s
}

// Shutdown asks every context to stop, then tears down the kernel and
// waits for the tasks to return. Safe to call more than once.
func (s *System) Shutdown() {
	s.shutdownOnce.Do(func() {
		for _, c := range []kernel.Capability{s.editorCap, s.graphCap, s.calcCap, s.logCap} {
			s.k.Send(c, uint16(proto.MsgShutdown), nil)
		}
		s.k.Close()
	})
}
