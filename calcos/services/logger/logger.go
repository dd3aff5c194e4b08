// Package logger drains diagnostic traffic onto the host log sink so the
// other services never block on I/O.
package logger

import (
	"fmt"

	"github.com/President-of-China/calcium/calcos/kernel"
	"github.com/President-of-China/calcium/calcos/proto"
	"github.com/President-of-China/calcium/hal"
)

type Service struct {
	log hal.Logger
	ep  kernel.Capability
}

func New(log hal.Logger, ep kernel.Capability) *Service {
	return &Service{log: log, ep: ep}
}

func (s *Service) Run(ctx *kernel.Context) {
	ch, ok := ctx.RecvChan(s.ep)
	if !ok {
		return
	}
	for msg := range ch {
		if s.log == nil {
			continue
		}
		switch proto.Kind(msg.Kind) {
		case proto.MsgShutdown:
			return
		case proto.MsgLogLine:
			s.log.WriteLineBytes(msg.Payload())
		case proto.MsgFrameRate:
			if fps, ok := proto.DecodeFrameRatePayload(msg.Payload()); ok {
				s.log.WriteLineString(fmt.Sprintf("render: %.0f fps", fps))
			}
		case proto.MsgError:
			code, ref, detail, ok := proto.DecodeErrorPayload(msg.Payload())
			if !ok {
				continue
			}
			s.log.WriteLineString(fmt.Sprintf("error: %s ref=%s %s", code, ref, detail))
		}
	}
}
