package kernel

import (
	"testing"
	"time"
)

func TestMessagePayloadClampsLen(t *testing.T) {
	var msg Message
	msg.Len = MaxMessageBytes + 10
	if got := len(msg.Payload()); got != MaxMessageBytes {
		t.Fatalf("expected payload length %d, got %d", MaxMessageBytes, got)
	}
}

func TestCapabilityRestrict(t *testing.T) {
	k := New()
	ep := k.NewEndpoint(RightSend | RightRecv)
	if !ep.Valid() {
		t.Fatal("expected valid capability")
	}
	sendOnly := ep.Restrict(RightSend)
	if !sendOnly.Valid() || !sendOnly.canSend() || sendOnly.canRecv() {
		t.Fatal("restrict to send-only failed")
	}
	if ep.Restrict(0).Valid() {
		t.Fatal("restrict to nothing should be invalid")
	}
	if (Capability{}).Restrict(RightSend).Valid() {
		t.Fatal("restricting an invalid capability should stay invalid")
	}
}

func TestSendRecvFIFO(t *testing.T) {
	k := New()
	ep := k.NewEndpoint(RightSend | RightRecv)
	ctx := &Context{k: k, taskID: 1}

	to := ep.Restrict(RightSend)
	for i := 0; i < 10; i++ {
		if res := ctx.SendToResult(to, uint16(i+1), []byte{byte(i)}); res != SendOK {
			t.Fatalf("send %d: %s", i, res)
		}
	}
	recv := ep.Restrict(RightRecv)
	for i := 0; i < 10; i++ {
		msg, ok := ctx.TryRecv(recv)
		if !ok {
			t.Fatalf("recv %d: no message", i)
		}
		if msg.Kind != uint16(i+1) || msg.Payload()[0] != byte(i) {
			t.Fatalf("recv %d: out of order (kind %d)", i, msg.Kind)
		}
	}
}

func TestSendRights(t *testing.T) {
	k := New()
	ep := k.NewEndpoint(RightSend | RightRecv)
	ctx := &Context{k: k, taskID: 1}

	if res := ctx.SendToResult(ep.Restrict(RightRecv), 1, nil); res != SendErrToNoSendRight {
		t.Fatalf("expected SendErrToNoSendRight, got %s", res)
	}
	if res := ctx.SendToResult(Capability{}, 1, nil); res != SendErrInvalidToCap {
		t.Fatalf("expected SendErrInvalidToCap, got %s", res)
	}
	big := make([]byte, MaxMessageBytes+1)
	if res := ctx.SendToResult(ep.Restrict(RightSend), 1, big); res != SendErrPayloadTooLarge {
		t.Fatalf("expected SendErrPayloadTooLarge, got %s", res)
	}
}

func TestSendAfterClose(t *testing.T) {
	k := New()
	ep := k.NewEndpoint(RightSend | RightRecv)
	ctx := &Context{k: k, taskID: 1}
	k.Close()

	if res := ctx.SendToResult(ep.Restrict(RightSend), 1, []byte("x")); res != SendErrNoEndpoint {
		t.Fatalf("expected SendErrNoEndpoint, got %s", res)
	}
	if _, ok := ctx.Recv(ep.Restrict(RightRecv)); ok {
		t.Fatal("expected Recv to fail after close")
	}
}

func TestSendToRetrySucceedsAfterDrain(t *testing.T) {
	k := New()
	ep := k.NewEndpoint(RightSend | RightRecv)
	ctx := &Context{k: k, taskID: 1}
	to := ep.Restrict(RightSend)

	for i := 0; i < mailboxSlots; i++ {
		if res := ctx.SendToResult(to, 1, []byte("x")); res != SendOK {
			t.Fatalf("expected SendOK filling queue, got %s", res)
		}
	}
	if res := ctx.SendToRetry(to, 1, []byte("y"), 0); res != SendErrQueueFull {
		t.Fatalf("expected SendErrQueueFull with zero retry limit, got %s", res)
	}

	resultCh := make(chan SendResult, 1)
	go func() {
		resultCh <- ctx.SendToRetry(to, 1, []byte("y"), 50)
	}()
	// Drain one slot so the retry can land.
	time.Sleep(5 * time.Millisecond)
	if _, ok := ctx.TryRecv(ep.Restrict(RightRecv)); !ok {
		t.Fatal("expected a queued message")
	}
	select {
	case res := <-resultCh:
		if res != SendOK {
			t.Fatalf("expected SendOK after drain, got %s", res)
		}
	case <-time.After(time.Second):
		t.Fatal("retry send did not complete")
	}
}

type echoTask struct {
	in   Capability
	out  Capability
	done chan struct{}
}

func (e *echoTask) Run(ctx *Context) {
	defer close(e.done)
	for {
		msg, ok := ctx.Recv(e.in)
		if !ok {
			return
		}
		ctx.SendTo(e.out, msg.Kind+100, msg.Payload())
	}
}

func TestTaskRunAndShutdown(t *testing.T) {
	k := New()
	in := k.NewEndpoint(RightSend | RightRecv)
	out := k.NewEndpoint(RightSend | RightRecv)
	done := make(chan struct{})
	k.AddTask(&echoTask{in: in.Restrict(RightRecv), out: out.Restrict(RightSend), done: done})

	ctx := &Context{k: k, taskID: 99}
	if !ctx.SendTo(in.Restrict(RightSend), 7, []byte("ping")) {
		t.Fatal("send failed")
	}
	msg, ok := ctx.Recv(out.Restrict(RightRecv))
	if !ok || msg.Kind != 107 || string(msg.Payload()) != "ping" {
		t.Fatalf("unexpected echo: ok=%v kind=%d", ok, msg.Kind)
	}

	k.Close()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("task did not exit on close")
	}
}
