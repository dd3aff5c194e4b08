// Package proto defines the message kinds and payload encodings spoken
// between the UI, rendering, and calculation contexts.
//
// Payloads are little-endian and length-checked on decode. Services ignore
// kinds they do not understand.
package proto

// Kind identifies the message type carried in kernel.Message.Kind.
type Kind uint16

const (
	MsgLogLine Kind = iota + 1
	MsgError
	MsgShutdown

	// UI -> rendering context.
	MsgFnEdit

	// Rendering context -> calculation context.
	MsgCompile
	MsgCompileAndSet
	MsgEval
	MsgUnregister

	// Calculation context -> rendering context.
	MsgCompileOK
	MsgCompileAndSetOK
	MsgEvalResult
	MsgCompileErr

	// Rendering context -> UI collaborator.
	MsgFrameRate
)

func (k Kind) String() string {
	switch k {
	case MsgLogLine:
		return "log_line"
	case MsgError:
		return "error"
	case MsgShutdown:
		return "shutdown"
	case MsgFnEdit:
		return "fn_edit"
	case MsgCompile:
		return "compile"
	case MsgCompileAndSet:
		return "compile_and_set"
	case MsgEval:
		return "eval"
	case MsgUnregister:
		return "unregister"
	case MsgCompileOK:
		return "compile_ok"
	case MsgCompileAndSetOK:
		return "compile_and_set_ok"
	case MsgEvalResult:
		return "eval_result"
	case MsgCompileErr:
		return "compile_err"
	case MsgFrameRate:
		return "frame_rate"
	default:
		return "unknown"
	}
}

// Operate selects where an evaluated sample lands in the point stream.
type Operate uint8

const (
	// OperateAdd appends the sample to the end of the stream.
	OperateAdd Operate = iota + 1
	// OperateUnshift prepends the sample to the front of the stream.
	OperateUnshift
)

// ErrCode is a generic error category for MsgError responses.
type ErrCode uint16

const (
	ErrUnknown ErrCode = iota
	ErrBadMessage
	ErrNotFound
	ErrTooLarge
	ErrInternal
)

func (c ErrCode) String() string {
	switch c {
	case ErrUnknown:
		return "unknown"
	case ErrBadMessage:
		return "bad_message"
	case ErrNotFound:
		return "not_found"
	case ErrTooLarge:
		return "too_large"
	case ErrInternal:
		return "internal"
	default:
		return "unknown"
	}
}
