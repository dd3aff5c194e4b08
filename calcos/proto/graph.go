package proto

import (
	"encoding/binary"
	"math"
)

// FnEditPayload encodes a MsgFnEdit payload.
//
// Layout (little-endian):
//   - u32: slot index
//   - u8:  mode hint
//   - bytes: raw expression text (UTF-8)
func FnEditPayload(slot uint32, mode uint8, text []byte) []byte {
	buf := make([]byte, 5+len(text))
	binary.LittleEndian.PutUint32(buf[0:4], slot)
	buf[4] = mode
	copy(buf[5:], text)
	return buf
}

// DecodeFnEditPayload decodes a FnEditPayload.
func DecodeFnEditPayload(payload []byte) (slot uint32, mode uint8, text []byte, ok bool) {
	if len(payload) < 5 {
		return 0, 0, nil, false
	}
	slot = binary.LittleEndian.Uint32(payload[0:4])
	return slot, payload[4], payload[5:], true
}

// CompilePayload encodes a MsgCompile or MsgCompileAndSet request payload.
//
// Layout (little-endian):
//   - u32: function id (MsgCompile) or replaced index (MsgCompileAndSet)
//   - u8:  mode hint
//   - bytes: raw expression text (UTF-8)
func CompilePayload(id uint32, mode uint8, text []byte) []byte {
	return FnEditPayload(id, mode, text)
}

// DecodeCompilePayload decodes a CompilePayload.
func DecodeCompilePayload(payload []byte) (id uint32, mode uint8, text []byte, ok bool) {
	return DecodeFnEditPayload(payload)
}

// CompileOKPayload encodes a MsgCompileOK or MsgCompileAndSetOK response.
//
// Layout (little-endian):
//   - u32: function id
//   - u8:  resolved mode
//   - u32: generation
//   - bytes: encoded tree (expr codec)
func CompileOKPayload(id uint32, mode uint8, generation uint32, tree []byte) []byte {
	buf := make([]byte, 9+len(tree))
	binary.LittleEndian.PutUint32(buf[0:4], id)
	buf[4] = mode
	binary.LittleEndian.PutUint32(buf[5:9], generation)
	copy(buf[9:], tree)
	return buf
}

// DecodeCompileOKPayload decodes a CompileOKPayload.
func DecodeCompileOKPayload(payload []byte) (id uint32, mode uint8, generation uint32, tree []byte, ok bool) {
	if len(payload) < 9 {
		return 0, 0, 0, nil, false
	}
	id = binary.LittleEndian.Uint32(payload[0:4])
	mode = payload[4]
	generation = binary.LittleEndian.Uint32(payload[5:9])
	return id, mode, generation, payload[9:], true
}

// UnregisterPayload encodes a MsgUnregister request payload.
//
// Layout (little-endian):
//   - u32: function id
func UnregisterPayload(id uint32) []byte {
	buf := make([]byte, 4)
	binary.LittleEndian.PutUint32(buf, id)
	return buf
}

// DecodeUnregisterPayload decodes an UnregisterPayload.
func DecodeUnregisterPayload(payload []byte) (id uint32, ok bool) {
	if len(payload) < 4 {
		return 0, false
	}
	return binary.LittleEndian.Uint32(payload[0:4]), true
}

// EvalPayload encodes a MsgEval request payload.
//
// Layout (little-endian):
//   - u32: function id
//   - u8:  mode
//   - u8:  operate (add/unshift)
//   - u32: generation
//   - f64: sample position (x or theta)
//   - bytes: encoded tree (expr codec), a self-contained value copy
func EvalPayload(id uint32, mode uint8, op Operate, generation uint32, x float64, tree []byte) []byte {
	buf := make([]byte, 18+len(tree))
	binary.LittleEndian.PutUint32(buf[0:4], id)
	buf[4] = mode
	buf[5] = uint8(op)
	binary.LittleEndian.PutUint32(buf[6:10], generation)
	binary.LittleEndian.PutUint64(buf[10:18], math.Float64bits(x))
	copy(buf[18:], tree)
	return buf
}

// DecodeEvalPayload decodes an EvalPayload.
func DecodeEvalPayload(payload []byte) (id uint32, mode uint8, op Operate, generation uint32, x float64, tree []byte, ok bool) {
	if len(payload) < 18 {
		return 0, 0, 0, 0, 0, nil, false
	}
	id = binary.LittleEndian.Uint32(payload[0:4])
	mode = payload[4]
	op = Operate(payload[5])
	generation = binary.LittleEndian.Uint32(payload[6:10])
	x = math.Float64frombits(binary.LittleEndian.Uint64(payload[10:18]))
	return id, mode, op, generation, x, payload[18:], true
}

// EvalResultPayload encodes a MsgEvalResult response.
//
// Layout (little-endian):
//   - u32: function id
//   - u8:  mode
//   - u8:  operate (add/unshift)
//   - u32: generation
//   - f64: sample position (x or theta)
//   - f64: value (y or radius)
func EvalResultPayload(id uint32, mode uint8, op Operate, generation uint32, x, y float64) []byte {
	buf := make([]byte, 26)
	binary.LittleEndian.PutUint32(buf[0:4], id)
	buf[4] = mode
	buf[5] = uint8(op)
	binary.LittleEndian.PutUint32(buf[6:10], generation)
	binary.LittleEndian.PutUint64(buf[10:18], math.Float64bits(x))
	binary.LittleEndian.PutUint64(buf[18:26], math.Float64bits(y))
	return buf
}

// DecodeEvalResultPayload decodes an EvalResultPayload.
func DecodeEvalResultPayload(payload []byte) (id uint32, mode uint8, op Operate, generation uint32, x, y float64, ok bool) {
	if len(payload) < 26 {
		return 0, 0, 0, 0, 0, 0, false
	}
	id = binary.LittleEndian.Uint32(payload[0:4])
	mode = payload[4]
	op = Operate(payload[5])
	generation = binary.LittleEndian.Uint32(payload[6:10])
	x = math.Float64frombits(binary.LittleEndian.Uint64(payload[10:18]))
	y = math.Float64frombits(binary.LittleEndian.Uint64(payload[18:26]))
	return id, mode, op, generation, x, y, true
}

// CompileErrPayload encodes a MsgCompileErr response.
//
// Layout (little-endian):
//   - u32: function id
//   - u16: error position (byte offset into the source text)
//   - bytes: message (UTF-8)
func CompileErrPayload(id uint32, pos uint16, msg string) []byte {
	buf := make([]byte, 6+len(msg))
	binary.LittleEndian.PutUint32(buf[0:4], id)
	binary.LittleEndian.PutUint16(buf[4:6], pos)
	copy(buf[6:], msg)
	return buf
}

// DecodeCompileErrPayload decodes a CompileErrPayload.
func DecodeCompileErrPayload(payload []byte) (id uint32, pos uint16, msg []byte, ok bool) {
	if len(payload) < 6 {
		return 0, 0, nil, false
	}
	id = binary.LittleEndian.Uint32(payload[0:4])
	pos = binary.LittleEndian.Uint16(payload[4:6])
	return id, pos, payload[6:], true
}

// FrameRatePayload encodes a MsgFrameRate report.
//
// Layout (little-endian):
//   - f32: frames per second
func FrameRatePayload(fps float32) []byte {
	buf := make([]byte, 4)
	binary.LittleEndian.PutUint32(buf, math.Float32bits(fps))
	return buf
}

// DecodeFrameRatePayload decodes a FrameRatePayload.
func DecodeFrameRatePayload(payload []byte) (fps float32, ok bool) {
	if len(payload) < 4 {
		return 0, false
	}
	return math.Float32frombits(binary.LittleEndian.Uint32(payload[0:4])), true
}
