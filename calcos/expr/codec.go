package expr

import (
	"encoding/binary"
	"math"
)

// Binary tree codec.
//
// Trees cross context boundaries as self-contained value copies inside
// fixed-size IPC payloads, never as references into another context's
// memory. The encoding is preorder, little-endian:
//
//   - NodeConst:  u8 kind, f64 value
//   - NodeVar:    u8 kind
//   - NodeUnary:  u8 kind, u8 op, child
//   - NodeBinary: u8 kind, u8 op, left, right

// AppendNode appends the encoding of n to dst and returns the result.
func AppendNode(dst []byte, n *Node) []byte {
	if n == nil {
		return dst
	}
	dst = append(dst, byte(n.Kind))
	switch n.Kind {
	case NodeConst:
		var buf [8]byte
		binary.LittleEndian.PutUint64(buf[:], math.Float64bits(n.Value))
		dst = append(dst, buf[:]...)
	case NodeVar:
		// kind byte only
	case NodeUnary:
		dst = append(dst, byte(n.Unary))
		dst = AppendNode(dst, n.X)
	case NodeBinary:
		dst = append(dst, byte(n.Binary))
		dst = AppendNode(dst, n.X)
		dst = AppendNode(dst, n.Y)
	}
	return dst
}

// DecodeNode decodes one tree from the front of b, returning the tree and
// the remaining bytes.
func DecodeNode(b []byte) (*Node, []byte, bool) {
	if len(b) < 1 {
		return nil, nil, false
	}
	kind := NodeKind(b[0])
	b = b[1:]
	switch kind {
	case NodeConst:
		if len(b) < 8 {
			return nil, nil, false
		}
		v := math.Float64frombits(binary.LittleEndian.Uint64(b[:8]))
		return &Node{Kind: NodeConst, Value: v}, b[8:], true
	case NodeVar:
		return &Node{Kind: NodeVar}, b, true
	case NodeUnary:
		if len(b) < 1 {
			return nil, nil, false
		}
		op := UnaryOp(b[0])
		child, rest, ok := DecodeNode(b[1:])
		if !ok {
			return nil, nil, false
		}
		return &Node{Kind: NodeUnary, Unary: op, X: child}, rest, true
	case NodeBinary:
		if len(b) < 1 {
			return nil, nil, false
		}
		op := BinaryOp(b[0])
		left, rest, ok := DecodeNode(b[1:])
		if !ok {
			return nil, nil, false
		}
		right, rest, ok := DecodeNode(rest)
		if !ok {
			return nil, nil, false
		}
		return &Node{Kind: NodeBinary, Binary: op, X: left, Y: right}, rest, true
	default:
		return nil, nil, false
	}
}
