// Package expr compiles textual math expressions into immutable token trees
// and evaluates them.
//
// The compiler and evaluator are pure: no package state, no side effects.
// Trees are built once and never mutated; editing an expression produces a
// new tree. A compact binary codec (codec.go) turns trees into value copies
// suitable for fixed-size IPC payloads.
package expr

// Mode selects how a compiled function is interpreted.
type Mode uint8

const (
	// ModeNormal is a Cartesian function y = f(x).
	ModeNormal Mode = iota
	// ModePolar is a polar function r = f(theta), plotted via
	// x = r*cos(theta), y = r*sin(theta).
	ModePolar
)

func (m Mode) String() string {
	switch m {
	case ModeNormal:
		return "normal"
	case ModePolar:
		return "polar"
	default:
		return "unknown"
	}
}

// NodeKind identifies the variant of a tree node.
type NodeKind uint8

const (
	NodeConst NodeKind = iota + 1
	NodeVar
	NodeUnary
	NodeBinary
)

// UnaryOp is a unary operator or named function.
type UnaryOp uint8

const (
	OpNeg UnaryOp = iota + 1
	OpSin
	OpCos
	OpTan
	OpAsin
	OpAcos
	OpAtan
	OpSqrt
	OpAbs
	OpLn
	OpLog
	OpExp
	OpFloor
	OpCeil
)

// BinaryOp is a binary arithmetic operator.
type BinaryOp uint8

const (
	OpAdd BinaryOp = iota + 1
	OpSub
	OpMul
	OpDiv
	OpPow
)

// Node is one immutable node of a compiled expression tree.
//
// Exactly the fields implied by Kind are meaningful: Value for NodeConst,
// Unary+X for NodeUnary, Binary+X+Y for NodeBinary. NodeVar stands for the
// independent variable regardless of mode.
type Node struct {
	Kind   NodeKind
	Value  float64
	Unary  UnaryOp
	Binary BinaryOp
	X      *Node
	Y      *Node
}

// Func is a compiled function: a mode-tagged tree root.
type Func struct {
	Mode Mode
	Root *Node
}
