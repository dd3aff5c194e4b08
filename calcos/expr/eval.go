package expr

import "math"

// Eval reduces a tree at the given value of the independent variable.
//
// Domain failures (division by zero, log of a non-positive value, square
// root of a negative value) evaluate to NaN instead of failing; callers
// skip such samples and continue. Eval is a pure function of (root, x) and
// is safe to call concurrently.
func Eval(root *Node, x float64) float64 {
	if root == nil {
		return math.NaN()
	}
	switch root.Kind {
	case NodeConst:
		return root.Value
	case NodeVar:
		return x
	case NodeUnary:
		return evalUnary(root.Unary, Eval(root.X, x))
	case NodeBinary:
		return evalBinary(root.Binary, Eval(root.X, x), Eval(root.Y, x))
	default:
		return math.NaN()
	}
}

func evalUnary(op UnaryOp, v float64) float64 {
	switch op {
	case OpNeg:
		return -v
	case OpSin:
		return math.Sin(v)
	case OpCos:
		return math.Cos(v)
	case OpTan:
		return math.Tan(v)
	case OpAsin:
		return math.Asin(v)
	case OpAcos:
		return math.Acos(v)
	case OpAtan:
		return math.Atan(v)
	case OpSqrt:
		return math.Sqrt(v)
	case OpAbs:
		return math.Abs(v)
	case OpLn:
		return math.Log(v)
	case OpLog:
		return math.Log10(v)
	case OpExp:
		return math.Exp(v)
	case OpFloor:
		return math.Floor(v)
	case OpCeil:
		return math.Ceil(v)
	default:
		return math.NaN()
	}
}

func evalBinary(op BinaryOp, a, b float64) float64 {
	switch op {
	case OpAdd:
		return a + b
	case OpSub:
		return a - b
	case OpMul:
		return a * b
	case OpDiv:
		if b == 0 {
			return math.NaN()
		}
		return a / b
	case OpPow:
		return math.Pow(a, b)
	default:
		return math.NaN()
	}
}
