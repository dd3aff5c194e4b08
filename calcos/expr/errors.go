package expr

import "fmt"

// CompileError reports a malformed expression: unknown token, unknown
// identifier, or unbalanced grouping. Pos is a 0-based byte offset into the
// source text.
type CompileError struct {
	Pos int
	Msg string
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("compile error at %d: %s", e.Pos, e.Msg)
}

func compileErrf(pos int, format string, args ...any) *CompileError {
	return &CompileError{Pos: pos, Msg: fmt.Sprintf(format, args...)}
}
