package expr

import (
	"math"
	"testing"
)

func compileRoot(t *testing.T, src string) Func {
	t.Helper()
	f, err := Compile(src)
	if err != nil {
		t.Fatalf("Compile(%q): %v", src, err)
	}
	return f
}

func TestCompileEvalBasics(t *testing.T) {
	cases := []struct {
		src  string
		x    float64
		want float64
	}{
		{"3+4", 0, 7},
		{"3+4", 123.5, 7},
		{"2*3+4", 0, 10},
		{"2+3*4", 0, 14},
		{"(2+3)*4", 0, 20},
		{"x^2", 3, 9},
		{"x^2", -3, 9},
		{"2x", 4, 8},
		{"3(x+1)", 2, 9},
		{"2^3^2", 0, 512}, // right-associative
		{"-x^2", 2, -4},   // negation of the power
		{"10-4-3", 0, 3},  // left-associative
		{"sin(0)", 0, 0},
		{"cos 0", 0, 1},
		{"sqrt(x)", 16, 4},
		{"abs(-5)", 0, 5},
		{"2pi", 0, 2 * math.Pi},
		{"ln(e)", 0, 1},
		{"1/2x", 4, 2},                                // (1/2)*x
		{"sin(2)^2", 0, math.Sin(2) * math.Sin(2)},    // power of the call result
		{"sqrt(x)^2", 9, 9},                           // not sqrt(x^2)
		{"cos(x)^2+sin(x)^2", 0.7, 1},
	}
	for _, tc := range cases {
		f := compileRoot(t, tc.src)
		got := Eval(f.Root, tc.x)
		if math.Abs(got-tc.want) > 1e-9 {
			t.Errorf("Eval(%q, %v) = %v, want %v", tc.src, tc.x, got, tc.want)
		}
	}
}

func TestEvalDeterministic(t *testing.T) {
	f := compileRoot(t, "sin(x)^2 + cos(x)^2")
	for _, x := range []float64{-3, -0.5, 0, 1.25, 7} {
		a := Eval(f.Root, x)
		b := Eval(f.Root, x)
		if a != b {
			t.Fatalf("Eval not reproducible at x=%v: %v vs %v", x, a, b)
		}
		if math.Abs(a-1) > 1e-12 {
			t.Errorf("sin^2+cos^2 at %v = %v, want 1", x, a)
		}
	}
}

func TestCompileModes(t *testing.T) {
	if f := compileRoot(t, "x^2"); f.Mode != ModeNormal {
		t.Errorf("x^2 mode = %s, want normal", f.Mode)
	}
	if f := compileRoot(t, "t"); f.Mode != ModePolar {
		t.Errorf("t mode = %s, want polar", f.Mode)
	}
	if f := compileRoot(t, "2theta + 1"); f.Mode != ModePolar {
		t.Errorf("theta mode = %s, want polar", f.Mode)
	}
	if f := compileRoot(t, "3+4"); f.Mode != ModeNormal {
		t.Errorf("constant expression mode = %s, want normal", f.Mode)
	}
	if _, err := Compile("x + t"); err == nil {
		t.Error("expected error for mixed x and t")
	}
}

func TestCompileErrors(t *testing.T) {
	bad := []string{
		"",
		"3+",
		"(x+1",
		"x++2",
		"foo(x)",
		"x + $",
		"*3",
	}
	for _, src := range bad {
		if _, err := Compile(src); err == nil {
			t.Errorf("Compile(%q): expected error", src)
		} else if _, ok := err.(*CompileError); !ok {
			t.Errorf("Compile(%q): error type %T, want *CompileError", src, err)
		}
	}
}

func TestEvalDomainFailuresAreNaN(t *testing.T) {
	cases := []struct {
		src string
		x   float64
	}{
		{"1/x", 0},
		{"ln(x)", -1},
		{"sqrt(x)", -4},
		{"asin(x)", 2},
	}
	for _, tc := range cases {
		f := compileRoot(t, tc.src)
		if got := Eval(f.Root, tc.x); !math.IsNaN(got) {
			t.Errorf("Eval(%q, %v) = %v, want NaN", tc.src, tc.x, got)
		}
	}
}

func TestCodecRoundTrip(t *testing.T) {
	sources := []string{
		"3+4",
		"x^2 - 2x + 1",
		"sin(2theta)",
		"-sqrt(abs(x))/3",
		"exp(-x^2/2)",
	}
	for _, src := range sources {
		f := compileRoot(t, src)
		enc := AppendNode(nil, f.Root)
		dec, rest, ok := DecodeNode(enc)
		if !ok {
			t.Fatalf("DecodeNode(%q) failed", src)
		}
		if len(rest) != 0 {
			t.Fatalf("DecodeNode(%q): %d trailing bytes", src, len(rest))
		}
		for _, x := range []float64{-2.5, 0, 0.75, 3} {
			a, b := Eval(f.Root, x), Eval(dec, x)
			if a != b && !(math.IsNaN(a) && math.IsNaN(b)) {
				t.Errorf("decoded tree for %q differs at x=%v: %v vs %v", src, x, a, b)
			}
		}
	}
}

func TestDecodeNodeTruncated(t *testing.T) {
	f := compileRoot(t, "x^2+1")
	enc := AppendNode(nil, f.Root)
	// Every proper prefix cuts into the last child of the root sum, so
	// decoding must fail rather than return a partial tree.
	for n := 0; n < len(enc); n++ {
		if _, _, ok := DecodeNode(enc[:n]); ok {
			t.Errorf("DecodeNode succeeded on %d-byte prefix", n)
		}
	}
}
