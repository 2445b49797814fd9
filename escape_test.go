package mandelbrot2d

import "testing"

func TestIterationsKnownPoints(t *testing.T) {
	const maxIter = 100
	testCases := []struct {
		cx, cy float64
		n      int
	}{
		{0, 0, maxIter},     // origin is in the set
		{-1, 0, maxIter},    // period-2 cycle
		{-2, 0, maxIter},    // orbit sits on |z| = 2 forever
		{0.25, 0, maxIter},  // cusp of the cardioid
		{3, 0, 1},           // |z_1|² = 9
		{2, 0, 2},           // |z_1|² = 4 is not an escape
		{-2.5, -1, 1},       // corner of the classic view
		{0, 2, 2},           // z_1 = 2i, z_2 = -4+2i
	}
	for _, tc := range testCases {
		if n := Iterations(tc.cx, tc.cy, maxIter); n != tc.n {
			t.Errorf("Iterations(%g, %g) = %d, want %d", tc.cx, tc.cy, n, tc.n)
		}
	}
}

func TestIterationsBounded(t *testing.T) {
	for _, maxIter := range []int{1, 2, 10, 500} {
		for cx := -2.5; cx <= 1; cx += 0.25 {
			for cy := -1.0; cy <= 1; cy += 0.25 {
				n := Iterations(cx, cy, maxIter)
				if n < 0 || n > maxIter {
					t.Fatalf("Iterations(%g, %g, %d) = %d out of range", cx, cy, maxIter, n)
				}
			}
		}
	}
	if n := Iterations(0, 0, 0); n != 0 {
		t.Errorf("zero budget: got %d", n)
	}
}

func TestIterationsConjugateSymmetry(t *testing.T) {
	const maxIter = 300
	g := Geometry{Width: 60, Height: 40}
	for py := 0; py < g.Height; py++ {
		for px := 0; px < g.Width; px++ {
			cx, cy := Classic.Map(px, py, g)
			a := Iterations(cx, cy, maxIter)
			b := Iterations(cx, -cy, maxIter)
			if a != b {
				t.Fatalf("(%g, %g): %d != %d for the conjugate", cx, cy, a, b)
			}
		}
	}
	if Iterations(-0.75, 0, maxIter) != Iterations(-0.75, -0.0, maxIter) {
		t.Errorf("signed zero changes the result")
	}
}
