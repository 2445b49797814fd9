package mandelbrot2d

const escapeR2 = 4.0

// Iterations runs z = z² + c from z = 0 for c = cx + i·cy and returns the
// first n with |z_n|² > 4, or maxIter if the orbit never leaves radius 2.
func Iterations(cx, cy float64, maxIter int) int {
	var x, y, x2, y2 float64
	n := 0
	for x2+y2 <= escapeR2 && n < maxIter {
		y = 2*x*y + cy
		x = x2 - y2 + cx
		x2 = x * x
		y2 = y * y
		n++
	}
	return n
}
