package geometry

// SignedArea returns twice the signed area of the polygon (shoelace formula).
// In image coordinates (Y down) a positive value means the vertices run
// clockwise on screen.
func SignedArea(polygon []Point2D) float64 {
	n := len(polygon)
	if n < 3 {
		return 0
	}
	var area float64
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		area += polygon[i].X*polygon[j].Y - polygon[j].X*polygon[i].Y
	}
	return area
}

// Clockwise returns the polygon with its vertices ordered clockwise on
// screen. The input is not modified; an already clockwise polygon is
// returned as a copy.
func Clockwise(polygon []Point2D) []Point2D {
	out := make([]Point2D, len(polygon))
	copy(out, polygon)
	if SignedArea(out) < 0 {
		for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
			out[i], out[j] = out[j], out[i]
		}
	}
	return out
}

// IsConvex reports whether every turn along the polygon bends the same
// way. Collinear runs are ignored. The polygon is assumed to be simple.
func IsConvex(polygon []Point2D) bool {
	n := len(polygon)
	if n < 3 {
		return false
	}
	var left, right bool
	for i := range polygon {
		t := turn(polygon[i], polygon[(i+1)%n], polygon[(i+2)%n])
		left = left || t < 0
		right = right || t > 0
	}
	return !(left && right)
}

// turn is the z component of (b-a) x (c-b). Its sign tells which way the
// path a, b, c bends.
func turn(a, b, c Point2D) float64 {
	return (b.X-a.X)*(c.Y-b.Y) - (b.Y-a.Y)*(c.X-b.X)
}
