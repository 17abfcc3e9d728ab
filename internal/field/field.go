// Package field computes the normalized distance fields that energy, class
// and box markers are cut from.
//
// A field is a Height x Width grid (rows are y) whose cells are 0 on and
// outside the outline and grow towards the interior, topping out at
// MaxEnergy-1.
package field

import (
	"errors"
	"fmt"
	"math"

	"fcn-groundtruth/internal/config"
	"fcn-groundtruth/pkg/geometry"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

var (
	// ErrDegenerate is returned when the outline or the requested grid is
	// less than two pixels wide or high. Callers skip the annotation.
	ErrDegenerate = errors.New("degenerate outline")
	// ErrDegenerateEdge is returned when two consecutive vertices coincide
	// on the pixel lattice, leaving an edge without a direction.
	ErrDegenerateEdge = errors.New("edge without direction")
)

// MinExtent is the smallest outline or grid size, in pixels, that yields a field.
const MinExtent = 2

// projEpsilon snaps projection components to exactly zero so cells on
// axis-aligned supporting lines classify as outside.
const projEpsilon = 1e-9

// Params describes the requested field.
type Params struct {
	Width, Height  int
	Shape          config.Shape
	SizePercentage float64
	MaxEnergy      int
}

// insideSign maps the sign pattern of an edge direction to the sign pattern
// the perpendicular offset of an interior cell must have, indexed by
// [sign(ux)+1][sign(uy)+1]. With clockwise vertices (Y down) the interior
// lies on the right of travel. The centre entry is never read: an edge
// without direction is rejected first.
var insideSign = [3][3][2]int{
	{{1, -1}, {0, -1}, {-1, -1}}, // up-left, left, down-left
	{{1, 0}, {0, 0}, {-1, 0}},    // up, -, down
	{{1, 1}, {0, 1}, {-1, 1}},    // up-right, right, down-right
}

// Compute rasterizes the outline given by vertices (clockwise on screen,
// image coordinates) into a Height x Width field.
//
// The outline is moved to the local origin, scaled by SizePercentage and
// truncated to the pixel lattice; when that lattice does not span the
// requested grid (a fixed marker size) each axis is refit to it.
//
// Interior cells are those on the inner side of every edge's supporting
// line, which is exact for convex outlines. The raw value of a cell is its
// distance to the nearest supporting line.
func Compute(vertices []geometry.Point2D, p Params) (*mat.Dense, error) {
	if len(vertices) < 3 {
		return nil, fmt.Errorf("%w: %d vertices", ErrDegenerate, len(vertices))
	}
	if p.Width < MinExtent || p.Height < MinExtent {
		return nil, fmt.Errorf("%w: grid %dx%d", ErrDegenerate, p.Width, p.Height)
	}
	b := geometry.BoundingBox(vertices)
	if b.Width < MinExtent || b.Height < MinExtent {
		return nil, fmt.Errorf("%w: extent %.2fx%.2f", ErrDegenerate, b.Width, b.Height)
	}
	if p.MaxEnergy < 2 {
		return nil, fmt.Errorf("%w: max energy %d", config.ErrInvalid, p.MaxEnergy)
	}

	switch p.Shape {
	case config.ShapeSquare:
		return square(p.Width, p.Height, p.MaxEnergy), nil
	case config.ShapeHull, config.ShapeOval:
	default:
		return nil, fmt.Errorf("%w: shape %v", config.ErrUnsupported, p.Shape)
	}

	local, err := toLattice(vertices, b, p)
	if err != nil {
		return nil, err
	}

	dist, inside, err := distances(local, p.Width, p.Height)
	if err != nil {
		return nil, err
	}

	top := float64(p.MaxEnergy - 1)
	if p.Shape == config.ShapeHull {
		normalize(dist, top)
		return dist, nil
	}
	return oval(dist, inside, top), nil
}

// toLattice moves the outline to the local origin and snaps it to whole
// pixels on a Width x Height grid.
func toLattice(vertices []geometry.Point2D, b geometry.Rect, p Params) ([]geometry.Point2D, error) {
	sp := p.SizePercentage
	if sp <= 0 {
		sp = 1
	}
	local := make([]geometry.Point2D, len(vertices))
	var maxX, maxY float64
	for i, v := range vertices {
		x := math.Floor((v.X-b.X)*sp + projEpsilon)
		y := math.Floor((v.Y-b.Y)*sp + projEpsilon)
		local[i] = geometry.Point2D{X: x, Y: y}
		maxX = math.Max(maxX, x)
		maxY = math.Max(maxY, y)
	}
	if maxX == 0 || maxY == 0 {
		return nil, fmt.Errorf("%w: scaled extent %gx%g", ErrDegenerate, maxX, maxY)
	}
	fx := float64(p.Width) / maxX
	fy := float64(p.Height) / maxY
	if fx != 1 || fy != 1 {
		for i, v := range local {
			local[i] = geometry.Point2D{
				X: math.Floor(v.X*fx + projEpsilon),
				Y: math.Floor(v.Y*fy + projEpsilon),
			}
		}
	}
	return local, nil
}

// distances returns, per cell, the distance to the closest supporting line
// (zero for outside cells) together with the interior mask.
func distances(poly []geometry.Point2D, w, h int) (*mat.Dense, []bool, error) {
	n := len(poly)
	dist := mat.NewDense(h, w, nil)
	minDist := dist.RawMatrix().Data
	for i := range minDist {
		minDist[i] = math.Inf(1)
	}
	inside := make([]bool, w*h)
	for i := range inside {
		inside[i] = true
	}

	for e := 0; e < n; e++ {
		p0 := poly[e]
		p1 := poly[(e+1)%n]
		ux, uy := p1.X-p0.X, p1.Y-p0.Y
		if sign(ux) == 0 && sign(uy) == 0 {
			return nil, nil, fmt.Errorf("%w: vertex %d at (%g,%g)", ErrDegenerateEdge, e, p0.X, p0.Y)
		}
		want := insideSign[sign(ux)+1][sign(uy)+1]
		uLen := ux*ux + uy*uy

		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				vx := float64(x) - p0.X
				vy := float64(y) - p0.Y
				gamma := (ux*vx + uy*vy) / uLen
				px := snap(vx - gamma*ux)
				py := snap(vy - gamma*uy)

				i := y*w + x
				if sign(px) != want[0] || sign(py) != want[1] {
					inside[i] = false
				}
				if d := math.Hypot(px, py); d < minDist[i] {
					minDist[i] = d
				}
			}
		}
	}

	for i := range minDist {
		if !inside[i] {
			minDist[i] = 0
		}
	}
	return dist, inside, nil
}

// oval weighs the distance field with a radial falloff around the centroid
// of the interior cells.
func oval(dist *mat.Dense, inside []bool, top float64) *mat.Dense {
	h, w := dist.Dims()
	var xs, ys []float64
	for i, in := range inside {
		if in {
			xs = append(xs, float64(i%w))
			ys = append(ys, float64(i/w))
		}
	}
	if len(xs) == 0 {
		return mat.NewDense(h, w, nil)
	}
	cx, cy := stat.Mean(xs, nil), stat.Mean(ys, nil)

	radial := make([]float64, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			radial[y*w+x] = math.Hypot(float64(x)-cx, float64(y)-cy)
		}
	}
	if m := floats.Max(radial); m > 0 {
		floats.Scale(-1/m, radial)
		floats.AddConst(1, radial)
	}

	d := dist.RawMatrix().Data
	normalize(dist, 1)
	floats.Mul(d, radial)
	normalize(dist, top)
	return dist
}

// square is a rectangular pyramid whose every cell is positive.
func square(w, h, maxEnergy int) *mat.Dense {
	f := mat.NewDense(h, w, nil)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			v := min(x+1, w-x, y+1, h-y)
			f.Set(y, x, float64(v))
		}
	}
	normalize(f, float64(maxEnergy-1))
	return f
}

// normalize rescales m in place so its maximum becomes top. All-zero fields
// are left alone.
func normalize(m *mat.Dense, top float64) {
	d := m.RawMatrix().Data
	if mx := floats.Max(d); mx != 0 {
		floats.Scale(top/mx, d)
	}
}

func snap(v float64) float64 {
	if math.Abs(v) < projEpsilon {
		return 0
	}
	return v
}

func sign(v float64) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}
