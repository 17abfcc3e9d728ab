package field

import (
	"errors"
	"math"
	"testing"

	"fcn-groundtruth/internal/config"
	"fcn-groundtruth/pkg/geometry"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

const testMaxEnergy = 20

func box(x1, y1, x2, y2 float64) []geometry.Point2D {
	return []geometry.Point2D{{X: x1, Y: y1}, {X: x2, Y: y1}, {X: x2, Y: y2}, {X: x1, Y: y2}}
}

func params(w, h int, shape config.Shape) Params {
	return Params{Width: w, Height: h, Shape: shape, SizePercentage: 1, MaxEnergy: testMaxEnergy}
}

func checkRange(t *testing.T, f *mat.Dense) {
	t.Helper()
	d := f.RawMatrix().Data
	if mn := floats.Min(d); mn < 0 {
		t.Errorf("min value %f < 0", mn)
	}
	if mx := floats.Max(d); mx > testMaxEnergy-1+1e-9 {
		t.Errorf("max value %f > %d", mx, testMaxEnergy-1)
	}
}

func TestHullBox(t *testing.T) {
	f, err := Compute(box(3, 3, 13, 13), params(10, 10, config.ShapeHull))
	if err != nil {
		t.Fatal(err)
	}
	if r, c := f.Dims(); r != 10 || c != 10 {
		t.Fatalf("dims = %dx%d, want 10x10", r, c)
	}
	checkRange(t, f)
	if mx := floats.Max(f.RawMatrix().Data); math.Abs(mx-(testMaxEnergy-1)) > 1e-9 {
		t.Errorf("peak = %f, want %d", mx, testMaxEnergy-1)
	}
	for x := 0; x < 10; x++ {
		if f.At(0, x) != 0 {
			t.Errorf("cell on top edge (%d,0) = %f, want 0", x, f.At(0, x))
		}
	}
	if f.At(5, 5) <= f.At(1, 1) {
		t.Errorf("center %f not above near-edge %f", f.At(5, 5), f.At(1, 1))
	}
}

func TestHullTriangleStaysInside(t *testing.T) {
	tri := []geometry.Point2D{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 0, Y: 10}}
	f, err := Compute(tri, params(10, 10, config.ShapeHull))
	if err != nil {
		t.Fatal(err)
	}
	checkRange(t, f)
	for y := 0; y < 10; y++ {
		for x := 0; x < 10; x++ {
			v := f.At(y, x)
			if v > 0 && x+y > 10 {
				t.Errorf("cell (%d,%d) has energy %f but is outside", x, y, v)
			}
			if x > 0 && y > 0 && x+y < 10 && v <= 0 {
				t.Errorf("interior cell (%d,%d) has no energy", x, y)
			}
		}
	}
}

func TestOvalPeaksInside(t *testing.T) {
	f, err := Compute(box(0, 0, 12, 8), params(12, 8, config.ShapeOval))
	if err != nil {
		t.Fatal(err)
	}
	checkRange(t, f)
	if mx := floats.Max(f.RawMatrix().Data); math.Abs(mx-(testMaxEnergy-1)) > 1e-9 {
		t.Errorf("peak = %f, want %d", mx, testMaxEnergy-1)
	}
	if f.At(0, 0) != 0 || f.At(0, 11) != 0 {
		t.Errorf("corner cells should be zero")
	}
	if f.At(4, 6) <= f.At(1, 1) {
		t.Errorf("center %f not above near-corner %f", f.At(4, 6), f.At(1, 1))
	}
}

func TestSquareIsPositive(t *testing.T) {
	f, err := Compute(box(10, 10, 14, 14), params(5, 5, config.ShapeSquare))
	if err != nil {
		t.Fatal(err)
	}
	d := f.RawMatrix().Data
	if floats.Min(d) <= 0 {
		t.Errorf("square marker has non-positive cell: min %f", floats.Min(d))
	}
	if math.Abs(f.At(2, 2)-(testMaxEnergy-1)) > 1e-9 {
		t.Errorf("center = %f, want %d", f.At(2, 2), testMaxEnergy-1)
	}
	if f.At(0, 0) >= f.At(1, 1) {
		t.Errorf("square marker does not rise towards the center")
	}
}

func TestFixedSizeRefit(t *testing.T) {
	f, err := Compute(box(10, 10, 14, 14), params(7, 5, config.ShapeHull))
	if err != nil {
		t.Fatal(err)
	}
	if r, c := f.Dims(); r != 5 || c != 7 {
		t.Errorf("dims = %dx%d, want 5x7", r, c)
	}
	if f.At(2, 3) == 0 {
		t.Errorf("center of refit field is zero")
	}
}

func TestSizePercentage(t *testing.T) {
	p := params(5, 5, config.ShapeHull)
	p.SizePercentage = 0.5
	f, err := Compute(box(0, 0, 10, 10), p)
	if err != nil {
		t.Fatal(err)
	}
	if r, c := f.Dims(); r != 5 || c != 5 {
		t.Errorf("dims = %dx%d, want 5x5", r, c)
	}
}

func TestDegenerate(t *testing.T) {
	tests := []struct {
		name  string
		verts []geometry.Point2D
		p     Params
	}{
		{"1x1 extent", box(5, 5, 6, 6), params(4, 4, config.ShapeHull)},
		{"tiny grid", box(0, 0, 10, 10), params(1, 10, config.ShapeOval)},
		{"two vertices", []geometry.Point2D{{X: 0, Y: 0}, {X: 5, Y: 5}}, params(4, 4, config.ShapeHull)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Compute(tt.verts, tt.p); !errors.Is(err, ErrDegenerate) {
				t.Errorf("err = %v, want ErrDegenerate", err)
			}
		})
	}
}

func TestDegenerateEdge(t *testing.T) {
	verts := []geometry.Point2D{{X: 0, Y: 0}, {X: 8, Y: 0}, {X: 8, Y: 0}, {X: 8, Y: 8}, {X: 0, Y: 8}}
	if _, err := Compute(verts, params(8, 8, config.ShapeHull)); !errors.Is(err, ErrDegenerateEdge) {
		t.Errorf("err = %v, want ErrDegenerateEdge", err)
	}
}

func TestUnknownShape(t *testing.T) {
	if _, err := Compute(box(0, 0, 8, 8), params(8, 8, config.Shape(9))); !errors.Is(err, config.ErrUnsupported) {
		t.Errorf("err = %v, want ErrUnsupported", err)
	}
}
