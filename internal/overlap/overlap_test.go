package overlap

import (
	"errors"
	"testing"

	"fcn-groundtruth/internal/config"
	"fcn-groundtruth/internal/raster"
)

func filled(h, w int, v float64) *raster.Map {
	return raster.NewFilled(h, w, 1, v)
}

func mustNew(t *testing.T, p config.OverlapPolicy) *Resolver {
	t.Helper()
	r, err := New(p)
	if err != nil {
		t.Fatal(err)
	}
	return r
}

func TestUnknownPolicy(t *testing.T) {
	if _, err := New(config.OverlapPolicy(42)); !errors.Is(err, config.ErrUnsupported) {
		t.Errorf("err = %v, want ErrUnsupported", err)
	}
}

func TestOverwriteKeepsBackgroundTransparent(t *testing.T) {
	canvas := filled(4, 4, -10)
	patch := raster.NewMap(2, 2, 1)
	patch.Pix = []float64{0, 5, 3, 0}
	r := mustNew(t, config.OverlapOverwrite)
	if err := r.Merge(canvas, patch, raster.Rect{X1: 1, Y1: 1, X2: 3, Y2: 3}, false); err != nil {
		t.Fatal(err)
	}
	want := map[[2]int]float64{{1, 1}: -10, {2, 1}: 5, {1, 2}: 3, {2, 2}: -10}
	for p, v := range want {
		if got := canvas.At(p[0], p[1], 0); got != v {
			t.Errorf("pixel %v = %v, want %v", p, got, v)
		}
	}
}

func TestOverwriteIdempotent(t *testing.T) {
	patch := raster.NewMap(3, 3, 1)
	for i := range patch.Pix {
		patch.Pix[i] = float64(i % 4)
	}
	rect := raster.Rect{X1: 2, Y1: 2, X2: 5, Y2: 5}

	once := filled(8, 8, -10)
	if err := mustNew(t, config.OverlapOverwrite).Merge(once, patch, rect, false); err != nil {
		t.Fatal(err)
	}
	twice := filled(8, 8, -10)
	r := mustNew(t, config.OverlapOverwrite)
	for i := 0; i < 2; i++ {
		if err := r.Merge(twice, patch, rect, false); err != nil {
			t.Fatal(err)
		}
	}
	if !once.Equal(twice) {
		t.Errorf("stamping twice differs from stamping once")
	}
}

func TestMaxDense(t *testing.T) {
	canvas := filled(1, 4, -10)
	r := mustNew(t, config.OverlapMax)
	a := raster.NewMap(1, 3, 1)
	a.Pix = []float64{1, 4, 2}
	b := raster.NewMap(1, 3, 1)
	b.Pix = []float64{3, 1, 5}
	if err := r.Merge(canvas, a, raster.Rect{X1: 0, Y1: 0, X2: 3, Y2: 1}, false); err != nil {
		t.Fatal(err)
	}
	if err := r.Merge(canvas, b, raster.Rect{X1: 1, Y1: 0, X2: 4, Y2: 1}, false); err != nil {
		t.Fatal(err)
	}
	want := []float64{1, 4, 2, 5}
	for i, v := range want {
		if canvas.Pix[i] != v {
			t.Errorf("pixel %d = %v, want %v", i, canvas.Pix[i], v)
		}
	}
}

func TestMaxOneHotPrefersHigherClass(t *testing.T) {
	canvas := raster.NewOneHot(1, 2, 4, 0)
	r := mustNew(t, config.OverlapMax)
	rect := raster.Rect{X1: 0, Y1: 0, X2: 2, Y2: 1}
	if err := r.Merge(canvas, raster.NewOneHot(1, 2, 4, 2), rect, true); err != nil {
		t.Fatal(err)
	}
	low := raster.NewOneHot(1, 2, 4, 1)
	low.Pixel(1, 0)[1] = 0
	low.Pixel(1, 0)[3] = 1
	if err := r.Merge(canvas, low, rect, true); err != nil {
		t.Fatal(err)
	}
	if got := canvas.Argmax(0, 0); got != 2 {
		t.Errorf("pixel 0 class = %d, want 2", got)
	}
	if got := canvas.Argmax(1, 0); got != 3 {
		t.Errorf("pixel 1 class = %d, want 3", got)
	}
	for x := 0; x < 2; x++ {
		var sum float64
		for _, v := range canvas.Pixel(x, 0) {
			sum += v
		}
		if sum != 1 {
			t.Errorf("pixel %d one-hot sum = %v", x, sum)
		}
	}
}

func TestNearestTieKeepsEarlier(t *testing.T) {
	canvas := filled(6, 10, -10)
	r := mustNew(t, config.OverlapNearest)
	a := raster.Rect{X1: 0, Y1: 0, X2: 6, Y2: 6}
	b := raster.Rect{X1: 4, Y1: 0, X2: 10, Y2: 6}
	if err := r.Merge(canvas, filled(6, 6, 1), a, false); err != nil {
		t.Fatal(err)
	}
	if err := r.Merge(canvas, filled(6, 6, 2), b, false); err != nil {
		t.Fatal(err)
	}
	// Centers are x=3 and x=7: x=4 is closer to a, x=5 is a tie.
	tests := []struct {
		x    int
		want float64
	}{
		{3, 1}, {4, 1}, {5, 1}, {6, 2}, {9, 2},
	}
	for _, tt := range tests {
		if got := canvas.At(tt.x, 2, 0); got != tt.want {
			t.Errorf("x=%d: got %v, want %v", tt.x, got, tt.want)
		}
	}
	if len(r.Used()) != 2 {
		t.Errorf("used regions = %d, want 2", len(r.Used()))
	}
}

func TestNearestDeterministic(t *testing.T) {
	build := func() *raster.Map {
		canvas := filled(12, 12, -10)
		r := mustNew(t, config.OverlapNearest)
		rects := []raster.Rect{{X1: 0, Y1: 0, X2: 7, Y2: 7}, {X1: 3, Y1: 2, X2: 10, Y2: 9}, {X1: 5, Y1: 5, X2: 12, Y2: 12}}
		for i, rect := range rects {
			if err := r.Merge(canvas, filled(7, 7, float64(i+1)), rect, false); err != nil {
				t.Fatal(err)
			}
		}
		return canvas
	}
	if !build().Equal(build()) {
		t.Errorf("nearest policy is not deterministic")
	}
}

func TestMergeRejectsMisfit(t *testing.T) {
	r := mustNew(t, config.OverlapMax)
	if err := r.Merge(filled(4, 4, 0), filled(2, 2, 1), raster.Rect{X1: 3, Y1: 3, X2: 5, Y2: 5}, false); err == nil {
		t.Errorf("expected error for rect outside canvas")
	}
	if err := r.Merge(filled(4, 4, 0), raster.NewMap(2, 2, 3), raster.Rect{X1: 0, Y1: 0, X2: 2, Y2: 2}, false); err == nil {
		t.Errorf("expected error for channel mismatch")
	}
}
