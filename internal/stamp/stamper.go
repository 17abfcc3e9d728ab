// Package stamp turns a single annotation into a local marker patch and the
// canvas rectangle it should be written to.
package stamp

import (
	"errors"
	"fmt"
	"math"

	"fcn-groundtruth/internal/annotation"
	"fcn-groundtruth/internal/config"
	"fcn-groundtruth/internal/field"
	"fcn-groundtruth/internal/raster"

	"gonum.org/v1/gonum/mat"
)

// MinMarker is the smallest marker side, in pixels, that is stamped.
const MinMarker = 2

// EnergyBackground fills regression energy canvases outside every object.
const EnergyBackground = -10.0

// Encoding describes the canvas a stamper writes into.
type Encoding struct {
	// OneHot canvases start as class 0 in every pixel.
	OneHot bool
	// Fill is the initial value of dense canvases.
	Fill float64
}

// Result is the outcome of stamping one annotation. A dropped result carries
// no patch and must not be written.
type Result struct {
	Patch   *raster.Map
	Rect    raster.Rect
	Dropped bool
}

// Stamper renders one kind of target.
type Stamper interface {
	// Channels returns the channel count of the canvas.
	Channels(cfg config.StampConfig, nrClasses int) int
	// Encoding returns how the canvas is initialised.
	Encoding(cfg config.StampConfig) Encoding
	// Stamp renders a.
	Stamp(a annotation.Annotation, cfg config.StampConfig, nrClasses int) (Result, error)
}

var registry = map[config.StampKind]Stamper{
	config.StampEnergy:    Energy{},
	config.StampClass:     Class{},
	config.StampBBox:      BBox{},
	config.StampDirection: Direction{},
}

// For returns the stamper registered for kind.
func For(kind config.StampKind) (Stamper, error) {
	s, ok := registry[kind]
	if !ok {
		return nil, fmt.Errorf("%w: stamp function %v", config.ErrUnsupported, kind)
	}
	return s, nil
}

var dropped = Result{Dropped: true}

// place computes the marker size and its rectangle, centred on the
// annotation's bounding extent. ok is false when either the annotation or
// the marker is too small.
func place(a annotation.Annotation, cfg config.StampConfig) (w, h int, r raster.Rect, ok bool) {
	if a.Degenerate(MinMarker) {
		return 0, 0, raster.Rect{}, false
	}
	b := a.Bounds()
	if cfg.MarkerDim != nil {
		w, h = int(cfg.MarkerDim.Width), int(cfg.MarkerDim.Height)
	} else {
		w, h = int(cfg.SizePercentage*b.Width), int(cfg.SizePercentage*b.Height)
	}
	if w < MinMarker || h < MinMarker {
		return 0, 0, raster.Rect{}, false
	}
	offX := math.RoundToEven((b.Width - float64(w)) * 0.5)
	offY := math.RoundToEven((b.Height - float64(h)) * 0.5)
	x := int(math.RoundToEven(b.X + offX))
	y := int(math.RoundToEven(b.Y + offY))
	return w, h, raster.Rect{X1: x, Y1: y, X2: x + w, Y2: y + h}, true
}

// kernel computes the distance field of a on a w x h grid. Degenerate
// outlines report ok == false; every other failure is returned.
func kernel(a annotation.Annotation, cfg config.StampConfig, w, h int) (f *mat.Dense, ok bool, err error) {
	f, err = field.Compute(a.Vertices, field.Params{
		Width:          w,
		Height:         h,
		Shape:          cfg.Shape,
		SizePercentage: cfg.SizePercentage,
		MaxEnergy:      cfg.MaxEnergy,
	})
	if errors.Is(err, field.ErrDegenerate) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("distance field for %v: %w", a, err)
	}
	return f, true, nil
}

// interior marks the cells of f above half the energy range.
func interior(f *mat.Dense, maxEnergy int) []bool {
	d := f.RawMatrix().Data
	mask := make([]bool, len(d))
	half := float64(maxEnergy) / 2
	for i, v := range d {
		mask[i] = v > half
	}
	return mask
}
