package stamp

import (
	"math"

	"fcn-groundtruth/internal/annotation"
	"fcn-groundtruth/internal/config"
	"fcn-groundtruth/internal/raster"

	"gonum.org/v1/gonum/floats"
)

// Energy stamps an objectness energy marker: 0 at the outline rising to
// MaxEnergy-1 inside. Softmax targets quantize it to MaxEnergy one-hot bins.
type Energy struct{}

// Channels is 1 for regression and MaxEnergy bins for softmax.
func (Energy) Channels(cfg config.StampConfig, _ int) int {
	if cfg.Loss == config.LossSoftmax {
		return cfg.MaxEnergy
	}
	return 1
}

// Encoding is one-hot for softmax, otherwise dense filled with EnergyBackground.
func (Energy) Encoding(cfg config.StampConfig) Encoding {
	if cfg.Loss == config.LossSoftmax {
		return Encoding{OneHot: true}
	}
	return Encoding{Fill: EnergyBackground}
}

// Stamp implements Stamper.
func (Energy) Stamp(a annotation.Annotation, cfg config.StampConfig, _ int) (Result, error) {
	w, h, rect, ok := place(a, cfg)
	if !ok {
		return dropped, nil
	}
	f, ok, err := kernel(a, cfg, w, h)
	if err != nil || !ok {
		return dropped, err
	}

	d := f.RawMatrix().Data
	reshape(d, cfg.EnergyShape, float64(cfg.MaxEnergy-1))

	if cfg.Loss != config.LossSoftmax {
		return Result{Patch: raster.FromDense(f), Rect: rect}, nil
	}
	patch := raster.NewMap(h, w, cfg.MaxEnergy)
	for i, v := range d {
		bin := int(math.RoundToEven(v))
		bin = max(0, min(bin, cfg.MaxEnergy-1))
		patch.Pix[i*cfg.MaxEnergy+bin] = 1
	}
	return Result{Patch: patch, Rect: rect}, nil
}

// reshape applies the energy profile in place, keeping the peak at top.
func reshape(d []float64, shape config.EnergyShape, top float64) {
	switch shape {
	case config.EnergyRoot:
		for i, v := range d {
			d[i] = math.Sqrt(v)
		}
		if mx := floats.Max(d); mx > 0 {
			floats.Scale(top/mx, d)
		}
	case config.EnergyQuadratic:
		for i, v := range d {
			d[i] = v * v
		}
		floats.Scale(top/(floats.Max(d)+1e-6), d)
	}
}
