package stamp

import (
	"fcn-groundtruth/internal/annotation"
	"fcn-groundtruth/internal/config"
	"fcn-groundtruth/internal/raster"
)

// BBox stamps box size regression targets. Every interior pixel of the
// class marker carries the full width (channel 0) and height (channel 1) of
// the annotation's bounding extent.
type BBox struct{}

// Channels is 2: width and height.
func (BBox) Channels(config.StampConfig, int) int { return 2 }

// Encoding is dense with a zero background.
func (BBox) Encoding(config.StampConfig) Encoding { return Encoding{} }

// Stamp implements Stamper.
func (BBox) Stamp(a annotation.Annotation, cfg config.StampConfig, _ int) (Result, error) {
	w, h, rect, ok := place(a, cfg)
	if !ok {
		return dropped, nil
	}
	f, ok, err := kernel(a, cfg, w, h)
	if err != nil || !ok {
		return dropped, err
	}

	bw, bh := a.Extent()
	patch := raster.NewMap(h, w, 2)
	for i, in := range interior(f, cfg.MaxEnergy) {
		if in {
			patch.Pix[2*i] = bw
			patch.Pix[2*i+1] = bh
		}
	}
	return Result{Patch: patch, Rect: rect}, nil
}
