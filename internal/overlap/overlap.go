// Package overlap merges clipped marker patches into a canvas according to
// an overlap policy.
package overlap

import (
	"fmt"
	"math"

	"fcn-groundtruth/internal/config"
	"fcn-groundtruth/internal/raster"
)

// Resolver merges patches into one canvas. It remembers the rects it has
// placed, so each canvas build needs its own Resolver.
type Resolver struct {
	policy config.OverlapPolicy
	used   []raster.Rect
}

// New returns a Resolver for policy. Unknown policies wrap
// config.ErrUnsupported.
func New(policy config.OverlapPolicy) (*Resolver, error) {
	switch policy {
	case config.OverlapOverwrite, config.OverlapMax, config.OverlapNearest:
		return &Resolver{policy: policy}, nil
	default:
		return nil, fmt.Errorf("%w: overlap policy %v", config.ErrUnsupported, policy)
	}
}

// Used returns the rects placed so far under the nearest policy.
func (r *Resolver) Used() []raster.Rect {
	return r.used
}

// Merge writes patch into canvas at rect. The patch must already be clipped
// to the canvas. Background pixels of the patch (class 0 for one-hot
// patches, exact zeros otherwise) are transparent and keep the canvas value.
func (r *Resolver) Merge(canvas, patch *raster.Map, rect raster.Rect, oneHot bool) error {
	if patch.C != canvas.C {
		return fmt.Errorf("patch has %d channels, canvas %d", patch.C, canvas.C)
	}
	if patch.W != rect.Dx() || patch.H != rect.Dy() || !rect.In(canvas.H, canvas.W) {
		return fmt.Errorf("patch %dx%d does not fit %v on %dx%d canvas", patch.W, patch.H, rect, canvas.W, canvas.H)
	}

	old := canvas.Crop(rect)
	stamp := transparent(patch, old, oneHot)

	switch r.policy {
	case config.OverlapOverwrite:
	case config.OverlapMax:
		maxMerge(stamp, old, oneHot)
	case config.OverlapNearest:
		blend(stamp, old, r.closerMask(rect))
		r.used = append(r.used, rect)
	default:
		return fmt.Errorf("%w: overlap policy %v", config.ErrUnsupported, r.policy)
	}
	return canvas.Paste(stamp, rect)
}

// transparent returns a copy of patch in which background pixels are
// replaced by the canvas content under them.
func transparent(patch, old *raster.Map, oneHot bool) *raster.Map {
	out := patch.Clone()
	if oneHot {
		for y := 0; y < out.H; y++ {
			for x := 0; x < out.W; x++ {
				if out.At(x, y, 0) == 1 {
					copy(out.Pixel(x, y), old.Pixel(x, y))
				}
			}
		}
		return out
	}
	for i, v := range out.Pix {
		if v == 0 {
			out.Pix[i] = old.Pix[i]
		}
	}
	return out
}

// maxMerge keeps, per channel, the larger of stamp and old. One-hot pixels
// keep whichever vector has the higher class index.
func maxMerge(stamp, old *raster.Map, oneHot bool) {
	if oneHot {
		for y := 0; y < stamp.H; y++ {
			for x := 0; x < stamp.W; x++ {
				if old.Argmax(x, y) >= stamp.Argmax(x, y) {
					copy(stamp.Pixel(x, y), old.Pixel(x, y))
				}
			}
		}
		return
	}
	for i, v := range old.Pix {
		stamp.Pix[i] = math.Max(stamp.Pix[i], v)
	}
}

// closerMask marks the pixels of rect that are strictly closer to its center
// than to the center of every rect placed before. Ties stay with the
// earlier rect.
func (r *Resolver) closerMask(rect raster.Rect) []float64 {
	mask := make([]float64, rect.Dx()*rect.Dy())
	for i := range mask {
		mask[i] = 1
	}
	cx, cy := rect.Center()
	for _, u := range r.used {
		ux, uy := u.Center()
		for y := rect.Y1; y < rect.Y2; y++ {
			for x := rect.X1; x < rect.X2; x++ {
				own := math.Hypot(float64(x-cx), float64(y-cy))
				other := math.Hypot(float64(x-ux), float64(y-uy))
				if !(own < other) {
					mask[(y-rect.Y1)*rect.Dx()+(x-rect.X1)] = 0
				}
			}
		}
	}
	return mask
}

// blend mixes stamp and old per pixel with mask as the weight of stamp.
func blend(stamp, old *raster.Map, mask []float64) {
	c := stamp.C
	for p, m := range mask {
		for k := 0; k < c; k++ {
			i := p*c + k
			stamp.Pix[i] = (1-m)*old.Pix[i] + m*stamp.Pix[i]
		}
	}
}
