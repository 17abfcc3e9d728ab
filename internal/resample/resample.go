// Package resample shrinks finished canvases to the sizes of coarser
// pyramid levels with nearest-neighbor sampling, so no new values are
// invented between labels.
package resample

import (
	"fmt"
	"image"

	"fcn-groundtruth/internal/config"
	"fcn-groundtruth/internal/raster"

	"gocv.io/x/gocv"
)

// MaxClassIDs is the number of classes a one-hot map may have to be resized
// through 8-bit class ids.
const MaxClassIDs = 256

// Nearest resizes a dense map to w x h, one channel at a time.
func Nearest(m *raster.Map, w, h int) (*raster.Map, error) {
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("%w: target size %dx%d", config.ErrInvalid, w, h)
	}
	out := raster.NewMap(h, w, m.C)

	src := gocv.NewMatWithSize(m.H, m.W, gocv.MatTypeCV64F)
	defer src.Close()
	dst := gocv.NewMat()
	defer dst.Close()

	for c := 0; c < m.C; c++ {
		for y := 0; y < m.H; y++ {
			for x := 0; x < m.W; x++ {
				src.SetDoubleAt(y, x, m.At(x, y, c))
			}
		}
		gocv.Resize(src, &dst, image.Pt(w, h), 0, 0, gocv.InterpolationNearestNeighbor)
		if dst.Rows() != h || dst.Cols() != w {
			return nil, fmt.Errorf("resize produced %dx%d, want %dx%d", dst.Cols(), dst.Rows(), w, h)
		}
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				out.Set(x, y, c, dst.GetDoubleAt(y, x))
			}
		}
	}
	return out, nil
}

// NearestClasses resizes a one-hot map to w x h. The map is collapsed to
// its class ids, resized as an 8-bit image with the same sampling as
// Nearest and expanded again, so every output pixel stays one-hot.
func NearestClasses(m *raster.Map, w, h int) (*raster.Map, error) {
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("%w: target size %dx%d", config.ErrInvalid, w, h)
	}
	if m.C > MaxClassIDs {
		return nil, fmt.Errorf("%w: %d classes do not fit 8-bit class ids", config.ErrInvalid, m.C)
	}

	ids := gocv.NewMatWithSize(m.H, m.W, gocv.MatTypeCV8U)
	defer ids.Close()
	for y := 0; y < m.H; y++ {
		for x := 0; x < m.W; x++ {
			ids.SetUCharAt(y, x, uint8(m.Argmax(x, y)))
		}
	}

	small := gocv.NewMat()
	defer small.Close()
	gocv.Resize(ids, &small, image.Pt(w, h), 0, 0, gocv.InterpolationNearestNeighbor)
	if small.Rows() != h || small.Cols() != w {
		return nil, fmt.Errorf("resize produced %dx%d, want %dx%d", small.Cols(), small.Rows(), w, h)
	}

	out := raster.NewMap(h, w, m.C)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			out.Pixel(x, y)[small.GetUCharAt(y, x)] = 1
		}
	}
	return out, nil
}
