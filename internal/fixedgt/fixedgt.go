// Package fixedgt renders box targets with a marker of fixed size centred on
// each object, independent of the object's extent.
package fixedgt

import (
	"math"

	"fcn-groundtruth/internal/annotation"
	"fcn-groundtruth/internal/logging"
	"fcn-groundtruth/internal/raster"
	"fcn-groundtruth/pkg/geometry"
)

// Background of objectness maps.
const Background = -10.0

// Params sets the marker half size. Markers span 2*half+1 pixels per axis.
type Params struct {
	Half geometry.SizeInt
}

// DefaultParams returns 9x9 markers.
func DefaultParams() Params {
	return Params{Half: geometry.SizeInt{Width: 4, Height: 4}}
}

// WithHalf returns a copy with the given half size.
func (p Params) WithHalf(w, h int) Params {
	p.Half = geometry.SizeInt{Width: w, Height: h}
	return p
}

// Objectness writes a pyramid per object that is 0 on the marker border and
// rises by one per pixel towards the center.
func Objectness(h, w int, anns []annotation.Annotation, p Params) *raster.Map {
	canvas := raster.NewFilled(h, w, 1, Background)
	mark := pyramidMarker(p.Half)
	for _, a := range anns {
		stampAt(canvas, a, p.Half, mark)
	}
	return canvas
}

// ClassLabels writes each object's class id over its marker.
func ClassLabels(h, w int, anns []annotation.Annotation, p Params) *raster.Map {
	canvas := raster.NewMap(h, w, 1)
	for _, a := range anns {
		mark := solidMarker(p.Half, float64(a.Class))
		stampAt(canvas, a, p.Half, mark)
	}
	return canvas
}

// BBoxLabels writes each object's width (channel 0) and height (channel 1)
// over its marker.
func BBoxLabels(h, w int, anns []annotation.Annotation, p Params) *raster.Map {
	canvas := raster.NewMap(h, w, 2)
	for _, a := range anns {
		bw, bh := a.Extent()
		mark := solidMarker(p.Half, bw, bh)
		stampAt(canvas, a, p.Half, mark)
	}
	return canvas
}

// Foreground sets every pixel covered by an object's bounding box to 1.
func Foreground(h, w int, anns []annotation.Annotation) *raster.Map {
	canvas := raster.NewMap(h, w, 1)
	for _, a := range anns {
		b := a.Bounds()
		x1, x2 := int(math.Max(0, b.X)), int(math.Min(float64(w), b.X+b.Width))
		y1, y2 := int(math.Max(0, b.Y)), int(math.Min(float64(h), b.Y+b.Height))
		for y := y1; y < y2; y++ {
			for x := x1; x < x2; x++ {
				canvas.Set(x, y, 0, 1)
			}
		}
	}
	return canvas
}

// stampAt centres mark on the bounding box of a and overwrites the canvas.
func stampAt(canvas *raster.Map, a annotation.Annotation, half geometry.SizeInt, mark *raster.Map) {
	b := a.Bounds()
	cx := int(math.RoundToEven(b.X + b.Width/2))
	cy := int(math.RoundToEven(b.Y + b.Height/2))
	r := raster.Rect{
		X1: cx - half.Width, X2: cx + half.Width + 1,
		Y1: cy - half.Height, Y2: cy + half.Height + 1,
	}
	patch, rect, ok := raster.Clip(canvas.H, canvas.W, r, mark)
	if !ok {
		return
	}
	if err := canvas.Paste(patch, rect); err != nil {
		logging.Logger().Debug("fixed marker not written", "annotation", a, "rect", rect, "error", err)
	}
}

func pyramidMarker(half geometry.SizeInt) *raster.Map {
	w, h := 2*half.Width+1, 2*half.Height+1
	m := raster.NewMap(h, w, 1)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			m.Set(x, y, 0, float64(min(
				half.Width-abs(x-half.Width),
				half.Height-abs(y-half.Height),
			)))
		}
	}
	return m
}

func solidMarker(half geometry.SizeInt, vals ...float64) *raster.Map {
	w, h := 2*half.Width+1, 2*half.Height+1
	m := raster.NewMap(h, w, len(vals))
	for i := 0; i < w*h; i++ {
		copy(m.Pix[i*len(vals):], vals)
	}
	return m
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
