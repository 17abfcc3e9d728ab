package stamp

import (
	"math"

	"fcn-groundtruth/internal/annotation"
	"fcn-groundtruth/internal/config"
	"fcn-groundtruth/internal/raster"

	"seehuhn.de/go/geom/vec"
)

// centerJitter moves the marker center off the pixel lattice so no pixel
// sits exactly on it.
const centerJitter = 1e-5

// Direction stamps unit vectors pointing from each pixel to the marker
// center. Channel 0 holds the x component, channel 1 the y component.
type Direction struct{}

// Channels is 2: x and y components.
func (Direction) Channels(config.StampConfig, int) int { return 2 }

// Encoding is dense with a zero background.
func (Direction) Encoding(config.StampConfig) Encoding { return Encoding{} }

// Stamp implements Stamper.
func (Direction) Stamp(a annotation.Annotation, cfg config.StampConfig, _ int) (Result, error) {
	w, h, rect, ok := place(a, cfg)
	if !ok {
		return dropped, nil
	}
	return Result{Patch: directionMarker(w, h, cfg.Shape, cfg.Hole), Rect: rect}, nil
}

func directionMarker(w, h int, shape config.Shape, hole *float64) *raster.Map {
	m := raster.NewMap(h, w, 2)
	center := vec.Vec2{X: float64(w)*0.5 + centerJitter, Y: float64(h)*0.5 + centerJitter}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			d := center.Sub(vec.Vec2{X: float64(x), Y: float64(y)})
			u := d.Mul(1 / d.Length())
			m.Set(x, y, 0, u.X)
			m.Set(x, y, 1, u.Y)
		}
	}

	if float64(min(w, h))*0.5 < 1 {
		return m
	}

	if shape == config.ShapeOval {
		e := ellipse(w, h)
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				if e[y*w+x] < 0 {
					clear(m.Pixel(x, y))
				}
			}
		}
	}

	if hole != nil {
		hw := int(math.RoundToEven(float64(w) * *hole))
		hh := int(math.RoundToEven(float64(h) * *hole))
		if hw > 0 && hh > 0 {
			e := ellipse(hw, hh)
			ox := int(float64(w)*0.5 - float64(hw)*0.5)
			oy := int(float64(h)*0.5 - float64(hh)*0.5)
			for y := 0; y < hh; y++ {
				for x := 0; x < hw; x++ {
					px, py := ox+x, oy+y
					if e[y*hw+x] > 0 && px >= 0 && px < w && py >= 0 && py < h {
						clear(m.Pixel(px, py))
					}
				}
			}
		}
	}
	return m
}

// ellipse returns, for a w x h grid, 1 - r/r0 where r is the normalized
// radius of each pixel center and r0 the radius at the middle of the left
// and top borders. Pixels outside the inscribed ellipse are negative.
func ellipse(w, h int) []float64 {
	cx, cy := float64(w)*0.5, float64(h)*0.5
	r := func(x, y int) float64 {
		return math.Hypot((float64(x)+0.5-cx)/float64(w), (float64(y)+0.5-cy)/float64(h))
	}
	r0 := math.Max(r(0, int(cy)), r(int(cx), 0))
	out := make([]float64, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			out[y*w+x] = 1 - r(x, y)/r0
		}
	}
	return out
}
