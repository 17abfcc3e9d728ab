// Package raster provides the dense multi-channel maps that canvases and
// marker patches are stored in, and the clipper that places patches on a
// canvas.
package raster

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Map is an H x W grid with C values per pixel. The value of channel c at
// (x, y) is Pix[(y*W+x)*C+c].
type Map struct {
	H, W, C int
	Pix     []float64
}

// NewMap allocates a zeroed map.
func NewMap(h, w, c int) *Map {
	return &Map{H: h, W: w, C: c, Pix: make([]float64, h*w*c)}
}

// NewFilled allocates a map with every value set to v.
func NewFilled(h, w, c int, v float64) *Map {
	m := NewMap(h, w, c)
	if v != 0 {
		for i := range m.Pix {
			m.Pix[i] = v
		}
	}
	return m
}

// NewOneHot allocates a map whose every pixel is the one-hot vector of class.
func NewOneHot(h, w, c, class int) *Map {
	m := NewMap(h, w, c)
	for i := 0; i < h*w; i++ {
		m.Pix[i*c+class] = 1
	}
	return m
}

// FromDense builds a single-channel map from a field.
func FromDense(d *mat.Dense) *Map {
	h, w := d.Dims()
	m := NewMap(h, w, 1)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			m.Pix[y*w+x] = d.At(y, x)
		}
	}
	return m
}

// Offset returns the index of channel 0 of pixel (x, y).
func (m *Map) Offset(x, y int) int {
	return (y*m.W + x) * m.C
}

// At returns the value of channel c at (x, y).
func (m *Map) At(x, y, c int) float64 {
	return m.Pix[m.Offset(x, y)+c]
}

// Set sets the value of channel c at (x, y).
func (m *Map) Set(x, y, c int, v float64) {
	m.Pix[m.Offset(x, y)+c] = v
}

// Pixel returns the channel values of (x, y). The slice aliases Pix.
func (m *Map) Pixel(x, y int) []float64 {
	i := m.Offset(x, y)
	return m.Pix[i : i+m.C : i+m.C]
}

// Clone returns a deep copy.
func (m *Map) Clone() *Map {
	c := &Map{H: m.H, W: m.W, C: m.C, Pix: make([]float64, len(m.Pix))}
	copy(c.Pix, m.Pix)
	return c
}

// Equal reports whether both maps have the same shape and values.
func (m *Map) Equal(o *Map) bool {
	return m.H == o.H && m.W == o.W && m.C == o.C && floats.Equal(m.Pix, o.Pix)
}

// Crop returns a copy of the region r, given in the map's own coordinates.
func (m *Map) Crop(r Rect) *Map {
	out := NewMap(r.Dy(), r.Dx(), m.C)
	for y := r.Y1; y < r.Y2; y++ {
		src := m.Offset(r.X1, y)
		dst := out.Offset(0, y-r.Y1)
		copy(out.Pix[dst:dst+r.Dx()*m.C], m.Pix[src:src+r.Dx()*m.C])
	}
	return out
}

// Paste writes p into m with its top-left corner at (r.X1, r.Y1). The patch
// must have exactly the size of r and r must lie inside m.
func (m *Map) Paste(p *Map, r Rect) error {
	if p.C != m.C {
		return fmt.Errorf("patch has %d channels, canvas %d", p.C, m.C)
	}
	if p.W != r.Dx() || p.H != r.Dy() {
		return fmt.Errorf("patch %dx%d does not fit rect %v", p.W, p.H, r)
	}
	if !r.In(m.H, m.W) {
		return fmt.Errorf("rect %v outside canvas %dx%d", r, m.W, m.H)
	}
	for y := 0; y < p.H; y++ {
		src := p.Offset(0, y)
		dst := m.Offset(r.X1, r.Y1+y)
		copy(m.Pix[dst:dst+p.W*m.C], p.Pix[src:src+p.W*m.C])
	}
	return nil
}

// Argmax returns the index of the largest channel of (x, y). Ties go to the
// lower index.
func (m *Map) Argmax(x, y int) int {
	return floats.MaxIdx(m.Pixel(x, y))
}

// ClassIDs collapses a one-hot map into a single-channel map of argmax indices.
func (m *Map) ClassIDs() *Map {
	out := NewMap(m.H, m.W, 1)
	for y := 0; y < m.H; y++ {
		for x := 0; x < m.W; x++ {
			out.Pix[y*m.W+x] = float64(m.Argmax(x, y))
		}
	}
	return out
}

// OneHot expands a single-channel map of class ids into c channels.
// Ids outside [0, c) are an error.
func OneHot(ids *Map, c int) (*Map, error) {
	if ids.C != 1 {
		return nil, fmt.Errorf("class id map has %d channels", ids.C)
	}
	out := NewMap(ids.H, ids.W, c)
	for i, v := range ids.Pix {
		id := int(v)
		if float64(id) != v || id < 0 || id >= c {
			return nil, fmt.Errorf("class id %g outside [0,%d)", v, c)
		}
		out.Pix[i*c+id] = 1
	}
	return out, nil
}
