package raster

import "fmt"

// Rect is a half-open placement rectangle [X1,X2) x [Y1,Y2) in canvas
// pixels. Before clipping it may extend beyond the canvas.
type Rect struct {
	X1, Y1, X2, Y2 int
}

// Dx returns the width.
func (r Rect) Dx() int { return r.X2 - r.X1 }

// Dy returns the height.
func (r Rect) Dy() int { return r.Y2 - r.Y1 }

// Empty reports whether r has no area.
func (r Rect) Empty() bool { return r.X1 >= r.X2 || r.Y1 >= r.Y2 }

// In reports whether r is non-empty and lies inside an h x w canvas.
func (r Rect) In(h, w int) bool {
	return !r.Empty() && r.X1 >= 0 && r.Y1 >= 0 && r.X2 <= w && r.Y2 <= h
}

// Center returns the integer center used for nearest-center ownership.
func (r Rect) Center() (x, y int) {
	return int(float64(r.X1+r.X2) * 0.5), int(float64(r.Y1+r.Y2) * 0.5)
}

func (r Rect) String() string {
	return fmt.Sprintf("(%d,%d)-(%d,%d)", r.X1, r.Y1, r.X2, r.Y2)
}

// Clip fits a patch destined for r onto an h x w canvas.
//
// Each coordinate of r is clamped to [0, w-1] horizontally and [0, h-1]
// vertically. If an axis collapses, ok is false and nothing may be written.
// Otherwise the patch is trimmed to the clamped size, ceil(excess/2) from
// the leading side and floor(excess/2) from the trailing side. A patch
// smaller than the clamped rect cannot be fitted and is dropped as well.
func Clip(h, w int, r Rect, patch *Map) (*Map, Rect, bool) {
	if patch == nil || h <= 0 || w <= 0 {
		return nil, Rect{}, false
	}
	c := Rect{
		X1: clamp(r.X1, w-1),
		Y1: clamp(r.Y1, h-1),
		X2: clamp(r.X2, w-1),
		Y2: clamp(r.Y2, h-1),
	}
	if c.X1 >= c.X2 || c.Y1 >= c.Y2 {
		return nil, Rect{}, false
	}

	offY := patch.H - c.Dy()
	offX := patch.W - c.Dx()
	if offY < 0 || offX < 0 {
		return nil, Rect{}, false
	}
	if offY == 0 && offX == 0 {
		return patch, c, true
	}
	trim := Rect{
		X1: (offX + 1) / 2,
		Y1: (offY + 1) / 2,
		X2: patch.W - offX/2,
		Y2: patch.H - offY/2,
	}
	return patch.Crop(trim), c, true
}

func clamp(v, hi int) int {
	if v < 0 {
		return 0
	}
	if v > hi {
		return hi
	}
	return v
}
