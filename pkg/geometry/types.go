// Package geometry provides basic geometric types used throughout the engine.
package geometry

import "math"

// Point2D represents a 2D point with floating-point coordinates.
// X grows to the right and Y grows downwards (image coordinates).
type Point2D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Scale returns the point scaled by a factor.
func (p Point2D) Scale(factor float64) Point2D {
	return Point2D{X: p.X * factor, Y: p.Y * factor}
}

// Rect represents a rectangle with floating-point coordinates.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Size represents a 2D size.
type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// SizeInt represents a 2D size in whole pixels.
type SizeInt struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// BoundingBox returns the smallest axis-aligned rectangle holding every
// point. No points give a zero Rect.
func BoundingBox(points []Point2D) Rect {
	if len(points) == 0 {
		return Rect{}
	}
	lo, hi := points[0], points[0]
	for _, p := range points[1:] {
		lo = Point2D{X: math.Min(lo.X, p.X), Y: math.Min(lo.Y, p.Y)}
		hi = Point2D{X: math.Max(hi.X, p.X), Y: math.Max(hi.Y, p.Y)}
	}
	return Rect{X: lo.X, Y: lo.Y, Width: hi.X - lo.X, Height: hi.Y - lo.Y}
}
