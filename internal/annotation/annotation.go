// Package annotation holds the geometric object annotations that ground-truth
// maps are synthesized from.
package annotation

import (
	"fmt"

	"fcn-groundtruth/pkg/geometry"
)

// Kind tells how an annotation was specified.
type Kind int

const (
	// KindBox is an axis-aligned box (x1, y1, x2, y2).
	KindBox Kind = iota
	// KindPolygon is a simple polygon with at least three vertices.
	KindPolygon
)

func (k Kind) String() string {
	switch k {
	case KindBox:
		return "box"
	case KindPolygon:
		return "polygon"
	default:
		return "unknown"
	}
}

// Annotation is one labeled object. Vertices always describe a closed
// polygon ordered clockwise on screen; boxes are stored as their four
// corners. An Annotation is never modified after construction.
type Annotation struct {
	Kind     Kind
	Vertices []geometry.Point2D
	Class    int
}

// NewBox creates a box annotation from its corner coordinates.
func NewBox(x1, y1, x2, y2 float64, class int) Annotation {
	if x2 < x1 {
		x1, x2 = x2, x1
	}
	if y2 < y1 {
		y1, y2 = y2, y1
	}
	return Annotation{
		Kind: KindBox,
		Vertices: []geometry.Point2D{
			{X: x1, Y: y1},
			{X: x2, Y: y1},
			{X: x2, Y: y2},
			{X: x1, Y: y2},
		},
		Class: class,
	}
}

// NewPolygon creates a polygon annotation. The vertices are copied and
// reordered clockwise if necessary.
func NewPolygon(vertices []geometry.Point2D, class int) (Annotation, error) {
	if len(vertices) < 3 {
		return Annotation{}, fmt.Errorf("polygon needs at least 3 vertices, got %d", len(vertices))
	}
	return Annotation{
		Kind:     KindPolygon,
		Vertices: geometry.Clockwise(vertices),
		Class:    class,
	}, nil
}

// NewPolygonFlat creates a polygon annotation from a flat x,y,x,y,... list.
func NewPolygonFlat(coords []float64, class int) (Annotation, error) {
	if len(coords)%2 != 0 {
		return Annotation{}, fmt.Errorf("odd coordinate count %d", len(coords))
	}
	pts := make([]geometry.Point2D, len(coords)/2)
	for i := range pts {
		pts[i] = geometry.Point2D{X: coords[2*i], Y: coords[2*i+1]}
	}
	return NewPolygon(pts, class)
}

// Scaled returns a copy with every vertex multiplied by f.
func (a Annotation) Scaled(f float64) Annotation {
	pts := make([]geometry.Point2D, len(a.Vertices))
	for i, p := range a.Vertices {
		pts[i] = p.Scale(f)
	}
	return Annotation{Kind: a.Kind, Vertices: pts, Class: a.Class}
}

// Bounds returns the axis-aligned bounding extent.
func (a Annotation) Bounds() geometry.Rect {
	return geometry.BoundingBox(a.Vertices)
}

// Extent returns the width and height of the bounding extent.
func (a Annotation) Extent() (w, h float64) {
	b := a.Bounds()
	return b.Width, b.Height
}

// Degenerate reports whether the bounding extent is smaller than min on
// either axis.
func (a Annotation) Degenerate(min float64) bool {
	w, h := a.Extent()
	return w < min || h < min
}

// Convex reports whether the outline is convex. The distance field treats
// the interior as the intersection of the edge half-planes, which is exact
// only for convex outlines.
func (a Annotation) Convex() bool {
	return geometry.IsConvex(a.Vertices)
}

func (a Annotation) String() string {
	b := a.Bounds()
	return fmt.Sprintf("%s class=%d bounds=(%.1f,%.1f %.1fx%.1f) vertices=%d",
		a.Kind, a.Class, b.X, b.Y, b.Width, b.Height, len(a.Vertices))
}
