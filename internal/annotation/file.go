package annotation

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// Record is the on-disk form of one annotation. Exactly one of Box or
// Polygon must be set; Polygon is a flat x,y,x,y,... list.
type Record struct {
	Class   int       `json:"class"`
	Box     []float64 `json:"box,omitempty"`
	Polygon []float64 `json:"polygon,omitempty"`
}

// File is a list of annotations for one image.
type File struct {
	Image   string   `json:"image,omitempty"`
	Width   int      `json:"width,omitempty"`
	Height  int      `json:"height,omitempty"`
	Objects []Record `json:"objects"`
}

// Load reads an annotation file from disk.
func Load(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open annotations: %w", err)
	}
	defer f.Close()
	return Decode(f)
}

// Decode parses an annotation file.
func Decode(r io.Reader) (*File, error) {
	var file File
	if err := json.NewDecoder(r).Decode(&file); err != nil {
		return nil, fmt.Errorf("failed to parse annotations: %w", err)
	}
	return &file, nil
}

// Annotations converts the records, in file order.
func (f *File) Annotations() ([]Annotation, error) {
	out := make([]Annotation, 0, len(f.Objects))
	for i, rec := range f.Objects {
		a, err := rec.Annotation()
		if err != nil {
			return nil, fmt.Errorf("object %d: %w", i, err)
		}
		out = append(out, a)
	}
	return out, nil
}

// Annotation converts a single record.
func (r Record) Annotation() (Annotation, error) {
	switch {
	case len(r.Box) > 0 && len(r.Polygon) > 0:
		return Annotation{}, fmt.Errorf("both box and polygon set")
	case len(r.Box) > 0:
		if len(r.Box) != 4 {
			return Annotation{}, fmt.Errorf("box needs 4 coordinates, got %d", len(r.Box))
		}
		return NewBox(r.Box[0], r.Box[1], r.Box[2], r.Box[3], r.Class), nil
	case len(r.Polygon) > 0:
		return NewPolygonFlat(r.Polygon, r.Class)
	default:
		return Annotation{}, fmt.Errorf("neither box nor polygon set")
	}
}
