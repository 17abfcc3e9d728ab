package annotation

import (
	"strings"
	"testing"

	"fcn-groundtruth/pkg/geometry"
)

func TestNewBoxCorners(t *testing.T) {
	a := NewBox(14, 14, 10, 10, 3)
	want := []geometry.Point2D{{X: 10, Y: 10}, {X: 14, Y: 10}, {X: 14, Y: 14}, {X: 10, Y: 14}}
	if len(a.Vertices) != len(want) {
		t.Fatalf("got %d vertices, want %d", len(a.Vertices), len(want))
	}
	for i := range want {
		if a.Vertices[i] != want[i] {
			t.Errorf("vertex %d = %v, want %v", i, a.Vertices[i], want[i])
		}
	}
	if geometry.SignedArea(a.Vertices) <= 0 {
		t.Errorf("box corners are not clockwise on screen")
	}
}

func TestNewPolygonReordersCounterClockwise(t *testing.T) {
	ccw := []geometry.Point2D{{X: 0, Y: 0}, {X: 0, Y: 4}, {X: 4, Y: 4}, {X: 4, Y: 0}}
	a, err := NewPolygon(ccw, 1)
	if err != nil {
		t.Fatal(err)
	}
	if geometry.SignedArea(a.Vertices) <= 0 {
		t.Errorf("polygon was not reordered clockwise")
	}
	if ccw[1] != (geometry.Point2D{X: 0, Y: 4}) {
		t.Errorf("input slice was modified")
	}
}

func TestNewPolygonTooFewVertices(t *testing.T) {
	if _, err := NewPolygonFlat([]float64{0, 0, 1, 1}, 1); err == nil {
		t.Error("expected error for two vertices")
	}
	if _, err := NewPolygonFlat([]float64{0, 0, 1}, 1); err == nil {
		t.Error("expected error for odd coordinate count")
	}
}

func TestScaledLeavesOriginal(t *testing.T) {
	a := NewBox(2, 4, 10, 12, 1)
	s := a.Scaled(0.5)
	if w, h := s.Extent(); w != 4 || h != 4 {
		t.Errorf("scaled extent = %vx%v, want 4x4", w, h)
	}
	if w, h := a.Extent(); w != 8 || h != 8 {
		t.Errorf("original extent changed to %vx%v", w, h)
	}
}

func TestDegenerate(t *testing.T) {
	tests := []struct {
		name string
		a    Annotation
		want bool
	}{
		{"1x1 box", NewBox(5, 5, 6, 6, 1), true},
		{"thin box", NewBox(0, 0, 10, 1, 1), true},
		{"regular box", NewBox(0, 0, 4, 4, 1), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Degenerate(2); got != tt.want {
				t.Errorf("Degenerate(2) = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDecode(t *testing.T) {
	src := `{"width": 40, "height": 30, "objects": [
		{"class": 1, "box": [1, 2, 11, 12]},
		{"class": 2, "polygon": [0, 0, 8, 0, 8, 8]}
	]}`
	f, err := Decode(strings.NewReader(src))
	if err != nil {
		t.Fatal(err)
	}
	anns, err := f.Annotations()
	if err != nil {
		t.Fatal(err)
	}
	if len(anns) != 2 {
		t.Fatalf("got %d annotations, want 2", len(anns))
	}
	if anns[0].Kind != KindBox || anns[1].Kind != KindPolygon {
		t.Errorf("kinds = %v, %v", anns[0].Kind, anns[1].Kind)
	}
	if anns[1].Class != 2 {
		t.Errorf("class = %d, want 2", anns[1].Class)
	}
}

func TestDecodeRejectsBadRecords(t *testing.T) {
	tests := []string{
		`{"objects": [{"class": 1}]}`,
		`{"objects": [{"class": 1, "box": [1, 2, 3]}]}`,
		`{"objects": [{"class": 1, "box": [0, 0, 1, 1], "polygon": [0, 0, 1, 0, 1, 1]}]}`,
	}
	for _, src := range tests {
		f, err := Decode(strings.NewReader(src))
		if err != nil {
			t.Fatal(err)
		}
		if _, err := f.Annotations(); err == nil {
			t.Errorf("expected error for %s", src)
		}
	}
}
