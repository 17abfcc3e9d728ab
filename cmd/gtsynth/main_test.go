package main

import (
	"testing"

	"fcn-groundtruth/internal/annotation"
	"fcn-groundtruth/internal/config"
	"fcn-groundtruth/internal/pyramid"
	"fcn-groundtruth/internal/raster"
)

func TestTestdataPipeline(t *testing.T) {
	file, err := annotation.Load("testdata/annotations.json")
	if err != nil {
		t.Fatal(err)
	}
	anns, err := file.Annotations()
	if err != nil {
		t.Fatal(err)
	}
	cfgs, err := config.Load("testdata/assignments.json")
	if err != nil {
		t.Fatal(err)
	}
	if len(cfgs) != 3 {
		t.Fatalf("got %d assignments, want 3", len(cfgs))
	}
	for i, cfg := range cfgs {
		b, err := pyramid.NewBuilder(cfg, 3)
		if err != nil {
			t.Fatalf("assignment %d: %v", i, err)
		}
		levels, err := b.Build(file.Height, file.Width, anns)
		if err != nil {
			t.Fatalf("assignment %d: %v", i, err)
		}
		if len(levels) != len(cfg.DownsampleFactors) {
			t.Errorf("assignment %d: %d levels", i, len(levels))
		}
		if fg, _, _ := summarize(levels[0], b); fg == 0 {
			t.Errorf("assignment %d: finest level has no foreground", i)
		}
	}
}

func TestCountDense(t *testing.T) {
	m := raster.NewFilled(2, 3, 2, -10)
	m.Set(1, 0, 1, 4)
	m.Set(2, 1, 0, 0)
	if n := countDense(m, -10); n != 2 {
		t.Errorf("countDense = %d, want 2", n)
	}
}
