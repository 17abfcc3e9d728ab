// Command gtsynth renders ground-truth pyramids for an annotation file and
// prints a summary of every level.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"math"
	"os"
	"strings"

	"fcn-groundtruth/internal/annotation"
	"fcn-groundtruth/internal/config"
	"fcn-groundtruth/internal/fixedgt"
	"fcn-groundtruth/internal/logging"
	"fcn-groundtruth/internal/pyramid"
	"fcn-groundtruth/internal/raster"
	"fcn-groundtruth/internal/version"
)

func main() {
	annPath := flag.String("annotations", "", "Path to annotation JSON file")
	cfgPath := flag.String("config", "", "Path to assignment JSON file (default: single energy level)")
	classes := flag.Int("classes", 2, "Number of classes, background included")
	width := flag.Int("width", 0, "Canvas width (default: from annotation file)")
	height := flag.Int("height", 0, "Canvas height (default: from annotation file)")
	fixed := flag.Bool("fixed", false, "Also render the fixed-marker maps")
	verbose := flag.Bool("v", false, "Log skipped and dropped annotations")
	showVersion := flag.Bool("version", false, "Print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(version.String("gtsynth"))
		return
	}
	if *annPath == "" {
		fmt.Println("Usage: gtsynth -annotations <path> [-config <path>] [-classes 2] [-width W -height H] [-fixed] [-v]")
		os.Exit(1)
	}
	if *verbose {
		logging.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	file, err := annotation.Load(*annPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load annotations: %v\n", err)
		os.Exit(1)
	}
	anns, err := file.Annotations()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid annotations: %v\n", err)
		os.Exit(1)
	}

	w, h := file.Width, file.Height
	if *width > 0 {
		w = *width
	}
	if *height > 0 {
		h = *height
	}
	if w <= 0 || h <= 0 {
		fmt.Fprintf(os.Stderr, "Canvas size unknown: set -width and -height\n")
		os.Exit(1)
	}
	fmt.Printf("Loaded %d annotations, canvas %dx%d\n", len(anns), w, h)
	for _, a := range anns {
		if !a.Convex() {
			fmt.Printf("  warning: %v is not convex, its interior is approximated\n", a)
		}
	}

	cfgs := []config.PyramidConfig{config.DefaultPyramidConfig()}
	if *cfgPath != "" {
		cfgs, err = config.Load(*cfgPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
			os.Exit(1)
		}
	}

	for i, cfg := range cfgs {
		b, err := pyramid.NewBuilder(cfg, *classes)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Assignment %d: %v\n", i, err)
			os.Exit(1)
		}
		levels, err := b.Build(h, w, anns)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Assignment %d: build failed: %v\n", i, err)
			os.Exit(1)
		}

		sc := cfg.StampConfig
		fmt.Printf("\nAssignment %d: %v, loss %v, shape %v, overlap %v, factors %v",
			i, cfg.Stamp, sc.Loss, sc.Shape, cfg.Overlap, cfg.DownsampleFactors)
		if cfg.DownsampleMarker {
			fmt.Printf(", resized to %v stages", cfg.Arch)
		}
		fmt.Println()
		fmt.Printf("%-6s %12s %4s %12s %10s %10s\n", "Level", "Size", "C", "Foreground", "Min", "Max")
		fmt.Println(strings.Repeat("-", 60))
		for l, m := range levels {
			fg, lo, hi := summarize(m, b)
			fmt.Printf("%-6d %12s %4d %12d %10.3f %10.3f\n", l, fmt.Sprintf("%dx%d", m.W, m.H), m.C, fg, lo, hi)
		}
	}

	if *fixed {
		p := fixedgt.DefaultParams()
		fmt.Printf("\nFixed markers (%dx%d):\n", 2*p.Half.Width+1, 2*p.Half.Height+1)
		for _, item := range []struct {
			name string
			m    *raster.Map
			bg   float64
		}{
			{"objectness", fixedgt.Objectness(h, w, anns, p), fixedgt.Background},
			{"class", fixedgt.ClassLabels(h, w, anns, p), 0},
			{"bbox", fixedgt.BBoxLabels(h, w, anns, p), 0},
			{"foreground", fixedgt.Foreground(h, w, anns), 0},
		} {
			fmt.Printf("  %-12s %6d pixels set\n", item.name, countDense(item.m, item.bg))
		}
	}
}

// summarize returns the foreground pixel count and the value range of m.
// One-hot maps are reported as class ids.
func summarize(m *raster.Map, b *pyramid.Builder) (fg int, lo, hi float64) {
	enc := b.Encoding()
	if enc.OneHot {
		m = m.ClassIDs()
	}
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, v := range m.Pix {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	if enc.OneHot {
		return countDense(m, 0), lo, hi
	}
	return countDense(m, enc.Fill), lo, hi
}

// countDense counts pixels with at least one channel different from bg.
func countDense(m *raster.Map, bg float64) int {
	n := 0
	for y := 0; y < m.H; y++ {
		for x := 0; x < m.W; x++ {
			for _, v := range m.Pixel(x, y) {
				if v != bg {
					n++
					break
				}
			}
		}
	}
	return n
}
