// Package pyramid renders the annotations of one image into a ground-truth
// canvas per pyramid level.
package pyramid

import (
	"errors"
	"fmt"

	"fcn-groundtruth/internal/annotation"
	"fcn-groundtruth/internal/archshape"
	"fcn-groundtruth/internal/config"
	"fcn-groundtruth/internal/logging"
	"fcn-groundtruth/internal/overlap"
	"fcn-groundtruth/internal/raster"
	"fcn-groundtruth/internal/resample"
	"fcn-groundtruth/internal/stamp"
	"fcn-groundtruth/pkg/geometry"
)

// minScaledExtent is the smallest extent a scaled annotation may have before
// it is skipped without stamping.
const minScaledExtent = 1

// Builder renders pyramids for a fixed configuration. It holds no per-build
// state and may be shared between goroutines.
type Builder struct {
	cfg       config.PyramidConfig
	nrClasses int
	stamper   stamp.Stamper
	channels  int
	encoding  stamp.Encoding
}

// NewBuilder validates cfg against nrClasses and returns a Builder.
func NewBuilder(cfg config.PyramidConfig, nrClasses int) (*Builder, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	s, err := stamp.For(cfg.Stamp)
	if err != nil {
		return nil, err
	}
	b := &Builder{
		cfg:       cfg,
		nrClasses: nrClasses,
		stamper:   s,
		channels:  s.Channels(cfg.StampConfig, nrClasses),
		encoding:  s.Encoding(cfg.StampConfig),
	}
	if b.channels < 1 || (b.encoding.OneHot && b.channels < 2) {
		return nil, fmt.Errorf("%w: %v targets with %d classes", config.ErrInvalid, cfg.Stamp, nrClasses)
	}
	if cfg.DownsampleMarker && b.encoding.OneHot && b.channels > resample.MaxClassIDs {
		return nil, fmt.Errorf("%w: %d classes do not fit 8-bit class ids", config.ErrInvalid, b.channels)
	}
	return b, nil
}

// Channels returns the channel count of every canvas the Builder produces.
func (b *Builder) Channels() int { return b.channels }

// Encoding returns how fresh canvases are initialised.
func (b *Builder) Encoding() stamp.Encoding { return b.encoding }

// Config returns the configuration the Builder was created with.
func (b *Builder) Config() config.PyramidConfig { return b.cfg }

// Build renders one canvas per downsample factor for an h x w image, finest
// first. Only configuration errors are returned; annotations that cannot be
// stamped are logged and skipped.
func (b *Builder) Build(h, w int, anns []annotation.Annotation) ([]*raster.Map, error) {
	levels := make([]*raster.Map, 0, len(b.cfg.DownsampleFactors))
	if b.cfg.DownsampleMarker {
		base, err := b.render(h, w, 1, anns)
		if err != nil {
			return nil, err
		}
		for level := range b.cfg.DownsampleFactors {
			m, err := b.shrink(base, h, w, level)
			if err != nil {
				return nil, err
			}
			levels = append(levels, m)
		}
		return levels, nil
	}

	for level, f := range b.cfg.DownsampleFactors {
		m, err := b.render(h, w, 1/f, anns)
		if err != nil {
			return nil, fmt.Errorf("level %d: %w", level, err)
		}
		levels = append(levels, m)
	}
	return levels, nil
}

// BuildLevel renders a single level of the pyramid.
func (b *Builder) BuildLevel(h, w, level int, anns []annotation.Annotation) (*raster.Map, error) {
	if level < 0 || level >= len(b.cfg.DownsampleFactors) {
		return nil, fmt.Errorf("level %d outside [0,%d)", level, len(b.cfg.DownsampleFactors))
	}
	if b.cfg.DownsampleMarker {
		base, err := b.render(h, w, 1, anns)
		if err != nil {
			return nil, err
		}
		return b.shrink(base, h, w, level)
	}
	return b.render(h, w, 1/b.cfg.DownsampleFactors[level], anns)
}

// render stamps every annotation, scaled by f, onto a fresh canvas of
// int(h*f) x int(w*f) pixels.
func (b *Builder) render(h, w int, f float64, anns []annotation.Annotation) (*raster.Map, error) {
	lh, lw := int(float64(h)*f), int(float64(w)*f)
	if lh < 1 || lw < 1 {
		return nil, fmt.Errorf("%w: %dx%d canvas at scale %g is empty", config.ErrInvalid, w, h, f)
	}
	canvas := b.newCanvas(lh, lw)
	resolver, err := overlap.New(b.cfg.Overlap)
	if err != nil {
		return nil, err
	}
	log := logging.Logger().With("scale", f)

	for i, a := range anns {
		scaled := a.Scaled(f)
		if scaled.Degenerate(minScaledExtent) {
			log.Debug("annotation too small", "index", i, "annotation", scaled)
			continue
		}
		res, err := b.stamper.Stamp(scaled, b.cfg.StampConfig, b.nrClasses)
		if err != nil {
			if errors.Is(err, config.ErrUnsupported) || errors.Is(err, config.ErrInvalid) {
				return nil, err
			}
			log.Warn("skipping annotation", "index", i, "error", err)
			continue
		}
		if res.Dropped {
			log.Debug("marker dropped", "index", i, "annotation", scaled)
			continue
		}
		patch, rect, ok := raster.Clip(lh, lw, res.Rect, res.Patch)
		if !ok {
			log.Debug("marker outside canvas", "index", i, "rect", res.Rect)
			continue
		}
		if err := resolver.Merge(canvas, patch, rect, b.encoding.OneHot); err != nil {
			if errors.Is(err, config.ErrUnsupported) {
				return nil, err
			}
			log.Warn("skipping annotation", "index", i, "error", err)
		}
	}
	return canvas, nil
}

// shrink resizes the full-resolution canvas to the architecture stage
// selected by the level's factor.
func (b *Builder) shrink(base *raster.Map, h, w, level int) (*raster.Map, error) {
	shapes, err := archshape.Table(b.cfg.Arch, geometry.SizeInt{Width: w, Height: h})
	if err != nil {
		return nil, err
	}
	stage := int(b.cfg.DownsampleFactors[level])
	if stage < 1 || stage > len(shapes) {
		return nil, fmt.Errorf("%w: stage %d outside the %d stages of %v", config.ErrInvalid, stage, len(shapes), b.cfg.Arch)
	}
	s := shapes[stage-1]
	if b.encoding.OneHot {
		return resample.NearestClasses(base, s.Width, s.Height)
	}
	return resample.Nearest(base, s.Width, s.Height)
}

func (b *Builder) newCanvas(h, w int) *raster.Map {
	if b.encoding.OneHot {
		return raster.NewOneHot(h, w, b.channels, 0)
	}
	return raster.NewFilled(h, w, b.channels, b.encoding.Fill)
}
