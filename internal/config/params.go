package config

import (
	"fmt"

	"fcn-groundtruth/pkg/geometry"
)

// DefaultMaxEnergy is the number of energy bins used when none is configured.
const DefaultMaxEnergy = 20

// StampConfig controls how a single annotation is turned into a marker.
type StampConfig struct {
	// MarkerDim fixes the marker size for every object. When nil the marker
	// is SizePercentage of the object's bounding extent.
	MarkerDim      *geometry.Size
	SizePercentage float64

	Shape           Shape
	Loss            LossKind
	EnergyShape     EnergyShape
	ClassResolution ClassResolution

	// Hole is the fraction of the marker, around its center, in which
	// direction targets are zeroed. Nil disables the hole.
	Hole *float64

	// MaxEnergy is the number of energy bins; energies lie in [0, MaxEnergy-1].
	MaxEnergy int
}

// PyramidConfig controls one multi-resolution ground-truth build.
type PyramidConfig struct {
	// DownsampleFactors has one entry per level, finest first. With
	// DownsampleMarker set, each factor is read as the 1-based stage of the
	// architecture shape table instead.
	DownsampleFactors []float64
	DownsampleMarker  bool
	Overlap           OverlapPolicy
	Stamp             StampKind
	Arch              Arch
	StampConfig       StampConfig
}

// DefaultStampConfig returns a regression energy marker covering the full
// object extent.
func DefaultStampConfig() StampConfig {
	return StampConfig{
		SizePercentage:  1.0,
		Shape:           ShapeOval,
		Loss:            LossRegression,
		EnergyShape:     EnergyLinear,
		ClassResolution: ClassPerClass,
		MaxEnergy:       DefaultMaxEnergy,
	}
}

// DefaultPyramidConfig returns a single-level energy build.
func DefaultPyramidConfig() PyramidConfig {
	return PyramidConfig{
		DownsampleFactors: []float64{1},
		Overlap:           OverlapMax,
		Stamp:             StampEnergy,
		StampConfig:       DefaultStampConfig(),
	}
}

// WithMarkerDim returns a copy with a fixed marker size.
func (c StampConfig) WithMarkerDim(width, height float64) StampConfig {
	c.MarkerDim = &geometry.Size{Width: width, Height: height}
	return c
}

// WithHole returns a copy with a centered dead zone of the given fraction.
func (c StampConfig) WithHole(fraction float64) StampConfig {
	c.Hole = &fraction
	return c
}

// WithShape returns a copy using the given marker footprint.
func (c StampConfig) WithShape(s Shape) StampConfig {
	c.Shape = s
	return c
}

// WithLoss returns a copy using the given target encoding.
func (c StampConfig) WithLoss(l LossKind) StampConfig {
	c.Loss = l
	return c
}

// WithStampConfig returns a copy using the given stamp settings.
func (c PyramidConfig) WithStampConfig(sc StampConfig) PyramidConfig {
	c.StampConfig = sc
	return c
}

// WithLevels returns a copy with the given downsample factors.
func (c PyramidConfig) WithLevels(factors ...float64) PyramidConfig {
	c.DownsampleFactors = append([]float64(nil), factors...)
	return c
}

// Validate reports configuration errors. Unknown enum values wrap
// ErrUnsupported; unusable combinations wrap ErrInvalid.
func (c StampConfig) Validate() error {
	for _, err := range []error{
		shapeTable.check(int(c.Shape)),
		lossTable.check(int(c.Loss)),
		energyTable.check(int(c.EnergyShape)),
		classTable.check(int(c.ClassResolution)),
	} {
		if err != nil {
			return err
		}
	}
	if c.MaxEnergy < 2 {
		return fmt.Errorf("%w: max energy %d, need at least 2", ErrInvalid, c.MaxEnergy)
	}
	if c.MarkerDim == nil && c.SizePercentage <= 0 {
		return fmt.Errorf("%w: size percentage %g without marker dim", ErrInvalid, c.SizePercentage)
	}
	if c.MarkerDim != nil && (c.MarkerDim.Width <= 0 || c.MarkerDim.Height <= 0) {
		return fmt.Errorf("%w: marker dim %gx%g", ErrInvalid, c.MarkerDim.Width, c.MarkerDim.Height)
	}
	if c.Hole != nil && (*c.Hole < 0 || *c.Hole >= 1) {
		return fmt.Errorf("%w: hole fraction %g outside [0,1)", ErrInvalid, *c.Hole)
	}
	return nil
}

// Validate reports configuration errors of the pyramid and its stamp settings.
func (c PyramidConfig) Validate() error {
	for _, err := range []error{
		overlapTable.check(int(c.Overlap)),
		stampTable.check(int(c.Stamp)),
		archTable.check(int(c.Arch)),
	} {
		if err != nil {
			return err
		}
	}
	if len(c.DownsampleFactors) == 0 {
		return fmt.Errorf("%w: no downsample factors", ErrInvalid)
	}
	for i, f := range c.DownsampleFactors {
		if f <= 0 {
			return fmt.Errorf("%w: downsample factor %d is %g", ErrInvalid, i, f)
		}
		if c.DownsampleMarker && f != float64(int(f)) {
			return fmt.Errorf("%w: stage index %g is not a whole number", ErrInvalid, f)
		}
	}
	if c.DownsampleMarker && c.Arch == ArchNone {
		return fmt.Errorf("%w: downsample marker needs an architecture shape table", ErrInvalid)
	}
	return c.StampConfig.Validate()
}
