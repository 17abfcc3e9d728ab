package config

import (
	"encoding/json"
	"fmt"
	"os"

	"fcn-groundtruth/pkg/geometry"
)

// Assignment is the JSON form of a PyramidConfig.
type Assignment struct {
	Name              string        `json:"name,omitempty"`
	DownsampleFactors []float64     `json:"ds_factors"`
	DownsampleMarker  bool          `json:"downsample_marker"`
	Overlap           OverlapPolicy `json:"overlap_solution"`
	Stamp             StampKind     `json:"stamp_func"`
	Arch              Arch          `json:"arch,omitempty"`
	StampArgs         StampArgs     `json:"stamp_args"`
}

// StampArgs is the JSON form of a StampConfig.
type StampArgs struct {
	MarkerDim       []float64       `json:"marker_dim,omitempty"`
	SizePercentage  float64         `json:"size_percentage"`
	Shape           Shape           `json:"shape"`
	Loss            LossKind        `json:"loss"`
	EnergyShape     EnergyShape     `json:"energy_shape"`
	ClassResolution ClassResolution `json:"class_resolution"`
	Hole            *float64        `json:"hole,omitempty"`
	MaxEnergy       int             `json:"max_energy,omitempty"`
}

// File holds a list of assignments, one pyramid build each.
type File struct {
	Version     int          `json:"version"`
	Assignments []Assignment `json:"assignments"`
}

// Load reads an assignment file and converts every entry. Unknown option
// names fail with ErrUnsupported.
func Load(path string) ([]PyramidConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	return Parse(data)
}

// Parse converts the JSON content of an assignment file.
func Parse(data []byte) ([]PyramidConfig, error) {
	var f File
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	out := make([]PyramidConfig, 0, len(f.Assignments))
	for i, a := range f.Assignments {
		pc, err := a.PyramidConfig()
		if err != nil {
			return nil, fmt.Errorf("assignment %d: %w", i, err)
		}
		out = append(out, pc)
	}
	return out, nil
}

// PyramidConfig converts and validates the assignment.
func (a Assignment) PyramidConfig() (PyramidConfig, error) {
	sc := StampConfig{
		SizePercentage:  a.StampArgs.SizePercentage,
		Shape:           a.StampArgs.Shape,
		Loss:            a.StampArgs.Loss,
		EnergyShape:     a.StampArgs.EnergyShape,
		ClassResolution: a.StampArgs.ClassResolution,
		Hole:            a.StampArgs.Hole,
		MaxEnergy:       a.StampArgs.MaxEnergy,
	}
	if sc.MaxEnergy == 0 {
		sc.MaxEnergy = DefaultMaxEnergy
	}
	switch len(a.StampArgs.MarkerDim) {
	case 0:
	case 2:
		sc.MarkerDim = &geometry.Size{Width: a.StampArgs.MarkerDim[0], Height: a.StampArgs.MarkerDim[1]}
	default:
		return PyramidConfig{}, fmt.Errorf("%w: marker_dim needs 2 values, got %d", ErrInvalid, len(a.StampArgs.MarkerDim))
	}

	pc := PyramidConfig{
		DownsampleFactors: a.DownsampleFactors,
		DownsampleMarker:  a.DownsampleMarker,
		Overlap:           a.Overlap,
		Stamp:             a.Stamp,
		Arch:              a.Arch,
		StampConfig:       sc,
	}
	if err := pc.Validate(); err != nil {
		return PyramidConfig{}, err
	}
	return pc, nil
}
