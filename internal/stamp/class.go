package stamp

import (
	"fmt"

	"fcn-groundtruth/internal/annotation"
	"fcn-groundtruth/internal/config"
	"fcn-groundtruth/internal/raster"
)

// Class stamps a one-hot class marker over the inner half of the energy
// field. Binary resolution only separates object from background.
type Class struct{}

// Channels is 2 for binary resolution and nrClasses otherwise.
func (Class) Channels(cfg config.StampConfig, nrClasses int) int {
	if cfg.ClassResolution == config.ClassBinary {
		return 2
	}
	return nrClasses
}

// Encoding is always one-hot.
func (Class) Encoding(config.StampConfig) Encoding {
	return Encoding{OneHot: true}
}

// Stamp rejects class ids outside [0, nrClasses) unless the resolution is binary.
func (c Class) Stamp(a annotation.Annotation, cfg config.StampConfig, nrClasses int) (Result, error) {
	id := 1
	if cfg.ClassResolution != config.ClassBinary {
		if a.Class < 0 || a.Class >= nrClasses {
			return dropped, fmt.Errorf("class %d outside [0,%d) for %v", a.Class, nrClasses, a)
		}
		id = a.Class
	}

	w, h, rect, ok := place(a, cfg)
	if !ok {
		return dropped, nil
	}
	f, ok, err := kernel(a, cfg, w, h)
	if err != nil || !ok {
		return dropped, err
	}

	n := c.Channels(cfg, nrClasses)
	patch := raster.NewMap(h, w, n)
	for i, in := range interior(f, cfg.MaxEnergy) {
		if in {
			patch.Pix[i*n+id] = 1
		} else {
			patch.Pix[i*n] = 1
		}
	}
	return Result{Patch: patch, Rect: rect}, nil
}
