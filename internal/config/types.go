// Package config holds the read-only settings shared by every stamping call
// of one pyramid build.
package config

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnsupported marks a configuration value the engine does not know.
// Builds abort when they meet it.
var ErrUnsupported = errors.New("unsupported configuration")

// ErrInvalid marks a configuration that is well-formed but unusable.
var ErrInvalid = errors.New("invalid configuration")

// Shape selects the footprint of a marker.
type Shape int

const (
	ShapeOval Shape = iota
	ShapeHull
	ShapeSquare
)

// LossKind selects how targets are encoded.
type LossKind int

const (
	// LossSoftmax produces one-hot targets.
	LossSoftmax LossKind = iota
	// LossRegression produces raw values.
	LossRegression
)

// EnergyShape is the curve applied to a raw distance field.
type EnergyShape int

const (
	EnergyLinear EnergyShape = iota
	EnergyRoot
	EnergyQuadratic
)

// ClassResolution selects between foreground/background and per-class labels.
type ClassResolution int

const (
	ClassBinary ClassResolution = iota
	ClassPerClass
)

// OverlapPolicy is the rule used when two stamps cover the same pixels.
type OverlapPolicy int

const (
	// OverlapOverwrite lets the later stamp win.
	OverlapOverwrite OverlapPolicy = iota
	// OverlapMax keeps the larger value per pixel and channel.
	OverlapMax
	// OverlapNearest gives each pixel to the closest marker center.
	OverlapNearest
)

// StampKind selects one of the stamp functions.
type StampKind int

const (
	StampEnergy StampKind = iota
	StampClass
	StampBBox
	StampDirection
)

// Arch selects the output shape table of a network architecture.
type Arch int

const (
	ArchNone Arch = iota
	ArchUNet
	ArchRefineNet
)

type enumTable struct {
	kind    string
	names   []string
	aliases map[string]int
}

func (t enumTable) name(v int) string {
	if v < 0 || v >= len(t.names) {
		return fmt.Sprintf("%s(%d)", t.kind, v)
	}
	return t.names[v]
}

func (t enumTable) valid(v int) bool {
	return v >= 0 && v < len(t.names)
}

func (t enumTable) parse(s string) (int, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, n := range t.names {
		if n == s {
			return i, nil
		}
	}
	if v, ok := t.aliases[s]; ok {
		return v, nil
	}
	return 0, fmt.Errorf("%w: unknown %s %q", ErrUnsupported, t.kind, s)
}

func (t enumTable) check(v int) error {
	if !t.valid(v) {
		return fmt.Errorf("%w: %s value %d", ErrUnsupported, t.kind, v)
	}
	return nil
}

var shapeTable = enumTable{kind: "shape", names: []string{"oval", "hull", "square"}}

var lossTable = enumTable{
	kind:    "loss",
	names:   []string{"softmax", "regression"},
	aliases: map[string]int{"reg": int(LossRegression)},
}

var energyTable = enumTable{kind: "energy shape", names: []string{"linear", "root", "quadratic"}}

var classTable = enumTable{kind: "class resolution", names: []string{"binary", "class"}}

var overlapTable = enumTable{
	kind:    "overlap policy",
	names:   []string{"overwrite", "max", "nearest"},
	aliases: map[string]int{"no": int(OverlapOverwrite), "closest": int(OverlapNearest)},
}

var stampTable = enumTable{
	kind:  "stamp function",
	names: []string{"energy", "class", "bbox", "direction"},
	aliases: map[string]int{
		"stamp_energy":     int(StampEnergy),
		"stamp_class":      int(StampClass),
		"stamp_bbox":       int(StampBBox),
		"stamp_directions": int(StampDirection),
		"directions":       int(StampDirection),
	},
}

var archTable = enumTable{
	kind:    "architecture",
	names:   []string{"none", "unet", "refinenet"},
	aliases: map[string]int{"": int(ArchNone), "refine": int(ArchRefineNet)},
}

func (s Shape) String() string { return shapeTable.name(int(s)) }
func (s Shape) MarshalText() ([]byte, error) { return []byte(s.String()), shapeTable.check(int(s)) }
func (s *Shape) UnmarshalText(b []byte) error {
	v, err := shapeTable.parse(string(b))
	*s = Shape(v)
	return err
}

func (l LossKind) String() string { return lossTable.name(int(l)) }
func (l LossKind) MarshalText() ([]byte, error) { return []byte(l.String()), lossTable.check(int(l)) }
func (l *LossKind) UnmarshalText(b []byte) error {
	v, err := lossTable.parse(string(b))
	*l = LossKind(v)
	return err
}

func (e EnergyShape) String() string { return energyTable.name(int(e)) }
func (e EnergyShape) MarshalText() ([]byte, error) { return []byte(e.String()), energyTable.check(int(e)) }
func (e *EnergyShape) UnmarshalText(b []byte) error {
	v, err := energyTable.parse(string(b))
	*e = EnergyShape(v)
	return err
}

func (c ClassResolution) String() string { return classTable.name(int(c)) }
func (c ClassResolution) MarshalText() ([]byte, error) { return []byte(c.String()), classTable.check(int(c)) }
func (c *ClassResolution) UnmarshalText(b []byte) error {
	v, err := classTable.parse(string(b))
	*c = ClassResolution(v)
	return err
}

func (o OverlapPolicy) String() string { return overlapTable.name(int(o)) }
func (o OverlapPolicy) MarshalText() ([]byte, error) { return []byte(o.String()), overlapTable.check(int(o)) }
func (o *OverlapPolicy) UnmarshalText(b []byte) error {
	v, err := overlapTable.parse(string(b))
	*o = OverlapPolicy(v)
	return err
}

func (k StampKind) String() string { return stampTable.name(int(k)) }
func (k StampKind) MarshalText() ([]byte, error) { return []byte(k.String()), stampTable.check(int(k)) }
func (k *StampKind) UnmarshalText(b []byte) error {
	v, err := stampTable.parse(string(b))
	*k = StampKind(v)
	return err
}

func (a Arch) String() string { return archTable.name(int(a)) }
func (a Arch) MarshalText() ([]byte, error) { return []byte(a.String()), archTable.check(int(a)) }
func (a *Arch) UnmarshalText(b []byte) error {
	v, err := archTable.parse(string(b))
	*a = Arch(v)
	return err
}
