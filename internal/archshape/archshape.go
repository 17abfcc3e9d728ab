// Package archshape predicts the output size of each stage of the supported
// network architectures, finest stage first.
package archshape

import (
	"fmt"
	"math"

	"fcn-groundtruth/internal/config"
	"fcn-groundtruth/pkg/geometry"
)

// UNetParams describes a valid-convolution UNet.
type UNetParams struct {
	Layers int // encoder depth, including the bottleneck
	Filter int // convolution kernel size
	Pool   int // pooling factor between encoder layers
}

// DefaultUNet is the five-level UNet with 3x3 convolutions and 2x2 pooling.
var DefaultUNet = UNetParams{Layers: 5, Filter: 3, Pool: 2}

// refineNetStrides are the output strides of the RefineNet stages.
var refineNetStrides = []int{1, 8, 16, 32}

// UNet returns the decoder output sizes for an input of the given size.
// Each encoder layer runs two unpadded convolutions and all but the last
// pool; each decoder layer upsamples and runs two unpadded convolutions.
// Very small inputs yield non-positive sizes.
func UNet(in geometry.SizeInt, p UNetParams) []geometry.SizeInt {
	crop := 2 * 2 * (p.Filter / 2)
	w, h := in.Width, in.Height
	for layer := 0; layer < p.Layers; layer++ {
		w -= crop
		h -= crop
		if layer < p.Layers-1 {
			w /= p.Pool
			h /= p.Pool
		}
	}
	sizes := []geometry.SizeInt{{Width: w, Height: h}}
	for layer := p.Layers - 2; layer >= 0; layer-- {
		w = w*p.Pool - crop
		h = h*p.Pool - crop
		sizes = append(sizes, geometry.SizeInt{Width: w, Height: h})
	}
	for i, j := 0, len(sizes)-1; i < j; i, j = i+1, j-1 {
		sizes[i], sizes[j] = sizes[j], sizes[i]
	}
	return sizes
}

// RefineNet returns ceil(size/stride) for strides 1, 8, 16 and 32.
func RefineNet(in geometry.SizeInt) []geometry.SizeInt {
	sizes := make([]geometry.SizeInt, len(refineNetStrides))
	for i, s := range refineNetStrides {
		sizes[i] = geometry.SizeInt{
			Width:  int(math.Ceil(float64(in.Width) / float64(s))),
			Height: int(math.Ceil(float64(in.Height) / float64(s))),
		}
	}
	return sizes
}

// Table returns the stage sizes of arch.
func Table(arch config.Arch, in geometry.SizeInt) ([]geometry.SizeInt, error) {
	switch arch {
	case config.ArchUNet:
		return UNet(in, DefaultUNet), nil
	case config.ArchRefineNet:
		return RefineNet(in), nil
	case config.ArchNone:
		return nil, fmt.Errorf("%w: no architecture selected", config.ErrInvalid)
	default:
		return nil, fmt.Errorf("%w: architecture %v", config.ErrUnsupported, arch)
	}
}
