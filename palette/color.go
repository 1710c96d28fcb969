package palette

import (
	"fmt"
	"image"
	"image/color"

	"github.com/cenkalti/dominantcolor"
	"github.com/ericpauley/go-quantize/quantize"
)

// Strategy selects how the representative color of a block texture is
// computed.
type Strategy string

const (
	// StrategyMean averages the R, G and B channels over all pixels whose
	// alpha is at or above the opacity threshold. This is the default and
	// the one golden outputs are produced with.
	StrategyMean Strategy = "mean"
	// StrategyQuantize median-cuts the texture down to a single color.
	StrategyQuantize Strategy = "quantize"
	// StrategyDominant picks the most dominant color of the texture.
	StrategyDominant Strategy = "dominant"
)

// Strategies lists the recognized strategy names.
func Strategies() []Strategy {
	return []Strategy{StrategyMean, StrategyQuantize, StrategyDominant}
}

// Representative computes the single summary color used as the comparison
// key during matching. A fully transparent texture yields the fallback
// color rather than an undefined one.
func Representative(m image.Image, strategy Strategy, threshold uint8, fallback color.NRGBA) (color.NRGBA, error) {
	switch strategy {
	case StrategyMean, "":
		return meanColor(m, threshold, fallback), nil
	case StrategyQuantize:
		return quantizeColor(m, fallback), nil
	case StrategyDominant:
		c := dominantcolor.Find(m)
		return color.NRGBA{c.R, c.G, c.B, 0xff}, nil
	default:
		return color.NRGBA{}, fmt.Errorf("palette: unknown color strategy %q", strategy)
	}
}

func meanColor(m image.Image, threshold uint8, fallback color.NRGBA) color.NRGBA {
	var rSum, gSum, bSum, n uint64

	b := m.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := color.NRGBAModel.Convert(m.At(x, y)).(color.NRGBA)
			if c.A < threshold {
				continue
			}
			rSum += uint64(c.R)
			gSum += uint64(c.G)
			bSum += uint64(c.B)
			n++
		}
	}

	if n == 0 {
		return fallback
	}

	return color.NRGBA{
		uint8((rSum + n/2) / n),
		uint8((gSum + n/2) / n),
		uint8((bSum + n/2) / n),
		0xff,
	}
}

func quantizeColor(m image.Image, fallback color.NRGBA) color.NRGBA {
	q := quantize.MedianCutQuantizer{}
	p := q.Quantize(make(color.Palette, 0, 1), m)
	if len(p) == 0 {
		return fallback
	}
	c := color.NRGBAModel.Convert(p[0]).(color.NRGBA)
	c.A = 0xff
	return c
}
