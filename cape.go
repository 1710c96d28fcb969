package skinblock

import (
	"image"
	"image/color"
	"sort"

	"github.com/seutix/SkinBlockConverter/match"
	"github.com/seutix/SkinBlockConverter/palette"
)

// CapeSizes are the accepted cape geometries: the 64x32 cape sheet and the
// cropped 22x17 cape-only image.
var CapeSizes = []image.Point{{X: 64, Y: 32}, {X: 22, Y: 17}}

// ConvertCape converts the cape at srcPath into a block mosaic at dstPath.
// The same alpha threshold as for skins applies uniformly; capes carry no
// further structurally meaningful transparency. With DistinctCapeBlocks
// set, every distinct opaque color is rendered with a different block.
func (c *Converter) ConvertCape(srcPath, dstPath string) error {
	c.logger.Printf("converting cape %q", srcPath)

	r := c.renderer(CapeSizes)

	if !c.opts.DistinctCapeBlocks {
		return r.Convert(srcPath, dstPath, c.matcher.Match)
	}

	src, err := r.Decode(srcPath)
	if err != nil {
		return err
	}

	assigned, err := c.assignDistinct(src)
	if err != nil {
		return err
	}

	out, err := r.Render(src, func(cc color.NRGBA) (*palette.Block, error) {
		cc.A = 0xff
		if b, ok := assigned[cc]; ok {
			return b, nil
		}
		return c.matcher.Match(cc)
	})
	if err != nil {
		return err
	}

	return r.WriteFile(dstPath, out)
}

// assignDistinct maps every distinct opaque color in src to its own block.
// Colors are served most frequent first, each taking the closest block not
// yet used; once blocks run out the remaining colors fall back to plain
// matching. Ordering is deterministic: frequency descending, then packed
// RGB ascending.
func (c *Converter) assignDistinct(src *image.NRGBA) (map[color.NRGBA]*palette.Block, error) {
	if c.palette.Len() == 0 {
		return nil, match.ErrEmptyPalette
	}

	freq := make(map[color.NRGBA]int)
	b := src.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			px := src.NRGBAAt(x, y)
			if px.A < c.opts.AlphaThreshold {
				continue
			}
			px.A = 0xff
			freq[px]++
		}
	}

	colors := make([]color.NRGBA, 0, len(freq))
	for cc := range freq {
		colors = append(colors, cc)
	}
	sort.Slice(colors, func(i, j int) bool {
		if freq[colors[i]] != freq[colors[j]] {
			return freq[colors[i]] > freq[colors[j]]
		}
		return packRGB(colors[i]) < packRGB(colors[j])
	})

	assigned := make(map[color.NRGBA]*palette.Block, len(colors))
	used := make(map[*palette.Block]bool)

	for _, cc := range colors {
		if block := nearestUnused(c.palette.Blocks(), cc, used); block != nil {
			assigned[cc] = block
			used[block] = true
		}
	}

	c.logger.Printf("assigned %d distinct blocks for %d colors", len(assigned), len(colors))

	return assigned, nil
}

func nearestUnused(blocks []*palette.Block, c color.NRGBA, used map[*palette.Block]bool) *palette.Block {
	var best *palette.Block
	bestDist := 0
	for _, b := range blocks {
		if used[b] {
			continue
		}
		if d := match.Distance(b.Color, c); best == nil || d < bestDist {
			best, bestDist = b, d
		}
	}
	return best
}

func packRGB(c color.NRGBA) uint32 {
	return uint32(c.R)<<16 | uint32(c.G)<<8 | uint32(c.B)
}
