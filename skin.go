package skinblock

import "image"

// SkinSizes are the accepted skin sheet geometries: the modern 64x64
// layout and the legacy 64x32 one.
var SkinSizes = []image.Point{{X: 64, Y: 64}, {X: 64, Y: 32}}

// ConvertSkin converts the skin at srcPath into a block mosaic at dstPath.
// Pixels below the alpha threshold produce fully transparent tiles so the
// sheet's cutout regions stay see-through instead of being rendered as an
// arbitrary matched block.
func (c *Converter) ConvertSkin(srcPath, dstPath string) error {
	c.logger.Printf("converting skin %q", srcPath)
	return c.renderer(SkinSizes).Convert(srcPath, dstPath, c.matcher.Match)
}
