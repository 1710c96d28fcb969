package skinblock

import (
	"image"
	"image/color"

	qrcode "github.com/skip2/go-qrcode"
)

// ConvertQR renders a QR code for content as a block mosaic at dstPath.
// The dark and light modules are matched through the palette like any
// other pixel, so the result scans as long as the palette contains
// sufficiently dark and light blocks.
func (c *Converter) ConvertQR(content, dstPath string) error {
	q, err := qrcode.New(content, qrcode.Medium)
	if err != nil {
		return err
	}

	bitmap := q.Bitmap()
	n := len(bitmap)

	src := image.NewNRGBA(image.Rect(0, 0, n, n))
	for y, row := range bitmap {
		for x, dark := range row {
			if dark {
				src.SetNRGBA(x, y, color.NRGBA{0x00, 0x00, 0x00, 0xff})
			} else {
				src.SetNRGBA(x, y, color.NRGBA{0xff, 0xff, 0xff, 0xff})
			}
		}
	}

	c.logger.Printf("rendering %dx%d QR mosaic", n, n)

	// Any geometry is fine here; the bitmap size depends on the content.
	r := c.renderer(nil)

	out, err := r.Render(src, c.matcher.Match)
	if err != nil {
		return err
	}

	return r.WriteFile(dstPath, out)
}
