/*
Package mosaic renders a small source raster as pixel art: every source
pixel becomes one tileSize x tileSize tile sampled from the block texture
matched to that pixel's color.

The renderer is a stateless-per-call pipeline over explicit inputs; the
accepted-geometry set and the color-to-block lookup are parameters, which
is what makes skins, capes and arbitrary bitmaps share one code path.
*/
package mosaic

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"os"
	"strings"

	xdraw "golang.org/x/image/draw"

	"github.com/seutix/SkinBlockConverter/palette"
)

// PickFunc maps an opaque source pixel color to the block to paint for it.
type PickFunc func(c color.NRGBA) (*palette.Block, error)

// GeometryError is returned when a source image's dimensions are not in
// the accepted set for the requested conversion kind.
type GeometryError struct {
	Path          string
	Width, Height int
	Accepted      []image.Point
}

func (e *GeometryError) Error() string {
	sizes := make([]string, len(e.Accepted))
	for i, p := range e.Accepted {
		sizes[i] = fmt.Sprintf("%dx%d", p.X, p.Y)
	}
	return fmt.Sprintf("mosaic: %q is %dx%d, expected one of %s",
		e.Path, e.Width, e.Height, strings.Join(sizes, ", "))
}

// DecodeError is returned when a source file cannot be read as an image.
type DecodeError struct {
	Path string
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("mosaic: cannot decode %q: %v", e.Path, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// WriteError is returned when the output image cannot be encoded or
// written to its destination path.
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("mosaic: cannot write %q: %v", e.Path, e.Err)
}

func (e *WriteError) Unwrap() error {
	return e.Err
}

// Renderer converts source rasters into block mosaics.
type Renderer struct {
	// TileSize is the output edge length of each source pixel.
	TileSize int
	// AlphaThreshold is the minimum alpha for a source pixel to be
	// painted; anything below it leaves a fully transparent tile.
	AlphaThreshold uint8
	// Accepted lists the allowed source dimensions. Empty means any size.
	Accepted []image.Point
}

// Convert decodes srcPath, renders its mosaic and writes it to dstPath as
// a PNG. Exactly one file is written and only after the full raster has
// been computed in memory, so no partial output is ever left on disk.
func (r *Renderer) Convert(srcPath, dstPath string, pick PickFunc) error {
	src, err := r.Decode(srcPath)
	if err != nil {
		return err
	}

	out, err := r.Render(src, pick)
	if err != nil {
		return err
	}

	return r.WriteFile(dstPath, out)
}

// Decode reads and validates a source image. Geometry is checked before
// any pixel is converted.
func (r *Renderer) Decode(path string) (*image.NRGBA, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &DecodeError{Path: path, Err: err}
	}
	defer f.Close()

	m, _, err := image.Decode(f)
	if err != nil {
		return nil, &DecodeError{Path: path, Err: err}
	}

	b := m.Bounds()
	if err := r.checkGeometry(path, b.Dx(), b.Dy()); err != nil {
		return nil, err
	}

	src := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(src, src.Bounds(), m, b.Min, draw.Src)

	return src, nil
}

func (r *Renderer) checkGeometry(path string, w, h int) error {
	if len(r.Accepted) == 0 {
		return nil
	}
	for _, p := range r.Accepted {
		if w == p.X && h == p.Y {
			return nil
		}
	}
	return &GeometryError{Path: path, Width: w, Height: h, Accepted: r.Accepted}
}

// Render builds the mosaic raster for src. Output dimensions are the
// source dimensions multiplied by the tile size.
func (r *Renderer) Render(src *image.NRGBA, pick PickFunc) (*image.NRGBA, error) {
	ts := r.TileSize
	if ts <= 0 {
		ts = palette.DefaultTileSize
	}

	b := src.Bounds()
	out := image.NewNRGBA(image.Rect(0, 0, b.Dx()*ts, b.Dy()*ts))

	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			c := src.NRGBAAt(b.Min.X+x, b.Min.Y+y)
			if c.A < r.AlphaThreshold {
				continue
			}

			block, err := pick(c)
			if err != nil {
				return nil, err
			}

			tile := image.Rect(x*ts, y*ts, (x+1)*ts, (y+1)*ts)
			xdraw.NearestNeighbor.Scale(out, tile, block.Texture, block.Texture.Bounds(), xdraw.Src, nil)
		}
	}

	return out, nil
}

// WriteFile encodes m as a PNG into memory and writes it to path in a
// single call.
func (r *Renderer) WriteFile(path string, m image.Image) error {
	var buf bytes.Buffer
	if err := png.Encode(&buf, m); err != nil {
		return &WriteError{Path: path, Err: err}
	}

	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return &WriteError{Path: path, Err: err}
	}

	return nil
}
