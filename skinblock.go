/*
Package skinblock converts Minecraft skin and cape textures into pixel-art
mosaics in which every source pixel is replaced by the best-matching tile
from a palette of block textures.

The palette is built once per session and shared; each conversion is a
stateless pipeline from a source path to a destination path.
*/
package skinblock

import (
	"image"
	"io"
	"log"
	"path/filepath"
	"strings"

	"github.com/seutix/SkinBlockConverter/match"
	"github.com/seutix/SkinBlockConverter/mosaic"
	"github.com/seutix/SkinBlockConverter/palette"
)

// Converter owns the loaded palette and matcher for one session.
type Converter struct {
	opts    Options
	palette *palette.Palette
	matcher *match.Matcher
	index   *palette.Index
	logger  *log.Logger
}

// New loads the block palette per opts and returns a ready Converter. A
// palette that cannot be loaded is fatal for the whole session. A nil
// logger discards all output.
func New(opts Options, logger *log.Logger) (*Converter, error) {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}

	fallback, err := opts.fallback()
	if err != nil {
		return nil, err
	}

	var index *palette.Index
	if opts.IndexFile != "" {
		if index, err = palette.OpenIndex(opts.IndexFile); err != nil {
			return nil, err
		}
	}

	p, err := palette.Load(opts.BlocksDir, palette.Options{
		TileSize:       opts.TileSize,
		AlphaThreshold: opts.AlphaThreshold,
		Strategy:       palette.Strategy(opts.Strategy),
		Fallback:       fallback,
		Index:          index,
		Logger:         logger,
	})
	if err != nil {
		if index != nil {
			index.Close()
		}
		return nil, err
	}

	logger.Printf("loaded %d block textures from %q", p.Len(), opts.BlocksDir)

	return &Converter{
		opts:    opts,
		palette: p,
		matcher: match.New(p, nil),
		index:   index,
		logger:  logger,
	}, nil
}

// Close releases the color index, if one is open.
func (c *Converter) Close() error {
	if c.index != nil {
		return c.index.Close()
	}
	return nil
}

// Palette returns the loaded block palette.
func (c *Converter) Palette() *palette.Palette {
	return c.palette
}

func (c *Converter) renderer(accepted []image.Point) *mosaic.Renderer {
	return &mosaic.Renderer{
		TileSize:       c.opts.TileSize,
		AlphaThreshold: c.opts.AlphaThreshold,
		Accepted:       accepted,
	}
}

// OutputPath derives the default destination path for a source image:
// the source path with a _pixelart suffix and a .png extension.
func OutputPath(src string) string {
	ext := filepath.Ext(src)
	return strings.TrimSuffix(src, ext) + "_pixelart.png"
}
