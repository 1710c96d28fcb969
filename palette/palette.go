/*
Package palette loads a directory of Minecraft block textures and computes
one representative color per block. The resulting palette is the search
space for nearest-color matching; block order is the sorted directory
order so matching results are reproducible across runs.
*/
package palette

import (
	"crypto/sha1"
	"errors"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/nfnt/resize"
)

// DefaultTileSize is the edge length in pixels of each block tile in the
// mosaic output, matching the common 16x16 Minecraft block texture.
const DefaultTileSize = 16

// DefaultAlphaThreshold is the alpha value at or above which a pixel is
// considered opaque. Pixels below it are excluded from representative color
// computation and rendered as fully transparent in the mosaic. There is no
// blending for intermediate alpha values.
const DefaultAlphaThreshold = 128

// DefaultFallback is the representative color assumed for a fully
// transparent block texture.
var DefaultFallback = color.NRGBA{0x80, 0x80, 0x80, 0xff}

// Block is one palette entry: a named block texture and its representative
// color. The texture is scaled to the configured tile size at load time and
// is read-only afterwards.
type Block struct {
	Name    string
	Color   color.NRGBA
	Texture image.Image
}

// Palette is an ordered collection of blocks built once per session.
type Palette struct {
	blocks []*Block
}

// New builds a palette directly from blocks, in the given order. It is
// mostly useful for tests; Load is the normal constructor.
func New(blocks ...*Block) *Palette {
	return &Palette{blocks: blocks}
}

// Blocks returns the loaded blocks in palette order.
func (p *Palette) Blocks() []*Block {
	return p.blocks
}

// Len returns the number of loaded blocks.
func (p *Palette) Len() int {
	return len(p.blocks)
}

// LoadError is returned when a palette cannot be built at all: the
// directory is missing or unreadable, or no texture in it could be decoded.
type LoadError struct {
	Dir string
	Err error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("palette: cannot load blocks from %q: %v", e.Dir, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// Options control how a palette is loaded.
type Options struct {
	// TileSize is the edge length textures are normalized to.
	TileSize int
	// AlphaThreshold is the minimum alpha for a pixel to count as opaque.
	// Zero means DefaultAlphaThreshold; a threshold of literally zero is
	// not representable, matching TileSize.
	AlphaThreshold uint8
	// Strategy selects the representative color computation.
	Strategy Strategy
	// Fallback is used for fully transparent textures. The zero value
	// means DefaultFallback, so a fully transparent fallback is not
	// representable.
	Fallback color.NRGBA
	// Index, when non-nil, caches representative colors keyed by texture
	// content so they are only recomputed when a texture changes.
	Index *Index
	// Logger receives a warning per skipped file. Defaults to the standard
	// logger when nil.
	Logger *log.Logger
}

// DefaultOptions returns the options used when a zero Options is passed to
// Load.
func DefaultOptions() Options {
	return Options{
		TileSize:       DefaultTileSize,
		AlphaThreshold: DefaultAlphaThreshold,
		Strategy:       StrategyMean,
		Fallback:       DefaultFallback,
	}
}

func (o *Options) setDefaults() {
	if o.TileSize <= 0 {
		o.TileSize = DefaultTileSize
	}
	if o.AlphaThreshold == 0 {
		o.AlphaThreshold = DefaultAlphaThreshold
	}
	if o.Strategy == "" {
		o.Strategy = StrategyMean
	}
	if o.Fallback == (color.NRGBA{}) {
		o.Fallback = DefaultFallback
	}
	if o.Logger == nil {
		o.Logger = log.New(os.Stderr, "", log.LstdFlags)
	}
}

func recognized(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".png", ".jpg", ".jpeg", ".gif":
		return true
	}
	return false
}

// Load scans dir for recognized texture files and builds a palette. Files
// that fail to decode are skipped with a warning; Load fails only if the
// directory is unreadable or no texture loads at all.
func Load(dir string, opts Options) (*Palette, error) {
	opts.setDefaults()

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, &LoadError{Dir: dir, Err: err}
	}

	p := &Palette{}
	for _, entry := range entries {
		if entry.IsDir() || !recognized(entry.Name()) {
			continue
		}

		file := filepath.Join(dir, entry.Name())
		block, err := loadBlock(file, opts)
		if err != nil {
			opts.Logger.Printf("skipping block texture %q: %v", file, err)
			continue
		}
		p.blocks = append(p.blocks, block)
	}

	if len(p.blocks) == 0 {
		return nil, &LoadError{Dir: dir, Err: errNoBlocks}
	}

	return p, nil
}

var errNoBlocks = errors.New("no usable block textures")

func loadBlock(file string, opts Options) (*Block, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	h := sha1.New()
	m, _, err := image.Decode(io.TeeReader(f, h))
	if err != nil {
		return nil, err
	}
	sha := fmt.Sprintf("%X", h.Sum(nil))

	c, err := cachedColor(sha, m, opts)
	if err != nil {
		return nil, err
	}

	name := strings.TrimSuffix(filepath.Base(file), filepath.Ext(file))

	return &Block{
		Name:    name,
		Color:   c,
		Texture: normalize(m, opts.TileSize),
	}, nil
}

func cachedColor(sha string, m image.Image, opts Options) (color.NRGBA, error) {
	if opts.Index != nil {
		if c, ok, err := opts.Index.Get(sha, opts.Strategy); err != nil {
			return color.NRGBA{}, err
		} else if ok {
			return c, nil
		}
	}

	c, err := Representative(m, opts.Strategy, opts.AlphaThreshold, opts.Fallback)
	if err != nil {
		return color.NRGBA{}, err
	}

	if opts.Index != nil {
		if err := opts.Index.Put(sha, opts.Strategy, c); err != nil {
			return color.NRGBA{}, err
		}
	}

	return c, nil
}

// normalize scales a texture to size x size so the renderer can paint tiles
// with a plain copy.
func normalize(m image.Image, size int) image.Image {
	b := m.Bounds()
	if b.Dx() == size && b.Dy() == size {
		return m
	}
	return resize.Resize(uint(size), uint(size), m, resize.NearestNeighbor)
}
