/*
Package match finds the palette block whose representative color is closest
to a given pixel color.

Distance is squared Euclidean over the R, G and B channels with equal
per-channel weight. That is a deliberate design choice, not an accident:
equal weights keep matching trivially reproducible, and palette sizes are
small enough that nothing fancier is warranted. Ties are broken by
first-encountered palette order, so repeated runs over the same palette are
byte-for-byte reproducible.
*/
package match

import (
	"errors"
	"image/color"

	"github.com/seutix/SkinBlockConverter/palette"
)

// ErrEmptyPalette is returned when matching is attempted before a usable
// palette exists.
var ErrEmptyPalette = errors.New("match: palette has no blocks")

// Cache maps an exact input color to a previously chosen block. Skins and
// capes repeat colors heavily, so an exact-color cache removes almost all
// distance scans. Implementations are not safe for concurrent use; share a
// palette across goroutines but give each its own Matcher.
type Cache interface {
	Get(c color.NRGBA) (*palette.Block, bool)
	Put(c color.NRGBA, b *palette.Block)
	Clear()
}

// MapCache is the default map-backed Cache.
type MapCache struct {
	m map[color.NRGBA]*palette.Block
}

// NewMapCache returns an empty MapCache.
func NewMapCache() *MapCache {
	return &MapCache{m: make(map[color.NRGBA]*palette.Block)}
}

func (c *MapCache) Get(k color.NRGBA) (*palette.Block, bool) {
	b, ok := c.m[k]
	return b, ok
}

func (c *MapCache) Put(k color.NRGBA, b *palette.Block) {
	c.m[k] = b
}

// Clear drops all entries. Must be called if the palette changes, as
// entries are only valid against the palette they were computed from.
func (c *MapCache) Clear() {
	c.m = make(map[color.NRGBA]*palette.Block)
}

// Len returns the number of cached colors.
func (c *MapCache) Len() int {
	return len(c.m)
}

// NopCache caches nothing, forcing a full scan on every lookup. Useful for
// exercising pure matching logic in tests.
type NopCache struct{}

func (NopCache) Get(color.NRGBA) (*palette.Block, bool) { return nil, false }
func (NopCache) Put(color.NRGBA, *palette.Block)        {}
func (NopCache) Clear()                                 {}

// Matcher searches a palette for the nearest block by representative color.
type Matcher struct {
	palette *palette.Palette
	cache   Cache
}

// New returns a Matcher over p. A nil cache defaults to a MapCache.
func New(p *palette.Palette, cache Cache) *Matcher {
	if cache == nil {
		cache = NewMapCache()
	}
	return &Matcher{
		palette: p,
		cache:   cache,
	}
}

// Match returns the block with the smallest squared Euclidean distance to
// c. The alpha channel is ignored. Repeated calls with the same color and
// an unchanged palette always return the same block.
func (m *Matcher) Match(c color.NRGBA) (*palette.Block, error) {
	if m.palette.Len() == 0 {
		return nil, ErrEmptyPalette
	}

	c.A = 0xff

	if b, ok := m.cache.Get(c); ok {
		return b, nil
	}

	b := Nearest(m.palette.Blocks(), c)
	m.cache.Put(c, b)

	return b, nil
}

// Clear empties the cache. Must be called if the palette is reloaded.
func (m *Matcher) Clear() {
	m.cache.Clear()
}

// Nearest scans blocks in order and returns the first one at minimal
// squared distance from c. The slice must be non-empty.
func Nearest(blocks []*palette.Block, c color.NRGBA) *palette.Block {
	best := blocks[0]
	bestDist := Distance(best.Color, c)
	for _, b := range blocks[1:] {
		if d := Distance(b.Color, c); d < bestDist {
			best, bestDist = b, d
		}
	}
	return best
}

// Distance returns the squared Euclidean distance between two colors over
// the R, G and B channels.
func Distance(a, b color.NRGBA) int {
	dr := int(a.R) - int(b.R)
	dg := int(a.G) - int(b.G)
	db := int(a.B) - int(b.B)
	return dr*dr + dg*dg + db*db
}
