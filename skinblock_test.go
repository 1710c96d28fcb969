package skinblock

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func solid(w, h int, c color.NRGBA) *image.NRGBA {
	m := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			m.SetNRGBA(x, y, c)
		}
	}
	return m
}

func writePNG(t *testing.T, path string, m image.Image) {
	t.Helper()

	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, m))
	require.NoError(t, f.Close())
}

// blocksDir writes a small palette of solid block textures.
func blocksDir(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	for name, c := range map[string]color.NRGBA{
		"black.png": {0x00, 0x00, 0x00, 0xff},
		"white.png": {0xff, 0xff, 0xff, 0xff},
		"red.png":   {0xff, 0x00, 0x00, 0xff},
		"gray.png":  {0x80, 0x80, 0x80, 0xff},
	} {
		writePNG(t, filepath.Join(dir, name), solid(16, 16, c))
	}
	return dir
}

func testConverter(t *testing.T) *Converter {
	t.Helper()

	opts := DefaultOptions()
	opts.BlocksDir = blocksDir(t)

	c, err := New(opts, nil)
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })

	return c
}

func decodePNG(t *testing.T, path string) *image.NRGBA {
	t.Helper()

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	m, err := png.Decode(f)
	require.NoError(t, err)

	out := image.NewNRGBA(m.Bounds())
	for y := m.Bounds().Min.Y; y < m.Bounds().Max.Y; y++ {
		for x := m.Bounds().Min.X; x < m.Bounds().Max.X; x++ {
			out.Set(x, y, m.At(x, y))
		}
	}
	return out
}

func TestNewFailsWithoutPalette(t *testing.T) {
	opts := DefaultOptions()
	opts.BlocksDir = filepath.Join(t.TempDir(), "missing")

	_, err := New(opts, nil)

	var le *PaletteLoadError
	require.ErrorAs(t, err, &le)
}

func TestConvertSkin(t *testing.T) {
	c := testConverter(t)

	dir := t.TempDir()
	skin := solid(64, 64, color.NRGBA{0xfe, 0x00, 0x00, 0xff})
	// Transparent cutout region, as around limbs on a real sheet
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			skin.SetNRGBA(x, y, color.NRGBA{0x00, 0x00, 0x00, 0x00})
		}
	}
	src := filepath.Join(dir, "skin.png")
	writePNG(t, src, skin)

	dst := filepath.Join(dir, "out.png")
	require.NoError(t, c.ConvertSkin(src, dst))

	out := decodePNG(t, dst)
	require.Equal(t, 64*16, out.Bounds().Dx())
	require.Equal(t, 64*16, out.Bounds().Dy())

	// The cutout maps to fully transparent tiles, never a painted block
	for y := 0; y < 8*16; y += 16 {
		for x := 0; x < 8*16; x += 16 {
			assert.Equal(t, uint8(0), out.NRGBAAt(x, y).A)
		}
	}

	// An opaque red pixel maps to the red block's texture
	assert.Equal(t, color.NRGBA{0xff, 0x00, 0x00, 0xff}, out.NRGBAAt(32*16, 32*16))
}

func TestConvertSkinLegacyFormat(t *testing.T) {
	c := testConverter(t)

	dir := t.TempDir()
	src := filepath.Join(dir, "legacy.png")
	writePNG(t, src, solid(64, 32, color.NRGBA{0xff, 0xff, 0xff, 0xff}))

	dst := filepath.Join(dir, "out.png")
	require.NoError(t, c.ConvertSkin(src, dst))

	out := decodePNG(t, dst)
	assert.Equal(t, 1024, out.Bounds().Dx())
	assert.Equal(t, 512, out.Bounds().Dy())
}

func TestConvertSkinRejectsOtherSizes(t *testing.T) {
	c := testConverter(t)

	dir := t.TempDir()
	src := filepath.Join(dir, "bad.png")
	writePNG(t, src, solid(63, 64, color.NRGBA{0xff, 0xff, 0xff, 0xff}))

	err := c.ConvertSkin(src, filepath.Join(dir, "out.png"))

	var ge *GeometryError
	require.ErrorAs(t, err, &ge)
	assert.NoFileExists(t, filepath.Join(dir, "out.png"))
}

func TestConvertSkinDeterministic(t *testing.T) {
	c := testConverter(t)

	dir := t.TempDir()
	src := filepath.Join(dir, "skin.png")
	writePNG(t, src, solid(64, 64, color.NRGBA{0x7f, 0x7f, 0x7f, 0xff}))

	first := filepath.Join(dir, "first.png")
	second := filepath.Join(dir, "second.png")
	require.NoError(t, c.ConvertSkin(src, first))
	require.NoError(t, c.ConvertSkin(src, second))

	a, err := os.ReadFile(first)
	require.NoError(t, err)
	b, err := os.ReadFile(second)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestConvertCape(t *testing.T) {
	c := testConverter(t)

	dir := t.TempDir()
	for _, size := range CapeSizes {
		src := filepath.Join(dir, "cape.png")
		writePNG(t, src, solid(size.X, size.Y, color.NRGBA{0x10, 0x10, 0x10, 0xff}))

		dst := filepath.Join(dir, "out.png")
		require.NoError(t, c.ConvertCape(src, dst))

		out := decodePNG(t, dst)
		assert.Equal(t, size.X*16, out.Bounds().Dx())
		assert.Equal(t, size.Y*16, out.Bounds().Dy())
	}
}

func TestConvertCapeRejectsSkinSize(t *testing.T) {
	c := testConverter(t)

	dir := t.TempDir()
	src := filepath.Join(dir, "cape.png")
	writePNG(t, src, solid(64, 64, color.NRGBA{0x10, 0x10, 0x10, 0xff}))

	err := c.ConvertCape(src, filepath.Join(dir, "out.png"))

	var ge *GeometryError
	require.ErrorAs(t, err, &ge)
}

func TestConvertCapeDistinctBlocks(t *testing.T) {
	opts := DefaultOptions()
	opts.BlocksDir = blocksDir(t)
	opts.DistinctCapeBlocks = true

	c, err := New(opts, nil)
	require.NoError(t, err)
	defer c.Close()

	// Two near-black colors that plain matching would both send to the
	// black block.
	dir := t.TempDir()
	cape := solid(22, 17, color.NRGBA{0x00, 0x00, 0x00, 0xff})
	cape.SetNRGBA(0, 0, color.NRGBA{0x05, 0x05, 0x05, 0xff})
	src := filepath.Join(dir, "cape.png")
	writePNG(t, src, cape)

	dst := filepath.Join(dir, "out.png")
	require.NoError(t, c.ConvertCape(src, dst))

	out := decodePNG(t, dst)
	rare := out.NRGBAAt(0, 0)
	common := out.NRGBAAt(16, 0)

	assert.Equal(t, color.NRGBA{0x00, 0x00, 0x00, 0xff}, common)
	assert.NotEqual(t, common, rare)
}

func TestConvertQR(t *testing.T) {
	c := testConverter(t)

	dst := filepath.Join(t.TempDir(), "qr.png")
	require.NoError(t, c.ConvertQR("https://example.com", dst))

	out := decodePNG(t, dst)
	require.NotZero(t, out.Bounds().Dx())
	assert.Equal(t, out.Bounds().Dx(), out.Bounds().Dy())
	assert.Zero(t, out.Bounds().Dx()%16)
}

func TestBatch(t *testing.T) {
	opts := DefaultOptions()
	opts.BlocksDir = blocksDir(t)
	opts.Workers = 2

	c, err := New(opts, nil)
	require.NoError(t, err)
	defer c.Close()

	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "skin.png"), solid(64, 64, color.NRGBA{0xff, 0x00, 0x00, 0xff}))
	writePNG(t, filepath.Join(dir, "cape.png"), solid(22, 17, color.NRGBA{0x00, 0x00, 0x00, 0xff}))
	writePNG(t, filepath.Join(dir, "photo.png"), solid(100, 80, color.NRGBA{0x00, 0xff, 0x00, 0xff}))

	require.NoError(t, c.Batch(dir))

	assert.FileExists(t, filepath.Join(dir, "skin_pixelart.png"))
	assert.FileExists(t, filepath.Join(dir, "cape_pixelart.png"))
	assert.NoFileExists(t, filepath.Join(dir, "photo_pixelart.png"))
}

func TestOutputPath(t *testing.T) {
	assert.Equal(t, "skin_pixelart.png", OutputPath("skin.png"))
	assert.Equal(t, filepath.Join("a", "b", "cape_pixelart.png"), OutputPath(filepath.Join("a", "b", "cape.jpg")))
}
