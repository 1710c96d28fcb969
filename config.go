package skinblock

import (
	"fmt"
	"image/color"
	"os"

	colorful "github.com/lucasb-eyer/go-colorful"
	"gopkg.in/yaml.v3"

	"github.com/seutix/SkinBlockConverter/palette"
)

// Options is the full configuration surface of the converter. All fields
// have working defaults; a YAML file only needs to name the ones it
// changes.
type Options struct {
	// BlocksDir is the directory of block textures used as the palette.
	BlocksDir string `yaml:"blocks_dir"`
	// TileSize is the output edge length of each source pixel.
	TileSize int `yaml:"tile_size"`
	// AlphaThreshold is the minimum alpha for a pixel to count as opaque.
	// Pixels below it are dropped entirely; there is no blending.
	AlphaThreshold uint8 `yaml:"alpha_threshold"`
	// Strategy names the representative-color computation: "mean",
	// "quantize" or "dominant".
	Strategy string `yaml:"strategy"`
	// FallbackColor is the hex color assumed for fully transparent block
	// textures.
	FallbackColor string `yaml:"fallback_color"`
	// IndexFile, when set, is a sqlite database caching representative
	// colors between sessions.
	IndexFile string `yaml:"index_file"`
	// Workers bounds the number of concurrent conversions in batch mode.
	Workers int `yaml:"workers"`
	// DistinctCapeBlocks assigns a different block to every distinct cape
	// color instead of plain nearest matching.
	DistinctCapeBlocks bool `yaml:"distinct_cape_blocks"`
}

// DefaultOptions returns the built-in defaults.
func DefaultOptions() Options {
	return Options{
		BlocksDir:      "blocks",
		TileSize:       palette.DefaultTileSize,
		AlphaThreshold: palette.DefaultAlphaThreshold,
		Strategy:       string(palette.StrategyMean),
		FallbackColor:  "#808080",
		Workers:        4,
	}
}

// ReadOptions reads a YAML options file, overlaying it onto the defaults.
func ReadOptions(path string) (Options, error) {
	opts := DefaultOptions()

	data, err := os.ReadFile(path)
	if err != nil {
		return opts, fmt.Errorf("skinblock: cannot read options %q: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &opts); err != nil {
		return opts, fmt.Errorf("skinblock: cannot parse options %q: %w", path, err)
	}

	return opts, nil
}

// WriteOptions writes opts to a YAML file.
func WriteOptions(path string, opts Options) error {
	data, err := yaml.Marshal(opts)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

func (o Options) fallback() (color.NRGBA, error) {
	if o.FallbackColor == "" {
		return palette.DefaultFallback, nil
	}
	c, err := colorful.Hex(o.FallbackColor)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("skinblock: invalid fallback color %q: %v", o.FallbackColor, err)
	}
	r, g, b := c.RGB255()
	return color.NRGBA{r, g, b, 0xff}, nil
}
