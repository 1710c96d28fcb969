package skinblock

import (
	"github.com/seutix/SkinBlockConverter/match"
	"github.com/seutix/SkinBlockConverter/mosaic"
	"github.com/seutix/SkinBlockConverter/palette"
)

// The error surface consumed by callers (e.g. a GUI layer) is re-exported
// here so they only need this package to classify failures.
type (
	// PaletteLoadError means no usable palette could be built; no
	// conversion is possible until it is fixed.
	PaletteLoadError = palette.LoadError
	// GeometryError means the source dimensions are not in the accepted
	// set for the requested kind.
	GeometryError = mosaic.GeometryError
	// DecodeError means the source file is not a readable image.
	DecodeError = mosaic.DecodeError
	// OutputWriteError means the destination could not be encoded or
	// written.
	OutputWriteError = mosaic.WriteError
)

// ErrEmptyPalette is returned when matching is attempted before a usable
// palette exists.
var ErrEmptyPalette = match.ErrEmptyPalette
