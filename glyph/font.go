// Package glyph rasterizes characters from TrueType fonts into grayscale
// cells. It renders catalog characters at the 8x16 cell size and source
// text at arbitrary sizes for large-text rendering.
package glyph

import (
	"fmt"
	"os"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font/gofont/gomono"
)

// LoadFont loads a TrueType font from file. An empty path selects the
// embedded Go Mono font.
func LoadFont(path string) (*truetype.Font, error) {
	if path == "" {
		return DefaultFont(), nil
	}

	fontBytes, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read font: %w", err)
	}

	f, err := truetype.Parse(fontBytes)
	if err != nil {
		return nil, fmt.Errorf("failed to parse font %s: %w", path, err)
	}
	return f, nil
}

// DefaultFont returns the embedded Go Mono font.
func DefaultFont() *truetype.Font {
	f, err := truetype.Parse(gomono.TTF)
	if err != nil {
		// gomono.TTF is compiled in; failure means a broken build.
		panic(err)
	}
	return f
}
