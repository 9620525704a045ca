// Package fonts resolves tag font families and weights to OpenType faces.
//
// The embedded Go fonts are always available, so a Book works without any
// configuration. Extra faces (Montserrat, Inter, ...) can be registered from
// TTF/OTF files.
package fonts

import (
	"fmt"
	"os"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gomedium"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

type entry struct {
	weight int
	font   *opentype.Font
}

// Book maps family names to parsed fonts. Parsed fonts are shared; faces are
// created per call because a font.Face must not be used concurrently.
type Book struct {
	mu       sync.RWMutex
	families map[string][]entry
	fallback []entry
}

// NewBook returns a book whose fallback family is the embedded Go font.
func NewBook() (*Book, error) {
	b := &Book{families: make(map[string][]entry)}
	for _, f := range []struct {
		weight int
		data   []byte
	}{
		{400, goregular.TTF},
		{500, gomedium.TTF},
		{700, gobold.TTF},
	} {
		parsed, err := opentype.Parse(f.data)
		if err != nil {
			return nil, fmt.Errorf("parse embedded font: %w", err)
		}
		b.fallback = append(b.fallback, entry{f.weight, parsed})
	}
	return b, nil
}

// Register adds a face for family at weight from raw font data.
func (b *Book) Register(family string, weight int, data []byte) error {
	parsed, err := opentype.Parse(data)
	if err != nil {
		return fmt.Errorf("parse font %s %d: %w", family, weight, err)
	}
	b.mu.Lock()
	b.families[family] = append(b.families[family], entry{weight, parsed})
	b.mu.Unlock()
	return nil
}

// RegisterFile is Register for a font on disk.
func (b *Book) RegisterFile(family string, weight int, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read font %s: %w", path, err)
	}
	return b.Register(family, weight, data)
}

// Face returns a new face for family at the closest registered weight. Unknown
// families use the embedded Go font. size is in pixels (72 DPI).
func (b *Book) Face(family string, weight int, size float64) (font.Face, error) {
	best := b.pick(family, weight)
	face, err := opentype.NewFace(best.font, &opentype.FaceOptions{
		Size:    max(size, 1),
		DPI:     72,
		Hinting: font.HintingNone,
	})
	if err != nil {
		return nil, fmt.Errorf("create face %q %d at %.1fpx: %w", family, weight, size, err)
	}
	return face, nil
}

func (b *Book) pick(family string, weight int) entry {
	if weight == 0 {
		weight = 400
	}
	b.mu.RLock()
	candidates := b.families[family]
	b.mu.RUnlock()
	if len(candidates) == 0 {
		candidates = b.fallback
	}

	best := candidates[0]
	for _, c := range candidates[1:] {
		if abs(c.weight-weight) < abs(best.weight-weight) {
			best = c
		}
	}
	return best
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
