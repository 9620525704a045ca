// Package stamp runs the whole pipeline for one photo: compose the tag for
// the photo's geometry, draw it, encode the result.
package stamp

import (
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"strings"

	"github.com/disintegration/imaging"

	imagepkg "github.com/youruser/tagstamp/internal/image"
	"github.com/youruser/tagstamp/internal/tag"
)

// ErrNoGeometry is returned for photos too degenerate to carry a tag.
var ErrNoGeometry = errors.New("photo has no usable geometry")

// ErrFormat is returned by ParseFormat for encodings other than PNG and JPEG.
var ErrFormat = errors.New("unsupported output format")

type Stamper struct {
	compositor *tag.Compositor
	renderer   *imagepkg.Renderer
}

func New(c *tag.Compositor, r *imagepkg.Renderer) *Stamper {
	return &Stamper{compositor: c, renderer: r}
}

// Stamp draws the tag for p onto photo and returns the new raster together
// with the group that was drawn.
func (s *Stamper) Stamp(ctx context.Context, photo image.Image, p tag.Profile, v tag.Variant) (image.Image, *tag.Group, error) {
	bg := tag.BackgroundFor(photo.Bounds())
	g := s.compositor.Compose(ctx, bg, p, v)
	if g == nil {
		return nil, nil, ErrNoGeometry
	}
	out, err := s.renderer.Render(photo, bg, g)
	if err != nil {
		return nil, nil, fmt.Errorf("render: %w", err)
	}
	return out, g, nil
}

// ParseFormat accepts png, jpg and jpeg, with or without a leading dot. An
// empty name means PNG.
func ParseFormat(name string) (imaging.Format, error) {
	if strings.TrimSpace(name) == "" {
		return imaging.PNG, nil
	}
	f, err := imaging.FormatFromExtension(strings.TrimSpace(name))
	if err != nil || (f != imaging.PNG && f != imaging.JPEG) {
		return 0, fmt.Errorf("%w: %q", ErrFormat, name)
	}
	return f, nil
}

// ContentType is the MIME type for a format returned by ParseFormat.
func ContentType(f imaging.Format) string {
	if f == imaging.JPEG {
		return "image/jpeg"
	}
	return "image/png"
}

// Extension is the file suffix written by the CLI for f.
func Extension(f imaging.Format) string {
	if f == imaging.JPEG {
		return ".jpg"
	}
	return ".png"
}

func Encode(w io.Writer, img image.Image, f imaging.Format) error {
	return imaging.Encode(w, img, f, imaging.JPEGQuality(90))
}
