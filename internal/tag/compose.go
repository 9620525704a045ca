// Package tag builds the agent identity tag that is stamped onto listing
// photos.
//
// A tag is authored in a fixed 450×130 logical space. Compose picks the
// template for a Variant, fetches the avatar and logo concurrently, rescales
// every element by one factor derived from the photo's displayed width and
// returns the elements as a Group positioned in scene coordinates.
package tag

import (
	"context"
	"errors"
	"image"
	"sync"
	"time"

	"github.com/youruser/tagstamp/internal/logging"
)

// ImageLoader fetches a raster by URL. Implementations must not send
// credentials, so the result can later be encoded without restriction.
type ImageLoader interface {
	LoadImage(ctx context.Context, url string) (image.Image, error)
}

// Anchor decides where the group's centre lands on the photo.
type Anchor int

const (
	// AnchorCorner centres the tag on the photo's top-left corner. This is the
	// long-standing placement and leaves most of the tag outside the photo.
	AnchorCorner Anchor = iota
	// AnchorInset keeps the whole tag inside the bottom-left corner.
	AnchorInset
)

// Group is a composed tag. It owns its elements; Left/Top is where the
// elements' shared origin sits in scene coordinates.
type Group struct {
	Left, Top     float64
	Scale         float64
	Width, Height float64
	Variant       Variant
	Elements      []Element
}

// Compositor turns a background and a profile into a Group. It holds no
// per-call state and is safe for concurrent use.
type Compositor struct {
	loader         ImageLoader
	timeout        time.Duration
	anchor         Anchor
	margin         float64
	avatarFallback string
}

// Option configures a Compositor.
type Option func(*Compositor)

// WithImageTimeout bounds each avatar or logo fetch. A fetch that runs out
// of time is treated like a failed one.
func WithImageTimeout(d time.Duration) Option {
	return func(c *Compositor) { c.timeout = d }
}

// WithAnchor selects the group placement. margin is a fraction of the photo's
// displayed width and only applies to AnchorInset.
func WithAnchor(a Anchor, margin float64) Option {
	return func(c *Compositor) {
		c.anchor = a
		c.margin = margin
	}
}

// WithAvatarFallback replaces the default avatar used for profiles without one.
func WithAvatarFallback(url string) Option {
	return func(c *Compositor) { c.avatarFallback = url }
}

// New returns a Compositor fetching images through loader. A nil loader
// yields tags without avatar or logo.
func New(loader ImageLoader, opts ...Option) *Compositor {
	c := &Compositor{loader: loader}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Compose builds the tag for bg. It returns nil when the background has no
// usable width, height or scale; callers should skip such photos. Image
// failures never surface: the affected slot is left out. A nil v is a
// programming error and panics; strings become variants via ParseVariant.
func (c *Compositor) Compose(ctx context.Context, bg Background, p Profile, v Variant) *Group {
	mustVariant(v)
	geo, ok := DeriveGeometry(bg)
	if !ok {
		logging.FromContext(ctx).Debug("background geometry undetermined, skipping",
			"width", bg.Width, "height", bg.Height, "scaleX", bg.ScaleX)
		return nil
	}
	if p.AvatarURL == "" && c.avatarFallback != "" {
		p.AvatarURL = c.avatarFallback
	}

	elements := c.resolve(ctx, v.layout(p))
	for _, e := range elements {
		e.Place().rescale(geo.TagScale)
	}

	g := &Group{
		Left:     geo.OriginLeft,
		Top:      geo.OriginTop,
		Scale:    geo.TagScale,
		Width:    TagWidth * geo.TagScale,
		Height:   TagHeight * geo.TagScale,
		Variant:  v,
		Elements: elements,
	}
	if c.anchor == AnchorInset {
		m := c.margin * geo.ActualWidth
		g.Left = geo.OriginLeft + m + g.Width/2
		g.Top = geo.OriginTop + geo.ActualHeight - m - g.Height/2
	}
	return g
}

// resolve fetches every slot concurrently and waits for all of them. Slots
// that fail are dropped; the order of the remaining elements is kept.
func (c *Compositor) resolve(ctx context.Context, elements []Element) []Element {
	logger := logging.FromContext(ctx)
	settled := make([]Element, len(elements))

	var wg sync.WaitGroup
	for i, e := range elements {
		slot, ok := e.(*Slot)
		if !ok {
			settled[i] = e
			continue
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			src, err := c.fetch(ctx, slot.URL)
			if err != nil {
				logger.Debug("image slot dropped", "role", slot.Role, "url", slot.URL, "err", err)
				return
			}
			settled[i] = slot.fill(src)
		}()
	}
	wg.Wait()

	out := make([]Element, 0, len(settled))
	for _, e := range settled {
		if e != nil {
			out = append(out, e)
		}
	}
	return out
}

var (
	errNoLoader = errors.New("no image loader configured")
	errNoImage  = errors.New("loader returned no image")
)

type loaded struct {
	src image.Image
	err error
}

// fetch returns as soon as ctx is done even if the loader ignores it; the
// loader's goroutine finishes on its own and its result is discarded.
func (c *Compositor) fetch(ctx context.Context, url string) (image.Image, error) {
	if c.loader == nil {
		return nil, errNoLoader
	}
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	done := make(chan loaded, 1)
	go func() {
		src, err := c.loader.LoadImage(ctx, url)
		done <- loaded{src, err}
	}()

	select {
	case r := <-done:
		if r.err != nil {
			return nil, r.err
		}
		if r.src == nil {
			return nil, errNoImage
		}
		return r.src, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
