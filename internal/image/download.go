package imagepkg

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp"

	"github.com/youruser/tagstamp/internal/cache"
	"github.com/youruser/tagstamp/internal/util"
)

// ErrUnsupportedSource is returned for URLs the loader will not fetch.
var ErrUnsupportedSource = errors.New("unsupported image source")

// Loader downloads and decodes images for the compositor. Requests never carry
// cookies or auth headers, so anything it returns can be re-encoded freely.
type Loader struct {
	client     *http.Client
	cache      cache.Cache
	ttl        time.Duration
	maxBytes   int64
	userAgent  string
	localFiles bool
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

func WithHTTPClient(c *http.Client) LoaderOption {
	return func(l *Loader) { l.client = c }
}

// WithCache stores downloaded bytes in c for ttl.
func WithCache(c cache.Cache, ttl time.Duration) LoaderOption {
	return func(l *Loader) {
		l.cache = c
		l.ttl = ttl
	}
}

func WithMaxBytes(n int64) LoaderOption {
	return func(l *Loader) { l.maxBytes = n }
}

func WithUserAgent(ua string) LoaderOption {
	return func(l *Loader) { l.userAgent = ua }
}

// WithLocalFiles lets plain paths and file:// URLs load from disk. The CLI
// enables it; the HTTP server does not.
func WithLocalFiles(on bool) LoaderOption {
	return func(l *Loader) { l.localFiles = on }
}

// NewLoader returns a loader with a 10s client timeout and no cache.
func NewLoader(opts ...LoaderOption) *Loader {
	l := &Loader{
		client:   &http.Client{Timeout: 10 * time.Second},
		cache:    cache.NewNullCache(),
		maxBytes: 20 << 20,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// LoadImage fetches and decodes src, honouring EXIF orientation.
func (l *Loader) LoadImage(ctx context.Context, src string) (image.Image, error) {
	data, err := l.Bytes(ctx, src)
	if err != nil {
		return nil, err
	}
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", shorten(src), err)
	}
	return img, nil
}

// Bytes returns the raw bytes behind src: http(s), data: or, when enabled, a
// local file.
func (l *Loader) Bytes(ctx context.Context, src string) ([]byte, error) {
	switch {
	case strings.HasPrefix(src, "data:"):
		return decodeDataURL(src)
	case strings.HasPrefix(src, "http://"), strings.HasPrefix(src, "https://"):
		return l.download(ctx, src)
	case l.localFiles:
		return os.ReadFile(strings.TrimPrefix(src, "file://"))
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupportedSource, shorten(src))
}

func (l *Loader) download(ctx context.Context, src string) ([]byte, error) {
	key := cache.ImageKey(src)
	if data, hit, err := l.cache.Get(ctx, key); err == nil && hit {
		return data, nil
	}
	data, err := util.GetBytes(ctx, l.client, src, l.userAgent, l.maxBytes)
	if err != nil {
		return nil, fmt.Errorf("download %s: %w", src, err)
	}
	// a failing cache only costs a re-download next time
	_ = l.cache.Set(ctx, key, data, l.ttl)
	return data, nil
}

// decodeDataURL handles data:[<mediatype>][;base64],<data>.
func decodeDataURL(src string) ([]byte, error) {
	meta, payload, ok := strings.Cut(strings.TrimPrefix(src, "data:"), ",")
	if !ok {
		return nil, fmt.Errorf("%w: malformed data url", ErrUnsupportedSource)
	}
	if strings.HasSuffix(meta, ";base64") {
		return base64.StdEncoding.DecodeString(payload)
	}
	s, err := url.PathUnescape(payload)
	if err != nil {
		return nil, err
	}
	return []byte(s), nil
}

func shorten(s string) string {
	if len(s) > 64 {
		return s[:61] + "..."
	}
	return s
}
