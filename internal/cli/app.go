package cli

import (
	"context"
	"fmt"
	"net/http"

	"github.com/youruser/tagstamp/internal/cache"
	"github.com/youruser/tagstamp/internal/config"
	"github.com/youruser/tagstamp/internal/fonts"
	imagepkg "github.com/youruser/tagstamp/internal/image"
	"github.com/youruser/tagstamp/internal/logging"
	"github.com/youruser/tagstamp/internal/roster"
	"github.com/youruser/tagstamp/internal/stamp"
	"github.com/youruser/tagstamp/internal/tag"
)

// app is the set of components built from one Config.
type app struct {
	cache   cache.Cache
	loader  *imagepkg.Loader
	stamper *stamp.Stamper
	variant tag.Variant
	agents  []roster.Agent
}

// newApp wires the pipeline. localFiles lets the loader read paths from disk,
// which only the CLI allows. rosterPath overrides the configured roster.
func newApp(ctx context.Context, cfg config.Config, localFiles bool, rosterPath string) (*app, error) {
	logger := logging.FromContext(ctx)

	variant, err := cfg.Variant()
	if err != nil {
		return nil, err
	}
	anchor, err := cfg.Anchor()
	if err != nil {
		return nil, err
	}

	book, err := fonts.NewBook()
	if err != nil {
		return nil, err
	}
	for _, f := range cfg.Fonts.Faces {
		if err := book.RegisterFile(f.Family, f.Weight, f.Path); err != nil {
			return nil, err
		}
		logger.Debug("font registered", "family", f.Family, "weight", f.Weight)
	}

	if rosterPath == "" {
		rosterPath = cfg.Roster.Path
	}
	var agents []roster.Agent
	if rosterPath != "" {
		agents, err = roster.Load(rosterPath)
		if err != nil {
			return nil, err
		}
		logger.Debug("roster loaded", "path", rosterPath, "agents", len(agents))
	}

	c, err := cache.Open(ctx, cfg.Cache.Options())
	if err != nil {
		return nil, fmt.Errorf("open cache: %w", err)
	}
	loader := imagepkg.NewLoader(
		imagepkg.WithHTTPClient(&http.Client{Timeout: cfg.Fetch.Timeout.Duration}),
		imagepkg.WithCache(c, cfg.Cache.TTL.Duration),
		imagepkg.WithMaxBytes(cfg.Fetch.MaxBytes),
		imagepkg.WithUserAgent(cfg.Fetch.UserAgent),
		imagepkg.WithLocalFiles(localFiles),
	)
	compositor := tag.New(loader,
		tag.WithImageTimeout(cfg.Compose.ImageTimeout.Duration),
		tag.WithAnchor(anchor, cfg.Compose.InsetMargin),
		tag.WithAvatarFallback(cfg.Compose.AvatarFallback),
	)

	return &app{
		cache:   c,
		loader:  loader,
		stamper: stamp.New(compositor, imagepkg.NewRenderer(book)),
		variant: variant,
		agents:  agents,
	}, nil
}

func (a *app) Close() error {
	return a.cache.Close()
}
