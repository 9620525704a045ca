package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/url"
	"path"
	"path/filepath"
	"runtime"
	"strings"
	"sync/atomic"
	"time"

	"github.com/disintegration/imaging"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/youruser/tagstamp/internal/logging"
	"github.com/youruser/tagstamp/internal/roster"
	"github.com/youruser/tagstamp/internal/stamp"
	"github.com/youruser/tagstamp/internal/tag"
	"github.com/youruser/tagstamp/internal/util"
)

type stampOptions struct {
	variant    string
	agent      string
	rosterPath string
	outDir     string
	format     string
	jobs       int
	profile    tag.Profile
}

func newStampCmd(g *globals) *cobra.Command {
	opts := stampOptions{}

	cmd := &cobra.Command{
		Use:   "stamp [photos...]",
		Short: "Stamp the agent tag onto photos",
		Long: `Stamp composes the agent tag for each photo and writes the result to the
output directory. Photos may be local paths or http(s) URLs. The profile comes
from --agent (looked up in the roster) and/or the individual field flags,
which override roster values.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStamp(cmd.Context(), g, opts, args)
		},
	}
	f := cmd.Flags()
	f.StringVar(&opts.variant, "variant", "", "tag_orange, tag_luxury or tag_blue (default from config)")
	f.StringVar(&opts.agent, "agent", "", "agent id or full name from the roster")
	f.StringVar(&opts.rosterPath, "roster", "", "agent roster CSV")
	f.StringVarP(&opts.outDir, "output", "o", "stamped", "output directory")
	f.StringVar(&opts.format, "format", "", "png or jpeg (default: same as input, else png)")
	f.IntVarP(&opts.jobs, "jobs", "j", runtime.NumCPU(), "photos processed in parallel")
	f.StringVar(&opts.profile.FullName, "name", "", "agent full name")
	f.StringVar(&opts.profile.JobTitle, "title", "", "agent job title")
	f.StringVar(&opts.profile.Phone, "phone", "", "agent phone")
	f.StringVar(&opts.profile.Agency, "agency", "", "agency name")
	f.StringVar(&opts.profile.AvatarURL, "avatar", "", "avatar URL or path")
	f.StringVar(&opts.profile.LogoURL, "logo", "", "agency logo URL or path")
	return cmd
}

func runStamp(ctx context.Context, g *globals, opts stampOptions, photos []string) error {
	logger := logging.FromContext(ctx)
	start := time.Now()

	a, err := newApp(ctx, g.cfg, true, opts.rosterPath)
	if err != nil {
		return err
	}
	defer a.Close()

	variant := a.variant
	if opts.variant != "" {
		if variant, err = tag.ParseVariant(opts.variant); err != nil {
			return err
		}
	}
	profile, err := resolveProfile(a.agents, opts)
	if err != nil {
		return err
	}
	outputs, err := planOutputs(photos, opts.outDir, opts.format)
	if err != nil {
		return err
	}
	if err := util.EnsureDir(opts.outDir); err != nil {
		return err
	}

	var done, skipped, failed atomic.Int32
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(max(opts.jobs, 1))
	for i, src := range photos {
		eg.Go(func() error {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			dst := outputs[i]
			err := stampOne(ctx, a, src, dst, profile, variant)
			switch {
			case errors.Is(err, context.Canceled):
				return err
			case errors.Is(err, stamp.ErrNoGeometry):
				skipped.Add(1)
				logger.Warn("skipped", "photo", src, "reason", err)
			case err != nil:
				failed.Add(1)
				logger.Error("failed", "photo", src, "err", err)
			default:
				done.Add(1)
				logger.Debug("stamped", "photo", src, "out", dst)
			}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return err
	}

	logger.Infof("stamped %d of %d photos (%s)", done.Load(), len(photos), time.Since(start).Round(time.Millisecond))
	if n := failed.Load(); n > 0 {
		return fmt.Errorf("%d of %d photos failed", n, len(photos))
	}
	return nil
}

// resolveProfile starts from the roster entry named by --agent, if any, and
// lets non-empty field flags override it.
func resolveProfile(agents []roster.Agent, opts stampOptions) (tag.Profile, error) {
	var p tag.Profile
	if opts.agent != "" {
		if len(agents) == 0 {
			return p, fmt.Errorf("--agent needs a roster (--roster or roster.path)")
		}
		a, err := roster.Find(agents, opts.agent)
		if err != nil {
			return p, err
		}
		p = a.Profile
	}
	o := opts.profile
	for _, kv := range []struct {
		dst *string
		val string
	}{
		{&p.FullName, o.FullName},
		{&p.JobTitle, o.JobTitle},
		{&p.Phone, o.Phone},
		{&p.Agency, o.Agency},
		{&p.AvatarURL, o.AvatarURL},
		{&p.LogoURL, o.LogoURL},
	} {
		if kv.val != "" {
			*kv.dst = kv.val
		}
	}
	return p, nil
}

// output is where one photo is written and in which format.
type output struct {
	path   string
	format imaging.Format
}

func (o output) String() string { return o.path }

// planOutputs picks a destination for every photo before any work starts.
// Photos that would land on the same file get -1, -2, ... suffixes so no
// result overwrites another.
func planOutputs(photos []string, outDir, formatName string) ([]output, error) {
	used := make(map[string]bool, len(photos))
	out := make([]output, len(photos))
	for i, src := range photos {
		base := baseName(src)
		ext := filepath.Ext(base)
		name := formatName
		if name == "" {
			name = ext
			if _, err := stamp.ParseFormat(name); err != nil {
				name = "png"
			}
		}
		format, err := stamp.ParseFormat(name)
		if err != nil {
			return nil, err
		}

		stem, suffix := strings.TrimSuffix(base, ext), stamp.Extension(format)
		dst := filepath.Join(outDir, stem+suffix)
		for n := 1; used[dst]; n++ {
			dst = filepath.Join(outDir, fmt.Sprintf("%s-%d%s", stem, n, suffix))
		}
		used[dst] = true
		out[i] = output{path: dst, format: format}
	}
	return out, nil
}

func stampOne(ctx context.Context, a *app, src string, dst output, p tag.Profile, v tag.Variant) error {
	photo, err := a.loader.LoadImage(ctx, src)
	if err != nil {
		return err
	}
	out, _, err := a.stamper.Stamp(ctx, photo, p, v)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := stamp.Encode(&buf, out, dst.format); err != nil {
		return err
	}
	return util.WriteFileAtomic(dst.path, buf.Bytes())
}

// baseName is the file name of a path or the last segment of a URL path.
func baseName(src string) string {
	if u, err := url.Parse(src); err == nil && (u.Scheme == "http" || u.Scheme == "https") {
		if b := path.Base(u.Path); b != "/" && b != "." {
			return b
		}
		return "photo"
	}
	return filepath.Base(strings.TrimPrefix(src, "file://"))
}
