package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/dirchart/pkg/cache"
	"github.com/matzehuels/dirchart/pkg/diagram"
	"github.com/matzehuels/dirchart/pkg/observability"
)

// Runner renders layouts through an artifact cache.
//
// A Runner holds no per-run state, so one Runner can serve concurrent
// requests with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner. A nil cache disables caching and a nil keyer
// uses [cache.DefaultKeyer].
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute validates options and renders every requested format.
func (r *Runner) Execute(ctx context.Context, d *diagram.Diagram, opts Options) (*Result, error) {
	if d == nil {
		return nil, fmt.Errorf("nil diagram")
	}
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	layoutHash, err := LayoutHash(d)
	if err != nil {
		return nil, err
	}

	st := d.Stats()
	result := &Result{
		LayoutHash: layoutHash,
		Stats: Stats{
			Boxes:      st.Boxes,
			Texts:      st.Texts,
			Connectors: st.Connectors,
		},
	}

	start := time.Now()
	artifacts, hit, err := r.RenderWithCacheInfo(ctx, d, layoutHash, opts)
	if err != nil {
		return nil, err
	}
	result.Artifacts = artifacts
	result.CacheInfo.RenderHit = hit
	result.Stats.RenderTime = time.Since(start)

	r.Logger.Debug("rendered outputs",
		"type", opts.VizType,
		"formats", opts.Formats,
		"cached", hit,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// RenderWithCacheInfo renders each format, serving cached artifacts where
// available. The boolean is true when every format was a cache hit.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, d *diagram.Diagram, layoutHash string, opts Options) (map[string][]byte, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, false, err
	}
	dpi := effectiveDPI(d, opts)

	artifacts := make(map[string][]byte, len(opts.Formats))
	allHit := true
	for _, format := range opts.Formats {
		key := r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format, dpi))

		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			observability.Cache().OnCacheHit(ctx, "artifact")
			artifacts[format] = data
			continue
		} else if err != nil {
			r.Logger.Warn("cache read failed", "format", format, "error", err)
		}
		observability.Cache().OnCacheMiss(ctx, "artifact")
		allHit = false

		observability.Render().OnRenderStart(ctx, opts.VizType, format)
		start := time.Now()
		data, err := RenderFormat(ctx, d, opts, format)
		observability.Render().OnRenderComplete(ctx, opts.VizType, format, len(data), time.Since(start), err)
		if err != nil {
			return nil, false, err
		}
		artifacts[format] = data

		if err := r.Cache.Set(ctx, key, data, cache.TTLArtifact); err != nil {
			r.Logger.Warn("cache write failed", "format", format, "error", err)
		} else {
			observability.Cache().OnCacheSet(ctx, "artifact", len(data))
		}
	}
	return artifacts, allHit, nil
}

// Close releases the cache.
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}

// LayoutHash returns the content hash of d used in artifact cache keys.
func LayoutHash(d *diagram.Diagram) (string, error) {
	h, err := cache.HashJSON(d)
	if err != nil {
		return "", fmt.Errorf("hash layout: %w", err)
	}
	return h, nil
}
