package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/hoverfx/pkg/cache"
	"github.com/matzehuels/hoverfx/pkg/figure"
	"github.com/matzehuels/hoverfx/pkg/fx"
	"github.com/matzehuels/hoverfx/pkg/observability"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger. Multiple
// goroutines can safely use the same Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
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

// Revision returns the content hash of doc used in cache keys.
func Revision(doc *figure.Document) (string, error) {
	var buf bytes.Buffer
	if err := figure.Write(&buf, doc, figure.FormatJSON); err != nil {
		return "", err
	}
	return cache.Hash(buf.Bytes())[:16], nil
}

// Execute runs the build → hover → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
	if opts.Revision == "" {
		rev, err := Revision(opts.Figure)
		if err != nil {
			return nil, fmt.Errorf("revision: %w", err)
		}
		opts.Revision = rev
	}
	result := &Result{Revision: opts.Revision}

	var key string
	if opts.Cacheable() {
		key = r.hoverKey(opts)
		if !opts.Refresh {
			if data, hit := r.lookup(ctx, key); hit {
				result.Artifact = data
				result.CacheHit = true
				return result, nil
			}
		}
	}

	// Stage 1: Build
	buildStart := time.Now()
	plotOpts := []fx.Option{fx.WithLogger(opts.Logger)}
	if opts.Session != nil {
		plotOpts = append(plotOpts, fx.WithSession(opts.Session.Clone()))
	}
	plot, err := figure.Build(opts.Figure, plotOpts...)
	if err != nil {
		return nil, err
	}
	result.Plot = plot
	result.Stats.BuildTime = time.Since(buildStart)

	// Stage 2: Hover
	hoverStart := time.Now()
	var hoverOpts []fx.HoverOption
	if len(opts.Subplots) > 0 {
		hoverOpts = append(hoverOpts, fx.OnSubplot(opts.Subplots...))
	}
	result.Hover = plot.HoverSync(opts.Event, hoverOpts...)
	result.Session = plot.Session()
	result.Stats.HoverTime = time.Since(hoverStart)

	// Stage 3: Render
	renderStart := time.Now()
	result.Artifact, err = Render(plot, result.Hover, opts.Format, opts.Background)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Stats.RenderTime = time.Since(renderStart)

	r.Logger.Debug("hovered figure",
		"figure", opts.Figure.ID,
		"mode", result.Hover.Mode,
		"points", len(result.Hover.Points),
		"stats", result.Stats)

	if key != "" {
		r.store(ctx, key, result.Artifact, opts.TTL)
	}
	return result, nil
}

func (r *Runner) hoverKey(opts Options) string {
	id := opts.Figure.ID
	if id == "" {
		id = opts.Revision
	}
	return r.Keyer.HoverKey(id, cache.HoverKeyOpts{
		Revision: opts.Revision,
		Mode:     opts.mode(),
		Subplot:  opts.subplotKey(),
		XPx:      *opts.Event.XPx,
		YPx:      *opts.Event.YPx,
		Format:   opts.Format,
	})
}

// lookup reads key, retrying transient backend failures. Other errors are
// treated as a miss.
func (r *Runner) lookup(ctx context.Context, key string) ([]byte, bool) {
	var data []byte
	var hit bool
	err := cache.RetryWithBackoff(ctx, func() error {
		var err error
		data, hit, err = r.Cache.Get(ctx, key)
		return err
	})
	if err != nil {
		r.Logger.Warn("cache get failed", "key", key, "err", err)
		return nil, false
	}
	if hit {
		observability.Cache().OnCacheHit(ctx, key)
	} else {
		observability.Cache().OnCacheMiss(ctx, key)
	}
	return data, hit
}

func (r *Runner) store(ctx context.Context, key string, data []byte, ttl time.Duration) {
	err := cache.RetryWithBackoff(ctx, func() error {
		return r.Cache.Set(ctx, key, data, ttl)
	})
	if err != nil {
		r.Logger.Warn("cache set failed", "key", key, "err", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, key, len(data))
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}
