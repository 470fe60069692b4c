package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vabarbosa/simple-data-vis/pkg/cache"
	_ "github.com/vabarbosa/simple-data-vis/pkg/charts" // registers the built-in charts
	"github.com/vabarbosa/simple-data-vis/pkg/dataset"
	"github.com/vabarbosa/simple-data-vis/pkg/errors"
	"github.com/vabarbosa/simple-data-vis/pkg/export"
	"github.com/vabarbosa/simple-data-vis/pkg/observability"
	"github.com/vabarbosa/simple-data-vis/pkg/options"
	"github.com/vabarbosa/simple-data-vis/pkg/resolve"
	"github.com/vabarbosa/simple-data-vis/pkg/vis"
)

const artifactKeyType = "artifact"

// Runner encapsulates pipeline execution with caching.
// The CLI, the HTTP server and the MCP server all use it.
//
// The Runner is stateless except for the cache and logger. Multiple
// goroutines can safely use the same Runner with different options: every
// run draws into its own document.
type Runner struct {
	Resolver *resolve.Resolver
	Engine   *vis.Engine
	Cache    cache.Cache
	Keyer    cache.Keyer
	Logger   *log.Logger

	// Defaults are applied to every binding before the run's own options.
	Defaults options.Options

	// TTL is how long artifacts are cached.
	TTL time.Duration
}

// NewRunner creates a runner.
// If resolver is nil, a resolver with a default client is used.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(resolver *resolve.Resolver, c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if logger == nil {
		logger = log.Default()
	}
	if resolver == nil {
		resolver = resolve.New(nil, logger)
	}
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	return &Runner{
		Resolver: resolver,
		Engine:   vis.NewEngine(nil, logger),
		Cache:    c,
		Keyer:    keyer,
		Logger:   logger,
		TTL:      DefaultTTL,
	}
}

// Execute runs the complete resolve → draw → export pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	r.applySize(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	// Stage 1: Resolve
	resolveStart := time.Now()
	raw, url, err := r.Resolve(ctx, opts)
	if err != nil {
		return nil, err
	}
	resolveTime := time.Since(resolveStart)
	r.Logger.Debug("resolved data", "source", opts.Source, "url", url, "duration", resolveTime)

	var cacheKey, hash string
	if h, err := r.dataHash(raw, opts); err == nil {
		hash = h
		cacheKey = r.Keyer.ArtifactKey(hash, opts.ArtifactKeyOpts())
	} else {
		r.Logger.Debug("artifact not cacheable", "err", err)
	}

	if cacheKey != "" && !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			observability.Cache().OnCacheHit(ctx, artifactKeyType)
			r.Logger.Debug("artifact cache hit", "format", opts.Format)
			return &Result{
				URL:       url,
				DataHash:  hash,
				Artifact:  data,
				Stats:     Stats{ResolveTime: resolveTime},
				CacheInfo: CacheInfo{ArtifactHit: true},
			}, nil
		}
		observability.Cache().OnCacheMiss(ctx, artifactKeyType)
	}

	// Stage 2: Draw
	result, err := r.Draw(ctx, raw, opts)
	if err != nil {
		return nil, err
	}
	result.URL = url
	result.DataHash = hash
	result.Stats.ResolveTime = resolveTime

	r.Logger.Info("rendered chart",
		"type", result.Type,
		"records", result.Stats.Records,
		"duration", result.Stats.RenderTime)

	// Stage 3: Export
	exportStart := time.Now()
	var buf bytes.Buffer
	if err := export.Chart(ctx, &buf, result.Root, opts.Format, opts.ChartOptions()); err != nil {
		return nil, err
	}
	result.Artifact = buf.Bytes()
	result.Stats.ExportTime = time.Since(exportStart)

	if cacheKey != "" {
		if err := r.Cache.Set(ctx, cacheKey, result.Artifact, r.TTL); err == nil {
			observability.Cache().OnCacheSet(ctx, artifactKeyType, len(result.Artifact))
		}
	}
	return result, nil
}

// Resolve fetches the data named by opts and returns it with the final
// request URL, which is empty for inline data and local files.
func (r *Runner) Resolve(ctx context.Context, opts Options) (any, string, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForResolve(); err != nil {
		return nil, "", err
	}

	var url string
	b := r.binding(&opts)
	b.On(vis.HookStart, func(u string) { url = u })
	raw, err := b.Fetch(ctx)
	if err != nil {
		return nil, url, err
	}
	return raw, url, nil
}

// Select resolves the data and reports which charts accept it.
func (r *Runner) Select(ctx context.Context, opts Options) (*Selection, error) {
	raw, _, err := r.Resolve(ctx, opts)
	if err != nil {
		return nil, err
	}
	ds, err := dataset.Normalize(raw)
	if err != nil {
		return nil, err
	}
	sel := r.selector()
	chosen, err := sel.Select(ds, opts.Type)
	if err != nil {
		return nil, err
	}
	return &Selection{Dataset: ds, Candidates: sel.Candidates(ds), Chosen: chosen}, nil
}

// Export resolves the data and writes its records in a table format.
func (r *Runner) Export(ctx context.Context, w io.Writer, opts Options, format string) (*dataset.Dataset, error) {
	if err := ValidateDataFormat(format); err != nil {
		return nil, err
	}
	raw, _, err := r.Resolve(ctx, opts)
	if err != nil {
		return nil, err
	}
	ds, err := dataset.Normalize(raw)
	if err != nil {
		return nil, err
	}
	return ds, export.Data(w, ds, format)
}

// Types returns the registered chart descriptors in registration order.
func (r *Runner) Types() []*vis.Descriptor {
	return r.registry().All()
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// binding builds a binding for opts on top of the runner defaults.
func (r *Runner) binding(opts *Options) *vis.Binding {
	b := vis.New(opts.source(),
		vis.WithResolver(r.Resolver),
		vis.WithEngine(r.Engine),
		vis.WithLogger(opts.Logger))
	for _, k := range r.Defaults.Keys() {
		b.Set(k, r.Defaults.Get(k))
	}
	opts.apply(b)
	return b
}

// dataHash hashes the resolved data together with every option that shapes
// the drawing. Data or options holding functions cannot be hashed.
func (r *Runner) dataHash(raw any, opts Options) (string, error) {
	data, err := json.Marshal(struct {
		Data       any            `json:"data"`
		Defaults   map[string]any `json:"defaults,omitempty"`
		Options    map[string]any `json:"options,omitempty"`
		Params     []Param        `json:"params,omitempty"`
		View       string         `json:"view,omitempty"`
		Title      string         `json:"title,omitempty"`
		Background string         `json:"background,omitempty"`
		Tooltips   bool           `json:"tooltips,omitempty"`
	}{raw, r.Defaults, opts.Options, opts.Params, opts.View, opts.Title, opts.Background, opts.Tooltips})
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInternal, err, "hash data")
	}
	return cache.Hash(data), nil
}

func (r *Runner) selector() *vis.Selector {
	if r.Engine != nil && r.Engine.Selector != nil {
		return r.Engine.Selector
	}
	return vis.NewSelector(nil, r.Logger)
}

func (r *Runner) registry() *vis.Registry {
	if s := r.selector(); s.Registry != nil {
		return s.Registry
	}
	return vis.Default()
}

// applySize takes the container size from the runner defaults when opts
// leaves it unset.
func (r *Runner) applySize(opts *Options) {
	if opts.Width == 0 {
		opts.Width = r.Defaults.FloatOr(options.Width, 0)
	}
	if opts.Height == 0 {
		opts.Height = r.Defaults.FloatOr(options.Height, 0)
	}
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
