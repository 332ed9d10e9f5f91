package dashboard

import (
	"context"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"github.com/matzehuels/statboard/pkg/cache"
	"github.com/matzehuels/statboard/pkg/dataset"
	"github.com/matzehuels/statboard/pkg/errors"
	"github.com/matzehuels/statboard/pkg/f1"
	"github.com/matzehuels/statboard/pkg/nfl"
	"github.com/matzehuels/statboard/pkg/observability"
)

// Result contains the outputs of a view run.
type Result struct {
	View string

	// DatasetHash is the content hash of the dataset file.
	DatasetHash string

	// Value is the computed view (an f1.KPI, an nfl.Landscape, ...). It is
	// nil when every artifact came from the cache.
	Value any

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	Stats     Stats
	CacheInfo CacheInfo
}

// Stats contains timing and size information.
type Stats struct {
	Rows        int
	LoadTime    time.Duration
	ComputeTime time.Duration
	RenderTime  time.Duration
}

// CacheInfo tracks which stages were served from a cache.
type CacheInfo struct {
	LoadHit   bool // dataset was already in memory
	RenderHit bool // every artifact came from the artifact cache
}

// Runner executes views with caching.
//
// A Runner is safe for concurrent use. The CLI uses one per command and the
// server shares one across requests.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	mu     sync.Mutex
	frames map[string]dataframe.DataFrame
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
		frames: make(map[string]dataframe.DataFrame),
	}
}

// Execute runs the load → compute → render pipeline for one view.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	path := opts.Path()

	hash, err := cache.HashFile(path)
	if err != nil {
		// Load reports missing files with the right code.
		_, lerr := dataset.Load(ctx, path, dataset.LoadOptions{})
		if lerr != nil {
			return nil, lerr
		}
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "hash dataset")
	}

	result := &Result{View: opts.View, DatasetHash: hash, Artifacts: make(map[string][]byte)}

	if !opts.Refresh {
		if artifacts, ok := r.cachedArtifacts(ctx, hash, &opts); ok {
			result.Artifacts = artifacts
			result.CacheInfo.RenderHit = true
			r.Logger.Debug("served from cache", "view", opts.View, "formats", opts.Formats)
			return result, nil
		}
	}

	// Stage 1: Load
	start := time.Now()
	df, hit, err := r.load(ctx, opts.Dataset(), path, opts.Table, hash)
	if err != nil {
		return nil, err
	}
	result.Stats.Rows = df.Nrow()
	result.Stats.LoadTime = time.Since(start)
	result.CacheInfo.LoadHit = hit

	// Stage 2: Compute
	start = time.Now()
	observability.Dashboard().OnComputeStart(ctx, opts.View)
	v, err := compute(df, &opts)
	observability.Dashboard().OnComputeComplete(ctx, opts.View, time.Since(start), err)
	if err != nil {
		return nil, err
	}
	result.Value = v.value
	result.Stats.ComputeTime = time.Since(start)

	// Stage 3: Render
	start = time.Now()
	observability.Dashboard().OnRenderStart(ctx, opts.View, opts.Formats)
	for _, format := range opts.Formats {
		data, err := v.render(format, opts.RenderOptions()...)
		if err != nil {
			observability.Dashboard().OnRenderComplete(ctx, opts.View, opts.Formats, time.Since(start), err)
			return nil, err
		}
		result.Artifacts[format] = data
		key := r.Keyer.ArtifactKey(hash, opts.ArtifactKeyOpts(format))
		if err := r.Cache.Set(ctx, key, data, cache.TTLArtifact); err != nil {
			r.Logger.Warn("cache write failed", "view", opts.View, "format", format, "error", err)
		} else {
			observability.Cache().OnCacheSet(ctx, "artifact", len(data))
		}
	}
	result.Stats.RenderTime = time.Since(start)
	observability.Dashboard().OnRenderComplete(ctx, opts.View, opts.Formats, result.Stats.RenderTime, nil)

	r.Logger.Debug("rendered view",
		"view", opts.View,
		"rows", result.Stats.Rows,
		"formats", opts.Formats,
		"duration", result.Stats.LoadTime+result.Stats.ComputeTime+result.Stats.RenderTime)

	return result, nil
}

// cachedArtifacts returns every requested format from the cache, or false
// if any is missing.
func (r *Runner) cachedArtifacts(ctx context.Context, hash string, opts *Options) (map[string][]byte, bool) {
	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		key := r.Keyer.ArtifactKey(hash, opts.ArtifactKeyOpts(format))
		data, hit, err := r.Cache.Get(ctx, key)
		if err != nil || !hit {
			observability.Cache().OnCacheMiss(ctx, "artifact")
			return nil, false
		}
		observability.Cache().OnCacheHit(ctx, "artifact")
		artifacts[format] = data
	}
	return artifacts, true
}

// Load reads the dataset of the given kind, reusing an in-memory copy when
// the file content has not changed.
func (r *Runner) Load(ctx context.Context, kind, path, table string) (dataframe.DataFrame, error) {
	switch kind {
	case DatasetF1, DatasetEPA, DatasetMatchups:
	default:
		return dataframe.DataFrame{}, errors.New(errors.ErrCodeInvalidInput, "unknown dataset kind %q", kind)
	}
	hash, err := cache.HashFile(path)
	if err != nil {
		return dataset.Load(ctx, path, loadOptions(kind, table))
	}
	df, _, err := r.load(ctx, kind, path, table, hash)
	return df, err
}

func (r *Runner) load(ctx context.Context, kind, path, table, hash string) (dataframe.DataFrame, bool, error) {
	key := r.Keyer.DatasetKey(path+"\x00"+table, hash)

	r.mu.Lock()
	df, ok := r.frames[key]
	r.mu.Unlock()
	if ok {
		return df, true, nil
	}

	start := time.Now()
	observability.Dashboard().OnLoadStart(ctx, path)
	df, err := dataset.Load(ctx, path, loadOptions(kind, table))
	observability.Dashboard().OnLoadComplete(ctx, path, df.Nrow(), time.Since(start), err)
	if err != nil {
		return dataframe.DataFrame{}, false, err
	}

	r.mu.Lock()
	r.frames[key] = df
	r.mu.Unlock()
	r.Logger.Debug("loaded dataset", "path", path, "rows", df.Nrow(), "duration", time.Since(start))
	return df, false, nil
}

func loadOptions(kind, table string) dataset.LoadOptions {
	opts := dataset.LoadOptions{Table: table}
	switch kind {
	case DatasetF1:
		opts.Types = f1.ColumnTypes
	case DatasetEPA:
		opts.Types = nfl.EPATypes
	case DatasetMatchups:
		opts.Types = map[string]series.Type{nfl.ColSeason: series.Int, nfl.ColWeek: series.Int}
	}
	return opts
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}
