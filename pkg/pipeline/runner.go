package pipeline

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/navgen/pkg/cache"
	"github.com/matzehuels/navgen/pkg/codegen"
	errs "github.com/matzehuels/navgen/pkg/errors"
	"github.com/matzehuels/navgen/pkg/feed"
	"github.com/matzehuels/navgen/pkg/model"
	"github.com/matzehuels/navgen/pkg/navgraph"
	"github.com/matzehuels/navgen/pkg/observability"
)

// Runner executes generation runs with an incremental output cache.
//
// The Runner holds no per-run state. Multiple goroutines can use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a MemoryCache is used: the first run writes everything
// and later runs of the same Runner are incremental.
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewMemoryCache()
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

// Execute runs a complete generation.
//
// By default the first setup error aborts the run and nothing is written.
// With KeepGoing, failing screens are left out, everything else is still
// generated and written, and the joined errors are returned together with
// the result.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	f, err := LoadFeed(opts)
	if err != nil {
		return nil, err
	}
	gen, err := NewGenerator(f, opts)
	if err != nil {
		return nil, err
	}

	runID := uuid.NewString()
	logger := r.Logger.With("run", runID[:8])
	hooks := observability.Pipeline()

	start := time.Now()
	hooks.OnRunStart(ctx, runID, gen.Len())
	result, err := r.run(ctx, gen, opts, runID, logger)
	screens := 0
	if result != nil {
		screens = len(result.Screens)
	}
	hooks.OnRunComplete(ctx, runID, screens, time.Since(start), err)
	return result, err
}

// LoadFeed returns the feed of opts, reading it from FeedPath if needed.
func LoadFeed(opts Options) (*feed.Feed, error) {
	if opts.Feed != nil {
		if err := opts.Feed.Validate(); err != nil {
			return nil, err
		}
		return opts.Feed, nil
	}
	f, _, err := feed.Load(opts.FeedPath)
	return f, err
}

func (r *Runner) run(ctx context.Context, gen *Generator, opts Options, runID string, logger *log.Logger) (*Result, error) {
	result := &Result{RunID: runID, Sources: gen.Frontend.Sources()}
	result.Stats.Declarations = gen.Len()

	// Phase 1: per-screen stages
	screenStart := time.Now()
	screens, artifacts, failures, err := r.processScreens(ctx, gen, opts)
	if err != nil {
		return nil, err
	}
	result.Stats.ScreenTime = time.Since(screenStart)
	result.Stats.Failed = len(failures)
	for _, f := range failures {
		logger.Warn("screen left out", "error", errs.UserMessage(f))
	}
	logger.Info("resolved screens",
		"screens", len(screens),
		"failed", len(failures),
		"duration", result.Stats.ScreenTime)

	// Phase 2: graph assembly
	assembleStart := time.Now()
	root, err := navgraph.Assemble(screens, gen.Graphs())
	result.Stats.AssembleTime = time.Since(assembleStart)
	if root != nil {
		result.Stats.Graphs = len(root.Graphs())
	}
	observability.Pipeline().OnAssembleComplete(ctx, result.Stats.Graphs, result.Stats.AssembleTime, err)
	if err == nil && !opts.SkipNavGraphs {
		var a *codegen.Artifact
		if a, err = opts.emitter().EmitNavGraphs(root); err == nil {
			artifacts = append(artifacts, a)
		}
	}
	if err != nil {
		if !opts.KeepGoing {
			return nil, err
		}
		failures = append(failures, err)
		root = nil
	} else {
		logger.Info("assembled nav graphs",
			"graphs", result.Stats.Graphs,
			"duration", result.Stats.AssembleTime)
	}
	result.Root = root

	result.Screens = append([]*model.ResolvedScreen(nil), screens...)
	sort.Slice(result.Screens, func(i, j int) bool { return result.Screens[i].Name < result.Screens[j].Name })
	sort.Slice(artifacts, func(i, j int) bool { return artifacts[i].Path() < artifacts[j].Path() })
	result.Artifacts = artifacts

	// Phase 3: write
	if !opts.DryRun {
		writeStart := time.Now()
		if err := r.write(ctx, opts, result, len(failures) > 0, logger); err != nil {
			return nil, err
		}
		result.Stats.WriteTime = time.Since(writeStart)
		logger.Info("wrote artifacts",
			"written", len(result.Written),
			"unchanged", len(result.Skipped),
			"deleted", len(result.Deleted),
			"duration", result.Stats.WriteTime)
	}

	return result, errors.Join(failures...)
}

// processScreens runs extraction through emission for every declaration,
// bounded by opts.Workers. Screens and artifacts keep declaration order.
// Without KeepGoing the first failure cancels the remaining screens and
// is returned as err.
func (r *Runner) processScreens(ctx context.Context, gen *Generator, opts Options) (
	screens []*model.ResolvedScreen, artifacts []*codegen.Artifact, failures []error, err error,
) {
	n := gen.Len()
	resolved := make([]*model.ResolvedScreen, n)
	emitted := make([]*codegen.Artifact, n)
	failed := make([]error, n)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Workers)
	for i := 0; i < n; i++ {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			rs, a, err := r.processScreen(gctx, gen, i)
			if err != nil {
				if opts.KeepGoing {
					failed[i] = err
					return nil
				}
				return err
			}
			resolved[i], emitted[i] = rs, a
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, nil, nil, err
	}

	for i := 0; i < n; i++ {
		if failed[i] != nil {
			failures = append(failures, failed[i])
			continue
		}
		screens = append(screens, resolved[i])
		artifacts = append(artifacts, emitted[i])
	}
	return screens, artifacts, failures, nil
}

func (r *Runner) processScreen(ctx context.Context, gen *Generator, i int) (*model.ResolvedScreen, *codegen.Artifact, error) {
	name := gen.Feed.Declarations[i].Name
	hooks := observability.Pipeline()
	hooks.OnScreenStart(ctx, name)

	start := time.Now()
	rs, err := gen.Resolve(i)
	var a *codegen.Artifact
	if err == nil {
		a, err = gen.Emit(rs)
	}
	hooks.OnScreenComplete(ctx, name, time.Since(start), err)
	if err != nil {
		return nil, nil, err
	}
	r.Logger.Debug("generated destination", "screen", rs.Name, "route", rs.Route)
	return rs, a, nil
}

// write hands the artifacts to the sink, skipping those whose fingerprint
// matches the previous run's manifest, and removes artifacts the previous
// run wrote that this run no longer produces. After a partial run nothing
// is removed, so failing screens keep their last good artifacts.
func (r *Runner) write(ctx context.Context, opts Options, result *Result, partial bool, logger *log.Logger) error {
	key := r.Keyer.ManifestKey(opts.Output, opts.ManifestKeyOpts())
	cacheHooks := observability.Cache()

	prev, found, err := cache.LoadManifest(ctx, r.Cache, key)
	if err != nil {
		logger.Warn("ignoring unreadable manifest", "error", err)
		prev, found = cache.NewManifest(""), false
	}
	if found {
		cacheHooks.OnCacheHit(ctx, "manifest")
	} else {
		cacheHooks.OnCacheMiss(ctx, "manifest")
	}

	out := observability.Output()
	next := cache.NewManifest(result.RunID)
	for _, a := range result.Artifacts {
		path := a.Path()
		fp := cache.Fingerprint(a.Content, a.Sources)
		next.Record(path, fp, a.Sources)

		if !opts.Refresh && prev.Unchanged(path, fp) && opts.Sink.Exists(path) {
			result.Skipped = append(result.Skipped, path)
			out.OnSkip(ctx, path)
			logger.Debug("unchanged artifact", "path", path)
			continue
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := opts.Sink.Write(path, a.Content); err != nil {
			return errs.Wrap(errs.ErrCodeEmitFailed, err, "write %s", path)
		}
		result.Written = append(result.Written, path)
		out.OnWrite(ctx, path, len(a.Content))
	}

	for _, path := range prev.Stale(next) {
		if partial {
			e := prev.Artifacts[path]
			next.Record(path, e.Fingerprint, e.Sources)
			logger.Info("kept stale artifact after partial run", "path", path)
			continue
		}
		err := opts.Sink.Remove(path)
		out.OnDelete(ctx, path, err)
		if err != nil {
			return errs.Wrap(errs.ErrCodeEmitFailed, err, "remove stale %s", path)
		}
		result.Deleted = append(result.Deleted, path)
		logger.Info("deleted stale artifact", "path", path)
	}

	if err := next.Save(ctx, r.Cache, key); err != nil {
		logger.Warn("could not save manifest", "error", err)
		return nil
	}
	cacheHooks.OnCacheSet(ctx, "manifest", len(next.Artifacts))
	return nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}
