// Package pipeline runs a complete generation: declaration feed in,
// destination sources and the nav graphs object out.
//
// # Architecture
//
// A run has three phases:
//
//  1. Per screen, in parallel: extract the declaration, resolve its
//     navigation arguments, build the route and codecs, resolve the style
//     and opt-ins, and emit the destination artifact.
//  2. Once all screens are done: assemble the nav-graph tree and emit the
//     nav graphs object.
//  3. Write: artifacts go to a [Sink]. A fingerprint manifest kept in the
//     cache skips unchanged artifacts and removes stale ones.
//
// Screens share only read-only run state (type universe, serializer
// registry, style context), so phase 1 fans out with no locking beyond
// result slots.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    FeedPath:    "build/navgen/feed.json",
//	    BasePackage: "com.example.app",
//	    Output:      "build/generated/navgen",
//	})
//
// A run with DryRun set stops before phase 3; the CLI's inspection commands
// use it to get the resolved screens and the assembled tree.
package pipeline

import (
	"runtime"
	"time"

	"github.com/matzehuels/navgen/pkg/cache"
	"github.com/matzehuels/navgen/pkg/codegen"
	errs "github.com/matzehuels/navgen/pkg/errors"
	"github.com/matzehuels/navgen/pkg/extract"
	"github.com/matzehuels/navgen/pkg/feed"
	"github.com/matzehuels/navgen/pkg/model"
	"github.com/matzehuels/navgen/pkg/navgraph"
	"github.com/matzehuels/navgen/pkg/style"
)

// =============================================================================
// Default Values
// =============================================================================

const (
	// DefaultOutput is the output directory used when none is configured.
	DefaultOutput = "build/generated/navgen"

	// DefaultBasePackage is the package generated code lives under when
	// none is configured.
	DefaultBasePackage = "com.ramcosta.composedestinations"
)

// DefaultWorkers is the default number of screens processed concurrently.
var DefaultWorkers = runtime.GOMAXPROCS(0)

// ValidModules is the set of optional runtime modules a build may declare.
var ValidModules = map[string]bool{
	style.ModuleAnimations:  true,
	style.ModuleBottomSheet: true,
}

// =============================================================================
// Options - Run Configuration
// =============================================================================

// Options contains all configuration for a generation run.
type Options struct {
	// Input: either a feed file or an already decoded feed.
	FeedPath string     `json:"feed_path,omitempty"`
	Feed     *feed.Feed `json:"-"`

	// SourceRoot resolves relative source positions when diagnostic source
	// lines are read. Empty means the working directory.
	SourceRoot string `json:"source_root,omitempty"`

	// Generation
	BasePackage   string   `json:"package,omitempty"`
	ModuleName    string   `json:"module_name,omitempty"`
	SkipNavGraphs bool     `json:"skip_nav_graphs,omitempty"` // Do not emit the nav graphs object
	Modules       []string `json:"modules,omitempty"`

	// Execution
	Workers   int  `json:"workers,omitempty"`
	KeepGoing bool `json:"keep_going,omitempty"` // Exclude failing screens instead of aborting

	// Output
	Output  string `json:"output,omitempty"`
	DryRun  bool   `json:"dry_run,omitempty"` // Stop before writing
	Refresh bool   `json:"refresh,omitempty"` // Rewrite every artifact, ignoring the manifest

	// Runtime options (not serialized)
	Sink Sink `json:"-"`

	validated bool `json:"-"`
}

// Result contains the outputs of a run.
type Result struct {
	// RunID identifies the run in logs and in the manifest.
	RunID string

	// Screens are the successfully resolved screens, ordered by name.
	Screens []*model.ResolvedScreen

	// Root is the assembled nav-graph tree; nil if assembly failed.
	Root *navgraph.Node

	// Sources records which source files each screen was generated from.
	Sources *extract.SourceIndex

	// Artifacts are the generated sources, ordered by path.
	Artifacts []*codegen.Artifact

	// Written, Skipped and Deleted list artifact paths by what phase 3 did.
	Written []string
	Skipped []string
	Deleted []string

	Stats Stats
}

// Stats contains run statistics.
type Stats struct {
	Declarations int
	Failed       int
	Graphs       int
	ScreenTime   time.Duration
	AssembleTime time.Duration
	WriteTime    time.Duration
}

// Artifact returns the artifact with the given name, or nil.
func (r *Result) Artifact(name string) *codegen.Artifact {
	for _, a := range r.Artifacts {
		if a.Name == name {
			return a
		}
	}
	return nil
}

// Screen returns the resolved screen with the given generated name,
// composable name or route id, or nil.
func (r *Result) Screen(name string) *model.ResolvedScreen {
	for _, s := range r.Screens {
		if s.Name == name || s.ComposableName == name || s.RouteID == name {
			return s
		}
	}
	return nil
}

// =============================================================================
// Validation
// =============================================================================

// ValidateModule checks that a module name is known.
func ValidateModule(m string) error {
	if !ValidModules[m] {
		return errs.New(errs.ErrCodeInvalidConfig, "unknown module %q (must be one of: %s, %s)",
			m, style.ModuleAnimations, style.ModuleBottomSheet)
	}
	return nil
}

// ValidateAndSetDefaults checks required fields and applies defaults.
// Calling it more than once has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.FeedPath == "" && o.Feed == nil {
		return errs.New(errs.ErrCodeInvalidConfig, "a feed is required")
	}
	if o.BasePackage == "" {
		o.BasePackage = DefaultBasePackage
	}
	if err := errs.ValidatePackageName(o.BasePackage); err != nil {
		return err
	}
	if o.ModuleName != "" {
		if err := errs.ValidateIdentifier("module", o.ModuleName); err != nil {
			return errs.Wrap(errs.ErrCodeInvalidConfig, err, "module_name")
		}
	}
	for _, m := range o.Modules {
		if err := ValidateModule(m); err != nil {
			return err
		}
	}

	if o.Workers < 0 {
		return errs.New(errs.ErrCodeInvalidConfig, "workers must not be negative, got %d", o.Workers)
	}
	if o.Workers == 0 {
		o.Workers = DefaultWorkers
	}
	if o.Output == "" {
		o.Output = DefaultOutput
	}
	if o.Sink == nil {
		o.Sink = NewFileSink(o.Output)
	}

	o.validated = true
	return nil
}

// ManifestKeyOpts returns the cache key options of the run manifest.
func (o *Options) ManifestKeyOpts() cache.ManifestKeyOpts {
	return cache.ManifestKeyOpts{
		Package:    o.BasePackage,
		ModuleName: o.ModuleName,
		NavGraphs:  !o.SkipNavGraphs,
	}
}

func (o *Options) emitter() *codegen.Emitter {
	return &codegen.Emitter{BasePackage: o.BasePackage, ModuleName: o.ModuleName}
}
