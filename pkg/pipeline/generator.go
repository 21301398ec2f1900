package pipeline

import (
	"path/filepath"

	"github.com/matzehuels/navgen/pkg/codegen"
	errs "github.com/matzehuels/navgen/pkg/errors"
	"github.com/matzehuels/navgen/pkg/extract"
	"github.com/matzehuels/navgen/pkg/feed"
	"github.com/matzehuels/navgen/pkg/model"
	"github.com/matzehuels/navgen/pkg/navargs"
	"github.com/matzehuels/navgen/pkg/route"
	"github.com/matzehuels/navgen/pkg/style"
	"github.com/matzehuels/navgen/pkg/types"
)

// Generator holds the read-only state of one run and processes screens.
// All methods are safe for concurrent use.
type Generator struct {
	Feed     *feed.Feed
	Universe *types.Universe
	Registry *types.Registry
	Frontend *extract.FeedFrontend

	routes  *route.Builder
	styles  *style.Context
	emitter *codegen.Emitter
}

// NewGenerator builds the run state for an already decoded feed.
func NewGenerator(f *feed.Feed, opts Options) (*Generator, error) {
	u := types.NewUniverse(f.Types)
	reg, err := types.NewRegistry(u, f.Serializers)
	if err != nil {
		return nil, err
	}
	resolver := types.NewResolver(u, reg, sourceLineReader(opts.SourceRoot))

	return &Generator{
		Feed:     f,
		Universe: u,
		Registry: reg,
		Frontend: extract.NewFeedFrontend(f, resolver),
		routes:   route.NewBuilder(reg, opts.BasePackage),
		styles:   style.NewContext(u, opts.Modules),
		emitter:  opts.emitter(),
	}, nil
}

// Len returns the number of declarations.
func (g *Generator) Len() int { return g.Frontend.Len() }

// Resolve runs the per-screen stages up to style resolution for the i-th
// declaration.
func (g *Generator) Resolve(i int) (*model.ResolvedScreen, error) {
	raw, err := g.Frontend.Extract(i)
	if err != nil {
		return nil, err
	}
	args, err := navargs.Resolve(raw)
	if err != nil {
		return nil, err
	}
	if err := navargs.CheckStart(raw, args); err != nil {
		return nil, err
	}
	rs, err := g.routes.Build(raw, args)
	if err != nil {
		return nil, err
	}
	if err := g.styles.Apply(rs); err != nil {
		return nil, err
	}
	return rs, nil
}

// Emit renders the artifact of a resolved screen.
func (g *Generator) Emit(rs *model.ResolvedScreen) (*codegen.Artifact, error) {
	return g.emitter.Emit(rs)
}

// Graphs returns the nav-graph declarations of the universe.
func (g *Generator) Graphs() []model.GraphDecl {
	return g.Universe.Graphs()
}

func sourceLineReader(root string) types.LineReader {
	return func(pos errs.Position) (string, error) {
		if root != "" && pos.File != "" && !filepath.IsAbs(pos.File) {
			pos.File = filepath.Join(root, pos.File)
		}
		return types.ReadSourceLine(pos)
	}
}
