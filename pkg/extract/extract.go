package extract

import (
	"errors"
	"strings"
	"unicode"

	errs "github.com/matzehuels/navgen/pkg/errors"
	"github.com/matzehuels/navgen/pkg/feed"
	"github.com/matzehuels/navgen/pkg/model"
	"github.com/matzehuels/navgen/pkg/types"
)

// DestinationSuffix is appended to a declaration name to form the generated
// destination name.
const DestinationSuffix = "Destination"

// Frontend produces raw screen models. Implementations hide the host's
// declaration-metadata API from every later stage.
//
// Extract must be safe for concurrent use with distinct indexes.
type Frontend interface {
	// Len returns the number of declarations.
	Len() int

	// Extract builds the raw model of the i-th declaration.
	Extract(i int) (*model.RawScreen, error)
}

// FeedFrontend extracts raw screens from a decoded declaration feed.
type FeedFrontend struct {
	feed     *feed.Feed
	resolver *types.Resolver
	sources  *SourceIndex
}

// NewFeedFrontend creates a front-end over f, resolving types with r.
func NewFeedFrontend(f *feed.Feed, r *types.Resolver) *FeedFrontend {
	return &FeedFrontend{feed: f, resolver: r, sources: NewSourceIndex()}
}

// Len implements [Frontend].
func (fe *FeedFrontend) Len() int { return len(fe.feed.Declarations) }

// Sources returns the source bookkeeping filled in by Extract.
func (fe *FeedFrontend) Sources() *SourceIndex { return fe.sources }

// Extract implements [Frontend].
func (fe *FeedFrontend) Extract(i int) (*model.RawScreen, error) {
	decl := fe.feed.Declarations[i]
	screen, err := fe.extract(decl)
	if err != nil {
		return nil, attribute(err, decl)
	}
	fe.sources.Record(screen.Name, screen.SourceIDs)
	return screen, nil
}

func (fe *FeedFrontend) extract(decl feed.Declaration) (*model.RawScreen, error) {
	if err := errs.ValidateIdentifier("declaration", decl.Name); err != nil {
		return nil, err
	}

	routeID := decl.Destination.Route
	if routeID == "" || routeID == feed.AutoRoute {
		routeID = ToSnakeCase(decl.Name)
	}
	if err := errs.ValidateRouteID(routeID); err != nil {
		return nil, err
	}

	params, err := fe.resolver.Parameters(decl.Parameters)
	if err != nil {
		return nil, err
	}

	graph, err := fe.navGraphInfo(decl)
	if err != nil {
		return nil, err
	}

	screen := &model.RawScreen{
		Name:           decl.Name + DestinationSuffix,
		ComposableName: decl.Name,
		QualifiedName:  decl.QualifiedName,
		RouteID:        routeID,
		Parameters:     params,
		NavGraph:       graph,
		Position:       decl.Source,
	}
	if decl.Source.File != "" {
		screen.SourceIDs = append(screen.SourceIDs, decl.Source.File)
	}

	if decl.Destination.NavArgsDelegate != "" {
		d, err := fe.resolver.Delegate(decl.Destination.NavArgsDelegate)
		if err != nil {
			return nil, err
		}
		screen.Delegate = d
		if f := d.Position.File; f != "" && f != decl.Source.File {
			screen.SourceIDs = append(screen.SourceIDs, f)
		}
	}

	for _, dl := range decl.Destination.DeepLinks {
		screen.DeepLinks = append(screen.DeepLinks, model.DeepLink{
			Action:     dl.Action,
			MimeType:   dl.MimeType,
			URIPattern: dl.URIPattern,
		})
	}

	if decl.Destination.Style != "" {
		screen.StyleType = model.ClassTypeOf(decl.Destination.Style)
	}
	if decl.Receiver != "" {
		screen.Receiver = model.ClassTypeOf(decl.Receiver)
	}
	for _, o := range decl.OptIns {
		screen.OptIns = append(screen.OptIns, model.ClassTypeOf(o))
	}

	return screen, nil
}

// navGraphInfo resolves graph membership. A nav-graph annotation wins over
// the legacy arguments, and using both is ambiguous.
func (fe *FeedFrontend) navGraphInfo(decl feed.Declaration) (model.NavGraphInfo, error) {
	u := fe.resolver.Universe()

	var graphs []feed.AnnotationRef
	for _, a := range decl.Annotations {
		if d, ok := u.Lookup(a.Type); ok && d.NavGraph != nil {
			graphs = append(graphs, a)
		}
	}

	legacy := decl.Destination.Start != nil || decl.Destination.NavGraph != nil

	switch {
	case len(graphs) > 1:
		names := make([]string, len(graphs))
		for i, g := range graphs {
			names[i] = g.Type
		}
		return nil, errs.New(errs.ErrCodeGraphMembership, "annotated with more than one nav graph: %s", strings.Join(names, ", "))

	case len(graphs) == 1 && legacy:
		return nil, errs.New(errs.ErrCodeGraphMembership,
			"nav graph annotation %s cannot be combined with the destination's start/navGraph arguments", graphs[0].Type)

	case len(graphs) == 1:
		return model.AnnotatedGraph{Start: graphs[0].Start, GraphType: model.ClassTypeOf(graphs[0].Type)}, nil
	}

	info := model.LegacyGraph{NavGraphRoute: model.RootGraphRoute}
	if decl.Destination.Start != nil {
		info.Start = *decl.Destination.Start
	}
	if decl.Destination.NavGraph != nil {
		info.NavGraphRoute = *decl.Destination.NavGraph
	}
	if info.NavGraphRoute == "" {
		return nil, errs.New(errs.ErrCodeGraphMembership, "no nav graph annotation and an empty navGraph argument")
	}
	return info, nil
}

// attribute tags err with the declaration it came from.
func attribute(err error, decl feed.Declaration) error {
	var e *errs.Error
	if errors.As(err, &e) {
		e.At(decl.QualifiedName, decl.Source)
		return err
	}
	return errs.Wrap(errs.ErrCodeInvalidFeed, err, "extract declaration").At(decl.QualifiedName, decl.Source)
}

// ToSnakeCase converts a declaration name to a route id: ProfileScreen -> profile_screen.
func ToSnakeCase(name string) string {
	runes := []rune(name)
	var b strings.Builder
	for i, r := range runes {
		if unicode.IsUpper(r) {
			prevLower := i > 0 && (unicode.IsLower(runes[i-1]) || unicode.IsDigit(runes[i-1]))
			nextLower := i > 0 && i+1 < len(runes) && unicode.IsUpper(runes[i-1]) && unicode.IsLower(runes[i+1])
			if prevLower || nextLower {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

