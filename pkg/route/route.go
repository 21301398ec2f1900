package route

import (
	"strings"

	errs "github.com/matzehuels/navgen/pkg/errors"
	"github.com/matzehuels/navgen/pkg/model"
	"github.com/matzehuels/navgen/pkg/types"
)

// Builder derives route patterns, codecs and expanded deep links.
// It only reads the serializer registry, so one Builder can serve all
// screens of a run concurrently.
type Builder struct {
	registry       *types.Registry
	navTypePackage string
}

// NewBuilder creates a Builder. basePackage is the generated code's base
// package; custom nav types live in its navtype sub-package.
func NewBuilder(reg *types.Registry, basePackage string) *Builder {
	return &Builder{registry: reg, navTypePackage: basePackage + ".navtype"}
}

// Build resolves the route pattern, the per-argument codecs and the deep
// links of a screen whose navigation arguments are already known.
// Style and opt-ins are left for the style resolver.
func (b *Builder) Build(s *model.RawScreen, args []model.Parameter) (*model.ResolvedScreen, error) {
	codecs := make([]model.Codec, len(args))
	for i, a := range args {
		c, err := b.Codec(s, a)
		if err != nil {
			return nil, err
		}
		codecs[i] = c
	}

	links, err := b.ExpandDeepLinks(s, args)
	if err != nil {
		return nil, err
	}

	return &model.ResolvedScreen{
		RawScreen: s,
		NavArgs:   args,
		Route:     Pattern(s.RouteID, args),
		Codecs:    codecs,
		DeepLinks: links,
	}, nil
}

// Pattern builds the route pattern of a route id and its ordered navigation
// arguments: mandatory arguments become /{name} path segments, the others
// trail as ?name={name} query parameters, each group in declaration order.
func Pattern(routeID string, args []model.Parameter) string {
	if len(args) == 0 {
		return routeID
	}

	var mandatory, optional strings.Builder
	for _, a := range args {
		if a.IsMandatory() {
			mandatory.WriteString("/{" + a.Name + "}")
		} else {
			optional.WriteString("?" + a.Name + "={" + a.Name + "}")
		}
	}
	return routeID + mandatory.String() + optional.String()
}

// ExpandDeepLinks substitutes the full-route placeholder of each deep link.
// The placeholder may only be a suffix of the URI pattern.
func (b *Builder) ExpandDeepLinks(s *model.RawScreen, args []model.Parameter) ([]model.DeepLink, error) {
	if len(s.DeepLinks) == 0 {
		return nil, nil
	}

	out := make([]model.DeepLink, len(s.DeepLinks))
	var full *string
	for i, l := range s.DeepLinks {
		out[i] = l
		if !strings.Contains(l.URIPattern, model.FullRoutePlaceholder) {
			continue
		}
		if !strings.HasSuffix(l.URIPattern, model.FullRoutePlaceholder) ||
			strings.Count(l.URIPattern, model.FullRoutePlaceholder) > 1 {
			return nil, s.Errorf(errs.ErrCodeDeepLinkPlaceholder,
				"deep link %q must use %s as a suffix only", l.URIPattern, model.FullRoutePlaceholder)
		}
		if full == nil {
			r, err := b.deepLinkRoute(s, args)
			if err != nil {
				return nil, err
			}
			full = &r
		}
		out[i].URIPattern = strings.TrimSuffix(l.URIPattern, model.FullRoutePlaceholder) + *full
	}
	return out, nil
}

// deepLinkRoute is the route pattern without the structured arguments that
// have no serializer, as those cannot be represented in a URI.
func (b *Builder) deepLinkRoute(s *model.RawScreen, args []model.Parameter) (string, error) {
	kept := make([]model.Parameter, 0, len(args))
	for _, a := range args {
		if !a.Type.IsComplex() || b.registry.HasSerializer(a.Type.Class) {
			kept = append(kept, a)
			continue
		}
		if a.IsMandatory() {
			return "", s.Errorf(errs.ErrCodeDeepLinkMandatoryArg,
				"argument %q of structured type %s is mandatory and has no registered serializer, so it cannot appear in a deep link",
				a.Name, a.Type.Class.SimpleName)
		}
	}
	return Pattern(s.RouteID, kept), nil
}
