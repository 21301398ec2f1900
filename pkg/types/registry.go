package types

import (
	"sort"
	"unicode"

	errs "github.com/matzehuels/navgen/pkg/errors"
	"github.com/matzehuels/navgen/pkg/feed"
	"github.com/matzehuels/navgen/pkg/model"
)

// Registry maps structured argument types to their generated nav types.
// It is built once before generation and never mutated afterwards.
type Registry struct {
	byType map[string]model.CustomNavType
}

// NewRegistry registers a nav type for every structured type in the universe
// and attaches the user-registered serializers.
func NewRegistry(u *Universe, serializers []feed.Serializer) (*Registry, error) {
	r := &Registry{byType: make(map[string]model.CustomNavType)}

	for name, d := range u.decls {
		if isStructured(u, d) {
			r.byType[name] = model.CustomNavType{Name: NavTypeName(model.ClassTypeOf(name))}
		}
	}

	for _, s := range serializers {
		if _, ok := u.Lookup(s.Type); !ok {
			return nil, errs.New(errs.ErrCodeInvalidFeed, "serializer %s registered for unknown type %s", s.Serializer, s.Type)
		}
		if s.Serializer == "" {
			return nil, errs.New(errs.ErrCodeInvalidFeed, "serializer for %s has no serializer class", s.Type)
		}
		if _, dup := r.byType[s.Type]; dup && !r.byType[s.Type].Serializer.IsZero() {
			return nil, errs.New(errs.ErrCodeInvalidFeed, "type %s has more than one serializer", s.Type)
		}
		name := s.Name
		if name == "" {
			name = NavTypeName(model.ClassTypeOf(s.Type))
		}
		r.byType[s.Type] = model.CustomNavType{
			Name:       name,
			Serializer: model.ClassTypeOf(s.Serializer),
		}
	}
	return r, nil
}

// Lookup returns the nav type registered for a class.
func (r *Registry) Lookup(c model.ClassType) (model.CustomNavType, bool) {
	nt, ok := r.byType[c.QualifiedName]
	return nt, ok
}

// HasSerializer reports whether a user serializer is registered for c.
func (r *Registry) HasSerializer(c model.ClassType) bool {
	nt, ok := r.byType[c.QualifiedName]
	return ok && !nt.Serializer.IsZero()
}

// Types returns the registered classes, sorted.
func (r *Registry) Types() []string {
	out := make([]string, 0, len(r.byType))
	for name := range r.byType {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// NavTypeName derives the nav type value name of a class: Profile -> profileNavType.
func NavTypeName(c model.ClassType) string {
	name := c.SimpleName
	if name == "" {
		return ""
	}
	runes := []rune(name)
	runes[0] = unicode.ToLower(runes[0])
	return string(runes) + "NavType"
}

func isStructured(u *Universe, d *feed.TypeDecl) bool {
	if d.Kind == feed.KindAlias || d.Kind == feed.KindEnum || d.Kind == feed.KindAnnotation {
		return false
	}
	if model.PrimitiveOf(d.QualifiedName) != model.NotPrimitive {
		return false
	}
	return d.Parcelable || d.Serializable || d.KtxSerializable ||
		(d.QualifiedName != Parcelable && u.IsAssignable(d.QualifiedName, Parcelable)) ||
		(d.QualifiedName != Serializable && u.IsAssignable(d.QualifiedName, Serializable))
}
