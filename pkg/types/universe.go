package types

import (
	"slices"
	"sort"

	"github.com/matzehuels/navgen/pkg/feed"
	"github.com/matzehuels/navgen/pkg/model"
)

// Universe is the closed, pre-resolved set of types a run may reference.
// It is built once and read concurrently afterwards.
type Universe struct {
	decls  map[string]*feed.TypeDecl
	graphs []model.GraphDecl
}

// NewUniverse indexes the builtin types followed by decls.
func NewUniverse(decls []feed.TypeDecl) *Universe {
	u := &Universe{decls: make(map[string]*feed.TypeDecl, len(builtins)+len(decls))}
	for i := range builtins {
		u.decls[builtins[i].QualifiedName] = &builtins[i]
	}
	for i := range decls {
		u.decls[decls[i].QualifiedName] = &decls[i]
	}

	for _, d := range u.decls {
		if d.NavGraph == nil {
			continue
		}
		g := model.GraphDecl{
			Type:  model.ClassTypeOf(d.QualifiedName),
			Route: d.NavGraph.Route,
			Start: d.NavGraph.Start,
		}
		if d.NavGraph.Parent != "" {
			g.Parent = model.ClassTypeOf(d.NavGraph.Parent)
		}
		u.graphs = append(u.graphs, g)
	}
	sort.Slice(u.graphs, func(i, j int) bool {
		return u.graphs[i].Type.QualifiedName < u.graphs[j].Type.QualifiedName
	})
	return u
}

// Lookup returns the declaration of a qualified type name.
func (u *Universe) Lookup(qualifiedName string) (*feed.TypeDecl, bool) {
	d, ok := u.decls[qualifiedName]
	return d, ok
}

// Graphs returns every nav-graph annotation type, sorted by qualified name.
func (u *Universe) Graphs() []model.GraphDecl {
	return slices.Clone(u.graphs)
}

// Graph returns the nav-graph declaration of an annotation type.
func (u *Universe) Graph(qualifiedName string) (model.GraphDecl, bool) {
	for _, g := range u.graphs {
		if g.Type.QualifiedName == qualifiedName {
			return g, true
		}
	}
	return model.GraphDecl{}, false
}

// IsAssignable reports whether a value of type from can be used where to is
// expected, following declared supertypes transitively.
func (u *Universe) IsAssignable(from, to string) bool {
	seen := make(map[string]bool)
	queue := []string{from}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if cur == to {
			return true
		}
		if seen[cur] {
			continue
		}
		seen[cur] = true
		if d, ok := u.decls[cur]; ok {
			queue = append(queue, d.Supertypes...)
		}
	}
	return false
}

// OptIns returns the opt-in markers a type's declaration requires.
func (u *Universe) OptIns(qualifiedName string) []model.ClassType {
	d, ok := u.decls[qualifiedName]
	if !ok {
		return nil
	}
	return classTypes(d.OptIns)
}

func classTypes(names []string) []model.ClassType {
	if len(names) == 0 {
		return nil
	}
	out := make([]model.ClassType, len(names))
	for i, n := range names {
		out[i] = model.ClassTypeOf(n)
	}
	return out
}
