package navgraph

import (
	"sort"

	"github.com/matzehuels/navgen/pkg/model"
)

// Node is one navigation graph of the assembled tree.
type Node struct {
	Route string

	// Type is the nav-graph annotation type declaring the graph; zero for
	// graphs only named by destinations.
	Type model.ClassType

	// Start is the start destination, or nil when the graph starts at the
	// nested graph StartGraph.
	Start      *model.ResolvedScreen
	StartGraph *Node

	// Destinations maps route ids to the graph's own destinations.
	Destinations map[string]*model.ResolvedScreen

	// Nested graphs, sorted by route.
	Nested []*Node

	// IsStartOfParent marks a nested graph as its parent's start.
	IsStartOfParent bool
}

func newNode(route string) *Node {
	return &Node{Route: route, Destinations: make(map[string]*model.ResolvedScreen)}
}

// StartRoute is the route of the start destination or start graph. For a
// graph that starts at a nested graph this is the nested graph's own route,
// one level down; StartDestination follows the chain to a destination.
func (n *Node) StartRoute() string {
	switch {
	case n.Start != nil:
		return n.Start.Route
	case n.StartGraph != nil:
		return n.StartGraph.Route
	}
	return ""
}

// StartDestination returns the destination navigation actually lands on
// when entering the graph, following start graphs down to a destination.
// It is nil only for an unassembled graph without a start.
func (n *Node) StartDestination() *model.ResolvedScreen {
	for g := n; g != nil; g = g.StartGraph {
		if g.Start != nil {
			return g.Start
		}
	}
	return nil
}

// SortedDestinations returns the graph's own destinations ordered by route id.
func (n *Node) SortedDestinations() []*model.ResolvedScreen {
	ids := make([]string, 0, len(n.Destinations))
	for id := range n.Destinations {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	out := make([]*model.ResolvedScreen, len(ids))
	for i, id := range ids {
		out[i] = n.Destinations[id]
	}
	return out
}

// AllDestinations flattens the tree: the graph's own destinations first,
// then each nested graph's, depth-first. Every destination appears once.
func (n *Node) AllDestinations() []*model.ResolvedScreen {
	var out []*model.ResolvedScreen
	seen := make(map[*model.ResolvedScreen]bool)
	n.Walk(func(g *Node, _ int) {
		for _, d := range g.SortedDestinations() {
			if !seen[d] {
				seen[d] = true
				out = append(out, d)
			}
		}
	})
	return out
}

// FindDestination returns the destination whose route pattern or route id
// equals route, searching the whole tree.
func (n *Node) FindDestination(route string) *model.ResolvedScreen {
	for _, d := range n.AllDestinations() {
		if d.Route == route || d.RouteID == route {
			return d
		}
	}
	return nil
}

// Walk visits the graph and its nested graphs in pre-order.
func (n *Node) Walk(fn func(g *Node, depth int)) {
	var visit func(g *Node, depth int)
	visit = func(g *Node, depth int) {
		fn(g, depth)
		for _, c := range g.Nested {
			visit(c, depth+1)
		}
	}
	visit(n, 0)
}

// Graphs returns every graph of the tree with nested graphs ahead of their
// parents, so each graph comes after everything it references.
func (n *Node) Graphs() []*Node {
	var out []*Node
	var visit func(g *Node)
	visit = func(g *Node) {
		for _, c := range g.Nested {
			visit(c)
		}
		out = append(out, g)
	}
	visit(n)
	return out
}

// RequiredOptIns returns the markers callers must opt into to reference the
// graph: the union of its destinations' requirements, in first-seen order.
func (n *Node) RequiredOptIns() []model.ClassType {
	var out []model.ClassType
	seen := make(map[string]bool)
	for _, d := range n.AllDestinations() {
		for _, m := range d.RequiredOptIns() {
			if !seen[m.QualifiedName] {
				seen[m.QualifiedName] = true
				out = append(out, m)
			}
		}
	}
	return out
}
