package navgraph

import (
	"errors"
	"sort"
	"strings"

	errs "github.com/matzehuels/navgen/pkg/errors"
	"github.com/matzehuels/navgen/pkg/model"
)

var (
	// ErrGraphHasCycle is wrapped by [Assemble] when nav-graph parents form
	// a cycle. Cycles are detected with white/gray/black depth-first search.
	ErrGraphHasCycle = errors.New("nav graph parents contain a cycle")

	// ErrUnknownGraph is wrapped by [Assemble] when a destination or graph
	// names a nav-graph annotation type that is not declared.
	ErrUnknownGraph = errors.New("unknown nav graph")

	// ErrStartCount is wrapped by [Assemble] when a graph has zero or several
	// start destinations.
	ErrStartCount = errors.New("graph must have exactly one start destination")

	// ErrDuplicateRoute is wrapped by [Assemble] when two destinations or
	// graphs share a route.
	ErrDuplicateRoute = errors.New("duplicate route")
)

type assembler struct {
	decls    map[string]model.GraphDecl // by annotation type
	declByRt map[string]model.GraphDecl // by route
	nodes    map[string]*Node           // by route
	parents  map[string]string          // child route -> parent route
}

// Assemble partitions resolved screens by graph and nests the graphs under
// the root graph. graphs are the nav-graph annotation types of the universe.
//
// It fails when membership names an unknown graph, when graph parents form
// a cycle, when a route is used twice anywhere in the tree, or when a graph
// does not have exactly one start.
func Assemble(screens []*model.ResolvedScreen, graphs []model.GraphDecl) (*Node, error) {
	a := &assembler{
		decls:    make(map[string]model.GraphDecl, len(graphs)),
		declByRt: make(map[string]model.GraphDecl, len(graphs)),
		nodes:    make(map[string]*Node),
		parents:  make(map[string]string),
	}
	for _, g := range graphs {
		if prev, ok := a.declByRt[g.Route]; ok {
			return nil, errs.Wrap(errs.ErrCodeDuplicateRoute, ErrDuplicateRoute,
				"nav graphs %s and %s both use route %q", prev.Type.SimpleName, g.Type.SimpleName, g.Route)
		}
		a.decls[g.Type.QualifiedName] = g
		a.declByRt[g.Route] = g
	}

	root := a.node(model.RootGraphRoute)
	for _, s := range screens {
		route, err := a.graphRoute(s)
		if err != nil {
			return nil, err
		}
		if err := a.ensure(route); err != nil {
			return nil, err
		}
		g := a.nodes[route]
		if prev, ok := g.Destinations[s.RouteID]; ok {
			return nil, errs.Wrap(errs.ErrCodeDuplicateRoute, ErrDuplicateRoute,
				"route %q is already used by %s", s.RouteID, prev.QualifiedName).At(s.QualifiedName, s.Position)
		}
		g.Destinations[s.RouteID] = s
	}

	if err := a.detectCycles(); err != nil {
		return nil, err
	}
	a.link()

	if err := checkRoutes(root); err != nil {
		return nil, err
	}
	if err := assignStarts(root); err != nil {
		return nil, err
	}
	return root, nil
}

func (a *assembler) node(route string) *Node {
	n, ok := a.nodes[route]
	if !ok {
		n = newNode(route)
		if d, ok := a.declByRt[route]; ok {
			n.Type = d.Type
			n.IsStartOfParent = d.Start
		}
		a.nodes[route] = n
	}
	return n
}

func (a *assembler) graphRoute(s *model.ResolvedScreen) (string, error) {
	switch g := s.NavGraph.(type) {
	case model.LegacyGraph:
		return g.NavGraphRoute, nil
	case model.AnnotatedGraph:
		d, ok := a.decls[g.GraphType.QualifiedName]
		if !ok {
			return "", errs.Wrap(errs.ErrCodeGraphMembership, ErrUnknownGraph,
				"%s is not a nav graph annotation", g.GraphType.QualifiedName).At(s.QualifiedName, s.Position)
		}
		return d.Route, nil
	}
	return "", s.Errorf(errs.ErrCodeGraphMembership, "no nav graph membership")
}

// ensure creates the graph of route and its ancestors.
func (a *assembler) ensure(route string) error {
	for route != model.RootGraphRoute {
		if _, ok := a.parents[route]; ok {
			return nil
		}
		a.node(route)

		parent := model.RootGraphRoute
		if d, ok := a.declByRt[route]; ok && !d.Parent.IsZero() {
			pd, ok := a.decls[d.Parent.QualifiedName]
			if !ok {
				return errs.Wrap(errs.ErrCodeGraphMembership, ErrUnknownGraph,
					"parent %s of nav graph %s is not a nav graph annotation", d.Parent.QualifiedName, d.Type.SimpleName)
			}
			parent = pd.Route
		}
		a.parents[route] = parent
		route = parent
	}
	return nil
}

func (a *assembler) detectCycles() error {
	const (
		white = iota
		gray
		black
	)

	color := make(map[string]int, len(a.parents))
	var cycle []string

	var dfs func(route string) bool
	dfs = func(route string) bool {
		color[route] = gray
		if parent, ok := a.parents[route]; ok {
			switch color[parent] {
			case white:
				if dfs(parent) {
					cycle = append(cycle, route)
					return true
				}
			case gray:
				cycle = append(cycle, parent, route)
				return true
			}
		}
		color[route] = black
		return false
	}

	routes := make([]string, 0, len(a.parents))
	for r := range a.parents {
		routes = append(routes, r)
	}
	sort.Strings(routes)

	for _, r := range routes {
		if color[r] == white && dfs(r) {
			return errs.Wrap(errs.ErrCodeNavGraphCycle, ErrGraphHasCycle,
				"nav graphs nest into each other: %s", strings.Join(cycle, " -> "))
		}
	}
	return nil
}

func (a *assembler) link() {
	for child, parent := range a.parents {
		p := a.nodes[parent]
		p.Nested = append(p.Nested, a.nodes[child])
	}
	for _, n := range a.nodes {
		sort.Slice(n.Nested, func(i, j int) bool { return n.Nested[i].Route < n.Nested[j].Route })
	}
}

// checkRoutes enforces unique routes across the whole tree, counting both
// destination route ids and graph routes.
func checkRoutes(root *Node) error {
	owners := make(map[string]string)
	var err error
	root.Walk(func(g *Node, _ int) {
		if err != nil {
			return
		}
		if prev, ok := owners[g.Route]; ok {
			err = errs.Wrap(errs.ErrCodeDuplicateRoute, ErrDuplicateRoute,
				"route %q of nav graph is already used by %s", g.Route, prev)
			return
		}
		owners[g.Route] = "nav graph " + g.Route
		for _, d := range g.SortedDestinations() {
			if prev, ok := owners[d.RouteID]; ok {
				err = errs.Wrap(errs.ErrCodeDuplicateRoute, ErrDuplicateRoute,
					"route %q is already used by %s", d.RouteID, prev).At(d.QualifiedName, d.Position)
				return
			}
			owners[d.RouteID] = d.QualifiedName
		}
	})
	return err
}

// assignStarts requires exactly one start per graph, counting start
// destinations and nested graphs marked as their parent's start.
func assignStarts(root *Node) error {
	var problems []error
	root.Walk(func(g *Node, _ int) {
		var starts []string
		for _, d := range g.SortedDestinations() {
			if d.NavGraph.IsStart() {
				starts = append(starts, d.QualifiedName)
				g.Start = d
			}
		}
		for _, c := range g.Nested {
			if c.IsStartOfParent {
				starts = append(starts, "nav graph "+c.Route)
				g.StartGraph = c
			}
		}
		if len(starts) != 1 {
			g.Start, g.StartGraph = nil, nil
			problems = append(problems, errs.Wrap(errs.ErrCodeStartCount, ErrStartCount,
				"nav graph %q has %d start destinations %v", g.Route, len(starts), starts))
		}
	})
	return errors.Join(problems...)
}
