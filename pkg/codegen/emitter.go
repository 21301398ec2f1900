package codegen

import (
	"strings"
	"unicode"

	errs "github.com/matzehuels/navgen/pkg/errors"
	"github.com/matzehuels/navgen/pkg/model"
	"github.com/matzehuels/navgen/pkg/navgraph"
)

// Emitter renders resolved screens and graph trees into Kotlin artifacts.
// It holds no per-run state and may be used from several goroutines.
type Emitter struct {
	// BasePackage is the package generated code lives under.
	BasePackage string

	// ModuleName prefixes the nav graphs object name.
	ModuleName string
}

// Artifact is one generated source file.
type Artifact struct {
	Package string
	Name    string
	Content []byte

	// Sources are the annotated source files the artifact was generated from.
	Sources []string
}

// Path returns the artifact's path relative to the output root.
func (a *Artifact) Path() string {
	return strings.ReplaceAll(a.Package, ".", "/") + "/" + a.Name + ".kt"
}

// Emit renders the artifact of one resolved screen.
func (e *Emitter) Emit(s *model.ResolvedScreen) (*Artifact, error) {
	f, err := e.Destination(s)
	if err != nil {
		return nil, err
	}
	return &Artifact{
		Package: f.Package,
		Name:    s.Name,
		Content: Print(f),
		Sources: s.SourceIDs,
	}, nil
}

// EmitNavGraphs renders the nav graphs object of an assembled tree.
func (e *Emitter) EmitNavGraphs(root *navgraph.Node) (*Artifact, error) {
	f, err := e.NavGraphs(root)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]bool)
	var sources []string
	for _, d := range root.AllDestinations() {
		for _, src := range d.SourceIDs {
			if !seen[src] {
				seen[src] = true
				sources = append(sources, src)
			}
		}
	}
	return &Artifact{
		Package: f.Package,
		Name:    e.navGraphsName(),
		Content: Print(f),
		Sources: sources,
	}, nil
}

func (e *Emitter) navGraphsName() string {
	return e.ModuleName + "NavGraphs"
}

// NavGraphs builds the syntax tree of the nav graphs object: one NavGraph
// value per graph, nested graphs declared before the graphs using them.
func (e *Emitter) NavGraphs(root *navgraph.Node) (*File, error) {
	var imports importSet
	imports.add(navGraph)

	names := make(map[string]string)
	taken := make(map[string]string)
	for _, g := range root.Graphs() {
		name := GraphValueName(g.Route)
		if prev, ok := taken[name]; ok {
			return nil, errs.New(errs.ErrCodeEmitFailed, "nav graphs %q and %q both map to the value name %s", prev, g.Route, name)
		}
		taken[name] = g.Route
		names[g.Route] = name
	}

	obj := Object{Name: e.navGraphsName()}
	for _, g := range root.Graphs() {
		start, err := startReference(g, names, &imports, e.BasePackage)
		if err != nil {
			return nil, err
		}

		args := []Arg{
			{Name: "route", Value: Str(g.Route)},
			{Name: "startRoute", Value: Code(start)},
		}
		var dests []Arg
		for _, d := range g.SortedDestinations() {
			imports.add(DestinationsPackage(e.BasePackage) + "." + d.Name)
			dests = append(dests, Arg{Value: Code(d.Name)})
		}
		args = append(args, Arg{Name: "destinations", Value: Call{Fun: "listOf", Args: dests, Multiline: true}})
		if len(g.Nested) > 0 {
			nested := make([]Arg, len(g.Nested))
			for i, c := range g.Nested {
				nested[i] = Arg{Value: Code(names[c.Route])}
			}
			args = append(args, Arg{Name: "nestedNavGraphs", Value: Call{Fun: "listOf", Args: nested, Multiline: true}})
		}

		var annotations []string
		for _, m := range g.RequiredOptIns() {
			imports.add(m.QualifiedName)
			annotations = append(annotations, m.SimpleName)
		}
		obj.Members = append(obj.Members, Property{
			Annotations: annotations,
			Name:        names[g.Route],
			Init:        Call{Fun: "NavGraph", Args: args, Multiline: true},
		})
	}

	return &File{Package: e.BasePackage, Imports: imports, Decls: []Decl{obj}}, nil
}

func startReference(g *navgraph.Node, names map[string]string, imports *importSet, basePackage string) (string, error) {
	switch {
	case g.Start != nil:
		imports.add(DestinationsPackage(basePackage) + "." + g.Start.Name)
		return g.Start.Name, nil
	case g.StartGraph != nil:
		return names[g.StartGraph.Route], nil
	}
	return "", errs.Wrap(errs.ErrCodeStartCount, navgraph.ErrStartCount, "nav graph %q has no start destination", g.Route)
}

// GraphValueName turns a graph route into a lowerCamelCase value name.
func GraphValueName(route string) string {
	var b strings.Builder
	upper := false
	for _, r := range route {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			upper = b.Len() > 0
			continue
		}
		switch {
		case b.Len() == 0:
			if unicode.IsDigit(r) {
				b.WriteString("graph")
				b.WriteRune(r)
			} else {
				b.WriteRune(unicode.ToLower(r))
			}
		case upper:
			b.WriteRune(unicode.ToUpper(r))
		default:
			b.WriteRune(r)
		}
		upper = false
	}
	if b.Len() == 0 {
		return "graph"
	}
	return b.String()
}
