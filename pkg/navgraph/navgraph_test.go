package navgraph

import (
	"errors"
	"testing"

	errs "github.com/matzehuels/navgen/pkg/errors"
	"github.com/matzehuels/navgen/pkg/model"
)

func screen(routeID string, graph model.NavGraphInfo) *model.ResolvedScreen {
	return &model.ResolvedScreen{
		RawScreen: &model.RawScreen{
			Name:          routeID + "Destination",
			QualifiedName: "x." + routeID,
			RouteID:       routeID,
			NavGraph:      graph,
		},
		Route: routeID,
	}
}

func legacy(route string, start bool) model.NavGraphInfo {
	return model.LegacyGraph{NavGraphRoute: route, Start: start}
}

func annotated(qn string, start bool) model.NavGraphInfo {
	return model.AnnotatedGraph{GraphType: model.ClassTypeOf(qn), Start: start}
}

var (
	rootDecl     = model.GraphDecl{Type: model.ClassTypeOf("c.RootNavGraph"), Route: "root"}
	settingsDecl = model.GraphDecl{Type: model.ClassTypeOf("x.SettingsGraph"), Route: "settings"}
	accountDecl  = model.GraphDecl{Type: model.ClassTypeOf("x.AccountGraph"), Route: "account",
		Parent: model.ClassTypeOf("x.SettingsGraph"), Start: true}
)

func routes(ds []*model.ResolvedScreen) []string {
	out := make([]string, len(ds))
	for i, d := range ds {
		out[i] = d.RouteID
	}
	return out
}

func TestAllDestinationsOnceEach(t *testing.T) {
	screens := []*model.ResolvedScreen{
		screen("home", legacy("root", true)),
		screen("settings_main", legacy("settings", true)),
		screen("settings_about", legacy("settings", false)),
	}

	root, err := Assemble(screens, nil)
	if err != nil {
		t.Fatalf("Assemble() error = %v", err)
	}

	all := root.AllDestinations()
	if len(all) != 3 {
		t.Fatalf("AllDestinations() = %v, want 3 destinations", routes(all))
	}
	seen := make(map[*model.ResolvedScreen]int)
	for _, d := range all {
		seen[d]++
	}
	for _, s := range screens {
		if seen[s] != 1 {
			t.Errorf("%s appears %d times", s.RouteID, seen[s])
		}
	}

	if len(root.Nested) != 1 || root.Nested[0].Route != "settings" {
		t.Fatalf("Nested = %v, want [settings]", root.Nested)
	}
	if root.StartRoute() != "home" || root.Nested[0].StartRoute() != "settings_main" {
		t.Errorf("StartRoute() = %q / %q", root.StartRoute(), root.Nested[0].StartRoute())
	}
	if got := routes(all); got[0] != "home" || got[1] != "settings_about" || got[2] != "settings_main" {
		t.Errorf("AllDestinations() order = %v", got)
	}
}

func TestAnnotatedNesting(t *testing.T) {
	screens := []*model.ResolvedScreen{
		screen("home", annotated("c.RootNavGraph", true)),
		screen("settings_main", annotated("x.SettingsGraph", false)),
		screen("profile", annotated("x.AccountGraph", true)),
	}
	graphs := []model.GraphDecl{rootDecl, settingsDecl, accountDecl}

	root, err := Assemble(screens, graphs)
	if err != nil {
		t.Fatalf("Assemble() error = %v", err)
	}

	if root.Type.SimpleName != "RootNavGraph" || root.StartRoute() != "home" {
		t.Errorf("root = %+v", root)
	}
	settings := root.Nested[0]
	if settings.Route != "settings" || len(settings.Nested) != 1 {
		t.Fatalf("settings graph = %+v", settings)
	}
	account := settings.Nested[0]
	if account.Type.SimpleName != "AccountGraph" || !account.IsStartOfParent {
		t.Errorf("account graph = %+v", account)
	}
	if len(root.AllDestinations()) != 3 {
		t.Errorf("AllDestinations() = %v", routes(root.AllDestinations()))
	}
}

func TestStartGraph(t *testing.T) {
	screens := []*model.ResolvedScreen{
		screen("home", legacy("root", true)),
		screen("settings_about", annotated("x.SettingsGraph", false)),
		screen("profile", annotated("x.AccountGraph", true)),
	}

	root, err := Assemble(screens, []model.GraphDecl{settingsDecl, accountDecl})
	if err != nil {
		t.Fatalf("Assemble() error = %v", err)
	}

	settings := root.Nested[0]
	if settings.StartGraph == nil || settings.StartRoute() != "account" || settings.Start != nil {
		t.Errorf("settings start = %q, want nested graph account", settings.StartRoute())
	}
	if d := settings.StartDestination(); d == nil || d.Route != "profile" {
		t.Errorf("settings StartDestination() = %v, want profile through account", d)
	}
	if d := root.StartDestination(); d == nil || d.Route != "home" {
		t.Errorf("root StartDestination() = %v, want home", d)
	}

	graphs := root.Graphs()
	if len(graphs) != 3 || graphs[0].Route != "account" || graphs[2].Route != "root" {
		t.Errorf("Graphs() order = %v", graphs)
	}
	if d := root.FindDestination("profile"); d == nil || d.QualifiedName != "x.profile" {
		t.Errorf("FindDestination(profile) = %v", d)
	}
	if d := root.FindDestination("missing"); d != nil {
		t.Errorf("FindDestination(missing) = %v, want nil", d)
	}
}

func TestAssembleErrors(t *testing.T) {
	tests := []struct {
		name     string
		screens  []*model.ResolvedScreen
		graphs   []model.GraphDecl
		wantCode errs.Code
		sentinel error
	}{
		{
			name:     "no start",
			screens:  []*model.ResolvedScreen{screen("home", legacy("root", false))},
			wantCode: errs.ErrCodeStartCount,
			sentinel: ErrStartCount,
		},
		{
			name: "two starts",
			screens: []*model.ResolvedScreen{
				screen("home", legacy("root", true)),
				screen("feed", legacy("root", true)),
			},
			wantCode: errs.ErrCodeStartCount,
			sentinel: ErrStartCount,
		},
		{
			name: "start destination plus start graph",
			screens: []*model.ResolvedScreen{
				screen("home", legacy("root", true)),
				screen("settings_main", annotated("x.SettingsGraph", true)),
				screen("profile", annotated("x.AccountGraph", true)),
			},
			graphs:   []model.GraphDecl{settingsDecl, accountDecl},
			wantCode: errs.ErrCodeStartCount,
			sentinel: ErrStartCount,
		},
		{
			name: "nested graph without start",
			screens: []*model.ResolvedScreen{
				screen("home", legacy("root", true)),
				screen("about", legacy("settings", false)),
			},
			wantCode: errs.ErrCodeStartCount,
			sentinel: ErrStartCount,
		},
		{
			name: "duplicate route in one graph",
			screens: []*model.ResolvedScreen{
				screen("home", legacy("root", true)),
				screen("home", legacy("root", false)),
			},
			wantCode: errs.ErrCodeDuplicateRoute,
			sentinel: ErrDuplicateRoute,
		},
		{
			name: "duplicate route across graphs",
			screens: []*model.ResolvedScreen{
				screen("home", legacy("root", true)),
				screen("home", legacy("settings", true)),
			},
			wantCode: errs.ErrCodeDuplicateRoute,
			sentinel: ErrDuplicateRoute,
		},
		{
			name: "destination named like a graph",
			screens: []*model.ResolvedScreen{
				screen("settings", legacy("root", true)),
				screen("about", legacy("settings", true)),
			},
			wantCode: errs.ErrCodeDuplicateRoute,
			sentinel: ErrDuplicateRoute,
		},
		{
			name:     "unknown annotated graph",
			screens:  []*model.ResolvedScreen{screen("home", annotated("x.Nope", true))},
			wantCode: errs.ErrCodeGraphMembership,
			sentinel: ErrUnknownGraph,
		},
		{
			name:    "graph cycle",
			screens: []*model.ResolvedScreen{screen("a", annotated("x.A", true))},
			graphs: []model.GraphDecl{
				{Type: model.ClassTypeOf("x.A"), Route: "a_graph", Parent: model.ClassTypeOf("x.B")},
				{Type: model.ClassTypeOf("x.B"), Route: "b_graph", Parent: model.ClassTypeOf("x.A")},
			},
			wantCode: errs.ErrCodeNavGraphCycle,
			sentinel: ErrGraphHasCycle,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Assemble(tt.screens, tt.graphs)
			if !errs.Is(err, tt.wantCode) {
				t.Fatalf("Assemble() error = %v, want %s", err, tt.wantCode)
			}
			if !errors.Is(err, tt.sentinel) {
				t.Errorf("Assemble() error does not wrap %v", tt.sentinel)
			}
		})
	}
}

func TestRequiredOptIns(t *testing.T) {
	beta := model.ClassTypeOf("x.Beta")
	home := screen("home", legacy("root", true))
	about := screen("about", legacy("settings", true))
	about.OptIns = []model.OptIn{{Marker: beta}, {Marker: model.ClassTypeOf("x.Opted"), OptedIn: true}}

	root, err := Assemble([]*model.ResolvedScreen{home, about}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if got := root.RequiredOptIns(); len(got) != 1 || got[0] != beta {
		t.Errorf("root RequiredOptIns() = %v, want [x.Beta]", got)
	}
}
