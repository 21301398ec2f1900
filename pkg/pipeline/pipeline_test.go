package pipeline

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/navgen/pkg/cache"
	errs "github.com/matzehuels/navgen/pkg/errors"
	"github.com/matzehuels/navgen/pkg/feed"
)

func ptr[T any](v T) *T { return &v }

func decl(name, graph string, start bool, params ...feed.ParamDecl) feed.Declaration {
	return feed.Declaration{
		Name:          name,
		QualifiedName: "com.example.app.ui." + name,
		Source:        errs.Position{File: name + ".kt", Line: 10},
		Parameters:    params,
		Destination: feed.Destination{
			Start:    ptr(start),
			NavGraph: ptr(graph),
		},
	}
}

func testFeed(extra ...feed.Declaration) *feed.Feed {
	decls := []feed.Declaration{
		decl("Home", "root", true),
		decl("Profile", "root", false,
			feed.ParamDecl{Name: "id", Type: feed.TypeRef{Name: "kotlin.Int"}},
			feed.ParamDecl{Name: "filter", Type: feed.TypeRef{Name: "kotlin.String", Nullable: true}},
		),
		decl("SettingsMain", "settings", true),
		decl("About", "settings", false),
	}
	return &feed.Feed{Declarations: append(decls, extra...)}
}

func without(f *feed.Feed, name string) *feed.Feed {
	out := &feed.Feed{Types: f.Types, Serializers: f.Serializers}
	for _, d := range f.Declarations {
		if d.Name != name {
			out.Declarations = append(out.Declarations, d)
		}
	}
	return out
}

func testOptions(t *testing.T, f *feed.Feed, sink Sink) Options {
	t.Helper()
	return Options{
		Feed:        f,
		BasePackage: "com.example.app",
		ModuleName:  "App",
		Output:      t.TempDir(),
		Sink:        sink,
	}
}

var allPaths = []string{
	"com/example/app/AppNavGraphs.kt",
	"com/example/app/destinations/AboutDestination.kt",
	"com/example/app/destinations/HomeDestination.kt",
	"com/example/app/destinations/ProfileDestination.kt",
	"com/example/app/destinations/SettingsMainDestination.kt",
}

func TestExecuteWritesArtifacts(t *testing.T) {
	sink := NewMemorySink()
	r := NewRunner(nil, nil, nil)

	res, err := r.Execute(context.Background(), testOptions(t, testFeed(), sink))
	require.NoError(t, err)

	assert.Equal(t, allPaths, sink.Paths())
	assert.Equal(t, allPaths, res.Written)
	assert.Len(t, res.Screens, 4)
	assert.Equal(t, 2, res.Stats.Graphs)
	assert.NotEmpty(t, res.RunID)

	profile := res.Screen("profile")
	require.NotNil(t, profile)
	assert.Equal(t, "profile/{id}?filter={filter}", profile.Route)

	content, ok := sink.Get("com/example/app/destinations/ProfileDestination.kt")
	require.True(t, ok)
	assert.True(t, strings.HasPrefix(string(content), "package com.example.app.destinations\n"))

	graphs, _ := sink.Get("com/example/app/AppNavGraphs.kt")
	assert.Contains(t, string(graphs), "object AppNavGraphs {")
	assert.Contains(t, string(graphs), "nestedNavGraphs = listOf(\n            settings,\n        ),")
}

func TestExecuteIncremental(t *testing.T) {
	ctx := context.Background()
	c, err := cache.NewFileCache(filepath.Join(t.TempDir(), "cache"))
	require.NoError(t, err)
	r := NewRunner(c, nil, nil)

	sink := NewMemorySink()
	opts := testOptions(t, testFeed(), sink)

	first, err := r.Execute(ctx, opts)
	require.NoError(t, err)
	assert.Len(t, first.Written, len(allPaths))

	second, err := r.Execute(ctx, opts)
	require.NoError(t, err)
	assert.Empty(t, second.Written)
	assert.Equal(t, allPaths, second.Skipped)
	assert.Equal(t, len(allPaths), sink.Writes)

	opts.Refresh = true
	refreshed, err := r.Execute(ctx, opts)
	require.NoError(t, err)
	assert.Len(t, refreshed.Written, len(allPaths))

	opts.Refresh = false
	opts.Feed = without(testFeed(), "Profile")
	third, err := r.Execute(ctx, opts)
	require.NoError(t, err)
	assert.Equal(t, []string{"com/example/app/destinations/ProfileDestination.kt"}, third.Deleted)
	assert.Equal(t, []string{"com/example/app/AppNavGraphs.kt"}, third.Written)
	assert.False(t, sink.Exists("com/example/app/destinations/ProfileDestination.kt"))
}

func TestExecuteRewritesMissingFiles(t *testing.T) {
	ctx := context.Background()
	c, err := cache.NewFileCache(t.TempDir())
	require.NoError(t, err)
	r := NewRunner(c, nil, nil)

	sink := NewMemorySink()
	opts := testOptions(t, testFeed(), sink)
	_, err = r.Execute(ctx, opts)
	require.NoError(t, err)

	require.NoError(t, sink.Remove("com/example/app/destinations/HomeDestination.kt"))
	res, err := r.Execute(ctx, opts)
	require.NoError(t, err)
	assert.Equal(t, []string{"com/example/app/destinations/HomeDestination.kt"}, res.Written)
}

func brokenStart() feed.Declaration {
	return decl("Broken", "broken", true, feed.ParamDecl{Name: "id", Type: feed.TypeRef{Name: "kotlin.Long"}})
}

func TestExecuteAbortsOnSetupError(t *testing.T) {
	sink := NewMemorySink()
	res, err := NewRunner(nil, nil, nil).Execute(context.Background(), testOptions(t, testFeed(brokenStart()), sink))

	require.Error(t, err)
	assert.Nil(t, res)
	assert.True(t, errs.Is(err, errs.ErrCodeStartDestinationArgs), "got %v", err)
	assert.Empty(t, sink.Paths())

	var e *errs.Error
	require.True(t, errors.As(err, &e))
	assert.Equal(t, "com.example.app.ui.Broken", e.Declaration)
	assert.Equal(t, "Broken.kt", e.Position.File)
}

func TestExecuteKeepGoing(t *testing.T) {
	sink := NewMemorySink()
	opts := testOptions(t, testFeed(brokenStart()), sink)
	opts.KeepGoing = true

	res, err := NewRunner(nil, nil, nil).Execute(context.Background(), opts)
	require.Error(t, err)
	require.NotNil(t, res)
	assert.True(t, errs.Is(err, errs.ErrCodeStartDestinationArgs))
	assert.Equal(t, 1, res.Stats.Failed)
	assert.Equal(t, allPaths, sink.Paths())
	assert.Nil(t, res.Screen("Broken"))
}

func TestExecuteKeepGoingCollectsAllFailures(t *testing.T) {
	dup := decl("Duplicate", "root", false)
	dup.Destination.Route = "home"
	bad := decl("Bad", "root", false)
	bad.Destination.Style = "com.example.NotAStyle"

	opts := testOptions(t, testFeed(brokenStart(), bad, dup), NewMemorySink())
	opts.KeepGoing = true

	res, err := NewRunner(nil, nil, nil).Execute(context.Background(), opts)
	require.NotNil(t, res)
	codes := make(map[errs.Code]bool)
	for _, e := range errs.Flatten(err) {
		codes[errs.GetCode(e)] = true
	}
	assert.True(t, codes[errs.ErrCodeStartDestinationArgs])
	assert.True(t, codes[errs.ErrCodeDuplicateRoute])
	assert.Nil(t, res.Root)
	assert.Nil(t, res.Artifact("AppNavGraphs"))
}

func TestExecuteDryRun(t *testing.T) {
	sink := NewMemorySink()
	opts := testOptions(t, testFeed(), sink)
	opts.DryRun = true

	res, err := NewRunner(nil, nil, nil).Execute(context.Background(), opts)
	require.NoError(t, err)
	assert.Empty(t, sink.Paths())
	assert.Empty(t, res.Written)
	require.NotNil(t, res.Root)
	assert.NotNil(t, res.Root.FindDestination("settings_main"))
	assert.Len(t, res.Artifacts, len(allPaths))
}

func TestExecuteSkipNavGraphs(t *testing.T) {
	sink := NewMemorySink()
	opts := testOptions(t, testFeed(), sink)
	opts.SkipNavGraphs = true

	_, err := NewRunner(nil, nil, nil).Execute(context.Background(), opts)
	require.NoError(t, err)
	assert.Equal(t, allPaths[1:], sink.Paths())
}

func TestExecuteDeterministicAcrossWorkers(t *testing.T) {
	contents := func(workers int) map[string]string {
		sink := NewMemorySink()
		opts := testOptions(t, testFeed(), sink)
		opts.Workers = workers
		_, err := NewRunner(nil, nil, nil).Execute(context.Background(), opts)
		require.NoError(t, err)

		out := make(map[string]string)
		for _, p := range sink.Paths() {
			b, _ := sink.Get(p)
			out[p] = string(b)
		}
		return out
	}
	assert.Equal(t, contents(1), contents(8))
}

func TestExecuteCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewRunner(nil, nil, nil).Execute(ctx, testOptions(t, testFeed(), NewMemorySink()))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestValidateAndSetDefaults(t *testing.T) {
	tests := []struct {
		name    string
		opts    Options
		wantErr bool
	}{
		{"no feed", Options{}, true},
		{"feed path", Options{FeedPath: "feed.json"}, false},
		{"bad package", Options{Feed: testFeed(), BasePackage: "Com.Example"}, true},
		{"bad module name", Options{Feed: testFeed(), ModuleName: "my-app"}, true},
		{"unknown module", Options{Feed: testFeed(), Modules: []string{"wear"}}, true},
		{"known modules", Options{Feed: testFeed(), Modules: []string{"animations", "bottom-sheet"}}, false},
		{"negative workers", Options{Feed: testFeed(), Workers: -1}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.ValidateAndSetDefaults()
			if tt.wantErr {
				assert.True(t, errs.Is(err, errs.ErrCodeInvalidConfig), "got %v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, DefaultBasePackage, tt.opts.BasePackage)
			assert.Equal(t, DefaultOutput, tt.opts.Output)
			assert.Equal(t, DefaultWorkers, tt.opts.Workers)
			assert.NotNil(t, tt.opts.Sink)
		})
	}
}

func TestFileSink(t *testing.T) {
	dir := t.TempDir()
	s := NewFileSink(dir)

	path := "com/example/destinations/HomeDestination.kt"
	require.NoError(t, s.Write(path, []byte("object HomeDestination")))
	assert.True(t, s.Exists(path))
	assert.False(t, s.Exists("com/example/destinations"))

	require.NoError(t, s.Remove(path))
	assert.False(t, s.Exists(path))
	assert.NoDirExists(t, filepath.Join(dir, "com"))
	assert.DirExists(t, dir)
	assert.NoError(t, s.Remove(path))
}
