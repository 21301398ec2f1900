package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/matzehuels/navgen/pkg/pipeline"
)

// exampleFeedPath is resolved at package init, before any test changes
// the working directory.
var exampleFeedPath, exampleFeedErr = filepath.Abs(filepath.Join("..", "..", "examples", "feed.json"))

// exampleFeed returns the absolute path of the sample feed.
func exampleFeed(t *testing.T) string {
	t.Helper()
	if exampleFeedErr != nil {
		t.Fatalf("Abs() error: %v", exampleFeedErr)
	}
	return exampleFeedPath
}

// workspace switches to an empty directory with a navgen.toml and an
// isolated cache.
func workspace(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("XDG_CACHE_HOME", filepath.Join(dir, "cache"))
	writeFile(t, defaultConfigFile, `
module_name = "Shop"
package = "com.example.shop"
modules = ["bottom-sheet"]
`)
	return dir
}

func run(t *testing.T, args ...string) error {
	t.Helper()
	root := New(io.Discard, LogInfo).RootCommand()
	root.SetArgs(args)
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	return root.ExecuteContext(context.Background())
}

func TestRootCommandSubcommands(t *testing.T) {
	root := New(io.Discard, LogInfo).RootCommand()

	got := make(map[string]bool)
	for _, cmd := range root.Commands() {
		got[cmd.Name()] = true
	}
	for _, name := range []string{"browse", "cache", "check", "completion", "generate", "graph", "inspect", "route", "version"} {
		if !got[name] {
			t.Errorf("missing subcommand %q", name)
		}
	}
}

func TestGenerateCommand(t *testing.T) {
	feedPath := exampleFeed(t)
	dir := workspace(t)
	out := filepath.Join(dir, "out")

	if err := run(t, "generate", feedPath, "-o", out); err != nil {
		t.Fatalf("generate error: %v", err)
	}

	for _, rel := range []string{
		"com/example/shop/ShopNavGraphs.kt",
		"com/example/shop/destinations/HomeDestination.kt",
		"com/example/shop/destinations/LicensesDestination.kt",
		"com/example/shop/destinations/ProfileDestination.kt",
		"com/example/shop/destinations/SearchDestination.kt",
		"com/example/shop/destinations/SettingsMainDestination.kt",
	} {
		if _, err := os.Stat(filepath.Join(out, rel)); err != nil {
			t.Errorf("artifact %s: %v", rel, err)
		}
	}

	if err := run(t, "generate", feedPath, "-o", out); err != nil {
		t.Fatalf("second generate error: %v", err)
	}
}

func TestGenerateMissingModule(t *testing.T) {
	feedPath := exampleFeed(t)
	dir := workspace(t)
	writeFile(t, defaultConfigFile, `package = "com.example.shop"`)

	err := run(t, "generate", feedPath, "-o", filepath.Join(dir, "out"))
	if err == nil {
		t.Fatal("generate without the bottom-sheet module should fail")
	}
	if _, statErr := os.Stat(filepath.Join(dir, "out")); !os.IsNotExist(statErr) {
		t.Error("a failed run should not write anything")
	}

	err = run(t, "generate", feedPath, "-o", filepath.Join(dir, "out"), "--keep-going")
	if err == nil {
		t.Fatal("keep-going run should still report the failing screen")
	}
	if _, statErr := os.Stat(filepath.Join(dir, "out", "com/example/shop/destinations/HomeDestination.kt")); statErr != nil {
		t.Errorf("keep-going run should write healthy screens: %v", statErr)
	}
}

func TestCheckCommand(t *testing.T) {
	feedPath := exampleFeed(t)
	dir := workspace(t)

	if err := run(t, "check", feedPath); err != nil {
		t.Errorf("check error: %v", err)
	}

	broken := filepath.Join(dir, "broken.json")
	writeFile(t, broken, `{
  "declarations": [{
    "name": "Home",
    "qualifiedName": "com.example.shop.Home",
    "source": {"file": "Home.kt", "line": 3},
    "parameters": [{"name": "id", "type": {"name": "kotlin.Long"}}],
    "destination": {"start": true}
  }]
}`)
	if err := run(t, "check", broken); err == nil {
		t.Error("check should fail for a start destination with mandatory arguments")
	}
}

func TestGraphCommand(t *testing.T) {
	feedPath := exampleFeed(t)
	dir := workspace(t)

	for _, name := range []string{"tree.dot", "tree.json"} {
		out := filepath.Join(dir, name)
		if err := run(t, "graph", feedPath, "-o", out); err != nil {
			t.Fatalf("graph -o %s error: %v", name, err)
		}
		if info, err := os.Stat(out); err != nil || info.Size() == 0 {
			t.Errorf("graph output %s missing or empty", name)
		}
	}

	if err := run(t, "graph", feedPath, "--format", "png"); err == nil {
		t.Error("graph should reject unknown formats")
	}
}

func TestFormatFromPath(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"", formatDOT},
		{"tree.dot", formatDOT},
		{"tree.svg", formatSVG},
		{"out/tree.json", formatJSON},
		{"tree.gv", formatDOT},
	}
	for _, tt := range tests {
		if got := formatFromPath(tt.path); got != tt.want {
			t.Errorf("formatFromPath(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

// resolveExample resolves the sample feed without writing anything.
func resolveExample(t *testing.T) *pipeline.Result {
	t.Helper()
	c := New(io.Discard, LogInfo)
	res, err := c.resolve(context.Background(), pipeline.Options{
		FeedPath:    exampleFeed(t),
		BasePackage: "com.example.shop",
		Modules:     []string{"bottom-sheet"},
	})
	if err != nil {
		t.Fatalf("resolve() error: %v", err)
	}
	return res
}
