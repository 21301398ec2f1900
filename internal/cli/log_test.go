package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
)

func TestNewLoggerLevels(t *testing.T) {
	tests := []struct {
		name  string
		level log.Level
		debug bool
	}{
		{"info hides per-artifact lines", LogInfo, false},
		{"debug shows per-artifact lines", LogDebug, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := newLogger(&buf, tt.level)
			logger.Debug("unchanged artifact", "path", "x/HomeDestination.kt")
			logger.Info("resolved screens", "screens", 1)

			if got := strings.Contains(buf.String(), "unchanged artifact"); got != tt.debug {
				t.Errorf("debug line logged = %v, want %v", got, tt.debug)
			}
			if !strings.Contains(buf.String(), "resolved screens") {
				t.Error("info line missing")
			}
		})
	}
}

func TestProgressDone(t *testing.T) {
	var buf bytes.Buffer
	prog := newProgress(newLogger(&buf, LogInfo))
	prog.start = prog.start.Add(-1500 * time.Millisecond)

	prog.done("Processed 5 screens, wrote 6 artifacts")

	out := buf.String()
	if !strings.Contains(out, "Processed 5 screens, wrote 6 artifacts (1.5") {
		t.Errorf("done() = %q, want message with elapsed time", out)
	}
}

func TestLoggerContext(t *testing.T) {
	if loggerFromContext(context.Background()) != log.Default() {
		t.Error("loggerFromContext() without a logger should fall back to log.Default()")
	}

	var buf bytes.Buffer
	l := newLogger(&buf, LogInfo)
	if got := loggerFromContext(withLogger(context.Background(), l)); got != l {
		t.Error("loggerFromContext() should return the attached logger")
	}
}

// derivedFeed writes a copy of the sample feed without the named
// declarations. Declarations listed in broken get a parameter of an
// undeclared type.
func derivedFeed(t *testing.T, dir string, drop, broken []string) string {
	t.Helper()
	data, err := os.ReadFile(exampleFeed(t))
	if err != nil {
		t.Fatal(err)
	}
	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatal(err)
	}

	var kept []any
	for _, d := range doc["declarations"].([]any) {
		decl := d.(map[string]any)
		name := decl["name"].(string)
		if slices.Contains(drop, name) {
			continue
		}
		if slices.Contains(broken, name) {
			params, _ := decl["parameters"].([]any)
			decl["parameters"] = append(params, map[string]any{
				"name": "ghost",
				"type": map[string]any{"name": "com.example.shop.Missing"},
			})
		}
		kept = append(kept, decl)
	}
	doc["declarations"] = kept

	out, err := json.Marshal(doc)
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(dir, strings.Join(append(drop, broken...), "-")+"-feed.json")
	writeFile(t, path, string(out))
	return path
}

func runLogged(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	root := New(&buf, LogInfo).RootCommand()
	root.SetArgs(args)
	root.SetOut(&buf)
	root.SetErr(&buf)
	err := root.ExecuteContext(context.Background())
	return buf.String(), err
}

func TestGenerateLogLines(t *testing.T) {
	feedPath := exampleFeed(t)
	dir := workspace(t)
	out := filepath.Join(dir, "out")

	if _, err := runLogged(t, "generate", feedPath, "-o", out); err != nil {
		t.Fatalf("first generate: %v", err)
	}

	logs, err := runLogged(t, "generate", feedPath, "-o", out, "-v")
	if err != nil {
		t.Fatalf("second generate: %v", err)
	}
	if n := strings.Count(logs, "unchanged artifact"); n != 6 {
		t.Errorf("unchanged artifact lines = %d, want 6\n%s", n, logs)
	}

	partial := derivedFeed(t, dir, []string{"Licenses"}, []string{"Search"})
	logs, err = runLogged(t, "generate", partial, "-o", out, "--keep-going")
	if err == nil {
		t.Fatal("keep-going run with a broken screen should still fail")
	}
	for _, want := range []string{
		"screen left out",
		"SearchScreen",
		"kept stale artifact after partial run",
		"LicensesDestination.kt",
	} {
		if !strings.Contains(logs, want) {
			t.Errorf("keep-going logs missing %q\n%s", want, logs)
		}
	}
	if strings.Contains(logs, "deleted stale artifact") {
		t.Errorf("partial run deleted artifacts\n%s", logs)
	}

	trimmed := derivedFeed(t, dir, []string{"Licenses"}, nil)
	logs, err = runLogged(t, "generate", trimmed, "-o", out)
	if err != nil {
		t.Fatalf("trimmed generate: %v", err)
	}
	if !strings.Contains(logs, "deleted stale artifact") || !strings.Contains(logs, "LicensesDestination.kt") {
		t.Errorf("trimmed run should log the stale deletion\n%s", logs)
	}
	if _, err := os.Stat(filepath.Join(out, "com/example/shop/destinations/LicensesDestination.kt")); !os.IsNotExist(err) {
		t.Errorf("stale artifact still present: %v", err)
	}
}
