package cli

import (
	"bytes"
	"context"
	"io"
	"reflect"
	"strings"
	"testing"

	"github.com/spf13/cobra"
)

func subcommand(t *testing.T, root *cobra.Command, name string) *cobra.Command {
	t.Helper()
	cmd, _, err := root.Find([]string{name})
	if err != nil || cmd.Name() != name {
		t.Fatalf("Find(%s) = %v, %v", name, cmd, err)
	}
	return cmd
}

func TestCompleteModules(t *testing.T) {
	root := New(io.Discard, LogInfo).RootCommand()
	gen := subcommand(t, root, "generate")

	complete, ok := gen.GetFlagCompletionFunc("module")
	if !ok {
		t.Fatal("generate has no --module completion")
	}
	got, directive := complete(gen, nil, "")
	if want := []string{"animations", "bottom-sheet"}; !reflect.DeepEqual(got, want) {
		t.Errorf("completions = %v, want %v", got, want)
	}
	if directive != cobra.ShellCompDirectiveNoFileComp {
		t.Errorf("directive = %v, want NoFileComp", directive)
	}

	if err := gen.Flags().Set("module", "animations"); err != nil {
		t.Fatal(err)
	}
	if got, _ := complete(gen, nil, ""); !reflect.DeepEqual(got, []string{"bottom-sheet"}) {
		t.Errorf("completions after --module animations = %v", got)
	}
}

func TestCompleteGraphFormat(t *testing.T) {
	root := New(io.Discard, LogInfo).RootCommand()
	graph := subcommand(t, root, "graph")

	complete, ok := graph.GetFlagCompletionFunc("format")
	if !ok {
		t.Fatal("graph has no --format completion")
	}
	got, _ := complete(graph, nil, "")
	if want := []string{formatDOT, formatSVG, formatJSON}; !reflect.DeepEqual(got, want) {
		t.Errorf("completions = %v, want %v", got, want)
	}
}

func TestCompleteRouteDestinations(t *testing.T) {
	feedPath := exampleFeed(t)
	workspace(t)

	root := New(io.Discard, LogInfo).RootCommand()
	rt := subcommand(t, root, "route")
	rt.SetContext(context.Background())

	got, directive := rt.ValidArgsFunction(rt, nil, "")
	if directive != cobra.ShellCompDirectiveFilterFileExt || !reflect.DeepEqual(got, []string{"json", "toml"}) {
		t.Errorf("feed completion = %v (%v)", got, directive)
	}

	got, _ = rt.ValidArgsFunction(rt, []string{feedPath}, "S")
	if want := []string{"SearchDestination", "SettingsMainDestination"}; !reflect.DeepEqual(got, want) {
		t.Errorf("destination completion = %v, want %v", got, want)
	}
}

func TestWriteCompletion(t *testing.T) {
	root := New(io.Discard, LogInfo).RootCommand()
	for _, shell := range []string{"bash", "zsh", "fish", "powershell"} {
		var buf bytes.Buffer
		if err := writeCompletion(root, shell, &buf); err != nil {
			t.Fatalf("%s: %v", shell, err)
		}
		if !strings.Contains(buf.String(), appName) {
			t.Errorf("%s script does not mention %s", shell, appName)
		}
	}
}
