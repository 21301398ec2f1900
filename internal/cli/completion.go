package cli

import (
	"context"
	"io"
	"os"
	"slices"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/navgen/pkg/pipeline"
)

// completionCommand creates the completion command for generating shell completions.
func (c *CLI) completionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for navgen.

Completions cover subcommands, feed files (.json, .toml), extension modules for
--module, graph formats for --format and destination names for "navgen route".

  $ source <(navgen completion bash)
  $ navgen completion zsh > "${fpath[1]}/_navgen"
  $ navgen completion fish > ~/.config/fish/completions/navgen.fish
  PS> navgen completion powershell | Out-String | Invoke-Expression`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			return writeCompletion(cmd.Root(), args[0], os.Stdout)
		},
	}
}

func writeCompletion(root *cobra.Command, shell string, w io.Writer) error {
	switch shell {
	case "bash":
		return root.GenBashCompletionV2(w, true)
	case "zsh":
		return root.GenZshCompletion(w)
	case "fish":
		return root.GenFishCompletion(w, true)
	case "powershell":
		return root.GenPowerShellCompletionWithDesc(w)
	}
	return nil
}

// registerCompletions attaches dynamic completions to every command that
// takes a feed or run flags.
func (c *CLI) registerCompletions(root *cobra.Command) {
	for _, cmd := range root.Commands() {
		if cmd.Flags().Lookup("module") != nil {
			_ = cmd.RegisterFlagCompletionFunc("module", completeModules)
		}
		if cmd.Flags().Lookup("format") != nil {
			_ = cmd.RegisterFlagCompletionFunc("format", cobra.FixedCompletions(
				[]string{formatDOT, formatSVG, formatJSON}, cobra.ShellCompDirectiveNoFileComp))
		}
		if strings.Contains(cmd.Use, "[feed]") && cmd.ValidArgsFunction == nil {
			cmd.ValidArgsFunction = c.completeFeedArgs
		}
	}
}

// completeModules offers the extension modules not already given.
func completeModules(cmd *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
	given, _ := cmd.Flags().GetStringSlice("module")
	var out []string
	for m := range pipeline.ValidModules {
		if !slices.Contains(given, m) {
			out = append(out, m)
		}
	}
	sort.Strings(out)
	return out, cobra.ShellCompDirectiveNoFileComp
}

// completeFeedArgs completes the feed file, then for "route" the
// destinations of that feed.
func (c *CLI) completeFeedArgs(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) == 0 {
		return []string{"json", "toml"}, cobra.ShellCompDirectiveFilterFileExt
	}
	if cmd.Name() != "route" || len(args) != 1 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	return c.destinationNames(cmd, args[0], toComplete), cobra.ShellCompDirectiveNoFileComp
}

// destinationNames resolves the feed quietly and returns the generated
// names starting with prefix.
func (c *CLI) destinationNames(cmd *cobra.Command, feedPath, prefix string) []string {
	if cmd.Context() == nil {
		cmd.SetContext(context.Background())
	}
	opts, err := c.options(cmd, feedPath, &runFlags{})
	if err != nil {
		return nil
	}
	opts.KeepGoing = true
	res, _ := c.resolve(cmd.Context(), opts)
	if res == nil {
		return nil
	}
	var out []string
	for _, s := range res.Screens {
		if strings.HasPrefix(s.Name, prefix) {
			out = append(out, s.Name)
		}
	}
	return out
}
