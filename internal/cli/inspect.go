package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	errs "github.com/matzehuels/navgen/pkg/errors"
	"github.com/matzehuels/navgen/pkg/model"
	"github.com/matzehuels/navgen/pkg/navgraph"
	"github.com/matzehuels/navgen/pkg/pipeline"
)

// inspectCommand creates the inspect command, which prints a table of all
// resolved destinations.
func (c *CLI) inspectCommand() *cobra.Command {
	var (
		flags  runFlags
		source string
	)

	cmd := &cobra.Command{
		Use:   "inspect [feed]",
		Short: "List resolved destinations with their routes, arguments and styles",
		Long: `Inspect resolves a feed and prints one table row per destination.

With --source only the destinations generated from that source file are listed,
which shows what a change to the file regenerates.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := c.resolveForDisplay(cmd, args[0], &flags)
			if err != nil {
				return err
			}
			screens := res.Screens
			if source != "" {
				screens = dependents(res, source)
				if len(screens) == 0 {
					printWarning("no destination is generated from %s", source)
					return nil
				}
			}
			fmt.Println(destinationTable(res, screens))
			printStats(res)
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&source, "source", "", "only list destinations generated from this source file")
	return cmd
}

// resolveForDisplay resolves a feed for the read-only commands. Failing
// screens are reported as warnings when the run kept going.
func (c *CLI) resolveForDisplay(cmd *cobra.Command, feedPath string, flags *runFlags) (*pipeline.Result, error) {
	opts, err := c.options(cmd, feedPath, flags)
	if err != nil {
		return nil, err
	}
	res, err := c.resolve(cmd.Context(), opts)
	if res == nil {
		return nil, reportErrors(err)
	}
	warnFailures(cmd.Context(), err)
	return res, nil
}

func warnFailures(ctx context.Context, err error) {
	if err == nil {
		return
	}
	for _, e := range errs.Flatten(err) {
		printWarning("left out: %s", errs.UserMessage(e))
	}
	loggerFromContext(ctx).Debug("run finished with setup errors", "error", err)
}

// =============================================================================
// Destination Table
// =============================================================================

// dependents returns the screens generated from a source file, in result order.
func dependents(res *pipeline.Result, source string) []*model.ResolvedScreen {
	var out []*model.ResolvedScreen
	for _, name := range res.Sources.Screens(source) {
		if s := res.Screen(name); s != nil {
			out = append(out, s)
		}
	}
	return out
}

func destinationTable(res *pipeline.Result, screens []*model.ResolvedScreen) string {
	graphs := graphRoutes(res.Root)

	rows := make([][]string, 0, len(screens))
	for _, s := range screens {
		rows = append(rows, []string{
			s.Name,
			s.Route,
			argList(s.NavArgs),
			styleName(s.Style),
			graphs[s],
			optInList(s),
		})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Destination", "Route", "Arguments", "Style", "Graph", "Requires").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			switch col {
			case 0:
				return lipgloss.NewStyle().Foreground(colorCyan)
			case 1:
				return lipgloss.NewStyle().Foreground(colorWhite)
			}
			return lipgloss.NewStyle().Foreground(colorGray)
		}).
		Render()
}

// graphRoutes maps each destination of the tree to the route of its graph.
func graphRoutes(root *navgraph.Node) map[*model.ResolvedScreen]string {
	out := make(map[*model.ResolvedScreen]string)
	if root == nil {
		return out
	}
	root.Walk(func(g *navgraph.Node, _ int) {
		for _, d := range g.Destinations {
			out[d] = g.Route
		}
	})
	return out
}

// =============================================================================
// Formatting
// =============================================================================

// typeName renders a type with simple names, as written in source.
func typeName(t model.Type) string {
	var b strings.Builder
	b.WriteString(t.Class.SimpleName)
	if len(t.Args) > 0 {
		args := make([]string, len(t.Args))
		for i, a := range t.Args {
			switch a := a.(type) {
			case model.TypedArg:
				args[i] = typeName(a.Type)
				if a.Variance != model.Invariant {
					args[i] = string(a.Variance) + " " + args[i]
				}
			case model.StarArg:
				args[i] = "*"
			case model.ErrorArg:
				args[i] = "<error>"
			}
		}
		b.WriteString("<" + strings.Join(args, ", ") + ">")
	}
	if t.Nullable {
		b.WriteByte('?')
	}
	return b.String()
}

// argSummary renders one argument as "name: Type", marking optional ones.
func argSummary(p model.Parameter) string {
	s := p.Name + ": " + typeName(p.Type)
	if p.HasDefault {
		s += " = …"
	}
	return s
}

func argList(ps []model.Parameter) string {
	if len(ps) == 0 {
		return "—"
	}
	parts := make([]string, len(ps))
	for i, p := range ps {
		parts[i] = argSummary(p)
	}
	return strings.Join(parts, ", ")
}

func styleName(st model.DestinationStyle) string {
	if st == nil {
		return string(model.StyleDefault)
	}
	return string(st.Kind())
}

func optInList(s *model.ResolvedScreen) string {
	markers := s.RequiredOptIns()
	if len(markers) == 0 {
		return "—"
	}
	names := make([]string, len(markers))
	for i, m := range markers {
		names[i] = m.SimpleName
	}
	return strings.Join(names, ", ")
}
