package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/navgen/pkg/model"
	"github.com/matzehuels/navgen/pkg/navgraph"
)

// Options configures node-link diagram rendering.
type Options struct {
	// Detailed adds the route pattern, the arguments and the style to
	// destination labels. When false, only the destination name is shown.
	Detailed bool
}

// ToDOT converts a nav-graph tree to Graphviz DOT format.
// The resulting DOT string can be rendered using [RenderSVG].
//
// Graphs are drawn as ellipses and destinations as rounded boxes. The edge
// to each graph's start destination (or start graph) is bold.
func ToDOT(root *navgraph.Node, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=24, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	root.Walk(func(g *navgraph.Node, _ int) {
		fmt.Fprintf(&buf, "  %q [label=%q, shape=ellipse, fillcolor=lightgrey];\n", graphID(g), g.Route)
		for _, d := range g.SortedDestinations() {
			fmt.Fprintf(&buf, "  %q [label=%q];\n", destinationID(d), fmtLabel(d, opts.Detailed))
		}
	})

	buf.WriteString("\n")
	root.Walk(func(g *navgraph.Node, _ int) {
		for _, d := range g.SortedDestinations() {
			fmt.Fprintf(&buf, "  %q -> %q%s;\n", graphID(g), destinationID(d), startAttr(g.Start == d))
		}
		for _, c := range g.Nested {
			fmt.Fprintf(&buf, "  %q -> %q%s;\n", graphID(g), graphID(c), startAttr(g.StartGraph == c))
		}
	})

	buf.WriteString("}\n")
	return buf.String()
}

func graphID(g *navgraph.Node) string { return "graph:" + g.Route }

func destinationID(d *model.ResolvedScreen) string { return "dest:" + d.RouteID }

func startAttr(start bool) string {
	if start {
		return " [style=bold, penwidth=3]"
	}
	return ""
}

func fmtLabel(d *model.ResolvedScreen, detailed bool) string {
	if !detailed {
		return d.Name
	}

	parts := []string{"route: " + d.Route}
	if len(d.NavArgs) > 0 {
		args := make([]string, len(d.NavArgs))
		for i, a := range d.NavArgs {
			args[i] = a.Name + ": " + a.Type.Class.SimpleName
			if a.Type.Nullable {
				args[i] += "?"
			}
		}
		parts = append(parts, "args: "+strings.Join(args, ", "))
	}
	if d.Style != nil && d.Style.Kind() != model.StyleDefault {
		parts = append(parts, "style: "+string(d.Style.Kind()))
	}
	return d.Name + "\n" + strings.Join(parts, "\n")
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(dot string) ([]byte, error) {
	ctx := context.Background()
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces the root svg tag with one whose viewBox starts
// at the origin, so the diagram scales cleanly when embedded.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	tag := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(tag))
}
