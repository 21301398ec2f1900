// Package nodelink renders assembled nav-graph trees as node-link diagrams.
//
// # Usage
//
// Convert a tree to DOT format, then render to SVG:
//
//	dot := nodelink.ToDOT(root, nodelink.Options{Detailed: true})
//	svg, err := nodelink.RenderSVG(dot)
//
// The DOT source can also be saved and processed with external Graphviz
// tools. It uses top-to-bottom layout (rankdir=TB): graphs are ellipses,
// destinations rounded boxes, and start edges are drawn bold.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering.
package nodelink
