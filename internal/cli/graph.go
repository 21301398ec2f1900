package cli

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	errs "github.com/matzehuels/navgen/pkg/errors"
	"github.com/matzehuels/navgen/pkg/navgraph"
	"github.com/matzehuels/navgen/pkg/render/nodelink"
)

const (
	formatDOT  = "dot"
	formatSVG  = "svg"
	formatJSON = "json"
)

// graphCommand creates the graph command, which renders the assembled
// nav-graph tree.
func (c *CLI) graphCommand() *cobra.Command {
	var (
		flags    runFlags
		format   string
		output   string
		detailed bool
	)

	cmd := &cobra.Command{
		Use:   "graph [feed]",
		Short: "Render the nav-graph tree as DOT, SVG or JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if format == "" {
				format = formatFromPath(output)
			}
			if format != formatDOT && format != formatSVG && format != formatJSON {
				return errs.New(errs.ErrCodeInvalidConfig, "unknown format %q (must be one of: dot, svg, json)", format)
			}

			opts, err := c.options(cmd, args[0], &flags)
			if err != nil {
				return err
			}
			opts.SkipNavGraphs = true
			res, err := c.resolve(cmd.Context(), opts)
			if res == nil || res.Root == nil {
				if err == nil {
					err = errs.New(errs.ErrCodeEmitFailed, "no nav graph was assembled")
				}
				return reportErrors(err)
			}
			if err != nil {
				for _, e := range errs.Flatten(err) {
					printWarning("left out: %s", errs.UserMessage(e))
				}
			}

			data, err := c.renderGraph(cmd, res.Root, format, detailed)
			if err != nil {
				return err
			}
			return writeOutput(output, data)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&format, "format", "f", "", "output format: dot, svg, json (default from --output extension, else dot)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().BoolVar(&detailed, "detailed", false, "show routes, arguments and styles in DOT and SVG output")

	return cmd
}

func (c *CLI) renderGraph(cmd *cobra.Command, root *navgraph.Node, format string, detailed bool) ([]byte, error) {
	switch format {
	case formatJSON:
		var buf bytes.Buffer
		if err := navgraph.WriteJSON(root, &buf); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	case formatSVG:
		dot := nodelink.ToDOT(root, nodelink.Options{Detailed: detailed})
		spinner := newSpinner(cmd.Context(), c.status, "Rendering SVG...")
		spinner.Start()
		svg, err := nodelink.RenderSVG(dot)
		spinner.Stop()
		if spinner.Cancelled() {
			return nil, cmd.Context().Err()
		}
		if err != nil {
			return nil, fmt.Errorf("render svg: %w", err)
		}
		return svg, nil
	}
	return []byte(nodelink.ToDOT(root, nodelink.Options{Detailed: detailed})), nil
}

// formatFromPath infers an output format from a file extension.
func formatFromPath(path string) string {
	switch filepath.Ext(path) {
	case ".svg":
		return formatSVG
	case ".json":
		return formatJSON
	}
	return formatDOT
}

// writeOutput writes data to path, or to stdout when path is empty.
func writeOutput(path string, data []byte) error {
	if path == "" {
		_, err := io.Copy(os.Stdout, bytes.NewReader(data))
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	printFile(path)
	return nil
}
