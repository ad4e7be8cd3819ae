package cli

import (
	"bytes"
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/goccy/go-graphviz"
	"github.com/spf13/cobra"

	"github.com/matzehuels/hoverfx/pkg/figure"
	"github.com/matzehuels/hoverfx/pkg/fx"
)

// groupsCommand creates the groups command for visualizing how overlapping
// hover labels were grouped.
func (c *CLI) groupsCommand() *cobra.Command {
	var opts hoverOpts
	var output string
	var dotOnly bool

	cmd := &cobra.Command{
		Use:   "groups [figure]",
		Short: "Render the label overlap groups of a hover (debug tool)",
		Long: `Hover a figure and render the groups the overlap resolver settled on.

Each cluster is one group of touching labels, in position order. Labels that
could not fit inside the axis are drawn dashed.`,
		Example: `  # Groups of an x hover at a pixel position
  hoverfx groups fig.json --x 240 --y 100 --mode x -o groups.svg

  # Print the DOT source instead of rendering it
  hoverfx groups fig.json --xval 3 --mode x --dot`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.xSet = cmd.Flags().Changed("x")
			opts.ySet = cmd.Flags().Changed("y")

			doc, err := c.loadFigure(args[0])
			if err != nil {
				return err
			}
			res, err := hoverOnce(cmd.Context(), doc, opts)
			if err != nil {
				return err
			}
			dot := groupsDOT(res)

			data := []byte(dot)
			if !dotOnly {
				if data, err = renderDOT(cmd.Context(), dot); err != nil {
					return fmt.Errorf("render: %w", err)
				}
			}
			if err := c.writeOutput(data, output); err != nil {
				return fmt.Errorf("write output: %w", err)
			}

			if output != "" {
				printSuccess("Overlap groups rendered")
				printKeyValue("Labels", fmt.Sprintf("%d", len(res.Labels)))
				if res.Overlap != nil {
					printKeyValue("Groups", fmt.Sprintf("%d", len(res.Overlap.Groups)))
					printKeyValue("Passes", fmt.Sprintf("%d", res.Overlap.Passes))
				}
				if res.Deleted > 0 {
					printWarning("%d label(s) deleted", res.Deleted)
				}
				printFile(output)
			}
			return nil
		},
	}

	cmd.Flags().Float64Var(&opts.x, "x", 0, "pointer x in subplot pixels")
	cmd.Flags().Float64Var(&opts.y, "y", 0, "pointer y in subplot pixels")
	cmd.Flags().StringVar(&opts.xval, "xval", "", "x data value to hover")
	cmd.Flags().StringVar(&opts.yval, "yval", "", "y data value to hover")
	cmd.Flags().StringVar(&opts.mode, "mode", "", "hover mode")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (stdout if empty)")
	cmd.Flags().BoolVar(&dotOnly, "dot", false, "write DOT source instead of SVG")

	return cmd
}

// hoverOnce builds doc and runs one hover cycle on it.
func hoverOnce(ctx context.Context, doc *figure.Document, opts hoverOpts) (*fx.Result, error) {
	evt, err := opts.event()
	if err != nil {
		return nil, err
	}
	plot, err := figure.Build(doc, fx.WithLogger(loggerFromContext(ctx)))
	if err != nil {
		return nil, err
	}
	return plot.HoverSync(evt), nil
}

// groupsDOT converts the overlap resolution of res to Graphviz DOT. Each
// group becomes a cluster whose labels are chained in position order.
func groupsDOT(res *fx.Result) string {
	var buf bytes.Buffer
	buf.WriteString("digraph groups {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=12];\n")
	buf.WriteString("  edge [arrowhead=none];\n")

	if res.Overlap == nil || len(res.Labels) == 0 {
		buf.WriteString("  empty [label=\"no labels\", style=dashed];\n")
		buf.WriteString("}\n")
		return buf.String()
	}

	for g, members := range res.Overlap.Groups {
		fmt.Fprintf(&buf, "\n  subgraph cluster_%d {\n", g)
		fmt.Fprintf(&buf, "    label=%q;\n", fmt.Sprintf("group %d", g))
		for _, i := range members {
			if i < 0 || i >= len(res.Labels) {
				continue
			}
			fmt.Fprintf(&buf, "    %s [%s];\n", labelNode(i), strings.Join(labelAttrs(res.Labels[i]), ", "))
		}
		for k := 1; k < len(members); k++ {
			fmt.Fprintf(&buf, "    %s -> %s;\n", labelNode(members[k-1]), labelNode(members[k]))
		}
		buf.WriteString("  }\n")
	}

	buf.WriteString("}\n")
	return buf.String()
}

func labelNode(i int) string { return fmt.Sprintf("l%d", i) }

func labelAttrs(l *fx.Label) []string {
	text := strings.ReplaceAll(l.Text, "<br>", " ")
	label := fmt.Sprintf("%s\ncurve %d point %d\noffset %s", text, l.CurveNumber, l.PointNumber, num(math.Round(l.Offset*100)/100))
	attrs := []string{fmt.Sprintf("label=%q", label)}
	if l.TraceColor != "" {
		attrs = append(attrs, fmt.Sprintf("color=%q", l.TraceColor))
	}
	if l.Del {
		attrs = append(attrs, "style=\"rounded,filled,dashed\"", "fillcolor=lightgrey")
	}
	return attrs
}

// renderDOT renders a DOT graph to SVG using Graphviz.
func renderDOT(ctx context.Context, dot string) ([]byte, error) {
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
		return nil, err
	}
	return buf.Bytes(), nil
}
