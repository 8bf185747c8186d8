// Package hierarchy draws the space containment tree as a Graphviz diagram.
package hierarchy

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/SpatialOS-Platform/spatial-os-dashboard/pkg/spatial"
)

// Options configures diagram rendering.
type Options struct {
	// Detailed adds the space ID and anchor count to each label.
	Detailed bool

	// Highlight marks one space, typically the editor's current selection.
	Highlight string
}

// ToDOT converts a space hierarchy to Graphviz DOT with edges from parent to
// child. Spaces promoted out of a parent cycle are drawn dashed.
func ToDOT(h *spatial.Hierarchy, opts Options) string {
	promoted := make(map[string]bool, len(h.Cycles))
	for _, c := range h.Cycles {
		promoted[c[0]] = true
	}

	var buf bytes.Buffer
	buf.WriteString("digraph spaces {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	entries := h.Flatten()
	for _, e := range entries {
		n := e.Node
		attrs := []string{fmt.Sprintf("label=%q", fmtLabel(n, opts.Detailed))}
		if promoted[n.ID()] {
			attrs = append(attrs, "style=\"rounded,filled,dashed\"", "fillcolor=lightgrey")
		}
		if n.ID() == opts.Highlight {
			attrs = append(attrs, "fillcolor=\"#3B82F6\"", "fontcolor=white")
		}
		fmt.Fprintf(&buf, "  %q [%s];\n", n.ID(), strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, e := range entries {
		for _, c := range e.Node.Children {
			fmt.Fprintf(&buf, "  %q -> %q;\n", e.Node.ID(), c.ID())
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtLabel(n *spatial.Node, detailed bool) string {
	name := n.Space.Name
	if name == "" {
		name = n.ID()
	}
	if !detailed {
		return name
	}
	parts := []string{name, n.ID()}
	if n.Space.Count != nil {
		parts = append(parts, fmt.Sprintf("anchors: %d", n.Space.Count.Anchors))
	}
	return strings.Join(parts, "\n")
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
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

// normalizeViewBox replaces Graphviz's pt-sized root element with a
// pixel-sized one anchored at the origin.
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

	root := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(root))
}
