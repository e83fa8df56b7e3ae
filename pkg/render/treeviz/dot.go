package treeviz

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/gnparser/pkg/core/tree"
)

// Options configures tree rendering.
type Options struct {
	// Detailed adds normalized values, interpretations and byte offsets to
	// node labels. When false, labels show only kind and value.
	Detailed bool
}

// Format is an output format for [Render].
type Format string

const (
	DOT Format = "dot"
	SVG Format = "svg"
	PNG Format = "png"
)

// ParseFormat converts a format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case DOT, SVG, PNG:
		return f, nil
	}
	return "", fmt.Errorf("invalid tree format: %q (must be one of: dot, svg, png)", s)
}

// ToDOT converts a parse tree to Graphviz DOT. A nil root yields an empty
// graph.
func ToDOT(root *tree.Node, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.15,0.08\"];\n")
	buf.WriteString("  ranksep=0.4;\n")
	buf.WriteString("  nodesep=0.25;\n")

	if root == nil {
		buf.WriteString("}\n")
		return buf.String()
	}
	buf.WriteString("\n")

	ids := make(map[*tree.Node]string)
	var edges []string
	root.Walk(func(n *tree.Node) bool {
		id := "n" + strconv.Itoa(len(ids))
		ids[n] = id
		fmt.Fprintf(&buf, "  %s [%s];\n", id, strings.Join(fmtAttrs(n, fmtLabel(n, opts.Detailed)), ", "))
		return true
	})
	root.Walk(func(n *tree.Node) bool {
		for _, c := range n.Children {
			edges = append(edges, fmt.Sprintf("  %s -> %s;\n", ids[n], ids[c]))
		}
		return true
	})

	buf.WriteString("\n")
	for _, e := range edges {
		buf.WriteString(e)
	}
	buf.WriteString("}\n")
	return buf.String()
}

func fmtLabel(n *tree.Node, detailed bool) string {
	lines := []string{n.Kind.String()}
	if n.Value != "" {
		lines = append(lines, n.Value)
	}
	if !detailed {
		return strings.Join(lines, "\n")
	}
	if n.Norm != "" && n.Norm != n.Value {
		lines = append(lines, "norm: "+n.Norm)
	}
	if n.Interpretation != "" {
		lines = append(lines, "as: "+n.Interpretation)
	}
	if n.Reading != "" {
		lines = append(lines, "reads: "+n.Reading)
	}
	if len(n.Alternatives) > 0 {
		lines = append(lines, "or: "+strings.Join(n.Alternatives, ", "))
	}
	lines = append(lines, fmt.Sprintf("[%d:%d]", n.Start, n.End))
	return strings.Join(lines, "\n")
}

func fmtAttrs(n *tree.Node, label string) []string {
	attrs := []string{fmt.Sprintf("label=%q", label)}
	switch {
	case n.Ambiguous:
		attrs = append(attrs, "style=\"rounded,filled,dashed\"", "fillcolor=lightgrey", "fontcolor=black")
	case n.Kind.IsRoot():
		attrs = append(attrs, "penwidth=2")
	case n.Kind == tree.KindHybridMarker:
		attrs = append(attrs, "shape=circle")
	}
	return attrs
}

// Render lays out a DOT graph. DOT returns the input unchanged.
func Render(dot string, f Format) ([]byte, error) {
	switch f {
	case DOT:
		return []byte(dot), nil
	case SVG:
		out, err := render(dot, graphviz.SVG)
		if err != nil {
			return nil, err
		}
		return normalizeViewBox(out), nil
	case PNG:
		return render(dot, graphviz.PNG)
	}
	return nil, fmt.Errorf("invalid tree format: %q", f)
}

func render(dot string, f graphviz.Format) ([]byte, error) {
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
	if err := gv.Render(ctx, g, f, &buf); err != nil {
		return nil, fmt.Errorf("render %s: %w", f, err)
	}
	return buf.Bytes(), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces the Graphviz root element, whose size is given
// in points, by one sized in pixels with a zero-origin viewBox.
func normalizeViewBox(svg []byte) []byte {
	m := viewBoxRe.FindSubmatch(svg)
	if m == nil {
		return svg
	}
	w, _ := strconv.ParseFloat(string(m[3]), 64)
	h, _ := strconv.ParseFloat(string(m[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}
	tag := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`, w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(tag))
}
