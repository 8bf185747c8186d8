package hierarchy

import (
	"context"
	"strings"
	"testing"

	"github.com/SpatialOS-Platform/spatial-os-dashboard/pkg/api"
	"github.com/SpatialOS-Platform/spatial-os-dashboard/pkg/spatial"
)

func sample() *spatial.Hierarchy {
	return spatial.BuildHierarchy([]api.Space{
		{ID: "b", Name: "Building"},
		{ID: "f", Name: "Floor 1", ParentID: "b", Count: &api.SpaceCount{Anchors: 2}},
		{ID: "x", Name: "Loop", ParentID: "x"},
	})
}

func TestToDOT(t *testing.T) {
	dot := ToDOT(sample(), Options{Highlight: "f"})

	for _, want := range []string{
		"digraph spaces {",
		`"b" [label="Building"];`,
		`"b" -> "f";`,
		`"f" [label="Floor 1", fillcolor="#3B82F6", fontcolor=white];`,
		`"x" [label="Loop", style="rounded,filled,dashed", fillcolor=lightgrey];`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT missing %q:\n%s", want, dot)
		}
	}
	if strings.Contains(dot, `"x" -> "x"`) {
		t.Error("cycle edge should not be drawn")
	}
}

func TestToDOTDetailed(t *testing.T) {
	dot := ToDOT(sample(), Options{Detailed: true})
	if !strings.Contains(dot, `label="Floor 1\nf\nanchors: 2"`) {
		t.Errorf("detailed label missing:\n%s", dot)
	}
}

func TestRenderSVG(t *testing.T) {
	svg, err := RenderSVG(context.Background(), ToDOT(sample(), Options{}))
	if err != nil {
		t.Fatal(err)
	}
	s := string(svg)
	if !strings.Contains(s, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 `) {
		t.Errorf("root element not normalized: %.200s", s)
	}
	if !strings.Contains(s, "Building") {
		t.Error("SVG missing node label")
	}
}

func TestNormalizeViewBoxPassthrough(t *testing.T) {
	in := []byte(`<svg width="10"></svg>`)
	if got := normalizeViewBox(in); string(got) != string(in) {
		t.Errorf("normalizeViewBox changed input without viewBox: %s", got)
	}
}
