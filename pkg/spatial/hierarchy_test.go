package spatial

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/SpatialOS-Platform/spatial-os-dashboard/pkg/api"
)

func sp(id, parent string) api.Space { return api.Space{ID: id, Name: strings.ToUpper(id), ParentID: parent} }

// outline renders the flattened tree as "depth:id" strings.
func outline(h *Hierarchy) []string {
	var out []string
	for _, e := range h.Flatten() {
		out = append(out, strings.Repeat(" ", e.Depth)+e.Node.ID())
	}
	return out
}

func TestBuildHierarchy(t *testing.T) {
	tests := []struct {
		name   string
		flat   []api.Space
		want   []string
		cycles [][]string
	}{
		{
			name: "empty",
		},
		{
			name: "building floor room",
			flat: []api.Space{sp("b", ""), sp("f1", "b"), sp("r1", "f1"), sp("f2", "b")},
			want: []string{"b", " f1", "  r1", " f2"},
		},
		{
			name: "child listed before parent",
			flat: []api.Space{sp("r1", "f1"), sp("f1", ""), sp("r2", "f1")},
			want: []string{"f1", " r1", " r2"},
		},
		{
			name: "unknown parent becomes root",
			flat: []api.Space{sp("a", "ghost"), sp("b", "")},
			want: []string{"a", "b"},
		},
		{
			name:   "self parent",
			flat:   []api.Space{sp("a", "a"), sp("b", "")},
			want:   []string{"b", "a"},
			cycles: [][]string{{"a"}},
		},
		{
			name:   "two cycle with hanging child",
			flat:   []api.Space{sp("root", ""), sp("x", "y"), sp("y", "x"), sp("z", "y")},
			want:   []string{"root", "x", " y", "  z"},
			cycles: [][]string{{"x", "y"}},
		},
		{
			name:   "three cycle entered from the middle",
			flat:   []api.Space{sp("leaf", "c"), sp("a", "b"), sp("b", "c"), sp("c", "a")},
			want:   []string{"a", " c", "  leaf", "  b"},
			cycles: [][]string{{"a", "b", "c"}},
		},
		{
			name: "duplicate id ignored",
			flat: []api.Space{sp("a", ""), sp("a", "zzz"), sp("b", "a")},
			want: []string{"a", " b"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := BuildHierarchy(tt.flat)
			if diff := cmp.Diff(tt.want, outline(h)); diff != "" {
				t.Errorf("outline mismatch (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(tt.cycles, h.Cycles); diff != "" {
				t.Errorf("cycles mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestEverySpaceReachable(t *testing.T) {
	flat := []api.Space{
		sp("a", "b"), sp("b", "c"), sp("c", "a"),
		sp("d", "d"),
		sp("e", ""), sp("f", "e"),
		sp("g", "h"), sp("h", "g"), sp("i", "h"),
	}
	h := BuildHierarchy(flat)
	if got := len(h.Flatten()); got != len(flat) {
		t.Errorf("flatten visited %d spaces, want %d", got, len(flat))
	}
	if len(h.Cycles) != 3 {
		t.Errorf("cycles = %v, want 3", h.Cycles)
	}
}

func TestPathAndFind(t *testing.T) {
	h := BuildHierarchy([]api.Space{sp("b", ""), sp("f", "b"), sp("r", "f")})
	if diff := cmp.Diff([]string{"b", "f", "r"}, h.Path("r")); diff != "" {
		t.Errorf("path mismatch (-want +got):\n%s", diff)
	}
	if h.Path("missing") != nil {
		t.Error("Path of unknown id should be nil")
	}
	n, ok := h.Find("f")
	if !ok || n.Space.Name != "F" || len(n.Children) != 1 {
		t.Errorf("Find(f) = %+v, %v", n, ok)
	}
	if h.Len() != 3 {
		t.Errorf("Len = %d", h.Len())
	}
}
