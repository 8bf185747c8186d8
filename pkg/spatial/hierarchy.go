// Package spatial arranges the platform's flat space listing into the
// containment tree shown by space selectors.
package spatial

import (
	"slices"

	"github.com/SpatialOS-Platform/spatial-os-dashboard/pkg/api"
)

// Node is a space with its children in listing order.
type Node struct {
	Space    api.Space
	Children []*Node

	parent *Node
	index  int
}

// ID returns the space ID.
func (n *Node) ID() string { return n.Space.ID }

// Hierarchy is the tree built from a flat listing.
type Hierarchy struct {
	// Roots are spaces without a parent or whose parent is not in the
	// listing, followed by one promoted member of each parent cycle.
	Roots []*Node

	// Cycles lists the space IDs of every parent cycle found, each starting
	// at the member that was promoted to a root.
	Cycles [][]string

	byID map[string]*Node
}

// BuildHierarchy groups spaces by parent reference. Spaces whose parent
// chain loops back on itself can never be reached from a root; one member of
// each such loop is detached from its parent and appended to Roots so that
// every space stays selectable. Later duplicates of an ID are ignored.
func BuildHierarchy(flat []api.Space) *Hierarchy {
	h := &Hierarchy{byID: make(map[string]*Node, len(flat))}
	var nodes []*Node
	for _, s := range flat {
		if _, dup := h.byID[s.ID]; dup {
			continue
		}
		n := &Node{Space: s, index: len(nodes)}
		h.byID[s.ID] = n
		nodes = append(nodes, n)
	}

	for _, n := range nodes {
		if p, ok := h.byID[n.Space.ParentID]; ok && n.Space.ParentID != "" {
			n.parent = p
			p.Children = append(p.Children, n)
			continue
		}
		h.Roots = append(h.Roots, n)
	}

	reached := make(map[*Node]bool, len(nodes))
	for _, r := range h.Roots {
		mark(r, reached)
	}

	for _, n := range nodes {
		if reached[n] {
			continue
		}
		cycle := findCycle(n)
		head := slices.MinFunc(cycle, func(a, b *Node) int { return a.index - b.index })
		detach(head)
		h.Roots = append(h.Roots, head)
		mark(head, reached)

		start := slices.Index(cycle, head)
		ids := make([]string, 0, len(cycle))
		for i := range cycle {
			ids = append(ids, cycle[(start+i)%len(cycle)].ID())
		}
		h.Cycles = append(h.Cycles, ids)
	}
	return h
}

// Find returns the node for id.
func (h *Hierarchy) Find(id string) (*Node, bool) {
	n, ok := h.byID[id]
	return n, ok
}

// Path returns the IDs from the root down to id, inclusive.
func (h *Hierarchy) Path(id string) []string {
	n, ok := h.byID[id]
	if !ok {
		return nil
	}
	var path []string
	for ; n != nil; n = n.parent {
		path = append(path, n.ID())
	}
	slices.Reverse(path)
	return path
}

// Len returns the number of distinct spaces in the hierarchy.
func (h *Hierarchy) Len() int { return len(h.byID) }

// Entry is a node with its depth, as produced by Flatten.
type Entry struct {
	Node  *Node
	Depth int
}

// Flatten walks the hierarchy depth-first, roots in order, children in
// listing order.
func (h *Hierarchy) Flatten() []Entry {
	out := make([]Entry, 0, len(h.byID))
	var walk func(n *Node, depth int)
	walk = func(n *Node, depth int) {
		out = append(out, Entry{Node: n, Depth: depth})
		for _, c := range n.Children {
			walk(c, depth+1)
		}
	}
	for _, r := range h.Roots {
		walk(r, 0)
	}
	return out
}

func mark(n *Node, reached map[*Node]bool) {
	if reached[n] {
		return
	}
	reached[n] = true
	for _, c := range n.Children {
		mark(c, reached)
	}
}

// findCycle follows parent links from n until a node repeats and returns the
// loop in child-to-parent order.
func findCycle(n *Node) []*Node {
	seen := make(map[*Node]int)
	var chain []*Node
	for cur := n; ; cur = cur.parent {
		if i, ok := seen[cur]; ok {
			return chain[i:]
		}
		seen[cur] = len(chain)
		chain = append(chain, cur)
	}
}

func detach(n *Node) {
	if n.parent == nil {
		return
	}
	p := n.parent
	p.Children = slices.DeleteFunc(p.Children, func(c *Node) bool { return c == n })
	n.parent = nil
}
