package bvh

import (
	"sort"

	"github.com/san-kum/particlesim/internal/geom"
	"github.com/san-kum/particlesim/internal/particle"
)

// DefaultMargin pads each particle position into its leaf box.
const DefaultMargin = 0.1

const none = -1

type node struct {
	bounds      geom.AABB
	left, right int
	leaf        int // particle index, none for internal nodes
}

// NodeView is a read-only copy of a tree node.
type NodeView struct {
	Index       int
	Bounds      geom.AABB
	Left, Right int
	Leaf        int
}

func (v NodeView) IsLeaf() bool { return v.Leaf >= 0 }

// Tree is a median-split BVH over particle positions.
type Tree struct {
	margin float64
	nodes  []node
	order  []int
	boxes  []geom.AABB
	stack  []int
	root   int
}

func New(margin float64) *Tree {
	return &Tree{margin: margin, root: none}
}

func (t *Tree) Name() string    { return "bvh" }
func (t *Tree) Margin() float64 { return t.margin }

// Build discards the previous tree and constructs a new one over ps.
//
// Each node covers a contiguous range of the tree's index permutation. A
// range of one particle becomes a leaf; otherwise the range is sorted along
// the longer axis of its bounds and split at start+count/2, so the median
// goes right. The permutation survives between builds of equally sized
// sets, which keeps re-sorting cheap for slowly moving particles.
func (t *Tree) Build(ps []particle.Particle) {
	n := len(ps)
	t.nodes = t.nodes[:0]
	t.root = none

	if len(t.order) != n {
		t.order = t.order[:0]
		for i := 0; i < n; i++ {
			t.order = append(t.order, i)
		}
	}
	if n == 0 {
		t.boxes = t.boxes[:0]
		return
	}

	t.boxes = t.boxes[:0]
	for i := range ps {
		t.boxes = append(t.boxes, ps[i].Bounds(t.margin))
	}

	if cap(t.nodes) < 2*n-1 {
		t.nodes = make([]node, 0, 2*n-1)
	}
	t.root = t.build(ps, 0, n)
}

func (t *Tree) build(ps []particle.Particle, start, end int) int {
	idx := len(t.nodes)
	t.nodes = append(t.nodes, node{left: none, right: none, leaf: none})

	bounds := t.boxes[t.order[start]]
	for _, i := range t.order[start+1 : end] {
		bounds.Expand(t.boxes[i])
	}

	if end-start == 1 {
		t.nodes[idx].bounds = bounds
		t.nodes[idx].leaf = t.order[start]
		return idx
	}

	axis := bounds.LongestAxis()
	seg := t.order[start:end]
	sort.SliceStable(seg, func(a, b int) bool {
		return axis.Coord(ps[seg[a]].Position) < axis.Coord(ps[seg[b]].Position)
	})

	mid := start + (end-start)/2
	left := t.build(ps, start, mid)
	right := t.build(ps, mid, end)

	// recursion may have grown the arena; write through the index
	t.nodes[idx] = node{bounds: bounds, left: left, right: right, leaf: none}
	return idx
}

// Query appends to dst the index of every particle whose leaf box overlaps
// box and returns the extended slice.
func (t *Tree) Query(box geom.AABB, dst []int) []int {
	if t.root == none {
		return dst
	}

	stack := append(t.stack[:0], t.root)
	for len(stack) > 0 {
		i := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		n := &t.nodes[i]
		if !n.bounds.Overlaps(box) {
			continue
		}
		if n.leaf != none {
			dst = append(dst, n.leaf)
			continue
		}
		stack = append(stack, n.right, n.left)
	}
	t.stack = stack
	return dst
}

// UpdateParticles integrates every particle by dt and rebuilds the tree.
func (t *Tree) UpdateParticles(ps []particle.Particle, dt float64) {
	for i := range ps {
		ps[i].Update(dt)
	}
	t.Build(ps)
}

// LeafBounds returns the padded box of particle i from the last build.
func (t *Tree) LeafBounds(i int) geom.AABB {
	return t.boxes[i]
}

// Len returns the number of particles indexed by the last build.
func (t *Tree) Len() int { return len(t.boxes) }

// NodeCount returns the number of nodes in the arena.
func (t *Tree) NodeCount() int { return len(t.nodes) }

func (t *Tree) Root() (NodeView, bool) {
	if t.root == none {
		return NodeView{}, false
	}
	return t.Node(t.root), true
}

func (t *Tree) Node(i int) NodeView {
	n := t.nodes[i]
	return NodeView{Index: i, Bounds: n.bounds, Left: n.left, Right: n.right, Leaf: n.leaf}
}

// Walk visits nodes depth-first from the root, left before right. Returning
// false from fn skips the node's children.
func (t *Tree) Walk(fn func(NodeView) bool) {
	if t.root == none {
		return
	}
	var visit func(i int)
	visit = func(i int) {
		v := t.Node(i)
		if !fn(v) || v.IsLeaf() {
			return
		}
		visit(v.Left)
		visit(v.Right)
	}
	visit(t.root)
}

// Depth returns the number of levels in the tree; zero when empty.
func (t *Tree) Depth() int {
	if t.root == none {
		return 0
	}
	var depth func(i int) int
	depth = func(i int) int {
		n := t.nodes[i]
		if n.leaf != none {
			return 1
		}
		return 1 + max(depth(n.left), depth(n.right))
	}
	return depth(t.root)
}
