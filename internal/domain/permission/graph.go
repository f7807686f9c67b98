package permission

import (
	stderrors "errors"
	"fmt"
	"sort"
)

var (
	ErrCycleDetected    = stderrors.New("permission hierarchy contains a cycle")
	ErrHierarchyTooDeep = stderrors.New("permission hierarchy exceeds maximum depth")
)

// DefaultMaxDepth bounds ancestor walks when no explicit limit is configured.
const DefaultMaxDepth = 64

// Graph is an in-memory view of the permission forest built from the
// adjacency rows (parent_id). Traversals use an explicit stack with a visited
// set and fail with ErrCycleDetected instead of looping when the stored data
// is not a forest.
type Graph struct {
	nodes    map[uint]*Permission
	byCode   map[string]*Permission
	children map[uint][]uint
	roots    []uint
	maxDepth int
}

type GraphOption func(*Graph)

func WithMaxDepth(depth int) GraphOption {
	return func(g *Graph) {
		if depth > 0 {
			g.maxDepth = depth
		}
	}
}

func NewGraph(perms []*Permission, opts ...GraphOption) *Graph {
	g := &Graph{
		nodes:    make(map[uint]*Permission, len(perms)),
		byCode:   make(map[string]*Permission, len(perms)),
		children: make(map[uint][]uint),
		maxDepth: DefaultMaxDepth,
	}
	for _, opt := range opts {
		opt(g)
	}

	for _, p := range perms {
		g.nodes[p.ID()] = p
		g.byCode[p.Code()] = p
	}
	for _, p := range perms {
		parent := p.ParentID()
		// A parent that is missing (deleted) leaves the node as a root.
		if parent == nil || g.nodes[*parent] == nil {
			g.roots = append(g.roots, p.ID())
			continue
		}
		g.children[*parent] = append(g.children[*parent], p.ID())
	}

	g.sortIDs(g.roots)
	for _, ids := range g.children {
		g.sortIDs(ids)
	}
	return g
}

func (g *Graph) sortIDs(ids []uint) {
	sort.SliceStable(ids, func(i, j int) bool {
		a, b := g.nodes[ids[i]], g.nodes[ids[j]]
		if a.SortOrder() != b.SortOrder() {
			return a.SortOrder() < b.SortOrder()
		}
		return a.ID() < b.ID()
	})
}

func (g *Graph) Get(id uint) (*Permission, bool) {
	p, ok := g.nodes[id]
	return p, ok
}

func (g *Graph) ByCode(code string) (*Permission, bool) {
	p, ok := g.byCode[code]
	return p, ok
}

func (g *Graph) Len() int {
	return len(g.nodes)
}

// Ancestors returns the parent chain of id, nearest first.
func (g *Graph) Ancestors(id uint) ([]uint, error) {
	node, ok := g.nodes[id]
	if !ok {
		return nil, nil
	}

	visited := map[uint]bool{id: true}
	var chain []uint
	for parent := node.ParentID(); parent != nil; {
		p, ok := g.nodes[*parent]
		if !ok {
			break
		}
		if visited[p.ID()] {
			return nil, fmt.Errorf("%w: permission %d reached twice while walking ancestors of %d", ErrCycleDetected, p.ID(), id)
		}
		if len(chain) >= g.maxDepth {
			return nil, fmt.Errorf("%w: more than %d ancestors above permission %d", ErrHierarchyTooDeep, g.maxDepth, id)
		}
		visited[p.ID()] = true
		chain = append(chain, p.ID())
		parent = p.ParentID()
	}
	return chain, nil
}

// Descendants returns every permission below id in depth-first pre-order.
func (g *Graph) Descendants(id uint) ([]uint, error) {
	if _, ok := g.nodes[id]; !ok {
		return nil, nil
	}

	visited := map[uint]bool{id: true}
	var out []uint
	stack := g.pushChildren(nil, id)
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if visited[cur] {
			return nil, fmt.Errorf("%w: permission %d reached twice while walking descendants of %d", ErrCycleDetected, cur, id)
		}
		visited[cur] = true
		out = append(out, cur)
		stack = g.pushChildren(stack, cur)
	}
	return out, nil
}

// pushChildren pushes children in reverse so they pop in sort order.
func (g *Graph) pushChildren(stack []uint, id uint) []uint {
	kids := g.children[id]
	for i := len(kids) - 1; i >= 0; i-- {
		stack = append(stack, kids[i])
	}
	return stack
}

// WouldCreateCycle reports whether re-parenting id under newParent would
// close a loop.
func (g *Graph) WouldCreateCycle(id, newParent uint) bool {
	if id == newParent {
		return true
	}
	visited := make(map[uint]bool)
	for cur, ok := g.nodes[newParent]; ok; {
		if cur.ID() == id || visited[cur.ID()] {
			return true
		}
		visited[cur.ID()] = true
		if cur.ParentID() == nil {
			return false
		}
		cur, ok = g.nodes[*cur.ParentID()]
	}
	return false
}

// TreeNode is one node of the materialized permission forest.
type TreeNode struct {
	Permission *Permission
	Children   []*TreeNode
}

// Tree materializes the forest. Nodes that cannot be reached from a root
// only exist inside a cycle, which is reported as ErrCycleDetected.
func (g *Graph) Tree() ([]*TreeNode, error) {
	seen := 0
	forest := make([]*TreeNode, 0, len(g.roots))
	for _, rootID := range g.roots {
		root := &TreeNode{Permission: g.nodes[rootID]}
		forest = append(forest, root)
		seen++

		type frame struct {
			node *TreeNode
			id   uint
		}
		stack := []frame{{root, rootID}}
		for len(stack) > 0 {
			f := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			for _, childID := range g.children[f.id] {
				child := &TreeNode{Permission: g.nodes[childID]}
				f.node.Children = append(f.node.Children, child)
				stack = append(stack, frame{child, childID})
				seen++
				if seen > len(g.nodes) {
					return nil, ErrCycleDetected
				}
			}
		}
	}
	if seen != len(g.nodes) {
		return nil, fmt.Errorf("%w: %d permission(s) unreachable from any root", ErrCycleDetected, len(g.nodes)-seen)
	}
	return forest, nil
}
