package dag

import (
	"fmt"
	"slices"
)

// New creates and returns an initialized, empty Graph.
func New() *Graph {
	return &Graph{
		nodes: make(map[string]*node),
	}
}

// AddNode adds a new node with the given ID to the graph. If a node with
// the same ID already exists, the function does nothing.
func (g *Graph) AddNode(id string) {
	g.mutex.Lock()
	defer g.mutex.Unlock()

	if _, ok := g.nodes[id]; ok {
		return
	}

	g.nodes[id] = &node{id: id}
	g.order = append(g.order, id)
}

// AddEdge creates a directed edge from the `fromID` node to the `toID` node.
// This signifies that `toID` has a dependency on `fromID`. An error is returned
// if either node does not exist or if the edge would create a self-reference.
// Adding the same edge twice is a no-op.
func (g *Graph) AddEdge(fromID, toID string) error {
	if fromID == toID {
		return fmt.Errorf("self-referential edge not allowed: %s -> %s", fromID, fromID)
	}

	g.mutex.Lock()
	defer g.mutex.Unlock()

	fromNode, ok := g.nodes[fromID]
	if !ok {
		return fmt.Errorf("source node not found: %s", fromID)
	}

	toNode, ok := g.nodes[toID]
	if !ok {
		return fmt.Errorf("destination node not found: %s", toID)
	}

	if slices.Contains(toNode.deps, fromNode) {
		return nil
	}
	toNode.deps = append(toNode.deps, fromNode)

	return nil
}

// DetectCycles checks the whole graph for cycles. It returns a *CycleError
// describing the first cycle found, visiting roots in insertion order.
func (g *Graph) DetectCycles() error {
	g.mutex.RLock()
	defer g.mutex.RUnlock()

	w := newWalker()
	for _, id := range g.order {
		if err := w.visit(g.nodes[id]); err != nil {
			return err
		}
	}
	return nil
}

// PostOrder returns the IDs reachable from root with every node listed after
// all of its dependencies and each node listed once. Root is last.
func (g *Graph) PostOrder(root string) ([]string, error) {
	g.mutex.RLock()
	defer g.mutex.RUnlock()

	n, ok := g.nodes[root]
	if !ok {
		return nil, &NotFoundError{ID: root}
	}

	w := newWalker()
	if err := w.visit(n); err != nil {
		return nil, err
	}
	return w.emitted, nil
}

// walker is a depth-first traversal with a visiting set (the current path)
// for cycle detection and a visited set for deduplication.
type walker struct {
	visiting map[string]bool
	visited  map[string]bool
	path     []string
	emitted  []string
}

func newWalker() *walker {
	return &walker{
		visiting: make(map[string]bool),
		visited:  make(map[string]bool),
	}
}

func (w *walker) visit(n *node) error {
	if w.visited[n.id] {
		return nil
	}
	if w.visiting[n.id] {
		start := slices.Index(w.path, n.id)
		cycle := append(slices.Clone(w.path[start:]), n.id)
		return &CycleError{Path: cycle}
	}

	w.visiting[n.id] = true
	w.path = append(w.path, n.id)

	for _, dep := range n.deps {
		if err := w.visit(dep); err != nil {
			return err
		}
	}

	w.path = w.path[:len(w.path)-1]
	delete(w.visiting, n.id)
	w.visited[n.id] = true
	w.emitted = append(w.emitted, n.id)
	return nil
}
