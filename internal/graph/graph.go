package graph

// Graph is a directed graph whose edges point from a dependency to the node
// that needs it. Nodes remember the order in which they were first referenced
// and that order breaks ties during sorting.
type Graph[K comparable] struct {
	index      map[K]int
	nodes      []K
	successors [][]int
	inDegree   []int
	edges      map[[2]int]struct{}
}

// New creates an empty graph
func New[K comparable]() *Graph[K] {
	return &Graph[K]{
		index: make(map[K]int),
		edges: make(map[[2]int]struct{}),
	}
}

// AddNode inserts id if it is not present and reports whether it was added
func (g *Graph[K]) AddNode(id K) bool {
	if _, exists := g.index[id]; exists {
		return false
	}
	g.index[id] = len(g.nodes)
	g.nodes = append(g.nodes, id)
	g.successors = append(g.successors, nil)
	g.inDegree = append(g.inDegree, 0)
	return true
}

// AddEdge records that to depends on from. Missing endpoints are added, from
// first. Repeated edges are ignored.
func (g *Graph[K]) AddEdge(from, to K) {
	g.AddNode(from)
	g.AddNode(to)

	f, t := g.index[from], g.index[to]
	key := [2]int{f, t}
	if _, exists := g.edges[key]; exists {
		return
	}
	g.edges[key] = struct{}{}
	g.successors[f] = append(g.successors[f], t)
	g.inDegree[t]++
}

// HasNode reports whether id is in the graph
func (g *Graph[K]) HasNode(id K) bool {
	_, exists := g.index[id]
	return exists
}

// HasEdge reports whether the edge from -> to exists
func (g *Graph[K]) HasEdge(from, to K) bool {
	f, ok := g.index[from]
	if !ok {
		return false
	}
	t, ok := g.index[to]
	if !ok {
		return false
	}
	_, exists := g.edges[[2]int{f, t}]
	return exists
}

// Nodes returns all nodes in first-referenced order
func (g *Graph[K]) Nodes() []K {
	nodes := make([]K, len(g.nodes))
	copy(nodes, g.nodes)
	return nodes
}

// Dependencies returns the nodes id depends on, in first-referenced order
func (g *Graph[K]) Dependencies(id K) []K {
	t, ok := g.index[id]
	if !ok {
		return nil
	}
	var result []K
	for f := range g.nodes {
		if _, exists := g.edges[[2]int{f, t}]; exists {
			result = append(result, g.nodes[f])
		}
	}
	return result
}

// Size returns the number of nodes
func (g *Graph[K]) Size() int {
	return len(g.nodes)
}

// EdgeCount returns the number of distinct edges
func (g *Graph[K]) EdgeCount() int {
	return len(g.edges)
}
