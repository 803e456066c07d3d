package graph

// cycleFrom walks predecessor links among the unsorted nodes until one
// repeats. Every unsorted node has an unsorted predecessor, so the walk always
// closes a cycle. The path is returned in dependency direction.
func (g *Graph[K]) cycleFrom(start int, inDegree []int) []K {
	if start < 0 {
		return nil
	}

	predecessors := make(map[int]int)
	for f, succ := range g.successors {
		if inDegree[f] == 0 {
			continue
		}
		for _, t := range succ {
			if inDegree[t] == 0 {
				continue
			}
			if _, seen := predecessors[t]; !seen {
				predecessors[t] = f
			}
		}
	}

	visited := make(map[int]int)
	var walk []int
	for n := start; ; n = predecessors[n] {
		if at, seen := visited[n]; seen {
			walk = walk[at:]
			break
		}
		visited[n] = len(walk)
		walk = append(walk, n)
	}

	// walk follows edges backwards; reverse it and close the loop
	path := make([]K, 0, len(walk)+1)
	for i := len(walk) - 1; i >= 0; i-- {
		path = append(path, g.nodes[walk[i]])
	}
	path = append(path, path[0])
	return path
}
