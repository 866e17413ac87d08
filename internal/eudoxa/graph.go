package eudoxa

// Edge is a directed edge between two node names.
type Edge struct {
	From string `json:"from" yaml:"from"`
	To   string `json:"to" yaml:"to"`
}

// Graph is plain graph data for a renderer: nodes in insertion order and
// directed edges.
type Graph struct {
	Nodes []string `json:"nodes" yaml:"nodes"`
	Edges []Edge   `json:"edges" yaml:"edges"`
}

// Reduce returns the transitive reduction: an edge is dropped when its
// target stays reachable from its source without it. Edges are examined
// in order against the graph as reduced so far, so reachability is kept
// even when the input has cycles.
func (g *Graph) Reduce() *Graph {
	kept := make([]bool, len(g.Edges))
	for i := range kept {
		kept[i] = true
	}
	for i, e := range g.Edges {
		kept[i] = false
		if !g.reachable(e.From, e.To, kept) {
			kept[i] = true
		}
	}
	out := &Graph{Nodes: append([]string(nil), g.Nodes...)}
	for i, e := range g.Edges {
		if kept[i] {
			out.Edges = append(out.Edges, e)
		}
	}
	return out
}

// reachable runs a BFS over the kept edges.
func (g *Graph) reachable(from, to string, kept []bool) bool {
	adj := make(map[string][]string)
	for i, e := range g.Edges {
		if kept[i] {
			adj[e.From] = append(adj[e.From], e.To)
		}
	}
	visited := map[string]bool{from: true}
	queue := []string{from}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, next := range adj[cur] {
			if next == to {
				return true
			}
			if !visited[next] {
				visited[next] = true
				queue = append(queue, next)
			}
		}
	}
	return false
}

// DominanceGraph links each named consequence to the ones it dominates,
// transitively reduced.
func (m *Model) DominanceGraph() (*Graph, error) {
	t, err := m.DominanceTable()
	if err != nil {
		return nil, err
	}
	g := &Graph{}
	for _, nc := range m.named {
		if nc.Levels.Complete() {
			g.Nodes = append(g.Nodes, nc.Name)
		}
	}
	for _, p := range t.Dominates {
		g.Edges = append(g.Edges, Edge(p))
	}
	return g.Reduce(), nil
}

// LevelGraph links each level of an aspect to the levels it is better than
// or equal to but not equal, transitively reduced.
func (m *Model) LevelGraph(aspect string) (*Graph, error) {
	a, err := m.Aspect(aspect)
	if err != nil {
		return nil, err
	}
	g := &Graph{Nodes: a.LevelIDs()}
	for _, la := range g.Nodes {
		for _, lb := range g.Nodes {
			if la == lb {
				continue
			}
			rel, err := levelRelation(m.matrix, aspect, la, lb)
			if err != nil {
				return nil, err
			}
			if rel == Better || rel == BetterOrEqual {
				g.Edges = append(g.Edges, Edge{From: la, To: lb})
			}
		}
	}
	return g.Reduce(), nil
}

// RelationGrid returns the level × level relations of an aspect; row i,
// column j holds the relation of level i to level j.
func (m *Model) RelationGrid(aspect string) ([]string, [][]LevelRelation, error) {
	a, err := m.Aspect(aspect)
	if err != nil {
		return nil, nil, err
	}
	ids := a.LevelIDs()
	grid := make([][]LevelRelation, len(ids))
	for i, la := range ids {
		grid[i] = make([]LevelRelation, len(ids))
		for j, lb := range ids {
			rel, err := levelRelation(m.matrix, aspect, la, lb)
			if err != nil {
				return nil, nil, err
			}
			grid[i][j] = rel
		}
	}
	return ids, grid, nil
}
