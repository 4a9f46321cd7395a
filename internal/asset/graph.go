package asset

// Graph is the node/link structure consumed by layout and rendering.
// Nodes keep insertion order because spatial placement is a function of
// node index; the id index enforces uniqueness.
type Graph struct {
	Nodes []GraphNode `json:"nodes"`
	Links []GraphLink `json:"links"`

	byID map[string]int
}

// NewGraph returns an empty graph.
func NewGraph() *Graph {
	return &Graph{byID: make(map[string]int)}
}

// PutNode inserts a node, or replaces an existing node with the same id
// in place. Replacement keeps the original insertion position.
func (g *Graph) PutNode(n GraphNode) {
	if g.byID == nil {
		g.reindex()
	}
	if i, ok := g.byID[n.ID]; ok {
		g.Nodes[i] = n
		return
	}
	g.byID[n.ID] = len(g.Nodes)
	g.Nodes = append(g.Nodes, n)
}

// Node returns a pointer to the node with the given id, or nil.
func (g *Graph) Node(id string) *GraphNode {
	if g.byID == nil {
		g.reindex()
	}
	i, ok := g.byID[id]
	if !ok {
		return nil
	}
	return &g.Nodes[i]
}

// HasNode reports whether a node with the given id exists.
func (g *Graph) HasNode(id string) bool { return g.Node(id) != nil }

// AddLink appends a link if both endpoints exist. Dangling references
// are dropped silently.
func (g *Graph) AddLink(l GraphLink) bool {
	if !g.HasNode(l.SourceID) || !g.HasNode(l.TargetID) {
		return false
	}
	g.Links = append(g.Links, l)
	return true
}

// Len returns the number of nodes.
func (g *Graph) Len() int { return len(g.Nodes) }

// reindex rebuilds the id index, keeping the last occurrence of any
// duplicated id. Needed after JSON decoding, which bypasses PutNode.
func (g *Graph) reindex() {
	g.byID = make(map[string]int, len(g.Nodes))
	for i, n := range g.Nodes {
		g.byID[n.ID] = i
	}
}
