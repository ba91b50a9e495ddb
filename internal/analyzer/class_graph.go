package analyzer

import (
	"sort"

	"github.com/ludo-technologies/archscan/domain"
	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/simple"
)

// ClassGraph is the directed dependency graph over class names.
// Only classes taking part in at least one edge become nodes. Node ids
// follow first appearance while walking the model in insertion order.
type ClassGraph struct {
	g     *simple.DirectedGraph
	names []string
	index map[string]int64
}

// BuildClassGraph collapses the model's id-level edges to name-level edges.
// Name-level self loops, which arise when two classes share a name, are skipped.
func BuildClassGraph(model *domain.DesignModel) *ClassGraph {
	cg := &ClassGraph{
		g:     simple.NewDirectedGraph(),
		index: make(map[string]int64),
	}
	if model == nil {
		return cg
	}

	for _, c := range model.Classes() {
		for _, depID := range c.Outgoing() {
			dep := model.Class(depID)
			if dep == nil || dep.Name == c.Name {
				continue
			}
			from := cg.node(c.Name)
			to := cg.node(dep.Name)
			if !cg.g.HasEdgeFromTo(from.ID(), to.ID()) {
				cg.g.SetEdge(cg.g.NewEdge(from, to))
			}
		}
	}

	return cg
}

func (cg *ClassGraph) node(name string) graph.Node {
	if id, ok := cg.index[name]; ok {
		return cg.g.Node(id)
	}
	id := int64(len(cg.names))
	n := simple.Node(id)
	cg.g.AddNode(n)
	cg.index[name] = id
	cg.names = append(cg.names, name)
	return n
}

// NodeCount returns the number of named nodes
func (cg *ClassGraph) NodeCount() int {
	return len(cg.names)
}

// EdgeCount returns the number of distinct name-level edges
func (cg *ClassGraph) EdgeCount() int {
	return cg.g.Edges().Len()
}

// Name returns the class name of node id
func (cg *ClassGraph) Name(id int64) string {
	return cg.names[id]
}

// ID returns the node id for a class name
func (cg *ClassGraph) ID(name string) (int64, bool) {
	id, ok := cg.index[name]
	return id, ok
}

// Successors returns the ids node id points to, in ascending order
func (cg *ClassGraph) Successors(id int64) []int64 {
	return sortedIDs(cg.g.From(id))
}

// Predecessors returns the ids pointing to node id, in ascending order
func (cg *ClassGraph) Predecessors(id int64) []int64 {
	return sortedIDs(cg.g.To(id))
}

// InDegree returns the number of predecessors of id
func (cg *ClassGraph) InDegree(id int64) int {
	return cg.g.To(id).Len()
}

// OutDegree returns the number of successors of id
func (cg *ClassGraph) OutDegree(id int64) int {
	return cg.g.From(id).Len()
}

// Degree returns in-degree plus out-degree
func (cg *ClassGraph) Degree(id int64) int {
	return cg.InDegree(id) + cg.OutDegree(id)
}

func sortedIDs(nodes graph.Nodes) []int64 {
	ids := make([]int64, 0, nodes.Len())
	for nodes.Next() {
		ids = append(ids, nodes.Node().ID())
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
