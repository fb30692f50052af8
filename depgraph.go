package ontoenv

import (
	"sort"

	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/encoding"
	"gonum.org/v1/gonum/graph/encoding/dot"
	"gonum.org/v1/gonum/graph/simple"
)

// depNode adapts a GraphIdentifier to gonum's graph.Node, and to
// encoding.Attributer/dot.Node so DOT export can label vertices by name
// instead of their internal integer id.
type depNode struct {
	id   int64
	name string
}

func (n depNode) ID() int64 { return n.id }

func (n depNode) DOTID() string { return n.name }

func (n depNode) Attributes() []encoding.Attribute {
	return []encoding.Attribute{{Key: "label", Value: n.name}}
}

// DepGraph is the dependency graph over an environment's ontologies: a
// directed edge A -> B means A declares owl:imports B. Built fresh from the
// Index on every Update and on every load, per §4.7. Each persist writes
// an adjacency snapshot to dependency_graph.json, which load does not read
// back; DOT output is rendered on demand.
type DepGraph struct {
	g          *simple.DirectedGraph
	nodeByName map[string]depNode
	nextID     int64
}

// BuildDepGraph constructs the dependency graph from every record held by
// idx, resolving each owl:imports target through policy.
func BuildDepGraph(idx *Index, policy ResolutionPolicy) (*DepGraph, error) {
	dg := &DepGraph{
		g:          simple.NewDirectedGraph(),
		nodeByName: make(map[string]depNode),
	}
	for _, o := range idx.All() {
		dg.nodeFor(o.Name)
	}
	for _, o := range idx.All() {
		from := dg.nodeFor(o.Name)
		for _, importName := range o.Imports {
			target, err := idx.Resolve(importName, policy)
			if err != nil {
				Log().Warnf("unresolved import %q from %q: %v", importName, o.Name, err)
				continue
			}
			to := dg.nodeFor(target.Name)
			if !dg.g.HasEdgeFromTo(from.ID(), to.ID()) {
				dg.g.SetEdge(dg.g.NewEdge(from, to))
			}
		}
	}
	return dg, nil
}

func (dg *DepGraph) nodeFor(name string) depNode {
	if n, ok := dg.nodeByName[name]; ok {
		return n
	}
	n := depNode{id: dg.nextID, name: name}
	dg.nextID++
	dg.nodeByName[name] = n
	dg.g.AddNode(n)
	return n
}

// sortedNeighbors drains a gonum graph.Nodes iterator into a depNode slice
// sorted by name. simple.DirectedGraph's adjacency is map-backed, so From()
// and To() iterate in randomized order; any traversal exposed to a caller
// sorts by canonical name first to stay reproducible across runs.
func sortedNeighbors(nodes graph.Nodes) []depNode {
	var out []depNode
	for nodes.Next() {
		out = append(out, nodes.Node().(depNode))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].name < out[j].name })
	return out
}

// bfsFrontier is one (node, depth) pair in the closure queue.
type bfsFrontier struct {
	node  depNode
	depth int
}

// Closure performs a breadth-first traversal from root over owl:imports
// edges, bounded by depth: depth 0 returns just root, depth 1 returns root
// plus its direct imports, depth < 0 is unbounded. Cycles are broken by a
// visited set; every name appears at most once, root first, then BFS
// frontier order.
func (dg *DepGraph) Closure(root string, depth int) ([]string, error) {
	start, ok := dg.nodeByName[root]
	if !ok {
		return nil, newErr(KindUnresolved, "no such ontology in dependency graph: "+root, nil)
	}
	seen := map[int64]bool{start.ID(): true}
	order := []string{root}

	queue := []bfsFrontier{{node: start, depth: 0}}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if depth >= 0 && cur.depth >= depth {
			continue
		}
		for _, next := range sortedNeighbors(dg.g.From(cur.node.ID())) {
			if seen[next.ID()] {
				continue
			}
			seen[next.ID()] = true
			order = append(order, next.name)
			queue = append(queue, bfsFrontier{node: next, depth: cur.depth + 1})
		}
	}
	return order, nil
}

// Importers returns every ontology name with a direct edge into name, i.e.
// every ontology that declares owl:imports on name.
func (dg *DepGraph) Importers(name string) ([]string, error) {
	target, ok := dg.nodeByName[name]
	if !ok {
		return nil, newErr(KindUnresolved, "no such ontology in dependency graph: "+name, nil)
	}
	var out []string
	nodes := dg.g.To(target.ID())
	for nodes.Next() {
		out = append(out, nodes.Node().(depNode).name)
	}
	sort.Strings(out)
	return out, nil
}

// ExplainImport returns, for every ontology that transitively imports
// target, one shortest owl:imports path from that ontology down to target
// (target itself included as the path's last element). It backs the `why`
// command: `why B` with `C imports A imports B` yields `{[A, B], [C, A, B]}`.
func (dg *DepGraph) ExplainImport(target string) ([][]string, error) {
	targetNode, ok := dg.nodeByName[target]
	if !ok {
		return nil, newErr(KindUnresolved, "no such ontology in dependency graph: "+target, nil)
	}
	// towardTarget[n] is the next node on n's shortest path to target.
	towardTarget := map[int64]int64{}
	visited := map[int64]depNode{targetNode.ID(): targetNode}
	queue := []depNode{targetNode}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, pred := range sortedNeighbors(dg.g.To(cur.ID())) {
			if _, seen := visited[pred.ID()]; seen {
				continue
			}
			visited[pred.ID()] = pred
			towardTarget[pred.ID()] = cur.ID()
			queue = append(queue, pred)
		}
	}

	var paths [][]string
	for id, n := range visited {
		if id == targetNode.ID() {
			continue
		}
		var path []string
		for cur := n.ID(); ; {
			path = append(path, visited[cur].name)
			next, ok := towardTarget[cur]
			if !ok {
				break
			}
			cur = next
		}
		paths = append(paths, path)
	}
	sort.Slice(paths, func(i, j int) bool { return paths[i][0] < paths[j][0] })
	return paths, nil
}

// ToDOT renders the dependency graph in Graphviz DOT form.
func (dg *DepGraph) ToDOT() (string, error) {
	b, err := dot.Marshal(dg.g, "ontoenv", "", "  ")
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Subgraph builds a new DepGraph containing only the union of each root's
// closure (nodes and the edges between them), for `dep-graph ROOTS…`'s
// restricted rendering. An empty roots list returns dg itself unchanged.
func (dg *DepGraph) Subgraph(roots []string) (*DepGraph, error) {
	if len(roots) == 0 {
		return dg, nil
	}
	keep := map[string]bool{}
	for _, root := range roots {
		names, err := dg.Closure(root, -1)
		if err != nil {
			return nil, err
		}
		for _, n := range names {
			keep[n] = true
		}
	}
	out := &DepGraph{g: simple.NewDirectedGraph(), nodeByName: make(map[string]depNode)}
	for name := range keep {
		out.nodeFor(name)
	}
	for name := range keep {
		from := dg.nodeByName[name]
		to := dg.g.From(from.ID())
		for to.Next() {
			target := to.Node().(depNode)
			if !keep[target.name] {
				continue
			}
			a, b := out.nodeFor(name), out.nodeFor(target.name)
			if !out.g.HasEdgeFromTo(a.ID(), b.ID()) {
				out.g.SetEdge(out.g.NewEdge(a, b))
			}
		}
	}
	return out, nil
}
