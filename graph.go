package godigen

import (
	"github.com/a-peyrard/godigen/fn"
	"github.com/a-peyrard/godigen/heap"
)

type (
	// NodeID indexes a node in the arena shared by a root graph and all its extensions.
	NodeID int

	Edge struct {
		Dependency Dependency
		Target     NodeID
		// BreaksCycle marks a deferred edge closing a dependency cycle, generated code
		// goes through a delegate set once the dependent value is built.
		BreaksCycle bool
	}

	Node struct {
		ID      NodeID
		Binding *Binding
		Owner   *BindingGraph
		Edges   []Edge
	}

	EntryPointNode struct {
		EntryPoint EntryPoint
		Edge       Edge
	}

	InjectorNode struct {
		Method InjectorMethod
		Node   NodeID
	}

	ExtensionNode struct {
		Factory ExtensionFactoryDecl
		Node    NodeID
		Child   *BindingGraph
	}

	// BindingGraph is the resolved, validated construction plan of one graph.
	BindingGraph struct {
		Decl        *GraphDecl
		Parent      *BindingGraph
		EntryPoints []EntryPointNode
		Injectors   []InjectorNode
		Extensions  []ExtensionNode
		// Bound are the nodes of the values given to the graph creator or to the extension factory.
		Bound []NodeID
		// Contributed are the interfaces the graph implements because they are contributed to its scope.
		Contributed []*ContributedInterfaceDecl

		owned []NodeID
		arena *arena
	}

	arena struct {
		nodes      []*Node
		components []int
	}
)

// unresolved is the target of edges whose dependency could not be resolved.
const unresolved NodeID = -1

func (a *arena) add(b *Binding, owner *BindingGraph) *Node {
	n := &Node{ID: NodeID(len(a.nodes)), Binding: b, Owner: owner}
	a.nodes = append(a.nodes, n)
	owner.owned = append(owner.owned, n.ID)
	return n
}

func (g *BindingGraph) Node(id NodeID) *Node {
	return g.arena.nodes[id]
}

// Nodes returns the nodes owned by the graph, in creation order.
func (g *BindingGraph) Nodes() []*Node {
	nodes := make([]*Node, len(g.owned))
	for i, id := range g.owned {
		nodes[i] = g.arena.nodes[id]
	}
	return nodes
}

// AllNodes returns the nodes of the whole tree the graph belongs to.
func (g *BindingGraph) AllNodes() []*Node {
	return g.arena.nodes
}

// SameCycle reports whether both nodes belong to the same strongly connected component.
func (g *BindingGraph) SameCycle(a, b NodeID) bool {
	c := g.arena.components
	return a != b && c != nil && c[a] == c[b]
}

func (g *BindingGraph) Root() *BindingGraph {
	root := g
	for root.Parent != nil {
		root = root.Parent
	}
	return root
}

// Depth is 0 for a root graph, 1 for its extensions and so on.
func (g *BindingGraph) Depth() int {
	depth := 0
	for p := g.Parent; p != nil; p = p.Parent {
		depth++
	}
	return depth
}

// Walk visits the graph then its extensions, depth first, in declaration order.
func (g *BindingGraph) Walk(visit func(*BindingGraph)) {
	visit(g)
	for _, ext := range g.Extensions {
		ext.Child.Walk(visit)
	}
}

// TopologicalOrder returns the nodes owned by the graph, dependencies first.
//
// Deferred edges and edges leaving the graph are ignored, ties are broken by node id
// so the order only depends on the resolution order.
func (g *BindingGraph) TopologicalOrder() []*Node {
	pending := make(map[NodeID]int, len(g.owned))
	dependents := make(map[NodeID][]NodeID, len(g.owned))
	for _, id := range g.owned {
		pending[id] = 0
	}
	for _, id := range g.owned {
		n := g.Node(id)
		for _, e := range n.Edges {
			if e.Target == unresolved || e.Dependency.Kind.IsDeferred() {
				continue
			}
			if _, local := pending[e.Target]; !local {
				continue
			}
			pending[id]++
			dependents[e.Target] = append(dependents[e.Target], id)
		}
	}

	ready := heap.New[NodeID](fn.NaturalOrder[NodeID]())
	for _, id := range g.owned {
		if pending[id] == 0 {
			ready.Push(id)
		}
	}

	order := make([]*Node, 0, len(g.owned))
	emitted := make(map[NodeID]bool, len(g.owned))
	for ready.IsNotEmpty() {
		id := ready.Pop()
		order = append(order, g.Node(id))
		emitted[id] = true
		for _, dependent := range dependents[id] {
			pending[dependent]--
			if pending[dependent] == 0 {
				ready.Push(dependent)
			}
		}
	}

	// only reachable on graphs rejected for cycles, keep them visible in id order
	for _, id := range g.owned {
		if !emitted[id] {
			order = append(order, g.Node(id))
		}
	}
	return order
}
