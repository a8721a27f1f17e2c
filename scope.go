package godigen

// CacheTiers maps every node of a tree to the graph instance holding its cached value.
// Unscoped nodes are absent, they are built on every request.
type CacheTiers map[NodeID]*BindingGraph

// AssignCacheTiers places scoped values on the graph declaring their scope.
//
// The builder already resolves a scoped binding in the nearest graph of its scope, so the
// tier is the owner of the node. Two instances of that graph never share the value.
func AssignCacheTiers(g *BindingGraph) CacheTiers {
	tiers := make(CacheTiers)
	for _, n := range g.Root().AllNodes() {
		if n.Binding.Scope == "" {
			continue
		}
		switch n.Binding.Kind {
		case KindConstructor, KindProvides, KindBinds:
			tiers[n.ID] = n.Owner
		case KindMultibinding, KindAssistedFactory, KindMembersInjection, KindGraphExtension, KindBoundInstance:
		default:
			panic("unknown binding kind")
		}
	}
	return tiers
}

// Tier returns the graph caching the node value, if any.
func (t CacheTiers) Tier(id NodeID) (*BindingGraph, bool) {
	g, found := t[id]
	return g, found
}

// Cached returns the ids of the nodes cached on the given graph, in id order.
func (t CacheTiers) Cached(g *BindingGraph) []NodeID {
	var ids []NodeID
	for _, n := range g.Nodes() {
		if owner, found := t[n.ID]; found && owner == g {
			ids = append(ids, n.ID)
		}
	}
	return ids
}
