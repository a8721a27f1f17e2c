package godigen

// checkCycles reports every cycle made only of non-deferred edges, visiting nodes in id order.
func checkCycles(nodes []*Node) Diagnostics {
	var diags Diagnostics
	done := make([]bool, len(nodes))
	t := newTracker()

	var visit func(id NodeID)
	visit = func(id NodeID) {
		if done[id] {
			return
		}
		if cycle, found := t.push(id); found {
			diags = append(diags, cycleDiagnostic(nodes, cycle))
			return
		}
		for _, e := range nodes[id].Edges {
			if e.Target != unresolved && !e.Dependency.Kind.IsDeferred() {
				visit(e.Target)
			}
		}
		t.pop()
		done[id] = true
	}

	for _, n := range nodes {
		visit(n.ID)
	}
	return diags
}

func cycleDiagnostic(nodes []*Node, cycle []NodeID) Diagnostic {
	path := make([]*Node, len(cycle))
	keys := make([]Key, 0, len(cycle)-1)
	for i, id := range cycle {
		path[i] = nodes[id]
		if i < len(cycle)-1 {
			keys = append(keys, nodes[id].Binding.Key)
		}
	}
	first := path[0]
	return newError(
		DependencyCycle,
		first.Binding.Location,
		keys,
		"found a dependency cycle, use a provider or a lazy dependency to break it:\n%s",
		formatCycle(path),
	)
}

// markCycleBreakers flags the deferred edges belonging to a cycle, so code generation
// can back-patch them once their dependent is built. It returns the component of every node.
func markCycleBreakers(nodes []*Node) []int {
	components := stronglyConnected(nodes)
	for _, n := range nodes {
		for i, e := range n.Edges {
			if e.Target != unresolved && e.Dependency.Kind.IsDeferred() && components[n.ID] == components[e.Target] {
				n.Edges[i].BreaksCycle = true
			}
		}
	}
	return components
}

// stronglyConnected returns the component index of every node (Tarjan).
func stronglyConnected(nodes []*Node) []int {
	var (
		index     = 0
		count     = 0
		indexes   = make([]int, len(nodes))
		lowlinks  = make([]int, len(nodes))
		onStack   = make([]bool, len(nodes))
		stack     []NodeID
		component = make([]int, len(nodes))
	)
	for i := range indexes {
		indexes[i] = -1
	}

	var connect func(id NodeID)
	connect = func(id NodeID) {
		indexes[id] = index
		lowlinks[id] = index
		index++
		stack = append(stack, id)
		onStack[id] = true

		for _, e := range nodes[id].Edges {
			switch {
			case e.Target == unresolved:
			case indexes[e.Target] < 0:
				connect(e.Target)
				lowlinks[id] = min(lowlinks[id], lowlinks[e.Target])
			case onStack[e.Target]:
				lowlinks[id] = min(lowlinks[id], indexes[e.Target])
			}
		}

		if lowlinks[id] == indexes[id] {
			for {
				top := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				onStack[top] = false
				component[top] = count
				if top == id {
					break
				}
			}
			count++
		}
	}

	for _, n := range nodes {
		if indexes[n.ID] < 0 {
			connect(n.ID)
		}
	}
	return component
}
