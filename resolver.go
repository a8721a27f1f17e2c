package godigen

import (
	"fmt"
	"strings"
)

// resolver resolves keys for one graph of a tree, delegating to its parent for inherited bindings.
type resolver struct {
	build  *build
	graph  *BindingGraph
	parent *resolver

	explicit map[Key][]*Binding
	elements map[Key][]*Binding

	nodes      map[*Binding]NodeID
	aggregates map[Key]NodeID
}

func newResolver(bd *build, g *BindingGraph, parent *resolver) *resolver {
	return &resolver{
		build:      bd,
		graph:      g,
		parent:     parent,
		explicit:   make(map[Key][]*Binding),
		elements:   make(map[Key][]*Binding),
		nodes:      make(map[*Binding]NodeID),
		aggregates: make(map[Key]NodeID),
	}
}

// install makes an explicit binding visible from this graph and its extensions.
func (r *resolver) install(b *Binding) {
	if b.IsElement() {
		key := b.BoundKey()
		for _, existing := range r.elements[key] {
			if existing == b {
				return
			}
		}
		r.elements[key] = append(r.elements[key], b)
		return
	}
	for _, existing := range r.explicit[b.Key] {
		if existing == b {
			return
		}
	}
	r.explicit[b.Key] = append(r.explicit[b.Key], b)
}

// resolve returns the node satisfying the dependency, or unresolved after reporting why.
func (r *resolver) resolve(dep Dependency, requester string, location Location) NodeID {
	key := dep.Key
	c := r.candidatesFor(key)

	switch {
	case c.count() > 1:
		r.build.report(newError(
			DuplicateBinding,
			location,
			[]Key{key},
			"%s is bound multiple times in graph %s, required by %s:\n%s",
			key, r.graph.Decl.Type, requester, c.describe(),
		))
		return unresolved
	case len(c.elements) > 0:
		return r.aggregate(key, c.elements)
	case len(c.explicit) == 1:
		return r.resolveExplicit(c.explicit[0])
	}

	return r.resolveImplicit(key, requester, location)
}

// resolveExplicit places a scoped binding on the graph of its scope, seen from this graph.
// That graph must be the installing graph or one of its extensions.
func (r *resolver) resolveExplicit(cand candidate) NodeID {
	b := cand.binding
	if b.Scope == "" {
		return cand.level.nodeFor(b)
	}
	owner, ok := r.scopeOwner(b.Scope)
	if !ok {
		r.build.report(r.scopeMismatch(b, r))
		return unresolved
	}
	if !cand.level.encloses(owner) {
		r.build.report(newError(
			ScopeMismatch,
			b.Location,
			[]Key{b.Key},
			"%s is scoped %q but installed in graph %s (scope %q), below the graph of its scope %s",
			b, b.Scope, cand.level.graph.Decl.Type, cand.level.graph.Decl.Scope, owner.graph.Decl.Type,
		))
		return unresolved
	}
	return owner.nodeFor(b)
}

func (r *resolver) resolveImplicit(key Key, requester string, location Location) NodeID {
	constructors := r.build.builder.catalog.Constructor(key)
	if len(constructors) > 1 {
		lines := make([]string, len(constructors))
		for i, ctor := range constructors {
			lines[i] = fmt.Sprintf("%s at %s", ctor, ctor.Location)
		}
		r.build.report(newError(
			DuplicateBinding,
			location,
			[]Key{key},
			"%s has %d @inject constructors, required by %s:\n\t%s",
			key, len(constructors), requester, strings.Join(lines, "\n\t"),
		))
		return unresolved
	}
	if len(constructors) == 1 {
		ctor := constructors[0]
		for _, p := range ctor.Params {
			if p.Assisted {
				r.build.report(newError(
					MissingBinding,
					location,
					[]Key{key},
					"%s has assisted parameters and can only be created through its assisted factory, required by %s in graph %s",
					key, requester, r.graph.Decl.Type,
				))
				return unresolved
			}
		}
		level := r
		if ctor.Scope != "" {
			var ok bool
			if level, ok = r.scopeOwner(ctor.Scope); !ok {
				r.build.report(r.scopeMismatch(ctor, r))
				return unresolved
			}
		}
		return level.nodeFor(ctor)
	}

	if key.Qualifier == "" {
		if factory, found := r.build.builder.catalog.AssistedFactory(key.Type); found {
			return r.nodeFor(factory)
		}
	}

	r.build.report(r.missing(key, requester, location))
	return unresolved
}

// nodeFor returns the node of a binding resolved in this graph, creating it on first use.
func (r *resolver) nodeFor(b *Binding) NodeID {
	if id, found := r.nodes[b]; found {
		return id
	}

	n := r.build.arena.add(b, r.graph)
	r.nodes[b] = n.ID
	r.build.used.Add(b)

	if b.Kind == KindAssistedFactory {
		r.build.checkAssisted(b)
	}

	deps := b.Dependencies()
	n.Edges = make([]Edge, len(deps))
	requester := b.String()
	for i, dep := range deps {
		n.Edges[i] = Edge{
			Dependency: dep,
			Target:     r.resolve(dep, requester, b.Location),
		}
	}
	return n.ID
}

// aggregate builds the multibinding of a key from all its elements, own and inherited.
func (r *resolver) aggregate(key Key, elements []candidate) NodeID {
	if id, found := r.aggregates[key]; found {
		return id
	}

	for _, d := range checkMapKeys(key, elements, r.graph.Decl) {
		r.build.report(d)
	}

	b := &Binding{
		Kind:     KindMultibinding,
		Key:      key,
		Location: r.graph.Decl.Location,
		Elements: make([]*Binding, len(elements)),
	}
	for i, e := range elements {
		b.Elements[i] = e.binding
	}

	n := r.build.arena.add(b, r.graph)
	r.aggregates[key] = n.ID
	r.nodes[b] = n.ID

	deps := b.Dependencies()
	n.Edges = make([]Edge, len(deps))
	for i, e := range elements {
		n.Edges[i] = Edge{
			Dependency: deps[i],
			Target:     r.resolveExplicit(e),
		}
	}
	return n.ID
}

// scopeOwner returns the nearest graph, this one or an ancestor, having the scope.
func (r *resolver) scopeOwner(scope Scope) (*resolver, bool) {
	for level := r; level != nil; level = level.parent {
		if level.graph.Decl.Scope == scope {
			return level, true
		}
	}
	return nil, false
}

// encloses reports whether other is this graph or one of its extensions.
func (r *resolver) encloses(other *resolver) bool {
	for level := other; level != nil; level = level.parent {
		if level == r {
			return true
		}
	}
	return false
}

func (r *resolver) scopeMismatch(b *Binding, from *resolver) Diagnostic {
	var chain []string
	for level := from; level != nil; level = level.parent {
		chain = append(chain, fmt.Sprintf("%s (scope %q)", level.graph.Decl.Type, level.graph.Decl.Scope))
	}
	return newError(
		ScopeMismatch,
		b.Location,
		[]Key{b.Key},
		"%s is scoped %q but no graph of this scope is available from %s",
		b, b.Scope, strings.Join(chain, " <- "),
	)
}

func (r *resolver) missing(key Key, requester string, location Location) Diagnostic {
	msg := fmt.Sprintf("missing binding for %s, required by %s in graph %s", key, requester, r.graph.Decl.Type)
	if elsewhere := r.build.builder.catalog.Lookup(key); len(elsewhere) > 0 {
		hints := make([]string, len(elsewhere))
		for i, b := range elsewhere {
			switch {
			case b.Graph != "":
				hints[i] = fmt.Sprintf("%s declared on graph %s", b, b.Graph)
			default:
				hints[i] = fmt.Sprintf("%s in module %q", b, b.Module)
			}
		}
		msg += ", it is bound in places not installed here:\n\t" + strings.Join(hints, "\n\t")
	}
	return Diagnostic{
		Kind:     MissingBinding,
		Severity: SeverityError,
		Location: location,
		Message:  msg,
		Keys:     []Key{key},
	}
}
