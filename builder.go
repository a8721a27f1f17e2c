package godigen

import (
	"fmt"

	"github.com/a-peyrard/godigen/option"
	"github.com/a-peyrard/godigen/set"
)

// Builder resolves graph declarations into binding graphs.
type Builder struct {
	catalog    *Catalog
	aggregator *Aggregator
	options    *Options
}

// build holds the state of one Build call: the tree of a root graph and its extensions.
type build struct {
	builder *Builder
	arena   *arena
	diags   Diagnostics
	used    set.Set[*Binding]
	checked set.Set[*Binding]
	graphs  []*BindingGraph
}

func NewBuilder(catalog *Catalog, aggregator *Aggregator, opts ...option.Option[Options]) *Builder {
	return &Builder{
		catalog:    catalog,
		aggregator: aggregator,
		options:    option.Build(defaultOptions(), opts...),
	}
}

// Build resolves the graph and all its extensions.
//
// The graph is nil when at least one error was reported, warnings do not prevent the build.
func (b *Builder) Build(decl *GraphDecl) (*BindingGraph, Diagnostics) {
	logger := b.options.logger.With().Str("graph", string(decl.Type)).Logger()

	bd := &build{
		builder: b,
		arena:   &arena{},
		used:    set.New[*Binding](),
		checked: set.New[*Binding](),
	}

	var bound []Param
	var boundLocation Location
	if decl.Creator != nil {
		bound = decl.Creator.Params
		boundLocation = decl.Creator.Location
		bd.checkVarargs(bound, decl.Creator.Location, fmt.Sprintf("graph creator %s", decl.Creator.Type))
	}
	root := bd.graph(decl, nil, bound, boundLocation)

	bd.diags = append(bd.diags, checkCycles(bd.arena.nodes)...)
	bd.arena.components = markCycleBreakers(bd.arena.nodes)
	bd.checkUnused()

	logger.Debug().
		Int("nodes", len(bd.arena.nodes)).
		Int("graphs", len(bd.graphs)).
		Int("diagnostics", len(bd.diags)).
		Msg("Graph resolved")

	if bd.diags.HasErrors() {
		return nil, bd.diags
	}
	return root, bd.diags
}

func (bd *build) report(d Diagnostic) {
	bd.diags = append(bd.diags, d)
}

// graph resolves one graph of the tree. Bound params become bound instances of the graph.
func (bd *build) graph(decl *GraphDecl, parent *resolver, bound []Param, boundLocation Location) *BindingGraph {
	g := &BindingGraph{Decl: decl, arena: bd.arena}
	if parent != nil {
		g.Parent = parent.graph
	}
	bd.graphs = append(bd.graphs, g)
	r := newResolver(bd, g, parent)

	for i, p := range bound {
		if p.Variadic {
			continue
		}
		b := newBoundInstance(decl.Type, i, p, boundLocation)
		r.install(b)
		n := bd.arena.add(b, g)
		r.nodes[b] = n.ID
		g.Bound = append(g.Bound, n.ID)
	}

	catalog := bd.builder.catalog
	for _, b := range catalog.Owned(decl.Type) {
		r.install(b)
	}
	for _, module := range decl.Modules {
		for _, b := range catalog.Module(module) {
			r.install(b)
		}
	}

	entryPoints := decl.EntryPoints
	extensions := decl.Extensions
	if decl.Scope != "" {
		for _, b := range bd.builder.aggregator.Bindings(decl.Scope) {
			r.install(b)
		}
		for _, iface := range bd.builder.aggregator.Interfaces(decl.Scope) {
			g.Contributed = append(g.Contributed, iface)
			entryPoints = append(entryPoints, iface.EntryPoints...)
			extensions = append(extensions, iface.Extensions...)
		}
	}

	methods := make(map[string]Location)
	sameMethod := func(name string, location Location) bool {
		if first, exists := methods[name]; exists {
			if first != location {
				bd.report(newError(
					MalformedDeclaration,
					location,
					[]Key{KeyOf(decl.Type)},
					"method %s of graph %s is declared twice, first at %s",
					name, decl.Type, first,
				))
			}
			return true
		}
		methods[name] = location
		return false
	}

	for _, ep := range entryPoints {
		if sameMethod(ep.Method, ep.Location) {
			continue
		}
		requester := fmt.Sprintf("entry point %s.%s", decl.Type.Name(), ep.Method)
		g.EntryPoints = append(g.EntryPoints, EntryPointNode{
			EntryPoint: ep,
			Edge: Edge{
				Dependency: ep.Dependency,
				Target:     r.resolve(ep.Dependency, requester, ep.Location),
			},
		})
	}

	for _, injector := range decl.Injectors {
		if sameMethod(injector.Method, injector.Location) {
			continue
		}
		b, found := catalog.MembersInjection(injector.Target)
		if !found {
			b = &Binding{Kind: KindMembersInjection, Key: KeyOf(injector.Target), Location: injector.Location}
		}
		g.Injectors = append(g.Injectors, InjectorNode{Method: injector, Node: r.nodeFor(b)})
	}

	for _, ext := range extensions {
		if sameMethod(ext.Method, ext.Location) {
			continue
		}
		bd.extension(g, r, ext)
	}

	for _, access := range bd.builder.aggregator.Accesses(decl.Type) {
		if d := bd.builder.aggregator.CheckAccess(decl, access); d != nil {
			bd.report(*d)
		}
	}

	return g
}

func (bd *build) extension(g *BindingGraph, r *resolver, ext ExtensionFactoryDecl) {
	decl := g.Decl
	bd.checkVarargs(ext.Params, ext.Location, fmt.Sprintf("extension factory %s.%s", decl.Type.Name(), ext.Method))

	child, found := bd.builder.catalog.Graph(ext.Child)
	if !found {
		bd.report(newError(
			MissingBinding,
			ext.Location,
			[]Key{KeyOf(ext.Child)},
			"%s.%s returns %s which is not a declared graph",
			decl.Type, ext.Method, ext.Child,
		))
		return
	}
	if !child.Extension {
		bd.report(newError(
			MalformedDeclaration,
			ext.Location,
			[]Key{KeyOf(ext.Child)},
			"%s.%s returns %s which is a root graph, only graph extensions can be created from a graph",
			decl.Type, ext.Method, ext.Child,
		))
		return
	}
	for p := g; p != nil; p = p.Parent {
		if p.Decl.Type == child.Type {
			bd.report(newError(
				DependencyCycle,
				ext.Location,
				[]Key{KeyOf(child.Type)},
				"graph %s is its own ancestor through %s.%s",
				child.Type, decl.Type, ext.Method,
			))
			return
		}
	}

	b := &Binding{
		Kind:      KindGraphExtension,
		Key:       KeyOf(child.Type),
		Location:  ext.Location,
		Extension: &ext,
		Child:     child,
	}
	n := bd.arena.add(b, g)
	childGraph := bd.graph(child, r, ext.Params, ext.Location)
	g.Extensions = append(g.Extensions, ExtensionNode{Factory: ext, Node: n.ID, Child: childGraph})
}

func (bd *build) checkVarargs(params []Param, location Location, owner string) {
	for _, p := range params {
		if p.Variadic {
			bd.report(newError(
				VarargGraphCreator,
				location,
				[]Key{p.Dependency.Key},
				"%s declares variadic parameter %s, graph creators cannot be variadic",
				owner, p.Name,
			))
		}
	}
}

// checkAssisted rejects assisted parameters that are also regular dependencies of the target.
func (bd *build) checkAssisted(factory *Binding) {
	if !bd.checked.AddIfAbsent(factory) {
		return
	}
	target := factory.Target
	regular := set.New[Key]()
	for _, p := range target.Params {
		if !p.Assisted {
			regular.Add(p.Dependency.Key)
		}
	}
	for _, p := range target.Params {
		if p.Assisted && regular.Contains(p.Dependency.Key) {
			bd.report(newError(
				AssistedParameterOverlap,
				target.Location,
				[]Key{p.Dependency.Key, factory.Key},
				"assisted parameter %s of %s is also injected by the graph, created through %s",
				p.Name, target, factory.Key.Type,
			))
		}
	}
}

// checkUnused reports Provides and Binds declared for a graph of the tree and never used by any of them.
func (bd *build) checkUnused() {
	reported := set.New[*Binding]()
	catalog := bd.builder.catalog
	for _, g := range bd.graphs {
		severity := bd.builder.options.unused
		if g.Decl.UnusedBindings != nil {
			severity = *g.Decl.UnusedBindings
		}
		if severity == SeverityOff {
			continue
		}

		declared := catalog.Owned(g.Decl.Type)
		for _, module := range g.Decl.Modules {
			declared = append(declared, catalog.Module(module)...)
		}
		sortBindings(declared)

		for _, b := range declared {
			if bd.used.Contains(b) || !reported.AddIfAbsent(b) {
				continue
			}
			bd.report(Diagnostic{
				Kind:     UnusedBinding,
				Severity: severity,
				Location: b.Location,
				Message:  fmt.Sprintf("%s binds %s which is never used in graph %s", b, b.BoundKey(), g.Decl.Type),
				Keys:     []Key{b.BoundKey()},
			})
		}
	}
}
