package codegen

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/a-peyrard/godigen"
	"github.com/a-peyrard/godigen/option"
	"github.com/a-peyrard/godigen/set"
	"github.com/a-peyrard/godigen/str"
)

type emitter struct {
	impl  *Implementation
	root  *godigen.BindingGraph
	tiers godigen.CacheTiers

	top     *namespace
	structs map[*godigen.BindingGraph]*Struct
	members map[*godigen.BindingGraph]*namespace
	methods map[godigen.NodeID]string
	cells   map[godigen.NodeID]string
	bound   map[godigen.NodeID]string

	factories map[godigen.TypeRef]*Factory
	injectors map[godigen.TypeRef]*Injector
	// delegates are the nodes referenced through a delegate by the body being planned.
	delegates set.Set[godigen.NodeID]
}

// Emit plans the implementation of a root graph and of all its extensions.
//
// Methods follow the topological order of each graph. Scoped values are cached in
// inject.Scoped cells of the graph holding their tier, the members of a cycle are built
// inline so the deferred edge closing the cycle can use a delegate of the value being built.
func Emit(g *godigen.BindingGraph, tiers godigen.CacheTiers, opts ...option.Option[Options]) (*Implementation, error) {
	options := option.Build(defaultOptions(), opts...)
	if g == nil {
		return nil, errors.New("cannot emit a graph that failed to build")
	}
	if g.Parent != nil {
		return nil, fmt.Errorf("graph %s is an extension, it is emitted with its root graph %s", g.Decl.Type, g.Root().Decl.Type)
	}
	pkgPath := g.Decl.Type.Package()
	if err := checkVisibility(g, pkgPath); err != nil {
		return nil, fmt.Errorf("unable to emit graph %s:\n\t%w", g.Decl.Type, err)
	}
	if tiers == nil {
		tiers = godigen.AssignCacheTiers(g)
	}

	e := &emitter{
		impl:      &Implementation{Graph: g.Decl.Type, PkgPath: pkgPath},
		root:      g,
		tiers:     tiers,
		top:       newNamespace(),
		structs:   make(map[*godigen.BindingGraph]*Struct),
		members:   make(map[*godigen.BindingGraph]*namespace),
		methods:   make(map[godigen.NodeID]string),
		cells:     make(map[godigen.NodeID]string),
		bound:     make(map[godigen.NodeID]string),
		factories: make(map[godigen.TypeRef]*Factory),
		injectors: make(map[godigen.TypeRef]*Injector),
		delegates: set.New[godigen.NodeID](),
	}
	g.Walk(e.declare)
	g.Walk(e.define)
	e.creator()

	options.logger.Debug().
		Str("graph", string(g.Decl.Type)).
		Int("structs", len(e.impl.Structs)).
		Int("factories", len(e.impl.Factories)).
		Int("injectors", len(e.impl.Injectors)).
		Msg("Implementation planned")

	return e.impl, nil
}

// checkVisibility rejects unexported functions of other packages, generated code could not call them.
func checkVisibility(g *godigen.BindingGraph, pkgPath string) error {
	var errs []error
	for _, n := range g.AllNodes() {
		b := n.Binding
		if b.Kind == godigen.KindAssistedFactory {
			b = b.Target
		}
		if b.Kind != godigen.KindConstructor && b.Kind != godigen.KindProvides {
			continue
		}
		if b.Func.PkgPath != pkgPath && !isExported(b.Func.Name) {
			errs = append(errs, fmt.Errorf("%s is not exported, it cannot be called from package %s", b, pkgPath))
		}
	}
	return errors.Join(errs...)
}

// declare names the struct of the graph and all of its members.
func (e *emitter) declare(g *godigen.BindingGraph) {
	rootName := str.ToLowerCamelCase(e.root.Decl.Type.Name())
	name := rootName + "Impl"
	if g != e.root {
		name = rootName + str.ToUpperCamelCase(g.Decl.Type.Name()) + "Impl"
	}

	s := &Struct{
		Name:       e.top.claim(name),
		Graph:      g.Decl.Type,
		Implements: []godigen.TypeRef{g.Decl.Type},
	}
	for _, iface := range g.Contributed {
		s.Implements = append(s.Implements, iface.Type)
	}
	if g.Parent != nil {
		s.Parent = e.structs[g.Parent].Name
		s.Fields = append(s.Fields, Field{Name: "parent", Type: godigen.TypeRef("*" + s.Parent)})
	}

	ns := newNamespace("parent")
	for _, ep := range g.EntryPoints {
		ns.reserve(ep.EntryPoint.Method)
	}
	for _, injector := range g.Injectors {
		ns.reserve(injector.Method.Method)
	}
	for _, ext := range g.Extensions {
		ns.reserve(ext.Factory.Method)
	}

	for _, id := range g.Bound {
		n := g.Node(id)
		field := str.ToLowerCamelCase(n.Binding.Bound.Param.Name)
		if field == "" {
			field = "bound"
		}
		e.bound[id] = ns.claim(field)
		s.Fields = append(s.Fields, Field{Name: e.bound[id], Type: n.Binding.Key.Type})
	}

	for _, n := range g.TopologicalOrder() {
		if !hasProvideMethod(n) {
			continue
		}
		base := baseName(n.Binding.Key)
		e.methods[n.ID] = ns.claim("provide" + base)
		if tier, found := e.tiers.Tier(n.ID); found && tier == g {
			e.cells[n.ID] = ns.claim(str.ToLowerCamelCase(base))
			s.Fields = append(s.Fields, Field{
				Name: e.cells[n.ID],
				Type: godigen.TypeRef(injectPackage + ".Scoped[" + string(n.Binding.Key.Type) + "]"),
			})
		}
	}

	e.structs[g] = s
	e.members[g] = ns
	e.impl.Structs = append(e.impl.Structs, s)
}

func hasProvideMethod(n *godigen.Node) bool {
	switch n.Binding.Kind {
	case godigen.KindGraphExtension, godigen.KindMembersInjection:
		return false
	default:
		return true
	}
}

// define plans the methods of the graph struct: the graph interface first, then the provide methods.
func (e *emitter) define(g *godigen.BindingGraph) {
	s := e.structs[g]

	for _, ep := range g.EntryPoints {
		s.Methods = append(s.Methods, &Method{
			Recv:   "g",
			Name:   ep.EntryPoint.Method,
			Result: ep.EntryPoint.Dependency.RequestedType(),
			Body:   []Instruction{Return{Value: e.edge(g, nil, ep.Edge, nil)}},
		})
	}

	for _, injector := range g.Injectors {
		n := g.Node(injector.Node)
		target := Field{Name: argVar(0), Type: injector.Method.Target}
		s.Methods = append(s.Methods, &Method{
			Recv:   "g",
			Name:   injector.Method.Method,
			Params: []Field{target},
			Body:   e.injection(g, n, target),
		})
	}

	for _, ext := range g.Extensions {
		child := ext.Child
		params := make([]Field, len(ext.Factory.Params))
		for i, p := range ext.Factory.Params {
			params[i] = Field{Name: argVar(i), Type: p.Dependency.Key.Type}
		}
		s.Methods = append(s.Methods, &Method{
			Recv:   "g",
			Name:   ext.Factory.Method,
			Params: params,
			Result: child.Decl.Type,
			Body: []Instruction{Return{Value: StructLit{
				Name:   e.structs[child].Name,
				Fields: append([]FieldInit{{Name: "parent", Value: Ident("g")}}, e.boundInits(child)...),
			}}},
		})
	}

	for _, n := range g.TopologicalOrder() {
		if !hasProvideMethod(n) {
			continue
		}
		s.Methods = append(s.Methods, &Method{
			Recv:   "g",
			Name:   e.methods[n.ID],
			Result: n.Binding.Key.Type,
			Body:   e.body(g, n, nil),
		})
	}
}

// boundInits fills the bound instance fields of a graph from the arguments of its factory.
func (e *emitter) boundInits(g *godigen.BindingGraph) []FieldInit {
	inits := make([]FieldInit, 0, len(g.Bound))
	for _, id := range g.Bound {
		inits = append(inits, FieldInit{
			Name:  e.bound[id],
			Value: Ident(argVar(g.Node(id).Binding.Bound.Index)),
		})
	}
	return inits
}

func (e *emitter) creator() {
	root := e.root
	c := &Creator{
		Name:   e.top.claim("New" + str.ToUpperCamelCase(root.Decl.Type.Name())),
		Graph:  root.Decl.Type,
		Struct: e.structs[root].Name,
		Inits:  e.boundInits(root),
	}
	if root.Decl.Creator != nil {
		c.Type = root.Decl.Creator.Type
		for i, p := range root.Decl.Creator.Params {
			c.Params = append(c.Params, Field{Name: argVar(i), Type: p.Dependency.Key.Type})
		}
	}
	e.impl.Creator = c
}

// body plans the statements building the value of a node, seen from a method of graph from.
// stack holds the nodes being built inline by the enclosing statements.
func (e *emitter) body(from *godigen.BindingGraph, n *godigen.Node, stack []godigen.NodeID) []Instruction {
	b := n.Binding
	if b.Kind == godigen.KindBoundInstance {
		return []Instruction{Return{Value: Selector{X: e.path(from, n.Owner), Name: e.bound[n.ID]}}}
	}

	var out []Instruction
	cell := e.cell(from, n)
	if cell != nil {
		out = append(out, CacheLoad{Cell: cell})
	}

	stack = append(stack, n.ID)
	lets := make([]Instruction, len(n.Edges))
	deps := make([]Expr, len(n.Edges))
	for i, edge := range n.Edges {
		lets[i] = Let{Var: paramVar(i), Value: e.edge(from, n, edge, stack)}
		deps[i] = Ident(paramVar(i))
	}

	value, then := e.construct(n, deps)
	delegated := e.delegates.Contains(n.ID)
	if delegated {
		e.delegates.Remove(n.ID)
		out = append(out, NewDelegate{Var: delegateVar(n.ID), Type: b.Key.Type, Name: b.Key.String()})
		then = append(then, SetDelegate{Delegate: delegateVar(n.ID), Value: Ident("v")})
	}
	out = append(out, lets...)

	if cell == nil && len(then) == 0 {
		return append(out, Return{Value: value})
	}
	out = append(out, Construct{Var: "v", Type: b.Key.Type, Value: value, Cell: cell, Then: then})
	if cell != nil && delegated {
		// the value published by a concurrent caller was not built with this delegate
		out = append(out, SetDelegate{Delegate: delegateVar(n.ID), Value: Ident("v")})
	}
	return append(out, Return{Value: Ident("v")})
}

// construct returns the expression creating the value of the node from its dependencies,
// and the statements to run on the new value.
func (e *emitter) construct(n *godigen.Node, deps []Expr) (Expr, []Instruction) {
	b := n.Binding
	switch b.Kind {
	case godigen.KindConstructor:
		params := 0
		for _, p := range b.Params {
			if !p.Assisted {
				params++
			}
		}
		value := Call{Func: b.Func, Args: deps[:params]}
		if len(b.Fields) == 0 {
			return value, nil
		}
		injector := e.injector(b.Key.Type, b.Fields)
		return value, []Instruction{InjectMembers{
			Func:   injector.Name,
			Target: targetOf(b.Key.Type, Ident("v")),
			Args:   deps[params:],
		}}
	case godigen.KindProvides:
		return Call{Func: b.Func, Args: deps}, nil
	case godigen.KindBinds:
		return Convert{Type: b.Key.Type, X: deps[0]}, nil
	case godigen.KindMultibinding:
		if strings.HasPrefix(string(b.Key.Type), "map[") {
			keys := make([]string, len(b.Elements))
			for i, element := range b.Elements {
				keys[i] = element.Into.MapKey
			}
			return MapLit{Type: b.Key.Type, Keys: keys, Values: deps}, nil
		}
		return SliceLit{Type: b.Key.Type, Elems: deps}, nil
	case godigen.KindAssistedFactory:
		factory := e.factory(n)
		fields := make([]FieldInit, len(deps))
		for i, dep := range deps {
			fields[i] = FieldInit{Name: paramVar(i), Value: dep}
		}
		return StructLit{Name: factory.Name, Fields: fields}, nil
	case godigen.KindMembersInjection, godigen.KindGraphExtension, godigen.KindBoundInstance:
		panic(fmt.Sprintf("%s nodes are not constructed", b.Kind))
	default:
		panic(fmt.Sprintf("unknown binding kind %d", int(b.Kind)))
	}
}

// edge returns the expression satisfying a dependency. n is nil for entry points.
func (e *emitter) edge(from *godigen.BindingGraph, n *godigen.Node, edge godigen.Edge, stack []godigen.NodeID) Expr {
	target := from.Node(edge.Target)
	dep := edge.Dependency
	t := dep.Key.Type

	if edge.BreaksCycle && slices.Contains(stack, target.ID) {
		e.delegates.Add(target.ID)
		if dep.Kind == godigen.RequestLazy {
			return LazyOf{Type: t, Provider: Ident(delegateVar(target.ID))}
		}
		return Ident(delegateVar(target.ID))
	}

	owner := e.path(from, target.Owner)
	switch dep.Kind {
	case godigen.RequestInstance:
		if n != nil && from.SameCycle(n.ID, target.ID) {
			return Inline{Type: target.Binding.Key.Type, Body: e.body(from, target, stack)}
		}
		return MethodCall{Recv: owner, Method: e.methods[target.ID]}
	case godigen.RequestProvider:
		return e.guard(from, target, stack, ProviderFunc{Type: t, Method: Selector{X: owner, Name: e.methods[target.ID]}})
	case godigen.RequestLazy:
		return LazyOf{Type: t, Provider: e.guard(from, target, stack, ProviderFunc{Type: t, Method: Selector{X: owner, Name: e.methods[target.ID]}})}
	default:
		panic(fmt.Sprintf("unknown request kind %d", int(dep.Kind)))
	}
}

// guard gates a provider of a member of the cycle of a cached value being built on the stack.
// Called before the value is published, the provider would build it again while its cell is locked.
func (e *emitter) guard(from *godigen.BindingGraph, target *godigen.Node, stack []godigen.NodeID, provider Expr) Expr {
	for _, id := range stack {
		if _, cached := e.cells[id]; cached && from.SameCycle(id, target.ID) {
			e.delegates.Add(id)
			return Guarded{Type: target.Binding.Key.Type, Gate: delegateVar(id), Provider: provider}
		}
	}
	return provider
}

// path is the expression reaching the struct of graph to from a method of graph from.
func (e *emitter) path(from *godigen.BindingGraph, to *godigen.BindingGraph) Expr {
	var x Expr = Ident("g")
	for cur := from; cur != to; cur = cur.Parent {
		if cur == nil {
			panic(fmt.Sprintf("graph %s is not an ancestor of %s", to.Decl.Type, from.Decl.Type))
		}
		x = Selector{X: x, Name: "parent"}
	}
	return x
}

func (e *emitter) cell(from *godigen.BindingGraph, n *godigen.Node) Expr {
	name, found := e.cells[n.ID]
	if !found {
		return nil
	}
	return Selector{X: e.path(from, n.Owner), Name: name}
}

// injection plans the body of an injector method of the graph.
func (e *emitter) injection(g *godigen.BindingGraph, n *godigen.Node, target Field) []Instruction {
	out := make([]Instruction, 0, len(n.Edges)+1)
	args := make([]Expr, len(n.Edges))
	for i, edge := range n.Edges {
		out = append(out, Let{Var: paramVar(i), Value: e.edge(g, n, edge, nil)})
		args[i] = Ident(paramVar(i))
	}
	injector := e.injector(n.Binding.Key.Type, n.Binding.Fields)
	return append(out, InjectMembers{
		Func:   injector.Name,
		Target: targetOf(target.Type, Ident(target.Name)),
		Args:   args,
	})
}

func (e *emitter) injector(target godigen.TypeRef, fields []godigen.FieldDecl) *Injector {
	if injector, found := e.injectors[target]; found {
		return injector
	}
	ptr := target
	if !strings.HasPrefix(string(ptr), "*") {
		ptr = "*" + ptr
	}
	injector := &Injector{
		Name:   injectorName(e.impl.PkgPath, target),
		Target: Field{Name: "t", Type: ptr},
	}
	for i, f := range fields {
		injector.Params = append(injector.Params, Field{Name: paramVar(i), Type: f.Dependency.RequestedType()})
		injector.Assignments = append(injector.Assignments, FieldInit{Name: f.Name, Value: Ident(paramVar(i))})
	}
	e.injectors[target] = injector
	e.impl.Injectors = append(e.impl.Injectors, injector)
	return injector
}

func targetOf(t godigen.TypeRef, x Expr) Expr {
	if strings.HasPrefix(string(t), "*") {
		return x
	}
	return AddressOf{X: x}
}

// factory plans the struct implementing an assisted factory. Its fields are providers
// of the non assisted parameters of the target, the factory method gives the assisted ones.
func (e *emitter) factory(n *godigen.Node) *Factory {
	b := n.Binding
	if factory, found := e.factories[b.Key.Type]; found {
		return factory
	}

	decl := b.Factory
	target := b.Target
	factory := &Factory{
		Name:       e.top.claim(str.ToLowerCamelCase(e.root.Decl.Type.Name()) + str.ToUpperCamelCase(b.Key.Type.Name())),
		Implements: b.Key.Type,
	}
	for i, edge := range n.Edges {
		factory.Fields = append(factory.Fields, Field{Name: paramVar(i), Type: edge.Dependency.RequestedType()})
	}

	params := make([]Field, len(decl.Params))
	for i, p := range decl.Params {
		params[i] = Field{Name: argVar(i), Type: p.Dependency.Key.Type}
	}

	args := make([]Expr, 0, len(target.Params))
	provided := 0
	for _, p := range target.Params {
		if p.Assisted {
			args = append(args, Ident(argVar(assistedIndex(decl, p))))
			continue
		}
		field := Selector{X: Ident("f"), Name: paramVar(provided)}
		provided++
		if p.Dependency.Kind == godigen.RequestInstance {
			args = append(args, MethodCall{Recv: field, Method: "Get"})
		} else {
			args = append(args, field)
		}
	}

	factory.Method = &Method{
		Recv:   "f",
		Name:   decl.Method,
		Params: params,
		Result: target.Key.Type,
		Body:   []Instruction{Return{Value: Call{Func: target.Func, Args: args}}},
	}
	e.factories[b.Key.Type] = factory
	e.impl.Factories = append(e.impl.Factories, factory)
	return factory
}

// assistedIndex finds the factory method parameter matching an assisted parameter by type and id.
func assistedIndex(decl *godigen.AssistedFactoryDecl, p godigen.Param) int {
	for i, candidate := range decl.Params {
		if candidate.Dependency.Key.Type == p.Dependency.Key.Type && candidate.AssistedID == p.AssistedID {
			return i
		}
	}
	panic(fmt.Sprintf("assisted parameter %s has no matching factory parameter in %s", p.Name, decl.Type))
}
