package godigen

import (
	"fmt"

	"github.com/a-peyrard/godigen/option"
)

const testPkg = "example.com/app"

func typ(name string) TypeRef {
	return TypeRef(testPkg + "." + name)
}

func ptr(name string) TypeRef {
	return TypeRef("*" + testPkg + "." + name)
}

func at(unit string, line int) Location {
	return Location{Unit: unit, File: unit + "/app.go", Line: line}
}

func dep(t TypeRef) Dependency {
	return Dependency{Key: KeyOf(t), Kind: RequestInstance}
}

func providerDep(t TypeRef) Dependency {
	return Dependency{Key: KeyOf(t), Kind: RequestProvider}
}

func lazyDep(t TypeRef) Dependency {
	return Dependency{Key: KeyOf(t), Kind: RequestLazy}
}

func param(name string, d Dependency) Param {
	return Param{Name: name, Dependency: d}
}

func provides(module string, name string, line int, result TypeRef, params ...Param) ProviderDecl {
	return ProviderDecl{
		Result:   KeyOf(result),
		Func:     FuncRef{PkgPath: testPkg, Name: name},
		Params:   params,
		Module:   module,
		Location: at(testPkg, line),
	}
}

func binds(module string, name string, line int, result TypeRef, source TypeRef) DelegationDecl {
	return DelegationDecl{
		Result:   KeyOf(result),
		Source:   param("source", dep(source)),
		Func:     FuncRef{PkgPath: testPkg, Name: name},
		Module:   module,
		Location: at(testPkg, line),
	}
}

func constructor(name string, line int, result TypeRef, params ...Param) ConstructorDecl {
	return ConstructorDecl{
		Result:   KeyOf(result),
		Func:     FuncRef{PkgPath: testPkg, Name: name},
		Params:   params,
		Location: at(testPkg, line),
	}
}

func entry(method string, d Dependency) EntryPoint {
	return EntryPoint{Method: method, Dependency: d, Location: Location{Unit: testPkg, Symbol: method}}
}

func graph(name string, scope Scope, entryPoints ...EntryPoint) GraphDecl {
	return GraphDecl{
		Type:        typ(name),
		Scope:       scope,
		EntryPoints: entryPoints,
		Modules:     []string{"app"},
		Location:    Location{Unit: testPkg, Symbol: name},
	}
}

func buildGraph(u *Universe, name string, opts ...option.Option[Options]) (*BindingGraph, Diagnostics) {
	catalog, diags := NewCatalog(u)
	if len(diags) > 0 {
		panic(fmt.Sprintf("unexpected catalog diagnostics:\n%s", diags))
	}
	aggregator, diags := NewAggregator(u.Contributions, u.Accesses)
	if len(diags) > 0 {
		panic(fmt.Sprintf("unexpected aggregator diagnostics:\n%s", diags))
	}
	decl, found := u.Graph(typ(name))
	if !found {
		panic("unknown graph " + name)
	}
	return NewBuilder(catalog, aggregator, opts...).Build(decl)
}

func kinds(diags Diagnostics) []DiagnosticKind {
	res := make([]DiagnosticKind, len(diags))
	for i, d := range diags {
		res[i] = d.Kind
	}
	return res
}

func targetOf(g *BindingGraph, method string) *Node {
	for _, ep := range g.EntryPoints {
		if ep.EntryPoint.Method == method {
			return g.Node(ep.Edge.Target)
		}
	}
	panic("unknown entry point " + method)
}
