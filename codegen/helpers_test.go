package codegen

import (
	"testing"

	"github.com/a-peyrard/godigen"
	"github.com/stretchr/testify/require"
)

const appPkg = "example.com/app"

func typ(name string) godigen.TypeRef {
	return godigen.TypeRef(appPkg + "." + name)
}

func ptr(name string) godigen.TypeRef {
	return godigen.TypeRef("*" + appPkg + "." + name)
}

func dep(t godigen.TypeRef, kind godigen.RequestKind) godigen.Dependency {
	return godigen.Dependency{Key: godigen.KeyOf(t), Kind: kind}
}

func param(name string, d godigen.Dependency) godigen.Param {
	return godigen.Param{Name: name, Dependency: d}
}

func fnRef(name string) godigen.FuncRef {
	return godigen.FuncRef{PkgPath: appPkg, Name: name}
}

func location(line int) godigen.Location {
	return godigen.Location{Unit: appPkg, File: "app.go", Line: line}
}

func provides(name string, line int, result godigen.TypeRef, params ...godigen.Param) godigen.ProviderDecl {
	return godigen.ProviderDecl{
		Result:   godigen.KeyOf(result),
		Func:     fnRef(name),
		Params:   params,
		Module:   "app",
		Location: location(line),
	}
}

func constructor(name string, line int, result godigen.TypeRef, params ...godigen.Param) godigen.ConstructorDecl {
	return godigen.ConstructorDecl{
		Result:   godigen.KeyOf(result),
		Func:     fnRef(name),
		Params:   params,
		Location: location(line),
	}
}

func entry(method string, d godigen.Dependency) godigen.EntryPoint {
	return godigen.EntryPoint{Method: method, Dependency: d}
}

func graphDecl(name string, scope godigen.Scope, entryPoints ...godigen.EntryPoint) godigen.GraphDecl {
	return godigen.GraphDecl{
		Type:        typ(name),
		Scope:       scope,
		EntryPoints: entryPoints,
		Modules:     []string{"app"},
		Location:    godigen.Location{Unit: appPkg, Symbol: name},
	}
}

func build(t *testing.T, u *godigen.Universe, name string) *godigen.BindingGraph {
	catalog, diags := godigen.NewCatalog(u)
	require.Empty(t, diags)
	aggregator, diags := godigen.NewAggregator(u.Contributions, u.Accesses)
	require.Empty(t, diags)
	decl, found := u.Graph(typ(name))
	require.True(t, found)

	g, diags := godigen.NewBuilder(catalog, aggregator).Build(decl)
	require.Empty(t, diags)
	require.NotNil(t, g)
	return g
}

func emit(t *testing.T, u *godigen.Universe, name string) *Implementation {
	g := build(t, u, name)
	impl, err := Emit(g, godigen.AssignCacheTiers(g))
	require.NoError(t, err)
	return impl
}

func method(t *testing.T, impl *Implementation, graph string, name string) *Method {
	s, found := impl.Struct(typ(graph))
	require.True(t, found, "no struct for graph %s", graph)
	m, found := s.Method(name)
	require.True(t, found, "no method %s on %s", name, s.Name)
	return m
}

// layered is a scoped configuration, a repository built from it, and a service.
func layered() *godigen.Universe {
	config := provides("ProvideConfig", 10, typ("Config"))
	config.Scope = "app"
	return &godigen.Universe{
		Constructors: []godigen.ConstructorDecl{
			constructor("NewRepository", 20, ptr("Repository"), param("config", dep(typ("Config"), godigen.RequestInstance))),
		},
		Providers: []godigen.ProviderDecl{
			config,
			provides("ProvideService", 30, ptr("Service"),
				param("repository", dep(ptr("Repository"), godigen.RequestInstance)),
				param("config", dep(typ("Config"), godigen.RequestProvider)),
			),
		},
		Graphs: []godigen.GraphDecl{
			graphDecl("AppGraph", "app", entry("Service", dep(ptr("Service"), godigen.RequestInstance))),
		},
	}
}
