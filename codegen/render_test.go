package codegen

import (
	"go/parser"
	"go/token"
	"testing"

	"github.com/a-peyrard/godigen"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func render(t *testing.T, file *File) string {
	out, err := Render(file)
	require.NoError(t, err)
	_, err = parser.ParseFile(token.NewFileSet(), "godigen_gen.go", out, parser.ParseComments)
	require.NoError(t, err)
	return string(out)
}

func TestRender(t *testing.T) {
	t.Run("it should render a formatted file with the graph implementation", func(t *testing.T) {
		// GIVEN
		file := &File{
			PkgPath:         appPkg,
			PkgName:         "app",
			Implementations: []*Implementation{emit(t, layered(), "AppGraph")},
		}

		// WHEN
		out := render(t, file)

		// THEN
		assert.Contains(t, out, "// Code generated by godigen. DO NOT EDIT.")
		assert.Contains(t, out, "package app")
		assert.Contains(t, out, `inject "github.com/a-peyrard/godigen/inject"`)
		assert.Contains(t, out, "// NewAppGraph creates a new AppGraph.\nfunc NewAppGraph() AppGraph {")
		assert.Contains(t, out, "\tconfig inject.Scoped[Config]\n")
		assert.Contains(t, out, "var _ AppGraph = (*appGraphImpl)(nil)")
		assert.Contains(t, out, "func (g *appGraphImpl) Service() *Service {\n\treturn g.provideService()\n}")
		assert.Contains(t, out, "\tif v, ok := g.config.Load(); ok {\n\t\treturn v\n\t}\n")
		assert.Contains(t, out, "\tv := g.config.Store(func() Config {\n\t\tv := ProvideConfig()\n\t\treturn v\n\t})\n")
		assert.Contains(t, out, "\tp1 := inject.ProviderFunc[Config](g.provideConfig)\n")
		assert.Contains(t, out, "\treturn ProvideService(p0, p1)\n")
		assert.NotContains(t, out, "example.com/app")
	})

	t.Run("it should render the delegate closing a cycle", func(t *testing.T) {
		// GIVEN
		u := &godigen.Universe{
			Providers: []godigen.ProviderDecl{
				provides("ProvideA", 10, typ("A"), param("b", dep(typ("B"), godigen.RequestInstance))),
				provides("ProvideB", 20, typ("B"), param("a", dep(typ("A"), godigen.RequestProvider))),
			},
			Graphs: []godigen.GraphDecl{
				graphDecl("AppGraph", "", entry("A", dep(typ("A"), godigen.RequestInstance))),
			},
		}
		file := &File{PkgPath: appPkg, PkgName: "app", Implementations: []*Implementation{emit(t, u, "AppGraph")}}

		// WHEN
		out := render(t, file)

		// THEN
		assert.Contains(t, out, "\td0 := inject.NewDelegate[A](\"example.com/app.A\")\n")
		assert.Contains(t, out, "\tp0 := func() B {\n\t\tp0 := d0\n\t\treturn ProvideB(p0)\n\t}()\n")
		assert.Contains(t, out, "\tv := ProvideA(p0)\n\td0.Set(v)\n\treturn v\n")
	})

	t.Run("it should render the gate of a provider reaching back into a cached cycle", func(t *testing.T) {
		// GIVEN
		a := provides("ProvideA", 10, typ("A"), param("b", dep(typ("B"), godigen.RequestProvider)))
		a.Scope = "app"
		u := &godigen.Universe{
			Providers: []godigen.ProviderDecl{
				a,
				provides("ProvideB", 20, typ("B"), param("a", dep(typ("A"), godigen.RequestInstance))),
			},
			Graphs: []godigen.GraphDecl{
				graphDecl("AppGraph", "app", entry("A", dep(typ("A"), godigen.RequestInstance))),
			},
		}
		file := &File{PkgPath: appPkg, PkgName: "app", Implementations: []*Implementation{emit(t, u, "AppGraph")}}

		// WHEN
		out := render(t, file)

		// THEN
		assert.Contains(t, out, "\tp0 := inject.After[B](d0, inject.ProviderFunc[B](g.provideB))\n")
		assert.Contains(t, out, "\t\tv := ProvideA(p0)\n\t\td0.Set(v)\n\t\treturn v\n\t})\n\td0.Set(v)\n")
	})

	t.Run("it should alias foreign packages around the names of the package", func(t *testing.T) {
		// GIVEN
		settings := godigen.TypeRef("*example.com/shared/config.Settings")
		load := provides("Load", 10, settings)
		load.Func = godigen.FuncRef{PkgPath: "example.com/shared/config", Name: "Load"}
		u := &godigen.Universe{
			Providers: []godigen.ProviderDecl{
				load,
				provides("ProvideClient", 20, ptr("Client"), param("settings", dep(settings, godigen.RequestInstance))),
			},
			Graphs: []godigen.GraphDecl{
				graphDecl("AppGraph", "", entry("Client", dep(ptr("Client"), godigen.RequestInstance))),
			},
		}
		file := &File{
			PkgPath:         appPkg,
			PkgName:         "app",
			Reserved:        []string{"config"},
			Implementations: []*Implementation{emit(t, u, "AppGraph")},
		}

		// WHEN
		out := render(t, file)

		// THEN
		assert.Contains(t, out, `sconfig "example.com/shared/config"`)
		assert.NotContains(t, out, `inject "github.com/a-peyrard/godigen/inject"`)
		assert.Contains(t, out, "func (g *appGraphImpl) provideSettings() *sconfig.Settings {\n\treturn sconfig.Load()\n}")
	})

	t.Run("it should refuse two injectors with the same name", func(t *testing.T) {
		// GIVEN
		file := &File{
			PkgPath: appPkg,
			PkgName: "app",
			Implementations: []*Implementation{
				{Injectors: []*Injector{{Name: "injectScreen", Target: Field{Name: "t", Type: ptr("Screen")}}}},
				{Injectors: []*Injector{{Name: "injectScreen", Target: Field{Name: "t", Type: "*example.com/ui.Screen"}}}},
			},
		}

		// WHEN
		_, err := Render(file)

		// THEN
		require.Error(t, err)
		assert.Contains(t, err.Error(), "injector injectScreen is generated for both")
	})
}
