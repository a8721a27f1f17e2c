package codegen

import (
	"testing"

	"github.com/a-peyrard/godigen"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmit(t *testing.T) {
	t.Run("it should plan provide methods in topological order with scoped cells", func(t *testing.T) {
		// GIVEN
		u := layered()

		// WHEN
		impl := emit(t, u, "AppGraph")

		// THEN
		require.Len(t, impl.Structs, 1)
		s := impl.Structs[0]
		assert.Equal(t, "appGraphImpl", s.Name)
		assert.Equal(t, []Field{{Name: "config", Type: godigen.TypeRef(injectPackage + ".Scoped[" + appPkg + ".Config]")}}, s.Fields)
		names := make([]string, len(s.Methods))
		for i, m := range s.Methods {
			names[i] = m.Name
		}
		assert.Equal(t, []string{"Service", "provideConfig", "provideRepository", "provideService"}, names)

		g := Ident("g")
		cell := Selector{X: g, Name: "config"}
		assert.Equal(t, []Instruction{
			CacheLoad{Cell: cell},
			Construct{Var: "v", Type: typ("Config"), Value: Call{Func: fnRef("ProvideConfig"), Args: []Expr{}}, Cell: cell},
			Return{Value: Ident("v")},
		}, method(t, impl, "AppGraph", "provideConfig").Body)

		assert.Equal(t, []Instruction{
			Let{Var: "p0", Value: MethodCall{Recv: g, Method: "provideRepository"}},
			Let{Var: "p1", Value: ProviderFunc{Type: typ("Config"), Method: Selector{X: g, Name: "provideConfig"}}},
			Return{Value: Call{Func: fnRef("ProvideService"), Args: []Expr{Ident("p0"), Ident("p1")}}},
		}, method(t, impl, "AppGraph", "provideService").Body)

		assert.Equal(t, []Instruction{
			Return{Value: MethodCall{Recv: g, Method: "provideService"}},
		}, method(t, impl, "AppGraph", "Service").Body)

		require.NotNil(t, impl.Creator)
		assert.Equal(t, "NewAppGraph", impl.Creator.Name)
		assert.Equal(t, "appGraphImpl", impl.Creator.Struct)
		assert.Empty(t, impl.Creator.Params)
	})

	t.Run("it should break a cycle with a delegate set before publication", func(t *testing.T) {
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

		// WHEN
		impl := emit(t, u, "AppGraph")

		// THEN
		expected := []Instruction{
			NewDelegate{Var: "d0", Type: typ("A"), Name: appPkg + ".A"},
			Let{Var: "p0", Value: Inline{Type: typ("B"), Body: []Instruction{
				Let{Var: "p0", Value: Ident("d0")},
				Return{Value: Call{Func: fnRef("ProvideB"), Args: []Expr{Ident("p0")}}},
			}}},
			Construct{
				Var:   "v",
				Type:  typ("A"),
				Value: Call{Func: fnRef("ProvideA"), Args: []Expr{Ident("p0")}},
				Then:  []Instruction{SetDelegate{Delegate: "d0", Value: Ident("v")}},
			},
			Return{Value: Ident("v")},
		}
		if diff := cmp.Diff(expected, method(t, impl, "AppGraph", "provideA").Body); diff != "" {
			t.Errorf("unexpected body of provideA (-want +got):\n%s", diff)
		}

		assert.Equal(t, []Instruction{
			Let{Var: "p0", Value: ProviderFunc{Type: typ("A"), Method: Selector{X: Ident("g"), Name: "provideA"}}},
			Return{Value: Call{Func: fnRef("ProvideB"), Args: []Expr{Ident("p0")}}},
		}, method(t, impl, "AppGraph", "provideB").Body)
	})

	t.Run("it should gate the deferred dependencies of a cached cycle member until it is published", func(t *testing.T) {
		// GIVEN
		session := provides("ProvideSession", 10, typ("Session"),
			param("listener", dep(typ("Listener"), godigen.RequestProvider)),
			param("audit", dep(typ("Audit"), godigen.RequestLazy)),
		)
		session.Scope = "app"
		u := &godigen.Universe{
			Providers: []godigen.ProviderDecl{
				session,
				provides("ProvideListener", 20, typ("Listener"), param("session", dep(typ("Session"), godigen.RequestInstance))),
				provides("ProvideAudit", 30, typ("Audit"), param("session", dep(typ("Session"), godigen.RequestInstance))),
			},
			Graphs: []godigen.GraphDecl{
				graphDecl("AppGraph", "app", entry("Session", dep(typ("Session"), godigen.RequestInstance))),
			},
		}

		// WHEN
		impl := emit(t, u, "AppGraph")

		// THEN
		g := Ident("g")
		cell := Selector{X: g, Name: "session"}
		expected := []Instruction{
			CacheLoad{Cell: cell},
			NewDelegate{Var: "d0", Type: typ("Session"), Name: appPkg + ".Session"},
			Let{Var: "p0", Value: Guarded{
				Type:     typ("Listener"),
				Gate:     "d0",
				Provider: ProviderFunc{Type: typ("Listener"), Method: Selector{X: g, Name: "provideListener"}},
			}},
			Let{Var: "p1", Value: LazyOf{Type: typ("Audit"), Provider: Guarded{
				Type:     typ("Audit"),
				Gate:     "d0",
				Provider: ProviderFunc{Type: typ("Audit"), Method: Selector{X: g, Name: "provideAudit"}},
			}}},
			Construct{
				Var:   "v",
				Type:  typ("Session"),
				Value: Call{Func: fnRef("ProvideSession"), Args: []Expr{Ident("p0"), Ident("p1")}},
				Cell:  cell,
				Then:  []Instruction{SetDelegate{Delegate: "d0", Value: Ident("v")}},
			},
			SetDelegate{Delegate: "d0", Value: Ident("v")},
			Return{Value: Ident("v")},
		}
		if diff := cmp.Diff(expected, method(t, impl, "AppGraph", "provideSession").Body); diff != "" {
			t.Errorf("unexpected body of provideSession (-want +got):\n%s", diff)
		}
	})

	t.Run("it should reach the parent graph from an extension", func(t *testing.T) {
		// GIVEN
		u := layered()
		u.Constructors = append(u.Constructors, constructor("NewHandler", 40, ptr("Handler"),
			param("config", dep(typ("Config"), godigen.RequestInstance)),
			param("request", dep(ptr("Request"), godigen.RequestInstance)),
		))
		child := graphDecl("RequestGraph", "", entry("Handler", dep(ptr("Handler"), godigen.RequestInstance)))
		child.Extension = true
		child.Modules = nil
		u.Graphs = append(u.Graphs, child)
		u.Graphs[0].Extensions = []godigen.ExtensionFactoryDecl{{
			Method: "NewRequest",
			Child:  typ("RequestGraph"),
			Params: []godigen.Param{param("request", dep(ptr("Request"), godigen.RequestInstance))},
		}}

		// WHEN
		impl := emit(t, u, "AppGraph")

		// THEN
		require.Len(t, impl.Structs, 2)
		childStruct := impl.Structs[1]
		assert.Equal(t, "appGraphRequestGraphImpl", childStruct.Name)
		assert.Equal(t, "appGraphImpl", childStruct.Parent)
		assert.Equal(t, []Field{
			{Name: "parent", Type: "*appGraphImpl"},
			{Name: "request", Type: ptr("Request")},
		}, childStruct.Fields)

		assert.Equal(t, []Instruction{
			Return{Value: StructLit{Name: "appGraphRequestGraphImpl", Fields: []FieldInit{
				{Name: "parent", Value: Ident("g")},
				{Name: "request", Value: Ident("a0")},
			}}},
		}, method(t, impl, "AppGraph", "NewRequest").Body)

		assert.Equal(t, []Instruction{
			Let{Var: "p0", Value: MethodCall{Recv: Selector{X: Ident("g"), Name: "parent"}, Method: "provideConfig"}},
			Let{Var: "p1", Value: MethodCall{Recv: Ident("g"), Method: "provideRequest"}},
			Return{Value: Call{Func: fnRef("NewHandler"), Args: []Expr{Ident("p0"), Ident("p1")}}},
		}, method(t, impl, "RequestGraph", "provideHandler").Body)

		assert.Equal(t, []Instruction{
			Return{Value: Selector{X: Ident("g"), Name: "request"}},
		}, method(t, impl, "RequestGraph", "provideRequest").Body)
	})

	t.Run("it should plan assisted factories with providers of the graph dependencies", func(t *testing.T) {
		// GIVEN
		u := layered()
		u.Constructors = append(u.Constructors, godigen.ConstructorDecl{
			Result: godigen.KeyOf(ptr("Job")),
			Func:   fnRef("NewJob"),
			Params: []godigen.Param{
				param("service", dep(ptr("Service"), godigen.RequestInstance)),
				{Name: "name", Dependency: dep("string", godigen.RequestInstance), Assisted: true},
			},
			Location: location(50),
		})
		u.AssistedFactories = []godigen.AssistedFactoryDecl{{
			Type:   typ("JobFactory"),
			Method: "Create",
			Params: []godigen.Param{{Name: "name", Dependency: dep("string", godigen.RequestInstance), Assisted: true}},
			Target: ptr("Job"),
		}}
		u.Graphs[0].EntryPoints = append(u.Graphs[0].EntryPoints, entry("Jobs", dep(typ("JobFactory"), godigen.RequestInstance)))

		// WHEN
		impl := emit(t, u, "AppGraph")

		// THEN
		require.Len(t, impl.Factories, 1)
		factory := impl.Factories[0]
		assert.Equal(t, "appGraphJobFactory", factory.Name)
		assert.Equal(t, []Field{{Name: "p0", Type: godigen.ProviderOf(ptr("Service"))}}, factory.Fields)
		assert.Equal(t, []Field{{Name: "a0", Type: "string"}}, factory.Method.Params)
		assert.Equal(t, []Instruction{
			Return{Value: Call{Func: fnRef("NewJob"), Args: []Expr{
				MethodCall{Recv: Selector{X: Ident("f"), Name: "p0"}, Method: "Get"},
				Ident("a0"),
			}}},
		}, factory.Method.Body)

		assert.Equal(t, []Instruction{
			Let{Var: "p0", Value: ProviderFunc{Type: ptr("Service"), Method: Selector{X: Ident("g"), Name: "provideService"}}},
			Return{Value: StructLit{Name: "appGraphJobFactory", Fields: []FieldInit{{Name: "p0", Value: Ident("p0")}}}},
		}, method(t, impl, "AppGraph", "provideJobFactory").Body)
	})

	t.Run("it should plan one injector function per members injection target", func(t *testing.T) {
		// GIVEN
		u := layered()
		u.MembersInjections = []godigen.MembersInjectionDecl{{
			Target: ptr("Screen"),
			Fields: []godigen.FieldDecl{
				{Name: "Service", Dependency: dep(ptr("Service"), godigen.RequestInstance)},
				{Name: "Config", Dependency: dep(typ("Config"), godigen.RequestLazy)},
			},
		}}
		u.Graphs[0].Injectors = []godigen.InjectorMethod{{Method: "InjectScreen", Param: "screen", Target: ptr("Screen")}}

		// WHEN
		impl := emit(t, u, "AppGraph")

		// THEN
		require.Len(t, impl.Injectors, 1)
		injector := impl.Injectors[0]
		assert.Equal(t, "injectScreen", injector.Name)
		assert.Equal(t, Field{Name: "t", Type: ptr("Screen")}, injector.Target)
		assert.Equal(t, []Field{
			{Name: "p0", Type: ptr("Service")},
			{Name: "p1", Type: godigen.LazyOf(typ("Config"))},
		}, injector.Params)
		assert.Equal(t, []FieldInit{
			{Name: "Service", Value: Ident("p0")},
			{Name: "Config", Value: Ident("p1")},
		}, injector.Assignments)

		m := method(t, impl, "AppGraph", "InjectScreen")
		assert.Equal(t, []Field{{Name: "a0", Type: ptr("Screen")}}, m.Params)
		require.Len(t, m.Body, 3)
		assert.Equal(t, InjectMembers{Func: "injectScreen", Target: Ident("a0"), Args: []Expr{Ident("p0"), Ident("p1")}}, m.Body[2])
	})

	t.Run("it should refuse unexported functions of other packages", func(t *testing.T) {
		// GIVEN
		u := layered()
		u.Providers[1].Func = godigen.FuncRef{PkgPath: "example.com/other", Name: "provideService"}
		g := build(t, u, "AppGraph")

		// WHEN
		_, err := Emit(g, nil)

		// THEN
		require.Error(t, err)
		assert.Contains(t, err.Error(), "is not exported")
	})
}
