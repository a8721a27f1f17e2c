package godigen

type (
	// Universe holds every declaration visible to a compilation.
	Universe struct {
		Constructors      []ConstructorDecl
		Providers         []ProviderDecl
		Delegations       []DelegationDecl
		AssistedFactories []AssistedFactoryDecl
		MembersInjections []MembersInjectionDecl
		Graphs            []GraphDecl
		Contributions     []ContributionDecl
		Accesses          []ContributionAccess
	}

	// FuncRef points to a package level function.
	FuncRef struct {
		PkgPath string
		Name    string
	}

	Param struct {
		Name       string
		Dependency Dependency
		// Assisted parameters are given by the caller of an assisted factory.
		Assisted   bool
		AssistedID string
		Variadic   bool
	}

	// FieldDecl is an exported struct field filled by members injection.
	FieldDecl struct {
		Name       string
		Dependency Dependency
	}

	MultibindingShape int

	// MultibindingTarget marks a provider or delegation as an element of a multibinding.
	MultibindingTarget struct {
		Shape  MultibindingShape
		MapKey string
	}

	// ConstructorDecl is a function annotated with @inject, it is the implicit binding of its result type.
	ConstructorDecl struct {
		Result   Key
		Func     FuncRef
		Params   []Param
		Scope    Scope
		Fields   []FieldDecl
		Location Location
	}

	ProviderDecl struct {
		Result Key
		Func   FuncRef
		Params []Param
		Scope  Scope
		// Module and Graph are the owners of the provider, at most one is set.
		Module string
		Graph  TypeRef
		Into   *MultibindingTarget
		// ReturnsError is set for functions returning (T, error).
		ReturnsError bool
		Location     Location
	}

	// DelegationDecl binds a result key to another key, without calling anything.
	DelegationDecl struct {
		Result   Key
		Source   Param
		Func     FuncRef
		Scope    Scope
		Module   string
		Graph    TypeRef
		Into     *MultibindingTarget
		Location Location
	}

	AssistedFactoryDecl struct {
		Type   TypeRef
		Method string
		// Params are the parameters of the factory method, all of them assisted.
		Params   []Param
		Target   TypeRef
		Location Location
	}

	MembersInjectionDecl struct {
		Target   TypeRef
		Fields   []FieldDecl
		Location Location
	}

	EntryPoint struct {
		Method     string
		Dependency Dependency
		Location   Location
	}

	// InjectorMethod is a graph method taking an instance built elsewhere, and filling its fields.
	InjectorMethod struct {
		Method   string
		Param    string
		Target   TypeRef
		Location Location
	}

	GraphCreatorDecl struct {
		Type     TypeRef
		Params   []Param
		Location Location
	}

	ExtensionFactoryDecl struct {
		Method   string
		Child    TypeRef
		Params   []Param
		Location Location
	}

	GraphDecl struct {
		Type        TypeRef
		Scope       Scope
		Extension   bool
		EntryPoints []EntryPoint
		Injectors   []InjectorMethod
		Creator     *GraphCreatorDecl
		Extensions  []ExtensionFactoryDecl
		Modules     []string
		// UnusedBindings overrides the builder severity for unused bindings when set.
		UnusedBindings *Severity
		Location       Location
	}

	// ContributedInterfaceDecl adds its entry points and extension factories to every graph of a scope.
	ContributedInterfaceDecl struct {
		Type        TypeRef
		EntryPoints []EntryPoint
		Extensions  []ExtensionFactoryDecl
	}

	// ContributionDecl is declared in one unit and installed into every graph of Scope.
	// Exactly one of Provider, Delegation and Interface is set.
	ContributionDecl struct {
		Scope      Scope
		Unit       string
		Provider   *ProviderDecl
		Delegation *DelegationDecl
		Interface  *ContributedInterfaceDecl
		Location   Location
	}

	// ContributionAccess is a call to inject.AsContribution[Target] on a value of graph type Graph.
	ContributionAccess struct {
		Graph    TypeRef
		Target   TypeRef
		Location Location
	}
)

const (
	ShapeSet MultibindingShape = iota
	ShapeMap
)

func (s MultibindingShape) String() string {
	switch s {
	case ShapeSet:
		return "set"
	case ShapeMap:
		return "map"
	default:
		panic("unknown multibinding shape")
	}
}

// AggregateKey is the key under which elements of the given key are collected.
func (m MultibindingTarget) AggregateKey(element Key) Key {
	switch m.Shape {
	case ShapeSet:
		return NewKey(SliceOf(element.Type), element.Qualifier)
	case ShapeMap:
		return NewKey(MapOf(element.Type), element.Qualifier)
	default:
		panic("unknown multibinding shape")
	}
}

// Graph returns the declaration of the given graph type.
func (u *Universe) Graph(t TypeRef) (*GraphDecl, bool) {
	for i := range u.Graphs {
		if u.Graphs[i].Type == t {
			return &u.Graphs[i], true
		}
	}
	return nil, false
}

// Roots returns the graphs that are not extensions, in declaration order.
func (u *Universe) Roots() []*GraphDecl {
	var roots []*GraphDecl
	for i := range u.Graphs {
		if !u.Graphs[i].Extension {
			roots = append(roots, &u.Graphs[i])
		}
	}
	return roots
}
