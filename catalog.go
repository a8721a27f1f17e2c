package godigen

import (
	"fmt"
	"slices"
)

// Catalog collects every binding declared in the visible compilation units.
//
// It never decides which binding wins for a key, ambiguities are reported by the Builder.
type Catalog struct {
	constructors map[Key][]*Binding
	explicit     map[Key][]*Binding
	modules      map[string][]*Binding
	owned        map[TypeRef][]*Binding
	factories    map[TypeRef]*Binding
	injections   map[TypeRef]*Binding
	graphs       map[TypeRef]*GraphDecl
}

func newEmptyCatalog() *Catalog {
	return &Catalog{
		constructors: make(map[Key][]*Binding),
		explicit:     make(map[Key][]*Binding),
		modules:      make(map[string][]*Binding),
		owned:        make(map[TypeRef][]*Binding),
		factories:    make(map[TypeRef]*Binding),
		injections:   make(map[TypeRef]*Binding),
		graphs:       make(map[TypeRef]*GraphDecl),
	}
}

// NewCatalog registers all the declarations of the universe.
// Malformed declarations are dropped and reported, the others are kept.
func NewCatalog(u *Universe) (*Catalog, Diagnostics) {
	c := newEmptyCatalog()
	var diags Diagnostics
	report := func(d *Diagnostic) {
		if d != nil {
			diags = append(diags, *d)
		}
	}

	for _, decl := range u.Constructors {
		report(c.Register(newConstructorBinding(decl)))
	}
	for _, decl := range u.Providers {
		b := newProvidesBinding(decl)
		if d := checkDeclaration(b, decl.ReturnsError); d != nil {
			report(d)
			continue
		}
		report(c.Register(b))
	}
	for _, decl := range u.Delegations {
		report(c.Register(newBindsBinding(decl)))
	}
	for i := range u.AssistedFactories {
		b, d := c.newAssistedFactoryBinding(&u.AssistedFactories[i])
		if d != nil {
			report(d)
			continue
		}
		report(c.Register(b))
	}
	for _, decl := range u.MembersInjections {
		report(c.Register(&Binding{
			Kind:     KindMembersInjection,
			Key:      KeyOf(decl.Target),
			Location: decl.Location,
			Fields:   decl.Fields,
		}))
	}
	for i := range u.Graphs {
		decl := &u.Graphs[i]
		if _, exists := c.graphs[decl.Type]; exists {
			report(&Diagnostic{
				Kind:     DuplicateBinding,
				Severity: SeverityError,
				Location: decl.Location,
				Message:  fmt.Sprintf("graph %s is declared more than once", decl.Type),
				Keys:     []Key{KeyOf(decl.Type)},
			})
			continue
		}
		c.graphs[decl.Type] = decl
	}

	return c, diags
}

// Register adds a binding to the catalog, or reports why it cannot be used.
func (c *Catalog) Register(b *Binding) *Diagnostic {
	if d := checkDeclaration(b, false); d != nil {
		return d
	}

	switch b.Kind {
	case KindConstructor:
		c.constructors[b.Key] = append(c.constructors[b.Key], b)
	case KindProvides, KindBinds:
		c.explicit[b.BoundKey()] = append(c.explicit[b.BoundKey()], b)
		if b.Graph != "" {
			c.owned[b.Graph] = append(c.owned[b.Graph], b)
		} else {
			c.modules[b.Module] = append(c.modules[b.Module], b)
		}
	case KindAssistedFactory:
		if _, exists := c.factories[b.Key.Type]; exists {
			d := newError(DuplicateBinding, b.Location, []Key{b.Key}, "assisted factory %s is declared more than once", b.Key.Type)
			return &d
		}
		c.factories[b.Key.Type] = b
	case KindMembersInjection:
		if existing, exists := c.injections[b.Key.Type]; exists {
			existing.Fields = append(existing.Fields, b.Fields...)
			return nil
		}
		c.injections[b.Key.Type] = b
	case KindMultibinding, KindGraphExtension, KindBoundInstance:
		d := newError(MalformedDeclaration, b.Location, []Key{b.Key}, "%s bindings are synthesized while building graphs and cannot be registered", b.Kind)
		return &d
	default:
		panic(fmt.Sprintf("unknown binding kind %d", int(b.Kind)))
	}
	return nil
}

func (c *Catalog) newAssistedFactoryBinding(decl *AssistedFactoryDecl) (*Binding, *Diagnostic) {
	malformed := func(format string, args ...any) (*Binding, *Diagnostic) {
		d := newError(MalformedDeclaration, decl.Location, []Key{KeyOf(decl.Type)}, format, args...)
		return nil, &d
	}

	targets := c.constructors[KeyOf(decl.Target)]
	if len(targets) != 1 {
		return malformed("assisted factory %s needs exactly one @inject constructor for %s, found %d", decl.Type, decl.Target, len(targets))
	}
	target := targets[0]
	if target.Scope != "" {
		return malformed("%s is created by assisted factory %s and cannot be scoped", decl.Target, decl.Type)
	}

	type assistedID struct {
		Type TypeRef
		ID   string
	}
	expected := make(map[assistedID]bool)
	for _, p := range target.Params {
		if !p.Assisted {
			continue
		}
		id := assistedID{Type: p.Dependency.Key.Type, ID: p.AssistedID}
		if expected[id] {
			return malformed("%s declares assisted parameter %s more than once, use distinct ids", target, id.Type)
		}
		expected[id] = true
	}
	if len(expected) != len(decl.Params) {
		return malformed("%s.%s has %d parameters but %s expects %d assisted parameters", decl.Type, decl.Method, len(decl.Params), target, len(expected))
	}
	for _, p := range decl.Params {
		if p.Variadic {
			return malformed("parameter %s of %s.%s is variadic", p.Name, decl.Type, decl.Method)
		}
		if !expected[assistedID{Type: p.Dependency.Key.Type, ID: p.AssistedID}] {
			return malformed("parameter %s of %s.%s does not match any assisted parameter of %s", p.Name, decl.Type, decl.Method, target)
		}
	}

	return &Binding{
		Kind:     KindAssistedFactory,
		Key:      KeyOf(decl.Type),
		Location: decl.Location,
		Factory:  decl,
		Target:   target,
	}, nil
}

// Lookup returns every explicit binding of the key, wherever it is installed.
func (c *Catalog) Lookup(key Key) []*Binding {
	return sortedCopy(c.explicit[key])
}

func (c *Catalog) Module(name string) []*Binding {
	return sortedCopy(c.modules[name])
}

// Owned returns the bindings declared directly on a graph.
func (c *Catalog) Owned(graph TypeRef) []*Binding {
	return sortedCopy(c.owned[graph])
}

func (c *Catalog) Constructor(key Key) []*Binding {
	return sortedCopy(c.constructors[key])
}

func (c *Catalog) AssistedFactory(t TypeRef) (*Binding, bool) {
	b, found := c.factories[t]
	return b, found
}

func (c *Catalog) MembersInjection(t TypeRef) (*Binding, bool) {
	b, found := c.injections[t]
	return b, found
}

func (c *Catalog) Graph(t TypeRef) (*GraphDecl, bool) {
	g, found := c.graphs[t]
	return g, found
}

func sortedCopy(bindings []*Binding) []*Binding {
	res := slices.Clone(bindings)
	sortBindings(res)
	return res
}
