package godigen

import (
	"fmt"
	"slices"

	"github.com/a-peyrard/godigen/fn"
)

type (
	BindingKind int

	// BoundSource locates the parameter a bound instance comes from.
	BoundSource struct {
		// Graph is the graph receiving the value, through its creator or the extension factory creating it.
		Graph TypeRef
		Index int
		Param Param
	}

	// Binding is a rule to build the value of a key. The fields used depend on Kind.
	Binding struct {
		Kind     BindingKind
		Key      Key
		Scope    Scope
		Location Location

		// Func is the function called by Constructor and Provides bindings, or annotated by Binds.
		Func   FuncRef
		Params []Param
		// Fields are injected after construction for Constructor, or are the targets of MembersInjection.
		Fields []FieldDecl
		// Into is set on multibinding elements.
		Into *MultibindingTarget
		// Elements of a Multibinding aggregate.
		Elements []*Binding

		// Factory and Target describe an AssistedFactory.
		Factory *AssistedFactoryDecl
		Target  *Binding

		// Extension and Child describe a GraphExtension.
		Extension *ExtensionFactoryDecl
		Child     *GraphDecl

		Bound *BoundSource

		// Module or Graph own explicit Provides and Binds bindings.
		Module string
		Graph  TypeRef
	}
)

const (
	KindConstructor BindingKind = iota
	KindProvides
	KindBinds
	KindMultibinding
	KindAssistedFactory
	KindMembersInjection
	KindGraphExtension
	KindBoundInstance
)

func (k BindingKind) String() string {
	switch k {
	case KindConstructor:
		return "Constructor"
	case KindProvides:
		return "Provides"
	case KindBinds:
		return "Binds"
	case KindMultibinding:
		return "Multibinding"
	case KindAssistedFactory:
		return "AssistedFactory"
	case KindMembersInjection:
		return "MembersInjection"
	case KindGraphExtension:
		return "GraphExtension"
	case KindBoundInstance:
		return "BoundInstance"
	default:
		panic(fmt.Sprintf("unknown binding kind %d", int(k)))
	}
}

// Dependencies returns the keys the binding needs, in parameter then field order.
func (b *Binding) Dependencies() []Dependency {
	switch b.Kind {
	case KindConstructor:
		deps := make([]Dependency, 0, len(b.Params)+len(b.Fields))
		for _, p := range b.Params {
			if !p.Assisted {
				deps = append(deps, p.Dependency)
			}
		}
		for _, f := range b.Fields {
			deps = append(deps, f.Dependency)
		}
		return deps
	case KindProvides, KindBinds:
		deps := make([]Dependency, len(b.Params))
		for i, p := range b.Params {
			deps[i] = p.Dependency
		}
		return deps
	case KindMultibinding:
		deps := make([]Dependency, len(b.Elements))
		for i, e := range b.Elements {
			deps[i] = Dependency{Key: e.Key, Kind: RequestInstance, Name: e.Func.Name}
		}
		return deps
	case KindAssistedFactory:
		var deps []Dependency
		for _, p := range b.Target.Params {
			if p.Assisted {
				continue
			}
			dep := p.Dependency
			if dep.Kind == RequestInstance {
				dep.Kind = RequestProvider
			}
			deps = append(deps, dep)
		}
		return deps
	case KindMembersInjection:
		deps := make([]Dependency, len(b.Fields))
		for i, f := range b.Fields {
			deps[i] = f.Dependency
		}
		return deps
	case KindGraphExtension, KindBoundInstance:
		return nil
	default:
		panic(fmt.Sprintf("unknown binding kind %d", int(b.Kind)))
	}
}

// IsExplicit reports whether the binding was declared in a module, a graph or a contribution.
func (b *Binding) IsExplicit() bool {
	switch b.Kind {
	case KindProvides, KindBinds, KindBoundInstance:
		return true
	case KindConstructor, KindMultibinding, KindAssistedFactory, KindMembersInjection, KindGraphExtension:
		return false
	default:
		panic(fmt.Sprintf("unknown binding kind %d", int(b.Kind)))
	}
}

// IsElement reports whether the binding contributes to a multibinding instead of binding its key.
func (b *Binding) IsElement() bool {
	return b.Into != nil
}

// BoundKey is the key the binding answers to, the aggregate key for multibinding elements.
func (b *Binding) BoundKey() Key {
	if b.Into != nil {
		return b.Into.AggregateKey(b.Key)
	}
	return b.Key
}

func (b *Binding) String() string {
	switch b.Kind {
	case KindConstructor, KindProvides, KindBinds:
		return fmt.Sprintf("%s %s.%s", b.Kind, b.Func.PkgPath, b.Func.Name)
	case KindBoundInstance:
		return fmt.Sprintf("%s %s of %s", b.Kind, b.Bound.Param.Name, b.Bound.Graph)
	case KindMultibinding, KindAssistedFactory, KindMembersInjection, KindGraphExtension:
		return fmt.Sprintf("%s %s", b.Kind, b.Key)
	default:
		panic(fmt.Sprintf("unknown binding kind %d", int(b.Kind)))
	}
}

// compareBindings orders bindings by compilation unit, then declaration location.
var compareBindings fn.Comparator[*Binding] = func(a, b *Binding) fn.ComparisonResult {
	return compareLocations(a.Location, b.Location)
}

func sortBindings(bindings []*Binding) {
	slices.SortStableFunc(bindings, func(a, b *Binding) int {
		return int(compareBindings(a, b))
	})
}

func newConstructorBinding(decl ConstructorDecl) *Binding {
	return &Binding{
		Kind:     KindConstructor,
		Key:      decl.Result,
		Scope:    decl.Scope,
		Location: decl.Location,
		Func:     decl.Func,
		Params:   decl.Params,
		Fields:   decl.Fields,
	}
}

func newProvidesBinding(decl ProviderDecl) *Binding {
	return &Binding{
		Kind:     KindProvides,
		Key:      decl.Result,
		Scope:    decl.Scope,
		Location: decl.Location,
		Func:     decl.Func,
		Params:   decl.Params,
		Into:     decl.Into,
		Module:   decl.Module,
		Graph:    decl.Graph,
	}
}

func newBindsBinding(decl DelegationDecl) *Binding {
	return &Binding{
		Kind:     KindBinds,
		Key:      decl.Result,
		Scope:    decl.Scope,
		Location: decl.Location,
		Func:     decl.Func,
		Params:   []Param{decl.Source},
		Into:     decl.Into,
		Module:   decl.Module,
		Graph:    decl.Graph,
	}
}

func newBoundInstance(graph TypeRef, index int, param Param, location Location) *Binding {
	return &Binding{
		Kind:     KindBoundInstance,
		Key:      param.Dependency.Key,
		Location: location,
		Bound:    &BoundSource{Graph: graph, Index: index, Param: param},
	}
}

// checkDeclaration reports shapes no graph could ever use.
func checkDeclaration(b *Binding, returnsError bool) *Diagnostic {
	malformed := func(format string, args ...any) *Diagnostic {
		d := newError(MalformedDeclaration, b.Location, []Key{b.Key}, format, args...)
		return &d
	}

	if b.Key.Type == "" {
		return malformed("%s has no result type", b)
	}
	if returnsError {
		return malformed("%s returns an error, providers must return a single value", b)
	}
	for _, p := range b.Params {
		if p.Dependency.Key.Type == "" {
			return malformed("parameter %s of %s cannot be resolved to a key", p.Name, b)
		}
		if p.Variadic && b.Kind != KindBoundInstance {
			return malformed("parameter %s of %s is variadic", p.Name, b)
		}
	}
	for _, f := range b.Fields {
		if f.Dependency.Key.Type == "" {
			return malformed("field %s of %s cannot be resolved to a key", f.Name, b.Key.Type)
		}
	}
	if b.Into != nil && b.Into.Shape == ShapeMap && b.Into.MapKey == "" {
		return malformed("%s contributes to a map multibinding without a map key", b)
	}
	if b.Kind == KindBinds {
		if len(b.Params) != 1 {
			return malformed("%s must have exactly one parameter", b)
		}
		if b.Params[0].Dependency.Key == b.Key {
			return malformed("%s binds %s to itself", b, b.Key)
		}
		if b.Params[0].Dependency.Kind != RequestInstance {
			return malformed("%s must take its source as a plain value", b)
		}
	}
	if b.Kind == KindProvides && b.Module != "" && b.Graph != "" {
		return malformed("%s cannot belong to both module %s and graph %s", b, b.Module, b.Graph)
	}
	return nil
}
