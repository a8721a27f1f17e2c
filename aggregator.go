package godigen

import (
	"fmt"
	"slices"
	"strings"

	"github.com/a-peyrard/godigen/set"
)

// Aggregator indexes contributions by the scope they target.
//
// It is built once per compilation and passed explicitly to the builders.
type Aggregator struct {
	bindings   map[Scope][]*Binding
	interfaces map[Scope][]*ContributedInterfaceDecl
	targets    map[TypeRef]set.Set[Scope]
	accesses   map[TypeRef][]ContributionAccess
}

func NewAggregator(contributions []ContributionDecl, accesses []ContributionAccess) (*Aggregator, Diagnostics) {
	a := &Aggregator{
		bindings:   make(map[Scope][]*Binding),
		interfaces: make(map[Scope][]*ContributedInterfaceDecl),
		targets:    make(map[TypeRef]set.Set[Scope]),
		accesses:   make(map[TypeRef][]ContributionAccess),
	}

	var diags Diagnostics
	for _, contribution := range contributions {
		if d := a.add(contribution); d != nil {
			diags = append(diags, *d)
		}
	}
	for scope := range a.bindings {
		sortBindings(a.bindings[scope])
	}
	for scope := range a.interfaces {
		slices.SortStableFunc(a.interfaces[scope], func(x, y *ContributedInterfaceDecl) int {
			return strings.Compare(string(x.Type), string(y.Type))
		})
	}
	for _, access := range accesses {
		a.accesses[access.Graph] = append(a.accesses[access.Graph], access)
	}

	return a, diags
}

func (a *Aggregator) add(contribution ContributionDecl) *Diagnostic {
	declared := 0
	if contribution.Provider != nil {
		declared++
	}
	if contribution.Delegation != nil {
		declared++
	}
	if contribution.Interface != nil {
		declared++
	}
	if declared != 1 {
		d := newError(MalformedDeclaration, contribution.Location, nil, "a contribution must declare exactly one provider, delegation or interface, got %d", declared)
		return &d
	}

	var b *Binding
	switch {
	case contribution.Provider != nil:
		b = newProvidesBinding(*contribution.Provider)
		if d := checkDeclaration(b, contribution.Provider.ReturnsError); d != nil {
			return d
		}
	case contribution.Delegation != nil:
		b = newBindsBinding(*contribution.Delegation)
		if d := checkDeclaration(b, false); d != nil {
			return d
		}
	default:
		iface := contribution.Interface
		a.interfaces[contribution.Scope] = append(a.interfaces[contribution.Scope], iface)
		if a.targets[iface.Type] == nil {
			a.targets[iface.Type] = set.New[Scope]()
		}
		a.targets[iface.Type].Add(contribution.Scope)
		return nil
	}

	if b.Location.Unit == "" {
		b.Location.Unit = contribution.Unit
	}
	a.bindings[contribution.Scope] = append(a.bindings[contribution.Scope], b)
	return nil
}

// Bindings returns the bindings contributed to the scope, ordered by unit then location.
func (a *Aggregator) Bindings(scope Scope) []*Binding {
	return slices.Clone(a.bindings[scope])
}

// Interfaces returns the interfaces contributed to the scope, ordered by type.
func (a *Aggregator) Interfaces(scope Scope) []*ContributedInterfaceDecl {
	return slices.Clone(a.interfaces[scope])
}

// Accesses returns the recorded contribution accesses made on values of the given graph type.
func (a *Aggregator) Accesses(graph TypeRef) []ContributionAccess {
	return a.accesses[graph]
}

// CheckAccess validates that the target of the access is contributed to the scope of the graph.
func (a *Aggregator) CheckAccess(graph *GraphDecl, access ContributionAccess) *Diagnostic {
	if access.Target == graph.Type {
		return nil
	}
	scopes := a.targets[access.Target]
	if scopes != nil && scopes.Contains(graph.Scope) {
		return nil
	}

	if scopes == nil || scopes.IsEmpty() {
		d := newError(
			MissingBinding,
			access.Location,
			[]Key{KeyOf(access.Target)},
			"%s is not contributed to any graph, it cannot be reached from %s",
			access.Target, graph.Type,
		)
		return &d
	}

	d := newError(
		ContributionScopeLeak,
		access.Location,
		[]Key{KeyOf(access.Target), KeyOf(graph.Type)},
		"%s is contributed to scope(s) %s but %s has scope %q",
		access.Target, formatScopes(scopes), graph.Type, graph.Scope,
	)
	return &d
}

func formatScopes(scopes set.Set[Scope]) string {
	sorted := set.Sorted(scopes)
	names := make([]string, len(sorted))
	for i, s := range sorted {
		names[i] = fmt.Sprintf("%q", s)
	}
	return strings.Join(names, ", ")
}
