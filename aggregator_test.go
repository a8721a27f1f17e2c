package godigen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAggregator(t *testing.T) {
	contribution := func(scope Scope, unit string, name string, line int) ContributionDecl {
		p := provides("", name, line, typ("Plugin"))
		p.Location = Location{Unit: unit, File: unit + "/plugin.go", Line: line}
		p.Into = &MultibindingTarget{Shape: ShapeSet}
		return ContributionDecl{Scope: scope, Unit: unit, Provider: &p}
	}

	t.Run("it should order contributed bindings by unit then location", func(t *testing.T) {
		// GIVEN
		contributions := []ContributionDecl{
			contribution("app", "example.com/b", "ProvideB2", 20),
			contribution("app", "example.com/a", "ProvideA", 99),
			contribution("request", "example.com/a", "ProvideRequest", 1),
			contribution("app", "example.com/b", "ProvideB1", 10),
		}

		// WHEN
		a, diags := NewAggregator(contributions, nil)

		// THEN
		require.Empty(t, diags)
		bindings := a.Bindings("app")
		require.Len(t, bindings, 3)
		assert.Equal(t, "ProvideA", bindings[0].Func.Name)
		assert.Equal(t, "ProvideB1", bindings[1].Func.Name)
		assert.Equal(t, "ProvideB2", bindings[2].Func.Name)
		assert.Len(t, a.Bindings("request"), 1)
		assert.Empty(t, a.Bindings("unknown"))
	})

	t.Run("it should reject contributions declaring nothing or too much", func(t *testing.T) {
		// GIVEN
		both := contribution("app", "example.com/a", "ProvideA", 1)
		both.Interface = &ContributedInterfaceDecl{Type: typ("Access")}

		// WHEN
		_, diags := NewAggregator([]ContributionDecl{both, {Scope: "app"}}, nil)

		// THEN
		assert.Equal(t, []DiagnosticKind{MalformedDeclaration, MalformedDeclaration}, kinds(diags))
	})

	t.Run("it should check contribution accesses against the graph scope", func(t *testing.T) {
		// GIVEN
		a, _ := NewAggregator([]ContributionDecl{
			{Scope: "request", Interface: &ContributedInterfaceDecl{Type: typ("RequestAccess")}},
			{Scope: "admin", Interface: &ContributedInterfaceDecl{Type: typ("AdminAccess")}},
		}, nil)
		requestGraph := &GraphDecl{Type: typ("RequestGraph"), Scope: "request"}

		// WHEN
		allowed := a.CheckAccess(requestGraph, ContributionAccess{Graph: requestGraph.Type, Target: typ("RequestAccess")})
		self := a.CheckAccess(requestGraph, ContributionAccess{Graph: requestGraph.Type, Target: requestGraph.Type})
		leak := a.CheckAccess(requestGraph, ContributionAccess{Graph: requestGraph.Type, Target: typ("AdminAccess")})
		missing := a.CheckAccess(requestGraph, ContributionAccess{Graph: requestGraph.Type, Target: typ("Nothing")})

		// THEN
		assert.Nil(t, allowed)
		assert.Nil(t, self)
		require.NotNil(t, leak)
		assert.Equal(t, ContributionScopeLeak, leak.Kind)
		assert.Contains(t, leak.Message, `"admin"`)
		require.NotNil(t, missing)
		assert.Equal(t, MissingBinding, missing.Kind)
	})
}
