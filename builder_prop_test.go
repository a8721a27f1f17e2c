package godigen

import (
	"fmt"
	"math/rand/v2"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func pluginUniverse(n int) *Universe {
	u := &Universe{
		Graphs: []GraphDecl{
			graph("AppGraph", "app", entry("Plugins", dep(SliceOf(typ("Plugin"))))),
		},
	}
	for i := 0; i < n; i++ {
		unit := fmt.Sprintf("example.com/plugins/p%02d", i%4)
		p := ProviderDecl{
			Result:   KeyOf(typ("Plugin")),
			Func:     FuncRef{PkgPath: unit, Name: fmt.Sprintf("ProvidePlugin%d", i)},
			Into:     &MultibindingTarget{Shape: ShapeSet},
			Location: Location{Unit: unit, File: unit + "/plugin.go", Line: 10 + i},
		}
		if i%2 == 0 {
			p.Module = "app"
			u.Providers = append(u.Providers, p)
		} else {
			u.Contributions = append(u.Contributions, ContributionDecl{Scope: "app", Unit: unit, Provider: &p})
		}
	}
	return u
}

func elementNames(g *BindingGraph) []string {
	plugins := targetOf(g, "Plugins")
	names := make([]string, len(plugins.Binding.Elements))
	for i, e := range plugins.Binding.Elements {
		names[i] = e.Func.Name
	}
	return names
}

func Test_MultibindingOrderIndependence(t *testing.T) {
	properties := gopter.NewProperties(nil)
	properties.Property("elements do not depend on declaration order", prop.ForAll(
		func(n int, seed uint64) bool {
			reference, diags := buildGraph(pluginUniverse(n), "AppGraph")
			if len(diags) > 0 {
				return false
			}

			shuffled := pluginUniverse(n)
			rnd := rand.New(rand.NewPCG(seed, seed>>1))
			rnd.Shuffle(len(shuffled.Providers), func(i, j int) {
				shuffled.Providers[i], shuffled.Providers[j] = shuffled.Providers[j], shuffled.Providers[i]
			})
			rnd.Shuffle(len(shuffled.Contributions), func(i, j int) {
				shuffled.Contributions[i], shuffled.Contributions[j] = shuffled.Contributions[j], shuffled.Contributions[i]
			})
			g, diags := buildGraph(shuffled, "AppGraph")
			if len(diags) > 0 {
				return false
			}

			expected := elementNames(reference)
			actual := elementNames(g)
			if len(actual) != n || len(expected) != n {
				return false
			}
			for i := range expected {
				if expected[i] != actual[i] {
					return false
				}
			}
			return true
		},
		gen.IntRange(1, 12),
		gen.UInt64(),
	))

	properties.TestingRun(t)
}

func Test_BuildDeterminism(t *testing.T) {
	properties := gopter.NewProperties(nil)
	properties.Property("building twice gives the same topological order", prop.ForAll(
		func(n int) bool {
			u := pluginUniverse(n)
			first, _ := buildGraph(u, "AppGraph")
			second, _ := buildGraph(u, "AppGraph")

			a := first.TopologicalOrder()
			b := second.TopologicalOrder()
			if len(a) != len(b) || len(a) != n+1 {
				return false
			}
			for i := range a {
				if a[i].ID != b[i].ID || a[i].Binding.Key != b[i].Binding.Key || a[i].Binding.Func != b[i].Binding.Func {
					return false
				}
			}
			return true
		},
		gen.IntRange(1, 12),
	))

	properties.TestingRun(t)
}
