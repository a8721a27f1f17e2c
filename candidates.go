package godigen

import (
	"fmt"
	"slices"
	"strings"
)

type (
	// candidate is a binding visible from a graph, with the resolver of the graph declaring it.
	candidate struct {
		binding *Binding
		level   *resolver
	}

	candidates struct {
		explicit []candidate
		elements []candidate
	}
)

// candidatesFor gathers own and inherited explicit bindings of the key.
// A binding visible from several levels is attached to the outermost one.
func (r *resolver) candidatesFor(key Key) candidates {
	var c candidates
	explicitIdx := make(map[*Binding]int)
	elementIdx := make(map[*Binding]int)

	for level := r; level != nil; level = level.parent {
		for _, b := range level.explicit[key] {
			if idx, seen := explicitIdx[b]; seen {
				c.explicit[idx].level = level
				continue
			}
			explicitIdx[b] = len(c.explicit)
			c.explicit = append(c.explicit, candidate{binding: b, level: level})
		}
		for _, b := range level.elements[key] {
			if idx, seen := elementIdx[b]; seen {
				c.elements[idx].level = level
				continue
			}
			elementIdx[b] = len(c.elements)
			c.elements = append(c.elements, candidate{binding: b, level: level})
		}
	}

	sortCandidates(c.explicit)
	sortCandidates(c.elements)
	return c
}

func (c candidates) count() int {
	if len(c.elements) > 0 {
		return len(c.explicit) + 1
	}
	return len(c.explicit)
}

func (c candidates) describe() string {
	lines := make([]string, 0, len(c.explicit)+1)
	for _, cand := range c.explicit {
		lines = append(lines, fmt.Sprintf("%s at %s", cand.binding, cand.binding.Location))
	}
	if len(c.elements) > 0 {
		lines = append(lines, fmt.Sprintf("multibinding of %d element(s)", len(c.elements)))
	}
	return "\t" + strings.Join(lines, "\n\t")
}

func sortCandidates(cs []candidate) {
	slices.SortStableFunc(cs, func(a, b candidate) int {
		return int(compareBindings(a.binding, b.binding))
	})
}

// checkMapKeys reports elements of a map multibinding sharing the same key.
func checkMapKeys(key Key, elements []candidate, graph *GraphDecl) Diagnostics {
	var diags Diagnostics
	byMapKey := make(map[string]*Binding)
	for _, e := range elements {
		if e.binding.Into.Shape != ShapeMap {
			continue
		}
		if first, dup := byMapKey[e.binding.Into.MapKey]; dup {
			diags = append(diags, newError(
				DuplicateBinding,
				e.binding.Location,
				[]Key{key},
				"map key %q of %s is contributed twice in graph %s:\n\t%s at %s\n\t%s at %s",
				e.binding.Into.MapKey, key, graph.Type,
				first, first.Location, e.binding, e.binding.Location,
			))
			continue
		}
		byMapKey[e.binding.Into.MapKey] = e.binding
	}
	return diags
}
