package godigen

import (
	"fmt"
	"strings"
)

// Dot renders the graph tree in Graphviz format, one cluster per graph.
// Deferred edges are dashed, the ones breaking a cycle are red.
func (g *BindingGraph) Dot() string {
	sb := &strings.Builder{}
	sb.WriteString("digraph godigen {\n")
	sb.WriteString("\tcompound = \"true\"\n")
	sb.WriteString("\tnewrank = \"true\"\n")

	cluster := 0
	g.Walk(func(graph *BindingGraph) {
		fmt.Fprintf(sb, "\tsubgraph \"cluster_%d\" {\n", cluster)
		fmt.Fprintf(sb, "\t\tlabel = %q\n", graphLabel(graph))
		for _, n := range graph.Nodes() {
			fmt.Fprintf(sb, "\t\t\"n%d\" [label = %q, shape = %q]\n", n.ID, nodeLabel(n), nodeShape(n))
		}
		for _, ep := range graph.EntryPoints {
			if ep.Edge.Target == unresolved {
				continue
			}
			fmt.Fprintf(sb, "\t\t\"ep%d_%s\" [label = %q, shape = \"plaintext\"]\n", cluster, ep.EntryPoint.Method, ep.EntryPoint.Method+"()")
		}
		sb.WriteString("\t}\n")
		for _, ep := range graph.EntryPoints {
			if ep.Edge.Target == unresolved {
				continue
			}
			fmt.Fprintf(sb, "\t\"ep%d_%s\" -> \"n%d\"%s\n", cluster, ep.EntryPoint.Method, ep.Edge.Target, edgeStyle(ep.Edge))
		}
		cluster++
	})

	for _, n := range g.AllNodes() {
		for _, e := range n.Edges {
			if e.Target == unresolved {
				continue
			}
			fmt.Fprintf(sb, "\t\"n%d\" -> \"n%d\"%s\n", n.ID, e.Target, edgeStyle(e))
		}
	}

	sb.WriteString("}\n")
	return sb.String()
}

func graphLabel(g *BindingGraph) string {
	if g.Decl.Scope == "" {
		return string(g.Decl.Type)
	}
	return fmt.Sprintf("%s (%s)", g.Decl.Type, g.Decl.Scope)
}

func nodeLabel(n *Node) string {
	label := fmt.Sprintf("%s\n%s", n.Binding.Key, n.Binding.Kind)
	if n.Binding.Scope != "" {
		label += fmt.Sprintf(" @%s", n.Binding.Scope)
	}
	return label
}

func nodeShape(n *Node) string {
	switch n.Binding.Kind {
	case KindConstructor, KindProvides:
		return "box"
	case KindBinds:
		return "cds"
	case KindMultibinding:
		return "folder"
	case KindAssistedFactory:
		return "component"
	case KindMembersInjection:
		return "note"
	case KindGraphExtension:
		return "tab"
	case KindBoundInstance:
		return "ellipse"
	default:
		panic(fmt.Sprintf("unknown binding kind %d", int(n.Binding.Kind)))
	}
}

func edgeStyle(e Edge) string {
	switch {
	case e.BreaksCycle:
		return " [style = \"dashed\", color = \"red\"]"
	case e.Dependency.Kind.IsDeferred():
		return " [style = \"dashed\"]"
	default:
		return ""
	}
}
