package godigen

import (
	"fmt"
	"strings"

	"github.com/a-peyrard/godigen/set"
)

// tracker follows the current depth first path, to detect cycles.
type tracker struct {
	visited set.Set[NodeID]
	stack   []NodeID
}

func newTracker() *tracker {
	return &tracker{
		visited: set.New[NodeID](),
		stack:   make([]NodeID, 0),
	}
}

// push adds the node to the path, if it is already on it the cycle is returned,
// starting and ending with the node.
func (t *tracker) push(n NodeID) ([]NodeID, bool) {
	if t.visited.Contains(n) {
		start := len(t.stack) - 1
		for start >= 0 && t.stack[start] != n {
			start--
		}
		cycle := make([]NodeID, 0, len(t.stack)-start+1)
		cycle = append(cycle, t.stack[start:]...)
		cycle = append(cycle, n)
		return cycle, true
	}
	t.visited.Add(n)
	t.stack = append(t.stack, n)

	return nil, false
}

func (t *tracker) pop() NodeID {
	if len(t.stack) == 0 {
		panic("tracker: pop from empty stack")
	}
	n := t.stack[len(t.stack)-1]
	t.stack = t.stack[:len(t.stack)-1]
	t.visited.Remove(n)

	return n
}

func formatCycle(nodes []*Node) string {
	sb := strings.Builder{}
	for i, n := range nodes {
		prefix := ""
		if i > 0 {
			prefix = " -> "
		}
		sb.WriteString(fmt.Sprintf("%s%s%s [%s]\n", strings.Repeat("\t", i), prefix, n.Binding.Key, n.Binding))
	}
	return sb.String()
}
