package inject

import "fmt"

// AsContribution views a graph through an interface contributed to its scope.
//
// The code generator checks every call site: the graph scope must receive a contribution of C.
func AsContribution[C any](graph any) C {
	c, ok := graph.(C)
	if !ok {
		var zero *C
		panic(fmt.Sprintf("graph %T does not implement contributed interface %T", graph, zero))
	}
	return c
}
