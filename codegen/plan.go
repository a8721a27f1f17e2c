// Package codegen turns resolved binding graphs into Go source.
//
// Emit builds an abstract plan of the implementation, Render prints plans as a Go file.
package codegen

import "github.com/a-peyrard/godigen"

type (
	// Implementation is the generated code of a root graph and its extensions.
	Implementation struct {
		Graph     godigen.TypeRef
		PkgPath   string
		Creator   *Creator
		Structs   []*Struct
		Factories []*Factory
		Injectors []*Injector
	}

	Field struct {
		Name string
		Type godigen.TypeRef
	}

	Method struct {
		Recv   string
		Name   string
		Params []Field
		// Result is empty for methods returning nothing.
		Result godigen.TypeRef
		Body   []Instruction
	}

	// Struct implements one graph of the tree. Extensions keep a pointer to their parent.
	Struct struct {
		Name       string
		Graph      godigen.TypeRef
		Implements []godigen.TypeRef
		Parent     string
		Fields     []Field
		Methods    []*Method
	}

	// Factory implements an assisted factory interface, holding providers of the
	// dependencies the graph resolves.
	Factory struct {
		Name       string
		Implements godigen.TypeRef
		Fields     []Field
		Method     *Method
	}

	// Injector is the standalone function filling the fields of a target, in declaration order.
	Injector struct {
		Name        string
		Target      Field
		Params      []Field
		Assignments []FieldInit
	}

	// Creator is the exported function instantiating the root graph.
	Creator struct {
		Name   string
		Type   godigen.TypeRef
		Graph  godigen.TypeRef
		Params []Field
		Struct string
		Inits  []FieldInit
	}
)

// Struct returns the struct implementing the given graph type.
func (impl *Implementation) Struct(graph godigen.TypeRef) (*Struct, bool) {
	for _, s := range impl.Structs {
		if s.Graph == graph {
			return s, true
		}
	}
	return nil, false
}

// Method returns the method with the given name.
func (s *Struct) Method(name string) (*Method, bool) {
	for _, m := range s.Methods {
		if m.Name == name {
			return m, true
		}
	}
	return nil, false
}
