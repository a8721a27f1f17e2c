package codegen

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/a-peyrard/godigen"
)

type (
	// Expr is a Go expression of the generated code.
	Expr interface {
		render(q *qualifier) string
	}

	// Instruction is a statement of a generated method body.
	Instruction interface {
		write(q *qualifier, sb *strings.Builder)
	}

	Ident string

	Call struct {
		Func godigen.FuncRef
		Args []Expr
	}

	MethodCall struct {
		Recv   Expr
		Method string
		Args   []Expr
	}

	Selector struct {
		X    Expr
		Name string
	}

	Convert struct {
		Type godigen.TypeRef
		X    Expr
	}

	AddressOf struct {
		X Expr
	}

	SliceLit struct {
		Type  godigen.TypeRef
		Elems []Expr
	}

	MapLit struct {
		Type   godigen.TypeRef
		Keys   []string
		Values []Expr
	}

	// ProviderFunc turns a method value into an inject.Provider.
	ProviderFunc struct {
		Type   godigen.TypeRef
		Method Expr
	}

	LazyOf struct {
		Type     godigen.TypeRef
		Provider Expr
	}

	// Guarded is a provider failing fast until the Gate delegate is set.
	Guarded struct {
		Type     godigen.TypeRef
		Gate     string
		Provider Expr
	}

	// Inline builds a value in place, through an immediately called closure.
	Inline struct {
		Type godigen.TypeRef
		Body []Instruction
	}

	FieldInit struct {
		Name  string
		Value Expr
	}

	// StructLit is a pointer to a struct declared by the generated file.
	StructLit struct {
		Name   string
		Fields []FieldInit
	}
)

type (
	// CacheLoad returns early with the cached value, if any.
	CacheLoad struct {
		Cell Expr
	}

	NewDelegate struct {
		Var  string
		Type godigen.TypeRef
		Name string
	}

	Let struct {
		Var   string
		Value Expr
	}

	// Construct calls the constructor, inside the cell critical section when Cell is set.
	// Then runs right after the constructor, before the value is published.
	Construct struct {
		Var   string
		Type  godigen.TypeRef
		Value Expr
		Cell  Expr
		Then  []Instruction
	}

	SetDelegate struct {
		Delegate string
		Value    Expr
	}

	InjectMembers struct {
		Func   string
		Target Expr
		Args   []Expr
	}

	Return struct {
		Value Expr
	}
)

func (i Ident) render(*qualifier) string {
	return string(i)
}

func (c Call) render(q *qualifier) string {
	return q.fn(c.Func) + "(" + renderAll(q, c.Args) + ")"
}

func (c MethodCall) render(q *qualifier) string {
	return c.Recv.render(q) + "." + c.Method + "(" + renderAll(q, c.Args) + ")"
}

func (s Selector) render(q *qualifier) string {
	return s.X.render(q) + "." + s.Name
}

func (c Convert) render(q *qualifier) string {
	t := q.typ(c.Type)
	if strings.HasPrefix(t, "*") || strings.HasPrefix(t, "func") || strings.HasPrefix(t, "<-") {
		t = "(" + t + ")"
	}
	return t + "(" + c.X.render(q) + ")"
}

func (a AddressOf) render(q *qualifier) string {
	return "&" + a.X.render(q)
}

func (s SliceLit) render(q *qualifier) string {
	return q.typ(s.Type) + "{" + renderAll(q, s.Elems) + "}"
}

func (m MapLit) render(q *qualifier) string {
	sb := &strings.Builder{}
	sb.WriteString(q.typ(m.Type) + "{")
	for i, key := range m.Keys {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(strconv.Quote(key) + ": " + m.Values[i].render(q))
	}
	sb.WriteString("}")
	return sb.String()
}

func (p ProviderFunc) render(q *qualifier) string {
	return fmt.Sprintf("%s[%s](%s)", q.inject("ProviderFunc"), q.typ(p.Type), p.Method.render(q))
}

func (l LazyOf) render(q *qualifier) string {
	return fmt.Sprintf("%s[%s](%s)", q.inject("NewLazy"), q.typ(l.Type), l.Provider.render(q))
}

func (g Guarded) render(q *qualifier) string {
	return fmt.Sprintf("%s[%s](%s, %s)", q.inject("After"), q.typ(g.Type), g.Gate, g.Provider.render(q))
}

func (i Inline) render(q *qualifier) string {
	sb := &strings.Builder{}
	fmt.Fprintf(sb, "func() %s {\n", q.typ(i.Type))
	writeAll(q, sb, i.Body)
	sb.WriteString("}()")
	return sb.String()
}

func (s StructLit) render(q *qualifier) string {
	sb := &strings.Builder{}
	sb.WriteString("&" + s.Name + "{")
	for i, f := range s.Fields {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(f.Name + ": " + f.Value.render(q))
	}
	sb.WriteString("}")
	return sb.String()
}

func (c CacheLoad) write(q *qualifier, sb *strings.Builder) {
	fmt.Fprintf(sb, "if v, ok := %s.Load(); ok {\nreturn v\n}\n", c.Cell.render(q))
}

func (d NewDelegate) write(q *qualifier, sb *strings.Builder) {
	fmt.Fprintf(sb, "%s := %s[%s](%s)\n", d.Var, q.inject("NewDelegate"), q.typ(d.Type), strconv.Quote(d.Name))
}

func (l Let) write(q *qualifier, sb *strings.Builder) {
	fmt.Fprintf(sb, "%s := %s\n", l.Var, l.Value.render(q))
}

func (c Construct) write(q *qualifier, sb *strings.Builder) {
	if c.Cell == nil {
		fmt.Fprintf(sb, "%s := %s\n", c.Var, c.Value.render(q))
		writeAll(q, sb, c.Then)
		return
	}
	fmt.Fprintf(sb, "%s := %s.Store(func() %s {\n", c.Var, c.Cell.render(q), q.typ(c.Type))
	fmt.Fprintf(sb, "%s := %s\n", c.Var, c.Value.render(q))
	writeAll(q, sb, c.Then)
	fmt.Fprintf(sb, "return %s\n})\n", c.Var)
}

func (s SetDelegate) write(q *qualifier, sb *strings.Builder) {
	fmt.Fprintf(sb, "%s.Set(%s)\n", s.Delegate, s.Value.render(q))
}

func (i InjectMembers) write(q *qualifier, sb *strings.Builder) {
	args := append([]Expr{i.Target}, i.Args...)
	fmt.Fprintf(sb, "%s(%s)\n", i.Func, renderAll(q, args))
}

func (r Return) write(q *qualifier, sb *strings.Builder) {
	if r.Value == nil {
		sb.WriteString("return\n")
		return
	}
	fmt.Fprintf(sb, "return %s\n", r.Value.render(q))
}

func renderAll(q *qualifier, exprs []Expr) string {
	rendered := make([]string, len(exprs))
	for i, e := range exprs {
		rendered[i] = e.render(q)
	}
	return strings.Join(rendered, ", ")
}

func writeAll(q *qualifier, sb *strings.Builder, instructions []Instruction) {
	for _, i := range instructions {
		i.write(q, sb)
	}
}
