package codegen

import (
	"bytes"
	"fmt"
	"slices"
	"strings"
	"text/template"

	"github.com/a-peyrard/godigen"
	"golang.org/x/tools/imports"
)

// File is a generated Go file holding the implementations of the root graphs of one package.
type File struct {
	PkgPath string
	PkgName string
	// Reserved are the package level names already declared by the package.
	Reserved        []string
	Implementations []*Implementation
}

var headerTpl = template.Must(template.New("header").Parse(`// Code generated by godigen. DO NOT EDIT.

package {{.PkgName}}
{{if .Imports}}
import (
{{- range .Imports}}
	{{.Alias}} "{{.Path}}"
{{- end}}
)
{{end}}
`))

var declarationsTpl = template.Must(template.New("declarations").
	Funcs(template.FuncMap{
		"typ":    func(godigen.TypeRef) string { return "" },
		"expr":   func(Expr) string { return "" },
		"body":   func([]Instruction) string { return "" },
		"params": func([]Field) string { return "" },
	}).
	Parse(`
{{- range .Implementations}}
{{- with .Creator}}
// {{.Name}} creates a new {{typ .Graph}}.
func {{.Name}}({{params .Params}}) {{typ .Graph}} {
	return &{{.Struct}}{
	{{- range .Inits}}
		{{.Name}}: {{expr .Value}},
	{{- end}}
	}
}
{{if .Type}}
var _ {{typ .Type}} = {{.Name}}
{{end}}
{{- end}}
{{- range .Structs}}
{{- $s := .}}
type {{.Name}} struct {
{{- range .Fields}}
	{{.Name}} {{typ .Type}}
{{- end}}
}
{{range .Implements}}
var _ {{typ .}} = (*{{$s.Name}})(nil)
{{- end}}
{{range .Methods}}
func ({{.Recv}} *{{$s.Name}}) {{.Name}}({{params .Params}}) {{typ .Result}} {
{{body .Body}}}
{{end}}
{{- end}}
{{- range .Factories}}
{{- $f := .}}
type {{.Name}} struct {
{{- range .Fields}}
	{{.Name}} {{typ .Type}}
{{- end}}
}

var _ {{typ .Implements}} = (*{{.Name}})(nil)
{{with .Method}}
func ({{.Recv}} *{{$f.Name}}) {{.Name}}({{params .Params}}) {{typ .Result}} {
{{body .Body}}}
{{end}}
{{- end}}
{{- end}}
{{- range .Injectors}}
{{- $i := .}}
func {{.Name}}({{.Target.Name}} {{typ .Target.Type}}{{range .Params}}, {{.Name}} {{typ .Type}}{{end}}) {
{{- range .Assignments}}
	{{$i.Target.Name}}.{{.Name}} = {{expr .Value}}
{{- end}}
}
{{end}}
`))

type declarations struct {
	Implementations []*Implementation
	Injectors       []*Injector
}

// Render prints the implementations as a formatted Go file.
func Render(file *File) ([]byte, error) {
	injectors, err := collectInjectors(file.Implementations)
	if err != nil {
		return nil, err
	}

	q := newQualifier(file.PkgPath, slices.Concat(file.Reserved, topLevelNames(file.Implementations, injectors))...)
	tpl, err := declarationsTpl.Clone()
	if err != nil {
		return nil, fmt.Errorf("unable to prepare templates:\n\t%w", err)
	}
	tpl.Funcs(template.FuncMap{
		"typ":  q.typ,
		"expr": func(e Expr) string { return e.render(q) },
		"body": func(instructions []Instruction) string {
			sb := &strings.Builder{}
			writeAll(q, sb, instructions)
			return sb.String()
		},
		"params": func(fields []Field) string {
			params := make([]string, len(fields))
			for i, f := range fields {
				params[i] = f.Name + " " + q.typ(f.Type)
			}
			return strings.Join(params, ", ")
		},
	})

	body := &bytes.Buffer{}
	if err := tpl.Execute(body, declarations{Implementations: file.Implementations, Injectors: injectors}); err != nil {
		return nil, fmt.Errorf("unable to render declarations of package %s:\n\t%w", file.PkgPath, err)
	}

	src := &bytes.Buffer{}
	header := struct {
		PkgName string
		Imports []importSpec
	}{PkgName: file.PkgName, Imports: q.imports()}
	if err := headerTpl.Execute(src, header); err != nil {
		return nil, fmt.Errorf("unable to render header of package %s:\n\t%w", file.PkgPath, err)
	}
	src.Write(body.Bytes())

	formatted, err := imports.Process("godigen_gen.go", src.Bytes(), &imports.Options{
		Comments:   true,
		TabIndent:  true,
		TabWidth:   8,
		FormatOnly: true,
	})
	if err != nil {
		return nil, fmt.Errorf("unable to format generated code of package %s:\n\t%w\n%s", file.PkgPath, err, src.String())
	}
	return formatted, nil
}

// collectInjectors keeps one injector function per target, implementations of a package share them.
func collectInjectors(impls []*Implementation) ([]*Injector, error) {
	var injectors []*Injector
	targets := make(map[godigen.TypeRef]bool)
	names := make(map[string]godigen.TypeRef)
	for _, impl := range impls {
		for _, injector := range impl.Injectors {
			target := injector.Target.Type
			if targets[target] {
				continue
			}
			if other, exists := names[injector.Name]; exists {
				return nil, fmt.Errorf("injector %s is generated for both %s and %s", injector.Name, other, target)
			}
			targets[target] = true
			names[injector.Name] = target
			injectors = append(injectors, injector)
		}
	}
	return injectors, nil
}

func topLevelNames(impls []*Implementation, injectors []*Injector) []string {
	var names []string
	for _, impl := range impls {
		if impl.Creator != nil {
			names = append(names, impl.Creator.Name)
		}
		for _, s := range impl.Structs {
			names = append(names, s.Name)
		}
		for _, f := range impl.Factories {
			names = append(names, f.Name)
		}
	}
	for _, injector := range injectors {
		names = append(names, injector.Name)
	}
	return names
}
