package codegen

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"unicode"

	"github.com/a-peyrard/godigen"
	"github.com/a-peyrard/godigen/set"
	"github.com/a-peyrard/godigen/str"
)

const injectPackage = "github.com/a-peyrard/godigen/inject"

// qualifiedName matches "path/to/pkg.Name" inside a type string.
var qualifiedName = regexp.MustCompile(`((?:[\w.\-]+/)*[\w.\-]+)\.([A-Za-z_]\w*)`)

// localName matches the names generated code uses for its locals and parameters.
var localName = regexp.MustCompile(`^[apd]\d+$`)

// reservedNames are identifiers of generated code a package alias must not shadow.
var reservedNames = []string{"g", "f", "t", "v", "ok", "inject", "parent"}

type (
	importSpec struct {
		Alias string
		Path  string
	}

	// qualifier writes types and functions as seen from the generated package,
	// allocating an alias for every other package it meets.
	qualifier struct {
		pkgPath string
		aliases map[string]string
		taken   set.Set[string]
		used    set.Set[string]
	}
)

func newQualifier(pkgPath string, reserved ...string) *qualifier {
	q := &qualifier{
		pkgPath: pkgPath,
		aliases: map[string]string{injectPackage: "inject"},
		taken:   set.NewWithValues(reservedNames...),
		used:    set.New[string](),
	}
	for _, name := range reserved {
		q.taken.Add(name)
	}
	return q
}

func (q *qualifier) alias(pkg string) string {
	q.used.Add(pkg)
	if alias, found := q.aliases[pkg]; found {
		return alias
	}
	alias := findSuitableAlias(pkg, q.taken)
	q.taken.Add(alias)
	q.aliases[pkg] = alias
	return alias
}

// typ rewrites every package path of the type into its alias.
func (q *qualifier) typ(t godigen.TypeRef) string {
	return qualifiedName.ReplaceAllStringFunc(string(t), func(match string) string {
		parts := qualifiedName.FindStringSubmatch(match)
		return generateFQN(q.importPathOf(parts[1]), parts[2], q.aliases)
	})
}

func (q *qualifier) fn(f godigen.FuncRef) string {
	return generateFQN(q.importPathOf(f.PkgPath), f.Name, q.aliases)
}

func (q *qualifier) inject(name string) string {
	return q.alias(injectPackage) + "." + name
}

func (q *qualifier) importPathOf(pkg string) string {
	if pkg == q.pkgPath {
		return ""
	}
	q.alias(pkg)
	return pkg
}

// imports lists the packages referenced so far.
func (q *qualifier) imports() []importSpec {
	specs := make([]importSpec, 0, q.used.Size())
	for path := range q.used {
		specs = append(specs, importSpec{Alias: q.aliases[path], Path: path})
	}
	sort.Slice(specs, func(i, j int) bool {
		return specs[i].Path < specs[j].Path
	})
	return specs
}

// findSuitableAlias names a package after its last path element, prefixed by the initials
// of the previous elements while it collides, then suffixed by a counter.
func findSuitableAlias(pkg string, aliases set.Set[string]) string {
	tokens := strings.Split(pkg, "/")
	alias := str.ToLowerCamelCase(tokens[len(tokens)-1])
	if alias == "" || !unicode.IsLetter([]rune(alias)[0]) {
		alias = "pkg" + alias
	}
	if isFree(alias, aliases) {
		return alias
	}

	for i := len(tokens) - 2; i >= 0; i-- {
		initial := firstLetter(tokens[i])
		if initial == "" {
			continue
		}
		alias = initial + alias
		if isFree(alias, aliases) {
			return alias
		}
	}

	for i := 0; ; i++ {
		candidate := fmt.Sprintf("%s%d", alias, i)
		if isFree(candidate, aliases) {
			return candidate
		}
	}
}

func isFree(alias string, aliases set.Set[string]) bool {
	return !aliases.Contains(alias) && !localName.MatchString(alias)
}

func firstLetter(token string) string {
	for _, r := range token {
		if unicode.IsLetter(r) {
			return string(unicode.ToLower(r))
		}
	}
	return ""
}

// generateFQN prefixes the type name with the alias of its package, keeping pointer markers in front.
func generateFQN(importPath string, typeName string, importWithAlias map[string]string) string {
	if importPath == "" {
		return typeName
	}
	stars := len(typeName) - len(strings.TrimLeft(typeName, "*"))
	return typeName[:stars] + importWithAlias[importPath] + "." + typeName[stars:]
}
