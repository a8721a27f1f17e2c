package codegen

import (
	"fmt"
	"go/token"
	"strings"

	"github.com/a-peyrard/godigen"
	"github.com/a-peyrard/godigen/set"
	"github.com/a-peyrard/godigen/str"
)

// namespace hands out unique identifiers within one scope of the generated code.
type namespace struct {
	used set.Set[string]
}

func newNamespace(reserved ...string) *namespace {
	return &namespace{used: set.NewWithValues(reserved...)}
}

func (ns *namespace) reserve(name string) {
	ns.used.Add(name)
}

// claim returns base, or base followed by the first free counter.
func (ns *namespace) claim(base string) string {
	if token.IsKeyword(base) {
		base += "Value"
	}
	name := base
	for i := 2; !ns.used.AddIfAbsent(name); i++ {
		name = fmt.Sprintf("%s%d", base, i)
	}
	return name
}

// baseName is the identifier fragment naming the value of a key, "LoggerSlice" for []Logger.
func baseName(k godigen.Key) string {
	return typeBase(k.Type) + str.ToUpperCamelCase(k.Qualifier)
}

func typeBase(t godigen.TypeRef) string {
	s := string(t)
	switch {
	case strings.HasPrefix(s, "*"):
		return typeBase(godigen.TypeRef(s[1:]))
	case strings.HasPrefix(s, "[]"):
		return typeBase(godigen.TypeRef(s[2:])) + "Slice"
	case strings.HasPrefix(s, "map[string]"):
		return typeBase(godigen.TypeRef(s[len("map[string]"):])) + "Map"
	}
	if idx := strings.Index(s, "["); idx > 0 {
		s = s[:idx]
	}
	name := str.ToUpperCamelCase(godigen.TypeRef(s).Name())
	if name == "" {
		return "Value"
	}
	return name
}

// injectorName is shared by every implementation of a package, so it only depends on the target.
func injectorName(pkgPath string, target godigen.TypeRef) string {
	name := "inject"
	if pkg := target.Package(); pkg != "" && pkg != pkgPath {
		tokens := strings.Split(pkg, "/")
		name += str.ToUpperCamelCase(tokens[len(tokens)-1])
	}
	return name + typeBase(target)
}

func delegateVar(id godigen.NodeID) string {
	return fmt.Sprintf("d%d", id)
}

func paramVar(i int) string {
	return fmt.Sprintf("p%d", i)
}

func argVar(i int) string {
	return fmt.Sprintf("a%d", i)
}

func isExported(name string) bool {
	return token.IsExported(name)
}
