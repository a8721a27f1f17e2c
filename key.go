package godigen

import (
	"fmt"
	"strings"

	"github.com/a-peyrard/godigen/fn"
)

const injectPackage = "github.com/a-peyrard/godigen/inject"

type (
	// TypeRef is the canonical spelling of a Go type, with fully qualified package paths,
	// as printed by types.TypeString(t, nil). For example "*example.com/app.Greeter".
	TypeRef string

	// Key is the address of a value in a graph.
	Key struct {
		Type      TypeRef
		Qualifier string
	}

	// RequestKind tells how a dependency is consumed.
	RequestKind int

	Dependency struct {
		Key  Key
		Kind RequestKind
		// Name is the parameter or field name, only used in messages and generated code.
		Name string
	}

	Scope string

	Location struct {
		// Unit is the compilation unit (Go package path) of the declaration.
		Unit   string
		File   string
		Line   int
		Symbol string
	}
)

const (
	RequestInstance RequestKind = iota
	RequestProvider
	RequestLazy
)

func NewKey(t TypeRef, qualifier string) Key {
	return Key{Type: t, Qualifier: qualifier}
}

func KeyOf(t TypeRef) Key {
	return Key{Type: t}
}

func (k Key) String() string {
	if k.Qualifier == "" {
		return string(k.Type)
	}
	return fmt.Sprintf("%s named=%q", k.Type, k.Qualifier)
}

// SliceOf is the type of a set multibinding aggregating elements of t.
func SliceOf(t TypeRef) TypeRef {
	return "[]" + t
}

// MapOf is the type of a map multibinding aggregating elements of t.
func MapOf(t TypeRef) TypeRef {
	return "map[string]" + t
}

// ProviderOf is the type generated code uses for a provider of t.
func ProviderOf(t TypeRef) TypeRef {
	return TypeRef(injectPackage + ".Provider[" + string(t) + "]")
}

// LazyOf is the type generated code uses for a lazy value of t.
func LazyOf(t TypeRef) TypeRef {
	return TypeRef(injectPackage + ".Lazy[" + string(t) + "]")
}

// Package returns the package path of a named type, possibly behind pointers.
// It returns an empty string for composite or predeclared types.
func (t TypeRef) Package() string {
	s := strings.TrimLeft(string(t), "*")
	if strings.ContainsAny(s, "[]() ") {
		return ""
	}
	if idx := strings.LastIndex(s, "."); idx > 0 {
		return s[:idx]
	}
	return ""
}

// Name returns the bare name of a named type, possibly behind pointers.
func (t TypeRef) Name() string {
	s := strings.TrimLeft(string(t), "*")
	if idx := strings.LastIndex(s, "."); idx >= 0 && t.Package() != "" {
		return s[idx+1:]
	}
	return s
}

func (k RequestKind) IsDeferred() bool {
	return k == RequestProvider || k == RequestLazy
}

func (k RequestKind) String() string {
	switch k {
	case RequestInstance:
		return "instance"
	case RequestProvider:
		return "provider"
	case RequestLazy:
		return "lazy"
	default:
		panic(fmt.Sprintf("unknown request kind %d", int(k)))
	}
}

// RequestedType is the type of the expression satisfying the dependency.
func (d Dependency) RequestedType() TypeRef {
	switch d.Kind {
	case RequestInstance:
		return d.Key.Type
	case RequestProvider:
		return ProviderOf(d.Key.Type)
	case RequestLazy:
		return LazyOf(d.Key.Type)
	default:
		panic(fmt.Sprintf("unknown request kind %d", int(d.Kind)))
	}
}

func (d Dependency) String() string {
	if d.Kind == RequestInstance {
		return d.Key.String()
	}
	return fmt.Sprintf("%s(%s)", d.Kind, d.Key)
}

func (l Location) String() string {
	if l.File == "" {
		if l.Symbol == "" {
			return l.Unit
		}
		return l.Unit + "." + l.Symbol
	}
	if l.Symbol == "" {
		return fmt.Sprintf("%s:%d", l.File, l.Line)
	}
	return fmt.Sprintf("%s:%d (%s)", l.File, l.Line, l.Symbol)
}

var compareLocations = fn.ThenComparing(
	fn.Comparing(func(l Location) string { return l.Unit }),
	fn.Comparing(func(l Location) string { return l.File }),
	fn.Comparing(func(l Location) int { return l.Line }),
	fn.Comparing(func(l Location) string { return l.Symbol }),
)

var compareKeys = fn.ThenComparing(
	fn.Comparing(func(k Key) TypeRef { return k.Type }),
	fn.Comparing(func(k Key) string { return k.Qualifier }),
)
