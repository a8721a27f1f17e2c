package main

import "github.com/a-peyrard/godigen/inject"

// Screen is built by hand, the graph fills its fields.
type Screen struct {
	String             string                    `inject:"a"`
	StringProvider     inject.Provider[string]   `inject:"b"`
	StringListProvider inject.Provider[[]string] `inject:"c"`
	LazyString         inject.Lazy[string]       `inject:"d"`
}

// @provides named=a
func ProvideA() string {
	return "a"
}

// @provides named=b
func ProvideB() string {
	return "b"
}

// @provides into=set named=c
func ProvideC() string {
	return "c"
}

// @provides named=d
func ProvideD() string {
	return "d"
}
