package main

//go:generate go run github.com/a-peyrard/godigen/cmd/godigen generate

// AppGraph lives as long as the application.
//
// @graph scope=app
type AppGraph interface {
	Greeter() Greeter
	Examples() ExampleFactory
	Formatters() map[string]Formatter
	Team() *Team
	InjectScreen(screen *Screen)
	NewRequest(name RequestName) RequestGraph
}

// RequestGraph is created for every request, it sees all the bindings of its application graph.
//
// @graph.extension scope=request
type RequestGraph interface {
	Handler() *Handler
}

// @graph.creator
type NewGraph func(settings *Settings) AppGraph

// Diagnostics is implemented by every graph of the application scope.
//
// @contributes scope=app
type Diagnostics interface {
	Registry() *Registry
}
