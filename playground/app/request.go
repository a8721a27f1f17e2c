package main

type RequestName string

type Handler struct {
	name     RequestName
	greeter  Greeter
	Registry *Registry
}

// @inject scope=request
func NewHandler(name RequestName, greeter Greeter, registry *Registry) *Handler {
	return &Handler{name: name, greeter: greeter, Registry: registry}
}

func (h *Handler) Handle() string {
	return h.greeter.Greet(string(h.name))
}
