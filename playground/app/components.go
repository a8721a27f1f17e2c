package main

import (
	"strings"
	"sync/atomic"

	"github.com/a-peyrard/godigen/inject"
)

type Settings struct {
	Greeting string
}

type Greeter interface {
	Greet(name string) string
}

type EnglishGreeter struct {
	settings *Settings
}

// NewEnglishGreeter greets with the configured greeting.
//
// @inject scope=app
func NewEnglishGreeter(settings *Settings) *EnglishGreeter {
	return &EnglishGreeter{settings: settings}
}

func (g *EnglishGreeter) Greet(name string) string {
	return g.settings.Greeting + ", " + name
}

// @binds
func BindGreeter(greeter *EnglishGreeter) Greeter {
	return greeter
}

var registries atomic.Int32

// Registry counts its instances, there is one per application graph.
type Registry struct {
	ID int32
}

// @inject scope=app
func NewRegistry() *Registry {
	return &Registry{ID: registries.Add(1)}
}

type Example struct {
	Input   string
	greeter Greeter
}

// @inject
func NewExample(
	greeter Greeter,
	input string, // @assisted
) *Example {
	return &Example{Input: input, greeter: greeter}
}

func (e *Example) String() string {
	return e.greeter.Greet(e.Input)
}

// @assisted.factory
type ExampleFactory interface {
	Create(input string) *Example
}

type Formatter func(string) string

// @provides into=map key=upper
func ProvideUpper() Formatter {
	return strings.ToUpper
}

// @provides into=map key=lower
func ProvideLower() Formatter {
	return strings.ToLower
}

// Team and Member depend on each other, the member only gets a provider of its team.
type Team struct {
	Member *Member
}

// @inject scope=app
func NewTeam(member *Member) *Team {
	return &Team{Member: member}
}

type Member struct {
	Team inject.Provider[*Team]
}

// @inject
func NewMember(team inject.Provider[*Team]) *Member {
	return &Member{Team: team}
}
