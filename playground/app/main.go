package main

import (
	"os"
	"time"

	"github.com/a-peyrard/godigen/inject"
	"github.com/rs/zerolog"
)

func main() {
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.DateTime}).
		With().
		Timestamp().
		Logger()

	graph := NewAppGraph(&Settings{Greeting: "Hello"})
	logger.Info().Msg(graph.Greeter().Greet("world"))
	logger.Info().Msgf("example: %s", graph.Examples().Create("example"))

	for name, format := range graph.Formatters() {
		logger.Info().Msgf("%s: %s", name, format("Formatted"))
	}

	team := graph.Team()
	logger.Info().Bool("same", team.Member.Team.Get() == team).Msg("Team of the member")

	screen := &Screen{}
	graph.InjectScreen(screen)
	logger.Info().Msgf("screen: %s %s %v %s", screen.String, screen.StringProvider.Get(), screen.StringListProvider.Get(), screen.LazyString.Get())

	for _, name := range []RequestName{"alice", "bob"} {
		logger.Info().Msg(graph.NewRequest(name).Handler().Handle())
	}

	diagnostics := inject.AsContribution[Diagnostics](graph)
	logger.Info().Int32("registry", diagnostics.Registry().ID).Msg("bye.")
}
