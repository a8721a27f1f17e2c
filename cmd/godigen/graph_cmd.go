package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

type graphCmd struct{}

func (g *graphCmd) registerFlags() *cobra.Command {
	return &cobra.Command{
		Use:   "graph <graph type> [packages]",
		Short: "Print a resolved graph and its extensions in Graphviz format",
		Args:  cobra.MinimumNArgs(1),
	}
}

// run prints the root graph whose type matches the first argument, the package can be omitted.
func (g *graphCmd) run(c *cli, cmd *cobra.Command, args []string) error {
	name := args[0]
	a, err := c.analyze(cmd.Context(), args[1:])
	if err != nil {
		return err
	}
	for _, res := range a.results {
		t := string(res.Decl.Type)
		if t != name && !strings.HasSuffix(t, "."+name) {
			continue
		}
		if res.Failed() {
			_ = c.report(res.Diagnostics)
			return fmt.Errorf("graph %s has errors", t)
		}
		fmt.Fprint(cmd.OutOrStdout(), res.Graph.Dot())
		return nil
	}
	return fmt.Errorf("no graph named %s", name)
}
