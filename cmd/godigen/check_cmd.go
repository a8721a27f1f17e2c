package main

import (
	"github.com/a-peyrard/godigen"
	"github.com/a-peyrard/godigen/slices"
	"github.com/spf13/cobra"
)

type checkCmd struct{}

func (ch *checkCmd) registerFlags() *cobra.Command {
	return &cobra.Command{
		Use:   "check [packages]",
		Short: "Resolve the graphs declared in the packages and report their problems, without generating anything",
	}
}

func (ch *checkCmd) run(c *cli, cmd *cobra.Command, args []string) error {
	a, err := c.analyze(cmd.Context(), args)
	if err != nil {
		return err
	}
	if err := c.report(a.diags); err != nil {
		return err
	}
	c.logger.Info().
		Strs("graphs", slices.Map(a.results, func(res *godigen.Result) string { return string(res.Decl.Type) })).
		Msg("👌 All graphs resolved")
	return nil
}
