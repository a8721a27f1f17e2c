package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/a-peyrard/godigen"
	"github.com/a-peyrard/godigen/codegen"
	"github.com/a-peyrard/godigen/concurrent"
	"github.com/a-peyrard/godigen/loader"
	"github.com/a-peyrard/godigen/runner"
	"github.com/a-peyrard/godigen/slices"
	"github.com/spf13/cobra"
)

type (
	generateCmd struct {
		dryRun bool
	}

	generatedFile struct {
		path    string
		content []byte
	}
)

func (g *generateCmd) registerFlags() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate [packages]",
		Short: "Generate the implementation of the graphs declared in the packages, ./... by default",
	}
	cmd.Flags().BoolVar(&g.dryRun, "dry-run", false, "print the generated files instead of writing them")
	return cmd
}

func (g *generateCmd) run(c *cli, cmd *cobra.Command, args []string) error {
	start := time.Now()
	a, err := c.analyze(cmd.Context(), args)
	if err != nil {
		return err
	}

	files, err := c.render(cmd.Context(), a, target())
	if err != nil {
		return err
	}
	dryRun := g.dryRun || c.settings.DryRun
	for _, file := range files {
		if dryRun {
			fmt.Fprintf(cmd.OutOrStdout(), "// %s\n%s", file.path, file.content)
			continue
		}
		if err := os.WriteFile(file.path, file.content, 0o644); err != nil {
			return fmt.Errorf("unable to write %s:\n\t%w", file.path, err)
		}
		c.logger.Info().Msgf("✅ Code generated successfully in %s", file.path)
	}
	c.logger.Info().Dur("elapsed", time.Since(start)).Int("files", len(files)).Msg("🏁 Generation completed")

	return c.report(a.diags)
}

// render prints one file per package owning root graphs. A package with a failed graph is left untouched.
func (c *cli) render(ctx context.Context, a *analysis, targetDir string) ([]generatedFile, error) {
	byPackage := make(map[string][]*godigen.Result)
	var order []string
	for _, res := range a.results {
		pkgPath := res.Decl.Type.Package()
		if _, found := byPackage[pkgPath]; !found {
			order = append(order, pkgPath)
		}
		byPackage[pkgPath] = append(byPackage[pkgPath], res)
	}

	collected := concurrent.NewSlice[generatedFile]()
	var runnables []runner.Runnable
	for _, pkgPath := range order {
		pkg, found := a.loaded.Package(pkgPath)
		if !found || (targetDir != "" && pkg.Dir != targetDir) {
			continue
		}
		results := byPackage[pkgPath]
		if slices.AnyMatch(results, (*godigen.Result).Failed) {
			c.logger.Warn().Str("package", pkgPath).Msg("Skipping package, one of its graphs has errors")
			continue
		}
		runnables = append(runnables, runner.RunnableFunc(func(ctx context.Context) error {
			file, err := c.renderPackage(pkg, results)
			if err != nil {
				return err
			}
			collected.Append(file)
			return nil
		}))
	}
	if err := runner.RunAllLimited(ctx, c.settings.Concurrency, runnables...); err != nil {
		return nil, err
	}

	files := collected.Get()
	sort.Slice(files, func(i, j int) bool {
		return files[i].path < files[j].path
	})
	return files, nil
}

func (c *cli) renderPackage(pkg *loader.Package, results []*godigen.Result) (generatedFile, error) {
	impls, err := slices.UnsafeMap(results, func(res *godigen.Result) (*codegen.Implementation, error) {
		return codegen.Emit(res.Graph, res.Tiers, codegen.WithLogger(&c.logger))
	})
	if err != nil {
		return generatedFile{}, err
	}
	content, err := codegen.Render(&codegen.File{
		PkgPath:         pkg.Path,
		PkgName:         pkg.Name,
		Reserved:        pkg.Reserved,
		Implementations: impls,
	})
	if err != nil {
		return generatedFile{}, err
	}
	return generatedFile{path: filepath.Join(pkg.Dir, c.settings.Output.Suffix), content: content}, nil
}
