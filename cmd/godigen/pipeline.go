package main

import (
	"context"
	"fmt"
	"os"

	"github.com/a-peyrard/godigen"
	"github.com/a-peyrard/godigen/loader"
	"github.com/a-peyrard/godigen/slices"
)

// analysis is the outcome of scanning the module and building every root graph.
type analysis struct {
	loaded  *loader.Result
	results []*godigen.Result
	diags   godigen.Diagnostics
}

func (c *cli) analyze(ctx context.Context, patterns []string) (*analysis, error) {
	if len(patterns) == 0 {
		patterns = []string{"./..."}
	}
	unused, err := godigen.ParseSeverity(c.settings.Lint.UnusedBindings)
	if err != nil {
		return nil, fmt.Errorf("invalid lint settings:\n\t%w", err)
	}

	loaded, err := loader.Load(
		ctx,
		patterns,
		loader.WithDir(c.dir),
		loader.WithGeneratedSuffix(c.settings.Output.Suffix),
		loader.WithLogger(&c.logger),
	)
	if err != nil {
		return nil, err
	}

	compiler := godigen.NewCompiler(
		loaded.Universe,
		godigen.WithUnusedBindings(unused),
		godigen.WithConcurrency(c.settings.Concurrency),
		godigen.WithLogger(&c.logger),
	)
	results, err := compiler.Compile(ctx)
	if err != nil {
		return nil, err
	}

	a := &analysis{loaded: loaded, results: results}
	a.diags = append(a.diags, loaded.Diagnostics...)
	a.diags = append(a.diags, compiler.Structural()...)
	for _, res := range results {
		a.diags = append(a.diags, res.Diagnostics...)
	}
	return a, nil
}

// report logs every diagnostic, and fails when one of them is an error.
func (c *cli) report(diags godigen.Diagnostics) error {
	for _, diag := range diags {
		event := c.logger.Warn()
		if diag.Severity == godigen.SeverityError {
			event = c.logger.Error()
		}
		event.Str("kind", string(diag.Kind)).Str("at", diag.Location.String()).Msg(diag.Message)
	}
	if errs := slices.Filter(diags, isError); len(errs) > 0 {
		return fmt.Errorf("%d errors found in the dependency graphs", len(errs))
	}
	return nil
}

// target is the directory of the package running go:generate, empty when called by hand.
func target() string {
	if os.Getenv("GOPACKAGE") == "" {
		return ""
	}
	dir, _ := os.Getwd()
	return dir
}

func isError(diag godigen.Diagnostic) bool {
	return diag.Severity == godigen.SeverityError
}
