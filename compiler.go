package godigen

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/a-peyrard/godigen/concurrent"
	"github.com/a-peyrard/godigen/option"
	"github.com/a-peyrard/godigen/runner"
	"golang.org/x/sync/singleflight"
)

type (
	// Result is the outcome of building one root graph.
	Result struct {
		Decl        *GraphDecl
		Graph       *BindingGraph
		Tiers       CacheTiers
		Diagnostics Diagnostics
	}

	// Compiler builds every root graph of a universe, sharing one catalog and one aggregator.
	Compiler struct {
		universe   *Universe
		builder    *Builder
		options    *Options
		structural Diagnostics

		group   singleflight.Group
		mu      sync.Mutex
		results map[TypeRef]*Result
	}

	indexedResult struct {
		index  int
		result *Result
	}
)

func NewCompiler(u *Universe, opts ...option.Option[Options]) *Compiler {
	options := option.Build(defaultOptions(), opts...)

	catalog, catalogDiags := NewCatalog(u)
	aggregator, aggregatorDiags := NewAggregator(u.Contributions, u.Accesses)

	return &Compiler{
		universe:   u,
		builder:    NewBuilder(catalog, aggregator, opts...),
		options:    options,
		structural: append(catalogDiags, aggregatorDiags...),
		results:    make(map[TypeRef]*Result),
	}
}

// Failed reports whether the graph had errors, no code can be generated for it.
func (r *Result) Failed() bool {
	return r.Graph == nil
}

// Structural returns the diagnostics of malformed declarations, found before building any graph.
func (c *Compiler) Structural() Diagnostics {
	return c.structural
}

// Build resolves one graph, concurrent calls for the same graph share the same build.
func (c *Compiler) Build(decl *GraphDecl) *Result {
	c.mu.Lock()
	if res, found := c.results[decl.Type]; found {
		c.mu.Unlock()
		return res
	}
	c.mu.Unlock()

	res, _, _ := c.group.Do(string(decl.Type), func() (any, error) {
		graph, diags := c.builder.Build(decl)
		res := &Result{Decl: decl, Graph: graph, Diagnostics: diags}
		if graph != nil {
			res.Tiers = AssignCacheTiers(graph)
		}

		c.mu.Lock()
		c.results[decl.Type] = res
		c.mu.Unlock()
		return res, nil
	})
	return res.(*Result)
}

// Compile builds all the root graphs concurrently, results follow the declaration order.
// A graph failing does not prevent the others from being built.
func (c *Compiler) Compile(ctx context.Context) ([]*Result, error) {
	roots := c.universe.Roots()
	collected := concurrent.NewSlice[indexedResult]()

	runnables := make([]runner.Runnable, len(roots))
	for i, decl := range roots {
		runnables[i] = runner.RunnableFunc(func(ctx context.Context) error {
			if err := ctx.Err(); err != nil {
				return err
			}
			res := c.Build(decl)
			c.options.logger.Debug().
				Str("graph", string(decl.Type)).
				Bool("failed", res.Failed()).
				Int("diagnostics", len(res.Diagnostics)).
				Msg("Graph built")
			collected.Append(indexedResult{index: i, result: res})
			return nil
		})
	}

	if err := runner.RunAllLimited(ctx, c.options.concurrency, runnables...); err != nil {
		return nil, fmt.Errorf("unable to build graphs:\n\t%w", err)
	}

	indexed := collected.Get()
	slices.SortFunc(indexed, func(a, b indexedResult) int {
		return a.index - b.index
	})
	results := make([]*Result, len(indexed))
	for i, ir := range indexed {
		results[i] = ir.result
	}
	return results, nil
}
