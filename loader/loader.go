// Package loader reads annotated Go packages and turns them into the declarations of a godigen.Universe.
package loader

import (
	"context"
	"fmt"
	"go/ast"
	"go/token"
	"go/types"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/a-peyrard/godigen"
	"github.com/a-peyrard/godigen/option"
	"github.com/a-peyrard/godigen/set"
	"golang.org/x/tools/go/packages"
)

const injectPackage = "github.com/a-peyrard/godigen/inject"

type (
	// Package is a compilation unit of the universe.
	Package struct {
		Path string
		Name string
		Dir  string
		// Reserved are the package level names declared outside of generated files.
		Reserved []string
	}

	Result struct {
		Universe *godigen.Universe
		// Diagnostics report the annotations that could not be turned into declarations.
		Diagnostics godigen.Diagnostics
		Packages    []*Package
	}

	loader struct {
		options  *Options
		universe *godigen.Universe
		diags    godigen.Diagnostics
		// extensions are the graph types annotated with @graph.extension, in every scanned package.
		extensions set.Set[godigen.TypeRef]
		creators   []pendingCreator
	}

	// pendingCreator waits for every graph to be scanned, it can be declared before its graph.
	pendingCreator struct {
		graph godigen.TypeRef
		decl  godigen.GraphCreatorDecl
	}
)

// Load type checks the packages matching the patterns and collects their declarations.
func Load(ctx context.Context, patterns []string, opts ...option.Option[Options]) (*Result, error) {
	options := option.Build(defaultOptions(), opts...)
	start := time.Now()

	cfg := &packages.Config{
		Context: ctx,
		Dir:     options.dir,
		Mode:    packages.NeedName | packages.NeedFiles | packages.NeedSyntax | packages.NeedTypes | packages.NeedTypesInfo,
		Tests:   options.tests,
	}
	pkgs, err := packages.Load(cfg, patterns...)
	if err != nil {
		return nil, fmt.Errorf("unable to load packages %s:\n\t%w", strings.Join(patterns, " "), err)
	}
	slices.SortFunc(pkgs, func(a, b *packages.Package) int {
		return strings.Compare(a.ID, b.ID)
	})

	l := &loader{
		options:    options,
		universe:   &godigen.Universe{},
		extensions: set.New[godigen.TypeRef](),
	}
	res := &Result{Universe: l.universe}
	for _, pkg := range pkgs {
		for _, e := range pkg.Errors {
			// a stale generated file does not prevent reading the declarations
			options.logger.Warn().Str("package", pkg.ID).Msg(e.Error())
		}
		if pkg.Types == nil || pkg.TypesInfo == nil {
			continue
		}
		l.collectExtensions(pkg)
	}
	for _, pkg := range pkgs {
		if pkg.Types == nil || pkg.TypesInfo == nil {
			continue
		}
		l.scan(pkg)
		res.Packages = append(res.Packages, l.describe(pkg))
	}
	l.attachCreators()

	res.Diagnostics = l.diags
	options.logger.Info().
		Int("packages", len(res.Packages)).
		Int("graphs", len(l.universe.Graphs)).
		Int("providers", len(l.universe.Providers)+len(l.universe.Delegations)).
		Int("constructors", len(l.universe.Constructors)).
		Dur("elapsed", time.Since(start)).
		Msg("🕵️ Scanning completed")
	return res, nil
}

// Package returns the scanned package of the given path.
func (r *Result) Package(path string) (*Package, bool) {
	for _, pkg := range r.Packages {
		if pkg.Path == path {
			return pkg, true
		}
	}
	return nil, false
}

func (l *loader) generated(pkg *packages.Package, file *ast.File) bool {
	return strings.HasSuffix(pkg.Fset.Position(file.Pos()).Filename, l.options.generatedSuffix)
}

func (l *loader) describe(pkg *packages.Package) *Package {
	p := &Package{Path: pkg.PkgPath, Name: pkg.Name}
	if len(pkg.GoFiles) > 0 {
		p.Dir = filepath.Dir(pkg.GoFiles[0])
	}
	scope := pkg.Types.Scope()
	for _, name := range scope.Names() {
		filename := pkg.Fset.Position(scope.Lookup(name).Pos()).Filename
		if strings.HasSuffix(filename, l.options.generatedSuffix) {
			continue
		}
		p.Reserved = append(p.Reserved, name)
	}
	return p
}

func (l *loader) collectExtensions(pkg *packages.Package) {
	for _, file := range pkg.Syntax {
		if l.generated(pkg, file) {
			continue
		}
		for _, decl := range file.Decls {
			genDecl, ok := decl.(*ast.GenDecl)
			if !ok || genDecl.Tok != token.TYPE {
				continue
			}
			for _, spec := range genDecl.Specs {
				typeSpec := spec.(*ast.TypeSpec)
				if docOf(genDecl, typeSpec).has(graphExtensionTag) {
					if obj, ok := pkg.TypesInfo.Defs[typeSpec.Name].(*types.TypeName); ok {
						l.extensions.Add(typeRef(obj.Type()))
					}
				}
			}
		}
	}
}

// attachCreators gives every graph the creator function type declared for it.
func (l *loader) attachCreators() {
	for _, pending := range l.creators {
		creator := pending.decl
		decl, found := l.universe.Graph(pending.graph)
		if !found || decl.Extension {
			l.malformed(creator.Location, creator.Type, "graph creator %s does not return a root graph annotated with %s", creator.Type, graphTag)
			continue
		}
		if decl.Creator != nil {
			l.malformed(creator.Location, creator.Type, "graph %s already has the creator %s", decl.Type, decl.Creator.Type)
			continue
		}
		decl.Creator = &creator
	}
}

func (l *loader) malformed(location godigen.Location, t godigen.TypeRef, format string, args ...any) {
	var keys []godigen.Key
	if t != "" {
		keys = []godigen.Key{godigen.KeyOf(t)}
	}
	l.diags = append(l.diags, godigen.Diagnostic{
		Kind:     godigen.MalformedDeclaration,
		Severity: godigen.SeverityError,
		Location: location,
		Message:  fmt.Sprintf(format, args...),
		Keys:     keys,
	})
}

func docOf(genDecl *ast.GenDecl, typeSpec *ast.TypeSpec) annotations {
	switch {
	case typeSpec.Doc != nil:
		return parseAnnotations(typeSpec.Doc.Text())
	case genDecl.Doc != nil && len(genDecl.Specs) == 1:
		return parseAnnotations(genDecl.Doc.Text())
	default:
		return annotations{}
	}
}

func typeRef(t types.Type) godigen.TypeRef {
	return godigen.TypeRef(types.TypeString(types.Unalias(t), nil))
}

// dependency unwraps inject.Provider[T] and inject.Lazy[T] into deferred requests of T.
func dependency(t types.Type, name string, qualifier string) godigen.Dependency {
	kind := godigen.RequestInstance
	if named, ok := types.Unalias(t).(*types.Named); ok && isInject(named.Obj()) && named.TypeArgs().Len() == 1 {
		switch named.Obj().Name() {
		case "Provider":
			kind = godigen.RequestProvider
			t = named.TypeArgs().At(0)
		case "Lazy":
			kind = godigen.RequestLazy
			t = named.TypeArgs().At(0)
		}
	}
	return godigen.Dependency{Key: godigen.NewKey(typeRef(t), qualifier), Kind: kind, Name: name}
}

func isInject(obj types.Object) bool {
	return obj != nil && obj.Pkg() != nil && obj.Pkg().Path() == injectPackage
}
