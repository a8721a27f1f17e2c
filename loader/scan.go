package loader

import (
	"go/ast"
	"go/token"
	"go/types"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/a-peyrard/godigen"
	"github.com/rs/zerolog"
	"golang.org/x/tools/go/packages"
)

type scanner struct {
	*loader
	logger zerolog.Logger
	pkg    *packages.Package
	file   *ast.File
}

// scan collects the declarations of one package, file by file.
func (l *loader) scan(pkg *packages.Package) {
	logger := l.options.logger.With().Str("package", pkg.PkgPath).Logger()
	logger.Debug().Msg("Scanning package")

	for _, file := range pkg.Syntax {
		if l.generated(pkg, file) {
			continue
		}
		s := &scanner{loader: l, logger: logger, pkg: pkg, file: file}
		for _, decl := range file.Decls {
			switch d := decl.(type) {
			case *ast.FuncDecl:
				s.function(d)
			case *ast.GenDecl:
				if d.Tok != token.TYPE {
					continue
				}
				for _, spec := range d.Specs {
					s.typeSpec(d, spec.(*ast.TypeSpec))
				}
			}
		}
		s.accesses()
	}
}

func (s *scanner) location(pos token.Pos, symbol string) godigen.Location {
	position := s.pkg.Fset.Position(pos)
	return godigen.Location{
		Unit:   s.pkg.PkgPath,
		File:   filepath.Base(position.Filename),
		Line:   position.Line,
		Symbol: symbol,
	}
}

func (s *scanner) function(fn *ast.FuncDecl) {
	if fn.Doc == nil {
		return
	}
	notes := parseAnnotations(fn.Doc.Text())
	location := s.location(fn.Pos(), fn.Name.Name)
	if !notes.has(injectTag) && !notes.has(providesTag) && !notes.has(bindsTag) {
		return
	}
	if fn.Recv != nil {
		s.malformed(location, "", "%s is a method, only package level functions can be annotated", fn.Name.Name)
		return
	}
	obj, ok := s.pkg.TypesInfo.Defs[fn.Name].(*types.Func)
	if !ok {
		s.logger.Warn().Str("function", fn.Name.Name).Msg("No type information, skipping it")
		return
	}
	sig := obj.Type().(*types.Signature)
	if sig.TypeParams().Len() > 0 {
		s.malformed(location, "", "%s is generic, generated code cannot instantiate it", fn.Name.Name)
		return
	}
	params, ok := s.params(sig, fn.Type.Params, location)
	if !ok {
		return
	}
	ref := godigen.FuncRef{PkgPath: s.pkg.PkgPath, Name: fn.Name.Name}

	switch {
	case notes.has(injectTag):
		s.constructor(notes[injectTag], ref, sig, params, location)
	case notes.has(providesTag):
		s.provides(notes[providesTag], ref, sig, params, location)
	case notes.has(bindsTag):
		s.binds(notes[bindsTag], ref, sig, params, location)
	}
}

func (s *scanner) constructor(a annotation, ref godigen.FuncRef, sig *types.Signature, params []godigen.Param, location godigen.Location) {
	if sig.Results().Len() != 1 {
		s.malformed(location, "", "@inject constructor %s must return exactly one value", ref.Name)
		return
	}
	s.checkProperties(a, location, "scope", "named")
	result := sig.Results().At(0).Type()
	named, _ := a.get("named")
	scope, _ := a.get("scope")
	fields, ok := s.injectedFields(result, location)
	if !ok {
		return
	}

	s.logger.Debug().Str("constructor", ref.Name).Msg("=> Found constructor")
	s.universe.Constructors = append(s.universe.Constructors, godigen.ConstructorDecl{
		Result:   godigen.NewKey(typeRef(result), named),
		Func:     ref,
		Params:   params,
		Scope:    godigen.Scope(scope),
		Fields:   fields,
		Location: location,
	})
}

var providesProperties = []string{"module", "graph", "scope", "named", "into", "key", "contributes"}

func (s *scanner) provides(a annotation, ref godigen.FuncRef, sig *types.Signature, params []godigen.Param, location godigen.Location) {
	s.checkProperties(a, location, providesProperties...)
	decl := godigen.ProviderDecl{Func: ref, Params: params, Location: location}

	results := sig.Results()
	if results.Len() > 0 {
		named, _ := a.get("named")
		decl.Result = godigen.NewKey(typeRef(results.At(0).Type()), named)
	}
	if results.Len() == 2 && typeRef(results.At(1).Type()) == "error" {
		decl.ReturnsError = true
	} else if results.Len() > 1 {
		s.malformed(location, decl.Result.Type, "@provides function %s returns %d values", ref.Name, results.Len())
		return
	}

	owners, ok := s.owners(a, location)
	if !ok {
		return
	}
	decl.Module, decl.Graph, decl.Scope, decl.Into = owners.module, owners.graph, owners.scope, owners.into

	s.logger.Debug().Str("provider", ref.Name).Msg("=> Found provider")
	if owners.contributes != "" {
		s.universe.Contributions = append(s.universe.Contributions, godigen.ContributionDecl{
			Scope:    owners.contributes,
			Unit:     s.pkg.PkgPath,
			Provider: &decl,
			Location: location,
		})
		return
	}
	s.universe.Providers = append(s.universe.Providers, decl)
}

func (s *scanner) binds(a annotation, ref godigen.FuncRef, sig *types.Signature, params []godigen.Param, location godigen.Location) {
	s.checkProperties(a, location, providesProperties...)
	if len(params) != 1 || sig.Results().Len() != 1 {
		s.malformed(location, "", "@binds function %s must take exactly one parameter and return one value", ref.Name)
		return
	}
	named, _ := a.get("named")
	decl := godigen.DelegationDecl{
		Result:   godigen.NewKey(typeRef(sig.Results().At(0).Type()), named),
		Source:   params[0],
		Func:     ref,
		Location: location,
	}
	owners, ok := s.owners(a, location)
	if !ok {
		return
	}
	decl.Module, decl.Graph, decl.Scope, decl.Into = owners.module, owners.graph, owners.scope, owners.into

	s.logger.Debug().Str("binds", ref.Name).Msg("=> Found delegation")
	if owners.contributes != "" {
		s.universe.Contributions = append(s.universe.Contributions, godigen.ContributionDecl{
			Scope:      owners.contributes,
			Unit:       s.pkg.PkgPath,
			Delegation: &decl,
			Location:   location,
		})
		return
	}
	s.universe.Delegations = append(s.universe.Delegations, decl)
}

type owners struct {
	module      string
	graph       godigen.TypeRef
	scope       godigen.Scope
	into        *godigen.MultibindingTarget
	contributes godigen.Scope
}

// owners reads where a provider or a delegation is installed. Without module nor graph,
// it belongs to the module named after its package.
func (s *scanner) owners(a annotation, location godigen.Location) (owners, bool) {
	var o owners
	module, hasModule := a.get("module")
	graph, hasGraph := a.get("graph")
	contributes, hasContributes := a.get("contributes")
	if btoi(hasModule)+btoi(hasGraph)+btoi(hasContributes) > 1 {
		s.malformed(location, "", "%s takes at most one of module, graph and contributes", a.tag)
		return o, false
	}
	switch {
	case hasGraph:
		o.graph = s.qualify(graph)
	case hasContributes:
		o.contributes = godigen.Scope(contributes)
	case hasModule:
		o.module = module
	default:
		o.module = s.pkg.PkgPath
	}
	scope, _ := a.get("scope")
	o.scope = godigen.Scope(scope)

	into, hasInto := a.get("into")
	key, hasKey := a.get("key")
	switch {
	case !hasInto && hasKey:
		s.malformed(location, "", "%s has a map key but is not an element of a map multibinding", a.tag)
		return o, false
	case !hasInto:
	case into == "set":
		o.into = &godigen.MultibindingTarget{Shape: godigen.ShapeSet}
	case into == "map":
		o.into = &godigen.MultibindingTarget{Shape: godigen.ShapeMap, MapKey: key}
	default:
		s.malformed(location, "", "%s into=%s is not a multibinding, expected set or map", a.tag, into)
		return o, false
	}
	return o, true
}

// qualify turns a type name of the annotation into a type reference, names without package are local.
func (s *scanner) qualify(name string) godigen.TypeRef {
	if strings.Contains(name, ".") {
		return godigen.TypeRef(name)
	}
	return godigen.TypeRef(s.pkg.PkgPath + "." + name)
}

func (s *scanner) checkProperties(a annotation, location godigen.Location, known ...string) {
	if unknown := a.unknown(known...); len(unknown) > 0 {
		s.logger.Warn().
			Str("symbol", location.Symbol).
			Strs("properties", unknown).
			Msgf("Unknown properties of %s, skipping them", a.tag)
	}
}

// params reads the parameters of a function, with the annotations of their trailing comments.
func (s *scanner) params(sig *types.Signature, fields *ast.FieldList, location godigen.Location) ([]godigen.Param, bool) {
	comments := s.paramComments(fields)
	tuple := sig.Params()
	params := make([]godigen.Param, tuple.Len())
	for i := range tuple.Len() {
		v := tuple.At(i)
		var notes annotations
		if i < len(comments) {
			notes = parseParamComment(comments[i])
		}
		qualifier := ""
		if inject, found := notes.find(injectTag); found {
			qualifier, _ = inject.get("named")
		}
		params[i] = godigen.Param{
			Name:       v.Name(),
			Dependency: dependency(v.Type(), v.Name(), qualifier),
			Variadic:   sig.Variadic() && i == tuple.Len()-1,
		}
		if assisted, found := notes.find(assistedTag); found {
			params[i].Assisted = true
			params[i].AssistedID, _ = assisted.get("id")
			if params[i].Dependency.Kind != godigen.RequestInstance {
				s.malformed(location, "", "assisted parameter %s of %s cannot be a provider", v.Name(), location.Symbol)
				return nil, false
			}
		}
	}
	return params, true
}

// paramComments returns the comment on the line of each parameter, one entry per name.
func (s *scanner) paramComments(fields *ast.FieldList) []string {
	var comments []string
	if fields == nil {
		return comments
	}
	for _, field := range fields.List {
		comment := findCommentForParam(s.pkg.Fset, s.file, field)
		names := max(len(field.Names), 1)
		for range names {
			comments = append(comments, comment)
		}
	}
	return comments
}

func findCommentForParam(fset *token.FileSet, file *ast.File, param *ast.Field) string {
	paramLine := fset.Position(param.Pos()).Line

	for _, commentGroup := range file.Comments {
		for _, comment := range commentGroup.List {
			if fset.Position(comment.Pos()).Line == paramLine && comment.Pos() > param.Pos() {
				return comment.Text
			}
		}
	}
	return ""
}

// injectedFields lists the fields tagged with `inject` of a struct, or of a pointer to a struct.
func (s *scanner) injectedFields(t types.Type, location godigen.Location) ([]godigen.FieldDecl, bool) {
	if ptr, ok := types.Unalias(t).(*types.Pointer); ok {
		t = ptr.Elem()
	}
	st, ok := t.Underlying().(*types.Struct)
	if !ok {
		return nil, true
	}
	var fields []godigen.FieldDecl
	for i := range st.NumFields() {
		field := st.Field(i)
		qualifier, tagged := reflect.StructTag(st.Tag(i)).Lookup(injectStructTagName)
		if !tagged {
			continue
		}
		if !field.Exported() {
			s.malformed(location, typeRef(t), "field %s of %s is tagged with %s but is not exported", field.Name(), typeRef(t), injectStructTagName)
			return nil, false
		}
		fields = append(fields, godigen.FieldDecl{
			Name:       field.Name(),
			Dependency: dependency(field.Type(), field.Name(), qualifier),
		})
	}
	return fields, true
}

func (s *scanner) typeSpec(genDecl *ast.GenDecl, spec *ast.TypeSpec) {
	obj, ok := s.pkg.TypesInfo.Defs[spec.Name].(*types.TypeName)
	if !ok {
		return
	}
	t := obj.Type()
	location := s.location(spec.Pos(), spec.Name.Name)
	if spec.TypeParams != nil {
		return
	}

	if _, isStruct := t.Underlying().(*types.Struct); isStruct {
		s.membersInjection(t, location)
		return
	}

	notes := docOf(genDecl, spec)
	switch {
	case notes.has(graphTag):
		s.graph(notes[graphTag], t, spec, location, false)
	case notes.has(graphExtensionTag):
		s.graph(notes[graphExtensionTag], t, spec, location, true)
	case notes.has(contributesTag):
		s.contributedInterface(notes[contributesTag], t, spec, location)
	case notes.has(assistedFactoryTag):
		s.assistedFactory(t, spec, location)
	case notes.has(graphCreatorTag):
		s.graphCreator(t, spec, location)
	}
}

func (s *scanner) membersInjection(t types.Type, location godigen.Location) {
	fields, ok := s.injectedFields(t, location)
	if !ok || len(fields) == 0 {
		return
	}
	s.logger.Debug().Str("struct", location.Symbol).Msg("=> Found members injection")
	s.universe.MembersInjections = append(s.universe.MembersInjections, godigen.MembersInjectionDecl{
		Target:   godigen.TypeRef("*" + typeRef(t)),
		Fields:   fields,
		Location: location,
	})
}

func (s *scanner) graph(a annotation, t types.Type, spec *ast.TypeSpec, location godigen.Location, extension bool) {
	iface, ok := spec.Type.(*ast.InterfaceType)
	if !ok {
		s.malformed(location, typeRef(t), "%s must annotate an interface", a.tag)
		return
	}
	s.checkProperties(a, location, "scope", "modules", "unused")

	scope, _ := a.get("scope")
	decl := godigen.GraphDecl{
		Type:      typeRef(t),
		Scope:     godigen.Scope(scope),
		Extension: extension,
		Modules:   a.list("modules"),
		Location:  location,
	}
	if !extension {
		decl.Modules = append([]string{s.pkg.PkgPath}, decl.Modules...)
	}
	if raw, found := a.get("unused"); found {
		severity, err := godigen.ParseSeverity(raw)
		if err != nil {
			s.malformed(location, decl.Type, "graph %s: %s", decl.Type, err)
			return
		}
		decl.UnusedBindings = &severity
	}

	methods, ok := s.methods(t, iface)
	if !ok {
		return
	}
	decl.EntryPoints, decl.Injectors, decl.Extensions = methods.entryPoints, methods.injectors, methods.extensions

	s.logger.Debug().Str("graph", spec.Name.Name).Bool("extension", extension).Msg("=> Found graph")
	s.universe.Graphs = append(s.universe.Graphs, decl)
}

func (s *scanner) contributedInterface(a annotation, t types.Type, spec *ast.TypeSpec, location godigen.Location) {
	iface, ok := spec.Type.(*ast.InterfaceType)
	if !ok {
		s.malformed(location, typeRef(t), "%s must annotate an interface", a.tag)
		return
	}
	s.checkProperties(a, location, "scope")
	scope, found := a.get("scope")
	if !found || scope == "" {
		s.malformed(location, typeRef(t), "%s %s needs the scope it contributes to", a.tag, typeRef(t))
		return
	}
	methods, ok := s.methods(t, iface)
	if !ok {
		return
	}
	if len(methods.injectors) > 0 {
		s.malformed(location, typeRef(t), "contributed interface %s cannot declare injector methods", typeRef(t))
		return
	}

	s.logger.Debug().Str("interface", spec.Name.Name).Msg("=> Found contributed interface")
	s.universe.Contributions = append(s.universe.Contributions, godigen.ContributionDecl{
		Scope: godigen.Scope(scope),
		Unit:  s.pkg.PkgPath,
		Interface: &godigen.ContributedInterfaceDecl{
			Type:        typeRef(t),
			EntryPoints: methods.entryPoints,
			Extensions:  methods.extensions,
		},
		Location: location,
	})
}

type graphMethods struct {
	entryPoints []godigen.EntryPoint
	injectors   []godigen.InjectorMethod
	extensions  []godigen.ExtensionFactoryDecl
}

// methods classifies the methods of a graph interface: a method without parameter is an entry point,
// a method returning an extension graph is an extension factory, a method taking one value and
// returning nothing is an injector.
func (s *scanner) methods(t types.Type, iface *ast.InterfaceType) (graphMethods, bool) {
	var res graphMethods
	ok := true
	for _, m := range s.interfaceMethods(iface) {
		sig := m.fn.Type().(*types.Signature)
		mLocation := s.location(m.fn.Pos(), m.fn.Name())
		if m.fn.Pkg() != nil && m.fn.Pkg().Path() != s.pkg.PkgPath && !m.fn.Exported() {
			s.malformed(mLocation, typeRef(t), "method %s of %s is not exported and belongs to another package", m.fn.Name(), typeRef(t))
			ok = false
			continue
		}
		params, paramsOK := s.params(sig, m.params, mLocation)
		if !paramsOK {
			ok = false
			continue
		}
		results := sig.Results()

		switch {
		case results.Len() == 1 && s.extensions.Contains(typeRef(results.At(0).Type())):
			res.extensions = append(res.extensions, godigen.ExtensionFactoryDecl{
				Method:   m.fn.Name(),
				Child:    typeRef(results.At(0).Type()),
				Params:   params,
				Location: mLocation,
			})
		case results.Len() == 1 && len(params) == 0:
			qualifier := ""
			if inject, found := m.notes.find(injectTag); found {
				qualifier, _ = inject.get("named")
			}
			res.entryPoints = append(res.entryPoints, godigen.EntryPoint{
				Method:     m.fn.Name(),
				Dependency: dependency(results.At(0).Type(), m.fn.Name(), qualifier),
				Location:   mLocation,
			})
		case results.Len() == 0 && len(params) == 1:
			res.injectors = append(res.injectors, godigen.InjectorMethod{
				Method:   m.fn.Name(),
				Param:    params[0].Name,
				Target:   params[0].Dependency.Key.Type,
				Location: mLocation,
			})
		default:
			s.malformed(mLocation, typeRef(t), "method %s of %s is neither an entry point, an injector nor an extension factory", m.fn.Name(), typeRef(t))
			ok = false
		}
	}
	return res, ok
}

type interfaceMethod struct {
	fn     *types.Func
	params *ast.FieldList
	notes  annotations
}

// interfaceMethods lists the methods in source order, methods of embedded interfaces come in their place.
func (s *scanner) interfaceMethods(iface *ast.InterfaceType) []interfaceMethod {
	var res []interfaceMethod
	for _, field := range iface.Methods.List {
		if len(field.Names) == 0 {
			embeddedType := s.pkg.TypesInfo.TypeOf(field.Type)
			if embeddedType == nil {
				continue
			}
			embedded, ok := embeddedType.Underlying().(*types.Interface)
			if !ok {
				continue
			}
			for i := range embedded.NumMethods() {
				res = append(res, interfaceMethod{fn: embedded.Method(i), notes: annotations{}})
			}
			continue
		}
		funcType, _ := field.Type.(*ast.FuncType)
		for _, name := range field.Names {
			fn, ok := s.pkg.TypesInfo.Defs[name].(*types.Func)
			if !ok {
				continue
			}
			notes := annotations{}
			if field.Doc != nil {
				notes = parseAnnotations(field.Doc.Text())
			} else if field.Comment != nil {
				notes = parseParamComment(field.Comment.Text())
			}
			m := interfaceMethod{fn: fn, notes: notes}
			if funcType != nil {
				m.params = funcType.Params
			}
			res = append(res, m)
		}
	}
	return res
}

func (s *scanner) assistedFactory(t types.Type, spec *ast.TypeSpec, location godigen.Location) {
	iface, ok := spec.Type.(*ast.InterfaceType)
	methods := []interfaceMethod(nil)
	if ok {
		methods = s.interfaceMethods(iface)
	}
	if len(methods) != 1 {
		s.malformed(location, typeRef(t), "%s must annotate an interface with exactly one method", assistedFactoryTag)
		return
	}
	m := methods[0]
	sig := m.fn.Type().(*types.Signature)
	if sig.Results().Len() != 1 {
		s.malformed(location, typeRef(t), "method %s of assisted factory %s must return one value", m.fn.Name(), typeRef(t))
		return
	}
	params, ok := s.params(sig, m.params, location)
	if !ok {
		return
	}
	for i := range params {
		params[i].Assisted = true
	}

	s.logger.Debug().Str("factory", spec.Name.Name).Msg("=> Found assisted factory")
	s.universe.AssistedFactories = append(s.universe.AssistedFactories, godigen.AssistedFactoryDecl{
		Type:     typeRef(t),
		Method:   m.fn.Name(),
		Params:   params,
		Target:   typeRef(sig.Results().At(0).Type()),
		Location: location,
	})
}

func (s *scanner) graphCreator(t types.Type, spec *ast.TypeSpec, location godigen.Location) {
	sig, ok := t.Underlying().(*types.Signature)
	funcType, isFunc := spec.Type.(*ast.FuncType)
	if !ok || !isFunc || sig.Results().Len() != 1 {
		s.malformed(location, typeRef(t), "%s must annotate a function type returning a graph", graphCreatorTag)
		return
	}
	params, ok := s.params(sig, funcType.Params, location)
	if !ok {
		return
	}

	s.logger.Debug().Str("creator", spec.Name.Name).Msg("=> Found graph creator")
	s.creators = append(s.creators, pendingCreator{
		graph: typeRef(sig.Results().At(0).Type()),
		decl: godigen.GraphCreatorDecl{
			Type:     typeRef(t),
			Params:   params,
			Location: location,
		},
	})
}

// accesses records the calls to inject.AsContribution of the file.
func (s *scanner) accesses() {
	ast.Inspect(s.file, func(n ast.Node) bool {
		call, ok := n.(*ast.CallExpr)
		if !ok || len(call.Args) != 1 {
			return true
		}
		var fun ast.Expr
		switch f := ast.Unparen(call.Fun).(type) {
		case *ast.IndexExpr:
			fun = f.X
		default:
			fun = f
		}
		var ident *ast.Ident
		switch f := fun.(type) {
		case *ast.Ident:
			ident = f
		case *ast.SelectorExpr:
			ident = f.Sel
		default:
			return true
		}
		obj, ok := s.pkg.TypesInfo.Uses[ident].(*types.Func)
		if !ok || !isInject(obj) || obj.Name() != "AsContribution" {
			return true
		}
		instance, found := s.pkg.TypesInfo.Instances[ident]
		if !found || instance.TypeArgs.Len() != 1 {
			return true
		}

		s.universe.Accesses = append(s.universe.Accesses, godigen.ContributionAccess{
			Graph:    typeRef(s.pkg.TypesInfo.TypeOf(call.Args[0])),
			Target:   typeRef(instance.TypeArgs.At(0)),
			Location: s.location(call.Pos(), ""),
		})
		return true
	})
}

func btoi(b bool) int {
	if b {
		return 1
	}
	return 0
}
