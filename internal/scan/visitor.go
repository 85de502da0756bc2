package scan

import (
	"go/ast"
	"go/token"
	"go/types"
	"log/slog"
	"strconv"

	"model-usage/internal/analyze"
	"model-usage/internal/classify"
	"model-usage/internal/common"
	"model-usage/internal/diagnostic"
	"model-usage/internal/registry"
	"model-usage/internal/resolve"
	"model-usage/internal/usage"
)

type visitor struct {
	proj       *analyze.Project
	reg        *registry.Registry
	classifier *classify.Classifier
	resolver   *resolve.Resolver
	store      *usage.Store
	diags      *diagnostic.Diagnostics
	logger     *slog.Logger
	filter     string

	// per file
	file *analyze.SourceFile
	// entityImports maps the local name of each filtered import to its path.
	entityImports map[string]string
	// pkgNames holds the local name of every import.
	pkgNames map[string]bool
}

func (v *visitor) visitFile(f *analyze.SourceFile) {
	v.file = f
	v.entityImports = make(map[string]string)
	v.pkgNames = make(map[string]bool)

	for _, imp := range f.Syntax.Imports {
		path, err := strconv.Unquote(imp.Path.Value)
		if err != nil {
			continue
		}

		name := v.localName(imp, path)
		if name == "" {
			continue
		}

		v.pkgNames[name] = true

		if common.MatchPath(v.filter, path) {
			v.entityImports[name] = path
		}
	}

	ast.Inspect(f.Syntax, v.visit)
}

// localName returns the name an import is referred to by, or "" for blank
// and dot imports.
func (v *visitor) localName(imp *ast.ImportSpec, path string) string {
	if imp.Name != nil {
		if imp.Name.Name == "_" || imp.Name.Name == "." {
			return ""
		}

		return imp.Name.Name
	}

	if v.file.Info != nil {
		if pn := v.file.Info.PkgNameOf(imp); pn != nil {
			return pn.Name()
		}
	}

	return common.PkgAlias(path)
}

func (v *visitor) visit(n ast.Node) bool {
	switch n := n.(type) {
	case *ast.GenDecl:
		return n.Tok != token.IMPORT
	case *ast.SelectorExpr:
		v.reference(n)
	case *ast.CallExpr:
		v.call(n)
	}

	return true
}

// reference records a read of an entity named through an import: store.Customer.
func (v *visitor) reference(sel *ast.SelectorExpr) {
	id, ok := sel.X.(*ast.Ident)
	if !ok {
		return
	}

	path, ok := v.entityImports[id.Name]
	if !ok {
		return
	}

	if obj := v.file.ObjectOf(id); obj != nil {
		pn, ok := obj.(*types.PkgName)
		if !ok || pn.Imported().Path() != path {
			return
		}
	}

	if e, ok := v.reg.LookupType(path, sel.Sel.Name); ok {
		v.store.Ensure(e.Name, e.Table)
	}
}

// call classifies a call expression. Only the receiver.method(...) shape is
// considered: generic instantiations, function values and package-level
// functions are rejected before any type is resolved.
func (v *visitor) call(call *ast.CallExpr) {
	sel, ok := call.Fun.(*ast.SelectorExpr)
	if !ok || v.isPackage(sel.X) {
		return
	}

	method := sel.Sel.Name

	switch verb := v.classifier.Mixin(method); verb {
	case classify.MixinNone:
	case classify.MixinRead:
		return
	case classify.MixinUnknown:
		if len(call.Args) >= 2 {
			v.report(diagnostic.Diagnostic{
				Severity: diagnostic.DiagnosticWarning,
				Code:     diagnostic.CodeUnknownMixinVerb,
				Message:  "unknown association mixin " + method,
				Pos:      v.proj.Position(sel.Sel.Pos()),
				Expr:     analyze.ExprString(call.Fun),
			})
		}

		return
	default:
		v.mixin(call, sel, verb)
		return
	}

	ops, ok := v.classifier.Direct(method)
	if !ok {
		return
	}

	res, ok := v.resolver.Resolve(v.file, sel.X)
	if !ok {
		v.report(v.resolver.Unresolved(v.file, sel.X))
		return
	}

	v.store.Apply(res.Entity.Name, res.Entity.Table, ops)
}

func (v *visitor) isPackage(expr ast.Expr) bool {
	id, ok := expr.(*ast.Ident)
	if !ok {
		return false
	}

	if obj := v.file.ObjectOf(id); obj != nil {
		_, ok := obj.(*types.PkgName)
		return ok
	}

	return v.pkgNames[id.Name]
}

func (v *visitor) report(d diagnostic.Diagnostic) {
	v.diags.Add(d)
	diagnostic.Log(v.logger, d)
}
