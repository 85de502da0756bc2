package resolve

import (
	"go/ast"
	"go/types"

	"model-usage/internal/analyze"
	"model-usage/internal/diagnostic"
	"model-usage/internal/match"
	"model-usage/internal/registry"
)

// Query is one receiver to resolve.
type Query struct {
	File *analyze.SourceFile
	// Expr is the receiver with enclosing parentheses removed.
	Expr ast.Expr
}

// Resolution is a successful lookup.
type Resolution struct {
	Entity   *registry.Entity
	Strategy Strategy
}

type strategy struct {
	kind Strategy
	try  func(*Query) (*registry.Entity, bool)
}

// Resolver resolves receivers against a registry using the project's
// syntax and type information.
type Resolver struct {
	proj       *analyze.Project
	reg        *registry.Registry
	strategies []strategy
}

// New creates a Resolver.
func New(proj *analyze.Project, reg *registry.Registry) *Resolver {
	r := &Resolver{proj: proj, reg: reg}
	r.strategies = []strategy{
		{StrategyLiteral, r.literal},
		{StrategyStaticType, r.staticType},
		{StrategyGenericView, r.genericView},
		{StrategyHeritage, r.heritage},
	}

	return r
}

// Resolve returns the entity expr denotes in file.
func (r *Resolver) Resolve(file *analyze.SourceFile, expr ast.Expr) (Resolution, bool) {
	q := &Query{File: file, Expr: ast.Unparen(expr)}

	for _, s := range r.strategies {
		if e, ok := s.try(q); ok {
			return Resolution{Entity: e, Strategy: s.kind}, true
		}
	}

	return Resolution{}, false
}

// Unresolved builds the diagnostic for a receiver Resolve could not map.
func (r *Resolver) Unresolved(file *analyze.SourceFile, expr ast.Expr) diagnostic.Diagnostic {
	t := file.TypeOf(expr)

	d := diagnostic.Diagnostic{
		Severity: diagnostic.DiagnosticWarning,
		Code:     diagnostic.CodeUnresolvedEntity,
		Message:  "receiver does not resolve to a registered entity",
		Pos:      r.proj.Position(expr.Pos()),
		Expr:     analyze.ExprString(expr),
		Type:     analyze.TypeString(file, t),
	}

	if n := named(t); n != nil {
		d.Suggestions = match.Suggest(n.Obj().Name(), r.reg.Names(), 3)
	}

	return d
}

func (r *Resolver) literal(q *Query) (*registry.Entity, bool) {
	return r.nameRef(q.File, stripStar(q.Expr))
}

func (r *Resolver) staticType(q *Query) (*registry.Entity, bool) {
	n := named(q.File.TypeOf(q.Expr))
	if n == nil {
		return nil, false
	}

	return r.lookupNamed(n)
}

func (r *Resolver) genericView(q *Query) (*registry.Entity, bool) {
	return r.typeArgs(named(q.File.TypeOf(q.Expr)))
}

// nameRef resolves a plain or package-qualified identifier that names an
// entity type. Without type information only the name is compared.
func (r *Resolver) nameRef(f *analyze.SourceFile, expr ast.Expr) (*registry.Entity, bool) {
	switch x := expr.(type) {
	case *ast.Ident:
		pkg := ""

		switch obj := f.ObjectOf(x).(type) {
		case nil:
		case *types.TypeName:
			if obj.Pkg() != nil {
				pkg = obj.Pkg().Path()
			}
		default:
			return nil, false
		}

		return r.reg.LookupType(pkg, x.Name)

	case *ast.SelectorExpr:
		id, ok := x.X.(*ast.Ident)
		if !ok {
			return nil, false
		}

		pkg := ""

		switch obj := f.ObjectOf(id).(type) {
		case nil:
		case *types.PkgName:
			pkg = obj.Imported().Path()
		default:
			return nil, false
		}

		return r.reg.LookupType(pkg, x.Sel.Name)
	}

	return nil, false
}

func (r *Resolver) lookupNamed(n *types.Named) (*registry.Entity, bool) {
	obj := n.Obj()

	pkg := ""
	if obj.Pkg() != nil {
		pkg = obj.Pkg().Path()
	}

	return r.reg.LookupType(pkg, obj.Name())
}

// typeArgs returns the first entity among the type arguments of n.
func (r *Resolver) typeArgs(n *types.Named) (*registry.Entity, bool) {
	if n == nil {
		return nil, false
	}

	args := n.TypeArgs()
	for i := range args.Len() {
		if arg := named(args.At(i)); arg != nil {
			if e, ok := r.lookupNamed(arg); ok {
				return e, true
			}
		}
	}

	return nil, false
}

// named removes aliases and one pointer level and returns the named type.
func named(t types.Type) *types.Named {
	if t == nil {
		return nil
	}

	t = types.Unalias(t)
	if p, ok := t.(*types.Pointer); ok {
		t = types.Unalias(p.Elem())
	}

	n, _ := t.(*types.Named)

	return n
}

func stripStar(expr ast.Expr) ast.Expr {
	expr = ast.Unparen(expr)
	if star, ok := expr.(*ast.StarExpr); ok {
		return ast.Unparen(star.X)
	}

	return expr
}
