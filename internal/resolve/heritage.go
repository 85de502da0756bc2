package resolve

import (
	"go/ast"
	"go/types"

	"model-usage/internal/analyze"
	"model-usage/internal/registry"
)

func (r *Resolver) heritage(q *Query) (*registry.Entity, bool) {
	n := named(q.File.TypeOf(q.Expr))
	if n == nil {
		return nil, false
	}

	decl, ok := r.proj.Declaration(n.Obj())
	if !ok {
		// Declared outside the loaded syntax; fall back to the checked type.
		for _, t := range embeddedTypes(n) {
			if e, ok := r.embedded(t); ok {
				return e, true
			}
		}

		return nil, false
	}

	for _, clause := range heritageClauses(decl.Spec) {
		if e, ok := r.clause(decl.File, clause); ok {
			return e, true
		}
	}

	return nil, false
}

// clause inspects one heritage clause.
func (r *Resolver) clause(f *analyze.SourceFile, expr ast.Expr) (*registry.Entity, bool) {
	expr = stripStar(expr)

	// Partial[Customer]
	for _, arg := range indexArgs(expr) {
		if e, ok := r.nameRef(f, stripStar(arg)); ok {
			return e, true
		}
	}

	// An alias of a generic instance: type base = Audited[Order].
	if e, ok := r.typeArgs(named(f.TypeOf(expr))); ok {
		return e, true
	}

	return r.nameRef(f, expr)
}

func (r *Resolver) embedded(t types.Type) (*registry.Entity, bool) {
	n := named(t)
	if n == nil {
		return nil, false
	}

	if e, ok := r.typeArgs(n); ok {
		return e, true
	}

	return r.lookupNamed(n)
}

// heritageClauses returns the embedded fields of a struct, the embedded
// elements of an interface, or the right-hand side of a type definition.
func heritageClauses(ts *ast.TypeSpec) []ast.Expr {
	if ts.Assign.IsValid() {
		return nil
	}

	var out []ast.Expr

	switch t := ts.Type.(type) {
	case *ast.StructType:
		for _, field := range t.Fields.List {
			if len(field.Names) == 0 {
				out = append(out, field.Type)
			}
		}
	case *ast.InterfaceType:
		for _, elem := range t.Methods.List {
			if len(elem.Names) == 0 {
				out = append(out, elem.Type)
			}
		}
	default:
		out = append(out, ts.Type)
	}

	return out
}

func indexArgs(expr ast.Expr) []ast.Expr {
	switch x := expr.(type) {
	case *ast.IndexExpr:
		return []ast.Expr{x.Index}
	case *ast.IndexListExpr:
		return x.Indices
	default:
		return nil
	}
}

func embeddedTypes(n *types.Named) []types.Type {
	var out []types.Type

	switch u := n.Underlying().(type) {
	case *types.Struct:
		for i := range u.NumFields() {
			if f := u.Field(i); f.Embedded() {
				out = append(out, f.Type())
			}
		}
	case *types.Interface:
		for i := range u.NumEmbeddeds() {
			out = append(out, u.EmbeddedType(i))
		}
	}

	return out
}
