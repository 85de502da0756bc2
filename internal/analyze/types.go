package analyze

import (
	"go/ast"
	"go/token"
	"go/types"
	"slices"
	"strings"

	"model-usage/internal/diagnostic"
)

// TypeID uniquely identifies a type by its package path and name.
type TypeID struct {
	PkgPath string // e.g., "model-usage/store"
	Name    string // e.g., "Customer"
}

// String returns a human-readable representation of the TypeID.
func (t TypeID) String() string {
	if t.PkgPath == "" {
		return t.Name
	}

	return t.PkgPath + "." + t.Name
}

// IDOf returns the TypeID of a type name object.
func IDOf(obj *types.TypeName) TypeID {
	id := TypeID{Name: obj.Name()}
	if obj.Pkg() != nil {
		id.PkgPath = obj.Pkg().Path()
	}

	return id
}

// SourceFile is one parsed, type-checked file.
type SourceFile struct {
	Path      string
	Pkg       *types.Package
	Syntax    *ast.File
	Info      *types.Info
	Generated bool
}

// TypeOf returns the static type of expr, or nil if unknown.
func (f *SourceFile) TypeOf(expr ast.Expr) types.Type {
	if f.Info == nil {
		return nil
	}

	return f.Info.TypeOf(expr)
}

// ObjectOf returns the object an identifier denotes, or nil.
func (f *SourceFile) ObjectOf(id *ast.Ident) types.Object {
	if f.Info == nil {
		return nil
	}

	return f.Info.ObjectOf(id)
}

// Declaration is where a named type is declared.
type Declaration struct {
	Spec *ast.TypeSpec
	File *SourceFile
}

// Project is the loaded file forest.
type Project struct {
	Fset  *token.FileSet
	Files []*SourceFile
	// Diagnostics holds non-fatal load problems (type errors).
	Diagnostics diagnostic.Diagnostics

	decls map[TypeID]Declaration
	seen  map[string]bool
}

// NewProject creates an empty Project over fset.
func NewProject(fset *token.FileSet) *Project {
	return &Project{
		Fset:  fset,
		decls: make(map[TypeID]Declaration),
		seen:  make(map[string]bool),
	}
}

// AddFile adds a file and indexes its type declarations. A path that was
// already added is ignored, which folds test variants of a package onto the
// files loaded with the package itself.
func (p *Project) AddFile(f *SourceFile) bool {
	if p.seen[f.Path] {
		return false
	}

	p.seen[f.Path] = true
	f.Generated = f.Generated || ast.IsGenerated(f.Syntax)
	p.Files = append(p.Files, f)

	for _, decl := range f.Syntax.Decls {
		gen, ok := decl.(*ast.GenDecl)
		if !ok || gen.Tok != token.TYPE {
			continue
		}

		for _, spec := range gen.Specs {
			ts := spec.(*ast.TypeSpec)

			obj, ok := f.Info.Defs[ts.Name].(*types.TypeName)
			if !ok {
				continue
			}

			p.decls[IDOf(obj)] = Declaration{Spec: ts, File: f}
		}
	}

	return true
}

// Declaration returns the declaration of a named type, if it is part of the
// loaded syntax. Types from dependencies are only known through go/types.
func (p *Project) Declaration(obj *types.TypeName) (Declaration, bool) {
	if obj == nil {
		return Declaration{}, false
	}

	d, ok := p.decls[IDOf(obj)]

	return d, ok
}

// Declarations returns every indexed type declaration ordered by TypeID.
func (p *Project) Declarations() []TypeID {
	ids := make([]TypeID, 0, len(p.decls))
	for id := range p.decls {
		ids = append(ids, id)
	}

	slices.SortFunc(ids, func(a, b TypeID) int {
		return strings.Compare(a.String(), b.String())
	})

	return ids
}

// DeclarationOf returns the declaration indexed under id.
func (p *Project) DeclarationOf(id TypeID) (Declaration, bool) {
	d, ok := p.decls[id]
	return d, ok
}

// Position resolves pos against the project's file set.
func (p *Project) Position(pos token.Pos) token.Position {
	if p.Fset == nil || !pos.IsValid() {
		return token.Position{}
	}

	return p.Fset.Position(pos)
}

// ExprString returns the source form of expr.
func ExprString(expr ast.Expr) string {
	return types.ExprString(expr)
}

// TypeString renders t with package qualifiers relative to the file's own
// package, the way the compiler prints types in error messages.
func TypeString(f *SourceFile, t types.Type) string {
	if t == nil {
		return "<unknown>"
	}

	var qual types.Qualifier
	if f != nil && f.Pkg != nil {
		qual = types.RelativeTo(f.Pkg)
	}

	return types.TypeString(t, qual)
}

// NewInfo allocates a types.Info with every map the analysis reads.
func NewInfo() *types.Info {
	return &types.Info{
		Types:      make(map[ast.Expr]types.TypeAndValue),
		Defs:       make(map[*ast.Ident]types.Object),
		Uses:       make(map[*ast.Ident]types.Object),
		Implicits:  make(map[ast.Node]types.Object),
		Selections: make(map[*ast.SelectorExpr]*types.Selection),
		Instances:  make(map[*ast.Ident]types.Instance),
	}
}
