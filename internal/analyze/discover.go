package analyze

import (
	"fmt"
	"go/ast"
	"go/token"
	"go/types"
	"reflect"
	"strconv"
	"strings"

	"model-usage/internal/common"
	"model-usage/internal/registry"
)

// DefaultBase is the embedded type that marks a struct as an entity.
const DefaultBase = "Model"

// AssocTag is the struct tag key declaring an association:
//
//	Roles []*Role `assoc:"many-to-many,through=UserRole"`
//	Owner *User   `assoc:"belongs-to"`
//	Tags  []Tag   `assoc:"m2m,through=ProductTag,table=product_tag_links"`
const AssocTag = "assoc"

// DiscoverOptions configures Discover.
type DiscoverOptions struct {
	// Packages restricts discovery to matching package paths (see common.MatchPath).
	Packages string
	// Base is the name of the embedded type marking entities (default DefaultBase).
	Base string
}

// Discover derives an entity registry from struct declarations: a struct is
// an entity if it embeds the base type or declares a TableName method.
// Tables come from a TableName method returning a string literal, otherwise
// from registry.DefaultTable. Associations come from assoc struct tags.
func Discover(p *Project, opts DiscoverOptions) (*registry.Registry, error) {
	base := opts.Base
	if base == "" {
		base = DefaultBase
	}

	tables := tableNames(p)

	var entities []registry.Entity

	for _, id := range p.Declarations() {
		if !common.MatchPath(opts.Packages, id.PkgPath) || id.Name == base {
			continue
		}

		decl, _ := p.DeclarationOf(id)
		if decl.Spec.TypeParams != nil || !ast.IsExported(id.Name) {
			continue
		}

		st, ok := decl.Spec.Type.(*ast.StructType)
		if !ok {
			continue
		}

		table, hasTableName := tables[id]
		if !embeds(st, base) && !hasTableName {
			continue
		}

		assocs, err := discoverAssociations(decl.File, id, st)
		if err != nil {
			return nil, err
		}

		entities = append(entities, registry.Entity{
			Name:         id.Name,
			Table:        table,
			Package:      id.PkgPath,
			Associations: assocs,
		})
	}

	reg, err := registry.New(entities...)
	if err != nil {
		return nil, fmt.Errorf("discovered registry is invalid: %w", err)
	}

	return reg, nil
}

// embeds reports whether the struct embeds a type whose name is base.
func embeds(st *ast.StructType, base string) bool {
	for _, f := range st.Fields.List {
		if f.Names == nil && lastIdent(f.Type) == base {
			return true
		}
	}

	return false
}

// tableNames collects TableName methods. The value is the returned string
// literal, or "" when the body is anything else.
func tableNames(p *Project) map[TypeID]string {
	out := make(map[TypeID]string)

	for _, f := range p.Files {
		for _, decl := range f.Syntax.Decls {
			fn, ok := decl.(*ast.FuncDecl)
			if !ok || fn.Recv == nil || fn.Name.Name != "TableName" || len(fn.Recv.List) != 1 {
				continue
			}

			recv := lastIdent(fn.Recv.List[0].Type)
			if recv == "" {
				continue
			}

			id := TypeID{PkgPath: f.Pkg.Path(), Name: recv}
			out[id] = returnedString(fn.Body)
		}
	}

	return out
}

func returnedString(body *ast.BlockStmt) string {
	if body == nil || len(body.List) != 1 {
		return ""
	}

	ret, ok := body.List[0].(*ast.ReturnStmt)
	if !ok || len(ret.Results) != 1 {
		return ""
	}

	lit, ok := ret.Results[0].(*ast.BasicLit)
	if !ok || lit.Kind != token.STRING {
		return ""
	}

	s, err := strconv.Unquote(lit.Value)
	if err != nil {
		return ""
	}

	return s
}

func discoverAssociations(f *SourceFile, id TypeID, st *ast.StructType) ([]registry.Association, error) {
	var out []registry.Association

	for _, field := range st.Fields.List {
		if field.Tag == nil || len(field.Names) == 0 {
			continue
		}

		raw, err := strconv.Unquote(field.Tag.Value)
		if err != nil {
			continue
		}

		spec, ok := reflect.StructTag(raw).Lookup(AssocTag)
		if !ok {
			continue
		}

		target := elemTypeName(f.TypeOf(field.Type))
		if target == "" {
			return nil, fmt.Errorf("%s.%s: cannot determine association target from %s",
				id, field.Names[0].Name, ExprString(field.Type))
		}

		assoc, err := parseAssocTag(spec)
		if err != nil {
			return nil, fmt.Errorf("%s.%s: %w", id, field.Names[0].Name, err)
		}

		assoc.Target = target

		for _, name := range field.Names {
			a := assoc
			a.Name = name.Name
			out = append(out, a)
		}
	}

	return out, nil
}

// parseAssocTag parses "kind[,through=X][,table=y]".
func parseAssocTag(spec string) (registry.Association, error) {
	parts := strings.Split(spec, ",")

	kind, err := registry.ParseKind(strings.TrimSpace(parts[0]))
	if err != nil {
		return registry.Association{}, err
	}

	a := registry.Association{Kind: kind}

	for _, opt := range parts[1:] {
		key, value, ok := strings.Cut(strings.TrimSpace(opt), "=")
		if !ok {
			return registry.Association{}, fmt.Errorf("malformed assoc option %q", opt)
		}

		if a.Through == nil {
			a.Through = &registry.ThroughRef{}
		}

		switch key {
		case "through":
			a.Through.Model = value
		case "table":
			a.Through.Table = value
		default:
			return registry.Association{}, fmt.Errorf("unknown assoc option %q", key)
		}
	}

	if a.Through != nil && a.Through.Model == "" && a.Through.Table != "" {
		// a bare join table is the literal through form
		a.Through = &registry.ThroughRef{Name: a.Through.Table}
	}

	return a, nil
}

// elemTypeName strips pointers, slices and arrays and returns the name of
// the named type underneath.
func elemTypeName(t types.Type) string {
	for t != nil {
		switch tt := types.Unalias(t).(type) {
		case *types.Pointer:
			t = tt.Elem()
		case *types.Slice:
			t = tt.Elem()
		case *types.Array:
			t = tt.Elem()
		case *types.Named:
			return tt.Obj().Name()
		default:
			return ""
		}
	}

	return ""
}

// lastIdent returns the final identifier of a type expression after
// removing pointers and type arguments: *pkg.T[X] -> "T".
func lastIdent(expr ast.Expr) string {
	switch e := expr.(type) {
	case *ast.Ident:
		return e.Name
	case *ast.SelectorExpr:
		return e.Sel.Name
	case *ast.StarExpr:
		return lastIdent(e.X)
	case *ast.IndexExpr:
		return lastIdent(e.X)
	case *ast.IndexListExpr:
		return lastIdent(e.X)
	case *ast.ParenExpr:
		return lastIdent(e.X)
	default:
		return ""
	}
}
