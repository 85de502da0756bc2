package resolve

import (
	"go/ast"
	"go/parser"
	"go/token"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"model-usage/internal/analyze"
	"model-usage/internal/diagnostic"
	"model-usage/internal/registry"
)

const shopSrc = `package shop

import "context"

type Model struct{ ID int64 }

func (m *Model) Save(ctx context.Context) error { return nil }

type Customer struct {
	Model
	Name string
}

type Tag struct{ Model }

type Table[T any] struct{}

func (t *Table[T]) Create(ctx context.Context, row *T) error { return nil }

type Partial[T any] struct{ Model }

type Audited[T any] struct {
	Model
	Row T
}

type VIP struct {
	Customer
	Tier int
}

type Summary struct {
	Partial[Customer]
}

type auditedTag = Audited[Tag]

type TagAudit struct {
	auditedTag
}

type Admin Customer

type Saver interface {
	Save(ctx context.Context) error
}

var (
	customers = &Table[Customer]{}
	cust      *Customer
	vip       *VIP
	summary   Summary
	audit     TagAudit
	admin     *Admin
	anything  Saver
)

func use(ctx context.Context) {
	_ = cust.Save(ctx)
	_ = (cust).Save(ctx)
	_ = customers.Create(ctx, nil)
	_ = vip.Save(ctx)
	_ = summary.Save(ctx)
	_ = audit.Save(ctx)
	_ = admin.Save(ctx)
	_ = (*Customer).Save(cust, ctx)
	_ = anything.Save(ctx)
}
`

func load(t *testing.T) (*analyze.Project, *analyze.SourceFile) {
	t.Helper()

	proj, err := analyze.CheckSource("example.com/shop", map[string]string{"shop.go": shopSrc})
	require.NoError(t, err)
	require.Zero(t, proj.Diagnostics.Len(), proj.Diagnostics.Warnings)
	require.Len(t, proj.Files, 1)

	return proj, proj.Files[0]
}

// receivers indexes the receiver of every method call by its source text.
func receivers(f *analyze.SourceFile) map[string]ast.Expr {
	out := make(map[string]ast.Expr)

	ast.Inspect(f.Syntax, func(n ast.Node) bool {
		if call, ok := n.(*ast.CallExpr); ok {
			if sel, ok := call.Fun.(*ast.SelectorExpr); ok {
				out[analyze.ExprString(sel.X)] = sel.X
			}
		}

		return true
	})

	return out
}

func TestResolve_Strategies(t *testing.T) {
	proj, file := load(t)

	reg, err := registry.New(
		registry.Entity{Name: "Customer", Package: "example.com/shop"},
		registry.Entity{Name: "Tag"},
	)
	require.NoError(t, err)

	r := New(proj, reg)
	recv := receivers(file)

	tests := []struct {
		receiver string
		entity   string
		strategy Strategy
	}{
		{"cust", "Customer", StrategyStaticType},
		{"(cust)", "Customer", StrategyStaticType},
		{"(*Customer)", "Customer", StrategyLiteral},
		{"customers", "Customer", StrategyGenericView},
		{"vip", "Customer", StrategyHeritage},
		{"summary", "Customer", StrategyHeritage},
		{"audit", "Tag", StrategyHeritage},
		{"admin", "Customer", StrategyHeritage},
	}

	for _, tt := range tests {
		t.Run(tt.receiver, func(t *testing.T) {
			expr, ok := recv[tt.receiver]
			require.True(t, ok, "receiver %s not found", tt.receiver)

			res, ok := r.Resolve(file, expr)
			require.True(t, ok)
			assert.Equal(t, tt.entity, res.Entity.Name)
			assert.Equal(t, tt.strategy, res.Strategy, res.Strategy.String())
		})
	}
}

func TestResolve_Unresolved(t *testing.T) {
	proj, file := load(t)

	reg, err := registry.New(registry.Entity{Name: "Customer"})
	require.NoError(t, err)

	r := New(proj, reg)
	expr := receivers(file)["anything"]
	require.NotNil(t, expr)

	_, ok := r.Resolve(file, expr)
	assert.False(t, ok)

	d := r.Unresolved(file, expr)
	assert.Equal(t, diagnostic.CodeUnresolvedEntity, d.Code)
	assert.Equal(t, diagnostic.DiagnosticWarning, d.Severity)
	assert.Equal(t, "anything", d.Expr)
	assert.Equal(t, "Saver", d.Type)
	assert.Equal(t, "shop.go", d.Pos.Filename)
	assert.Positive(t, d.Pos.Line)
}

func TestResolve_PinnedPackageMismatch(t *testing.T) {
	proj, file := load(t)

	reg, err := registry.New(registry.Entity{Name: "Customer", Package: "example.com/other"})
	require.NoError(t, err)

	r := New(proj, reg)

	for _, name := range []string{"cust", "customers", "vip", "(*Customer)"} {
		_, ok := r.Resolve(file, receivers(file)[name])
		assert.False(t, ok, name)
	}
}

func TestResolve_WithoutTypeInfo(t *testing.T) {
	fset := token.NewFileSet()
	syntax, err := parser.ParseFile(fset, "raw.go", `package raw

func f() { Customer.Create(nil) }
`, 0)
	require.NoError(t, err)

	proj := analyze.NewProject(fset)
	file := &analyze.SourceFile{Path: "raw.go", Syntax: syntax}
	proj.Files = append(proj.Files, file)

	reg, err := registry.New(registry.Entity{Name: "Customer"})
	require.NoError(t, err)

	res, ok := New(proj, reg).Resolve(file, receivers(file)["Customer"])
	require.True(t, ok)
	assert.Equal(t, StrategyLiteral, res.Strategy)
}

func TestStrategy_String(t *testing.T) {
	assert.Equal(t, "Literal", StrategyLiteral.String())
	assert.Equal(t, "Heritage", StrategyHeritage.String())
	assert.Equal(t, "Strategy(0)", Strategy(0).String())
}
