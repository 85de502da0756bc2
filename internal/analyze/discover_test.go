package analyze

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"model-usage/internal/registry"
)

func TestDiscover_Fixtures(t *testing.T) {
	proj := loadFixtures(t)

	reg, err := Discover(proj, DiscoverOptions{Packages: "model-usage/store"})
	require.NoError(t, err)

	assert.Equal(t, []string{"Customer", "Order", "OrderItem", "Product", "ProductTag", "Tag"}, reg.Names())

	item, ok := reg.Lookup("OrderItem")
	require.True(t, ok)
	assert.Equal(t, "order_lines", item.Table)
	assert.Equal(t, "model-usage/store", item.Package)
	assert.Equal(t, []string{"Order", "Product"}, item.AssociationNames())

	order, _ := reg.Lookup("Order")
	items, ok := order.Association("Items")
	require.True(t, ok)
	assert.Equal(t, registry.KindHasMany, items.Kind)
	assert.Equal(t, "OrderItem", items.Target)

	product, _ := reg.Lookup("Product")
	tags, ok := product.Association("Tags")
	require.True(t, ok)
	assert.Equal(t, registry.KindManyToMany, tags.Kind)
	assert.Equal(t, "Tag", tags.Target)
	assert.Equal(t, "ProductTag", tags.Through.EntityName())

	pt, _ := reg.Lookup("ProductTag")
	assert.Equal(t, "product_tags", pt.Table)
}

func TestDiscover_Source(t *testing.T) {
	proj, err := CheckSource("example.com/app", map[string]string{"app.go": `package app

type Base struct{ ID int64 }

type Account struct {
	Base
	Groups []*Group ` + "`assoc:\"m2m,table=account_groups\"`" + `
	Owner  *Person  ` + "`assoc:\"belongs-to\"`" + `
}

type Group struct{ Base }

// Person has no base but declares a table.
type Person struct{ Name string }

func (Person) TableName() string { return "people" }

type internal struct{ Base }

type Page[T any] struct{ Base }
`})
	require.NoError(t, err)

	reg, err := Discover(proj, DiscoverOptions{Base: "Base"})
	require.NoError(t, err)

	assert.Equal(t, []string{"Account", "Group", "Person"}, reg.Names())

	person, _ := reg.Lookup("Person")
	assert.Equal(t, "people", person.Table)

	account, _ := reg.Lookup("Account")
	groups, ok := account.Association("Groups")
	require.True(t, ok)
	assert.Equal(t, "account_groups", groups.Through.Name)

	through, err := reg.ResolveThrough(groups)
	require.NoError(t, err)
	assert.True(t, through.Implicit)
	assert.Equal(t, "account_groups", through.Table)
}

func TestDiscover_BadTag(t *testing.T) {
	proj, err := CheckSource("example.com/app", map[string]string{"app.go": "package app\n\n" +
		"type Model struct{}\n\n" +
		"type A struct {\n\tModel\n\tB *A `assoc:\"sideways\"`\n}\n"})
	require.NoError(t, err)

	_, err = Discover(proj, DiscoverOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sideways")
}

func TestParseAssocTag(t *testing.T) {
	a, err := parseAssocTag("many-to-many, through=UserRole, table=user_roles")
	require.NoError(t, err)
	assert.Equal(t, registry.KindManyToMany, a.Kind)
	assert.Equal(t, &registry.ThroughRef{Model: "UserRole", Table: "user_roles"}, a.Through)

	a, err = parseAssocTag("has-many")
	require.NoError(t, err)
	assert.Nil(t, a.Through)

	_, err = parseAssocTag("m2m,through")
	require.Error(t, err)

	_, err = parseAssocTag("m2m,via=X")
	require.Error(t, err)
}
