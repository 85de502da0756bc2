package registry

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const shopYAML = `
version: "1"
entities:
  - name: User
    package: model-usage/store
    associations:
      - name: Roles
        kind: belongsToMany
        target: Role
        through: UserRole
      - name: Profile
        kind: hasOne
        target: Profile
  - name: Role
    table: app_roles
  - name: UserRole
  - name: Profile
  - name: Product
    associations:
      - name: Tags
        kind: many-to-many
        target: Tag
        through:
          model: ProductTag
          table: product_tag_links
      - name: Labels
        kind: m2m
        target: Tag
        through: product_labels
  - name: Tag
`

func TestParse(t *testing.T) {
	reg, err := Parse([]byte(shopYAML))
	require.NoError(t, err)

	assert.Equal(t, 6, reg.Len())
	assert.Equal(t, []string{"User", "Role", "UserRole", "Profile", "Product", "Tag"}, reg.Names())

	user, ok := reg.Lookup("User")
	require.True(t, ok)
	assert.Equal(t, "users", user.Table)
	assert.Equal(t, []string{"Roles", "Profile"}, user.AssociationNames())

	roles, ok := user.Association("Roles")
	require.True(t, ok)
	assert.Equal(t, KindManyToMany, roles.Kind)
	assert.Equal(t, "UserRole", roles.Through.EntityName())

	profile, ok := user.Association("Profile")
	require.True(t, ok)
	assert.Equal(t, KindBelongsTo, profile.Kind)

	role, _ := reg.Lookup("Role")
	assert.Equal(t, "app_roles", role.Table)

	userRole, _ := reg.Lookup("UserRole")
	assert.Equal(t, "user_roles", userRole.Table)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		msg  string
	}{
		{"bad kind", "entities: [{name: A, associations: [{name: b, kind: sideways, target: B}]}]", "unknown association kind"},
		{"duplicate entity", "entities: [{name: A}, {name: A}]", "duplicate entity"},
		{"duplicate association", "entities: [{name: A, associations: [{name: b, kind: has-many, target: A}, {name: b, kind: has-many, target: A}]}]", "duplicate association"},
		{"missing target", "entities: [{name: A, associations: [{name: b, kind: has-many}]}]", "missing target"},
		{"through on has-many", "entities: [{name: A, associations: [{name: b, kind: has-many, target: A, through: X}]}]", "only valid on many-to-many"},
		{"wrapper without model", "entities: [{name: A, associations: [{name: b, kind: m2m, target: A, through: {table: x}}]}]", "requires a model field"},
		{"version", "version: \"9\"\nentities: []", "unsupported registry version"},
		{"empty name", "entities: [{table: x}]", "has no name"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}

func TestValidate_UnknownTargetIsWarning(t *testing.T) {
	diags := Validate([]Entity{{
		Name:         "A",
		Associations: []Association{{Name: "ghosts", Kind: KindHasMany, Target: "Ghost"}},
	}})

	assert.True(t, diags.IsValid())
	require.Len(t, diags.Warnings, 1)
	assert.Contains(t, diags.Warnings[0].Message, `unregistered entity "Ghost"`)
}

func TestResolveThrough(t *testing.T) {
	reg, err := Parse([]byte(shopYAML))
	require.NoError(t, err)

	user, _ := reg.Lookup("User")
	roles, _ := user.Association("Roles")

	through, err := reg.ResolveThrough(roles)
	require.NoError(t, err)
	assert.Equal(t, "UserRole", through.Name)
	assert.False(t, through.Implicit)

	product, _ := reg.Lookup("Product")

	tags, _ := product.Association("Tags")
	through, err = reg.ResolveThrough(tags)
	require.NoError(t, err)
	assert.Equal(t, "ProductTag", through.Name)
	assert.Equal(t, "product_tag_links", through.Table)
	assert.True(t, through.Implicit)

	labels, _ := product.Association("Labels")
	through, err = reg.ResolveThrough(labels)
	require.NoError(t, err)
	assert.Equal(t, "product_labels", through.Name)
	assert.Equal(t, "product_labels", through.Table)

	_, err = reg.ResolveThrough(&Association{Name: "x", Kind: KindManyToMany, Target: "Tag"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNoThrough))

	profile, _ := user.Association("Profile")
	_, err = reg.ResolveThrough(profile)
	require.Error(t, err)
}

func TestLookupType(t *testing.T) {
	reg, err := Parse([]byte(shopYAML))
	require.NoError(t, err)

	_, ok := reg.LookupType("model-usage/store", "User")
	assert.True(t, ok)

	_, ok = reg.LookupType("model-usage/api/dto", "User")
	assert.False(t, ok, "pinned package must match")

	_, ok = reg.LookupType("anything", "Role")
	assert.True(t, ok, "unpinned entities match any package")

	_, ok = reg.LookupType("", "Nope")
	assert.False(t, ok)
}

func TestDefaultTable(t *testing.T) {
	assert.Equal(t, "users", DefaultTable("User"))
	assert.Equal(t, "user_roles", DefaultTable("UserRole"))
	assert.Equal(t, "categories", DefaultTable("Category"))
}

func TestParseKind(t *testing.T) {
	for in, want := range map[string]Kind{
		"belongs-to":    KindBelongsTo,
		"BelongsTo":     KindBelongsTo,
		"has_many":      KindHasMany,
		"many2many":     KindManyToMany,
		"BelongsToMany": KindManyToMany,
	} {
		got, err := ParseKind(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseKind("")
	assert.Error(t, err)
	assert.Equal(t, "unknown", Kind(99).String())
}

func TestWriteFile_RoundTrip(t *testing.T) {
	reg, err := Parse([]byte(shopYAML))
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "registry.yaml")
	require.NoError(t, WriteFile(reg, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "kind: many-to-many")
	assert.Contains(t, string(data), "model: ProductTag")

	again, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, reg.Names(), again.Names())

	product, _ := again.Lookup("Product")
	labels, _ := product.Association("Labels")
	assert.Equal(t, &ThroughRef{Name: "product_labels"}, labels.Through)
}

func TestLoadFile_Missing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read registry file")
}
