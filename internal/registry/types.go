package registry

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/go-openapi/inflect"

	"model-usage/internal/common"
)

// ErrNoThrough is returned when a many-to-many association declares no join entity.
var ErrNoThrough = errors.New("many-to-many association has no through entity")

// Kind is the cardinality of an association.
type Kind int

const (
	KindInvalid Kind = iota
	KindBelongsTo
	KindHasMany
	KindManyToMany
)

// String returns the canonical spelling used in registry files.
func (k Kind) String() string {
	switch k {
	case KindBelongsTo:
		return "belongs-to"
	case KindHasMany:
		return "has-many"
	case KindManyToMany:
		return "many-to-many"
	default:
		return common.UnknownStr
	}
}

// ParseKind accepts the canonical spelling plus the usual ORM aliases
// (belongsTo, hasOne, hasMany, belongsToMany, many2many, m2m).
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.NewReplacer("-", "", "_", "", " ", "").Replace(s)) {
	case "belongsto", "hasone":
		return KindBelongsTo, nil
	case "hasmany":
		return KindHasMany, nil
	case "manytomany", "belongstomany", "many2many", "m2m":
		return KindManyToMany, nil
	default:
		return KindInvalid, fmt.Errorf("unknown association kind %q", s)
	}
}

// ThroughRef points at the join entity backing a many-to-many association.
//
// It is written either as a plain name (a literal join name or a direct
// reference to a registered entity) or as a wrapper carrying a model field:
//
//	through: UserRole
//	through: {model: UserRole, table: user_roles}
type ThroughRef struct {
	// Name is the literal form.
	Name string
	// Model is the wrapper form; it takes precedence over Name.
	Model string
	// Table overrides the join table name for an unregistered join entity.
	Table string
}

// EntityName returns the join entity name the reference denotes.
func (t *ThroughRef) EntityName() string {
	if t == nil {
		return ""
	}

	if t.Model != "" {
		return t.Model
	}

	return t.Name
}

// Association is a relationship declared on a source entity.
type Association struct {
	Name    string      `yaml:"name"`
	Kind    Kind        `yaml:"kind"`
	Target  string      `yaml:"target"`
	Through *ThroughRef `yaml:"through,omitempty"`
}

// IsManyToMany reports whether the association is backed by a join entity.
func (a *Association) IsManyToMany() bool {
	return a.Kind == KindManyToMany
}

// Entity describes one persistence entity.
type Entity struct {
	Name string `yaml:"name"`
	// Table defaults to the pluralized snake case of Name.
	Table string `yaml:"table,omitempty"`
	// Package optionally pins the Go package path declaring the entity type.
	Package      string        `yaml:"package,omitempty"`
	Associations []Association `yaml:"associations,omitempty"`
	// Implicit is set on join entities synthesized from a through reference
	// that names no registered entity.
	Implicit bool `yaml:"-"`
}

// Association looks up an association by name.
func (e *Entity) Association(name string) (*Association, bool) {
	for i := range e.Associations {
		if e.Associations[i].Name == name {
			return &e.Associations[i], true
		}
	}

	return nil, false
}

// AssociationNames returns the declared association names in declaration order.
func (e *Entity) AssociationNames() []string {
	names := make([]string, 0, len(e.Associations))
	for _, a := range e.Associations {
		names = append(names, a.Name)
	}

	return names
}

// DefaultTable derives a table name from an entity name: "UserRole" -> "user_roles".
func DefaultTable(entity string) string {
	return inflect.Pluralize(inflect.Underscore(entity))
}

// Registry is an immutable set of entities keyed by name.
type Registry struct {
	entities map[string]*Entity
	order    []string
}

// New validates entities and builds a Registry. Missing table names are
// filled with DefaultTable.
func New(entities ...Entity) (*Registry, error) {
	if diags := Validate(entities); !diags.IsValid() {
		return nil, diags.Error()
	}

	r := &Registry{entities: make(map[string]*Entity, len(entities))}

	for i := range entities {
		e := entities[i]
		e.Associations = slices.Clone(e.Associations)

		if e.Table == "" {
			e.Table = DefaultTable(e.Name)
		}

		r.entities[e.Name] = &e
		r.order = append(r.order, e.Name)
	}

	return r, nil
}

// Len returns the number of registered entities.
func (r *Registry) Len() int {
	return len(r.order)
}

// Lookup returns the entity registered under name.
func (r *Registry) Lookup(name string) (*Entity, bool) {
	if r == nil {
		return nil, false
	}

	e, ok := r.entities[name]

	return e, ok
}

// LookupType returns the entity matching a Go type declared in pkgPath. An
// entity without a pinned Package matches any package.
func (r *Registry) LookupType(pkgPath, name string) (*Entity, bool) {
	e, ok := r.Lookup(name)
	if !ok {
		return nil, false
	}

	if e.Package != "" && pkgPath != "" && e.Package != pkgPath {
		return nil, false
	}

	return e, true
}

// Names returns the entity names in registration order.
func (r *Registry) Names() []string {
	return slices.Clone(r.order)
}

// Entities returns the entities in registration order.
func (r *Registry) Entities() []*Entity {
	out := make([]*Entity, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.entities[name])
	}

	return out
}

// ResolveThrough returns the join entity of a many-to-many association.
// A through reference naming a registered entity resolves to it; any other
// non-empty name yields a synthesized implicit entity whose table is the
// wrapper's Table, or the literal itself for the plain form (a literal join
// name is the join table's name). ErrNoThrough is returned when the
// association carries no through reference at all.
func (r *Registry) ResolveThrough(a *Association) (*Entity, error) {
	if a == nil || !a.IsManyToMany() {
		return nil, fmt.Errorf("association is not many-to-many")
	}

	name := a.Through.EntityName()
	if name == "" {
		return nil, fmt.Errorf("association %q: %w", a.Name, ErrNoThrough)
	}

	if e, ok := r.Lookup(name); ok {
		return e, nil
	}

	table := a.Through.Table
	if table == "" {
		if a.Through.Model != "" {
			table = DefaultTable(name)
		} else {
			table = name
		}
	}

	return &Entity{Name: name, Table: table, Implicit: true}, nil
}
