// Package store declares the persistence models of a small shop together with
// the minimal active-record runtime they are built on. The analyzer's tests
// load it as the "model layer" of a project under analysis.
package store

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when a row does not exist.
var ErrNotFound = errors.New("store: not found")

// Model is embedded by every persisted entity.
type Model struct {
	ID        int64
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt *time.Time
}

// Save persists the receiver's changed columns.
func (m *Model) Save(ctx context.Context) error {
	m.UpdatedAt = time.Now()
	return ctx.Err()
}

// Update assigns values and saves them.
func (m *Model) Update(ctx context.Context, values map[string]any) error {
	return m.Save(ctx)
}

// Increment adds by to a numeric column.
func (m *Model) Increment(ctx context.Context, column string, by int) error {
	return m.Save(ctx)
}

// Destroy deletes the row (soft delete when the table is paranoid).
func (m *Model) Destroy(ctx context.Context) error {
	now := time.Now()
	m.DeletedAt = &now

	return ctx.Err()
}

// Restore undoes a soft delete.
func (m *Model) Restore(ctx context.Context) error {
	m.DeletedAt = nil
	return ctx.Err()
}

// Reload re-reads the row.
func (m *Model) Reload(ctx context.Context) error {
	return ctx.Err()
}

// AddAssoc links values to the named association.
func (m *Model) AddAssoc(association string, values ...any) error { return nil }

// CreateAssoc creates a new associated row and links it.
func (m *Model) CreateAssoc(association string, values ...any) error { return nil }

// SetAssoc replaces the named association's links with values.
func (m *Model) SetAssoc(association string, values ...any) error { return nil }

// RemoveAssoc unlinks values from the named association.
func (m *Model) RemoveAssoc(association string, values ...any) error { return nil }

// CountAssoc counts the rows linked through the named association.
func (m *Model) CountAssoc(association string, where ...any) (int, error) { return 0, nil }

// ClearAssoc unlinks everything from the named association.
func (m *Model) ClearAssoc(association string, values ...any) error { return nil }

// Table is the static, per-entity entry point.
type Table[T any] struct {
	name string
}

// NewTable returns the table accessor for T.
func NewTable[T any](name string) *Table[T] {
	return &Table[T]{name: name}
}

// Name returns the table name.
func (t *Table[T]) Name() string { return t.name }

// Create inserts one row.
func (t *Table[T]) Create(ctx context.Context, row *T) error { return ctx.Err() }

// BulkCreate inserts many rows.
func (t *Table[T]) BulkCreate(ctx context.Context, rows []*T) error { return ctx.Err() }

// FindOrCreate returns the row matching where, inserting defaults when missing.
func (t *Table[T]) FindOrCreate(ctx context.Context, where map[string]any, defaults *T) (*T, error) {
	return defaults, ctx.Err()
}

// FindAll returns every row matching where.
func (t *Table[T]) FindAll(ctx context.Context, where map[string]any) ([]*T, error) {
	return nil, ctx.Err()
}

// FindByID returns one row.
func (t *Table[T]) FindByID(ctx context.Context, id int64) (*T, error) {
	return nil, ErrNotFound
}

// Upsert inserts or updates a row.
func (t *Table[T]) Upsert(ctx context.Context, row *T) error { return ctx.Err() }

// BulkUpdate updates every row matching where.
func (t *Table[T]) BulkUpdate(ctx context.Context, values, where map[string]any) (int64, error) {
	return 0, ctx.Err()
}

// Destroy deletes every row matching where.
func (t *Table[T]) Destroy(ctx context.Context, where map[string]any) (int64, error) {
	return 0, ctx.Err()
}

// Partial is a view over a subset of T's columns that can still be saved.
type Partial[T any] struct {
	Model
	Columns map[string]any
}

// Audited wraps an entity with audit columns.
type Audited[T any] struct {
	Model
	Row       T
	ChangedBy string
}

// DB groups the table accessors.
type DB struct {
	Customer  *Table[Customer]
	Order     *Table[Order]
	OrderItem *Table[OrderItem]
	Product   *Table[Product]
	Tag       *Table[Tag]
}

// Open returns a DB with every accessor initialised.
func Open() *DB {
	return &DB{
		Customer:  NewTable[Customer]("customers"),
		Order:     NewTable[Order]("orders"),
		OrderItem: NewTable[OrderItem]("order_items"),
		Product:   NewTable[Product]("products"),
		Tag:       NewTable[Tag]("tags"),
	}
}
