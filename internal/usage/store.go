package usage

import (
	"slices"

	"model-usage/internal/common"
)

// Record is the accumulated usage of one entity.
type Record struct {
	Entity string `json:"entity"`
	Table  string `json:"table"`
	Select bool   `json:"select"`
	Insert bool   `json:"insert"`
	Update bool   `json:"update"`
	Delete bool   `json:"delete"`
}

// Ops returns the write operations flagged on the record.
func (r Record) Ops() Ops {
	var ops Ops
	if r.Insert {
		ops |= OpInsert
	}

	if r.Update {
		ops |= OpUpdate
	}

	if r.Delete {
		ops |= OpDelete
	}

	return ops
}

// or switches on every flag in ops; flags already on stay on.
func (r *Record) or(ops Ops) {
	r.Insert = r.Insert || ops.Has(OpInsert)
	r.Update = r.Update || ops.Has(OpUpdate)
	r.Delete = r.Delete || ops.Has(OpDelete)
}

// Store maps entity names to their usage records.
type Store struct {
	records map[string]*Record
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{records: make(map[string]*Record)}
}

// Ensure returns the record for entity, creating a select-only record with
// the given table if none exists. An existing record keeps its table.
func (s *Store) Ensure(entity, table string) *Record {
	if r, ok := s.records[entity]; ok {
		return r
	}

	r := &Record{Entity: entity, Table: table, Select: true}
	s.records[entity] = r

	return r
}

// Apply ensures the record for entity and switches on ops.
func (s *Store) Apply(entity, table string, ops Ops) *Record {
	r := s.Ensure(entity, table)
	r.or(ops)

	return r
}

// Has reports whether entity has a record.
func (s *Store) Has(entity string) bool {
	_, ok := s.records[entity]
	return ok
}

// Get returns a copy of the record for entity.
func (s *Store) Get(entity string) (Record, bool) {
	r, ok := s.records[entity]
	if !ok {
		return Record{}, false
	}

	return *r, true
}

// Len returns the number of records.
func (s *Store) Len() int {
	return len(s.records)
}

// Names returns the entity names in ascending order.
func (s *Store) Names() []string {
	return common.SortedKeys(s.records)
}

// Records returns copies of all records ordered by entity name.
func (s *Store) Records() []Record {
	out := make([]Record, 0, len(s.records))
	for _, name := range s.Names() {
		out = append(out, *s.records[name])
	}

	return out
}

// Merge ORs every record of other into s. Records only present in other are
// copied; flags never go from true to false.
func (s *Store) Merge(other *Store) {
	if other == nil {
		return
	}

	for _, r := range other.records {
		s.Apply(r.Entity, r.Table, r.Ops())
	}
}

// Equal reports whether both stores hold the same records.
func (s *Store) Equal(other *Store) bool {
	return slices.Equal(s.Records(), other.Records())
}
