package usage

import (
	"fmt"

	"model-usage/internal/diagnostic"
	"model-usage/internal/registry"
)

// Complete infers usage of join entities that code never names. The store
// is swept repeatedly until a sweep creates no record. Within a sweep, every
// entity recorded at its start has its many-to-many associations inspected:
// when the join entity had no record and the target had one, the join entity
// gets a record carrying the target's write flags. Targets are read from the
// sweep's starting state and a join record created in the sweep collects the
// flags of every contributing target, so the outcome does not depend on
// iteration order. Join entities created by one sweep are inspected by the
// next, and running Complete again over its own output changes nothing.
func Complete(s *Store, reg *registry.Registry) diagnostic.Diagnostics {
	var diags diagnostic.Diagnostics

	reported := make(map[string]bool)

	for {
		if sweep(s, reg, &diags, reported) == 0 {
			return diags
		}
	}
}

// sweep runs one completion round and returns the number of records created.
func sweep(s *Store, reg *registry.Registry, diags *diagnostic.Diagnostics, reported map[string]bool) int {
	records := s.Records()
	before := make(map[string]Record, len(records))

	for _, rec := range records {
		before[rec.Entity] = rec
	}

	created := 0

	for _, rec := range records {
		entity, ok := reg.Lookup(rec.Entity)
		if !ok {
			continue
		}

		for i := range entity.Associations {
			assoc := &entity.Associations[i]
			if !assoc.IsManyToMany() {
				continue
			}

			through, err := reg.ResolveThrough(assoc)
			if err != nil {
				key := entity.Name + "." + assoc.Name
				if !reported[key] {
					reported[key] = true

					diags.Add(diagnostic.Diagnostic{
						Severity: diagnostic.DiagnosticWarning,
						Code:     diagnostic.CodeUnresolvedThrough,
						Message:  fmt.Sprintf("%s: %v", key, err),
						Entity:   entity.Name,
					})
				}

				continue
			}

			if _, ok := before[through.Name]; ok {
				continue
			}

			target, ok := before[assoc.Target]
			if !ok {
				continue
			}

			if !s.Has(through.Name) {
				created++
			}

			s.Apply(through.Name, through.Table, target.Ops())
		}
	}

	return created
}
