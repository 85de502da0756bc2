package registry

import (
	"fmt"
	"go/token"

	"model-usage/internal/diagnostic"
)

// Validation codes.
const (
	codeEmptyName            = "empty_entity_name"
	codeDuplicateEntity      = "duplicate_entity"
	codeEmptyAssociation     = "empty_association_name"
	codeDuplicateAssociation = "duplicate_association"
	codeInvalidKind          = "invalid_association_kind"
	codeMissingTarget        = "missing_association_target"
	codeUnexpectedThrough    = "unexpected_through"
	codeUnknownTarget        = "unknown_association_target"
)

// Validate checks the structure of an entity list. Structural problems are
// errors; references to entities that are not registered are only warnings
// since a registry may legitimately describe part of a schema.
func Validate(entities []Entity) *diagnostic.Diagnostics {
	res := &diagnostic.Diagnostics{}
	seen := make(map[string]struct{}, len(entities))
	nowhere := token.Position{}

	for i := range entities {
		e := &entities[i]
		if e.Name == "" {
			res.AddError(codeEmptyName, fmt.Sprintf("entity #%d has no name", i), nowhere)
			continue
		}

		if _, ok := seen[e.Name]; ok {
			res.AddError(codeDuplicateEntity, fmt.Sprintf("duplicate entity %q", e.Name), nowhere)
			continue
		}

		seen[e.Name] = struct{}{}
		validateAssociations(res, e)
	}

	for i := range entities {
		for _, a := range entities[i].Associations {
			if a.Target == "" {
				continue
			}

			if _, ok := seen[a.Target]; !ok {
				res.AddWarning(codeUnknownTarget,
					fmt.Sprintf("%s.%s targets unregistered entity %q", entities[i].Name, a.Name, a.Target), nowhere)
			}
		}
	}

	return res
}

func validateAssociations(res *diagnostic.Diagnostics, e *Entity) {
	names := make(map[string]struct{}, len(e.Associations))
	nowhere := token.Position{}

	for i, a := range e.Associations {
		if a.Name == "" {
			res.AddError(codeEmptyAssociation, fmt.Sprintf("%s: association #%d has no name", e.Name, i), nowhere)
			continue
		}

		if _, ok := names[a.Name]; ok {
			res.AddError(codeDuplicateAssociation, fmt.Sprintf("%s: duplicate association %q", e.Name, a.Name), nowhere)
			continue
		}

		names[a.Name] = struct{}{}

		if a.Kind == KindInvalid || a.Kind > KindManyToMany {
			res.AddError(codeInvalidKind, fmt.Sprintf("%s.%s: invalid kind", e.Name, a.Name), nowhere)
		}

		if a.Target == "" {
			res.AddError(codeMissingTarget, fmt.Sprintf("%s.%s: missing target", e.Name, a.Name), nowhere)
		}

		if a.Through != nil && a.Kind != KindManyToMany {
			res.AddError(codeUnexpectedThrough,
				fmt.Sprintf("%s.%s: through is only valid on many-to-many associations", e.Name, a.Name), nowhere)
		}
	}
}
