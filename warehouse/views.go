package warehouse

import (
	"context"

	shop "model-usage/store"
)

// VIPCustomer is a customer with a loyalty tier.
type VIPCustomer struct {
	shop.Customer
	Tier int
}

// Promote raises a VIP's tier.
func Promote(ctx context.Context, v *VIPCustomer) error {
	v.Tier++
	return v.Update(ctx, map[string]any{"tier": v.Tier})
}

// CustomerSummary is a partial view over customer columns.
type CustomerSummary struct {
	shop.Partial[shop.Customer]
}

// Deactivate flips the active flag through the summary view.
func Deactivate(ctx context.Context, s *CustomerSummary) error {
	s.Columns["is_active"] = false
	return s.Save(ctx)
}

type auditedOrder = shop.Audited[shop.Order]

// OrderAudit is an audited order revision.
type OrderAudit struct {
	auditedOrder
}

// Revert restores a deleted order revision.
func Revert(ctx context.Context, a *OrderAudit) error {
	return a.Restore(ctx)
}
