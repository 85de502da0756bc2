// Package warehouse implements order and catalogue workflows on top of the
// store models. The analyzer's tests use it as the code base whose model
// usage is inferred.
package warehouse

import (
	"context"
	"fmt"

	"model-usage/store"
)

const tagsAssociation = "Tags"

// Service runs shop workflows.
type Service struct {
	db *store.DB
}

// NewService returns a Service backed by db.
func NewService(db *store.DB) *Service {
	return &Service{db: db}
}

// RegisterCustomer inserts a new customer.
func (s *Service) RegisterCustomer(ctx context.Context, c *store.Customer) error {
	c.IsActive = true
	return s.db.Customer.Create(ctx, c)
}

// PlaceOrder records an order with its lines and credits loyalty points.
func (s *Service) PlaceOrder(ctx context.Context, c *store.Customer, items []store.OrderItem) (*store.Order, error) {
	order := &store.Order{CustomerID: c.ID, Status: store.StatusPending}
	if err := s.db.Order.Create(ctx, order); err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}

	lines := make([]*store.OrderItem, 0, len(items))
	for i := range items {
		items[i].OrderID = order.ID
		lines = append(lines, &items[i])
	}

	if err := s.db.OrderItem.BulkCreate(ctx, lines); err != nil {
		return nil, fmt.Errorf("create order lines: %w", err)
	}

	if err := c.Increment(ctx, "Points", len(items)); err != nil {
		return nil, err
	}

	return order, nil
}

// CancelOrder marks an order cancelled.
func (s *Service) CancelOrder(ctx context.Context, o *store.Order) error {
	o.Status = store.StatusCancelled
	return o.Save(ctx)
}

// PurgeOrder deletes an order by id.
func (s *Service) PurgeOrder(ctx context.Context, id int64) error {
	o, err := s.db.Order.FindByID(ctx, id)
	if err != nil {
		return err
	}

	return o.Destroy(ctx)
}

// TagProduct links one tag to a product.
func (s *Service) TagProduct(p *store.Product, tag *store.Tag) error {
	return p.AddAssoc("Tags", tag)
}

// RetagProduct replaces a product's tags.
func (s *Service) RetagProduct(p *store.Product, tags []*store.Tag) error {
	return p.SetAssoc(tagsAssociation, tags)
}

// Untag unlinks a tag through a caller-chosen association.
func (s *Service) Untag(p *store.Product, association string, tag *store.Tag) error {
	return p.RemoveAssoc(association, tag)
}

// TagCount counts a product's tags.
func (s *Service) TagCount(p *store.Product) (int, error) {
	return p.CountAssoc("Tags")
}

// ClearTags unlinks every tag of a product.
func (s *Service) ClearTags(p *store.Product) error {
	return p.ClearAssoc("Tags", nil)
}

// Touch saves any value that knows how to save itself.
func Touch(ctx context.Context, v any) error {
	if saver, ok := v.(interface{ Save(context.Context) error }); ok {
		return saver.Save(ctx)
	}

	return nil
}
