package store

// Customer represents the user placing orders.
type Customer struct {
	Model
	Email    string
	FullName string
	Points   int
	IsActive bool

	Orders []*Order `assoc:"has-many"`
}

// Order represents a transaction made by a customer.
type Order struct {
	Model
	CustomerID int64
	Status     OrderStatus
	TotalCents int64

	Customer *Customer   `assoc:"belongs-to"`
	Items    []OrderItem `assoc:"has-many"`
}

// OrderItem is one product line within an order. It snapshots the price at
// the time of purchase.
type OrderItem struct {
	Model
	OrderID   int64
	ProductID int64
	Quantity  int
	UnitPrice int64

	Order   *Order   `assoc:"belongs-to"`
	Product *Product `assoc:"belongs-to"`
}

// TableName overrides the default "order_items".
func (OrderItem) TableName() string { return "order_lines" }

// Product represents an individual item available for sale.
type Product struct {
	Model
	SKU        string
	Name       string
	PriceCents int64
	Inventory  int

	Tags []*Tag `assoc:"many-to-many,through=ProductTag"`
}

// Tag labels products.
type Tag struct {
	Model
	Label string

	Products []*Product `assoc:"many-to-many,through=ProductTag"`
}

// ProductTag is the join row between products and tags.
type ProductTag struct {
	Model
	ProductID int64
	TagID     int64
}

// OrderStatus is a custom type for type-safe status handling.
type OrderStatus string

const (
	StatusPending   OrderStatus = "PENDING"
	StatusPaid      OrderStatus = "PAID"
	StatusShipped   OrderStatus = "SHIPPED"
	StatusCancelled OrderStatus = "CANCELLED"
)
