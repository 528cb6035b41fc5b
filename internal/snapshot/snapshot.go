package snapshot

import (
	"errors"
	"fmt"

	"github.com/gofrs/uuid"
)

// ErrMalformedSnapshot marks referential or invariant violations detected at
// build time. A snapshot that fails validation is never handed to callers.
var ErrMalformedSnapshot = errors.New("malformed snapshot")

// Builder collects entities and relationship rows for a single query session.
// Build validates the whole set at once and freezes it into a Snapshot.
type Builder struct {
	customers  []Customer
	orders     []Order
	items      []OrderItem
	products   []Product
	categories []Category
	carriers   []Carrier
	links      []categoryLink
}

type categoryLink struct {
	ProductID  uuid.UUID
	CategoryID uuid.UUID
}

func NewBuilder() *Builder {
	return &Builder{}
}

func (b *Builder) AddCustomer(c Customer) { b.customers = append(b.customers, c) }

func (b *Builder) AddOrder(o Order) { b.orders = append(b.orders, o) }

func (b *Builder) AddOrderItem(i OrderItem) { b.items = append(b.items, i) }

func (b *Builder) AddProduct(p Product) { b.products = append(b.products, p) }

func (b *Builder) AddCategory(c Category) { b.categories = append(b.categories, c) }

func (b *Builder) AddCarrier(c Carrier) { b.carriers = append(b.carriers, c) }

// AssignCategory records a product↔category membership. Both endpoints are
// validated during Build.
func (b *Builder) AssignCategory(productID, categoryID uuid.UUID) {
	b.links = append(b.links, categoryLink{ProductID: productID, CategoryID: categoryID})
}

// Build validates referential integrity and freezes the collected entities.
// Any violation aborts the whole build — a partially valid snapshot would
// produce misleading aggregates.
func (b *Builder) Build() (*Snapshot, error) {
	s := &Snapshot{
		customers:           b.customers,
		orders:              b.orders,
		products:            b.products,
		categories:          b.categories,
		carriers:            b.carriers,
		customersByID:       make(map[uuid.UUID]Customer, len(b.customers)),
		ordersByID:          make(map[uuid.UUID]Order, len(b.orders)),
		productsByID:        make(map[uuid.UUID]Product, len(b.products)),
		categoriesByID:      make(map[uuid.UUID]Category, len(b.categories)),
		categoriesByName:    make(map[string]Category, len(b.categories)),
		carriersByID:        make(map[uuid.UUID]Carrier, len(b.carriers)),
		ordersByCustomer:    make(map[uuid.UUID][]Order),
		itemsByOrder:        make(map[uuid.UUID][]OrderItem),
		itemsByProduct:      make(map[uuid.UUID][]OrderItem),
		categoriesByProduct: make(map[uuid.UUID][]Category),
		productsByCategory:  make(map[uuid.UUID][]Product),
	}

	for _, c := range b.customers {
		if _, ok := s.customersByID[c.ID]; ok {
			return nil, fmt.Errorf("snapshot: duplicate customer id %s: %w", c.ID, ErrMalformedSnapshot)
		}
		s.customersByID[c.ID] = c
	}
	for _, p := range b.products {
		if _, ok := s.productsByID[p.ID]; ok {
			return nil, fmt.Errorf("snapshot: duplicate product id %s: %w", p.ID, ErrMalformedSnapshot)
		}
		s.productsByID[p.ID] = p
	}
	for _, c := range b.categories {
		if _, ok := s.categoriesByID[c.ID]; ok {
			return nil, fmt.Errorf("snapshot: duplicate category id %s: %w", c.ID, ErrMalformedSnapshot)
		}
		s.categoriesByID[c.ID] = c
		s.categoriesByName[c.Name] = c
	}
	for _, c := range b.carriers {
		if _, ok := s.carriersByID[c.ID]; ok {
			return nil, fmt.Errorf("snapshot: duplicate carrier id %s: %w", c.ID, ErrMalformedSnapshot)
		}
		s.carriersByID[c.ID] = c
	}

	for _, o := range b.orders {
		if _, ok := s.ordersByID[o.ID]; ok {
			return nil, fmt.Errorf("snapshot: duplicate order id %s: %w", o.ID, ErrMalformedSnapshot)
		}
		if _, ok := s.customersByID[o.CustomerID]; !ok {
			return nil, fmt.Errorf("snapshot: order %s references unknown customer %s: %w", o.ID, o.CustomerID, ErrMalformedSnapshot)
		}
		if o.CarrierID.Valid {
			if _, ok := s.carriersByID[o.CarrierID.UUID]; !ok {
				return nil, fmt.Errorf("snapshot: order %s references unknown carrier %s: %w", o.ID, o.CarrierID.UUID, ErrMalformedSnapshot)
			}
		}
		s.ordersByID[o.ID] = o
		s.ordersByCustomer[o.CustomerID] = append(s.ordersByCustomer[o.CustomerID], o)
	}

	for _, item := range b.items {
		if _, ok := s.ordersByID[item.OrderID]; !ok {
			return nil, fmt.Errorf("snapshot: order item %s references unknown order %s: %w", item.ID, item.OrderID, ErrMalformedSnapshot)
		}
		if _, ok := s.productsByID[item.ProductID]; !ok {
			return nil, fmt.Errorf("snapshot: order item %s references unknown product %s: %w", item.ID, item.ProductID, ErrMalformedSnapshot)
		}
		if item.Quantity < 1 {
			return nil, fmt.Errorf("snapshot: order item %s has quantity %d, must be at least 1: %w", item.ID, item.Quantity, ErrMalformedSnapshot)
		}
		s.itemsByOrder[item.OrderID] = append(s.itemsByOrder[item.OrderID], item)
		s.itemsByProduct[item.ProductID] = append(s.itemsByProduct[item.ProductID], item)
	}

	for _, link := range b.links {
		product, ok := s.productsByID[link.ProductID]
		if !ok {
			return nil, fmt.Errorf("snapshot: category assignment references unknown product %s: %w", link.ProductID, ErrMalformedSnapshot)
		}
		category, ok := s.categoriesByID[link.CategoryID]
		if !ok {
			return nil, fmt.Errorf("snapshot: category assignment references unknown category %s: %w", link.CategoryID, ErrMalformedSnapshot)
		}
		s.categoriesByProduct[link.ProductID] = append(s.categoriesByProduct[link.ProductID], category)
		s.productsByCategory[link.CategoryID] = append(s.productsByCategory[link.CategoryID], product)
	}

	return s, nil
}

// Snapshot is an immutable, fully materialized view of the six entity kinds
// and their relationships. All navigations are pre-resolved index lookups, so
// a snapshot is safe for any number of concurrent readers. Returned slices
// are shared and must be treated as read-only.
type Snapshot struct {
	customers  []Customer
	orders     []Order
	products   []Product
	categories []Category
	carriers   []Carrier

	customersByID    map[uuid.UUID]Customer
	ordersByID       map[uuid.UUID]Order
	productsByID     map[uuid.UUID]Product
	categoriesByID   map[uuid.UUID]Category
	categoriesByName map[string]Category
	carriersByID     map[uuid.UUID]Carrier

	ordersByCustomer    map[uuid.UUID][]Order
	itemsByOrder        map[uuid.UUID][]OrderItem
	itemsByProduct      map[uuid.UUID][]OrderItem
	categoriesByProduct map[uuid.UUID][]Category
	productsByCategory  map[uuid.UUID][]Product
}

func (s *Snapshot) Customers() []Customer { return s.customers }

func (s *Snapshot) Orders() []Order { return s.orders }

func (s *Snapshot) Products() []Product { return s.products }

func (s *Snapshot) Categories() []Category { return s.categories }

func (s *Snapshot) Carriers() []Carrier { return s.carriers }

func (s *Snapshot) CustomerByID(id uuid.UUID) (Customer, bool) {
	c, ok := s.customersByID[id]
	return c, ok
}

func (s *Snapshot) OrderByID(id uuid.UUID) (Order, bool) {
	o, ok := s.ordersByID[id]
	return o, ok
}

func (s *Snapshot) ProductByID(id uuid.UUID) (Product, bool) {
	p, ok := s.productsByID[id]
	return p, ok
}

func (s *Snapshot) CategoryByID(id uuid.UUID) (Category, bool) {
	c, ok := s.categoriesByID[id]
	return c, ok
}

// CategoryByName is an exact-match lookup. A missing name is valid domain
// state (the category report returns no rows), not an error.
func (s *Snapshot) CategoryByName(name string) (Category, bool) {
	c, ok := s.categoriesByName[name]
	return c, ok
}

func (s *Snapshot) CarrierByID(id uuid.UUID) (Carrier, bool) {
	c, ok := s.carriersByID[id]
	return c, ok
}

// CustomerOrders returns the orders owned by a customer, in load order.
func (s *Snapshot) CustomerOrders(customerID uuid.UUID) []Order {
	return s.ordersByCustomer[customerID]
}

// OrderItems returns the items of an order, in load order.
func (s *Snapshot) OrderItems(orderID uuid.UUID) []OrderItem {
	return s.itemsByOrder[orderID]
}

// OrderCustomer resolves the owning customer of an order.
func (s *Snapshot) OrderCustomer(o Order) (Customer, bool) {
	return s.CustomerByID(o.CustomerID)
}

// OrderCarrier resolves the carrier assigned to a shipped order. Unshipped
// orders have no carrier and resolve to ok=false.
func (s *Snapshot) OrderCarrier(o Order) (Carrier, bool) {
	if !o.CarrierID.Valid {
		return Carrier{}, false
	}
	return s.CarrierByID(o.CarrierID.UUID)
}

// ItemProduct resolves the product an order item refers to.
func (s *Snapshot) ItemProduct(item OrderItem) (Product, bool) {
	return s.ProductByID(item.ProductID)
}

// ProductOrderItems returns every order item referencing a product.
func (s *Snapshot) ProductOrderItems(productID uuid.UUID) []OrderItem {
	return s.itemsByProduct[productID]
}

// ProductCategories resolves the many-to-many membership from the product side.
func (s *Snapshot) ProductCategories(productID uuid.UUID) []Category {
	return s.categoriesByProduct[productID]
}

// CategoryProducts resolves the many-to-many membership from the category side.
func (s *Snapshot) CategoryProducts(categoryID uuid.UUID) []Product {
	return s.productsByCategory[categoryID]
}
