package report

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/gofrs/uuid"
	"github.com/rs/zerolog/log"

	"github.com/vasiliy-maslov/ecommerce-microservices/report-service/internal/snapshot"
)

var (
	ErrNegativeWindow = errors.New("recency window must be non-negative")
	ErrEmptyCategory  = errors.New("category name is required")
)

// Service exposes one operation per reporting view. Every operation is a pure
// read over the snapshot bound at construction: re-running an operation
// against the same snapshot always yields the same rows in the same order.
type Service interface {
	Customers(ctx context.Context) ([]CustomerRow, error)
	OrderItemCounts(ctx context.Context) ([]OrderItemCountRow, error)
	ProductsByPrice(ctx context.Context) ([]ProductPriceRow, error)
	PendingOrders(ctx context.Context) ([]PendingOrderRow, error)
	OrderCountPerCustomer(ctx context.Context) ([]CustomerOrderCountRow, error)
	TopCustomersByValue(ctx context.Context, n int) ([]CustomerValueRow, error)
	RecentOrders(ctx context.Context, days int) ([]RecentOrderRow, error)
	TotalSoldPerProduct(ctx context.Context) ([]ProductSoldRow, error)
	DiscountedOrders(ctx context.Context) ([]DiscountedOrderRow, error)
	OrdersWithCategory(ctx context.Context, categoryName string) ([]CategoryOrderRow, error)
}

type service struct {
	snap *snapshot.Snapshot
	now  func() time.Time
}

// Option configures service behavior.
type Option func(*service)

// WithClock replaces the reference-instant source. The recency filter captures
// one instant per query evaluation from this clock.
func WithClock(now func() time.Time) Option {
	return func(s *service) {
		s.now = now
	}
}

func NewService(snap *snapshot.Snapshot, opts ...Option) Service {
	s := &service{
		snap: snap,
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Customers lists every customer as (full name, email), ordered by name then
// email.
func (s *service) Customers(ctx context.Context) ([]CustomerRow, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	rows := Project(s.snap.Customers(), func(c snapshot.Customer) CustomerRow {
		return CustomerRow{FullName: c.FullName(), Email: c.Email}
	})

	SortStable(rows,
		func(a, b CustomerRow) int { return strings.Compare(a.FullName, b.FullName) },
		func(a, b CustomerRow) int { return strings.Compare(a.Email, b.Email) },
	)

	return rows, nil
}

// OrderItemCounts lists every order with its item count, ordered by order
// date then order id.
func (s *service) OrderItemCounts(ctx context.Context) ([]OrderItemCountRow, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	rows := make([]OrderItemCountRow, 0, len(s.snap.Orders()))
	for _, o := range s.snap.Orders() {
		customer, err := s.orderCustomer(o)
		if err != nil {
			return nil, err
		}
		rows = append(rows, OrderItemCountRow{
			OrderID:      o.ID,
			CustomerName: customer.FullName(),
			Status:       o.Status,
			ItemCount:    len(s.snap.OrderItems(o.ID)),
		})
	}

	SortStable(rows,
		func(a, b OrderItemCountRow) int { return compareOrders(s.snap, a.OrderID, b.OrderID) },
		nil,
	)

	return rows, nil
}

// ProductsByPrice lists every product ordered by price descending, ties
// broken by name ascending.
func (s *service) ProductsByPrice(ctx context.Context) ([]ProductPriceRow, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	rows := Project(s.snap.Products(), func(p snapshot.Product) ProductPriceRow {
		return ProductPriceRow{ProductName: p.Name, Price: p.Price}
	})

	SortStable(rows,
		func(a, b ProductPriceRow) int { return b.Price.Cmp(a.Price) },
		func(a, b ProductPriceRow) int { return strings.Compare(a.ProductName, b.ProductName) },
	)

	return rows, nil
}

// PendingOrders lists orders still pending with their computed totals,
// ordered by order date then order id.
func (s *service) PendingOrders(ctx context.Context) ([]PendingOrderRow, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	pending := Filter(s.snap.Orders(), StatusIs(snapshot.StatusPending))

	rows := make([]PendingOrderRow, 0, len(pending))
	for _, o := range pending {
		customer, err := s.orderCustomer(o)
		if err != nil {
			return nil, err
		}
		rows = append(rows, PendingOrderRow{
			OrderID:      o.ID,
			CustomerName: customer.FullName(),
			OrderDate:    o.OrderDate,
			Total:        OrderTotal(s.snap, o.ID),
		})
	}

	SortStable(rows,
		func(a, b PendingOrderRow) int { return a.OrderDate.Compare(b.OrderDate) },
		func(a, b PendingOrderRow) int { return strings.Compare(a.OrderID.String(), b.OrderID.String()) },
	)

	return rows, nil
}

// OrderCountPerCustomer counts orders per customer, ordered by name. The
// driving collection is every customer, so a customer with zero orders still
// gets a row with count 0.
func (s *service) OrderCountPerCustomer(ctx context.Context) ([]CustomerOrderCountRow, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	rows := Project(s.snap.Customers(), func(c snapshot.Customer) CustomerOrderCountRow {
		return CustomerOrderCountRow{
			CustomerName: c.FullName(),
			OrderCount:   len(s.snap.CustomerOrders(c.ID)),
		}
	})

	SortStable(rows,
		func(a, b CustomerOrderCountRow) int { return strings.Compare(a.CustomerName, b.CustomerName) },
		nil,
	)

	return rows, nil
}

// TopCustomersByValue ranks customers by summed order value descending, ties
// broken by name ascending, truncated to the first n. n ≤ 0 yields no rows.
func (s *service) TopCustomersByValue(ctx context.Context, n int) ([]CustomerValueRow, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	rows := Project(s.snap.Customers(), func(c snapshot.Customer) CustomerValueRow {
		return CustomerValueRow{
			CustomerName: c.FullName(),
			TotalValue:   CustomerTotal(s.snap, c.ID),
		}
	})

	SortStable(rows,
		func(a, b CustomerValueRow) int { return b.TotalValue.Cmp(a.TotalValue) },
		func(a, b CustomerValueRow) int { return strings.Compare(a.CustomerName, b.CustomerName) },
	)

	return TopN(rows, n), nil
}

// RecentOrders lists orders placed within the last days, boundary inclusive.
// The reference instant is captured once per evaluation, so every order is
// judged against the same cutoff.
func (s *service) RecentOrders(ctx context.Context, days int) ([]RecentOrderRow, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if days < 0 {
		return nil, fmt.Errorf("report: invalid recency window %d: %w", days, ErrNegativeWindow)
	}

	cutoff := s.now().AddDate(0, 0, -days)
	recent := Filter(s.snap.Orders(), PlacedSince(cutoff))

	rows := make([]RecentOrderRow, 0, len(recent))
	for _, o := range recent {
		customer, err := s.orderCustomer(o)
		if err != nil {
			return nil, err
		}
		rows = append(rows, RecentOrderRow{
			OrderID:      o.ID,
			OrderDate:    o.OrderDate,
			CustomerName: customer.FullName(),
		})
	}

	SortStable(rows,
		func(a, b RecentOrderRow) int { return b.OrderDate.Compare(a.OrderDate) },
		func(a, b RecentOrderRow) int { return strings.Compare(a.OrderID.String(), b.OrderID.String()) },
	)

	return rows, nil
}

// TotalSoldPerProduct sums sold quantities per product, descending, ties
// broken by name ascending. Every product appears, 0 if never sold.
func (s *service) TotalSoldPerProduct(ctx context.Context) ([]ProductSoldRow, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	rows := Project(s.snap.Products(), func(p snapshot.Product) ProductSoldRow {
		return ProductSoldRow{
			ProductName: p.Name,
			TotalSold:   ProductUnitsSold(s.snap, p.ID),
		}
	})

	SortStable(rows,
		func(a, b ProductSoldRow) int { return b.TotalSold - a.TotalSold },
		func(a, b ProductSoldRow) int { return strings.Compare(a.ProductName, b.ProductName) },
	)

	return rows, nil
}

// DiscountedOrders lists orders containing at least one item with a discount
// greater than zero, with the distinct names of the discounted products.
// Orders whose items all lack a discount never appear.
func (s *service) DiscountedOrders(ctx context.Context) ([]DiscountedOrderRow, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	rows := make([]DiscountedOrderRow, 0)
	for _, o := range s.snap.Orders() {
		items := s.snap.OrderItems(o.ID)
		if !Any(items, HasDiscount) {
			continue
		}

		names, err := s.distinctProductNames(Filter(items, HasDiscount))
		if err != nil {
			return nil, err
		}

		customer, err := s.orderCustomer(o)
		if err != nil {
			return nil, err
		}

		rows = append(rows, DiscountedOrderRow{
			OrderID:      o.ID,
			CustomerName: customer.FullName(),
			ProductNames: names,
		})
	}

	SortStable(rows,
		func(a, b DiscountedOrderRow) int { return compareOrders(s.snap, a.OrderID, b.OrderID) },
		nil,
	)

	return rows, nil
}

// OrdersWithCategory lists orders containing at least one product belonging
// to the named category, with the distinct matching product names. An order
// appears at most once no matter how many items or category memberships
// match. An unknown category yields no rows.
func (s *service) OrdersWithCategory(ctx context.Context, categoryName string) ([]CategoryOrderRow, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if categoryName == "" {
		return nil, fmt.Errorf("report: %w", ErrEmptyCategory)
	}

	category, ok := s.snap.CategoryByName(categoryName)
	if !ok {
		log.Debug().Str("category", categoryName).Msg("report: category not found, returning no rows")
		return []CategoryOrderRow{}, nil
	}

	inCategory := make(map[string]bool)
	for _, p := range s.snap.CategoryProducts(category.ID) {
		inCategory[p.ID.String()] = true
	}

	rows := make([]CategoryOrderRow, 0)
	for _, o := range s.snap.Orders() {
		matching := Filter(s.snap.OrderItems(o.ID), func(item snapshot.OrderItem) bool {
			return inCategory[item.ProductID.String()]
		})
		if len(matching) == 0 {
			continue
		}

		names, err := s.distinctProductNames(matching)
		if err != nil {
			return nil, err
		}

		customer, err := s.orderCustomer(o)
		if err != nil {
			return nil, err
		}

		rows = append(rows, CategoryOrderRow{
			OrderID:      o.ID,
			CustomerName: customer.FullName(),
			ProductNames: names,
		})
	}

	SortStable(rows,
		func(a, b CategoryOrderRow) int { return compareOrders(s.snap, a.OrderID, b.OrderID) },
		nil,
	)

	return rows, nil
}

// orderCustomer resolves the owning customer. Build-time validation
// guarantees the reference resolves; a miss here means the snapshot contract
// was broken and the query must not continue.
func (s *service) orderCustomer(o snapshot.Order) (snapshot.Customer, error) {
	customer, ok := s.snap.OrderCustomer(o)
	if !ok {
		return snapshot.Customer{}, fmt.Errorf("report: order %s references unknown customer %s: %w",
			o.ID, o.CustomerID, snapshot.ErrMalformedSnapshot)
	}
	return customer, nil
}

// distinctProductNames resolves items to product names, de-duplicated and
// sorted ascending.
func (s *service) distinctProductNames(items []snapshot.OrderItem) ([]string, error) {
	seen := make(map[string]bool)
	names := make([]string, 0, len(items))
	for _, item := range items {
		product, ok := s.snap.ItemProduct(item)
		if !ok {
			return nil, fmt.Errorf("report: order item %s references unknown product %s: %w",
				item.ID, item.ProductID, snapshot.ErrMalformedSnapshot)
		}
		if !seen[product.Name] {
			seen[product.Name] = true
			names = append(names, product.Name)
		}
	}

	sort.Strings(names)

	return names, nil
}

// compareOrders orders by order date ascending, then order id, giving every
// order-driven view a deterministic row order.
func compareOrders(snap *snapshot.Snapshot, aID, bID uuid.UUID) int {
	a, aOK := snap.OrderByID(aID)
	b, bOK := snap.OrderByID(bID)
	if aOK && bOK {
		if c := a.OrderDate.Compare(b.OrderDate); c != 0 {
			return c
		}
	}
	return strings.Compare(aID.String(), bID.String())
}
