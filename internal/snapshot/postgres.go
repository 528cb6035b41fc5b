package snapshot

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
)

// Source hands out fully materialized snapshots. The report core never talks
// to storage directly — it only ever sees the result of Load.
type Source interface {
	Load(ctx context.Context) (*Snapshot, error)
}

type postgresSource struct {
	db *pgxpool.Pool
}

func NewPostgresSource(db *pgxpool.Pool) Source {
	return &postgresSource{db: db}
}

// Load reads all six entity kinds plus the product↔category junction and
// builds one snapshot. Builder validation runs after loading, so a malformed
// database state aborts the whole load instead of surfacing as wrong totals.
func (s *postgresSource) Load(ctx context.Context) (*Snapshot, error) {
	b := NewBuilder()

	if err := s.loadCustomers(ctx, b); err != nil {
		return nil, err
	}
	if err := s.loadCarriers(ctx, b); err != nil {
		return nil, err
	}
	if err := s.loadProducts(ctx, b); err != nil {
		return nil, err
	}
	if err := s.loadCategories(ctx, b); err != nil {
		return nil, err
	}
	if err := s.loadOrders(ctx, b); err != nil {
		return nil, err
	}
	if err := s.loadOrderItems(ctx, b); err != nil {
		return nil, err
	}
	if err := s.loadCategoryLinks(ctx, b); err != nil {
		return nil, err
	}

	snap, err := b.Build()
	if err != nil {
		log.Error().Err(err).Msg("source: loaded data failed snapshot validation")
		return nil, fmt.Errorf("source: failed to build snapshot: %w", err)
	}

	log.Info().
		Int("customers", len(snap.Customers())).
		Int("orders", len(snap.Orders())).
		Int("products", len(snap.Products())).
		Int("categories", len(snap.Categories())).
		Int("carriers", len(snap.Carriers())).
		Msg("source: snapshot loaded")

	return snap, nil
}

func (s *postgresSource) loadCustomers(ctx context.Context, b *Builder) error {
	query := `
		SELECT id, first_name, last_name, email
		FROM customers
	`

	rows, err := s.db.Query(ctx, query)
	if err != nil {
		return fmt.Errorf("source: failed to query customers: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var c Customer
		if err := rows.Scan(&c.ID, &c.FirstName, &c.LastName, &c.Email); err != nil {
			return fmt.Errorf("source: failed to scan customer: %w", err)
		}
		b.AddCustomer(c)
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("source: error iterating customers: %w", err)
	}

	return nil
}

func (s *postgresSource) loadCarriers(ctx context.Context, b *Builder) error {
	query := `
		SELECT id, name, phone
		FROM carriers
	`

	rows, err := s.db.Query(ctx, query)
	if err != nil {
		return fmt.Errorf("source: failed to query carriers: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var c Carrier
		if err := rows.Scan(&c.ID, &c.Name, &c.Phone); err != nil {
			return fmt.Errorf("source: failed to scan carrier: %w", err)
		}
		b.AddCarrier(c)
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("source: error iterating carriers: %w", err)
	}

	return nil
}

func (s *postgresSource) loadProducts(ctx context.Context, b *Builder) error {
	query := `
		SELECT id, name, price
		FROM products
	`

	rows, err := s.db.Query(ctx, query)
	if err != nil {
		return fmt.Errorf("source: failed to query products: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var p Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Price); err != nil {
			return fmt.Errorf("source: failed to scan product: %w", err)
		}
		b.AddProduct(p)
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("source: error iterating products: %w", err)
	}

	return nil
}

func (s *postgresSource) loadCategories(ctx context.Context, b *Builder) error {
	query := `
		SELECT id, name
		FROM categories
	`

	rows, err := s.db.Query(ctx, query)
	if err != nil {
		return fmt.Errorf("source: failed to query categories: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var c Category
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return fmt.Errorf("source: failed to scan category: %w", err)
		}
		b.AddCategory(c)
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("source: error iterating categories: %w", err)
	}

	return nil
}

func (s *postgresSource) loadOrders(ctx context.Context, b *Builder) error {
	query := `
		SELECT id, customer_id, order_date, status, carrier_id, tracking_number
		FROM orders
		ORDER BY order_date, id
	`

	rows, err := s.db.Query(ctx, query)
	if err != nil {
		return fmt.Errorf("source: failed to query orders: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var o Order
		if err := rows.Scan(&o.ID, &o.CustomerID, &o.OrderDate, &o.Status, &o.CarrierID, &o.TrackingNumber); err != nil {
			return fmt.Errorf("source: failed to scan order: %w", err)
		}
		b.AddOrder(o)
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("source: error iterating orders: %w", err)
	}

	return nil
}

func (s *postgresSource) loadOrderItems(ctx context.Context, b *Builder) error {
	query := `
		SELECT id, order_id, product_id, quantity, unit_price, discount
		FROM order_items
	`

	rows, err := s.db.Query(ctx, query)
	if err != nil {
		return fmt.Errorf("source: failed to query order items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var item OrderItem
		if err := rows.Scan(&item.ID, &item.OrderID, &item.ProductID, &item.Quantity, &item.UnitPrice, &item.Discount); err != nil {
			return fmt.Errorf("source: failed to scan order item: %w", err)
		}
		b.AddOrderItem(item)
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("source: error iterating order items: %w", err)
	}

	return nil
}

func (s *postgresSource) loadCategoryLinks(ctx context.Context, b *Builder) error {
	query := `
		SELECT product_id, category_id
		FROM product_categories
	`

	rows, err := s.db.Query(ctx, query)
	if err != nil {
		return fmt.Errorf("source: failed to query product categories: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var link categoryLink
		if err := rows.Scan(&link.ProductID, &link.CategoryID); err != nil {
			return fmt.Errorf("source: failed to scan product category link: %w", err)
		}
		b.AssignCategory(link.ProductID, link.CategoryID)
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("source: error iterating product categories: %w", err)
	}

	return nil
}
