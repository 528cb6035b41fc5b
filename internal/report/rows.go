package report

import (
	"time"

	"github.com/gofrs/uuid"
	"github.com/shopspring/decimal"

	"github.com/vasiliy-maslov/ecommerce-microservices/report-service/internal/snapshot"
)

// Flat output records, one type per reporting view. Rows carry computed
// values only — assembling them never touches the snapshot again.

type CustomerRow struct {
	FullName string `json:"full_name"`
	Email    string `json:"email"`
}

type OrderItemCountRow struct {
	OrderID      uuid.UUID            `json:"order_id"`
	CustomerName string               `json:"customer_name"`
	Status       snapshot.OrderStatus `json:"status"`
	ItemCount    int                  `json:"item_count"`
}

type ProductPriceRow struct {
	ProductName string          `json:"product_name"`
	Price       decimal.Decimal `json:"price"`
}

type PendingOrderRow struct {
	OrderID      uuid.UUID       `json:"order_id"`
	CustomerName string          `json:"customer_name"`
	OrderDate    time.Time       `json:"order_date"`
	Total        decimal.Decimal `json:"total"`
}

type CustomerOrderCountRow struct {
	CustomerName string `json:"customer_name"`
	OrderCount   int    `json:"order_count"`
}

type CustomerValueRow struct {
	CustomerName string          `json:"customer_name"`
	TotalValue   decimal.Decimal `json:"total_value"`
}

type RecentOrderRow struct {
	OrderID      uuid.UUID `json:"order_id"`
	OrderDate    time.Time `json:"order_date"`
	CustomerName string    `json:"customer_name"`
}

type ProductSoldRow struct {
	ProductName string `json:"product_name"`
	TotalSold   int    `json:"total_sold"`
}

type DiscountedOrderRow struct {
	OrderID      uuid.UUID `json:"order_id"`
	CustomerName string    `json:"customer_name"`
	ProductNames []string  `json:"product_names"`
}

type CategoryOrderRow struct {
	OrderID      uuid.UUID `json:"order_id"`
	CustomerName string    `json:"customer_name"`
	ProductNames []string  `json:"product_names"`
}
