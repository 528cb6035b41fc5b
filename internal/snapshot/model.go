package snapshot

import (
	"time"

	"github.com/gofrs/uuid"
	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	StatusPending   OrderStatus = "PENDING"
	StatusShipped   OrderStatus = "SHIPPED"
	StatusDelivered OrderStatus = "DELIVERED"
)

func (os OrderStatus) String() string {
	return string(os)
}

type Customer struct {
	ID        uuid.UUID `json:"id" db:"id"`
	FirstName string    `json:"first_name" db:"first_name"`
	LastName  string    `json:"last_name" db:"last_name"`
	Email     string    `json:"email" db:"email"`
}

// FullName joins first and last name for presentation.
func (c Customer) FullName() string {
	return c.FirstName + " " + c.LastName
}

type Order struct {
	ID         uuid.UUID   `json:"id" db:"id"`
	CustomerID uuid.UUID   `json:"customer_id" db:"customer_id"`
	OrderDate  time.Time   `json:"order_date" db:"order_date"`
	Status     OrderStatus `json:"status" db:"status"`
	// Carrier and tracking number are set only once the order has shipped.
	CarrierID      uuid.NullUUID `json:"carrier_id,omitempty" db:"carrier_id"`
	TrackingNumber *string       `json:"tracking_number,omitempty" db:"tracking_number"`
}

type OrderItem struct {
	ID        uuid.UUID `json:"id" db:"id"`
	OrderID   uuid.UUID `json:"order_id" db:"order_id"`
	ProductID uuid.UUID `json:"product_id" db:"product_id"`
	Quantity  int       `json:"quantity" db:"quantity"`
	// UnitPrice and Discount may be absent. Absence is a valid domain state;
	// monetary aggregation coalesces both to zero (see report.LineValue).
	UnitPrice decimal.NullDecimal `json:"unit_price" db:"unit_price"`
	Discount  decimal.NullDecimal `json:"discount" db:"discount"`
}

type Product struct {
	ID    uuid.UUID       `json:"id" db:"id"`
	Name  string          `json:"name" db:"name"`
	Price decimal.Decimal `json:"price" db:"price"`
}

type Category struct {
	ID   uuid.UUID `json:"id" db:"id"`
	Name string    `json:"name" db:"name"`
}

type Carrier struct {
	ID    uuid.UUID `json:"id" db:"id"`
	Name  string    `json:"name" db:"name"`
	Phone string    `json:"phone" db:"phone"`
}
