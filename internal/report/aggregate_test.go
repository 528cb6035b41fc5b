package report_test

import (
	"testing"

	"github.com/gofrs/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vasiliy-maslov/ecommerce-microservices/report-service/internal/report"
	"github.com/vasiliy-maslov/ecommerce-microservices/report-service/internal/snapshot"
)

func nullDecimal(s string) decimal.NullDecimal {
	return decimal.NullDecimal{Decimal: decimal.RequireFromString(s), Valid: true}
}

func TestLineValue(t *testing.T) {
	tests := []struct {
		name string
		item snapshot.OrderItem
		want string
	}{
		{
			name: "price_and_discount_present",
			item: snapshot.OrderItem{Quantity: 2, UnitPrice: nullDecimal("10.00"), Discount: nullDecimal("1.50")},
			want: "18.50",
		},
		{
			name: "absent_discount_is_zero",
			item: snapshot.OrderItem{Quantity: 2, UnitPrice: nullDecimal("10.00")},
			want: "20.00",
		},
		{
			name: "absent_price_is_zero_contribution",
			item: snapshot.OrderItem{Quantity: 5, Discount: nullDecimal("2.00")},
			want: "-2.00",
		},
		{
			name: "both_absent",
			item: snapshot.OrderItem{Quantity: 3},
			want: "0.00",
		},
		{
			name: "fractional_prices_stay_exact",
			item: snapshot.OrderItem{Quantity: 3, UnitPrice: nullDecimal("0.10")},
			want: "0.30",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := report.LineValue(tt.item)
			assert.Equal(t, tt.want, got.StringFixed(2))
		})
	}
}

func TestOrderTotal_InvariantToItemOrder(t *testing.T) {
	customer := snapshot.Customer{ID: uuid.Must(uuid.NewV4()), FirstName: "Anna", LastName: "Becker"}
	product := snapshot.Product{ID: uuid.Must(uuid.NewV4()), Name: "Mouse", Price: decimal.RequireFromString("25.00")}
	orderID := uuid.Must(uuid.NewV4())

	items := []snapshot.OrderItem{
		{ID: uuid.Must(uuid.NewV4()), OrderID: orderID, ProductID: product.ID, Quantity: 2, UnitPrice: nullDecimal("10.00")},
		{ID: uuid.Must(uuid.NewV4()), OrderID: orderID, ProductID: product.ID, Quantity: 1, UnitPrice: nullDecimal("5.00"), Discount: nullDecimal("1.00")},
		{ID: uuid.Must(uuid.NewV4()), OrderID: orderID, ProductID: product.ID, Quantity: 4, UnitPrice: nullDecimal("0.25")},
	}

	build := func(order []snapshot.OrderItem) *snapshot.Snapshot {
		b := snapshot.NewBuilder()
		b.AddCustomer(customer)
		b.AddProduct(product)
		b.AddOrder(snapshot.Order{ID: orderID, CustomerID: customer.ID, Status: snapshot.StatusPending})
		for _, item := range order {
			b.AddOrderItem(item)
		}
		snap, err := b.Build()
		require.NoError(t, err)
		return snap
	}

	forward := report.OrderTotal(build(items), orderID)
	reversed := report.OrderTotal(build([]snapshot.OrderItem{items[2], items[0], items[1]}), orderID)

	assert.Equal(t, "25.00", forward.StringFixed(2))
	assert.True(t, forward.Equal(reversed), "total must not depend on item order")
}

// The worked example: order A = (2×10−0)+(1×5−1) = 24.00, order B empty = 0,
// so the customer rolls up to 24.00.
func TestCustomerTotal_WorkedExample(t *testing.T) {
	b := snapshot.NewBuilder()

	c1 := snapshot.Customer{ID: uuid.Must(uuid.NewV4()), FirstName: "Anna", LastName: "Becker"}
	product := snapshot.Product{ID: uuid.Must(uuid.NewV4()), Name: "Mouse", Price: decimal.RequireFromString("25.00")}
	orderA := uuid.Must(uuid.NewV4())
	orderB := uuid.Must(uuid.NewV4())

	b.AddCustomer(c1)
	b.AddProduct(product)
	b.AddOrder(snapshot.Order{ID: orderA, CustomerID: c1.ID, Status: snapshot.StatusPending})
	b.AddOrder(snapshot.Order{ID: orderB, CustomerID: c1.ID, Status: snapshot.StatusPending})
	b.AddOrderItem(snapshot.OrderItem{ID: uuid.Must(uuid.NewV4()), OrderID: orderA, ProductID: product.ID, Quantity: 2, UnitPrice: nullDecimal("10.00")})
	b.AddOrderItem(snapshot.OrderItem{ID: uuid.Must(uuid.NewV4()), OrderID: orderA, ProductID: product.ID, Quantity: 1, UnitPrice: nullDecimal("5.00"), Discount: nullDecimal("1.00")})

	snap, err := b.Build()
	require.NoError(t, err)

	assert.Equal(t, "24.00", report.OrderTotal(snap, orderA).StringFixed(2))
	assert.Equal(t, "0.00", report.OrderTotal(snap, orderB).StringFixed(2))
	assert.Equal(t, "24.00", report.CustomerTotal(snap, c1.ID).StringFixed(2))
}
