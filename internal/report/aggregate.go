package report

import (
	"github.com/gofrs/uuid"
	"github.com/shopspring/decimal"

	"github.com/vasiliy-maslov/ecommerce-microservices/report-service/internal/snapshot"
)

// LineValue is the monetary contribution of one order item:
// quantity × unit price − discount, in fixed-point decimal.
//
// This is the single place where absent unit price and absent discount
// coalesce to zero. Every total in the package goes through here, so the
// null-handling rule cannot drift between reports.
func LineValue(item snapshot.OrderItem) decimal.Decimal {
	price := decimal.Zero
	if item.UnitPrice.Valid {
		price = item.UnitPrice.Decimal
	}

	discount := decimal.Zero
	if item.Discount.Valid {
		discount = item.Discount.Decimal
	}

	return price.Mul(decimal.NewFromInt(int64(item.Quantity))).Sub(discount)
}

// OrderTotal sums line values over an order's items. An order with no items
// totals zero. The sum is invariant to item order.
func OrderTotal(snap *snapshot.Snapshot, orderID uuid.UUID) decimal.Decimal {
	total := decimal.Zero
	for _, item := range snap.OrderItems(orderID) {
		total = total.Add(LineValue(item))
	}
	return total
}

// CustomerTotal rolls order totals up to a customer. A customer with no
// orders totals zero.
func CustomerTotal(snap *snapshot.Snapshot, customerID uuid.UUID) decimal.Decimal {
	total := decimal.Zero
	for _, o := range snap.CustomerOrders(customerID) {
		total = total.Add(OrderTotal(snap, o.ID))
	}
	return total
}

// ProductUnitsSold sums quantities across every order item referencing the
// product. A product never ordered sold zero units.
func ProductUnitsSold(snap *snapshot.Snapshot, productID uuid.UUID) int {
	sold := 0
	for _, item := range snap.ProductOrderItems(productID) {
		sold += item.Quantity
	}
	return sold
}
