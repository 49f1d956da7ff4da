package port

import (
	"context"

	"github.com/gouravdhdb/storefront/internal/domain"
)

// OrderSummary is the payload handed to the notification dispatcher after
// an order is finalized.
type OrderSummary struct {
	Customer      domain.Customer
	PaymentMethod domain.PaymentMethod
	Lines         []domain.CartLine
	Total         domain.Money
	Discount      domain.Money
}

// Dispatcher performs a best-effort outbound delivery of an order summary.
// Delivery failure never affects the already-persisted order.
type Dispatcher interface {
	Dispatch(ctx context.Context, summary OrderSummary) error
}
