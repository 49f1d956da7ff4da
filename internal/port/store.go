package port

import (
	"context"

	"github.com/gouravdhdb/storefront/internal/domain"
)

// Store is the persistence port for the storefront's durable state. Loads
// return empty defaults when a key is absent or its stored value is
// malformed; they never fail on corruption.
type Store interface {
	LoadCart(ctx context.Context) ([]domain.CartLine, error)
	SaveCart(ctx context.Context, lines []domain.CartLine) error

	LoadOrders(ctx context.Context) ([]domain.Order, error)
	SaveOrders(ctx context.Context, orders []domain.Order) error

	LoadDarkMode(ctx context.Context) (bool, error)
	SaveDarkMode(ctx context.Context, on bool) error

	// LoadDraft returns nil when no draft order is staged.
	LoadDraft(ctx context.Context) (*domain.Order, error)
	SaveDraft(ctx context.Context, order domain.Order) error
	ClearDraft(ctx context.Context) error
}
