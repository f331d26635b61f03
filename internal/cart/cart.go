package cart

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// Sentinel errors for reported no-op conditions. None of them is fatal; the
// handler surfaces them as notifications.
var (
	// ErrItemNotFound is returned when removing or updating an id that has
	// no line item.
	ErrItemNotFound = errors.New("item not in cart")
	// ErrCartEmpty is returned when clearing an already empty cart.
	ErrCartEmpty = errors.New("cart is already empty")
	// ErrConfirmationRequired is returned when Clear is called without the
	// user's confirmation.
	ErrConfirmationRequired = errors.New("clear requires confirmation")
)

// ProductNotFoundError indicates an add-to-cart for an id absent from the
// current catalog.
type ProductNotFoundError struct {
	ID int64
}

func (e *ProductNotFoundError) Error() string {
	return fmt.Sprintf("product %d not in catalog", e.ID)
}

// LineItem is one cart entry: a denormalized snapshot of the product taken
// at add-time plus a quantity. Later catalog changes never alter it.
// Quantity is always >= 1; an item that would drop to 0 is removed instead.
type LineItem struct {
	ID       int64           `json:"id"`
	Title    string          `json:"title"`
	Price    decimal.Decimal `json:"price"`
	Image    string          `json:"image"`
	Quantity int             `json:"quantity"`
}

// Totals is the on-demand aggregate over the cart. It is never cached.
type Totals struct {
	Items int
	Price decimal.Decimal
}

// Repository persists the cart as a whole: every mutation rewrites the full
// collection.
type Repository interface {
	Load(ctx context.Context) ([]LineItem, error)
	Save(ctx context.Context, items []LineItem) error
}
