package cart

import (
	"context"
	"sync"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/lunarhue/storefront/internal/domain/product"
)

// Catalog is the product lookup the store snapshots from on add.
type Catalog interface {
	GetByID(id int64) (*product.Product, error)
}

// Store owns the cart line items. Items are kept in insertion order with at
// most one item per product id. Every mutation synchronously persists the
// whole collection through the Repository.
type Store struct {
	catalog Catalog
	repo    Repository

	mu    sync.Mutex
	items []LineItem
}

// NewStore creates an empty cart store.
func NewStore(catalog Catalog, repo Repository) *Store {
	return &Store{catalog: catalog, repo: repo}
}

// Load restores the persisted cart. Invalid persisted items (duplicate ids,
// non-positive quantities) are discarded rather than carried into the
// session.
func (s *Store) Load(ctx context.Context) error {
	items, err := s.repo.Load(ctx)
	if err != nil {
		return errors.Wrap(err, "load cart")
	}

	seen := make(map[int64]struct{}, len(items))
	valid := make([]LineItem, 0, len(items))
	for _, it := range items {
		if it.Quantity < 1 {
			continue
		}
		if _, dup := seen[it.ID]; dup {
			continue
		}
		seen[it.ID] = struct{}{}
		valid = append(valid, it)
	}

	s.mu.Lock()
	s.items = valid
	s.mu.Unlock()
	return nil
}

// Add puts one unit of the product in the cart: an existing line item gains
// quantity, otherwise a new item snapshots title/price/image from the catalog
// at this instant. An id absent from the catalog is a reported no-op
// (ProductNotFoundError).
func (s *Store) Add(ctx context.Context, productID int64) (LineItem, error) {
	p, err := s.catalog.GetByID(productID)
	if err != nil {
		return LineItem{}, &ProductNotFoundError{ID: productID}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.items {
		if s.items[i].ID == productID {
			s.items[i].Quantity++
			item := s.items[i]
			return item, s.persistLocked(ctx)
		}
	}

	item := LineItem{
		ID:       p.ID,
		Title:    p.Title,
		Price:    p.Price,
		Image:    p.Image(),
		Quantity: 1,
	}
	s.items = append(s.items, item)
	return item, s.persistLocked(ctx)
}

// Remove deletes the line item for the given id. A missing id is a reported
// no-op (ErrItemNotFound).
func (s *Store) Remove(ctx context.Context, productID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.items {
		if s.items[i].ID == productID {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return s.persistLocked(ctx)
		}
	}
	return ErrItemNotFound
}

// SetQuantity sets the item's quantity. A quantity <= 0 removes the item;
// an absent id creates nothing (ErrItemNotFound).
func (s *Store) SetQuantity(ctx context.Context, productID int64, quantity int) error {
	if quantity <= 0 {
		return s.Remove(ctx, productID)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.items {
		if s.items[i].ID == productID {
			s.items[i].Quantity = quantity
			return s.persistLocked(ctx)
		}
	}
	return ErrItemNotFound
}

// Clear empties the cart. It requires explicit confirmation and reports
// clearing an already empty cart as a no-op (ErrCartEmpty).
func (s *Store) Clear(ctx context.Context, confirmed bool) error {
	if !confirmed {
		return ErrConfirmationRequired
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.items) == 0 {
		return ErrCartEmpty
	}
	s.items = nil
	return s.persistLocked(ctx)
}

// Items returns a copy of the line items in insertion order.
func (s *Store) Items() []LineItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]LineItem, len(s.items))
	copy(out, s.items)
	return out
}

// Totals recomputes the item count and total price.
func (s *Store) Totals() Totals {
	s.mu.Lock()
	defer s.mu.Unlock()

	t := Totals{Price: decimal.Zero}
	for _, it := range s.items {
		t.Items += it.Quantity
		t.Price = t.Price.Add(it.Price.Mul(decimal.NewFromInt(int64(it.Quantity))))
	}
	return t
}

// persistLocked rewrites the full cart through the repository. Caller holds
// s.mu.
func (s *Store) persistLocked(ctx context.Context) error {
	items := make([]LineItem, len(s.items))
	copy(items, s.items)
	if err := s.repo.Save(ctx, items); err != nil {
		return errors.Wrap(err, "persist cart")
	}
	return nil
}
