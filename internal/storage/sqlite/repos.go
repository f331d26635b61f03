package sqlite

import (
	"context"
	"encoding/json"

	"github.com/go-faster/errors"

	"github.com/lunarhue/storefront/internal/cart"
)

// CartRepository stores the cart as a JSON array under the "cart" key.
type CartRepository struct {
	state *State
}

// NewCartRepository creates a cart repository over the state store.
func NewCartRepository(state *State) *CartRepository {
	return &CartRepository{state: state}
}

// Load reads the persisted cart. A missing key is an empty cart.
func (r *CartRepository) Load(ctx context.Context) ([]cart.LineItem, error) {
	raw, ok, err := r.state.Get(ctx, KeyCart)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}

	var items []cart.LineItem
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, errors.Wrap(err, "decode persisted cart")
	}
	return items, nil
}

// Save rewrites the whole persisted cart.
func (r *CartRepository) Save(ctx context.Context, items []cart.LineItem) error {
	if items == nil {
		items = []cart.LineItem{}
	}
	raw, err := json.Marshal(items)
	if err != nil {
		return errors.Wrap(err, "encode cart")
	}
	return r.state.Put(ctx, KeyCart, raw)
}

// WishlistRepository stores the wishlist id set as a JSON array under the
// "wishlist" key.
type WishlistRepository struct {
	state *State
}

// NewWishlistRepository creates a wishlist repository over the state store.
func NewWishlistRepository(state *State) *WishlistRepository {
	return &WishlistRepository{state: state}
}

// Load reads the persisted wishlist. A missing key is an empty set.
func (r *WishlistRepository) Load(ctx context.Context) ([]int64, error) {
	raw, ok, err := r.state.Get(ctx, KeyWishlist)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}

	var ids []int64
	if err := json.Unmarshal(raw, &ids); err != nil {
		return nil, errors.Wrap(err, "decode persisted wishlist")
	}
	return ids, nil
}

// Save rewrites the whole persisted wishlist.
func (r *WishlistRepository) Save(ctx context.Context, ids []int64) error {
	if ids == nil {
		ids = []int64{}
	}
	raw, err := json.Marshal(ids)
	if err != nil {
		return errors.Wrap(err, "encode wishlist")
	}
	return r.state.Put(ctx, KeyWishlist, raw)
}
