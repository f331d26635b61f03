// Package wishlist holds the persisted set of saved product ids. Membership
// only: no quantities, no product snapshots.
package wishlist

import (
	"context"
	"slices"
	"sync"

	"github.com/go-faster/errors"
)

// Repository persists the wishlist as a whole id set.
type Repository interface {
	Load(ctx context.Context) ([]int64, error)
	Save(ctx context.Context, ids []int64) error
}

// Store owns the wishlist set. Safe for concurrent use; every toggle
// synchronously persists the full set.
type Store struct {
	repo Repository

	mu  sync.Mutex
	ids map[int64]struct{}
}

// NewStore creates an empty wishlist store.
func NewStore(repo Repository) *Store {
	return &Store{repo: repo, ids: make(map[int64]struct{})}
}

// Load restores the persisted wishlist.
func (s *Store) Load(ctx context.Context) error {
	ids, err := s.repo.Load(ctx)
	if err != nil {
		return errors.Wrap(err, "load wishlist")
	}

	set := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}

	s.mu.Lock()
	s.ids = set
	s.mu.Unlock()
	return nil
}

// Toggle flips membership for the given id and persists. It reports whether
// the id is now present.
func (s *Store) Toggle(ctx context.Context, id int64) (added bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.ids[id]; ok {
		delete(s.ids, id)
	} else {
		s.ids[id] = struct{}{}
		added = true
	}

	if err := s.repo.Save(ctx, s.sortedLocked()); err != nil {
		return added, errors.Wrap(err, "persist wishlist")
	}
	return added, nil
}

// Contains reports membership.
func (s *Store) Contains(id int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.ids[id]
	return ok
}

// Count returns the number of saved products.
func (s *Store) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.ids)
}

// IDs returns the members in ascending order.
func (s *Store) IDs() []int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sortedLocked()
}

// sortedLocked returns the ids sorted ascending so persistence is
// deterministic. Caller holds s.mu.
func (s *Store) sortedLocked() []int64 {
	out := make([]int64, 0, len(s.ids))
	for id := range s.ids {
		out = append(out, id)
	}
	slices.Sort(out)
	return out
}
