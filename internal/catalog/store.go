package catalog

import (
	"context"
	"sync"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
	"go.uber.org/zap"

	"github.com/lunarhue/storefront/internal/domain/product"
	"github.com/lunarhue/storefront/pkg/debounce"
)

// ErrRefreshInFlight is returned when a refresh is requested while another
// one is still loading. The second request is dropped, not queued.
var ErrRefreshInFlight = errors.New("refresh already in flight")

// State is the fetch orchestration state.
type State string

const (
	StateIdle    State = "idle"
	StateLoading State = "loading"
	StateSuccess State = "success"
	StateError   State = "error"
)

// ViewMode selects the catalog presentation style. It never affects data.
type ViewMode string

const (
	ViewGrid ViewMode = "grid"
	ViewList ViewMode = "list"
)

// StoreConfig holds the store's dependencies and tuning knobs.
type StoreConfig struct {
	Source     Source
	Cache      *Cache
	Snapshot   *Snapshot
	FetchLimit int
	PageSize   int
	// SearchDebounce is the quiet period for SearchInput. Zero disables
	// debouncing (SearchInput behaves like SetSearch).
	SearchDebounce time.Duration
	// Tracer instruments Refresh. Nil means no tracing.
	Tracer trace.Tracer
}

// Store owns the full fetched catalog and the derived, paginated view.
// All methods are safe for concurrent use; mutations are synchronous and the
// view read after a mutation observes it.
type Store struct {
	source     Source
	cache      *Cache
	snapshot   *Snapshot
	fetchLimit int
	pageSize   int
	tracer     trace.Tracer
	searchDeb  *debounce.Debouncer

	mu       sync.Mutex
	all      []product.Product
	idx      *Index
	filtered []product.Product
	criteria Criteria
	page     int
	viewMode ViewMode
	state    State
	lastErr  string
	loading  bool
}

// NewStore creates a catalog store in the idle state with default criteria
// and an empty catalog.
func NewStore(cfg StoreConfig) *Store {
	tracer := cfg.Tracer
	if tracer == nil {
		tracer = noop.NewTracerProvider().Tracer("")
	}
	return &Store{
		source:     cfg.Source,
		cache:      cfg.Cache,
		snapshot:   cfg.Snapshot,
		fetchLimit: cfg.FetchLimit,
		pageSize:   cfg.PageSize,
		tracer:     tracer,
		searchDeb:  debounce.New(cfg.SearchDebounce),
		criteria:   DefaultCriteria(),
		page:       1,
		viewMode:   ViewGrid,
		state:      StateIdle,
	}
}

// Close stops the debounce timer.
func (s *Store) Close() {
	s.searchDeb.Stop()
}

// Refresh populates the catalog. The cache is consulted first: a valid entry
// is adopted without a network call. On a miss the source is fetched; success
// populates the cache (and snapshot) and resets the view to default criteria,
// failure records a human-readable message and keeps any prior catalog and
// cache contents intact. A refresh issued while one is loading returns
// ErrRefreshInFlight.
func (s *Store) Refresh(ctx context.Context) error {
	s.mu.Lock()
	if s.loading {
		s.mu.Unlock()
		return ErrRefreshInFlight
	}

	if entry, ok := s.cache.Get(CacheKeyProducts); ok && s.cache.Valid(entry) {
		s.adoptLocked(entry.Products)
		s.mu.Unlock()
		zctx.From(ctx).Debug("Catalog served from cache",
			zap.Int("products", len(entry.Products)))
		return nil
	}

	s.loading = true
	s.state = StateLoading
	s.mu.Unlock()

	ctx, span := s.tracer.Start(ctx, "catalog.Refresh")
	defer span.End()

	products, raw, err := s.source.Fetch(ctx, s.fetchLimit)
	if err != nil {
		s.mu.Lock()
		s.loading = false
		s.state = StateError
		s.lastErr = fetchErrorMessage(err)
		s.mu.Unlock()
		zctx.From(ctx).Warn("Catalog fetch failed", zap.Error(err))
		return err
	}

	s.cache.Put(CacheKeyProducts, products)
	if s.snapshot.Enabled() {
		if err := s.snapshot.Write(raw); err != nil {
			zctx.From(ctx).Warn("Snapshot write failed", zap.Error(err))
		}
	}

	s.mu.Lock()
	s.adoptLocked(products)
	s.mu.Unlock()

	zctx.From(ctx).Info("Catalog fetched", zap.Int("products", len(products)))
	return nil
}

// WarmStart adopts a snapshot taken at the given time, provided it is still
// within the cache TTL. It reports whether the snapshot was adopted.
func (s *Store) WarmStart(products []product.Product, at time.Time) bool {
	s.cache.PutAt(CacheKeyProducts, products, at)
	entry, _ := s.cache.Get(CacheKeyProducts)
	if !s.cache.Valid(entry) {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.adoptLocked(products)
	return true
}

// adoptLocked replaces the catalog wholesale and resets the view to default
// criteria. Caller holds s.mu.
func (s *Store) adoptLocked(products []product.Product) {
	s.all = products
	s.idx = BuildIndex(products)
	s.criteria = DefaultCriteria()
	s.page = 1
	s.state = StateSuccess
	s.lastErr = ""
	s.loading = false
	s.recomputeLocked()
}

// recomputeLocked rebuilds the filtered view and clamps the current page.
// Caller holds s.mu.
func (s *Store) recomputeLocked() {
	s.filtered = s.idx.Apply(s.all, s.criteria)
	if total := TotalPages(len(s.filtered), s.pageSize); s.page > total {
		s.page = total
	}
	if s.page < 1 {
		s.page = 1
	}
}

// SetSearch applies the search string immediately and resets to page 1.
func (s *Store) SetSearch(search string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.criteria.Search = search
	s.page = 1
	s.recomputeLocked()
}

// SearchInput applies the search string after the debounce quiet period.
// Rapid successive calls coalesce into a single recomputation.
func (s *Store) SearchInput(search string) {
	s.searchDeb.Trigger(func() { s.SetSearch(search) })
}

// SetCategory applies the category filter and resets to page 1.
func (s *Store) SetCategory(category string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.criteria.Category = category
	s.page = 1
	s.recomputeLocked()
}

// SetSort applies the sort key and resets to page 1. Unknown keys fall back
// to name order.
func (s *Store) SetSort(key SortKey) {
	switch key {
	case SortName, SortPriceLow, SortPriceHigh:
	default:
		key = SortName
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.criteria.Sort = key
	s.page = 1
	s.recomputeLocked()
}

// ChangePage navigates to page n. Out-of-range values are a no-op; the
// method reports whether the page changed.
func (s *Store) ChangePage(n int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if n < 1 || n > TotalPages(len(s.filtered), s.pageSize) {
		return false
	}
	s.page = n
	return true
}

// SetViewMode toggles between grid and list. Unknown modes are ignored.
func (s *Store) SetViewMode(mode ViewMode) {
	if mode != ViewGrid && mode != ViewList {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.viewMode = mode
}

// GetByID looks a product up in the full catalog by id.
func (s *Store) GetByID(id int64) (*product.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.all {
		if s.all[i].ID == id {
			p := s.all[i]
			return &p, nil
		}
	}
	return nil, product.ErrNotFound
}

// View is the render-ready snapshot of the current catalog state.
type View struct {
	State      State
	Error      string
	Criteria   Criteria
	ViewMode   ViewMode
	Page       []product.Product
	Current    int
	TotalPages int
	Window     []int
	Results    int
	Categories []string
}

// View returns the current page and its metadata.
func (s *Store) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()

	pageItems, totalPages := Paginate(s.filtered, s.pageSize, s.page)
	return View{
		State:      s.state,
		Error:      s.lastErr,
		Criteria:   s.criteria,
		ViewMode:   s.viewMode,
		Page:       pageItems,
		Current:    s.page,
		TotalPages: totalPages,
		Window:     PageWindow(s.page, totalPages),
		Results:    len(s.filtered),
		Categories: Categories(s.all),
	}
}

// fetchErrorMessage maps the fetch error taxonomy to the message shown to
// the user. Retry is always a manual action.
func fetchErrorMessage(err error) string {
	switch {
	case errors.Is(err, ErrTimeout):
		return "Catalog request timed out. Please try again."
	case errors.Is(err, ErrMalformed):
		return "Received an invalid response from the catalog service."
	default:
		return "Could not reach the catalog service. Please try again."
	}
}
