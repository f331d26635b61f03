// Package handler exposes the storefront core over HTTP/JSON. It is the
// render adapter boundary: endpoints consume the user events (search,
// filter, paging, cart and wishlist actions) and produce the view models the
// UI renders. No business state lives here.
package handler

import (
	"net/http"

	"github.com/go-faster/jx"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/lunarhue/storefront/internal/cart"
	"github.com/lunarhue/storefront/internal/catalog"
	"github.com/lunarhue/storefront/internal/notify"
	"github.com/lunarhue/storefront/internal/wishlist"
)

// Handler wires the stores to their HTTP surface.
type Handler struct {
	catalog  *catalog.Store
	cart     *cart.Store
	wishlist *wishlist.Store
	notify   *notify.Center

	cartMutations    metric.Int64Counter
	catalogRefreshes metric.Int64Counter
}

// New constructs a Handler. The meter provider may be a noop provider.
func New(
	catalogStore *catalog.Store,
	cartStore *cart.Store,
	wishlistStore *wishlist.Store,
	center *notify.Center,
	mp metric.MeterProvider,
) (*Handler, error) {
	meter := mp.Meter("storefront/handler")

	cartMutations, err := meter.Int64Counter("storefront.cart.mutations",
		metric.WithDescription("Cart mutations by operation"))
	if err != nil {
		return nil, err
	}
	catalogRefreshes, err := meter.Int64Counter("storefront.catalog.refreshes",
		metric.WithDescription("Catalog refresh attempts by outcome"))
	if err != nil {
		return nil, err
	}

	return &Handler{
		catalog:          catalogStore,
		cart:             cartStore,
		wishlist:         wishlistStore,
		notify:           center,
		cartMutations:    cartMutations,
		catalogRefreshes: catalogRefreshes,
	}, nil
}

// Routes returns the API route table.
func (h *Handler) Routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/catalog", h.getCatalog)
	mux.HandleFunc("POST /api/catalog/refresh", h.refreshCatalog)
	mux.HandleFunc("PUT /api/catalog/criteria", h.setCriteria)
	mux.HandleFunc("PUT /api/catalog/page", h.changePage)
	mux.HandleFunc("PUT /api/catalog/view", h.setViewMode)

	mux.HandleFunc("GET /api/cart", h.getCart)
	mux.HandleFunc("POST /api/cart/items", h.addToCart)
	mux.HandleFunc("PUT /api/cart/items/{id}", h.setQuantity)
	mux.HandleFunc("DELETE /api/cart/items/{id}", h.removeFromCart)
	mux.HandleFunc("POST /api/cart/clear", h.clearCart)

	mux.HandleFunc("GET /api/wishlist", h.getWishlist)
	mux.HandleFunc("POST /api/wishlist/{id}/toggle", h.toggleWishlist)

	mux.HandleFunc("GET /api/notifications", h.getNotifications)

	return mux
}

func (h *Handler) countCartMutation(r *http.Request, op string) {
	h.cartMutations.Add(r.Context(), 1, metric.WithAttributes(attribute.String("op", op)))
}

// writeJSON renders the encoder content with the given status.
func writeJSON(w http.ResponseWriter, status int, e *jx.Encoder) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(e.Bytes())
}

// writeError renders the {code, message} error body.
func writeError(w http.ResponseWriter, code int, message string) {
	var e jx.Encoder
	e.Obj(func(e *jx.Encoder) {
		e.Field("code", func(e *jx.Encoder) { e.Int(code) })
		e.Field("message", func(e *jx.Encoder) { e.Str(message) })
	})
	writeJSON(w, code, &e)
}
