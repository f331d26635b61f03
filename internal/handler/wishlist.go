package handler

import (
	"net/http"

	"github.com/go-faster/jx"

	"github.com/lunarhue/storefront/internal/notify"
)

func (h *Handler) getWishlist(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.encodeWishlistView())
}

// toggleWishlist flips wishlist membership for the given product id.
func (h *Handler) toggleWishlist(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	added, err := h.wishlist.Toggle(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "could not save wishlist")
		return
	}

	if added {
		h.notify.Publish(notify.SeveritySuccess, "Added to wishlist.")
	} else {
		h.notify.Publish(notify.SeverityInfo, "Removed from wishlist.")
	}

	var e jx.Encoder
	e.Obj(func(e *jx.Encoder) {
		e.Field("added", func(e *jx.Encoder) { e.Bool(added) })
		e.Field("count", func(e *jx.Encoder) { e.Int(h.wishlist.Count()) })
	})
	writeJSON(w, http.StatusOK, &e)
}

func (h *Handler) encodeWishlistView() *jx.Encoder {
	var e jx.Encoder
	e.Obj(func(e *jx.Encoder) {
		e.Field("ids", func(e *jx.Encoder) {
			e.Arr(func(e *jx.Encoder) {
				for _, id := range h.wishlist.IDs() {
					e.Int64(id)
				}
			})
		})
		e.Field("count", func(e *jx.Encoder) { e.Int(h.wishlist.Count()) })
	})
	return &e
}
