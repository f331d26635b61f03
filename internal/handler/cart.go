package handler

import (
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"

	"github.com/lunarhue/storefront/internal/cart"
	"github.com/lunarhue/storefront/internal/notify"
)

func (h *Handler) getCart(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.encodeCartView())
}

// addToCart handles the add-to-cart click. An id absent from the catalog is
// a reported no-op, never a fatal condition.
func (h *Handler) addToCart(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "cannot read body")
		return
	}

	var productID int64
	d := jx.DecodeBytes(body)
	if err := d.Obj(func(d *jx.Decoder, key string) error {
		if key != "productId" {
			return d.Skip()
		}
		v, err := d.Int64()
		if err != nil {
			return err
		}
		productID = v
		return nil
	}); err != nil {
		writeError(w, http.StatusBadRequest, "invalid cart payload")
		return
	}

	item, err := h.cart.Add(r.Context(), productID)
	if err != nil {
		var pnf *cart.ProductNotFoundError
		if errors.As(err, &pnf) {
			h.notify.Publish(notify.SeverityWarning, fmt.Sprintf("Product %d is not in the catalog.", pnf.ID))
			writeError(w, http.StatusNotFound, pnf.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "could not save cart")
		return
	}

	h.countCartMutation(r, "add")
	h.notify.Publish(notify.SeveritySuccess, fmt.Sprintf("%s added to cart.", item.Title))
	writeJSON(w, http.StatusCreated, h.encodeCartView())
}

// setQuantity sets a line item's quantity; zero or negative removes it.
func (h *Handler) setQuantity(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "cannot read body")
		return
	}

	quantity := 0
	d := jx.DecodeBytes(body)
	if err := d.Obj(func(d *jx.Decoder, key string) error {
		if key != "quantity" {
			return d.Skip()
		}
		v, err := d.Int()
		if err != nil {
			return err
		}
		quantity = v
		return nil
	}); err != nil {
		writeError(w, http.StatusBadRequest, "invalid quantity payload")
		return
	}

	if err := h.cart.SetQuantity(r.Context(), id, quantity); err != nil {
		h.reportCartError(w, err)
		return
	}

	h.countCartMutation(r, "set-quantity")
	writeJSON(w, http.StatusOK, h.encodeCartView())
}

func (h *Handler) removeFromCart(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.cart.Remove(r.Context(), id); err != nil {
		h.reportCartError(w, err)
		return
	}

	h.countCartMutation(r, "remove")
	h.notify.Publish(notify.SeverityInfo, "Item removed from cart.")
	writeJSON(w, http.StatusOK, h.encodeCartView())
}

// clearCart empties the cart after explicit confirmation.
func (h *Handler) clearCart(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "cannot read body")
		return
	}

	confirm := false
	d := jx.DecodeBytes(body)
	if err := d.Obj(func(d *jx.Decoder, key string) error {
		if key != "confirm" {
			return d.Skip()
		}
		v, err := d.Bool()
		if err != nil {
			return err
		}
		confirm = v
		return nil
	}); err != nil {
		writeError(w, http.StatusBadRequest, "invalid clear payload")
		return
	}

	switch err := h.cart.Clear(r.Context(), confirm); {
	case err == nil:
		h.countCartMutation(r, "clear")
		h.notify.Publish(notify.SeveritySuccess, "Cart cleared.")
		writeJSON(w, http.StatusOK, h.encodeCartView())
	case errors.Is(err, cart.ErrConfirmationRequired):
		writeError(w, http.StatusBadRequest, "clearing the cart requires confirmation")
	case errors.Is(err, cart.ErrCartEmpty):
		h.notify.Publish(notify.SeverityInfo, "Cart is already empty.")
		writeJSON(w, http.StatusOK, h.encodeCartView())
	default:
		writeError(w, http.StatusInternalServerError, "could not save cart")
	}
}

// reportCartError maps cart no-ops to 404 notifications and persistence
// failures to 500.
func (h *Handler) reportCartError(w http.ResponseWriter, err error) {
	if errors.Is(err, cart.ErrItemNotFound) {
		h.notify.Publish(notify.SeverityWarning, "That item is not in the cart.")
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	writeError(w, http.StatusInternalServerError, "could not save cart")
}

// pathID extracts the {id} path parameter.
func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid product id")
		return 0, false
	}
	return id, true
}

func (h *Handler) encodeCartView() *jx.Encoder {
	items := h.cart.Items()
	totals := h.cart.Totals()

	var e jx.Encoder
	e.Obj(func(e *jx.Encoder) {
		e.Field("items", func(e *jx.Encoder) {
			e.Arr(func(e *jx.Encoder) {
				for _, it := range items {
					e.Obj(func(e *jx.Encoder) {
						e.Field("id", func(e *jx.Encoder) { e.Int64(it.ID) })
						e.Field("title", func(e *jx.Encoder) { e.Str(it.Title) })
						e.Field("price", func(e *jx.Encoder) { e.Float64(it.Price.InexactFloat64()) })
						e.Field("image", func(e *jx.Encoder) { e.Str(it.Image) })
						e.Field("quantity", func(e *jx.Encoder) { e.Int(it.Quantity) })
					})
				}
			})
		})
		e.Field("totalItems", func(e *jx.Encoder) { e.Int(totals.Items) })
		e.Field("totalPrice", func(e *jx.Encoder) { e.Float64(totals.Price.InexactFloat64()) })
	})
	return &e
}
