package handler

import (
	"io"
	"net/http"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/lunarhue/storefront/internal/catalog"
	"github.com/lunarhue/storefront/internal/domain/product"
	"github.com/lunarhue/storefront/internal/notify"
)

// getCatalog returns the current page of products plus view metadata.
func (h *Handler) getCatalog(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.encodeCatalogView())
}

// refreshCatalog re-fetches the catalog. It is the manual retry path: fetch
// errors are reported, never retried automatically.
func (h *Handler) refreshCatalog(w http.ResponseWriter, r *http.Request) {
	err := h.catalog.Refresh(r.Context())
	switch {
	case err == nil:
		h.catalogRefreshes.Add(r.Context(), 1, metric.WithAttributes(attribute.String("outcome", "success")))
		h.notify.Publish(notify.SeveritySuccess, "Catalog updated.")
		writeJSON(w, http.StatusOK, h.encodeCatalogView())
	case errors.Is(err, catalog.ErrRefreshInFlight):
		h.catalogRefreshes.Add(r.Context(), 1, metric.WithAttributes(attribute.String("outcome", "dropped")))
		writeError(w, http.StatusConflict, "A catalog refresh is already in progress.")
	default:
		h.catalogRefreshes.Add(r.Context(), 1, metric.WithAttributes(attribute.String("outcome", "error")))
		msg := h.catalog.View().Error
		h.notify.Publish(notify.SeverityError, msg)
		writeError(w, http.StatusBadGateway, msg)
	}
}

// criteriaRequest is the criteria-change event payload. Absent fields leave
// the corresponding criterion untouched.
type criteriaRequest struct {
	search      string
	hasSearch   bool
	category    string
	hasCategory bool
	sort        string
	hasSort     bool
	debounce    bool
}

func decodeCriteriaRequest(body []byte) (criteriaRequest, error) {
	var req criteriaRequest
	d := jx.DecodeBytes(body)
	err := d.Obj(func(d *jx.Decoder, key string) error {
		switch key {
		case "search":
			v, err := d.Str()
			if err != nil {
				return err
			}
			req.search, req.hasSearch = v, true
		case "category":
			v, err := d.Str()
			if err != nil {
				return err
			}
			req.category, req.hasCategory = v, true
		case "sort":
			v, err := d.Str()
			if err != nil {
				return err
			}
			req.sort, req.hasSort = v, true
		case "debounce":
			v, err := d.Bool()
			if err != nil {
				return err
			}
			req.debounce = v
		default:
			return d.Skip()
		}
		return nil
	})
	return req, err
}

// setCriteria applies search/category/sort changes. Search changes may be
// debounced (the UI's keystroke path); category and sort apply immediately.
func (h *Handler) setCriteria(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "cannot read body")
		return
	}
	req, err := decodeCriteriaRequest(body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid criteria payload")
		return
	}

	if req.hasSearch {
		if req.debounce {
			h.catalog.SearchInput(req.search)
		} else {
			h.catalog.SetSearch(req.search)
		}
	}
	if req.hasCategory {
		h.catalog.SetCategory(req.category)
	}
	if req.hasSort {
		h.catalog.SetSort(catalog.SortKey(req.sort))
	}

	writeJSON(w, http.StatusOK, h.encodeCatalogView())
}

// changePage navigates to the requested page. Out-of-range pages are a
// no-op; the response carries the unchanged view.
func (h *Handler) changePage(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "cannot read body")
		return
	}

	page := 0
	d := jx.DecodeBytes(body)
	if err := d.Obj(func(d *jx.Decoder, key string) error {
		if key != "page" {
			return d.Skip()
		}
		v, err := d.Int()
		if err != nil {
			return err
		}
		page = v
		return nil
	}); err != nil {
		writeError(w, http.StatusBadRequest, "invalid page payload")
		return
	}

	h.catalog.ChangePage(page)
	writeJSON(w, http.StatusOK, h.encodeCatalogView())
}

// setViewMode toggles grid/list presentation.
func (h *Handler) setViewMode(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "cannot read body")
		return
	}

	mode := ""
	d := jx.DecodeBytes(body)
	if err := d.Obj(func(d *jx.Decoder, key string) error {
		if key != "mode" {
			return d.Skip()
		}
		v, err := d.Str()
		if err != nil {
			return err
		}
		mode = v
		return nil
	}); err != nil {
		writeError(w, http.StatusBadRequest, "invalid view payload")
		return
	}

	h.catalog.SetViewMode(catalog.ViewMode(mode))
	writeJSON(w, http.StatusOK, h.encodeCatalogView())
}

func (h *Handler) encodeCatalogView() *jx.Encoder {
	v := h.catalog.View()

	var e jx.Encoder
	e.Obj(func(e *jx.Encoder) {
		e.Field("state", func(e *jx.Encoder) { e.Str(string(v.State)) })
		if v.Error != "" {
			e.Field("error", func(e *jx.Encoder) { e.Str(v.Error) })
		}
		e.Field("criteria", func(e *jx.Encoder) {
			e.Obj(func(e *jx.Encoder) {
				e.Field("search", func(e *jx.Encoder) { e.Str(v.Criteria.Search) })
				e.Field("category", func(e *jx.Encoder) { e.Str(v.Criteria.Category) })
				e.Field("sort", func(e *jx.Encoder) { e.Str(string(v.Criteria.Sort)) })
			})
		})
		e.Field("viewMode", func(e *jx.Encoder) { e.Str(string(v.ViewMode)) })
		e.Field("products", func(e *jx.Encoder) {
			e.Arr(func(e *jx.Encoder) {
				for _, p := range v.Page {
					h.encodeProduct(e, p)
				}
			})
		})
		e.Field("currentPage", func(e *jx.Encoder) { e.Int(v.Current) })
		e.Field("totalPages", func(e *jx.Encoder) { e.Int(v.TotalPages) })
		e.Field("pageWindow", func(e *jx.Encoder) {
			e.Arr(func(e *jx.Encoder) {
				for _, n := range v.Window {
					e.Int(n)
				}
			})
		})
		e.Field("resultCount", func(e *jx.Encoder) { e.Int(v.Results) })
		e.Field("categories", func(e *jx.Encoder) {
			e.Arr(func(e *jx.Encoder) {
				for _, c := range v.Categories {
					e.Str(c)
				}
			})
		})
	})
	return &e
}

func (h *Handler) encodeProduct(e *jx.Encoder, p product.Product) {
	e.Obj(func(e *jx.Encoder) {
		e.Field("id", func(e *jx.Encoder) { e.Int64(p.ID) })
		e.Field("title", func(e *jx.Encoder) { e.Str(p.Title) })
		e.Field("description", func(e *jx.Encoder) { e.Str(p.Description) })
		e.Field("price", func(e *jx.Encoder) { e.Float64(p.Price.InexactFloat64()) })
		e.Field("category", func(e *jx.Encoder) { e.Str(p.Category) })
		e.Field("image", func(e *jx.Encoder) { e.Str(p.Image()) })
		e.Field("images", func(e *jx.Encoder) {
			e.Arr(func(e *jx.Encoder) {
				for _, img := range p.Images {
					e.Str(img)
				}
			})
		})
		e.Field("wishlisted", func(e *jx.Encoder) { e.Bool(h.wishlist.Contains(p.ID)) })
	})
}

func encodeTime(e *jx.Encoder, t time.Time) {
	e.Str(t.UTC().Format(time.RFC3339))
}
