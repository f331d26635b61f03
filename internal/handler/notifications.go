package handler

import (
	"net/http"

	"github.com/go-faster/jx"
)

// getNotifications returns the retained notifications, oldest first.
func (h *Handler) getNotifications(w http.ResponseWriter, _ *http.Request) {
	recent := h.notify.Recent()

	var e jx.Encoder
	e.Obj(func(e *jx.Encoder) {
		e.Field("notifications", func(e *jx.Encoder) {
			e.Arr(func(e *jx.Encoder) {
				for _, n := range recent {
					e.Obj(func(e *jx.Encoder) {
						e.Field("id", func(e *jx.Encoder) { e.Str(n.ID) })
						e.Field("severity", func(e *jx.Encoder) { e.Str(string(n.Severity)) })
						e.Field("message", func(e *jx.Encoder) { e.Str(n.Message) })
						e.Field("at", func(e *jx.Encoder) { encodeTime(e, n.At) })
					})
				}
			})
		})
	})
	writeJSON(w, http.StatusOK, &e)
}
