package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/atriumhq/atrium/pkg/httputil"
	"github.com/atriumhq/atrium/pkg/middleware"
	"github.com/atriumhq/atrium/pkg/notify"
)

// NotificationHandlers serves the active toast list.
type NotificationHandlers struct {
	hub *notify.Hub
}

// NewNotificationHandlers creates the handlers.
func NewNotificationHandlers(hub *notify.Hub) *NotificationHandlers {
	return &NotificationHandlers{hub: hub}
}

// RegisterRoutes registers the notification routes
func (h *NotificationHandlers) RegisterRoutes(router *mux.Router, guard *middleware.Guard) {
	authed := guard.Protect()
	router.Handle("/notifications", authed(http.HandlerFunc(h.list))).Methods("GET")
	router.Handle("/notifications", authed(http.HandlerFunc(h.clear))).Methods("DELETE")
	router.Handle("/notifications/{id}", authed(http.HandlerFunc(h.dismiss))).Methods("DELETE")
}

// list handles GET /notifications
func (h *NotificationHandlers) list(w http.ResponseWriter, r *http.Request) {
	httputil.WriteSuccess(w, h.hub.Active())
}

// dismiss handles DELETE /notifications/{id}
func (h *NotificationHandlers) dismiss(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParsePathStringOrError(w, r, "id")
	if !ok {
		return
	}
	h.hub.Remove(id)
	httputil.WriteNoContent(w)
}

// clear handles DELETE /notifications
func (h *NotificationHandlers) clear(w http.ResponseWriter, r *http.Request) {
	h.hub.Clear()
	httputil.WriteNoContent(w)
}
