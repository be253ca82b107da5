package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// @Summary     Notifications for the authenticated user, newest first
// @Tags        notifications
// @Security    BearerAuth
// @Produce     json
// @Success     200  {array}  notification.Notification
// @Router      /api/v1/notifications [get]
func (h *Handler) handleListNotifications(w http.ResponseWriter, r *http.Request) {
	items, err := h.notificationSvc.ListForUser(r.Context(), userIDFromCtx(r))
	if err != nil {
		errorResponse(w, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

// @Summary     Mark a notification as read
// @Tags        notifications
// @Security    BearerAuth
// @Param       id   path  string  true  "Notification ID"
// @Success     204
// @Failure     404  {object}  map[string]string  "not found"
// @Router      /api/v1/notifications/{id}/read [patch]
func (h *Handler) handleMarkNotificationRead(w http.ResponseWriter, r *http.Request) {
	if err := h.notificationSvc.MarkRead(r.Context(), chi.URLParam(r, "id")); err != nil {
		errorResponse(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
