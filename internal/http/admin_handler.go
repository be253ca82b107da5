package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// @Summary     Reported polls
// @Tags        admin
// @Security    BearerAuth
// @Produce     json
// @Success     200  {array}  poll.Poll
// @Failure     403  {object} map[string]string  "forbidden"
// @Router      /api/v1/admin/polls/reported [get]
func (h *Handler) handleReportedPolls(w http.ResponseWriter, r *http.Request) {
	polls, err := h.pollSvc.ReportedPolls(r.Context())
	if err != nil {
		errorResponse(w, err)
		return
	}
	writeJSON(w, http.StatusOK, polls)
}

// @Summary     Reported comments
// @Tags        admin
// @Security    BearerAuth
// @Produce     json
// @Success     200  {array}  comment.Comment
// @Failure     403  {object} map[string]string  "forbidden"
// @Router      /api/v1/admin/comments/reported [get]
func (h *Handler) handleReportedComments(w http.ResponseWriter, r *http.Request) {
	comments, err := h.commentSvc.ReportedComments(r.Context())
	if err != nil {
		errorResponse(w, err)
		return
	}
	writeJSON(w, http.StatusOK, comments)
}

// @Summary     Delete a poll and its comments
// @Tags        admin
// @Security    BearerAuth
// @Param       id   path  string  true  "Poll ID"
// @Success     204
// @Failure     403  {object}  map[string]string  "forbidden"
// @Failure     404  {object}  map[string]string  "not found"
// @Router      /api/v1/admin/polls/{id} [delete]
func (h *Handler) handleDeletePoll(w http.ResponseWriter, r *http.Request) {
	pollID := chi.URLParam(r, "id")

	if err := h.commentSvc.DeleteByPoll(r.Context(), pollID); err != nil {
		errorResponse(w, err)
		return
	}
	if err := h.pollSvc.Delete(r.Context(), pollID); err != nil {
		errorResponse(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// @Summary     Delete a comment
// @Tags        admin
// @Security    BearerAuth
// @Param       id   path  string  true  "Comment ID"
// @Success     204
// @Failure     403  {object}  map[string]string  "forbidden"
// @Failure     404  {object}  map[string]string  "not found"
// @Router      /api/v1/admin/comments/{id} [delete]
func (h *Handler) handleDeleteComment(w http.ResponseWriter, r *http.Request) {
	if err := h.commentSvc.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		errorResponse(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// @Summary     List users
// @Tags        admin
// @Security    BearerAuth
// @Produce     json
// @Success     200  {array}  user.User
// @Failure     403  {object} map[string]string  "forbidden"
// @Router      /api/v1/admin/users [get]
func (h *Handler) handleListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.userSvc.List(r.Context())
	if err != nil {
		errorResponse(w, err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}

// @Summary     Toggle a user ban
// @Tags        admin
// @Security    BearerAuth
// @Produce     json
// @Param       id   path      string  true  "User ID"
// @Success     200  {object}  map[string]bool
// @Failure     403  {object}  map[string]string  "forbidden"
// @Failure     404  {object}  map[string]string  "not found"
// @Router      /api/v1/admin/users/{id}/ban [patch]
func (h *Handler) handleToggleBan(w http.ResponseWriter, r *http.Request) {
	banned, err := h.userSvc.ToggleBan(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		errorResponse(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"banned": banned})
}
