package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"pulse/internal/platform/apperr"
	"pulse/internal/worker"
)

type addCommentRequest struct {
	Text     string  `json:"text"`
	ParentID *string `json:"parentComment"`
}

// @Summary     Add a comment to a poll
// @Tags        comments
// @Security    BearerAuth
// @Accept      json
// @Produce     json
// @Param       id       path      string             true  "Poll ID"
// @Param       request  body      addCommentRequest  true  "Comment payload"
// @Success     201      {object}  comment.Comment
// @Failure     400      {object}  map[string]string  "empty text"
// @Failure     404      {object}  map[string]string  "poll or parent not found"
// @Router      /api/v1/polls/{id}/comments [post]
func (h *Handler) handleAddComment(w http.ResponseWriter, r *http.Request) {
	var req addCommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errorResponse(w, apperr.BadRequest("invalid_input", "invalid body", err))
		return
	}

	pollID := chi.URLParam(r, "id")
	userID := userIDFromCtx(r)

	c, err := h.commentSvc.Add(r.Context(), pollID, userID, req.Text, req.ParentID)
	if err != nil {
		errorResponse(w, err)
		return
	}

	select {
	case h.engagementCh <- worker.EngagementEvent{Kind: worker.KindComment, PollID: pollID, UserID: userID}:
	default:
	}

	writeJSON(w, http.StatusCreated, c)
}

// @Summary     Top-level comments for a poll, oldest first
// @Tags        comments
// @Security    BearerAuth
// @Produce     json
// @Param       id   path     string  true  "Poll ID"
// @Success     200  {array}  comment.Comment
// @Router      /api/v1/polls/{id}/comments [get]
func (h *Handler) handleListComments(w http.ResponseWriter, r *http.Request) {
	comments, err := h.commentSvc.ListTopLevel(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		errorResponse(w, err)
		return
	}
	writeJSON(w, http.StatusOK, comments)
}

// @Summary     Full comment thread for a poll
// @Tags        comments
// @Security    BearerAuth
// @Produce     json
// @Param       id   path     string  true  "Poll ID"
// @Success     200  {array}  comment.Node
// @Router      /api/v1/polls/{id}/comments/thread [get]
func (h *Handler) handleCommentThread(w http.ResponseWriter, r *http.Request) {
	nodes, err := h.commentSvc.Thread(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		errorResponse(w, err)
		return
	}
	writeJSON(w, http.StatusOK, nodes)
}

// @Summary     Toggle a like on a comment
// @Tags        comments
// @Security    BearerAuth
// @Produce     json
// @Param       id   path      string  true  "Comment ID"
// @Success     200  {object}  comment.Comment
// @Failure     404  {object}  map[string]string  "not found"
// @Router      /api/v1/comments/{id}/like [post]
func (h *Handler) handleLikeComment(w http.ResponseWriter, r *http.Request) {
	c, err := h.commentSvc.ToggleLike(r.Context(), chi.URLParam(r, "id"), userIDFromCtx(r))
	if err != nil {
		errorResponse(w, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// @Summary     Report a comment
// @Tags        comments
// @Security    BearerAuth
// @Param       id   path  string  true  "Comment ID"
// @Success     204
// @Failure     404  {object}  map[string]string  "not found"
// @Router      /api/v1/comments/{id}/report [post]
func (h *Handler) handleReportComment(w http.ResponseWriter, r *http.Request) {
	if err := h.commentSvc.Report(r.Context(), chi.URLParam(r, "id")); err != nil {
		errorResponse(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
