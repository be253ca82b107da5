package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"pulse/internal/domain/poll"
	"pulse/internal/platform/apperr"
	"pulse/internal/worker"
)

type createPollRequest struct {
	Content  string         `json:"content"`
	Category string         `json:"category"`
	Location *poll.Location `json:"location"`
}

type castVoteRequest struct {
	Vote string `json:"vote"`
}

// @Summary     Create a poll
// @Tags        polls
// @Security    BearerAuth
// @Accept      json
// @Produce     json
// @Param       request  body      createPollRequest  true  "Poll payload"
// @Success     201      {object}  poll.Poll
// @Failure     400      {object}  map[string]string  "empty content"
// @Failure     401      {object}  map[string]string  "unauthorized"
// @Failure     500      {object}  map[string]string  "server error"
// @Router      /api/v1/polls [post]
func (h *Handler) handleCreatePoll(w http.ResponseWriter, r *http.Request) {
	var req createPollRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errorResponse(w, apperr.BadRequest("invalid_input", "invalid body", err))
		return
	}

	p, err := h.pollSvc.Create(r.Context(), userIDFromCtx(r), req.Content, req.Category, req.Location)
	if err != nil {
		errorResponse(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, p)
}

// @Summary     Get a poll
// @Tags        polls
// @Security    BearerAuth
// @Produce     json
// @Param       id   path      string  true  "Poll ID"
// @Success     200  {object}  poll.Poll
// @Failure     404  {object}  map[string]string  "not found"
// @Router      /api/v1/polls/{id} [get]
func (h *Handler) handleGetPoll(w http.ResponseWriter, r *http.Request) {
	p, err := h.pollSvc.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		errorResponse(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// @Summary     Cast a yes/no vote
// @Tags        polls
// @Security    BearerAuth
// @Accept      json
// @Produce     json
// @Param       id       path      string           true  "Poll ID"
// @Param       request  body      castVoteRequest  true  "Vote payload"
// @Success     200      {object}  poll.Poll
// @Failure     400      {object}  map[string]string  "invalid choice"
// @Failure     404      {object}  map[string]string  "not found"
// @Failure     409      {object}  map[string]string  "already voted"
// @Router      /api/v1/polls/{id}/vote [post]
func (h *Handler) handleVote(w http.ResponseWriter, r *http.Request) {
	var req castVoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errorResponse(w, apperr.BadRequest("invalid_input", "invalid body", err))
		return
	}

	pollID := chi.URLParam(r, "id")
	userID := userIDFromCtx(r)

	p, err := h.pollSvc.CastVote(r.Context(), pollID, userID, req.Vote)
	if err != nil {
		errorResponse(w, err)
		return
	}

	select {
	case h.engagementCh <- worker.EngagementEvent{Kind: worker.KindVote, PollID: pollID, UserID: userID}:
	default:
	}

	writeJSON(w, http.StatusOK, p)
}

// @Summary     Toggle a like on a poll
// @Tags        polls
// @Security    BearerAuth
// @Produce     json
// @Param       id   path      string  true  "Poll ID"
// @Success     200  {object}  poll.Poll
// @Failure     404  {object}  map[string]string  "not found"
// @Router      /api/v1/polls/{id}/like [post]
func (h *Handler) handleLikePoll(w http.ResponseWriter, r *http.Request) {
	pollID := chi.URLParam(r, "id")
	userID := userIDFromCtx(r)

	p, err := h.pollSvc.ToggleLike(r.Context(), pollID, userID)
	if err != nil {
		errorResponse(w, err)
		return
	}

	select {
	case h.engagementCh <- worker.EngagementEvent{Kind: worker.KindLike, PollID: pollID, UserID: userID}:
	default:
	}

	writeJSON(w, http.StatusOK, p)
}

// @Summary     Report a poll
// @Tags        polls
// @Security    BearerAuth
// @Param       id   path  string  true  "Poll ID"
// @Success     204
// @Failure     404  {object}  map[string]string  "not found"
// @Router      /api/v1/polls/{id}/report [post]
func (h *Handler) handleReportPoll(w http.ResponseWriter, r *http.Request) {
	if err := h.pollSvc.Report(r.Context(), chi.URLParam(r, "id")); err != nil {
		errorResponse(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// @Summary     Trending feed
// @Tags        feeds
// @Security    BearerAuth
// @Produce     json
// @Success     200  {array}  poll.Poll
// @Router      /api/v1/polls/trending [get]
func (h *Handler) handleTrending(w http.ResponseWriter, r *http.Request) {
	polls, err := h.pollSvc.Trending(r.Context(), poll.DefaultFeedLimit)
	if err != nil {
		errorResponse(w, err)
		return
	}
	writeJSON(w, http.StatusOK, polls)
}

// @Summary     Chronological feed
// @Tags        feeds
// @Security    BearerAuth
// @Produce     json
// @Success     200  {array}  poll.Poll
// @Router      /api/v1/polls/feed [get]
func (h *Handler) handleFeed(w http.ResponseWriter, r *http.Request) {
	polls, err := h.pollSvc.Feed(r.Context(), poll.DefaultFeedLimit)
	if err != nil {
		errorResponse(w, err)
		return
	}
	writeJSON(w, http.StatusOK, polls)
}
