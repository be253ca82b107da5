package api

import (
	"net/http"

	"pulse/internal/platform/apperr"
)

// @Summary     Personalized feed for the authenticated user
// @Tags        feeds
// @Security    BearerAuth
// @Produce     json
// @Success     200  {array}  poll.Poll
// @Router      /api/v1/feeds/personalized [get]
func (h *Handler) handlePersonalizedFeed(w http.ResponseWriter, r *http.Request) {
	polls, err := h.feedSvc.Personalized(r.Context(), userIDFromCtx(r))
	if err != nil {
		errorResponse(w, err)
		return
	}
	writeJSON(w, http.StatusOK, polls)
}

// @Summary     Location feed filtered by country and optional city
// @Tags        feeds
// @Security    BearerAuth
// @Produce     json
// @Param       country  query    string  true   "Country"
// @Param       city     query    string  false  "City"
// @Success     200      {array}  poll.Poll
// @Failure     400      {object} map[string]string  "missing country"
// @Router      /api/v1/feeds/location [get]
func (h *Handler) handleLocationFeed(w http.ResponseWriter, r *http.Request) {
	country := r.URL.Query().Get("country")
	if country == "" {
		errorResponse(w, apperr.BadRequest("invalid_input", "country is required", nil))
		return
	}

	polls, err := h.feedSvc.Location(r.Context(), country, r.URL.Query().Get("city"))
	if err != nil {
		errorResponse(w, err)
		return
	}
	writeJSON(w, http.StatusOK, polls)
}

// @Summary     Sponsored polls, newest first
// @Tags        feeds
// @Security    BearerAuth
// @Produce     json
// @Success     200  {array}  poll.Poll
// @Router      /api/v1/feeds/sponsored [get]
func (h *Handler) handleSponsoredFeed(w http.ResponseWriter, r *http.Request) {
	polls, err := h.feedSvc.Sponsored(r.Context())
	if err != nil {
		errorResponse(w, err)
		return
	}
	writeJSON(w, http.StatusOK, polls)
}

// @Summary     Explore feed ranked by likes
// @Tags        feeds
// @Security    BearerAuth
// @Produce     json
// @Success     200  {array}  poll.Poll
// @Router      /api/v1/feeds/explore [get]
func (h *Handler) handleExploreFeed(w http.ResponseWriter, r *http.Request) {
	polls, err := h.feedSvc.Explore(r.Context())
	if err != nil {
		errorResponse(w, err)
		return
	}
	writeJSON(w, http.StatusOK, polls)
}

// @Summary     Search suggestions over poll content
// @Tags        feeds
// @Security    BearerAuth
// @Produce     json
// @Param       q    query    string  true  "Search prefix"
// @Success     200  {array}  poll.Poll
// @Router      /api/v1/search/suggest [get]
func (h *Handler) handleSuggest(w http.ResponseWriter, r *http.Request) {
	polls, err := h.feedSvc.Suggest(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		errorResponse(w, err)
		return
	}
	writeJSON(w, http.StatusOK, polls)
}
