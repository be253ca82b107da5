package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"pulse/internal/platform/apperr"
)

type setInterestsRequest struct {
	Interests []string `json:"interests"`
}

// @Summary     Toggle following a user
// @Tags        users
// @Security    BearerAuth
// @Produce     json
// @Param       id   path      string  true  "Target user ID"
// @Success     200  {object}  map[string]bool
// @Failure     400  {object}  map[string]string  "self follow"
// @Failure     404  {object}  map[string]string  "not found"
// @Router      /api/v1/users/{id}/follow [post]
func (h *Handler) handleToggleFollow(w http.ResponseWriter, r *http.Request) {
	following, err := h.userSvc.ToggleFollow(r.Context(), userIDFromCtx(r), chi.URLParam(r, "id"))
	if err != nil {
		errorResponse(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"following": following})
}

// @Summary     Replace the authenticated user's interests
// @Tags        users
// @Security    BearerAuth
// @Accept      json
// @Param       request  body  setInterestsRequest  true  "Interest list"
// @Success     204
// @Failure     400      {object}  map[string]string  "invalid body"
// @Router      /api/v1/users/me/interests [put]
func (h *Handler) handleSetInterests(w http.ResponseWriter, r *http.Request) {
	var req setInterestsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errorResponse(w, apperr.BadRequest("invalid_input", "invalid body", err))
		return
	}

	if err := h.userSvc.SetInterests(r.Context(), userIDFromCtx(r), req.Interests); err != nil {
		errorResponse(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// @Summary     Get the authenticated user's profile
// @Tags        users
// @Security    BearerAuth
// @Produce     json
// @Success     200  {object}  user.User
// @Failure     404  {object}  map[string]string  "not found"
// @Router      /api/v1/users/me [get]
func (h *Handler) handleMe(w http.ResponseWriter, r *http.Request) {
	u, err := h.userSvc.GetByID(r.Context(), userIDFromCtx(r))
	if err != nil {
		errorResponse(w, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}
