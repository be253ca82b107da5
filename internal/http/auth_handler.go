package api

import (
	"encoding/json"
	"net/http"
	"time"

	"pulse/internal/platform/apperr"
)

type registerRequest struct {
	Name     string `json:"name"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// @Summary     Register a new account
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       request  body      registerRequest  true  "Registration payload"
// @Success     201      {object}  map[string]any
// @Failure     400      {object}  map[string]string  "invalid body or taken email/username"
// @Failure     500      {object}  map[string]string  "server error"
// @Router      /api/v1/auth/register [post]
func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errorResponse(w, apperr.BadRequest("invalid_input", "invalid body", err))
		return
	}

	u, err := h.userSvc.Register(r.Context(), req.Name, req.Username, req.Email, req.Password)
	if err != nil {
		errorResponse(w, err)
		return
	}

	token, err := h.jwtMgr.Generate(u.ID, u.Role, 24*time.Hour)
	if err != nil {
		errorResponse(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"user":  u,
		"token": token,
	})
}

// @Summary     Log in
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       request  body      loginRequest  true  "Credentials"
// @Success     200      {object}  map[string]any
// @Failure     401      {object}  map[string]string  "invalid credentials or banned"
// @Failure     500      {object}  map[string]string  "server error"
// @Router      /api/v1/auth/login [post]
func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errorResponse(w, apperr.BadRequest("invalid_input", "invalid body", err))
		return
	}

	u, err := h.userSvc.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		errorResponse(w, err)
		return
	}

	token, err := h.jwtMgr.Generate(u.ID, u.Role, 24*time.Hour)
	if err != nil {
		errorResponse(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"user":  u,
		"token": token,
	})
}
