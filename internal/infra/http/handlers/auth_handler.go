package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/xavierca1/clinica-console/internal/infra/http/middleware"
	"github.com/xavierca1/clinica-console/internal/usecase"
	"github.com/xavierca1/clinica-console/internal/workspace"
)

type AuthHandler struct {
	manager  *workspace.Manager
	sessions *SessionMiddleware
	limiter  *RateLimiter
}

func NewAuthHandler(manager *workspace.Manager, sessions *SessionMiddleware, limiter *RateLimiter) *AuthHandler {
	return &AuthHandler{manager: manager, sessions: sessions, limiter: limiter}
}

// Login (POST /auth/login)
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if h.limiter != nil && !h.limiter.Allow(getClientIP(r)) {
		writeErrorResponse(w, http.StatusTooManyRequests, "TOO_MANY_ATTEMPTS", "Muitas tentativas de login. Aguarde um minuto.")
		return
	}

	var input usecase.LoginInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_JSON", "JSON inválido")
		return
	}

	ws := WorkspaceFrom(r.Context())
	out, err := ws.Auth.Login(r.Context(), input)
	if err != nil {
		middleware.RecordSessionEvent("login_failed")
		writeUseCaseError(w, err)
		return
	}

	middleware.RecordSessionEvent("login")
	writeJSON(w, http.StatusOK, out)
}

// Register (POST /auth/register) cria um usuário do console no backend.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var input usecase.LoginInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_JSON", "JSON inválido")
		return
	}

	ws := WorkspaceFrom(r.Context())
	if err := ws.Auth.RegisterUser(r.Context(), input); err != nil {
		writeUseCaseError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{"status": "created"})
}

// Logout (POST /auth/logout) apaga a sessão e o workspace.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	ws := WorkspaceFrom(r.Context())
	if err := ws.Auth.Logout(r.Context()); err != nil {
		writeErrorResponse(w, http.StatusServiceUnavailable, "SESSION_STORE_UNAVAILABLE", "Não foi possível encerrar a sessão")
		return
	}

	h.manager.Forget(ws.ID())
	h.sessions.clearCookie(w)
	middleware.RecordSessionEvent("logout")
	w.WriteHeader(http.StatusNoContent)
}

// Current (GET /auth/session)
func (h *AuthHandler) Current(w http.ResponseWriter, r *http.Request) {
	out, ok := WorkspaceFrom(r.Context()).Auth.Current()
	if !ok {
		writeUseCaseError(w, usecase.ErrSessionExpired)
		return
	}
	writeJSON(w, http.StatusOK, out)
}
