package handlers

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"github.com/xavierca1/clinica-console/internal/logging"
	"github.com/xavierca1/clinica-console/internal/usecase"
	"github.com/xavierca1/clinica-console/internal/workspace"
)

const (
	SessionCookie = "console_session"
	SessionHeader = "X-Session-ID"
)

type workspaceKey struct{}

type SessionMiddleware struct {
	manager      *workspace.Manager
	secureCookie bool
	logger       *zap.Logger
}

func NewSessionMiddleware(manager *workspace.Manager, secureCookie bool, logger *zap.Logger) *SessionMiddleware {
	return &SessionMiddleware{manager: manager, secureCookie: secureCookie, logger: logging.OrNop(logger)}
}

// Attach resolve o workspace pelo cookie (ou header) e o coloca no contexto da requisição.
func (m *SessionMiddleware) Attach(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := sessionIDFrom(r)

		ws, err := m.manager.Resolve(r.Context(), id)
		if err != nil {
			m.logger.Error("falha ao resolver sessão", zap.Error(err))
			writeErrorResponse(w, http.StatusServiceUnavailable, "SESSION_STORE_UNAVAILABLE", "Armazenamento de sessão indisponível")
			return
		}

		if ws.ID() != id {
			m.setCookie(w, ws.ID(), 0)
		}
		w.Header().Set(SessionHeader, ws.ID())

		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), workspaceKey{}, ws)))
	})
}

func (m *SessionMiddleware) setCookie(w http.ResponseWriter, id string, maxAge int) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    id,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   m.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})
}

func (m *SessionMiddleware) clearCookie(w http.ResponseWriter) {
	m.setCookie(w, "", -1)
}

// RequireLogin barra rotas do console quando a sessão não existe ou expirou.
func RequireLogin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ws := WorkspaceFrom(r.Context())
		if ws == nil || !ws.Authenticated() {
			writeUseCaseError(w, usecase.ErrSessionExpired)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func WorkspaceFrom(ctx context.Context) *workspace.Workspace {
	ws, _ := ctx.Value(workspaceKey{}).(*workspace.Workspace)
	return ws
}

func sessionIDFrom(r *http.Request) string {
	if c, err := r.Cookie(SessionCookie); err == nil && c.Value != "" {
		return c.Value
	}
	return r.Header.Get(SessionHeader)
}
