package handlers

import "net/http"

// Notifications (GET /notifications) devolve e limpa os toasts pendentes da sessão.
func Notifications(w http.ResponseWriter, r *http.Request) {
	ws := WorkspaceFrom(r.Context())
	writeJSON(w, http.StatusOK, map[string]any{"notifications": ws.Notifications.Drain()})
}
