package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/xavierca1/clinica-console/internal/entity"
	"github.com/xavierca1/clinica-console/internal/usecase"
)

type ClientHandler struct{}

func NewClientHandler() *ClientHandler {
	return &ClientHandler{}
}

type clientListResponse struct {
	Query   string          `json:"query"`
	Total   int             `json:"total"`
	Clients []entity.Client `json:"clients"`
}

// List (GET /clients?q=) carrega o roster na primeira chamada e filtra por nome.
func (h *ClientHandler) List(w http.ResponseWriter, r *http.Request) {
	ws := WorkspaceFrom(r.Context())
	if !ws.Roster.Loaded() {
		if err := ws.Roster.Load(r.Context()); err != nil {
			writeUseCaseError(w, err)
			return
		}
	}

	q := r.URL.Query().Get("q")
	clients := ws.Roster.Search(q)
	writeJSON(w, http.StatusOK, clientListResponse{Query: q, Total: len(ws.Roster.Clients()), Clients: clients})
}

// Refresh (POST /clients/refresh)
func (h *ClientHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	ws := WorkspaceFrom(r.Context())
	if err := ws.Roster.Load(r.Context()); err != nil {
		writeUseCaseError(w, err)
		return
	}
	clients := ws.Roster.Filtered()
	writeJSON(w, http.StatusOK, clientListResponse{Total: len(ws.Roster.Clients()), Clients: clients})
}

// Get (GET /clients/{cpf}) abre o formulário de edição com o registro completo.
func (h *ClientHandler) Get(w http.ResponseWriter, r *http.Request) {
	ws := WorkspaceFrom(r.Context())
	client, err := ws.ClientEdit.Open(r.Context(), chi.URLParam(r, "cpf"))
	if err != nil {
		writeUseCaseError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, client)
}

// Create (POST /clients)
func (h *ClientHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input entity.Client
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_JSON", "JSON inválido")
		return
	}

	form := WorkspaceFrom(r.Context()).Registration
	if err := form.Open(); err != nil {
		writeUseCaseError(w, err)
		return
	}
	form.SetDraft(input)

	if err := form.Submit(r.Context()); err != nil {
		writeFormError(w, err, form.Output())
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"cpf":  usecase.NormalizeCPF(input.CPF),
		"form": form.Output(),
	})
}

// Update (PUT /clients/{cpf}). O CPF do path manda; o do corpo é ignorado.
func (h *ClientHandler) Update(w http.ResponseWriter, r *http.Request) {
	cpf := usecase.NormalizeCPF(chi.URLParam(r, "cpf"))

	var input entity.Client
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_JSON", "JSON inválido")
		return
	}

	form := WorkspaceFrom(r.Context()).ClientEdit
	if form.State() != usecase.ModalOpen || form.Draft().CPF != cpf {
		if _, err := form.Open(r.Context(), cpf); err != nil {
			writeUseCaseError(w, err)
			return
		}
	}
	form.SetDraft(input)

	if err := form.Submit(r.Context()); err != nil {
		writeFormError(w, err, form.Output())
		return
	}

	writeJSON(w, http.StatusOK, form.Draft())
}

// Delete (DELETE /clients/{cpf}?confirm=true)
func (h *ClientHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ws := WorkspaceFrom(r.Context())
	confirm := usecase.Confirmed(r.URL.Query().Get("confirm") == "true")

	if err := ws.Roster.Remove(r.Context(), chi.URLParam(r, "cpf"), confirm); err != nil {
		writeUseCaseError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
