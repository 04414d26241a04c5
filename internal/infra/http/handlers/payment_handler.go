package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/xavierca1/clinica-console/internal/entity"
	"github.com/xavierca1/clinica-console/internal/usecase"
	"github.com/xavierca1/clinica-console/internal/workspace"
)

type PaymentHandler struct{}

func NewPaymentHandler() *PaymentHandler {
	return &PaymentHandler{}
}

type paymentListResponse struct {
	Client   entity.ClientRef `json:"client"`
	Payments []entity.Payment `json:"payments"`
}

// selectClient troca a seleção só quando o CPF muda, como na tela financeira.
func selectClient(ws *workspace.Workspace, rawCPF string) entity.ClientRef {
	cpf := usecase.NormalizeCPF(rawCPF)
	if ref, ok := ws.Payments.Selected(); ok && ref.CPF == cpf {
		return ref
	}

	ref := entity.ClientRef{CPF: cpf}
	if c, ok := ws.Roster.Lookup(cpf); ok {
		ref = c.Ref()
	}
	ws.Payments.Select(ref)
	return ref
}

func writePayments(w http.ResponseWriter, status int, ws *workspace.Workspace) {
	ref, _ := ws.Payments.Selected()
	writeJSON(w, status, paymentListResponse{Client: ref, Payments: ws.Payments.Payments()})
}

// List (GET /clients/{cpf}/payments)
func (h *PaymentHandler) List(w http.ResponseWriter, r *http.Request) {
	ws := WorkspaceFrom(r.Context())
	selectClient(ws, chi.URLParam(r, "cpf"))

	if err := ws.Payments.List(r.Context()); err != nil {
		writeUseCaseError(w, err)
		return
	}
	writePayments(w, http.StatusOK, ws)
}

// Create (POST /clients/{cpf}/payments)
func (h *PaymentHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input entity.Payment
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_JSON", "JSON inválido")
		return
	}

	ws := WorkspaceFrom(r.Context())
	form := ws.PaymentForm
	if err := form.OpenNew(); err != nil {
		writeUseCaseError(w, err)
		return
	}
	selectClient(ws, chi.URLParam(r, "cpf"))
	form.SetDraft(input)

	if err := form.Submit(r.Context()); err != nil {
		writeFormError(w, err, form.Output())
		return
	}
	writePayments(w, http.StatusCreated, ws)
}

// Update (PUT /clients/{cpf}/payments/{id})
func (h *PaymentHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_ID", "id de pagamento inválido")
		return
	}

	var input entity.Payment
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_JSON", "JSON inválido")
		return
	}
	input.ID = entity.IntPtr(id)

	ws := WorkspaceFrom(r.Context())
	form := ws.PaymentForm
	if err := form.OpenEdit(input); err != nil {
		writeUseCaseError(w, err)
		return
	}
	selectClient(ws, chi.URLParam(r, "cpf"))

	if err := form.Submit(r.Context()); err != nil {
		writeFormError(w, err, form.Output())
		return
	}
	writePayments(w, http.StatusOK, ws)
}

// Delete (DELETE /clients/{cpf}/payments/{id}?confirm=true)
func (h *PaymentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_ID", "id de pagamento inválido")
		return
	}

	ws := WorkspaceFrom(r.Context())
	selectClient(ws, chi.URLParam(r, "cpf"))
	confirm := usecase.Confirmed(r.URL.Query().Get("confirm") == "true")

	if err := ws.Payments.Remove(r.Context(), id, confirm); err != nil {
		writeUseCaseError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
