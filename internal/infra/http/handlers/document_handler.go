package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/xavierca1/clinica-console/internal/infra/http/middleware"
	"github.com/xavierca1/clinica-console/internal/infra/queue"
	"github.com/xavierca1/clinica-console/internal/logging"
	"github.com/xavierca1/clinica-console/internal/usecase"
)

const msgReceiptQueued = "Recibo será enviado por e-mail em instantes."

// pdfResponse é o DocumentSink do servidor: o navegador abre o PDF inline.
type pdfResponse struct {
	w http.ResponseWriter
}

func (p pdfResponse) Open(doc usecase.Document) error {
	p.w.Header().Set("Content-Type", doc.ContentType)
	p.w.Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=%q", doc.Name))
	p.w.Header().Set("Content-Length", strconv.Itoa(len(doc.Data)))
	p.w.WriteHeader(http.StatusOK)
	_, err := p.w.Write(doc.Data)
	return err
}

type DocumentHandler struct {
	publisher queue.ReceiptPublisher
	logger    *zap.Logger
}

// NewDocumentHandler aceita publisher nil: envio por e-mail desabilitado.
func NewDocumentHandler(publisher queue.ReceiptPublisher, logger *zap.Logger) *DocumentHandler {
	return &DocumentHandler{publisher: publisher, logger: logging.OrNop(logger)}
}

// Receipt (GET /clients/{cpf}/receipt?month=&year=)
func (h *DocumentHandler) Receipt(w http.ResponseWriter, r *http.Request) {
	ws := WorkspaceFrom(r.Context())
	form := ws.ReceiptForm
	if err := form.Open(); err != nil {
		writeUseCaseError(w, err)
		return
	}
	selectClient(ws, chi.URLParam(r, "cpf"))
	form.SetDraft(usecase.ReceiptDraft{
		Month: r.URL.Query().Get("month"),
		Year:  r.URL.Query().Get("year"),
	})

	if err := form.Submit(r.Context(), pdfResponse{w: w}); err != nil {
		h.writeDocumentError(w, err, form.Output())
	}
}

// EmailReceipt (POST /clients/{cpf}/receipt/email?month=&year=) enfileira o envio do recibo.
func (h *DocumentHandler) EmailReceipt(w http.ResponseWriter, r *http.Request) {
	if h.publisher == nil {
		writeErrorResponse(w, http.StatusServiceUnavailable, "RECEIPT_DELIVERY_DISABLED", "Envio de recibo por e-mail não configurado")
		return
	}

	month, year := r.URL.Query().Get("month"), r.URL.Query().Get("year")
	if errs := usecase.ValidateReceiptPeriod(month, year); len(errs) > 0 {
		writeUseCaseError(w, errs)
		return
	}

	ws := WorkspaceFrom(r.Context())
	rec, _ := ws.Session.Get()
	payload := queue.ReceiptDeliveryPayload{
		CPF:         usecase.NormalizeCPF(chi.URLParam(r, "cpf")),
		Month:       month,
		Year:        year,
		RequestedBy: rec.Username,
	}

	if err := h.publisher.PublishReceiptDelivery(r.Context(), payload); err != nil {
		h.logger.Error("falha ao enfileirar recibo", zap.String("cpf", payload.CPF), zap.Error(err))
		middleware.RecordReceiptDelivery("publish_failed")
		writeErrorResponse(w, http.StatusBadGateway, "QUEUE_UNAVAILABLE", "Não foi possível enfileirar o envio")
		return
	}

	middleware.RecordReceiptDelivery("queued")
	ws.Notifications.Success(msgReceiptQueued)
	writeJSON(w, http.StatusAccepted, map[string]string{"status": "queued"})
}

// writeDocumentError não escreve JSON se o PDF já começou a ser enviado.
func (h *DocumentHandler) writeDocumentError(w http.ResponseWriter, err error, form usecase.FormOutput) {
	var te *usecase.TechnicalError
	if errors.As(err, &te) && te.Code == usecase.CodeDocumentSink {
		h.logger.Warn("falha ao escrever PDF na resposta", zap.Error(err))
		return
	}
	writeFormError(w, err, form)
}

// Report (GET /reports?startDate=&endDate=)
func (h *DocumentHandler) Report(w http.ResponseWriter, r *http.Request) {
	form := WorkspaceFrom(r.Context()).ReportForm
	if err := form.Open(); err != nil {
		writeUseCaseError(w, err)
		return
	}
	form.SetDraft(usecase.ReportDraft{
		StartDate: r.URL.Query().Get("startDate"),
		EndDate:   r.URL.Query().Get("endDate"),
	})

	if err := form.Submit(r.Context(), pdfResponse{w: w}); err != nil {
		h.writeDocumentError(w, err, form.Output())
	}
}
