package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/xavierca1/clinica-console/internal/infra/http/middleware"
	"github.com/xavierca1/clinica-console/internal/infra/integration/clinica"
	"github.com/xavierca1/clinica-console/internal/usecase"
)

type ErrorResponse struct {
	Code    string              `json:"code"`
	Message string              `json:"message"`
	Fields  map[string]string   `json:"fields,omitempty"`
	Form    *usecase.FormOutput `json:"form,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeErrorResponse(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorResponse{Code: code, Message: message})
}

// writeUseCaseError traduz a taxonomia de erros do usecase para status HTTP.
func writeUseCaseError(w http.ResponseWriter, err error) {
	status, body := errorResponse(err)
	writeJSON(w, status, body)
}

// writeFormError inclui o estado do modal para a tela reexibir os erros.
func writeFormError(w http.ResponseWriter, err error, form usecase.FormOutput) {
	status, body := errorResponse(err)
	body.Form = &form
	writeJSON(w, status, body)
}

func errorResponse(err error) (int, ErrorResponse) {
	var verrs usecase.ValidationErrors
	if errors.As(err, &verrs) {
		return http.StatusUnprocessableEntity, ErrorResponse{
			Code:    "VALIDATION_ERROR",
			Message: "Verifique os campos destacados.",
			Fields:  verrs,
		}
	}

	if usecase.IsSessionExpired(err) {
		return http.StatusUnauthorized, ErrorResponse{Code: usecase.ErrSessionExpired.Code, Message: usecase.ErrSessionExpired.Message}
	}

	var de *usecase.DomainError
	if errors.As(err, &de) {
		return domainStatus(de), ErrorResponse{Code: de.Code, Message: de.Message}
	}

	if apiErr, ok := clinica.AsAPIError(err); ok {
		status := apiErr.Status
		if status >= 500 || status < 400 {
			status = http.StatusBadGateway
		}
		msg := apiErr.Message
		if msg == "" {
			msg = "Erro desconhecido"
		}
		return status, ErrorResponse{Code: "CLINIC_API_ERROR", Message: msg}
	}

	var te *usecase.TechnicalError
	if errors.As(err, &te) {
		middleware.RecordIntegrationError("clinica")
		return http.StatusBadGateway, ErrorResponse{Code: te.Code, Message: "API da clínica indisponível"}
	}

	return http.StatusInternalServerError, ErrorResponse{Code: "INTERNAL_ERROR", Message: "Erro interno"}
}

func domainStatus(de *usecase.DomainError) int {
	switch de {
	case usecase.ErrNotConfirmed, usecase.ErrModalNotOpen, usecase.ErrSubmitting:
		return http.StatusConflict
	case usecase.ErrNotFound:
		return http.StatusNotFound
	case usecase.ErrSessionExpired:
		return http.StatusUnauthorized
	default:
		return http.StatusBadRequest
	}
}
