package usecase

import (
	"errors"

	"github.com/xavierca1/clinica-console/internal/infra/integration/clinica"
)

var (
	ErrNotConfirmed     = &DomainError{Code: "NOT_CONFIRMED", Message: "operação não confirmada"}
	ErrNoClientSelected = &DomainError{Code: "NO_CLIENT_SELECTED", Message: "nenhum cliente selecionado"}
	ErrPaymentWithoutID = &DomainError{Code: "PAYMENT_WITHOUT_ID", Message: "pagamento sem id"}
	ErrNotFound         = &DomainError{Code: "NOT_FOUND", Message: "registro não encontrado"}
	ErrSessionExpired   = &DomainError{Code: "SESSION_EXPIRED", Message: "sessão expirada, faça login novamente"}
	ErrModalNotOpen     = &DomainError{Code: "MODAL_NOT_OPEN", Message: "formulário não está aberto"}
	ErrSubmitting       = &DomainError{Code: "SUBMITTING", Message: "envio já em andamento"}
)

const (
	unknownError = "Erro desconhecido"

	CodeAPIUnavailable = "API_UNAVAILABLE"
	CodeDocumentSink   = "DOCUMENT_SINK"
)

type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

func IsDomainError(err error) bool {
	var de *DomainError
	return errors.As(err, &de)
}

// TechnicalError cobre falhas de transporte com o backend (rede, timeout, corpo ilegível).
type TechnicalError struct {
	Code    string
	Message string
	Err     error
}

func (e *TechnicalError) Error() string {
	return e.Message
}

func (e *TechnicalError) Unwrap() error {
	return e.Err
}

func IsTechnicalError(err error) bool {
	var te *TechnicalError
	return errors.As(err, &te)
}

// classify mantém erros do backend como estão e embrulha o resto como TechnicalError.
func classify(op string, err error) error {
	if err == nil {
		return nil
	}
	if _, ok := clinica.AsAPIError(err); ok {
		if clinica.IsUnauthorized(err) {
			return errors.Join(ErrSessionExpired, err)
		}
		return err
	}
	return &TechnicalError{Code: CodeAPIUnavailable, Message: op + ": " + err.Error(), Err: err}
}

// serverMessage extrai a mensagem do backend ou o fallback genérico.
func serverMessage(err error) string {
	if apiErr, ok := clinica.AsAPIError(err); ok && apiErr.Message != "" {
		return apiErr.Message
	}
	return unknownError
}

// formMessage é o texto mostrado no topo do formulário quando o envio falha.
func formMessage(err error) string {
	if apiErr, ok := clinica.AsAPIError(err); ok && apiErr.Message != "" {
		return apiErr.Message
	}
	var de *DomainError
	if errors.As(err, &de) {
		return de.Message
	}
	return unknownError
}

func IsSessionExpired(err error) bool {
	return errors.Is(err, ErrSessionExpired)
}
