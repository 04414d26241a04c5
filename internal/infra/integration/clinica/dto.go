package clinica

import (
	"errors"
	"fmt"
	"net/http"
)

type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// --- RESPONSE: o que o backend devolve no login ---
type loginResponse struct {
	Token string `json:"token"`
}

// Corpo de erro padrão do backend ({"message": "..."}).
type errorResponse struct {
	Message string `json:"message"`
}

// APIError é um erro reportado pelo backend (status não-2xx).
type APIError struct {
	Status    int
	Message   string
	Operation string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("api clinica rejeitou %s (status %d)", e.Operation, e.Status)
}

func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

func IsNotFound(err error) bool {
	apiErr, ok := AsAPIError(err)
	return ok && apiErr.Status == http.StatusNotFound
}

func IsUnauthorized(err error) bool {
	apiErr, ok := AsAPIError(err)
	return ok && (apiErr.Status == http.StatusUnauthorized || apiErr.Status == http.StatusForbidden)
}
