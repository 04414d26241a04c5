package usecase

import "time"

type LoginInput struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type SessionOutput struct {
	SessionID string    `json:"-"`
	Username  string    `json:"username"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// FormOutput é o estado de um modal devolvido junto com erros de envio.
type FormOutput struct {
	State       ModalState        `json:"state"`
	FieldErrors map[string]string `json:"fieldErrors,omitempty"`
	FormError   string            `json:"formError,omitempty"`
}

func (m *Modal) Output() FormOutput {
	fields, formErr := m.Errors()
	return FormOutput{State: m.State(), FieldErrors: fields, FormError: formErr}
}
