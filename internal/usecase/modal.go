package usecase

import (
	"errors"
	"sync"
)

type ModalState string

const (
	ModalClosed     ModalState = "CLOSED"
	ModalOpen       ModalState = "OPEN"
	ModalSubmitting ModalState = "SUBMITTING"
)

// Modal controla Closed -> Open -> Submitting -> (Closed | Open com erro).
type Modal struct {
	mu          sync.Mutex
	state       ModalState
	fieldErrors ValidationErrors
	formError   string
}

func (m *Modal) State() ModalState {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state == "" {
		return ModalClosed
	}
	return m.state
}

// Errors devolve os erros por campo e o erro geral do último envio.
func (m *Modal) Errors() (ValidationErrors, string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	fields := ValidationErrors{}
	for k, v := range m.fieldErrors {
		fields[k] = v
	}
	return fields, m.formError
}

// open não interrompe um envio em andamento.
func (m *Modal) open() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state == ModalSubmitting {
		return ErrSubmitting
	}
	m.state = ModalOpen
	m.fieldErrors = nil
	m.formError = ""
	return nil
}

func (m *Modal) close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = ModalClosed
	m.fieldErrors = nil
	m.formError = ""
}

// begin passa para Submitting. Só é permitido a partir de Open.
func (m *Modal) begin() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	switch m.state {
	case ModalOpen:
		m.state = ModalSubmitting
		return nil
	case ModalSubmitting:
		return ErrSubmitting
	default:
		return ErrModalNotOpen
	}
}

// fail volta para Open guardando o erro. Validação vira erro de campo, o resto vira erro geral.
func (m *Modal) fail(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.state = ModalOpen
	m.fieldErrors = nil
	m.formError = ""

	var verrs ValidationErrors
	if errors.As(err, &verrs) {
		m.fieldErrors = verrs
		return
	}
	m.formError = formMessage(err)
}
