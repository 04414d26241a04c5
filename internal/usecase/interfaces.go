package usecase

import (
	"context"

	"github.com/xavierca1/clinica-console/internal/entity"
	"github.com/xavierca1/clinica-console/internal/infra/integration/clinica"
	"github.com/xavierca1/clinica-console/internal/infra/session"
)

type ClientAPI interface {
	ListClients(ctx context.Context) ([]entity.Client, error)
	GetClient(ctx context.Context, cpf string) (*entity.Client, error)
	CreateClient(ctx context.Context, client entity.Client) error
	UpdateClient(ctx context.Context, client entity.Client) error
	DeleteClient(ctx context.Context, cpf string) error
}

type PaymentAPI interface {
	ListPayments(ctx context.Context, cpf string) ([]entity.Payment, error)
	CreatePayment(ctx context.Context, req entity.PaymentRequest) error
	UpdatePayment(ctx context.Context, id int, req entity.PaymentRequest) error
	DeletePayment(ctx context.Context, id int) error
	Receipt(ctx context.Context, cpf, month, year string) ([]byte, error)
	Report(ctx context.Context, startDate, endDate string) ([]byte, error)
}

type AuthAPI interface {
	Login(ctx context.Context, creds clinica.Credentials) (string, error)
	Register(ctx context.Context, creds clinica.Credentials) error
}

type SessionContext interface {
	Get() (session.Record, bool)
	Set(ctx context.Context, username, token string) (session.Record, error)
	Clear(ctx context.Context) error
}

// Notifier é o equivalente dos toasts/alerts da tela.
type Notifier interface {
	Success(msg string)
	Error(msg string)
}

// Confirmer pergunta ao usuário antes de operações destrutivas.
type Confirmer interface {
	Confirm(prompt string) bool
}

type ConfirmFunc func(prompt string) bool

func (f ConfirmFunc) Confirm(prompt string) bool {
	return f(prompt)
}

// Confirmed devolve um Confirmer com resposta fixa.
func Confirmed(answer bool) Confirmer {
	return ConfirmFunc(func(string) bool { return answer })
}

// Document é um PDF gerado pelo backend.
type Document struct {
	Name        string
	ContentType string
	Data        []byte
}

// DocumentSink recebe o PDF para exibição (a resposta HTTP, no servidor).
type DocumentSink interface {
	Open(doc Document) error
}
