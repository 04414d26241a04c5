package usecase

import (
	"context"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/xavierca1/clinica-console/internal/entity"
	"github.com/xavierca1/clinica-console/internal/infra/integration/clinica"
	"github.com/xavierca1/clinica-console/internal/infra/session"
)

// MockClientAPI
type MockClientAPI struct {
	mock.Mock
}

func (m *MockClientAPI) ListClients(ctx context.Context) ([]entity.Client, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Client), args.Error(1)
}

func (m *MockClientAPI) GetClient(ctx context.Context, cpf string) (*entity.Client, error) {
	args := m.Called(ctx, cpf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Client), args.Error(1)
}

func (m *MockClientAPI) CreateClient(ctx context.Context, client entity.Client) error {
	return m.Called(ctx, client).Error(0)
}

func (m *MockClientAPI) UpdateClient(ctx context.Context, client entity.Client) error {
	return m.Called(ctx, client).Error(0)
}

func (m *MockClientAPI) DeleteClient(ctx context.Context, cpf string) error {
	return m.Called(ctx, cpf).Error(0)
}

// MockPaymentAPI
type MockPaymentAPI struct {
	mock.Mock
}

func (m *MockPaymentAPI) ListPayments(ctx context.Context, cpf string) ([]entity.Payment, error) {
	args := m.Called(ctx, cpf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Payment), args.Error(1)
}

func (m *MockPaymentAPI) CreatePayment(ctx context.Context, req entity.PaymentRequest) error {
	return m.Called(ctx, req).Error(0)
}

func (m *MockPaymentAPI) UpdatePayment(ctx context.Context, id int, req entity.PaymentRequest) error {
	return m.Called(ctx, id, req).Error(0)
}

func (m *MockPaymentAPI) DeletePayment(ctx context.Context, id int) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockPaymentAPI) Receipt(ctx context.Context, cpf, month, year string) ([]byte, error) {
	args := m.Called(ctx, cpf, month, year)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockPaymentAPI) Report(ctx context.Context, startDate, endDate string) ([]byte, error) {
	args := m.Called(ctx, startDate, endDate)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

// MockAuthAPI
type MockAuthAPI struct {
	mock.Mock
}

func (m *MockAuthAPI) Login(ctx context.Context, creds clinica.Credentials) (string, error) {
	args := m.Called(ctx, creds)
	return args.String(0), args.Error(1)
}

func (m *MockAuthAPI) Register(ctx context.Context, creds clinica.Credentials) error {
	return m.Called(ctx, creds).Error(0)
}

type recordingNotifier struct {
	mu        sync.Mutex
	successes []string
	errors    []string
}

func (n *recordingNotifier) Success(msg string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.successes = append(n.successes, msg)
}

func (n *recordingNotifier) Error(msg string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.errors = append(n.errors, msg)
}

type memorySink struct {
	docs []Document
	err  error
}

func (s *memorySink) Open(doc Document) error {
	if s.err != nil {
		return s.err
	}
	s.docs = append(s.docs, doc)
	return nil
}

func newSessionContext() *session.Context {
	return session.NewContext(session.NewID(), session.NewMemoryStore(), time.Hour)
}

func validClient() entity.Client {
	return entity.Client{
		Nome:                 "Ana Souza",
		CPF:                  "123.456.789-09",
		Email:                "ana@example.com",
		Telefone:             "(31) 98765-4321",
		Endereco:             "Rua A, 10",
		DataNascimento:       "10/05/1990",
		Genero:               entity.GenderFeminino,
		Estado:               "MG",
		Religiao:             "Nenhuma",
		Tratamento:           "Terapia cognitiva",
		Medicamentos:         "Nenhum",
		Frequencia:           "Semanal",
		QueixaPrincipal:      "Ansiedade",
		Escolaridade:         entity.EnsinoSuperiorCompleto,
		DataInicioTratamento: "01/02/2024",
		RecebeuAlta:          entity.DischargeNao,
	}
}

func apiError(status int, msg string) error {
	return &clinica.APIError{Status: status, Message: msg, Operation: "test"}
}
