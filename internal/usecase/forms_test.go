package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/xavierca1/clinica-console/internal/entity"
)

func TestRegistrationForm_Defaults(t *testing.T) {
	f := NewRegistrationForm(NewRoster(new(MockClientAPI), &recordingNotifier{}, nil), 0)
	f.Open()

	d := f.Draft()
	assert.Equal(t, entity.GenderMasculino, d.Genero)
	assert.Equal(t, entity.State("MG"), d.Estado)
	assert.Equal(t, entity.DischargeNao, d.RecebeuAlta)
	assert.Equal(t, ModalOpen, f.State())
}

func TestRegistrationForm_SubmitRequiresOpenModal(t *testing.T) {
	f := NewRegistrationForm(NewRoster(new(MockClientAPI), &recordingNotifier{}, nil), 0)
	f.SetDraft(validClient())

	assert.ErrorIs(t, f.Submit(context.Background()), ErrModalNotOpen)
}

func TestRegistrationForm_ValidationKeepsModalOpen(t *testing.T) {
	api := new(MockClientAPI)
	f := NewRegistrationForm(NewRoster(api, &recordingNotifier{}, nil), 0)
	f.Open()

	c := validClient()
	c.CPF = "123"
	c.Email = "ana@"
	c.Telefone = "12345"
	c.Nome = " "
	f.SetDraft(c)

	err := f.Submit(context.Background())

	var verrs ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Len(t, verrs, 4)
	assert.Equal(t, ModalOpen, f.State())
	fields, general := f.Errors()
	assert.Contains(t, fields, "cpf")
	assert.Empty(t, general)
	assert.Equal(t, "123", f.Draft().CPF, "rascunho preservado")
	api.AssertNotCalled(t, "CreateClient", mock.Anything, mock.Anything)
}

func TestRegistrationForm_ServerRejectionBecomesFormError(t *testing.T) {
	api := new(MockClientAPI)
	f := NewRegistrationForm(NewRoster(api, &recordingNotifier{}, nil), 0)
	api.On("CreateClient", mock.Anything, mock.Anything).Return(apiError(400, "CPF inválido na Receita")).Once()
	f.Open()
	f.SetDraft(validClient())

	require.Error(t, f.Submit(context.Background()))

	assert.Equal(t, ModalOpen, f.State())
	fields, general := f.Errors()
	assert.Empty(t, fields)
	assert.Equal(t, "CPF inválido na Receita", general)
	assert.Equal(t, "Ana Souza", f.Draft().Nome)
}

func TestRegistrationForm_SuccessClosesAfterDelay(t *testing.T) {
	api := new(MockClientAPI)
	roster := NewRoster(api, &recordingNotifier{}, nil)
	api.On("CreateClient", mock.Anything, mock.Anything).Return(nil).Once()
	api.On("ListClients", mock.Anything).Return([]entity.Client{{Nome: "Ana Souza", CPF: testCPF}}, nil).Once()

	f := NewRegistrationForm(roster, 20*time.Millisecond)
	f.Open()
	f.SetDraft(validClient())

	require.NoError(t, f.Submit(context.Background()))
	assert.Equal(t, ModalSubmitting, f.State())
	assert.ErrorIs(t, f.Submit(context.Background()), ErrSubmitting)

	assert.Eventually(t, func() bool { return f.State() == ModalClosed }, time.Second, 5*time.Millisecond)
	assert.Equal(t, DefaultClientDraft(), f.Draft())
	assert.Len(t, roster.Clients(), 1)
}

func TestRegistrationForm_ZeroDelayClosesImmediately(t *testing.T) {
	api := new(MockClientAPI)
	api.On("CreateClient", mock.Anything, mock.Anything).Return(nil).Once()
	api.On("ListClients", mock.Anything).Return([]entity.Client{}, nil).Once()
	f := NewRegistrationForm(NewRoster(api, &recordingNotifier{}, nil), 0)
	f.Open()
	f.SetDraft(validClient())

	require.NoError(t, f.Submit(context.Background()))
	assert.Equal(t, ModalClosed, f.State())
}

func TestRegistrationForm_OpenDuringPendingCloseReopens(t *testing.T) {
	api := new(MockClientAPI)
	api.On("CreateClient", mock.Anything, mock.Anything).Return(nil).Once()
	api.On("ListClients", mock.Anything).Return([]entity.Client{}, nil).Once()

	f := NewRegistrationForm(NewRoster(api, &recordingNotifier{}, nil), 30*time.Millisecond)
	require.NoError(t, f.Open())
	f.SetDraft(validClient())
	require.NoError(t, f.Submit(context.Background()))

	require.NoError(t, f.Open())
	assert.Equal(t, ModalOpen, f.State())

	// o fechamento cancelado não pode derrubar o modal reaberto
	time.Sleep(60 * time.Millisecond)
	assert.Equal(t, ModalOpen, f.State())
}

func TestRegistrationForm_OpenWhileSubmittingIsRejected(t *testing.T) {
	api := new(MockClientAPI)
	started := make(chan struct{})
	release := make(chan struct{})
	api.On("CreateClient", mock.Anything, mock.Anything).
		Return(nil).
		Once().
		Run(func(mock.Arguments) {
			close(started)
			<-release
		})
	api.On("ListClients", mock.Anything).Return([]entity.Client{}, nil).Once()

	f := NewRegistrationForm(NewRoster(api, &recordingNotifier{}, nil), 0)
	require.NoError(t, f.Open())
	f.SetDraft(validClient())

	done := make(chan error)
	go func() { done <- f.Submit(context.Background()) }()
	<-started

	assert.ErrorIs(t, f.Open(), ErrSubmitting)
	assert.Equal(t, ModalSubmitting, f.State())
	assert.Equal(t, "Ana Souza", f.Draft().Nome, "rascunho em envio preservado")

	close(release)
	require.NoError(t, <-done)
	assert.Equal(t, ModalClosed, f.State())
}

func TestClientEditForm_CPFIsImmutable(t *testing.T) {
	api := new(MockClientAPI)
	roster := NewRoster(api, &recordingNotifier{}, nil)
	c := validClient()
	c.CPF = testCPF
	api.On("GetClient", mock.Anything, testCPF).Return(&c, nil).Once()
	api.On("UpdateClient", mock.Anything, mock.MatchedBy(func(u entity.Client) bool {
		return u.CPF == testCPF && u.Nome == "Ana S."
	})).Return(nil).Once()

	f := NewClientEditForm(roster)
	draft, err := f.Open(context.Background(), testCPF)
	require.NoError(t, err)
	assert.Equal(t, "1990-05-10", draft.DataNascimento)

	draft.Nome = "Ana S."
	draft.CPF = "00000000000"
	f.SetDraft(draft)
	assert.Equal(t, testCPF, f.Draft().CPF)

	require.NoError(t, f.Submit(context.Background()))
	assert.Equal(t, ModalClosed, f.State())
	api.AssertExpectations(t)
}

func TestPaymentForm_EditThenResetToBlank(t *testing.T) {
	api := new(MockPaymentAPI)
	p, _ := newTestPayments(api)
	api.On("UpdatePayment", mock.Anything, 7, mock.Anything).Return(nil).Once()
	api.On("ListPayments", mock.Anything, testCPF).Return([]entity.Payment{}, nil).Once()

	f := NewPaymentForm(p)
	require.ErrorIs(t, f.OpenEdit(entity.Payment{ValorPago: "10"}), ErrPaymentWithoutID)

	require.NoError(t, f.OpenEdit(entity.Payment{ID: entity.IntPtr(7), ValorPago: "10", DiaDoPagamento: "10/03/2024", Metodo: entity.MethodCartao}))
	assert.Equal(t, "2024-03-10", f.Draft().DiaDoPagamento)

	edited := f.Draft()
	edited.ID = nil
	edited.ValorPago = "12"
	f.SetDraft(edited)
	require.NotNil(t, f.Draft().ID, "id de edição preservado")

	require.NoError(t, f.Submit(context.Background()))
	assert.Equal(t, ModalClosed, f.State())
	assert.Equal(t, BlankPaymentDraft(), f.Draft())
	assert.Equal(t, entity.MethodPix, f.Draft().Metodo)
}

func TestPaymentForm_FailureKeepsDraft(t *testing.T) {
	api := new(MockPaymentAPI)
	p, _ := newTestPayments(api)
	api.On("CreatePayment", mock.Anything, mock.Anything).Return(apiError(422, "Valor acima do limite")).Once()

	f := NewPaymentForm(p)
	f.OpenNew()
	f.SetDraft(entity.Payment{ValorPago: "99999", DiaDoPagamento: "2024-01-01"})

	require.Error(t, f.Submit(context.Background()))
	assert.Equal(t, ModalOpen, f.State())
	_, general := f.Errors()
	assert.Equal(t, "Valor acima do limite", general)
	assert.Equal(t, "99999", f.Draft().ValorPago)
}

func TestPaymentForm_OpenWhileSubmittingIsRejected(t *testing.T) {
	api := new(MockPaymentAPI)
	p, _ := newTestPayments(api)
	started := make(chan struct{})
	release := make(chan struct{})
	api.On("CreatePayment", mock.Anything, mock.Anything).
		Return(nil).
		Once().
		Run(func(mock.Arguments) {
			close(started)
			<-release
		})
	api.On("ListPayments", mock.Anything, testCPF).Return([]entity.Payment{savedPayment(1, "80")}, nil).Once()

	f := NewPaymentForm(p)
	require.NoError(t, f.OpenNew())
	f.SetDraft(entity.Payment{ValorPago: "80", DiaDoPagamento: "2024-03-10"})

	done := make(chan error)
	go func() { done <- f.Submit(context.Background()) }()
	<-started

	assert.ErrorIs(t, f.OpenNew(), ErrSubmitting)
	assert.ErrorIs(t, f.OpenEdit(savedPayment(1, "10")), ErrSubmitting)
	assert.Equal(t, "80", f.Draft().ValorPago)
	assert.ErrorIs(t, f.Submit(context.Background()), ErrSubmitting)

	close(release)
	require.NoError(t, <-done)
	assert.Equal(t, ModalClosed, f.State())
	api.AssertNumberOfCalls(t, "CreatePayment", 1)
}

func TestReceiptForm_ClearsDraftOnSuccessOnly(t *testing.T) {
	api := new(MockPaymentAPI)
	p, _ := newTestPayments(api)
	api.On("Receipt", mock.Anything, testCPF, "4", "2024").Return(nil, apiError(500, "")).Once()
	api.On("Receipt", mock.Anything, testCPF, "4", "2024").Return([]byte("%PDF"), nil).Once()

	f := NewReceiptForm(p)
	f.Open()
	f.SetDraft(ReceiptDraft{Month: "4", Year: "2024"})
	sink := &memorySink{}

	require.Error(t, f.Submit(context.Background(), sink))
	assert.Equal(t, ReceiptDraft{Month: "4", Year: "2024"}, f.Draft())
	assert.Equal(t, ModalOpen, f.State())

	require.NoError(t, f.Submit(context.Background(), sink))
	assert.Equal(t, ReceiptDraft{}, f.Draft())
	assert.Equal(t, ModalClosed, f.State())
	assert.Len(t, sink.docs, 1)
}

func TestReportForm_Submit(t *testing.T) {
	api := new(MockPaymentAPI)
	p, _ := newTestPayments(api)
	api.On("Report", mock.Anything, "2024-01-01", "2024-06-30").Return([]byte("%PDF"), nil).Once()

	f := NewReportForm(p)
	f.Open()
	f.SetDraft(ReportDraft{StartDate: "2024-01-01"})

	var verrs ValidationErrors
	require.ErrorAs(t, f.Submit(context.Background(), &memorySink{}), &verrs)
	assert.Contains(t, verrs, "endDate")
	fields, _ := f.Errors()
	assert.Contains(t, fields, "endDate")

	f.SetDraft(ReportDraft{StartDate: "2024-01-01", EndDate: "30/06/2024"})
	require.NoError(t, f.Submit(context.Background(), &memorySink{}))
	assert.Equal(t, ReportDraft{}, f.Draft())
}

func TestModal_Output(t *testing.T) {
	var m Modal
	assert.Equal(t, ModalClosed, m.State())
	assert.ErrorIs(t, m.begin(), ErrModalNotOpen)

	require.NoError(t, m.open())
	require.NoError(t, m.begin())
	assert.ErrorIs(t, m.open(), ErrSubmitting)
	assert.Equal(t, ModalSubmitting, m.State())
	m.fail(ValidationErrors{"nome": "is required"})

	out := m.Output()
	assert.Equal(t, ModalOpen, out.State)
	assert.Equal(t, "is required", out.FieldErrors["nome"])
	assert.Empty(t, out.FormError)
}
