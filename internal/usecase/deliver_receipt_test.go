package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/xavierca1/clinica-console/internal/entity"
	"github.com/xavierca1/clinica-console/internal/infra/mail"
	"github.com/xavierca1/clinica-console/internal/infra/queue"
)

type MockServiceSession struct {
	mock.Mock
}

func (m *MockServiceSession) EnsureAuthenticated(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockServiceSession) Invalidate() {
	m.Called()
}

type MockReceiptSource struct {
	mock.Mock
}

func (m *MockReceiptSource) GetClient(ctx context.Context, cpf string) (*entity.Client, error) {
	args := m.Called(ctx, cpf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Client), args.Error(1)
}

func (m *MockReceiptSource) Receipt(ctx context.Context, cpf, month, year string) ([]byte, error) {
	args := m.Called(ctx, cpf, month, year)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

type MockReceiptMailer struct {
	mock.Mock
}

func (m *MockReceiptMailer) SendReceipt(ctx context.Context, email mail.ReceiptEmail) error {
	return m.Called(ctx, email).Error(0)
}

func TestDeliverReceipt_Success(t *testing.T) {
	sess := new(MockServiceSession)
	source := new(MockReceiptSource)
	mailer := new(MockReceiptMailer)

	sess.On("EnsureAuthenticated", mock.Anything).Return(nil).Once()
	source.On("GetClient", mock.Anything, testCPF).Return(&entity.Client{Nome: "Ana", Email: "ana@example.com"}, nil).Once()
	source.On("Receipt", mock.Anything, testCPF, "3", "2024").Return([]byte("%PDF"), nil).Once()
	mailer.On("SendReceipt", mock.Anything, mail.ReceiptEmail{
		To:       "ana@example.com",
		Name:     "Ana",
		Month:    "3",
		Year:     "2024",
		FileName: "recibo-12345678909-2024-03.pdf",
		PDF:      []byte("%PDF"),
	}).Return(nil).Once()

	uc := NewDeliverReceiptUseCase(sess, source, mailer, nil)
	err := uc.DeliverReceipt(context.Background(), queue.ReceiptDeliveryPayload{CPF: "123.456.789-09", Month: "3", Year: "2024"})

	require.NoError(t, err)
	mailer.AssertExpectations(t)
}

func TestDeliverReceipt_InvalidatesTokenOnUnauthorized(t *testing.T) {
	sess := new(MockServiceSession)
	source := new(MockReceiptSource)
	mailer := new(MockReceiptMailer)

	sess.On("EnsureAuthenticated", mock.Anything).Return(nil).Once()
	sess.On("Invalidate").Return().Once()
	source.On("GetClient", mock.Anything, testCPF).Return(nil, apiError(401, "")).Once()

	uc := NewDeliverReceiptUseCase(sess, source, mailer, nil)
	err := uc.DeliverReceipt(context.Background(), queue.ReceiptDeliveryPayload{CPF: testCPF, Month: "3", Year: "2024"})

	assert.ErrorIs(t, err, ErrSessionExpired)
	sess.AssertExpectations(t)
	mailer.AssertNotCalled(t, "SendReceipt", mock.Anything, mock.Anything)
}

func TestDeliverReceipt_Failures(t *testing.T) {
	t.Run("período inválido", func(t *testing.T) {
		sess := new(MockServiceSession)
		uc := NewDeliverReceiptUseCase(sess, new(MockReceiptSource), new(MockReceiptMailer), nil)

		err := uc.DeliverReceipt(context.Background(), queue.ReceiptDeliveryPayload{CPF: testCPF, Month: "00", Year: "2024"})

		var verrs ValidationErrors
		assert.ErrorAs(t, err, &verrs)
		sess.AssertNotCalled(t, "EnsureAuthenticated", mock.Anything)
	})

	t.Run("login da conta de serviço falha", func(t *testing.T) {
		sess := new(MockServiceSession)
		sess.On("EnsureAuthenticated", mock.Anything).Return(errors.New("bad credentials")).Once()
		uc := NewDeliverReceiptUseCase(sess, new(MockReceiptSource), new(MockReceiptMailer), nil)

		err := uc.DeliverReceipt(context.Background(), queue.ReceiptDeliveryPayload{CPF: testCPF, Month: "1", Year: "2024"})

		assert.ErrorContains(t, err, "bad credentials")
	})

	t.Run("cliente sem e-mail", func(t *testing.T) {
		sess := new(MockServiceSession)
		source := new(MockReceiptSource)
		sess.On("EnsureAuthenticated", mock.Anything).Return(nil).Once()
		source.On("GetClient", mock.Anything, testCPF).Return(&entity.Client{Nome: "Ana"}, nil).Once()
		uc := NewDeliverReceiptUseCase(sess, source, new(MockReceiptMailer), nil)

		err := uc.DeliverReceipt(context.Background(), queue.ReceiptDeliveryPayload{CPF: testCPF, Month: "1", Year: "2024"})

		assert.ErrorContains(t, err, "sem e-mail")
		source.AssertNotCalled(t, "Receipt", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}
