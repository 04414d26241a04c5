package usecase

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/xavierca1/clinica-console/internal/entity"
	"github.com/xavierca1/clinica-console/internal/infra/mail"
	"github.com/xavierca1/clinica-console/internal/infra/queue"
	"github.com/xavierca1/clinica-console/internal/logging"
)

type ServiceSession interface {
	EnsureAuthenticated(ctx context.Context) error
	Invalidate()
}

type ReceiptSource interface {
	GetClient(ctx context.Context, cpf string) (*entity.Client, error)
	Receipt(ctx context.Context, cpf, month, year string) ([]byte, error)
}

type ReceiptMailer interface {
	SendReceipt(ctx context.Context, email mail.ReceiptEmail) error
}

// DeliverReceiptUseCase roda no worker: autentica com a conta de serviço, busca cliente e PDF e envia por e-mail.
type DeliverReceiptUseCase struct {
	Session ServiceSession
	Source  ReceiptSource
	Mailer  ReceiptMailer
	logger  *zap.Logger
}

func NewDeliverReceiptUseCase(sess ServiceSession, source ReceiptSource, mailer ReceiptMailer, logger *zap.Logger) *DeliverReceiptUseCase {
	return &DeliverReceiptUseCase{
		Session: sess,
		Source:  source,
		Mailer:  mailer,
		logger:  logging.OrNop(logger).Named("deliver_receipt"),
	}
}

func (uc *DeliverReceiptUseCase) DeliverReceipt(ctx context.Context, payload queue.ReceiptDeliveryPayload) error {
	if errs := ValidateReceiptPeriod(payload.Month, payload.Year); len(errs) > 0 {
		return errs
	}
	cpf := NormalizeCPF(payload.CPF)

	if err := uc.Session.EnsureAuthenticated(ctx); err != nil {
		return fmt.Errorf("falha ao autenticar conta de serviço: %w", err)
	}

	client, err := uc.Source.GetClient(ctx, cpf)
	if err != nil {
		return uc.fail("buscar cliente", err)
	}
	if client.Email == "" {
		return fmt.Errorf("cliente %s sem e-mail cadastrado", cpf)
	}

	pdf, err := uc.Source.Receipt(ctx, cpf, payload.Month, payload.Year)
	if err != nil {
		return uc.fail("gerar recibo", err)
	}

	err = uc.Mailer.SendReceipt(ctx, mail.ReceiptEmail{
		To:       client.Email,
		Name:     client.Nome,
		Month:    payload.Month,
		Year:     payload.Year,
		FileName: ReceiptFileName(cpf, payload.Month, payload.Year),
		PDF:      pdf,
	})
	if err != nil {
		return err
	}

	uc.logger.Info("recibo enviado por e-mail", zap.String("cpf", cpf), zap.String("requested_by", payload.RequestedBy))
	return nil
}

// fail invalida o token da conta de serviço quando o backend o rejeita.
func (uc *DeliverReceiptUseCase) fail(op string, err error) error {
	err = classify(op, err)
	if IsSessionExpired(err) {
		uc.Session.Invalidate()
	}
	return err
}
