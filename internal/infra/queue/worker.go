package queue

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"github.com/xavierca1/clinica-console/internal/logging"
)

// ReceiptDeliverer busca o recibo e envia por e-mail.
type ReceiptDeliverer interface {
	DeliverReceipt(ctx context.Context, payload ReceiptDeliveryPayload) error
}

// Consumer é o subconjunto de *amqp.Channel usado pelo worker.
type Consumer interface {
	Consume(queue, consumer string, autoAck, exclusive, noLocal, noWait bool, args amqp.Table) (<-chan amqp.Delivery, error)
}

// Acknowledger abstrai amqp.Delivery para testes.
type Acknowledger interface {
	Ack(multiple bool) error
	Nack(multiple, requeue bool) error
}

type Worker struct {
	Channel   Consumer
	Deliverer ReceiptDeliverer
	logger    *zap.Logger
}

func NewWorker(ch Consumer, deliverer ReceiptDeliverer, logger *zap.Logger) *Worker {
	return &Worker{
		Channel:   ch,
		Deliverer: deliverer,
		logger:    logging.OrNop(logger).Named("receipt_worker"),
	}
}

// Start consome a fila até o ctx ser cancelado ou o canal fechar.
func (w *Worker) Start(ctx context.Context, queueName string) error {
	msgs, err := w.Channel.Consume(
		queueName,
		"",
		false, // ack manual
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return fmt.Errorf("falha ao registrar consumidor RabbitMQ: %w", err)
	}

	w.logger.Info("worker aguardando na fila", zap.String("queue", queueName))

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("worker parado")
			return nil
		case d, ok := <-msgs:
			if !ok {
				w.logger.Warn("canal de entregas fechado")
				return nil
			}
			w.handle(ctx, d.Body, d)
		}
	}
}

func (w *Worker) handle(ctx context.Context, body []byte, ack Acknowledger) {
	var payload ReceiptDeliveryPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		w.logger.Error("json inválido, descartando mensagem", zap.Error(err))
		// sem requeue: vai para a DLQ
		_ = ack.Nack(false, false)
		return
	}

	logger := w.logger.With(
		zap.String("cpf", payload.CPF),
		zap.String("month", payload.Month),
		zap.String("year", payload.Year),
	)
	logger.Info("processando envio de recibo", zap.String("requested_by", payload.RequestedBy))

	if err := w.Deliverer.DeliverReceipt(ctx, payload); err != nil {
		logger.Error("falha ao enviar recibo", zap.Error(err))
		_ = ack.Nack(false, false)
		return
	}

	logger.Info("recibo enviado")
	_ = ack.Ack(false)
}
