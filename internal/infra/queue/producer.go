package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// ReceiptDeliveryPayload pede o envio do recibo mensal por e-mail ao cliente.
type ReceiptDeliveryPayload struct {
	CPF         string    `json:"cpf"`
	Month       string    `json:"month"`
	Year        string    `json:"year"`
	RequestedBy string    `json:"requested_by"`
	RequestedAt time.Time `json:"requested_at"`
}

type ReceiptPublisher interface {
	PublishReceiptDelivery(ctx context.Context, payload ReceiptDeliveryPayload) error
}

// Publisher é o subconjunto de *amqp.Channel usado pelo producer.
type Publisher interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

type RabbitMQProducer struct {
	Ch Publisher
}

func NewProducer(ch Publisher) *RabbitMQProducer {
	return &RabbitMQProducer{Ch: ch}
}

func (p *RabbitMQProducer) PublishReceiptDelivery(ctx context.Context, payload ReceiptDeliveryPayload) error {
	if payload.RequestedAt.IsZero() {
		payload.RequestedAt = time.Now().UTC()
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("erro ao converter payload: %w", err)
	}

	err = p.Ch.PublishWithContext(ctx,
		ExchangeName,
		RoutingKey,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
			Timestamp:    payload.RequestedAt,
		},
	)
	if err != nil {
		return fmt.Errorf("falha ao publicar no RabbitMQ: %w", err)
	}
	return nil
}
