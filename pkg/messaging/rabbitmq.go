package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"
)

const (
	ExchangeName = "igd.events"
	ExchangeType = "topic"
)

// Routing key event record pasien.
const (
	PasienCreated  = "igd.pasien.created"
	PasienUpdated  = "igd.pasien.updated"
	PasienDeleted  = "igd.pasien.deleted"
	PasienImported = "igd.pasien.imported"
)

// Publisher mengirim event ke RabbitMQ.
type Publisher struct {
	conn     *amqp.Connection
	channel  *amqp.Channel
	exchange string
	log      zerolog.Logger
}

var _ PublisherInterface = (*Publisher)(nil)

func NewPublisher(rabbitmqURL string, log zerolog.Logger) (*Publisher, error) {
	log.Info().Str("url", maskPassword(rabbitmqURL)).Msg("menghubungkan ke RabbitMQ")

	conn, err := amqp.Dial(rabbitmqURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	err = channel.ExchangeDeclare(
		ExchangeName, // name
		ExchangeType, // type
		true,         // durable
		false,        // auto-deleted
		false,        // internal
		false,        // no-wait
		nil,          // arguments
	)
	if err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare exchange: %w", err)
	}

	return &Publisher{
		conn:     conn,
		channel:  channel,
		exchange: ExchangeName,
		log:      log,
	}, nil
}

func (p *Publisher) Publish(ctx context.Context, routingKey string, eventData interface{}) error {
	body, err := json.Marshal(eventData)
	if err != nil {
		return fmt.Errorf("failed to marshal event data: %w", err)
	}

	err = p.channel.PublishWithContext(
		ctx,
		p.exchange,
		routingKey,
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now().UTC(),
			MessageId:    fmt.Sprintf("%d", time.Now().UnixNano()),
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish event to %s: %w", routingKey, err)
	}

	p.log.Debug().Str("routing_key", routingKey).Msg("event terkirim")
	return nil
}

func (p *Publisher) Close() error {
	if p.channel != nil {
		if err := p.channel.Close(); err != nil {
			p.log.Warn().Err(err).Msg("gagal menutup channel RabbitMQ")
		}
	}
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}

func maskPassword(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.User == nil {
		return raw
	}
	if _, ok := u.User.Password(); ok {
		u.User = url.UserPassword(u.User.Username(), "***")
	}
	return u.String()
}
