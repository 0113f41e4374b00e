package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Eursukkul/classpass-service/pkg/logger"
	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	ExchangeName = "class-passes"
	ExchangeKind = "topic"

	publishTimeout = 5 * time.Second
)

type Publisher struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	log     *logger.Logger
}

func NewPublisher(url string, log *logger.Logger) (*Publisher, error) {
	conn, ch, err := dial(url)
	if err != nil {
		return nil, err
	}
	return &Publisher{conn: conn, channel: ch, log: log}, nil
}

// Publish sends payload as JSON with routingKey on the pass exchange.
func (p *Publisher) Publish(routingKey string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()

	if err := p.channel.PublishWithContext(
		ctx,
		ExchangeName,
		routingKey,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now().UTC(),
			Body:         body,
		},
	); err != nil {
		p.log.Warn("publish failed", "exchange", ExchangeName, "routing_key", routingKey, "error", err)
		return fmt.Errorf("publish message: %w", err)
	}

	p.log.Debug("published", "exchange", ExchangeName, "routing_key", routingKey, "bytes", len(body))
	return nil
}

func (p *Publisher) Close() {
	closeAll(p.conn, p.channel)
}

func dial(url string) (*amqp.Connection, *amqp.Channel, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, nil, fmt.Errorf("rabbitmq dial: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, nil, fmt.Errorf("rabbitmq channel: %w", err)
	}

	if err := ch.ExchangeDeclare(ExchangeName, ExchangeKind, true, false, false, false, nil); err != nil {
		closeAll(conn, ch)
		return nil, nil, fmt.Errorf("rabbitmq exchange declare: %w", err)
	}

	return conn, ch, nil
}

func closeAll(conn *amqp.Connection, ch *amqp.Channel) {
	if ch != nil {
		ch.Close()
	}
	if conn != nil {
		conn.Close()
	}
}
