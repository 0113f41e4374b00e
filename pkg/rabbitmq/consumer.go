package rabbitmq

import (
	"fmt"

	"github.com/Eursukkul/classpass-service/pkg/logger"
	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	QueueName  = "notifier.class-passes"
	BindingKey = "pass.*"
)

type Consumer struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	log     *logger.Logger
}

func NewConsumer(url string, log *logger.Logger) (*Consumer, error) {
	conn, ch, err := dial(url)
	if err != nil {
		return nil, err
	}

	q, err := ch.QueueDeclare(QueueName, true, false, false, false, nil)
	if err != nil {
		closeAll(conn, ch)
		return nil, fmt.Errorf("rabbitmq queue declare: %w", err)
	}

	if err := ch.QueueBind(q.Name, BindingKey, ExchangeName, false, nil); err != nil {
		closeAll(conn, ch)
		return nil, fmt.Errorf("rabbitmq queue bind: %w", err)
	}

	// one unacked delivery at a time keeps per-pass events in publish order
	if err := ch.Qos(1, 0, false); err != nil {
		closeAll(conn, ch)
		return nil, fmt.Errorf("rabbitmq qos: %w", err)
	}

	return &Consumer{conn: conn, channel: ch, log: log}, nil
}

func (c *Consumer) Consume() (<-chan amqp.Delivery, error) {
	msgs, err := c.channel.Consume(
		QueueName,
		"",    // consumer tag
		false, // manual ack after processing
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("rabbitmq consume: %w", err)
	}

	c.log.Info("consuming", "queue", QueueName, "binding", BindingKey)
	return msgs, nil
}

func (c *Consumer) Close() {
	closeAll(c.conn, c.channel)
}
