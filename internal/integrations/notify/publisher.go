package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Publisher публикует события бронирований в RabbitMQ
// Публикация fire-and-forget: ошибка доставки уведомления логируется
// и никогда не откатывает и не роняет саму операцию бронирования
type Publisher struct {
	conn *amqp.Connection
	ch   *amqp.Channel
	log  Logger
}

// NewPublisher подключается к RabbitMQ и объявляет очереди событий
// Очереди durable - сообщения переживают перезапуск брокера
func NewPublisher(url string, log Logger) (*Publisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("notify: failed to dial rabbitmq: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("notify: failed to open channel: %w", err)
	}

	for _, queue := range []string{QueueReservationCreated, QueueReservationCancelled} {
		if _, err := ch.QueueDeclare(
			queue,
			true,  // durable
			false, // autoDelete
			false, // exclusive
			false, // noWait
			nil,
		); err != nil {
			_ = ch.Close()
			_ = conn.Close()
			return nil, fmt.Errorf("notify: failed to declare queue %s: %w", queue, err)
		}
	}

	return &Publisher{conn: conn, ch: ch, log: log}, nil
}

// Close закрывает канал и соединение с брокером
func (p *Publisher) Close() error {
	if p.ch != nil {
		_ = p.ch.Close()
	}
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}

// ReservationCreated публикует событие создания бронирования
func (p *Publisher) ReservationCreated(ctx context.Context, event ReservationCreatedEvent) {
	p.publish(ctx, QueueReservationCreated, event)
}

// ReservationCancelled публикует событие отмены бронирования
func (p *Publisher) ReservationCancelled(ctx context.Context, event ReservationCancelledEvent) {
	p.publish(ctx, QueueReservationCancelled, event)
}

func (p *Publisher) publish(ctx context.Context, queue string, event interface{}) {
	body, err := json.Marshal(event)
	if err != nil {
		p.log.Error("notify: failed to marshal event for %s: %v", queue, err)
		return
	}

	err = p.ch.PublishWithContext(ctx,
		"",    // default exchange
		queue, // routing key = имя очереди
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now().UTC(),
			Body:         body,
		},
	)
	if err != nil {
		p.log.Error("notify: failed to publish to %s: %v", queue, err)
		return
	}

	p.log.Info("notify: published event to %s", queue)
}
