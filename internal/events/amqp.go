package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"
)

const publishTimeout = 5 * time.Second

// AMQPClient fanout exchange, у каждого инстанса своя эксклюзивная очередь
type AMQPClient struct {
	conn     *amqp091.Connection
	channel  *amqp091.Channel
	exchange string
	queue    string
	log      zerolog.Logger
}

func NewAMQPClient(url, exchange string, log zerolog.Logger) (*AMQPClient, error) {
	conn, err := amqp091.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial amqp: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	c := &AMQPClient{conn: conn, channel: ch, exchange: exchange, log: log}
	if err := c.setup(); err != nil {
		c.Close()
		return nil, fmt.Errorf("setup exchange: %w", err)
	}
	return c, nil
}

func (c *AMQPClient) setup() error {
	if err := c.channel.ExchangeDeclare(c.exchange, amqp091.ExchangeFanout, true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare exchange: %w", err)
	}

	// имя очереди выдает брокер, очередь живет пока живо соединение
	q, err := c.channel.QueueDeclare("", false, true, true, false, nil)
	if err != nil {
		return fmt.Errorf("declare queue: %w", err)
	}
	if err := c.channel.QueueBind(q.Name, "", c.exchange, false, nil); err != nil {
		return fmt.Errorf("bind queue: %w", err)
	}
	c.queue = q.Name
	return nil
}

func (c *AMQPClient) PublishTransactionsChanged(ctx context.Context, userID string) error {
	body, err := json.Marshal(NewTransactionsChanged(userID))
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	err = c.channel.PublishWithContext(ctx, c.exchange, "", false, false, amqp091.Publishing{
		ContentType: "application/json",
		Timestamp:   time.Now(),
		Body:        body,
	})
	if err != nil {
		return fmt.Errorf("publish event: %w", err)
	}

	c.log.Debug().Str("user_id", userID).Str("exchange", c.exchange).Msg("опубликовано изменение транзакций")
	return nil
}

// Consume читает события до отмены ctx и передает их в handler
func (c *AMQPClient) Consume(ctx context.Context, handler func(TransactionsChanged) error) error {
	deliveries, err := c.channel.Consume(c.queue, "", false, true, false, false, nil)
	if err != nil {
		return fmt.Errorf("start consuming: %w", err)
	}

	c.log.Info().Str("queue", c.queue).Msg("подписка на изменения транзакций")

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d, ok := <-deliveries:
			if !ok {
				return fmt.Errorf("delivery channel closed")
			}
			switch dispatch(d.Body, handler, c.log) {
			case outcomeAck:
				d.Ack(false)
			case outcomeDrop:
				d.Nack(false, false)
			case outcomeRetry:
				d.Nack(false, true)
			}
		}
	}
}

func (c *AMQPClient) Close() error {
	if c.channel != nil {
		c.channel.Close()
	}
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}

type outcome int

const (
	outcomeAck outcome = iota
	outcomeDrop
	outcomeRetry
)

// dispatch битое сообщение выбрасывается, ошибка обработчика возвращает его в очередь
func dispatch(body []byte, handler func(TransactionsChanged) error, log zerolog.Logger) outcome {
	msg, err := decode(body)
	if err != nil {
		log.Error().Err(err).Msg("не удалось разобрать событие")
		return outcomeDrop
	}
	if err := handler(msg); err != nil {
		log.Error().Err(err).Str("user_id", msg.UserID).Msg("ошибка обработки события")
		return outcomeRetry
	}
	return outcomeAck
}
