package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/baechuer/real-time-ressys/services/verification-service/internal/domain"
	"github.com/baechuer/real-time-ressys/services/verification-service/internal/logger"
)

const (
	DefaultExchange = "city.events"

	routingPrefix = "verification.notify."

	confirmWait = 2 * time.Second
	// a Return for an unroutable message can land just after its Ack
	returnGrace = 50 * time.Millisecond
)

// NotificationMessage is the JSON body consumed by the email worker.
type NotificationMessage struct {
	ID         string            `json:"id"`
	Template   string            `json:"template"`
	To         string            `json:"to"`
	Context    map[string]string `json:"context"`
	OccurredAt time.Time         `json:"occurred_at"`
}

// Notifier publishes notifications to a topic exchange with publisher confirms.
type Notifier struct {
	url      string
	exchange string

	mu sync.Mutex

	conn *amqp.Connection
	ch   *amqp.Channel

	confirmCh <-chan amqp.Confirmation
	returnCh  <-chan amqp.Return
}

func NewNotifier(url, exchange string) (*Notifier, error) {
	if exchange == "" {
		exchange = DefaultExchange
	}
	n := &Notifier{url: url, exchange: exchange}
	if err := n.connect(); err != nil {
		return nil, err
	}
	return n, nil
}

func (n *Notifier) Close() error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.resetConn()
	return nil
}

// Notify implements verification.Notifier.
func (n *Notifier) Notify(ctx context.Context, note domain.Notification) error {
	routingKey, pub, err := buildMessage(note, time.Now().UTC())
	if err != nil {
		return err
	}

	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, confirmWait)
		defer cancel()
	}

	n.mu.Lock()
	defer n.mu.Unlock()

	if err := n.ensureConnected(); err != nil {
		return err
	}

	// drop stale confirms/returns from an earlier timed-out publish
drain:
	for {
		select {
		case <-n.confirmCh:
		case <-n.returnCh:
		default:
			break drain
		}
	}

	if err := n.ch.PublishWithContext(ctx, n.exchange, routingKey, true, false, pub); err != nil {
		n.resetConn()
		return fmt.Errorf("publish failed: %w", err)
	}

	select {
	case ret := <-n.returnCh:
		return unroutable(routingKey, ret)

	case conf := <-n.confirmCh:
		select {
		case ret := <-n.returnCh:
			return unroutable(routingKey, ret)
		case <-time.After(returnGrace):
		}
		if !conf.Ack {
			return fmt.Errorf("rabbitmq nack: key=%s deliveryTag=%d", routingKey, conf.DeliveryTag)
		}
		logger.WithCtx(ctx).Debug().
			Str("routing_key", routingKey).
			Str("message_id", pub.MessageId).
			Msg("notification published")
		return nil

	case <-ctx.Done():
		return fmt.Errorf("rabbitmq publish timeout: key=%s: %w", routingKey, ctx.Err())
	}
}

func buildMessage(note domain.Notification, now time.Time) (string, amqp.Publishing, error) {
	if note.Template == "" {
		return "", amqp.Publishing{}, fmt.Errorf("notification template is required")
	}
	if note.Recipient == "" {
		return "", amqp.Publishing{}, fmt.Errorf("notification recipient is required")
	}

	msg := NotificationMessage{
		ID:         uuid.NewString(),
		Template:   note.Template,
		To:         note.Recipient,
		Context:    note.Context,
		OccurredAt: now,
	}
	if msg.Context == nil {
		msg.Context = map[string]string{}
	}

	body, err := json.Marshal(msg)
	if err != nil {
		return "", amqp.Publishing{}, fmt.Errorf("marshal notification: %w", err)
	}

	return routingPrefix + note.Template, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    msg.ID,
		Timestamp:    now,
		Type:         note.Template,
		Body:         body,
	}, nil
}

func unroutable(routingKey string, ret amqp.Return) error {
	return fmt.Errorf("rabbitmq unroutable: key=%s code=%d text=%s", routingKey, ret.ReplyCode, ret.ReplyText)
}

func (n *Notifier) connect() error {
	conn, err := amqp.Dial(n.url)
	if err != nil {
		return fmt.Errorf("rabbitmq dial: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return fmt.Errorf("rabbitmq channel: %w", err)
	}

	if err := ch.ExchangeDeclare(
		n.exchange,
		"topic",
		true,  // durable
		false, // auto-delete
		false,
		false,
		nil,
	); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return fmt.Errorf("exchange declare: %w", err)
	}

	if err := ch.Confirm(false); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return fmt.Errorf("confirm mode: %w", err)
	}

	n.confirmCh = ch.NotifyPublish(make(chan amqp.Confirmation, 1))
	n.returnCh = ch.NotifyReturn(make(chan amqp.Return, 1))

	n.conn = conn
	n.ch = ch
	return nil
}

func (n *Notifier) ensureConnected() error {
	if n.conn != nil && !n.conn.IsClosed() && n.ch != nil {
		return nil
	}
	return n.connect()
}

func (n *Notifier) resetConn() {
	if n.ch != nil {
		_ = n.ch.Close()
		n.ch = nil
	}
	if n.conn != nil {
		_ = n.conn.Close()
		n.conn = nil
	}
}
