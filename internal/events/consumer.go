package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"golang.org/x/exp/rand"

	"github.com/01moynul/campusmart/internal/models"
)

// NotificationCreator stores seller notifications.
type NotificationCreator interface {
	Create(ctx context.Context, n *models.Notification) error
}

// Emitter pushes a realtime event to a user's open connections.
type Emitter interface {
	Emit(userID int64, event string, data interface{})
}

// EventNotificationNew is pushed to a seller when a sale notice is stored.
const EventNotificationNew = "notification:new"

// Consumer turns order.placed events into seller notifications.
type Consumer struct {
	url           string
	notifications NotificationCreator
	emitter       Emitter
}

// NewConsumer builds a consumer. emitter may be nil.
func NewConsumer(url string, notifications NotificationCreator, emitter Emitter) *Consumer {
	return &Consumer{url: url, notifications: notifications, emitter: emitter}
}

// Run consumes until ctx is cancelled, redialing with jittered backoff
// whenever the broker goes away.
func (c *Consumer) Run(ctx context.Context) {
	backoff := time.Second
	for {
		conn, err := amqp.Dial(c.url)
		if err == nil {
			backoff = time.Second
			err = c.consume(ctx, conn)
			_ = conn.Close()
		}
		if ctx.Err() != nil {
			log.Println("events: consumer stopped")
			return
		}

		wait := backoff + time.Duration(rand.Int63n(int64(backoff)/2+1))
		log.Printf("events: consumer: %v; retrying in %s", err, wait.Round(time.Millisecond))
		select {
		case <-ctx.Done():
			log.Println("events: consumer stopped")
			return
		case <-time.After(wait):
		}
		if backoff < 30*time.Second {
			backoff *= 2
		}
	}
}

func (c *Consumer) consume(ctx context.Context, conn *amqp.Connection) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(20, 0, false); err != nil {
		log.Printf("events: set QoS failed: %v", err)
	}
	if _, err := ch.QueueDeclare(OrderPlacedQueue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}
	msgs, err := ch.Consume(OrderPlacedQueue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("queue consume: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d, ok := <-msgs:
			if !ok {
				return errors.New("deliveries channel closed")
			}
			if err := c.Handle(ctx, d.Body); err != nil {
				log.Printf("events: handle order.placed failed: %v", err)
				_ = d.Nack(false, false)
				continue
			}
			_ = d.Ack(false)
		}
	}
}

// Handle stores one notification per sold line for its seller.
func (c *Consumer) Handle(ctx context.Context, body []byte) error {
	var ev OrderPlaced
	if err := json.Unmarshal(body, &ev); err != nil {
		return fmt.Errorf("unmarshal: %w", err)
	}

	for _, it := range ev.Items {
		if it.SellerID == 0 {
			continue
		}
		sellerID, productID, name := it.SellerID, it.ProductID, it.ProductName
		n := &models.Notification{
			Message:     fmt.Sprintf("Your product %q was sold in order #%d.", name, ev.OrderID),
			UserID:      &sellerID,
			ProductID:   &productID,
			ProductName: &name,
		}
		if err := c.notifications.Create(ctx, n); err != nil {
			return fmt.Errorf("notify seller %d: %w", sellerID, err)
		}
		if c.emitter != nil {
			c.emitter.Emit(sellerID, EventNotificationNew, n)
		}
	}
	return nil
}
