package common

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
)

type Exchange string

type Queue string

type BindingKey string

type MessageProducer interface {
	Publish(ctx context.Context, msg []byte, key BindingKey, exchange Exchange) error
}

type MessageConsumer interface {
	Consume(key BindingKey, exchange Exchange, queue Queue) (<-chan amqp.Delivery, error)
}

const (
	NotificationExchange Exchange = "notification_exchange"

	OTPRequestedQueue Queue      = "otp_requested_queue"
	OTPRequestedKey   BindingKey = "otp.requested"

	SubscriberAddedQueue Queue      = "newsletter_subscribed_queue"
	SubscriberAddedKey   BindingKey = "newsletter.subscribed"
)

// OTPRequestedMessage is published when a user asks for a verification code.
type OTPRequestedMessage struct {
	Email   string `json:"email"`
	Name    string `json:"name"`
	Code    string `json:"code"`
	Purpose string `json:"purpose"`
}

// SubscriberAddedMessage is published when an address joins the newsletter.
type SubscriberAddedMessage struct {
	Email string `json:"email"`
}

type MessageBroker struct {
	conn *amqp.Connection
	ch   *amqp.Channel
}

func NewMessageBroker(URI string) (*MessageBroker, error) {
	conn, ch, err := connectAMQP(URI)
	if err != nil {
		return nil, err
	}

	return &MessageBroker{
		conn: conn,
		ch:   ch,
	}, nil
}

// RabbitMQURI builds an AMQP URI from its parts.
func RabbitMQURI(host, port, user, password string) string {
	return fmt.Sprintf("amqp://%s:%s@%s:%s/", user, password, host, port)
}

func connectAMQP(URI string) (*amqp.Connection, *amqp.Channel, error) {
	conn, err := amqp.Dial(URI)
	if err != nil {
		return nil, nil, fmt.Errorf("could not connect to AMQP: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, nil, fmt.Errorf("could not open channel: %w", err)
	}

	return conn, ch, nil
}

// Close closes the connection and channel of the message broker.
func (mb *MessageBroker) Close() error {
	err := mb.ch.Close()
	if err != nil {
		return err
	}

	return mb.conn.Close()
}

// SetupNotificationExchange declares the exchange and the queues the mail consumers read from.
func SetupNotificationExchange(mb *MessageBroker) error {
	err := mb.ch.ExchangeDeclare(string(NotificationExchange), "direct", true, false, false, false, nil)
	if err != nil {
		return err
	}

	bindings := []struct {
		queue Queue
		key   BindingKey
	}{
		{OTPRequestedQueue, OTPRequestedKey},
		{SubscriberAddedQueue, SubscriberAddedKey},
	}

	for _, b := range bindings {
		_, err = mb.ch.QueueDeclare(string(b.queue), true, false, false, false, nil)
		if err != nil {
			return err
		}

		err = mb.ch.QueueBind(string(b.queue), string(b.key), string(NotificationExchange), false, nil)
		if err != nil {
			return err
		}
	}

	return nil
}

func (mb *MessageBroker) Publish(ctx context.Context, msg []byte, key BindingKey, exchange Exchange) error {
	err := mb.ch.PublishWithContext(ctx, string(exchange), string(key), false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Body:         msg,
	})
	if err != nil {
		return fmt.Errorf("could not publish message: %w", err)
	}

	return nil
}

func (mb *MessageBroker) Consume(key BindingKey, exchange Exchange, queue Queue) (<-chan amqp.Delivery, error) {
	msgs, err := mb.ch.Consume(string(queue), string(key), false, false, false, false, nil)
	if err != nil {
		return nil, fmt.Errorf("could not consume message: %w", err)
	}

	return msgs, nil
}

// PublishJSON marshals v and publishes it on the notification exchange.
func PublishJSON(ctx context.Context, p MessageProducer, key BindingKey, v any) error {
	body, err := json.Marshal(v)
	if err != nil {
		return err
	}

	return p.Publish(ctx, body, key, NotificationExchange)
}
