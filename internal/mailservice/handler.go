package mailservice

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"golang.org/x/exp/rand"

	"github.com/sushihentaime/writeflow/internal/common"
	"github.com/sushihentaime/writeflow/internal/userservice"
)

var errMalformedMessage = errors.New("malformed message")

// delivery is a rendered email request taken off the broker.
type delivery struct {
	recipient string
	data      any
	template  string
}

func NewMailService(mb common.MessageConsumer, m Mailer, siteURL string, logger *slog.Logger) *MailService {
	ctx, cancel := context.WithCancel(context.Background())
	return &MailService{
		mb:         mb,
		m:          m,
		logger:     logger,
		siteURL:    siteURL,
		retryDelay: baseDelay,
		ctx:        ctx,
		cancel:     cancel,
	}
}

// SendOTPEmail consumes otp.requested events and mails the verification code.
func (s *MailService) SendOTPEmail() error {
	return s.consume(common.OTPRequestedKey, common.OTPRequestedQueue, func(body []byte) (*delivery, error) {
		var msg common.OTPRequestedMessage
		if err := json.Unmarshal(body, &msg); err != nil || msg.Email == "" || msg.Code == "" {
			return nil, errMalformedMessage
		}

		return &delivery{
			recipient: msg.Email,
			template:  otpTemplate,
			data: otpEmailData{
				Name:    msg.Name,
				Code:    msg.Code,
				Minutes: int(userservice.OTPTime / time.Minute),
			},
		}, nil
	})
}

// SendWelcomeEmail consumes newsletter.subscribed events and greets the subscriber.
func (s *MailService) SendWelcomeEmail() error {
	return s.consume(common.SubscriberAddedKey, common.SubscriberAddedQueue, func(body []byte) (*delivery, error) {
		var msg common.SubscriberAddedMessage
		if err := json.Unmarshal(body, &msg); err != nil || msg.Email == "" {
			return nil, errMalformedMessage
		}

		return &delivery{
			recipient: msg.Email,
			template:  welcomeTemplate,
			data: welcomeEmailData{
				Email:          msg.Email,
				UnsubscribeURL: unsubscribeURL(s.siteURL, msg.Email),
			},
		}, nil
	})
}

func (s *MailService) consume(key common.BindingKey, queue common.Queue, decode func([]byte) (*delivery, error)) error {
	msgs, err := s.mb.Consume(key, common.NotificationExchange, queue)
	if err != nil {
		s.logger.Error("could not consume message", slog.String("key", string(key)), slog.String("error", err.Error()))
		return err
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		for {
			select {
			case msg, ok := <-msgs:
				if !ok {
					return
				}
				s.handle(msg, decode)

			case <-s.ctx.Done():
				s.logger.Info("stopping consumer due to context cancellation", slog.String("key", string(key)))
				return
			}
		}
	}()

	return nil
}

func (s *MailService) handle(msg amqp.Delivery, decode func([]byte) (*delivery, error)) {
	d, err := decode(msg.Body)
	if err != nil {
		s.logger.Error("could not unmarshal message", slog.String("error", err.Error()))
		_ = msg.Nack(false, false)
		return
	}

	if err := s.deliver(d); err != nil {
		s.logger.Error("could not send email", slog.String("email", d.recipient), slog.String("template", d.template), slog.String("error", err.Error()))
	}

	_ = msg.Ack(false)
}

// deliver retries failed sends using exponential backoff with jitter.
func (s *MailService) deliver(d *delivery) error {
	var err error
	for attempt := 0; attempt < maxRetries; attempt++ {
		err = s.m.send(d.recipient, d.data, d.template)
		if err == nil {
			s.logger.Info("email sent", slog.String("email", d.recipient), slog.String("template", d.template))
			return nil
		}

		if attempt == maxRetries-1 {
			break
		}

		delay := jitter(s.retryDelay << uint(attempt))
		s.logger.Info("delaying email", slog.String("email", d.recipient), slog.Int("attempt", attempt), slog.Duration("delay", delay))

		select {
		case <-time.After(delay):
		case <-s.ctx.Done():
			return s.ctx.Err()
		}
	}

	return err
}

func jitter(max time.Duration) time.Duration {
	if max <= 0 {
		return 0
	}
	return time.Duration(rand.Int63n(int64(max)))
}

// Close stops the consumers and waits for them to return.
func (s *MailService) Close() {
	s.cancel()
	s.wg.Wait()
}
