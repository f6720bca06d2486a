package newsletterservice

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/sushihentaime/writeflow/internal/common"
)

var ErrNoActiveSubscribers = errors.New("no active subscribers found")

func NewNewsletterService(db *sql.DB, mb common.MessageProducer, b Broadcaster) *NewsletterService {
	return &NewsletterService{m: NewSubscriberModel(db), mb: mb, b: b}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Subscribe stores the address and queues the welcome email.
func (s *NewsletterService) Subscribe(ctx context.Context, email string) (*Subscriber, error) {
	email = normalizeEmail(email)

	v := common.NewValidator()
	common.ValidateEmail(v, email)
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	sub, err := s.m.upsert(ctx, email)
	if err != nil {
		return nil, err
	}

	err = common.PublishJSON(ctx, s.mb, common.SubscriberAddedKey, common.SubscriberAddedMessage{Email: sub.Email})
	if err != nil {
		return nil, err
	}

	return sub, nil
}

func (s *NewsletterService) Unsubscribe(ctx context.Context, email string) error {
	email = normalizeEmail(email)

	v := common.NewValidator()
	common.ValidateEmail(v, email)
	if !v.Valid() {
		return v.ValidationError()
	}

	return s.m.deactivate(ctx, email)
}

func (s *NewsletterService) ListSubscribers(ctx context.Context) ([]*Subscriber, error) {
	return s.m.list(ctx)
}

// Send mails the newsletter to every active subscriber and returns the number of emails sent.
func (s *NewsletterService) Send(ctx context.Context, req *SendRequest) (int, error) {
	subject := strings.TrimSpace(req.Subject)

	v := common.NewValidator()
	v.Check(common.NotBlank(subject), "subject", "must be provided")
	v.Check(v.CheckStringLength(subject, 1, 200), "subject", "must not be more than 200 characters long")
	v.Check(common.NotBlank(req.Content), "content", "must be provided")
	if !v.Valid() {
		return 0, v.ValidationError()
	}

	recipients, err := s.m.activeEmails(ctx)
	if err != nil {
		return 0, fmt.Errorf("could not load subscribers: %w", err)
	}

	if len(recipients) == 0 {
		return 0, ErrNoActiveSubscribers
	}

	return s.b.Broadcast(ctx, recipients, subject, req.Content)
}
