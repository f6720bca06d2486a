package newsletterservice

import (
	"context"
	"database/sql"
	"time"

	"github.com/sushihentaime/writeflow/internal/common"
)

// Broadcaster delivers one newsletter to every recipient and reports how many were sent.
type Broadcaster interface {
	Broadcast(ctx context.Context, recipients []string, subject, content string) (int, error)
}

type NewsletterService struct {
	m  *SubscriberModel
	mb common.MessageProducer
	b  Broadcaster
}

type SubscriberModel struct {
	db *sql.DB
}

type Subscriber struct {
	ID             int        `json:"id"`
	Email          string     `json:"email"`
	IsActive       bool       `json:"is_active"`
	SubscribedAt   time.Time  `json:"subscribed_at"`
	UnsubscribedAt *time.Time `json:"unsubscribed_at"`
}

type SendRequest struct {
	Subject string `json:"subject"`
	Content string `json:"content"`
}
