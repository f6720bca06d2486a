package newsletterservice

import (
	"context"
	"database/sql"

	"github.com/sushihentaime/writeflow/internal/common"
)

func NewSubscriberModel(db *sql.DB) *SubscriberModel {
	return &SubscriberModel{db: db}
}

// upsert adds the address or re-activates it if it unsubscribed earlier.
func (m *SubscriberModel) upsert(ctx context.Context, email string) (*Subscriber, error) {
	query := `
		INSERT INTO newsletter_subscribers (email)
		VALUES ($1)
		ON CONFLICT (email) DO UPDATE
		SET is_active = TRUE, unsubscribed_at = NULL, updated_at = NOW()
		RETURNING id, email, is_active, subscribed_at, unsubscribed_at`

	var s Subscriber
	err := m.db.QueryRowContext(ctx, query, email).Scan(&s.ID, &s.Email, &s.IsActive, &s.SubscribedAt, &s.UnsubscribedAt)
	if err != nil {
		return nil, err
	}

	return &s, nil
}

func (m *SubscriberModel) deactivate(ctx context.Context, email string) error {
	query := `
		UPDATE newsletter_subscribers
		SET is_active = FALSE, unsubscribed_at = NOW(), updated_at = NOW()
		WHERE email = $1`

	res, err := m.db.ExecContext(ctx, query, email)
	if err != nil {
		return err
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return common.ErrRecordNotFound
	}

	return nil
}

func (m *SubscriberModel) list(ctx context.Context) ([]*Subscriber, error) {
	query := `
		SELECT id, email, is_active, subscribed_at, unsubscribed_at
		FROM newsletter_subscribers
		ORDER BY subscribed_at DESC, id DESC`

	rows, err := m.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	subscribers := []*Subscriber{}
	for rows.Next() {
		var s Subscriber
		if err := rows.Scan(&s.ID, &s.Email, &s.IsActive, &s.SubscribedAt, &s.UnsubscribedAt); err != nil {
			return nil, err
		}
		subscribers = append(subscribers, &s)
	}

	return subscribers, rows.Err()
}

func (m *SubscriberModel) activeEmails(ctx context.Context) ([]string, error) {
	rows, err := m.db.QueryContext(ctx, `SELECT email FROM newsletter_subscribers WHERE is_active = TRUE ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var emails []string
	for rows.Next() {
		var email string
		if err := rows.Scan(&email); err != nil {
			return nil, err
		}
		emails = append(emails, email)
	}

	return emails, rows.Err()
}
