package newsletterservice

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/sushihentaime/writeflow/internal/common"
)

func setupTestEnvironment(t *testing.T) (*NewsletterService, *sql.DB, *common.MockMessageProducer, *MockBroadcaster, func()) {
	db := common.TestDB("file://../../migrations", t)
	mb := new(common.MockMessageProducer)
	b := new(MockBroadcaster)

	cleanup := func() {
		_, err := db.Exec("DELETE FROM newsletter_subscribers")
		assert.NoError(t, err)
		mb.ExpectedCalls, mb.Calls = nil, nil
		b.ExpectedCalls, b.Calls = nil, nil
	}

	return NewNewsletterService(db, mb, b), db, mb, b, cleanup
}

func TestSubscribe(t *testing.T) {
	s, _, mb, _, cleanup := setupTestEnvironment(t)

	testCases := []struct {
		name        string
		email       string
		publish     bool
		expectedErr bool
	}{
		{name: "new subscriber", email: " Reader@Example.com ", publish: true},
		{name: "subscribing twice", email: "reader@example.com", publish: true},
		{name: "invalid email", email: "not-an-email", expectedErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if tc.publish {
				mb.On("Publish", mock.Anything, []byte(`{"email":"reader@example.com"}`), common.SubscriberAddedKey, common.NotificationExchange).Return(nil).Once()
			}

			sub, err := s.Subscribe(context.Background(), tc.email)
			if tc.expectedErr {
				var verr common.ValidationError
				assert.ErrorAs(t, err, &verr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, "reader@example.com", sub.Email)
			assert.True(t, sub.IsActive)
			assert.Nil(t, sub.UnsubscribedAt)
			mb.AssertExpectations(t)
		})
	}

	subs, err := s.ListSubscribers(context.Background())
	require.NoError(t, err)
	assert.Len(t, subs, 1)

	cleanup()
}

func TestUnsubscribe(t *testing.T) {
	s, _, mb, _, cleanup := setupTestEnvironment(t)
	defer cleanup()

	mb.On("Publish", mock.Anything, mock.Anything, common.SubscriberAddedKey, common.NotificationExchange).Return(nil)

	_, err := s.Subscribe(context.Background(), "leaving@example.com")
	require.NoError(t, err)

	t.Run("unknown address", func(t *testing.T) {
		err := s.Unsubscribe(context.Background(), "nobody@example.com")
		assert.ErrorIs(t, err, common.ErrRecordNotFound)
	})

	t.Run("known address", func(t *testing.T) {
		require.NoError(t, s.Unsubscribe(context.Background(), "LEAVING@example.com"))

		subs, err := s.ListSubscribers(context.Background())
		require.NoError(t, err)
		require.Len(t, subs, 1)
		assert.False(t, subs[0].IsActive)
		assert.NotNil(t, subs[0].UnsubscribedAt)
	})

	t.Run("resubscribe reactivates", func(t *testing.T) {
		sub, err := s.Subscribe(context.Background(), "leaving@example.com")
		require.NoError(t, err)
		assert.True(t, sub.IsActive)
		assert.Nil(t, sub.UnsubscribedAt)
	})
}

func TestSend(t *testing.T) {
	s, _, mb, b, cleanup := setupTestEnvironment(t)
	defer cleanup()

	mb.On("Publish", mock.Anything, mock.Anything, common.SubscriberAddedKey, common.NotificationExchange).Return(nil)

	t.Run("validation", func(t *testing.T) {
		_, err := s.Send(context.Background(), &SendRequest{Subject: " ", Content: ""})

		var verr common.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Contains(t, verr.Errors, "subject")
		assert.Contains(t, verr.Errors, "content")
	})

	t.Run("no active subscribers", func(t *testing.T) {
		_, err := s.Send(context.Background(), &SendRequest{Subject: "Hi", Content: "news"})
		assert.ErrorIs(t, err, ErrNoActiveSubscribers)
		b.AssertNotCalled(t, "Broadcast", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	for _, email := range []string{"a@example.com", "b@example.com", "c@example.com"} {
		_, err := s.Subscribe(context.Background(), email)
		require.NoError(t, err)
	}
	require.NoError(t, s.Unsubscribe(context.Background(), "c@example.com"))

	t.Run("sends to active subscribers", func(t *testing.T) {
		b.On("Broadcast", mock.Anything, []string{"a@example.com", "b@example.com"}, "Weekly", "**news**").Return(2, nil).Once()

		sent, err := s.Send(context.Background(), &SendRequest{Subject: " Weekly ", Content: "**news**"})
		require.NoError(t, err)
		assert.Equal(t, 2, sent)
		b.AssertExpectations(t)
	})

	t.Run("broadcast failure", func(t *testing.T) {
		sendErr := errors.New("smtp down")
		b.On("Broadcast", mock.Anything, mock.Anything, "Weekly", "news").Return(1, sendErr).Once()

		_, err := s.Send(context.Background(), &SendRequest{Subject: "Weekly", Content: "news"})
		assert.ErrorIs(t, err, sendErr)
	})
}
