package newsletterservice

import (
	"context"

	"github.com/stretchr/testify/mock"
)

type MockBroadcaster struct {
	mock.Mock
}

func (m *MockBroadcaster) Broadcast(ctx context.Context, recipients []string, subject, content string) (int, error) {
	args := m.Called(ctx, recipients, subject, content)
	return args.Int(0), args.Error(1)
}
