package mediaservice

import (
	"context"

	"github.com/stretchr/testify/mock"
)

type MockObjectStore struct {
	mock.Mock
}

func (m *MockObjectStore) Upload(ctx context.Context, in UploadInput) (*UploadResult, error) {
	args := m.Called(ctx, in)
	if res, ok := args.Get(0).(*UploadResult); ok {
		return res, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockObjectStore) Destroy(ctx context.Context, publicID string) error {
	args := m.Called(ctx, publicID)
	return args.Error(0)
}
