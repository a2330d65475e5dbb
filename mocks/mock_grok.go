package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"grokimg/internal/domain"
)

// MockHeaderProvider is a mock implementation of port.HeaderProvider.
type MockHeaderProvider struct {
	mock.Mock
}

func (m *MockHeaderProvider) Headers(route string) map[string]string {
	args := m.Called(route)
	if args.Get(0) == nil {
		return nil
	}
	src := args.Get(0).(map[string]string)
	out := make(map[string]string, len(src))
	for k, v := range src {
		out[k] = v
	}
	return out
}

// MockFileUploader is a mock implementation of port.FileUploader.
type MockFileUploader struct {
	mock.Mock
}

func (m *MockFileUploader) UploadFile(ctx context.Context, img *domain.ResolvedImage, cookie string) (*domain.UploadResult, error) {
	args := m.Called(ctx, img, cookie)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.UploadResult), args.Error(1)
}
