package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"grokimg/internal/domain"
	"grokimg/internal/service"
)

// MockImageService is a mock implementation of service.ImageService.
type MockImageService struct {
	mock.Mock
}

func (m *MockImageService) Upload(ctx context.Context, input service.UploadImageInput) (*domain.UploadResult, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.UploadResult), args.Error(1)
}

func (m *MockImageService) StoreLocal(ctx context.Context, input service.StoreImageInput) (*domain.LocalImage, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LocalImage), args.Error(1)
}

func (m *MockImageService) GetLocal(ctx context.Context, name string) (*domain.CacheEntry, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CacheEntry), args.Error(1)
}

// MockImageResolver is a mock implementation of service.ImageResolver.
type MockImageResolver struct {
	mock.Mock
}

func (m *MockImageResolver) Resolve(ctx context.Context, input string) (*domain.ResolvedImage, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ResolvedImage), args.Error(1)
}
