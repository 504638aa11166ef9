package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/davicafu/agrofarm/internal/shared/application"
	sharedDomain "github.com/davicafu/agrofarm/internal/shared/domain"
)

// MockUnitOfWork registra lo que el pipeline intenta persistir.
type MockUnitOfWork struct {
	mock.Mock
}

func (m *MockUnitOfWork) Track(ctx context.Context, agg sharedDomain.Aggregate) error {
	return m.Called(ctx, agg).Error(0)
}

func (m *MockUnitOfWork) Enqueue(ctx context.Context, evt sharedDomain.IntegrationEvent) error {
	return m.Called(ctx, evt).Error(0)
}

func (m *MockUnitOfWork) Commit(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

var _ application.UnitOfWork = (*MockUnitOfWork)(nil)
